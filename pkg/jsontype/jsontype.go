package jsontype

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// JSON is a map-shaped jsonb column. Ledger rows treat it as opaque;
// only the drafting and classification routines interpret the contents.
type JSON map[string]any

func (j JSON) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSON) Scan(value any) error {
	if value == nil {
		*j = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, j)
	case string:
		return json.Unmarshal([]byte(v), j)
	default:
		return errors.New("jsontype: unsupported column type")
	}
}

func (JSON) GormDataType() string {
	return "jsonb"
}
