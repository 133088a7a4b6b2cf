package workspace

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// ValueRange is a rectangular block of spreadsheet cells.
type ValueRange struct {
	Range  string  `json:"range,omitempty"`
	Values [][]any `json:"values"`
}

func (s *Service) GetValues(ctx context.Context, accountID, spreadsheetID, cellRange string) (*ValueRange, error) {
	raw, err := s.sheets.Call(ctx, accountID, http.MethodGet,
		"spreadsheets/"+spreadsheetID+"/values/"+url.PathEscape(cellRange), nil, nil)
	if err != nil {
		return nil, err
	}
	var vr ValueRange
	if err := json.Unmarshal(raw, &vr); err != nil {
		return nil, fmt.Errorf("parse values: %w", err)
	}
	return &vr, nil
}

func (s *Service) AppendValues(ctx context.Context, accountID, spreadsheetID, cellRange string, rows [][]any) error {
	q := url.Values{}
	q.Set("valueInputOption", "USER_ENTERED")
	_, err := s.sheets.Call(ctx, accountID, http.MethodPost,
		"spreadsheets/"+spreadsheetID+"/values/"+url.PathEscape(cellRange)+":append", q,
		&ValueRange{Values: rows})
	return err
}
