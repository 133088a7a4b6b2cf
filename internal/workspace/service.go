package workspace

import (
	"context"
	"encoding/json"
	"net/url"

	"execassist-backend/pkg/ai"
	"execassist-backend/pkg/surface"
)

// Caller is the slice of a surface gateway the domain operations need.
type Caller interface {
	Call(ctx context.Context, accountID, method, path string, query url.Values, body any) (json.RawMessage, error)
}

// Service holds the six surface gateways and the AI service. Its typed
// operations are the only legitimate gateway callers.
type Service struct {
	mail     Caller
	calendar Caller
	docs     Caller
	sheets   Caller
	drive    Caller
	tasks    Caller
	ai       ai.CompletionService
}

func NewService(set *surface.Set, aiService ai.CompletionService) *Service {
	return &Service{
		mail:     set.Mail,
		calendar: set.Calendar,
		docs:     set.Docs,
		sheets:   set.Sheets,
		drive:    set.Drive,
		tasks:    set.Tasks,
		ai:       aiService,
	}
}

// NewServiceWithCallers wires arbitrary callers, used by tests.
func NewServiceWithCallers(mail, calendar, docs, sheets, drive, tasks Caller, aiService ai.CompletionService) *Service {
	return &Service{
		mail:     mail,
		calendar: calendar,
		docs:     docs,
		sheets:   sheets,
		drive:    drive,
		tasks:    tasks,
		ai:       aiService,
	}
}
