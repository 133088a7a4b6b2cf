package usecase

import (
	"context"
	"time"

	"execassist-backend/internal/action/domain"
	"execassist-backend/pkg/jsontype"
)

// MetricsReport is the read-side fold over the action ledger for one
// time window. Always fully populated; an empty window yields zero
// counts and empty slices, never an error.
type MetricsReport struct {
	Total        int64                          `json:"total"`
	ByStatus     map[domain.ActionStatus]int64  `json:"by_status"`
	ByActionType map[domain.ActionType]int64    `json:"by_action_type"`
	Feedback     map[string]int64               `json:"feedback"`
	Recent       []*domain.AssistantAction      `json:"recent"`
}

// ActionUsecase is the assistant action ledger.
type ActionUsecase interface {
	// Begin records the triggering request before the remote operation
	// executes
	Begin(ctx context.Context, userID string, actionType domain.ActionType, messageRef, threadRef string, payload jsontype.JSON) (*domain.AssistantAction, error)

	Complete(ctx context.Context, actionID string, result jsontype.JSON) (*domain.AssistantAction, error)
	AwaitConfirmation(ctx context.Context, actionID string, result jsontype.JSON) (*domain.AssistantAction, error)
	Fail(ctx context.Context, actionID string, cause string) (*domain.AssistantAction, error)

	Confirm(ctx context.Context, userID, actionID string) (*domain.AssistantAction, error)
	Undo(ctx context.Context, userID, actionID string) (*domain.AssistantAction, error)
	SubmitFeedback(ctx context.Context, userID, actionID, rating, note string) (*domain.AssistantAction, error)

	Get(ctx context.Context, userID, actionID string) (*domain.AssistantAction, error)
	Metrics(ctx context.Context, userID string, from, to time.Time) (*MetricsReport, error)
}
