package usecase

import (
	"context"
	"time"

	"execassist-backend/internal/followup/domain"
	"execassist-backend/pkg/jsontype"
)

// CreateTaskRequest is the ingestion entry point's payload.
type CreateTaskRequest struct {
	TeamID           string
	OwnerUserID      string
	ThreadRef        string
	MessageRef       string
	CounterpartEmail string
	CounterpartName  string
	Subject          string
	Summary          string
	Priority         int
	DueAt            *time.Time
	SuggestedSendAt  *time.Time
	ToneHint         string
	Metadata         jsontype.JSON
}

// FollowupUsecase is the follow-up task state machine. Every successful
// mutation appends exactly one event; ownership is checked before any
// write or remote call.
type FollowupUsecase interface {
	Create(ctx context.Context, req CreateTaskRequest) (*domain.FollowupTask, error)
	Get(ctx context.Context, callerTeamID, taskID string) (*domain.FollowupTask, error)
	ListForTeam(ctx context.Context, teamID string, status *domain.TaskStatus, limit, offset int) ([]*domain.FollowupTask, int64, error)
	ListDue(ctx context.Context, teamID string) ([]*domain.FollowupTask, error)
	Events(ctx context.Context, callerTeamID, taskID string) ([]*domain.FollowupEvent, error)

	Approve(ctx context.Context, callerUserID, taskID string, sendAt time.Time) (*domain.FollowupTask, error)
	Snooze(ctx context.Context, callerUserID, taskID string, minutes int) (*domain.FollowupTask, error)
	Dismiss(ctx context.Context, callerUserID, taskID, reason string) (*domain.FollowupTask, error)
	Regenerate(ctx context.Context, callerUserID, taskID, toneHint string) (*domain.FollowupTask, error)

	// MarkSent is called by the external sender once the follow-up
	// actually went out.
	MarkSent(ctx context.Context, taskID string) (*domain.FollowupTask, error)
}
