package repository

import (
	"context"
	"time"

	"execassist-backend/internal/followup/domain"
)

// FollowupRepository defines data access for follow-up tasks and their
// append-only event log
type FollowupRepository interface {
	CreateTask(ctx context.Context, task *domain.FollowupTask) error

	// FindTaskByID returns nil when the task does not exist
	FindTaskByID(ctx context.Context, id string) (*domain.FollowupTask, error)

	// ListTasksByTeam returns team-visible tasks with optional status filter
	ListTasksByTeam(ctx context.Context, teamID string, status *domain.TaskStatus, limit, offset int) ([]*domain.FollowupTask, int64, error)

	// ListDue returns snoozed tasks whose due time has elapsed
	ListDue(ctx context.Context, teamID string, now time.Time) ([]*domain.FollowupTask, error)

	UpdateTask(ctx context.Context, task *domain.FollowupTask) error

	// AppendEvent writes one event row; events are never updated or deleted
	AppendEvent(ctx context.Context, event *domain.FollowupEvent) error

	ListEventsByTask(ctx context.Context, taskID string) ([]*domain.FollowupEvent, error)
}
