package repository

import (
	"context"
	"time"

	"execassist-backend/internal/action/domain"
)

// ActionRepository defines data access for the assistant action ledger
type ActionRepository interface {
	Create(ctx context.Context, action *domain.AssistantAction) error

	// FindByID returns nil when the action does not exist
	FindByID(ctx context.Context, id string) (*domain.AssistantAction, error)

	Update(ctx context.Context, action *domain.AssistantAction) error

	// ListByUserWindow returns all of a user's actions inside the time
	// window, newest first
	ListByUserWindow(ctx context.Context, userID string, from, to time.Time) ([]*domain.AssistantAction, error)
}
