package repository

import (
	"context"
	"errors"
	"time"

	"execassist-backend/internal/action/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// gormActionRepository implements ActionRepository using GORM
type gormActionRepository struct {
	db *gorm.DB
}

// NewActionRepository creates a new GORM-based ActionRepository
func NewActionRepository(db *gorm.DB) ActionRepository {
	return &gormActionRepository{db: db}
}

func (r *gormActionRepository) Create(ctx context.Context, action *domain.AssistantAction) error {
	if action.ID == "" {
		action.ID = uuid.New().String()
	}
	now := time.Now()
	action.CreatedAt = now
	action.UpdatedAt = now
	return r.db.WithContext(ctx).Create(action).Error
}

func (r *gormActionRepository) FindByID(ctx context.Context, id string) (*domain.AssistantAction, error) {
	var action domain.AssistantAction
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&action).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &action, nil
}

func (r *gormActionRepository) Update(ctx context.Context, action *domain.AssistantAction) error {
	action.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Save(action).Error
}

func (r *gormActionRepository) ListByUserWindow(ctx context.Context, userID string, from, to time.Time) ([]*domain.AssistantAction, error) {
	var actions []*domain.AssistantAction
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND created_at >= ? AND created_at < ?", userID, from, to).
		Order("created_at DESC").Find(&actions).Error
	return actions, err
}
