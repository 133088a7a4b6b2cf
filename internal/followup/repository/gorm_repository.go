package repository

import (
	"context"
	"errors"
	"time"

	"execassist-backend/internal/followup/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// gormFollowupRepository implements FollowupRepository using GORM
type gormFollowupRepository struct {
	db *gorm.DB
}

// NewFollowupRepository creates a new GORM-based FollowupRepository
func NewFollowupRepository(db *gorm.DB) FollowupRepository {
	return &gormFollowupRepository{db: db}
}

func (r *gormFollowupRepository) CreateTask(ctx context.Context, task *domain.FollowupTask) error {
	if task.ID == "" {
		task.ID = uuid.New().String()
	}
	now := time.Now()
	task.CreatedAt = now
	task.UpdatedAt = now
	return r.db.WithContext(ctx).Create(task).Error
}

func (r *gormFollowupRepository) FindTaskByID(ctx context.Context, id string) (*domain.FollowupTask, error) {
	var task domain.FollowupTask
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&task).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &task, nil
}

func (r *gormFollowupRepository) ListTasksByTeam(ctx context.Context, teamID string, status *domain.TaskStatus, limit, offset int) ([]*domain.FollowupTask, int64, error) {
	var tasks []*domain.FollowupTask
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.FollowupTask{}).Where("team_id = ?", teamID)
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("priority DESC, CASE WHEN due_at IS NULL THEN 1 ELSE 0 END, due_at ASC, created_at DESC").
		Limit(limit).Offset(offset).Find(&tasks).Error
	return tasks, total, err
}

func (r *gormFollowupRepository) ListDue(ctx context.Context, teamID string, now time.Time) ([]*domain.FollowupTask, error) {
	var tasks []*domain.FollowupTask
	err := r.db.WithContext(ctx).
		Where("team_id = ? AND status = ? AND due_at <= ?", teamID, domain.StatusSnoozed, now).
		Order("due_at ASC").Find(&tasks).Error
	return tasks, err
}

func (r *gormFollowupRepository) UpdateTask(ctx context.Context, task *domain.FollowupTask) error {
	task.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Save(task).Error
}

func (r *gormFollowupRepository) AppendEvent(ctx context.Context, event *domain.FollowupEvent) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	event.CreatedAt = time.Now()
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *gormFollowupRepository) ListEventsByTask(ctx context.Context, taskID string) ([]*domain.FollowupEvent, error) {
	var events []*domain.FollowupEvent
	err := r.db.WithContext(ctx).Where("task_id = ?", taskID).Order("created_at ASC").Find(&events).Error
	return events, err
}
