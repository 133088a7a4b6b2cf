package repository

import (
	"context"
	"errors"
	"time"

	"execassist-backend/internal/credential/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// gormCredentialRepository implements CredentialRepository using GORM
type gormCredentialRepository struct {
	db *gorm.DB
}

// NewCredentialRepository creates a new GORM-based CredentialRepository
func NewCredentialRepository(db *gorm.DB) CredentialRepository {
	return &gormCredentialRepository{db: db}
}

func (r *gormCredentialRepository) FindByAccountID(ctx context.Context, accountID string) (*domain.AccountCredential, error) {
	var cred domain.AccountCredential
	err := r.db.WithContext(ctx).Where("account_id = ?", accountID).First(&cred).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cred, nil
}

func (r *gormCredentialRepository) Upsert(ctx context.Context, cred *domain.AccountCredential) error {
	now := time.Now()
	if cred.CreatedAt.IsZero() {
		cred.CreatedAt = now
	}
	cred.UpdatedAt = now
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "account_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"email", "access_token", "refresh_token", "updated_at"}),
	}).Create(cred).Error
}
