package sql

import (
	"context"
	"fmt"
	"strings"

	"avatarlab/internal/entity"
)

// CreateCredential persists a new stored vendor key.
func (r *GormRepository) CreateCredential(ctx context.Context, credential *entity.DbCredential) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if credential == nil {
		return fmt.Errorf("credential is nil")
	}
	if credential.Status == "" {
		credential.Status = entity.CredentialStatusActive
	}
	return r.db.WithContext(ctx).Create(credential).Error
}

// UpdateCredential applies status or bookkeeping updates to a credential.
func (r *GormRepository) UpdateCredential(ctx context.Context, id uint, updates entity.CredentialUpdates) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return fmt.Errorf("invalid credential id")
	}
	if updates.IsEmpty() {
		return nil
	}
	return r.db.WithContext(ctx).Model(&entity.DbCredential{}).Where("id = ?", id).Updates(updates.ToMap()).Error
}

// GetCredential loads one credential by ID.
func (r *GormRepository) GetCredential(ctx context.Context, id uint) (*entity.DbCredential, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return nil, fmt.Errorf("invalid credential id")
	}
	var credential entity.DbCredential
	if err := r.db.WithContext(ctx).First(&credential, id).Error; err != nil {
		return nil, err
	}
	return &credential, nil
}

// LatestActiveCredential returns the newest active credential for the given
// owner and service. Creation order breaks ties between multiple active rows.
func (r *GormRepository) LatestActiveCredential(ctx context.Context, userID uint, service string) (*entity.DbCredential, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	if userID == 0 {
		return nil, fmt.Errorf("invalid user id")
	}
	trimmed := strings.TrimSpace(service)
	if trimmed == "" {
		return nil, fmt.Errorf("service is empty")
	}

	var credential entity.DbCredential
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND service = ? AND status = ?", userID, trimmed, entity.CredentialStatusActive).
		Order("created_at DESC, id DESC").
		First(&credential).Error
	if err != nil {
		return nil, err
	}
	return &credential, nil
}

// ListCredentials returns all of a user's credentials, newest first.
func (r *GormRepository) ListCredentials(ctx context.Context, userID uint) ([]entity.DbCredential, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	if userID == 0 {
		return nil, fmt.Errorf("invalid user id")
	}
	var credentials []entity.DbCredential
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id DESC").Find(&credentials).Error; err != nil {
		return nil, err
	}
	return credentials, nil
}
