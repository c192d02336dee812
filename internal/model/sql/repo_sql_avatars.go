package sql

import (
	"context"
	"fmt"

	"avatarlab/internal/entity"

	"gorm.io/gorm"
)

// CreateAvatar persists a new marketplace avatar.
func (r *GormRepository) CreateAvatar(ctx context.Context, avatar *entity.DbAvatar) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if avatar == nil {
		return fmt.Errorf("avatar is nil")
	}
	return r.db.WithContext(ctx).Create(avatar).Error
}

// UpdateAvatar applies updates to an existing avatar.
func (r *GormRepository) UpdateAvatar(ctx context.Context, id uint, updates entity.AvatarUpdates) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return fmt.Errorf("invalid avatar id")
	}
	if updates.IsEmpty() {
		return nil
	}
	return r.db.WithContext(ctx).Model(&entity.DbAvatar{}).Where("id = ?", id).Updates(updates.ToMap()).Error
}

// GetAvatar loads one avatar by ID.
func (r *GormRepository) GetAvatar(ctx context.Context, id uint) (*entity.DbAvatar, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return nil, fmt.Errorf("invalid avatar id")
	}
	var avatar entity.DbAvatar
	if err := r.db.WithContext(ctx).First(&avatar, id).Error; err != nil {
		return nil, err
	}
	return &avatar, nil
}

// ListAvatars returns paginated marketplace avatars.
func (r *GormRepository) ListAvatars(ctx context.Context, params *entity.AvatarQuery) ([]entity.DbAvatar, *entity.Meta, error) {
	if r == nil || r.db == nil {
		return nil, nil, fmt.Errorf("repository not initialised")
	}

	query := r.db.WithContext(ctx).Model(&entity.DbAvatar{})
	if params != nil {
		if params.OwnerID != 0 {
			query = query.Where("user_id = ?", params.OwnerID)
		}
		if params.PublishedOnly {
			query = query.Where("is_published = ?", true)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, nil, err
	}

	var page, pageSize int64
	if params != nil {
		page = params.Page
		pageSize = params.PageSize
	}
	p, size, offset := normalizePage(page, pageSize)

	var avatars []entity.DbAvatar
	if err := query.Order("id DESC").Offset(offset).Limit(size).Find(&avatars).Error; err != nil {
		return nil, nil, err
	}

	meta := r.calculatePagination(total, p, size)
	return avatars, meta, nil
}

// DeleteAvatar removes an avatar by ID.
func (r *GormRepository) DeleteAvatar(ctx context.Context, id uint) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return fmt.Errorf("invalid avatar id")
	}
	result := r.db.WithContext(ctx).Delete(&entity.DbAvatar{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
