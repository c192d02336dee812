package sql

import (
	"context"
	"fmt"
	"strings"

	"avatarlab/internal/entity"

	"gorm.io/gorm"
)

// CreateAsset persists a new generated-asset record.
func (r *GormRepository) CreateAsset(ctx context.Context, asset *entity.DbGeneratedAsset) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if asset == nil {
		return fmt.Errorf("asset is nil")
	}
	if asset.Status == "" {
		asset.Status = entity.AssetStatusPending
	}
	return r.db.WithContext(ctx).Create(asset).Error
}

// UpdateAsset applies updates to an existing asset record.
func (r *GormRepository) UpdateAsset(ctx context.Context, id uint, updates entity.AssetUpdates) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return fmt.Errorf("invalid asset id")
	}
	if updates.IsEmpty() {
		return nil
	}
	return r.db.WithContext(ctx).Model(&entity.DbGeneratedAsset{}).Where("id = ?", id).Updates(updates.ToMap()).Error
}

// GetAsset loads one asset record by ID.
func (r *GormRepository) GetAsset(ctx context.Context, id uint) (*entity.DbGeneratedAsset, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return nil, fmt.Errorf("invalid asset id")
	}
	var asset entity.DbGeneratedAsset
	if err := r.db.WithContext(ctx).First(&asset, id).Error; err != nil {
		return nil, err
	}
	return &asset, nil
}

// GetAssetByTaskID loads the owner's asset record tracking a vendor-side job.
func (r *GormRepository) GetAssetByTaskID(ctx context.Context, userID uint, taskID string) (*entity.DbGeneratedAsset, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	trimmed := strings.TrimSpace(taskID)
	if userID == 0 || trimmed == "" {
		return nil, fmt.Errorf("invalid task lookup")
	}
	var asset entity.DbGeneratedAsset
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND external_task_id = ?", userID, trimmed).
		Order("id DESC").
		First(&asset).Error
	if err != nil {
		return nil, err
	}
	return &asset, nil
}

// ListAssets returns paginated asset records.
func (r *GormRepository) ListAssets(ctx context.Context, params *entity.AssetQuery) ([]entity.DbGeneratedAsset, *entity.Meta, error) {
	if r == nil || r.db == nil {
		return nil, nil, fmt.Errorf("repository not initialised")
	}

	query := r.db.WithContext(ctx).Model(&entity.DbGeneratedAsset{})
	if params != nil {
		if params.UserID != 0 {
			query = query.Where("user_id = ?", params.UserID)
		}
		if trimmed := strings.TrimSpace(params.Kind); trimmed != "" {
			query = query.Where("kind = ?", trimmed)
		}
		if trimmed := strings.TrimSpace(params.Provider); trimmed != "" {
			query = query.Where("provider = ?", trimmed)
		}
		if trimmed := strings.TrimSpace(params.Status); trimmed != "" {
			query = query.Where("status = ?", trimmed)
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

	var assets []entity.DbGeneratedAsset
	if err := query.Order("id DESC").Offset(offset).Limit(size).Find(&assets).Error; err != nil {
		return nil, nil, err
	}

	meta := r.calculatePagination(total, p, size)
	return assets, meta, nil
}

// ListInlineAssets returns the owner's records whose URL still carries an
// inline data: payload. Used by the bulk migration.
func (r *GormRepository) ListInlineAssets(ctx context.Context, userID uint) ([]entity.DbGeneratedAsset, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	if userID == 0 {
		return nil, fmt.Errorf("invalid user id")
	}
	var assets []entity.DbGeneratedAsset
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND asset_url LIKE ?", userID, "data:%").
		Order("id ASC").
		Find(&assets).Error
	if err != nil {
		return nil, err
	}
	return assets, nil
}

// DeleteAsset removes an asset record by ID.
func (r *GormRepository) DeleteAsset(ctx context.Context, id uint) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return fmt.Errorf("invalid asset id")
	}
	result := r.db.WithContext(ctx).Delete(&entity.DbGeneratedAsset{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
