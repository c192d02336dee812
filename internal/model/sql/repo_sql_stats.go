package sql

import (
	"context"
	"fmt"
	"time"

	"avatarlab/internal/entity"
)

// PlatformStats computes the administrative aggregate in the database. The
// result is derived on demand and never persisted.
func (r *GormRepository) PlatformStats(ctx context.Context) (*entity.PlatformStats, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}

	stats := &entity.PlatformStats{GeneratedAt: time.Now().UTC()}
	db := r.db.WithContext(ctx)

	if err := db.Model(&entity.DbUser{}).Count(&stats.TotalUsers).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&entity.DbUser{}).Where("is_active = ?", true).Count(&stats.ActiveUsers).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&entity.DbGeneratedAsset{}).Count(&stats.TotalAssets).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&entity.DbGeneratedAsset{}).Where("status = ?", entity.AssetStatusCompleted).Count(&stats.CompletedAssets).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&entity.DbGeneratedAsset{}).Where("status = ?", entity.AssetStatusFailed).Count(&stats.FailedAssets).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&entity.DbCredential{}).Where("status = ?", entity.CredentialStatusActive).Count(&stats.TotalCredentials).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&entity.DbAvatar{}).Where("is_published = ?", true).Count(&stats.PublishedAvatars).Error; err != nil {
		return nil, err
	}

	var revenue *int64
	err := db.Model(&entity.DbAvatar{}).
		Where("is_published = ?", true).
		Select("SUM(price_cents)").
		Scan(&revenue).Error
	if err != nil {
		return nil, err
	}
	if revenue != nil {
		stats.MarketplaceCents = *revenue
	}

	return stats, nil
}
