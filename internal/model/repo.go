package model

import (
	"context"

	"avatarlab/internal/entity"
)

// Repository defines the persistence operations used by the service.
type Repository interface {
	// Users
	CreateUser(ctx context.Context, user *entity.DbUser) error
	UpdateUser(ctx context.Context, id uint, updates entity.UserUpdates) error
	GetUserByEmail(ctx context.Context, email string) (*entity.DbUser, error)
	GetUserByID(ctx context.Context, id uint) (*entity.DbUser, error)
	ListUsers(ctx context.Context, params *entity.UserQuery) ([]entity.DbUser, *entity.Meta, error)
	DeleteUser(ctx context.Context, id uint) error
	CountUsers(ctx context.Context) (int64, error)

	// Credentials. Revocation is a status update, never a row delete.
	CreateCredential(ctx context.Context, credential *entity.DbCredential) error
	UpdateCredential(ctx context.Context, id uint, updates entity.CredentialUpdates) error
	GetCredential(ctx context.Context, id uint) (*entity.DbCredential, error)
	// LatestActiveCredential returns the most recently created active row
	// for (userID, service), or gorm.ErrRecordNotFound.
	LatestActiveCredential(ctx context.Context, userID uint, service string) (*entity.DbCredential, error)
	ListCredentials(ctx context.Context, userID uint) ([]entity.DbCredential, error)

	// Generated assets
	CreateAsset(ctx context.Context, asset *entity.DbGeneratedAsset) error
	UpdateAsset(ctx context.Context, id uint, updates entity.AssetUpdates) error
	GetAsset(ctx context.Context, id uint) (*entity.DbGeneratedAsset, error)
	// GetAssetByTaskID returns the owner's most recent record tracking the
	// given vendor task id, or gorm.ErrRecordNotFound.
	GetAssetByTaskID(ctx context.Context, userID uint, taskID string) (*entity.DbGeneratedAsset, error)
	ListAssets(ctx context.Context, params *entity.AssetQuery) ([]entity.DbGeneratedAsset, *entity.Meta, error)
	// ListInlineAssets returns the owner's asset records whose URL still
	// holds an inline data: payload.
	ListInlineAssets(ctx context.Context, userID uint) ([]entity.DbGeneratedAsset, error)
	DeleteAsset(ctx context.Context, id uint) error

	// Marketplace avatars
	CreateAvatar(ctx context.Context, avatar *entity.DbAvatar) error
	UpdateAvatar(ctx context.Context, id uint, updates entity.AvatarUpdates) error
	GetAvatar(ctx context.Context, id uint) (*entity.DbAvatar, error)
	ListAvatars(ctx context.Context, params *entity.AvatarQuery) ([]entity.DbAvatar, *entity.Meta, error)
	DeleteAvatar(ctx context.Context, id uint) error

	// PlatformStats computes the administrative aggregate in the database.
	PlatformStats(ctx context.Context) (*entity.PlatformStats, error)
}
