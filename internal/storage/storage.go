package storage

import (
	"context"
	"fmt"
	"strings"

	"avatarlab/internal/config"
	"avatarlab/internal/entity"
)

const (
	// TypeLocal stores objects on the local filesystem.
	TypeLocal = "local"
	// TypeS3 stores objects in Amazon S3 or a compatible backend.
	TypeS3 = "s3"
	// TypeOSS stores objects in Aliyun OSS.
	TypeOSS = "oss"
	// TypeCOS stores objects in Tencent COS.
	TypeCOS = "cos"
	// TypeR2 stores objects in Cloudflare R2.
	TypeR2 = "r2"
)

// Logical buckets for generated assets. Remote backends map these to key
// prefixes inside the configured bucket; the local backend maps them to
// directories.
const (
	BucketImages = "generated-images"
	BucketVideos = "generated-videos"
	BucketAudio  = "generated-audio"
)

// BucketForKind returns the logical bucket for an asset kind.
func BucketForKind(kind string) string {
	switch kind {
	case entity.AssetKindVideo:
		return BucketVideos
	case entity.AssetKindAudio:
		return BucketAudio
	default:
		return BucketImages
	}
}

// SaveOptions controls how a backend persists an object.
//
// Keys are owner-scoped: `{bucket}/{ownerID}/{baseName}_{timestamp}.{ext}`.
// When Extension is empty the backend falls back to "bin".
type SaveOptions struct {
	Bucket    string
	OwnerID   uint
	BaseName  string
	Extension string
}

// Storage persists binary data and returns a storage-specific object key
// (for the local backend, a relative path).
type Storage interface {
	Save(ctx context.Context, data []byte, opts SaveOptions) (string, error)
}

// LocalBaseDirProvider is implemented by backends that expose a local
// directory which can be served over HTTP directly.
type LocalBaseDirProvider interface {
	LocalBaseDir() string
}

// NewStorage instantiates the storage backend selected by configuration.
func NewStorage(cfg config.Config) (Storage, error) {
	typeName := strings.ToLower(strings.TrimSpace(cfg.StorageType))
	switch typeName {
	case "", TypeLocal:
		return NewLocalStorage(cfg.StorageLocalDir)
	case TypeS3:
		return NewS3Storage(cfg)
	case TypeOSS:
		return NewOSSStorage(cfg)
	case TypeCOS:
		return NewCOSStorage(cfg)
	case TypeR2:
		return NewR2Storage(cfg)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.StorageType)
	}
}
