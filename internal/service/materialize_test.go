package service

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"avatarlab/internal/entity"
	"avatarlab/internal/model"
	"avatarlab/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStorage struct {
	mu     sync.Mutex
	saves  []storage.SaveOptions
	failOn map[string]bool
}

func (f *fakeStorage) Save(ctx context.Context, data []byte, opts storage.SaveOptions) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failOn != nil && f.failOn[opts.BaseName] {
		return "", errors.New("bucket unavailable")
	}
	f.saves = append(f.saves, opts)
	return opts.Bucket + "/" + opts.BaseName + ".bin", nil
}

type fakeAssetRepo struct {
	model.Repository

	inline  []entity.DbGeneratedAsset
	updated map[uint]entity.AssetUpdates
}

func (f *fakeAssetRepo) ListInlineAssets(ctx context.Context, userID uint) ([]entity.DbGeneratedAsset, error) {
	return f.inline, nil
}

func (f *fakeAssetRepo) UpdateAsset(ctx context.Context, id uint, updates entity.AssetUpdates) error {
	if f.updated == nil {
		f.updated = make(map[uint]entity.AssetUpdates)
	}
	f.updated[id] = updates
	return nil
}

func dataURLFor(payload string) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte(payload))
}

func TestMaterializeFetchFailureKeepsRemoteURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	store := &fakeStorage{}
	m := NewMaterializer(nil, store, "/files")

	result := m.Materialize(context.Background(), 7, server.URL+"/img.png", 1, entity.AssetKindImage)
	assert.False(t, result.Stored)
	assert.Equal(t, server.URL+"/img.png", result.URL)
	assert.Empty(t, store.saves)
}

func TestMaterializeSuccessStoresUnderOwnerBucket(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write([]byte("png-bytes"))
	}))
	defer server.Close()

	store := &fakeStorage{}
	m := NewMaterializer(nil, store, "/files")

	result := m.Materialize(context.Background(), 7, server.URL+"/img.png", 12, entity.AssetKindImage)
	require.True(t, result.Stored)
	assert.True(t, strings.HasPrefix(result.URL, "/files/"))

	require.Len(t, store.saves, 1)
	saved := store.saves[0]
	assert.Equal(t, storage.BucketImages, saved.Bucket)
	assert.Equal(t, uint(7), saved.OwnerID)
	assert.Equal(t, "asset_12", saved.BaseName)
	assert.Equal(t, "png", saved.Extension)
}

func TestMaterializeUploadFailureKeepsRemoteURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("video-bytes"))
	}))
	defer server.Close()

	store := &fakeStorage{failOn: map[string]bool{"asset_3": true}}
	m := NewMaterializer(nil, store, "/files")

	result := m.Materialize(context.Background(), 7, server.URL+"/v.mp4", 3, entity.AssetKindVideo)
	assert.False(t, result.Stored)
	assert.Equal(t, server.URL+"/v.mp4", result.URL)
}

func TestMigrateInlineAssetsTalliesPartialFailure(t *testing.T) {
	repo := &fakeAssetRepo{
		inline: []entity.DbGeneratedAsset{
			{ID: 1, UserID: 7, Kind: entity.AssetKindImage, AssetURL: dataURLFor("good-image")},
			{ID: 2, UserID: 7, Kind: entity.AssetKindImage, AssetURL: "data:image/png;base64,%%%broken%%%"},
			{ID: 3, UserID: 7, Kind: entity.AssetKindImage, AssetURL: "https://cdn.example.com/already-migrated.png"},
		},
	}
	store := &fakeStorage{}
	m := NewMaterializer(repo, store, "/files")

	tally, err := m.MigrateInlineAssets(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 3, tally.Total)
	assert.Equal(t, 1, tally.Migrated)
	assert.Equal(t, 1, tally.Failed)
	assert.Equal(t, 1, tally.Skipped)

	// Only the successfully stored record is rewritten.
	require.Contains(t, repo.updated, uint(1))
	require.NotContains(t, repo.updated, uint(2))
	require.NotContains(t, repo.updated, uint(3))
	assert.True(t, strings.HasPrefix(*repo.updated[1].AssetURL, "/files/"))
}

func TestMigrateInlineAssetsRerunIsIdempotent(t *testing.T) {
	repo := &fakeAssetRepo{
		inline: []entity.DbGeneratedAsset{
			{ID: 1, UserID: 7, Kind: entity.AssetKindImage, AssetURL: "/files/generated-images/7/asset_1.png"},
		},
	}
	m := NewMaterializer(repo, &fakeStorage{}, "/files")

	tally, err := m.MigrateInlineAssets(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 1, tally.Skipped)
	assert.Zero(t, tally.Migrated)
	assert.Zero(t, tally.Failed)
	assert.Empty(t, repo.updated)
}
