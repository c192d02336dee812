package service

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"avatarlab/internal/entity"
	"avatarlab/internal/model"
	"avatarlab/internal/storage"
	"avatarlab/internal/utils"

	"github.com/sirupsen/logrus"
)

// maxAssetBytes caps how much of a remote asset is pulled into memory.
const maxAssetBytes = 256 << 20

// MaterializeResult reports where an asset ended up. Stored=false means the
// copy to object storage did not happen and URL is the original remote URL.
type MaterializeResult struct {
	Stored bool   `json:"stored"`
	URL    string `json:"url"`
}

// MigrationTally summarises one bulk inline-asset migration run.
type MigrationTally struct {
	Total    int `json:"total"`
	Migrated int `json:"migrated"`
	Skipped  int `json:"skipped"`
	Failed   int `json:"failed"`
}

// Materializer copies generated assets from vendor URLs and inline payloads
// into object storage. Materialization is best-effort durability: failures
// degrade to the original URL and never fail the caller's operation.
type Materializer struct {
	repo          model.Repository
	store         storage.Storage
	publicBaseURL string
	httpClient    *http.Client
}

// NewMaterializer creates a materializer. publicBaseURL prefixes stored
// object keys to build client-facing URLs.
func NewMaterializer(repo model.Repository, store storage.Storage, publicBaseURL string) *Materializer {
	return &Materializer{
		repo:          repo,
		store:         store,
		publicBaseURL: strings.TrimRight(strings.TrimSpace(publicBaseURL), "/"),
		httpClient:    &http.Client{Timeout: 120 * time.Second},
	}
}

// Materialize fetches a remote asset and stores a durable copy. Any fetch or
// upload failure returns the original URL unchanged with Stored=false.
func (m *Materializer) Materialize(ctx context.Context, ownerID uint, remoteURL string, localID uint, kind string) MaterializeResult {
	fallback := MaterializeResult{Stored: false, URL: remoteURL}
	if m == nil || m.store == nil || strings.TrimSpace(remoteURL) == "" {
		return fallback
	}

	if strings.HasPrefix(strings.TrimSpace(remoteURL), "data:") {
		return m.materializeInline(ctx, ownerID, remoteURL, localID, kind)
	}

	data, ext, err := m.fetch(ctx, remoteURL)
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"owner_id": ownerID,
			"asset_id": localID,
		}).Warn("asset fetch failed, keeping remote url")
		return fallback
	}

	key, err := m.store.Save(ctx, data, storage.SaveOptions{
		Bucket:    storage.BucketForKind(kind),
		OwnerID:   ownerID,
		BaseName:  fmt.Sprintf("asset_%d", localID),
		Extension: ext,
	})
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"owner_id": ownerID,
			"asset_id": localID,
		}).Warn("asset upload failed, keeping remote url")
		return fallback
	}

	return MaterializeResult{Stored: true, URL: m.publicURL(key)}
}

// materializeInline stores a decoded data: payload. The inline payload is the
// only copy of the asset, so a failure keeps it as the URL.
func (m *Materializer) materializeInline(ctx context.Context, ownerID uint, dataURL string, localID uint, kind string) MaterializeResult {
	fallback := MaterializeResult{Stored: false, URL: dataURL}

	data, ext, err := utils.DecodeMediaPayload(dataURL)
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"owner_id": ownerID,
			"asset_id": localID,
		}).Warn("inline payload decode failed")
		return fallback
	}

	key, err := m.store.Save(ctx, data, storage.SaveOptions{
		Bucket:    storage.BucketForKind(kind),
		OwnerID:   ownerID,
		BaseName:  fmt.Sprintf("asset_%d", localID),
		Extension: ext,
	})
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"owner_id": ownerID,
			"asset_id": localID,
		}).Warn("inline payload upload failed")
		return fallback
	}

	return MaterializeResult{Stored: true, URL: m.publicURL(key)}
}

// MigrateInlineAssets rewrites the owner's data: asset records to object
// storage URLs. Each record succeeds or fails on its own; the batch never
// aborts. Records already migrated by a previous run are skipped, so re-runs
// are safe.
func (m *Materializer) MigrateInlineAssets(ctx context.Context, ownerID uint) (*MigrationTally, error) {
	if m == nil || m.repo == nil {
		return nil, fmt.Errorf("materializer not initialised")
	}

	rows, err := m.repo.ListInlineAssets(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	tally := &MigrationTally{Total: len(rows)}
	for i := range rows {
		row := &rows[i]
		if !row.HasInlinePayload() {
			tally.Skipped++
			continue
		}

		result := m.materializeInline(ctx, ownerID, row.AssetURL, row.ID, row.Kind)
		if !result.Stored {
			tally.Failed++
			continue
		}

		updates := entity.AssetUpdates{AssetURL: &result.URL}
		if err := m.repo.UpdateAsset(ctx, row.ID, updates); err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{
				"owner_id": ownerID,
				"asset_id": row.ID,
			}).Warn("migrated asset url update failed")
			tally.Failed++
			continue
		}
		tally.Migrated++
	}

	logrus.WithFields(logrus.Fields{
		"owner_id": ownerID,
		"total":    tally.Total,
		"migrated": tally.Migrated,
		"skipped":  tally.Skipped,
		"failed":   tally.Failed,
	}).Info("inline asset migration finished")
	return tally, nil
}

// StoreBytes saves raw bytes produced locally (TTS audio and the like) and
// returns the public URL.
func (m *Materializer) StoreBytes(ctx context.Context, ownerID uint, data []byte, localID uint, kind, ext string) (string, error) {
	key, err := m.store.Save(ctx, data, storage.SaveOptions{
		Bucket:    storage.BucketForKind(kind),
		OwnerID:   ownerID,
		BaseName:  fmt.Sprintf("asset_%d", localID),
		Extension: ext,
	})
	if err != nil {
		return "", err
	}
	return m.publicURL(key), nil
}

func (m *Materializer) fetch(ctx context.Context, remoteURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, remoteURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("create request: %w", err)
	}

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, "", fmt.Errorf("remote returned http %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxAssetBytes))
	if err != nil {
		return nil, "", fmt.Errorf("read body: %w", err)
	}
	if len(data) == 0 {
		return nil, "", fmt.Errorf("empty body")
	}

	ext := utils.ExtensionFromMime(resp.Header.Get("Content-Type"))
	if ext == "" {
		ext = extensionFromURL(remoteURL)
	}
	if ext == "" {
		ext = utils.ExtensionFromMime(http.DetectContentType(data))
	}
	return data, ext, nil
}

func (m *Materializer) publicURL(key string) string {
	if m.publicBaseURL == "" {
		return "/" + strings.TrimLeft(key, "/")
	}
	return m.publicBaseURL + "/" + strings.TrimLeft(key, "/")
}

func extensionFromURL(remoteURL string) string {
	clean := remoteURL
	if idx := strings.IndexAny(clean, "?#"); idx >= 0 {
		clean = clean[:idx]
	}
	ext := strings.TrimPrefix(path.Ext(clean), ".")
	if len(ext) > 5 {
		return ""
	}
	return strings.ToLower(ext)
}
