package credential

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"avatarlab/internal/entity"
	"avatarlab/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fakeRepo stubs the credential queries; unrelated repository methods panic
// through the embedded nil interface if a test reaches them.
type fakeRepo struct {
	model.Repository

	latest    *entity.DbCredential
	latestErr error

	mu      sync.Mutex
	touched []uint
}

func (f *fakeRepo) LatestActiveCredential(ctx context.Context, userID uint, service string) (*entity.DbCredential, error) {
	if f.latestErr != nil {
		return nil, f.latestErr
	}
	return f.latest, nil
}

func (f *fakeRepo) UpdateCredential(ctx context.Context, id uint, updates entity.CredentialUpdates) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.touched = append(f.touched, id)
	return nil
}

func (f *fakeRepo) touchedIDs() []uint {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]uint(nil), f.touched...)
}

func encodedSecret(t *testing.T, secret string) string {
	t.Helper()
	encoded, err := EncodeSecret(secret)
	require.NoError(t, err)
	return encoded
}

func TestResolvePrefersUserKey(t *testing.T) {
	repo := &fakeRepo{
		latest: &entity.DbCredential{
			ID:            42,
			UserID:        7,
			Service:       entity.ServiceOpenAI,
			EncodedSecret: encodedSecret(t, "sk-user-key"),
			Status:        entity.CredentialStatusActive,
		},
	}
	resolver := NewResolver(repo, map[string]string{"openai": "sk-platform-key"})

	secret, source, err := resolver.Resolve(context.Background(), 7, "OpenAI")
	require.NoError(t, err)
	assert.Equal(t, "sk-user-key", secret)
	assert.Equal(t, SourceUser, source)

	// The last-used update is detached; wait for it rather than sleeping.
	assert.Eventually(t, func() bool {
		ids := repo.touchedIDs()
		return len(ids) == 1 && ids[0] == 42
	}, 2*time.Second, 10*time.Millisecond)
}

func TestResolveFallsBackToPlatformKey(t *testing.T) {
	repo := &fakeRepo{latestErr: gorm.ErrRecordNotFound}
	resolver := NewResolver(repo, map[string]string{"heygen": "hg-platform"})

	secret, source, err := resolver.Resolve(context.Background(), 7, "heygen")
	require.NoError(t, err)
	assert.Equal(t, "hg-platform", secret)
	assert.Equal(t, SourcePlatform, source)
	assert.Empty(t, repo.touchedIDs())
}

func TestResolveDecodeFailureFallsThrough(t *testing.T) {
	repo := &fakeRepo{
		latest: &entity.DbCredential{
			ID:            9,
			EncodedSecret: "garbage-not-an-envelope",
			Status:        entity.CredentialStatusActive,
		},
	}
	resolver := NewResolver(repo, map[string]string{"openai": "sk-platform-key"})

	secret, source, err := resolver.Resolve(context.Background(), 7, "openai")
	require.NoError(t, err)
	assert.Equal(t, "sk-platform-key", secret)
	assert.Equal(t, SourcePlatform, source)
	assert.Empty(t, repo.touchedIDs(), "a corrupt row must not be marked used")
}

func TestResolveCredentialMissing(t *testing.T) {
	repo := &fakeRepo{latestErr: gorm.ErrRecordNotFound}
	resolver := NewResolver(repo, nil)

	_, _, err := resolver.Resolve(context.Background(), 7, "kie")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCredentialMissing)
	assert.Contains(t, err.Error(), "kie")
	assert.Contains(t, err.Error(), "Settings > API Keys")
}

func TestResolveRepoErrorSurfaces(t *testing.T) {
	dbErr := errors.New("connection refused")
	repo := &fakeRepo{latestErr: dbErr}
	resolver := NewResolver(repo, map[string]string{"openai": "sk-platform-key"})

	_, _, err := resolver.Resolve(context.Background(), 7, "openai")
	assert.ErrorIs(t, err, dbErr)
}

func TestResolveBlankPlatformKeysIgnored(t *testing.T) {
	repo := &fakeRepo{latestErr: gorm.ErrRecordNotFound}
	resolver := NewResolver(repo, map[string]string{"openai": "   "})

	_, _, err := resolver.Resolve(context.Background(), 7, "openai")
	assert.ErrorIs(t, err, ErrCredentialMissing)
}
