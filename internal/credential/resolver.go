package credential

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"avatarlab/internal/entity"
	"avatarlab/internal/model"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ErrCredentialMissing indicates that neither a user key nor a platform key
// exists for the requested service.
var ErrCredentialMissing = errors.New("credential missing")

// Source tells the caller where a resolved secret came from.
type Source string

const (
	SourceUser     Source = "user"
	SourcePlatform Source = "platform"
)

// Resolver resolves the vendor API key to use for a (user, service) pair.
//
// A user's own key always wins: the most recently created active credential
// row is decoded and returned. Without one the platform-wide key injected at
// construction is used. Platform keys are passed in explicitly so the
// resolver never reads ambient process state.
type Resolver struct {
	repo         model.Repository
	platformKeys map[string]string
}

// NewResolver creates a resolver. platformKeys maps service name to the
// platform-level fallback secret; missing entries mean no fallback.
func NewResolver(repo model.Repository, platformKeys map[string]string) *Resolver {
	keys := make(map[string]string, len(platformKeys))
	for service, secret := range platformKeys {
		if trimmed := strings.TrimSpace(secret); trimmed != "" {
			keys[strings.ToLower(strings.TrimSpace(service))] = trimmed
		}
	}
	return &Resolver{
		repo:         repo,
		platformKeys: keys,
	}
}

// Resolve returns the API key to use for the given user and service.
//
// A decode failure on the stored row falls through to the platform key:
// corrupt user data must not block service when a fallback exists. The
// last-used timestamp update is detached from the call; its failure is
// logged and never surfaces.
func (r *Resolver) Resolve(ctx context.Context, userID uint, service string) (string, Source, error) {
	normalized := strings.ToLower(strings.TrimSpace(service))
	if normalized == "" {
		return "", "", fmt.Errorf("service is empty")
	}

	if r.repo != nil && userID != 0 {
		row, err := r.repo.LatestActiveCredential(ctx, userID, normalized)
		switch {
		case err == nil:
			secret, decodeErr := DecodeSecret(row.EncodedSecret)
			if decodeErr == nil {
				go r.touchLastUsed(row.ID)
				return secret, SourceUser, nil
			}
			logrus.WithError(decodeErr).WithFields(logrus.Fields{
				"user_id":       userID,
				"service":       normalized,
				"credential_id": row.ID,
			}).Warn("stored credential is malformed, falling back to platform key")
		case errors.Is(err, gorm.ErrRecordNotFound):
			// No user key, fall through to the platform key.
		default:
			logrus.WithError(err).WithFields(logrus.Fields{
				"user_id": userID,
				"service": normalized,
			}).Error("failed to query user credential")
			return "", "", err
		}
	}

	if secret, ok := r.platformKeys[normalized]; ok {
		return secret, SourcePlatform, nil
	}

	return "", "", fmt.Errorf("%w: no %s API key configured, add one in Settings > API Keys", ErrCredentialMissing, normalized)
}

// touchLastUsed is fire-and-forget bookkeeping on its own deadline; the
// resolving request never waits for it.
func (r *Resolver) touchLastUsed(credentialID uint) {
	if r.repo == nil || credentialID == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	now := time.Now().UTC()
	updates := entity.CredentialUpdates{LastUsedAt: &now}
	if err := r.repo.UpdateCredential(ctx, credentialID, updates); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"credential_id": credentialID,
		}).Warn("failed to update credential last-used timestamp")
	}
}
