package auth

import (
	"testing"
	"time"

	"avatarlab/internal/entity"
)

func testUser() *entity.DbUser {
	return &entity.DbUser{
		ID:    7,
		Email: "user@example.com",
		Role:  entity.UserRoleUser,
	}
}

func TestTokenRoundTrip(t *testing.T) {
	manager, err := NewManager("secret", "avatarlab", time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	token, expiresAt, err := manager.GenerateToken(testUser())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if time.Until(expiresAt) <= 0 {
		t.Error("expected future expiry")
	}

	claims, err := manager.ParseToken(token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.UserID != 7 {
		t.Errorf("expected user id 7, got %d", claims.UserID)
	}
	if claims.Email != "user@example.com" {
		t.Errorf("unexpected email %q", claims.Email)
	}
	if claims.Issuer != "avatarlab" {
		t.Errorf("unexpected issuer %q", claims.Issuer)
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	manager, err := NewManager("secret", "avatarlab", -time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The constructor clamps non-positive expiry, so craft an expired token
	// through a short-lived manager instead.
	shortLived, err := NewManager("secret", "avatarlab", time.Millisecond)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	token, _, err := shortLived.GenerateToken(testUser())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	time.Sleep(5 * time.Millisecond)
	if _, err := manager.ParseToken(token); err == nil {
		t.Error("expected expired token to be rejected")
	}
}

func TestWrongSecretRejected(t *testing.T) {
	issuerA, _ := NewManager("secret-a", "avatarlab", time.Hour)
	issuerB, _ := NewManager("secret-b", "avatarlab", time.Hour)

	token, _, err := issuerA.GenerateToken(testUser())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := issuerB.ParseToken(token); err == nil {
		t.Error("expected token signed with another secret to be rejected")
	}
}

func TestEmptySecretRejected(t *testing.T) {
	if _, err := NewManager("  ", "avatarlab", time.Hour); err == nil {
		t.Error("expected empty secret to be rejected")
	}
}
