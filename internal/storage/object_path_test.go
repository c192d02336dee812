package storage

import (
	"regexp"
	"strings"
	"testing"

	"avatarlab/internal/entity"
)

func TestBuildObjectKeyOwnerScoped(t *testing.T) {
	key := buildObjectKey(SaveOptions{
		Bucket:    BucketImages,
		OwnerID:   7,
		BaseName:  "asset_12",
		Extension: "png",
	})

	pattern := regexp.MustCompile(`^generated-images/7/asset_12_\d+\.png$`)
	if !pattern.MatchString(key) {
		t.Errorf("key %q does not match owner-scoped layout", key)
	}
}

func TestBuildObjectKeyDefaults(t *testing.T) {
	key := buildObjectKey(SaveOptions{})
	if !strings.HasPrefix(key, "misc/0/asset_") {
		t.Errorf("expected fallback bucket and base, got %q", key)
	}
	if !strings.HasSuffix(key, ".bin") {
		t.Errorf("expected fallback extension, got %q", key)
	}
}

func TestBuildObjectKeySanitizesHostileInput(t *testing.T) {
	key := buildObjectKey(SaveOptions{
		Bucket:    "../../etc",
		OwnerID:   3,
		BaseName:  "../pass wd",
		Extension: ".PnG",
	})
	if strings.Contains(key, "..") || strings.Contains(key, " ") {
		t.Errorf("key %q contains unsafe characters", key)
	}
	if !strings.HasSuffix(key, ".png") {
		t.Errorf("expected lowered extension, got %q", key)
	}
}

func TestBucketForKind(t *testing.T) {
	tests := []struct {
		kind string
		want string
	}{
		{entity.AssetKindImage, BucketImages},
		{entity.AssetKindVideo, BucketVideos},
		{entity.AssetKindAudio, BucketAudio},
		{"", BucketImages},
		{"unknown", BucketImages},
	}
	for _, tt := range tests {
		if got := BucketForKind(tt.kind); got != tt.want {
			t.Errorf("%q: expected %q, got %q", tt.kind, tt.want, got)
		}
	}
}

func TestSanitizeToken(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"My-Avatar_01", "my-avatar_01"},
		{"  spaced out  ", "spacedout"},
		{"weird/../path", "weirdpath"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := SanitizeToken(tt.in); got != tt.want {
			t.Errorf("%q: expected %q, got %q", tt.in, tt.want, got)
		}
	}
}

func TestJoinPrefix(t *testing.T) {
	tests := []struct {
		prefix string
		key    string
		want   string
	}{
		{"", "a/b.png", "a/b.png"},
		{"uploads", "a/b.png", "uploads/a/b.png"},
		{"/uploads/", "/a/b.png", "uploads/a/b.png"},
	}
	for _, tt := range tests {
		if got := joinPrefix(tt.prefix, tt.key); got != tt.want {
			t.Errorf("joinPrefix(%q, %q): expected %q, got %q", tt.prefix, tt.key, tt.want, got)
		}
	}
}
