package utils

import (
	"encoding/base64"
	"testing"
)

func TestDecodeMediaPayload(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte("png-bytes"))

	t.Run("data url", func(t *testing.T) {
		data, ext, err := DecodeMediaPayload("data:image/png;base64," + payload)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(data) != "png-bytes" {
			t.Errorf("unexpected payload %q", data)
		}
		if ext != "png" {
			t.Errorf("expected png extension, got %q", ext)
		}
	})

	t.Run("bare base64 defaults to jpeg", func(t *testing.T) {
		_, ext, err := DecodeMediaPayload(payload)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ext != "jpg" {
			t.Errorf("expected jpg extension, got %q", ext)
		}
	})

	t.Run("invalid base64", func(t *testing.T) {
		if _, _, err := DecodeMediaPayload("data:image/png;base64,%%%"); err == nil {
			t.Error("expected error")
		}
	})

	t.Run("empty", func(t *testing.T) {
		if _, _, err := DecodeMediaPayload("   "); err == nil {
			t.Error("expected error")
		}
	})
}

func TestExtensionFromMime(t *testing.T) {
	tests := []struct {
		mime string
		want string
	}{
		{"image/png", "png"},
		{"image/jpeg; charset=binary", "jpg"},
		{"video/mp4", "mp4"},
		{"audio/mpeg", "mp3"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := ExtensionFromMime(tt.mime); got != tt.want {
			t.Errorf("%q: expected %q, got %q", tt.mime, tt.want, got)
		}
	}
}

func TestSplitDataURL(t *testing.T) {
	mimeType, payload := SplitDataURL("data:image/webp;base64,QUJD")
	if mimeType != "image/webp" || payload != "QUJD" {
		t.Errorf("unexpected split: %q %q", mimeType, payload)
	}

	mimeType, payload = SplitDataURL("QUJD")
	if mimeType != "image/jpeg" || payload != "QUJD" {
		t.Errorf("expected jpeg fallback, got %q %q", mimeType, payload)
	}
}
