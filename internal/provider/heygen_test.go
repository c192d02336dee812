package provider

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"avatarlab/internal/entity"
)

func videoRequest(avatarID, script string) entity.VideoGenerationRequest {
	return entity.VideoGenerationRequest{AvatarID: avatarID, Script: script}
}

func newTestHeyGenClient(t *testing.T, handler http.HandlerFunc) *HeyGenClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewHeyGenClient("test-key")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	client.SetBaseURL(server.URL)
	return client
}

func TestListAvatarsFiltersPublicCatalog(t *testing.T) {
	client := newTestHeyGenClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-Api-Key"); got != "test-key" {
			t.Errorf("expected api key header, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"data": {
				"avatars": [
					{"avatar_id":"own","avatar_name":"Mine","is_public_avatar":false},
					{"avatar_id":"catalog","avatar_name":"Stock","is_public_avatar":true},
					{"avatar_id":"custom","avatar_name":"Custom","is_custom":true},
					{"avatar_id":"unknown","avatar_name":"NoFlags"}
				],
				"talking_photos": [
					{"talking_photo_id":"tp1","is_talking_photo":true}
				]
			}
		}`))
	})

	avatars, err := client.ListAvatars(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(avatars) != 3 {
		t.Fatalf("expected 3 owned items, got %d", len(avatars))
	}

	// The item with no ownership flags must be excluded, not guessed at.
	for _, raw := range avatars {
		var item struct {
			AvatarID string `json:"avatar_id"`
		}
		if err := json.Unmarshal(raw, &item); err != nil {
			t.Fatalf("unexpected unmarshal error: %v", err)
		}
		if item.AvatarID == "catalog" || item.AvatarID == "unknown" {
			t.Errorf("item %q should have been filtered out", item.AvatarID)
		}
	}
}

func TestListAvatarsMirrorsVendorError(t *testing.T) {
	client := newTestHeyGenClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"rate limited"}}`))
	})

	_, err := client.ListAvatars(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	var vendorErr *Error
	if !errors.As(err, &vendorErr) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if vendorErr.Status != http.StatusTooManyRequests {
		t.Errorf("expected status 429, got %d", vendorErr.Status)
	}
	if vendorErr.Message != "rate limited" {
		t.Errorf("expected vendor message, got %q", vendorErr.Message)
	}
}

func TestGenerateVideoReturnsTaskID(t *testing.T) {
	client := newTestHeyGenClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v2/video/generate" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		var payload struct {
			VideoInputs []struct {
				Character struct {
					AvatarID string `json:"avatar_id"`
				} `json:"character"`
				Voice struct {
					InputText string `json:"input_text"`
				} `json:"voice"`
			} `json:"video_inputs"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if len(payload.VideoInputs) != 1 || payload.VideoInputs[0].Character.AvatarID != "av-1" {
			t.Errorf("unexpected request payload: %+v", payload)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"video_id":"vid-123"}}`))
	})

	taskID, err := client.GenerateVideo(context.Background(), videoRequest("av-1", "hello"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if taskID != "vid-123" {
		t.Errorf("expected vid-123, got %q", taskID)
	}
}

func TestVideoStatusNormalizesState(t *testing.T) {
	client := newTestHeyGenClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("video_id"); got != "vid-123" {
			t.Errorf("expected video_id query, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"status":"completed","video_url":"https://cdn.example.com/v.mp4"}}`))
	})

	status, err := client.VideoStatus(context.Background(), "vid-123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status.State != TaskStateCompleted {
		t.Errorf("expected completed, got %q", status.State)
	}
	if status.AssetURL != "https://cdn.example.com/v.mp4" {
		t.Errorf("unexpected asset url %q", status.AssetURL)
	}
}
