package provider

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestKieClient(t *testing.T, handler http.HandlerFunc) *KieClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewKieClient("test-key")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	client.SetBaseURL(server.URL)
	return client
}

func TestCreateTaskReturnsTaskID(t *testing.T) {
	client := newTestKieClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("expected bearer auth, got %q", got)
		}
		var payload struct {
			Model string `json:"model"`
			Input struct {
				Prompt string `json:"prompt"`
			} `json:"input"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if payload.Model != "flux" || payload.Input.Prompt != "a cat" {
			t.Errorf("unexpected payload: %+v", payload)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"code":200,"msg":"ok","data":{"taskId":"task-9"}}`))
	})

	taskID, err := client.CreateTask(context.Background(), "flux", "a cat", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if taskID != "task-9" {
		t.Errorf("expected task-9, got %q", taskID)
	}
}

func TestCreateTaskBodyLevelErrorCode(t *testing.T) {
	client := newTestKieClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"code":402,"msg":"insufficient credits"}`))
	})

	_, err := client.CreateTask(context.Background(), "flux", "a cat", nil)
	if err == nil {
		t.Fatal("expected error")
	}
	var vendorErr *Error
	if !errors.As(err, &vendorErr) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if vendorErr.Status != 402 {
		t.Errorf("expected status 402, got %d", vendorErr.Status)
	}
	if vendorErr.Message != "insufficient credits" {
		t.Errorf("unexpected message %q", vendorErr.Message)
	}
}

func TestTaskStatusParsesResult(t *testing.T) {
	client := newTestKieClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("taskId"); got != "task-9" {
			t.Errorf("expected taskId query, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"code":200,"data":{"taskId":"task-9","state":"success","resultJson":"{\"resultUrls\":[\"https://cdn.example.com/img.png\"]}"}}`))
	})

	status, err := client.TaskStatus(context.Background(), "task-9")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status.State != TaskStateCompleted {
		t.Errorf("expected completed, got %q", status.State)
	}
	if status.AssetURL != "https://cdn.example.com/img.png" {
		t.Errorf("unexpected asset url %q", status.AssetURL)
	}
}

func TestTaskStatusFailedState(t *testing.T) {
	client := newTestKieClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"code":200,"data":{"taskId":"task-9","state":"fail","failMsg":"nsfw content"}}`))
	})

	status, err := client.TaskStatus(context.Background(), "task-9")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status.State != TaskStateFailed {
		t.Errorf("expected failed, got %q", status.State)
	}
	if status.ErrorMessage != "nsfw content" {
		t.Errorf("unexpected error message %q", status.ErrorMessage)
	}
}
