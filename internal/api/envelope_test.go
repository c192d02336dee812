package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"avatarlab/internal/credential"
	"avatarlab/internal/provider"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type envelopeBody struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Data    any    `json:"data"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelopeBody {
	t.Helper()
	var body envelopeBody
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	return body
}

func TestOKEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	OK(c, gin.H{"data": gin.H{"id": 1}})

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}
	body := decodeEnvelope(t, w)
	if !body.Success {
		t.Error("expected success true")
	}
	if body.Data == nil {
		t.Error("expected payload merged into envelope")
	}
}

func TestFailEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Fail(c, http.StatusBadRequest, "bad input")

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
	body := decodeEnvelope(t, w)
	if body.Success {
		t.Error("expected success false")
	}
	if body.Error != "bad input" {
		t.Errorf("expected error message, got %q", body.Error)
	}
}

func TestFailErrMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "vendor status mirrored",
			err:        &provider.Error{Status: 429, Service: "openai", Message: "rate limited"},
			wantStatus: http.StatusTooManyRequests,
			wantMsg:    "rate limited",
		},
		{
			name:       "malformed vendor status collapses to 500",
			err:        &provider.Error{Status: 0, Service: "openai", Message: "boom"},
			wantStatus: http.StatusInternalServerError,
			wantMsg:    "boom",
		},
		{
			name:       "credential missing is client error",
			err:        fmt.Errorf("%w: no openai API key configured, add one in Settings > API Keys", credential.ErrCredentialMissing),
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "record not found",
			err:        gorm.ErrRecordNotFound,
			wantStatus: http.StatusNotFound,
			wantMsg:    "not found",
		},
		{
			name:       "everything else is 500",
			err:        errors.New("disk full"),
			wantStatus: http.StatusInternalServerError,
			wantMsg:    "disk full",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			FailErr(c, tt.err)

			if w.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
			body := decodeEnvelope(t, w)
			if body.Success {
				t.Error("expected success false")
			}
			if tt.wantMsg != "" && body.Error != tt.wantMsg {
				t.Errorf("expected error %q, got %q", tt.wantMsg, body.Error)
			}
		})
	}
}
