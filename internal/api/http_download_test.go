package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func newDownloadTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := &HTTPHandler{}
	r := gin.New()
	r.POST("/api/download", h.Download)
	return r
}

func TestDownloadStreamsAttachment(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write([]byte("png-bytes"))
	}))
	defer upstream.Close()

	r := newDownloadTestRouter()
	w := httptest.NewRecorder()
	body := `{"imageUrl":"` + upstream.URL + `","filename":"My Render.png"}`
	req := httptest.NewRequest(http.MethodPost, "/api/download", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", w.Code, w.Body.String())
	}
	if got := w.Header().Get("Content-Type"); got != "image/png" {
		t.Errorf("expected upstream content type mirrored, got %q", got)
	}
	if got := w.Header().Get("Content-Disposition"); got != `attachment; filename="my-render.png"` {
		t.Errorf("unexpected disposition %q", got)
	}
	if w.Body.String() != "png-bytes" {
		t.Errorf("expected body passed through, got %q", w.Body.String())
	}
}

func TestDownloadRejectsNonHTTPURL(t *testing.T) {
	r := newDownloadTestRouter()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/download", strings.NewReader(`{"imageUrl":"ftp://host/file"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestDownloadUpstreamFailureIsBadGateway(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer upstream.Close()

	r := newDownloadTestRouter()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/download", strings.NewReader(`{"imageUrl":"`+upstream.URL+`"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadGateway {
		t.Errorf("expected 502, got %d", w.Code)
	}
}

func TestSafeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"My Render.png", "my-render.png"},
		{`evil".png`, "evil.png"},
		{"../../etc/passwd", "etcpasswd"},
		{"", "download"},
		{"no-extension", "no-extension"},
	}
	for _, tt := range tests {
		if got := safeFilename(tt.in); got != tt.want {
			t.Errorf("safeFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
