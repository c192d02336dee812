package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"avatarlab/internal/entity"
	"avatarlab/internal/model"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type fakeAvatarRepo struct {
	model.Repository

	avatar  *entity.DbAvatar
	deleted []uint
}

func (f *fakeAvatarRepo) GetAvatar(ctx context.Context, id uint) (*entity.DbAvatar, error) {
	if f.avatar == nil || f.avatar.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return f.avatar, nil
}

func (f *fakeAvatarRepo) DeleteAvatar(ctx context.Context, id uint) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func newAvatarTestRouter(repo model.Repository, userID uint) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := &HTTPHandler{repo: repo}
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(currentUserContextKey, &RequestUser{ID: userID, Role: entity.UserRoleUser})
	})
	r.DELETE("/api/avatars/:id", h.DeleteAvatar)
	return r
}

func TestDeleteAvatarOwnership(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		callerID   uint
		wantStatus int
		wantMsg    string
	}{
		{"owner can delete", "/api/avatars/3", 7, http.StatusOK, ""},
		{"other owner reads as not found", "/api/avatars/3", 8, http.StatusNotFound, "not found"},
		{"missing listing", "/api/avatars/99", 7, http.StatusNotFound, "not found"},
		{"invalid id", "/api/avatars/abc", 7, http.StatusBadRequest, "invalid avatar id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeAvatarRepo{avatar: &entity.DbAvatar{ID: 3, UserID: 7, Name: "presenter"}}
			r := newAvatarTestRouter(repo, tt.callerID)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodDelete, tt.path, nil)
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d (%s)", tt.wantStatus, w.Code, w.Body.String())
			}
			body := decodeEnvelope(t, w)
			if tt.wantMsg != "" && body.Error != tt.wantMsg {
				t.Errorf("expected error %q, got %q", tt.wantMsg, body.Error)
			}
			if tt.wantStatus == http.StatusOK {
				if len(repo.deleted) != 1 || repo.deleted[0] != 3 {
					t.Errorf("expected listing 3 deleted, got %v", repo.deleted)
				}
			} else if len(repo.deleted) != 0 {
				t.Errorf("expected no deletes, got %v", repo.deleted)
			}
		})
	}
}

func TestListAvatarsPublishedToggle(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var captured *entity.AvatarQuery
	repo := &fakeAvatarListRepo{capture: func(q *entity.AvatarQuery) { captured = q }}
	h := &HTTPHandler{repo: repo}
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(currentUserContextKey, &RequestUser{ID: 7, Role: entity.UserRoleUser})
	})
	r.GET("/api/avatars", h.ListAvatars)

	for _, tt := range []struct {
		query         string
		wantOwner     uint
		wantPublished bool
	}{
		{"", 7, false},
		{"?published=true", 0, true},
	} {
		path := "/api/avatars" + tt.query
		t.Run(strings.TrimPrefix(path, "/api/"), func(t *testing.T) {
			captured = nil
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, path, nil)
			r.ServeHTTP(w, req)

			if w.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d (%s)", w.Code, w.Body.String())
			}
			if captured == nil {
				t.Fatal("expected repo to receive a query")
			}
			if captured.OwnerID != tt.wantOwner {
				t.Errorf("expected owner %d, got %d", tt.wantOwner, captured.OwnerID)
			}
			if captured.PublishedOnly != tt.wantPublished {
				t.Errorf("expected published-only %v, got %v", tt.wantPublished, captured.PublishedOnly)
			}
		})
	}
}

type fakeAvatarListRepo struct {
	model.Repository

	capture func(*entity.AvatarQuery)
}

func (f *fakeAvatarListRepo) ListAvatars(ctx context.Context, params *entity.AvatarQuery) ([]entity.DbAvatar, *entity.Meta, error) {
	f.capture(params)
	return []entity.DbAvatar{}, &entity.Meta{Page: 1, PageSize: 20}, nil
}
