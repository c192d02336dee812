package api

import (
	"net/http"
	"time"

	"avatarlab/internal/auth"
	"avatarlab/internal/config"
	"avatarlab/internal/credential"
	"avatarlab/internal/metrics"
	"avatarlab/internal/model"
	"avatarlab/internal/service"
	"avatarlab/internal/storage"

	"github.com/gin-gonic/gin"
)

// HTTPHandler carries the wired dependencies for every route.
type HTTPHandler struct {
	cfg         config.Config
	repo        model.Repository
	storage     storage.Storage
	authManager *auth.Manager

	resolver     *credential.Resolver
	materializer *service.Materializer
	generator    *service.Generator
	stats        *service.StatsService
}

// NewHTTPHandler wires the handler and its service layer.
func NewHTTPHandler(cfg config.Config, repo model.Repository, store storage.Storage) (*HTTPHandler, error) {
	expiry := time.Duration(cfg.JWTExpirationMinutes) * time.Minute
	authManager, err := auth.NewManager(cfg.JWTSecret, cfg.JWTIssuer, expiry)
	if err != nil {
		return nil, err
	}

	resolver := credential.NewResolver(repo, cfg.PlatformKeys())
	materializer := service.NewMaterializer(repo, store, cfg.StoragePublicBaseURL)

	return &HTTPHandler{
		cfg:          cfg,
		repo:         repo,
		storage:      store,
		authManager:  authManager,
		resolver:     resolver,
		materializer: materializer,
		generator:    service.NewGenerator(repo, resolver, materializer),
		stats:        service.NewStatsService(repo),
	}, nil
}

// RegisterRoutes mounts the full HTTP surface on the engine.
func (h *HTTPHandler) RegisterRoutes(r *gin.Engine) {
	r.Use(RequestIDMiddleware())
	r.Use(CORSMiddleware())
	r.Use(metrics.Middleware())

	r.HandleMethodNotAllowed = true
	r.NoMethod(func(c *gin.Context) {
		Fail(c, http.StatusMethodNotAllowed, "method not allowed")
	})
	r.NoRoute(func(c *gin.Context) {
		Fail(c, http.StatusNotFound, "not found")
	})

	r.GET("/health", func(c *gin.Context) {
		OK(c, gin.H{"status": "ok"})
	})
	r.GET("/metrics", metrics.Handler())

	r.GET("/api/auth/status", h.AuthStatus)
	r.POST("/api/auth/register", h.Register)
	r.POST("/api/auth/login", h.Login)
	r.POST("/api/download", h.Download)

	authed := r.Group("/api", h.AuthMiddleware())
	{
		authed.GET("/auth/me", h.Me)

		authed.GET("/keys", h.ListKeys)
		authed.POST("/keys", h.CreateKey)
		authed.DELETE("/keys/:id", h.RevokeKey)

		authed.POST("/chat/completions", h.ChatCompletion)

		authed.POST("/images/generations", h.GenerateImage)
		authed.GET("/assets", h.ListAssets)
		authed.GET("/assets/:id", h.GetAsset)
		authed.DELETE("/assets/:id", h.DeleteAsset)
		authed.POST("/assets/migrate", h.MigrateInlineAssets)

		authed.POST("/videos/generations", h.GenerateVideo)
		authed.POST("/videos/status", h.TaskStatus)
		authed.POST("/videos/url", h.AssignVideoURL)

		authed.POST("/tts", h.Speech)

		authed.GET("/avatars/remote", h.RemoteAvatars)
		authed.GET("/avatars", h.ListAvatars)
		authed.POST("/avatars", h.CreateAvatar)
		authed.PATCH("/avatars/:id", h.UpdateAvatar)
		authed.DELETE("/avatars/:id", h.DeleteAvatar)

		authed.GET("/diagnostics/providers", h.ProviderDiagnostics)
	}

	admin := authed.Group("/admin", h.RequireAdmin())
	{
		admin.GET("/users", h.AdminListUsers)
		admin.POST("/users", h.AdminCreateUser)
		admin.PATCH("/users/:id", h.AdminUpdateUser)
		admin.DELETE("/users/:id", h.AdminDeleteUser)
		admin.GET("/stats", h.AdminStats)
	}
}
