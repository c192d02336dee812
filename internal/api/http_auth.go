package api

import (
	"errors"
	"net/http"
	"strings"

	"avatarlab/internal/auth"
	"avatarlab/internal/entity"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// AuthStatus reports whether the system already has at least one account.
// Clients use it to decide between showing a setup screen and a login form.
func (h *HTTPHandler) AuthStatus(c *gin.Context) {
	count, err := h.repo.CountUsers(c.Request.Context())
	if err != nil {
		logrus.WithError(err).Error("failed to count users")
		FailErr(c, err)
		return
	}
	OK(c, gin.H{"data": entity.AuthStatusResponse{HasUser: count > 0}})
}

// Register creates an account and issues a token. The first account becomes
// the super administrator.
func (h *HTTPHandler) Register(c *gin.Context) {
	var req entity.AuthRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	ctx := c.Request.Context()

	if existing, err := h.repo.GetUserByEmail(ctx, email); err == nil && existing != nil {
		Fail(c, http.StatusBadRequest, "email already registered")
		return
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		FailErr(c, err)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		FailErr(c, err)
		return
	}

	count, err := h.repo.CountUsers(ctx)
	if err != nil {
		FailErr(c, err)
		return
	}
	role := entity.UserRoleUser
	if count == 0 {
		role = entity.UserRoleSuperAdmin
	}

	user := &entity.DbUser{
		Email:        email,
		PasswordHash: hash,
		DisplayName:  strings.TrimSpace(req.DisplayName),
		Role:         role,
		IsActive:     true,
	}
	if err := h.repo.CreateUser(ctx, user); err != nil {
		logrus.WithError(err).WithField("email", email).Error("failed to create user")
		FailErr(c, err)
		return
	}

	h.issueToken(c, user)
}

// Login verifies credentials and issues a token.
func (h *HTTPHandler) Login(c *gin.Context) {
	var req entity.AuthLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	user, err := h.repo.GetUserByEmail(c.Request.Context(), email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			Fail(c, http.StatusUnauthorized, "invalid email or password")
			return
		}
		FailErr(c, err)
		return
	}
	if !user.IsActive {
		Fail(c, http.StatusUnauthorized, "invalid email or password")
		return
	}
	if err := auth.VerifyPassword(user.PasswordHash, req.Password); err != nil {
		Fail(c, http.StatusUnauthorized, "invalid email or password")
		return
	}

	h.issueToken(c, user)
}

// Me returns the authenticated caller's profile.
func (h *HTTPHandler) Me(c *gin.Context) {
	requestUser := CurrentUser(c)
	if requestUser == nil {
		Fail(c, http.StatusUnauthorized, "Invalid authentication")
		return
	}

	user, err := h.repo.GetUserByID(c.Request.Context(), requestUser.ID)
	if err != nil {
		FailErr(c, err)
		return
	}
	OK(c, gin.H{"data": user.Summary()})
}

func (h *HTTPHandler) issueToken(c *gin.Context, user *entity.DbUser) {
	token, expiresAt, err := h.authManager.GenerateToken(user)
	if err != nil {
		logrus.WithError(err).WithField("user_id", user.ID).Error("failed to generate token")
		FailErr(c, err)
		return
	}
	OK(c, gin.H{"data": entity.AuthResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      user.Summary(),
	}})
}
