package api

import (
	"net/http"
	"strconv"
	"strings"

	"avatarlab/internal/auth"
	"avatarlab/internal/entity"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// AdminListUsers returns all accounts, paginated.
func (h *HTTPHandler) AdminListUsers(c *gin.Context) {
	var query entity.UserQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		Fail(c, http.StatusBadRequest, "invalid query: "+err.Error())
		return
	}

	users, meta, err := h.repo.ListUsers(c.Request.Context(), &query)
	if err != nil {
		FailErr(c, err)
		return
	}

	summaries := make([]entity.UserSummary, 0, len(users))
	for i := range users {
		summaries = append(summaries, users[i].Summary())
	}
	OK(c, gin.H{"data": summaries, "meta": meta})
}

// AdminCreateUser creates an account with an explicit role. Only the super
// administrator may mint other administrators.
func (h *HTTPHandler) AdminCreateUser(c *gin.Context) {
	actor := CurrentUser(c)

	var req entity.UserCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	role := strings.TrimSpace(req.Role)
	switch role {
	case entity.UserRoleUser:
	case entity.UserRoleAdmin, entity.UserRoleSuperAdmin:
		if !actor.IsSuperAdmin() {
			Fail(c, http.StatusForbidden, "only the super admin can grant admin roles")
			return
		}
	default:
		Fail(c, http.StatusBadRequest, "unknown role: "+role)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		FailErr(c, err)
		return
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}
	user := &entity.DbUser{
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hash,
		DisplayName:  strings.TrimSpace(req.DisplayName),
		Role:         role,
		IsActive:     isActive,
	}
	if err := h.repo.CreateUser(c.Request.Context(), user); err != nil {
		logrus.WithError(err).WithField("email", user.Email).Error("failed to create user")
		FailErr(c, err)
		return
	}
	OK(c, gin.H{"data": user.Summary()})
}

// AdminUpdateUser updates an account's profile, role, password or status.
func (h *HTTPHandler) AdminUpdateUser(c *gin.Context) {
	actor := CurrentUser(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		Fail(c, http.StatusBadRequest, "invalid user id")
		return
	}

	var req entity.UserUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	if req.Role != nil && !actor.IsSuperAdmin() {
		Fail(c, http.StatusForbidden, "only the super admin can change roles")
		return
	}

	updates := entity.UserUpdates{
		DisplayName: req.DisplayName,
		Role:        req.Role,
		IsActive:    req.IsActive,
	}
	if req.Password != nil {
		hash, hashErr := auth.HashPassword(*req.Password)
		if hashErr != nil {
			FailErr(c, hashErr)
			return
		}
		updates.PasswordHash = &hash
	}
	if updates.IsEmpty() {
		Fail(c, http.StatusBadRequest, "no fields to update")
		return
	}

	if err := h.repo.UpdateUser(c.Request.Context(), uint(id), updates); err != nil {
		FailErr(c, err)
		return
	}

	user, err := h.repo.GetUserByID(c.Request.Context(), uint(id))
	if err != nil {
		FailErr(c, err)
		return
	}
	OK(c, gin.H{"data": user.Summary()})
}

// AdminDeleteUser removes an account. Administrators cannot delete
// themselves.
func (h *HTTPHandler) AdminDeleteUser(c *gin.Context) {
	actor := CurrentUser(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		Fail(c, http.StatusBadRequest, "invalid user id")
		return
	}
	if uint(id) == actor.ID {
		Fail(c, http.StatusBadRequest, "cannot delete your own account")
		return
	}

	if err := h.repo.DeleteUser(c.Request.Context(), uint(id)); err != nil {
		FailErr(c, err)
		return
	}
	OK(c, gin.H{"data": gin.H{"id": id}})
}

// AdminStats returns the platform aggregate, cached for a short window.
func (h *HTTPHandler) AdminStats(c *gin.Context) {
	stats, err := h.stats.PlatformStats(c.Request.Context())
	if err != nil {
		FailErr(c, err)
		return
	}
	OK(c, gin.H{"data": stats})
}
