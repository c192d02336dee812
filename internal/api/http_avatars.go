package api

import (
	"net/http"
	"strconv"
	"strings"

	"avatarlab/internal/entity"
	"avatarlab/internal/provider"

	"github.com/gin-gonic/gin"
)

// RemoteAvatars lists the caller's own avatars and talking photos at HeyGen.
// Public catalog entries are filtered out before the response is built.
func (h *HTTPHandler) RemoteAvatars(c *gin.Context) {
	user := CurrentUser(c)

	apiKey, _, err := h.resolver.Resolve(c.Request.Context(), user.ID, entity.ServiceHeyGen)
	if err != nil {
		FailErr(c, err)
		return
	}

	client, err := provider.NewHeyGenClient(apiKey)
	if err != nil {
		FailErr(c, err)
		return
	}
	avatars, err := client.ListAvatars(c.Request.Context())
	if err != nil {
		FailErr(c, err)
		return
	}
	OK(c, gin.H{"data": avatars})
}

// ListAvatars lists marketplace avatars. By default the caller's own
// listings come back; ?published=true switches to the public marketplace.
func (h *HTTPHandler) ListAvatars(c *gin.Context) {
	user := CurrentUser(c)

	var query entity.AvatarQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		Fail(c, http.StatusBadRequest, "invalid query: "+err.Error())
		return
	}
	if strings.EqualFold(c.Query("published"), "true") {
		query.PublishedOnly = true
		query.OwnerID = 0
	} else {
		query.OwnerID = user.ID
	}

	avatars, meta, err := h.repo.ListAvatars(c.Request.Context(), &query)
	if err != nil {
		FailErr(c, err)
		return
	}
	OK(c, gin.H{"data": avatars, "meta": meta})
}

// CreateAvatar creates a marketplace listing owned by the caller. Listings
// start unpublished.
func (h *HTTPHandler) CreateAvatar(c *gin.Context) {
	user := CurrentUser(c)

	var req entity.AvatarCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	avatar := &entity.DbAvatar{
		UserID:           user.ID,
		Name:             strings.TrimSpace(req.Name),
		Description:      req.Description,
		Provider:         strings.ToLower(strings.TrimSpace(req.Provider)),
		ProviderAvatarID: strings.TrimSpace(req.ProviderAvatarID),
		PreviewURL:       strings.TrimSpace(req.PreviewURL),
		PriceCents:       req.PriceCents,
	}
	if err := h.repo.CreateAvatar(c.Request.Context(), avatar); err != nil {
		FailErr(c, err)
		return
	}
	OK(c, gin.H{"data": avatar})
}

// UpdateAvatar updates one of the caller's listings, including publishing.
func (h *HTTPHandler) UpdateAvatar(c *gin.Context) {
	user := CurrentUser(c)

	avatar, ok := h.ownedAvatar(c, user.ID)
	if !ok {
		return
	}

	var req entity.AvatarUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	updates := entity.AvatarUpdates{
		Name:        req.Name,
		Description: req.Description,
		PreviewURL:  req.PreviewURL,
		IsPublished: req.IsPublished,
		PriceCents:  req.PriceCents,
	}
	if updates.IsEmpty() {
		Fail(c, http.StatusBadRequest, "no fields to update")
		return
	}
	if err := h.repo.UpdateAvatar(c.Request.Context(), avatar.ID, updates); err != nil {
		FailErr(c, err)
		return
	}

	updated, err := h.repo.GetAvatar(c.Request.Context(), avatar.ID)
	if err != nil {
		FailErr(c, err)
		return
	}
	OK(c, gin.H{"data": updated})
}

// DeleteAvatar removes one of the caller's listings.
func (h *HTTPHandler) DeleteAvatar(c *gin.Context) {
	user := CurrentUser(c)

	avatar, ok := h.ownedAvatar(c, user.ID)
	if !ok {
		return
	}
	if err := h.repo.DeleteAvatar(c.Request.Context(), avatar.ID); err != nil {
		FailErr(c, err)
		return
	}
	OK(c, gin.H{"data": gin.H{"id": avatar.ID}})
}

// ownedAvatar loads the :id listing and enforces ownership. Listings owned
// by someone else read as not found.
func (h *HTTPHandler) ownedAvatar(c *gin.Context, userID uint) (*entity.DbAvatar, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		Fail(c, http.StatusBadRequest, "invalid avatar id")
		return nil, false
	}

	avatar, err := h.repo.GetAvatar(c.Request.Context(), uint(id))
	if err != nil {
		FailErr(c, err)
		return nil, false
	}
	if avatar.UserID != userID {
		Fail(c, http.StatusNotFound, "not found")
		return nil, false
	}
	return avatar, true
}
