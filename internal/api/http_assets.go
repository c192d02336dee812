package api

import (
	"net/http"
	"strconv"

	"avatarlab/internal/entity"

	"github.com/gin-gonic/gin"
)

// GenerateImage starts an image generation and responds 202 with the
// pending record; clients poll the asset until it completes.
func (h *HTTPHandler) GenerateImage(c *gin.Context) {
	user := CurrentUser(c)

	var req entity.ImageGenerationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	record, err := h.generator.GenerateImage(c.Request.Context(), user.ID, req)
	if err != nil {
		FailErr(c, err)
		return
	}
	OKStatus(c, http.StatusAccepted, gin.H{"data": record})
}

// ListAssets returns the caller's generated assets, filterable by kind,
// provider and status.
func (h *HTTPHandler) ListAssets(c *gin.Context) {
	user := CurrentUser(c)

	var query entity.AssetQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		Fail(c, http.StatusBadRequest, "invalid query: "+err.Error())
		return
	}
	query.UserID = user.ID

	assets, meta, err := h.repo.ListAssets(c.Request.Context(), &query)
	if err != nil {
		FailErr(c, err)
		return
	}
	OK(c, gin.H{"data": assets, "meta": meta})
}

// GetAsset returns one of the caller's asset records.
func (h *HTTPHandler) GetAsset(c *gin.Context) {
	user := CurrentUser(c)

	record, ok := h.ownedAsset(c, user.ID)
	if !ok {
		return
	}
	OK(c, gin.H{"data": record})
}

// DeleteAsset removes one of the caller's asset records.
func (h *HTTPHandler) DeleteAsset(c *gin.Context) {
	user := CurrentUser(c)

	record, ok := h.ownedAsset(c, user.ID)
	if !ok {
		return
	}
	if err := h.repo.DeleteAsset(c.Request.Context(), record.ID); err != nil {
		FailErr(c, err)
		return
	}
	OK(c, gin.H{"data": gin.H{"id": record.ID}})
}

// MigrateInlineAssets rewrites the caller's data: asset records into object
// storage and reports the per-record tally.
func (h *HTTPHandler) MigrateInlineAssets(c *gin.Context) {
	user := CurrentUser(c)

	tally, err := h.materializer.MigrateInlineAssets(c.Request.Context(), user.ID)
	if err != nil {
		FailErr(c, err)
		return
	}
	OK(c, gin.H{"data": tally})
}

// ownedAsset loads the :id asset and enforces ownership. Assets belonging to
// someone else read as not found.
func (h *HTTPHandler) ownedAsset(c *gin.Context, userID uint) (*entity.DbGeneratedAsset, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		Fail(c, http.StatusBadRequest, "invalid asset id")
		return nil, false
	}

	record, err := h.repo.GetAsset(c.Request.Context(), uint(id))
	if err != nil {
		FailErr(c, err)
		return nil, false
	}
	if record.UserID != userID {
		Fail(c, http.StatusNotFound, "not found")
		return nil, false
	}
	return record, true
}
