package api

import (
	"net/http"

	"avatarlab/internal/entity"

	"github.com/gin-gonic/gin"
)

// GenerateVideo starts an avatar video generation and responds 202 with the
// pending record.
func (h *HTTPHandler) GenerateVideo(c *gin.Context) {
	user := CurrentUser(c)

	var req entity.VideoGenerationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	record, err := h.generator.GenerateVideo(c.Request.Context(), user.ID, req)
	if err != nil {
		FailErr(c, err)
		return
	}
	OKStatus(c, http.StatusAccepted, gin.H{"data": record})
}

// TaskStatus probes a vendor-side job once and returns the normalized state.
// A completed probe also completes the tracking record.
func (h *HTTPHandler) TaskStatus(c *gin.Context) {
	user := CurrentUser(c)

	var req entity.TaskStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	status, err := h.generator.TaskStatus(c.Request.Context(), user.ID, req)
	if err != nil {
		FailErr(c, err)
		return
	}
	OK(c, gin.H{"data": status})
}

// AssignVideoURL completes a pending video record with a URL obtained out of
// band, materializing a durable copy first.
func (h *HTTPHandler) AssignVideoURL(c *gin.Context) {
	user := CurrentUser(c)

	var req entity.VideoURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	record, err := h.generator.AssignVideoURL(c.Request.Context(), user.ID, req)
	if err != nil {
		FailErr(c, err)
		return
	}
	OK(c, gin.H{"data": record})
}
