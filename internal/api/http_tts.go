package api

import (
	"net/http"

	"avatarlab/internal/entity"

	"github.com/gin-gonic/gin"
)

// Speech synthesizes audio from text. TTS returns the audio bytes directly,
// so the record comes back already completed with its stored URL.
func (h *HTTPHandler) Speech(c *gin.Context) {
	user := CurrentUser(c)

	var req entity.SpeechRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	record, err := h.generator.Speech(c.Request.Context(), user.ID, req)
	if err != nil {
		FailErr(c, err)
		return
	}
	OK(c, gin.H{"data": record})
}
