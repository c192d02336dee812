package api

import (
	"net/http"

	"avatarlab/internal/entity"
	"avatarlab/internal/provider"

	"github.com/gin-gonic/gin"
	openai "github.com/sashabaranov/go-openai"
)

// ChatCompletion proxies a chat request to OpenAI with the caller's resolved
// key. The vendor response is returned as-is under data.
func (h *HTTPHandler) ChatCompletion(c *gin.Context) {
	user := CurrentUser(c)

	var req openai.ChatCompletionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}
	if len(req.Messages) == 0 {
		Fail(c, http.StatusBadRequest, "messages must not be empty")
		return
	}

	apiKey, _, err := h.resolver.Resolve(c.Request.Context(), user.ID, entity.ServiceOpenAI)
	if err != nil {
		FailErr(c, err)
		return
	}

	client, err := provider.NewOpenAIClient(apiKey)
	if err != nil {
		FailErr(c, err)
		return
	}
	resp, err := client.ChatCompletion(c.Request.Context(), req)
	if err != nil {
		FailErr(c, err)
		return
	}
	OK(c, gin.H{"data": resp})
}
