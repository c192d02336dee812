package api

import (
	"errors"
	"net/http"

	"avatarlab/internal/credential"
	"avatarlab/internal/provider"
	"avatarlab/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// OK writes the success envelope: {"success":true} with the payload fields
// merged at the top level.
func OK(c *gin.Context, payload gin.H) {
	OKStatus(c, http.StatusOK, payload)
}

// OKStatus is OK with a caller-chosen status, used for 202 on async starts.
func OKStatus(c *gin.Context, status int, payload gin.H) {
	body := gin.H{"success": true}
	for key, value := range payload {
		body[key] = value
	}
	c.JSON(status, body)
}

// Fail writes the failure envelope with the given status.
func Fail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"error":   message,
	})
}

// AbortFail is Fail for middleware: it also stops the handler chain.
func AbortFail(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"error":   message,
	})
}

// FailErr maps an error to the most specific HTTP status it implies and
// writes the failure envelope. Vendor errors mirror the upstream status.
func FailErr(c *gin.Context, err error) {
	if err == nil {
		Fail(c, http.StatusInternalServerError, "unknown error")
		return
	}

	var vendorErr *provider.Error
	switch {
	case errors.As(err, &vendorErr):
		Fail(c, vendorErr.HTTPStatus(), vendorErr.Message)
	case errors.Is(err, credential.ErrCredentialMissing):
		Fail(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrUnsupportedProvider):
		Fail(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, gorm.ErrRecordNotFound):
		Fail(c, http.StatusNotFound, "not found")
	default:
		Fail(c, http.StatusInternalServerError, err.Error())
	}
}
