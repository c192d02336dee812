package api

import (
	"net/http"
	"strconv"
	"strings"

	"avatarlab/internal/credential"
	"avatarlab/internal/entity"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ListKeys returns the caller's stored vendor keys as masked summaries. The
// secret itself never leaves the server.
func (h *HTTPHandler) ListKeys(c *gin.Context) {
	user := CurrentUser(c)

	rows, err := h.repo.ListCredentials(c.Request.Context(), user.ID)
	if err != nil {
		FailErr(c, err)
		return
	}

	summaries := make([]entity.CredentialSummary, 0, len(rows))
	for i := range rows {
		row := &rows[i]
		hint := "****"
		if secret, decodeErr := credential.DecodeSecret(row.EncodedSecret); decodeErr == nil {
			hint = credential.MaskSecret(secret)
		}
		summaries = append(summaries, entity.CredentialSummary{
			ID:         row.ID,
			Service:    row.Service,
			Status:     row.Status,
			KeyHint:    hint,
			CreatedAt:  row.CreatedAt,
			LastUsedAt: row.LastUsedAt,
		})
	}
	OK(c, gin.H{"data": summaries})
}

// CreateKey stores a vendor key for the caller. An existing key for the same
// service stays in place; the new row wins by being newer.
func (h *HTTPHandler) CreateKey(c *gin.Context) {
	user := CurrentUser(c)

	var req entity.CredentialCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	serviceName := strings.ToLower(strings.TrimSpace(req.Service))
	if !entity.IsKnownService(serviceName) {
		Fail(c, http.StatusBadRequest, "unknown service: "+serviceName)
		return
	}

	encoded, err := credential.EncodeSecret(req.Key)
	if err != nil {
		Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	row := &entity.DbCredential{
		UserID:        user.ID,
		Service:       serviceName,
		EncodedSecret: encoded,
		Status:        entity.CredentialStatusActive,
	}
	if err := h.repo.CreateCredential(c.Request.Context(), row); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"user_id": user.ID,
			"service": serviceName,
		}).Error("failed to store credential")
		FailErr(c, err)
		return
	}

	OK(c, gin.H{"data": entity.CredentialSummary{
		ID:        row.ID,
		Service:   row.Service,
		Status:    row.Status,
		KeyHint:   credential.MaskSecret(req.Key),
		CreatedAt: row.CreatedAt,
	}})
}

// RevokeKey soft-revokes a stored key. The row is kept for auditability.
func (h *HTTPHandler) RevokeKey(c *gin.Context) {
	user := CurrentUser(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		Fail(c, http.StatusBadRequest, "invalid key id")
		return
	}

	row, err := h.repo.GetCredential(c.Request.Context(), uint(id))
	if err != nil {
		FailErr(c, err)
		return
	}
	if row.UserID != user.ID {
		Fail(c, http.StatusNotFound, "not found")
		return
	}

	status := entity.CredentialStatusRevoked
	updates := entity.CredentialUpdates{Status: &status}
	if err := h.repo.UpdateCredential(c.Request.Context(), row.ID, updates); err != nil {
		FailErr(c, err)
		return
	}
	OK(c, gin.H{"data": gin.H{"id": row.ID, "status": status}})
}
