package api

import (
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"avatarlab/internal/entity"
	"avatarlab/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

var downloadClient = &http.Client{Timeout: 120 * time.Second}

// Download fetches a remote asset and streams it back as an attachment. The
// endpoint exists so browsers can save cross-origin vendor URLs; the bytes
// pass through untouched with the upstream Content-Type mirrored.
func (h *HTTPHandler) Download(c *gin.Context) {
	var req entity.DownloadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	remoteURL := strings.TrimSpace(req.ImageURL)
	if !strings.HasPrefix(remoteURL, "http://") && !strings.HasPrefix(remoteURL, "https://") {
		Fail(c, http.StatusBadRequest, "imageUrl must be an http(s) URL")
		return
	}

	upstream, err := http.NewRequestWithContext(c.Request.Context(), http.MethodGet, remoteURL, nil)
	if err != nil {
		Fail(c, http.StatusBadRequest, "invalid url: "+err.Error())
		return
	}

	resp, err := downloadClient.Do(upstream)
	if err != nil {
		logrus.WithError(err).Warn("download fetch failed")
		Fail(c, http.StatusBadGateway, "failed to fetch remote asset")
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		Fail(c, http.StatusBadGateway, fmt.Sprintf("remote returned http %d", resp.StatusCode))
		return
	}

	filename := safeFilename(req.Filename)

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	c.Header("Content-Type", contentType)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Status(http.StatusOK)

	if _, err := io.Copy(c.Writer, resp.Body); err != nil {
		logrus.WithError(err).Warn("download stream interrupted")
	}
}

// safeFilename reduces a caller-supplied filename to characters that are safe
// inside a quoted Content-Disposition value, preserving one extension.
func safeFilename(name string) string {
	base := strings.ReplaceAll(strings.TrimSpace(name), " ", "-")
	ext := path.Ext(base)
	stem := storage.SanitizeToken(strings.TrimSuffix(base, ext))
	if stem == "" {
		stem = "download"
	}
	if cleanExt := storage.SanitizeToken(strings.TrimPrefix(ext, ".")); cleanExt != "" {
		return stem + "." + cleanExt
	}
	return stem
}
