package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"avatarlab/internal/entity"

	"github.com/sirupsen/logrus"
)

const defaultHeyGenBaseURL = "https://api.heygen.com"

// HeyGenClient talks to the HeyGen avatar/video API. HeyGen authenticates
// with an X-Api-Key header rather than a bearer token.
type HeyGenClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewHeyGenClient creates a client authenticated with the given key.
func NewHeyGenClient(apiKey string) (*HeyGenClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("heygen api key missing")
	}
	return &HeyGenClient{
		apiKey:     apiKey,
		baseURL:    defaultHeyGenBaseURL,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}, nil
}

// SetBaseURL overrides the API endpoint. Used in tests.
func (c *HeyGenClient) SetBaseURL(baseURL string) {
	c.baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
}

type heygenAvatarFlags struct {
	IsPublicAvatar *bool `json:"is_public_avatar"`
	IsCustom       *bool `json:"is_custom"`
	IsTalkingPhoto *bool `json:"is_talking_photo"`
}

// isOwnResource keeps only the caller's own avatars: explicitly non-public
// entries, custom avatars, and talking photos. Anything ambiguous is
// excluded so catalog entries never leak into "your resources".
func isOwnResource(flags heygenAvatarFlags) bool {
	if flags.IsPublicAvatar != nil && !*flags.IsPublicAvatar {
		return true
	}
	if flags.IsCustom != nil && *flags.IsCustom {
		return true
	}
	if flags.IsTalkingPhoto != nil && *flags.IsTalkingPhoto {
		return true
	}
	return false
}

// ListAvatars returns the user's own avatars and talking photos. Items are
// passed through verbatim; only the public catalog entries are filtered out.
func (c *HeyGenClient) ListAvatars(ctx context.Context) ([]json.RawMessage, error) {
	body, err := c.do(ctx, http.MethodGet, "/v2/avatars", nil)
	if err != nil {
		return nil, err
	}

	var listing struct {
		Data struct {
			Avatars       []json.RawMessage `json:"avatars"`
			TalkingPhotos []json.RawMessage `json:"talking_photos"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &listing); err != nil {
		return nil, fmt.Errorf("parse avatar listing: %w", err)
	}

	owned := make([]json.RawMessage, 0, len(listing.Data.Avatars))
	for _, raw := range append(listing.Data.Avatars, listing.Data.TalkingPhotos...) {
		var flags heygenAvatarFlags
		if err := json.Unmarshal(raw, &flags); err != nil {
			continue
		}
		if isOwnResource(flags) {
			owned = append(owned, raw)
		}
	}
	return owned, nil
}

// GenerateVideo submits an avatar video job and returns the vendor task id.
func (c *HeyGenClient) GenerateVideo(ctx context.Context, request entity.VideoGenerationRequest) (string, error) {
	voice := map[string]interface{}{
		"type":       "text",
		"input_text": request.Script,
	}
	if voiceID := strings.TrimSpace(request.VoiceID); voiceID != "" {
		voice["voice_id"] = voiceID
	}

	payload := map[string]interface{}{
		"video_inputs": []map[string]interface{}{
			{
				"character": map[string]interface{}{
					"type":      "avatar",
					"avatar_id": request.AvatarID,
				},
				"voice": voice,
			},
		},
	}
	for key, value := range request.Params {
		payload[key] = value
	}

	body, err := c.do(ctx, http.MethodPost, "/v2/video/generate", payload)
	if err != nil {
		return "", err
	}

	var created struct {
		Data struct {
			VideoID string `json:"video_id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &created); err != nil {
		return "", fmt.Errorf("parse video response: %w", err)
	}
	if created.Data.VideoID == "" {
		return "", &Error{Status: 500, Service: entity.ServiceHeyGen, Message: "no video id in response"}
	}
	return created.Data.VideoID, nil
}

// VideoStatus probes an avatar video job once.
func (c *HeyGenClient) VideoStatus(ctx context.Context, videoID string) (*TaskStatus, error) {
	if strings.TrimSpace(videoID) == "" {
		return nil, errors.New("video id is required")
	}

	path := "/v1/video_status.get?video_id=" + url.QueryEscape(videoID)
	body, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var status struct {
		Data struct {
			Status   string `json:"status"`
			VideoURL string `json:"video_url"`
			Error    *struct {
				Message string `json:"message"`
				Detail  string `json:"detail"`
			} `json:"error"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &status); err != nil {
		return nil, fmt.Errorf("parse status response: %w", err)
	}

	result := &TaskStatus{
		TaskID:   videoID,
		Provider: entity.ServiceHeyGen,
		State:    NormalizeState(status.Data.Status),
		AssetURL: status.Data.VideoURL,
	}
	if status.Data.Error != nil {
		message := status.Data.Error.Message
		if message == "" {
			message = status.Data.Error.Detail
		}
		result.ErrorMessage = message
	}
	return result, nil
}

// Probe checks reachability and key validity with the quota endpoint.
func (c *HeyGenClient) Probe(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodGet, "/v2/user/remaining_quota", nil)
	return err
}

// do issues one request. Calls are single-attempt: no retry, no backoff.
func (c *HeyGenClient) do(ctx context.Context, method, path string, payload interface{}) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("X-Api-Key", c.apiKey)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logrus.WithFields(logrus.Fields{
			"path":   path,
			"status": resp.StatusCode,
		}).Warn("heygen request failed")
		return nil, ParseErrorBody(entity.ServiceHeyGen, resp.StatusCode, body)
	}

	return body, nil
}
