package provider

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"avatarlab/internal/entity"
)

const defaultElevenLabsBaseURL = "https://api.elevenlabs.io"

// ElevenLabsClient talks to the ElevenLabs API. ElevenLabs authenticates
// with an xi-api-key header.
type ElevenLabsClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewElevenLabsClient creates a client authenticated with the given key.
func NewElevenLabsClient(apiKey string) (*ElevenLabsClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("elevenlabs api key missing")
	}
	return &ElevenLabsClient{
		apiKey:     apiKey,
		baseURL:    defaultElevenLabsBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// SetBaseURL overrides the API endpoint. Used in tests.
func (c *ElevenLabsClient) SetBaseURL(baseURL string) {
	c.baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
}

// Probe checks reachability and key validity with the subscription endpoint.
func (c *ElevenLabsClient) Probe(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/user/subscription", nil)
	if err != nil {
		return err
	}
	req.Header.Set("xi-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return ParseErrorBody(entity.ServiceElevenLabs, resp.StatusCode, body)
	}
	return nil
}
