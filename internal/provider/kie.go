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

const defaultKieBaseURL = "https://api.kie.ai"

// KieClient talks to the KIE.AI generation API with bearer auth.
//
// KIE wraps everything in a 200 response and signals failure through a
// body-level code field, so success checks look at both layers.
type KieClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewKieClient creates a client authenticated with the given key.
func NewKieClient(apiKey string) (*KieClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("kie api key missing")
	}
	return &KieClient{
		apiKey:     apiKey,
		baseURL:    defaultKieBaseURL,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}, nil
}

// SetBaseURL overrides the API endpoint. Used in tests.
func (c *KieClient) SetBaseURL(baseURL string) {
	c.baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
}

type kieEnvelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

// CreateTask submits a generation job and returns the vendor task id.
func (c *KieClient) CreateTask(ctx context.Context, model, prompt string, params entity.JSONMap) (string, error) {
	input := map[string]interface{}{
		"prompt": prompt,
	}
	for key, value := range params {
		input[key] = value
	}
	payload := map[string]interface{}{
		"model": model,
		"input": input,
	}

	data, err := c.do(ctx, http.MethodPost, "/api/v1/jobs/createTask", payload)
	if err != nil {
		return "", err
	}

	var created struct {
		TaskID string `json:"taskId"`
	}
	if err := json.Unmarshal(data, &created); err != nil {
		return "", fmt.Errorf("parse create task response: %w", err)
	}
	if created.TaskID == "" {
		return "", &Error{Status: 500, Service: entity.ServiceKie, Message: "no task id in response"}
	}
	return created.TaskID, nil
}

// TaskStatus probes a generation job once via recordInfo.
func (c *KieClient) TaskStatus(ctx context.Context, taskID string) (*TaskStatus, error) {
	if strings.TrimSpace(taskID) == "" {
		return nil, errors.New("task id is required")
	}

	path := "/api/v1/jobs/recordInfo?taskId=" + url.QueryEscape(taskID)
	data, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var record struct {
		TaskID     string `json:"taskId"`
		State      string `json:"state"`
		FailMsg    string `json:"failMsg"`
		ResultJSON string `json:"resultJson"`
	}
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("parse record info: %w", err)
	}

	result := &TaskStatus{
		TaskID:       taskID,
		Provider:     entity.ServiceKie,
		State:        NormalizeState(record.State),
		ErrorMessage: record.FailMsg,
	}
	if record.ResultJSON != "" {
		var payload struct {
			ResultUrls []string `json:"resultUrls"`
		}
		if err := json.Unmarshal([]byte(record.ResultJSON), &payload); err == nil && len(payload.ResultUrls) > 0 {
			result.AssetURL = payload.ResultUrls[0]
		}
	}
	return result, nil
}

// Probe checks reachability and key validity with the credit endpoint.
func (c *KieClient) Probe(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodGet, "/api/v1/chat/credit", nil)
	return err
}

// do issues one request and unwraps KIE's body-level envelope. Calls are
// single-attempt: no retry, no backoff.
func (c *KieClient) do(ctx context.Context, method, path string, payload interface{}) (json.RawMessage, error) {
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
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
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
		}).Warn("kie request failed")
		return nil, ParseErrorBody(entity.ServiceKie, resp.StatusCode, body)
	}

	var envelope kieEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("parse response envelope: %w", err)
	}
	if envelope.Code != 200 {
		message := envelope.Msg
		if message == "" {
			message = fmt.Sprintf("vendor returned code %d", envelope.Code)
		}
		status := envelope.Code
		if status < 100 || status > 599 {
			status = http.StatusInternalServerError
		}
		return nil, &Error{Status: status, Service: entity.ServiceKie, Message: message}
	}
	return envelope.Data, nil
}
