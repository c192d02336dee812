package provider

import (
	"context"
	"errors"
	"io"
	"strings"

	"avatarlab/internal/entity"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"
)

// OpenAIClient wraps the OpenAI API for chat, image generation, and speech
// synthesis. One instance is created per request with the resolved key.
type OpenAIClient struct {
	client *openai.Client
}

// NewOpenAIClient creates a client authenticated with the given key.
func NewOpenAIClient(apiKey string) (*OpenAIClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("openai api key missing")
	}
	return &OpenAIClient{client: openai.NewClient(apiKey)}, nil
}

// ChatCompletion forwards a chat request and returns the vendor response
// unmodified.
func (c *OpenAIClient) ChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (*openai.ChatCompletionResponse, error) {
	resp, err := c.client.CreateChatCompletion(ctx, request)
	if err != nil {
		return nil, mapOpenAIError(err)
	}
	return &resp, nil
}

// GenerateImage requests one image and returns its URL (or a data URL when
// the vendor responds with inline base64 data).
func (c *OpenAIClient) GenerateImage(ctx context.Context, request entity.ImageGenerationRequest) (string, error) {
	model := strings.TrimSpace(request.Model)
	if model == "" {
		model = openai.CreateImageModelDallE3
	}
	size := strings.TrimSpace(request.Size)
	if size == "" {
		size = openai.CreateImageSize1024x1024
	}

	logrus.WithFields(logrus.Fields{
		"model":         model,
		"size":          size,
		"prompt_length": len(request.Prompt),
	}).Info("openai generate image")

	resp, err := c.client.CreateImage(ctx, openai.ImageRequest{
		Model:  model,
		Prompt: request.Prompt,
		Size:   size,
		N:      1,
	})
	if err != nil {
		return "", mapOpenAIError(err)
	}
	if len(resp.Data) == 0 {
		return "", &Error{Status: 500, Service: entity.ServiceOpenAI, Message: "no image in response"}
	}
	if url := strings.TrimSpace(resp.Data[0].URL); url != "" {
		return url, nil
	}
	if b64 := strings.TrimSpace(resp.Data[0].B64JSON); b64 != "" {
		return "data:image/png;base64," + b64, nil
	}
	return "", &Error{Status: 500, Service: entity.ServiceOpenAI, Message: "empty image payload"}
}

// Speech synthesizes the input text and returns the raw audio bytes.
func (c *OpenAIClient) Speech(ctx context.Context, request entity.SpeechRequest) ([]byte, error) {
	model := openai.SpeechModel(strings.TrimSpace(request.Model))
	if model == "" {
		model = openai.TTSModel1
	}
	voice := openai.SpeechVoice(strings.TrimSpace(request.Voice))
	if voice == "" {
		voice = openai.VoiceAlloy
	}

	stream, err := c.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model: model,
		Input: request.Input,
		Voice: voice,
	})
	if err != nil {
		return nil, mapOpenAIError(err)
	}
	defer stream.Close()

	data, err := io.ReadAll(stream)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, &Error{Status: 500, Service: entity.ServiceOpenAI, Message: "empty audio payload"}
	}
	return data, nil
}

// Probe checks reachability and key validity with a cheap model listing.
func (c *OpenAIClient) Probe(ctx context.Context) error {
	_, err := c.client.ListModels(ctx)
	return mapOpenAIError(err)
}

// mapOpenAIError converts go-openai errors into the uniform vendor error so
// the upstream status and message survive.
func mapOpenAIError(err error) error {
	if err == nil {
		return nil
	}
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		message := apiErr.Message
		if message == "" {
			message = apiErr.Error()
		}
		return &Error{
			Status:  apiErr.HTTPStatusCode,
			Service: entity.ServiceOpenAI,
			Message: message,
		}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &Error{
			Status:  reqErr.HTTPStatusCode,
			Service: entity.ServiceOpenAI,
			Message: reqErr.Error(),
		}
	}
	return err
}
