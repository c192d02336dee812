package provider

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"avatarlab/internal/entity"

	"github.com/sirupsen/logrus"
	"github.com/volcengine/volcengine-go-sdk/service/arkruntime"
	volcModel "github.com/volcengine/volcengine-go-sdk/service/arkruntime/model"
	"github.com/volcengine/volcengine-go-sdk/volcengine"
)

const defaultVolcengineImageModel = "doubao-seedream-4-0-250828"

// VolcengineClient generates images through the Ark runtime API.
type VolcengineClient struct {
	client *arkruntime.Client
}

// NewVolcengineClient creates a client authenticated with the given key.
func NewVolcengineClient(apiKey string) (*VolcengineClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("volcengine api key missing")
	}
	return &VolcengineClient{client: arkruntime.NewClientWithApiKey(apiKey)}, nil
}

// GenerateImage requests one image and returns its URL. The streaming API is
// consumed to completion; group generation stays disabled so a single image
// comes back.
func (c *VolcengineClient) GenerateImage(ctx context.Context, request entity.ImageGenerationRequest) (string, error) {
	model := strings.TrimSpace(request.Model)
	if model == "" {
		model = defaultVolcengineImageModel
	}
	size := strings.TrimSpace(request.Size)
	if size == "" {
		size = "2K"
	}

	var referenceImages []string
	if src := strings.TrimSpace(request.SourceImageURL); src != "" {
		referenceImages = append(referenceImages, src)
	}

	sequential := volcModel.SequentialImageGeneration("disabled")
	generateReq := volcModel.GenerateImagesRequest{
		Model:                     model,
		Prompt:                    request.Prompt,
		Image:                     referenceImages,
		Size:                      volcengine.String(size),
		ResponseFormat:            volcengine.String(volcModel.GenerateImagesResponseFormatURL),
		Watermark:                 volcengine.Bool(false),
		SequentialImageGeneration: &sequential,
	}

	logrus.WithFields(logrus.Fields{
		"model":         model,
		"size":          size,
		"prompt_length": len(request.Prompt),
	}).Info("volcengine generate image")

	stream, err := c.client.GenerateImagesStreaming(ctx, generateReq)
	if err != nil {
		return "", &Error{
			Status:  http.StatusInternalServerError,
			Service: entity.ServiceVolcengine,
			Message: err.Error(),
		}
	}
	defer stream.Close()

	var imageURL, vendorMessage string
receive:
	for {
		recv, recvErr := stream.Recv()
		if recvErr == io.EOF {
			break
		}
		if recvErr != nil {
			logrus.WithError(recvErr).Warn("volcengine stream receive failed")
			if vendorMessage == "" {
				vendorMessage = recvErr.Error()
			}
			break
		}
		switch recv.Type {
		case "image_generation.partial_failed":
			if recv.Error != nil {
				vendorMessage = recv.Error.Message
				if strings.EqualFold(recv.Error.Code, "InternalServiceError") {
					break receive
				}
			}
		case "image_generation.partial_succeeded":
			if recv.Error == nil && recv.Url != nil {
				imageURL = *recv.Url
			}
		}
	}

	if imageURL == "" {
		message := vendorMessage
		if message == "" {
			message = "no image in response"
		}
		return "", &Error{
			Status:  http.StatusInternalServerError,
			Service: entity.ServiceVolcengine,
			Message: message,
		}
	}
	return imageURL, nil
}
