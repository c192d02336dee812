package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"avatarlab/internal/credential"
	"avatarlab/internal/entity"
	"avatarlab/internal/model"
	"avatarlab/internal/provider"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// generationTimeout bounds one detached vendor call plus materialization.
const generationTimeout = 10 * time.Minute

// ErrUnsupportedProvider indicates a provider that cannot serve the
// requested operation.
var ErrUnsupportedProvider = errors.New("unsupported provider")

// Generator orchestrates asset generation: it resolves the vendor key,
// creates the pending record, and runs the vendor call plus materialization
// in a detached goroutine so the request returns immediately.
type Generator struct {
	repo         model.Repository
	resolver     *credential.Resolver
	materializer *Materializer
}

// NewGenerator creates the generation orchestrator.
func NewGenerator(repo model.Repository, resolver *credential.Resolver, materializer *Materializer) *Generator {
	return &Generator{
		repo:         repo,
		resolver:     resolver,
		materializer: materializer,
	}
}

// GenerateImage starts an image generation and returns the pending record.
func (g *Generator) GenerateImage(ctx context.Context, userID uint, request entity.ImageGenerationRequest) (*entity.DbGeneratedAsset, error) {
	providerName := normalizeProvider(request.Provider, entity.ServiceOpenAI)
	switch providerName {
	case entity.ServiceOpenAI, entity.ServiceVolcengine, entity.ServiceKie:
	default:
		return nil, fmt.Errorf("%w: %s cannot generate images", ErrUnsupportedProvider, providerName)
	}

	apiKey, _, err := g.resolver.Resolve(ctx, userID, providerName)
	if err != nil {
		return nil, err
	}

	record := &entity.DbGeneratedAsset{
		UserID:         userID,
		Kind:           entity.AssetKindImage,
		Provider:       providerName,
		Model:          strings.TrimSpace(request.Model),
		Prompt:         request.Prompt,
		Status:         entity.AssetStatusPending,
		Params:         request.Params,
		SourceImageURL: strings.TrimSpace(request.SourceImageURL),
	}
	if err := g.repo.CreateAsset(ctx, record); err != nil {
		return nil, err
	}

	go g.runImageGeneration(record.ID, userID, providerName, apiKey, request)
	return record, nil
}

// runImageGeneration is the detached half of GenerateImage. It runs on its
// own deadline and records the outcome on the asset row.
func (g *Generator) runImageGeneration(recordID, userID uint, providerName, apiKey string, request entity.ImageGenerationRequest) {
	ctx, cancel := context.WithTimeout(context.Background(), generationTimeout)
	defer cancel()

	var (
		resultURL string
		taskID    string
		err       error
	)
	switch providerName {
	case entity.ServiceOpenAI:
		var client *provider.OpenAIClient
		if client, err = provider.NewOpenAIClient(apiKey); err == nil {
			resultURL, err = client.GenerateImage(ctx, request)
		}
	case entity.ServiceVolcengine:
		var client *provider.VolcengineClient
		if client, err = provider.NewVolcengineClient(apiKey); err == nil {
			resultURL, err = client.GenerateImage(ctx, request)
		}
	case entity.ServiceKie:
		var client *provider.KieClient
		if client, err = provider.NewKieClient(apiKey); err == nil {
			taskID, err = client.CreateTask(ctx, request.Model, request.Prompt, request.Params)
		}
	}

	if err != nil {
		g.markFailed(ctx, recordID, err)
		return
	}

	// KIE is fully asynchronous: the record stays pending, tracking the
	// vendor task until a status probe sees it complete.
	if taskID != "" {
		updates := entity.AssetUpdates{ExternalTaskID: &taskID}
		if updateErr := g.repo.UpdateAsset(ctx, recordID, updates); updateErr != nil {
			logrus.WithError(updateErr).WithField("asset_id", recordID).Error("failed to record vendor task id")
		}
		return
	}

	g.complete(ctx, recordID, userID, resultURL, entity.AssetKindImage)
}

// GenerateVideo submits an avatar video job and returns the pending record.
// Video vendors are asynchronous: the record tracks the vendor task id until
// a status probe or manual URL assignment completes it.
func (g *Generator) GenerateVideo(ctx context.Context, userID uint, request entity.VideoGenerationRequest) (*entity.DbGeneratedAsset, error) {
	providerName := normalizeProvider(request.Provider, entity.ServiceHeyGen)
	if providerName != entity.ServiceHeyGen {
		return nil, fmt.Errorf("%w: %s cannot generate avatar videos", ErrUnsupportedProvider, providerName)
	}

	apiKey, _, err := g.resolver.Resolve(ctx, userID, providerName)
	if err != nil {
		return nil, err
	}

	record := &entity.DbGeneratedAsset{
		UserID:   userID,
		Kind:     entity.AssetKindVideo,
		Provider: providerName,
		Prompt:   request.Script,
		Status:   entity.AssetStatusPending,
		Params:   request.Params,
	}
	if err := g.repo.CreateAsset(ctx, record); err != nil {
		return nil, err
	}

	go g.runVideoGeneration(record.ID, apiKey, request)
	return record, nil
}

func (g *Generator) runVideoGeneration(recordID uint, apiKey string, request entity.VideoGenerationRequest) {
	ctx, cancel := context.WithTimeout(context.Background(), generationTimeout)
	defer cancel()

	client, err := provider.NewHeyGenClient(apiKey)
	if err != nil {
		g.markFailed(ctx, recordID, err)
		return
	}
	taskID, err := client.GenerateVideo(ctx, request)
	if err != nil {
		g.markFailed(ctx, recordID, err)
		return
	}

	updates := entity.AssetUpdates{ExternalTaskID: &taskID}
	if err := g.repo.UpdateAsset(ctx, recordID, updates); err != nil {
		logrus.WithError(err).WithField("asset_id", recordID).Error("failed to record vendor task id")
	}
}

// Speech synthesizes audio and returns the completed record. TTS responds
// with the audio bytes directly, so this path is synchronous.
func (g *Generator) Speech(ctx context.Context, userID uint, request entity.SpeechRequest) (*entity.DbGeneratedAsset, error) {
	apiKey, _, err := g.resolver.Resolve(ctx, userID, entity.ServiceOpenAI)
	if err != nil {
		return nil, err
	}

	record := &entity.DbGeneratedAsset{
		UserID:   userID,
		Kind:     entity.AssetKindAudio,
		Provider: entity.ServiceOpenAI,
		Model:    strings.TrimSpace(request.Model),
		Prompt:   request.Input,
		Status:   entity.AssetStatusPending,
	}
	if err := g.repo.CreateAsset(ctx, record); err != nil {
		return nil, err
	}

	client, err := provider.NewOpenAIClient(apiKey)
	if err != nil {
		g.markFailed(ctx, record.ID, err)
		return nil, err
	}
	audio, err := client.Speech(ctx, request)
	if err != nil {
		g.markFailed(ctx, record.ID, err)
		return nil, err
	}

	storedURL, err := g.materializer.StoreBytes(ctx, userID, audio, record.ID, entity.AssetKindAudio, "mp3")
	if err != nil {
		g.markFailed(ctx, record.ID, err)
		return nil, err
	}

	now := time.Now().UTC()
	status := entity.AssetStatusCompleted
	updates := entity.AssetUpdates{
		AssetURL:    &storedURL,
		Status:      &status,
		CompletedAt: &now,
	}
	if err := g.repo.UpdateAsset(ctx, record.ID, updates); err != nil {
		return nil, err
	}

	record.AssetURL = storedURL
	record.Status = status
	record.CompletedAt = &now
	return record, nil
}

// TaskStatus probes a vendor-side job once. When the probe reports
// completion and a matching pending record exists, the asset is materialized
// and the record completed before the status is returned.
func (g *Generator) TaskStatus(ctx context.Context, userID uint, request entity.TaskStatusRequest) (*provider.TaskStatus, error) {
	providerName := normalizeProvider(request.Provider, "")
	apiKey, _, err := g.resolver.Resolve(ctx, userID, providerName)
	if err != nil {
		return nil, err
	}

	var status *provider.TaskStatus
	switch providerName {
	case entity.ServiceHeyGen:
		var client *provider.HeyGenClient
		if client, err = provider.NewHeyGenClient(apiKey); err == nil {
			status, err = client.VideoStatus(ctx, request.TaskID)
		}
	case entity.ServiceKie:
		var client *provider.KieClient
		if client, err = provider.NewKieClient(apiKey); err == nil {
			status, err = client.TaskStatus(ctx, request.TaskID)
		}
	default:
		return nil, fmt.Errorf("%w: %s has no task status endpoint", ErrUnsupportedProvider, providerName)
	}
	if err != nil {
		return nil, err
	}

	g.reconcileTask(ctx, userID, status)
	return status, nil
}

// reconcileTask applies a probed terminal state to the tracking record, if
// one exists. A missing record is not an error: probes are valid for tasks
// created outside this service.
func (g *Generator) reconcileTask(ctx context.Context, userID uint, status *provider.TaskStatus) {
	if status == nil || status.State == provider.TaskStateProcessing {
		return
	}

	record, err := g.repo.GetAssetByTaskID(ctx, userID, status.TaskID)
	if err != nil {
		return
	}
	if record.Status != entity.AssetStatusPending {
		return
	}

	if status.State == provider.TaskStateFailed {
		message := status.ErrorMessage
		if message == "" {
			message = "vendor reported failure"
		}
		g.markFailed(ctx, record.ID, errors.New(message))
		return
	}
	if status.AssetURL == "" {
		return
	}
	g.complete(ctx, record.ID, userID, status.AssetURL, record.Kind)
}

// AssignVideoURL manually completes a pending video record with a URL
// obtained out of band, materializing a durable copy first.
func (g *Generator) AssignVideoURL(ctx context.Context, userID uint, request entity.VideoURLRequest) (*entity.DbGeneratedAsset, error) {
	record, err := g.repo.GetAsset(ctx, request.VideoID)
	if err != nil {
		return nil, err
	}
	// Someone else's record reads as not found, never as a different error.
	if record.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}

	g.complete(ctx, record.ID, userID, request.VideoURL, record.Kind)
	return g.repo.GetAsset(ctx, record.ID)
}

// complete materializes the asset and marks the record completed. A failed
// materialization still completes the record with the original URL.
func (g *Generator) complete(ctx context.Context, recordID, userID uint, remoteURL, kind string) {
	result := g.materializer.Materialize(ctx, userID, remoteURL, recordID, kind)

	now := time.Now().UTC()
	status := entity.AssetStatusCompleted
	updates := entity.AssetUpdates{
		AssetURL:    &result.URL,
		Status:      &status,
		CompletedAt: &now,
	}
	if err := g.repo.UpdateAsset(ctx, recordID, updates); err != nil {
		logrus.WithError(err).WithField("asset_id", recordID).Error("failed to complete asset record")
	}
}

func (g *Generator) markFailed(ctx context.Context, recordID uint, cause error) {
	status := entity.AssetStatusFailed
	message := cause.Error()
	updates := entity.AssetUpdates{
		Status:       &status,
		ErrorMessage: &message,
	}
	if err := g.repo.UpdateAsset(ctx, recordID, updates); err != nil {
		logrus.WithError(err).WithField("asset_id", recordID).Error("failed to mark asset failed")
	}
}

func normalizeProvider(provider, fallback string) string {
	trimmed := strings.ToLower(strings.TrimSpace(provider))
	if trimmed == "" {
		return fallback
	}
	return trimmed
}
