package entity

import (
	"strings"
	"time"
)

const (
	AssetKindImage = "image"
	AssetKindVideo = "video"
	AssetKindAudio = "audio"
)

const (
	AssetStatusPending   = "pending"
	AssetStatusCompleted = "completed"
	AssetStatusFailed    = "failed"
)

// DbGeneratedAsset stores one generated image, video, or audio clip.
//
// status=completed implies a non-empty AssetURL; status=pending implies the
// URL has not been assigned yet. AssetURL may temporarily hold an inline
// data: payload for legacy rows until the bulk migration rewrites it to an
// object-storage URL.
type DbGeneratedAsset struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	UserID uint    `gorm:"column:user_id;index" json:"user_id"`
	User   *DbUser `gorm:"foreignKey:UserID" json:"-"`

	Kind     string `gorm:"column:kind;type:varchar(16);index" json:"kind"`
	Provider string `gorm:"column:provider;type:varchar(64);index" json:"provider"`
	Model    string `gorm:"column:model;type:varchar(255)" json:"model"`
	Prompt   string `gorm:"column:prompt;type:text" json:"prompt"`

	AssetURL string `gorm:"column:asset_url;type:text" json:"asset_url"`
	Status   string `gorm:"column:status;type:varchar(32);index;not null;default:pending" json:"status"`

	// Params is the opaque generation parameter bag forwarded to the vendor
	// (size, voice, duration and the like). Never interpreted here.
	Params JSONMap `gorm:"column:params;type:json" json:"params"`

	// SourceImageURL references the original input for image-to-image flows.
	SourceImageURL string `gorm:"column:source_image_url;type:text" json:"source_image_url,omitempty"`

	// ExternalTaskID is the vendor-side job identifier for async generation.
	ExternalTaskID string `gorm:"column:external_task_id;type:varchar(255);index" json:"external_task_id,omitempty"`

	ErrorMessage string     `gorm:"column:error_message;type:text" json:"error_message,omitempty"`
	CompletedAt  *time.Time `gorm:"column:completed_at" json:"completed_at"`
}

// TableName overrides default pluralised name.
func (DbGeneratedAsset) TableName() string {
	return "generated_assets"
}

// HasInlinePayload reports whether the asset URL still carries an inline
// data: payload instead of a durable link.
func (a *DbGeneratedAsset) HasInlinePayload() bool {
	return a != nil && strings.HasPrefix(strings.TrimSpace(a.AssetURL), "data:")
}

// AssetQuery supports listing a user's generated assets.
type AssetQuery struct {
	BaseParams
	UserID   uint   `json:"-"`
	Kind     string `json:"kind" form:"kind" query:"kind"`
	Provider string `json:"provider" form:"provider" query:"provider"`
	Status   string `json:"status" form:"status" query:"status"`
}

// ImageGenerationRequest is the inbound payload for image generation.
type ImageGenerationRequest struct {
	Provider       string  `json:"provider"`
	Model          string  `json:"model"`
	Prompt         string  `json:"prompt" binding:"required"`
	Size           string  `json:"size"`
	SourceImageURL string  `json:"source_image_url"`
	Params         JSONMap `json:"params"`
}

// VideoGenerationRequest is the inbound payload for avatar video generation.
type VideoGenerationRequest struct {
	Provider string  `json:"provider"`
	AvatarID string  `json:"avatar_id" binding:"required"`
	Script   string  `json:"script" binding:"required"`
	VoiceID  string  `json:"voice_id"`
	Params   JSONMap `json:"params"`
}

// SpeechRequest is the inbound payload for TTS synthesis.
type SpeechRequest struct {
	Input string `json:"input" binding:"required"`
	Voice string `json:"voice"`
	Model string `json:"model"`
}

// TaskStatusRequest probes a vendor-side async job.
type TaskStatusRequest struct {
	TaskID   string `json:"taskId" binding:"required"`
	Provider string `json:"provider" binding:"required"`
}

// VideoURLRequest manually assigns a remote URL to a pending video record.
type VideoURLRequest struct {
	VideoID  uint   `json:"videoId" binding:"required"`
	VideoURL string `json:"videoUrl" binding:"required"`
}

// DownloadRequest fetches a remote asset and streams it back as an
// attachment.
type DownloadRequest struct {
	ImageURL string `json:"imageUrl" binding:"required"`
	Filename string `json:"filename"`
}
