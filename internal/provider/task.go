package provider

import "strings"

// Task states after normalization across vendors.
const (
	TaskStateProcessing = "processing"
	TaskStateCompleted  = "completed"
	TaskStateFailed     = "failed"
)

// TaskStatus is the normalized view of a vendor-side async job.
type TaskStatus struct {
	TaskID       string `json:"task_id"`
	Provider     string `json:"provider"`
	State        string `json:"state"`
	AssetURL     string `json:"asset_url,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
}

// NormalizeState maps a vendor-specific status string onto the three task
// states. Unknown values are treated as still processing.
func NormalizeState(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "completed", "complete", "success", "succeeded", "done", "finished":
		return TaskStateCompleted
	case "failed", "fail", "error", "cancelled", "canceled", "expired":
		return TaskStateFailed
	default:
		return TaskStateProcessing
	}
}
