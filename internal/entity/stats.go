package entity

import "time"

// PlatformStats is the on-demand administrative aggregate. It is derived,
// never persisted.
type PlatformStats struct {
	TotalUsers       int64     `json:"total_users"`
	ActiveUsers      int64     `json:"active_users"`
	TotalAssets      int64     `json:"total_assets"`
	CompletedAssets  int64     `json:"completed_assets"`
	FailedAssets     int64     `json:"failed_assets"`
	TotalCredentials int64     `json:"total_credentials"`
	PublishedAvatars int64     `json:"published_avatars"`
	MarketplaceCents int64     `json:"marketplace_revenue_cents"`
	GeneratedAt      time.Time `json:"generated_at"`
}
