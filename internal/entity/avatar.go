package entity

import "time"

// DbAvatar is a marketplace avatar listing owned by one user.
type DbAvatar struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	UserID uint    `gorm:"column:user_id;index" json:"user_id"`
	User   *DbUser `gorm:"foreignKey:UserID" json:"-"`

	Name        string `gorm:"column:name;type:varchar(255);not null" json:"name"`
	Description string `gorm:"column:description;type:text" json:"description"`

	// Provider and ProviderAvatarID reference the vendor-side avatar this
	// listing is backed by (e.g. a HeyGen custom avatar id).
	Provider         string `gorm:"column:provider;type:varchar(64)" json:"provider"`
	ProviderAvatarID string `gorm:"column:provider_avatar_id;type:varchar(255)" json:"provider_avatar_id"`

	PreviewURL  string `gorm:"column:preview_url;type:text" json:"preview_url"`
	IsPublished bool   `gorm:"column:is_published;index;not null;default:false" json:"is_published"`
	PriceCents  int64  `gorm:"column:price_cents;not null;default:0" json:"price_cents"`
}

// TableName overrides default pluralised name.
func (DbAvatar) TableName() string {
	return "avatars"
}

// AvatarQuery supports listing marketplace avatars.
type AvatarQuery struct {
	BaseParams
	// OwnerID restricts results to one owner; zero lists published avatars.
	OwnerID       uint `json:"-"`
	PublishedOnly bool `json:"-"`
}

type AvatarCreateRequest struct {
	Name             string `json:"name" binding:"required"`
	Description      string `json:"description"`
	Provider         string `json:"provider"`
	ProviderAvatarID string `json:"provider_avatar_id"`
	PreviewURL       string `json:"preview_url"`
	PriceCents       int64  `json:"price_cents"`
}

type AvatarUpdateRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	PreviewURL  *string `json:"preview_url,omitempty"`
	IsPublished *bool   `json:"is_published,omitempty"`
	PriceCents  *int64  `json:"price_cents,omitempty"`
}
