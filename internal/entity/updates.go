package entity

import "time"

// UserUpdates are the mutable user fields.
type UserUpdates struct {
	DisplayName  *string
	Role         *string
	PasswordHash *string
	IsActive     *bool
}

// ToMap converts to a GORM update map.
func (u UserUpdates) ToMap() map[string]interface{} {
	updates := make(map[string]interface{})
	if u.DisplayName != nil {
		updates["display_name"] = *u.DisplayName
	}
	if u.Role != nil {
		updates["role"] = *u.Role
	}
	if u.PasswordHash != nil {
		updates["password_hash"] = *u.PasswordHash
	}
	if u.IsActive != nil {
		updates["is_active"] = *u.IsActive
	}
	return updates
}

// IsEmpty reports whether no field is set.
func (u UserUpdates) IsEmpty() bool {
	return len(u.ToMap()) == 0
}

// CredentialUpdates are the mutable credential fields. Credentials are never
// rewritten in full; only status and last-used bookkeeping change.
type CredentialUpdates struct {
	Status     *string
	LastUsedAt *time.Time
}

// ToMap converts to a GORM update map.
func (u CredentialUpdates) ToMap() map[string]interface{} {
	updates := make(map[string]interface{})
	if u.Status != nil {
		updates["status"] = *u.Status
	}
	if u.LastUsedAt != nil {
		updates["last_used_at"] = *u.LastUsedAt
	}
	return updates
}

// IsEmpty reports whether no field is set.
func (u CredentialUpdates) IsEmpty() bool {
	return len(u.ToMap()) == 0
}

// AssetUpdates are the mutable generated-asset fields.
type AssetUpdates struct {
	AssetURL       *string
	Status         *string
	ExternalTaskID *string
	ErrorMessage   *string
	CompletedAt    *time.Time
}

// ToMap converts to a GORM update map.
func (u AssetUpdates) ToMap() map[string]interface{} {
	updates := make(map[string]interface{})
	if u.AssetURL != nil {
		updates["asset_url"] = *u.AssetURL
	}
	if u.Status != nil {
		updates["status"] = *u.Status
	}
	if u.ExternalTaskID != nil {
		updates["external_task_id"] = *u.ExternalTaskID
	}
	if u.ErrorMessage != nil {
		updates["error_message"] = *u.ErrorMessage
	}
	if u.CompletedAt != nil {
		updates["completed_at"] = *u.CompletedAt
	}
	return updates
}

// IsEmpty reports whether no field is set.
func (u AssetUpdates) IsEmpty() bool {
	return len(u.ToMap()) == 0
}

// AvatarUpdates are the mutable marketplace avatar fields.
type AvatarUpdates struct {
	Name        *string
	Description *string
	PreviewURL  *string
	IsPublished *bool
	PriceCents  *int64
}

// ToMap converts to a GORM update map.
func (u AvatarUpdates) ToMap() map[string]interface{} {
	updates := make(map[string]interface{})
	if u.Name != nil {
		updates["name"] = *u.Name
	}
	if u.Description != nil {
		updates["description"] = *u.Description
	}
	if u.PreviewURL != nil {
		updates["preview_url"] = *u.PreviewURL
	}
	if u.IsPublished != nil {
		updates["is_published"] = *u.IsPublished
	}
	if u.PriceCents != nil {
		updates["price_cents"] = *u.PriceCents
	}
	return updates
}

// IsEmpty reports whether no field is set.
func (u AvatarUpdates) IsEmpty() bool {
	return len(u.ToMap()) == 0
}
