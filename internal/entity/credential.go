package entity

import "time"

// Vendor service names. Every credential row and every proxy operation is
// scoped to exactly one of these.
const (
	ServiceOpenAI     = "openai"
	ServiceHeyGen     = "heygen"
	ServiceKie        = "kie"
	ServiceElevenLabs = "elevenlabs"
	ServiceVolcengine = "volcengine"
)

const (
	CredentialStatusActive  = "active"
	CredentialStatusRevoked = "revoked"
)

// KnownServices lists the vendor services a credential may be stored for.
var KnownServices = []string{
	ServiceOpenAI,
	ServiceHeyGen,
	ServiceKie,
	ServiceElevenLabs,
	ServiceVolcengine,
}

// IsKnownService reports whether the given service name is recognised.
func IsKnownService(service string) bool {
	for _, s := range KnownServices {
		if s == service {
			return true
		}
	}
	return false
}

// DbCredential is a stored vendor API key scoped to one user and one
// service. Rows are never physically deleted; revocation is a status change.
// When a user has several active rows for the same service the most recently
// created one is authoritative.
type DbCredential struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	UserID  uint    `gorm:"column:user_id;index:idx_credential_owner_service" json:"user_id"`
	User    *DbUser `gorm:"foreignKey:UserID" json:"-"`
	Service string  `gorm:"column:service;type:varchar(64);index:idx_credential_owner_service" json:"service"`

	// EncodedSecret holds the reversibly encoded key material, never the
	// plaintext. See credential.EncodeSecret.
	EncodedSecret string `gorm:"column:encoded_secret;type:text;not null" json:"-"`

	Status     string     `gorm:"column:status;type:varchar(32);index;not null;default:active" json:"status"`
	LastUsedAt *time.Time `gorm:"column:last_used_at" json:"last_used_at"`
}

// TableName overrides default pluralised name.
func (DbCredential) TableName() string {
	return "credentials"
}

// IsActive reports whether the credential is usable.
func (c *DbCredential) IsActive() bool {
	return c != nil && c.Status == CredentialStatusActive
}

// CredentialSummary is the client-facing view of a stored key. The secret
// itself is never returned, only a masked hint.
type CredentialSummary struct {
	ID         uint       `json:"id"`
	Service    string     `json:"service"`
	Status     string     `json:"status"`
	KeyHint    string     `json:"key_hint"`
	CreatedAt  time.Time  `json:"created_at"`
	LastUsedAt *time.Time `json:"last_used_at"`
}

type CredentialCreateRequest struct {
	Service string `json:"service" binding:"required"`
	Key     string `json:"key" binding:"required"`
}
