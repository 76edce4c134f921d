package models

import (
	"time"

	"github.com/pitabwire/frame/data"
)

// Role values recognised by the accounts service. The ledger stores them as
// plain strings; all interpretation happens in the authz package.
const (
	RoleOwner = "owner"
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Profile is the role ledger row. Exactly one Profile exists per external
// identity account; its ID equals the account id issued by the identity
// provider so lookups never need a join.
type Profile struct {
	data.BaseModel
	Email        string `gorm:"type:varchar(254);not null"`
	Role         string `gorm:"type:varchar(20);not null;default:'user'"`
	LastSignInAt *time.Time
}

// APIProfile is the JSON projection returned by the admin endpoints.
// It deliberately carries no secrets and no internal bookkeeping columns.
type APIProfile struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	Role         string     `json:"role"`
	CreatedAt    time.Time  `json:"created_at"`
	LastSignInAt *time.Time `json:"last_sign_in_at,omitempty"`
}

// ToAPI converts a Profile to its API representation.
func (p *Profile) ToAPI() *APIProfile {
	if p == nil {
		return nil
	}

	return &APIProfile{
		ID:           p.GetID(),
		Email:        p.Email,
		Role:         p.Role,
		CreatedAt:    p.CreatedAt,
		LastSignInAt: p.LastSignInAt,
	}
}

// WebhookConfig holds a content-generation webhook endpoint. At most one
// webhook may be active at a time; activation is serialised in the
// repository layer within a single transaction.
type WebhookConfig struct {
	data.BaseModel
	Name        string `gorm:"type:varchar(100);not null"`
	URL         string `gorm:"type:varchar(2048);not null"`
	Description string
	IsActive    bool `gorm:"index:idx_webhook_config_is_active"`
}

// APIWebhookConfig is the JSON projection of a WebhookConfig.
type APIWebhookConfig struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	URL         string    `json:"url"`
	Description string    `json:"description,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// ToAPI converts a WebhookConfig to its API representation.
func (w *WebhookConfig) ToAPI() *APIWebhookConfig {
	if w == nil {
		return nil
	}

	return &APIWebhookConfig{
		ID:          w.GetID(),
		Name:        w.Name,
		URL:         w.URL,
		Description: w.Description,
		IsActive:    w.IsActive,
		CreatedAt:   w.CreatedAt,
	}
}

// VoiceConfig holds a narration voice offered to content authors.
// Writable by admins and owners, readable by any authenticated account.
type VoiceConfig struct {
	data.BaseModel
	Name     string `gorm:"type:varchar(100);not null"`
	VoiceID  string `gorm:"type:varchar(100);not null"`
	Language string `gorm:"type:varchar(20)"`
}

// APIVoiceConfig is the JSON projection of a VoiceConfig.
type APIVoiceConfig struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	VoiceID  string `json:"voice_id"`
	Language string `json:"language,omitempty"`
}

// ToAPI converts a VoiceConfig to its API representation.
func (v *VoiceConfig) ToAPI() *APIVoiceConfig {
	if v == nil {
		return nil
	}

	return &APIVoiceConfig{
		ID:       v.GetID(),
		Name:     v.Name,
		VoiceID:  v.VoiceID,
		Language: v.Language,
	}
}

// UserPreference stores per-account settings. One row per account,
// cascade-deleted together with the owning Profile.
type UserPreference struct {
	data.BaseModel
	ProfileID string `gorm:"type:varchar(50);uniqueIndex:idx_user_preference_profile_id"`
	Language  string `gorm:"type:varchar(20);not null;default:'en'"`
}

// APIUserPreference is the JSON projection of a UserPreference.
type APIUserPreference struct {
	ProfileID string `json:"profile_id"`
	Language  string `json:"language"`
}

// ToAPI converts a UserPreference to its API representation.
func (up *UserPreference) ToAPI() *APIUserPreference {
	if up == nil {
		return nil
	}

	return &APIUserPreference{
		ProfileID: up.ProfileID,
		Language:  up.Language,
	}
}
