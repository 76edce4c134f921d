package repository

import (
	"context"
	"time"

	"github.com/antinvestor/service-accounts/apps/default/service/models"
)

// ProfileRepository is the role ledger. It is a dumb store on purpose:
// policy checks happen in the business layer, never here, so that the
// ledger stays trivially auditable.
type ProfileRepository interface {
	GetByID(ctx context.Context, id string) (*models.Profile, error)
	// CreateIfAbsent provisions the ledger row for a new account with the
	// default user role. It is an idempotent no-op when a row already
	// exists for the id.
	CreateIfAbsent(ctx context.Context, accountID, email string) (*models.Profile, error)
	// UpdateRole sets the role unconditionally and bumps modified_at.
	UpdateRole(ctx context.Context, id, role string) (*models.Profile, error)
	// TouchSignIn records a successful authentication, unconditionally.
	TouchSignIn(ctx context.Context, id string, at time.Time) error
	// Delete removes the profile and cascades to per-account rows.
	Delete(ctx context.Context, id string) error
	// ListAll returns every profile, newest created_at first.
	ListAll(ctx context.Context) ([]*models.Profile, error)
}

// WebhookRepository stores content-generation webhook endpoints.
type WebhookRepository interface {
	GetByID(ctx context.Context, id string) (*models.WebhookConfig, error)
	Save(ctx context.Context, webhook *models.WebhookConfig) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*models.WebhookConfig, error)
	GetActive(ctx context.Context) (*models.WebhookConfig, error)
	// Activate makes one webhook active and deactivates all siblings in a
	// single transaction, so two concurrent activations cannot both win.
	Activate(ctx context.Context, id string) error
}

// VoiceRepository stores narration voice configurations.
type VoiceRepository interface {
	GetByID(ctx context.Context, id string) (*models.VoiceConfig, error)
	Save(ctx context.Context, voice *models.VoiceConfig) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*models.VoiceConfig, error)
}

// PreferenceRepository stores per-account preferences.
type PreferenceRepository interface {
	GetByProfileID(ctx context.Context, profileID string) (*models.UserPreference, error)
	// Upsert creates the preference row on first write.
	Upsert(ctx context.Context, profileID, language string) (*models.UserPreference, error)
}
