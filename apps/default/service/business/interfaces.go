package business

import (
	"context"

	"github.com/antinvestor/service-accounts/apps/default/service/models"
)

// CreateAccountRequest carries the create-user form fields.
type CreateAccountRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// CreateAccountResult is returned to the caller on a clean create.
type CreateAccountResult struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// AccountBusiness sequences validation, policy and mutation for the admin
// account operations. Checks run in a fixed order; reordering them changes
// which error a caller observes and is a compatibility break.
type AccountBusiness interface {
	CreateAccount(ctx context.Context, actorID string, req CreateAccountRequest) (*CreateAccountResult, error)
	DeleteAccount(ctx context.Context, actorID, targetID string) error
	ChangeRole(ctx context.Context, actorID, targetID, newRole string) (*models.APIProfile, error)
	ListAccounts(ctx context.Context, actorID string) ([]*models.APIProfile, error)
	// RecordSignIn updates the ledger's sign-in timestamp. Best effort:
	// failures are logged, never surfaced, so an observability hiccup
	// cannot block authentication.
	RecordSignIn(ctx context.Context, accountID string)
}

// WebhookBusiness manages the content-generation webhook settings.
type WebhookBusiness interface {
	ListWebhooks(ctx context.Context, actorID string) ([]*models.APIWebhookConfig, error)
	SaveWebhook(ctx context.Context, actorID string, webhook *models.WebhookConfig) (*models.APIWebhookConfig, error)
	ActivateWebhook(ctx context.Context, actorID, webhookID string) error
	DeleteWebhook(ctx context.Context, actorID, webhookID string) error
}

// VoiceBusiness manages narration voice settings.
type VoiceBusiness interface {
	ListVoices(ctx context.Context, actorID string) ([]*models.APIVoiceConfig, error)
	SaveVoice(ctx context.Context, actorID string, voice *models.VoiceConfig) (*models.APIVoiceConfig, error)
	DeleteVoice(ctx context.Context, actorID, voiceID string) error
}

// PreferenceBusiness manages self-owned account preferences.
type PreferenceBusiness interface {
	GetPreference(ctx context.Context, actorID string) (*models.APIUserPreference, error)
	SetPreference(ctx context.Context, actorID, language string) (*models.APIUserPreference, error)
}
