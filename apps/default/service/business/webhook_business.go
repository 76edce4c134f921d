package business

import (
	"context"
	"net/url"

	"github.com/pitabwire/frame/data"

	"github.com/antinvestor/service-accounts/apps/default/service"
	"github.com/antinvestor/service-accounts/apps/default/service/authz"
	"github.com/antinvestor/service-accounts/apps/default/service/models"
	"github.com/antinvestor/service-accounts/apps/default/service/repository"
)

type webhookBusiness struct {
	profileRepo repository.ProfileRepository
	webhookRepo repository.WebhookRepository
}

// NewWebhookBusiness creates a new instance of WebhookBusiness.
func NewWebhookBusiness(
	profileRepo repository.ProfileRepository,
	webhookRepo repository.WebhookRepository,
) WebhookBusiness {
	return &webhookBusiness{
		profileRepo: profileRepo,
		webhookRepo: webhookRepo,
	}
}

func (wb *webhookBusiness) requireSettingsRole(ctx context.Context, actorID string) error {
	profile, err := wb.profileRepo.GetByID(ctx, actorID)
	if err != nil {
		if data.ErrorIsNoRows(err) {
			return service.NewAuthorizationError("caller has no profile in the role ledger")
		}
		return service.NewInternalError("failed to resolve caller role", err)
	}

	if !authz.CanManageSettings(authz.Role(profile.Role)) {
		return service.NewAuthorizationError("webhook settings are restricted to admins and owners")
	}
	return nil
}

// ListWebhooks returns all webhook configurations. Reads carry the same
// restriction as writes: webhook URLs expose the generation pipeline.
func (wb *webhookBusiness) ListWebhooks(ctx context.Context, actorID string) ([]*models.APIWebhookConfig, error) {
	if err := wb.requireSettingsRole(ctx, actorID); err != nil {
		return nil, err
	}

	webhooks, err := wb.webhookRepo.List(ctx)
	if err != nil {
		return nil, service.NewInternalError("failed to list webhooks", err)
	}

	result := make([]*models.APIWebhookConfig, 0, len(webhooks))
	for _, webhook := range webhooks {
		result = append(result, webhook.ToAPI())
	}
	return result, nil
}

// SaveWebhook creates or updates a webhook configuration.
func (wb *webhookBusiness) SaveWebhook(
	ctx context.Context,
	actorID string,
	webhook *models.WebhookConfig,
) (*models.APIWebhookConfig, error) {
	if err := wb.requireSettingsRole(ctx, actorID); err != nil {
		return nil, err
	}

	if webhook.Name == "" {
		return nil, service.NewValidationError("webhook name is required")
	}
	parsed, err := url.Parse(webhook.URL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return nil, service.NewValidationError("webhook URL must be a valid http or https URL")
	}

	if webhook.GetID() == "" {
		webhook.GenID(ctx)
	}

	// New webhooks never steal the active slot on save; activation is an
	// explicit, separately serialised operation.
	webhook.IsActive = false

	if err = wb.webhookRepo.Save(ctx, webhook); err != nil {
		return nil, service.NewInternalError("failed to save webhook", err)
	}
	return webhook.ToAPI(), nil
}

// ActivateWebhook makes one webhook active, deactivating all siblings in
// the same store transaction.
func (wb *webhookBusiness) ActivateWebhook(ctx context.Context, actorID, webhookID string) error {
	if err := wb.requireSettingsRole(ctx, actorID); err != nil {
		return err
	}

	if err := wb.webhookRepo.Activate(ctx, webhookID); err != nil {
		if data.ErrorIsNoRows(err) {
			return service.NewNotFoundError("webhook not found")
		}
		return service.NewInternalError("failed to activate webhook", err)
	}
	return nil
}

// DeleteWebhook removes a webhook configuration.
func (wb *webhookBusiness) DeleteWebhook(ctx context.Context, actorID, webhookID string) error {
	if err := wb.requireSettingsRole(ctx, actorID); err != nil {
		return err
	}

	if err := wb.webhookRepo.Delete(ctx, webhookID); err != nil {
		return service.NewInternalError("failed to delete webhook", err)
	}
	return nil
}
