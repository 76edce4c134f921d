package repository

import (
	"context"

	"github.com/pitabwire/frame/datastore"
	"github.com/pitabwire/frame/datastore/pool"
	"github.com/pitabwire/frame/workerpool"
	"gorm.io/gorm"

	"github.com/antinvestor/service-accounts/apps/default/service/models"
)

type webhookRepository struct {
	datastore.BaseRepository[*models.WebhookConfig]
}

// GetByID retrieves a webhook configuration by id.
func (wr *webhookRepository) GetByID(ctx context.Context, id string) (*models.WebhookConfig, error) {
	webhook := &models.WebhookConfig{}
	err := wr.Pool().DB(ctx, true).First(webhook, "id = ?", id).Error
	return webhook, err
}

// Save creates or updates a webhook configuration.
func (wr *webhookRepository) Save(ctx context.Context, webhook *models.WebhookConfig) error {
	return wr.Pool().DB(ctx, false).Save(webhook).Error
}

// Delete removes a webhook configuration.
func (wr *webhookRepository) Delete(ctx context.Context, id string) error {
	return wr.Pool().DB(ctx, false).Where("id = ?", id).Delete(&models.WebhookConfig{}).Error
}

// List returns all webhook configurations, newest first.
func (wr *webhookRepository) List(ctx context.Context) ([]*models.WebhookConfig, error) {
	var webhooks []*models.WebhookConfig
	err := wr.Pool().DB(ctx, true).
		Order("created_at DESC").
		Find(&webhooks).Error
	return webhooks, err
}

// GetActive returns the currently active webhook, if any.
func (wr *webhookRepository) GetActive(ctx context.Context) (*models.WebhookConfig, error) {
	webhook := &models.WebhookConfig{}
	err := wr.Pool().DB(ctx, true).
		Where("is_active = ?", true).
		First(webhook).Error
	return webhook, err
}

// Activate makes one webhook the active one. The deactivate-all plus
// activate-one pair runs in a single transaction so two concurrent
// activations serialise in the store instead of both appearing to win.
func (wr *webhookRepository) Activate(ctx context.Context, id string) error {
	return wr.Pool().DB(ctx, false).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&models.WebhookConfig{}).
			Where("is_active = ?", true).
			Update("is_active", false).Error
		if err != nil {
			return err
		}

		result := tx.Model(&models.WebhookConfig{}).
			Where("id = ?", id).
			Update("is_active", true)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// NewWebhookRepository creates a new webhook repository instance.
func NewWebhookRepository(ctx context.Context, dbPool pool.Pool, workMan workerpool.Manager) WebhookRepository {
	return &webhookRepository{
		BaseRepository: datastore.NewBaseRepository[*models.WebhookConfig](
			ctx, dbPool, workMan, func() *models.WebhookConfig { return &models.WebhookConfig{} },
		),
	}
}
