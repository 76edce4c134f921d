package repository

import (
	"context"

	"github.com/pitabwire/frame"

	"github.com/antinvestor/service-accounts/apps/default/service/models"
)

func Migrate(ctx context.Context, svc *frame.Service, migrationPath string) error {
	return svc.MigrateDatastore(ctx, migrationPath,
		&models.Profile{}, &models.WebhookConfig{}, &models.VoiceConfig{}, &models.UserPreference{})
}
