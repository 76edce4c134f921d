package repository

import (
	"context"

	"github.com/pitabwire/frame/datastore"
	"github.com/pitabwire/frame/datastore/pool"
	"github.com/pitabwire/frame/workerpool"

	"github.com/antinvestor/service-accounts/apps/default/service/models"
)

type voiceRepository struct {
	datastore.BaseRepository[*models.VoiceConfig]
}

// GetByID retrieves a voice configuration by id.
func (vr *voiceRepository) GetByID(ctx context.Context, id string) (*models.VoiceConfig, error) {
	voice := &models.VoiceConfig{}
	err := vr.Pool().DB(ctx, true).First(voice, "id = ?", id).Error
	return voice, err
}

// Save creates or updates a voice configuration.
func (vr *voiceRepository) Save(ctx context.Context, voice *models.VoiceConfig) error {
	return vr.Pool().DB(ctx, false).Save(voice).Error
}

// Delete removes a voice configuration.
func (vr *voiceRepository) Delete(ctx context.Context, id string) error {
	return vr.Pool().DB(ctx, false).Where("id = ?", id).Delete(&models.VoiceConfig{}).Error
}

// List returns all voice configurations ordered by name.
func (vr *voiceRepository) List(ctx context.Context) ([]*models.VoiceConfig, error) {
	var voices []*models.VoiceConfig
	err := vr.Pool().DB(ctx, true).
		Order("name ASC").
		Find(&voices).Error
	return voices, err
}

// NewVoiceRepository creates a new voice repository instance.
func NewVoiceRepository(ctx context.Context, dbPool pool.Pool, workMan workerpool.Manager) VoiceRepository {
	return &voiceRepository{
		BaseRepository: datastore.NewBaseRepository[*models.VoiceConfig](
			ctx, dbPool, workMan, func() *models.VoiceConfig { return &models.VoiceConfig{} },
		),
	}
}
