package repository

import (
	"context"

	"github.com/pitabwire/frame/datastore"
	"github.com/pitabwire/frame/datastore/pool"
	"github.com/pitabwire/frame/workerpool"
	"gorm.io/gorm/clause"

	"github.com/antinvestor/service-accounts/apps/default/service/models"
)

type preferenceRepository struct {
	datastore.BaseRepository[*models.UserPreference]
}

// GetByProfileID retrieves the preference row for an account.
func (pr *preferenceRepository) GetByProfileID(ctx context.Context, profileID string) (*models.UserPreference, error) {
	preference := &models.UserPreference{}
	err := pr.Pool().DB(ctx, true).
		Where("profile_id = ?", profileID).
		First(preference).Error
	return preference, err
}

// Upsert creates the preference row on first write and updates it after.
func (pr *preferenceRepository) Upsert(ctx context.Context, profileID, language string) (*models.UserPreference, error) {
	preference := &models.UserPreference{
		ProfileID: profileID,
		Language:  language,
	}
	preference.GenID(ctx)

	err := pr.Pool().DB(ctx, false).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "profile_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"language"}),
		}).
		Create(preference).Error
	if err != nil {
		return nil, err
	}

	return pr.GetByProfileID(ctx, profileID)
}

// NewPreferenceRepository creates a new preference repository instance.
func NewPreferenceRepository(ctx context.Context, dbPool pool.Pool, workMan workerpool.Manager) PreferenceRepository {
	return &preferenceRepository{
		BaseRepository: datastore.NewBaseRepository[*models.UserPreference](
			ctx, dbPool, workMan, func() *models.UserPreference { return &models.UserPreference{} },
		),
	}
}
