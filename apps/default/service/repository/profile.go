package repository

import (
	"context"
	"time"

	"github.com/pitabwire/frame/datastore"
	"github.com/pitabwire/frame/datastore/pool"
	"github.com/pitabwire/frame/workerpool"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/antinvestor/service-accounts/apps/default/service/models"
)

type profileRepository struct {
	datastore.BaseRepository[*models.Profile]
}

// GetByID retrieves a profile by its account id.
func (pr *profileRepository) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	profile := &models.Profile{}
	err := pr.Pool().DB(ctx, true).First(profile, "id = ?", id).Error
	return profile, err
}

// CreateIfAbsent provisions the ledger row with the default user role.
// ON CONFLICT DO NOTHING keeps the operation idempotent without a
// read-then-write race.
func (pr *profileRepository) CreateIfAbsent(ctx context.Context, accountID, email string) (*models.Profile, error) {
	profile := &models.Profile{
		Email: email,
		Role:  models.RoleUser,
	}
	profile.ID = accountID

	err := pr.Pool().DB(ctx, false).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, DoNothing: true}).
		Create(profile).Error
	if err != nil {
		return nil, err
	}

	return pr.GetByID(ctx, accountID)
}

// UpdateRole sets the role unconditionally. modified_at is assigned here so
// a role round-trip always observes a strictly later timestamp.
func (pr *profileRepository) UpdateRole(ctx context.Context, id, role string) (*models.Profile, error) {
	result := pr.Pool().DB(ctx, false).
		Model(&models.Profile{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"role":        role,
			"modified_at": time.Now(),
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	return pr.GetByID(ctx, id)
}

// TouchSignIn records a successful authentication.
func (pr *profileRepository) TouchSignIn(ctx context.Context, id string, at time.Time) error {
	return pr.Pool().DB(ctx, false).
		Model(&models.Profile{}).
		Where("id = ?", id).
		Update("last_sign_in_at", at).Error
}

// Delete removes the profile together with its dependent preference row.
// The cascade is explicit rather than delegated to foreign-key actions so
// the behaviour stays portable across storage backends.
func (pr *profileRepository) Delete(ctx context.Context, id string) error {
	return pr.Pool().DB(ctx, false).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("profile_id = ?", id).Delete(&models.UserPreference{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&models.Profile{}).Error
	})
}

// ListAll returns every profile, newest first.
func (pr *profileRepository) ListAll(ctx context.Context) ([]*models.Profile, error) {
	var profiles []*models.Profile
	err := pr.Pool().DB(ctx, true).
		Order("created_at DESC").
		Find(&profiles).Error
	return profiles, err
}

// NewProfileRepository creates a new profile repository instance.
func NewProfileRepository(ctx context.Context, dbPool pool.Pool, workMan workerpool.Manager) ProfileRepository {
	return &profileRepository{
		BaseRepository: datastore.NewBaseRepository[*models.Profile](
			ctx, dbPool, workMan, func() *models.Profile { return &models.Profile{} },
		),
	}
}
