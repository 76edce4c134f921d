package business

import (
	"context"
	"slices"

	"github.com/pitabwire/frame/data"

	"github.com/antinvestor/service-accounts/apps/default/service"
	"github.com/antinvestor/service-accounts/apps/default/service/models"
	"github.com/antinvestor/service-accounts/apps/default/service/repository"
)

// supportedLanguages are the UI languages the platform ships translations
// for.
var supportedLanguages = []string{"en", "tr", "de", "fr", "es", "ar"}

type preferenceBusiness struct {
	preferenceRepo repository.PreferenceRepository
}

// NewPreferenceBusiness creates a new instance of PreferenceBusiness.
func NewPreferenceBusiness(preferenceRepo repository.PreferenceRepository) PreferenceBusiness {
	return &preferenceBusiness{
		preferenceRepo: preferenceRepo,
	}
}

// GetPreference returns the caller's own preference row, defaulting rather
// than erroring when none was written yet.
func (pb *preferenceBusiness) GetPreference(ctx context.Context, actorID string) (*models.APIUserPreference, error) {
	preference, err := pb.preferenceRepo.GetByProfileID(ctx, actorID)
	if err != nil {
		if data.ErrorIsNoRows(err) {
			return &models.APIUserPreference{ProfileID: actorID, Language: "en"}, nil
		}
		return nil, service.NewInternalError("failed to load preference", err)
	}
	return preference.ToAPI(), nil
}

// SetPreference writes the caller's own preference row. Preferences are
// strictly self-owned; the handler only ever passes the authenticated
// caller's id here, so no further policy check is needed.
func (pb *preferenceBusiness) SetPreference(ctx context.Context, actorID, language string) (*models.APIUserPreference, error) {
	if !slices.Contains(supportedLanguages, language) {
		return nil, service.NewValidationError("language is not supported")
	}

	preference, err := pb.preferenceRepo.Upsert(ctx, actorID, language)
	if err != nil {
		return nil, service.NewInternalError("failed to save preference", err)
	}
	return preference.ToAPI(), nil
}
