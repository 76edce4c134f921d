package business

import (
	"context"

	"github.com/pitabwire/frame/data"

	"github.com/antinvestor/service-accounts/apps/default/service"
	"github.com/antinvestor/service-accounts/apps/default/service/authz"
	"github.com/antinvestor/service-accounts/apps/default/service/models"
	"github.com/antinvestor/service-accounts/apps/default/service/repository"
)

type voiceBusiness struct {
	profileRepo repository.ProfileRepository
	voiceRepo   repository.VoiceRepository
}

// NewVoiceBusiness creates a new instance of VoiceBusiness.
func NewVoiceBusiness(
	profileRepo repository.ProfileRepository,
	voiceRepo repository.VoiceRepository,
) VoiceBusiness {
	return &voiceBusiness{
		profileRepo: profileRepo,
		voiceRepo:   voiceRepo,
	}
}

func (vb *voiceBusiness) resolveRole(ctx context.Context, actorID string) (authz.Role, error) {
	profile, err := vb.profileRepo.GetByID(ctx, actorID)
	if err != nil {
		if data.ErrorIsNoRows(err) {
			return "", service.NewAuthorizationError("caller has no profile in the role ledger")
		}
		return "", service.NewInternalError("failed to resolve caller role", err)
	}
	return authz.Role(profile.Role), nil
}

// ListVoices returns all narration voices. Any authenticated account with a
// recognised role may read them.
func (vb *voiceBusiness) ListVoices(ctx context.Context, actorID string) ([]*models.APIVoiceConfig, error) {
	role, err := vb.resolveRole(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !authz.CanReadVoices(role) {
		return nil, service.NewAuthorizationError("you do not have permission to list voices")
	}

	voices, err := vb.voiceRepo.List(ctx)
	if err != nil {
		return nil, service.NewInternalError("failed to list voices", err)
	}

	result := make([]*models.APIVoiceConfig, 0, len(voices))
	for _, voice := range voices {
		result = append(result, voice.ToAPI())
	}
	return result, nil
}

// SaveVoice creates or updates a voice configuration. Admin/owner only.
func (vb *voiceBusiness) SaveVoice(
	ctx context.Context,
	actorID string,
	voice *models.VoiceConfig,
) (*models.APIVoiceConfig, error) {
	role, err := vb.resolveRole(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !authz.CanManageSettings(role) {
		return nil, service.NewAuthorizationError("voice settings are restricted to admins and owners")
	}

	if voice.Name == "" || voice.VoiceID == "" {
		return nil, service.NewValidationError("voice name and voice id are required")
	}

	if voice.GetID() == "" {
		voice.GenID(ctx)
	}

	if err = vb.voiceRepo.Save(ctx, voice); err != nil {
		return nil, service.NewInternalError("failed to save voice", err)
	}
	return voice.ToAPI(), nil
}

// DeleteVoice removes a voice configuration. Admin/owner only.
func (vb *voiceBusiness) DeleteVoice(ctx context.Context, actorID, voiceID string) error {
	role, err := vb.resolveRole(ctx, actorID)
	if err != nil {
		return err
	}
	if !authz.CanManageSettings(role) {
		return service.NewAuthorizationError("voice settings are restricted to admins and owners")
	}

	if err = vb.voiceRepo.Delete(ctx, voiceID); err != nil {
		return service.NewInternalError("failed to delete voice", err)
	}
	return nil
}
