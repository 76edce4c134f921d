package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/antinvestor/service-accounts/apps/default/service"
	"github.com/antinvestor/service-accounts/apps/default/service/business"
	"github.com/antinvestor/service-accounts/apps/default/service/models"
)

// SettingsServer serves the webhook, voice and preference endpoints.
type SettingsServer struct {
	webhooks    business.WebhookBusiness
	voices      business.VoiceBusiness
	preferences business.PreferenceBusiness
}

// NewSettingsServer creates a settings handler.
func NewSettingsServer(
	webhooks business.WebhookBusiness,
	voices business.VoiceBusiness,
	preferences business.PreferenceBusiness,
) *SettingsServer {
	return &SettingsServer{
		webhooks:    webhooks,
		voices:      voices,
		preferences: preferences,
	}
}

// ListWebhooks handles GET /api/admin/webhooks.
func (ss *SettingsServer) ListWebhooks(w http.ResponseWriter, r *http.Request) {
	actorID, ok := callerID(w, r)
	if !ok {
		return
	}

	webhooks, err := ss.webhooks.ListWebhooks(r.Context(), actorID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"webhooks": webhooks})
}

type saveWebhookRequest struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	URL         string `json:"url"`
	Description string `json:"description"`
}

// SaveWebhook handles POST /api/admin/webhooks for both create and update.
func (ss *SettingsServer) SaveWebhook(w http.ResponseWriter, r *http.Request) {
	actorID, ok := callerID(w, r)
	if !ok {
		return
	}

	var req saveWebhookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, service.NewValidationError("request body is not valid JSON"))
		return
	}

	webhook := &models.WebhookConfig{
		Name:        req.Name,
		URL:         req.URL,
		Description: req.Description,
	}
	if req.ID != "" {
		webhook.ID = req.ID
	}

	saved, err := ss.webhooks.SaveWebhook(r.Context(), actorID, webhook)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "webhook": saved})
}

// ActivateWebhook handles POST /api/admin/webhooks/{webhookId}/activate.
func (ss *SettingsServer) ActivateWebhook(w http.ResponseWriter, r *http.Request) {
	actorID, ok := callerID(w, r)
	if !ok {
		return
	}

	if err := ss.webhooks.ActivateWebhook(r.Context(), actorID, r.PathValue("webhookId")); err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// DeleteWebhook handles DELETE /api/admin/webhooks/{webhookId}.
func (ss *SettingsServer) DeleteWebhook(w http.ResponseWriter, r *http.Request) {
	actorID, ok := callerID(w, r)
	if !ok {
		return
	}

	if err := ss.webhooks.DeleteWebhook(r.Context(), actorID, r.PathValue("webhookId")); err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// ListVoices handles GET /api/voices.
func (ss *SettingsServer) ListVoices(w http.ResponseWriter, r *http.Request) {
	actorID, ok := callerID(w, r)
	if !ok {
		return
	}

	voices, err := ss.voices.ListVoices(r.Context(), actorID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"voices": voices})
}

type saveVoiceRequest struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	VoiceID  string `json:"voice_id"`
	Language string `json:"language"`
}

// SaveVoice handles POST /api/admin/voices.
func (ss *SettingsServer) SaveVoice(w http.ResponseWriter, r *http.Request) {
	actorID, ok := callerID(w, r)
	if !ok {
		return
	}

	var req saveVoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, service.NewValidationError("request body is not valid JSON"))
		return
	}

	voice := &models.VoiceConfig{
		Name:     req.Name,
		VoiceID:  req.VoiceID,
		Language: req.Language,
	}
	if req.ID != "" {
		voice.ID = req.ID
	}

	saved, err := ss.voices.SaveVoice(r.Context(), actorID, voice)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "voice": saved})
}

// DeleteVoice handles DELETE /api/admin/voices/{voiceId}.
func (ss *SettingsServer) DeleteVoice(w http.ResponseWriter, r *http.Request) {
	actorID, ok := callerID(w, r)
	if !ok {
		return
	}

	if err := ss.voices.DeleteVoice(r.Context(), actorID, r.PathValue("voiceId")); err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// GetPreference handles GET /api/preferences. Preferences are strictly
// self-owned, so no target id is accepted on the wire.
func (ss *SettingsServer) GetPreference(w http.ResponseWriter, r *http.Request) {
	actorID, ok := callerID(w, r)
	if !ok {
		return
	}

	preference, err := ss.preferences.GetPreference(r.Context(), actorID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, preference)
}

type setPreferenceRequest struct {
	Language string `json:"language"`
}

// SetPreference handles PUT /api/preferences.
func (ss *SettingsServer) SetPreference(w http.ResponseWriter, r *http.Request) {
	actorID, ok := callerID(w, r)
	if !ok {
		return
	}

	var req setPreferenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, service.NewValidationError("request body is not valid JSON"))
		return
	}

	preference, err := ss.preferences.SetPreference(r.Context(), actorID, req.Language)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, preference)
}
