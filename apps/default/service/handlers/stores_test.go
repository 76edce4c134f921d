package handlers_test

import (
	"context"
	"sync"

	"gorm.io/gorm"

	"github.com/antinvestor/service-accounts/apps/default/service/models"
)

type memWebhookRepo struct {
	mu       sync.Mutex
	webhooks map[string]*models.WebhookConfig
}

func newMemWebhookRepo() *memWebhookRepo {
	return &memWebhookRepo{webhooks: make(map[string]*models.WebhookConfig)}
}

func (m *memWebhookRepo) GetByID(_ context.Context, id string) (*models.WebhookConfig, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	w, ok := m.webhooks[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *w
	return &cp, nil
}

func (m *memWebhookRepo) Save(_ context.Context, webhook *models.WebhookConfig) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *webhook
	m.webhooks[webhook.GetID()] = &cp
	return nil
}

func (m *memWebhookRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.webhooks, id)
	return nil
}

func (m *memWebhookRepo) List(_ context.Context) ([]*models.WebhookConfig, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := make([]*models.WebhookConfig, 0, len(m.webhooks))
	for _, w := range m.webhooks {
		cp := *w
		result = append(result, &cp)
	}
	return result, nil
}

func (m *memWebhookRepo) GetActive(_ context.Context) (*models.WebhookConfig, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, w := range m.webhooks {
		if w.IsActive {
			cp := *w
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memWebhookRepo) Activate(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	target, ok := m.webhooks[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for _, w := range m.webhooks {
		w.IsActive = false
	}
	target.IsActive = true
	return nil
}

type memVoiceRepo struct {
	mu     sync.Mutex
	voices map[string]*models.VoiceConfig
}

func newMemVoiceRepo() *memVoiceRepo {
	return &memVoiceRepo{voices: make(map[string]*models.VoiceConfig)}
}

func (m *memVoiceRepo) GetByID(_ context.Context, id string) (*models.VoiceConfig, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.voices[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *v
	return &cp, nil
}

func (m *memVoiceRepo) Save(_ context.Context, voice *models.VoiceConfig) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *voice
	m.voices[voice.GetID()] = &cp
	return nil
}

func (m *memVoiceRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.voices, id)
	return nil
}

func (m *memVoiceRepo) List(_ context.Context) ([]*models.VoiceConfig, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := make([]*models.VoiceConfig, 0, len(m.voices))
	for _, v := range m.voices {
		cp := *v
		result = append(result, &cp)
	}
	return result, nil
}

type memPreferenceRepo struct {
	mu    sync.Mutex
	prefs map[string]*models.UserPreference
}

func newMemPreferenceRepo() *memPreferenceRepo {
	return &memPreferenceRepo{prefs: make(map[string]*models.UserPreference)}
}

func (m *memPreferenceRepo) GetByProfileID(_ context.Context, profileID string) (*models.UserPreference, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.prefs[profileID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memPreferenceRepo) Upsert(_ context.Context, profileID, language string) (*models.UserPreference, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.prefs[profileID]
	if !ok {
		p = &models.UserPreference{ProfileID: profileID}
		p.ID = "pref-" + profileID
		m.prefs[profileID] = p
	}
	p.Language = language
	cp := *p
	return &cp, nil
}
