package business_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/antinvestor/service-accounts/apps/default/service/identity"
	"github.com/antinvestor/service-accounts/apps/default/service/models"
)

// fakeProfileRepo is an in-memory role ledger for unit tests.
type fakeProfileRepo struct {
	mu       sync.Mutex
	profiles map[string]*models.Profile

	updateRoleErr error
	createErr     error
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: make(map[string]*models.Profile)}
}

func (f *fakeProfileRepo) seed(id, email, role string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	p := &models.Profile{Email: email, Role: role}
	p.ID = id
	p.CreatedAt = time.Now().Add(-time.Duration(len(f.profiles)) * time.Minute)
	f.profiles[id] = p
}

func (f *fakeProfileRepo) GetByID(_ context.Context, id string) (*models.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	p, ok := f.profiles[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProfileRepo) CreateIfAbsent(_ context.Context, accountID, email string) (*models.Profile, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if existing, ok := f.profiles[accountID]; ok {
		cp := *existing
		return &cp, nil
	}

	p := &models.Profile{Email: email, Role: models.RoleUser}
	p.ID = accountID
	p.CreatedAt = time.Now()
	f.profiles[accountID] = p
	cp := *p
	return &cp, nil
}

func (f *fakeProfileRepo) UpdateRole(_ context.Context, id, role string) (*models.Profile, error) {
	if f.updateRoleErr != nil {
		return nil, f.updateRoleErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	p, ok := f.profiles[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	p.Role = role
	p.ModifiedAt = time.Now()
	cp := *p
	return &cp, nil
}

func (f *fakeProfileRepo) TouchSignIn(_ context.Context, id string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if p, ok := f.profiles[id]; ok {
		p.LastSignInAt = &at
	}
	return nil
}

func (f *fakeProfileRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.profiles[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.profiles, id)
	return nil
}

func (f *fakeProfileRepo) ListAll(_ context.Context) ([]*models.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	result := make([]*models.Profile, 0, len(f.profiles))
	for _, p := range f.profiles {
		cp := *p
		result = append(result, &cp)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

// fakeWebhookRepo is an in-memory webhook store for unit tests.
type fakeWebhookRepo struct {
	mu       sync.Mutex
	webhooks map[string]*models.WebhookConfig
}

func newFakeWebhookRepo() *fakeWebhookRepo {
	return &fakeWebhookRepo{webhooks: make(map[string]*models.WebhookConfig)}
}

func (f *fakeWebhookRepo) GetByID(_ context.Context, id string) (*models.WebhookConfig, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	w, ok := f.webhooks[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *w
	return &cp, nil
}

func (f *fakeWebhookRepo) Save(_ context.Context, webhook *models.WebhookConfig) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	cp := *webhook
	f.webhooks[webhook.GetID()] = &cp
	return nil
}

func (f *fakeWebhookRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.webhooks, id)
	return nil
}

func (f *fakeWebhookRepo) List(_ context.Context) ([]*models.WebhookConfig, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	result := make([]*models.WebhookConfig, 0, len(f.webhooks))
	for _, w := range f.webhooks {
		cp := *w
		result = append(result, &cp)
	}
	return result, nil
}

func (f *fakeWebhookRepo) GetActive(_ context.Context) (*models.WebhookConfig, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, w := range f.webhooks {
		if w.IsActive {
			cp := *w
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeWebhookRepo) Activate(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	target, ok := f.webhooks[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for _, w := range f.webhooks {
		w.IsActive = false
	}
	target.IsActive = true
	return nil
}

// fakeVoiceRepo is an in-memory voice store for unit tests.
type fakeVoiceRepo struct {
	mu     sync.Mutex
	voices map[string]*models.VoiceConfig
}

func newFakeVoiceRepo() *fakeVoiceRepo {
	return &fakeVoiceRepo{voices: make(map[string]*models.VoiceConfig)}
}

func (f *fakeVoiceRepo) GetByID(_ context.Context, id string) (*models.VoiceConfig, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	v, ok := f.voices[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *v
	return &cp, nil
}

func (f *fakeVoiceRepo) Save(_ context.Context, voice *models.VoiceConfig) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	cp := *voice
	f.voices[voice.GetID()] = &cp
	return nil
}

func (f *fakeVoiceRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.voices, id)
	return nil
}

func (f *fakeVoiceRepo) List(_ context.Context) ([]*models.VoiceConfig, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	result := make([]*models.VoiceConfig, 0, len(f.voices))
	for _, v := range f.voices {
		cp := *v
		result = append(result, &cp)
	}
	return result, nil
}

// fakePreferenceRepo is an in-memory preference store for unit tests.
type fakePreferenceRepo struct {
	mu    sync.Mutex
	prefs map[string]*models.UserPreference
}

func newFakePreferenceRepo() *fakePreferenceRepo {
	return &fakePreferenceRepo{prefs: make(map[string]*models.UserPreference)}
}

func (f *fakePreferenceRepo) GetByProfileID(_ context.Context, profileID string) (*models.UserPreference, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	p, ok := f.prefs[profileID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakePreferenceRepo) Upsert(_ context.Context, profileID, language string) (*models.UserPreference, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	p, ok := f.prefs[profileID]
	if !ok {
		p = &models.UserPreference{ProfileID: profileID}
		p.ID = "pref-" + profileID
		f.prefs[profileID] = p
	}
	p.Language = language
	cp := *p
	return &cp, nil
}

// fakeGateway is a scripted identity provider client.
type fakeGateway struct {
	configured bool

	nextID    string
	createErr error
	deleteErr error

	created []string
	deleted []string
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		configured: true,
		nextID:     "99999999-9999-4999-8999-999999999999",
	}
}

func (f *fakeGateway) Configured() bool {
	return f.configured
}

func (f *fakeGateway) CreateAccount(_ context.Context, email, _ string) (*identity.Account, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, email)
	return &identity.Account{ID: f.nextID, Email: email}, nil
}

func (f *fakeGateway) DeleteAccount(_ context.Context, accountID string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, accountID)
	return nil
}

func (f *fakeGateway) VerifyToken(_ context.Context, token string) (*identity.Account, error) {
	return &identity.Account{ID: token, Email: token + "@example.com"}, nil
}
