package handlers

import "net/http"

// RouterDeps carries everything the REST surface needs.
type RouterDeps struct {
	Auth         *AuthMiddleware
	PreAuthLimit *RateLimitMiddleware
	GeneralLimit *RateLimitMiddleware
	AdminLimit   *RateLimitMiddleware
	Accounts     *AccountsServer
	Settings     *SettingsServer
}

// NewRouter builds the API mux. A coarse per-address limiter runs before
// authentication so a token-stuffing flood is cut off before it costs
// provider round-trips. Every route is then authenticated and counted
// against the general per-caller limiter; the privileged account mutations
// additionally pass the much tighter admin limiter.
func NewRouter(deps RouterDeps) *http.ServeMux {
	mux := http.NewServeMux()

	general := func(h http.HandlerFunc) http.Handler {
		return deps.PreAuthLimit.Wrap(deps.Auth.Wrap(deps.GeneralLimit.Wrap(h)))
	}
	admin := func(h http.HandlerFunc) http.Handler {
		return deps.PreAuthLimit.Wrap(deps.Auth.Wrap(deps.GeneralLimit.Wrap(deps.AdminLimit.Wrap(h))))
	}

	mux.Handle("POST /api/admin/users", admin(deps.Accounts.CreateUser))
	mux.Handle("DELETE /api/admin/users/{userId}", admin(deps.Accounts.DeleteUser))
	mux.Handle("PUT /api/admin/users/{userId}/role", admin(deps.Accounts.ChangeUserRole))
	mux.Handle("GET /api/admin/users", general(deps.Accounts.ListUsers))

	mux.Handle("GET /api/admin/webhooks", general(deps.Settings.ListWebhooks))
	mux.Handle("POST /api/admin/webhooks", general(deps.Settings.SaveWebhook))
	mux.Handle("POST /api/admin/webhooks/{webhookId}/activate", general(deps.Settings.ActivateWebhook))
	mux.Handle("DELETE /api/admin/webhooks/{webhookId}", general(deps.Settings.DeleteWebhook))

	mux.Handle("GET /api/voices", general(deps.Settings.ListVoices))
	mux.Handle("POST /api/admin/voices", general(deps.Settings.SaveVoice))
	mux.Handle("DELETE /api/admin/voices/{voiceId}", general(deps.Settings.DeleteVoice))

	mux.Handle("GET /api/preferences", general(deps.Settings.GetPreference))
	mux.Handle("PUT /api/preferences", general(deps.Settings.SetPreference))

	return mux
}
