// Package identity is the administrative gateway to the external identity
// provider. It performs the two operations that require the elevated
// service key (account creation and account deletion) and resolves caller
// sessions from bearer tokens.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/antinvestor/service-accounts/apps/default/service"
	"github.com/antinvestor/service-accounts/internal/resilience"
	"github.com/antinvestor/service-accounts/internal/telemetry"
	"github.com/pitabwire/util"
)

// Account is the identity provider's view of an account. The accounts
// service only ever references its id and email.
type Account struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// AdminClient is the privileged service-to-service client. Authorization is
// the caller's job: the gateway trusts that a policy check already passed
// and never re-derives roles itself.
type AdminClient interface {
	// Configured reports whether the elevated credential is present.
	Configured() bool

	// CreateAccount creates an identity account with an initial password.
	// A duplicate email surfaces as a conflict error, never a generic
	// failure, because the remedy (use another email) is the caller's.
	CreateAccount(ctx context.Context, email, password string) (*Account, error)

	// DeleteAccount destroys the identity account. Cascade deletion of
	// ledger rows is the store's responsibility, not the gateway's.
	DeleteAccount(ctx context.Context, accountID string) error

	// VerifyToken resolves a session bearer token to the account it
	// belongs to.
	VerifyToken(ctx context.Context, token string) (*Account, error)
}

type client struct {
	config     Config
	httpClient *http.Client
	breaker    *resilience.CircuitBreaker
}

// NewClient creates an administrative gateway client. An unconfigured
// gateway is a valid, degraded state: construction succeeds and every call
// reports not-configured, so the process keeps serving unprivileged
// traffic.
func NewClient(ctx context.Context, cfg Config) AdminClient {
	cfg.normalise()

	log := util.Log(ctx)
	if !cfg.Configured() {
		log.Warn("identity administrative gateway is not configured; privileged endpoints degraded")
	}

	breaker := resilience.NewCircuitBreaker(resilience.Settings{
		Name:         "identity-provider",
		MaxFailures:  cfg.BreakerMaxFailures,
		ResetTimeout: cfg.BreakerResetTimeout,
		// Only transport failures and 5xx answers count toward opening the
		// circuit. A rejected token or a duplicate email is the provider
		// answering normally; a burst of bad bearer tokens must never lock
		// every caller out of session verification.
		IsSuccessful: func(err error) bool {
			switch service.KindOf(err) {
			case service.KindInternal, service.KindUpstream:
				return false
			default:
				return true
			}
		},
		OnStateChange: func(name string, from, to resilience.State) {
			log.WithFields(map[string]any{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("identity provider circuit state changed")
		},
	})

	return &client{
		config:     cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		breaker:    breaker,
	}
}

func (c *client) Configured() bool {
	return c.config.Configured()
}

// execute runs fn through the breaker while recording provider latency.
func (c *client) execute(ctx context.Context, fn func() error) error {
	start := time.Now()
	err := c.breaker.Execute(fn)
	telemetry.IdentityLatencyHistogram.Record(ctx, float64(time.Since(start).Milliseconds()))
	return err
}

type createAccountRequest struct {
	Email        string `json:"email"`
	Password     string `json:"password"`
	EmailConfirm bool   `json:"email_confirm"`
}

// providerError is the error body shape the provider returns. Field names
// vary across provider versions, so all known spellings are tried.
type providerError struct {
	Msg              string `json:"msg"`
	Message          string `json:"message"`
	ErrorText        string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

func (pe *providerError) text(fallback string) string {
	for _, s := range []string{pe.Msg, pe.Message, pe.ErrorText, pe.ErrorDescription} {
		if s != "" {
			return s
		}
	}
	return fallback
}

func (c *client) CreateAccount(ctx context.Context, email, password string) (*Account, error) {
	if !c.Configured() {
		return nil, service.NewNotConfiguredError("identity administrative gateway")
	}

	payload, err := json.Marshal(createAccountRequest{
		Email:        email,
		Password:     password,
		EmailConfirm: true,
	})
	if err != nil {
		return nil, service.NewInternalError("failed to encode account creation request", err)
	}

	var account Account
	err = c.execute(ctx, func() error {
		req, reqErr := http.NewRequestWithContext(ctx, http.MethodPost,
			c.adminURL("users"), bytes.NewReader(payload))
		if reqErr != nil {
			return service.NewInternalError("failed to build account creation request", reqErr)
		}
		c.setAdminHeaders(req)

		resp, doErr := c.httpClient.Do(req)
		if doErr != nil {
			return service.NewInternalError("identity provider request failed", doErr)
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated:
			if decErr := json.NewDecoder(resp.Body).Decode(&account); decErr != nil {
				return service.NewInternalError("failed to decode identity provider response", decErr)
			}
			return nil
		case resp.StatusCode == http.StatusConflict || resp.StatusCode == http.StatusUnprocessableEntity:
			return service.NewConflictError(c.errorText(resp, "a user with this email address has already been registered"), nil)
		default:
			return service.NewUpstreamError(c.errorText(resp,
				fmt.Sprintf("identity provider returned status %d", resp.StatusCode)), nil)
		}
	})
	if err != nil {
		return nil, translateBreakerError(err)
	}

	return &account, nil
}

func (c *client) DeleteAccount(ctx context.Context, accountID string) error {
	if !c.Configured() {
		return service.NewNotConfiguredError("identity administrative gateway")
	}

	err := c.execute(ctx, func() error {
		req, reqErr := http.NewRequestWithContext(ctx, http.MethodDelete,
			c.adminURL("users/"+accountID), nil)
		if reqErr != nil {
			return service.NewInternalError("failed to build account deletion request", reqErr)
		}
		c.setAdminHeaders(req)

		resp, doErr := c.httpClient.Do(req)
		if doErr != nil {
			return service.NewInternalError("identity provider request failed", doErr)
		}
		defer resp.Body.Close()

		switch resp.StatusCode {
		case http.StatusOK, http.StatusNoContent:
			return nil
		case http.StatusNotFound:
			return service.NewNotFoundError("account not found in identity store")
		default:
			return service.NewUpstreamError(c.errorText(resp,
				fmt.Sprintf("identity provider returned status %d", resp.StatusCode)), nil)
		}
	})

	return translateBreakerError(err)
}

func (c *client) VerifyToken(ctx context.Context, token string) (*Account, error) {
	// Verification authenticates with the caller's own bearer token, so it
	// needs only the provider address. The degraded no-service-key state
	// keeps sessions working while the privileged mutations return 503.
	if c.config.BaseURL == "" {
		return nil, service.NewNotConfiguredError("identity provider")
	}

	var account Account
	err := c.execute(ctx, func() error {
		req, reqErr := http.NewRequestWithContext(ctx, http.MethodGet,
			strings.TrimSuffix(c.config.BaseURL, "/")+"/user", nil)
		if reqErr != nil {
			return service.NewInternalError("failed to build token verification request", reqErr)
		}
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("Accept", "application/json")

		resp, doErr := c.httpClient.Do(req)
		if doErr != nil {
			return service.NewInternalError("identity provider request failed", doErr)
		}
		defer resp.Body.Close()

		switch resp.StatusCode {
		case http.StatusOK:
			if decErr := json.NewDecoder(resp.Body).Decode(&account); decErr != nil {
				return service.NewInternalError("failed to decode identity provider response", decErr)
			}
			return nil
		case http.StatusUnauthorized, http.StatusForbidden:
			return service.NewAuthorizationError("session token is invalid or expired")
		default:
			return service.NewUpstreamError(c.errorText(resp,
				fmt.Sprintf("identity provider returned status %d", resp.StatusCode)), nil)
		}
	})
	if err != nil {
		return nil, translateBreakerError(err)
	}

	return &account, nil
}

func (c *client) adminURL(path string) string {
	return strings.TrimSuffix(c.config.BaseURL, "/") + "/admin/" + path
}

func (c *client) setAdminHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.config.ServiceKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
}

// errorText extracts the provider's own message from an error response so
// it can be surfaced verbatim to the operator.
func (c *client) errorText(resp *http.Response, fallback string) string {
	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil || len(body) == 0 {
		return fallback
	}

	var pe providerError
	if err = json.Unmarshal(body, &pe); err != nil {
		return fallback
	}
	return pe.text(fallback)
}

// translateBreakerError converts a rejected call into a service error.
func translateBreakerError(err error) error {
	if err == nil {
		return nil
	}
	if err == resilience.ErrCircuitOpen {
		return service.NewInternalError("identity provider is temporarily unavailable", err)
	}
	return err
}
