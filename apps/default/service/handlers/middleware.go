package handlers

import (
	"net"
	"net/http"
	"strings"

	"github.com/pitabwire/frame/security"
	"github.com/pitabwire/util"

	"github.com/antinvestor/service-accounts/apps/default/service/business"
	"github.com/antinvestor/service-accounts/apps/default/service/identity"
	"github.com/antinvestor/service-accounts/internal/ratelimit"
	"github.com/antinvestor/service-accounts/internal/telemetry"
)

const (
	bearerScheme     = "Bearer"
	bearerTokenParts = 2
)

// AuthMiddleware resolves the bearer token against the identity provider and
// installs the resulting claims into the request context. A verified token
// also stamps the ledger's sign-in timestamp, best effort.
type AuthMiddleware struct {
	gateway  identity.AdminClient
	accounts business.AccountBusiness
}

// NewAuthMiddleware creates an authentication middleware.
func NewAuthMiddleware(gateway identity.AdminClient, accounts business.AccountBusiness) *AuthMiddleware {
	return &AuthMiddleware{
		gateway:  gateway,
		accounts: accounts,
	}
}

// Wrap enforces authentication on next.
func (am *AuthMiddleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		logger := util.Log(ctx)

		authorizationHeader := r.Header.Get("Authorization")
		if authorizationHeader == "" || !strings.HasPrefix(authorizationHeader, bearerScheme+" ") {
			logger.Debug("authentication -- missing bearer token")
			writeJSON(w, http.StatusUnauthorized, errorResponse{ErrorMessage: "an authorization header is required"})
			return
		}

		extractedToken := strings.Split(authorizationHeader, " ")
		if len(extractedToken) != bearerTokenParts {
			logger.Debug("authentication -- token format is not valid")
			writeJSON(w, http.StatusUnauthorized, errorResponse{ErrorMessage: "malformed authorization header supplied"})
			return
		}

		token := strings.TrimSpace(extractedToken[1])

		account, err := am.gateway.VerifyToken(ctx, token)
		if err != nil {
			logger.WithError(err).Info("authentication -- could not verify token")
			writeJSON(w, http.StatusUnauthorized, errorResponse{ErrorMessage: "authorization header is invalid"})
			return
		}

		claims := &security.AuthenticationClaims{}
		claims.Subject = account.ID
		ctx = claims.ClaimsToContext(ctx)

		am.accounts.RecordSignIn(ctx, account.ID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RateLimitMiddleware applies a fixed-window limiter keyed by the caller.
// Authenticated callers are keyed by account id; anonymous requests fall back
// to the client address so one noisy host cannot starve the rest.
type RateLimitMiddleware struct {
	limiter *ratelimit.Limiter
}

// NewRateLimitMiddleware creates a rate limiting middleware.
func NewRateLimitMiddleware(limiter *ratelimit.Limiter) *RateLimitMiddleware {
	return &RateLimitMiddleware{limiter: limiter}
}

// Wrap enforces the limiter on next.
func (rm *RateLimitMiddleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		key := callerKey(r)
		if !rm.limiter.Allow(key) {
			telemetry.RateLimitRejectedCounter.Add(ctx, 1)
			util.Log(ctx).WithFields(map[string]any{
				"caller": key,
				"path":   r.URL.Path,
			}).Warn("rate limit exceeded")
			writeJSON(w, http.StatusTooManyRequests,
				errorResponse{ErrorMessage: "too many requests, please try again later"})
			return
		}

		next.ServeHTTP(w, r)
	})
}

func callerKey(r *http.Request) string {
	if claims := security.ClaimsFromContext(r.Context()); claims != nil {
		if subject, err := claims.GetSubject(); err == nil && subject != "" {
			return subject
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
