package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pitabwire/frame/config"
)

type AccountsConfig struct {
	config.ConfigurationDefault

	IdentityProviderURI string `envDefault:""   env:"IDENTITY_PROVIDER_URI"`
	IdentityServiceKey  string `envDefault:""   env:"IDENTITY_SERVICE_KEY"`
	IdentityTimeout     int    `envDefault:"10" env:"IDENTITY_TIMEOUT_SECONDS"`

	IdentityBreakerMaxFailures  int `envDefault:"5"  env:"IDENTITY_BREAKER_MAX_FAILURES"`
	IdentityBreakerResetSeconds int `envDefault:"30" env:"IDENTITY_BREAKER_RESET_SECONDS"`

	// Fixed-window limits. The admin window covers the privileged account
	// mutations only; the general window covers the whole API surface. The
	// pre-auth window is keyed by client address and runs before token
	// verification, so it is deliberately loose enough for many callers
	// behind one address while still capping unauthenticated floods.
	AdminRateLimit        int `envDefault:"5"    env:"ADMIN_RATE_LIMIT"`
	AdminRateWindowMins   int `envDefault:"15"   env:"ADMIN_RATE_WINDOW_MINUTES"`
	GeneralRateLimit      int `envDefault:"100"  env:"GENERAL_RATE_LIMIT"`
	GeneralRateWindowMins int `envDefault:"15"   env:"GENERAL_RATE_WINDOW_MINUTES"`
	PreAuthRateLimit      int `envDefault:"1000" env:"PREAUTH_RATE_LIMIT"`
	PreAuthRateWindowMins int `envDefault:"15"   env:"PREAUTH_RATE_WINDOW_MINUTES"`

	// Authorization decision auditing. Denials are always logged when
	// enabled; the sample rate only thins out allowed decisions.
	AuthzAuditEnabled    bool    `envDefault:"true" env:"AUTHZ_AUDIT_ENABLED"`
	AuthzAuditSampleRate float64 `envDefault:"0.1"  env:"AUTHZ_AUDIT_SAMPLE_RATE"`
}

// Validate checks that the configuration is valid.
// Returns an error if any validation fails.
func (c *AccountsConfig) Validate() error {
	var errs []error

	if c.IdentityProviderURI != "" &&
		!strings.HasPrefix(c.IdentityProviderURI, "http://") &&
		!strings.HasPrefix(c.IdentityProviderURI, "https://") {
		errs = append(errs, errors.New("IdentityProviderURI must be an http or https URL"))
	}

	if c.IdentityTimeout <= 0 {
		errs = append(errs, errors.New("IdentityTimeout must be > 0"))
	}

	for name, v := range map[string]int{
		"AdminRateLimit":        c.AdminRateLimit,
		"AdminRateWindowMins":   c.AdminRateWindowMins,
		"GeneralRateLimit":      c.GeneralRateLimit,
		"GeneralRateWindowMins": c.GeneralRateWindowMins,
		"PreAuthRateLimit":      c.PreAuthRateLimit,
		"PreAuthRateWindowMins": c.PreAuthRateWindowMins,
	} {
		if v <= 0 {
			errs = append(errs, fmt.Errorf("%s must be > 0", name))
		}
	}

	if c.AuthzAuditSampleRate < 0 || c.AuthzAuditSampleRate > 1.0 {
		errs = append(errs, errors.New("AuthzAuditSampleRate must be between 0 and 1"))
	}

	return errors.Join(errs...)
}

// AdminRateWindow returns the admin limiter window as a duration.
func (c *AccountsConfig) AdminRateWindow() time.Duration {
	return time.Duration(c.AdminRateWindowMins) * time.Minute
}

// GeneralRateWindow returns the general limiter window as a duration.
func (c *AccountsConfig) GeneralRateWindow() time.Duration {
	return time.Duration(c.GeneralRateWindowMins) * time.Minute
}

// PreAuthRateWindow returns the pre-auth limiter window as a duration.
func (c *AccountsConfig) PreAuthRateWindow() time.Duration {
	return time.Duration(c.PreAuthRateWindowMins) * time.Minute
}

// IdentityRequestTimeout returns the identity client timeout as a duration.
func (c *AccountsConfig) IdentityRequestTimeout() time.Duration {
	return time.Duration(c.IdentityTimeout) * time.Second
}

// IdentityBreakerResetTimeout returns the breaker reset as a duration.
func (c *AccountsConfig) IdentityBreakerResetTimeout() time.Duration {
	return time.Duration(c.IdentityBreakerResetSeconds) * time.Second
}
