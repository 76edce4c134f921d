package identity

import "time"

// Config holds the connection settings for the identity provider's
// administrative API. The service key is the elevated credential of the
// platform; it lives only in server-side configuration and is attached to
// admin requests, never echoed back to callers.
type Config struct {
	// BaseURL is the identity provider's auth endpoint.
	BaseURL string

	// ServiceKey is the elevated service-role credential.
	ServiceKey string

	// Timeout is the per-request timeout.
	Timeout time.Duration

	// BreakerMaxFailures is the consecutive-failure threshold before the
	// circuit to the provider opens.
	BreakerMaxFailures int64

	// BreakerResetTimeout is how long the circuit stays open.
	BreakerResetTimeout time.Duration
}

// DefaultConfig returns a Config with usable defaults. BaseURL and
// ServiceKey have no defaults on purpose; an unconfigured gateway must
// degrade, not guess.
func DefaultConfig() Config {
	return Config{
		Timeout:             10 * time.Second,
		BreakerMaxFailures:  5,
		BreakerResetTimeout: 30 * time.Second,
	}
}

// Configured reports whether the gateway can perform the privileged admin
// operations. When false those return a not-configured error instead of
// crashing the process; token verification only needs BaseURL and keeps
// working without the service key.
func (c *Config) Configured() bool {
	return c.BaseURL != "" && c.ServiceKey != ""
}

// normalise fills zero-valued tunables with defaults.
func (c *Config) normalise() {
	if c.Timeout <= 0 {
		c.Timeout = 10 * time.Second
	}
	if c.BreakerMaxFailures <= 0 {
		c.BreakerMaxFailures = 5
	}
	if c.BreakerResetTimeout <= 0 {
		c.BreakerResetTimeout = 30 * time.Second
	}
}
