// Package resilience guards calls to external collaborators. The accounts
// service talks to exactly one: the identity provider's administrative API.
package resilience

import (
	"errors"
	"sync"
	"time"
)

// State represents the circuit breaker state.
type State int32

const (
	StateClosed   State = iota // normal operation, tracking failures
	StateOpen                  // failing fast, not calling the provider
	StateHalfOpen              // probing whether the provider recovered
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// ErrCircuitOpen is returned when the breaker rejects a call outright.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// Settings configures a CircuitBreaker.
type Settings struct {
	// Name identifies this breaker in logs.
	Name string

	// MaxFailures is the number of consecutive failures before the
	// circuit opens.
	MaxFailures int64

	// ResetTimeout is how long the circuit stays open before probing.
	ResetTimeout time.Duration

	// HalfOpenMaxRequests is the number of successes required in
	// half-open state before the circuit closes again.
	HalfOpenMaxRequests int64

	// IsSuccessful classifies non-nil errors from the wrapped call. An
	// error it reports as successful is returned to the caller but does
	// not count toward MaxFailures: the collaborator answered, it just
	// said no. When nil, every error counts as a failure.
	IsSuccessful func(err error) bool

	// OnStateChange is called on every state transition.
	OnStateChange func(name string, from, to State)
}

// DefaultSettings returns usable defaults for a breaker.
func DefaultSettings(name string) Settings {
	return Settings{
		Name:                name,
		MaxFailures:         5,
		ResetTimeout:        30 * time.Second,
		HalfOpenMaxRequests: 3,
	}
}

// CircuitBreaker fails fast once an external collaborator has shown itself
// unavailable, instead of stacking up doomed requests against it.
type CircuitBreaker struct {
	settings Settings

	mu              sync.Mutex
	state           State
	failures        int64
	successes       int64
	lastStateChange time.Time
}

// NewCircuitBreaker creates a breaker with the given settings.
func NewCircuitBreaker(settings Settings) *CircuitBreaker {
	if settings.MaxFailures <= 0 {
		settings.MaxFailures = 5
	}
	if settings.ResetTimeout <= 0 {
		settings.ResetTimeout = 30 * time.Second
	}
	if settings.HalfOpenMaxRequests <= 0 {
		settings.HalfOpenMaxRequests = 3
	}

	return &CircuitBreaker{
		settings:        settings,
		state:           StateClosed,
		lastStateChange: time.Now(),
	}
}

// Execute runs fn through the breaker. Returns ErrCircuitOpen when the
// circuit is open and the call is rejected without being attempted.
func (cb *CircuitBreaker) Execute(fn func() error) error {
	if !cb.allowRequest() {
		return ErrCircuitOpen
	}

	err := fn()
	if err != nil && !cb.isSuccessful(err) {
		cb.recordFailure()
		return err
	}

	cb.recordSuccess()
	return err
}

// isSuccessful applies the classifier to a non-nil error.
func (cb *CircuitBreaker) isSuccessful(err error) bool {
	if cb.settings.IsSuccessful == nil {
		return false
	}
	return cb.settings.IsSuccessful(err)
}

// State returns the current breaker state.
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.currentState()
}

// Name returns the breaker name.
func (cb *CircuitBreaker) Name() string {
	return cb.settings.Name
}

// currentState returns the effective state, accounting for the open→half-open
// timeout transition. Must be called with cb.mu held.
func (cb *CircuitBreaker) currentState() State {
	if cb.state == StateOpen && time.Since(cb.lastStateChange) >= cb.settings.ResetTimeout {
		cb.setState(StateHalfOpen)
	}
	return cb.state
}

func (cb *CircuitBreaker) allowRequest() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.currentState() {
	case StateClosed:
		return true
	case StateOpen:
		return false
	case StateHalfOpen:
		return cb.successes < cb.settings.HalfOpenMaxRequests
	default:
		return true
	}
}

func (cb *CircuitBreaker) recordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.currentState() {
	case StateClosed:
		cb.failures = 0
	case StateHalfOpen:
		cb.successes++
		if cb.successes >= cb.settings.HalfOpenMaxRequests {
			cb.setState(StateClosed)
		}
	}
}

func (cb *CircuitBreaker) recordFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.currentState() {
	case StateClosed:
		cb.failures++
		if cb.failures >= cb.settings.MaxFailures {
			cb.setState(StateOpen)
		}
	case StateHalfOpen:
		// Any failure while probing reopens the circuit.
		cb.setState(StateOpen)
	}
}

// setState transitions to a new state. Must be called with cb.mu held.
func (cb *CircuitBreaker) setState(newState State) {
	if cb.state == newState {
		return
	}

	oldState := cb.state
	cb.state = newState
	cb.failures = 0
	cb.successes = 0
	cb.lastStateChange = time.Now()

	if cb.settings.OnStateChange != nil {
		cb.settings.OnStateChange(cb.settings.Name, oldState, newState)
	}
}
