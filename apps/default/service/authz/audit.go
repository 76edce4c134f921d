package authz

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/pitabwire/util"
)

// CheckRequest describes a policy decision for audit purposes.
type CheckRequest struct {
	Operation  string
	ActorID    string
	ActorRole  Role
	TargetID   string
	TargetRole Role
}

// AuditLogger records authorization decisions for security audit.
type AuditLogger interface {
	LogDecision(ctx context.Context, req CheckRequest, allowed bool)
}

// AuditLoggerConfig holds configuration for the audit logger.
type AuditLoggerConfig struct {
	// Enabled determines if audit logging is enabled.
	Enabled bool
	// SampleRate is the fraction of allowed decisions to log (0.0 to 1.0).
	// Denials are always logged.
	SampleRate float64
}

type auditLogger struct {
	sampleRate float64
	enabled    bool
}

// NewAuditLogger creates an AuditLogger with the given configuration.
func NewAuditLogger(config AuditLoggerConfig) AuditLogger {
	if config.SampleRate <= 0 || config.SampleRate > 1.0 {
		config.SampleRate = 1.0
	}

	return &auditLogger{
		sampleRate: config.SampleRate,
		enabled:    config.Enabled,
	}
}

// LogDecision logs a policy decision with structured fields.
func (a *auditLogger) LogDecision(ctx context.Context, req CheckRequest, allowed bool) {
	if !a.enabled {
		return
	}

	if allowed && a.sampleRate < 1.0 && rand.Float64() > a.sampleRate {
		return
	}

	log := util.Log(ctx).WithFields(map[string]any{
		"authz_operation":   req.Operation,
		"authz_actor_id":    req.ActorID,
		"authz_actor_role":  string(req.ActorRole),
		"authz_target_id":   req.TargetID,
		"authz_target_role": string(req.TargetRole),
		"authz_allowed":     allowed,
		"authz_checked_at":  time.Now().Unix(),
	})

	if allowed {
		log.Debug("authorization decision: allowed")
	} else {
		log.Info("authorization decision: denied")
	}
}

// NoOpAuditLogger is an audit logger that does nothing.
type NoOpAuditLogger struct{}

// LogDecision implements AuditLogger but does nothing.
func (n *NoOpAuditLogger) LogDecision(_ context.Context, _ CheckRequest, _ bool) {}

// NewNoOpAuditLogger creates a new no-op audit logger.
func NewNoOpAuditLogger() AuditLogger {
	return &NoOpAuditLogger{}
}
