// Package telemetry provides OpenTelemetry metrics for the accounts service.
package telemetry

import "github.com/pitabwire/frame/telemetry"

// Account mutation metrics.
//
//nolint:gochecknoglobals // OpenTelemetry metrics must be global for instrumentation
var (
	AccountsCreatedCounter = telemetry.DimensionlessMeasure(
		"",
		"accounts.created",
		"Total accounts created through the administrative gateway",
	)

	AccountsDeletedCounter = telemetry.DimensionlessMeasure(
		"",
		"accounts.deleted",
		"Total accounts deleted through the administrative gateway",
	)

	AccountsPartialFailureCounter = telemetry.DimensionlessMeasure(
		"",
		"accounts.partial_failures",
		"Accounts created upstream whose role assignment failed",
	)

	RoleChangesCounter = telemetry.DimensionlessMeasure(
		"",
		"accounts.role_changes",
		"Total role changes applied to the ledger",
	)
)

// Authorization metrics.
//
//nolint:gochecknoglobals // OpenTelemetry metrics must be global for instrumentation
var (
	AuthzDeniedCounter = telemetry.DimensionlessMeasure(
		"",
		"accounts.authz.denied",
		"Total policy denials",
	)

	RateLimitRejectedCounter = telemetry.DimensionlessMeasure(
		"",
		"accounts.ratelimit.rejected",
		"Total requests rejected by the rate limiter",
	)
)

// IdentityLatencyHistogram tracks identity-provider round trips.
//
//nolint:gochecknoglobals // OpenTelemetry metrics must be global for instrumentation
var IdentityLatencyHistogram = telemetry.LatencyMeasure(
	"accounts.identity",
)
