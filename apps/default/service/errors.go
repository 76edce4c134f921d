// Package service holds the shared error taxonomy for the accounts service.
// Every failure surfaced over HTTP is one of these kinds; handlers map kinds
// to status codes and never leak stack traces or internals in responses.
package service

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an Error.
type Kind int

const (
	// KindInternal is the fallback for unclassified failures.
	KindInternal Kind = iota
	// KindValidation covers malformed input.
	KindValidation
	// KindAuthorization covers policy denials.
	KindAuthorization
	// KindOwnerRestriction is a policy denial specific to owner-role
	// attempts. It is deliberately distinct so callers can explain that
	// owner accounts are a permanent platform restriction, not a
	// situational permission gap.
	KindOwnerRestriction
	// KindNotConfigured means the administrative gateway has no elevated
	// credential and the privileged endpoints are degraded.
	KindNotConfigured
	// KindConflict means the identity provider rejected a duplicate email.
	KindConflict
	// KindPartialFailure means the external account was created but the
	// local role assignment failed. The orphaned account id is carried so
	// an operator can repair the role by hand.
	KindPartialFailure
	// KindNotFound means the target account or profile does not exist.
	KindNotFound
	// KindUpstream preserves an identity-provider error verbatim. The
	// provider message is the only diagnostic an operator gets, so it is
	// passed through rather than swallowed.
	KindUpstream
)

// OwnerRestrictionMessage is the fixed explanation returned for every
// owner-role attempt. Owner accounts are only ever provisioned through a
// direct database mutation, never through the API.
const OwnerRestrictionMessage = "owner accounts cannot be created or assigned through the API; " +
	"they are provisioned directly in the database"

// Error is the service error type. Message is operator-facing and is the
// only diagnostic available once the response leaves the process, so causes
// are preserved verbatim rather than swallowed.
type Error struct {
	Kind      Kind
	Message   string
	AccountID string
	cause     error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// NewValidationError reports malformed input.
func NewValidationError(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// NewAuthorizationError reports a policy denial.
func NewAuthorizationError(message string) *Error {
	return &Error{Kind: KindAuthorization, Message: message}
}

// NewOwnerRestrictionError reports an owner-role attempt with the fixed
// platform message.
func NewOwnerRestrictionError() *Error {
	return &Error{Kind: KindOwnerRestriction, Message: OwnerRestrictionMessage}
}

// NewNotConfiguredError reports a missing elevated credential.
func NewNotConfiguredError(component string) *Error {
	return &Error{
		Kind:    KindNotConfigured,
		Message: component + " is not configured on the server",
	}
}

// NewConflictError reports a duplicate from the identity provider with the
// provider message preserved.
func NewConflictError(message string, cause error) *Error {
	return &Error{Kind: KindConflict, Message: message, cause: cause}
}

// NewPartialFailureError reports the created-upstream-but-role-unset state.
func NewPartialFailureError(accountID string, cause error) *Error {
	return &Error{
		Kind:      KindPartialFailure,
		Message:   "account was created but role assignment failed; manual repair required",
		AccountID: accountID,
		cause:     cause,
	}
}

// NewUpstreamError preserves an identity-provider failure message.
func NewUpstreamError(message string, cause error) *Error {
	return &Error{Kind: KindUpstream, Message: message, cause: cause}
}

// NewNotFoundError reports a missing target.
func NewNotFoundError(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// NewInternalError wraps an unclassified failure.
func NewInternalError(message string, cause error) *Error {
	return &Error{Kind: KindInternal, Message: message, cause: cause}
}

// KindOf extracts the Kind of err, or KindInternal when err is not a
// service Error.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindInternal
}

// HTTPStatus maps an error to the status code the handlers return.
// All authorization denials share one status so responses do not leak which
// roles exist; the owner restriction is intentionally explicit through its
// message, not its status.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuthorization, KindOwnerRestriction:
		return http.StatusForbidden
	case KindNotConfigured:
		return http.StatusServiceUnavailable
	case KindConflict:
		// Duplicate emails surface as 400 with the provider message, which
		// is what the web client's error handling expects.
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindUpstream:
		return http.StatusBadRequest
	case KindPartialFailure:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
