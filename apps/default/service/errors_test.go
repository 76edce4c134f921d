package service_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antinvestor/service-accounts/apps/default/service"
)

func TestHTTPStatusMapping(t *testing.T) {
	testCases := []struct {
		err  error
		want int
	}{
		{service.NewValidationError("bad"), http.StatusBadRequest},
		{service.NewAuthorizationError("no"), http.StatusForbidden},
		{service.NewOwnerRestrictionError(), http.StatusForbidden},
		{service.NewNotConfiguredError("gateway"), http.StatusServiceUnavailable},
		{service.NewConflictError("dup", nil), http.StatusBadRequest},
		{service.NewNotFoundError("missing"), http.StatusNotFound},
		{service.NewUpstreamError("provider said no", nil), http.StatusBadRequest},
		{service.NewPartialFailureError("acc-1", nil), http.StatusInternalServerError},
		{service.NewInternalError("boom", nil), http.StatusInternalServerError},
		{errors.New("plain"), http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.want, service.HTTPStatus(tc.err), "err=%v", tc.err)
	}
}

func TestOwnerRestrictionIsDistinctFromAuthorization(t *testing.T) {
	ownerErr := service.NewOwnerRestrictionError()
	authErr := service.NewAuthorizationError("you do not have permission")

	// Same status, different kind and a fixed explanatory message.
	assert.Equal(t, service.HTTPStatus(authErr), service.HTTPStatus(ownerErr))
	assert.NotEqual(t, service.KindOf(authErr), service.KindOf(ownerErr))
	assert.Equal(t, service.OwnerRestrictionMessage, ownerErr.Message)
}

func TestPartialFailureCarriesAccountID(t *testing.T) {
	cause := errors.New("ledger write failed")
	err := service.NewPartialFailureError("acc-42", cause)

	var se *service.Error
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "acc-42", se.AccountID)
	assert.Equal(t, service.KindPartialFailure, se.Kind)
	assert.ErrorIs(t, err, cause)
}

func TestErrorStringIncludesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := service.NewInternalError("identity provider request failed", cause)
	assert.Equal(t, fmt.Sprintf("identity provider request failed: %v", cause), err.Error())

	bare := service.NewValidationError("email address is not valid")
	assert.Equal(t, "email address is not valid", bare.Error())
}

func TestKindOfWrappedError(t *testing.T) {
	err := fmt.Errorf("handler: %w", service.NewConflictError("dup", nil))
	assert.Equal(t, service.KindConflict, service.KindOf(err))
	assert.Equal(t, service.KindInternal, service.KindOf(errors.New("plain")))
}
