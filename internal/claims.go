package internal

import (
	"context"
	"errors"

	"github.com/pitabwire/frame/security"
)

// ErrUnauthenticated is returned when a request carries no usable claims.
var ErrUnauthenticated = errors.New("request needs to be authenticated")

// AuthAccountID extracts the caller's account id from validated
// authentication claims.
func AuthAccountID(ctx context.Context) (string, error) {
	authClaims := security.ClaimsFromContext(ctx)
	if authClaims == nil {
		return "", ErrUnauthenticated
	}

	accountID, err := authClaims.GetSubject()
	if err != nil || accountID == "" {
		return "", ErrUnauthenticated
	}

	return accountID, nil
}
