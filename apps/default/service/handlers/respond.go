// Package handlers exposes the accounts service REST surface. Routing uses
// the standard mux with method patterns; every response body is JSON.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/pitabwire/util"

	"github.com/antinvestor/service-accounts/apps/default/service"
)

type errorResponse struct {
	ErrorMessage string `json:"error"`
	UserID       string `json:"userId,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

// writeError maps a service error to its HTTP status and a response body that
// only ever carries the operator-facing message. A partial create failure
// additionally carries the orphaned account id so the operator can repair
// the role by hand.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := service.HTTPStatus(err)

	body := errorResponse{ErrorMessage: "internal server error"}

	var se *service.Error
	if errors.As(err, &se) {
		body.ErrorMessage = se.Message
		if se.Kind == service.KindPartialFailure {
			body.UserID = se.AccountID
		}
	}

	if status >= http.StatusInternalServerError {
		util.Log(r.Context()).WithError(err).
			WithField("path", r.URL.Path).
			Error("request failed")
	}

	writeJSON(w, status, body)
}
