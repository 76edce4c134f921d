package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/antinvestor/service-accounts/apps/default/service"
	"github.com/antinvestor/service-accounts/apps/default/service/business"
	"github.com/antinvestor/service-accounts/internal"
)

// AccountsServer serves the administrative account endpoints.
type AccountsServer struct {
	accounts business.AccountBusiness
}

// NewAccountsServer creates an accounts handler.
func NewAccountsServer(accounts business.AccountBusiness) *AccountsServer {
	return &AccountsServer{accounts: accounts}
}

func callerID(w http.ResponseWriter, r *http.Request) (string, bool) {
	accountID, err := internal.AuthAccountID(r.Context())
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, errorResponse{ErrorMessage: "request needs to be authenticated"})
		return "", false
	}
	return accountID, true
}

type createUserResponse struct {
	Success bool                           `json:"success"`
	User    *business.CreateAccountResult `json:"user"`
}

// CreateUser handles POST /api/admin/users.
func (as *AccountsServer) CreateUser(w http.ResponseWriter, r *http.Request) {
	actorID, ok := callerID(w, r)
	if !ok {
		return
	}

	var req business.CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, service.NewValidationError("request body is not valid JSON"))
		return
	}

	result, err := as.accounts.CreateAccount(r.Context(), actorID, req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, createUserResponse{Success: true, User: result})
}

// DeleteUser handles DELETE /api/admin/users/{userId}.
func (as *AccountsServer) DeleteUser(w http.ResponseWriter, r *http.Request) {
	actorID, ok := callerID(w, r)
	if !ok {
		return
	}

	targetID := r.PathValue("userId")

	if err := as.accounts.DeleteAccount(r.Context(), actorID, targetID); err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

type changeRoleRequest struct {
	Role string `json:"role"`
}

// ChangeUserRole handles PUT /api/admin/users/{userId}/role.
func (as *AccountsServer) ChangeUserRole(w http.ResponseWriter, r *http.Request) {
	actorID, ok := callerID(w, r)
	if !ok {
		return
	}

	targetID := r.PathValue("userId")

	var req changeRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, service.NewValidationError("request body is not valid JSON"))
		return
	}

	updated, err := as.accounts.ChangeRole(r.Context(), actorID, targetID, req.Role)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "user": updated})
}

// ListUsers handles GET /api/admin/users.
func (as *AccountsServer) ListUsers(w http.ResponseWriter, r *http.Request) {
	actorID, ok := callerID(w, r)
	if !ok {
		return
	}

	users, err := as.accounts.ListAccounts(r.Context(), actorID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"users": users})
}
