package business

import (
	"context"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/pitabwire/frame/data"
	"github.com/pitabwire/util"

	"github.com/antinvestor/service-accounts/apps/default/service"
	"github.com/antinvestor/service-accounts/apps/default/service/authz"
	"github.com/antinvestor/service-accounts/apps/default/service/identity"
	"github.com/antinvestor/service-accounts/apps/default/service/models"
	"github.com/antinvestor/service-accounts/apps/default/service/repository"
	"github.com/antinvestor/service-accounts/internal/telemetry"
)

const (
	maxEmailLength    = 254
	minPasswordLength = 6
	maxPasswordLength = 128
)

// emailPattern is deliberately conservative: the identity provider is the
// final authority on deliverability, this only rejects obvious garbage
// before a privileged call is made.
var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

type accountBusiness struct {
	profileRepo repository.ProfileRepository
	gateway     identity.AdminClient
	audit       authz.AuditLogger
}

// NewAccountBusiness creates a new instance of AccountBusiness.
func NewAccountBusiness(
	profileRepo repository.ProfileRepository,
	gateway identity.AdminClient,
	audit authz.AuditLogger,
) AccountBusiness {
	if audit == nil {
		audit = authz.NewNoOpAuditLogger()
	}
	return &accountBusiness{
		profileRepo: profileRepo,
		gateway:     gateway,
		audit:       audit,
	}
}

// resolveRole looks up an account's role in the ledger. A caller without a
// ledger row has no authority at all: fail closed.
func (ab *accountBusiness) resolveRole(ctx context.Context, accountID string) (authz.Role, error) {
	profile, err := ab.profileRepo.GetByID(ctx, accountID)
	if err != nil {
		if data.ErrorIsNoRows(err) {
			return "", service.NewAuthorizationError("caller has no profile in the role ledger")
		}
		return "", service.NewInternalError("failed to resolve caller role", err)
	}
	return authz.Role(profile.Role), nil
}

// CreateAccount runs the create-user check sequence in its fixed order:
// gateway configured, required fields, email shape, password length, role
// recognised, owner excluded, caller role resolved, policy consulted, and
// only then the privileged two-step mutation.
func (ab *accountBusiness) CreateAccount(
	ctx context.Context,
	actorID string,
	req CreateAccountRequest,
) (*CreateAccountResult, error) {
	if !ab.gateway.Configured() {
		return nil, service.NewNotConfiguredError("identity administrative gateway")
	}

	if req.Email == "" || req.Password == "" || req.Role == "" {
		return nil, service.NewValidationError("email, password and role are required")
	}

	if len(req.Email) > maxEmailLength || !emailPattern.MatchString(req.Email) {
		return nil, service.NewValidationError("email address is not valid")
	}

	if len(req.Password) < minPasswordLength || len(req.Password) > maxPasswordLength {
		return nil, service.NewValidationError("password must be between 6 and 128 characters")
	}

	requestedRole, ok := authz.ParseRole(req.Role)
	if !ok {
		return nil, service.NewValidationError("role must be one of: owner, admin, user")
	}

	// The owner tier is checked before any policy lookup so the caller
	// always gets the explicit platform-rule message, never a generic
	// denial that suggests a permission they could somehow obtain.
	if requestedRole == authz.RoleOwner {
		return nil, service.NewOwnerRestrictionError()
	}

	actorRole, err := ab.resolveRole(ctx, actorID)
	if err != nil {
		return nil, err
	}

	allowed := authz.CanCreate(actorRole, requestedRole)
	ab.audit.LogDecision(ctx, authz.CheckRequest{
		Operation:  authz.OperationCreateAccount,
		ActorID:    actorID,
		ActorRole:  actorRole,
		TargetRole: requestedRole,
	}, allowed)
	if !allowed {
		telemetry.AuthzDeniedCounter.Add(ctx, 1)
		return nil, service.NewAuthorizationError("you do not have permission to create accounts with this role")
	}

	account, err := ab.gateway.CreateAccount(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	// Two-step sequence: the identity account now exists whatever happens
	// below. A provisioning or role-assignment failure leaves a user-role
	// account that was requested as something else; that state is
	// surfaced with the account id and repaired by an operator, never
	// retried blindly, because a retry would mint a duplicate account.
	if _, err = ab.profileRepo.CreateIfAbsent(ctx, account.ID, account.Email); err != nil {
		telemetry.AccountsPartialFailureCounter.Add(ctx, 1)
		return nil, service.NewPartialFailureError(account.ID, err)
	}

	if requestedRole != authz.RoleUser {
		if _, err = ab.profileRepo.UpdateRole(ctx, account.ID, string(requestedRole)); err != nil {
			telemetry.AccountsPartialFailureCounter.Add(ctx, 1)
			return nil, service.NewPartialFailureError(account.ID, err)
		}
	}

	telemetry.AccountsCreatedCounter.Add(ctx, 1)
	util.Log(ctx).WithFields(map[string]any{
		"account_id": account.ID,
		"role":       string(requestedRole),
		"created_by": actorID,
	}).Info("account created")

	return &CreateAccountResult{
		ID:    account.ID,
		Email: account.Email,
		Role:  string(requestedRole),
	}, nil
}

// DeleteAccount authorises and performs account deletion. The target id is
// validated for UUID shape before anything is queried so that malformed
// probes cannot learn which accounts exist from error shape or timing.
func (ab *accountBusiness) DeleteAccount(ctx context.Context, actorID, targetID string) error {
	if _, err := uuid.Parse(targetID); err != nil {
		return service.NewValidationError("user id is not a valid account identifier")
	}

	if !ab.gateway.Configured() {
		return service.NewNotConfiguredError("identity administrative gateway")
	}

	actorRole, err := ab.resolveRole(ctx, actorID)
	if err != nil {
		return err
	}

	target, err := ab.profileRepo.GetByID(ctx, targetID)
	if err != nil {
		if data.ErrorIsNoRows(err) {
			return service.NewNotFoundError("account not found")
		}
		return service.NewInternalError("failed to resolve target role", err)
	}

	allowed := authz.CanDelete(actorRole, actorID, authz.Role(target.Role), targetID)
	ab.audit.LogDecision(ctx, authz.CheckRequest{
		Operation:  authz.OperationDeleteAccount,
		ActorID:    actorID,
		ActorRole:  actorRole,
		TargetID:   targetID,
		TargetRole: authz.Role(target.Role),
	}, allowed)
	if !allowed {
		telemetry.AuthzDeniedCounter.Add(ctx, 1)
		return service.NewAuthorizationError("you do not have permission to delete this account")
	}

	if err = ab.gateway.DeleteAccount(ctx, targetID); err != nil {
		return err
	}

	// Ledger cascade: the profile row and its dependants go with the
	// identity account.
	if err = ab.profileRepo.Delete(ctx, targetID); err != nil {
		return service.NewInternalError("account deleted upstream but ledger cleanup failed", err)
	}

	telemetry.AccountsDeletedCounter.Add(ctx, 1)
	util.Log(ctx).WithFields(map[string]any{
		"account_id": targetID,
		"deleted_by": actorID,
	}).Info("account deleted")

	return nil
}

// ChangeRole applies a policy-gated role change to the ledger.
func (ab *accountBusiness) ChangeRole(
	ctx context.Context,
	actorID, targetID, newRole string,
) (*models.APIProfile, error) {
	// Same categorical exclusion as create: no programmatic path assigns
	// the owner role.
	if newRole == string(authz.RoleOwner) {
		return nil, service.NewOwnerRestrictionError()
	}

	role, ok := authz.ParseRole(newRole)
	if !ok {
		return nil, service.NewValidationError("role must be one of: owner, admin, user")
	}

	actorRole, err := ab.resolveRole(ctx, actorID)
	if err != nil {
		return nil, err
	}

	target, err := ab.profileRepo.GetByID(ctx, targetID)
	if err != nil {
		if data.ErrorIsNoRows(err) {
			return nil, service.NewNotFoundError("account not found")
		}
		return nil, service.NewInternalError("failed to resolve target role", err)
	}

	allowed := authz.CanModifyProfile(actorRole, actorID, authz.Role(target.Role), targetID)
	ab.audit.LogDecision(ctx, authz.CheckRequest{
		Operation:  authz.OperationChangeRole,
		ActorID:    actorID,
		ActorRole:  actorRole,
		TargetID:   targetID,
		TargetRole: authz.Role(target.Role),
	}, allowed)
	if !allowed {
		telemetry.AuthzDeniedCounter.Add(ctx, 1)
		return nil, service.NewAuthorizationError("you do not have permission to change this account's role")
	}

	updated, err := ab.profileRepo.UpdateRole(ctx, targetID, string(role))
	if err != nil {
		return nil, service.NewInternalError("failed to update role", err)
	}

	telemetry.RoleChangesCounter.Add(ctx, 1)
	return updated.ToAPI(), nil
}

// ListAccounts returns the full ledger projection for admins and owners.
func (ab *accountBusiness) ListAccounts(ctx context.Context, actorID string) ([]*models.APIProfile, error) {
	actorRole, err := ab.resolveRole(ctx, actorID)
	if err != nil {
		return nil, err
	}

	allowed := authz.CanListAccounts(actorRole)
	ab.audit.LogDecision(ctx, authz.CheckRequest{
		Operation: authz.OperationListAccounts,
		ActorID:   actorID,
		ActorRole: actorRole,
	}, allowed)
	if !allowed {
		telemetry.AuthzDeniedCounter.Add(ctx, 1)
		return nil, service.NewAuthorizationError("you do not have permission to list accounts")
	}

	profiles, err := ab.profileRepo.ListAll(ctx)
	if err != nil {
		return nil, service.NewInternalError("failed to list accounts", err)
	}

	result := make([]*models.APIProfile, 0, len(profiles))
	for _, profile := range profiles {
		result = append(result, profile.ToAPI())
	}
	return result, nil
}

// RecordSignIn stamps the ledger with a successful authentication.
func (ab *accountBusiness) RecordSignIn(ctx context.Context, accountID string) {
	if err := ab.profileRepo.TouchSignIn(ctx, accountID, time.Now()); err != nil {
		util.Log(ctx).WithError(err).WithField("account_id", accountID).
			Warn("failed to record sign-in timestamp")
	}
}
