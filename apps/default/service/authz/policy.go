package authz

// The policy engine. Pure functions over roles and ids, no I/O, so the full
// truth tables are enumerable in unit tests. Every function fails closed:
// an unknown or empty role grants nothing.

// CanAssignRole reports whether an actor may hand out the target role.
//
// The owner row is categorically excluded regardless of the actor: there is
// no programmatic path that mints owners, so a fully compromised admin or
// owner session still cannot create one. Owner promotion only happens
// through a direct database mutation outside this service.
func CanAssignRole(actorRole, targetRole Role) bool {
	if !IsValidRole(actorRole) || !IsValidRole(targetRole) {
		return false
	}

	if targetRole == RoleOwner {
		return false
	}

	switch actorRole {
	case RoleOwner:
		return true
	case RoleAdmin:
		return targetRole == RoleUser
	default:
		return false
	}
}

// CanCreate reports whether an actor may create an account with the
// requested role. Identical table to CanAssignRole.
func CanCreate(actorRole, requestedRole Role) bool {
	return CanAssignRole(actorRole, requestedRole)
}

// CanModifyProfile reports whether an actor may change another profile's
// role. Self-modification is always denied: it blocks privilege
// self-escalation and the accidental self-demotion that would lock the last
// owner out.
func CanModifyProfile(actorRole Role, actorID string, targetRole Role, targetID string) bool {
	if !IsValidRole(actorRole) || !IsValidRole(targetRole) {
		return false
	}

	if actorID == targetID {
		return false
	}

	switch actorRole {
	case RoleOwner:
		return true
	case RoleAdmin:
		return targetRole == RoleUser
	default:
		return false
	}
}

// CanDelete reports whether an actor may delete the target account.
// Self-deletion is always denied, and an owner may not delete another
// owner: removing the last owners is a break-glass procedure, not an API
// call.
func CanDelete(actorRole Role, actorID string, targetRole Role, targetID string) bool {
	if !IsValidRole(actorRole) || !IsValidRole(targetRole) {
		return false
	}

	if actorID == targetID {
		return false
	}

	switch actorRole {
	case RoleOwner:
		return targetRole != RoleOwner
	case RoleAdmin:
		return targetRole == RoleUser
	default:
		return false
	}
}

// CanListAccounts reports whether an actor may read the full ledger.
func CanListAccounts(role Role) bool {
	return role == RoleOwner || role == RoleAdmin
}

// CanManageSettings reports whether an actor may write the shared settings
// entities (webhooks, voices).
func CanManageSettings(role Role) bool {
	return role == RoleOwner || role == RoleAdmin
}

// CanReadWebhooks reports whether an actor may read webhook configuration.
// Webhook URLs carry the generation pipeline's entry points, so reads are
// restricted the same way writes are.
func CanReadWebhooks(role Role) bool {
	return CanManageSettings(role)
}

// CanReadVoices reports whether an actor may list narration voices. Any
// authenticated account with a recognised role qualifies.
func CanReadVoices(role Role) bool {
	return IsValidRole(role)
}

// CanAccessPreference reports whether an actor may read or write a
// preference row. Preferences are strictly self-owned.
func CanAccessPreference(actorID, targetID string) bool {
	return actorID != "" && actorID == targetID
}
