// Package authz is the single authorization boundary of the accounts
// service. The role hierarchy used to be enforced three times in the
// platform (database policies, server checks, UI gating); here it collapses
// into one pure policy engine consulted by the business layer.
package authz

import "slices"

// Role is an account's authority tier. The tiers are totally ordered:
// owner > admin > user.
type Role string

const (
	RoleOwner Role = "owner"
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Operation names used when auditing policy decisions.
const (
	OperationCreateAccount = "create_account"
	OperationDeleteAccount = "delete_account"
	OperationChangeRole    = "change_role"
	OperationListAccounts  = "list_accounts"
)

// ValidRoles returns the recognised roles.
func ValidRoles() []Role {
	return []Role{RoleOwner, RoleAdmin, RoleUser}
}

// IsValidRole checks whether a role is recognised. Unknown roles are never
// granted anything; every policy function fails closed on them.
func IsValidRole(role Role) bool {
	return slices.Contains(ValidRoles(), role)
}

// ParseRole converts a wire-format role string to a Role.
func ParseRole(s string) (Role, bool) {
	role := Role(s)
	return role, IsValidRole(role)
}
