package authz_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/antinvestor/service-accounts/apps/default/service/authz"
)

func TestParseRole(t *testing.T) {
	role, ok := authz.ParseRole("admin")
	assert.True(t, ok)
	assert.Equal(t, authz.RoleAdmin, role)

	_, ok = authz.ParseRole("Administrator")
	assert.False(t, ok)

	// Case sensitive on purpose; the ledger stores lowercase.
	_, ok = authz.ParseRole("Admin")
	assert.False(t, ok)

	_, ok = authz.ParseRole("")
	assert.False(t, ok)
}

func TestIsValidRole(t *testing.T) {
	for _, role := range authz.ValidRoles() {
		assert.True(t, authz.IsValidRole(role))
	}
	assert.False(t, authz.IsValidRole("guest"))
}
