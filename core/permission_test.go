package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testLists = Allowlists{
	CompanyDomain: "agency.test",
	Admins:        []string{"boss@agency.test"},
	Marketing:     []string{"mara@agency.test"},
	Processing:    []string{"pat@agency.test", "Sam@Agency.Test"},
}

func TestResolveRole(t *testing.T) {
	cases := []struct {
		email string
		role  Role
	}{
		{"boss@agency.test", RoleAdmin},
		{"mara@agency.test", RoleMarketing},
		{"pat@agency.test", RoleProcessing},
		{"sam@agency.test", RoleProcessing}, // allowlists are case-insensitive
		{"SAM@AGENCY.TEST", RoleProcessing},
		{"new.hire@agency.test", RoleMember},
	}
	for _, tc := range cases {
		role, err := testLists.ResolveRole(tc.email)
		require.NoError(t, err, tc.email)
		assert.Equal(t, tc.role, role, tc.email)
	}

	_, err := testLists.ResolveRole("someone@gmail.com")
	assert.True(t, errors.Is(err, ErrUnauthorized))
}

func TestCapabilitiesFor(t *testing.T) {
	admin := CapabilitiesFor(RoleAdmin)
	assert.True(t, admin.CanAccessAccounts)
	assert.True(t, admin.CanManageUsers)

	marketing := CapabilitiesFor(RoleMarketing)
	assert.True(t, marketing.CanAccessOrders)
	assert.True(t, marketing.CanAccessInventory)
	assert.False(t, marketing.CanAccessProcessing)
	assert.False(t, marketing.CanAccessAccounts)

	processing := CapabilitiesFor(RoleProcessing)
	assert.True(t, processing.CanAccessProcessing)
	assert.False(t, processing.CanAccessOrders)

	assert.Equal(t, Capabilities{}, CapabilitiesFor(RoleMember))
	assert.Equal(t, Capabilities{}, CapabilitiesFor(Role("intern")))
}

func TestApplyOverride(t *testing.T) {
	base := CapabilitiesFor(RoleProcessing)

	// grant one extra capability, keep the rest
	caps, err := ApplyOverride(base, `{"canAccessAccounts": true}`)
	require.NoError(t, err)
	assert.True(t, caps.CanAccessAccounts)
	assert.True(t, caps.CanAccessProcessing)
	assert.False(t, caps.CanManageUsers)

	// revoke works too
	caps, err = ApplyOverride(base, `{"canAccessProcessing": false}`)
	require.NoError(t, err)
	assert.False(t, caps.CanAccessProcessing)

	// empty blob is a no-op
	caps, err = ApplyOverride(base, "")
	require.NoError(t, err)
	assert.Equal(t, base, caps)

	// garbage must not widen access
	_, err = ApplyOverride(base, `{"canAccessAccounts": "yes"}`)
	assert.True(t, errors.Is(err, ErrValidation))
}
