package roles_test

import (
	"testing"

	"github.com/jrsteele09/go-flight-admin/roles"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		raw  []string
		want roles.Role
	}{
		{"single admin claim", []string{"ROLE_ADMIN"}, roles.Admin},
		{"single user claim", []string{"ROLE_USER"}, roles.User},
		{"admin wins when listed last", []string{"ROLE_USER", "ROLE_ADMIN"}, roles.Admin},
		{"admin wins when listed first", []string{"ROLE_ADMIN", "ROLE_USER"}, roles.Admin},
		{"lower case admin", []string{"role_admin"}, roles.Admin},
		{"bare admin marker", []string{"Admin"}, roles.Admin},
		{"padded admin", []string{"  ROLE_ADMIN "}, roles.Admin},
		{"comma separated string", []string{"ROLE_USER,ROLE_ADMIN"}, roles.Admin},
		{"space separated string", []string{"ROLE_USER ROLE_ADMIN"}, roles.Admin},
		{"unknown claim", []string{"ROLE_AUDITOR"}, roles.User},
		{"admin as substring only", []string{"ROLE_ADMINISTRATIVE_ASSISTANT"}, roles.User},
		{"empty set", nil, roles.User},
		{"empty string", []string{""}, roles.User},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, roles.Normalize(tt.raw...))
		})
	}
}

func TestFromClaim(t *testing.T) {
	r, ok := roles.FromClaim("ROLE_ADMIN")
	require.True(t, ok)
	require.Equal(t, roles.Admin, r)

	r, ok = roles.FromClaim("ROLE_USER")
	require.True(t, ok)
	require.Equal(t, roles.User, r)

	for _, bad := range []string{"", "ADMIN", "role_admin", "ROLE_ROOT"} {
		_, ok := roles.FromClaim(bad)
		require.False(t, ok, bad)
	}
}

func TestRole_Claim(t *testing.T) {
	require.Equal(t, "ROLE_ADMIN", roles.Admin.Claim())
	require.Equal(t, "ROLE_USER", roles.User.Claim())
	require.Empty(t, roles.Role("").Claim())
	require.False(t, roles.Role("").Valid())
	require.True(t, roles.User.Valid())
}
