package guard_test

import (
	"testing"

	"github.com/jrsteele09/go-flight-admin/guard"
	"github.com/jrsteele09/go-flight-admin/roles"
	"github.com/jrsteele09/go-flight-admin/sessions"
	"github.com/stretchr/testify/require"
)

type fakeSession struct {
	loggedIn bool
	role     roles.Role
}

func (f fakeSession) IsLoggedIn() bool { return f.loggedIn }

func (f fakeSession) CurrentRole() (roles.Role, bool) {
	return f.role, f.loggedIn
}

func TestAuthorize(t *testing.T) {
	anonymous := fakeSession{}
	admin := fakeSession{loggedIn: true, role: roles.Admin}
	user := fakeSession{loggedIn: true, role: roles.User}

	tests := []struct {
		name        string
		session     guard.Session
		requirement roles.Role
		want        guard.Outcome
	}{
		{"anonymous, no requirement", anonymous, "", guard.Outcome{Decision: guard.RedirectToLogin, Location: "/login"}},
		{"anonymous, admin required", anonymous, roles.Admin, guard.Outcome{Decision: guard.RedirectToLogin, Location: "/login"}},
		{"anonymous, user required", anonymous, roles.User, guard.Outcome{Decision: guard.RedirectToLogin, Location: "/login"}},
		{"nil session", nil, roles.Admin, guard.Outcome{Decision: guard.RedirectToLogin, Location: "/login"}},
		{"nil manager", (*sessions.Manager)(nil), roles.Admin, guard.Outcome{Decision: guard.RedirectToLogin, Location: "/login"}},
		{"user on admin view", user, roles.Admin, guard.Outcome{Decision: guard.RedirectToHome, Location: "/dashboard"}},
		{"admin on user view", admin, roles.User, guard.Outcome{Decision: guard.RedirectToHome, Location: "/admin"}},
		{"admin on admin view", admin, roles.Admin, guard.Outcome{Decision: guard.Allow}},
		{"user on user view", user, roles.User, guard.Outcome{Decision: guard.Allow}},
		{"any logged in user", user, "", guard.Outcome{Decision: guard.Allow}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := guard.Authorize(tt.session, tt.requirement)
			require.Equal(t, tt.want, got)
			require.Equal(t, tt.want.Decision == guard.Allow, got.Allowed())
		})
	}
}

func TestHomeFor(t *testing.T) {
	require.Equal(t, "/admin", guard.HomeFor(roles.Admin))
	require.Equal(t, "/dashboard", guard.HomeFor(roles.User))
	require.Equal(t, "/login", guard.HomeFor(""))
	require.Equal(t, "redirect-to-home", guard.RedirectToHome.String())
}
