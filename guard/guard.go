// Package guard decides whether a navigation may proceed given the current
// session. It holds no state and must be consulted on every protected request.
package guard

import (
	"github.com/jrsteele09/go-flight-admin/roles"
)

// Paths the guard redirects to.
const (
	LoginPath     = "/login"
	AdminHomePath = "/admin"
	UserHomePath  = "/dashboard"
)

// Decision is the outcome kind of an authorization check.
type Decision int

const (
	Allow Decision = iota
	RedirectToLogin
	RedirectToHome
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case RedirectToLogin:
		return "redirect-to-login"
	case RedirectToHome:
		return "redirect-to-home"
	}
	return "unknown"
}

// Outcome is a Decision plus where to go when it is a redirect.
type Outcome struct {
	Decision Decision
	Location string
}

// Allowed reports whether the navigation may proceed.
func (o Outcome) Allowed() bool {
	return o.Decision == Allow
}

// Session is the read-only view of session state the guard needs. A nil
// interface is anonymous; a non-nil one must answer its methods even when it
// wraps a nil pointer (*sessions.Manager does).
type Session interface {
	IsLoggedIn() bool
	CurrentRole() (roles.Role, bool)
}

// Authorize checks a navigation against an optional role requirement. An
// empty requirement admits any logged-in user.
func Authorize(session Session, requirement roles.Role) Outcome {
	if session == nil || !session.IsLoggedIn() {
		return Outcome{Decision: RedirectToLogin, Location: LoginPath}
	}
	role, _ := session.CurrentRole()
	if requirement != "" && role != requirement {
		return Outcome{Decision: RedirectToHome, Location: HomeFor(role)}
	}
	return Outcome{Decision: Allow}
}

// HomeFor returns the default view for a role. Unknown roles go to the login page.
func HomeFor(role roles.Role) string {
	switch role {
	case roles.Admin:
		return AdminHomePath
	case roles.User:
		return UserHomePath
	}
	return LoginPath
}
