package roles

import (
	"strings"
)

// Role is the single client-side authorization tag held by a session.
type Role string

const (
	Admin Role = "ADMIN"
	User  Role = "USER"
)

// Claim strings as issued by the backend and persisted in durable storage.
const (
	ClaimAdmin = "ROLE_ADMIN"
	ClaimUser  = "ROLE_USER"
)

// Valid reports whether r is a member of the closed role set.
func (r Role) Valid() bool {
	return r == Admin || r == User
}

func (r Role) String() string {
	return string(r)
}

// Claim returns the storage form of the role (ROLE_ADMIN / ROLE_USER).
func (r Role) Claim() string {
	switch r {
	case Admin:
		return ClaimAdmin
	case User:
		return ClaimUser
	}
	return ""
}

// Normalize collapses a set of raw role claims into one Role.
//
// Admin wins: if any claim is an admin marker the result is Admin, otherwise
// User. Claims may be passed individually or as a single comma or space
// separated string, and are compared case-insensitively. An empty claim set
// resolves to User.
func Normalize(rawRoles ...string) Role {
	for _, raw := range rawRoles {
		for _, claim := range splitClaims(raw) {
			if isAdminMarker(claim) {
				return Admin
			}
		}
	}
	return User
}

// FromClaim parses a persisted role value. Only the exact claim strings are
// accepted so that a tampered or stale value is never mistaken for a role.
func FromClaim(claim string) (Role, bool) {
	switch claim {
	case ClaimAdmin:
		return Admin, true
	case ClaimUser:
		return User, true
	}
	return "", false
}

func isAdminMarker(claim string) bool {
	claim = strings.ToUpper(strings.TrimSpace(claim))
	return claim == ClaimAdmin || claim == string(Admin)
}

func splitClaims(raw string) []string {
	return strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
}
