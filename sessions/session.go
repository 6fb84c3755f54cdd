package sessions

import (
	"github.com/jrsteele09/go-flight-admin/roles"
)

// Durable storage keys. The layout is shared by every Store implementation.
const (
	KeyToken    = "token"
	KeyRole     = "userRole"
	KeyEmail    = "userEmail"
	KeyClientID = "idCliente"
)

// allKeys is everything Logout clears.
var allKeys = []string{KeyToken, KeyRole, KeyEmail, KeyClientID}

// State is a snapshot of the session. Either Token and Role are both set or
// the session is anonymous.
type State struct {
	Token    string     // Bearer credential issued by the backend
	Role     roles.Role // Normalized role, empty when anonymous
	Email    string     // Display identity, not used for authorization
	ClientID string     // Backend customer id, when the login response carries one
}

// LoggedIn reports whether the snapshot holds a token.
func (s State) LoggedIn() bool {
	return s.Token != ""
}

// Credentials is everything a successful login hands to the Manager.
type Credentials struct {
	Token    string
	Roles    []string // Raw role claims as returned by the backend
	Email    string
	ClientID string
}
