package sessions

import (
	"context"
	"sync"
	"time"

	"github.com/jrsteele09/go-flight-admin/internal/errors"
	"github.com/jrsteele09/go-flight-admin/roles"
	"github.com/jrsteele09/go-flight-admin/storage"
	"github.com/rs/zerolog/log"
)

// ExpiryInspector reports when a token expires. ok is false when the token
// carries no readable expiry, in which case it is treated as non-expiring.
type ExpiryInspector func(token string) (expiresAt time.Time, ok bool)

// Manager is the single owner of a client's session. It mirrors the session
// into a durable Store and keeps an in-memory copy for queries.
type Manager struct {
	mu       sync.RWMutex
	store    storage.Store
	state    State
	restored bool
	nowTime  func() time.Time
	expiry   ExpiryInspector
}

// Option configures a Manager
type Option func(*Manager)

// WithNowTime sets the clock used for expiry checks (primarily for testing)
func WithNowTime(nowFunc func() time.Time) Option {
	return func(m *Manager) {
		m.nowTime = nowFunc
	}
}

// WithExpiryInspector makes Restore discard tokens that have expired.
func WithExpiryInspector(inspector ExpiryInspector) Option {
	return func(m *Manager) {
		m.expiry = inspector
	}
}

// NewManager creates an anonymous Manager backed by store. Call Restore to
// rehydrate a previously persisted session.
func NewManager(store storage.Store, options ...Option) *Manager {
	m := &Manager{
		store:   store,
		nowTime: time.Now,
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

// Login establishes a session from a backend-issued token and its raw role claims.
func (m *Manager) Login(ctx context.Context, token string, rawRoles ...string) error {
	return m.LoginAs(ctx, Credentials{Token: token, Roles: rawRoles})
}

// LoginAs establishes a session, replacing any previous one entirely.
//
// The durable write is a single atomic change. If it fails the Manager ends
// up anonymous and the error is returned; a partial session is never left
// behind.
func (m *Manager) LoginAs(ctx context.Context, creds Credentials) error {
	if creds.Token == "" {
		return errors.ErrEmptyToken
	}

	role := roles.Normalize(creds.Roles...)
	values := map[string]string{
		KeyToken: creds.Token,
		KeyRole:  role.Claim(),
	}
	var stale []string
	if creds.Email != "" {
		values[KeyEmail] = creds.Email
	} else {
		stale = append(stale, KeyEmail)
	}
	if creds.ClientID != "" {
		values[KeyClientID] = creds.ClientID
	} else {
		stale = append(stale, KeyClientID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.restored = true

	if err := m.store.Set(ctx, values, stale...); err != nil {
		m.state = State{}
		if rmErr := m.store.Remove(ctx, allKeys...); rmErr != nil {
			log.Warn().Err(rmErr).Msg("clearing session storage after failed login")
		}
		return errors.Wrapf(errors.Join(errors.ErrStorage, err), "[Login] persist session")
	}

	m.state = State{
		Token:    creds.Token,
		Role:     role,
		Email:    creds.Email,
		ClientID: creds.ClientID,
	}
	return nil
}

// Logout clears the session in memory and in durable storage. It is safe to
// call at any time. The in-memory session is always cleared, even when the
// storage removal fails.
func (m *Manager) Logout(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.logoutLocked(ctx)
}

func (m *Manager) logoutLocked(ctx context.Context) error {
	m.state = State{}
	m.restored = true
	if err := m.store.Remove(ctx, allKeys...); err != nil {
		return errors.Wrapf(errors.Join(errors.ErrStorage, err), "[Logout] clear session")
	}
	return nil
}

// Restore rehydrates the session from durable storage. Only the first call on
// a Manager does anything; later calls, or calls after Login/Logout, are no-ops.
//
// A token without a recognised role (or vice versa), an unreadable store, or
// an expired token all resolve to a full logout. A restored session is touched
// when the store expires idle sessions.
func (m *Manager) Restore(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.restored {
		return nil
	}
	m.restored = true

	state, reason := m.read(ctx)
	if reason != "" {
		log.Debug().Str("reason", reason).Msg("discarding persisted session")
		return m.logoutLocked(ctx)
	}
	m.state = state
	if t, ok := m.store.(storage.Toucher); ok {
		if err := t.Touch(ctx); err != nil {
			log.Warn().Err(err).Msg("marking session as used")
		}
	}
	return nil
}

// read returns the persisted state, or a non-empty reason why it is unusable.
// An entirely empty store is reported as "empty" so stray optional keys are
// also cleared.
func (m *Manager) read(ctx context.Context) (State, string) {
	token, hasToken, err := m.store.Get(ctx, KeyToken)
	if err != nil {
		log.Warn().Err(err).Msg("reading session token")
		return State{}, "unreadable token"
	}
	rawRole, hasRole, err := m.store.Get(ctx, KeyRole)
	if err != nil {
		log.Warn().Err(err).Msg("reading session role")
		return State{}, "unreadable role"
	}

	switch {
	case !hasToken && !hasRole:
		return State{}, "empty"
	case !hasToken || token == "":
		return State{}, "role without token"
	case !hasRole:
		return State{}, "token without role"
	}

	role, ok := roles.FromClaim(rawRole)
	if !ok {
		return State{}, "unknown role"
	}

	if m.expiry != nil {
		if exp, ok := m.expiry(token); ok && !m.nowTime().Before(exp) {
			return State{}, "token expired"
		}
	}

	email, _, _ := m.store.Get(ctx, KeyEmail)
	clientID, _, _ := m.store.Get(ctx, KeyClientID)
	return State{Token: token, Role: role, Email: email, ClientID: clientID}, ""
}

// The queries below treat a nil *Manager as an anonymous session.

// IsLoggedIn reports whether a token is currently held.
func (m *Manager) IsLoggedIn() bool {
	if m == nil {
		return false
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.Token != ""
}

// CurrentRole returns the normalized role, or false when anonymous.
func (m *Manager) CurrentRole() (roles.Role, bool) {
	if m == nil {
		return "", false
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.state.Token == "" {
		return "", false
	}
	return m.state.Role, true
}

// Email returns the display identity, if any.
func (m *Manager) Email() string {
	if m == nil {
		return ""
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.Email
}

// AccessToken returns the current bearer token, or ErrNoSession.
func (m *Manager) AccessToken() (string, error) {
	if m == nil {
		return "", errors.ErrNoSession
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.state.Token == "" {
		return "", errors.ErrNoSession
	}
	return m.state.Token, nil
}

// State returns a copy of the current session.
func (m *Manager) State() State {
	if m == nil {
		return State{}
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}
