package server

import (
	"context"
	"net/http"

	"github.com/jrsteele09/go-flight-admin/guard"
	"github.com/jrsteele09/go-flight-admin/roles"
	"github.com/jrsteele09/go-flight-admin/sessions"
	"github.com/jrsteele09/go-flight-admin/storage"
	"github.com/jrsteele09/go-flight-admin/token/jwt"
	"github.com/rs/zerolog/log"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// ContextKeySession stores the request's *sessions.Manager
	ContextKeySession ContextKey = "session"
	// ContextKeyBrowserID stores the browser identity
	ContextKeyBrowserID ContextKey = "browser_id"
)

// Notices shown when a navigation is turned away.
const (
	NoticeLoginRequired = "Please sign in to continue."
	NoticeWrongRole     = "That page is not available for your account."
	NoticeSignedOut     = "You have been signed out."
	NoticeAccountMade   = "Account created. Please sign in."
)

// sessionFrom returns the session manager placed in ctx by BrowserSessionMiddleware.
func sessionFrom(ctx context.Context) *sessions.Manager {
	mgr, _ := ctx.Value(ContextKeySession).(*sessions.Manager)
	return mgr
}

// BrowserSessionMiddleware gives every request its own session manager, bound
// to the browser's durable storage and restored once before the handler runs.
func (s *Server) BrowserSessionMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := s.browserID(w, r)

		var store storage.Store = s.stores.Namespace(id)
		if len(s.secret) > 0 {
			sealed, err := storage.NewSealed(store, s.secret)
			if err != nil {
				log.Err(err).Msg("sealing session storage")
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}
			store = sealed
		}

		mgr := sessions.NewManager(store,
			sessions.WithNowTime(s.nowTime),
			sessions.WithExpiryInspector(jwt.ExpiresAt))
		if err := mgr.Restore(r.Context()); err != nil {
			log.Warn().Err(err).Str("browser", id).Msg("restoring session")
		}

		ctx := context.WithValue(r.Context(), ContextKeySession, mgr)
		ctx = context.WithValue(ctx, ContextKeyBrowserID, id)
		next(w, r.WithContext(ctx))
	}
}

// RequireRole guards a route. Anonymous visitors go to the login page, a
// logged-in user with another role goes to their own home view.
func (s *Server) RequireRole(requirement roles.Role) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			outcome := guard.Authorize(sessionFrom(r.Context()), requirement)
			switch outcome.Decision {
			case guard.Allow:
				next(w, r)
			case guard.RedirectToLogin:
				redirectWithNotice(w, r, outcome.Location, NoticeLoginRequired)
			default:
				redirectWithNotice(w, r, outcome.Location, NoticeWrongRole)
			}
		}
	}
}
