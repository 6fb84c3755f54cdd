package server

import (
	"net/http"
	"strings"

	"github.com/jrsteele09/go-flight-admin/auth"
	"github.com/jrsteele09/go-flight-admin/flights"
	"github.com/jrsteele09/go-flight-admin/guard"
	"github.com/jrsteele09/go-flight-admin/internal/errors"
	"github.com/rs/zerolog/log"
)

// LoginPageData contains data for rendering the login page
type LoginPageData struct {
	Email  string // Preserve email on error
	Fields map[string]string
}

// LoginPageUIHandler displays the login page (GET /login). A visitor who is
// already signed in goes straight to their home view.
func (s *Server) LoginPageUIHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if mgr := sessionFrom(r.Context()); mgr != nil {
			if role, ok := mgr.CurrentRole(); ok {
				redirectSuccess(w, r, guard.HomeFor(role))
				return
			}
		}
		s.renderPage(w, r, http.StatusOK, page{
			Title:    "Sign in",
			Template: "login.html",
			Data:     LoginPageData{Email: r.URL.Query().Get("email")},
		})
	}
}

// LoginSubmissionHandler processes the login form submission
func (s *Server) LoginSubmissionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Parse form data
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}

		req := flights.LoginRequest{
			CorreoElectronico: strings.TrimSpace(r.FormValue("email")),
			Password:          r.FormValue("password"),
		}

		mgr := sessionFrom(r.Context())
		if mgr == nil {
			http.Error(w, "session unavailable", http.StatusInternalServerError)
			return
		}

		role, err := s.auth.Login(r.Context(), mgr, req)
		if err != nil {
			s.renderLoginError(w, r, req.CorreoElectronico, err)
			return
		}

		redirectSuccess(w, r, guard.HomeFor(role))
	}
}

func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if mgr := sessionFrom(r.Context()); mgr != nil {
			if err := s.auth.Logout(r.Context(), mgr); err != nil {
				log.Err(err).Msg("Logout: failed to clear session storage")
			}
		}
		redirectWithNotice(w, r, RouteLogin, NoticeSignedOut)
	}
}

// renderLoginError re-renders the login form with a form-level message
func (s *Server) renderLoginError(w http.ResponseWriter, r *http.Request, email string, err error) {
	s.renderPage(w, r, authErrorStatus(err), page{
		Title:    "Sign in",
		Template: "login.html",
		Error:    auth.UserMessage(err),
		Data: LoginPageData{
			Email:  email,
			Fields: auth.FieldMessages(err),
		},
	})
}

// authErrorStatus picks the response status for a failed login or signup.
func authErrorStatus(err error) int {
	switch {
	case errors.Is(err, errors.ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, errors.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, errors.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, errors.ErrStorage):
		return http.StatusInternalServerError
	}
	return http.StatusBadGateway
}
