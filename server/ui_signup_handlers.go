package server

import (
	"net/http"
	"strings"

	"github.com/jrsteele09/go-flight-admin/auth"
	"github.com/jrsteele09/go-flight-admin/flights"
)

// SignupPageData is the signup form model. Password is never echoed back.
type SignupPageData struct {
	Form   flights.SignupRequest
	Fields map[string]string
}

// SignupGetHandler renders the signup page
func (s *Server) SignupGetHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.renderPage(w, r, http.StatusOK, page{
			Title:    "Create an account",
			Template: "signup.html",
			Data:     SignupPageData{},
		})
	}
}

// SignupPostHandler registers a customer and sends them to the login page.
// Signing up does not sign in.
func (s *Server) SignupPostHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}

		req := flights.SignupRequest{
			Nombre:            strings.TrimSpace(r.FormValue("nombre")),
			Apellido:          strings.TrimSpace(r.FormValue("apellido")),
			Direccion:         strings.TrimSpace(r.FormValue("direccion")),
			Telefono:          strings.TrimSpace(r.FormValue("telefono")),
			CorreoElectronico: strings.TrimSpace(r.FormValue("correoElectronico")),
			Password:          r.FormValue("password"),
		}

		if err := s.auth.Signup(r.Context(), req); err != nil {
			req.Password = ""
			s.renderPage(w, r, authErrorStatus(err), page{
				Title:    "Create an account",
				Template: "signup.html",
				Error:    auth.UserMessage(err),
				Data:     SignupPageData{Form: req, Fields: auth.FieldMessages(err)},
			})
			return
		}

		redirectWithNotice(w, r, withQuery(RouteLogin, "email", req.CorreoElectronico), NoticeAccountMade)
	}
}
