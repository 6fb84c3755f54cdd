package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/jrsteele09/go-flight-admin/roles"
)

func (s *Server) initRoutes() {
	s.RegisterRouteHandler("GET "+RouteIndex, ChainMiddleware(s.IndexHandler(), s.HTMLMiddleWare()...))

	// LOGIN
	s.RegisterRouteHandler("GET "+RouteLogin, ChainMiddleware(s.LoginPageUIHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("POST "+RouteLogin, ChainMiddleware(s.LoginSubmissionHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("POST "+RouteLogout, ChainMiddleware(s.LogoutHandler(), s.HTMLMiddleWare()...))

	s.RegisterRouteHandler("GET "+RouteSignup, ChainMiddleware(s.SignupGetHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("POST "+RouteSignup, ChainMiddleware(s.SignupPostHandler(), s.HTMLMiddleWare()...))

	// Customer routes
	userOnly := s.HTMLMiddleWare(s.RequireRole(roles.User))
	s.RegisterRouteHandler("GET "+RouteUserDashboard, ChainMiddleware(listHandler(s, reservationsView), userOnly...))
	registerCollection(s, reservationsView, userOnly)
	registerCollection(s, userAirportsView, userOnly)
	registerCollection(s, userAirlinesView, userOnly)

	// Admin routes
	adminOnly := s.HTMLMiddleWare(s.RequireRole(roles.Admin))
	s.RegisterRouteHandler("GET "+RouteAdminDashboard, ChainMiddleware(listHandler(s, flightsView), adminOnly...))
	registerCollection(s, flightsView, adminOnly)
	registerCollection(s, layoversView, adminOnly)
	registerCollection(s, airportsView, adminOnly)
	registerCollection(s, airlinesView, adminOnly)

	// API routes
	s.RegisterRouteHandler("GET "+RouteHealth, ChainMiddleware(s.HealthHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("OPTIONS "+RouteHealth, ChainMiddleware(s.HealthHandler(), s.APIMiddleware()...))

	s.RegisterRouteHandler("GET "+RouteStaticCSS, ChainMiddleware(s.serveFileHandler(), s.StaticMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteStaticJS, ChainMiddleware(s.serveFileHandler(), s.StaticMiddleware()...))

	s.router.NotFound(ChainMiddleware(s.NotFoundHandler(), s.HTMLMiddleWare()...))
}

func (s *Server) serveFileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filePath := strings.TrimPrefix(r.URL.Path, "/")
		if filePath == "" {
			http.Error(w, "404 - Page Not Found", http.StatusNotFound)
			return
		}
		err := StreamFile(w, r, filePath)
		if err != nil {
			logError("GET", filePath, err.Error())
			http.Error(w, "404 - Page Not Found", http.StatusNotFound)
			return
		}
	}
}

// HealthHandler reports that the front end is up and which backend it talks to.
func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", contentTypeJSON)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"status":  "ok",
			"app":     s.config.GetAppName(),
			"backend": s.apiBaseURL,
		})
	}
}

// NotFoundHandler renders unknown paths inside the site layout.
func (s *Server) NotFoundHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.renderPage(w, r, http.StatusNotFound, page{
			Title:    "Page not found",
			Template: "not_found.html",
		})
	}
}
