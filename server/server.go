package server

import (
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jrsteele09/go-flight-admin/apiclient"
	"github.com/jrsteele09/go-flight-admin/auth"
	"github.com/jrsteele09/go-flight-admin/internal/config"
	"github.com/jrsteele09/go-flight-admin/storage"
	"github.com/rs/zerolog/log"
)

// SessionStores hands out one durable store per browser. *sqlitestore.DB satisfies it.
type SessionStores interface {
	Namespace(namespace string) storage.Store
}

type Server struct {
	env        string // Environment (e.g., "DEV", "PROD")
	router     chi.Router
	routes     []string
	config     config.Config
	stores     SessionStores
	secret     []byte // optional at-rest key for session values
	auth       *auth.Service
	apiBaseURL string
	apiOptions []apiclient.Option
	authOpts   []auth.ServiceOption
	nowTime    func() time.Time
	pages      map[string]*template.Template
}

// Option configures a Server
type Option func(*Server)

// WithAPIBaseURL overrides the backend URL from the configuration.
func WithAPIBaseURL(baseURL string) Option {
	return func(s *Server) {
		s.apiBaseURL = baseURL
	}
}

// WithAPIOptions is applied to every backend client the server creates.
func WithAPIOptions(opts ...apiclient.Option) Option {
	return func(s *Server) {
		s.apiOptions = append(s.apiOptions, opts...)
	}
}

// WithAuthOptions configures the login service (token verifier, clock).
func WithAuthOptions(opts ...auth.ServiceOption) Option {
	return func(s *Server) {
		s.authOpts = append(s.authOpts, opts...)
	}
}

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) Option {
	return func(s *Server) {
		s.nowTime = nowFunc
	}
}

func New(cfg config.Config, stores SessionStores, options ...Option) (*Server, error) {
	if stores == nil {
		return nil, fmt.Errorf("[Server New] session storage is required")
	}

	s := &Server{
		env:        cfg.GetEnv(),
		router:     chi.NewRouter(),
		config:     cfg,
		stores:     stores,
		secret:     []byte(cfg.GetStorageSecret()),
		apiBaseURL: cfg.GetAPIBaseURL(),
		apiOptions: []apiclient.Option{
			apiclient.WithTimeout(cfg.GetAPITimeout()),
			apiclient.WithUserAgent(cfg.GetAppName()),
		},
		nowTime: time.Now,
	}
	for _, opt := range options {
		opt(s)
	}

	anon, err := apiclient.New(s.apiBaseURL, nil, s.apiOptions...)
	if err != nil {
		return nil, fmt.Errorf("[Server New] backend client: %w", err)
	}
	s.auth, err = auth.NewService(anon, s.authOpts...)
	if err != nil {
		return nil, fmt.Errorf("[Server New] failed to create auth service: %w", err)
	}

	if s.pages, err = parsePages(); err != nil {
		return nil, fmt.Errorf("[Server New] templates: %w", err)
	}

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// RegisterRouteHandler registers handler for a "METHOD /path" pattern.
func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	method, path, ok := strings.Cut(pattern, " ")
	if !ok {
		s.router.Handle(pattern, handler)
		return
	}
	s.router.Method(method, path, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.RegisterRouteHandler(pattern, http.HandlerFunc(handler))
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	log.Info().Msgf("[%-19s] %s", colourMethod(method), path)
}

func logError(method, path, message string) {
	log.Error().Msgf("[%-19s] %s %s", colourMethod(method), path, Red+message+ResetColor)
}

func colourMethod(method string) string {
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		return color + paddedMethod + ResetColor
	}
	return Gray + paddedMethod + ResetColor
}

// Helper function to determine the scheme (http/https)
func getScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	if scheme := r.Header.Get("X-Forwarded-Proto"); scheme != "" {
		return scheme
	}
	return "http"
}

// apiClient builds a backend client bound to the request's session. The
// bearer token is read from the session on every call.
func (s *Server) apiClient(r *http.Request) (*apiclient.Client, error) {
	mgr := sessionFrom(r.Context())
	if mgr == nil {
		return apiclient.New(s.apiBaseURL, nil, s.apiOptions...)
	}
	return apiclient.New(s.apiBaseURL, mgr, s.apiOptions...)
}
