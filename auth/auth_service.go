package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/jrsteele09/go-flight-admin/apiclient"
	"github.com/jrsteele09/go-flight-admin/flights"
	"github.com/jrsteele09/go-flight-admin/internal/errors"
	"github.com/jrsteele09/go-flight-admin/roles"
	"github.com/jrsteele09/go-flight-admin/sessions"
	"github.com/jrsteele09/go-flight-admin/token/jwt"
	"github.com/rs/zerolog/log"
)

// Backend is the part of the REST API that needs no session.
type Backend interface {
	Login(ctx context.Context, req flights.LoginRequest) (apiclient.LoginResponse, error)
	Signup(ctx context.Context, req flights.SignupRequest) error
}

// SessionWriter is where a successful login is recorded.
type SessionWriter interface {
	LoginAs(ctx context.Context, creds sessions.Credentials) error
	Logout(ctx context.Context) error
}

// Service runs the login and signup flows shared by the web front end and the CLI.
type Service struct {
	backend  Backend
	verifier *jwt.Verifier // optional signature check
	nowTime  func() time.Time
}

// ServiceOption defines a function type to modify the Service instance.
type ServiceOption func(*Service)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ServiceOption {
	return func(s *Service) {
		s.nowTime = nowFunc
	}
}

// WithVerifier makes Login reject tokens whose signature does not check out.
func WithVerifier(v *jwt.Verifier) ServiceOption {
	return func(s *Service) {
		s.verifier = v
	}
}

// NewService creates a Service talking to backend.
func NewService(backend Backend, options ...ServiceOption) (*Service, error) {
	if backend == nil {
		return nil, fmt.Errorf("[NewService] backend is required")
	}
	s := &Service{
		backend: backend,
		nowTime: time.Now,
	}
	for _, opt := range options {
		opt(s)
	}
	return s, nil
}

// Login authenticates against the backend and, on success, establishes the
// session. On any failure the session is left as it was and the returned
// error can be passed to UserMessage.
func (s *Service) Login(ctx context.Context, session SessionWriter, req flights.LoginRequest) (roles.Role, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}

	resp, err := s.backend.Login(ctx, req)
	if err != nil {
		log.Info().Str("email", req.CorreoElectronico).Err(err).Msg("login rejected")
		return "", err
	}

	claims, err := s.claims(ctx, resp.Token)
	if err != nil {
		return "", err
	}
	if claims.Expired(s.nowTime()) {
		return "", fmt.Errorf("[Service.Login] %w", errors.ErrTokenExpired)
	}

	creds := sessions.Credentials{
		Token:    resp.Token,
		Roles:    resp.Roles,
		Email:    resp.Email,
		ClientID: resp.ClientID,
	}
	if len(creds.Roles) == 0 {
		creds.Roles = claims.Roles
	}
	if creds.Email == "" {
		creds.Email = claims.Email
	}

	if err := session.LoginAs(ctx, creds); err != nil {
		return "", fmt.Errorf("[Service.Login] %w", err)
	}

	role := roles.Normalize(creds.Roles...)
	log.Info().Str("email", creds.Email).Str("role", role.String()).Msg("logged in")
	return role, nil
}

// claims reads the token's claims, verifying its signature when a verifier is
// configured. Opaque tokens yield empty claims.
func (s *Service) claims(ctx context.Context, token string) (jwt.Claims, error) {
	if s.verifier != nil {
		claims, err := s.verifier.Verify(ctx, token)
		if err != nil {
			return jwt.Claims{}, fmt.Errorf("[Service.Login] %w", err)
		}
		return claims, nil
	}

	claims, err := jwt.Inspect(token)
	if err != nil {
		if !errors.Is(err, jwt.ErrNotJWT) {
			log.Debug().Err(err).Msg("unreadable token claims")
		}
		return jwt.Claims{}, nil
	}
	return claims, nil
}

// Signup registers a customer account. It does not log the new customer in.
func (s *Service) Signup(ctx context.Context, req flights.SignupRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	if err := s.backend.Signup(ctx, req); err != nil {
		return err
	}
	log.Info().Str("email", req.CorreoElectronico).Msg("account registered")
	return nil
}

// Logout ends the session. The backend keeps no server-side session, so
// this is purely local.
func (s *Service) Logout(ctx context.Context, session SessionWriter) error {
	return session.Logout(ctx)
}
