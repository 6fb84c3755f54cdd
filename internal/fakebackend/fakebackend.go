// Package fakebackend is an in-memory stand-in for the reservation REST API.
// It serves the same /api/v1 routes with the same JSON shapes and is used by
// tests and by the web server's local development mode.
package fakebackend

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jrsteele09/go-flight-admin/flights"
	"github.com/jrsteele09/go-flight-admin/roles"
	"github.com/jrsteele09/go-flight-admin/token/jwt"
	"github.com/jrsteele09/go-flight-admin/token/keys"
)

// JWKSPath serves the public signing keys when the backend signs with a key pair.
const JWKSPath = "/.well-known/jwks.json"

var defaultSigningKey = []byte("fake-backend-signing-key")

// LoginShape selects which historical login response format the backend emits.
type LoginShape int

const (
	// LoginShapeCurrent replies {"token": ..., "roles": [...]}.
	LoginShapeCurrent LoginShape = iota
	// LoginShapeLegacy replies {"jwtToken": ..., "role": "..."}.
	LoginShapeLegacy
	// LoginShapeSpring replies {"accessToken": ..., "authorities": [{"authority": ...}]}.
	LoginShapeSpring
)

type account struct {
	id       int64
	profile  flights.SignupRequest
	password string
	roles    []string
}

// Backend holds the fake's data. All methods are safe for concurrent use.
type Backend struct {
	mu         sync.RWMutex
	creator    *jwt.Creator
	signer     keys.Signer
	expiry     time.Duration
	jwks       *keys.JWKS // nil for HMAC signing
	loginShape LoginShape
	nextID     int64

	accounts     map[string]*account // by email
	airlines     map[int64]flights.Airline
	airports     map[int64]flights.Airport
	flightsByID  map[int64]flights.Flight
	layovers     map[int64]flights.Layover
	reservations map[int64]reservationRecord

	lastAuthorization string
}

type reservationRecord struct {
	flights.Reservation
	owner string
}

// Option configures a Backend
type Option func(*Backend)

// WithLoginShape selects the login response format.
func WithLoginShape(shape LoginShape) Option {
	return func(b *Backend) {
		b.loginShape = shape
	}
}

// WithTokenExpiry sets the lifetime of issued tokens. Zero issues tokens without exp.
func WithTokenExpiry(expiry time.Duration) Option {
	return func(b *Backend) {
		b.expiry = expiry
	}
}

// WithSigningKey signs tokens with RS256 and publishes the public key at JWKSPath.
func WithSigningKey(kp *keys.KeyPair) Option {
	return func(b *Backend) {
		b.signer = keys.NewKeyPairSigner(kp)
	}
}

// New creates an empty backend.
func New(options ...Option) *Backend {
	b := &Backend{
		signer:       keys.NewHMACSigner(defaultSigningKey),
		expiry:       time.Hour,
		accounts:     make(map[string]*account),
		airlines:     make(map[int64]flights.Airline),
		airports:     make(map[int64]flights.Airport),
		flightsByID:  make(map[int64]flights.Flight),
		layovers:     make(map[int64]flights.Layover),
		reservations: make(map[int64]reservationRecord),
	}
	for _, opt := range options {
		opt(b)
	}
	b.creator, _ = jwt.NewSignerCreator(b.signer, b.expiry)
	if kps, ok := b.signer.(*keys.KeyPairSigner); ok {
		b.jwks, _ = kps.JWKS()
	}
	return b
}

func (b *Backend) id() int64 {
	b.nextID++
	return b.nextID
}

// AddUser registers an account directly and returns its customer id.
func (b *Backend) AddUser(email, password string, roleClaims ...string) int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(roleClaims) == 0 {
		roleClaims = []string{roles.ClaimUser}
	}
	acct := &account{
		id:       b.id(),
		profile:  flights.SignupRequest{CorreoElectronico: email},
		password: password,
		roles:    roleClaims,
	}
	b.accounts[email] = acct
	return acct.id
}

// IssueToken mints a token for an existing account, as login would.
func (b *Backend) IssueToken(email string) (string, error) {
	b.mu.RLock()
	acct, ok := b.accounts[email]
	b.mu.RUnlock()
	if !ok {
		return "", errUnknownAccount
	}
	return b.creator.CreateAccessToken(email, acct.roles)
}

// LastAuthorization returns the Authorization header of the most recent API request.
func (b *Backend) LastAuthorization() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lastAuthorization
}

// Handler returns the backend's routes, mounted under /api/v1.
func (b *Backend) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(b.recordAuthorization)

	r.Get(JWKSPath, b.handleJWKS)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/login", b.handleLogin)
		r.Post("/auth/signup", b.handleSignup)

		r.Group(func(r chi.Router) {
			r.Use(b.requireToken)

			registerCollection(r, "/aerolineas", b, func(b *Backend) map[int64]flights.Airline { return b.airlines },
				func(a flights.Airline, id int64) flights.Airline { a.ID = id; return a }, nil, nil)
			registerCollection(r, "/aeropuertos", b, func(b *Backend) map[int64]flights.Airport { return b.airports },
				func(a flights.Airport, id int64) flights.Airport { a.ID = id; return a }, nil, nil)
			registerCollection(r, "/vuelos", b, func(b *Backend) map[int64]flights.Flight { return b.flightsByID },
				func(f flights.Flight, id int64) flights.Flight { f.ID = id; return f }, b.expandFlight, nil)
			registerCollection(r, "/escalas", b, func(b *Backend) map[int64]flights.Layover { return b.layovers },
				func(l flights.Layover, id int64) flights.Layover { l.ID = id; return l }, b.expandLayover, b.layoverTaken)

			r.Route("/reservas", func(r chi.Router) {
				r.Get("/", b.listReservations)
				r.Post("/", b.createReservation)
				r.Get("/misreservas", b.myReservations)
				r.Get("/{id}", b.getReservation)
				r.Put("/{id}", b.updateReservation)
				r.Delete("/{id}", b.deleteReservation)
			})
		})
	})
	return r
}

func (b *Backend) handleJWKS(w http.ResponseWriter, _ *http.Request) {
	if b.jwks == nil {
		writeError(w, http.StatusNotFound, "No key set")
		return
	}
	writeJSON(w, http.StatusOK, b.jwks)
}

func (b *Backend) recordAuthorization(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.lastAuthorization = r.Header.Get("Authorization")
		b.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError mirrors Spring Boot's default error body.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{
		"status":    status,
		"error":     http.StatusText(status),
		"message":   message,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return h[7:]
	}
	return ""
}
