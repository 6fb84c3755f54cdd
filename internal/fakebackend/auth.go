package fakebackend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jrsteele09/go-flight-admin/flights"
	"github.com/jrsteele09/go-flight-admin/roles"
	"github.com/jrsteele09/go-flight-admin/token/jwt"
)

var errUnknownAccount = errors.New("unknown account")

type ctxKey struct{}

// caller is the authenticated identity behind a request.
type caller struct {
	email string
	admin bool
}

func callerFrom(ctx context.Context) caller {
	c, _ := ctx.Value(ctxKey{}).(caller)
	return c
}

func (b *Backend) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := b.creator.Validate(bearerToken(r))
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Full authentication is required to access this resource")
			return
		}
		c := caller{email: claims.Email, admin: roles.Normalize(claims.Roles...) == roles.Admin}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, c)))
	})
}

func (b *Backend) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req flights.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request")
		return
	}

	b.mu.RLock()
	acct, ok := b.accounts[req.CorreoElectronico]
	b.mu.RUnlock()
	if !ok || acct.password != req.Password {
		writeError(w, http.StatusUnauthorized, "Credenciales inválidas")
		return
	}

	token, err := b.creator.CreateAccessToken(req.CorreoElectronico, acct.roles)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	switch b.loginShape {
	case LoginShapeLegacy:
		role := roles.ClaimUser
		if roles.Normalize(acct.roles...) == roles.Admin {
			role = roles.ClaimAdmin
		}
		writeJSON(w, http.StatusOK, map[string]any{"jwtToken": token, "role": role, "idCliente": acct.id})
	case LoginShapeSpring:
		authorities := make([]map[string]string, 0, len(acct.roles))
		for _, role := range acct.roles {
			authorities = append(authorities, map[string]string{"authority": role})
		}
		writeJSON(w, http.StatusOK, map[string]any{"accessToken": token, "authorities": authorities, "username": req.CorreoElectronico})
	default:
		writeJSON(w, http.StatusOK, map[string]any{"token": token, "roles": acct.roles})
	}
}

func (b *Backend) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req flights.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if _, exists := b.accounts[req.CorreoElectronico]; exists {
		writeError(w, http.StatusConflict, "El correo electrónico ya está registrado")
		return
	}
	acct := &account{id: b.id(), profile: req, password: req.Password, roles: []string{roles.ClaimUser}}
	b.accounts[req.CorreoElectronico] = acct
	writeJSON(w, http.StatusCreated, map[string]any{"id": acct.id, "correoElectronico": req.CorreoElectronico})
}

// Verify exposes the backend's token check for callers holding a token it issued.
func (b *Backend) Verify(token string) (jwt.Claims, error) {
	return b.creator.Validate(token)
}
