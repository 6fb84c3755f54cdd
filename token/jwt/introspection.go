package jwt

import (
	"errors"
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/go-flight-admin/internal/utils"
)

// ErrNotJWT is returned by Inspect for opaque (non-JWT) bearer tokens.
var ErrNotJWT = errors.New("token is not a JWT")

// Claims are the parts of a backend-issued token the front end cares about.
type Claims struct {
	Subject   string
	Email     string
	Roles     []string
	IssuedAt  time.Time
	ExpiresAt time.Time // zero when the token carries no exp claim
}

// Expired reports whether the token had expired at now. Tokens without an
// exp claim never expire.
func (c Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && !now.Before(c.ExpiresAt)
}

// Inspect extracts claims from a JWT without verifying its signature. The
// backend is the authority on validity; the front end only peeks at expiry and
// role hints.
func Inspect(rawToken string) (Claims, error) {
	if strings.Count(rawToken, ".") != 2 {
		return Claims{}, ErrNotJWT
	}

	unverifiedToken, _, err := jwtlib.NewParser().ParseUnverified(rawToken, jwtlib.MapClaims{})
	if err != nil {
		return Claims{}, err
	}

	claims, ok := unverifiedToken.Claims.(jwtlib.MapClaims)
	if !ok {
		return Claims{}, errors.New("error extracting claims")
	}
	return claimsFromMap(claims), nil
}

// ExpiresAt returns the exp claim of rawToken, if it is a JWT that has one.
func ExpiresAt(rawToken string) (time.Time, bool) {
	claims, err := Inspect(rawToken)
	if err != nil || claims.ExpiresAt.IsZero() {
		return time.Time{}, false
	}
	return claims.ExpiresAt, true
}

func claimsFromMap(claims jwtlib.MapClaims) Claims {
	var c Claims
	c.Subject, _ = claims.GetSubject()
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		c.ExpiresAt = exp.Time
	}
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		c.IssuedAt = iat.Time
	}

	for _, key := range []string{"email", "correoElectronico", "username"} {
		if v, ok := claims[key].(string); ok && v != "" {
			c.Email = v
			break
		}
	}
	if c.Email == "" && strings.Contains(c.Subject, "@") {
		c.Email = c.Subject
	}

	for _, key := range []string{"roles", "role", "authorities"} {
		if v, ok := claims[key]; ok {
			c.Roles = rolesFromClaim(v)
			if len(c.Roles) > 0 {
				break
			}
		}
	}
	return c
}

// rolesFromClaim accepts a string, a list of strings, or a list of
// {"authority": "..."} objects as emitted by Spring Security.
func rolesFromClaim(v any) []string {
	switch t := v.(type) {
	case string:
		return []string{t}
	case []string:
		return t
	case []any:
		return utils.ClaimStrings(t, "authority")
	}
	return nil
}
