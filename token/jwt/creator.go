package jwt

import (
	"errors"
	"fmt"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jrsteele09/go-flight-admin/token/keys"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// Creator mints tokens shaped like the reservation backend's. It backs the
// fake backend used in tests and local development.
type Creator struct {
	signer keys.Signer
	expiry time.Duration
}

// NewCreator creates a JWT creator signing with an HMAC secret.
func NewCreator(secret []byte, expiry time.Duration) (*Creator, error) {
	if len(secret) == 0 {
		return nil, errors.New("[NewCreator] secret is required")
	}
	return NewSignerCreator(keys.NewHMACSigner(secret), expiry)
}

// NewSignerCreator creates a JWT creator signing with signer.
func NewSignerCreator(signer keys.Signer, expiry time.Duration) (*Creator, error) {
	if signer == nil {
		return nil, errors.New("[NewSignerCreator] signer is required")
	}
	return &Creator{
		signer: signer,
		expiry: expiry,
	}, nil
}

// CreateAccessToken creates a bearer token for email carrying the given role claims.
func (c *Creator) CreateAccessToken(email string, roles []string) (string, error) {
	now := NowTimeFunc()
	claims := jwtlib.MapClaims{
		"sub":   email,
		"roles": roles,
		"iat":   now.Unix(),
		"jti":   uuid.New().String(),
	}
	if c.expiry > 0 {
		claims["exp"] = now.Add(c.expiry).Unix()
	}

	signed, err := c.signer.Sign(claims)
	if err != nil {
		return "", fmt.Errorf("failed to sign JWT token: %w", err)
	}
	return signed, nil
}

// Validate checks the signature and expiry of a token minted by this creator
// and returns its claims.
func (c *Creator) Validate(rawToken string) (Claims, error) {
	token, err := jwtlib.Parse(rawToken, c.signer.GetVerificationKey, jwtlib.WithTimeFunc(NowTimeFunc))
	if err != nil || !token.Valid {
		return Claims{}, fmt.Errorf("invalid token: %w", err)
	}
	claims, ok := token.Claims.(jwtlib.MapClaims)
	if !ok {
		return Claims{}, errors.New("error extracting claims from token")
	}
	return claimsFromMap(claims), nil
}
