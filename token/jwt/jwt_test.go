package jwt_test

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/go-flight-admin/internal/errors"
	"github.com/jrsteele09/go-flight-admin/token/jwt"
	"github.com/stretchr/testify/require"
)

func fixedNow(t *testing.T, now time.Time) {
	t.Helper()
	prev := jwt.NowTimeFunc
	jwt.NowTimeFunc = func() time.Time { return now }
	t.Cleanup(func() { jwt.NowTimeFunc = prev })
}

func TestInspect_RolesAndExpiry(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	fixedNow(t, now)

	creator, err := jwt.NewCreator([]byte("secret"), time.Hour)
	require.NoError(t, err)
	token, err := creator.CreateAccessToken("ana@example.com", []string{"ROLE_USER", "ROLE_ADMIN"})
	require.NoError(t, err)

	claims, err := jwt.Inspect(token)
	require.NoError(t, err)
	require.Equal(t, "ana@example.com", claims.Subject)
	require.Equal(t, "ana@example.com", claims.Email)
	require.Equal(t, []string{"ROLE_USER", "ROLE_ADMIN"}, claims.Roles)
	require.Equal(t, now.Add(time.Hour).Unix(), claims.ExpiresAt.Unix())
	require.False(t, claims.Expired(now))
	require.True(t, claims.Expired(now.Add(2*time.Hour)))

	exp, ok := jwt.ExpiresAt(token)
	require.True(t, ok)
	require.Equal(t, claims.ExpiresAt, exp)
}

func TestInspect_SpringAuthorities(t *testing.T) {
	token, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, jwtlib.MapClaims{
		"sub":         "42",
		"email":       "luis@example.com",
		"authorities": []map[string]string{{"authority": "ROLE_ADMIN"}},
	}).SignedString([]byte("k"))
	require.NoError(t, err)

	claims, err := jwt.Inspect(token)
	require.NoError(t, err)
	require.Equal(t, "luis@example.com", claims.Email)
	require.Equal(t, []string{"ROLE_ADMIN"}, claims.Roles)
	require.True(t, claims.ExpiresAt.IsZero())
	require.False(t, claims.Expired(time.Now()))
}

func TestInspect_OpaqueToken(t *testing.T) {
	_, err := jwt.Inspect("opaque-session-token")
	require.ErrorIs(t, err, jwt.ErrNotJWT)

	_, ok := jwt.ExpiresAt("opaque-session-token")
	require.False(t, ok)
}

func TestCreator_Validate(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	fixedNow(t, now)

	creator, err := jwt.NewCreator([]byte("secret"), time.Minute)
	require.NoError(t, err)
	token, err := creator.CreateAccessToken("u@example.com", []string{"ROLE_USER"})
	require.NoError(t, err)

	claims, err := creator.Validate(token)
	require.NoError(t, err)
	require.Equal(t, []string{"ROLE_USER"}, claims.Roles)

	other, err := jwt.NewCreator([]byte("different"), time.Minute)
	require.NoError(t, err)
	_, err = other.Validate(token)
	require.Error(t, err)

	jwt.NowTimeFunc = func() time.Time { return now.Add(time.Hour) }
	_, err = creator.Validate(token)
	require.Error(t, err)

	_, err = jwt.NewCreator(nil, time.Minute)
	require.Error(t, err)
}

func TestVerifier_StaticKeys(t *testing.T) {
	now := time.Now()
	fixedNow(t, now)

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	sign := func(k *rsa.PrivateKey, claims jwtlib.MapClaims) string {
		s, err := jwtlib.NewWithClaims(jwtlib.SigningMethodRS256, claims).SignedString(k)
		require.NoError(t, err)
		return s
	}

	verifier := jwt.NewStaticVerifier("https://reservas.example.com", &key.PublicKey)

	good := sign(key, jwtlib.MapClaims{
		"iss":   "https://reservas.example.com",
		"sub":   "admin@example.com",
		"roles": []string{"ROLE_ADMIN"},
		"exp":   now.Add(time.Hour).Unix(),
	})
	claims, err := verifier.Verify(context.Background(), good)
	require.NoError(t, err)
	require.Equal(t, "admin@example.com", claims.Email)
	require.Equal(t, []string{"ROLE_ADMIN"}, claims.Roles)

	otherKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	forged := sign(otherKey, jwtlib.MapClaims{
		"iss": "https://reservas.example.com",
		"sub": "admin@example.com",
		"exp": now.Add(time.Hour).Unix(),
	})
	_, err = verifier.Verify(context.Background(), forged)
	require.ErrorIs(t, err, errors.ErrInvalidToken)

	wrongIssuer := sign(key, jwtlib.MapClaims{
		"iss": "https://elsewhere.example.com",
		"exp": now.Add(time.Hour).Unix(),
	})
	_, err = verifier.Verify(context.Background(), wrongIssuer)
	require.ErrorIs(t, err, errors.ErrInvalidToken)
}
