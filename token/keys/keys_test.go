package keys_test

import (
	"crypto/rsa"
	"encoding/base64"
	"math/big"
	"testing"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/go-flight-admin/token/keys"
	"github.com/stretchr/testify/require"
)

func TestKeyPairSigner_SignAndJWKS(t *testing.T) {
	kp, err := keys.GenerateRSAKeyPair("k1", 1024)
	require.NoError(t, err)
	require.Equal(t, 2048, kp.PrivateKey.(*rsa.PrivateKey).N.BitLen())

	signer := keys.NewKeyPairSigner(kp)
	raw, err := signer.Sign(jwtlib.MapClaims{"sub": "ana@example.com"})
	require.NoError(t, err)

	token, err := jwtlib.Parse(raw, signer.GetVerificationKey)
	require.NoError(t, err)
	require.True(t, token.Valid)
	require.Equal(t, "k1", token.Header["kid"])
	require.Equal(t, "RS256", token.Header["alg"])

	set, err := signer.JWKS()
	require.NoError(t, err)
	require.Len(t, set.Keys, 1)
	jwk := set.Keys[0]
	require.Equal(t, "RSA", jwk.Kty)
	require.Equal(t, "sig", jwk.Use)
	require.Equal(t, "k1", jwk.Kid)

	n, err := base64.RawURLEncoding.DecodeString(jwk.N)
	require.NoError(t, err)
	require.Zero(t, new(big.Int).SetBytes(n).Cmp(kp.PublicKey.(*rsa.PublicKey).N))
}

func TestSigners_RejectOtherMethods(t *testing.T) {
	kp, err := keys.GenerateRSAKeyPair("k1", 2048)
	require.NoError(t, err)
	rsaSigner := keys.NewKeyPairSigner(kp)
	hmacSigner := keys.NewHMACSigner([]byte("secret"))

	hmacToken, err := hmacSigner.Sign(jwtlib.MapClaims{"sub": "x"})
	require.NoError(t, err)
	_, err = jwtlib.Parse(hmacToken, rsaSigner.GetVerificationKey)
	require.Error(t, err)

	rsaToken, err := rsaSigner.Sign(jwtlib.MapClaims{"sub": "x"})
	require.NoError(t, err)
	_, err = jwtlib.Parse(rsaToken, hmacSigner.GetVerificationKey)
	require.Error(t, err)

	_, err = jwtlib.Parse(hmacToken, hmacSigner.GetVerificationKey)
	require.NoError(t, err)
}
