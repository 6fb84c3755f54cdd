package fakebackend_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jrsteele09/go-flight-admin/internal/fakebackend"
	"github.com/jrsteele09/go-flight-admin/token/keys"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, opts ...fakebackend.Option) (*fakebackend.Backend, *httptest.Server) {
	t.Helper()
	backend := fakebackend.New(opts...)
	backend.Seed()
	server := httptest.NewServer(backend.Handler())
	t.Cleanup(server.Close)
	return backend, server
}

func call(t *testing.T, method, url, token string, body any) (int, []byte) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out bytes.Buffer
	_, err = out.ReadFrom(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, out.Bytes()
}

func TestJWKS(t *testing.T) {
	t.Run("hmac signing publishes no key set", func(t *testing.T) {
		_, server := serve(t)
		status, _ := call(t, http.MethodGet, server.URL+fakebackend.JWKSPath, "", nil)
		require.Equal(t, http.StatusNotFound, status)
	})

	t.Run("key pair signing publishes the public key", func(t *testing.T) {
		kp, err := keys.GenerateRSAKeyPair("dev-key", 2048)
		require.NoError(t, err)
		backend, server := serve(t, fakebackend.WithSigningKey(kp))

		status, body := call(t, http.MethodGet, server.URL+fakebackend.JWKSPath, "", nil)
		require.Equal(t, http.StatusOK, status)
		var set keys.JWKS
		require.NoError(t, json.Unmarshal(body, &set))
		require.Len(t, set.Keys, 1)
		require.Equal(t, "dev-key", set.Keys[0].Kid)

		token, err := backend.IssueToken(fakebackend.DemoUserEmail)
		require.NoError(t, err)
		claims, err := backend.Verify(token)
		require.NoError(t, err)
		require.Equal(t, fakebackend.DemoUserEmail, claims.Email)
	})
}

func TestAuthorization(t *testing.T) {
	backend, server := serve(t)
	api := server.URL + "/api/v1"
	userToken, err := backend.IssueToken(fakebackend.DemoUserEmail)
	require.NoError(t, err)

	status, _ := call(t, http.MethodGet, api+"/aerolineas", "", nil)
	require.Equal(t, http.StatusUnauthorized, status)

	status, _ = call(t, http.MethodGet, api+"/aerolineas", userToken, nil)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "Bearer "+userToken, backend.LastAuthorization())

	status, _ = call(t, http.MethodPost, api+"/aerolineas", userToken, map[string]string{"nombre": "X", "codigo": "XX"})
	require.Equal(t, http.StatusForbidden, status)
}

func TestLayoverDuplicate(t *testing.T) {
	backend, server := serve(t)
	api := server.URL + "/api/v1"
	adminToken, err := backend.IssueToken(fakebackend.DemoAdminEmail)
	require.NoError(t, err)

	// the seed already stops flight 8 at airport 7
	status, _ := call(t, http.MethodPost, api+"/escalas", adminToken, map[string]any{
		"idVuelo": 8, "idAeropuerto": 7, "duracion": "PT45M",
	})
	require.Equal(t, http.StatusConflict, status)

	status, _ = call(t, http.MethodPost, api+"/escalas", adminToken, map[string]any{
		"idVuelo": 8, "idAeropuerto": 5, "duracion": "PT45M",
	})
	require.Equal(t, http.StatusCreated, status)

	// updating the seeded stop in place is not a duplicate of itself
	status, _ = call(t, http.MethodPut, api+"/escalas/9", adminToken, map[string]any{
		"idVuelo": 8, "idAeropuerto": 7, "duracion": "PT2H",
	})
	require.Equal(t, http.StatusOK, status)
}

func TestReservationOwnership(t *testing.T) {
	backend, server := serve(t)
	api := server.URL + "/api/v1"
	backend.AddUser("otra@example.com", "password123", "ROLE_USER")
	owner, err := backend.IssueToken(fakebackend.DemoUserEmail)
	require.NoError(t, err)
	other, err := backend.IssueToken("otra@example.com")
	require.NoError(t, err)

	status, body := call(t, http.MethodPost, api+"/reservas", owner, map[string]any{
		"idVuelo": 8, "fechaDeReserva": "2026-05-01", "numeroDePasajeros": 2,
	})
	require.Equal(t, http.StatusCreated, status)
	var created struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(body, &created))
	item := api + "/reservas/" + jsonNumber(created.ID)

	status, _ = call(t, http.MethodGet, item, owner, nil)
	require.Equal(t, http.StatusOK, status)
	status, _ = call(t, http.MethodGet, item, other, nil)
	require.Equal(t, http.StatusForbidden, status)
	status, _ = call(t, http.MethodDelete, item, other, nil)
	require.Equal(t, http.StatusForbidden, status)

	status, body = call(t, http.MethodGet, api+"/reservas/misreservas", other, nil)
	require.Equal(t, http.StatusOK, status)
	require.JSONEq(t, `[]`, string(body))

	status, _ = call(t, http.MethodDelete, item, owner, nil)
	require.Equal(t, http.StatusNoContent, status)
	status, _ = call(t, http.MethodGet, item, owner, nil)
	require.Equal(t, http.StatusNotFound, status)
}

func jsonNumber(v int64) string {
	b, _ := json.Marshal(v)
	return string(b)
}
