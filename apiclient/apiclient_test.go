package apiclient_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jrsteele09/go-flight-admin/apiclient"
	"github.com/jrsteele09/go-flight-admin/flights"
	"github.com/jrsteele09/go-flight-admin/internal/errors"
	"github.com/jrsteele09/go-flight-admin/internal/fakebackend"
	"github.com/jrsteele09/go-flight-admin/roles"
	"github.com/jrsteele09/go-flight-admin/sessions"
	"github.com/jrsteele09/go-flight-admin/storage"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	backend *fakebackend.Backend
	server  *httptest.Server
	manager *sessions.Manager
	client  *apiclient.Client
}

func newFixture(t *testing.T, opts ...fakebackend.Option) *fixture {
	t.Helper()
	backend := fakebackend.New(opts...)
	backend.Seed()
	server := httptest.NewServer(backend.Handler())
	t.Cleanup(server.Close)

	manager := sessions.NewManager(storage.NewMemory())
	client, err := apiclient.New(server.URL+"/api/v1", manager, apiclient.WithTimeout(5*time.Second))
	require.NoError(t, err)
	return &fixture{backend: backend, server: server, manager: manager, client: client}
}

func (f *fixture) login(t *testing.T, email string) {
	t.Helper()
	resp, err := f.client.Login(context.Background(), flights.LoginRequest{
		CorreoElectronico: email,
		Password:          fakebackend.DemoPassword,
	})
	require.NoError(t, err)
	require.NoError(t, f.manager.LoginAs(context.Background(), sessions.Credentials{
		Token: resp.Token, Roles: resp.Roles, Email: resp.Email,
	}))
}

func TestLoginResponse_Shapes(t *testing.T) {
	tests := []struct {
		name string
		json string
		want apiclient.LoginResponse
	}{
		{
			"token and roles",
			`{"token":"t1","roles":["ROLE_USER","ROLE_ADMIN"]}`,
			apiclient.LoginResponse{Token: "t1", Roles: []string{"ROLE_USER", "ROLE_ADMIN"}},
		},
		{
			"jwtToken and single role",
			`{"jwtToken":"t2","role":"ROLE_ADMIN","idCliente":12}`,
			apiclient.LoginResponse{Token: "t2", Roles: []string{"ROLE_ADMIN"}, ClientID: "12"},
		},
		{
			"spring authorities",
			`{"accessToken":"t3","authorities":[{"authority":"ROLE_USER"}],"username":"u@x.io"}`,
			apiclient.LoginResponse{Token: "t3", Roles: []string{"ROLE_USER"}, Email: "u@x.io"},
		},
		{
			"no roles",
			`{"token":"t4"}`,
			apiclient.LoginResponse{Token: "t4"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got apiclient.LoginResponse
			require.NoError(t, json.Unmarshal([]byte(tt.json), &got))
			require.Equal(t, tt.want, got)
		})
	}
}

func TestClient_LoginAgainstEveryShape(t *testing.T) {
	for _, shape := range []fakebackend.LoginShape{
		fakebackend.LoginShapeCurrent, fakebackend.LoginShapeLegacy, fakebackend.LoginShapeSpring,
	} {
		f := newFixture(t, fakebackend.WithLoginShape(shape))
		resp, err := f.client.Login(context.Background(), flights.LoginRequest{
			CorreoElectronico: fakebackend.DemoAdminEmail,
			Password:          fakebackend.DemoPassword,
		})
		require.NoError(t, err)
		require.NotEmpty(t, resp.Token)
		require.Equal(t, roles.Admin, roles.Normalize(resp.Roles...))
		require.Equal(t, fakebackend.DemoAdminEmail, resp.Email)
	}
}

func TestClient_LoginBadCredentials(t *testing.T) {
	f := newFixture(t)
	_, err := f.client.Login(context.Background(), flights.LoginRequest{
		CorreoElectronico: fakebackend.DemoUserEmail,
		Password:          "wrong",
	})
	require.ErrorIs(t, err, errors.ErrInvalidCredentials)

	var apiErr *errors.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	require.Equal(t, "Credenciales inválidas", apiErr.Message)
}

func TestClient_Signup(t *testing.T) {
	f := newFixture(t)
	req := flights.SignupRequest{
		Nombre:            "Lucía",
		Apellido:          "Pérez",
		Direccion:         "Av. Arequipa 100",
		Telefono:          "987654321",
		CorreoElectronico: "lucia@example.com",
		Password:          "contraseña",
	}
	require.NoError(t, f.client.Signup(context.Background(), req))

	err := f.client.Signup(context.Background(), req)
	require.ErrorIs(t, err, errors.ErrConflict)
}

func TestClient_TokenResolvedPerRequest(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.client.Airlines().List(ctx)
	require.ErrorIs(t, err, errors.ErrNoSession)

	f.login(t, fakebackend.DemoUserEmail)
	first := f.manager.State().Token
	_, err = f.client.Airlines().List(ctx)
	require.NoError(t, err)
	require.Equal(t, "Bearer "+first, f.backend.LastAuthorization())

	// rotate the token without rebuilding the client
	f.login(t, fakebackend.DemoAdminEmail)
	second := f.manager.State().Token
	require.NotEqual(t, first, second)
	_, err = f.client.Airports().List(ctx)
	require.NoError(t, err)
	require.Equal(t, "Bearer "+second, f.backend.LastAuthorization())

	require.NoError(t, f.manager.Logout(ctx))
	_, err = f.client.Flights().List(ctx)
	require.ErrorIs(t, err, errors.ErrNoSession)
}

func TestResource_CRUD(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.login(t, fakebackend.DemoAdminEmail)

	airports := f.client.Airports()
	created, err := airports.Create(ctx, flights.Airport{Nombre: "Jorge Newbery", Ciudad: "Buenos Aires", Pais: "Argentina"})
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	created.Nombre = "Aeroparque Jorge Newbery"
	updated, err := airports.Update(ctx, created.ID, created)
	require.NoError(t, err)
	require.Equal(t, "Aeroparque Jorge Newbery", updated.Nombre)

	got, err := airports.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, updated, got)

	require.NoError(t, airports.Delete(ctx, created.ID))
	_, err = airports.Get(ctx, created.ID)
	require.ErrorIs(t, err, errors.ErrNotFound)
}

func TestResource_LayoverDurationFromBackend(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.login(t, fakebackend.DemoUserEmail)

	layovers, err := f.client.Layovers().List(ctx)
	require.NoError(t, err)
	require.Len(t, layovers, 1)
	require.Equal(t, 95, layovers[0].Duracion.Minutes())
	require.Equal(t, "Bogotá", layovers[0].Aeropuerto.Ciudad)

	list, err := f.client.Flights().List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "Iberia", list[0].Aerolinea.Nombre)
	require.Len(t, list[0].Escalas, 1)
}

func TestResource_UserCannotWriteCatalog(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.login(t, fakebackend.DemoUserEmail)

	_, err := f.client.Airlines().Create(ctx, flights.Airline{Nombre: "X", Codigo: "XX"})
	require.ErrorIs(t, err, errors.ErrForbidden)
}

func TestReservations_Mine(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.login(t, fakebackend.DemoUserEmail)

	list, err := f.client.Flights().List(ctx)
	require.NoError(t, err)

	res := f.client.Reservations()
	created, err := res.Create(ctx, flights.NewReservation(list[0].ID, 2, time.Now()))
	require.NoError(t, err)

	mine, err := res.Mine(ctx)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.Equal(t, created.ID, mine[0].ID)

	created.NumeroDePasajeros = 3
	_, err = res.Update(ctx, created.ID, created)
	require.NoError(t, err)

	require.NoError(t, res.Delete(ctx, created.ID))
	mine, err = res.Mine(ctx)
	require.NoError(t, err)
	require.Empty(t, mine)
}

func TestNew_RejectsBadBaseURL(t *testing.T) {
	_, err := apiclient.New("ftp://example.com", nil)
	require.Error(t, err)

	c, err := apiclient.New("", nil)
	require.NoError(t, err)
	require.Equal(t, apiclient.DefaultBaseURL, c.BaseURL())

	_, err = c.Airlines().List(context.Background())
	require.ErrorIs(t, err, errors.ErrNoSession)
}

func TestClient_PlainTextError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	}))
	defer server.Close()

	c, err := apiclient.New(server.URL, nil)
	require.NoError(t, err)
	err = c.Signup(context.Background(), flights.SignupRequest{})

	var apiErr *errors.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "upstream exploded", apiErr.Message)
	require.ErrorIs(t, err, errors.ErrBackend)
}
