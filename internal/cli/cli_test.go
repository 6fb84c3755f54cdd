package cli_test

import (
	"bytes"
	"context"
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/jrsteele09/go-flight-admin/auth"
	"github.com/jrsteele09/go-flight-admin/flights"
	"github.com/jrsteele09/go-flight-admin/internal/cli"
	"github.com/jrsteele09/go-flight-admin/internal/errors"
	"github.com/jrsteele09/go-flight-admin/internal/fakebackend"
	"github.com/jrsteele09/go-flight-admin/sessions"
	"github.com/jrsteele09/go-flight-admin/storage/filestore"
	"github.com/stretchr/testify/require"
)

type cliFixture struct {
	apiURL      string
	sessionFile string
	now         time.Time
}

func newCLIFixture(t *testing.T) *cliFixture {
	t.Helper()
	t.Setenv("STORAGE_SECRET", "")

	backend := fakebackend.New()
	backend.Seed()
	api := httptest.NewServer(backend.Handler())
	t.Cleanup(api.Close)

	return &cliFixture{
		apiURL:      api.URL + "/api/v1",
		sessionFile: filepath.Join(t.TempDir(), "aeroctl", "session.json"),
		now:         time.Now(),
	}
}

func (f *cliFixture) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return f.runAt(t, f.now, args...)
}

// runAt executes one aeroctl invocation, as a separate process would, with
// the clock set to now.
func (f *cliFixture) runAt(t *testing.T, now time.Time, args ...string) (string, error) {
	t.Helper()
	root := cli.NewRootCmd(
		cli.WithInteractive(false),
		cli.WithNowTime(func() time.Time { return now }),
	)

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(append([]string{"--api", f.apiURL, "--session-file", f.sessionFile}, args...))

	err := root.Execute()
	return out.String(), err
}

func (f *cliFixture) login(t *testing.T, email string) {
	t.Helper()
	_, err := f.run(t, "login", "--email", email, "--password", fakebackend.DemoPassword)
	require.NoError(t, err)
}

func TestLoginWhoamiLogout(t *testing.T) {
	f := newCLIFixture(t)

	out, err := f.run(t, "login", "--email", fakebackend.DemoAdminEmail, "--password", fakebackend.DemoPassword)
	require.NoError(t, err)
	require.Contains(t, out, "Signed in as "+fakebackend.DemoAdminEmail+" (ADMIN)")

	info, err := os.Stat(f.sessionFile)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	out, err = f.run(t, "whoami")
	require.NoError(t, err)
	require.Contains(t, out, fakebackend.DemoAdminEmail)
	require.Contains(t, out, "ADMIN")
	require.Contains(t, out, "from now")

	out, err = f.run(t, "logout")
	require.NoError(t, err)
	require.Contains(t, out, "Signed out.")

	out, err = f.run(t, "whoami")
	require.NoError(t, err)
	require.Contains(t, out, "Not signed in.")
}

func TestLogin_Failures(t *testing.T) {
	f := newCLIFixture(t)

	_, err := f.run(t, "login", "--email", fakebackend.DemoUserEmail, "--password", "wrong-password")
	require.EqualError(t, err, auth.MsgInvalidCredentials)

	_, err = f.run(t, "login")
	require.Error(t, err)
	require.Contains(t, err.Error(), auth.MsgValidation)
	require.Contains(t, err.Error(), "correoElectronico: required")

	out, err := f.run(t, "whoami")
	require.NoError(t, err)
	require.Contains(t, out, "Not signed in.")
}

func TestGuard(t *testing.T) {
	f := newCLIFixture(t)

	_, err := f.run(t, "airlines", "list")
	require.ErrorIs(t, err, errors.ErrNotSignedIn)

	f.login(t, fakebackend.DemoUserEmail)
	_, err = f.run(t, "layovers", "list")
	require.ErrorIs(t, err, errors.ErrWrongRole)
	_, err = f.run(t, "airlines", "delete", "3")
	require.ErrorIs(t, err, errors.ErrWrongRole)

	f.login(t, fakebackend.DemoAdminEmail)
	_, err = f.run(t, "reservations", "mine")
	require.ErrorIs(t, err, errors.ErrWrongRole)
}

func TestCatalogueLists(t *testing.T) {
	f := newCLIFixture(t)
	f.login(t, fakebackend.DemoAdminEmail)

	out, err := f.run(t, "airlines", "list")
	require.NoError(t, err)
	require.Contains(t, out, "Iberia")
	require.Contains(t, out, "LATAM")

	out, err = f.run(t, "airports", "list")
	require.NoError(t, err)
	require.Contains(t, out, "Jorge Chávez")

	out, err = f.run(t, "flights", "list")
	require.NoError(t, err)
	require.Contains(t, out, "Madrid → Lima")
	require.Contains(t, out, "12h 40m")

	out, err = f.run(t, "layovers", "list")
	require.NoError(t, err)
	require.Contains(t, out, "El Dorado (Bogotá)")
	require.Contains(t, out, "1h 35m")
}

func TestAirlineAddAndDelete(t *testing.T) {
	f := newCLIFixture(t)
	f.login(t, fakebackend.DemoAdminEmail)

	_, err := f.run(t, "airlines", "add", "--name", "Avianca")
	require.ErrorIs(t, err, errors.ErrValidation)

	out, err := f.run(t, "airlines", "add", "--name", "Avianca", "--code", "AV", "--country", "Colombia")
	require.NoError(t, err)
	m := regexp.MustCompile(`Airline #(\d+) Avianca added`).FindStringSubmatch(out)
	require.Len(t, m, 2)

	out, err = f.run(t, "airlines", "delete", m[1])
	require.NoError(t, err)
	require.Contains(t, out, "Deleted airline #"+m[1])

	_, err = f.run(t, "airlines", "delete", m[1])
	require.ErrorIs(t, err, errors.ErrNotFound)

	_, err = f.run(t, "airlines", "delete", "abc")
	require.EqualError(t, err, `invalid id "abc"`)
}

func TestReservations(t *testing.T) {
	f := newCLIFixture(t)
	f.login(t, fakebackend.DemoUserEmail)

	out, err := f.run(t, "reservations", "mine")
	require.NoError(t, err)
	require.Contains(t, out, "You have no reservations yet.")

	_, err = f.run(t, "reservations", "create", "--flight", "8", "--passengers", "0")
	require.ErrorIs(t, err, errors.ErrValidation)

	out, err = f.run(t, "reservations", "create", "--flight", "8", "--passengers", "2")
	require.NoError(t, err)
	m := regexp.MustCompile(`Reservation #(\d+): 2 passenger\(s\) on flight #8`).FindStringSubmatch(out)
	require.Len(t, m, 2)
	resID := m[1]

	out, err = f.run(t, "reservations", "mine")
	require.NoError(t, err)
	require.Contains(t, out, "Madrid → Lima")
	require.Contains(t, out, f.now.Format(flights.DateLayout))

	out, err = f.run(t, "reservations", "update", resID, "--passengers", "3")
	require.NoError(t, err)
	require.Contains(t, out, "now has 3 passenger(s)")

	out, err = f.run(t, "reservations", "cancel", resID)
	require.NoError(t, err)
	require.Contains(t, out, "Reservation #"+resID+" cancelled.")

	out, err = f.run(t, "reservations", "mine")
	require.NoError(t, err)
	require.Contains(t, out, "You have no reservations yet.")
}

func TestSignup(t *testing.T) {
	f := newCLIFixture(t)
	args := []string{"signup",
		"--first-name", "Lucía", "--last-name", "Pérez",
		"--address", "Calle Mayor 1", "--phone", "600123456",
		"--email", "lucia@example.com", "--password", "supersecret",
	}

	out, err := f.run(t, args...)
	require.NoError(t, err)
	require.Contains(t, out, "Account created for lucia@example.com")

	_, err = f.run(t, args...)
	require.EqualError(t, err, auth.MsgEmailTaken)

	_, err = f.run(t, "signup", "--first-name", "Ana", "--phone", "123")
	require.Error(t, err)
	require.Contains(t, err.Error(), auth.MsgValidation)
	require.Contains(t, err.Error(), "telefono: must contain at least 9 digits")

	f.login(t, "lucia@example.com")
	out, err = f.run(t, "whoami")
	require.NoError(t, err)
	require.Contains(t, out, "USER")
}

func TestExpiredSessionIsDiscarded(t *testing.T) {
	f := newCLIFixture(t)
	f.login(t, fakebackend.DemoAdminEmail)

	out, err := f.runAt(t, f.now.Add(2*time.Hour), "whoami")
	require.NoError(t, err)
	require.Contains(t, out, "Not signed in.")

	_, ok, err := filestore.New(f.sessionFile).Get(context.Background(), sessions.KeyToken)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRejectedTokenEndsSession(t *testing.T) {
	f := newCLIFixture(t)
	f.login(t, fakebackend.DemoUserEmail)

	store := filestore.New(f.sessionFile)
	require.NoError(t, store.Set(context.Background(), map[string]string{sessions.KeyToken: "revoked"}))

	_, err := f.run(t, "airports", "list")
	require.ErrorIs(t, err, errors.ErrUnauthorized)
	require.Contains(t, err.Error(), auth.MsgTokenExpired)

	out, err := f.run(t, "whoami")
	require.NoError(t, err)
	require.Contains(t, out, "Not signed in.")
}
