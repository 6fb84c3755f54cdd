// Package cli implements aeroctl, the command line client for the flight
// reservation service. It shares the session manager, route guard and API
// client with the web front end; the session lives in a JSON file.
package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jrsteele09/go-flight-admin/apiclient"
	"github.com/jrsteele09/go-flight-admin/auth"
	"github.com/jrsteele09/go-flight-admin/guard"
	"github.com/jrsteele09/go-flight-admin/internal/config"
	"github.com/jrsteele09/go-flight-admin/internal/errors"
	"github.com/jrsteele09/go-flight-admin/internal/logging"
	"github.com/jrsteele09/go-flight-admin/roles"
	"github.com/jrsteele09/go-flight-admin/sessions"
	"github.com/jrsteele09/go-flight-admin/storage"
	"github.com/jrsteele09/go-flight-admin/storage/filestore"
	"github.com/jrsteele09/go-flight-admin/token/jwt"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const userAgent = "aeroctl"

type app struct {
	cfg         config.Config
	apiURL      string
	sessionFile string
	logLevel    string
	interactive bool
	nowTime     func() time.Time
	store       storage.Store // replaces the session file when set

	session *sessions.Manager
	client  *apiclient.Client
	auth    *auth.Service
}

// Option configures the root command
type Option func(*app)

// WithSessionStore keeps the session in store instead of the session file.
func WithSessionStore(store storage.Store) Option {
	return func(a *app) {
		a.store = store
	}
}

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) Option {
	return func(a *app) {
		a.nowTime = nowFunc
	}
}

// WithInteractive turns the prompts for missing login and signup fields on or off.
func WithInteractive(interactive bool) Option {
	return func(a *app) {
		a.interactive = interactive
	}
}

// NewRootCmd creates the root cobra command for aeroctl.
func NewRootCmd(options ...Option) *cobra.Command {
	a := &app{
		cfg:         config.New(),
		interactive: isInteractive(),
		nowTime:     time.Now,
	}
	for _, opt := range options {
		opt(a)
	}

	root := &cobra.Command{
		Use:   "aeroctl",
		Short: "Book and administer flights from the terminal",
		Long:  "aeroctl signs in to the flight reservation service and manages catalogue data and reservations.",
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.open(cmd)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&a.apiURL, "api", a.cfg.GetAPIBaseURL(), "Reservation API root (or API_BASE_URL env)")
	root.PersistentFlags().StringVar(&a.sessionFile, "session-file", "", "Where the session is kept (default ~/.aeroctl/session.json)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")

	root.AddCommand(
		newLoginCmd(a),
		newSignupCmd(a),
		newLogoutCmd(a),
		newWhoamiCmd(a),
		newAirlinesCmd(a),
		newAirportsCmd(a),
		newFlightsCmd(a),
		newLayoversCmd(a),
		newReservationsCmd(a),
	)

	return root
}

// open restores the session and builds the backend client. It runs before
// every command.
func (a *app) open(cmd *cobra.Command) error {
	if err := logging.Setup(a.logLevel, "DEV", cmd.ErrOrStderr()); err != nil {
		log.Warn().Err(err).Msg("logging")
	}

	store := a.store
	if store == nil {
		path := a.sessionFile
		if path == "" {
			var err error
			if path, err = filestore.DefaultPath(); err != nil {
				return err
			}
		}
		store = filestore.New(path)
	}
	if secret := a.cfg.GetStorageSecret(); secret != "" {
		sealed, err := storage.NewSealed(store, []byte(secret))
		if err != nil {
			return fmt.Errorf("session encryption: %w", err)
		}
		store = sealed
	}

	a.session = sessions.NewManager(store,
		sessions.WithNowTime(a.nowTime),
		sessions.WithExpiryInspector(jwt.ExpiresAt))
	if err := a.session.Restore(cmd.Context()); err != nil {
		log.Warn().Err(err).Msg("restoring session")
	}

	var err error
	a.client, err = apiclient.New(a.apiURL, a.session,
		apiclient.WithTimeout(a.cfg.GetAPITimeout()),
		apiclient.WithUserAgent(userAgent))
	if err != nil {
		return err
	}
	a.auth, err = auth.NewService(a.client, auth.WithNowTime(a.nowTime))
	return err
}

// authorize runs the route guard for a protected command.
func (a *app) authorize(requirement roles.Role) error {
	outcome := guard.Authorize(a.session, requirement)
	switch outcome.Decision {
	case guard.Allow:
		return nil
	case guard.RedirectToLogin:
		return fmt.Errorf("%w: run `aeroctl login` first", errors.ErrNotSignedIn)
	}
	role, _ := a.session.CurrentRole()
	return fmt.Errorf("%w: %s accounts cannot use this command", errors.ErrWrongRole, role)
}

// backendError reports a failed API call. A rejected token ends the session.
func (a *app) backendError(ctx context.Context, action string, err error) error {
	if errors.Is(err, errors.ErrUnauthorized) || errors.Is(err, errors.ErrNoSession) {
		if lerr := a.auth.Logout(ctx, a.session); lerr != nil {
			log.Err(lerr).Msg("clearing rejected session")
		}
		return fmt.Errorf("%s: %w", auth.MsgTokenExpired, err)
	}
	return errors.Wrapf(err, "%s", action)
}

func isInteractive() bool {
	fileInfo, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}
