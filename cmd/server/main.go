package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/google/uuid"
	"github.com/jrsteele09/go-flight-admin/auth"
	"github.com/jrsteele09/go-flight-admin/internal/config"
	"github.com/jrsteele09/go-flight-admin/internal/fakebackend"
	"github.com/jrsteele09/go-flight-admin/internal/logging"
	"github.com/jrsteele09/go-flight-admin/server"
	"github.com/jrsteele09/go-flight-admin/storage/sqlitestore"
	"github.com/jrsteele09/go-flight-admin/token/jwt"
	"github.com/jrsteele09/go-flight-admin/token/keys"
	"github.com/rs/zerolog/log"
)

func main() {
	for {
		if err := run(); err != nil {
			log.Error().Err(err).Msg("Error running server")
			time.Sleep(1 * time.Second)
		} else {
			break
		}
	}
	log.Info().Msg("Server stopped")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Bytes("stack", debug.Stack()).Msg("Recovered from panic")
			returnError = errors.New("panic recovered")
		}
	}()

	c := config.New()
	if err := logging.Setup(c.GetLogLevel(), c.GetEnv(), os.Stderr); err != nil {
		log.Warn().Err(err).Msg("logging")
	}
	displayAppname(c.GetAppName())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dbPath := c.GetSessionDBPath()
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o700); err != nil {
		return fmt.Errorf("create data folder: %w", err)
	}
	sessionDB, err := sqlitestore.Open(ctx, dbPath)
	if err != nil {
		return err
	}
	defer sessionDB.Close()

	var options []server.Option
	jwksURL := c.GetJWKSURL()
	if c.GetFakeBackend() {
		rootURL, stopBackend, err := startFakeBackend()
		if err != nil {
			return err
		}
		defer stopBackend()
		options = append(options, server.WithAPIBaseURL(rootURL+"/api/v1"))
		if jwksURL == "" {
			jwksURL = rootURL + fakebackend.JWKSPath
		}
	}
	if jwksURL != "" {
		options = append(options, server.WithAuthOptions(
			auth.WithVerifier(jwt.NewVerifier(ctx, jwksURL, c.GetTokenIssuer()))))
	}

	handler, err := server.New(c, sessionDB, options...)
	if err != nil {
		return err
	}

	go purgeIdleSessions(ctx, sessionDB, c.GetSessionIdleTimeout(), c.GetSessionPurgeInterval())

	srv := &http.Server{
		Addr:              c.GetPort(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go listenAndServe(srv)
	waitForStopSignal()
	returnError = shutdown(srv)
	return returnError
}

func listenAndServe(server *http.Server) {
	log.Info().Msgf("Server listening on %s", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error().Err(err).Msg("server.ListenAndServe")
	}
}

// startFakeBackend serves the seeded development backend on a loopback port.
// Its tokens are RS256 signed with a key generated for this run.
func startFakeBackend() (rootURL string, stop func(), err error) {
	kp, err := keys.GenerateRSAKeyPair(uuid.NewString(), 2048)
	if err != nil {
		return "", nil, err
	}
	backend := fakebackend.New(fakebackend.WithSigningKey(kp))
	backend.Seed()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", nil, fmt.Errorf("fake backend listen: %w", err)
	}
	srv := &http.Server{Handler: backend.Handler(), ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("fake backend")
		}
	}()

	rootURL = "http://" + ln.Addr().String()
	log.Warn().
		Str("url", rootURL).
		Str("admin", fakebackend.DemoAdminEmail).
		Str("customer", fakebackend.DemoUserEmail).
		Str("password", fakebackend.DemoPassword).
		Msg("Using the in-process fake backend")
	return rootURL, func() { _ = srv.Close() }, nil
}

// purgeIdleSessions periodically drops browser sessions nobody has touched for idle.
func purgeIdleSessions(ctx context.Context, db *sqlitestore.DB, idle, every time.Duration) {
	if idle <= 0 || every <= 0 {
		return
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := db.PurgeIdle(ctx, idle)
			if err != nil {
				log.Err(err).Msg("purging idle sessions")
				continue
			}
			if n > 0 {
				log.Info().Int64("sessions", n).Msg("purged idle sessions")
			}
		}
	}
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
