// Package logging configures the global zerolog logger.
package logging

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup points the global logger at out. DEV gets human readable console
// output, every other environment gets JSON lines. An unknown level falls
// back to info and is reported.
func Setup(level, env string, out io.Writer) error {
	var w io.Writer = out
	if strings.EqualFold(env, "DEV") {
		w = zerolog.ConsoleWriter{Out: out, TimeFormat: time.TimeOnly}
	}
	log.Logger = zerolog.New(w).With().Timestamp().Logger()

	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		return fmt.Errorf("[logging.Setup] unknown log level %q, using info", level)
	}
	zerolog.SetGlobalLevel(lvl)
	return nil
}
