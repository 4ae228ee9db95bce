// Package logging builds the zerolog loggers the engine and the CLI write
// through, and carries them on contexts.
//
// Log lines about an edit session share a small set of fields: session_id,
// operation, store and group.
//
//	ctx = logging.WithSession(logging.WithLogger(ctx, &logger), s.ID())
//	logging.FromContext(ctx).Info().Msg("Checked edit session")
package logging

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var defaultLogger = NewLoggerFromConfig(envConfig())

// envConfig reads SKILLMATRIX_LOG_LEVEL and SKILLMATRIX_LOG_FORMAT, or
// their bare LOG_* forms. DEBUG=1 is a shortcut for the debug level.
func envConfig() *Config {
	cfg := DefaultConfig()
	switch {
	case env("LOG_LEVEL") != "":
		cfg.Level = env("LOG_LEVEL")
	case os.Getenv("DEBUG") != "":
		cfg.Level = "debug"
	}
	if format := env("LOG_FORMAT"); format != "" {
		cfg.Format = format
	}
	return cfg
}

func env(key string) string {
	if v := os.Getenv("SKILLMATRIX_" + key); v != "" {
		return v
	}
	return os.Getenv(key)
}

// Default returns the process-wide logger. Engines and sessions built
// without WithLogger write here.
func Default() *zerolog.Logger {
	return &defaultLogger
}

// SetDefault replaces the process-wide logger, zerolog's global one
// included.
func SetDefault(logger zerolog.Logger) {
	defaultLogger = logger
	log.Logger = logger
}

// NewNopLogger returns a logger that writes nothing.
func NewNopLogger() *zerolog.Logger {
	logger := zerolog.Nop()
	return &logger
}
