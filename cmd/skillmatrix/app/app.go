// Package app provides the application context and dependency management
// for the skillmatrix CLI. It centralizes configuration, logging and the
// record store the commands share.
package app

import (
	"context"
	"io"
	"sync"

	"github.com/rs/zerolog"

	"github.com/agentstation/skillmatrix"
	"github.com/agentstation/skillmatrix/cmd/application"
	"github.com/agentstation/skillmatrix/internal/persistence"
	"github.com/agentstation/skillmatrix/pkg/errors"
	"github.com/agentstation/skillmatrix/pkg/logging"
)

// App represents the skillmatrix application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	config *Config
	logger *zerolog.Logger

	// Command output, os.Stdout and os.Stderr when nil
	stdout io.Writer
	stderr io.Writer

	// Store (lazy-initialized, shared by every engine)
	mu    sync.Mutex
	store persistence.Store
}

var _ application.Application = (*App)(nil)

// New creates a new App instance with the given version information.
// Configuration is loaded from the environment and config files and can be
// replaced with functional options.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	if app.config == nil {
		config, err := LoadConfig()
		if err != nil {
			return nil, errors.WrapResource("load", "config", "", err)
		}
		app.config = config
	}

	if app.logger == nil {
		logger := NewLogger(app.config)
		app.logger = &logger
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the configured output format.
func (a *App) OutputFormat() string {
	return a.config.Format
}

// Store returns the configured record store, opening it on first use.
func (a *App) Store() (persistence.Store, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.store != nil {
		return a.store, nil
	}

	kind, err := persistence.ParseKind(a.config.Store)
	if err != nil {
		return nil, err
	}
	store, err := persistence.Open(kind, a.config.StorePath)
	if err != nil {
		return nil, errors.WrapResource("open", "store", string(kind), err)
	}

	log := logging.WithStore(*a.logger, string(kind))
	log.Debug().
		Str("path", a.config.StorePath).
		Msg("Opened record store")
	a.store = store
	return store, nil
}

// Engine returns an engine over the configured store. Options are applied
// after the ones built from configuration.
func (a *App) Engine(opts ...skillmatrix.Option) (*skillmatrix.Engine, error) {
	store, err := a.Store()
	if err != nil {
		return nil, err
	}

	base := []skillmatrix.Option{
		skillmatrix.WithStore(store),
		skillmatrix.WithLogger(a.logger),
		skillmatrix.WithSimilarityThreshold(a.config.SimilarityThreshold),
	}
	if len(a.config.CategoryPriority) > 0 {
		base = append(base, skillmatrix.WithCategoryPriority(a.config.CategoryPriority...))
	}

	engine, err := skillmatrix.New(append(base, opts...)...)
	if err != nil {
		return nil, errors.WrapResource("create", "engine", "", err)
	}
	return engine, nil
}

// Shutdown closes the record store if one was opened.
func (a *App) Shutdown(_ context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.store == nil {
		return nil
	}
	err := a.store.Close()
	a.store = nil
	return err
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		if config == nil {
			return &errors.ValidationError{Field: "config", Message: "cannot be nil"}
		}
		if err := config.Validate(); err != nil {
			return err
		}
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithStore sets the record store (useful for testing).
func WithStore(store persistence.Store) Option {
	return func(a *App) error {
		a.store = store
		return nil
	}
}

// WithOutput redirects command output and status lines.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(a *App) error {
		a.stdout, a.stderr = stdout, stderr
		return nil
	}
}
