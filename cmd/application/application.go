// Package application provides the application interface for skillmatrix
// commands.
//
// Commands accept an Application rather than the concrete App so they can
// be tested against a Mock:
//
//	mock := &application.Mock{
//	    EngineFunc: func(...skillmatrix.Option) (*skillmatrix.Engine, error) {
//	        return skillmatrix.New(skillmatrix.WithStore(memory.New(records...)))
//	    },
//	}
//	cmd := tree.NewCommand(mock)
package application

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/skillmatrix"
)

// Application provides what commands need from the running CLI.
type Application interface {
	// Engine returns the engine over the configured store. Options are
	// appended to the ones built from configuration.
	Engine(opts ...skillmatrix.Option) (*skillmatrix.Engine, error)

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (json, yaml, table, etc).
	OutputFormat() string

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}
