package logging

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/agentstation/skillmatrix/pkg/skills"
)

// Field names.
const (
	SessionField   = "session_id"
	OperationField = "operation"
	StoreField     = "store"
	GroupField     = "group"
)

type loggerKey struct{}

type sessionKey struct{}

// WithLogger returns ctx carrying logger, or the default logger when
// logger is nil.
func WithLogger(ctx context.Context, logger *zerolog.Logger) context.Context {
	if logger == nil {
		logger = Default()
	}
	return context.WithValue(ctx, loggerKey{}, logger)
}

// FromContext returns the logger ctx carries, or the default logger.
func FromContext(ctx context.Context) *zerolog.Logger {
	if ctx != nil {
		if logger, ok := ctx.Value(loggerKey{}).(*zerolog.Logger); ok && logger != nil {
			return logger
		}
	}
	return Default()
}

// WithSession records the edit session id on ctx and tags its logger.
func WithSession(ctx context.Context, id string) context.Context {
	return tag(context.WithValue(ctx, sessionKey{}, id), SessionField, id)
}

// SessionID returns the id WithSession recorded.
func SessionID(ctx context.Context) string {
	id, _ := ctx.Value(sessionKey{}).(string)
	return id
}

// WithOperation tags the context logger with the operation in progress.
func WithOperation(ctx context.Context, operation string) context.Context {
	return tag(ctx, OperationField, operation)
}

func tag(ctx context.Context, field, value string) context.Context {
	logger := FromContext(ctx).With().Str(field, value).Logger()
	return WithLogger(ctx, &logger)
}

// The helpers below tag a logger directly, for code that holds no context.

// WithStore tags logger with a store kind.
func WithStore(logger zerolog.Logger, kind string) zerolog.Logger {
	return logger.With().Str(StoreField, kind).Logger()
}

// WithGroup tags logger with a group key.
func WithGroup(logger zerolog.Logger, key skills.GroupKey) zerolog.Logger {
	return logger.With().Str(GroupField, string(key)).Logger()
}
