package logging_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/skillmatrix/pkg/logging"
	"github.com/agentstation/skillmatrix/pkg/skills"
)

func TestSetDefault(t *testing.T) {
	original := *logging.Default()
	t.Cleanup(func() { logging.SetDefault(original) })

	tl := logging.NewTestLogger(t)
	logging.SetDefault(*tl.Logger)
	logging.Default().Info().Msg("through default")
	logging.FromContext(context.Background()).Info().Msg("through context")

	_, ok := tl.Entry("through default")
	assert.True(t, ok)
	_, ok = tl.Entry("through context")
	assert.True(t, ok)
}

func TestContextTags(t *testing.T) {
	tl := logging.NewTestLogger(t)

	ctx := logging.WithLogger(context.Background(), tl.Logger)
	ctx = logging.WithSession(ctx, "session-7")
	ctx = logging.WithOperation(ctx, "commit")
	logging.FromContext(ctx).Info().Msg("saved")

	assert.Equal(t, "session-7", logging.SessionID(ctx))
	entry, ok := tl.Entry("saved")
	require.True(t, ok, tl.Output())
	assert.Equal(t, "session-7", entry[logging.SessionField])
	assert.Equal(t, "commit", entry[logging.OperationField])
}

func TestLoggerTags(t *testing.T) {
	tl := logging.NewTestLogger(t)

	logger := logging.WithStore(*tl.Logger, "sqlite")
	logger = logging.WithGroup(logger, skills.NewGroupKey("RedTeam", "Recon", "OSINT"))
	logger.Debug().Msg("moved")

	entry, ok := tl.Entry("moved")
	require.True(t, ok, tl.Output())
	assert.Equal(t, "sqlite", entry[logging.StoreField])
	assert.Equal(t, "RedTeam|Recon|OSINT", entry[logging.GroupField])
}

func TestFromContextDefaults(t *testing.T) {
	assert.Same(t, logging.Default(), logging.FromContext(context.Background()))
	assert.Same(t, logging.Default(), logging.FromContext(logging.WithLogger(context.Background(), nil)))
	assert.Empty(t, logging.SessionID(context.Background()))
}

func TestTestLoggerEntries(t *testing.T) {
	tl := logging.NewTestLogger(t)

	tl.Logger.Trace().Msg("message 1")
	tl.Logger.Error().Msg("message 2")
	_, _ = tl.Write([]byte("not json\n"))

	entries := tl.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "trace", entries[0][zerolog.LevelFieldName])
	_, ok := tl.Entry("message 3")
	assert.False(t, ok)

	assert.NotPanics(t, func() { logging.NewNopLogger().Info().Msg("dropped") })
}
