package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/skillmatrix/pkg/constants"
	"github.com/agentstation/skillmatrix/pkg/errors"
)

// isolate keeps config files in $HOME out of the test.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
}

func TestLoadConfigDefaults(t *testing.T) {
	isolate(t)

	config, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "files", config.Store)
	assert.Equal(t, constants.DefaultSimilarityThreshold, config.SimilarityThreshold)
	assert.Equal(t, constants.CategoryPriority, config.CategoryPriority)
	assert.Equal(t, "auto", config.LogFormat)
	assert.False(t, config.Verbose)
}

func TestLoadConfigEnvironment(t *testing.T) {
	isolate(t)
	t.Setenv("SKILLMATRIX_STORE", "sqlite")
	t.Setenv("SKILLMATRIX_STORE_PATH", "/tmp/skills.db")
	t.Setenv("SKILLMATRIX_SIMILARITY_THRESHOLD", "0.8")
	t.Setenv("SKILLMATRIX_CATEGORY_PRIORITY", "BlueTeam, RedTeam")
	t.Setenv("SKILLMATRIX_VERBOSE", "true")
	t.Setenv("LOG_LEVEL", "error")

	config, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", config.Store)
	assert.Equal(t, "/tmp/skills.db", config.StorePath)
	assert.Equal(t, 0.8, config.SimilarityThreshold)
	assert.Equal(t, []string{"BlueTeam", "RedTeam"}, config.CategoryPriority)
	assert.True(t, config.Verbose)
	assert.Equal(t, "error", config.LogLevel)
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	isolate(t)

	t.Setenv("SKILLMATRIX_STORE", "postgres")
	_, err := LoadConfig()
	var cerr *errors.ConfigError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "store", cerr.Component)

	t.Setenv("SKILLMATRIX_STORE", "memory")
	t.Setenv("SKILLMATRIX_SIMILARITY_THRESHOLD", "0")
	_, err = LoadConfig()
	assert.ErrorAs(t, err, &cerr)
}

func TestLoadConfigFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
store: memory
similarity_threshold: 0.85
category_priority:
  - PurpleTeam
  - RedTeam
log_output: discard
`), 0o644))

	config, err := LoadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, "memory", config.Store)
	assert.Equal(t, 0.85, config.SimilarityThreshold)
	assert.Equal(t, []string{"PurpleTeam", "RedTeam"}, config.CategoryPriority)
	assert.Equal(t, "discard", config.LogOutput)
	assert.Equal(t, path, config.ConfigFile)

	_, err = LoadConfigFile(filepath.Join(t.TempDir(), "missing.yaml"))
	var cerr *errors.ConfigError
	assert.ErrorAs(t, err, &cerr)
}

func TestUpdateFromFlags(t *testing.T) {
	config := &Config{Store: "files", StorePath: "skills.yaml", Format: "json", Verbose: true}
	config.UpdateFromFlags(false, true, false, "", "debug", "sqlite", "")

	assert.True(t, config.Verbose, "flags never clear config values")
	assert.True(t, config.Quiet)
	assert.Equal(t, "json", config.Format)
	assert.Equal(t, "debug", config.LogLevel)
	assert.Equal(t, "sqlite", config.Store)
	assert.Equal(t, "skills.yaml", config.StorePath)
}
