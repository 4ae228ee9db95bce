package completion

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/skillmatrix/pkg/errors"
)

func TestShells(t *testing.T) {
	assert.Equal(t, []string{"bash", "fish", "powershell", "zsh"}, Shells())
	assert.Equal(t, []string{"bash", "fish", "zsh"}, Installable())
}

func TestPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOMEBREW_PREFIX", "")
	t.Setenv("HOME", home)

	path, err := Path(ShellFish)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".config", "fish", "completions", "skillmatrix.fish"), path)

	t.Setenv("HOMEBREW_PREFIX", "/opt/homebrew")
	path, err = Path(ShellBash)
	require.NoError(t, err)
	assert.Equal(t, "/opt/homebrew/etc/bash_completion.d/skillmatrix", path)

	_, err = Path(ShellPowershell)
	assert.ErrorIs(t, err, errors.ErrInvalidInput)
	_, err = Path("tcsh")
	assert.ErrorIs(t, err, errors.ErrInvalidInput)
}

func TestGenerate(t *testing.T) {
	root := &cobra.Command{Use: "skillmatrix"}
	for _, shell := range Shells() {
		var buf bytes.Buffer
		require.NoError(t, Generate(root, shell, &buf), shell)
		assert.NotEmpty(t, buf.String(), shell)
	}
}
