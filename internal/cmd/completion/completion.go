// Package completion installs and removes the shell completion scripts
// cobra generates for the CLI.
package completion

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/agentstation/skillmatrix/pkg/constants"
	"github.com/agentstation/skillmatrix/pkg/errors"
)

// Shell names.
const (
	ShellBash       = "bash"
	ShellZsh        = "zsh"
	ShellFish       = "fish"
	ShellPowershell = "powershell"
)

const binary = "skillmatrix"

type shell struct {
	generate func(root *cobra.Command, w io.Writer) error
	// brew is the script location under a Homebrew prefix, home the
	// fallback under $HOME. A nil home means install is not supported.
	brew []string
	home []string
}

var shells = map[string]shell{
	ShellBash: {
		generate: func(root *cobra.Command, w io.Writer) error { return root.GenBashCompletionV2(w, true) },
		brew:     []string{"etc", "bash_completion.d", binary},
		home:     []string{".bash_completion.d", binary},
	},
	ShellZsh: {
		generate: func(root *cobra.Command, w io.Writer) error { return root.GenZshCompletion(w) },
		brew:     []string{"share", "zsh", "site-functions", "_" + binary},
		home:     []string{".zsh", "completions", "_" + binary},
	},
	ShellFish: {
		generate: func(root *cobra.Command, w io.Writer) error { return root.GenFishCompletion(w, true) },
		brew:     []string{"share", "fish", "vendor_completions.d", binary + ".fish"},
		home:     []string{".config", "fish", "completions", binary + ".fish"},
	},
	ShellPowershell: {
		generate: func(root *cobra.Command, w io.Writer) error { return root.GenPowerShellCompletionWithDesc(w) },
	},
}

// Shells lists the supported shells.
func Shells() []string {
	out := make([]string, 0, len(shells))
	for name := range shells {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Installable lists the shells Install can place a script for.
func Installable() []string {
	var out []string
	for _, name := range Shells() {
		if shells[name].home != nil {
			out = append(out, name)
		}
	}
	return out
}

func lookup(name string) (shell, error) {
	s, ok := shells[name]
	if !ok {
		return shell{}, &errors.ValidationError{Field: "shell", Value: name, Message: "unsupported shell"}
	}
	return s, nil
}

// Generate writes the completion script of root for the shell to w.
func Generate(root *cobra.Command, name string, w io.Writer) error {
	s, err := lookup(name)
	if err != nil {
		return err
	}
	return s.generate(root, w)
}

// Path returns where Install puts the script: under $HOMEBREW_PREFIX when
// set, otherwise under the home directory.
func Path(name string) (string, error) {
	s, err := lookup(name)
	if err != nil {
		return "", err
	}
	if s.home == nil {
		return "", &errors.ValidationError{Field: "shell", Value: name, Message: "install is not supported, redirect the script instead"}
	}
	if prefix := os.Getenv("HOMEBREW_PREFIX"); prefix != "" {
		return filepath.Join(append([]string{prefix}, s.brew...)...), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.WrapIO("resolve", "home directory", err)
	}
	return filepath.Join(append([]string{home}, s.home...)...), nil
}

// Install writes the script for the shell and returns its path.
func Install(root *cobra.Command, name string) (string, error) {
	path, err := Path(name)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), constants.DirPermissions); err != nil {
		return "", errors.WrapIO("create", filepath.Dir(path), err)
	}

	file, err := os.Create(path) // #nosec G304 - path is built from fixed segments
	if err != nil {
		return "", errors.WrapIO("create", path, err)
	}
	if err := Generate(root, name, file); err != nil {
		_ = file.Close()
		return "", fmt.Errorf("generate %s completion: %w", name, err)
	}
	if err := file.Close(); err != nil {
		return "", errors.WrapIO("close", path, err)
	}
	return path, nil
}

// Uninstall removes the script Install wrote and reports whether one was
// there.
func Uninstall(name string) (string, bool, error) {
	path, err := Path(name)
	if err != nil {
		return "", false, err
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) || (err == nil && info.IsDir()) {
		return path, false, nil
	}
	if err != nil {
		return path, false, errors.WrapIO("stat", path, err)
	}
	if err := os.Remove(path); err != nil {
		return path, false, errors.WrapIO("remove", path, err)
	}
	return path, true, nil
}
