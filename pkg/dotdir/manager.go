// Package dotdir locates the .trickle/ directory that holds config.toml and
// credentials.toml.
package dotdir

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	dirName = ".trickle"

	// EnvDir names a directory used when no override is given.
	EnvDir = "TRICKLE_CONFIG_DIR"

	// The directory holds API keys, so only the owner may list it.
	dirPerm = 0o700
)

type Manager struct{}

func NewManager() *Manager {
	return &Manager{}
}

// Target resolves the absolute .trickle/ directory, creating it if needed.
// The first match wins:
//  1. overrideDir (the --config-dir flag)
//  2. $TRICKLE_CONFIG_DIR
//  3. ./.trickle/ when it already exists
//  4. ~/.trickle/
func (m *Manager) Target(overrideDir string) (string, error) {
	dir, err := m.resolve(overrideDir)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return "", fmt.Errorf("creating %s: %w", dir, err)
	}

	return filepath.Abs(dir)
}

// File returns the path of name inside the resolved directory.
func (m *Manager) File(overrideDir, name string) (string, error) {
	dir, err := m.Target(overrideDir)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

func (m *Manager) resolve(overrideDir string) (string, error) {
	if overrideDir != "" {
		return overrideDir, nil
	}
	if env := os.Getenv(EnvDir); env != "" {
		return env, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting current directory: %w", err)
	}
	if info, err := os.Stat(filepath.Join(cwd, dirName)); err == nil && info.IsDir() {
		return filepath.Join(cwd, dirName), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, dirName), nil
}
