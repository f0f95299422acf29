package credentials

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// ErrNoAPIKey is returned by Resolve when no source yields a key.
var ErrNoAPIKey = errors.New("no API key configured")

// Source names where a resolved API key came from.
type Source string

const (
	SourceFlag Source = "flag"
	SourceEnv  Source = "env"
	SourceFile Source = "credentials"
)

// Resolver finds the API key for a provider. Precedence is:
//  1. Explicit flag value
//  2. Provider environment variable, after loading any DotEnvFiles
//  3. credentials.toml
type Resolver struct {
	Manager *Manager

	// DotEnvFiles are loaded into the process environment before the
	// env lookup. Missing files are ignored; existing variables are
	// never overwritten.
	DotEnvFiles []string
}

// Resolve returns the API key for provider and the source it came from.
func (r *Resolver) Resolve(provider, flagValue string) (string, Source, error) {
	if flagValue != "" {
		return flagValue, SourceFlag, nil
	}

	if envVar := EnvVarForProvider(provider); envVar != "" {
		if err := r.loadDotEnv(); err != nil {
			return "", "", err
		}
		if key := os.Getenv(envVar); key != "" {
			return key, SourceEnv, nil
		}
	}

	if r.Manager != nil {
		key, err := r.Manager.GetKey(provider)
		if err != nil {
			return "", "", err
		}
		if key != "" {
			return key, SourceFile, nil
		}
	}

	return "", "", fmt.Errorf("%w for provider %q", ErrNoAPIKey, provider)
}

func (r *Resolver) loadDotEnv() error {
	for _, path := range r.DotEnvFiles {
		_, err := os.Stat(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return fmt.Errorf("checking %s: %w", path, err)
		}
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("loading %s: %w", path, err)
		}
	}
	return nil
}
