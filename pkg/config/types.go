package config

import (
	"fmt"
	"strconv"
	"time"
)

// Config represents the persistent trickle configuration stored as
// config.toml in the .trickle/ directory. The TOML layout uses sections for
// logical grouping.
type Config struct {
	Version int          `toml:"version"`
	Client  ClientConfig `toml:"client"`
	Render  RenderConfig `toml:"render"`
}

// ClientConfig holds the settings used to build the completion request.
// The API key is deliberately absent: it lives in credentials.toml or the
// environment.
type ClientConfig struct {
	Provider string `toml:"provider,omitempty"`
	Endpoint string `toml:"endpoint,omitempty"`
	Model    string `toml:"model,omitempty"`
	Timeout  string `toml:"timeout,omitempty"`
}

// RenderConfig holds console output settings.
type RenderConfig struct {
	Markdown bool   `toml:"markdown,omitempty"`
	RawDump  string `toml:"raw_dump,omitempty"`
}

// configKeyInfo maps a user-facing dotted key name to a getter and setter on *Config.
type configKeyInfo struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

// configKeys is the authoritative map of all supported config keys.
// Keys use dotted notation matching the TOML section structure.
var configKeys = map[string]configKeyInfo{
	"client.provider": {
		get: func(c *Config) string { return c.Client.Provider },
		set: func(c *Config, v string) error { c.Client.Provider = v; return nil },
	},
	"client.endpoint": {
		get: func(c *Config) string { return c.Client.Endpoint },
		set: func(c *Config, v string) error { c.Client.Endpoint = v; return nil },
	},
	"client.model": {
		get: func(c *Config) string { return c.Client.Model },
		set: func(c *Config, v string) error { c.Client.Model = v; return nil },
	},
	"client.timeout": {
		get: func(c *Config) string { return c.Client.Timeout },
		set: func(c *Config, v string) error {
			if _, err := ParseTimeout(v); err != nil {
				return err
			}
			c.Client.Timeout = v
			return nil
		},
	},
	"render.markdown": {
		get: func(c *Config) string { return strconv.FormatBool(c.Render.Markdown) },
		set: func(c *Config, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("invalid value for render.markdown: %w", err)
			}
			c.Render.Markdown = b
			return nil
		},
	},
	"render.raw_dump": {
		get: func(c *Config) string { return c.Render.RawDump },
		set: func(c *Config, v string) error { c.Render.RawDump = v; return nil },
	},
}

// ParseTimeout parses a client.timeout value. Empty or "0" disables the
// timeout.
func ParseTimeout(v string) (time.Duration, error) {
	if v == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid value for client.timeout: %w", err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid value for client.timeout: %s is negative", v)
	}
	return d, nil
}
