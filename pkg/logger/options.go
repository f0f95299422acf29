package logger

import (
	"io"
	"log/slog"
)

// format selects the handler New builds.
type format int

const (
	formatText format = iota
	formatJSON
	formatPretty
)

// Option configures a logger built by New.
type Option func(*config)

// WithDebug lowers the level to Debug.
func WithDebug(debug bool) Option {
	return func(c *config) {
		c.level = slog.LevelInfo
		if debug {
			c.level = slog.LevelDebug
		}
	}
}

// WithPretty selects the colorized charmbracelet/log handler used on the
// terminal. It wins over WithJSON.
func WithPretty(pretty bool) Option {
	return func(c *config) {
		if pretty {
			c.format = formatPretty
		} else if c.format == formatPretty {
			c.format = formatText
		}
	}
}

// WithJSON selects one JSON object per record, as written by --log-file.
func WithJSON(json bool) Option {
	return func(c *config) {
		switch {
		case json && c.format != formatPretty:
			c.format = formatJSON
		case !json && c.format == formatJSON:
			c.format = formatText
		}
	}
}

// WithWriter sends records to w instead of os.Stderr.
func WithWriter(w io.Writer) Option {
	return WithWriters(w)
}

// WithWriters sends every record to each of ws.
func WithWriters(ws ...io.Writer) Option {
	return func(c *config) {
		c.writers = ws
	}
}

// WithSource adds the caller's file:line to each record.
func WithSource(source bool) Option {
	return func(c *config) {
		c.source = source
	}
}
