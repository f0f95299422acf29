package stream

import (
	"io"
	"log/slog"

	"github.com/papercomputeco/trickle/pkg/logger"
)

// Option configures Decode and Fragments.
type Option func(*options)

type options struct {
	tee    io.Writer
	logger *slog.Logger
}

func newOptions(opts []Option) *options {
	o := &options{logger: logger.Nop()}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithRawTee copies every raw byte read from the body to w.
func WithRawTee(w io.Writer) Option {
	return func(o *options) {
		o.tee = w
	}
}

// WithLogger sets the logger used for stream diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}
