// Package chat sends a single streaming chat completion request to an
// OpenAI-compatible endpoint and decodes the response with pkg/stream.
package chat

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/papercomputeco/trickle/pkg/llm"
	"github.com/papercomputeco/trickle/pkg/llm/provider"
	"github.com/papercomputeco/trickle/pkg/logger"
	"github.com/papercomputeco/trickle/pkg/stream"
	"github.com/papercomputeco/trickle/pkg/utils"
)

// Config is the explicit configuration for a Client. Nothing is read from
// the environment.
type Config struct {
	Endpoint string
	APIKey   string
	Model    string

	// Timeout bounds the whole request, including the streamed body.
	// Zero means no timeout.
	Timeout time.Duration
}

func (c Config) validate() error {
	switch {
	case c.Endpoint == "":
		return ErrMissingEndpoint
	case c.Model == "":
		return ErrMissingModel
	case c.APIKey == "":
		return ErrMissingAPIKey
	}
	return nil
}

// Client streams chat completions.
type Client struct {
	cfg      Config
	http     *http.Client
	provider provider.Provider
	logger   *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client. Its Timeout takes
// precedence over Config.Timeout.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithLogger sets the client logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient validates cfg and returns a Client.
func NewClient(cfg Config, opts ...Option) (*Client, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	p, err := provider.New(provider.OpenAI)
	if err != nil {
		return nil, err
	}

	c := &Client{
		cfg:      cfg,
		provider: p,
		logger:   logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: cfg.Timeout}
	}

	return c, nil
}

// Response is an accepted streaming response whose body has not been read.
type Response struct {
	RequestID string
	Status    int

	body     io.ReadCloser
	provider provider.Provider
	logger   *slog.Logger
}

// Decode streams the response body into sink. It closes the body.
func (r *Response) Decode(ctx context.Context, sink stream.Sink, opts ...stream.Option) (*stream.Result, error) {
	defer r.body.Close()

	opts = append([]stream.Option{stream.WithLogger(r.logger)}, opts...)
	return stream.Decode(ctx, r.body, r.provider, sink, opts...)
}

// Close releases the body without decoding it.
func (r *Response) Close() error {
	return r.body.Close()
}

// Open sends prompt and returns once response headers arrive. Non-2xx
// responses are returned as *StatusError.
func (c *Client) Open(ctx context.Context, prompt string) (*Response, error) {
	body, err := c.provider.MarshalRequest(llm.NewStreamingRequest(c.cfg.Model, prompt))
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("X-Request-Id", requestID)

	log := c.logger.With("request_id", requestID)
	log.Debug("sending chat request",
		"endpoint", c.cfg.Endpoint,
		"model", c.cfg.Model,
		"prompt", utils.Truncate(prompt, 64),
	)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}

	log.Debug("response received",
		"status", resp.StatusCode,
		"content_type", resp.Header.Get("Content-Type"),
		"latency", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, maxExcerpt))
		return nil, &StatusError{
			StatusCode: resp.StatusCode,
			RequestID:  requestID,
			Excerpt:    string(excerpt),
		}
	}

	return &Response{
		RequestID: requestID,
		Status:    resp.StatusCode,
		body:      resp.Body,
		provider:  c.provider,
		logger:    log,
	}, nil
}

// Stream sends prompt and decodes the streamed reply into sink.
func (c *Client) Stream(ctx context.Context, prompt string, sink stream.Sink, opts ...stream.Option) (*stream.Result, error) {
	resp, err := c.Open(ctx, prompt)
	if err != nil {
		return nil, err
	}
	return resp.Decode(ctx, sink, opts...)
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.cfg.Model
}
