package chat

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// maxExcerpt bounds the response body kept on a StatusError.
const maxExcerpt = 512

var (
	ErrMissingEndpoint = errors.New("chat: endpoint is required")
	ErrMissingModel    = errors.New("chat: model is required")
	ErrMissingAPIKey   = errors.New("chat: API key is required")
)

// StatusError reports a non-2xx response from the completions endpoint.
type StatusError struct {
	StatusCode int
	RequestID  string

	// Excerpt is the start of the response body, at most maxExcerpt bytes.
	Excerpt string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("endpoint returned %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	if body := strings.TrimSpace(e.Excerpt); body != "" {
		msg += ": " + body
	}
	return msg
}

// IsAuth reports whether the endpoint rejected the credentials.
func (e *StatusError) IsAuth() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}
