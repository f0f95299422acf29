package provider

import (
	"github.com/papercomputeco/trickle/pkg/llm"
)

// Provider defines the interface for an LLM API wire format.
// Each provider implementation knows how to encode a streaming request and
// decode the payloads of its streamed response.
type Provider interface {
	// Name returns the canonical provider name (e.g., "openai").
	Name() string

	// MarshalRequest encodes a provider-agnostic request as the provider's
	// JSON request body.
	MarshalRequest(req *llm.ChatRequest) ([]byte, error)

	// ParseStreamChunk converts a single streaming payload into the internal
	// format. Failures are *llm.DecodeError values.
	ParseStreamChunk(payload []byte) (*llm.StreamChunk, error)
}
