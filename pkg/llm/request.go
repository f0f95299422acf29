package llm

// ChatRequest represents a provider-agnostic chat completion request.
// Providers marshal it into their own wire format.
type ChatRequest struct {
	// Model name (e.g., "gpt-3.5-turbo", "gpt-4o")
	Model string `json:"model"`

	// Conversation messages
	Messages []Message `json:"messages"`

	// Whether to stream the response
	Stream *bool `json:"stream,omitempty"`

	// Generation parameters
	MaxTokens   *int     `json:"max_tokens,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
}

// NewStreamingRequest returns a single-turn streaming request for prompt.
func NewStreamingRequest(model, prompt string) *ChatRequest {
	stream := true
	return &ChatRequest{
		Model:    model,
		Messages: []Message{NewTextMessage("user", prompt)},
		Stream:   &stream,
	}
}
