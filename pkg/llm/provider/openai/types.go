package openai

// openaiRequest represents OpenAI's chat completion request format.
type openaiRequest struct {
	Model       string          `json:"model"`
	Messages    []openaiMessage `json:"messages"`
	MaxTokens   *int            `json:"max_tokens,omitempty"`
	Temperature *float64        `json:"temperature,omitempty"`
	Stream      bool            `json:"stream"`
}

// openaiMessage represents a text message in OpenAI's format.
type openaiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// openaiStreamChunk is one "chat.completion.chunk" object from a streaming
// response. Pointer fields distinguish an absent key from its zero value so
// the validator can reject payloads missing required fields.
type openaiStreamChunk struct {
	ID      *string              `json:"id" validate:"required"`
	Object  *string              `json:"object" validate:"required"`
	Created *int64               `json:"created" validate:"required"`
	Model   *string              `json:"model" validate:"required"`
	Choices []openaiStreamChoice `json:"choices" validate:"required,dive"`
}

type openaiStreamChoice struct {
	Index        *int         `json:"index" validate:"required"`
	Delta        *openaiDelta `json:"delta" validate:"required"`
	FinishReason *string      `json:"finish_reason"`
}

// openaiDelta holds the incremental message fields. Content is nil on the
// role-only first chunk and on the terminal chunk.
type openaiDelta struct {
	Role    string  `json:"role,omitempty"`
	Content *string `json:"content"`
}
