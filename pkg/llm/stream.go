package llm

import "time"

// StreamChunk represents a single decoded chunk in a streaming response.
// It is the provider-agnostic result of reducing one SSE payload.
type StreamChunk struct {
	// ID of the completion the chunk belongs to
	ID string `json:"id"`

	// Model that generated the chunk
	Model string `json:"model"`

	// Chunk timestamp
	CreatedAt time.Time `json:"created_at,omitzero"`

	// Content is the incremental text delta. Only meaningful when HasContent
	// is true.
	Content string `json:"content,omitempty"`

	// HasContent reports whether the delta carried a content field at all.
	// Role-only and terminal chunks leave it false.
	HasContent bool `json:"has_content"`

	// Index of the selected choice
	Index int `json:"index,omitempty"`

	// Stop reason (only present on the terminal chunk of a choice)
	StopReason string `json:"stop_reason,omitempty"`
}
