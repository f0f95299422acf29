// Package openai implements the OpenAI Chat Completions wire format.
package openai

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/papercomputeco/trickle/pkg/llm"
)

// validate is shared; validator caches struct metadata and is safe for
// concurrent use.
var validate = validator.New()

// provider implements the Provider interface for OpenAI's Chat Completions API.
type provider struct{}

func New() *provider { return &provider{} }

func (o *provider) Name() string {
	return "openai"
}

func (o *provider) MarshalRequest(req *llm.ChatRequest) ([]byte, error) {
	if req == nil {
		return nil, errors.New("nil chat request")
	}

	messages := make([]openaiMessage, 0, len(req.Messages))
	for _, msg := range req.Messages {
		messages = append(messages, openaiMessage{
			Role:    msg.Role,
			Content: msg.GetText(),
		})
	}

	return json.Marshal(openaiRequest{
		Model:       req.Model,
		Messages:    messages,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
		Stream:      req.Stream != nil && *req.Stream,
	})
}

// ParseStreamChunk reduces one "data: " payload to the delta of its first
// choice. A chunk without delta content is returned with HasContent false.
func (o *provider) ParseStreamChunk(payload []byte) (*llm.StreamChunk, error) {
	var chunk openaiStreamChunk
	if err := json.Unmarshal(payload, &chunk); err != nil {
		return nil, malformed(payload, err)
	}

	if err := validate.Struct(&chunk); err != nil {
		return nil, malformed(payload, err)
	}

	if len(chunk.Choices) == 0 {
		return nil, &llm.DecodeError{Kind: llm.NoChoice}
	}

	choice := chunk.Choices[0]
	result := &llm.StreamChunk{
		ID:        *chunk.ID,
		Model:     *chunk.Model,
		CreatedAt: time.Unix(*chunk.Created, 0),
		Index:     *choice.Index,
	}

	if choice.Delta.Content != nil {
		result.Content = *choice.Delta.Content
		result.HasContent = true
	}

	if choice.FinishReason != nil {
		result.StopReason = *choice.FinishReason
	}

	return result, nil
}

func malformed(payload []byte, cause error) error {
	return &llm.DecodeError{
		Kind:    llm.MalformedPayload,
		Payload: string(payload),
		Err:     cause,
	}
}
