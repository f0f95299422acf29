// Package stream drives a streamed chat completion from response body to
// text fragments. It pulls frames from an sse.TeeReader, reduces each payload
// with a provider Parser and hands every content delta to a Sink, stopping at
// the "[DONE]" sentinel.
package stream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"

	"github.com/papercomputeco/trickle/pkg/llm"
	"github.com/papercomputeco/trickle/pkg/sse"
)

// Parser reduces one SSE payload into a stream chunk.
// provider.Provider satisfies it.
type Parser interface {
	ParseStreamChunk(payload []byte) (*llm.StreamChunk, error)
}

// Result summarizes a decoded stream.
type Result struct {
	// Frames counts payload-bearing frames read, including the sentinel.
	Frames int

	// Fragments counts fragments handed to the sink.
	Fragments int

	// ID and Model are taken from the most recent chunk.
	ID    string
	Model string

	// FinishReason is the last non-empty finish reason observed. It is
	// informational only and never ends the stream.
	FinishReason string

	// Done reports whether the "[DONE]" sentinel was observed. It is false
	// when the transport closed first.
	Done bool
}

func (r *Result) observe(chunk *llm.StreamChunk) {
	r.ID = chunk.ID
	r.Model = chunk.Model
	if chunk.StopReason != "" {
		r.FinishReason = chunk.StopReason
	}
}

// Decode reads body until the sentinel, the end of the transport or the
// first error, emitting each content delta to sink in wire order.
//
// No error is recovered: transport errors are returned unmodified, decode
// failures as *llm.DecodeError, and sink failures wrapped. Fragments emitted
// before a failure stay emitted. The returned Result is never nil.
func Decode(ctx context.Context, body io.Reader, parser Parser, sink Sink, opts ...Option) (*Result, error) {
	o := newOptions(opts)
	r := sse.NewTeeReader(body, o.tee)
	res := &Result{}

	for {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		ev, err := r.Next()
		if err != nil {
			return res, err
		}
		if ev == nil {
			o.logger.Debug("stream closed without sentinel", "frames", res.Frames)
			return res, nil
		}

		res.Frames++
		if ev.Done() {
			res.Done = true
			o.logger.Debug("stream done",
				"frames", res.Frames,
				"fragments", res.Fragments,
				"finish_reason", res.FinishReason,
			)
			return res, nil
		}

		chunk, err := parser.ParseStreamChunk([]byte(ev.Data))
		if err != nil {
			return res, err
		}
		res.observe(chunk)

		if chunk.StopReason != "" {
			o.logger.Debug("choice finished", "index", chunk.Index, "finish_reason", chunk.StopReason)
		}

		if !chunk.HasContent {
			continue
		}

		if err := sink.Emit(chunk.Content); err != nil {
			return res, fmt.Errorf("emitting fragment: %w", err)
		}
		res.Fragments++
	}
}

// errStopped signals that a Fragments consumer broke out of its loop.
var errStopped = errors.New("fragment iteration stopped")

// Fragments returns an iterator over the text fragments of body.
// Iteration ends at the sentinel or the end of the transport. On failure a
// single ("", err) pair is yielded and iteration stops.
func Fragments(ctx context.Context, body io.Reader, parser Parser, opts ...Option) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		sink := SinkFunc(func(fragment string) error {
			if !yield(fragment, nil) {
				return errStopped
			}
			return nil
		})

		_, err := Decode(ctx, body, parser, sink, opts...)
		if err != nil && !errors.Is(err, errStopped) {
			yield("", err)
		}
	}
}
