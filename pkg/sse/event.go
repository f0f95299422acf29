// Package sse provides a minimal, purpose-built SSE (Server-Sent Events)
// frame splitter for chat-completion streams. It cuts an arbitrarily chunked
// byte stream into "\n\n"-delimited frames and keeps only the "data: "
// payloads, optionally teeing the raw bytes to a second writer.
//
// This package intentionally does NOT implement the full SSE field grammar:
// completion APIs emit exactly one "data: " line per frame, and any other
// frame (comments, keep-alives, event or id fields) is dropped.
//
// See the SSE specification:
// https://html.spec.whatwg.org/multipage/server-sent-events.html
package sse

const (
	// DataPrefix marks a payload-bearing frame.
	DataPrefix = "data: "

	// DoneSentinel is the payload signalling the normal end of a stream.
	DoneSentinel = "[DONE]"
)

// frameDelimiter separates frames on the wire.
var frameDelimiter = []byte("\n\n")

// Event represents a single payload-bearing SSE frame.
type Event struct {
	// Data is the frame text following the "data: " prefix.
	Data string
}

// Done reports whether the event is the end-of-stream sentinel.
func (e Event) Done() bool {
	return e.Data == DoneSentinel
}
