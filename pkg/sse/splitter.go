package sse

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/papercomputeco/trickle/pkg/llm"
)

// Splitter accumulates byte chunks and cuts them into complete frames.
// The zero value is ready to use. A Splitter is not safe for concurrent use.
type Splitter struct {
	buf []byte
}

// Feed appends chunk to the pending bytes and returns the payload-bearing
// events of every frame completed by it, in wire order. Bytes after the last
// delimiter are retained for the next call.
//
// If a completed frame is not valid UTF-8, Feed returns the events decoded
// before it together with an error matching llm.ErrInvalidEncoding.
func (s *Splitter) Feed(chunk []byte) ([]Event, error) {
	s.buf = append(s.buf, chunk...)

	var events []Event
	consumed := 0
	for {
		i := bytes.Index(s.buf[consumed:], frameDelimiter)
		if i < 0 {
			break
		}

		frame := s.buf[consumed : consumed+i]
		consumed += i + len(frameDelimiter)

		ev, ok, err := parseFrame(frame)
		if err != nil {
			s.compact(consumed)
			return events, err
		}
		if ok {
			events = append(events, ev)
		}
	}

	s.compact(consumed)
	return events, nil
}

// Flush returns the event held in a trailing frame that never saw its
// delimiter, for streams that close without a final blank line.
// The splitter is empty afterwards.
func (s *Splitter) Flush() ([]Event, error) {
	rest := bytes.TrimRight(s.buf, "\r\n")
	s.buf = s.buf[:0]

	if len(rest) == 0 {
		return nil, nil
	}

	ev, ok, err := parseFrame(rest)
	if err != nil || !ok {
		return nil, err
	}
	return []Event{ev}, nil
}

// Buffered returns the number of bytes waiting for a frame delimiter.
func (s *Splitter) Buffered() int {
	return len(s.buf)
}

// compact drops the first n bytes, reusing the backing array.
func (s *Splitter) compact(n int) {
	if n == 0 {
		return
	}
	s.buf = append(s.buf[:0], s.buf[n:]...)
}

// parseFrame validates a raw frame and extracts its data payload.
// ok is false for frames without the data prefix.
func parseFrame(frame []byte) (Event, bool, error) {
	if !utf8.Valid(frame) {
		return Event{}, false, &llm.DecodeError{
			Kind: llm.InvalidEncoding,
			Err:  fmt.Errorf("frame of %d bytes is not valid UTF-8", len(frame)),
		}
	}

	data, ok := strings.CutPrefix(string(frame), DataPrefix)
	if !ok {
		return Event{}, false, nil
	}
	return Event{Data: data}, true, nil
}
