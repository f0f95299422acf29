package sse

import (
	"io"
)

// readBufferSize bounds a single read from the source.
const readBufferSize = 32 * 1024

// TeeReader reads SSE events from a source io.Reader while simultaneously
// writing all raw bytes verbatim to a destination io.Writer.
//
// ┌──────────────────┐
// │ source io.Reader │
// └──────────────────┘
// │
// ▼
// ┌──────────────────┐   ┌───────────────────────┐
// │ TeeReader.Next() │──▶│ destination io.Writer │
// └──────────────────┘   └───────────────────────┘
// │
// ▼
// ┌──────────────────┐
// │      Event       │
// └──────────────────┘
//
// Each source read is handed to a Splitter as one byte chunk, so events are
// produced as soon as their frame delimiter arrives.
type TeeReader struct {
	src  io.Reader
	dest io.Writer
	buf  []byte

	splitter Splitter
	pending  []Event

	// err is sticky: once set, Next returns it after draining pending.
	err error
	eof bool
}

// NewReader returns a TeeReader that parses SSE events from src without
// forwarding the raw bytes anywhere.
func NewReader(src io.Reader) *TeeReader {
	return NewTeeReader(src, nil)
}

// NewTeeReader returns a TeeReader that parses SSE events from the src
// io.Reader and writes all raw bytes through to dest. A nil dest disables
// the tee.
func NewTeeReader(src io.Reader, dest io.Writer) *TeeReader {
	return &TeeReader{
		src:  src,
		dest: dest,
		buf:  make([]byte, readBufferSize),
	}
}

// Next returns the next payload-bearing event. It blocks until a complete
// frame is available. Next returns nil, nil when the source is exhausted.
//
// Read errors from the source are returned unmodified, after any events
// decoded from bytes received before the failure.
func (r *TeeReader) Next() (*Event, error) {
	for {
		if len(r.pending) > 0 {
			ev := r.pending[0]
			r.pending = r.pending[1:]
			return &ev, nil
		}

		if r.err != nil {
			return nil, r.err
		}
		if r.eof {
			return nil, nil
		}

		r.fill()
	}
}

// fill performs one read from the source and feeds the result to the splitter.
func (r *TeeReader) fill() {
	n, err := r.src.Read(r.buf)
	if n > 0 {
		if r.dest != nil {
			if _, werr := r.dest.Write(r.buf[:n]); werr != nil {
				r.err = werr
				return
			}
		}

		events, ferr := r.splitter.Feed(r.buf[:n])
		r.pending = append(r.pending, events...)
		if ferr != nil {
			r.err = ferr
			return
		}
	}

	switch {
	case err == io.EOF:
		events, ferr := r.splitter.Flush()
		r.pending = append(r.pending, events...)
		r.err = ferr
		r.eof = true
	case err != nil:
		r.err = err
	}
}
