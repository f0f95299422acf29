package stream

import (
	"io"
	"strings"
)

// Sink receives text fragments in the order they are decoded.
type Sink interface {
	Emit(fragment string) error
}

// SinkFunc adapts a function to a Sink.
type SinkFunc func(fragment string) error

func (f SinkFunc) Emit(fragment string) error {
	return f(fragment)
}

// flusher is implemented by buffered writers such as *bufio.Writer.
type flusher interface {
	Flush() error
}

// WriterSink writes fragments to an io.Writer, flushing after each one when
// the writer is buffered so text appears as it arrives.
type WriterSink struct {
	w io.Writer
}

func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

func (s *WriterSink) Emit(fragment string) error {
	if _, err := io.WriteString(s.w, fragment); err != nil {
		return err
	}
	if f, ok := s.w.(flusher); ok {
		return f.Flush()
	}
	return nil
}

// Transcript is a Sink that keeps the concatenation of every fragment.
type Transcript struct {
	b strings.Builder
}

func (t *Transcript) Emit(fragment string) error {
	t.b.WriteString(fragment)
	return nil
}

// String returns the text received so far.
func (t *Transcript) String() string {
	return t.b.String()
}

// Tee returns a Sink that emits each fragment to every sink in order,
// stopping at the first error.
func Tee(sinks ...Sink) Sink {
	return SinkFunc(func(fragment string) error {
		for _, s := range sinks {
			if err := s.Emit(fragment); err != nil {
				return err
			}
		}
		return nil
	})
}
