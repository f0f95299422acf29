package llm

import (
	"fmt"
)

// DecodeErrorKind classifies a stream decoding failure.
type DecodeErrorKind int

const (
	// InvalidEncoding means received bytes were not valid UTF-8 text.
	InvalidEncoding DecodeErrorKind = iota + 1

	// MalformedPayload means a frame payload did not parse as a completion chunk.
	MalformedPayload

	// NoChoice means a completion chunk carried an empty choices list.
	NoChoice
)

func (k DecodeErrorKind) String() string {
	switch k {
	case InvalidEncoding:
		return "invalid encoding"
	case MalformedPayload:
		return "malformed payload"
	case NoChoice:
		return "no choice"
	default:
		return "unknown"
	}
}

// DecodeError is returned for every failure raised while turning stream
// bytes into text fragments. All kinds are terminal for the stream.
type DecodeError struct {
	Kind DecodeErrorKind

	// Payload is the offending raw frame payload (MalformedPayload only).
	Payload string

	// Err is the underlying cause, if any.
	Err error
}

// Sentinel values for errors.Is checks. They match any DecodeError of the
// same Kind regardless of payload or cause.
var (
	ErrInvalidEncoding  = &DecodeError{Kind: InvalidEncoding}
	ErrMalformedPayload = &DecodeError{Kind: MalformedPayload}
	ErrNoChoice         = &DecodeError{Kind: NoChoice}
)

func (e *DecodeError) Error() string {
	msg := "decode: " + e.Kind.String()
	if e.Payload != "" {
		msg += fmt.Sprintf(": couldn't parse %q", e.Payload)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Is reports whether target is a DecodeError of the same Kind.
func (e *DecodeError) Is(target error) bool {
	t, ok := target.(*DecodeError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}
