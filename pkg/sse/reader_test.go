package sse_test

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing/iotest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/trickle/pkg/llm"
	"github.com/papercomputeco/trickle/pkg/sse"
)

// drain collects every event until exhaustion or error.
func drain(r *sse.TeeReader) ([]string, error) {
	var out []string
	for {
		ev, err := r.Next()
		if err != nil {
			return out, err
		}
		if ev == nil {
			return out, nil
		}
		out = append(out, ev.Data)
	}
}

var _ = Describe("TeeReader", func() {
	var dst *bytes.Buffer

	BeforeEach(func() {
		dst = &bytes.Buffer{}
	})

	Describe("Next", func() {
		It("parses OpenAI streaming chunks", func() {
			input := "data: {\"id\":\"chatcmpl-1\",\"choices\":[{\"delta\":{\"content\":\"Hello\"}}]}\n\n" +
				"data: {\"id\":\"chatcmpl-1\",\"choices\":[{\"delta\":{\"content\":\" world\"}}]}\n\n" +
				"data: [DONE]\n\n"
			r := sse.NewTeeReader(strings.NewReader(input), dst)

			ev1, err := r.Next()
			Expect(err).NotTo(HaveOccurred())
			Expect(ev1.Data).To(Equal("{\"id\":\"chatcmpl-1\",\"choices\":[{\"delta\":{\"content\":\"Hello\"}}]}"))

			ev2, err := r.Next()
			Expect(err).NotTo(HaveOccurred())
			Expect(ev2.Data).To(ContainSubstring(" world"))

			ev3, err := r.Next()
			Expect(err).NotTo(HaveOccurred())
			Expect(ev3.Done()).To(BeTrue())

			ev4, err := r.Next()
			Expect(err).NotTo(HaveOccurred())
			Expect(ev4).To(BeNil())
		})

		It("returns nil on empty input", func() {
			r := sse.NewReader(strings.NewReader(""))

			ev, err := r.Next()
			Expect(err).NotTo(HaveOccurred())
			Expect(ev).To(BeNil())
		})

		It("yields an event when the stream ends without a trailing blank line", func() {
			r := sse.NewReader(strings.NewReader("data: unterminated"))

			events, err := drain(r)
			Expect(err).NotTo(HaveOccurred())
			Expect(events).To(Equal([]string{"unterminated"}))
		})

		It("handles one byte per read", func() {
			input := "data: first\n\n: ping\n\ndata: second\n\n"
			r := sse.NewReader(iotest.OneByteReader(strings.NewReader(input)))

			events, err := drain(r)
			Expect(err).NotTo(HaveOccurred())
			Expect(events).To(Equal([]string{"first", "second"}))
		})

		It("handles data arriving together with io.EOF", func() {
			r := sse.NewReader(iotest.DataErrReader(strings.NewReader("data: a\n\ndata: b")))

			events, err := drain(r)
			Expect(err).NotTo(HaveOccurred())
			Expect(events).To(Equal([]string{"a", "b"}))
		})
	})

	Describe("errors", func() {
		It("returns transport errors unmodified after earlier events", func() {
			boom := errors.New("connection reset")
			src := io.MultiReader(strings.NewReader("data: before\n\n"), iotest.ErrReader(boom))
			r := sse.NewReader(src)

			ev, err := r.Next()
			Expect(err).NotTo(HaveOccurred())
			Expect(ev.Data).To(Equal("before"))

			_, err = r.Next()
			Expect(err).To(BeIdenticalTo(boom))

			_, err = r.Next()
			Expect(err).To(BeIdenticalTo(boom))
		})

		It("fails with an encoding error on invalid UTF-8", func() {
			r := sse.NewReader(strings.NewReader("data: \xff\n\n"))

			_, err := r.Next()
			Expect(err).To(MatchError(llm.ErrInvalidEncoding))

			var decodeErr *llm.DecodeError
			Expect(errors.As(err, &decodeErr)).To(BeTrue())
			Expect(decodeErr.Kind).To(Equal(llm.InvalidEncoding))
		})

		It("surfaces destination write failures", func() {
			r := sse.NewTeeReader(strings.NewReader("data: x\n\n"), failingWriter{})

			_, err := r.Next()
			Expect(err).To(MatchError("disk full"))
		})
	})

	Describe("verbatim byte forwarding", func() {
		It("forwards all bytes including comments and delimiters to dst", func() {
			input := ": comment\n\ndata: {\"choices\":[{\"delta\":{\"content\":\"Hi\"}}]}\n\ndata: [DONE]\n\n"
			r := sse.NewTeeReader(strings.NewReader(input), dst)

			_, err := drain(r)
			Expect(err).NotTo(HaveOccurred())
			Expect(dst.String()).To(Equal(input))
		})
	})
})

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}
