package llm_test

import (
	"errors"
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/trickle/pkg/llm"
)

var _ = Describe("DecodeError", func() {
	It("matches sentinels by kind through wrapping", func() {
		err := fmt.Errorf("streaming: %w", &llm.DecodeError{
			Kind:    llm.MalformedPayload,
			Payload: "{",
			Err:     errors.New("unexpected end of JSON input"),
		})

		Expect(errors.Is(err, llm.ErrMalformedPayload)).To(BeTrue())
		Expect(errors.Is(err, llm.ErrNoChoice)).To(BeFalse())
		Expect(errors.Is(err, llm.ErrInvalidEncoding)).To(BeFalse())
	})

	It("includes the offending payload and cause in the message", func() {
		err := &llm.DecodeError{
			Kind:    llm.MalformedPayload,
			Payload: "nope",
			Err:     errors.New("invalid character"),
		}

		Expect(err.Error()).To(Equal(`decode: malformed payload: couldn't parse "nope": invalid character`))
	})

	It("unwraps to its cause", func() {
		cause := errors.New("bad byte")
		err := &llm.DecodeError{Kind: llm.InvalidEncoding, Err: cause}

		Expect(errors.Is(err, cause)).To(BeTrue())
	})

	It("renders bare kinds", func() {
		Expect(llm.ErrNoChoice.Error()).To(Equal("decode: no choice"))
		Expect(llm.DecodeErrorKind(0).String()).To(Equal("unknown"))
	})
})

var _ = Describe("NewStreamingRequest", func() {
	It("builds a single user turn with streaming enabled", func() {
		req := llm.NewStreamingRequest("gpt-3.5-turbo", "picnic?")

		Expect(req.Model).To(Equal("gpt-3.5-turbo"))
		Expect(req.Stream).NotTo(BeNil())
		Expect(*req.Stream).To(BeTrue())
		Expect(req.Messages).To(HaveLen(1))
		Expect(req.Messages[0].Role).To(Equal("user"))
		Expect(req.Messages[0].GetText()).To(Equal("picnic?"))
	})
})
