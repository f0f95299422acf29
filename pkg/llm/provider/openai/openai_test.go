package openai_test

import (
	"encoding/json"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/trickle/pkg/llm"
	"github.com/papercomputeco/trickle/pkg/llm/provider"
	"github.com/papercomputeco/trickle/pkg/llm/provider/openai"
)

var _ = Describe("OpenAI Provider", func() {
	var p provider.Provider

	BeforeEach(func() {
		p = openai.New()
	})

	Describe("Name", func() {
		It("returns 'openai'", func() {
			Expect(p.Name()).To(Equal("openai"))
		})
	})

	Describe("MarshalRequest", func() {
		It("encodes a streaming single-turn request", func() {
			body, err := p.MarshalRequest(llm.NewStreamingRequest("gpt-3.5-turbo", "Hello"))
			Expect(err).NotTo(HaveOccurred())

			var decoded map[string]any
			Expect(json.Unmarshal(body, &decoded)).To(Succeed())
			Expect(decoded["model"]).To(Equal("gpt-3.5-turbo"))
			Expect(decoded["stream"]).To(BeTrue())
			Expect(decoded["messages"]).To(Equal([]any{
				map[string]any{"role": "user", "content": "Hello"},
			}))
			Expect(decoded).NotTo(HaveKey("max_tokens"))
		})

		It("includes optional generation parameters", func() {
			req := llm.NewStreamingRequest("gpt-4o", "Hi")
			maxTokens := 64
			temp := 0.2
			req.MaxTokens = &maxTokens
			req.Temperature = &temp

			body, err := p.MarshalRequest(req)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(body)).To(ContainSubstring(`"max_tokens":64`))
			Expect(string(body)).To(ContainSubstring(`"temperature":0.2`))
		})

		It("rejects a nil request", func() {
			_, err := p.MarshalRequest(nil)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("ParseStreamChunk", func() {
		Context("with well-formed chunks", func() {
			It("extracts the content delta of the first choice", func() {
				payload := []byte(`{"id":"1","object":"chat.completion.chunk","created":1700000000,"model":"m","choices":[{"index":0,"delta":{"content":"Hi"},"finish_reason":null}]}`)

				chunk, err := p.ParseStreamChunk(payload)
				Expect(err).NotTo(HaveOccurred())
				Expect(chunk.HasContent).To(BeTrue())
				Expect(chunk.Content).To(Equal("Hi"))
				Expect(chunk.ID).To(Equal("1"))
				Expect(chunk.Model).To(Equal("m"))
				Expect(chunk.CreatedAt.Unix()).To(Equal(int64(1700000000)))
				Expect(chunk.StopReason).To(BeEmpty())
			})

			It("accepts zero-valued created and index fields", func() {
				payload := []byte(`{"id":"1","object":"x","created":0,"model":"m","choices":[{"index":0,"delta":{"content":" there"}}]}`)

				chunk, err := p.ParseStreamChunk(payload)
				Expect(err).NotTo(HaveOccurred())
				Expect(chunk.Content).To(Equal(" there"))
				Expect(chunk.Index).To(Equal(0))
			})

			It("yields no content for a role-only delta", func() {
				payload := []byte(`{"id":"1","object":"x","created":0,"model":"m","choices":[{"index":0,"delta":{"role":"assistant"},"finish_reason":null}]}`)

				chunk, err := p.ParseStreamChunk(payload)
				Expect(err).NotTo(HaveOccurred())
				Expect(chunk.HasContent).To(BeFalse())
				Expect(chunk.Content).To(BeEmpty())
			})

			It("treats null content as absent", func() {
				payload := []byte(`{"id":"1","object":"x","created":0,"model":"m","choices":[{"index":0,"delta":{"content":null}}]}`)

				chunk, err := p.ParseStreamChunk(payload)
				Expect(err).NotTo(HaveOccurred())
				Expect(chunk.HasContent).To(BeFalse())
			})

			It("keeps an explicitly empty content string", func() {
				payload := []byte(`{"id":"1","object":"x","created":0,"model":"m","choices":[{"index":0,"delta":{"content":""}}]}`)

				chunk, err := p.ParseStreamChunk(payload)
				Expect(err).NotTo(HaveOccurred())
				Expect(chunk.HasContent).To(BeTrue())
				Expect(chunk.Content).To(BeEmpty())
			})

			It("surfaces the finish reason of the terminal chunk", func() {
				payload := []byte(`{"id":"1","object":"x","created":0,"model":"m","choices":[{"index":0,"delta":{},"finish_reason":"stop"}]}`)

				chunk, err := p.ParseStreamChunk(payload)
				Expect(err).NotTo(HaveOccurred())
				Expect(chunk.HasContent).To(BeFalse())
				Expect(chunk.StopReason).To(Equal("stop"))
			})

			It("selects only the first choice", func() {
				payload := []byte(`{"id":"1","object":"x","created":0,"model":"m","choices":[{"index":0,"delta":{"content":"a"}},{"index":1,"delta":{"content":"b"}}]}`)

				chunk, err := p.ParseStreamChunk(payload)
				Expect(err).NotTo(HaveOccurred())
				Expect(chunk.Content).To(Equal("a"))
			})

			It("ignores unknown fields", func() {
				payload := []byte(`{"id":"1","object":"x","created":0,"model":"m","system_fingerprint":"fp","choices":[{"index":0,"delta":{"content":"a"},"logprobs":null}]}`)

				_, err := p.ParseStreamChunk(payload)
				Expect(err).NotTo(HaveOccurred())
			})
		})

		Context("with malformed payloads", func() {
			DescribeTable("fails with a MalformedPayload error carrying the raw text",
				func(payload string) {
					chunk, err := p.ParseStreamChunk([]byte(payload))
					Expect(chunk).To(BeNil())
					Expect(err).To(MatchError(llm.ErrMalformedPayload))

					var decodeErr *llm.DecodeError
					Expect(errors.As(err, &decodeErr)).To(BeTrue())
					Expect(decodeErr.Payload).To(Equal(payload))
					Expect(decodeErr.Error()).To(ContainSubstring("couldn't parse"))
				},
				Entry("invalid JSON", `{"id":`),
				Entry("not an object", `[1,2,3]`),
				Entry("missing id", `{"object":"x","created":0,"model":"m","choices":[{"index":0,"delta":{}}]}`),
				Entry("missing object", `{"id":"1","created":0,"model":"m","choices":[{"index":0,"delta":{}}]}`),
				Entry("missing created", `{"id":"1","object":"x","model":"m","choices":[{"index":0,"delta":{}}]}`),
				Entry("missing model", `{"id":"1","object":"x","created":0,"choices":[{"index":0,"delta":{}}]}`),
				Entry("missing choices", `{"id":"1","object":"x","created":0,"model":"m"}`),
				Entry("null choices", `{"id":"1","object":"x","created":0,"model":"m","choices":null}`),
				Entry("choice missing index", `{"id":"1","object":"x","created":0,"model":"m","choices":[{"delta":{}}]}`),
				Entry("choice missing delta", `{"id":"1","object":"x","created":0,"model":"m","choices":[{"index":0}]}`),
				Entry("created of the wrong type", `{"id":"1","object":"x","created":"now","model":"m","choices":[{"index":0,"delta":{}}]}`),
			)
		})

		Context("with an empty choices list", func() {
			It("fails with a NoChoice error", func() {
				payload := []byte(`{"id":"1","object":"x","created":0,"model":"m","choices":[]}`)

				chunk, err := p.ParseStreamChunk(payload)
				Expect(chunk).To(BeNil())
				Expect(err).To(MatchError(llm.ErrNoChoice))
				Expect(err).NotTo(MatchError(llm.ErrMalformedPayload))
			})
		})
	})
})
