package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/trickle/pkg/logger"
)

// decodeLine parses a single JSON log record.
func decodeLine(buf *bytes.Buffer) map[string]any {
	var parsed map[string]any
	ExpectWithOffset(1, json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &parsed)).To(Succeed())
	return parsed
}

var _ = Describe("Logger", func() {
	Describe("New", func() {
		It("writes text records with attributes", func() {
			var buf bytes.Buffer
			l := logger.New(logger.WithWriter(&buf))
			l.Info("request sent", "status", 200)

			Expect(buf.String()).To(ContainSubstring("request sent"))
			Expect(buf.String()).To(ContainSubstring("status=200"))
		})

		It("filters debug unless enabled", func() {
			var quiet, loud bytes.Buffer
			logger.New(logger.WithWriter(&quiet)).Debug("hidden")
			logger.New(logger.WithWriter(&loud), logger.WithDebug(true)).Debug("frame decoded")

			Expect(quiet.String()).To(BeEmpty())
			Expect(loud.String()).To(ContainSubstring("frame decoded"))
		})

		It("creates a JSON logger", func() {
			var buf bytes.Buffer
			l := logger.New(logger.WithWriter(&buf), logger.WithJSON(true))
			l.Info("stream done", "fragments", 2)

			parsed := decodeLine(&buf)
			Expect(parsed["msg"]).To(Equal("stream done"))
			Expect(parsed["fragments"]).To(BeNumerically("==", 2))
		})

		It("creates a pretty logger", func() {
			var buf bytes.Buffer
			l := logger.New(logger.WithWriter(&buf), logger.WithPretty(true))
			l.Info("pretty output", "model", "gpt-3.5-turbo")

			Expect(buf.String()).To(ContainSubstring("pretty output"))
			Expect(buf.String()).To(ContainSubstring("gpt-3.5-turbo"))
		})

		It("prefers pretty output over JSON", func() {
			var buf bytes.Buffer
			l := logger.New(logger.WithWriter(&buf), logger.WithJSON(true), logger.WithPretty(true))
			l.Info("pretty wins")

			Expect(buf.String()).To(ContainSubstring("pretty wins"))
			Expect(strings.TrimSpace(buf.String())).NotTo(HavePrefix("{"))
		})

		It("supports multiple writers", func() {
			var buf1, buf2 bytes.Buffer
			l := logger.New(logger.WithWriters(&buf1, &buf2))
			l.Info("multi")

			Expect(buf1.String()).To(ContainSubstring("multi"))
			Expect(buf2.String()).To(ContainSubstring("multi"))
		})

		It("nests grouped keys", func() {
			var buf bytes.Buffer
			l := logger.New(logger.WithWriter(&buf), logger.WithJSON(true))
			l.WithGroup("response").Info("received", "status", 200)

			group, ok := decodeLine(&buf)["response"].(map[string]any)
			Expect(ok).To(BeTrue(), "expected 'response' group in JSON output")
			Expect(group["status"]).To(BeNumerically("==", 200))
		})
	})

	Describe("Nop", func() {
		It("is disabled at every level", func() {
			l := logger.Nop()
			Expect(l.Handler().Enabled(context.Background(), slog.LevelError)).To(BeFalse())
			Expect(func() { l.With("k", "v").Info("msg") }).NotTo(Panic())
		})
	})

	Describe("Multi", func() {
		It("dispatches to all loggers", func() {
			var text, structured bytes.Buffer
			multi := logger.Multi(
				logger.New(logger.WithWriter(&text)),
				logger.New(logger.WithWriter(&structured), logger.WithJSON(true)),
			)

			multi.With("component", "chat").Info("broadcast")

			Expect(text.String()).To(ContainSubstring("broadcast"))
			Expect(decodeLine(&structured)["component"]).To(Equal("chat"))
		})

		It("only enables levels some handler accepts", func() {
			var buf bytes.Buffer
			multi := logger.Multi(logger.Nop(), logger.New(logger.WithWriter(&buf)))

			Expect(multi.Handler().Enabled(context.Background(), slog.LevelInfo)).To(BeTrue())
			Expect(multi.Handler().Enabled(context.Background(), slog.LevelDebug)).To(BeFalse())
		})

		It("skips nil loggers", func() {
			var buf bytes.Buffer
			multi := logger.Multi(nil, logger.New(logger.WithWriter(&buf)), nil)

			multi.Info("kept")

			Expect(buf.String()).To(ContainSubstring("kept"))
		})

		It("keeps writing after one handler fails", func() {
			var buf bytes.Buffer
			multi := logger.Multi(
				logger.New(logger.WithWriter(failingWriter{})),
				logger.New(logger.WithWriter(&buf)),
			)

			err := multi.Handler().Handle(context.Background(), slog.NewRecord(time.Now(), slog.LevelInfo, "after failure", 0))

			Expect(err).To(MatchError(ContainSubstring("disk full")))
			Expect(buf.String()).To(ContainSubstring("after failure"))
		})
	})
})

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}
