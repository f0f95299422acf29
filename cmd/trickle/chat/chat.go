// Package chatcmder provides the chat command, which streams a single chat
// completion to the terminal.
package chatcmder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"slices"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/trickle/pkg/chat"
	"github.com/papercomputeco/trickle/pkg/cliui"
	"github.com/papercomputeco/trickle/pkg/config"
	"github.com/papercomputeco/trickle/pkg/credentials"
	"github.com/papercomputeco/trickle/pkg/llm/provider"
	"github.com/papercomputeco/trickle/pkg/logger"
	"github.com/papercomputeco/trickle/pkg/stream"
)

// DefaultPrompt is sent when no prompt is given on the command line or stdin.
const DefaultPrompt = "Please list 10 things I might want to bring to a picnic."

const chatLongDesc string = `Send one prompt to an OpenAI-compatible chat completions endpoint and
print the reply as it streams in.

The prompt is taken from the arguments, from piped stdin, or defaults to a
picnic packing list. The API key is resolved from --api-key, then
OPENAI_API_KEY (a .env file in the working directory is loaded if present),
then credentials stored with "trickle auth openai".

Examples:
  trickle chat
  trickle chat "Write a haiku about rivers"
  echo "Explain SSE" | trickle chat --model gpt-4o-mini
  trickle chat --markdown --raw-dump reply.sse "Summarize Go generics"`

const chatShortDesc string = "Stream a chat completion to the terminal"

type chatCommander struct {
	configDir string
	debug     bool

	provider string
	endpoint string
	model    string
	timeout  string
	markdown bool
	rawDump  string
	apiKey   string
	logFile  string

	in     io.Reader
	out    io.Writer
	errOut io.Writer

	logger *slog.Logger
}

var chatFlags = []string{
	config.FlagProvider,
	config.FlagEndpoint,
	config.FlagModel,
	config.FlagTimeout,
	config.FlagMarkdown,
	config.FlagRawDump,
}

func NewChatCmd() *cobra.Command {
	cmder := &chatCommander{}

	cmd := &cobra.Command{
		Use:   "chat [prompt]",
		Short: chatShortDesc,
		Long:  chatLongDesc,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			cmder.configDir, _ = cmd.Flags().GetString("config-dir")
			cmder.debug, _ = cmd.Flags().GetBool("debug")

			v, err := config.InitViper(cmder.configDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			config.BindRegisteredFlags(v, cmd, config.ClientFlags, chatFlags)

			cmder.provider = v.GetString("client.provider")
			cmder.endpoint = v.GetString("client.endpoint")
			cmder.model = v.GetString("client.model")
			cmder.timeout = v.GetString("client.timeout")
			cmder.markdown = v.GetBool("render.markdown")
			cmder.rawDump = v.GetString("render.raw_dump")
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// Runtime errors are printed with the failure mark.
			cmd.SilenceErrors = true
			cmd.SilenceUsage = true

			cmder.in = cmd.InOrStdin()
			cmder.out = cmd.OutOrStdout()
			cmder.errOut = cmd.ErrOrStderr()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := cmder.run(ctx, args); err != nil {
				return cmder.fail(err)
			}
			return nil
		},
	}

	config.AddStringFlag(cmd, config.ClientFlags, config.FlagProvider, &cmder.provider)
	config.AddStringFlag(cmd, config.ClientFlags, config.FlagEndpoint, &cmder.endpoint)
	config.AddStringFlag(cmd, config.ClientFlags, config.FlagModel, &cmder.model)
	config.AddStringFlag(cmd, config.ClientFlags, config.FlagTimeout, &cmder.timeout)
	config.AddBoolFlag(cmd, config.ClientFlags, config.FlagMarkdown, &cmder.markdown)
	config.AddStringFlag(cmd, config.ClientFlags, config.FlagRawDump, &cmder.rawDump)
	cmd.Flags().StringVar(&cmder.apiKey, "api-key", "", "API key (overrides OPENAI_API_KEY and stored credentials)")
	cmd.Flags().StringVar(&cmder.logFile, "log-file", "", "Also write JSON logs to this file")

	return cmd
}

func (c *chatCommander) run(ctx context.Context, args []string) error {
	closeLog, err := c.setupLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	prompt, err := c.resolvePrompt(args)
	if err != nil {
		return err
	}

	client, err := c.newClient()
	if err != nil {
		return err
	}

	fmt.Fprintf(c.out, "\n  %s %s\n\n",
		cliui.KeyStyle.Render("Model:"),
		cliui.NameStyle.Render(client.Model()),
	)

	var resp *chat.Response
	err = cliui.Step(c.errOut, "Waiting for response", func() error {
		resp, err = client.Open(ctx, prompt)
		return err
	})
	if err != nil {
		return err
	}

	// The dump is only created once the endpoint has accepted the request.
	var opts []stream.Option
	if c.rawDump != "" {
		f, err := os.Create(c.rawDump)
		if err != nil {
			_ = resp.Close()
			return fmt.Errorf("creating raw dump: %w", err)
		}
		defer f.Close()
		opts = append(opts, stream.WithRawTee(f))
	}

	fmt.Fprintf(c.out, "  %s %s\n", cliui.KeyStyle.Render("Status:"), cliui.ValueStyle.Render(strconv.Itoa(resp.Status)))
	fmt.Fprintf(c.out, "\n%s\n\n", cliui.HeaderStyle.Render("ChatGPT Says:"))

	transcript := &stream.Transcript{}
	var sink stream.Sink = stream.NewWriterSink(c.out)
	if c.markdown {
		sink = stream.Tee(sink, transcript)
	}

	res, err := resp.Decode(ctx, sink, opts...)
	if err != nil {
		fmt.Fprintln(c.out)
		return err
	}

	c.logger.Debug("stream finished",
		"request_id", resp.RequestID,
		"model", res.Model,
		"fragments", res.Fragments,
		"frames", res.Frames,
		"finish_reason", res.FinishReason,
		"sentinel", res.Done,
	)

	if c.markdown {
		c.renderMarkdown(transcript.String())
	}

	fmt.Fprintf(c.out, "\n\n%s\n", cliui.DimStyle.Render("[Done.]"))
	return nil
}

func (c *chatCommander) setupLogger() (func(), error) {
	c.logger = logger.New(
		logger.WithDebug(c.debug),
		logger.WithPretty(true),
		logger.WithWriter(c.errOut),
	)

	if c.logFile == "" {
		return func() {}, nil
	}

	f, err := os.OpenFile(c.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}

	c.logger = logger.Multi(c.logger, logger.New(
		logger.WithDebug(true),
		logger.WithJSON(true),
		logger.WithWriter(f),
	))

	return func() { _ = f.Close() }, nil
}

// resolvePrompt joins args, or reads piped stdin, or falls back to
// DefaultPrompt.
func (c *chatCommander) resolvePrompt(args []string) (string, error) {
	if prompt := strings.TrimSpace(strings.Join(args, " ")); prompt != "" {
		return prompt, nil
	}

	if f, ok := c.in.(*os.File); ok && cliui.IsTerminal(f) {
		return DefaultPrompt, nil
	}

	data, err := io.ReadAll(c.in)
	if err != nil {
		return "", fmt.Errorf("reading prompt from stdin: %w", err)
	}
	if prompt := strings.TrimSpace(string(data)); prompt != "" {
		return prompt, nil
	}

	return DefaultPrompt, nil
}

func (c *chatCommander) newClient() (*chat.Client, error) {
	if !slices.Contains(provider.SupportedProviders(), c.provider) {
		return nil, fmt.Errorf("unsupported provider: %q (supported: %v)", c.provider, provider.SupportedProviders())
	}

	timeout, err := config.ParseTimeout(c.timeout)
	if err != nil {
		return nil, err
	}

	mgr, err := credentials.NewManager(c.configDir)
	if err != nil {
		return nil, fmt.Errorf("loading credentials: %w", err)
	}

	resolver := &credentials.Resolver{Manager: mgr, DotEnvFiles: []string{".env"}}
	apiKey, source, err := resolver.Resolve(c.provider, c.apiKey)
	if err != nil {
		return nil, fmt.Errorf("%w\n\nSet %s, pass --api-key, or run 'trickle auth %s'",
			err, credentials.EnvVarForProvider(c.provider), c.provider)
	}
	c.logger.Debug("resolved API key", "provider", c.provider, "source", source)

	return chat.NewClient(chat.Config{
		Endpoint: c.endpoint,
		APIKey:   apiKey,
		Model:    c.model,
		Timeout:  timeout,
	}, chat.WithLogger(c.logger))
}

func (c *chatCommander) renderMarkdown(text string) {
	f, ok := c.out.(*os.File)
	if !ok || !cliui.IsTerminal(f) {
		return
	}

	rendered, err := cliui.RenderMarkdown(text)
	if err != nil {
		c.logger.Warn("rendering markdown", "error", err)
		return
	}

	fmt.Fprintf(c.out, "\n\n%s\n%s", cliui.HeaderStyle.Render("Rendered:"), rendered)
}

// fail prints every error returned by run with the failure mark and returns
// it so the command exits non-zero. Already rendered fragments stay on screen.
func (c *chatCommander) fail(err error) error {
	var statusErr *chat.StatusError
	if errors.As(err, &statusErr) && statusErr.IsAuth() {
		fmt.Fprintf(c.errOut, "  %s %s\n", cliui.WarnStyle.Render("!"),
			"The endpoint rejected the API key. Check it with 'trickle auth --list'.")
	}
	fmt.Fprintf(c.errOut, "  %s %v\n", cliui.FailMark, err)
	return err
}
