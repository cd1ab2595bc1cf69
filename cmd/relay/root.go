package main

import (
	"context"
	"fmt"

	"github.com/fwojciec/relay"
	"github.com/fwojciec/relay/code"
	"github.com/fwojciec/relay/config"
	"github.com/fwojciec/relay/gemini"
	"github.com/fwojciec/relay/logger"
	"github.com/fwojciec/relay/queue"
	"github.com/fwojciec/relay/retry"
	"github.com/fwojciec/relay/segment"
	"github.com/fwojciec/relay/terminal"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

const rootLongDesc string = `Chat with Gemini models from the terminal.

Requests are sent one at a time with a short pause between queued
messages. Rate-limited and transient failures are retried with backoff.
Long answers are shown in parts and code blocks can be copied or saved.

Examples:
  relay
  relay --model gemini-1.5-pro
  relay --config ./relay.toml --debug`

type rootCommander struct {
	getenv     func(string) string
	configPath string
	apiKey     string
	model      string
	debug      bool
	maxChunk   int
	width      int
}

func newRootCmd(getenv func(string) string) *cobra.Command {
	cmder := &rootCommander{getenv: getenv}

	cmd := &cobra.Command{
		Use:           "relay",
		Short:         "Terminal chat client for the Gemini API",
		Long:          rootLongDesc,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := cmder.resolveConfig(cmd.Flags())
			if err != nil {
				return err
			}
			return cmder.run(cmd.Context(), cmd, cfg)
		},
	}

	cmd.Flags().StringVarP(&cmder.configPath, "config", "c", "", "Path to TOML config file")
	cmd.Flags().StringVar(&cmder.apiKey, "api-key", "", "API key (overrides "+config.EnvAPIKey+")")
	cmd.Flags().StringVarP(&cmder.model, "model", "m", "", "Model ID")
	cmd.Flags().BoolVar(&cmder.debug, "debug", false, "Enable debug logging to stderr")
	cmd.Flags().IntVar(&cmder.maxChunk, "max-chunk", 0, "Maximum bytes per displayed part")
	cmd.Flags().IntVar(&cmder.width, "width", 0, "Output wrap width")

	return cmd
}

// resolveConfig layers the config file, the environment and explicitly set
// flags, in that order, and validates the result.
func (c *rootCommander) resolveConfig(flags *pflag.FlagSet) (config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return config.Config{}, err
	}
	cfg.ApplyEnv(c.getenv)

	if flags.Changed("api-key") {
		cfg.APIKey = c.apiKey
	}
	if flags.Changed("model") {
		cfg.Model = c.model
	}
	if flags.Changed("debug") {
		cfg.Debug = c.debug
	}
	if flags.Changed("max-chunk") {
		cfg.MaxChunk = c.maxChunk
	}
	if flags.Changed("width") {
		cfg.Width = c.width
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func (c *rootCommander) run(ctx context.Context, cmd *cobra.Command, cfg config.Config) error {
	log := logger.New(cfg.Debug)
	defer func() { _ = log.Sync() }()

	term := terminal.New(cmd.OutOrStdout(), terminal.WithWidth(cfg.Width))

	client, err := gemini.New(ctx, cfg.APIKey,
		gemini.WithModel(cfg.Model),
		gemini.WithLogger(log.Named("gemini")),
	)
	if err != nil {
		return err
	}

	exec := retry.New(
		retry.WithMaxAttempts(cfg.MaxAttempts),
		retry.WithLogger(log.Named("retry")),
		retry.WithOnRetry(func(a retry.Attempt) { term.Notice(retryNotice(a)) }),
	)
	q := queue.New(
		queue.WithExecutor(exec),
		queue.WithSpacing(cfg.Spacing),
		queue.WithLogger(log.Named("queue")),
	)
	defer func() { _ = q.Close() }()

	id := uuid.NewString()
	session := relay.NewSession(client, q, term,
		relay.WithSessionID(id),
		relay.WithModel(cfg.Model),
		relay.WithGenerationConfig(cfg.GenerationConfig()),
		relay.WithSplitter(segment.New(cfg.MaxChunk)),
		relay.WithClassifier(code.Classifier{}),
	)
	log.Debug("session started", zap.String("id", id), zap.String("model", cfg.Model))

	a := newApp(session, term, log)
	return a.run(ctx, cmd.InOrStdin())
}

// retryNotice describes a backoff wait to the user.
func retryNotice(a retry.Attempt) relay.Notice {
	secs := int(a.Delay.Seconds())
	text := fmt.Sprintf("Server busy, retrying in %ds...", secs)
	if a.Class == retry.ClassRateLimited {
		text = fmt.Sprintf("Rate limited, retrying in %ds...", secs)
	}
	return relay.Notice{Kind: relay.NoticeRetry, Text: text}
}
