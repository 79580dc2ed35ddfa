package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/maintain_ai/backend/internal/ai"
	"github.com/maintain_ai/backend/internal/config"
	"github.com/maintain_ai/backend/internal/metrics"
)

const appName = "maintain-api"

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   appName,
		Short: "Maintenance issue triage API",
		Long: `maintain-api accepts citizen maintenance reports, classifies them with an
external AI service (falling back to keyword rules when it is unavailable)
and tracks each issue through open, assigned, in_progress and resolved.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
	}
	cmd.AddCommand(serveCmd(), classifyCmd())
	return cmd
}

func newLogger(cfg config.Config) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	return log.Level(level).With().Str("service", appName).Logger()
}

// newClassifier picks the adapter for the configured provider. Without a key
// the adapter is left nil and every report uses the keyword fallback.
func newClassifier(cfg config.Config, logger zerolog.Logger, m *metrics.Metrics) *ai.Classifier {
	c := &ai.Classifier{Timeout: cfg.ClassifierTimeout, Logger: logger, Metrics: m}
	switch cfg.AIProvider {
	case config.ProviderOpenAI:
		if cfg.OpenAIAPIKey != "" {
			c.Adapter = ai.NewOpenAIAdapter(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.AIModel)
		}
	default:
		if cfg.GeminiAPIKey != "" {
			c.Adapter = ai.GeminiAdapter{BaseURL: cfg.GeminiBaseURL, APIKey: cfg.GeminiAPIKey, Model: cfg.AIModel}
		}
	}
	if c.Adapter == nil {
		logger.Warn().Str("provider", cfg.AIProvider).Msg("no classifier credentials; using keyword fallback")
	} else {
		logger.Info().Str("provider", c.Adapter.Name()).Str("model", cfg.AIModel).Msg("classifier configured")
	}
	return c
}
