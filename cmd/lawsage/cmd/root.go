// Package cmd provides the CLI commands for LawSage.
package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/tomwolfe/lawsage/internal/config"
	"github.com/tomwolfe/lawsage/internal/logging"
	"github.com/tomwolfe/lawsage/pkg/version"
)

var (
	configPath string
	debugMode  bool
)

// NewRootCmd creates the root command for the lawsage CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lawsage",
		Short: "Hybrid search over jurisdiction-specific legal rules",
		Long: `LawSage ranks jurisdiction-specific legal rules against natural
language questions using hybrid retrieval: BM25 keyword matching fused
with semantic similarity, with optional reranking of the top results.

It runs entirely locally by default; an OpenAI-compatible embedding
endpoint can be configured for higher quality semantic matching.`,
		Version:       version.Short(),
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.SetVersionTemplate("lawsage version {{.Version}}\n")

	cmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (YAML)")
	cmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")

	cmd.AddCommand(newIndexCmd())
	cmd.AddCommand(newSearchCmd())
	cmd.AddCommand(newRulesCmd())
	cmd.AddCommand(newDeadlinesCmd())
	cmd.AddCommand(newWatchCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

// loadConfig loads configuration and sets up the process logger.
func loadConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}

	logCfg := logging.Config{Level: cfg.Logging.Level}
	if debugMode {
		logCfg.Level = "debug"
	}
	logger := logging.Setup(logCfg)
	slog.SetDefault(logger)

	return cfg, logger, nil
}
