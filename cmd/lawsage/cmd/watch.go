package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tomwolfe/lawsage/internal/rules"
)

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch the corpus directory and rebuild the index on changes",
		Long: `Watch the corpus directory and rebuild the search index whenever
rule files change. Bursts of file events are debounced so a bulk copy
triggers a single rebuild. Runs until interrupted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd)
		},
	}
	return cmd
}

func runWatch(cmd *cobra.Command) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rebuild := func(ctx context.Context, dir string) error {
		_, docs, err := buildEngine(ctx, cfg, logger)
		if err != nil {
			return err
		}
		logger.Info("index rebuilt", "dir", dir, "documents", len(docs))
		return nil
	}

	if err := rebuild(ctx, cfg.Corpus.Dir); err != nil {
		return err
	}

	watcher, err := rules.NewWatcher(cfg.Corpus.Dir, rebuild)
	if err != nil {
		return err
	}
	defer watcher.Close()

	fmt.Fprintf(cmd.OutOrStdout(), "Watching %s for changes. Press Ctrl+C to stop.\n", cfg.Corpus.Dir)
	watcher.Run(ctx)
	return nil
}
