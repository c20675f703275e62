package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/masande/siteindex/internal/watcher"
)

func newWatchCmd() *cobra.Command {
	var (
		dir           string
		allowFailures bool
		debounce      time.Duration
		skipInitial   bool
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Reindex whenever the build output changes",
		Long: `Watch runs a full blue/green reindex each time the build output
directory settles after a change. Bursts of file writes from one build
are coalesced into a single run.

Intended for local development alongside a site builder in watch mode;
in CI, run 'siteindex index' once per build instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if dir != "" {
				cfg.PublicDir = dir
			}

			runner, err := newRunner(cfg, allowFailures)
			if err != nil {
				return err
			}

			unlock, err := acquireRunLock(cfg.Collection.Name)
			if err != nil {
				return err
			}
			defer unlock()

			w, err := watcher.New(debounce)
			if err != nil {
				return err
			}

			watchErr := make(chan error, 1)
			go func() { watchErr <- w.Start(ctx, cfg.PublicDir) }()

			run := func() {
				result, err := runner.Run(ctx)
				if err != nil {
					// In watch mode a failed run is logged, not fatal:
					// the next build gets a fresh attempt.
					slog.Error("reindex run failed", slog.String("error", err.Error()))
					return
				}
				printResult(cmd, result)
			}

			if !skipInitial {
				run()
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Watching %s for changes\n", cfg.PublicDir)

			for {
				select {
				case <-ctx.Done():
					return nil
				case err := <-watchErr:
					if err != nil && ctx.Err() == nil {
						return err
					}
					return nil
				case <-w.Signals():
					run()
				}
			}
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "Build output directory (overrides public_dir from config)")
	cmd.Flags().BoolVar(&allowFailures, "allow-failures", false, "Skip pages that fail to index instead of aborting the run")
	cmd.Flags().DurationVar(&debounce, "debounce", watcher.DefaultDebounceWindow, "Quiet period before a change burst triggers a run")
	cmd.Flags().BoolVar(&skipInitial, "skip-initial", false, "Do not reindex on startup, only on changes")

	return cmd
}
