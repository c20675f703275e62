package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/masande/siteindex/internal/config"
	"github.com/masande/siteindex/internal/engine"
	"github.com/masande/siteindex/internal/reindex"
)

func newIndexCmd() *cobra.Command {
	var (
		dir           string
		allowFailures bool
	)

	cmd := &cobra.Command{
		Use:   "index",
		Short: "Run one blue/green reindex of the built site",
		Long: `Index crawls the build output directory, extracts marked fields from
every HTML page, and runs one full blue/green reindex against the
configured Typesense server.

The stable alias is only repointed after the new collection is fully
populated, so search stays available throughout. By default one
malformed page aborts the run before the alias is touched; use
--allow-failures to skip bad pages and report them instead.`,
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

			result, err := runner.Run(ctx)
			if err != nil {
				return err
			}

			printResult(cmd, result)
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "Build output directory (overrides public_dir from config)")
	cmd.Flags().BoolVar(&allowFailures, "allow-failures", false, "Skip pages that fail to index instead of aborting the run")

	return cmd
}

// newRunner wires config into a reindex runner backed by Typesense.
func newRunner(cfg *config.Config, allowFailures bool) (*reindex.Runner, error) {
	s, err := cfg.Collection.Schema()
	if err != nil {
		return nil, err
	}

	eng := engine.NewTypesense(cfg.Server.URL, cfg.Server.APIKey, cfg.Server.TimeoutDuration())

	return reindex.NewRunner(eng, reindex.Options{
		Schema:                  s,
		PublicDir:               cfg.PublicDir,
		Exclude:                 cfg.Exclude,
		ContinueOnDocumentError: allowFailures,
	})
}

func printResult(cmd *cobra.Command, result *reindex.Result) {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Indexed %d page(s) into %s", result.Indexed, result.NewCollection)
	if result.Skipped > 0 {
		fmt.Fprintf(out, ", skipped %d without indexable fields", result.Skipped)
	}
	if result.Failed > 0 {
		fmt.Fprintf(out, ", %d failed", result.Failed)
	}
	fmt.Fprintln(out)

	if result.SynonymsApplied > 0 {
		fmt.Fprintf(out, "Carried %d synonym rule(s) forward\n", result.SynonymsApplied)
	}

	switch {
	case !result.AliasSwapped:
		fmt.Fprintf(out, "WARNING: alias swap failed; %s is populated but unreferenced\n", result.NewCollection)
	case result.OldCollection != "" && !result.OldDeleted:
		fmt.Fprintf(out, "WARNING: old collection %s was not deleted; remove it manually\n", result.OldCollection)
	case result.OldCollection != "":
		fmt.Fprintf(out, "Replaced %s\n", result.OldCollection)
	}
}
