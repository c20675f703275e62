package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/masande/siteindex/internal/engine"
)

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate configuration and server reachability",
		Long: `Check loads and validates the configuration, builds the collection
schema, and probes the Typesense server's health endpoint. Use it in
pipeline setup to fail fast before a build.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			s, err := cfg.Collection.Schema()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Config OK: collection %q with %d field(s)\n",
				s.Name, len(s.Fields))

			ts := engine.NewTypesense(cfg.Server.URL, cfg.Server.APIKey, cfg.Server.TimeoutDuration())
			if err := ts.Health(cmd.Context()); err != nil {
				return fmt.Errorf("typesense server %s is not healthy: %w", cfg.Server.URL, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Server OK: %s\n", cfg.Server.URL)

			return nil
		},
	}

	return cmd
}
