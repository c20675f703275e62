// Package cmd provides the CLI commands for siteindex.
package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/masande/siteindex/internal/config"
	"github.com/masande/siteindex/internal/logging"
	"github.com/masande/siteindex/pkg/version"
)

// Persistent flags shared by all subcommands.
var (
	cfgFile  string
	logLevel string
	jsonLogs bool
)

// NewRootCmd creates the root command for the siteindex CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "siteindex",
		Short: "Reindex a static site into Typesense",
		Long: `siteindex reindexes a statically-built site's HTML pages into a
Typesense collection after each build.

Each run creates a fresh collection, populates it from the build output,
carries synonyms forward from the live collection, then atomically
repoints the stable alias and deletes the superseded collection. Search
through the alias stays available for the whole run.

Pages opt in by marking elements with the data-typesense-field
attribute; the attribute value names the schema field and the element's
text becomes the field value.`,
		Version:      version.Version,
		SilenceUsage: true,
	}

	cmd.SetVersionTemplate("siteindex version {{.Version}}\n")

	cmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Path to config file (default siteindex.yaml)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override log level (debug, info, warn, error)")
	cmd.PersistentFlags().BoolVar(&jsonLogs, "json-logs", false, "Force JSON log output even on a terminal")

	cmd.AddCommand(newInitCmd())
	cmd.AddCommand(newIndexCmd())
	cmd.AddCommand(newWatchCmd())
	cmd.AddCommand(newCheckCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// loadConfig resolves configuration and initializes logging from it.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}

	level := cfg.LogLevel
	if logLevel != "" {
		level = logLevel
	}
	logging.Setup(logging.Config{Level: level, ForceJSON: jsonLogs})

	return cfg, nil
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().ExecuteContext(context.Background())
}
