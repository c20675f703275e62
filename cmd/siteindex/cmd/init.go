package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/masande/siteindex/configs"
	"github.com/masande/siteindex/internal/config"
)

func newInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter siteindex.yaml",
		Long: `Init writes a commented starter configuration to siteindex.yaml in
the current directory. Edit the collection fields to match the
data-typesense-field attributes your templates emit, then run
'siteindex check' to validate.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.DefaultFile
			if cfgFile != "" {
				path = cfgFile
			}

			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}

			if err := os.WriteFile(path, []byte(configs.ConfigTemplate), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")

	return cmd
}
