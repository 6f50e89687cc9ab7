package config

import (
	"github.com/spf13/cobra"

	"github.com/marmos91/defrag/cmd/defrag/cmdutil"
	"github.com/marmos91/defrag/internal/cli/output"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Display the effective configuration",
	Long: `Display the effective defrag configuration: defaults, overridden by the
configuration file, overridden by DEFRAG_* environment variables.

By default outputs YAML format. Use --output json for JSON.

Examples:
  # Show effective config as YAML
  defrag config show

  # Show as JSON
  defrag config show --output json

  # Show specific config file
  defrag config show --config ./defrag.yaml`,
	RunE: runConfigShow,
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := cmdutil.LoadConfig()
	if err != nil {
		return err
	}

	format, err := output.ParseFormat(cmdutil.Flags.Output)
	if err != nil {
		return err
	}

	switch format {
	case output.FormatJSON:
		return output.PrintJSON(cmd.OutOrStdout(), cfg)
	default:
		return output.PrintYAML(cmd.OutOrStdout(), cfg)
	}
}
