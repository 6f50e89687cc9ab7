package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/marmos91/defrag/cmd/defrag/cmdutil"
	"github.com/marmos91/defrag/pkg/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration file",
	Long: `Validate the defrag configuration file.

Checks for syntax errors, missing required fields, and invalid values.

Examples:
  # Validate default config
  defrag config validate

  # Validate specific config file
  defrag config validate --config ./defrag.yaml`,
	RunE: runConfigValidate,
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	cfg, err := cmdutil.LoadConfig()
	if err != nil {
		return err
	}

	displayPath := cmdutil.Flags.ConfigFile
	if displayPath == "" {
		displayPath = config.GetDefaultConfigPath()
	}
	if _, err := os.Stat(displayPath); os.IsNotExist(err) {
		displayPath += " (not found, defaults in effect)"
	}

	w := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(w, "Configuration file: %s\n", displayPath)
	_, _ = fmt.Fprintln(w, "Validation: OK")

	if warnings := configWarnings(cfg); len(warnings) > 0 {
		_, _ = fmt.Fprintln(w, "\nWarnings:")
		for _, warning := range warnings {
			_, _ = fmt.Fprintf(w, "  - %s\n", warning)
		}
	}

	_, _ = fmt.Fprintf(w, "\nConfiguration summary:\n")
	_, _ = fmt.Fprintf(w, "  Policies:        %v\n", cfg.Compaction.Policies)
	_, _ = fmt.Fprintf(w, "  Output format:   %s\n", cfg.Output.Format)
	_, _ = fmt.Fprintf(w, "  Log level:       %s\n", cfg.Logging.Level)
	_, _ = fmt.Fprintf(w, "  Tracing:         %t\n", cfg.Telemetry.Enabled)
	_, _ = fmt.Fprintf(w, "  Metrics:         %t\n", cfg.Metrics.Enabled)
	return nil
}

// configWarnings reports settings that are valid but likely unintended.
func configWarnings(cfg *config.Config) []string {
	var warnings []string

	if cfg.Metrics.Enabled {
		if _, err := os.Stat(filepath.Dir(cfg.Metrics.Textfile)); err != nil {
			warnings = append(warnings, fmt.Sprintf("metrics textfile directory %s does not exist", filepath.Dir(cfg.Metrics.Textfile)))
		}
	}
	if cfg.Telemetry.Enabled && cfg.Telemetry.SampleRate == 0 {
		warnings = append(warnings, "tracing is enabled with sample_rate 0, no span will be exported")
	}
	if cfg.Show.Width > 0 && int64(cfg.Show.Width) > cfg.Show.MaxBlocks {
		warnings = append(warnings, "show.width exceeds show.max_blocks, block maps will never wrap")
	}
	return warnings
}
