package config

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marmos91/defrag/cmd/defrag/cmdutil"
	"github.com/marmos91/defrag/pkg/config"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration file",
	Long: `Write the default defrag configuration file.

By default, the configuration file is created at $XDG_CONFIG_HOME/defrag/config.yaml.
Use --config to specify a custom path.

Examples:
  # Initialize with default location
  defrag config init

  # Initialize with custom path
  defrag config init --config ./defrag.yaml

  # Force overwrite existing config
  defrag config init --force`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Force overwrite existing config file")
}

func runInit(cmd *cobra.Command, args []string) error {
	configPath := cmdutil.Flags.ConfigFile

	var err error
	if configPath != "" {
		err = config.InitConfigToPath(configPath, initForce)
	} else {
		configPath, err = config.InitConfig(initForce)
	}
	if err != nil {
		return fmt.Errorf("failed to initialize config: %w", err)
	}

	w := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(w, "Configuration file created at: %s\n", configPath)
	_, _ = fmt.Fprintln(w, "\nNext steps:")
	_, _ = fmt.Fprintln(w, "  1. Edit the configuration file to select policies and outputs")
	_, _ = fmt.Fprintln(w, "  2. Check it with: defrag config validate")
	_, _ = fmt.Fprintln(w, "  3. Compute a checksum with: defrag checksum input.txt")
	return nil
}
