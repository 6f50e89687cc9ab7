package commands

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/marmos91/defrag/cmd/defrag/cmdutil"
	"github.com/marmos91/defrag/internal/cli/output"
	"github.com/marmos91/defrag/pkg/compact"
)

var (
	checksumPolicies []string
	checksumLayout   bool
)

var checksumCmd = &cobra.Command{
	Use:   "checksum [FILE]",
	Short: "Compute the checksum of a disk map after compaction",
	Long: `Compute the positional checksum (sum of offset x file id over every
occupied block) of a disk map after compaction, for each selected policy.

Examples:
  # Both policies, table output
  defrag checksum input.txt

  # Block policy only, reading stdin
  echo 2333133121414131402 | defrag checksum --policy block

  # JSON output including the compacted layout
  defrag checksum input.txt -o json --layout`,
	Args: cobra.MaximumNArgs(1),
	RunE: runChecksum,
}

func init() {
	addPolicyFlag(checksumCmd, &checksumPolicies)
	checksumCmd.Flags().BoolVar(&checksumLayout, "layout", false, "Include the compacted layout in JSON/YAML output")
}

func runChecksum(cmd *cobra.Command, args []string) (err error) {
	s, err := cmdutil.Start(cmd, cmdutil.InputName(args))
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, s.Close()) }()

	d, err := cmdutil.ReadDisk(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}

	policies, err := resolvePolicies(cmd, checksumPolicies, s.Config)
	if err != nil {
		return err
	}

	results, err := compactAll(s, d, policies, compact.Options{
		RecordLayout: s.Config.Compaction.RecordLayout || checksumLayout,
		Metrics:      s.Metrics,
	})
	if err != nil {
		return err
	}

	return s.Printer.Print(output.ResultTable(results))
}
