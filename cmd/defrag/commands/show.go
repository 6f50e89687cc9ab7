package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marmos91/defrag/cmd/defrag/cmdutil"
	"github.com/marmos91/defrag/internal/cli/output"
	"github.com/marmos91/defrag/pkg/compact"
	"github.com/marmos91/defrag/pkg/disk"
)

var (
	showPolicies []string
	showWidth    int
)

var showCmd = &cobra.Command{
	Use:   "show [FILE]",
	Short: "Render a disk map before and after compaction",
	Long: `Render the disk as a block map, one character per block, then the
layout each policy compacts it to.

File ids 0-9 and 10-35 are drawn as 0-9 and a-z, larger ids as '#',
free blocks as '.'. Disks larger than show.max_blocks are refused.

Examples:
  defrag show input.txt
  echo 12345 | defrag show --width 5`,
	Args: cobra.MaximumNArgs(1),
	RunE: runShow,
}

func init() {
	addPolicyFlag(showCmd, &showPolicies)
	showCmd.Flags().IntVar(&showWidth, "width", 0, "Blocks per line, 0 disables wrapping (default from config)")
}

// showView is the structured form of 'defrag show'.
type showView struct {
	Input   string            `json:"input" yaml:"input"`
	Disk    *disk.Layout      `json:"disk" yaml:"disk"`
	Results []*compact.Result `json:"results" yaml:"results"`
}

func runShow(cmd *cobra.Command, args []string) (err error) {
	input := cmdutil.InputName(args)
	s, err := cmdutil.Start(cmd, input)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, s.Close()) }()

	d, err := cmdutil.ReadDisk(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}
	if limit := s.Config.Show.MaxBlocks; d.Size() > limit {
		return fmt.Errorf("disk has %d blocks, show renders at most %d (see show.max_blocks)", d.Size(), limit)
	}

	width := s.Config.Show.Width
	if cmd.Flags().Changed("width") {
		width = showWidth
	}

	policies, err := resolvePolicies(cmd, showPolicies, s.Config)
	if err != nil {
		return err
	}
	results, err := compactAll(s, d, policies, compact.Options{RecordLayout: true, Metrics: s.Metrics})
	if err != nil {
		return err
	}

	view := showView{Input: input, Disk: d.Layout(), Results: results}
	if s.Printer.IsStructured() {
		return s.Printer.Print(view)
	}
	renderShow(s.Printer, view, width)
	return nil
}

func renderShow(p *output.Printer, view showView, width int) {
	p.Printf("original (%d blocks, %d used)\n", view.Disk.Size, view.Disk.Used())
	for _, line := range view.Disk.RenderLines(width) {
		p.Printf("  %s\n", line)
	}
	for _, res := range view.Results {
		p.Printf("%s (checksum %d)\n", res.Policy, res.Checksum)
		for _, line := range res.Layout.RenderLines(width) {
			p.Printf("  %s\n", line)
		}
	}
}
