package commands

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/marmos91/defrag/cmd/defrag/cmdutil"
	"github.com/marmos91/defrag/internal/cli/diff"
	"github.com/marmos91/defrag/internal/logger"
	"github.com/marmos91/defrag/pkg/compact"
	"github.com/marmos91/defrag/pkg/compact/reference"
	"github.com/marmos91/defrag/pkg/disk"
)

var verifyPolicies []string

var verifyCmd = &cobra.Command{
	Use:   "verify [FILE]",
	Short: "Cross-check the compactors against the reference engines",
	Long: `Run each policy twice, once with the fast compactor and once with a
reference engine that moves blocks in a materialized block array, and
compare checksums and compacted layouts. The block policy is also checked
for idempotence: its compacted layout, rebuilt as a disk map, must compact
to the same checksum under every policy.

On mismatch a unified diff of the rendered layouts is printed and the
command exits non-zero. The reference engines are quadratic in the worst
case; keep inputs to a few hundred thousand blocks.

Examples:
  defrag verify input.txt
  defrag verify input.txt --policy file -o json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runVerify,
}

func init() {
	addPolicyFlag(verifyCmd, &verifyPolicies)
}

// verifyCheck is the outcome of one comparison.
type verifyCheck struct {
	Policy compact.Policy `json:"policy" yaml:"policy"`
	Check  string         `json:"check" yaml:"check"`
	OK     bool           `json:"ok" yaml:"ok"`
	Detail string         `json:"detail,omitempty" yaml:"detail,omitempty"`
	Diff   string         `json:"diff,omitempty" yaml:"diff,omitempty"`
}

// verifyReport renders checks as a table.
type verifyReport []verifyCheck

// Headers implements output.TableRenderer.
func (r verifyReport) Headers() []string {
	return []string{"Policy", "Check", "Status", "Detail"}
}

// Rows implements output.TableRenderer.
func (r verifyReport) Rows() [][]string {
	rows := make([][]string, 0, len(r))
	for _, c := range r {
		status := "ok"
		if !c.OK {
			status = "FAIL"
		}
		rows = append(rows, []string{string(c.Policy), c.Check, status, c.Detail})
	}
	return rows
}

func (r verifyReport) failed() bool {
	return slices.ContainsFunc(r, func(c verifyCheck) bool { return !c.OK })
}

func runVerify(cmd *cobra.Command, args []string) (err error) {
	s, err := cmdutil.Start(cmd, cmdutil.InputName(args))
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, s.Close()) }()

	d, err := cmdutil.ReadDisk(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}
	policies, err := resolvePolicies(cmd, verifyPolicies, s.Config)
	if err != nil {
		return err
	}

	results, err := compactAll(s, d, policies, compact.Options{RecordLayout: true, Metrics: s.Metrics})
	if err != nil {
		return err
	}

	width := s.Config.Show.Width
	var (
		report   verifyReport
		failures []error
	)
	for _, res := range results {
		checks, err := verifyResult(s.Context(), d, res, width)
		if err != nil {
			return err
		}
		report = append(report, checks...)
		if checks.failed() {
			logger.WarnCtx(s.Context(), "verification failed", logger.Policy(res.Policy.String()))
			failures = append(failures, fmt.Errorf("%s: %w", res.Policy, compact.ErrMismatch))
		}
	}

	if err := s.Printer.Print(report); err != nil {
		return err
	}
	if !s.Printer.IsStructured() {
		for _, c := range report {
			if c.Diff != "" {
				s.Printer.Println()
				s.Printer.Printf("%s", c.Diff)
			}
		}
		if len(failures) == 0 {
			s.Printer.Success(fmt.Sprintf("All %d checks passed", len(report)))
		}
	}
	return errors.Join(failures...)
}

// verifyResult compares a fast result, recorded with its layout, against
// the reference engine of the same policy. A non-nil error means the check
// itself could not run.
func verifyResult(ctx context.Context, d *disk.Disk, res *compact.Result, width int) (verifyReport, error) {
	want := referenceLayout(res.Policy, d)
	sum := want.Checksum()

	report := verifyReport{{
		Policy: res.Policy,
		Check:  "checksum",
		OK:     res.Checksum == sum,
		Detail: fmt.Sprintf("fast=%d reference=%d", res.Checksum, sum),
	}}

	layout := verifyCheck{
		Policy: res.Policy,
		Check:  "layout",
		OK:     res.Layout.Size == want.Size && slices.Equal(res.Layout.Extents, want.Extents),
		Detail: fmt.Sprintf("%d extents", len(res.Layout.Extents)),
	}
	if !layout.OK {
		text, err := diff.Layouts(res.Policy.String()+" (fast)", res.Policy.String()+" (reference)", res.Layout, want, width)
		if err != nil {
			return nil, fmt.Errorf("failed to diff %s layouts: %w", res.Policy, err)
		}
		layout.Detail = "layouts differ"
		layout.Diff = text
	}
	report = append(report, layout)

	if res.Policy == compact.PolicyBlock {
		check, err := verifyIdempotence(ctx, res)
		if err != nil {
			return nil, err
		}
		report = append(report, check)
	}
	return report, nil
}

// verifyIdempotence recompacts the block policy's output with every policy.
// A compacted disk has no free block left of a file, so nothing may move.
func verifyIdempotence(ctx context.Context, res *compact.Result) (verifyCheck, error) {
	check := verifyCheck{Policy: res.Policy, Check: "idempotence", OK: true}

	rebuilt, err := res.Layout.Disk()
	if err != nil {
		return check, fmt.Errorf("failed to rebuild %s layout: %w", res.Policy, err)
	}

	for _, p := range compact.Policies() {
		c, err := compact.New(p, compact.Options{})
		if err != nil {
			return check, err
		}
		again, err := c.Compact(ctx, rebuilt)
		if err != nil {
			return check, err
		}
		if again.Checksum != res.Checksum {
			check.OK = false
			check.Detail = fmt.Sprintf("%s recompaction gives %d, want %d", p, again.Checksum, res.Checksum)
			return check, nil
		}
	}
	check.Detail = fmt.Sprintf("stable under %d policies", len(compact.Policies()))
	return check, nil
}

func referenceLayout(p compact.Policy, d *disk.Disk) *disk.Layout {
	if p == compact.PolicyFile {
		return reference.FileLayout(d)
	}
	return reference.BlockLayout(d)
}
