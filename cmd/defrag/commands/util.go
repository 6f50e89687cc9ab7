package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marmos91/defrag/cmd/defrag/cmdutil"
	"github.com/marmos91/defrag/internal/logger"
	"github.com/marmos91/defrag/pkg/compact"
	"github.com/marmos91/defrag/pkg/config"
	"github.com/marmos91/defrag/pkg/disk"
)

// addPolicyFlag registers the --policy flag shared by the compaction commands.
func addPolicyFlag(cmd *cobra.Command, target *[]string) {
	cmd.Flags().StringSliceVarP(target, "policy", "p", nil, "Policies to run, comma separated (block,file; default from config)")
}

// resolvePolicies returns the --policy values when the flag was given, the
// configured policies otherwise.
func resolvePolicies(cmd *cobra.Command, flagValues []string, cfg *config.Config) ([]compact.Policy, error) {
	names := cfg.Compaction.Policies
	if cmd.Flags().Changed("policy") {
		names = flagValues
	}
	policies, err := compact.ParsePolicies(names)
	if err != nil {
		return nil, fmt.Errorf("invalid --policy: %w", err)
	}
	return policies, nil
}

// compactAll runs every policy over d, one after the other.
func compactAll(s *cmdutil.Session, d *disk.Disk, policies []compact.Policy, opts compact.Options) ([]*compact.Result, error) {
	ctx := s.Context()
	if s.Metrics != nil {
		s.Metrics.ObserveDisk(d)
	}
	logger.InfoCtx(ctx, "disk loaded",
		logger.Blocks(d.Size()),
		logger.KeyRuns, d.Len(),
		logger.KeyFiles, d.Files(),
		logger.KeyFree, d.FreeBlocks(),
	)

	results := make([]*compact.Result, 0, len(policies))
	for _, p := range policies {
		c, err := compact.New(p, opts)
		if err != nil {
			return nil, err
		}
		res, err := c.Compact(ctx, d)
		if err != nil {
			return nil, err
		}
		logger.InfoCtx(ctx, "compaction complete",
			logger.Policy(p.String()),
			logger.Checksum(res.Checksum),
			logger.DurationMs(float64(res.Duration.Microseconds())/1000),
		)
		results = append(results, res)
	}
	return results, nil
}
