// Package compact computes the positional checksum of a run-length disk
// after compaction.
//
// Two policies are provided:
//
//   - PolicyBlock moves single blocks from the end of the disk into the
//     leftmost free gap, splitting files into fragments.
//   - PolicyFile moves whole files, highest position first, into the leftmost
//     free extent that can hold them, if that extent lies to their left.
//
// Neither engine materializes the disk as a block array. Both accumulate the
// checksum in closed form, one span at a time, using disk.SpanChecksum.
package compact

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/marmos91/defrag/internal/logger"
	"github.com/marmos91/defrag/internal/telemetry"
	"github.com/marmos91/defrag/pkg/disk"
)

// Policy names a compaction policy.
type Policy string

const (
	// PolicyBlock is block-level compaction (fragmenting).
	PolicyBlock Policy = "block"

	// PolicyFile is whole-file compaction (non-fragmenting).
	PolicyFile Policy = "file"
)

var (
	// ErrUnknownPolicy is returned for a policy name other than "block" or "file".
	ErrUnknownPolicy = errors.New("unknown compaction policy")

	// ErrNilDisk is returned when Compact is called without a disk.
	ErrNilDisk = errors.New("nil disk")

	// ErrMismatch reports that two engines disagree on a result.
	ErrMismatch = errors.New("compaction result mismatch")
)

// Policies returns every supported policy in canonical order.
func Policies() []Policy {
	return []Policy{PolicyBlock, PolicyFile}
}

func (p Policy) String() string {
	return string(p)
}

// ParsePolicy converts a policy name (case-insensitive) to a Policy.
func ParsePolicy(name string) (Policy, error) {
	switch p := Policy(strings.ToLower(strings.TrimSpace(name))); p {
	case PolicyBlock, PolicyFile:
		return p, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownPolicy, name)
	}
}

// ParsePolicies parses a list of policy names, dropping duplicates and
// keeping the first occurrence order. An empty list selects every policy.
func ParsePolicies(names []string) ([]Policy, error) {
	if len(names) == 0 {
		return Policies(), nil
	}

	seen := make(map[Policy]bool, len(names))
	policies := make([]Policy, 0, len(names))
	for _, name := range names {
		p, err := ParsePolicy(name)
		if err != nil {
			return nil, err
		}
		if !seen[p] {
			seen[p] = true
			policies = append(policies, p)
		}
	}
	return policies, nil
}

// Compactor runs one compaction policy over a disk.
//
// Compact never mutates the disk. Implementations hold no per-call state, so
// a Compactor may be reused and called from several goroutines.
type Compactor interface {
	// Policy returns the policy implemented by the compactor.
	Policy() Policy

	// Compact computes the checksum of d after compaction. The context is
	// checked once before the run starts and carries the logging and tracing
	// scope; the run itself is not interruptible.
	Compact(ctx context.Context, d *disk.Disk) (*Result, error)
}

// Metrics receives the result of every compaction run.
// A nil Metrics disables collection.
type Metrics interface {
	ObserveCompaction(r *Result)
}

// Options configures a Compactor.
type Options struct {
	// RecordLayout makes Compact return the compacted file extents in
	// Result.Layout. Recording costs one extent per placed span.
	RecordLayout bool

	// Metrics, if set, observes every successful run.
	Metrics Metrics
}

// Result is the outcome of one compaction run.
type Result struct {
	Policy         Policy        `json:"policy" yaml:"policy"`
	Checksum       uint64        `json:"checksum" yaml:"checksum"`
	DiskBlocks     int64         `json:"disk_blocks" yaml:"disk_blocks"`
	Files          int           `json:"files" yaml:"files"`
	BlocksMoved    int64         `json:"blocks_moved" yaml:"blocks_moved"`
	FilesRelocated int           `json:"files_relocated" yaml:"files_relocated"`
	Fragments      int           `json:"fragments" yaml:"fragments"`
	ClassesPruned  int           `json:"classes_pruned" yaml:"classes_pruned"`
	Duration       time.Duration `json:"duration" yaml:"duration"`
	Layout         *disk.Layout  `json:"layout,omitempty" yaml:"layout,omitempty"`
}

// New returns the Compactor implementing p.
func New(p Policy, opts Options) (Compactor, error) {
	switch p {
	case PolicyBlock:
		return NewBlockCompactor(opts), nil
	case PolicyFile:
		return NewFileCompactor(opts), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPolicy, string(p))
	}
}

// tally accumulates the checksum of placed spans and, when recording,
// their extents.
type tally struct {
	checksum uint64
	layout   *disk.Layout
}

// add places n blocks of file id at offset start.
func (t *tally) add(id int, start int64, n int) {
	if n <= 0 {
		return
	}
	t.checksum += disk.SpanChecksum(id, start, n)
	if t.layout != nil {
		t.layout.Extents = append(t.layout.Extents, disk.Extent{Start: start, Length: n, FileID: id})
	}
}

// engine is the policy-specific part of a run.
type engine func(d *disk.Disk, t *tally, res *Result)

var spanNames = map[Policy]string{
	PolicyBlock: telemetry.SpanCompactBlock,
	PolicyFile:  telemetry.SpanCompactFile,
}

// run wraps an engine with validation, tracing, logging and metrics.
func run(ctx context.Context, policy Policy, opts Options, d *disk.Disk, fn engine) (*Result, error) {
	if d == nil {
		return nil, ErrNilDisk
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s compaction: %w", policy, err)
	}

	ctx, span := telemetry.StartSpan(ctx, spanNames[policy],
		telemetry.Policy(string(policy)),
		telemetry.DiskBlocks(d.Size()),
		telemetry.DiskRuns(d.Len()),
		telemetry.DiskFiles(d.Files()),
		telemetry.DiskFree(d.FreeBlocks()),
	)
	defer span.End()

	if lc := logger.FromContext(ctx); lc != nil {
		ctx = logger.WithContext(ctx, lc.WithPolicy(string(policy)).WithTrace(telemetry.TraceID(ctx), telemetry.SpanID(ctx)))
	}

	res := &Result{Policy: policy, DiskBlocks: d.Size(), Files: d.Files()}
	t := &tally{}
	if opts.RecordLayout {
		t.layout = &disk.Layout{Size: d.Size(), Extents: make([]disk.Extent, 0, d.Files())}
	}

	start := time.Now()
	fn(d, t, res)
	res.Duration = time.Since(start)
	res.Checksum = t.checksum
	if t.layout != nil {
		t.layout.Normalize()
		res.Layout = t.layout
	}

	telemetry.SetAttributes(ctx,
		telemetry.Checksum(res.Checksum),
		telemetry.BlocksMoved(res.BlocksMoved),
		telemetry.FilesRelocated(res.FilesRelocated),
		telemetry.Fragments(res.Fragments),
		telemetry.ClassesPruned(res.ClassesPruned),
	)
	logger.DebugCtx(ctx, "compaction finished",
		logger.Checksum(res.Checksum),
		logger.Blocks(res.DiskBlocks),
		logger.KeyBlocksMoved, res.BlocksMoved,
		logger.KeyFilesRelocated, res.FilesRelocated,
		logger.KeyFragments, res.Fragments,
		logger.KeyClassesPruned, res.ClassesPruned,
		logger.DurationMs(float64(res.Duration.Microseconds())/1000.0),
	)

	if opts.Metrics != nil {
		opts.Metrics.ObserveCompaction(res)
	}
	return res, nil
}
