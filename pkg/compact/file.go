package compact

import (
	"context"

	"github.com/marmos91/defrag/pkg/disk"
)

// FileCompactor implements PolicyFile.
//
// Files are visited once, from the highest position down. Each one moves, in
// one piece, to the leftmost free extent that can hold it if that extent
// starts to its left, and stays put otherwise. Free extents are kept in one
// ordered set per exact length (see sizeClasses), so a lookup inspects at
// most one candidate per class instead of scanning the disk.
type FileCompactor struct {
	opts Options

	// disablePruning keeps every size class alive for the whole run.
	disablePruning bool
}

// NewFileCompactor returns a file-policy compactor.
func NewFileCompactor(opts Options) *FileCompactor {
	return &FileCompactor{opts: opts}
}

// Policy returns PolicyFile.
func (c *FileCompactor) Policy() Policy {
	return PolicyFile
}

// Compact computes the file-policy checksum of d.
func (c *FileCompactor) Compact(ctx context.Context, d *disk.Disk) (*Result, error) {
	return run(ctx, PolicyFile, c.opts, d, c.compactFiles)
}

func (c *FileCompactor) compactFiles(d *disk.Disk, t *tally, res *Result) {
	placements := d.Placements()
	classes := newSizeClasses(placements, d.Size())

	// Pruning relies on this loop visiting positions in decreasing order.
	for i := len(placements) - 1; i >= 0; i-- {
		p := placements[i]
		if !p.IsFile() || p.Length == 0 {
			continue
		}

		size := int(p.Length)
		final := p.Start
		if class, start, ok := classes.find(size, p.Start); ok {
			classes.allocate(class, start, size)
			final = start
			res.FilesRelocated++
			res.BlocksMoved += int64(size)
		}
		if !c.disablePruning {
			res.ClassesPruned += classes.prune(p.Start)
		}

		t.add(p.FileID, final, size)
	}
}
