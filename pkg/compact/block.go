package compact

import (
	"context"

	"github.com/marmos91/defrag/pkg/disk"
)

// BlockCompactor implements PolicyBlock.
//
// Blocks are taken one span at a time from the rightmost file that still has
// blocks to move and written into the leftmost free gap, until the two ends
// of the disk meet. The run slice is walked from both ends with two indexes,
// so the cost is linear in the number of runs, not blocks.
type BlockCompactor struct {
	opts Options
}

// NewBlockCompactor returns a block-policy compactor.
func NewBlockCompactor(opts Options) *BlockCompactor {
	return &BlockCompactor{opts: opts}
}

// Policy returns PolicyBlock.
func (c *BlockCompactor) Policy() Policy {
	return PolicyBlock
}

// Compact computes the block-policy checksum of d.
func (c *BlockCompactor) Compact(ctx context.Context, d *disk.Disk) (*Result, error) {
	return run(ctx, PolicyBlock, c.opts, d, compactBlocks)
}

func compactBlocks(d *disk.Disk, t *tally, res *Result) {
	runs := d.Placements()

	// Runs alternate File/Free from index 0, so file runs sit at even
	// indexes. right is the rightmost file still holding unmoved blocks.
	right := len(runs) - 1
	if right%2 == 1 {
		right--
	}
	toMove := int(runs[right].Length)

	var blockID int64
	left := 0
	for left < right {
		file := runs[left]
		t.add(file.FileID, blockID, int(file.Length))
		blockID += int64(file.Length)

		free := int(runs[left+1].Length)
		for free > 0 {
			if toMove == 0 {
				right -= 2
				if right <= left {
					break
				}
				toMove = int(runs[right].Length)
				continue
			}

			n := min(free, toMove)
			t.add(runs[right].FileID, blockID, n)
			blockID += int64(n)
			free -= n
			toMove -= n
			res.BlocksMoved += int64(n)
			res.Fragments++
		}
		left += 2
	}

	// The ends met on a file whose tail was moved out; what is left of it
	// stays where it is.
	if left == right {
		t.add(runs[right].FileID, blockID, toMove)
	}
}
