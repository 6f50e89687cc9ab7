// Package reference holds naive implementations of the compaction policies.
//
// The block policy materializes the disk one slot per block and moves blocks
// one at a time; the file policy rescans a plain list of free runs for every
// file. Both are slow but easy to check by eye. They exist to
// cross-check the run-length engines in package compact and back the
// verify command; nothing else should depend on them.
package reference

import (
	"github.com/marmos91/defrag/pkg/disk"
)

// BlockLayout compacts d block by block: the rightmost occupied block moves
// into the leftmost free block until no free block precedes an occupied one.
func BlockLayout(d *disk.Disk) *disk.Layout {
	blocks := d.Blocks()

	left, right := 0, len(blocks)-1
	for {
		for left < len(blocks) && blocks[left] != disk.FreeBlock {
			left++
		}
		for right >= 0 && blocks[right] == disk.FreeBlock {
			right--
		}
		if left >= right {
			break
		}
		blocks[left], blocks[right] = blocks[right], disk.FreeBlock
	}

	return disk.LayoutFromBlocks(blocks)
}

// FileLayout compacts d file by file. File runs are visited from the last
// to the first; each moves to the leftmost free run that can still hold it,
// if that run starts before the file. Free runs are the ones written in the
// disk map: two runs separated by an empty file are two gaps.
func FileLayout(d *disk.Disk) *disk.Layout {
	placements := d.Placements()

	var gaps []gap
	for _, p := range placements {
		if !p.IsFile() && p.Length > 0 {
			gaps = append(gaps, gap{start: p.Start, length: int(p.Length)})
		}
	}

	l := &disk.Layout{Size: d.Size()}
	for i := len(placements) - 1; i >= 0; i-- {
		p := placements[i]
		if !p.IsFile() || p.Length == 0 {
			continue
		}

		size := int(p.Length)
		final := p.Start
		if k, ok := leftmostGap(gaps, size, p.Start); ok {
			final = gaps[k].start
			gaps[k].start += int64(size)
			gaps[k].length -= size
		}
		l.Extents = append(l.Extents, disk.Extent{Start: final, Length: size, FileID: p.FileID})
	}

	// Extents are kept per file run rather than read back from blocks: with
	// repeated file ids two touching runs would merge into one.
	l.Normalize()
	return l
}

// gap is what remains of one free run.
type gap struct {
	start  int64
	length int
}

// leftmostGap returns the index of the first gap with room for size blocks
// that begins before limit. Gaps are in offset order and allocation only
// trims their front, so the order holds for the whole run.
func leftmostGap(gaps []gap, size int, limit int64) (int, bool) {
	for k, g := range gaps {
		if g.start >= limit {
			break
		}
		if g.length >= size {
			return k, true
		}
	}
	return 0, false
}

// BlockChecksum is the checksum of BlockLayout.
func BlockChecksum(d *disk.Disk) uint64 {
	return disk.BlockChecksum(BlockLayout(d).Blocks())
}

// FileChecksum is the checksum of FileLayout.
func FileChecksum(d *disk.Disk) uint64 {
	return disk.BlockChecksum(FileLayout(d).Blocks())
}
