// Package disk models a block device described as a run-length map.
//
// A disk map is an ordered sequence of runs that alternate between file
// blocks and free space, starting with a file run:
//
//	"12345" → File(1) Free(2) File(3) Free(4) File(5)
//	           id 0            id 1            id 2
//
// Every run owns the half-open offset interval [start, start+length); the
// intervals are contiguous and cover [0, Size) exactly once. The package
// never needs a per-block array to reason about offsets: Placements returns
// the cumulative start offsets computed once at construction.
//
// A Disk is immutable after construction and safe to read from multiple
// goroutines.
package disk

import (
	"strconv"
	"strings"
)

// Disk is an immutable, validated run-length disk map.
type Disk struct {
	placements []Placement
	size       int64
	files      int
	free       int64
}

// New builds a Disk from explicit runs.
//
// The runs must be non-empty, start with a file run, alternate strictly
// between file and free runs, have lengths within 0..MaxRunLength and carry
// non-negative file ids. A trailing free run is optional.
func New(runs []Run) (*Disk, error) {
	if len(runs) == 0 {
		return nil, malformed("new", -1, "", "disk has no runs")
	}

	d := &Disk{placements: make([]Placement, len(runs))}
	var offset int64
	for i, r := range runs {
		want := KindFile
		if i%2 == 1 {
			want = KindFree
		}
		if r.Kind != want {
			return nil, malformed("new", i, r.Kind.String(), "expected "+want.String()+" run")
		}
		if r.Length > MaxRunLength {
			return nil, malformed("new", i, strconv.Itoa(int(r.Length)), "run length must be within 0..9")
		}
		if r.Kind == KindFile {
			if r.FileID < 0 {
				return nil, malformed("new", i, strconv.Itoa(r.FileID), "file id must not be negative")
			}
			d.files++
		} else {
			r.FileID = 0
			d.free += int64(r.Length)
		}

		d.placements[i] = Placement{Run: r, Start: offset}
		offset += int64(r.Length)
	}
	d.size = offset

	return d, nil
}

// Size returns the total number of blocks on the disk.
func (d *Disk) Size() int64 {
	return d.size
}

// Files returns the number of file runs, including empty ones.
func (d *Disk) Files() int {
	return d.files
}

// FreeBlocks returns the number of free blocks.
func (d *Disk) FreeBlocks() int64 {
	return d.free
}

// Len returns the number of runs.
func (d *Disk) Len() int {
	return len(d.placements)
}

// Runs returns a copy of the run sequence.
func (d *Disk) Runs() []Run {
	runs := make([]Run, len(d.placements))
	for i, p := range d.placements {
		runs[i] = p.Run
	}
	return runs
}

// Placements returns every run with its start offset. The returned slice is
// shared with the Disk and must not be modified.
func (d *Disk) Placements() []Placement {
	return d.placements
}

// Encode returns the digit string describing the disk. Parse(d.Encode())
// yields an equal disk for any decoded input.
func (d *Disk) Encode() string {
	var b strings.Builder
	b.Grow(len(d.placements))
	for _, p := range d.placements {
		b.WriteByte('0' + p.Length)
	}
	return b.String()
}

// String implements fmt.Stringer.
func (d *Disk) String() string {
	return d.Encode()
}

// Blocks materializes the disk as one slot per block, holding the owning
// file id or FreeBlock. Only reference code and rendering should need this.
func (d *Disk) Blocks() []int {
	blocks := make([]int, d.size)
	for _, p := range d.placements {
		id := FreeBlock
		if p.IsFile() {
			id = p.FileID
		}
		for i := p.Start; i < p.End(); i++ {
			blocks[i] = id
		}
	}
	return blocks
}

// Layout returns the uncompacted file extents of the disk.
func (d *Disk) Layout() *Layout {
	l := &Layout{Size: d.size, Extents: make([]Extent, 0, d.files)}
	for _, p := range d.placements {
		if p.IsFile() && p.Length > 0 {
			l.Extents = append(l.Extents, Extent{Start: p.Start, Length: int(p.Length), FileID: p.FileID})
		}
	}
	return l
}
