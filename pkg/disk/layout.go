package disk

import (
	"fmt"
	"slices"
	"strings"
)

// Extent is a contiguous span of blocks owned by one file.
type Extent struct {
	Start  int64 `json:"start" yaml:"start"`
	Length int   `json:"length" yaml:"length"`
	FileID int   `json:"file_id" yaml:"file_id"`
}

// End returns the exclusive end offset of the extent.
func (e Extent) End() int64 {
	return e.Start + int64(e.Length)
}

// Layout is the placement of file blocks on a disk of Size blocks. Any
// block not covered by an extent is free.
type Layout struct {
	Size    int64    `json:"size" yaml:"size"`
	Extents []Extent `json:"extents" yaml:"extents"`
}

// LayoutFromBlocks builds a normalized Layout from a materialized block array.
func LayoutFromBlocks(blocks []int) *Layout {
	l := &Layout{Size: int64(len(blocks))}
	for i := 0; i < len(blocks); {
		id := blocks[i]
		j := i + 1
		for j < len(blocks) && blocks[j] == id {
			j++
		}
		if id != FreeBlock {
			l.Extents = append(l.Extents, Extent{Start: int64(i), Length: j - i, FileID: id})
		}
		i = j
	}
	return l
}

// Normalize sorts extents by offset, drops empty ones and merges touching
// extents of the same file, so that equal block placements compare equal.
func (l *Layout) Normalize() {
	slices.SortFunc(l.Extents, func(a, b Extent) int {
		switch {
		case a.Start < b.Start:
			return -1
		case a.Start > b.Start:
			return 1
		default:
			return 0
		}
	})

	out := l.Extents[:0]
	for _, e := range l.Extents {
		if e.Length == 0 {
			continue
		}
		if n := len(out); n > 0 && out[n-1].FileID == e.FileID && out[n-1].End() == e.Start {
			out[n-1].Length += e.Length
			continue
		}
		out = append(out, e)
	}
	if len(out) == 0 {
		out = nil
	}
	l.Extents = out
}

// Used returns the number of occupied blocks.
func (l *Layout) Used() int64 {
	var n int64
	for _, e := range l.Extents {
		n += int64(e.Length)
	}
	return n
}

// Checksum returns Σ offset×id over every occupied block.
func (l *Layout) Checksum() uint64 {
	var sum uint64
	for _, e := range l.Extents {
		sum += SpanChecksum(e.FileID, e.Start, e.Length)
	}
	return sum
}

// Blocks materializes the layout as one slot per block.
func (l *Layout) Blocks() []int {
	blocks := make([]int, l.Size)
	for i := range blocks {
		blocks[i] = FreeBlock
	}
	for _, e := range l.Extents {
		for i := e.Start; i < e.End(); i++ {
			blocks[i] = e.FileID
		}
	}
	return blocks
}

// blockGlyph renders one block: ids 0-35 as 0-9a-z, larger ids as '#'.
func blockGlyph(id int) byte {
	switch {
	case id == FreeBlock:
		return '.'
	case id < 10:
		return byte('0' + id)
	case id < 36:
		return byte('a' + id - 10)
	default:
		return '#'
	}
}

// Render draws the layout as a block map, e.g. "0099811188827773336446555566..............".
func (l *Layout) Render() string {
	var b strings.Builder
	b.Grow(int(l.Size))
	for _, id := range l.Blocks() {
		b.WriteByte(blockGlyph(id))
	}
	return b.String()
}

// RenderLines splits Render into lines of at most width blocks.
func (l *Layout) RenderLines(width int) []string {
	s := l.Render()
	if width <= 0 || len(s) <= width {
		return []string{s}
	}
	lines := make([]string, 0, (len(s)+width-1)/width)
	for len(s) > width {
		lines = append(lines, s[:width])
		s = s[width:]
	}
	return append(lines, s)
}

// Disk rebuilds a run-length disk from the layout. Extents keep their file
// ids. Touching extents are separated by empty free runs, and extents or
// gaps longer than MaxRunLength are split using empty runs, so the rebuilt
// disk has exactly the same block placement.
func (l *Layout) Disk() (*Disk, error) {
	extents := slices.Clone(l.Extents)
	tmp := Layout{Size: l.Size, Extents: extents}
	tmp.Normalize()

	b := runBuilder{}
	var cursor int64
	for i, e := range tmp.Extents {
		if e.Start < cursor || e.End() > l.Size {
			return nil, malformed("layout", i, fmt.Sprintf("file %d at %d+%d", e.FileID, e.Start, e.Length),
				"extent overlaps or exceeds disk size")
		}
		b.free(e.Start - cursor)
		b.file(e.FileID, int64(e.Length))
		cursor = e.End()
	}
	b.free(l.Size - cursor)
	if len(b.runs) == 0 {
		b.runs = append(b.runs, File(0, 0))
	}

	return New(b.runs)
}

// runBuilder appends runs while keeping strict File/Free alternation.
type runBuilder struct {
	runs []Run
}

func (b *runBuilder) lastKind() (Kind, bool) {
	if len(b.runs) == 0 {
		return 0, false
	}
	return b.runs[len(b.runs)-1].Kind, true
}

func (b *runBuilder) file(id int, n int64) {
	for {
		if k, ok := b.lastKind(); ok && k == KindFile {
			b.runs = append(b.runs, Free(0))
		}
		chunk := min(n, MaxRunLength)
		b.runs = append(b.runs, File(id, uint8(chunk)))
		n -= chunk
		if n == 0 {
			return
		}
	}
}

func (b *runBuilder) free(n int64) {
	for n > 0 {
		k, ok := b.lastKind()
		if !ok || k == KindFree {
			b.runs = append(b.runs, File(0, 0))
		}
		chunk := min(n, MaxRunLength)
		b.runs = append(b.runs, Free(uint8(chunk)))
		n -= chunk
	}
}
