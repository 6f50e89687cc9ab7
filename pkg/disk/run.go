package disk

// Kind identifies whether a run holds file blocks or free space.
type Kind uint8

const (
	// KindFile is a run of blocks owned by a single file.
	KindFile Kind = iota
	// KindFree is a run of unallocated blocks.
	KindFree
)

// MaxRunLength is the largest run a decoded disk can carry. Input digits are
// single decimal digits, so no run exceeds 9 blocks.
const MaxRunLength = 9

// FreeBlock marks an unallocated slot in a materialized block array.
const FreeBlock = -1

func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindFree:
		return "free"
	default:
		return "unknown"
	}
}

// Run is one run-length entry of the disk map.
//
// FileID is only meaningful for KindFile runs. Decoded disks assign dense ids
// in run order; disks rebuilt from a compacted Layout keep the ids they had
// before compaction, so the same id may appear on more than one run.
type Run struct {
	Kind   Kind
	Length uint8
	FileID int
}

// File returns a file run of the given length.
func File(id int, length uint8) Run {
	return Run{Kind: KindFile, Length: length, FileID: id}
}

// Free returns a free run of the given length.
func Free(length uint8) Run {
	return Run{Kind: KindFree, Length: length}
}

// IsFile reports whether the run holds file blocks.
func (r Run) IsFile() bool {
	return r.Kind == KindFile
}

// Placement is a run annotated with the offset of its first block.
type Placement struct {
	Run
	Start int64
}

// End returns the exclusive end offset of the placement.
func (p Placement) End() int64 {
	return p.Start + int64(p.Length)
}
