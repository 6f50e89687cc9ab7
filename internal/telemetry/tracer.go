package telemetry

import (
	"strconv"

	"go.opentelemetry.io/otel/attribute"
)

// Attribute keys for compaction spans.
const (
	AttrRunID          = "defrag.run_id"
	AttrInput          = "defrag.input"
	AttrPolicy         = "defrag.policy"
	AttrDiskBlocks     = "disk.blocks"
	AttrDiskRuns       = "disk.runs"
	AttrDiskFiles      = "disk.files"
	AttrDiskFree       = "disk.free_blocks"
	AttrChecksum       = "compact.checksum"
	AttrBlocksMoved    = "compact.blocks_moved"
	AttrFilesRelocated = "compact.files_relocated"
	AttrFragments      = "compact.fragments"
	AttrClassesPruned  = "compact.classes_pruned"
)

// Span names.
const (
	SpanCompactBlock = "compact.block"
	SpanCompactFile  = "compact.file"
	SpanVerify       = "compact.verify"
	SpanReference    = "compact.reference"
)

// RunID returns an attribute for the CLI invocation id
func RunID(id string) attribute.KeyValue {
	return attribute.String(AttrRunID, id)
}

// Input returns an attribute for the input source (file path or "stdin")
func Input(name string) attribute.KeyValue {
	return attribute.String(AttrInput, name)
}

// Policy returns an attribute for the compaction policy name
func Policy(name string) attribute.KeyValue {
	return attribute.String(AttrPolicy, name)
}

// DiskBlocks returns an attribute for the disk size in blocks
func DiskBlocks(n int64) attribute.KeyValue {
	return attribute.Int64(AttrDiskBlocks, n)
}

// DiskRuns returns an attribute for the number of runs in the disk map
func DiskRuns(n int) attribute.KeyValue {
	return attribute.Int(AttrDiskRuns, n)
}

// DiskFiles returns an attribute for the number of files on the disk
func DiskFiles(n int) attribute.KeyValue {
	return attribute.Int(AttrDiskFiles, n)
}

// DiskFree returns an attribute for the number of free blocks
func DiskFree(n int64) attribute.KeyValue {
	return attribute.Int64(AttrDiskFree, n)
}

// Checksum returns an attribute for a checksum. Checksums are unsigned
// 64-bit values, so they are recorded as decimal strings.
func Checksum(sum uint64) attribute.KeyValue {
	return attribute.String(AttrChecksum, strconv.FormatUint(sum, 10))
}

// BlocksMoved returns an attribute for the number of relocated blocks
func BlocksMoved(n int64) attribute.KeyValue {
	return attribute.Int64(AttrBlocksMoved, n)
}

// FilesRelocated returns an attribute for the number of relocated files
func FilesRelocated(n int) attribute.KeyValue {
	return attribute.Int(AttrFilesRelocated, n)
}

// Fragments returns an attribute for the number of moved fragments
func Fragments(n int) attribute.KeyValue {
	return attribute.Int(AttrFragments, n)
}

// ClassesPruned returns an attribute for the number of discarded size classes
func ClassesPruned(n int) attribute.KeyValue {
	return attribute.Int(AttrClassesPruned, n)
}
