package logger

import (
	"log/slog"
)

// Standard field keys for structured logging.
const (
	// Correlation
	KeyRunID   = "run_id"   // Per-invocation id, shared by every record of one CLI run
	KeyTraceID = "trace_id" // OpenTelemetry trace ID
	KeySpanID  = "span_id"  // OpenTelemetry span ID

	// Input
	KeyInput  = "input"  // Input source: file path or "stdin"
	KeyDigits = "digits" // Number of digits in the disk map
	KeyRuns   = "runs"   // Number of runs in the decoded disk
	KeyFiles  = "files"  // Number of files on the disk
	KeyBlocks = "blocks" // Disk size in blocks
	KeyFree   = "free"   // Free blocks before compaction

	// Compaction
	KeyPolicy         = "policy"          // Compaction policy: block, file
	KeyChecksum       = "checksum"        // Resulting checksum
	KeyBlocksMoved    = "blocks_moved"    // Blocks written at a new offset
	KeyFilesRelocated = "files_relocated" // Whole files moved (file policy)
	KeyFragments      = "fragments"       // Moved chunks (block policy)
	KeyClassesPruned  = "classes_pruned"  // Size classes discarded (file policy)
	KeySizeClass      = "size_class"      // Free-list size class
	KeyOffset         = "offset"          // Block offset

	// Operation metadata
	KeyDurationMs = "duration_ms" // Operation duration in milliseconds
	KeyError      = "error"       // Error message
	KeyPath       = "path"        // Config or output file path
)

// RunID returns a slog attribute for the run id
func RunID(id string) slog.Attr {
	return slog.String(KeyRunID, id)
}

// Input returns a slog attribute for the input source
func Input(name string) slog.Attr {
	return slog.String(KeyInput, name)
}

// Policy returns a slog attribute for the compaction policy
func Policy(name string) slog.Attr {
	return slog.String(KeyPolicy, name)
}

// Checksum returns a slog attribute for a checksum
func Checksum(sum uint64) slog.Attr {
	return slog.Uint64(KeyChecksum, sum)
}

// Blocks returns a slog attribute for a disk size in blocks
func Blocks(n int64) slog.Attr {
	return slog.Int64(KeyBlocks, n)
}

// DurationMs returns a slog attribute for a duration in milliseconds
func DurationMs(ms float64) slog.Attr {
	return slog.Float64(KeyDurationMs, ms)
}

// Err returns a slog attribute for an error. A nil error yields an empty
// attribute, which handlers drop.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String(KeyError, err.Error())
}
