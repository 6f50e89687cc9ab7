package disk

import (
	"errors"
	"fmt"
)

// ErrMalformedInput indicates the disk description cannot be decoded: a
// non-digit character, an empty input, a run length outside 0..9, or a run
// sequence that does not alternate File/Free starting with File.
//
// Decoding is deterministic, so callers should never retry on this error.
var ErrMalformedInput = errors.New("malformed input")

// InputError wraps ErrMalformedInput with the location of the defect.
//
//	_, err := disk.Parse("12x4")
//	errors.Is(err, disk.ErrMalformedInput) // true
//
// Offset is the byte offset (Parse), digit index (Decode), run index (New) or
// extent index (Layout.Disk) at fault, or -1 when the whole input is at fault.
type InputError struct {
	// Op is the operation that rejected the input: "parse", "decode", "new" or "layout".
	Op string

	// Offset locates the offending element within the input.
	Offset int

	// Value is a printable rendering of the offending element.
	Value string

	// Reason describes what was expected.
	Reason string
}

func (e *InputError) Error() string {
	if e.Offset < 0 {
		return fmt.Sprintf("disk %s: %s: %s", e.Op, ErrMalformedInput, e.Reason)
	}
	return fmt.Sprintf("disk %s: %s: %s (offset=%d, value=%s)",
		e.Op, ErrMalformedInput, e.Reason, e.Offset, e.Value)
}

// Unwrap returns ErrMalformedInput so errors.Is matches through InputError.
func (e *InputError) Unwrap() error {
	return ErrMalformedInput
}

func malformed(op string, offset int, value, reason string) error {
	return &InputError{Op: op, Offset: offset, Value: value, Reason: reason}
}
