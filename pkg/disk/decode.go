package disk

import (
	"strconv"
	"strings"
)

// Decode turns a sequence of run lengths into a Disk.
//
// Even positions are file lengths, odd positions free lengths. File ids are
// assigned densely in order. An odd number of digits ends with a file run;
// the missing free length counts as 0 and no run is stored for it.
func Decode(digits []uint8) (*Disk, error) {
	if len(digits) == 0 {
		return nil, malformed("decode", -1, "", "empty input")
	}

	runs := make([]Run, len(digits))
	for i, n := range digits {
		if n > MaxRunLength {
			return nil, malformed("decode", i, strconv.Itoa(int(n)), "run length must be a single decimal digit")
		}
		if i%2 == 0 {
			runs[i] = File(i/2, n)
		} else {
			runs[i] = Free(n)
		}
	}

	return New(runs)
}

// Parse decodes a textual disk map. Leading and trailing whitespace is
// trimmed; every remaining byte must be an ASCII decimal digit.
func Parse(s string) (*Disk, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, malformed("parse", -1, "", "empty input")
	}

	digits := make([]uint8, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return nil, malformed("parse", i, strconv.QuoteRune(rune(c)), "expected decimal digit")
		}
		digits[i] = c - '0'
	}

	return Decode(digits)
}
