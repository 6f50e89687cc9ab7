package disk

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// Decode / Parse Tests
// ============================================================================

func TestDecodeShortMap(t *testing.T) {
	d, err := Parse("12345")
	require.NoError(t, err)

	assert.Equal(t, []Run{File(0, 1), Free(2), File(1, 3), Free(4), File(2, 5)}, d.Runs())
	assert.Equal(t, int64(15), d.Size())
	assert.Equal(t, 3, d.Files())
	assert.Equal(t, int64(6), d.FreeBlocks())
	assert.Equal(t, 5, d.Len())

	starts := make([]int64, 0, d.Len())
	for _, p := range d.Placements() {
		starts = append(starts, p.Start)
	}
	assert.Equal(t, []int64{0, 1, 3, 6, 10}, starts)
}

func TestDecodeIsLossless(t *testing.T) {
	inputs := []string{"0", "9", "90", "12345", "2333133121414131402", "0000", "9999999999"}
	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			d, err := Parse(in)
			require.NoError(t, err)

			var sum int64
			for i := 0; i < len(in); i++ {
				sum += int64(in[i] - '0')
			}
			assert.Equal(t, sum, d.Size())
			assert.Equal(t, in, d.Encode())
			assert.Equal(t, in, d.String())
			assert.Len(t, d.Blocks(), int(sum))
		})
	}
}

func TestParseTrimsWhitespace(t *testing.T) {
	d, err := Parse("  2333133121414131402\n")
	require.NoError(t, err)
	assert.Equal(t, "2333133121414131402", d.Encode())
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name   string
		input  string
		offset int
		value  string
	}{
		{"Empty", "", -1, ""},
		{"OnlyWhitespace", " \n\t", -1, ""},
		{"Letter", "12x4", 2, "'x'"},
		{"Sign", "-1", 0, "'-'"},
		{"InnerSpace", "12 34", 2, "' '"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(tc.input)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedInput))

			var ie *InputError
			require.True(t, errors.As(err, &ie))
			assert.Equal(t, tc.offset, ie.Offset)
			assert.Equal(t, tc.value, ie.Value)
			assert.Contains(t, err.Error(), "malformed input")
		})
	}
}

func TestDecodeErrors(t *testing.T) {
	_, err := Decode(nil)
	assert.ErrorIs(t, err, ErrMalformedInput)

	_, err = Decode([]uint8{1, 2, 10})
	require.ErrorIs(t, err, ErrMalformedInput)
	var ie *InputError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, "decode", ie.Op)
	assert.Equal(t, 2, ie.Offset)
	assert.Equal(t, "10", ie.Value)
}

func TestNewValidation(t *testing.T) {
	cases := []struct {
		name string
		runs []Run
		ok   bool
	}{
		{"SingleFile", []Run{File(0, 3)}, true},
		{"TrailingFree", []Run{File(0, 3), Free(2)}, true},
		{"RepeatedIDs", []Run{File(4, 3), Free(0), File(4, 3)}, true},
		{"Empty", nil, false},
		{"StartsWithFree", []Run{Free(2), File(0, 1)}, false},
		{"TwoFiles", []Run{File(0, 1), File(1, 1)}, false},
		{"TooLong", []Run{File(0, 10)}, false},
		{"NegativeID", []Run{File(-2, 1)}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d, err := New(tc.runs)
			if tc.ok {
				require.NoError(t, err)
				assert.NotNil(t, d)
				return
			}
			assert.ErrorIs(t, err, ErrMalformedInput)
		})
	}
}

func TestNewClearsFreeRunIDs(t *testing.T) {
	d, err := New([]Run{File(1, 1), {Kind: KindFree, Length: 2, FileID: 9}})
	require.NoError(t, err)
	assert.Zero(t, d.Runs()[1].FileID)
}

func TestRunsIsACopy(t *testing.T) {
	d, err := Parse("123")
	require.NoError(t, err)

	runs := d.Runs()
	runs[0] = File(9, 9)
	assert.Equal(t, File(0, 1), d.Runs()[0])
}

func TestInputErrorMessage(t *testing.T) {
	err := &InputError{Op: "parse", Offset: 3, Value: "'x'", Reason: "expected decimal digit"}
	assert.Equal(t, "disk parse: malformed input: expected decimal digit (offset=3, value='x')", err.Error())

	err = &InputError{Op: "decode", Offset: -1, Reason: "empty input"}
	assert.Equal(t, "disk decode: malformed input: empty input", err.Error())
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "file", KindFile.String())
	assert.Equal(t, "free", KindFree.String())
	assert.Equal(t, "unknown", Kind(7).String())
}

// ============================================================================
// Checksum Tests
// ============================================================================

func TestTriangularMatchesBruteForce(t *testing.T) {
	for n := -1; n <= 40; n++ {
		var want uint64
		for k := 0; k < n; k++ {
			want += uint64(k)
		}
		assert.Equal(t, want, Triangular(n), "n=%d", n)
	}
}

func TestSpanChecksumMatchesBruteForce(t *testing.T) {
	for _, start := range []int64{0, 1, 7, 1000, 1 << 32} {
		for _, id := range []int{0, 1, 5, 9999} {
			for n := 0; n <= MaxRunLength; n++ {
				var want uint64
				for k := int64(0); k < int64(n); k++ {
					want += uint64(start+k) * uint64(id)
				}
				assert.Equal(t, want, SpanChecksum(id, start, n), "id=%d start=%d n=%d", id, start, n)
			}
		}
	}
}

func TestBlockChecksum(t *testing.T) {
	assert.Zero(t, BlockChecksum(nil))
	assert.Equal(t, uint64(1*1+3*2), BlockChecksum([]int{0, 1, FreeBlock, 2}))
}

// ============================================================================
// Layout Tests
// ============================================================================

func TestDiskLayout(t *testing.T) {
	d, err := Parse("1220304")
	require.NoError(t, err)

	l := d.Layout()
	assert.Equal(t, []Extent{{0, 1, 0}, {3, 2, 1}, {5, 3, 2}, {8, 4, 3}}, l.Extents)
	assert.Equal(t, int64(12), l.Size)
	assert.Equal(t, int64(10), l.Used())
	assert.Equal(t, "0..112223333", l.Render())
	assert.Equal(t, BlockChecksum(d.Blocks()), l.Checksum())
	assert.Equal(t, d.Blocks(), l.Blocks())
}
