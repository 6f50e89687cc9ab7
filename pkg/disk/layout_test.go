package disk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLayoutFromBlocks(t *testing.T) {
	f := FreeBlock
	l := LayoutFromBlocks([]int{0, 0, 9, 9, 8, f, 1, 1, f, f})

	assert.Equal(t, int64(10), l.Size)
	assert.Equal(t, []Extent{{0, 2, 0}, {2, 2, 9}, {4, 1, 8}, {6, 2, 1}}, l.Extents)
	assert.Equal(t, "00998.11..", l.Render())

	assert.Nil(t, LayoutFromBlocks([]int{f, f}).Extents)
}

func TestNormalize(t *testing.T) {
	l := &Layout{Size: 20, Extents: []Extent{
		{Start: 6, Length: 2, FileID: 4},
		{Start: 0, Length: 3, FileID: 4},
		{Start: 3, Length: 0, FileID: 7},
		{Start: 3, Length: 3, FileID: 4},
		{Start: 8, Length: 1, FileID: 5},
	}}
	l.Normalize()

	assert.Equal(t, []Extent{{0, 8, 4}, {8, 1, 5}}, l.Extents)
	assert.Equal(t, int64(9), l.Used())
}

func TestBlockGlyph(t *testing.T) {
	assert.Equal(t, byte('.'), blockGlyph(FreeBlock))
	assert.Equal(t, byte('7'), blockGlyph(7))
	assert.Equal(t, byte('a'), blockGlyph(10))
	assert.Equal(t, byte('z'), blockGlyph(35))
	assert.Equal(t, byte('#'), blockGlyph(36))
}

func TestRenderLines(t *testing.T) {
	l := &Layout{Size: 7, Extents: []Extent{{Start: 1, Length: 3, FileID: 2}}}

	assert.Equal(t, []string{".222..."}, l.RenderLines(0))
	assert.Equal(t, []string{".222..."}, l.RenderLines(7))
	assert.Equal(t, []string{".22", "2..", "."}, l.RenderLines(3))
}

func TestLayoutDisk(t *testing.T) {
	t.Run("RoundTripsDecodedDisk", func(t *testing.T) {
		d, err := Parse("2333133121414131402")
		require.NoError(t, err)

		rebuilt, err := d.Layout().Disk()
		require.NoError(t, err)
		assert.Equal(t, d.Blocks(), rebuilt.Blocks())
	})

	t.Run("SplitsLongExtentsAndGaps", func(t *testing.T) {
		l := &Layout{Size: 40, Extents: []Extent{
			{Start: 0, Length: 12, FileID: 3},
			{Start: 12, Length: 2, FileID: 5},
			{Start: 25, Length: 1, FileID: 1},
		}}

		d, err := l.Disk()
		require.NoError(t, err)
		assert.Equal(t, l.Blocks(), d.Blocks())
		assert.Equal(t, l.Checksum(), d.Layout().Checksum())
		assert.Equal(t, int64(40), d.Size())
		for _, r := range d.Runs() {
			assert.LessOrEqual(t, int(r.Length), MaxRunLength)
		}
	})

	t.Run("LeadingGap", func(t *testing.T) {
		l := &Layout{Size: 5, Extents: []Extent{{Start: 3, Length: 2, FileID: 1}}}
		d, err := l.Disk()
		require.NoError(t, err)
		assert.Equal(t, "...11", LayoutFromBlocks(d.Blocks()).Render())
		assert.Equal(t, File(0, 0), d.Runs()[0])
	})

	t.Run("EmptyLayout", func(t *testing.T) {
		d, err := (&Layout{}).Disk()
		require.NoError(t, err)
		assert.Equal(t, []Run{File(0, 0)}, d.Runs())
	})

	t.Run("DoesNotReorderCaller", func(t *testing.T) {
		l := &Layout{Size: 4, Extents: []Extent{{2, 1, 2}, {0, 1, 1}}}
		_, err := l.Disk()
		require.NoError(t, err)
		assert.Equal(t, int64(2), l.Extents[0].Start)
	})

	t.Run("RejectsOverlap", func(t *testing.T) {
		l := &Layout{Size: 10, Extents: []Extent{{0, 4, 1}, {2, 2, 2}}}
		_, err := l.Disk()
		require.ErrorIs(t, err, ErrMalformedInput)

		var ie *InputError
		require.ErrorAs(t, err, &ie)
		assert.Equal(t, "layout", ie.Op)
	})

	t.Run("RejectsOutOfBounds", func(t *testing.T) {
		l := &Layout{Size: 3, Extents: []Extent{{2, 4, 1}}}
		_, err := l.Disk()
		assert.ErrorIs(t, err, ErrMalformedInput)
	})
}
