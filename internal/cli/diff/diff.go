// Package diff renders line diffs between two block maps, used by the
// verify command to show where two engines disagree.
package diff

import (
	"github.com/pmezard/go-difflib/difflib"

	"github.com/marmos91/defrag/pkg/disk"
)

// DefaultWidth is the number of blocks per diff line when none is given.
const DefaultWidth = 64

// Layouts returns a unified diff of two layouts rendered as block maps of
// width blocks per line. It returns "" when both render the same.
func Layouts(fromName, toName string, from, to *disk.Layout, width int) (string, error) {
	if width <= 0 {
		width = DefaultWidth
	}
	return Lines(fromName, toName, from.RenderLines(width), to.RenderLines(width))
}

// Lines returns a unified diff with one line of context.
func Lines(fromName, toName string, from, to []string) (string, error) {
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        withNewlines(from),
		B:        withNewlines(to),
		FromFile: fromName,
		ToFile:   toName,
		Context:  1,
	})
}

func withNewlines(lines []string) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l + "\n"
	}
	return out
}
