package output

import (
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/marmos91/defrag/pkg/compact"
)

// ResultTable renders compaction results, one row per policy.
type ResultTable []*compact.Result

// Headers implements TableRenderer.
func (t ResultTable) Headers() []string {
	return []string{"Policy", "Checksum", "Blocks Moved", "Files Relocated", "Fragments", "Classes Pruned", "Duration"}
}

// Rows implements TableRenderer.
func (t ResultTable) Rows() [][]string {
	rows := make([][]string, 0, len(t))
	for _, r := range t {
		rows = append(rows, []string{
			string(r.Policy),
			strconv.FormatUint(r.Checksum, 10),
			strconv.FormatInt(r.BlocksMoved, 10),
			strconv.Itoa(r.FilesRelocated),
			strconv.Itoa(r.Fragments),
			strconv.Itoa(r.ClassesPruned),
			FormatDuration(r.Duration),
		})
	}
	return rows
}

// Alignments implements ColumnAligner: numbers are right-aligned.
func (t ResultTable) Alignments() []int {
	right := tablewriter.ALIGN_RIGHT
	return []int{tablewriter.ALIGN_LEFT, right, right, right, right, right, right}
}

// FormatDuration renders a run duration with a precision that suits it:
// microseconds below 1ms, milliseconds otherwise.
func FormatDuration(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return strconv.FormatFloat(float64(d.Nanoseconds())/1e3, 'f', 1, 64) + "µs"
	case d < time.Second:
		return strconv.FormatFloat(float64(d.Microseconds())/1e3, 'f', 2, 64) + "ms"
	default:
		return d.Round(time.Millisecond).String()
	}
}
