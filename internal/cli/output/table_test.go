package output

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marmos91/defrag/pkg/compact"
)

func TestTableData(t *testing.T) {
	table := NewTableData("Check", "Status")

	assert.Equal(t, []string{"Check", "Status"}, table.Headers())
	assert.Empty(t, table.Rows())

	table.AddRow("block checksum", "ok")
	table.AddRow("file checksum", "ok")

	rows := table.Rows()
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"block checksum", "ok"}, rows[0])
}

func TestResultTable(t *testing.T) {
	results := ResultTable{
		{Policy: compact.PolicyBlock, Checksum: 1928, BlocksMoved: 12, Fragments: 7, Duration: 250 * time.Microsecond},
		{Policy: compact.PolicyFile, Checksum: 2858, BlocksMoved: 8, FilesRelocated: 4, ClassesPruned: 6, Duration: 2 * time.Millisecond},
	}

	assert.Len(t, results.Alignments(), len(results.Headers()))
	assert.Equal(t, tablewriter.ALIGN_LEFT, results.Alignments()[0])
	assert.Equal(t, [][]string{
		{"block", "1928", "12", "0", "7", "0", "250.0µs"},
		{"file", "2858", "8", "4", "0", "6", "2.00ms"},
	}, results.Rows())

	var buf bytes.Buffer
	require.NoError(t, PrintTable(&buf, results))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "POLICY")
	assert.Contains(t, lines[0], "BLOCKS MOVED")
	assert.Contains(t, lines[1], "1928")
	assert.Contains(t, lines[2], "2858")
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "0.5µs", FormatDuration(500*time.Nanosecond))
	assert.Equal(t, "12.34ms", FormatDuration(12340*time.Microsecond))
	assert.Equal(t, "2.5s", FormatDuration(2500*time.Millisecond))
}

func TestSimpleTable(t *testing.T) {
	pairs := [][2]string{
		{"Blocks", "42"},
		{"Free", "14"},
	}

	var buf bytes.Buffer
	require.NoError(t, SimpleTable(&buf, pairs))

	output := buf.String()
	assert.Contains(t, output, "Blocks")
	assert.Contains(t, output, "42")
	assert.Contains(t, output, "Free")
}
