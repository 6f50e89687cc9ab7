package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marmos91/defrag/pkg/compact"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Format
		wantErr bool
	}{
		{name: "table", input: "table", want: FormatTable},
		{name: "empty defaults to table", input: "", want: FormatTable},
		{name: "json", input: "json", want: FormatJSON},
		{name: "JSON uppercase", input: "JSON", want: FormatJSON},
		{name: "yaml", input: "yaml", want: FormatYAML},
		{name: "yml alias", input: "yml", want: FormatYAML},
		{name: "whitespace trimmed", input: "  table  ", want: FormatTable},
		{name: "invalid format", input: "csv", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if tt.wantErr {
				assert.ErrorContains(t, err, "invalid output format")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPrinterStructured(t *testing.T) {
	assert.False(t, NewPrinter(nil, FormatTable, false).IsStructured())
	assert.True(t, NewPrinter(nil, FormatJSON, false).IsStructured())
	assert.True(t, NewPrinter(nil, FormatYAML, false).IsStructured())
}

func TestPrinterPrint(t *testing.T) {
	results := ResultTable{{Policy: compact.PolicyBlock, Checksum: 1928, BlocksMoved: 12, Fragments: 7}}

	t.Run("TableRenderer", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewPrinter(&buf, FormatTable, false).Print(results))
		assert.Contains(t, buf.String(), "CHECKSUM")
		assert.Contains(t, buf.String(), "1928")
	})

	t.Run("TableFallsBackToYAML", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewPrinter(&buf, FormatTable, false).Print(map[string]int{"checksum": 1928}))
		assert.Equal(t, "checksum: 1928\n", buf.String())
	})

	t.Run("JSON", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewPrinter(&buf, FormatJSON, false).Print(results))
		assert.Contains(t, buf.String(), `"checksum": 1928`)
		assert.NotContains(t, buf.String(), `"layout"`)
	})

	t.Run("UnknownFormat", func(t *testing.T) {
		var buf bytes.Buffer
		assert.Error(t, NewPrinter(&buf, Format("xml"), false).Print(results))
	})
}

func TestPrinterStatusLines(t *testing.T) {
	var plain bytes.Buffer
	p := NewPrinter(&plain, FormatTable, false)
	p.Success("block: ok")
	p.Warning("file: slow")
	p.Error("block: mismatch")
	p.Printf("%d blocks\n", 42)
	assert.Equal(t, "block: ok\nfile: slow\nblock: mismatch\n42 blocks\n", plain.String())

	var colored bytes.Buffer
	NewPrinter(&colored, FormatTable, true).Success("block: ok")
	assert.Equal(t, colorGreen+"block: ok"+colorReset+"\n", colored.String())
}

func TestDefaultPrinter(t *testing.T) {
	printer := DefaultPrinter()
	assert.NotNil(t, printer)
	assert.Equal(t, FormatTable, printer.Format())
	assert.True(t, printer.ColorEnabled())
	assert.NotNil(t, printer.Writer())
}
