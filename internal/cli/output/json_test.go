package output

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marmos91/defrag/pkg/compact"
	"github.com/marmos91/defrag/pkg/disk"
)

func TestPrintJSONResult(t *testing.T) {
	r := &compact.Result{
		Policy:   compact.PolicyFile,
		Checksum: 2858,
		Layout:   &disk.Layout{Size: 4, Extents: []disk.Extent{{Start: 0, Length: 2, FileID: 0}}},
	}

	var buf bytes.Buffer
	require.NoError(t, PrintJSON(&buf, r))

	output := buf.String()
	assert.Contains(t, output, `"policy": "file"`)
	assert.Contains(t, output, `"checksum": 2858`)
	assert.Contains(t, output, `"file_id": 0`)
	assert.Contains(t, output, `"map": "00.."`)

	var decoded compact.Result
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, r.Layout, decoded.Layout)
}

func TestPrintJSONResultTable(t *testing.T) {
	table := ResultTable{
		{Policy: compact.PolicyBlock, Checksum: 1928},
		{Policy: compact.PolicyFile, Checksum: 2858},
	}

	var buf bytes.Buffer
	require.NoError(t, PrintJSON(&buf, table))
	assert.NotContains(t, buf.String(), `"map"`)

	var decoded []compact.Result
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, uint64(2858), decoded[1].Checksum)
}

func TestPrintJSONPassesOtherData(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintJSON(&buf, map[string]int{"files": 3}))
	assert.JSONEq(t, `{"files": 3}`, buf.String())
}
