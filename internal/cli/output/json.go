package output

import (
	"encoding/json"
	"io"
)

// PrintJSON writes data as indented JSON. Compaction results carry their
// rendered block map next to the extents.
func PrintJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(document(data))
}
