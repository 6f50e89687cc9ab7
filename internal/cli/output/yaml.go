package output

import (
	"io"

	"gopkg.in/yaml.v3"
)

// PrintYAML writes data as YAML with two-space indentation. Compaction
// results are emitted like PrintJSON emits them; durations keep their
// time.Duration spelling ("1.5ms").
func PrintYAML(w io.Writer, data any) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(document(data)); err != nil {
		_ = encoder.Close()
		return err
	}
	return encoder.Close()
}
