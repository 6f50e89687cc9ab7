package output

import (
	"github.com/marmos91/defrag/pkg/compact"
)

// resultDocument is the emitted form of a compaction result: its fields,
// plus the rendered block map when a layout was recorded so scripts can
// compare layouts without replaying extents.
type resultDocument struct {
	compact.Result `yaml:",inline"`

	Map string `json:"map,omitempty" yaml:"map,omitempty"`
}

func newResultDocument(r *compact.Result) resultDocument {
	doc := resultDocument{Result: *r}
	if r.Layout != nil {
		doc.Map = r.Layout.Render()
	}
	return doc
}

// document returns the shape data is emitted in. Compaction results become
// resultDocuments; anything else is emitted as is.
func document(data any) any {
	switch v := data.(type) {
	case *compact.Result:
		if v == nil {
			return v
		}
		return newResultDocument(v)
	case ResultTable:
		return resultDocuments(v)
	case []*compact.Result:
		return resultDocuments(v)
	default:
		return data
	}
}

func resultDocuments(results []*compact.Result) []resultDocument {
	docs := make([]resultDocument, 0, len(results))
	for _, r := range results {
		if r != nil {
			docs = append(docs, newResultDocument(r))
		}
	}
	return docs
}
