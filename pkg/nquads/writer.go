// Package nquads serializes datasets to canonical N-Quads and reads the
// strict N-Quads syntax back into datasets.
package nquads

import (
	"fmt"
	"io"
	"strings"

	"github.com/tersedata/terse/pkg/rdf"
)

// Writer emits a dataset as canonical N-Quads: one line per quad, quads
// sorted by the (graph, subject, predicate, object) string forms, blank
// nodes relabeled b0, b1, ... in order of first appearance in the sorted
// output. The output is deterministic for a given dataset.
type Writer struct {
	w io.Writer
}

// NewWriter creates a canonical N-Quads writer.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// WriteDataset serializes all quads of the dataset in canonical form.
func (w *Writer) WriteDataset(ds *rdf.Dataset) error {
	labels := make(map[string]string)

	for _, q := range ds.Canonical() {
		line, err := formatQuad(q, labels)
		if err != nil {
			return err
		}
		if _, err := io.WriteString(w.w, line); err != nil {
			return err
		}
	}
	return nil
}

// Format is a convenience wrapper serializing a dataset to a string.
func Format(ds *rdf.Dataset) (string, error) {
	var builder strings.Builder
	if err := NewWriter(&builder).WriteDataset(ds); err != nil {
		return "", err
	}
	return builder.String(), nil
}

func formatQuad(q *rdf.Quad, labels map[string]string) (string, error) {
	var builder strings.Builder

	for _, t := range []rdf.Term{q.Subject, q.Predicate, q.Object} {
		s, err := formatTerm(t, labels)
		if err != nil {
			return "", err
		}
		builder.WriteString(s)
		builder.WriteString(" ")
	}

	if _, isDefault := q.Graph.(*rdf.DefaultGraph); !isDefault && q.Graph != nil {
		s, err := formatTerm(q.Graph, labels)
		if err != nil {
			return "", err
		}
		builder.WriteString(s)
		builder.WriteString(" ")
	}

	builder.WriteString(".\n")
	return builder.String(), nil
}

func formatTerm(t rdf.Term, labels map[string]string) (string, error) {
	switch t := t.(type) {
	case *rdf.NamedNode:
		return fmt.Sprintf("<%s>", t.IRI), nil
	case *rdf.BlankNode:
		label, ok := labels[t.ID]
		if !ok {
			label = fmt.Sprintf("b%d", len(labels))
			labels[t.ID] = label
		}
		return "_:" + label, nil
	case *rdf.Literal:
		return formatLiteral(t), nil
	default:
		return "", &rdf.UnsupportedConstructError{
			Construct: fmt.Sprintf("%s term in N-Quads output", t.String()),
		}
	}
}

// formatLiteral renders a literal, omitting the xsd:string datatype since
// it is the default for plain literals.
func formatLiteral(lit *rdf.Literal) string {
	escaped := rdf.EscapeString(lit.Value)
	if lit.Language != "" {
		return fmt.Sprintf(`"%s"@%s`, escaped, lit.Language)
	}
	if lit.Datatype != nil && !lit.Datatype.Equals(rdf.XSDString) {
		return fmt.Sprintf(`"%s"^^<%s>`, escaped, lit.Datatype.IRI)
	}
	return fmt.Sprintf(`"%s"`, escaped)
}
