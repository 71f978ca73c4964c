package rdf

import (
	"fmt"
	"strings"
)

// EscapeString escapes a literal value for N-Quads output.
// Named escapes cover \t \b \n \r \f \" \\; remaining control characters,
// DEL and the U+FFFE/U+FFFF noncharacters become \uXXXX.
func EscapeString(s string) string {
	var builder strings.Builder
	builder.Grow(len(s))

	for _, r := range s {
		switch r {
		case '\t':
			builder.WriteString(`\t`)
		case '\b':
			builder.WriteString(`\b`)
		case '\n':
			builder.WriteString(`\n`)
		case '\r':
			builder.WriteString(`\r`)
		case '\f':
			builder.WriteString(`\f`)
		case '"':
			builder.WriteString(`\"`)
		case '\\':
			builder.WriteString(`\\`)
		default:
			if r < 0x20 || r == 0x7F || (r >= 0xFFFE && r <= 0xFFFF) {
				builder.WriteString(fmt.Sprintf(`\u%04X`, r))
			} else {
				builder.WriteRune(r)
			}
		}
	}

	return builder.String()
}

// termKey renders a term in its canonical N-Quads-like string form. Blank
// node IDs appear verbatim (output relabeling is the serializer's job) and
// the default graph renders empty so it orders before every named graph.
func termKey(t Term) string {
	switch t := t.(type) {
	case *NamedNode:
		return "<" + t.IRI + ">"
	case *BlankNode:
		return "_:" + t.ID
	case *Literal:
		s := `"` + EscapeString(t.Value) + `"`
		if t.Language != "" {
			return s + "@" + t.Language
		}
		if t.Datatype != nil && !t.Datatype.Equals(XSDString) {
			return s + "^^<" + t.Datatype.IRI + ">"
		}
		return s
	case *DefaultGraph:
		return ""
	case *Variable:
		return "?" + t.Name
	default:
		return t.String()
	}
}

// quadKey is the canonical (graph, subject, predicate, object) form used
// for ordering and for the dedup index.
func quadKey(q *Quad) string {
	return termKey(q.Graph) + "\x00" + termKey(q.Subject) + "\x00" +
		termKey(q.Predicate) + "\x00" + termKey(q.Object)
}
