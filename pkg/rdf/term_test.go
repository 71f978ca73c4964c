package rdf

import (
	"testing"
)

func TestTermEquals(t *testing.T) {
	tests := []struct {
		name string
		a, b Term
		want bool
	}{
		{"same IRI", NewNamedNode("http://example.org/a"), NewNamedNode("http://example.org/a"), true},
		{"different IRI", NewNamedNode("http://example.org/a"), NewNamedNode("http://example.org/b"), false},
		{"same blank node ID", NewBlankNode("b1"), NewBlankNode("b1"), true},
		{"different blank node ID", NewBlankNode("b1"), NewBlankNode("b2"), false},
		{"IRI vs blank node", NewNamedNode("b1"), NewBlankNode("b1"), false},
		{"same plain literal", NewLiteral("hello"), NewLiteral("hello"), true},
		{"plain vs language literal", NewLiteral("hello"), NewLiteralWithLanguage("hello", "en"), false},
		{"same language literal", NewLiteralWithLanguage("hello", "en"), NewLiteralWithLanguage("hello", "en"), true},
		{"different language", NewLiteralWithLanguage("hello", "en"), NewLiteralWithLanguage("hello", "fr"), false},
		{"same typed literal", NewLiteralWithDatatype("5", XSDInteger), NewLiteralWithDatatype("5", XSDInteger), true},
		{"different datatype", NewLiteralWithDatatype("5", XSDInteger), NewLiteralWithDatatype("5", XSDDecimal), false},
		{"typed vs plain", NewLiteralWithDatatype("5", XSDInteger), NewLiteral("5"), false},
		{"default graphs", NewDefaultGraph(), NewDefaultGraph(), true},
		{"variable", NewVariable("x"), NewVariable("x"), true},
		{"literal vs IRI", NewLiteral("http://example.org/a"), NewNamedNode("http://example.org/a"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equals(tt.b); got != tt.want {
				t.Errorf("%s.Equals(%s) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestLiteralString(t *testing.T) {
	tests := []struct {
		lit  *Literal
		want string
	}{
		{NewLiteral("hello"), `"hello"`},
		{NewLiteralWithLanguage("hello", "en-US"), `"hello"@en-US`},
		{NewLiteralWithDatatype("5", XSDInteger), `"5"^^<http://www.w3.org/2001/XMLSchema#integer>`},
		{NewIntegerLiteral(-42), `"-42"^^<http://www.w3.org/2001/XMLSchema#integer>`},
		{NewBooleanLiteral(true), `"true"^^<http://www.w3.org/2001/XMLSchema#boolean>`},
	}

	for _, tt := range tests {
		if got := tt.lit.String(); got != tt.want {
			t.Errorf("String() = %s, want %s", got, tt.want)
		}
	}
}

func TestNewQuadDefaultsGraph(t *testing.T) {
	q := NewQuad(NewNamedNode("http://example.org/s"), NewNamedNode("http://example.org/p"), NewLiteral("o"), nil)
	if _, ok := q.Graph.(*DefaultGraph); !ok {
		t.Fatalf("expected nil graph to become the default graph, got %T", q.Graph)
	}
}

func TestQuadTriple(t *testing.T) {
	s := NewNamedNode("http://example.org/s")
	p := NewNamedNode("http://example.org/p")
	o := NewLiteral("o")
	q := NewQuad(s, p, o, NewNamedNode("http://example.org/g"))

	tr := q.Triple()
	if !tr.Subject.Equals(s) || !tr.Predicate.Equals(p) || !tr.Object.Equals(o) {
		t.Errorf("Triple() = %s, want the quad's triple part", tr)
	}
}
