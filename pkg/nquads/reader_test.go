package nquads

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tersedata/terse/pkg/rdf"
)

func TestReaderTriplesAndQuads(t *testing.T) {
	ds, err := Parse(`
<http://e/s> <http://e/p> <http://e/o> .
<http://e/s> <http://e/p> "lit" <http://e/g> .
_:b0 <http://e/p> _:b1 .
`)
	require.NoError(t, err)
	require.Equal(t, 3, ds.Len())

	assert.Len(t, ds.Quads(nil), 2)
	assert.Len(t, ds.Quads(rdf.NewNamedNode("http://e/g")), 1)
}

func TestReaderLiterals(t *testing.T) {
	ds, err := Parse(`
<http://e/s> <http://e/p1> "plain" .
<http://e/s> <http://e/p2> "hola"@es .
<http://e/s> <http://e/p3> "5"^^<http://www.w3.org/2001/XMLSchema#integer> .
<http://e/s> <http://e/p4> "tab\there\nand \"quotes\" A" .
`)
	require.NoError(t, err)
	require.Equal(t, 4, ds.Len())

	find := func(p string) *rdf.Literal {
		for _, q := range ds.All() {
			if q.Predicate.Equals(rdf.NewNamedNode(p)) {
				return q.Object.(*rdf.Literal)
			}
		}
		return nil
	}

	assert.Equal(t, "plain", find("http://e/p1").Value)
	assert.Equal(t, "es", find("http://e/p2").Language)
	assert.True(t, find("http://e/p3").Datatype.Equals(rdf.XSDInteger))
	assert.Equal(t, "tab\there\nand \"quotes\" A", find("http://e/p4").Value)
}

func TestReaderBlankGraphName(t *testing.T) {
	ds, err := Parse(`<http://e/s> <http://e/p> <http://e/o> _:g .`)
	require.NoError(t, err)
	require.Equal(t, 1, ds.Len())
	assert.IsType(t, &rdf.BlankNode{}, ds.All()[0].Graph)
}

func TestReaderCommentsAndBlankLines(t *testing.T) {
	ds, err := Parse(`
# a comment

<http://e/s> <http://e/p> <http://e/o> . # trailing
`)
	require.NoError(t, err)
	assert.Equal(t, 1, ds.Len())
}

func TestReaderErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"missing dot", `<http://e/s> <http://e/p> <http://e/o>`},
		{"prefixed name", `ex:s <http://e/p> <http://e/o> .`},
		{"unterminated literal", `<http://e/s> <http://e/p> "open .`},
		{"literal subject", `"s" <http://e/p> <http://e/o> .`},
		{"bad escape", `<http://e/s> <http://e/p> "\q" .`},
		{"unterminated iri", `<http://e/s <http://e/p> <http://e/o> .`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input)
			require.Error(t, err)
		})
	}
}

func TestReaderRejectsRelativeIRIs(t *testing.T) {
	_, err := Parse(`<relative> <http://e/p> <http://e/o> .`)
	var resErr *rdf.ResolutionError
	require.ErrorAs(t, err, &resErr)
}

func TestReaderErrorPosition(t *testing.T) {
	_, err := Parse("<http://e/s> <http://e/p> <http://e/o> .\n<http://e/s> nope .")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}
