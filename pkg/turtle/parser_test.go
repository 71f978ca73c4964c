package turtle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tersedata/terse/pkg/rdf"
)

func mustParse(t *testing.T, input string, opts ...Option) *rdf.Dataset {
	t.Helper()
	ds, err := Parse(input, opts...)
	require.NoError(t, err)
	return ds
}

func containsQuad(ds *rdf.Dataset, s, p, o string) bool {
	return ds.Contains(rdf.NewQuad(rdf.NewNamedNode(s), rdf.NewNamedNode(p), rdf.NewNamedNode(o), nil))
}

func TestParseSimpleTriples(t *testing.T) {
	ds := mustParse(t, `<http://example.org/s> <http://example.org/p> <http://example.org/o> .`)
	require.Equal(t, 1, ds.Len())
	assert.True(t, containsQuad(ds, "http://example.org/s", "http://example.org/p", "http://example.org/o"))

	q := ds.All()[0]
	_, isDefault := q.Graph.(*rdf.DefaultGraph)
	assert.True(t, isDefault, "statement without a graph block belongs to the default graph")
}

func TestParsePrefixedNames(t *testing.T) {
	ds := mustParse(t, `
		@prefix ex: <http://example.org/> .
		@prefix : <http://default.example/> .
		ex:s ex:p :o .
	`)
	require.Equal(t, 1, ds.Len())
	assert.True(t, containsQuad(ds, "http://example.org/s", "http://example.org/p", "http://default.example/o"))
}

func TestParseSparqlStyleDirectives(t *testing.T) {
	ds := mustParse(t, `
		PREFIX ex: <http://example.org/>
		BASE <http://base.example/>
		ex:s ex:p <rel> .
	`)
	require.Equal(t, 1, ds.Len())
	assert.True(t, containsQuad(ds, "http://example.org/s", "http://example.org/p", "http://base.example/rel"))
}

func TestParsePrefixRedefinitionScoping(t *testing.T) {
	ds := mustParse(t, `
		@prefix p: <http://one.example/> .
		p:s p:p p:o .
		@prefix p: <http://two.example/> .
		p:s p:p p:o .
	`)
	require.Equal(t, 2, ds.Len())
	// The statement before the redefinition keeps its resolution.
	assert.True(t, containsQuad(ds, "http://one.example/s", "http://one.example/p", "http://one.example/o"))
	assert.True(t, containsQuad(ds, "http://two.example/s", "http://two.example/p", "http://two.example/o"))
}

func TestParseBaseReResolution(t *testing.T) {
	ds := mustParse(t, `
		@base <http://example.org/a/> .
		<s1> <p> <o> .
		@base <../b/> .
		<s2> <p> <o> .
	`)
	require.Equal(t, 2, ds.Len())
	assert.True(t, containsQuad(ds, "http://example.org/a/s1", "http://example.org/a/p", "http://example.org/a/o"))
	// A relative @base resolves against the previous base.
	assert.True(t, containsQuad(ds, "http://example.org/b/s2", "http://example.org/b/p", "http://example.org/b/o"))
}

func TestParseWithBaseOption(t *testing.T) {
	ds := mustParse(t, `<s> <p> <o> .`, WithBase("http://opt.example/dir/"))
	assert.True(t, containsQuad(ds, "http://opt.example/dir/s", "http://opt.example/dir/p", "http://opt.example/dir/o"))
}

func TestParseRelativeIRIWithoutBase(t *testing.T) {
	_, err := Parse(`<s> <http://example.org/p> <http://example.org/o> .`)
	var resErr *rdf.ResolutionError
	require.ErrorAs(t, err, &resErr)
}

func TestParseUndeclaredPrefix(t *testing.T) {
	_, err := Parse(`x:s <http://example.org/p> <http://example.org/o> .`)
	var resErr *rdf.ResolutionError
	require.ErrorAs(t, err, &resErr)
	assert.Contains(t, err.Error(), `"x"`)
}

func TestParseAKeyword(t *testing.T) {
	ds := mustParse(t, `<http://e/s> a <http://e/Class> .`)
	require.Equal(t, 1, ds.Len())
	assert.True(t, ds.All()[0].Predicate.Equals(rdf.RDFType))
}

func TestParseObjectAndPredicateLists(t *testing.T) {
	ds := mustParse(t, `
		@prefix : <http://e/> .
		:s :p1 :o1, :o2 ;
		   :p2 :o3 ;
		   .
	`)
	require.Equal(t, 3, ds.Len())
	assert.True(t, containsQuad(ds, "http://e/s", "http://e/p1", "http://e/o1"))
	assert.True(t, containsQuad(ds, "http://e/s", "http://e/p1", "http://e/o2"))
	assert.True(t, containsQuad(ds, "http://e/s", "http://e/p2", "http://e/o3"))
}

func TestParseLiterals(t *testing.T) {
	ds := mustParse(t, `
		@prefix : <http://e/> .
		@prefix xsd: <http://www.w3.org/2001/XMLSchema#> .
		:s :plain "hello" ;
		   :lang "bonjour"@fr ;
		   :typed "5"^^xsd:byte ;
		   :typedIRI "x"^^<http://e/dt> ;
		   :long """line one
line two""" .
	`)
	require.Equal(t, 5, ds.Len())

	find := func(p string) *rdf.Literal {
		for _, q := range ds.All() {
			if q.Predicate.Equals(rdf.NewNamedNode(p)) {
				return q.Object.(*rdf.Literal)
			}
		}
		t.Fatalf("no quad with predicate %s", p)
		return nil
	}

	assert.Equal(t, "hello", find("http://e/plain").Value)
	assert.Nil(t, find("http://e/plain").Datatype)

	lang := find("http://e/lang")
	assert.Equal(t, "bonjour", lang.Value)
	assert.Equal(t, "fr", lang.Language)
	assert.Nil(t, lang.Datatype, "language and datatype are mutually exclusive")

	typed := find("http://e/typed")
	assert.Equal(t, "http://www.w3.org/2001/XMLSchema#byte", typed.Datatype.IRI)
	assert.Empty(t, typed.Language)

	assert.Equal(t, "http://e/dt", find("http://e/typedIRI").Datatype.IRI)
	assert.Equal(t, "line one\nline two", find("http://e/long").Value)
}

func TestParseNumericAndBooleanShorthand(t *testing.T) {
	ds := mustParse(t, `
		@prefix : <http://e/> .
		:s :int 42 ;
		   :neg -7 ;
		   :dec 3.14 ;
		   :dbl 4.2e9 ;
		   :flag true .
	`)
	require.Equal(t, 5, ds.Len())

	want := map[string]*rdf.Literal{
		"http://e/int":  rdf.NewLiteralWithDatatype("42", rdf.XSDInteger),
		"http://e/neg":  rdf.NewLiteralWithDatatype("-7", rdf.XSDInteger),
		"http://e/dec":  rdf.NewLiteralWithDatatype("3.14", rdf.XSDDecimal),
		"http://e/dbl":  rdf.NewLiteralWithDatatype("4.2e9", rdf.XSDDouble),
		"http://e/flag": rdf.NewLiteralWithDatatype("true", rdf.XSDBoolean),
	}
	for _, q := range ds.All() {
		p := q.Predicate.(*rdf.NamedNode).IRI
		assert.True(t, q.Object.Equals(want[p]), "predicate %s: got %s", p, q.Object)
	}
}

func TestParseBlankNodeLabels(t *testing.T) {
	ds := mustParse(t, `_:x <http://e/p> _:x .`)
	require.Equal(t, 1, ds.Len())
	q := ds.All()[0]
	// Same label, same identity, within one parse.
	assert.True(t, q.Subject.Equals(q.Object))
}

func TestParseBlankNodeIdentityAcrossParses(t *testing.T) {
	a := mustParse(t, `<http://e/s> <http://e/p> [] .`)
	b := mustParse(t, `<http://e/s> <http://e/p> [] .`)
	// Anonymous nodes from unrelated parses never share identity.
	assert.False(t, a.All()[0].Object.Equals(b.All()[0].Object))
}

func TestParseAnonymousBlankNodes(t *testing.T) {
	ds := mustParse(t, `
		@prefix : <http://e/> .
		:s :p [ :q :r ; :q2 :r2 ] .
	`)
	require.Equal(t, 3, ds.Len())

	outer := ds.All()
	var anon rdf.Term
	for _, q := range outer {
		if q.Subject.Equals(rdf.NewNamedNode("http://e/s")) {
			anon = q.Object
		}
	}
	require.NotNil(t, anon)
	assert.IsType(t, &rdf.BlankNode{}, anon)

	// The inner pairs hang off the same anonymous node.
	inner := 0
	for _, q := range outer {
		if q.Subject.Equals(anon) {
			inner++
		}
	}
	assert.Equal(t, 2, inner)
}

func TestParseBlankNodePropertyListAsSubject(t *testing.T) {
	ds := mustParse(t, `[ <http://e/p> <http://e/o> ] .`)
	require.Equal(t, 1, ds.Len())

	ds = mustParse(t, `[ <http://e/p> <http://e/o> ] <http://e/p2> <http://e/o2> .`)
	require.Equal(t, 2, ds.Len())
}

func TestParseEmptyBlankNodeNeedsPredicates(t *testing.T) {
	_, err := Parse(`[] .`)
	var synErr *rdf.SyntaxError
	require.ErrorAs(t, err, &synErr)
}

func TestParseCollections(t *testing.T) {
	ds := mustParse(t, `<http://e/s> <http://e/p> (1 2) .`)
	require.Equal(t, 5, ds.Len())

	// Walk the rdf:first/rdf:rest chain from the owning triple.
	var head rdf.Term
	for _, q := range ds.All() {
		if q.Subject.Equals(rdf.NewNamedNode("http://e/s")) {
			head = q.Object
		}
	}
	require.NotNil(t, head)

	firstOf := func(node rdf.Term) rdf.Term {
		for _, q := range ds.All() {
			if q.Subject.Equals(node) && q.Predicate.Equals(rdf.RDFFirst) {
				return q.Object
			}
		}
		return nil
	}
	restOf := func(node rdf.Term) rdf.Term {
		for _, q := range ds.All() {
			if q.Subject.Equals(node) && q.Predicate.Equals(rdf.RDFRest) {
				return q.Object
			}
		}
		return nil
	}

	one := rdf.NewLiteralWithDatatype("1", rdf.XSDInteger)
	two := rdf.NewLiteralWithDatatype("2", rdf.XSDInteger)

	require.True(t, firstOf(head).Equals(one))
	second := restOf(head)
	require.True(t, firstOf(second).Equals(two))
	assert.True(t, restOf(second).Equals(rdf.RDFNil))
}

func TestParseEmptyCollection(t *testing.T) {
	ds := mustParse(t, `<http://e/s> <http://e/p> () .`)
	require.Equal(t, 1, ds.Len())
	assert.True(t, ds.All()[0].Object.Equals(rdf.RDFNil))
}

func TestParseNestedCollection(t *testing.T) {
	ds := mustParse(t, `<http://e/s> <http://e/p> ((1) 2) .`)
	// Outer chain: 2 nodes; inner chain: 1 node; 2 first+2 rest outer,
	// 1 first + 1 rest inner, plus the owning triple.
	assert.Equal(t, 7, ds.Len())
}

func TestParseGraphBlocks(t *testing.T) {
	ds := mustParse(t, `
		@prefix ex: <http://example.org/> .
		ex:g1 { ex:s ex:p ex:o1 . }
		GRAPH ex:g2 { ex:s ex:p ex:o2 }
		graph ex:g3 { ex:s ex:p ex:o3 . }
		{ ex:s ex:p ex:o4 . }
		_:bg { ex:s ex:p ex:o5 . }
	`)
	require.Equal(t, 5, ds.Len())

	graphOf := func(object string) rdf.Term {
		for _, q := range ds.All() {
			if q.Object.Equals(rdf.NewNamedNode(object)) {
				return q.Graph
			}
		}
		return nil
	}

	assert.True(t, graphOf("http://example.org/o1").Equals(rdf.NewNamedNode("http://example.org/g1")))
	assert.True(t, graphOf("http://example.org/o2").Equals(rdf.NewNamedNode("http://example.org/g2")))
	assert.True(t, graphOf("http://example.org/o3").Equals(rdf.NewNamedNode("http://example.org/g3")))
	_, isDefault := graphOf("http://example.org/o4").(*rdf.DefaultGraph)
	assert.True(t, isDefault)
	assert.IsType(t, &rdf.BlankNode{}, graphOf("http://example.org/o5"))
}

func TestParseGraphBlockMultipleStatements(t *testing.T) {
	ds := mustParse(t, `
		@prefix ex: <http://e/> .
		ex:g {
			ex:s1 ex:p ex:o1 .
			ex:s2 ex:p ex:o2 ; ex:q ex:o3
		}
		ex:after ex:p ex:o .
	`)
	require.Equal(t, 4, ds.Len())
	assert.Len(t, ds.Quads(rdf.NewNamedNode("http://e/g")), 3)
	assert.Len(t, ds.Quads(nil), 1)
}

func TestParseGraphBlockRejectsDirectives(t *testing.T) {
	_, err := Parse(`<http://e/g> { @prefix ex: <http://e/> . }`)
	require.Error(t, err)
}

func TestParseN3ConstructsRejected(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"variable subject", `?x <http://e/p> <http://e/o> .`},
		{"variable object", `<http://e/s> <http://e/p> ?x .`},
		{"formula object", `<http://e/s> <http://e/p> { <http://e/a> <http://e/b> <http://e/c> } .`},
		{"implication", `<http://e/s> => <http://e/o> .`},
		{"forAll", `@forAll <http://e/x> .`},
		{"forSome", `@forSome <http://e/x> .`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input)
			var unsupported *rdf.UnsupportedConstructError
			require.ErrorAs(t, err, &unsupported)
		})
	}
}

func TestParseSyntaxErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"literal subject", `"s" <http://e/p> <http://e/o> .`},
		{"literal predicate", `<http://e/s> "p" <http://e/o> .`},
		{"blank node predicate", `<http://e/s> _:p <http://e/o> .`},
		{"a as object", `<http://e/s> <http://e/p> a .`},
		{"missing dot", `<http://e/s> <http://e/p> <http://e/o>`},
		{"missing object", `<http://e/s> <http://e/p> .`},
		{"unclosed bracket", `<http://e/s> <http://e/p> [ <http://e/q> <http://e/r> .`},
		{"unclosed graph block", `<http://e/g> { <http://e/s> <http://e/p> <http://e/o> .`},
		{"property list as graph name", `[ <http://e/p> <http://e/o> ] { }`},
		{"collection as graph name", `(1 2) { <http://e/s> <http://e/p> <http://e/o> }`},
		{"empty collection as graph name", `() { }`},
		{"prefix without iri", `@prefix ex: "nope" .`},
		{"prefix without dot", `@prefix ex: <http://e/> <http://e/s> <http://e/p> <http://e/o> .`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input)
			var synErr *rdf.SyntaxError
			require.ErrorAs(t, err, &synErr, "got %v", err)
		})
	}
}

func TestParseErrorPosition(t *testing.T) {
	_, err := Parse("<http://e/s> <http://e/p> <http://e/o> .\n<http://e/s> <http://e/p> .")
	var synErr *rdf.SyntaxError
	require.ErrorAs(t, err, &synErr)
	assert.Equal(t, 2, synErr.Pos.Line)
}

func TestParseFailureReturnsNoPartialDataset(t *testing.T) {
	ds, err := Parse(`<http://e/s> <http://e/p> <http://e/o> . <http://e/s> <http://e/p> .`)
	require.Error(t, err)
	assert.Nil(t, ds)
}

func TestParseDuplicateStatementsCollapse(t *testing.T) {
	ds := mustParse(t, `
		<http://e/s> <http://e/p> <http://e/o> .
		<http://e/s> <http://e/p> <http://e/o> .
	`)
	assert.Equal(t, 1, ds.Len())
}

func TestParseComments(t *testing.T) {
	ds := mustParse(t, `
		# leading comment
		<http://e/s> <http://e/p> <http://e/o> . # trailing comment
	`)
	assert.Equal(t, 1, ds.Len())
}
