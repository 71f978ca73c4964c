package turtle

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/tersedata/terse/pkg/rdf"
)

// context holds the mutable parse-time state of one document: the active
// base IRI, the prefix table, and the blank node scope. It is created at
// parse start and discarded at parse end; the resulting terms carry no
// reference to it.
type context struct {
	base     string
	prefixes map[string]string

	// Blank node scope. Labeled nodes map to one identity per label per
	// document; generated identities carry a per-parse seed so they can
	// never collide with another parse's nodes, and a leading dot so they
	// can never collide with a parseable label.
	labels  map[string]*rdf.BlankNode
	seed    string
	counter int
}

func newContext(base string) *context {
	return &context{
		base:     base,
		prefixes: make(map[string]string),
		labels:   make(map[string]*rdf.BlankNode),
		seed:     uuid.NewString()[:8],
	}
}

// bindPrefix adds or overwrites one prefix binding, effective for the
// remainder of the document.
func (c *context) bindPrefix(prefix, iri string) {
	c.prefixes[prefix] = iri
}

// expandPName resolves prefix:local against the prefix table.
func (c *context) expandPName(pname string, pos rdf.Position) (string, error) {
	idx := strings.Index(pname, ":")
	if idx < 0 {
		return "", &rdf.ResolutionError{Pos: pos, Msg: fmt.Sprintf("malformed prefixed name %q", pname)}
	}
	prefix, local := pname[:idx], pname[idx+1:]
	ns, ok := c.prefixes[prefix]
	if !ok {
		return "", &rdf.ResolutionError{Pos: pos, Msg: fmt.Sprintf("undeclared prefix %q", prefix)}
	}
	return ns + local, nil
}

// labeledBlankNode returns the document-wide identity for a label.
func (c *context) labeledBlankNode(label string) *rdf.BlankNode {
	if b, ok := c.labels[label]; ok {
		return b
	}
	b := rdf.NewBlankNode(label)
	c.labels[label] = b
	return b
}

// freshBlankNode mints an anonymous node invisible to any label.
func (c *context) freshBlankNode() *rdf.BlankNode {
	c.counter++
	return rdf.NewBlankNode(fmt.Sprintf(".%s.%d", c.seed, c.counter))
}

// resolveIRI resolves a (possibly relative) IRI reference against the
// active base per RFC 3986 reference resolution. An IRI with a scheme is
// returned untouched.
func (c *context) resolveIRI(ref string, pos rdf.Position) (string, error) {
	u, err := url.Parse(ref)
	if err != nil {
		return "", &rdf.ResolutionError{Pos: pos, Msg: fmt.Sprintf("malformed IRI %q: %v", ref, err)}
	}
	if u.IsAbs() {
		return ref, nil
	}
	if c.base == "" {
		return "", &rdf.ResolutionError{Pos: pos, Msg: fmt.Sprintf("relative IRI %q with no base in scope", ref)}
	}
	base, err := url.Parse(c.base)
	if err != nil {
		return "", &rdf.ResolutionError{Pos: pos, Msg: fmt.Sprintf("malformed base IRI %q: %v", c.base, err)}
	}
	return base.ResolveReference(u).String(), nil
}

// setBase replaces the active base IRI for all subsequent statements.
// A relative base resolves against the previous base first.
func (c *context) setBase(ref string, pos rdf.Position) error {
	resolved, err := c.resolveIRI(ref, pos)
	if err != nil {
		return err
	}
	c.base = resolved
	return nil
}
