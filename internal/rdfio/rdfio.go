// Package rdfio selects parsers by content type or file extension.
package rdfio

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/tersedata/terse/pkg/nquads"
	"github.com/tersedata/terse/pkg/rdf"
	"github.com/tersedata/terse/pkg/turtle"
)

// Parser reads one RDF document into a dataset. The base IRI applies to
// formats with relative IRIs and is ignored by the rest.
type Parser interface {
	Parse(reader io.Reader, base string) (*rdf.Dataset, error)
	ContentType() string
}

// ForContentType returns the parser registered for a MIME type. Parameters
// such as charset are ignored.
func ForContentType(contentType string) (Parser, error) {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if idx := strings.Index(ct, ";"); idx != -1 {
		ct = strings.TrimSpace(ct[:idx])
	}

	switch ct {
	case "text/turtle", "application/x-turtle":
		return &TurtleParser{}, nil
	case "application/trig":
		return &TriGParser{}, nil
	case "application/n-triples", "text/plain":
		return &NQuadsParser{contentType: "application/n-triples"}, nil
	case "application/n-quads":
		return &NQuadsParser{contentType: "application/n-quads"}, nil
	default:
		return nil, fmt.Errorf("unsupported content type: %s", contentType)
	}
}

// ForPath returns the parser matching a file extension.
func ForPath(path string) (Parser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ttl", ".n3":
		return &TurtleParser{}, nil
	case ".trig":
		return &TriGParser{}, nil
	case ".nt":
		return &NQuadsParser{contentType: "application/n-triples"}, nil
	case ".nq", ".nquads":
		return &NQuadsParser{contentType: "application/n-quads"}, nil
	default:
		return nil, fmt.Errorf("unrecognized file extension: %s", path)
	}
}

// TurtleParser parses Turtle documents. TriG graph blocks are part of the
// same grammar, so the two parsers differ in content type only.
type TurtleParser struct{}

func (p *TurtleParser) ContentType() string {
	return "text/turtle"
}

func (p *TurtleParser) Parse(reader io.Reader, base string) (*rdf.Dataset, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	var opts []turtle.Option
	if base != "" {
		opts = append(opts, turtle.WithBase(base))
	}
	return turtle.Parse(string(data), opts...)
}

// TriGParser parses TriG documents.
type TriGParser struct{}

func (p *TriGParser) ContentType() string {
	return "application/trig"
}

func (p *TriGParser) Parse(reader io.Reader, base string) (*rdf.Dataset, error) {
	return (&TurtleParser{}).Parse(reader, base)
}

// NQuadsParser parses N-Quads and its N-Triples subset. Both are
// base-independent.
type NQuadsParser struct {
	contentType string
}

func (p *NQuadsParser) ContentType() string {
	return p.contentType
}

func (p *NQuadsParser) Parse(reader io.Reader, _ string) (*rdf.Dataset, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	return nquads.Parse(string(data))
}
