package nquads

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/tersedata/terse/pkg/rdf"
)

// Reader parses the strict line-oriented N-Quads syntax: absolute IRIs,
// blank node labels and literals only, no prefixed names, no directives,
// and an optional fourth graph position before the closing '.'.
type Reader struct {
	input  string
	pos    int
	length int
	line   int
	col    int
}

// NewReader creates a reader over one N-Quads document.
func NewReader(input string) *Reader {
	return &Reader{input: input, length: len(input), line: 1}
}

// Parse is a convenience wrapper parsing one document into a fresh dataset.
func Parse(input string) (*rdf.Dataset, error) {
	return NewReader(input).Read()
}

// Read parses the whole document. Any malformed statement aborts the parse.
func (r *Reader) Read() (*rdf.Dataset, error) {
	ds := rdf.NewDataset()

	for {
		r.skipWhitespaceAndComments()
		if r.pos >= r.length {
			return ds, nil
		}

		q, err := r.readStatement()
		if err != nil {
			return nil, err
		}
		ds.Add(q)
	}
}

func (r *Reader) here() rdf.Position {
	return rdf.Position{Line: r.line, Column: r.col}
}

func (r *Reader) errf(pos rdf.Position, format string, args ...any) error {
	return &rdf.LexError{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

func (r *Reader) syntaxErr(expected string) error {
	found := "end of input"
	if r.pos < r.length {
		ch, _ := utf8.DecodeRuneInString(r.input[r.pos:])
		found = fmt.Sprintf("%q", ch)
	}
	return &rdf.SyntaxError{Pos: r.here(), Expected: expected, Found: found}
}

// advance consumes one byte, tracking line and column.
func (r *Reader) advance() byte {
	ch := r.input[r.pos]
	r.pos++
	if ch == '\n' {
		r.line++
		r.col = 0
	} else {
		r.col++
	}
	return ch
}

func (r *Reader) skipWhitespaceAndComments() {
	for r.pos < r.length {
		switch r.input[r.pos] {
		case ' ', '\t', '\r', '\n':
			r.advance()
		case '#':
			for r.pos < r.length && r.input[r.pos] != '\n' {
				r.advance()
			}
		default:
			return
		}
	}
}

// readStatement parses 'subject predicate object graph? .'.
func (r *Reader) readStatement() (*rdf.Quad, error) {
	subject, err := r.readSubject()
	if err != nil {
		return nil, err
	}

	r.skipWhitespaceAndComments()
	predicate, err := r.readIRIRef()
	if err != nil {
		return nil, err
	}

	r.skipWhitespaceAndComments()
	object, err := r.readObject()
	if err != nil {
		return nil, err
	}

	r.skipWhitespaceAndComments()
	var graph rdf.Term
	if r.pos < r.length && r.input[r.pos] != '.' {
		graph, err = r.readSubject()
		if err != nil {
			return nil, err
		}
		r.skipWhitespaceAndComments()
	}

	if r.pos >= r.length || r.input[r.pos] != '.' {
		return nil, r.syntaxErr("'.' at end of statement")
	}
	r.advance()

	return rdf.NewQuad(subject, predicate, object, graph), nil
}

// readSubject parses an IRI or a blank node label; graph names share the
// same production.
func (r *Reader) readSubject() (rdf.Term, error) {
	if r.pos < r.length && r.input[r.pos] == '<' {
		return r.readIRIRef()
	}
	if r.pos+1 < r.length && r.input[r.pos] == '_' && r.input[r.pos+1] == ':' {
		return r.readBlankNodeLabel()
	}
	return nil, r.syntaxErr("IRI or blank node")
}

func (r *Reader) readObject() (rdf.Term, error) {
	if r.pos < r.length && r.input[r.pos] == '"' {
		return r.readLiteral()
	}
	return r.readSubject()
}

// readIRIRef parses '<...>' with \u and \U escapes. Relative IRIs are not
// resolvable here since N-Quads has no base.
func (r *Reader) readIRIRef() (*rdf.NamedNode, error) {
	start := r.here()
	if r.pos >= r.length || r.input[r.pos] != '<' {
		return nil, r.syntaxErr("IRI")
	}
	r.advance()

	var builder strings.Builder
	for {
		if r.pos >= r.length {
			return nil, r.errf(start, "unterminated IRI")
		}
		ch := r.input[r.pos]
		switch {
		case ch == '>':
			r.advance()
			iri := builder.String()
			if !strings.Contains(iri, ":") {
				return nil, &rdf.ResolutionError{Pos: start, Msg: fmt.Sprintf("relative IRI %q not allowed", iri)}
			}
			return rdf.NewNamedNode(iri), nil
		case ch == '\\':
			escPos := r.here()
			r.advance()
			v, err := r.readUnicodeEscape(escPos)
			if err != nil {
				return nil, err
			}
			builder.WriteRune(v)
		case ch <= 0x20 || ch == '<' || ch == '"' || ch == '{' || ch == '}' || ch == '|' || ch == '^' || ch == '`':
			return nil, r.errf(r.here(), "character %q not allowed in IRI", ch)
		default:
			rn, size := utf8.DecodeRuneInString(r.input[r.pos:])
			if rn == utf8.RuneError && size == 1 {
				return nil, r.errf(r.here(), "invalid UTF-8 sequence")
			}
			for i := 0; i < size; i++ {
				builder.WriteByte(r.advance())
			}
		}
	}
}

// readBlankNodeLabel parses '_:label'.
func (r *Reader) readBlankNodeLabel() (*rdf.BlankNode, error) {
	r.advance() // '_'
	r.advance() // ':'

	startPos := r.pos
	for r.pos < r.length {
		ch := r.input[r.pos]
		if ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n' || ch == '.' || ch == '<' || ch == '"' {
			break
		}
		r.advance()
	}
	label := r.input[startPos:r.pos]
	if label == "" {
		return nil, r.syntaxErr("blank node label")
	}
	return rdf.NewBlankNode(label), nil
}

// readLiteral parses '"..."' with its optional language tag or datatype.
func (r *Reader) readLiteral() (rdf.Term, error) {
	start := r.here()
	r.advance() // '"'

	var builder strings.Builder
	for {
		if r.pos >= r.length {
			return nil, r.errf(start, "unterminated string literal")
		}
		ch := r.input[r.pos]
		if ch == '"' {
			r.advance()
			break
		}
		if ch == '\n' || ch == '\r' {
			return nil, r.errf(r.here(), "unescaped newline in string literal")
		}
		if ch == '\\' {
			escPos := r.here()
			r.advance()
			if r.pos >= r.length {
				return nil, r.errf(escPos, "unterminated escape sequence")
			}
			switch r.input[r.pos] {
			case 't':
				builder.WriteByte('\t')
				r.advance()
			case 'b':
				builder.WriteByte('\b')
				r.advance()
			case 'n':
				builder.WriteByte('\n')
				r.advance()
			case 'r':
				builder.WriteByte('\r')
				r.advance()
			case 'f':
				builder.WriteByte('\f')
				r.advance()
			case '"':
				builder.WriteByte('"')
				r.advance()
			case '\\':
				builder.WriteByte('\\')
				r.advance()
			case 'u', 'U':
				v, err := r.readUnicodeEscape(escPos)
				if err != nil {
					return nil, err
				}
				builder.WriteRune(v)
			default:
				return nil, r.errf(escPos, "invalid escape sequence \\%c", r.input[r.pos])
			}
			continue
		}
		rn, size := utf8.DecodeRuneInString(r.input[r.pos:])
		if rn == utf8.RuneError && size == 1 {
			return nil, r.errf(r.here(), "invalid UTF-8 sequence")
		}
		for i := 0; i < size; i++ {
			builder.WriteByte(r.advance())
		}
	}
	value := builder.String()

	if r.pos < r.length && r.input[r.pos] == '@' {
		r.advance()
		startPos := r.pos
		for r.pos < r.length {
			ch := r.input[r.pos]
			if (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') ||
				(ch >= '0' && ch <= '9' && r.pos > startPos) || (ch == '-' && r.pos > startPos) {
				r.advance()
				continue
			}
			break
		}
		lang := r.input[startPos:r.pos]
		if lang == "" {
			return nil, r.syntaxErr("language tag")
		}
		return rdf.NewLiteralWithLanguage(value, lang), nil
	}

	if r.pos+1 < r.length && r.input[r.pos] == '^' && r.input[r.pos+1] == '^' {
		r.advance()
		r.advance()
		datatype, err := r.readIRIRef()
		if err != nil {
			return nil, err
		}
		return rdf.NewLiteralWithDatatype(value, datatype), nil
	}

	return rdf.NewLiteral(value), nil
}

// readUnicodeEscape parses the tail of a \uXXXX or \UXXXXXXXX escape; the
// backslash has already been consumed.
func (r *Reader) readUnicodeEscape(escPos rdf.Position) (rune, error) {
	if r.pos >= r.length {
		return 0, r.errf(escPos, "unterminated escape sequence")
	}
	var digits int
	switch r.input[r.pos] {
	case 'u':
		digits = 4
	case 'U':
		digits = 8
	default:
		return 0, r.errf(escPos, "invalid escape sequence \\%c", r.input[r.pos])
	}
	r.advance()

	var v rune
	for i := 0; i < digits; i++ {
		if r.pos >= r.length || !isHexDigit(r.input[r.pos]) {
			return 0, r.errf(escPos, "escape sequence requires %d hex digits", digits)
		}
		v = v<<4 | rune(hexValue(r.input[r.pos]))
		r.advance()
	}
	if v > 0x10FFFF || (v >= 0xD800 && v <= 0xDFFF) {
		return 0, r.errf(escPos, "escape sequence out of Unicode range")
	}
	return v, nil
}

func isHexDigit(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

func hexValue(b byte) byte {
	switch {
	case b >= '0' && b <= '9':
		return b - '0'
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10
	default:
		return b - 'A' + 10
	}
}
