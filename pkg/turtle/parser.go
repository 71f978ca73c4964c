package turtle

import (
	"github.com/tersedata/terse/pkg/rdf"
)

// Parser is a recursive-descent parser over the token stream of one
// Turtle/TriG document. A parse is all-or-nothing: the first ungrammatical
// token aborts it and no partial dataset is returned.
type Parser struct {
	lex   *Lexer
	cur   Token
	ctx   *context
	ds    *rdf.Dataset
	graph rdf.Term // graph of the enclosing block, default graph otherwise
}

// Option configures a Parser.
type Option func(*Parser)

// WithBase sets the base IRI in scope before the first directive.
func WithBase(base string) Option {
	return func(p *Parser) {
		p.ctx.base = base
	}
}

// NewParser creates a parser for one document.
func NewParser(input string, opts ...Option) *Parser {
	p := &Parser{
		lex:   NewLexer(input),
		ctx:   newContext(""),
		graph: rdf.NewDefaultGraph(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse is a convenience wrapper: parse one document into a fresh dataset.
func Parse(input string, opts ...Option) (*rdf.Dataset, error) {
	return NewParser(input, opts...).Parse()
}

// Parse consumes the whole document and returns the resulting dataset.
func (p *Parser) Parse() (*rdf.Dataset, error) {
	p.ds = rdf.NewDataset()
	if err := p.next(); err != nil {
		return nil, err
	}
	for p.cur.Kind != TokEOF {
		if err := p.parseStatement(); err != nil {
			return nil, err
		}
	}
	return p.ds, nil
}

// next advances the lookahead token.
func (p *Parser) next() error {
	tok, err := p.lex.Next()
	if err != nil {
		return err
	}
	p.cur = tok
	return nil
}

func (p *Parser) syntaxErr(expected string) error {
	return &rdf.SyntaxError{Pos: p.cur.Pos, Expected: expected, Found: p.cur.String()}
}

func (p *Parser) unsupported(construct string) error {
	return &rdf.UnsupportedConstructError{Pos: p.cur.Pos, Construct: construct}
}

// expect consumes a token of the given kind or fails.
func (p *Parser) expect(kind TokenKind, expected string) (Token, error) {
	if p.cur.Kind != kind {
		return Token{}, p.syntaxErr(expected)
	}
	tok := p.cur
	return tok, p.next()
}

// emit inserts one fully-built quad into the dataset.
func (p *Parser) emit(subject, predicate, object rdf.Term) {
	p.ds.Add(rdf.NewQuad(subject, predicate, object, p.graph))
}

// parseStatement handles one top-level statement: a directive, a graph
// block, or a triples block terminated by '.'.
func (p *Parser) parseStatement() error {
	switch p.cur.Kind {
	case TokPrefixDirective, TokSparqlPrefix:
		return p.parsePrefixDirective()
	case TokBaseDirective, TokSparqlBase:
		return p.parseBaseDirective()
	case TokForAll:
		return p.unsupported("N3 @forAll quantifier")
	case TokForSome:
		return p.unsupported("N3 @forSome quantifier")
	case TokGraphKeyword:
		if err := p.next(); err != nil {
			return err
		}
		name, err := p.parseGraphName()
		if err != nil {
			return err
		}
		return p.parseGraphBlock(name)
	case TokLBrace:
		return p.parseGraphBlock(rdf.NewDefaultGraph())
	}

	wasCollection := p.cur.Kind == TokLParen
	subject, hadProps, err := p.parseSubject()
	if err != nil {
		return err
	}

	// A term followed by '{' opens a named graph block (TriG). A '[ p o ]'
	// list or a '( ... )' collection is not a valid graph name, though a
	// bare '[]' is.
	if p.cur.Kind == TokLBrace && !hadProps && !wasCollection {
		switch subject.(type) {
		case *rdf.NamedNode, *rdf.BlankNode:
			return p.parseGraphBlock(subject)
		}
	}
	if p.cur.Kind == TokLBrace {
		return p.syntaxErr("predicate")
	}

	return p.finishTriples(subject, hadProps)
}

// finishTriples parses the predicate-object part of a triples production
// and its terminating '.'. A blank node property list subject may stand
// alone ('[ p o ] .').
func (p *Parser) finishTriples(subject rdf.Term, subjectHadProps bool) error {
	if subjectHadProps && p.cur.Kind == TokDot {
		return p.next()
	}
	if err := p.parsePredicateObjectList(subject); err != nil {
		return err
	}
	_, err := p.expect(TokDot, "'.' at end of statement")
	return err
}

// parseGraphBlock parses '{ triples* }' with every statement tagged by the
// graph name. Blocks do not nest and admit no directives.
func (p *Parser) parseGraphBlock(name rdf.Term) error {
	if _, err := p.expect(TokLBrace, "'{'"); err != nil {
		return err
	}

	outer := p.graph
	p.graph = name
	defer func() { p.graph = outer }()

	for p.cur.Kind != TokRBrace {
		if p.cur.Kind == TokEOF {
			return p.syntaxErr("'}' closing graph block")
		}

		subject, hadProps, err := p.parseSubject()
		if err != nil {
			return err
		}
		if hadProps && (p.cur.Kind == TokDot || p.cur.Kind == TokRBrace) {
			if p.cur.Kind == TokDot {
				if err := p.next(); err != nil {
					return err
				}
			}
			continue
		}
		if err := p.parsePredicateObjectList(subject); err != nil {
			return err
		}
		// The '.' after the final triples of a block is optional.
		if p.cur.Kind == TokDot {
			if err := p.next(); err != nil {
				return err
			}
		} else if p.cur.Kind != TokRBrace {
			return p.syntaxErr("'.' or '}'")
		}
	}
	return p.next()
}

// parseGraphName parses the name after a GRAPH keyword.
func (p *Parser) parseGraphName() (rdf.Term, error) {
	switch p.cur.Kind {
	case TokIRIRef, TokPNameLN, TokPNameNS:
		iri, err := p.parseIRI()
		if err != nil {
			return nil, err
		}
		return iri, nil
	case TokBlankNodeLabel:
		b := p.ctx.labeledBlankNode(p.cur.Value)
		return b, p.next()
	default:
		return nil, p.syntaxErr("graph name (IRI or blank node)")
	}
}

// parsePrefixDirective parses '@prefix p: <iri> .' or 'PREFIX p: <iri>'.
// The binding takes effect for the remainder of the document and
// overwrites any earlier binding of the same prefix.
func (p *Parser) parsePrefixDirective() error {
	turtleStyle := p.cur.Kind == TokPrefixDirective
	if err := p.next(); err != nil {
		return err
	}

	if p.cur.Kind != TokPNameNS {
		return p.syntaxErr("prefix name ending in ':'")
	}
	prefix := p.cur.Value[:len(p.cur.Value)-1]
	if err := p.next(); err != nil {
		return err
	}

	tok, err := p.expect(TokIRIRef, "namespace IRI")
	if err != nil {
		return err
	}
	iri, err := p.ctx.resolveIRI(tok.Value, tok.Pos)
	if err != nil {
		return err
	}
	p.ctx.bindPrefix(prefix, iri)

	if turtleStyle {
		_, err = p.expect(TokDot, "'.' after @prefix directive")
		return err
	}
	return nil
}

// parseBaseDirective parses '@base <iri> .' or 'BASE <iri>'. The new base
// applies to relative IRIs in all subsequent statements, not retroactively.
func (p *Parser) parseBaseDirective() error {
	turtleStyle := p.cur.Kind == TokBaseDirective
	if err := p.next(); err != nil {
		return err
	}

	tok, err := p.expect(TokIRIRef, "base IRI")
	if err != nil {
		return err
	}
	if err := p.ctx.setBase(tok.Value, tok.Pos); err != nil {
		return err
	}

	if turtleStyle {
		_, err = p.expect(TokDot, "'.' after @base directive")
		return err
	}
	return nil
}

// parseSubject parses a subject term. The boolean reports whether the term
// was a blank node property list carrying its own predicate-object pairs,
// which may then stand as a whole statement.
func (p *Parser) parseSubject() (rdf.Term, bool, error) {
	switch p.cur.Kind {
	case TokIRIRef, TokPNameLN, TokPNameNS:
		iri, err := p.parseIRI()
		return iri, false, err
	case TokBlankNodeLabel:
		b := p.ctx.labeledBlankNode(p.cur.Value)
		return b, false, p.next()
	case TokLBracket:
		return p.parseBlankNodePropertyList()
	case TokLParen:
		head, err := p.parseCollection()
		return head, false, err
	case TokA:
		return nil, false, p.syntaxErr("subject (the 'a' keyword is only a predicate)")
	case TokString, TokInteger, TokDecimal, TokDouble, TokBoolean:
		return nil, false, p.syntaxErr("subject (literals cannot be subjects)")
	case TokVariable:
		return nil, false, p.unsupported("N3 variable")
	case TokLBrace:
		return nil, false, p.unsupported("N3 formula")
	default:
		return nil, false, p.syntaxErr("subject")
	}
}

// parsePredicateObjectList parses 'verb objectList (; (verb objectList)?)*'.
func (p *Parser) parsePredicateObjectList(subject rdf.Term) error {
	for {
		predicate, err := p.parseVerb()
		if err != nil {
			return err
		}

		if err := p.parseObjectList(subject, predicate); err != nil {
			return err
		}

		if p.cur.Kind != TokSemicolon {
			return nil
		}
		for p.cur.Kind == TokSemicolon {
			if err := p.next(); err != nil {
				return err
			}
		}
		// Trailing semicolons before '.', ']' or '}' carry no pair.
		if p.cur.Kind == TokDot || p.cur.Kind == TokRBracket || p.cur.Kind == TokRBrace {
			return nil
		}
	}
}

// parseVerb parses a predicate: an IRI or the 'a' shorthand for rdf:type.
// Blank nodes and literals are excluded by the grammar.
func (p *Parser) parseVerb() (rdf.Term, error) {
	switch p.cur.Kind {
	case TokA:
		return rdf.RDFType, p.next()
	case TokIRIRef, TokPNameLN, TokPNameNS:
		return p.parseIRI()
	case TokBlankNodeLabel, TokLBracket:
		return nil, p.syntaxErr("predicate (blank nodes cannot be predicates)")
	case TokString, TokInteger, TokDecimal, TokDouble, TokBoolean:
		return nil, p.syntaxErr("predicate (literals cannot be predicates)")
	case TokVariable:
		return nil, p.unsupported("N3 variable")
	case TokArrow:
		return nil, p.unsupported("N3 implication")
	default:
		return nil, p.syntaxErr("predicate")
	}
}

// parseObjectList parses 'object (, object)*', emitting one quad per
// object.
func (p *Parser) parseObjectList(subject, predicate rdf.Term) error {
	for {
		object, err := p.parseObject()
		if err != nil {
			return err
		}
		p.emit(subject, predicate, object)

		if p.cur.Kind != TokComma {
			return nil
		}
		if err := p.next(); err != nil {
			return err
		}
	}
}

// parseObject parses an object term: IRI, blank node, collection, blank
// node property list, or literal.
func (p *Parser) parseObject() (rdf.Term, error) {
	switch p.cur.Kind {
	case TokIRIRef, TokPNameLN, TokPNameNS:
		return p.parseIRI()
	case TokBlankNodeLabel:
		b := p.ctx.labeledBlankNode(p.cur.Value)
		return b, p.next()
	case TokLBracket:
		node, _, err := p.parseBlankNodePropertyList()
		return node, err
	case TokLParen:
		return p.parseCollection()
	case TokString:
		return p.parseRDFLiteral()
	case TokInteger, TokDecimal, TokDouble, TokBoolean:
		return p.parseNumericOrBoolean()
	case TokA:
		return nil, p.syntaxErr("object (the 'a' keyword is only a predicate)")
	case TokVariable:
		return nil, p.unsupported("N3 variable")
	case TokLBrace:
		return nil, p.unsupported("N3 formula")
	default:
		return nil, p.syntaxErr("object")
	}
}

// parseIRI parses an IRIREF or prefixed name into a fully resolved
// NamedNode.
func (p *Parser) parseIRI() (*rdf.NamedNode, error) {
	tok := p.cur
	switch tok.Kind {
	case TokIRIRef:
		iri, err := p.ctx.resolveIRI(tok.Value, tok.Pos)
		if err != nil {
			return nil, err
		}
		return rdf.NewNamedNode(iri), p.next()
	case TokPNameLN, TokPNameNS:
		iri, err := p.ctx.expandPName(tok.Value, tok.Pos)
		if err != nil {
			return nil, err
		}
		return rdf.NewNamedNode(iri), p.next()
	default:
		return nil, p.syntaxErr("IRI")
	}
}

// parseBlankNodePropertyList parses '[ predicateObjectList? ]', emitting
// the inner pairs against a fresh anonymous node. The boolean reports
// whether the list carried any pairs.
func (p *Parser) parseBlankNodePropertyList() (rdf.Term, bool, error) {
	if err := p.next(); err != nil { // '['
		return nil, false, err
	}
	node := p.ctx.freshBlankNode()

	if p.cur.Kind == TokRBracket {
		return node, false, p.next()
	}

	if err := p.parsePredicateObjectList(node); err != nil {
		return nil, false, err
	}
	if _, err := p.expect(TokRBracket, "']' closing blank node property list"); err != nil {
		return nil, false, err
	}
	return node, true, nil
}

// parseCollection parses '( object* )'. An empty collection is rdf:nil;
// otherwise the members desugar into an rdf:first/rdf:rest chain of fresh
// blank nodes terminated by rdf:nil.
func (p *Parser) parseCollection() (rdf.Term, error) {
	if err := p.next(); err != nil { // '('
		return nil, err
	}

	var head, prev rdf.Term
	for p.cur.Kind != TokRParen {
		if p.cur.Kind == TokEOF {
			return nil, p.syntaxErr("')' closing collection")
		}
		item, err := p.parseObject()
		if err != nil {
			return nil, err
		}

		node := p.ctx.freshBlankNode()
		if head == nil {
			head = node
		} else {
			p.emit(prev, rdf.RDFRest, node)
		}
		p.emit(node, rdf.RDFFirst, item)
		prev = node
	}
	if err := p.next(); err != nil { // ')'
		return nil, err
	}

	if head == nil {
		return rdf.RDFNil, nil
	}
	p.emit(prev, rdf.RDFRest, rdf.RDFNil)
	return head, nil
}

// parseRDFLiteral parses a string literal with its optional language tag
// or '^^' datatype. The grammar makes the two mutually exclusive.
func (p *Parser) parseRDFLiteral() (rdf.Term, error) {
	value := p.cur.Value
	if err := p.next(); err != nil {
		return nil, err
	}

	switch p.cur.Kind {
	case TokLangTag:
		lang := p.cur.Value
		return rdf.NewLiteralWithLanguage(value, lang), p.next()
	case TokCaret:
		if err := p.next(); err != nil {
			return nil, err
		}
		datatype, err := p.parseIRI()
		if err != nil {
			return nil, err
		}
		return rdf.NewLiteralWithDatatype(value, datatype), nil
	default:
		return rdf.NewLiteral(value), nil
	}
}

// parseNumericOrBoolean expands numeric and boolean shorthand into typed
// literals, preserving the lexical form.
func (p *Parser) parseNumericOrBoolean() (rdf.Term, error) {
	tok := p.cur
	if err := p.next(); err != nil {
		return nil, err
	}
	switch tok.Kind {
	case TokInteger:
		return rdf.NewLiteralWithDatatype(tok.Value, rdf.XSDInteger), nil
	case TokDecimal:
		return rdf.NewLiteralWithDatatype(tok.Value, rdf.XSDDecimal), nil
	case TokDouble:
		return rdf.NewLiteralWithDatatype(tok.Value, rdf.XSDDouble), nil
	default:
		return rdf.NewLiteralWithDatatype(tok.Value, rdf.XSDBoolean), nil
	}
}
