// Package turtle implements a tokenizer and recursive-descent parser for
// the Turtle and TriG syntaxes, with enough of the N3 surface recognized
// to reject its formula and variable constructs cleanly.
package turtle

import (
	"fmt"

	"github.com/tersedata/terse/pkg/rdf"
)

// TokenKind identifies a lexical token of the Turtle/TriG/N3 grammar.
type TokenKind int

const (
	TokEOF TokenKind = iota
	TokIRIRef
	TokPNameNS
	TokPNameLN
	TokBlankNodeLabel
	TokString
	TokLangTag
	TokInteger
	TokDecimal
	TokDouble
	TokBoolean
	TokDot
	TokComma
	TokSemicolon
	TokLBracket
	TokRBracket
	TokLParen
	TokRParen
	TokLBrace
	TokRBrace
	TokCaret
	TokA
	TokPrefixDirective
	TokBaseDirective
	TokSparqlPrefix
	TokSparqlBase
	TokGraphKeyword
	TokVariable
	TokArrow
	TokForAll
	TokForSome
)

func (k TokenKind) String() string {
	switch k {
	case TokEOF:
		return "EOF"
	case TokIRIRef:
		return "IRIREF"
	case TokPNameNS:
		return "PNAME_NS"
	case TokPNameLN:
		return "PNAME_LN"
	case TokBlankNodeLabel:
		return "BLANK_NODE_LABEL"
	case TokString:
		return "STRING_LITERAL"
	case TokLangTag:
		return "LANGTAG"
	case TokInteger:
		return "INTEGER"
	case TokDecimal:
		return "DECIMAL"
	case TokDouble:
		return "DOUBLE"
	case TokBoolean:
		return "BOOLEAN"
	case TokDot:
		return "'.'"
	case TokComma:
		return "','"
	case TokSemicolon:
		return "';'"
	case TokLBracket:
		return "'['"
	case TokRBracket:
		return "']'"
	case TokLParen:
		return "'('"
	case TokRParen:
		return "')'"
	case TokLBrace:
		return "'{'"
	case TokRBrace:
		return "'}'"
	case TokCaret:
		return "'^^'"
	case TokA:
		return "'a'"
	case TokPrefixDirective:
		return "@prefix"
	case TokBaseDirective:
		return "@base"
	case TokSparqlPrefix:
		return "PREFIX"
	case TokSparqlBase:
		return "BASE"
	case TokGraphKeyword:
		return "GRAPH"
	case TokVariable:
		return "VARIABLE"
	case TokArrow:
		return "'=>'"
	case TokForAll:
		return "@forAll"
	case TokForSome:
		return "@forSome"
	default:
		return "UNKNOWN"
	}
}

// Token is one lexical token. Lexeme is the raw input slice; Value is the
// cooked form where the two differ (escape-processed string bodies and IRI
// refs, blank node labels without the `_:`, language tags without the `@`).
type Token struct {
	Kind   TokenKind
	Lexeme string
	Value  string
	Pos    rdf.Position
}

func (t Token) String() string {
	if t.Kind == TokEOF {
		return "EOF"
	}
	return fmt.Sprintf("%s %q", t.Kind, t.Lexeme)
}
