package rdf

import "fmt"

// Position locates a point in a source document.
// The first line is 1. The first column is 0.
type Position struct {
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("line %d, column %d", p.Line, p.Column)
}

// LexError reports a malformed token: bad escape, unterminated literal,
// invalid IRI character, invalid UTF-8. Always fatal to the parse.
type LexError struct {
	Pos Position
	Msg string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
}

// SyntaxError reports a token stream that matches no grammar production
// at the current position. Always fatal to the parse.
type SyntaxError struct {
	Pos      Position
	Expected string
	Found    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s: expected %s, found %s", e.Pos, e.Expected, e.Found)
}

// ResolutionError reports a relative IRI with no base in scope or a
// reference to an undeclared prefix. Always fatal to the parse.
type ResolutionError struct {
	Pos Position
	Msg string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
}

// UnsupportedConstructError reports a construct the grammar accepts but the
// target representation cannot express (N3 formulas and variables projected
// to N-Quads).
type UnsupportedConstructError struct {
	Pos       Position
	Construct string
}

func (e *UnsupportedConstructError) Error() string {
	if e.Pos.Line == 0 {
		return fmt.Sprintf("unsupported construct: %s", e.Construct)
	}
	return fmt.Sprintf("%s: unsupported construct: %s", e.Pos, e.Construct)
}
