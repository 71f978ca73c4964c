package turtle

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/tersedata/terse/pkg/rdf"
)

// Lexer turns Turtle/TriG/N3 text into a stream of tokens. It is a pure
// function of the input and its own position: all parse state (prefixes,
// base, blank node scope) lives in the caller. Whitespace and #-comments
// are skipped, never emitted.
type Lexer struct {
	input  string
	pos    int // byte offset
	length int
	line   int // 1-based
	col    int // 0-based, in runes
}

func NewLexer(input string) *Lexer {
	return &Lexer{
		input:  input,
		length: len(input),
		line:   1,
	}
}

// here returns the current source position.
func (l *Lexer) here() rdf.Position {
	return rdf.Position{Line: l.line, Column: l.col}
}

func (l *Lexer) errf(pos rdf.Position, format string, args ...any) *rdf.LexError {
	return &rdf.LexError{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

// peekRune decodes the rune at the current position without advancing.
// A size of 0 means end of input; a RuneError with size 1 is invalid UTF-8.
func (l *Lexer) peekRune() (rune, int) {
	if l.pos >= l.length {
		return 0, 0
	}
	return utf8.DecodeRuneInString(l.input[l.pos:])
}

// advance consumes one rune, keeping line/column counts current.
func (l *Lexer) advance() (rune, error) {
	r, size := l.peekRune()
	if size == 0 {
		return 0, l.errf(l.here(), "unexpected end of input")
	}
	if r == utf8.RuneError && size == 1 {
		return 0, l.errf(l.here(), "invalid UTF-8 sequence")
	}
	l.pos += size
	if r == '\n' {
		l.line++
		l.col = 0
	} else {
		l.col++
	}
	return r, nil
}

// retreat backs up over n bytes of known-ASCII, non-newline input.
func (l *Lexer) retreat(n int) {
	l.pos -= n
	l.col -= n
}

func (l *Lexer) skipWhitespaceAndComments() {
	for l.pos < l.length {
		ch := l.input[l.pos]
		switch {
		case ch == ' ' || ch == '\t' || ch == '\r':
			l.pos++
			l.col++
		case ch == '\n':
			l.pos++
			l.line++
			l.col = 0
		case ch == '#':
			for l.pos < l.length && l.input[l.pos] != '\n' {
				l.pos++
			}
		default:
			return
		}
	}
}

// Next returns the next token, or a LexError. At end of input it returns
// a TokEOF token indefinitely.
func (l *Lexer) Next() (Token, error) {
	l.skipWhitespaceAndComments()
	start := l.here()
	startPos := l.pos

	if l.pos >= l.length {
		return Token{Kind: TokEOF, Pos: start}, nil
	}

	ch := l.input[l.pos]
	switch {
	case ch == '<':
		return l.scanIRIRef(start)
	case ch == '_':
		return l.scanBlankNodeLabel(start)
	case ch == '"' || ch == '\'':
		return l.scanString(start)
	case ch == '@':
		return l.scanAtWord(start)
	case ch == '?':
		return l.scanVariable(start)
	case ch >= '0' && ch <= '9':
		return l.scanNumber(start)
	case ch == '+' || ch == '-':
		return l.scanNumber(start)
	case ch == '.':
		if l.pos+1 < l.length && l.input[l.pos+1] >= '0' && l.input[l.pos+1] <= '9' {
			return l.scanNumber(start)
		}
		l.mustAdvance()
		return Token{Kind: TokDot, Lexeme: ".", Pos: start}, nil
	case ch == ',':
		l.mustAdvance()
		return Token{Kind: TokComma, Lexeme: ",", Pos: start}, nil
	case ch == ';':
		l.mustAdvance()
		return Token{Kind: TokSemicolon, Lexeme: ";", Pos: start}, nil
	case ch == '[':
		l.mustAdvance()
		return Token{Kind: TokLBracket, Lexeme: "[", Pos: start}, nil
	case ch == ']':
		l.mustAdvance()
		return Token{Kind: TokRBracket, Lexeme: "]", Pos: start}, nil
	case ch == '(':
		l.mustAdvance()
		return Token{Kind: TokLParen, Lexeme: "(", Pos: start}, nil
	case ch == ')':
		l.mustAdvance()
		return Token{Kind: TokRParen, Lexeme: ")", Pos: start}, nil
	case ch == '{':
		l.mustAdvance()
		return Token{Kind: TokLBrace, Lexeme: "{", Pos: start}, nil
	case ch == '}':
		l.mustAdvance()
		return Token{Kind: TokRBrace, Lexeme: "}", Pos: start}, nil
	case ch == '^':
		l.mustAdvance()
		if l.pos >= l.length || l.input[l.pos] != '^' {
			return Token{}, l.errf(start, "expected '^^'")
		}
		l.mustAdvance()
		return Token{Kind: TokCaret, Lexeme: "^^", Pos: start}, nil
	case ch == '=':
		l.mustAdvance()
		if l.pos < l.length && l.input[l.pos] == '>' {
			l.mustAdvance()
			return Token{Kind: TokArrow, Lexeme: "=>", Pos: start}, nil
		}
		return Token{}, l.errf(start, "unexpected character '='")
	case ch == ':':
		return l.scanPName(start, startPos)
	default:
		r, size := l.peekRune()
		if r == utf8.RuneError && size == 1 {
			return Token{}, l.errf(start, "invalid UTF-8 sequence")
		}
		if isPNCharsBase(r) {
			return l.scanWord(start, startPos)
		}
		return Token{}, l.errf(start, "unexpected character %q", r)
	}
}

// mustAdvance consumes one rune already known to be valid ASCII.
func (l *Lexer) mustAdvance() {
	if _, err := l.advance(); err != nil {
		panic(err)
	}
}

// scanIRIRef reads <...>, processing \u/\U escapes and rejecting characters
// the IRIREF production forbids.
func (l *Lexer) scanIRIRef(start rdf.Position) (Token, error) {
	lexStart := l.pos
	l.mustAdvance() // '<'

	var value strings.Builder
	for {
		if l.pos >= l.length {
			return Token{}, l.errf(start, "unclosed IRI")
		}
		ch := l.input[l.pos]
		if ch == '>' {
			break
		}
		if ch == '\\' {
			escaped, err := l.readUnicodeEscape()
			if err != nil {
				return Token{}, err
			}
			value.WriteRune(escaped)
			continue
		}
		if ch == ' ' || ch == '<' || ch == '"' || ch <= 0x1F {
			return Token{}, l.errf(l.here(), "invalid character %q in IRI", ch)
		}
		if ch == '%' {
			if err := l.checkPercentEncoding(); err != nil {
				return Token{}, err
			}
			value.WriteByte('%')
			l.mustAdvance()
			continue
		}
		r, err := l.advance()
		if err != nil {
			return Token{}, err
		}
		value.WriteRune(r)
	}
	l.mustAdvance() // '>'

	return Token{
		Kind:   TokIRIRef,
		Lexeme: l.input[lexStart:l.pos],
		Value:  value.String(),
		Pos:    start,
	}, nil
}

// checkPercentEncoding validates the two hex digits after a '%' without
// consuming them.
func (l *Lexer) checkPercentEncoding() error {
	if l.pos+2 >= l.length || !isHexDigit(l.input[l.pos+1]) || !isHexDigit(l.input[l.pos+2]) {
		return l.errf(l.here(), "invalid percent-encoding")
	}
	return nil
}

// readUnicodeEscape consumes a \uXXXX or \UXXXXXXXX sequence and returns
// the encoded rune.
func (l *Lexer) readUnicodeEscape() (rune, error) {
	pos := l.here()
	l.mustAdvance() // '\'
	if l.pos >= l.length {
		return 0, l.errf(pos, "incomplete escape sequence")
	}
	kind := l.input[l.pos]
	var digits int
	switch kind {
	case 'u':
		digits = 4
	case 'U':
		digits = 8
	default:
		return 0, l.errf(pos, `invalid escape sequence \%c`, kind)
	}
	l.mustAdvance()

	if l.pos+digits > l.length {
		return 0, l.errf(pos, "incomplete Unicode escape sequence")
	}
	var code rune
	for i := 0; i < digits; i++ {
		b := l.input[l.pos]
		if !isHexDigit(b) {
			return 0, l.errf(pos, "invalid hex digit %q in Unicode escape", b)
		}
		code = code<<4 | rune(hexValue(b))
		l.mustAdvance()
	}
	if code >= 0xD800 && code <= 0xDFFF {
		return 0, l.errf(pos, "surrogate code point U+%04X in Unicode escape", code)
	}
	if code > 0x10FFFF {
		return 0, l.errf(pos, "code point U+%X exceeds maximum U+10FFFF", code)
	}
	return code, nil
}

// scanString handles all four quoting styles. Long strings may contain raw
// newlines; short strings may not.
func (l *Lexer) scanString(start rdf.Position) (Token, error) {
	lexStart := l.pos
	quote := l.input[l.pos]

	long := l.pos+2 < l.length &&
		l.input[l.pos+1] == quote && l.input[l.pos+2] == quote
	if long {
		l.mustAdvance()
		l.mustAdvance()
		l.mustAdvance()
	} else {
		l.mustAdvance()
	}

	var value strings.Builder
	for {
		if l.pos >= l.length {
			return Token{}, l.errf(start, "unterminated string literal")
		}
		ch := l.input[l.pos]

		if ch == quote {
			if !long {
				l.mustAdvance()
				break
			}
			if l.pos+2 < l.length && l.input[l.pos+1] == quote && l.input[l.pos+2] == quote {
				l.mustAdvance()
				l.mustAdvance()
				l.mustAdvance()
				break
			}
			// A lone quote (or pair) inside a long string is content.
			l.mustAdvance()
			value.WriteByte(quote)
			continue
		}

		if ch == '\n' && !long {
			return Token{}, l.errf(start, "unterminated string literal")
		}

		if ch == '\\' {
			if l.pos+1 < l.length && (l.input[l.pos+1] == 'u' || l.input[l.pos+1] == 'U') {
				r, err := l.readUnicodeEscape()
				if err != nil {
					return Token{}, err
				}
				value.WriteRune(r)
				continue
			}
			escPos := l.here()
			l.mustAdvance() // '\'
			if l.pos >= l.length {
				return Token{}, l.errf(escPos, "incomplete escape sequence")
			}
			switch l.input[l.pos] {
			case 'n':
				value.WriteByte('\n')
			case 't':
				value.WriteByte('\t')
			case 'r':
				value.WriteByte('\r')
			case 'b':
				value.WriteByte('\b')
			case 'f':
				value.WriteByte('\f')
			case '"':
				value.WriteByte('"')
			case '\'':
				value.WriteByte('\'')
			case '\\':
				value.WriteByte('\\')
			default:
				return Token{}, l.errf(escPos, `invalid escape sequence \%c`, l.input[l.pos])
			}
			l.mustAdvance()
			continue
		}

		r, err := l.advance()
		if err != nil {
			return Token{}, err
		}
		value.WriteRune(r)
	}

	return Token{
		Kind:   TokString,
		Lexeme: l.input[lexStart:l.pos],
		Value:  value.String(),
		Pos:    start,
	}, nil
}

// scanBlankNodeLabel reads _:label per the BLANK_NODE_LABEL production;
// a trailing '.' belongs to the statement, not the label.
func (l *Lexer) scanBlankNodeLabel(start rdf.Position) (Token, error) {
	lexStart := l.pos
	l.mustAdvance() // '_'
	if l.pos >= l.length || l.input[l.pos] != ':' {
		return Token{}, l.errf(start, "expected ':' after '_' in blank node label")
	}
	l.mustAdvance() // ':'

	labelStart := l.pos
	r, size := l.peekRune()
	if size == 0 || (!isPNCharsU(r) && !(r >= '0' && r <= '9')) {
		return Token{}, l.errf(start, "invalid blank node label")
	}
	if _, err := l.advance(); err != nil {
		return Token{}, err
	}

	trailingDots := 0
	for {
		r, size := l.peekRune()
		if size == 0 {
			break
		}
		if r == '.' {
			trailingDots++
		} else if isPNChars(r) {
			trailingDots = 0
		} else {
			break
		}
		if _, err := l.advance(); err != nil {
			return Token{}, err
		}
	}
	if trailingDots > 0 {
		l.retreat(trailingDots)
	}

	return Token{
		Kind:   TokBlankNodeLabel,
		Lexeme: l.input[lexStart:l.pos],
		Value:  l.input[labelStart:l.pos],
		Pos:    start,
	}, nil
}

// scanAtWord reads an '@' directive or a language tag.
func (l *Lexer) scanAtWord(start rdf.Position) (Token, error) {
	lexStart := l.pos
	l.mustAdvance() // '@'

	wordStart := l.pos
	for l.pos < l.length && isASCIILetter(l.input[l.pos]) {
		l.mustAdvance()
	}
	word := l.input[wordStart:l.pos]
	if word == "" {
		return Token{}, l.errf(start, "expected language tag or directive after '@'")
	}

	switch word {
	case "prefix":
		return Token{Kind: TokPrefixDirective, Lexeme: "@prefix", Pos: start}, nil
	case "base":
		return Token{Kind: TokBaseDirective, Lexeme: "@base", Pos: start}, nil
	case "forAll":
		return Token{Kind: TokForAll, Lexeme: "@forAll", Pos: start}, nil
	case "forSome":
		return Token{Kind: TokForSome, Lexeme: "@forSome", Pos: start}, nil
	}

	// Language tag: [a-zA-Z]+ ('-' [a-zA-Z0-9]+)*
	for l.pos+1 < l.length && l.input[l.pos] == '-' && isASCIIAlnum(l.input[l.pos+1]) {
		l.mustAdvance()
		for l.pos < l.length && isASCIIAlnum(l.input[l.pos]) {
			l.mustAdvance()
		}
	}

	return Token{
		Kind:   TokLangTag,
		Lexeme: l.input[lexStart:l.pos],
		Value:  l.input[wordStart:l.pos],
		Pos:    start,
	}, nil
}

// scanVariable reads an N3 ?name variable.
func (l *Lexer) scanVariable(start rdf.Position) (Token, error) {
	lexStart := l.pos
	l.mustAdvance() // '?'

	nameStart := l.pos
	r, size := l.peekRune()
	if size == 0 || !isPNCharsU(r) {
		return Token{}, l.errf(start, "expected variable name after '?'")
	}
	for {
		r, size := l.peekRune()
		if size == 0 || !isPNChars(r) {
			break
		}
		if _, err := l.advance(); err != nil {
			return Token{}, err
		}
	}
	return Token{
		Kind:   TokVariable,
		Lexeme: l.input[lexStart:l.pos],
		Value:  l.input[nameStart:l.pos],
		Pos:    start,
	}, nil
}

// scanNumber reads INTEGER, DECIMAL, or DOUBLE shorthand. A '.' is part of
// the number only when digits (or an exponent) follow, so a statement's
// terminating dot is left alone.
func (l *Lexer) scanNumber(start rdf.Position) (Token, error) {
	lexStart := l.pos

	if l.input[l.pos] == '+' || l.input[l.pos] == '-' {
		l.mustAdvance()
	}

	intDigits := 0
	for l.pos < l.length && isASCIIDigit(l.input[l.pos]) {
		l.mustAdvance()
		intDigits++
	}

	kind := TokInteger
	if l.pos < l.length && l.input[l.pos] == '.' {
		next := byte(0)
		if l.pos+1 < l.length {
			next = l.input[l.pos+1]
		}
		if isASCIIDigit(next) {
			kind = TokDecimal
			l.mustAdvance() // '.'
			for l.pos < l.length && isASCIIDigit(l.input[l.pos]) {
				l.mustAdvance()
			}
		} else if (next == 'e' || next == 'E') && intDigits > 0 {
			// "1.e0" is a DOUBLE with an empty fraction.
			kind = TokDecimal
			l.mustAdvance()
		}
	}

	if intDigits == 0 && kind == TokInteger {
		return Token{}, l.errf(start, "expected digits in number")
	}

	if l.pos < l.length && (l.input[l.pos] == 'e' || l.input[l.pos] == 'E') {
		kind = TokDouble
		l.mustAdvance()
		if l.pos < l.length && (l.input[l.pos] == '+' || l.input[l.pos] == '-') {
			l.mustAdvance()
		}
		expDigits := 0
		for l.pos < l.length && isASCIIDigit(l.input[l.pos]) {
			l.mustAdvance()
			expDigits++
		}
		if expDigits == 0 {
			return Token{}, l.errf(start, "expected digits in exponent")
		}
	}

	lexeme := l.input[lexStart:l.pos]
	return Token{Kind: kind, Lexeme: lexeme, Value: lexeme, Pos: start}, nil
}

// scanWord reads a bare name: a prefixed-name namespace, the 'a' keyword,
// boolean shorthand, or a case-insensitive keyword (GRAPH, PREFIX, BASE).
func (l *Lexer) scanWord(start rdf.Position, lexStart int) (Token, error) {
	for {
		r, size := l.peekRune()
		if size == 0 {
			break
		}
		if r == utf8.RuneError && size == 1 {
			return Token{}, l.errf(l.here(), "invalid UTF-8 sequence")
		}
		if !isPNChars(r) && r != '.' {
			break
		}
		if r == '.' {
			// Dots are only valid inside a name, not at its end.
			nr, nsize := utf8.DecodeRuneInString(l.input[l.pos+size:])
			if nsize == 0 || (!isPNChars(nr) && nr != '.' && nr != ':') {
				break
			}
		}
		if _, err := l.advance(); err != nil {
			return Token{}, err
		}
	}

	if l.pos < l.length && l.input[l.pos] == ':' {
		return l.scanPNameLocal(start, lexStart, l.input[lexStart:l.pos])
	}

	word := l.input[lexStart:l.pos]
	switch {
	case word == "a":
		return Token{Kind: TokA, Lexeme: word, Pos: start}, nil
	case word == "true" || word == "false":
		return Token{Kind: TokBoolean, Lexeme: word, Value: word, Pos: start}, nil
	case strings.EqualFold(word, "graph"):
		return Token{Kind: TokGraphKeyword, Lexeme: word, Pos: start}, nil
	case strings.EqualFold(word, "prefix"):
		return Token{Kind: TokSparqlPrefix, Lexeme: word, Pos: start}, nil
	case strings.EqualFold(word, "base"):
		return Token{Kind: TokSparqlBase, Lexeme: word, Pos: start}, nil
	}
	return Token{}, l.errf(start, "unexpected token %q", word)
}

// scanPName finishes a prefixed name whose namespace part has already been
// consumed (possibly empty, for names like ':x').
func (l *Lexer) scanPName(start rdf.Position, lexStart int) (Token, error) {
	return l.scanPNameLocal(start, lexStart, "")
}

func (l *Lexer) scanPNameLocal(start rdf.Position, lexStart int, prefix string) (Token, error) {
	l.mustAdvance() // ':'

	var local strings.Builder
	first := true
	trailingDots := 0
	for {
		r, size := l.peekRune()
		if size == 0 {
			break
		}
		if r == utf8.RuneError && size == 1 {
			return Token{}, l.errf(l.here(), "invalid UTF-8 sequence")
		}

		if r == '%' {
			if err := l.checkPercentEncoding(); err != nil {
				return Token{}, err
			}
			local.WriteByte('%')
			local.WriteByte(l.input[l.pos+1])
			local.WriteByte(l.input[l.pos+2])
			l.mustAdvance()
			l.mustAdvance()
			l.mustAdvance()
			first = false
			trailingDots = 0
			continue
		}
		if r == '\\' {
			if l.pos+1 >= l.length || !isPNLocalEsc(l.input[l.pos+1]) {
				return Token{}, l.errf(l.here(), "invalid escape sequence in prefixed name")
			}
			local.WriteByte(l.input[l.pos+1])
			l.mustAdvance()
			l.mustAdvance()
			first = false
			trailingDots = 0
			continue
		}

		ok := false
		if first {
			ok = isPNCharsU(r) || r == ':' || (r >= '0' && r <= '9')
		} else {
			ok = isPNChars(r) || r == ':' || r == '.'
		}
		if !ok {
			break
		}
		if r == '.' {
			trailingDots++
		} else {
			trailingDots = 0
		}
		if _, err := l.advance(); err != nil {
			return Token{}, err
		}
		local.WriteRune(r)
		first = false
	}

	localStr := local.String()
	if trailingDots > 0 {
		l.retreat(trailingDots)
		localStr = localStr[:len(localStr)-trailingDots]
	}

	kind := TokPNameLN
	if localStr == "" {
		kind = TokPNameNS
	}
	return Token{
		Kind:   kind,
		Lexeme: l.input[lexStart:l.pos],
		Value:  prefix + ":" + localStr,
		Pos:    start,
	}, nil
}

// Character classes per the Turtle grammar.

// isPNCharsBase checks PN_CHARS_BASE.
func isPNCharsBase(r rune) bool {
	return (r >= 'A' && r <= 'Z') ||
		(r >= 'a' && r <= 'z') ||
		(r >= 0x00C0 && r <= 0x00D6) ||
		(r >= 0x00D8 && r <= 0x00F6) ||
		(r >= 0x00F8 && r <= 0x02FF) ||
		(r >= 0x0370 && r <= 0x037D) ||
		(r >= 0x037F && r <= 0x1FFF) ||
		(r >= 0x200C && r <= 0x200D) ||
		(r >= 0x2070 && r <= 0x218F) ||
		(r >= 0x2C00 && r <= 0x2FEF) ||
		(r >= 0x3001 && r <= 0xD7FF) ||
		(r >= 0xF900 && r <= 0xFDCF) ||
		(r >= 0xFDF0 && r <= 0xFFFD) ||
		(r >= 0x10000 && r <= 0xEFFFF)
}

// isPNCharsU checks PN_CHARS_U (PN_CHARS_BASE | '_').
func isPNCharsU(r rune) bool {
	return isPNCharsBase(r) || r == '_'
}

// isPNChars checks PN_CHARS.
func isPNChars(r rune) bool {
	return isPNCharsU(r) ||
		r == '-' ||
		(r >= '0' && r <= '9') ||
		r == 0x00B7 ||
		(r >= 0x0300 && r <= 0x036F) ||
		(r >= 0x203F && r <= 0x2040)
}

// isPNLocalEsc checks the characters a backslash may escape in PN_LOCAL.
func isPNLocalEsc(b byte) bool {
	switch b {
	case '_', '~', '.', '-', '!', '$', '&', '\'', '(', ')', '*', '+', ',',
		';', '=', '/', '?', '#', '@', '%':
		return true
	}
	return false
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

func isASCIILetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isASCIIDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isASCIIAlnum(b byte) bool {
	return isASCIILetter(b) || isASCIIDigit(b)
}
