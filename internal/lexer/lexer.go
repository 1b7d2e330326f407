package lexer

import (
	"fmt"
	"unicode"

	"github.com/PQNebel/nebulang/internal/diag"
)

type LexerErrorKind int

const (
	ErrUnterminatedString LexerErrorKind = iota
	ErrUnterminatedChar
	ErrUnterminatedBlockComment
	ErrMalformedNumber
	ErrIllegalRune
)

type LexerError struct {
	Kind    LexerErrorKind
	Message string
	Span    Span
}

func (k LexerErrorKind) diagnosticCode() diag.Code {
	switch k {
	case ErrUnterminatedString:
		return diag.CodeLexerUnterminatedString
	case ErrUnterminatedChar:
		return diag.CodeLexerUnterminatedChar
	case ErrUnterminatedBlockComment:
		return diag.CodeLexerUnterminatedBlockComment
	case ErrMalformedNumber:
		return diag.CodeLexerMalformedNumber
	case ErrIllegalRune:
		return diag.CodeLexerIllegalRune
	default:
		return diag.Code("LEXER_UNKNOWN_ERROR")
	}
}

// ToDiagnostic converts a lexer error into a shared diagnostic structure.
func (e LexerError) ToDiagnostic() diag.Diagnostic {
	return diag.Diagnostic{
		Stage:    diag.StageLexer,
		Severity: diag.SeverityError,
		Code:     e.Kind.diagnosticCode(),
		Message:  e.Message,
		Span: diag.Span{
			Filename: e.Span.Filename,
			Line:     e.Span.Line,
			Column:   e.Span.Column,
			Start:    e.Span.Start,
			End:      e.Span.End,
		},
	}
}

// Lexer represents the lexer state
type Lexer struct {
	input    []rune
	pos      int  // index of the current rune
	ch       rune // current rune (0 = EOF)
	line     int  // current line number (1-based)
	column   int  // current column number (1-based)
	filename string

	Errors []LexerError
}

// New creates a new lexer for the given input.
func New(input string) *Lexer {
	l := &Lexer{
		input:  []rune(input),
		pos:    -1, // start before first rune
		line:   1,
		column: 0, // will be 1 after first read()
	}
	l.read()
	return l
}

// SetFilename attributes all emitted spans to the provided filename.
func (l *Lexer) SetFilename(name string) {
	l.filename = name
}

// Scan tokenizes the whole input. The returned slice always ends with the
// EOF sentinel token, even when errors were encountered.
func Scan(input string) ([]Token, []LexerError) {
	return ScanFile("", input)
}

// ScanFile is Scan with spans attributed to filename.
func ScanFile(filename, input string) ([]Token, []LexerError) {
	l := New(input)
	l.SetFilename(filename)

	var toks []Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Type == EOF {
			return toks, l.Errors
		}
	}
}

func (l *Lexer) addError(kind LexerErrorKind, msg string, span Span) {
	l.Errors = append(l.Errors, LexerError{
		Kind:    kind,
		Message: msg,
		Span:    span,
	})
}

// read advances the lexer to the next character. Line/column always reflect
// the position of the character at pos.
func (l *Lexer) read() {
	var prev rune
	if l.pos >= 0 && l.pos < len(l.input) {
		prev = l.input[l.pos]
	}

	l.pos++
	if prev == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}

	if l.pos >= len(l.input) {
		l.ch = 0 // EOF
		return
	}
	l.ch = l.input[l.pos]
}

// peek returns the next character without advancing
func (l *Lexer) peek() rune {
	if l.pos+1 >= len(l.input) {
		return 0
	}
	return l.input[l.pos+1]
}

// mark captures the start of the token about to be scanned.
func (l *Lexer) mark() Span {
	return Span{
		Filename: l.filename,
		Line:     l.line,
		Column:   l.column,
		Start:    l.pos,
	}
}

// close finishes a span at the current position.
func (l *Lexer) close(span Span) Span {
	span.End = l.pos
	return span
}

// NextToken scans and returns the next token.
func (l *Lexer) NextToken() Token {
	l.skipTrivia()

	span := l.mark()

	switch {
	case l.ch == 0:
		span.End = span.Start
		return Token{Type: EOF, Span: span}
	case isLetter(l.ch):
		ident := l.readIdentifier()
		return Token{Type: LookupIdent(ident), Raw: ident, Value: ident, Span: l.close(span)}
	case isDigit(l.ch):
		return l.readNumber(span)
	case l.ch == '\'':
		return l.readChar(span)
	case l.ch == '"':
		return l.readString(span)
	default:
		return l.readOperator(span)
	}
}

// skipTrivia consumes whitespace and comments. Line comments run to the end
// of the line; block comments nest.
func (l *Lexer) skipTrivia() {
	for {
		switch {
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\r' || l.ch == '\n':
			l.read()
		case l.ch == '/' && l.peek() == '/':
			for l.ch != '\n' && l.ch != 0 {
				l.read()
			}
		case l.ch == '/' && l.peek() == '*':
			l.skipBlockComment()
		default:
			return
		}
	}
}

func (l *Lexer) skipBlockComment() {
	span := l.mark()
	l.read() // '/'
	l.read() // '*'

	depth := 1
	for depth > 0 {
		switch {
		case l.ch == 0:
			l.addError(ErrUnterminatedBlockComment, "unterminated block comment", l.close(span))
			return
		case l.ch == '/' && l.peek() == '*':
			depth++
			l.read()
			l.read()
		case l.ch == '*' && l.peek() == '/':
			depth--
			l.read()
			l.read()
		default:
			l.read()
		}
	}
}

func (l *Lexer) readIdentifier() string {
	start := l.pos
	for isLetter(l.ch) || isDigit(l.ch) {
		l.read()
	}
	return string(l.input[start:l.pos])
}

func (l *Lexer) readNumber(span Span) Token {
	start := l.pos
	for isDigit(l.ch) {
		l.read()
	}

	tt := INT
	if l.ch == '.' {
		if !isDigit(l.peek()) {
			l.read() // consume the stray '.'
			span = l.close(span)
			raw := string(l.input[start:l.pos])
			l.addError(ErrMalformedNumber, fmt.Sprintf("malformed number literal '%s'", raw), span)
			return Token{Type: ILLEGAL, Raw: raw, Value: raw, Span: span}
		}
		tt = FLOAT
		l.read() // '.'
		for isDigit(l.ch) {
			l.read()
		}
	}

	raw := string(l.input[start:l.pos])
	return Token{Type: tt, Raw: raw, Value: raw, Span: l.close(span)}
}

func (l *Lexer) readChar(span Span) Token {
	start := l.pos
	l.read() // opening quote

	var value rune
	switch l.ch {
	case 0, '\n', '\'':
		raw := string(l.input[start:l.pos])
		span = l.close(span)
		l.addError(ErrUnterminatedChar, "empty or unterminated char literal", span)
		if l.ch == '\'' {
			l.read()
		}
		return Token{Type: ILLEGAL, Raw: raw, Value: raw, Span: span}
	case '\\':
		l.read()
		decoded, ok := decodeEscape(l.ch)
		if !ok {
			l.addError(ErrIllegalRune, fmt.Sprintf("unknown escape sequence '\\%c'", l.ch), l.close(span))
		}
		value = decoded
		l.read()
	default:
		value = l.ch
		l.read()
	}

	if l.ch != '\'' {
		raw := string(l.input[start:l.pos])
		span = l.close(span)
		l.addError(ErrUnterminatedChar, "unterminated char literal", span)
		return Token{Type: ILLEGAL, Raw: raw, Value: raw, Span: span}
	}
	l.read() // closing quote

	return Token{
		Type:  CHAR,
		Raw:   string(l.input[start:l.pos]),
		Value: string(value),
		Span:  l.close(span),
	}
}

func (l *Lexer) readString(span Span) Token {
	start := l.pos
	l.read() // opening quote

	var value []rune
	for l.ch != '"' {
		if l.ch == 0 || l.ch == '\n' {
			raw := string(l.input[start:l.pos])
			span = l.close(span)
			l.addError(ErrUnterminatedString, "unterminated string literal", span)
			return Token{Type: ILLEGAL, Raw: raw, Value: raw, Span: span}
		}
		if l.ch == '\\' {
			l.read()
			decoded, ok := decodeEscape(l.ch)
			if !ok {
				l.addError(ErrIllegalRune, fmt.Sprintf("unknown escape sequence '\\%c'", l.ch), l.close(span))
			}
			value = append(value, decoded)
			l.read()
			continue
		}
		value = append(value, l.ch)
		l.read()
	}
	l.read() // closing quote

	return Token{
		Type:  STRING,
		Raw:   string(l.input[start:l.pos]),
		Value: string(value),
		Span:  l.close(span),
	}
}

func (l *Lexer) readOperator(span Span) Token {
	type pair struct {
		next rune
		two  TokenType
		one  TokenType
	}

	var p pair
	switch l.ch {
	case '+':
		p = pair{'=', PLUS_ASSIGN, PLUS}
	case '-':
		p = pair{'=', MINUS_ASSIGN, MINUS}
	case '*':
		return l.single(ASTERISK, span)
	case '/':
		return l.single(SLASH, span)
	case '%':
		return l.single(PERCENT, span)
	case '=':
		p = pair{'=', EQ, ASSIGN}
	case '!':
		p = pair{'=', NOT_EQ, BANG}
	case '<':
		p = pair{'=', LE, LT}
	case '>':
		p = pair{'=', GE, GT}
	case '&':
		if l.peek() == '&' {
			return l.double(AND, span)
		}
		return l.illegal(span)
	case '|':
		if l.peek() == '|' {
			return l.double(OR, span)
		}
		return l.illegal(span)
	case '(':
		return l.single(LPAREN, span)
	case ')':
		return l.single(RPAREN, span)
	case '{':
		return l.single(LBRACE, span)
	case '}':
		return l.single(RBRACE, span)
	case '[':
		return l.single(LBRACKET, span)
	case ']':
		return l.single(RBRACKET, span)
	case ',':
		return l.single(COMMA, span)
	case ';':
		return l.single(SEMICOLON, span)
	case ':':
		return l.single(COLON, span)
	default:
		return l.illegal(span)
	}

	if l.peek() == p.next {
		return l.double(p.two, span)
	}
	return l.single(p.one, span)
}

func (l *Lexer) single(tt TokenType, span Span) Token {
	raw := string(l.ch)
	l.read()
	return Token{Type: tt, Raw: raw, Value: raw, Span: l.close(span)}
}

func (l *Lexer) double(tt TokenType, span Span) Token {
	raw := string([]rune{l.ch, l.peek()})
	l.read()
	l.read()
	return Token{Type: tt, Raw: raw, Value: raw, Span: l.close(span)}
}

func (l *Lexer) illegal(span Span) Token {
	raw := string(l.ch)
	l.read()
	span = l.close(span)
	l.addError(ErrIllegalRune, fmt.Sprintf("unexpected character '%s'", raw), span)
	return Token{Type: ILLEGAL, Raw: raw, Value: raw, Span: span}
}

func decodeEscape(r rune) (rune, bool) {
	switch r {
	case 'n':
		return '\n', true
	case 't':
		return '\t', true
	case 'r':
		return '\r', true
	case '0':
		return 0, true
	case '\\', '\'', '"':
		return r, true
	default:
		return r, false
	}
}

func isLetter(ch rune) bool {
	return ch == '_' || unicode.IsLetter(ch)
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}
