package lexer

import "fmt"

// TokenType represents the type of a token
type TokenType string

// Span represents the source location of a token
type Span struct {
	Filename string // optional source filename for diagnostics
	Line     int    // 1-based line number
	Column   int    // 1-based column number
	Start    int    // index in []rune of the source
	End      int    // exclusive end index
}

// String returns a human-readable representation of the span.
func (s Span) String() string {
	if s.Filename != "" {
		return fmt.Sprintf("%s:%d:%d", s.Filename, s.Line, s.Column)
	}
	return fmt.Sprintf("%d:%d", s.Line, s.Column)
}

// Token represents a lexical token
type Token struct {
	Type  TokenType
	Raw   string // exact runes from source
	Value string // decoded value (for strings and chars, same as Raw for others)
	Span  Span   // source location information
}

// Token type constants
const (
	// Special tokens
	ILLEGAL TokenType = "ILLEGAL"
	EOF     TokenType = "EOF"

	// Identifiers and literals
	IDENT  TokenType = "IDENT"  // x, count, fib, ...
	INT    TokenType = "INT"    // 42
	FLOAT  TokenType = "FLOAT"  // 3.14
	BOOL   TokenType = "BOOL"   // true, false
	CHAR   TokenType = "CHAR"   // 'a'
	STRING TokenType = "STRING" // "hello"

	// Primitive type names: int, float, bool, char, string, unit
	TYPE TokenType = "TYPE"

	// Operators (longest match wins)
	ASSIGN       TokenType = "="
	PLUS         TokenType = "+"
	MINUS        TokenType = "-"
	ASTERISK     TokenType = "*"
	SLASH        TokenType = "/"
	PERCENT      TokenType = "%"
	BANG         TokenType = "!"
	AND          TokenType = "&&"
	OR           TokenType = "||"
	PLUS_ASSIGN  TokenType = "+="
	MINUS_ASSIGN TokenType = "-="

	LT     TokenType = "<"
	GT     TokenType = ">"
	EQ     TokenType = "=="
	NOT_EQ TokenType = "!="
	LE     TokenType = "<="
	GE     TokenType = ">="

	// Delimiters
	COMMA     TokenType = ","
	SEMICOLON TokenType = ";"
	COLON     TokenType = ":"

	LPAREN   TokenType = "("
	RPAREN   TokenType = ")"
	LBRACE   TokenType = "{"
	RBRACE   TokenType = "}"
	LBRACKET TokenType = "["
	RBRACKET TokenType = "]"

	// Keywords
	IF    TokenType = "IF"
	ELSE  TokenType = "ELSE"
	WHILE TokenType = "WHILE"
	FOR   TokenType = "FOR"
	LET   TokenType = "LET"
	FUN   TokenType = "FUN"
)

var keywords = map[string]TokenType{
	"if":    IF,
	"else":  ELSE,
	"while": WHILE,
	"for":   FOR,
	"let":   LET,
	"fun":   FUN,
}

var typeNames = map[string]bool{
	"int":    true,
	"float":  true,
	"bool":   true,
	"char":   true,
	"string": true,
	"unit":   true,
}

// LookupIdent classifies an identifier as a keyword, a bool literal,
// a primitive type name, or a plain identifier.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	if ident == "true" || ident == "false" {
		return BOOL
	}
	if typeNames[ident] {
		return TYPE
	}
	return IDENT
}

// IsOperator reports whether the token type is one of the expression
// operators. Bracket and punctuation tokens are not operators.
func IsOperator(tt TokenType) bool {
	switch tt {
	case ASSIGN, PLUS, MINUS, ASTERISK, SLASH, PERCENT, BANG,
		AND, OR, PLUS_ASSIGN, MINUS_ASSIGN,
		LT, GT, EQ, NOT_EQ, LE, GE:
		return true
	default:
		return false
	}
}
