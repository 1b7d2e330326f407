package parser

import (
	"github.com/PQNebel/nebulang/internal/ast"
	"github.com/PQNebel/nebulang/internal/lexer"
)

// Parser consumes a pre-lexed token stream with one token of lookahead.
// Every production peeks before it consumes; a terminator token is how each
// construct knows it is done and is never consumed as part of an expression.
type Parser struct {
	toks []lexer.Token
	pos  int
}

// New returns a parser over the given token stream. The stream is expected to
// end with the EOF sentinel (lexer.Scan produces such a stream); a missing
// sentinel is padded so lookahead never runs off the slice.
func New(toks []lexer.Token) *Parser {
	if n := len(toks); n == 0 || toks[n-1].Type != lexer.EOF {
		var span lexer.Span
		if n > 0 {
			span = toks[n-1].Span
		}
		toks = append(toks, lexer.Token{Type: lexer.EOF, Span: span})
	}
	return &Parser{toks: toks}
}

// Parse parses a whole program and returns the root block.
func (p *Parser) Parse() (*ast.BlockExp, error) {
	block, err := p.parseStatements()
	if err != nil {
		return nil, err
	}

	if tok := p.peekTok(); tok.Type != lexer.EOF {
		return nil, p.errorf(tok.Span, "unexpected '%s'", tok.Raw)
	}

	return block, nil
}

// peekTok returns the current token without consuming it.
func (p *Parser) peekTok() lexer.Token {
	return p.toks[p.pos]
}

// advance consumes and returns the current token. The EOF sentinel is never
// consumed, so lookahead past the end stays pinned to it.
func (p *Parser) advance() lexer.Token {
	tok := p.toks[p.pos]
	if tok.Type != lexer.EOF {
		p.pos++
	}
	return tok
}

// loc returns the current token's span. Standing on the EOF sentinel is
// itself an error, reported at the sentinel's location so the message still
// carries defensible source coordinates.
func (p *Parser) loc() (lexer.Span, error) {
	tok := p.peekTok()
	if tok.Type == lexer.EOF {
		return tok.Span, p.errorf(tok.Span, "unexpected end of input")
	}
	return tok.Span, nil
}

// atTerminator reports whether the current token legitimately ends a
// statement or expression without being consumed by it.
func (p *Parser) atTerminator() bool {
	switch p.peekTok().Type {
	case lexer.SEMICOLON, lexer.RPAREN, lexer.RBRACE, lexer.RBRACKET,
		lexer.ELSE, lexer.COMMA, lexer.EOF:
		return true
	default:
		return false
	}
}

// expect consumes a token of the given type or fails at the current token.
func (p *Parser) expect(tt lexer.TokenType) (lexer.Token, error) {
	tok := p.peekTok()
	if tok.Type != tt {
		return tok, p.errorf(tok.Span, "expected '%s'", string(tt))
	}
	return p.advance(), nil
}

// accept consumes the next token when it matches.
func (p *Parser) accept(tt lexer.TokenType) bool {
	if p.peekTok().Type == tt {
		p.advance()
		return true
	}
	return false
}
