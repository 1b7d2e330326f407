package parser

import (
	"fmt"

	"github.com/PQNebel/nebulang/internal/ast"
	"github.com/PQNebel/nebulang/internal/lexer"
)

// hiddenForVar names the counter of the counting-form loop. A '.' never
// lexes into an identifier, so the name cannot collide with user code.
const hiddenForVar = ".for"

// parseFor desugars both loop forms into ForExp(init-let, cond, increment,
// body). Which form applies is decided by whether an identifier opens the
// parenthesized head.
func (p *Parser) parseFor() (ast.Exp, error) {
	forTok, err := p.expect(lexer.FOR)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.LPAREN); err != nil {
		return nil, err
	}

	if p.peekTok().Type == lexer.IDENT {
		return p.parseIndexedFor(forTok.Span)
	}
	return p.parseCountingFor(forTok.Span)
}

// parseIndexedFor handles `for (id, from, to[, step]) body`. The bounds must
// be int or float literals; the comparison operator and the default step
// direction are chosen from the bounds, and an explicit step amount is
// negated when the implied direction is descending.
func (p *Parser) parseIndexedFor(loc lexer.Span) (ast.Exp, error) {
	id := p.advance()
	if _, err := p.expect(lexer.COMMA); err != nil {
		return nil, err
	}

	fromExp, err := p.parseLiteral()
	if err != nil {
		return nil, err
	}
	fromVal, err := numericBound(fromExp, "from")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.COMMA); err != nil {
		return nil, err
	}

	toExp, err := p.parseLiteral()
	if err != nil {
		return nil, err
	}
	toVal, err := numericBound(toExp, "to")
	if err != nil {
		return nil, err
	}

	initLet := ast.NewLetExp(id.Raw, fromExp, fromExp.Span())

	op := ast.OpLessThan
	step := int64(1)
	if toVal <= fromVal {
		op = ast.OpGreaterThan
		step = -1
	}
	cond := ast.NewBinOpExp(ast.NewVarExp(id.Raw, fromExp.Span()), op, toExp, toExp.Span())

	var inc ast.Exp
	if p.accept(lexer.COMMA) {
		amount, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if step < 0 {
			amount = ast.NewUnOpExp(ast.OpMinus, amount, loc)
		}
		inc = amount
	} else {
		inc = ast.NewLiteralExp(ast.IntLiteral(step), toExp.Span())
	}
	increment := ast.NewBinOpExp(ast.NewVarExp(id.Raw, toExp.Span()), ast.OpPlusAssign, inc, toExp.Span())

	if _, err := p.expect(lexer.RPAREN); err != nil {
		return nil, err
	}
	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}

	return ast.NewForExp(initLet, cond, increment, body, loc), nil
}

// parseCountingFor handles `for (expr) body`: a hidden counter from 0,
// looping while less than the bound, stepping by 1.
func (p *Parser) parseCountingFor(loc lexer.Span) (ast.Exp, error) {
	initLet := ast.NewLetExp(hiddenForVar, ast.NewLiteralExp(ast.IntLiteral(0), loc), loc)

	bound, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	cond := ast.NewBinOpExp(ast.NewVarExp(hiddenForVar, loc), ast.OpLessThan, bound, loc)
	increment := ast.NewBinOpExp(
		ast.NewVarExp(hiddenForVar, loc),
		ast.OpPlusAssign,
		ast.NewLiteralExp(ast.IntLiteral(1), loc),
		loc,
	)

	if _, err := p.expect(lexer.RPAREN); err != nil {
		return nil, err
	}
	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}

	return ast.NewForExp(initLet, cond, increment, body, loc), nil
}

// numericBound requires an int or float literal bound; any other literal
// kind is rejected at parse time rather than deferred to the type checker.
func numericBound(lit *ast.LiteralExp, which string) (float64, error) {
	switch lit.Value.Kind {
	case ast.LitInt:
		return float64(lit.Value.Int), nil
	case ast.LitFloat:
		return lit.Value.Float, nil
	default:
		return 0, &ParseError{
			Message: fmt.Sprintf("%s in for must be int or float, got %s", which, lit.Value),
			Span:    lit.Span(),
		}
	}
}
