package parser

import (
	"strconv"

	"github.com/PQNebel/nebulang/internal/ast"
	"github.com/PQNebel/nebulang/internal/lexer"
)

// Binary operator tiers, tightest binding first. Precedence resolution walks
// this table in reverse, so assignment forms split first and multiplicative
// operators last.
var binOpPrecedence = [][]ast.Operator{
	{ast.OpMultiply, ast.OpDivide, ast.OpModulo},
	{ast.OpPlus, ast.OpMinus},
	{ast.OpLessThan, ast.OpGreaterThan, ast.OpLessOrEquals, ast.OpGreaterOrEquals},
	{ast.OpEquals, ast.OpNotEquals},
	{ast.OpAnd},
	{ast.OpOr},
	{ast.OpAssign, ast.OpPlusAssign, ast.OpMinusAssign},
}

var tokenOperators = map[lexer.TokenType]ast.Operator{
	lexer.PLUS:         ast.OpPlus,
	lexer.MINUS:        ast.OpMinus,
	lexer.ASTERISK:     ast.OpMultiply,
	lexer.SLASH:        ast.OpDivide,
	lexer.PERCENT:      ast.OpModulo,
	lexer.LT:           ast.OpLessThan,
	lexer.GT:           ast.OpGreaterThan,
	lexer.LE:           ast.OpLessOrEquals,
	lexer.GE:           ast.OpGreaterOrEquals,
	lexer.EQ:           ast.OpEquals,
	lexer.NOT_EQ:       ast.OpNotEquals,
	lexer.BANG:         ast.OpNot,
	lexer.AND:          ast.OpAnd,
	lexer.OR:           ast.OpOr,
	lexer.ASSIGN:       ast.OpAssign,
	lexer.PLUS_ASSIGN:  ast.OpPlusAssign,
	lexer.MINUS_ASSIGN: ast.OpMinusAssign,
}

// term is one element of a flattened expression: either a parsed operand or
// a raw operator tagged with its location.
type term struct {
	exp  ast.Exp // nil for operator terms
	op   ast.Operator
	span lexer.Span
}

func (t term) isOp() bool { return t.exp == nil }

// parseExpression collects a flat term sequence up to the next terminator and
// then imposes precedence on it.
func (p *Parser) parseExpression() (ast.Exp, error) {
	var terms []term

	for !p.atTerminator() {
		if tok := p.peekTok(); lexer.IsOperator(tok.Type) {
			op, err := p.anyOperator()
			if err != nil {
				return nil, err
			}
			terms = append(terms, term{op: op, span: tok.Span})
			continue
		}

		// Two operand terms may never be adjacent.
		if len(terms) > 0 && !terms[len(terms)-1].isOp() {
			span, err := p.loc()
			if err != nil {
				return nil, err
			}
			return nil, p.errorf(span, "expected operator or ';'")
		}

		operand, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		terms = append(terms, term{exp: operand, span: operand.Span()})
	}

	if len(terms) == 0 {
		return nil, p.errorf(p.peekTok().Span, "expected an expression")
	}

	return resolvePrecedence(terms)
}

// resolvePrecedence turns a flat term sequence into a tree. Tiers are scanned
// loosest to tightest; within a tier the split happens at the first operator
// that is not in leading position. First-occurrence splitting makes chained
// same-tier operators associate to the right: 1 - 2 - 3 is 1 - (2 - 3).
func resolvePrecedence(terms []term) (ast.Exp, error) {
	if last := terms[len(terms)-1]; last.isOp() {
		return nil, &ParseError{
			Message: "unexpected operator '" + string(last.op) + "'",
			Span:    last.span,
		}
	}

	if len(terms) == 1 {
		return terms[0].exp, nil
	}

	for i := len(binOpPrecedence) - 1; i >= 0; i-- {
		tier := binOpPrecedence[i]
		for j, t := range terms {
			if j == 0 || !t.isOp() || !tierContains(tier, t.op) {
				continue
			}

			left, err := resolvePrecedence(terms[:j])
			if err != nil {
				return nil, err
			}
			right, err := resolvePrecedence(terms[j+1:])
			if err != nil {
				return nil, err
			}
			return ast.NewBinOpExp(left, t.op, right, t.span), nil
		}
	}

	// No binary split: the sequence must open with a unary operator.
	if first := terms[0]; first.isOp() {
		if !first.op.IsUnary() {
			return nil, &ParseError{
				Message: "not a unary operator '" + string(first.op) + "'",
				Span:    first.span,
			}
		}
		operand, err := resolvePrecedence(terms[1:])
		if err != nil {
			return nil, err
		}
		return ast.NewUnOpExp(first.op, operand, first.span), nil
	}

	// A leading operand here means the following operator has no binary
	// reading (e.g. '!').
	if second := terms[1]; second.isOp() {
		return nil, &ParseError{
			Message: "not a binary operator '" + string(second.op) + "'",
			Span:    second.span,
		}
	}

	panic("parser: term sequence with adjacent operands")
}

func tierContains(tier []ast.Operator, op ast.Operator) bool {
	for _, candidate := range tier {
		if candidate == op {
			return true
		}
	}
	return false
}

// anyOperator consumes the current token as an operator.
func (p *Parser) anyOperator() (ast.Operator, error) {
	tok := p.peekTok()
	op, ok := tokenOperators[tok.Type]
	if !ok {
		span, err := p.loc()
		if err != nil {
			return "", err
		}
		return "", p.errorf(span, "expected an operator")
	}
	p.advance()
	return op, nil
}

// parseTerm parses one operand: a nested block, an if, a parenthesized
// expression, a literal, or an identifier that is either a variable
// reference or a call.
func (p *Parser) parseTerm() (ast.Exp, error) {
	switch p.peekTok().Type {
	case lexer.LBRACE:
		return p.parseBlock()
	case lexer.IF:
		return p.parseIf()
	case lexer.LPAREN:
		return p.parseParenExp()
	case lexer.INT, lexer.FLOAT, lexer.BOOL, lexer.CHAR, lexer.STRING:
		return p.parseLiteral()
	case lexer.IDENT:
		return p.parseVarOrCall()
	default:
		span, err := p.loc()
		if err != nil {
			return nil, err
		}
		return nil, p.errorf(span, "expected a term")
	}
}

func (p *Parser) parseParenExp() (ast.Exp, error) {
	if _, err := p.expect(lexer.LPAREN); err != nil {
		return nil, err
	}
	exp, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.RPAREN); err != nil {
		return nil, err
	}
	return exp, nil
}

func (p *Parser) parseLiteral() (*ast.LiteralExp, error) {
	tok := p.peekTok()

	var lit ast.Literal
	switch tok.Type {
	case lexer.INT:
		v, err := strconv.ParseInt(tok.Raw, 10, 64)
		if err != nil {
			return nil, p.errorf(tok.Span, "invalid int literal '%s'", tok.Raw)
		}
		lit = ast.IntLiteral(v)
	case lexer.FLOAT:
		v, err := strconv.ParseFloat(tok.Raw, 64)
		if err != nil {
			return nil, p.errorf(tok.Span, "invalid float literal '%s'", tok.Raw)
		}
		lit = ast.FloatLiteral(v)
	case lexer.BOOL:
		lit = ast.BoolLiteral(tok.Raw == "true")
	case lexer.CHAR:
		runes := []rune(tok.Value)
		var c rune
		if len(runes) > 0 {
			c = runes[0]
		}
		lit = ast.CharLiteral(c)
	case lexer.STRING:
		lit = ast.StrLiteral(tok.Value)
	default:
		return nil, p.errorf(tok.Span, "expected literal")
	}

	p.advance()
	return ast.NewLiteralExp(lit, tok.Span), nil
}

// parseVarOrCall parses an identifier: a call when immediately followed by
// '(', a bare variable reference otherwise. The argument list is
// comma-separated and terminator-delimited; a trailing comma is tolerated.
func (p *Parser) parseVarOrCall() (ast.Exp, error) {
	tok, err := p.expect(lexer.IDENT)
	if err != nil {
		return nil, err
	}

	if p.peekTok().Type != lexer.LPAREN {
		return ast.NewVarExp(tok.Raw, tok.Span), nil
	}
	p.advance() // '('

	var args []ast.Exp
	for !p.atTerminator() {
		arg, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		p.accept(lexer.COMMA)
	}
	if _, err := p.expect(lexer.RPAREN); err != nil {
		return nil, err
	}

	return ast.NewFunCallExp(tok.Raw, args, tok.Span), nil
}
