package parser

import (
	"github.com/PQNebel/nebulang/internal/ast"
	"github.com/PQNebel/nebulang/internal/lexer"
)

// parseStatement dispatches on the next token's kind. Function declarations
// are recognized in parseStatements, not here, because they also feed the
// enclosing block's function table.
func (p *Parser) parseStatement() (ast.Exp, error) {
	switch p.peekTok().Type {
	case lexer.LBRACE:
		return p.parseBlock()
	case lexer.WHILE:
		return p.parseWhile()
	case lexer.FOR:
		return p.parseFor()
	case lexer.LET:
		return p.parseLet()
	case lexer.IF:
		return p.parseIf()
	default:
		return p.parseExpression()
	}
}

// parseStatements collects statements and function declarations until the
// next terminator. Each function contributes a FunDeclExp placeholder to the
// statement list at its textual position and an entry in the block's function
// table; both lists preserve declaration order. An optional ';' after each
// statement is discarded.
func (p *Parser) parseStatements() (*ast.BlockExp, error) {
	span, err := p.loc()
	if err != nil {
		return nil, err
	}

	var stmts []ast.Exp
	var funs []ast.LocalFun

	for !p.atTerminator() {
		if p.peekTok().Type == lexer.FUN {
			decl, fun, err := p.parseFunDecl()
			if err != nil {
				return nil, err
			}
			stmts = append(stmts, decl)
			funs = append(funs, fun)
		} else {
			stmt, err := p.parseStatement()
			if err != nil {
				return nil, err
			}
			stmts = append(stmts, stmt)
		}

		p.accept(lexer.SEMICOLON)
	}

	return ast.NewBlockExp(stmts, funs, span), nil
}

func (p *Parser) parseBlock() (*ast.BlockExp, error) {
	if _, err := p.expect(lexer.LBRACE); err != nil {
		return nil, err
	}
	block, err := p.parseStatements()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.RBRACE); err != nil {
		return nil, err
	}
	return block, nil
}

func (p *Parser) parseIf() (ast.Exp, error) {
	ifTok, err := p.expect(lexer.IF)
	if err != nil {
		return nil, err
	}

	cond, err := p.parseParenExp()
	if err != nil {
		return nil, err
	}
	then, err := p.parseStatement()
	if err != nil {
		return nil, err
	}

	if p.accept(lexer.ELSE) {
		els, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		return ast.NewIfElseExp(cond, then, els, ifTok.Span), nil
	}

	return ast.NewIfElseExp(cond, then, nil, ifTok.Span), nil
}

func (p *Parser) parseLet() (ast.Exp, error) {
	letTok, err := p.expect(lexer.LET)
	if err != nil {
		return nil, err
	}
	name, err := p.expect(lexer.IDENT)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.ASSIGN); err != nil {
		return nil, err
	}
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	return ast.NewLetExp(name.Raw, value, letTok.Span), nil
}

func (p *Parser) parseWhile() (ast.Exp, error) {
	whileTok, err := p.expect(lexer.WHILE)
	if err != nil {
		return nil, err
	}
	cond, err := p.parseParenExp()
	if err != nil {
		return nil, err
	}
	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}

	return ast.NewWhileExp(cond, body, whileTok.Span), nil
}

// parseFunDecl parses `fun name(param: type, ...) [: type] = statement`,
// returning the placeholder for the statement list and the function table
// entry. A missing return annotation leaves the return type as Any, to be
// inferred on first check.
func (p *Parser) parseFunDecl() (*ast.FunDeclExp, ast.LocalFun, error) {
	var none ast.LocalFun

	funTok, err := p.expect(lexer.FUN)
	if err != nil {
		return nil, none, err
	}
	name, err := p.expect(lexer.IDENT)
	if err != nil {
		return nil, none, err
	}
	if _, err := p.expect(lexer.LPAREN); err != nil {
		return nil, none, err
	}

	var params []string
	var paramTypes []ast.Type
	for p.peekTok().Type == lexer.IDENT {
		param := p.advance()
		if _, err := p.expect(lexer.COLON); err != nil {
			return nil, none, err
		}
		typ, err := p.parseTypeName()
		if err != nil {
			return nil, none, err
		}

		params = append(params, param.Raw)
		paramTypes = append(paramTypes, typ)

		if !p.accept(lexer.COMMA) {
			break
		}
	}
	if _, err := p.expect(lexer.RPAREN); err != nil {
		return nil, none, err
	}

	retType := ast.TypeAny
	if p.accept(lexer.COLON) {
		retType, err = p.parseTypeName()
		if err != nil {
			return nil, none, err
		}
	}

	if _, err := p.expect(lexer.ASSIGN); err != nil {
		return nil, none, err
	}

	body, err := p.parseStatement()
	if err != nil {
		return nil, none, err
	}

	fun := ast.NewFunction(params, paramTypes, retType, body, funTok.Span)
	return ast.NewFunDeclExp(name.Raw, funTok.Span), ast.LocalFun{Name: name.Raw, Fun: fun}, nil
}

func (p *Parser) parseTypeName() (ast.Type, error) {
	tok := p.peekTok()
	if tok.Type != lexer.TYPE {
		span, err := p.loc()
		if err != nil {
			return "", err
		}
		return "", p.errorf(span, "expected a type")
	}
	p.advance()

	typ, ok := ast.TypeFromName(tok.Raw)
	if !ok {
		return "", p.errorf(tok.Span, "unknown type '%s'", tok.Raw)
	}
	return typ, nil
}
