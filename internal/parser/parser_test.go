package parser_test

import (
	"strings"
	"testing"

	"github.com/PQNebel/nebulang/internal/ast"
	"github.com/PQNebel/nebulang/internal/lexer"
	"github.com/PQNebel/nebulang/internal/parser"
)

func parse(t *testing.T, src string) *ast.BlockExp {
	t.Helper()

	block, err := tryParse(src)
	if err != nil {
		t.Fatalf("unexpected parse error: %s", err)
	}
	return block
}

func tryParse(src string) (*ast.BlockExp, error) {
	toks, errs := lexer.Scan(src)
	if len(errs) > 0 {
		panic("test source does not lex: " + errs[0].Message)
	}
	return parser.New(toks).Parse()
}

// single unwraps the root block's only statement.
func single(t *testing.T, src string) ast.Exp {
	t.Helper()

	block := parse(t, src)
	if len(block.Stmts) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(block.Stmts))
	}
	return block.Stmts[0]
}

func assertParseError(t *testing.T, src, wantMessage string) {
	t.Helper()

	_, err := tryParse(src)
	if err == nil {
		t.Fatalf("expected parse error containing %q, got none", wantMessage)
	}
	var perr *parser.ParseError
	if pe, ok := err.(*parser.ParseError); ok {
		perr = pe
	} else {
		t.Fatalf("expected *parser.ParseError, got %T", err)
	}
	if !strings.Contains(perr.Message, wantMessage) {
		t.Fatalf("expected error containing %q, got %q", wantMessage, perr.Message)
	}
}

func binOp(t *testing.T, exp ast.Exp, op ast.Operator) *ast.BinOpExp {
	t.Helper()

	bin, ok := exp.(*ast.BinOpExp)
	if !ok {
		t.Fatalf("expected *ast.BinOpExp, got %T", exp)
	}
	if bin.Op != op {
		t.Fatalf("expected operator %s, got %s", op, bin.Op)
	}
	return bin
}

func intLit(t *testing.T, exp ast.Exp, want int64) {
	t.Helper()

	lit, ok := exp.(*ast.LiteralExp)
	if !ok {
		t.Fatalf("expected *ast.LiteralExp, got %T", exp)
	}
	if lit.Value.Kind != ast.LitInt || lit.Value.Int != want {
		t.Fatalf("expected int literal %d, got %s", want, lit.Value)
	}
}

func TestPrecedenceMulBindsTighter(t *testing.T) {
	// 1 + 2 * 3 parses as 1 + (2 * 3)
	root := binOp(t, single(t, "1 + 2 * 3"), ast.OpPlus)
	intLit(t, root.Left, 1)

	mul := binOp(t, root.Right, ast.OpMultiply)
	intLit(t, mul.Left, 2)
	intLit(t, mul.Right, 3)
}

func TestChainedSubtractionLeansRight(t *testing.T) {
	// Same-tier chains split at the first operator, so 1 - 2 - 3 parses
	// as 1 - (2 - 3).
	root := binOp(t, single(t, "1 - 2 - 3"), ast.OpMinus)
	intLit(t, root.Left, 1)

	inner := binOp(t, root.Right, ast.OpMinus)
	intLit(t, inner.Left, 2)
	intLit(t, inner.Right, 3)
}

func TestParensOverridePrecedence(t *testing.T) {
	// (1 + 2) * 3
	root := binOp(t, single(t, "(1 + 2) * 3"), ast.OpMultiply)
	add := binOp(t, root.Left, ast.OpPlus)
	intLit(t, add.Left, 1)
	intLit(t, add.Right, 2)
	intLit(t, root.Right, 3)
}

func TestLogicalBindsLooserThanComparison(t *testing.T) {
	// 1 < 2 && 3 < 4 parses as (1 < 2) && (3 < 4)
	root := binOp(t, single(t, "1 < 2 && 3 < 4"), ast.OpAnd)
	binOp(t, root.Left, ast.OpLessThan)
	binOp(t, root.Right, ast.OpLessThan)
}

func TestAssignmentBindsLoosest(t *testing.T) {
	// x = 1 + 2 parses as x = (1 + 2)
	block := parse(t, "let x = 0; x = 1 + 2")
	root := binOp(t, block.Stmts[1], ast.OpAssign)
	binOp(t, root.Right, ast.OpPlus)
}

func TestUnaryMinus(t *testing.T) {
	un, ok := single(t, "-5").(*ast.UnOpExp)
	if !ok {
		t.Fatalf("expected *ast.UnOpExp")
	}
	if un.Op != ast.OpMinus {
		t.Fatalf("expected unary minus, got %s", un.Op)
	}
	intLit(t, un.Operand, 5)
}

func TestUnaryMinusInsideBinary(t *testing.T) {
	// 1 * -2 parses as 1 * (-2)
	root := binOp(t, single(t, "1 * -2"), ast.OpMultiply)
	if _, ok := root.Right.(*ast.UnOpExp); !ok {
		t.Fatalf("expected unary right operand, got %T", root.Right)
	}
}

func TestNotOperator(t *testing.T) {
	un, ok := single(t, "!true").(*ast.UnOpExp)
	if !ok {
		t.Fatalf("expected *ast.UnOpExp")
	}
	if un.Op != ast.OpNot {
		t.Fatalf("expected !, got %s", un.Op)
	}
}

func TestLetStatement(t *testing.T) {
	let, ok := single(t, "let answer = 42").(*ast.LetExp)
	if !ok {
		t.Fatalf("expected *ast.LetExp")
	}
	if let.Name != "answer" {
		t.Fatalf("expected name %q, got %q", "answer", let.Name)
	}
	intLit(t, let.Value, 42)
}

func TestIfWithoutElse(t *testing.T) {
	cond, ok := single(t, "if (true) 1").(*ast.IfElseExp)
	if !ok {
		t.Fatalf("expected *ast.IfElseExp")
	}
	if cond.Else != nil {
		t.Fatalf("expected no else branch")
	}
}

func TestIfElse(t *testing.T) {
	cond, ok := single(t, "if (true) 1 else 2").(*ast.IfElseExp)
	if !ok {
		t.Fatalf("expected *ast.IfElseExp")
	}
	if cond.Else == nil {
		t.Fatalf("expected else branch")
	}
	intLit(t, cond.Then, 1)
	intLit(t, cond.Else, 2)
}

func TestWhile(t *testing.T) {
	loop, ok := single(t, "while (true) { 1 }").(*ast.WhileExp)
	if !ok {
		t.Fatalf("expected *ast.WhileExp")
	}
	if _, ok := loop.Body.(*ast.BlockExp); !ok {
		t.Fatalf("expected block body, got %T", loop.Body)
	}
}

func TestIndexedForAscending(t *testing.T) {
	loop, ok := single(t, "for (i, 0, 10) { i }").(*ast.ForExp)
	if !ok {
		t.Fatalf("expected *ast.ForExp")
	}

	if loop.Init.Name != "i" {
		t.Fatalf("expected loop variable %q, got %q", "i", loop.Init.Name)
	}
	intLit(t, loop.Init.Value, 0)

	cond := binOp(t, loop.Cond, ast.OpLessThan)
	intLit(t, cond.Right, 10)

	inc := binOp(t, loop.Increment, ast.OpPlusAssign)
	intLit(t, inc.Right, 1)
}

func TestIndexedForDescending(t *testing.T) {
	loop, ok := single(t, "for (i, 10, 0) { i }").(*ast.ForExp)
	if !ok {
		t.Fatalf("expected *ast.ForExp")
	}

	binOp(t, loop.Cond, ast.OpGreaterThan)

	inc := binOp(t, loop.Increment, ast.OpPlusAssign)
	intLit(t, inc.Right, -1)
}

func TestIndexedForExplicitStepNegatedWhenDescending(t *testing.T) {
	loop, ok := single(t, "for (i, 10, 0, 2) { i }").(*ast.ForExp)
	if !ok {
		t.Fatalf("expected *ast.ForExp")
	}

	inc := binOp(t, loop.Increment, ast.OpPlusAssign)
	un, ok := inc.Right.(*ast.UnOpExp)
	if !ok {
		t.Fatalf("expected negated step, got %T", inc.Right)
	}
	intLit(t, un.Operand, 2)
}

func TestCountingFor(t *testing.T) {
	loop, ok := single(t, "for (5) { 1 }").(*ast.ForExp)
	if !ok {
		t.Fatalf("expected *ast.ForExp")
	}

	if loop.Init.Name != ".for" {
		t.Fatalf("expected hidden counter, got %q", loop.Init.Name)
	}
	cond := binOp(t, loop.Cond, ast.OpLessThan)
	intLit(t, cond.Right, 5)
}

func TestForBoundMustBeNumericLiteral(t *testing.T) {
	assertParseError(t, "for (i, true, 10) { i }", "from in for must be int or float")
}

func TestFunDeclWithAnnotation(t *testing.T) {
	block := parse(t, "fun add(a: int, b: int): int = a + b")

	if len(block.Funs) != 1 {
		t.Fatalf("expected 1 function, got %d", len(block.Funs))
	}
	fun := block.Funs[0]
	if fun.Name != "add" {
		t.Fatalf("expected name %q, got %q", "add", fun.Name)
	}
	if got := fun.Fun.Params; len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("unexpected params %v", got)
	}
	if fun.Fun.RetType != ast.TypeInt {
		t.Fatalf("expected return type int, got %s", fun.Fun.RetType)
	}

	// The statement list carries a placeholder at the declaration's
	// position.
	if len(block.Stmts) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(block.Stmts))
	}
	if _, ok := block.Stmts[0].(*ast.FunDeclExp); !ok {
		t.Fatalf("expected *ast.FunDeclExp placeholder, got %T", block.Stmts[0])
	}
}

func TestFunDeclWithoutAnnotation(t *testing.T) {
	block := parse(t, "fun id(x: int) = x")

	if block.Funs[0].Fun.RetType != ast.TypeAny {
		t.Fatalf("expected unresolved return type, got %s", block.Funs[0].Fun.RetType)
	}
}

func TestFunCall(t *testing.T) {
	block := parse(t, "fun add(a: int, b: int): int = a + b; add(1, 2)")

	call, ok := block.Stmts[1].(*ast.FunCallExp)
	if !ok {
		t.Fatalf("expected *ast.FunCallExp, got %T", block.Stmts[1])
	}
	if call.Name != "add" || len(call.Args) != 2 {
		t.Fatalf("unexpected call %q with %d args", call.Name, len(call.Args))
	}
}

func TestFunCallTrailingComma(t *testing.T) {
	block := parse(t, "fun f(a: int) = a; f(1,)")

	call := block.Stmts[1].(*ast.FunCallExp)
	if len(call.Args) != 1 {
		t.Fatalf("expected 1 argument, got %d", len(call.Args))
	}
}

func TestBareIdentIsVariable(t *testing.T) {
	if _, ok := single(t, "x").(*ast.VarExp); !ok {
		t.Fatalf("expected *ast.VarExp")
	}
}

func TestBlockAsTerm(t *testing.T) {
	// A block can sit in operand position inside an expression.
	let, ok := single(t, "let x = { 1 } + 2").(*ast.LetExp)
	if !ok {
		t.Fatalf("expected *ast.LetExp")
	}
	root := binOp(t, let.Value, ast.OpPlus)
	if _, ok := root.Left.(*ast.BlockExp); !ok {
		t.Fatalf("expected block operand, got %T", root.Left)
	}
}

func TestEmptyInput(t *testing.T) {
	assertParseError(t, "", "unexpected end of input")
}

func TestAdjacentOperands(t *testing.T) {
	assertParseError(t, "1 2", "expected operator or ';'")
}

func TestTrailingOperator(t *testing.T) {
	assertParseError(t, "1 +", "unexpected operator")
}

func TestPlusIsNotUnary(t *testing.T) {
	assertParseError(t, "+1", "not a unary operator")
}

func TestBangIsNotBinary(t *testing.T) {
	assertParseError(t, "1 ! 2", "not a binary operator")
}

func TestUnbalancedBrace(t *testing.T) {
	assertParseError(t, "{ 1", "expected '}'")
}

func TestStrayClosingParen(t *testing.T) {
	assertParseError(t, "1; ) 2", "unexpected ')'")
}
