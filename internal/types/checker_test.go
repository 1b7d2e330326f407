package types_test

import (
	"strings"
	"testing"

	"github.com/PQNebel/nebulang/internal/ast"
	"github.com/PQNebel/nebulang/internal/lexer"
	"github.com/PQNebel/nebulang/internal/parser"
	"github.com/PQNebel/nebulang/internal/types"
)

func check(src string) (ast.Type, error) {
	toks, errs := lexer.Scan(src)
	if len(errs) > 0 {
		panic("test source does not lex: " + errs[0].Message)
	}
	root, err := parser.New(toks).Parse()
	if err != nil {
		panic("test source does not parse: " + err.Error())
	}
	return types.Check(root)
}

func assertType(t *testing.T, src string, want ast.Type) {
	t.Helper()

	got, err := check(src)
	if err != nil {
		t.Fatalf("unexpected type error: %s", err)
	}
	if got != want {
		t.Fatalf("expected type %s, got %s", want, got)
	}
}

func assertTypeError(t *testing.T, src, wantMessage string) {
	t.Helper()

	_, err := check(src)
	if err == nil {
		t.Fatalf("expected type error containing %q, got none", wantMessage)
	}
	terr, ok := err.(*types.TypeError)
	if !ok {
		t.Fatalf("expected *types.TypeError, got %T", err)
	}
	if !strings.Contains(terr.Message, wantMessage) {
		t.Fatalf("expected error containing %q, got %q", wantMessage, terr.Message)
	}
}

func TestLiteralTypes(t *testing.T) {
	assertType(t, "1", ast.TypeInt)
	assertType(t, "1.5", ast.TypeFloat)
	assertType(t, "true", ast.TypeBool)
	assertType(t, "'a'", ast.TypeChar)
	assertType(t, `"hi"`, ast.TypeStr)
}

func TestArithmeticPromotion(t *testing.T) {
	assertType(t, "1 + 2", ast.TypeInt)
	assertType(t, "1 + 2.0", ast.TypeFloat)
	assertType(t, "1.0 * 2", ast.TypeFloat)
	assertType(t, "7 % 3", ast.TypeInt)
}

func TestArithmeticRejectsNonNumeric(t *testing.T) {
	assertTypeError(t, "1 + true", "invalid operation + for int and bool")
	assertTypeError(t, `"a" + "b"`, "invalid operation + for string and string")
}

func TestComparisonAndEquality(t *testing.T) {
	assertType(t, "1 < 2", ast.TypeBool)
	assertType(t, "1 <= 2.0", ast.TypeBool)
	assertType(t, "1 == 2", ast.TypeBool)
	assertType(t, "true != false", ast.TypeBool)
}

func TestEqualityRestrictedToSameType(t *testing.T) {
	assertTypeError(t, "1 == 1.0", "invalid operation == for int and float")
	assertTypeError(t, "'a' == 'a'", "invalid operation == for char and char")
	assertTypeError(t, `"a" == "a"`, "invalid operation == for string and string")
}

func TestLogicalOperators(t *testing.T) {
	assertType(t, "true && false || true", ast.TypeBool)
	assertTypeError(t, "1 && true", "invalid operation && for int and bool")
}

func TestUnaryOperators(t *testing.T) {
	assertType(t, "-5", ast.TypeInt)
	assertType(t, "-5.0", ast.TypeFloat)
	assertType(t, "!true", ast.TypeBool)
	assertTypeError(t, "-true", "unary operator - is not valid for bool")
	assertTypeError(t, "!1", "unary operator ! is not valid for int")
}

func TestLetAndVarReference(t *testing.T) {
	assertType(t, "let x = 1; x", ast.TypeInt)
	assertType(t, "let x = 1", ast.TypeUnit)
	assertTypeError(t, "y", "variable 'y' does not exist here")
}

func TestLetRedeclarationInSameScope(t *testing.T) {
	assertTypeError(t, "let x = 1; let x = 2", "variable 'x' already exists in this scope")
}

func TestShadowingInNestedScope(t *testing.T) {
	assertType(t, "let x = 1; { let x = true; x }", ast.TypeBool)
	// The inner binding does not leak.
	assertType(t, "let x = 1; { let x = true; x }; x", ast.TypeInt)
}

func TestAssignment(t *testing.T) {
	assertType(t, "let x = 1; x = 2", ast.TypeUnit)
	assertType(t, "let x = 1; x += 2; x", ast.TypeInt)
	assertTypeError(t, "let x = 1; x = true", "cannot assign bool to x which is int")
	assertTypeError(t, "let x = 1; x += 1.0", "invalid operation += for int and float")
	assertTypeError(t, "1 = 2", "left side of assignment must be a variable")
	assertTypeError(t, "x = 1", "variable 'x' does not exist here")
}

func TestAssignmentToOuterScope(t *testing.T) {
	assertType(t, "let x = 1; { x = 2 }; x", ast.TypeInt)
}

func TestIfElse(t *testing.T) {
	assertType(t, "if (true) 1 else 2", ast.TypeInt)
	assertType(t, "if (true) 1", ast.TypeUnit)
	assertTypeError(t, "if (1) 2 else 3", "condition for if must be boolean, got int")
	assertTypeError(t, "if (true) 1 else 2.0", "if and else branch must have same type, got int and float")
}

func TestWhile(t *testing.T) {
	assertType(t, "let x = 0; while (x < 10) x += 1", ast.TypeUnit)
	assertTypeError(t, "while (1) 2", "condition for while must be boolean, got int")
}

func TestWhileBodyIsChecked(t *testing.T) {
	assertTypeError(t, "while (true) 1 + true", "invalid operation + for int and bool")
}

func TestForLoop(t *testing.T) {
	assertType(t, "let sum = 0; for (i, 0, 10) sum += i; sum", ast.TypeInt)
	assertType(t, "let n = 0; for (5) n += 1; n", ast.TypeInt)
}

func TestForVariableScopedToLoop(t *testing.T) {
	assertTypeError(t, "for (i, 0, 10) { i }; i", "variable 'i' does not exist here")
}

func TestForVariableShadowsOuter(t *testing.T) {
	assertType(t, "let i = true; for (i, 0, 10) { i + 1 }; i", ast.TypeBool)
}

func TestForBodyIsChecked(t *testing.T) {
	assertTypeError(t, "for (3) { 1 + true }", "invalid operation + for int and bool")
}

func TestBlockType(t *testing.T) {
	assertType(t, "{ 1; 2.0; true }", ast.TypeBool)
	assertType(t, "{ }", ast.TypeUnit)
}

func TestAnnotatedFunction(t *testing.T) {
	assertType(t, "fun add(a: int, b: int): int = a + b; add(1, 2)", ast.TypeInt)
}

func TestInferredReturnType(t *testing.T) {
	assertType(t, "fun half(x: float) = x / 2.0; half(3.0)", ast.TypeFloat)
}

func TestReturnAnnotationMismatch(t *testing.T) {
	assertTypeError(t, "fun f(): int = true; f()",
		"return type does not match annotation, got bool and int was annotated")
}

func TestCallBeforeDeclaration(t *testing.T) {
	assertType(t, "let y = twice(3); fun twice(x: int): int = 2 * x; y", ast.TypeInt)
}

func TestCallUnknownFunction(t *testing.T) {
	assertTypeError(t, "g(1)", "function 'g' does not exist here")
}

func TestCallArityMismatch(t *testing.T) {
	assertTypeError(t, "fun f(a: int): int = a; f(1, 2)",
		"function 'f' expects 1 argument(s), got 2")
}

func TestCallArgumentTypeMismatch(t *testing.T) {
	assertTypeError(t, "fun f(a: int): int = a; f(true)",
		"argument 1 of 'f' must be int, got bool")
}

func TestAnnotatedRecursion(t *testing.T) {
	assertType(t, `
fun fib(n: int): int =
	if (n < 2) n
	else fib(n - 1) + fib(n - 2);
fib(10)`, ast.TypeInt)
}

func TestUnannotatedRecursionNeedsAnnotation(t *testing.T) {
	assertTypeError(t, "fun loop(n: int) = loop(n); loop(1)",
		"recursive function 'loop' needs type annotations")
}

func TestMutualRecursion(t *testing.T) {
	assertType(t, `
fun even(n: int): bool = if (n == 0) true else odd(n - 1);
fun odd(n: int): bool = if (n == 0) false else even(n - 1);
even(10)`, ast.TypeBool)
}

func TestFunctionRedeclarationInSameScope(t *testing.T) {
	assertTypeError(t, "fun f(): int = 1; fun f(): int = 2",
		"function 'f' already exists in this scope")
}

func TestFunctionShadowingInNestedScope(t *testing.T) {
	assertType(t, `
fun f(): int = 1;
{ fun f(): bool = true; f() }`, ast.TypeBool)
}

func TestFunctionBodySeesDeclarationScopeOnly(t *testing.T) {
	// The body is checked in the lexical context of the declaration, not
	// the call site, so a call-site local is invisible.
	assertTypeError(t, `
fun f(): int = hidden;
{ let hidden = 1; f() }`, "variable 'hidden' does not exist here")
}

func TestFunctionCapturesOuterVariable(t *testing.T) {
	// The snapshot taken when the inner block registers its functions
	// already holds the outer binding.
	assertType(t, "let base = 10; { fun bump(x: int): int = x + base; bump(1) }", ast.TypeInt)
}

func TestFunctionDoesNotSeeSameBlockLet(t *testing.T) {
	// Closures snapshot their context when the block is entered, before
	// any statement has run, so a sibling let is invisible to the body.
	assertTypeError(t, "let base = 10; fun bump(x: int): int = x + base; bump(1)",
		"variable 'base' does not exist here")
}

func TestFunDeclStatementHasBodyType(t *testing.T) {
	// A declaration in tail position evaluates to the function's return
	// type.
	assertType(t, "fun f(): int = 1", ast.TypeInt)
}
