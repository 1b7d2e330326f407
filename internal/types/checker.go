package types

import (
	"fmt"

	"github.com/PQNebel/nebulang/internal/ast"
)

// Checker walks an AST and assigns every expression a settled type, failing
// on the first violation. Function bodies are checked at most once: eagerly
// when the declaration is reached, or earlier from a call site that needs the
// return type before the declaration's textual position.
type Checker struct {
	env *Environment
}

// NewChecker returns a checker with an empty environment.
func NewChecker() *Checker {
	return &Checker{env: NewEnvironment()}
}

// Check type-checks a whole program and returns its result type.
func Check(root ast.Exp) (ast.Type, error) {
	return NewChecker().checkExp(root)
}

func (c *Checker) checkExp(exp ast.Exp) (ast.Type, error) {
	switch e := exp.(type) {
	case *ast.LiteralExp:
		if e.Value.Kind == ast.LitUnit {
			panic("types: unit literal in source position")
		}
		return e.Value.Type(), nil

	case *ast.VarExp:
		typ, ok := c.env.LookupVar(e.Name)
		if !ok {
			return "", errorf(e.Span(), "variable '%s' does not exist here", e.Name)
		}
		return typ, nil

	case *ast.LetExp:
		return c.checkLet(e)

	case *ast.BinOpExp:
		return c.checkBinOp(e)

	case *ast.UnOpExp:
		return c.checkUnOp(e)

	case *ast.IfElseExp:
		return c.checkIfElse(e)

	case *ast.WhileExp:
		return c.checkWhile(e)

	case *ast.ForExp:
		return c.checkFor(e)

	case *ast.BlockExp:
		return c.checkBlock(e)

	case *ast.FunCallExp:
		return c.checkCall(e)

	case *ast.FunDeclExp:
		return c.checkFunDecl(e)

	default:
		panic(fmt.Sprintf("types: unhandled expression %T", exp))
	}
}

func (c *Checker) checkLet(e *ast.LetExp) (ast.Type, error) {
	if c.env.VarExistsInScope(e.Name) {
		return "", errorf(e.Span(), "variable '%s' already exists in this scope", e.Name)
	}
	typ, err := c.checkExp(e.Value)
	if err != nil {
		return "", err
	}
	c.env.PushVariable(e.Name, typ)
	return ast.TypeUnit, nil
}

func (c *Checker) checkBinOp(e *ast.BinOpExp) (ast.Type, error) {
	switch e.Op {
	case ast.OpAssign, ast.OpPlusAssign, ast.OpMinusAssign:
		return c.checkAssign(e)
	}

	left, err := c.checkExp(e.Left)
	if err != nil {
		return "", err
	}
	right, err := c.checkExp(e.Right)
	if err != nil {
		return "", err
	}

	switch e.Op {
	case ast.OpPlus, ast.OpMinus, ast.OpMultiply, ast.OpDivide, ast.OpModulo:
		if !left.IsNumeric() || !right.IsNumeric() {
			break
		}
		if left == ast.TypeFloat || right == ast.TypeFloat {
			return ast.TypeFloat, nil
		}
		return ast.TypeInt, nil

	case ast.OpLessThan, ast.OpGreaterThan, ast.OpLessOrEquals, ast.OpGreaterOrEquals:
		if left.IsNumeric() && right.IsNumeric() {
			return ast.TypeBool, nil
		}

	case ast.OpEquals, ast.OpNotEquals:
		// Equality is defined for int, float and bool only, and never
		// across types.
		if left == right && (left.IsNumeric() || left == ast.TypeBool) {
			return ast.TypeBool, nil
		}

	case ast.OpAnd, ast.OpOr:
		if left == ast.TypeBool && right == ast.TypeBool {
			return ast.TypeBool, nil
		}
	}

	return "", errorf(e.Span(), "invalid operation %s for %s and %s", e.Op, left, right)
}

// checkAssign handles '=', '+=' and '-='. All three require a plain variable
// on the left and evaluate to unit.
func (c *Checker) checkAssign(e *ast.BinOpExp) (ast.Type, error) {
	target, ok := e.Left.(*ast.VarExp)
	if !ok {
		return "", errorf(e.Span(), "left side of assignment must be a variable")
	}
	varType, found := c.env.LookupVar(target.Name)
	if !found {
		return "", errorf(target.Span(), "variable '%s' does not exist here", target.Name)
	}
	right, err := c.checkExp(e.Right)
	if err != nil {
		return "", err
	}

	if e.Op == ast.OpAssign {
		if right != varType {
			return "", errorf(e.Span(), "cannot assign %s to %s which is %s", right, target.Name, varType)
		}
		return ast.TypeUnit, nil
	}

	// Compound assignment never promotes: the variable keeps its type, so
	// both sides must agree and be numeric.
	if varType != right || !varType.IsNumeric() {
		return "", errorf(e.Span(), "invalid operation %s for %s and %s", e.Op, varType, right)
	}
	return ast.TypeUnit, nil
}

func (c *Checker) checkUnOp(e *ast.UnOpExp) (ast.Type, error) {
	typ, err := c.checkExp(e.Operand)
	if err != nil {
		return "", err
	}

	switch e.Op {
	case ast.OpMinus:
		if typ.IsNumeric() {
			return typ, nil
		}
	case ast.OpNot:
		if typ == ast.TypeBool {
			return ast.TypeBool, nil
		}
	}

	return "", errorf(e.Span(), "unary operator %s is not valid for %s", e.Op, typ)
}

func (c *Checker) checkIfElse(e *ast.IfElseExp) (ast.Type, error) {
	cond, err := c.checkExp(e.Cond)
	if err != nil {
		return "", err
	}
	if cond != ast.TypeBool {
		return "", errorf(e.Cond.Span(), "condition for if must be boolean, got %s", cond)
	}

	then, err := c.checkExp(e.Then)
	if err != nil {
		return "", err
	}

	// Without an else branch the positive branch's value cannot be the
	// expression's value, so the whole conditional is unit.
	if e.Else == nil {
		return ast.TypeUnit, nil
	}

	els, err := c.checkExp(e.Else)
	if err != nil {
		return "", err
	}
	if then != els {
		return "", errorf(e.Span(), "if and else branch must have same type, got %s and %s", then, els)
	}
	return then, nil
}

func (c *Checker) checkWhile(e *ast.WhileExp) (ast.Type, error) {
	cond, err := c.checkExp(e.Cond)
	if err != nil {
		return "", err
	}
	if cond != ast.TypeBool {
		return "", errorf(e.Cond.Span(), "condition for while must be boolean, got %s", cond)
	}
	if _, err := c.checkExp(e.Body); err != nil {
		return "", err
	}
	return ast.TypeUnit, nil
}

// checkFor checks the desugared loop inside its own scope so the loop
// variable is invisible afterwards.
func (c *Checker) checkFor(e *ast.ForExp) (ast.Type, error) {
	c.env.EnterScope()
	defer c.env.LeaveScope()

	if _, err := c.checkExp(e.Init); err != nil {
		return "", err
	}
	cond, err := c.checkExp(e.Cond)
	if err != nil {
		return "", err
	}
	if cond != ast.TypeBool {
		return "", errorf(e.Cond.Span(), "condition for for must be boolean, got %s", cond)
	}
	if _, err := c.checkExp(e.Body); err != nil {
		return "", err
	}
	if _, err := c.checkExp(e.Increment); err != nil {
		return "", err
	}
	return ast.TypeUnit, nil
}

// checkBlock opens a scope, registers every function declared directly in the
// block before any statement runs, then checks the statements in order. The
// block's type is its last statement's type.
func (c *Checker) checkBlock(e *ast.BlockExp) (ast.Type, error) {
	c.env.EnterScope()
	defer c.env.LeaveScope()

	for _, local := range e.Funs {
		if c.env.FunExistsInScope(local.Name) {
			return "", errorf(local.Fun.Span(), "function '%s' already exists in this scope", local.Name)
		}
		c.env.PushFunction(local.Name, local.Fun)
	}
	c.env.LinkSiblingFunctions()

	result := ast.TypeUnit
	for _, stmt := range e.Stmts {
		typ, err := c.checkExp(stmt)
		if err != nil {
			return "", err
		}
		result = typ
	}
	return result, nil
}

func (c *Checker) checkCall(e *ast.FunCallExp) (ast.Type, error) {
	clo, ok := c.env.LookupFun(e.Name)
	if !ok {
		return "", errorf(e.Span(), "function '%s' does not exist here", e.Name)
	}

	// An unresolved return type at a call site means the function's body
	// has never been checked and carries no annotation: either we are
	// inside its own recursion, or this is a forward call to an
	// unannotated function. Both need an explicit annotation.
	if clo.Fun.RetType == ast.TypeAny {
		return "", errorf(e.Span(), "recursive function '%s' needs type annotations", e.Name)
	}

	if len(e.Args) != len(clo.Fun.Params) {
		return "", errorf(e.Span(), "function '%s' expects %d argument(s), got %d",
			e.Name, len(clo.Fun.Params), len(e.Args))
	}
	for i, arg := range e.Args {
		typ, err := c.checkExp(arg)
		if err != nil {
			return "", err
		}
		if typ != clo.Fun.ParamTypes[i] {
			return "", errorf(arg.Span(), "argument %d of '%s' must be %s, got %s",
				i+1, e.Name, clo.Fun.ParamTypes[i], typ)
		}
	}

	// A forward call may reach a function whose body has not been visited
	// yet. Check it now, in the lexical context of its declaration rather
	// than the call site. The state moves to Checking before the recursion
	// so a callback into this function does not re-trigger the check.
	if clo.State == ClosureUnchecked {
		clo.State = ClosureChecking
		if err := checkFunction(clo.Fun, c.env.ScopeAt(clo.DeclScope)); err != nil {
			return "", err
		}
		clo.State = ClosureChecked
	}

	return clo.Fun.RetType, nil
}

// checkFunDecl checks the function's body at its textual position. The check
// runs even when a forward call already triggered it; the re-run is
// idempotent since the return type is settled by then. The declaration
// evaluates to the function's return type.
func (c *Checker) checkFunDecl(e *ast.FunDeclExp) (ast.Type, error) {
	clo, ok := c.env.LookupFun(e.Name)
	if !ok {
		panic(fmt.Sprintf("types: declaration of unregistered function '%s'", e.Name))
	}

	clo.State = ClosureChecking
	if err := checkFunction(clo.Fun, clo.Env); err != nil {
		return "", err
	}
	clo.State = ClosureChecked
	return clo.Fun.RetType, nil
}

// checkFunction checks a function body in the given environment, with the
// parameters bound in a fresh scope. An unannotated return type is settled
// here, exactly once; an annotated one must match the body.
func checkFunction(fun *ast.Function, env *Environment) error {
	sub := &Checker{env: env}
	sub.env.EnterScope()
	for i, param := range fun.Params {
		sub.env.PushVariable(param, fun.ParamTypes[i])
	}
	body, err := sub.checkExp(fun.Body)
	if err != nil {
		return err
	}
	sub.env.LeaveScope()

	if fun.RetType == ast.TypeAny {
		fun.RetType = body
		return nil
	}
	if body != fun.RetType {
		return errorf(fun.Span(), "return type does not match annotation, got %s and %s was annotated",
			body, fun.RetType)
	}
	return nil
}
