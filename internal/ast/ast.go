package ast

import "github.com/PQNebel/nebulang/internal/lexer"

// Node represents any AST node with an associated source span.
type Node interface {
	Span() lexer.Span
}

// Exp represents an expression node. Nebulang is expression-oriented:
// statements are just expressions whose value may be unit.
type Exp interface {
	Node
	expNode()
}

// BinOpExp represents a binary operation.
type BinOpExp struct {
	Left  Exp
	Op    Operator
	Right Exp
	span  lexer.Span
}

// Span returns the expression span (the operator's location).
func (e *BinOpExp) Span() lexer.Span { return e.span }

// NewBinOpExp constructs a binary operation node.
func NewBinOpExp(left Exp, op Operator, right Exp, span lexer.Span) *BinOpExp {
	return &BinOpExp{
		Left:  left,
		Op:    op,
		Right: right,
		span:  span,
	}
}

func (*BinOpExp) expNode() {}

// UnOpExp represents a unary operation.
type UnOpExp struct {
	Op      Operator
	Operand Exp
	span    lexer.Span
}

// Span returns the expression span.
func (e *UnOpExp) Span() lexer.Span { return e.span }

// NewUnOpExp constructs a unary operation node.
func NewUnOpExp(op Operator, operand Exp, span lexer.Span) *UnOpExp {
	return &UnOpExp{
		Op:      op,
		Operand: operand,
		span:    span,
	}
}

func (*UnOpExp) expNode() {}

// LiteralExp represents a literal value.
type LiteralExp struct {
	Value Literal
	span  lexer.Span
}

// Span returns the literal span.
func (e *LiteralExp) Span() lexer.Span { return e.span }

// NewLiteralExp constructs a literal node.
func NewLiteralExp(value Literal, span lexer.Span) *LiteralExp {
	return &LiteralExp{
		Value: value,
		span:  span,
	}
}

func (*LiteralExp) expNode() {}

// VarExp represents a variable reference.
type VarExp struct {
	Name string
	span lexer.Span
}

// Span returns the reference span.
func (e *VarExp) Span() lexer.Span { return e.span }

// NewVarExp constructs a variable reference node.
func NewVarExp(name string, span lexer.Span) *VarExp {
	return &VarExp{
		Name: name,
		span: span,
	}
}

func (*VarExp) expNode() {}

// LetExp declares a variable in the current scope.
type LetExp struct {
	Name  string
	Value Exp
	span  lexer.Span
}

// Span returns the declaration span.
func (e *LetExp) Span() lexer.Span { return e.span }

// NewLetExp constructs a let declaration node.
func NewLetExp(name string, value Exp, span lexer.Span) *LetExp {
	return &LetExp{
		Name:  name,
		Value: value,
		span:  span,
	}
}

func (*LetExp) expNode() {}

// IfElseExp represents a conditional. Else may be nil, in which case the
// whole expression's value is unit regardless of the positive branch's type.
type IfElseExp struct {
	Cond Exp
	Then Exp
	Else Exp // nil when no else branch
	span lexer.Span
}

// Span returns the conditional span.
func (e *IfElseExp) Span() lexer.Span { return e.span }

// NewIfElseExp constructs a conditional node.
func NewIfElseExp(cond, then, els Exp, span lexer.Span) *IfElseExp {
	return &IfElseExp{
		Cond: cond,
		Then: then,
		Else: els,
		span: span,
	}
}

func (*IfElseExp) expNode() {}

// WhileExp represents a while loop.
type WhileExp struct {
	Cond Exp
	Body Exp
	span lexer.Span
}

// Span returns the loop span.
func (e *WhileExp) Span() lexer.Span { return e.span }

// NewWhileExp constructs a while loop node.
func NewWhileExp(cond, body Exp, span lexer.Span) *WhileExp {
	return &WhileExp{
		Cond: cond,
		Body: body,
		span: span,
	}
}

func (*WhileExp) expNode() {}

// ForExp is the desugared form of both for-loop variants: an init binding for
// the loop variable, a boolean condition, an increment assignment run after
// each iteration, and the body.
type ForExp struct {
	Init      *LetExp
	Cond      Exp
	Increment Exp
	Body      Exp
	span      lexer.Span
}

// Span returns the loop span.
func (e *ForExp) Span() lexer.Span { return e.span }

// NewForExp constructs a desugared for loop node.
func NewForExp(init *LetExp, cond, increment, body Exp, span lexer.Span) *ForExp {
	return &ForExp{
		Init:      init,
		Cond:      cond,
		Increment: increment,
		Body:      body,
		span:      span,
	}
}

func (*ForExp) expNode() {}

// LocalFun is one entry in a block's function table.
type LocalFun struct {
	Name string
	Fun  *Function
}

// BlockExp represents a braced block: an ordered statement list plus the
// ordered table of functions declared directly in this block. A FunDeclExp
// placeholder sits in Stmts at each function's textual position.
type BlockExp struct {
	Stmts []Exp
	Funs  []LocalFun
	span  lexer.Span
}

// Span returns the block span.
func (e *BlockExp) Span() lexer.Span { return e.span }

// NewBlockExp constructs a block node.
func NewBlockExp(stmts []Exp, funs []LocalFun, span lexer.Span) *BlockExp {
	return &BlockExp{
		Stmts: stmts,
		Funs:  funs,
		span:  span,
	}
}

func (*BlockExp) expNode() {}

// FunCallExp represents a call to a named function.
type FunCallExp struct {
	Name string
	Args []Exp
	span lexer.Span
}

// Span returns the call span.
func (e *FunCallExp) Span() lexer.Span { return e.span }

// NewFunCallExp constructs a call node.
func NewFunCallExp(name string, args []Exp, span lexer.Span) *FunCallExp {
	return &FunCallExp{
		Name: name,
		Args: args,
		span: span,
	}
}

func (*FunCallExp) expNode() {}

// FunDeclExp is a placeholder in a block's statement list marking where,
// textually, a function was declared. The Function itself travels in the
// enclosing block's function table.
type FunDeclExp struct {
	Name string
	span lexer.Span
}

// Span returns the declaration span.
func (e *FunDeclExp) Span() lexer.Span { return e.span }

// NewFunDeclExp constructs a declaration placeholder node.
func NewFunDeclExp(name string, span lexer.Span) *FunDeclExp {
	return &FunDeclExp{
		Name: name,
		span: span,
	}
}

func (*FunDeclExp) expNode() {}

// Function is a declared function. RetType starts as TypeAny when the
// declaration carries no annotation and is written exactly once, the first
// time the body is checked; it is stable afterwards.
type Function struct {
	Params     []string
	ParamTypes []Type
	RetType    Type
	Body       Exp
	span       lexer.Span
}

// Span returns the declaration span.
func (f *Function) Span() lexer.Span { return f.span }

// NewFunction constructs a function record.
func NewFunction(params []string, paramTypes []Type, retType Type, body Exp, span lexer.Span) *Function {
	return &Function{
		Params:     params,
		ParamTypes: paramTypes,
		RetType:    retType,
		Body:       body,
		span:       span,
	}
}
