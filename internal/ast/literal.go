package ast

import (
	"fmt"
	"strconv"
)

// LiteralKind discriminates the variants of Literal.
type LiteralKind int

const (
	LitInt LiteralKind = iota
	LitFloat
	LitBool
	LitChar
	LitStr
	LitUnit
)

// Literal is a tagged literal value. Unit has no literal syntax; it is only
// produced internally (e.g. as an elided branch result).
type Literal struct {
	Kind  LiteralKind
	Int   int64
	Float float64
	Bool  bool
	Char  rune
	Str   string
}

func IntLiteral(v int64) Literal     { return Literal{Kind: LitInt, Int: v} }
func FloatLiteral(v float64) Literal { return Literal{Kind: LitFloat, Float: v} }
func BoolLiteral(v bool) Literal     { return Literal{Kind: LitBool, Bool: v} }
func CharLiteral(v rune) Literal     { return Literal{Kind: LitChar, Char: v} }
func StrLiteral(v string) Literal    { return Literal{Kind: LitStr, Str: v} }
func UnitLiteral() Literal           { return Literal{Kind: LitUnit} }

// Type returns the primitive type of the literal.
func (l Literal) Type() Type {
	switch l.Kind {
	case LitInt:
		return TypeInt
	case LitFloat:
		return TypeFloat
	case LitBool:
		return TypeBool
	case LitChar:
		return TypeChar
	case LitStr:
		return TypeStr
	default:
		return TypeUnit
	}
}

func (l Literal) String() string {
	switch l.Kind {
	case LitInt:
		return strconv.FormatInt(l.Int, 10)
	case LitFloat:
		return strconv.FormatFloat(l.Float, 'g', -1, 64)
	case LitBool:
		return strconv.FormatBool(l.Bool)
	case LitChar:
		return fmt.Sprintf("'%c'", l.Char)
	case LitStr:
		return strconv.Quote(l.Str)
	default:
		return "unit"
	}
}
