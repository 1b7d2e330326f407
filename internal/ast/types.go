package ast

// Type is the closed set of Nebulang primitive types.
type Type string

const (
	TypeInt   Type = "int"
	TypeFloat Type = "float"
	TypeBool  Type = "bool"
	TypeChar  Type = "char"
	TypeStr   Type = "string"
	TypeUnit  Type = "unit"

	// TypeAny is a transient "not yet inferred" placeholder. It is only legal
	// as the declared return type of an unannotated function before its body
	// has been checked once; it never survives as the settled type of any
	// checked expression.
	TypeAny Type = "any"
)

// TypeFromName resolves a primitive type name as written in source.
// TypeAny has no surface syntax and is not resolvable.
func TypeFromName(name string) (Type, bool) {
	switch name {
	case "int":
		return TypeInt, true
	case "float":
		return TypeFloat, true
	case "bool":
		return TypeBool, true
	case "char":
		return TypeChar, true
	case "string":
		return TypeStr, true
	case "unit":
		return TypeUnit, true
	default:
		return "", false
	}
}

// IsNumeric reports whether the type participates in arithmetic and ordering.
func (t Type) IsNumeric() bool {
	return t == TypeInt || t == TypeFloat
}

func (t Type) String() string { return string(t) }
