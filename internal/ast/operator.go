package ast

// Operator is an expression operator. Minus appears in both the unary and
// binary positions and is disambiguated by where it sits in a term sequence,
// not by the token itself.
type Operator string

const (
	OpPlus            Operator = "+"
	OpMinus           Operator = "-"
	OpMultiply        Operator = "*"
	OpDivide          Operator = "/"
	OpModulo          Operator = "%"
	OpLessThan        Operator = "<"
	OpGreaterThan     Operator = ">"
	OpLessOrEquals    Operator = "<="
	OpGreaterOrEquals Operator = ">="
	OpEquals          Operator = "=="
	OpNotEquals       Operator = "!="
	OpNot             Operator = "!"
	OpAnd             Operator = "&&"
	OpOr              Operator = "||"
	OpAssign          Operator = "="
	OpPlusAssign      Operator = "+="
	OpMinusAssign     Operator = "-="
)

// IsUnary reports whether the operator may open a term sequence.
func (op Operator) IsUnary() bool {
	return op == OpMinus || op == OpNot
}

func (op Operator) String() string { return string(op) }
