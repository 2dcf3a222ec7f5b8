package expression

import (
	"fmt"

	"github.com/influxdata/remap"
	"github.com/influxdata/remap/kit/errors"
	"github.com/influxdata/remap/value"
)

// Operator is a binary operator of the language.
type Operator int

const (
	Multiply Operator = iota
	Divide
	Add
	Subtract
	Remainder
	Or
	And
	Equal
	NotEqual
	Greater
	GreaterOrEqual
	Less
	LessOrEqual
)

var operatorSymbols = [...]string{
	Multiply:       "*",
	Divide:         "/",
	Add:            "+",
	Subtract:       "-",
	Remainder:      "%",
	Or:             "||",
	And:            "&&",
	Equal:          "==",
	NotEqual:       "!=",
	Greater:        ">",
	GreaterOrEqual: ">=",
	Less:           "<",
	LessOrEqual:    "<=",
}

func (op Operator) String() string {
	if op < 0 || int(op) >= len(operatorSymbols) {
		return fmt.Sprintf("Operator(%d)", int(op))
	}
	return operatorSymbols[op]
}

// ParseOperator returns the operator written as sym.
func ParseOperator(sym string) (Operator, error) {
	for op, s := range operatorSymbols {
		if s == sym {
			return Operator(op), nil
		}
	}
	return 0, errors.Compilef("unknown operator %q", sym)
}

// Arithmetic applies a binary operator to two operands.
//
// || evaluates to its left operand unless that is null or false, in which
// case it evaluates to the right one. && treats null as false and
// short-circuits on a false left operand.
type Arithmetic struct {
	op       Operator
	lhs, rhs remap.Expression
}

// NewArithmetic returns lhs op rhs.
func NewArithmetic(op Operator, lhs, rhs remap.Expression) *Arithmetic {
	return &Arithmetic{op: op, lhs: lhs, rhs: rhs}
}

func (e *Arithmetic) Execute(state *remap.ProgramState, obj remap.Object) (value.Value, error) {
	lhs, err := e.lhs.Execute(state, obj)
	if err != nil {
		return value.Null, err
	}

	switch e.op {
	case Or:
		if !truthy(lhs) {
			return e.rhs.Execute(state, obj)
		}
		return lhs, nil
	case And:
		l, err := boolOrNull(lhs)
		if err != nil || !l {
			return value.Boolean(false), err
		}
		rhs, err := e.rhs.Execute(state, obj)
		if err != nil {
			return value.Null, err
		}
		r, err := boolOrNull(rhs)
		return value.Boolean(r), err
	}

	rhs, err := e.rhs.Execute(state, obj)
	if err != nil {
		return value.Null, err
	}

	switch e.op {
	case Multiply:
		return lhs.Multiply(rhs)
	case Divide:
		return lhs.Divide(rhs)
	case Add:
		return lhs.Add(rhs)
	case Subtract:
		return lhs.Subtract(rhs)
	case Remainder:
		return lhs.Remainder(rhs)
	case Equal:
		return value.Boolean(lhs.Equal(rhs)), nil
	case NotEqual:
		return value.Boolean(!lhs.Equal(rhs)), nil
	case Greater:
		return lhs.Greater(rhs)
	case GreaterOrEqual:
		return lhs.GreaterOrEqual(rhs)
	case Less:
		return lhs.Less(rhs)
	case LessOrEqual:
		return lhs.LessOrEqual(rhs)
	}
	return value.Null, &errors.Error{Code: errors.EInternal, Msg: "unknown operator " + e.op.String()}
}

func truthy(v value.Value) bool {
	b, err := v.TryBoolean()
	if err != nil {
		return !v.IsNull()
	}
	return b
}

func boolOrNull(v value.Value) (bool, error) {
	if v.IsNull() {
		return false, nil
	}
	return v.TryBoolean()
}

func (e *Arithmetic) TypeDef(state *remap.CompilerState) remap.TypeDef {
	lhs, rhs := e.lhs.TypeDef(state), e.rhs.TypeDef(state)
	td := remap.TypeDef{Fallible: lhs.Fallible || rhs.Fallible}

	switch e.op {
	case Or:
		td.Kind = lhs.Kind.Union(rhs.Kind)
		td.Optional = rhs.Optional
		return td
	case Equal, NotEqual:
		return td.WithConstraint(value.KindBoolean)
	case And:
		td = td.WithConstraint(value.KindBoolean)
		if !lhs.Kind.Union(rhs.Kind).IsSubsetOf(value.KindBoolean | value.KindNull) {
			td.Fallible = true
		}
		return td
	case Greater, GreaterOrEqual, Less, LessOrEqual:
		return td.IntoFallible(true).WithConstraint(value.KindBoolean)
	case Divide:
		return td.IntoFallible(true).WithConstraint(value.KindFloat)
	}

	td.Fallible = true
	switch {
	case lhs.Kind == value.KindInteger && rhs.Kind == value.KindInteger:
		td.Kind = value.KindInteger
	case lhs.Kind.IsSubsetOf(value.KindNumeric) && rhs.Kind.IsSubsetOf(value.KindNumeric) &&
		(lhs.Kind == value.KindFloat || rhs.Kind == value.KindFloat):
		td.Kind = value.KindFloat
	case e.op == Subtract || e.op == Remainder || !lhs.Kind.Intersects(value.KindBytes):
		td.Kind = value.KindNumeric
	case lhs.Kind == value.KindBytes:
		td.Kind = value.KindBytes
	default:
		td.Kind = value.KindBytes | value.KindNumeric
	}
	return td
}

func (e *Arithmetic) Clone() remap.Expression {
	return &Arithmetic{op: e.op, lhs: e.lhs.Clone(), rhs: e.rhs.Clone()}
}
