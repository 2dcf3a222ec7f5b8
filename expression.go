package remap

import "github.com/influxdata/remap/value"

// Expression is a compiled, executable language construct.
//
// Expressions own their child expressions. An Expression is immutable
// once built and safe for concurrent use only through independent
// clones.
type Expression interface {
	// Execute evaluates the expression against obj.
	Execute(state *ProgramState, obj Object) (value.Value, error)

	// TypeDef reports, without evaluating, what Execute may return.
	TypeDef(state *CompilerState) TypeDef

	// Clone returns a deep copy of the expression tree.
	Clone() Expression
}

// Literal is implemented by expressions whose value is known at compile
// time.
type Literal interface {
	Expression
	Literal() value.Value
}

// AsLiteral returns the compile-time value of e, if it has one.
func AsLiteral(e Expression) (value.Value, bool) {
	lit, ok := e.(Literal)
	if !ok {
		return value.Null, false
	}
	return lit.Literal(), true
}
