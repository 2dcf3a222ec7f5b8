package expression

import (
	"github.com/influxdata/remap"
	"github.com/influxdata/remap/kit/errors"
	"github.com/influxdata/remap/value"
)

// FunctionCall executes the expression a function compiled for a call
// site. Errors raised by the function are reported as function call
// errors.
type FunctionCall struct {
	ident string
	expr  remap.Expression
}

// NewFunctionCall wraps expr, compiled by the function ident.
func NewFunctionCall(ident string, expr remap.Expression) *FunctionCall {
	return &FunctionCall{ident: ident, expr: expr}
}

// Identifier returns the name of the called function.
func (e *FunctionCall) Identifier() string { return e.ident }

func (e *FunctionCall) Execute(state *remap.ProgramState, obj remap.Object) (value.Value, error) {
	v, err := e.expr.Execute(state, obj)
	if err != nil {
		if errors.ErrorCode(err) == errors.EFunctionCall {
			return value.Null, err
		}
		return value.Null, errors.FunctionCall(e.ident, err)
	}
	return v, nil
}

func (e *FunctionCall) TypeDef(state *remap.CompilerState) remap.TypeDef {
	return e.expr.TypeDef(state)
}

func (e *FunctionCall) Clone() remap.Expression {
	return &FunctionCall{ident: e.ident, expr: e.expr.Clone()}
}
