package mock

import (
	"github.com/influxdata/remap"
	"github.com/influxdata/remap/value"
)

var _ remap.Expression = (*Expression)(nil)

// Expression is a remap.Expression whose behavior is supplied by the test.
type Expression struct {
	ExecuteFn func(state *remap.ProgramState, obj remap.Object) (value.Value, error)
	TypeDefFn func(state *remap.CompilerState) remap.TypeDef
	CloneFn   func() remap.Expression
}

// NewExpression returns an expression that evaluates to v and reports td.
// Its clones are independent copies of the mock.
func NewExpression(v value.Value, td remap.TypeDef) *Expression {
	e := &Expression{
		ExecuteFn: func(*remap.ProgramState, remap.Object) (value.Value, error) { return v.Clone(), nil },
		TypeDefFn: func(*remap.CompilerState) remap.TypeDef { return td },
	}
	e.CloneFn = func() remap.Expression {
		c := *e
		return &c
	}
	return e
}

// NewFailingExpression returns a fallible expression whose execution
// always returns err.
func NewFailingExpression(err error, kind value.Kind) *Expression {
	e := NewExpression(value.Null, remap.TypeDef{Fallible: true, Kind: kind})
	e.ExecuteFn = func(*remap.ProgramState, remap.Object) (value.Value, error) { return value.Null, err }
	return e
}

func (e *Expression) Execute(state *remap.ProgramState, obj remap.Object) (value.Value, error) {
	return e.ExecuteFn(state, obj)
}

func (e *Expression) TypeDef(state *remap.CompilerState) remap.TypeDef {
	return e.TypeDefFn(state)
}

func (e *Expression) Clone() remap.Expression {
	return e.CloneFn()
}
