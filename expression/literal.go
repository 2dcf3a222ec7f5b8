// Package expression implements the constructs of the remap language as
// remap.Expression nodes.
package expression

import (
	"sort"

	"github.com/influxdata/remap"
	"github.com/influxdata/remap/value"
)

var (
	_ remap.Literal    = (*Literal)(nil)
	_ remap.Expression = (*Array)(nil)
	_ remap.Expression = (*Map)(nil)
	_ remap.Expression = Noop{}
)

// Literal evaluates to a value known at compile time.
type Literal struct {
	v value.Value
}

// NewLiteral returns a literal holding v.
func NewLiteral(v value.Value) *Literal {
	return &Literal{v: v}
}

// Literal returns the value of the literal.
func (e *Literal) Literal() value.Value { return e.v }

func (e *Literal) Execute(*remap.ProgramState, remap.Object) (value.Value, error) {
	return e.v.Clone(), nil
}

func (e *Literal) TypeDef(*remap.CompilerState) remap.TypeDef {
	return remap.TypeDef{Kind: e.v.Kind()}
}

func (e *Literal) Clone() remap.Expression {
	return &Literal{v: e.v.Clone()}
}

// Array evaluates its elements in order into an array.
type Array struct {
	items []remap.Expression
}

// NewArray returns an array of items.
func NewArray(items ...remap.Expression) *Array {
	return &Array{items: items}
}

func (e *Array) Execute(state *remap.ProgramState, obj remap.Object) (value.Value, error) {
	vs := make([]value.Value, len(e.items))
	for i, item := range e.items {
		v, err := item.Execute(state, obj)
		if err != nil {
			return value.Null, err
		}
		vs[i] = v
	}
	return value.Array(vs), nil
}

func (e *Array) TypeDef(state *remap.CompilerState) remap.TypeDef {
	td := remap.TypeDef{}
	for _, item := range e.items {
		td.Fallible = td.Fallible || item.TypeDef(state).Fallible
	}
	return td.WithConstraint(value.KindArray)
}

func (e *Array) Clone() remap.Expression {
	return &Array{items: cloneAll(e.items)}
}

// Map evaluates its fields into a map. Fields are evaluated in key order.
type Map struct {
	keys   []string
	fields map[string]remap.Expression
}

// NewMap returns a map of fields.
func NewMap(fields map[string]remap.Expression) *Map {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return &Map{keys: keys, fields: fields}
}

func (e *Map) Execute(state *remap.ProgramState, obj remap.Object) (value.Value, error) {
	m := make(map[string]value.Value, len(e.fields))
	for _, k := range e.keys {
		v, err := e.fields[k].Execute(state, obj)
		if err != nil {
			return value.Null, err
		}
		m[k] = v
	}
	return value.Map(m), nil
}

func (e *Map) TypeDef(state *remap.CompilerState) remap.TypeDef {
	td := remap.TypeDef{}
	for _, k := range e.keys {
		td.Fallible = td.Fallible || e.fields[k].TypeDef(state).Fallible
	}
	return td.WithConstraint(value.KindMap)
}

func (e *Map) Clone() remap.Expression {
	fields := make(map[string]remap.Expression, len(e.fields))
	for k, f := range e.fields {
		fields[k] = f.Clone()
	}
	return &Map{keys: append([]string(nil), e.keys...), fields: fields}
}

// Noop does nothing and evaluates to null.
type Noop struct{}

func (Noop) Execute(*remap.ProgramState, remap.Object) (value.Value, error) {
	return value.Null, nil
}

func (Noop) TypeDef(*remap.CompilerState) remap.TypeDef {
	return remap.TypeDef{Optional: true, Kind: value.KindNull}
}

func (Noop) Clone() remap.Expression { return Noop{} }

func cloneAll(es []remap.Expression) []remap.Expression {
	out := make([]remap.Expression, len(es))
	for i, e := range es {
		out[i] = e.Clone()
	}
	return out
}
