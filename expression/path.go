package expression

import (
	"github.com/influxdata/remap"
	"github.com/influxdata/remap/value"
)

// Path reads the value at a path of the event. A missing value is null.
type Path struct {
	path remap.Path
}

// NewPath returns an expression reading p.
func NewPath(p remap.Path) *Path {
	return &Path{path: p}
}

func (e *Path) Execute(_ *remap.ProgramState, obj remap.Object) (value.Value, error) {
	v, ok, err := obj.Get(e.path)
	if err != nil || !ok {
		return value.Null, err
	}
	return v.Clone(), nil
}

// TypeDef reports every kind: events are not typed at compile time.
func (e *Path) TypeDef(*remap.CompilerState) remap.TypeDef {
	return remap.TypeDef{Fallible: true, Optional: true, Kind: value.KindAll}
}

func (e *Path) Clone() remap.Expression {
	return &Path{path: e.path.Append()}
}

// Variable reads a variable of the program state. An unbound variable is
// null.
type Variable struct {
	name string
}

// NewVariable returns an expression reading the variable name.
func NewVariable(name string) *Variable {
	return &Variable{name: name}
}

func (e *Variable) Execute(state *remap.ProgramState, _ remap.Object) (value.Value, error) {
	v, ok := state.Variable(e.name)
	if !ok {
		return value.Null, nil
	}
	return v.Clone(), nil
}

func (e *Variable) TypeDef(state *remap.CompilerState) remap.TypeDef {
	if td, ok := state.VariableTypeDef(e.name); ok {
		// Reads cannot fail, only the assignment can.
		return td.IntoFallible(false)
	}
	return remap.TypeDef{Optional: true, Kind: value.KindAll}
}

func (e *Variable) Clone() remap.Expression {
	return &Variable{name: e.name}
}

// Target is where an Assignment stores its value: an event path, or a
// variable when Variable is set.
type Target struct {
	Path     remap.Path
	Variable string
}

func (t Target) String() string {
	if t.Variable != "" {
		return "$" + t.Variable
	}
	return t.Path.String()
}

// Assignment evaluates an expression and stores the result in its target.
// It evaluates to the stored value.
type Assignment struct {
	target Target
	value  remap.Expression
}

// NewAssignment returns an assignment of v to target.
func NewAssignment(target Target, v remap.Expression) *Assignment {
	return &Assignment{target: target, value: v}
}

// Target returns where the assignment stores its value.
func (e *Assignment) Target() Target { return e.target }

func (e *Assignment) Execute(state *remap.ProgramState, obj remap.Object) (value.Value, error) {
	v, err := e.value.Execute(state, obj)
	if err != nil {
		return value.Null, err
	}
	if e.target.Variable != "" {
		state.SetVariable(e.target.Variable, v.Clone())
		return v, nil
	}
	if err := obj.Insert(e.target.Path, v.Clone()); err != nil {
		return value.Null, err
	}
	return v, nil
}

func (e *Assignment) TypeDef(state *remap.CompilerState) remap.TypeDef {
	return e.value.TypeDef(state)
}

func (e *Assignment) Clone() remap.Expression {
	return &Assignment{
		target: Target{Path: e.target.Path.Append(), Variable: e.target.Variable},
		value:  e.value.Clone(),
	}
}
