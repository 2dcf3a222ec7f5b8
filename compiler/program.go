package compiler

import (
	"github.com/influxdata/remap"
	"github.com/influxdata/remap/value"
)

// Program is a compiled program. A Program is safe for concurrent use
// only through clones: give every goroutine its own Clone.
type Program struct {
	expr    remap.Expression
	state   *remap.CompilerState
	typeDef remap.TypeDef
}

// Execute runs the program against obj with a fresh program state.
func (p *Program) Execute(obj remap.Object) (value.Value, error) {
	return p.ExecuteWithState(remap.NewProgramState(), obj)
}

// ExecuteWithState runs the program against obj, reading and binding
// variables in state.
func (p *Program) ExecuteWithState(state *remap.ProgramState, obj remap.Object) (value.Value, error) {
	return p.expr.Execute(state, obj)
}

// TypeDef describes what Execute may return.
func (p *Program) TypeDef() remap.TypeDef {
	return p.typeDef
}

// Clone returns an independent copy of the program.
func (p *Program) Clone() *Program {
	return &Program{
		expr:    p.expr.Clone(),
		state:   p.state,
		typeDef: p.typeDef,
	}
}
