package remap

import "github.com/influxdata/remap/value"

// ProgramState holds the variables bound while executing a program
// against one event. It is created per execution and discarded after it.
type ProgramState struct {
	variables map[string]value.Value
}

// NewProgramState returns an empty program state.
func NewProgramState() *ProgramState {
	return &ProgramState{variables: make(map[string]value.Value)}
}

// Variable returns the value bound to name.
func (s *ProgramState) Variable(name string) (value.Value, bool) {
	v, ok := s.variables[name]
	return v, ok
}

// SetVariable binds v to name.
func (s *ProgramState) SetVariable(name string, v value.Value) {
	if s.variables == nil {
		s.variables = make(map[string]value.Value)
	}
	s.variables[name] = v
}

// Reset drops every binding so the state can serve another execution.
func (s *ProgramState) Reset() {
	for k := range s.variables {
		delete(s.variables, k)
	}
}

// CompilerState holds the static environment used while compiling a
// program: the type definitions of the variables assigned so far.
// It must not be modified once compilation has finished.
type CompilerState struct {
	variables map[string]TypeDef
}

// NewCompilerState returns an empty compiler state.
func NewCompilerState() *CompilerState {
	return &CompilerState{variables: make(map[string]TypeDef)}
}

// VariableTypeDef returns the type definition recorded for name.
func (s *CompilerState) VariableTypeDef(name string) (TypeDef, bool) {
	if s == nil {
		return TypeDef{}, false
	}
	td, ok := s.variables[name]
	return td, ok
}

// SetVariableTypeDef records the type definition of name. A variable
// assigned more than once keeps the merge of every assignment.
func (s *CompilerState) SetVariableTypeDef(name string, td TypeDef) {
	if s.variables == nil {
		s.variables = make(map[string]TypeDef)
	}
	if prev, ok := s.variables[name]; ok {
		td = prev.Merge(td)
	}
	s.variables[name] = td
}
