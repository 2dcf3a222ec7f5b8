// Package ast defines the syntax tree handed to the compiler, and a
// decoder reading it from YAML or JSON program documents.
package ast

import "github.com/influxdata/remap/value"

// Node is a node of the syntax tree.
type Node interface {
	node()
}

// Literal is a scalar known at parse time.
type Literal struct {
	Value value.Value
}

// Regex is a regular expression literal. It is compiled by the compiler.
type Regex struct {
	Pattern string
}

// Timestamp is an RFC 3339 timestamp literal.
type Timestamp struct {
	Value string
}

// Array builds an array from its items.
type Array struct {
	Items []Node
}

// Map builds a map from its fields.
type Map struct {
	Fields map[string]Node
}

// Path reads a field of the event, e.g. ".message" or ".tags[0]".
type Path struct {
	Path string
}

// Variable reads a program variable.
type Variable struct {
	Name string
}

// Assignment stores Value at Target, which is a *Path or a *Variable.
type Assignment struct {
	Target Node
	Value  Node
}

// Block evaluates its expressions in order.
type Block struct {
	Exprs []Node
}

// If evaluates Then or Else depending on Cond. Else may be nil.
type If struct {
	Cond Node
	Then Node
	Else Node
}

// Not negates a boolean.
type Not struct {
	Expr Node
}

// Binary applies the operator Op, e.g. "+" or "&&", to its operands.
type Binary struct {
	Op  string
	LHS Node
	RHS Node
}

// Argument is one argument of a call. Positional arguments have no keyword.
type Argument struct {
	Keyword string
	Value   Node
}

// Call calls the named function.
type Call struct {
	Function string
	Args     []Argument
}

// Noop does nothing.
type Noop struct{}

func (*Literal) node()    {}
func (*Regex) node()      {}
func (*Timestamp) node()  {}
func (*Array) node()      {}
func (*Map) node()        {}
func (*Path) node()       {}
func (*Variable) node()   {}
func (*Assignment) node() {}
func (*Block) node()      {}
func (*If) node()         {}
func (*Not) node()        {}
func (*Binary) node()     {}
func (*Call) node()       {}
func (*Noop) node()       {}
