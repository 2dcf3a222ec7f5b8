// Package remap defines the contracts of the remap engine: the event
// Object programs operate on, the Expression nodes programs are built
// from, the TypeDef descriptors inferred for them at compile time, and
// the Function plugins that compile call sites into expressions.
//
// Implementations live in subpackages: value holds the runtime values,
// expression the language constructs, functions the built-ins, compiler
// turns a syntax tree into a Program and event provides a map-backed
// Object.
package remap
