package remap

import "github.com/influxdata/remap/value"

// Object is the event a program reads and mutates.
//
// The engine borrows an Object for the duration of a single Execute call
// and never retains it afterwards.
type Object interface {
	// Get returns the value at path. The boolean is false when nothing
	// is stored there.
	Get(path Path) (value.Value, bool, error)

	// Insert stores v at path, creating intermediate maps and arrays.
	Insert(path Path, v value.Value) error

	// Remove deletes the value at path. When compact is set, maps and
	// arrays left empty by the removal are removed as well.
	Remove(path Path, compact bool) error

	// Paths returns the paths of every leaf value.
	Paths() ([]Path, error)
}
