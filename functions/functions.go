// Package functions holds the built-in functions of the remap language.
package functions

import (
	"sync"

	"github.com/influxdata/remap"
)

var (
	registry     *remap.Registry
	registryOnce sync.Once
)

// All returns every built-in function.
func All() []remap.Function {
	return []remap.Function{
		Join{},
		ParseCommonLog{},
	}
}

// Registry returns the registry of the built-in functions. It is built
// on first use and shared afterwards.
func Registry() *remap.Registry {
	registryOnce.Do(func() {
		r, err := remap.NewRegistry(All()...)
		if err != nil {
			panic(err)
		}
		registry = r
	})
	return registry
}
