package remap

import (
	"sort"

	"github.com/influxdata/remap/kit/errors"
)

// Registry maps function identifiers to functions. It is built once at
// startup and only read afterwards, so it is safe for concurrent use.
type Registry struct {
	fns map[string]Function
}

// NewRegistry returns a registry holding fns. Two functions sharing an
// identifier is an error.
func NewRegistry(fns ...Function) (*Registry, error) {
	r := &Registry{fns: make(map[string]Function, len(fns))}
	for _, fn := range fns {
		id := fn.Identifier()
		if _, dup := r.fns[id]; dup {
			return nil, &errors.Error{
				Code: errors.EInternal,
				Msg:  "function " + id + " registered twice",
				Op:   "remap.NewRegistry",
			}
		}
		r.fns[id] = fn
	}
	return r, nil
}

// Get returns the function registered as name.
func (r *Registry) Get(name string) (Function, bool) {
	fn, ok := r.fns[name]
	return fn, ok
}

// Functions returns the registered identifiers in lexical order.
func (r *Registry) Functions() []string {
	ids := make([]string, 0, len(r.fns))
	for id := range r.fns {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
