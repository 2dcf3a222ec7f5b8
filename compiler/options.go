package compiler

import (
	"github.com/influxdata/remap"
	"go.uber.org/zap"
)

type options struct {
	registry *remap.Registry
	accepts  *remap.TypeDef
	log      *zap.Logger
}

// Option configures compilation.
type Option func(*options)

// WithRegistry resolves function calls against r instead of the built-ins.
func WithRegistry(r *remap.Registry) Option {
	return func(o *options) {
		o.registry = r
	}
}

// WithAccepts rejects programs that may fail while td is infallible, or
// that may resolve to a kind outside td.Kind.
func WithAccepts(td remap.TypeDef) Option {
	return func(o *options) {
		o.accepts = &td
	}
}

// WithLogger sets the logger compilation is reported to.
func WithLogger(log *zap.Logger) Option {
	return func(o *options) {
		o.log = log
	}
}
