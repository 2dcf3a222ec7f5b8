package mock

import (
	"github.com/influxdata/remap"
	"github.com/influxdata/remap/value"
)

var _ remap.Function = (*Function)(nil)

// Function is a remap.Function whose behavior is supplied by the test.
type Function struct {
	IdentifierFn func() string
	ParametersFn func() []remap.Parameter
	CompileFn    func(args *remap.ArgumentList) (remap.Expression, error)
}

// NewFunction returns a function named id declaring params. Compiling it
// returns the required argument bound to the first parameter, or a null
// expression when there are no parameters.
func NewFunction(id string, params ...remap.Parameter) *Function {
	return &Function{
		IdentifierFn: func() string { return id },
		ParametersFn: func() []remap.Parameter { return params },
		CompileFn: func(args *remap.ArgumentList) (remap.Expression, error) {
			if len(params) == 0 {
				return NewExpression(value.Null, remap.TypeDef{Kind: value.KindNull}), nil
			}
			return args.Required(params[0].Keyword)
		},
	}
}

func (f *Function) Identifier() string {
	return f.IdentifierFn()
}

func (f *Function) Parameters() []remap.Parameter {
	return f.ParametersFn()
}

func (f *Function) Compile(args *remap.ArgumentList) (remap.Expression, error) {
	return f.CompileFn(args)
}
