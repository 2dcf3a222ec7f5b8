package functions

import (
	"strings"

	"github.com/influxdata/remap"
	"github.com/influxdata/remap/kit/errors"
	"github.com/influxdata/remap/value"
)

// Join concatenates the strings of an array, placing an optional
// separator between them.
//
//	join(value: array, separator: bytes = "")
type Join struct{}

func (Join) Identifier() string { return "join" }

func (Join) Parameters() []remap.Parameter {
	return []remap.Parameter{
		{Keyword: "value", Kind: value.KindArray, Required: true},
		{Keyword: "separator", Kind: value.KindBytes},
	}
}

func (Join) Compile(args *remap.ArgumentList) (remap.Expression, error) {
	v, err := args.Required("value")
	if err != nil {
		return nil, err
	}
	return &joinFn{
		value:     v,
		separator: args.Optional("separator"),
	}, nil
}

type joinFn struct {
	value     remap.Expression
	separator remap.Expression // nil joins without separator
}

var errNonStringItem = &errors.ConversionError{Detail: "all array items must be strings"}

func (fn *joinFn) Execute(state *remap.ProgramState, obj remap.Object) (value.Value, error) {
	v, err := fn.value.Execute(state, obj)
	if err != nil {
		return value.Null, err
	}
	items, err := v.TryArray()
	if err != nil {
		return value.Null, err
	}
	strs := make([]string, len(items))
	for i, item := range items {
		s, err := item.TryBytesUTF8Lossy()
		if err != nil {
			return value.Null, errNonStringItem
		}
		strs[i] = s
	}

	var sep string
	if fn.separator != nil {
		v, err := fn.separator.Execute(state, obj)
		if err != nil {
			return value.Null, err
		}
		if sep, err = v.TryBytesUTF8Lossy(); err != nil {
			return value.Null, err
		}
	}
	return value.String(strings.Join(strs, sep)), nil
}

// TypeDef is always fallible: the array may hold values other than
// strings.
func (fn *joinFn) TypeDef(state *remap.CompilerState) remap.TypeDef {
	return fn.value.TypeDef(state).
		IntoFallible(true).
		IntoOptional(false).
		WithConstraint(value.KindBytes)
}

func (fn *joinFn) Clone() remap.Expression {
	c := &joinFn{value: fn.value.Clone()}
	if fn.separator != nil {
		c.separator = fn.separator.Clone()
	}
	return c
}
