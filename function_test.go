package remap_test

import (
	"testing"

	"github.com/influxdata/remap"
	rerrors "github.com/influxdata/remap/kit/errors"
	"github.com/influxdata/remap/mock"
	"github.com/influxdata/remap/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type literal struct {
	*mock.Expression
	v value.Value
}

func (l literal) Literal() value.Value { return l.v }

func newLiteral(v value.Value) literal {
	return literal{
		Expression: mock.NewExpression(v, remap.TypeDef{Kind: v.Kind()}),
		v:          v,
	}
}

var testParams = []remap.Parameter{
	{Keyword: "value", Kind: value.KindBytes, Required: true},
	{Keyword: "format", Kind: value.KindBytes},
}

func TestParameter_Accepts(t *testing.T) {
	p := remap.Parameter{Keyword: "value", Kind: value.KindBytes | value.KindArray}
	assert.True(t, p.Accepts(value.String("x")))
	assert.True(t, p.Accepts(value.Array(nil)))
	assert.False(t, p.Accepts(value.Integer(1)))
	assert.True(t, p.AcceptsKind(value.KindAll))
	assert.False(t, p.AcceptsKind(value.KindNumeric))
}

func TestArgument(t *testing.T) {
	param := remap.Parameter{Keyword: "value", Kind: value.KindBytes, Required: true}

	t.Run("accepted value", func(t *testing.T) {
		arg := remap.NewArgument(mock.NewExpression(value.String("x"), remap.TypeDef{Kind: value.KindBytes}), param)
		v, err := arg.Execute(remap.NewProgramState(), mock.NewObject())
		require.NoError(t, err)
		assert.True(t, value.String("x").Equal(v))
		assert.False(t, arg.TypeDef(remap.NewCompilerState()).Fallible)
	})

	t.Run("rejected value", func(t *testing.T) {
		arg := remap.NewArgument(mock.NewExpression(value.Integer(1), remap.TypeDef{Kind: value.KindAll}), param)
		_, err := arg.Execute(remap.NewProgramState(), mock.NewObject())
		require.Error(t, err)
		assert.Equal(t, `invalid argument type for "value": expected bytes, got integer`, err.Error())
		assert.Equal(t, rerrors.ETypeMismatch, rerrors.ErrorCode(err))
		assert.True(t, arg.TypeDef(remap.NewCompilerState()).Fallible)
	})

	t.Run("fallible child", func(t *testing.T) {
		arg := remap.NewArgument(mock.NewFailingExpression(rerrors.Compilef("x"), value.KindBytes), param)
		assert.True(t, arg.TypeDef(remap.NewCompilerState()).Fallible)
	})
}

func TestArgumentList(t *testing.T) {
	t.Run("required missing", func(t *testing.T) {
		args := remap.NewArgumentList(testParams)
		_, err := args.Required("value")
		require.Error(t, err)
		assert.Equal(t, `missing required argument "value"`, err.Error())
		assert.Equal(t, rerrors.ECompile, rerrors.ErrorCode(err))
	})

	t.Run("consumed once", func(t *testing.T) {
		args := remap.NewArgumentList(testParams)
		require.NoError(t, args.Insert("value", newLiteral(value.String("x"))))
		assert.Equal(t, []string{"value"}, args.Keywords())

		_, err := args.Required("value")
		require.NoError(t, err)
		_, err = args.Required("value")
		assert.Error(t, err)
		assert.Empty(t, args.Keywords())
	})

	t.Run("unknown and duplicate keywords", func(t *testing.T) {
		args := remap.NewArgumentList(testParams)
		assert.EqualError(t, args.Insert("nope", newLiteral(value.Null)), `unknown keyword "nope"`)
		require.NoError(t, args.Insert("format", newLiteral(value.String("%s"))))
		assert.EqualError(t, args.Insert("format", newLiteral(value.String("%s"))), `duplicate argument "format"`)
	})

	t.Run("optional absent", func(t *testing.T) {
		args := remap.NewArgumentList(testParams)
		assert.Nil(t, args.Optional("format"))
		_, ok, err := args.OptionalLiteral("format")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("optional literal", func(t *testing.T) {
		args := remap.NewArgumentList(testParams)
		require.NoError(t, args.Insert("format", newLiteral(value.String("%+"))))
		v, ok, err := args.OptionalLiteral("format")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.True(t, value.String("%+").Equal(v))
	})

	t.Run("optional literal not a literal", func(t *testing.T) {
		args := remap.NewArgumentList(testParams)
		require.NoError(t, args.Insert("format", mock.NewExpression(value.String("%+"), remap.TypeDef{Kind: value.KindBytes})))
		_, _, err := args.OptionalLiteral("format")
		assert.EqualError(t, err, `argument "format" must be a literal`)
	})

	t.Run("literal of wrong kind", func(t *testing.T) {
		args := remap.NewArgumentList(testParams)
		require.NoError(t, args.Insert("format", newLiteral(value.Integer(1))))
		_, err := args.RequiredLiteral("format")
		assert.EqualError(t, err, `invalid argument type for "format": expected bytes, got integer`)
	})
}

func TestRegistry(t *testing.T) {
	r, err := remap.NewRegistry(mock.NewFunction("b"), mock.NewFunction("a"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, r.Functions())

	fn, ok := r.Get("a")
	require.True(t, ok)
	assert.Equal(t, "a", fn.Identifier())
	_, ok = r.Get("c")
	assert.False(t, ok)

	_, err = remap.NewRegistry(mock.NewFunction("a"), mock.NewFunction("a"))
	assert.Error(t, err)
}

func TestAsLiteral(t *testing.T) {
	v, ok := remap.AsLiteral(newLiteral(value.Integer(3)))
	require.True(t, ok)
	assert.True(t, value.Integer(3).Equal(v))

	_, ok = remap.AsLiteral(mock.NewExpression(value.Integer(3), remap.TypeDef{}))
	assert.False(t, ok)
}

func TestState(t *testing.T) {
	ps := remap.NewProgramState()
	ps.SetVariable("x", value.Integer(1))
	v, ok := ps.Variable("x")
	require.True(t, ok)
	assert.True(t, value.Integer(1).Equal(v))
	ps.Reset()
	_, ok = ps.Variable("x")
	assert.False(t, ok)

	cs := remap.NewCompilerState()
	cs.SetVariableTypeDef("x", remap.TypeDef{Kind: value.KindInteger})
	cs.SetVariableTypeDef("x", remap.TypeDef{Kind: value.KindBytes})
	td, ok := cs.VariableTypeDef("x")
	require.True(t, ok)
	assert.Equal(t, value.KindInteger|value.KindBytes, td.Kind)
}
