package value_test

import (
	"math"
	"testing"
	"time"

	rerrors "github.com/influxdata/remap/kit/errors"
	"github.com/influxdata/remap/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValue_Arithmetic(t *testing.T) {
	type op func(a, b value.Value) (value.Value, error)
	var (
		add = func(a, b value.Value) (value.Value, error) { return a.Add(b) }
		sub = func(a, b value.Value) (value.Value, error) { return a.Subtract(b) }
		mul = func(a, b value.Value) (value.Value, error) { return a.Multiply(b) }
		div = func(a, b value.Value) (value.Value, error) { return a.Divide(b) }
		rem = func(a, b value.Value) (value.Value, error) { return a.Remainder(b) }
	)

	cases := []struct {
		name    string
		op      op
		a, b    value.Value
		want    value.Value
		errCode string
	}{
		{name: "add integers", op: add, a: value.Integer(1), b: value.Integer(2), want: value.Integer(3)},
		{name: "add mixed", op: add, a: value.Integer(1), b: value.Float(0.5), want: value.Float(1.5)},
		{name: "add bytes", op: add, a: value.String("foo"), b: value.String("bar"), want: value.String("foobar")},
		{name: "add bytes and integer", op: add, a: value.String("foo"), b: value.Integer(1), errCode: rerrors.ETypeMismatch},
		{name: "add booleans", op: add, a: value.Boolean(true), b: value.Boolean(true), errCode: rerrors.ETypeMismatch},
		{name: "add overflow", op: add, a: value.Integer(math.MaxInt64), b: value.Integer(1), errCode: rerrors.EConversion},
		{name: "add underflow", op: add, a: value.Integer(math.MinInt64), b: value.Integer(-1), errCode: rerrors.EConversion},
		{name: "add near limit", op: add, a: value.Integer(math.MaxInt64 - 1), b: value.Integer(1), want: value.Integer(math.MaxInt64)},
		{name: "subtract", op: sub, a: value.Integer(5), b: value.Integer(7), want: value.Integer(-2)},
		{name: "subtract floats", op: sub, a: value.Float(5), b: value.Float(0.5), want: value.Float(4.5)},
		{name: "subtract overflow", op: sub, a: value.Integer(math.MinInt64), b: value.Integer(1), errCode: rerrors.EConversion},
		{name: "subtract negative overflow", op: sub, a: value.Integer(math.MaxInt64), b: value.Integer(-1), errCode: rerrors.EConversion},
		{name: "multiply", op: mul, a: value.Integer(3), b: value.Integer(4), want: value.Integer(12)},
		{name: "repeat bytes", op: mul, a: value.String("ab"), b: value.Integer(3), want: value.String("ababab")},
		{name: "repeat bytes negative", op: mul, a: value.String("ab"), b: value.Integer(-1), errCode: rerrors.EConversion},
		{name: "multiply negative", op: mul, a: value.Integer(-3), b: value.Integer(4), want: value.Integer(-12)},
		{name: "multiply overflow", op: mul, a: value.Integer(math.MaxInt64), b: value.Integer(2), errCode: rerrors.EConversion},
		{name: "multiply min by minus one", op: mul, a: value.Integer(math.MinInt64), b: value.Integer(-1), errCode: rerrors.EConversion},
		{name: "repeat bytes zero", op: mul, a: value.String("ab"), b: value.Integer(0), want: value.String("")},
		{name: "repeat bytes too long", op: mul, a: value.String("ab"), b: value.Integer(1 << 62), errCode: rerrors.EConversion},
		{name: "divide integers yields float", op: div, a: value.Integer(7), b: value.Integer(2), want: value.Float(3.5)},
		{name: "divide by zero", op: div, a: value.Integer(1), b: value.Integer(0), errCode: rerrors.EConversion},
		{name: "remainder", op: rem, a: value.Integer(7), b: value.Integer(3), want: value.Integer(1)},
		{name: "remainder floats", op: rem, a: value.Float(7.5), b: value.Integer(2), want: value.Float(1.5)},
		{name: "remainder by zero", op: rem, a: value.Integer(7), b: value.Integer(0), errCode: rerrors.EConversion},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.op(tt.a, tt.b)
			if tt.errCode != "" {
				require.Error(t, err)
				assert.Equal(t, tt.errCode, rerrors.ErrorCode(err))
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestValue_Compare(t *testing.T) {
	early := value.Timestamp(time.Unix(0, 0))
	late := value.Timestamp(time.Unix(10, 0))

	cases := []struct {
		name string
		fn   func() (value.Value, error)
		want bool
	}{
		{name: "integer greater", fn: func() (value.Value, error) { return value.Integer(2).Greater(value.Integer(1)) }, want: true},
		{name: "mixed less", fn: func() (value.Value, error) { return value.Integer(1).Less(value.Float(1.5)) }, want: true},
		{name: "equal or greater", fn: func() (value.Value, error) { return value.Float(1).GreaterOrEqual(value.Integer(1)) }, want: true},
		{name: "bytes lexical", fn: func() (value.Value, error) { return value.String("b").LessOrEqual(value.String("a")) }, want: false},
		{name: "timestamps", fn: func() (value.Value, error) { return early.Less(late) }, want: true},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.fn()
			require.NoError(t, err)
			assert.True(t, value.Boolean(tt.want).Equal(got))
		})
	}

	_, err := value.String("a").Greater(value.Integer(1))
	assert.Equal(t, rerrors.ETypeMismatch, rerrors.ErrorCode(err))

	_, err = value.Null.Less(value.Null)
	assert.Equal(t, "expected bytes, integer, float or timestamp, got null", err.Error())
}
