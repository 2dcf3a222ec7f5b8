package value

import (
	"bytes"
	"math"
	"strings"
	"time"

	"github.com/influxdata/remap/kit/errors"
)

var (
	errDivideByZero = &errors.ConversionError{Detail: "can't divide by zero"}
	errOverflow     = &errors.ConversionError{Detail: "integer overflow"}
	errRepeatLength = &errors.ConversionError{Detail: "repeated bytes would be too long"}
)

// numbers returns both operands as floats, and whether both are integers.
func numbers(a, b Value) (x, y float64, ints bool, err error) {
	if x, err = a.TryNumber(); err != nil {
		return 0, 0, false, err
	}
	if y, err = b.TryNumber(); err != nil {
		return 0, 0, false, err
	}
	return x, y, a.kind == KindInteger && b.kind == KindInteger, nil
}

// Add concatenates two byte strings or adds two numbers. Adding two
// integers yields an integer, any float operand yields a float.
func (v Value) Add(o Value) (Value, error) {
	switch v.kind {
	case KindBytes:
		rhs, err := o.TryBytes()
		if err != nil {
			return Null, err
		}
		lhs := v.data.([]byte)
		out := make([]byte, 0, len(lhs)+len(rhs))
		return Bytes(append(append(out, lhs...), rhs...)), nil
	case KindInteger, KindFloat:
		x, y, ints, err := numbers(v, o)
		if err != nil {
			return Null, err
		}
		if ints {
			a, b := v.data.(int64), o.data.(int64)
			sum := a + b
			if (sum > a) != (b > 0) {
				return Null, errOverflow
			}
			return Integer(sum), nil
		}
		return Float(x + y), nil
	}
	return Null, v.mismatch(KindBytes | KindNumeric)
}

// Subtract subtracts o from v.
func (v Value) Subtract(o Value) (Value, error) {
	x, y, ints, err := numbers(v, o)
	if err != nil {
		return Null, err
	}
	if ints {
		a, b := v.data.(int64), o.data.(int64)
		diff := a - b
		if (diff < a) != (b > 0) {
			return Null, errOverflow
		}
		return Integer(diff), nil
	}
	return Float(x - y), nil
}

// Multiply multiplies two numbers, or repeats a byte string o times.
func (v Value) Multiply(o Value) (Value, error) {
	if v.kind == KindBytes {
		n, err := o.TryInteger()
		if err != nil {
			return Null, err
		}
		if n < 0 {
			return Null, &errors.ConversionError{Detail: "can't repeat bytes a negative number of times"}
		}
		b := v.data.([]byte)
		if n > 0 && int64(len(b)) > int64(math.MaxInt)/n {
			return Null, errRepeatLength
		}
		return String(strings.Repeat(string(b), int(n))), nil
	}
	x, y, ints, err := numbers(v, o)
	if err != nil {
		return Null, err
	}
	if ints {
		a, b := v.data.(int64), o.data.(int64)
		if mulOverflows(a, b) {
			return Null, errOverflow
		}
		return Integer(a * b), nil
	}
	return Float(x * y), nil
}

func mulOverflows(a, b int64) bool {
	if a == 0 || b == 0 {
		return false
	}
	if (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
		return true
	}
	return (a*b)/b != a
}

// Divide divides v by o. The result is always a float.
func (v Value) Divide(o Value) (Value, error) {
	x, y, _, err := numbers(v, o)
	if err != nil {
		return Null, err
	}
	if y == 0 {
		return Null, errDivideByZero
	}
	return Float(x / y), nil
}

// Remainder returns the remainder of dividing v by o.
func (v Value) Remainder(o Value) (Value, error) {
	x, y, ints, err := numbers(v, o)
	if err != nil {
		return Null, err
	}
	if y == 0 {
		return Null, errDivideByZero
	}
	if ints {
		return Integer(v.data.(int64) % o.data.(int64)), nil
	}
	return Float(math.Mod(x, y)), nil
}

// compare orders two numbers, two byte strings or two timestamps.
func (v Value) compare(o Value) (int, error) {
	switch v.kind {
	case KindInteger, KindFloat:
		if v.kind == KindInteger && o.kind == KindInteger {
			a, b := v.data.(int64), o.data.(int64)
			switch {
			case a < b:
				return -1, nil
			case a > b:
				return 1, nil
			}
			return 0, nil
		}
		x, y, _, err := numbers(v, o)
		if err != nil {
			return 0, err
		}
		switch {
		case x < y:
			return -1, nil
		case x > y:
			return 1, nil
		}
		return 0, nil
	case KindBytes:
		rhs, err := o.TryBytes()
		if err != nil {
			return 0, err
		}
		return bytes.Compare(v.data.([]byte), rhs), nil
	case KindTimestamp:
		rhs, err := o.TryTimestamp()
		if err != nil {
			return 0, err
		}
		return v.data.(time.Time).Compare(rhs), nil
	}
	return 0, v.mismatch(KindBytes | KindNumeric | KindTimestamp)
}

// Greater reports whether v > o.
func (v Value) Greater(o Value) (Value, error) {
	c, err := v.compare(o)
	return Boolean(c > 0), err
}

// GreaterOrEqual reports whether v >= o.
func (v Value) GreaterOrEqual(o Value) (Value, error) {
	c, err := v.compare(o)
	return Boolean(c >= 0), err
}

// Less reports whether v < o.
func (v Value) Less(o Value) (Value, error) {
	c, err := v.compare(o)
	return Boolean(c < 0), err
}

// LessOrEqual reports whether v <= o.
func (v Value) LessOrEqual(o Value) (Value, error) {
	c, err := v.compare(o)
	return Boolean(c <= 0), err
}
