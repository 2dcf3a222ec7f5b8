package value

import (
	"fmt"
	"regexp"
	"time"

	"github.com/influxdata/remap/kit/errors"
)

// FromInterface converts a native Go value into a Value.
//
// Supported are nil, Value, string, []byte, every signed and unsigned
// integer width, float32/float64, bool, time.Time, *regexp.Regexp,
// []Value, []interface{}, []string, map[string]Value and
// map[string]interface{}. Unsigned integers above math.MaxInt64 and any
// other Go type return a *errors.ConversionError.
func FromInterface(v interface{}) (Value, error) {
	switch v := v.(type) {
	case nil:
		return Null, nil
	case Value:
		return v, nil
	case string:
		return String(v), nil
	case []byte:
		return Bytes(v), nil
	case int:
		return Integer(int64(v)), nil
	case int8:
		return Integer(int64(v)), nil
	case int16:
		return Integer(int64(v)), nil
	case int32:
		return Integer(int64(v)), nil
	case int64:
		return Integer(v), nil
	case uint:
		return fromUint(uint64(v))
	case uint8:
		return Integer(int64(v)), nil
	case uint16:
		return Integer(int64(v)), nil
	case uint32:
		return Integer(int64(v)), nil
	case uint64:
		return fromUint(v)
	case float32:
		return Float(float64(v)), nil
	case float64:
		return Float(v), nil
	case bool:
		return Boolean(v), nil
	case time.Time:
		return Timestamp(v), nil
	case *regexp.Regexp:
		return Regex(v), nil
	case []Value:
		return Array(v), nil
	case []string:
		vs := make([]Value, len(v))
		for i, s := range v {
			vs[i] = String(s)
		}
		return Array(vs), nil
	case []interface{}:
		vs := make([]Value, len(v))
		for i, e := range v {
			ev, err := FromInterface(e)
			if err != nil {
				return Null, err
			}
			vs[i] = ev
		}
		return Array(vs), nil
	case map[string]Value:
		return Map(v), nil
	case map[string]interface{}:
		m := make(map[string]Value, len(v))
		for k, e := range v {
			ev, err := FromInterface(e)
			if err != nil {
				return Null, err
			}
			m[k] = ev
		}
		return Map(m), nil
	}
	return Null, &errors.ConversionError{
		Detail: fmt.Sprintf("unable to convert %T into a value", v),
	}
}

func fromUint(u uint64) (Value, error) {
	if u > 1<<63-1 {
		return Null, &errors.ConversionError{
			Detail: fmt.Sprintf("unsigned integer %d overflows a 64-bit signed integer", u),
		}
	}
	return Integer(int64(u)), nil
}

// Interface returns the native Go form of v: string for bytes (lossy),
// int64, float64, bool, time.Time, []interface{}, map[string]interface{},
// *regexp.Regexp or nil.
func (v Value) Interface() interface{} {
	switch v.kind {
	case KindBytes:
		return lossy(v.data.([]byte))
	case KindArray:
		vs := v.data.([]Value)
		out := make([]interface{}, len(vs))
		for i := range vs {
			out[i] = vs[i].Interface()
		}
		return out
	case KindMap:
		m := v.data.(map[string]Value)
		out := make(map[string]interface{}, len(m))
		for k, e := range m {
			out[k] = e.Interface()
		}
		return out
	case KindInteger, KindFloat, KindBoolean, KindTimestamp, KindRegex:
		return v.data
	}
	return nil
}
