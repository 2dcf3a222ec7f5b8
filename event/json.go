package event

import (
	"github.com/buger/jsonparser"
	"github.com/influxdata/remap/kit/errors"
	"github.com/influxdata/remap/value"
)

// FromJSON decodes a JSON object into an event. Numbers without a
// fraction or exponent that fit an int64 become integers, every other
// number becomes a float.
func FromJSON(data []byte) (*Log, error) {
	raw, typ, _, err := jsonparser.Get(data)
	if err != nil {
		return nil, &errors.Error{Code: errors.EParse, Msg: "invalid JSON event", Err: err}
	}
	if typ != jsonparser.Object {
		return nil, &errors.Error{
			Code: errors.EParse,
			Msg:  "invalid JSON event",
			Err:  &errors.TypeMismatchError{Expected: "object", Got: typ.String()},
		}
	}
	v, err := decodeJSON(raw, typ)
	if err != nil {
		return nil, &errors.Error{Code: errors.EParse, Msg: "invalid JSON event", Err: err}
	}
	m, _ := v.TryMap()
	return NewLog(m), nil
}

func decodeJSON(raw []byte, typ jsonparser.ValueType) (value.Value, error) {
	switch typ {
	case jsonparser.String:
		s, err := jsonparser.ParseString(raw)
		if err != nil {
			return value.Null, err
		}
		return value.String(s), nil
	case jsonparser.Number:
		if i, err := jsonparser.ParseInt(raw); err == nil {
			return value.Integer(i), nil
		}
		f, err := jsonparser.ParseFloat(raw)
		if err != nil {
			return value.Null, err
		}
		return value.Float(f), nil
	case jsonparser.Boolean:
		b, err := jsonparser.ParseBoolean(raw)
		if err != nil {
			return value.Null, err
		}
		return value.Boolean(b), nil
	case jsonparser.Null:
		return value.Null, nil
	case jsonparser.Array:
		vs := []value.Value{}
		var inner error
		_, err := jsonparser.ArrayEach(raw, func(elem []byte, typ jsonparser.ValueType, _ int, err error) {
			if inner != nil {
				return
			}
			if err != nil {
				inner = err
				return
			}
			v, err := decodeJSON(elem, typ)
			if err != nil {
				inner = err
				return
			}
			vs = append(vs, v)
		})
		if err == nil {
			err = inner
		}
		if err != nil {
			return value.Null, err
		}
		return value.Array(vs), nil
	case jsonparser.Object:
		m := make(map[string]value.Value)
		err := jsonparser.ObjectEach(raw, func(key, elem []byte, typ jsonparser.ValueType, _ int) error {
			k, err := jsonparser.ParseString(key)
			if err != nil {
				return err
			}
			v, err := decodeJSON(elem, typ)
			if err != nil {
				return err
			}
			m[k] = v
			return nil
		})
		if err != nil {
			return value.Null, err
		}
		return value.Map(m), nil
	}
	return value.Null, &errors.ConversionError{Detail: "unsupported JSON value " + string(raw)}
}
