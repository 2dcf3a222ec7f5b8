// Package value implements the runtime values of the remap language.
//
// A Value is a tagged union over bytes, integers, floats, booleans,
// timestamps, arrays, maps, null and regular expressions. Values form a
// tree: a Value owns every byte buffer and nested collection it holds,
// so sharing and cycles cannot occur.
//
// Narrowing accessors (TryBytes, TryArray, ...) never panic. When the
// runtime variant does not match they return a *errors.TypeMismatchError
// naming the expected and the actual kind.
package value

import (
	"bytes"
	"regexp"
	"time"
	"unicode/utf8"

	"github.com/influxdata/remap/kit/errors"
	"golang.org/x/text/encoding/unicode"
)

// Value is a single remap value. The zero Value is Null.
type Value struct {
	kind Kind
	data interface{}
}

// Null is the null value.
var Null = Value{kind: KindNull}

// Bytes returns a bytes value. The value takes ownership of b.
func Bytes(b []byte) Value {
	if b == nil {
		b = []byte{}
	}
	return Value{kind: KindBytes, data: b}
}

// String returns a bytes value holding s.
func String(s string) Value {
	return Value{kind: KindBytes, data: []byte(s)}
}

// Integer returns an integer value.
func Integer(i int64) Value {
	return Value{kind: KindInteger, data: i}
}

// Float returns a float value.
func Float(f float64) Value {
	return Value{kind: KindFloat, data: f}
}

// Boolean returns a boolean value.
func Boolean(b bool) Value {
	return Value{kind: KindBoolean, data: b}
}

// Timestamp returns a timestamp value; t is converted to UTC.
func Timestamp(t time.Time) Value {
	return Value{kind: KindTimestamp, data: t.UTC()}
}

// Array returns an array value. The value takes ownership of vs.
func Array(vs []Value) Value {
	if vs == nil {
		vs = []Value{}
	}
	return Value{kind: KindArray, data: vs}
}

// Map returns a map value. The value takes ownership of m.
func Map(m map[string]Value) Value {
	if m == nil {
		m = map[string]Value{}
	}
	return Value{kind: KindMap, data: m}
}

// Regex returns a regex value.
func Regex(re *regexp.Regexp) Value {
	if re == nil {
		return Null
	}
	return Value{kind: KindRegex, data: re}
}

// Kind returns the variant of v.
func (v Value) Kind() Kind {
	if v.kind == 0 {
		return KindNull
	}
	return v.kind
}

// IsNull reports whether v is null.
func (v Value) IsNull() bool {
	return v.Kind() == KindNull
}

func (v Value) mismatch(expected Kind) error {
	return &errors.TypeMismatchError{
		Expected: expected.String(),
		Got:      v.Kind().String(),
	}
}

// TryBytes returns the byte string held by v.
func (v Value) TryBytes() ([]byte, error) {
	if v.kind != KindBytes {
		return nil, v.mismatch(KindBytes)
	}
	return v.data.([]byte), nil
}

var utf8Decoder = unicode.UTF8.NewDecoder()

// TryBytesUTF8Lossy returns the byte string held by v as a string.
// Invalid UTF-8 sequences are replaced with U+FFFD, so the returned
// text may differ from the stored bytes.
func (v Value) TryBytesUTF8Lossy() (string, error) {
	b, err := v.TryBytes()
	if err != nil {
		return "", err
	}
	return lossy(b), nil
}

func lossy(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	out, err := utf8Decoder.Bytes(b)
	if err != nil {
		return string(bytes.ToValidUTF8(b, []byte("�")))
	}
	return string(out)
}

// TryInteger returns the integer held by v.
func (v Value) TryInteger() (int64, error) {
	if v.kind != KindInteger {
		return 0, v.mismatch(KindInteger)
	}
	return v.data.(int64), nil
}

// TryFloat returns the float held by v.
func (v Value) TryFloat() (float64, error) {
	if v.kind != KindFloat {
		return 0, v.mismatch(KindFloat)
	}
	return v.data.(float64), nil
}

// TryNumber returns the integer or float held by v as a float.
func (v Value) TryNumber() (float64, error) {
	switch v.kind {
	case KindInteger:
		return float64(v.data.(int64)), nil
	case KindFloat:
		return v.data.(float64), nil
	}
	return 0, v.mismatch(KindNumeric)
}

// TryBoolean returns the boolean held by v.
func (v Value) TryBoolean() (bool, error) {
	if v.kind != KindBoolean {
		return false, v.mismatch(KindBoolean)
	}
	return v.data.(bool), nil
}

// TryTimestamp returns the instant held by v.
func (v Value) TryTimestamp() (time.Time, error) {
	if v.kind != KindTimestamp {
		return time.Time{}, v.mismatch(KindTimestamp)
	}
	return v.data.(time.Time), nil
}

// TryArray returns the elements held by v.
func (v Value) TryArray() ([]Value, error) {
	if v.kind != KindArray {
		return nil, v.mismatch(KindArray)
	}
	return v.data.([]Value), nil
}

// TryMap returns the entries held by v.
func (v Value) TryMap() (map[string]Value, error) {
	if v.kind != KindMap {
		return nil, v.mismatch(KindMap)
	}
	return v.data.(map[string]Value), nil
}

// TryRegex returns the regular expression held by v.
func (v Value) TryRegex() (*regexp.Regexp, error) {
	if v.kind != KindRegex {
		return nil, v.mismatch(KindRegex)
	}
	return v.data.(*regexp.Regexp), nil
}

// Clone returns a deep copy of v.
func (v Value) Clone() Value {
	switch v.kind {
	case KindBytes:
		b := v.data.([]byte)
		return Bytes(append(make([]byte, 0, len(b)), b...))
	case KindArray:
		vs := v.data.([]Value)
		out := make([]Value, len(vs))
		for i := range vs {
			out[i] = vs[i].Clone()
		}
		return Array(out)
	case KindMap:
		m := v.data.(map[string]Value)
		out := make(map[string]Value, len(m))
		for k, e := range m {
			out[k] = e.Clone()
		}
		return Map(out)
	}
	return v
}

// Equal reports whether v and o hold the same variant and payload.
// Integers and floats are never equal to each other.
func (v Value) Equal(o Value) bool {
	if v.Kind() != o.Kind() {
		return false
	}
	switch v.Kind() {
	case KindNull:
		return true
	case KindBytes:
		return bytes.Equal(v.data.([]byte), o.data.([]byte))
	case KindInteger:
		return v.data.(int64) == o.data.(int64)
	case KindFloat:
		return v.data.(float64) == o.data.(float64)
	case KindBoolean:
		return v.data.(bool) == o.data.(bool)
	case KindTimestamp:
		return v.data.(time.Time).Equal(o.data.(time.Time))
	case KindRegex:
		return v.data.(*regexp.Regexp).String() == o.data.(*regexp.Regexp).String()
	case KindArray:
		a, b := v.data.([]Value), o.data.([]Value)
		if len(a) != len(b) {
			return false
		}
		for i := range a {
			if !a[i].Equal(b[i]) {
				return false
			}
		}
		return true
	case KindMap:
		a, b := v.data.(map[string]Value), o.data.(map[string]Value)
		if len(a) != len(b) {
			return false
		}
		for k, av := range a {
			bv, ok := b[k]
			if !ok || !av.Equal(bv) {
				return false
			}
		}
		return true
	}
	return false
}

// String returns the JSON rendering of v.
func (v Value) String() string {
	b, err := v.MarshalJSON()
	if err != nil {
		return "<" + v.Kind().String() + ">"
	}
	return string(b)
}
