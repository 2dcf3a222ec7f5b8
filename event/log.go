// Package event provides Log, a map-backed remap.Object, together with
// decoders turning JSON documents and line protocol metrics into events.
package event

import (
	"sort"

	"github.com/influxdata/remap"
	"github.com/influxdata/remap/kit/errors"
	"github.com/influxdata/remap/value"
)

var _ remap.Object = (*Log)(nil)

// Log is an event whose root is a map of fields.
type Log struct {
	fields map[string]value.Value
}

// NewLog returns an event holding fields. The event takes ownership of
// the map.
func NewLog(fields map[string]value.Value) *Log {
	if fields == nil {
		fields = make(map[string]value.Value)
	}
	return &Log{fields: fields}
}

// Value returns the event as a map value.
func (l *Log) Value() value.Value {
	return value.Map(l.fields)
}

// Clone returns a deep copy of the event.
func (l *Log) Clone() *Log {
	m, _ := l.Value().Clone().TryMap()
	return &Log{fields: m}
}

// MarshalJSON renders the event as a JSON object with sorted keys.
func (l *Log) MarshalJSON() ([]byte, error) {
	return l.Value().MarshalJSON()
}

func (l *Log) Get(path remap.Path) (value.Value, bool, error) {
	cur := l.Value()
	for _, seg := range path {
		if seg.IsIndex {
			arr, err := cur.TryArray()
			if err != nil || seg.Index >= len(arr) {
				return value.Null, false, nil
			}
			cur = arr[seg.Index]
			continue
		}
		m, err := cur.TryMap()
		if err != nil {
			return value.Null, false, nil
		}
		v, ok := m[seg.Field]
		if !ok {
			return value.Null, false, nil
		}
		cur = v
	}
	return cur, true, nil
}

// Insert stores v at path. Missing or scalar intermediate values are
// replaced by maps or arrays as the path requires; arrays are padded
// with nulls up to the addressed index.
func (l *Log) Insert(path remap.Path, v value.Value) error {
	if path.IsRoot() {
		m, err := v.TryMap()
		if err != nil {
			return &errors.Error{
				Code: errors.ETypeMismatch,
				Msg:  "event root must be a map",
				Err:  err,
			}
		}
		l.fields = m
		return nil
	}
	root := insertAt(l.Value(), path, v)
	l.fields, _ = root.TryMap()
	return nil
}

func insertAt(cur value.Value, path remap.Path, v value.Value) value.Value {
	if len(path) == 0 {
		return v
	}
	seg := path[0]
	if seg.IsIndex {
		arr, err := cur.TryArray()
		if err != nil {
			arr = nil
		}
		for len(arr) <= seg.Index {
			arr = append(arr, value.Null)
		}
		arr[seg.Index] = insertAt(arr[seg.Index], path[1:], v)
		return value.Array(arr)
	}
	m, err := cur.TryMap()
	if err != nil {
		m = make(map[string]value.Value)
	}
	m[seg.Field] = insertAt(m[seg.Field], path[1:], v)
	return value.Map(m)
}

// Remove deletes the value at path. Removing an array element shifts the
// following elements down. With compact set, maps and arrays emptied by
// the removal are removed too. Removing the root clears the event.
func (l *Log) Remove(path remap.Path, compact bool) error {
	if path.IsRoot() {
		l.fields = make(map[string]value.Value)
		return nil
	}
	root, _ := removeAt(l.Value(), path, compact)
	l.fields, _ = root.TryMap()
	return nil
}

// removeAt returns cur without the value at path, and whether cur is now
// an empty container.
func removeAt(cur value.Value, path remap.Path, compact bool) (value.Value, bool) {
	seg := path[0]
	if seg.IsIndex {
		arr, err := cur.TryArray()
		if err != nil || seg.Index >= len(arr) {
			return cur, false
		}
		if len(path) == 1 {
			arr = append(arr[:seg.Index], arr[seg.Index+1:]...)
		} else {
			child, empty := removeAt(arr[seg.Index], path[1:], compact)
			if empty && compact {
				arr = append(arr[:seg.Index], arr[seg.Index+1:]...)
			} else {
				arr[seg.Index] = child
			}
		}
		return value.Array(arr), len(arr) == 0
	}

	m, err := cur.TryMap()
	if err != nil {
		return cur, false
	}
	child, ok := m[seg.Field]
	if !ok {
		return cur, false
	}
	if len(path) == 1 {
		delete(m, seg.Field)
	} else {
		child, empty := removeAt(child, path[1:], compact)
		if empty && compact {
			delete(m, seg.Field)
		} else {
			m[seg.Field] = child
		}
	}
	return value.Map(m), len(m) == 0
}

// Paths returns the path of every leaf of the event in lexical order.
// Empty maps and arrays are leaves.
func (l *Log) Paths() ([]remap.Path, error) {
	var paths []remap.Path
	walk(l.Value(), remap.Root, func(p remap.Path) {
		paths = append(paths, p)
	})
	return paths, nil
}

func walk(v value.Value, prefix remap.Path, fn func(remap.Path)) {
	switch v.Kind() {
	case value.KindMap:
		m, _ := v.TryMap()
		if len(m) == 0 && !prefix.IsRoot() {
			fn(prefix)
			return
		}
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			walk(m[k], prefix.Append(remap.FieldSegment(k)), fn)
		}
	case value.KindArray:
		arr, _ := v.TryArray()
		if len(arr) == 0 {
			fn(prefix)
			return
		}
		for i, e := range arr {
			walk(e, prefix.Append(remap.IndexSegment(i)), fn)
		}
	default:
		fn(prefix)
	}
}
