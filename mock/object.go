package mock

import (
	"github.com/influxdata/remap"
	"github.com/influxdata/remap/value"
)

var _ remap.Object = (*Object)(nil)

// Object is a remap.Object whose behavior is supplied by the test.
type Object struct {
	GetFn    func(path remap.Path) (value.Value, bool, error)
	InsertFn func(path remap.Path, v value.Value) error
	RemoveFn func(path remap.Path, compact bool) error
	PathsFn  func() ([]remap.Path, error)
}

// NewObject returns an object that holds nothing and accepts every write.
func NewObject() *Object {
	return &Object{
		GetFn:    func(remap.Path) (value.Value, bool, error) { return value.Null, false, nil },
		InsertFn: func(remap.Path, value.Value) error { return nil },
		RemoveFn: func(remap.Path, bool) error { return nil },
		PathsFn:  func() ([]remap.Path, error) { return nil, nil },
	}
}

func (o *Object) Get(path remap.Path) (value.Value, bool, error) {
	return o.GetFn(path)
}

func (o *Object) Insert(path remap.Path, v value.Value) error {
	return o.InsertFn(path, v)
}

func (o *Object) Remove(path remap.Path, compact bool) error {
	return o.RemoveFn(path, compact)
}

func (o *Object) Paths() ([]remap.Path, error) {
	return o.PathsFn()
}
