package event_test

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/influxdata/remap"
	"github.com/influxdata/remap/event"
	"github.com/influxdata/remap/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustJSON(t *testing.T, s string) *event.Log {
	t.Helper()
	l, err := event.FromJSON([]byte(s))
	require.NoError(t, err)
	return l
}

func TestLog_Get(t *testing.T) {
	l := mustJSON(t, `{"a": {"b": [1, {"c": "x"}]}, "n": null}`)

	tests := []struct {
		path string
		want value.Value
		ok   bool
	}{
		{path: ".a.b[0]", want: value.Integer(1), ok: true},
		{path: ".a.b[1].c", want: value.String("x"), ok: true},
		{path: ".n", want: value.Null, ok: true},
		{path: ".a.b[5]", want: value.Null},
		{path: ".a.missing", want: value.Null},
		{path: ".a.b.c", want: value.Null},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			v, ok, err := l.Get(remap.MustParsePath(tt.path))
			require.NoError(t, err)
			assert.Equal(t, tt.ok, ok)
			if diff := cmp.Diff(tt.want, v); diff != "" {
				t.Fatalf("unexpected value (-want/+got):\n%s", diff)
			}
		})
	}
}

func TestLog_Insert(t *testing.T) {
	l := event.NewLog(nil)
	require.NoError(t, l.Insert(remap.MustParsePath(".a.b"), value.Integer(1)))
	require.NoError(t, l.Insert(remap.MustParsePath(".list[2].x"), value.Boolean(true)))
	require.NoError(t, l.Insert(remap.MustParsePath(".a.b.c"), value.String("over")))

	b, err := l.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"a":{"b":{"c":"over"}},"list":[null,null,{"x":true}]}`, string(b))

	assert.Error(t, l.Insert(remap.Root, value.Integer(1)))
	require.NoError(t, l.Insert(remap.Root, value.Map(map[string]value.Value{"z": value.Null})))
	b, err = l.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"z":null}`, string(b))
}

func TestLog_Remove(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		compact bool
		want    string
	}{
		{name: "leaf", path: ".a.b", want: `{"a":{},"l":[1,2,3]}`},
		{name: "leaf compact", path: ".a.b", compact: true, want: `{"l":[1,2,3]}`},
		{name: "array element", path: ".l[1]", want: `{"a":{"b":1},"l":[1,3]}`},
		{name: "missing", path: ".x.y", want: `{"a":{"b":1},"l":[1,2,3]}`},
		{name: "root", path: ".", want: `{}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := mustJSON(t, `{"a": {"b": 1}, "l": [1, 2, 3]}`)
			require.NoError(t, l.Remove(remap.MustParsePath(tt.path), tt.compact))
			b, err := l.MarshalJSON()
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(b))
		})
	}
}

func TestLog_Paths(t *testing.T) {
	l := mustJSON(t, `{"b": [1, {}], "a": {"x": "y"}, "e": []}`)
	paths, err := l.Paths()
	require.NoError(t, err)

	got := make([]string, len(paths))
	for i, p := range paths {
		got[i] = p.String()
	}
	assert.Equal(t, []string{".a.x", ".b[0]", ".b[1]", ".e"}, got)
}

func TestLog_Clone(t *testing.T) {
	l := mustJSON(t, `{"a": {"b": 1}}`)
	c := l.Clone()
	require.NoError(t, c.Insert(remap.MustParsePath(".a.b"), value.Integer(2)))

	v, _, err := l.Get(remap.MustParsePath(".a.b"))
	require.NoError(t, err)
	assert.True(t, value.Integer(1).Equal(v))
}

func TestFromJSON(t *testing.T) {
	l := mustJSON(t, `{"s": "a\"bé", "i": 12, "f": 1.5, "e": 1e3, "t": true, "n": null, "o": {"k": []}}`)
	want := value.Map(map[string]value.Value{
		"s": value.String(`a"bé`),
		"i": value.Integer(12),
		"f": value.Float(1.5),
		"e": value.Float(1000),
		"t": value.Boolean(true),
		"n": value.Null,
		"o": value.Map(map[string]value.Value{"k": value.Array(nil)}),
	})
	if diff := cmp.Diff(want, l.Value()); diff != "" {
		t.Fatalf("unexpected event (-want/+got):\n%s", diff)
	}

	for _, in := range []string{`[1]`, `"s"`, `{"a": }`, ``} {
		_, err := event.FromJSON([]byte(in))
		assert.Error(t, err, in)
	}
}

func TestFromLineProtocol(t *testing.T) {
	now := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	logs, err := event.FromLineProtocol([]byte(
		"cpu,host=a usage=0.5,count=3i,ok=true,msg=\"hi\" 1000000000\nmem free=1i\n",
	), func() time.Time { return now })
	require.NoError(t, err)
	require.Len(t, logs, 2)

	want := value.Map(map[string]value.Value{
		event.NameField: value.String("cpu"),
		event.TagsField: value.Map(map[string]value.Value{"host": value.String("a")}),
		event.FieldsField: value.Map(map[string]value.Value{
			"usage": value.Float(0.5),
			"count": value.Integer(3),
			"ok":    value.Boolean(true),
			"msg":   value.String("hi"),
		}),
		event.TimestampField: value.Timestamp(time.Unix(1, 0)),
	})
	if diff := cmp.Diff(want, logs[0].Value()); diff != "" {
		t.Fatalf("unexpected event (-want/+got):\n%s", diff)
	}

	ts, ok, err := logs[1].Get(remap.NewPath(event.TimestampField))
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, value.Timestamp(now).Equal(ts))

	_, err = event.FromLineProtocol([]byte("cpu,host=a\n"), nil)
	assert.Error(t, err)
}
