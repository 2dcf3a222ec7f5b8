package compiler_test

import (
	"testing"

	"github.com/influxdata/remap"
	"github.com/influxdata/remap/ast"
	"github.com/influxdata/remap/compiler"
	"github.com/influxdata/remap/event"
	"github.com/influxdata/remap/kit/errors"
	"github.com/influxdata/remap/mock"
	"github.com/influxdata/remap/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func mustParse(t *testing.T, src string) ast.Node {
	t.Helper()
	n, err := ast.Parse(ast.EncodingYAML, ast.FromString(src))
	require.NoError(t, err)
	return n
}

func TestCompile_Execute(t *testing.T) {
	prog, err := compiler.Compile(mustParse(t, `
- assign:
    target: .log
    value:
      call: parse_common_log
      args: {value: {path: .message}}
- assign:
    target: .host
    value: {path: .log.host}
- assign:
    target: $status
    value: {path: .log.status}
- assign:
    target: .summary
    value:
      call: join
      args:
        - {array: [{path: .host}, {path: .log.method}]}
        - " "
- if:
    cond: {binary: {op: ">=", lhs: {var: status}, rhs: 500}}
    then: {assign: {target: .failed, value: true}}
    else: {assign: {target: .failed, value: false}}
`), compiler.WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, err)

	ev := event.NewLog(map[string]value.Value{
		"message": value.String(`127.0.0.1 bob frank [10/Oct/2000:13:55:36 -0700] "GET /apache_pb.gif HTTP/1.0" 503 2326`),
	})
	_, err = prog.Execute(ev)
	require.NoError(t, err)

	get := func(path string) value.Value {
		v, ok, err := ev.Get(remap.MustParsePath(path))
		require.NoError(t, err)
		require.True(t, ok, path)
		return v
	}
	assert.Equal(t, value.String("127.0.0.1"), get(".host"))
	assert.Equal(t, value.String("127.0.0.1 GET"), get(".summary"))
	assert.Equal(t, value.Boolean(true), get(".failed"))
	assert.Equal(t, value.Integer(503), get(".log.status"))

	// variables are not written to the event
	_, ok, err := ev.Get(remap.MustParsePath(".status"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCompile_TypeDef(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want remap.TypeDef
	}{
		{
			name: "literal",
			src:  `"foo"`,
			want: remap.TypeDef{Kind: value.KindBytes},
		},
		{
			name: "empty block",
			src:  `[]`,
			want: remap.TypeDef{Optional: true, Kind: value.KindNull},
		},
		{
			name: "infallible call",
			src:  `{call: parse_common_log, args: [foo]}`,
			want: remap.TypeDef{Kind: value.KindMap},
		},
		{
			name: "call on a path",
			src:  `{call: parse_common_log, args: [{path: .message}]}`,
			want: remap.TypeDef{Fallible: true, Kind: value.KindMap},
		},
		{
			name: "variable keeps its assigned type",
			src: `
- assign: {target: $x, value: 1}
- {var: x}
`,
			want: remap.TypeDef{Kind: value.KindInteger},
		},
		{
			name: "reassigned variable merges",
			src: `
- assign: {target: $x, value: 1}
- assign: {target: $x, value: two}
- {var: x}
`,
			want: remap.TypeDef{Kind: value.KindInteger | value.KindBytes},
		},
		{
			name: "variable assigned in one branch may be null",
			src: `
- if: {cond: false, then: {assign: {target: $x, value: "- - - - - - -"}}}
- {call: parse_common_log, args: [{var: x}]}
`,
			want: remap.TypeDef{Fallible: true, Kind: value.KindMap},
		},
		{
			name: "variable assigned in both branches",
			src: `
- if:
    cond: {path: .ok}
    then: {assign: {target: $x, value: "- - - - - - -"}}
    else: {assign: {target: $x, value: "- - - - - - -"}}
- {call: parse_common_log, args: [{var: x}]}
`,
			want: remap.TypeDef{Kind: value.KindMap},
		},
		{
			name: "variable assigned before a conditional",
			src: `
- assign: {target: $x, value: "- - - - - - -"}
- if: {cond: false, then: {assign: {target: $x, value: "- - - - - - -"}}}
- {call: parse_common_log, args: [{var: x}]}
`,
			want: remap.TypeDef{Kind: value.KindMap},
		},
		{
			name: "variable read before it is assigned",
			src: `
- assign: {target: $y, value: {var: x}}
- assign: {target: $x, value: 1}
- {var: x}
`,
			want: remap.TypeDef{Optional: true, Kind: value.KindInteger | value.KindNull},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog, err := compiler.Compile(mustParse(t, tt.src))
			require.NoError(t, err)
			assert.Equal(t, tt.want, prog.TypeDef())
		})
	}
}

func TestCompile_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		errs []string
	}{
		{
			name: "undefined function",
			src:  `{call: nope}`,
			errs: []string{`undefined function "nope"`},
		},
		{
			name: "too many arguments",
			src:  `{call: join, args: [{array: []}, ",", x]}`,
			errs: []string{`join: too many arguments: expected at most 2, got 3`},
		},
		{
			name: "unknown keyword",
			src:  `{call: join, args: {value: {array: []}, sep: ","}}`,
			errs: []string{`join: unknown keyword "sep"`},
		},
		{
			name: "missing required argument",
			src:  `{call: join, args: {separator: ","}}`,
			errs: []string{`join: missing required argument "value"`},
		},
		{
			name: "static argument type",
			src:  `{call: join, args: [1]}`,
			errs: []string{`join: invalid argument type for "value": expected array, got integer`},
		},
		{
			name: "non literal format",
			src:  `{call: parse_common_log, args: {value: x, timestamp_format: {path: .fmt}}}`,
			errs: []string{`parse_common_log: argument "timestamp_format" must be a literal`},
		},
		{
			name: "every error is reported",
			src: `
- {path: "foo"}
- {regex: "("}
- {timestamp: "yesterday"}
- {binary: {op: "<>", lhs: 1, rhs: 2}}
`,
			errs: []string{
				`invalid path "foo": must start with '.'`,
				"invalid regex \"(\": error parsing regexp: missing closing ): `(`",
				`invalid timestamp "yesterday": parsing time "yesterday" as "2006-01-02T15:04:05.999999999Z07:00": cannot parse "yesterday" as "2006"`,
				`unknown operator "<>"`,
			},
		},
		{
			name: "errors inside arguments of unknown functions",
			src:  `{call: nope, args: [{path: "x"}]}`,
			errs: []string{
				`invalid path "x": must start with '.'`,
				`undefined function "nope"`,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog, err := compiler.Compile(mustParse(t, tt.src))
			require.Error(t, err)
			assert.Nil(t, prog)
			assert.Equal(t, errors.ECompile, errors.ErrorCode(err))

			var msgs []string
			for _, e := range compiler.Errors(err) {
				msgs = append(msgs, e.Error())
			}
			assert.Equal(t, tt.errs, msgs)
		})
	}
}

func TestCompile_Accepts(t *testing.T) {
	_, err := compiler.Compile(mustParse(t, `{call: join, args: [{path: .list}]}`),
		compiler.WithAccepts(remap.TypeDef{Kind: value.KindBytes}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "program may fail at runtime, but must be infallible")

	_, err = compiler.Compile(mustParse(t, `1`),
		compiler.WithAccepts(remap.TypeDef{Kind: value.KindBytes}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "program may resolve to integer, but only bytes is accepted")

	_, err = compiler.Compile(mustParse(t, `{call: join, args: [{path: .list}]}`),
		compiler.WithAccepts(remap.TypeDef{Fallible: true, Kind: value.KindBytes}))
	assert.NoError(t, err)
}

func TestCompile_ConditionalAssignment(t *testing.T) {
	src := `
- if: {cond: false, then: {assign: {target: $x, value: "- - - - - - -"}}}
- {call: parse_common_log, args: [{var: x}]}
`
	_, err := compiler.Compile(mustParse(t, src),
		compiler.WithAccepts(remap.TypeDef{Kind: value.KindMap}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "program may fail at runtime, but must be infallible")

	prog, err := compiler.Compile(mustParse(t, src))
	require.NoError(t, err)
	_, err = prog.Execute(event.NewLog(nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid argument type for "value": expected bytes, got null`)
}

func TestCompile_Registry(t *testing.T) {
	fn := mock.NewFunction("ident", remap.Parameter{Keyword: "value", Kind: value.KindAll, Required: true})
	r, err := remap.NewRegistry(fn)
	require.NoError(t, err)

	prog, err := compiler.Compile(mustParse(t, `{call: ident, args: [42]}`), compiler.WithRegistry(r))
	require.NoError(t, err)

	v, err := prog.Execute(event.NewLog(nil))
	require.NoError(t, err)
	assert.Equal(t, value.Integer(42), v)

	_, err = compiler.Compile(mustParse(t, `{call: join, args: [{array: []}]}`), compiler.WithRegistry(r))
	assert.Contains(t, err.Error(), `undefined function "join"`)
}

func TestProgram_Clone(t *testing.T) {
	prog, err := compiler.Compile(mustParse(t, `
- assign: {target: $n, value: {binary: {op: "+", lhs: {path: .n}, rhs: 1}}}
- assign: {target: .n, value: {var: n}}
`))
	require.NoError(t, err)
	clone := prog.Clone()
	assert.Equal(t, prog.TypeDef(), clone.TypeDef())

	for _, p := range []*compiler.Program{prog, clone} {
		ev := event.NewLog(map[string]value.Value{"n": value.Integer(1)})
		state := remap.NewProgramState()
		_, err := p.ExecuteWithState(state, ev)
		require.NoError(t, err)

		v, ok := state.Variable("n")
		require.True(t, ok)
		assert.Equal(t, value.Integer(2), v)
	}
}
