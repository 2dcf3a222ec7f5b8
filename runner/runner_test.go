package runner_test

import (
	"context"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/influxdata/remap"
	"github.com/influxdata/remap/ast"
	"github.com/influxdata/remap/compiler"
	"github.com/influxdata/remap/event"
	"github.com/influxdata/remap/kit/prom/promtest"
	"github.com/influxdata/remap/runner"
	"github.com/influxdata/remap/value"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// doubled sets .double to .n * 2, failing for events without a number.
const doubled = `
- assign:
    target: $n
    value: {path: .n}
- assign:
    target: .double
    value: {binary: {op: "*", lhs: {var: n}, rhs: 2}}
`

func newProgram(t *testing.T, src string) *compiler.Program {
	t.Helper()
	n, err := ast.Parse(ast.EncodingYAML, ast.FromString(src))
	require.NoError(t, err)
	prog, err := compiler.Compile(n)
	require.NoError(t, err)
	return prog
}

func run(t *testing.T, r *runner.Runner, events []*event.Log) []runner.Result {
	t.Helper()
	in := make(chan *event.Log)
	out := make(chan runner.Result, len(events))
	go func() {
		defer close(in)
		for _, ev := range events {
			in <- ev
		}
	}()
	require.NoError(t, r.Run(context.Background(), in, out))
	close(out)

	var results []runner.Result
	for res := range out {
		results = append(results, res)
	}
	return results
}

func TestRunner_Run(t *testing.T) {
	r := runner.New(newProgram(t, doubled),
		runner.WithWorkers(4),
		runner.WithLogger(zaptest.NewLogger(t)))

	var events []*event.Log
	for i := 0; i < 20; i++ {
		events = append(events, event.NewLog(map[string]value.Value{"n": value.Integer(int64(i))}))
	}
	events = append(events, event.NewLog(map[string]value.Value{"n": value.Boolean(true)}))

	results := run(t, r, events)
	require.Len(t, results, len(events))

	var failed int
	for _, res := range results {
		if res.Err != nil {
			failed++
			continue
		}
		n, _, err := res.Event.Get(remap.NewPath("n"))
		require.NoError(t, err)
		d, _, err := res.Event.Get(remap.NewPath("double"))
		require.NoError(t, err)
		assert.Equal(t, value.Integer(n.Interface().(int64)*2), d)
	}
	assert.Equal(t, 1, failed)

	m := r.Metrics()
	assert.Equal(t, float64(20), testutil.ToFloat64(m.Events.WithLabelValues(runner.LabelSuccess)))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.Events.WithLabelValues(runner.LabelError)))

	reg := prometheus.NewRegistry()
	reg.MustRegister(m.PrometheusCollectors()...)
	assert.Equal(t, 4, testutil.CollectAndCount(reg,
		"remap_runner_events_total", "remap_runner_execute_duration_seconds"))
}

func TestRunner_PartitionKeyKeepsOrder(t *testing.T) {
	r := runner.New(newProgram(t, doubled),
		runner.WithWorkers(3),
		runner.WithPartitionKey(remap.NewPath("key")))

	keys := []string{"a", "b", "c", "d"}
	var events []*event.Log
	for i := 0; i < 100; i++ {
		events = append(events, event.NewLog(map[string]value.Value{
			"key": value.String(keys[i%len(keys)]),
			"n":   value.Integer(int64(i)),
		}))
	}

	last := make(map[string]int64)
	for _, res := range run(t, r, events) {
		require.NoError(t, res.Err)
		k, _, _ := res.Event.Get(remap.NewPath("key"))
		n, _, _ := res.Event.Get(remap.NewPath("n"))
		key, i := k.String(), n.Interface().(int64)
		if prev, ok := last[key]; ok {
			assert.Greater(t, i, prev, "key %s out of order", key)
		}
		last[key] = i
	}
	assert.Len(t, last, len(keys))
}

func TestRunner_Canceled(t *testing.T) {
	r := runner.New(newProgram(t, doubled), runner.WithWorkers(2))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := r.Run(ctx, make(chan *event.Log), make(chan runner.Result))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunner_Clock(t *testing.T) {
	mock := clock.NewMock()
	mock.Set(time.Date(2000, 10, 10, 20, 55, 36, 0, time.UTC))
	r := runner.New(newProgram(t, doubled), runner.WithClock(mock))

	results := run(t, r, []*event.Log{event.NewLog(map[string]value.Value{"n": value.Integer(2)})})
	require.Len(t, results, 1)
	require.NoError(t, results[0].Err)

	// a stopped clock measures no time
	reg := prometheus.NewRegistry()
	reg.MustRegister(r.Metrics().PrometheusCollectors()...)
	mfs := promtest.MustGather(t, reg)
	h := promtest.MustFindMetric(t, mfs, "remap_runner_execute_duration_seconds",
		map[string]string{"result": runner.LabelSuccess}).GetHistogram()
	assert.Equal(t, uint64(1), h.GetSampleCount())
	assert.Equal(t, float64(0), h.GetSampleSum())
}
