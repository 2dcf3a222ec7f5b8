// Package runner executes a compiled program over a stream of events on
// a pool of workers.
//
// Each worker owns a clone of the program. When a partition key is set,
// events sharing the key are handled by the same worker, so their results
// are emitted in input order.
package runner

import (
	"context"

	"github.com/benbjohnson/clock"
	"github.com/cespare/xxhash/v2"
	"github.com/influxdata/remap"
	"github.com/influxdata/remap/compiler"
	"github.com/influxdata/remap/event"
	"github.com/influxdata/remap/value"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Result is the outcome of executing the program against one event.
// Event holds the event as modified by the program, even when Err is set.
type Result struct {
	Event *event.Log
	Value value.Value
	Err   error
}

// Runner executes one program concurrently.
type Runner struct {
	prog         *compiler.Program
	workers      int
	partitionKey remap.Path
	metrics      *Metrics
	clock        clock.Clock
	log          *zap.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithWorkers sets the number of workers. Values below one mean one.
func WithWorkers(n int) Option {
	return func(r *Runner) {
		if n < 1 {
			n = 1
		}
		r.workers = n
	}
}

// WithPartitionKey routes events by the value found at p.
func WithPartitionKey(p remap.Path) Option {
	return func(r *Runner) {
		r.partitionKey = p
	}
}

// WithMetrics reports executions to m.
func WithMetrics(m *Metrics) Option {
	return func(r *Runner) {
		r.metrics = m
	}
}

// WithClock sets the clock execution times are measured with.
func WithClock(c clock.Clock) Option {
	return func(r *Runner) {
		r.clock = c
	}
}

// WithLogger sets the logger.
func WithLogger(log *zap.Logger) Option {
	return func(r *Runner) {
		r.log = log
	}
}

// New returns a runner for prog.
func New(prog *compiler.Program, opts ...Option) *Runner {
	r := &Runner{
		prog:    prog,
		workers: 1,
		metrics: NewMetrics(),
		clock:   clock.New(),
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Metrics returns the metrics the runner reports to.
func (r *Runner) Metrics() *Metrics {
	return r.metrics
}

// Run executes the program against every event read from in and sends
// one Result per event to out. It returns once in is closed and every
// result has been sent, or when ctx is done. Run does not close out.
func (r *Runner) Run(ctx context.Context, in <-chan *event.Log, out chan<- Result) error {
	g, ctx := errgroup.WithContext(ctx)

	shards := make([]chan *event.Log, r.workers)
	for i := range shards {
		shards[i] = make(chan *event.Log)
		w := &worker{
			id:      i,
			prog:    r.prog.Clone(),
			state:   remap.NewProgramState(),
			metrics: r.metrics,
			clock:   r.clock,
			log:     r.log,
		}
		shard := shards[i]
		g.Go(func() error {
			return w.run(ctx, shard, out)
		})
	}

	g.Go(func() error {
		defer func() {
			for _, s := range shards {
				close(s)
			}
		}()

		var next int
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case ev, ok := <-in:
				if !ok {
					return nil
				}
				i := next
				if r.partitionKey != nil {
					i = r.shard(ev)
				} else {
					next = (next + 1) % len(shards)
				}
				select {
				case shards[i] <- ev:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		}
	})

	r.log.Debug("Runner started", zap.Int("workers", r.workers), zap.Stringer("partition_key", r.partitionKey))
	return g.Wait()
}

// shard picks the worker for ev. Events missing the key, or whose key
// cannot be read, share a worker.
func (r *Runner) shard(ev *event.Log) int {
	var key string
	if v, ok, err := ev.Get(r.partitionKey); err == nil && ok {
		key = v.String()
	}
	return int(xxhash.Sum64String(key) % uint64(r.workers))
}

type worker struct {
	id      int
	prog    *compiler.Program
	state   *remap.ProgramState
	metrics *Metrics
	clock   clock.Clock
	log     *zap.Logger
}

func (w *worker) run(ctx context.Context, in <-chan *event.Log, out chan<- Result) error {
	for ev := range in {
		res := w.execute(ev)
		select {
		case out <- res:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func (w *worker) execute(ev *event.Log) Result {
	w.state.Reset()
	start := w.clock.Now()
	v, err := w.prog.ExecuteWithState(w.state, ev)
	took := w.clock.Now().Sub(start)

	result := LabelSuccess
	if err != nil {
		result = LabelError
		w.log.Debug("Event failed", zap.Int("worker", w.id), zap.Error(err))
	}
	w.metrics.observe(result, took.Seconds())
	return Result{Event: ev, Value: v, Err: err}
}
