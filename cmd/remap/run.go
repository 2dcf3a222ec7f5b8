package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"runtime"
	"time"

	humanize "github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/influxdata/remap"
	"github.com/influxdata/remap/event"
	"github.com/influxdata/remap/kit/cli"
	"github.com/influxdata/remap/kit/prom"
	"github.com/influxdata/remap/logger"
	"github.com/influxdata/remap/runner"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type runFlags struct {
	program      string
	input        string
	inputFormat  string
	workers      int
	partitionKey string
	metricsFile  string
}

func (a *app) newRunCommand() (*cobra.Command, error) {
	var flags runFlags
	return cli.NewCommand(a.newViper(), &cli.Program{
		Name:      "run",
		Short:     "Run a program over events and write the results as NDJSON",
		EnvPrefix: envPrefix,
		Opts: []cli.Opt{
			{DestP: &flags.program, Flag: "program", Desc: "path to the program, YAML or JSON", Required: true},
			{DestP: &flags.input, Flag: "input", Desc: "path to the events, stdin when empty"},
			{DestP: &flags.inputFormat, Flag: "input-format", Default: "json", Desc: "event format: json (one object per line) or lp (line protocol)"},
			{DestP: &flags.workers, Flag: "workers", Default: runtime.GOMAXPROCS(0), Desc: "number of concurrent workers"},
			{DestP: &flags.partitionKey, Flag: "partition-key", Desc: "path whose value keeps events in order, e.g. .host"},
			{DestP: &flags.metricsFile, Flag: "metrics-file", Desc: "write runner metrics in prometheus text format to this file on exit"},
		},
		Run: func() error {
			return a.run(a.ctx, flags)
		},
	})
}

type summary struct {
	events  int64
	failed  int64
	invalid int64
	bytes   uint64
}

func (a *app) run(ctx context.Context, flags runFlags) error {
	prog, err := a.compile(flags.program)
	if err != nil {
		return err
	}

	ctx = logger.WithFields(ctx, zap.String("run_id", uuid.NewString()))
	log := logger.FromContext(ctx)
	opts := []runner.Option{
		runner.WithWorkers(flags.workers),
		runner.WithClock(a.clock),
		runner.WithLogger(log),
	}
	if flags.partitionKey != "" {
		p, err := remap.ParsePath(flags.partitionKey)
		if err != nil {
			return errors.Wrap(err, "invalid partition key")
		}
		opts = append(opts, runner.WithPartitionKey(p))
	}
	r := runner.New(prog, opts...)

	var in io.Reader = a.stdin
	if flags.input != "" {
		f, err := os.Open(flags.input)
		if err != nil {
			return errors.Wrap(err, "failed opening input")
		}
		defer f.Close()
		in = f
	}

	var sum summary
	start := a.clock.Now()

	events := make(chan *event.Log)
	results := make(chan runner.Result)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(events)
		return a.decode(ctx, log, flags.inputFormat, in, events, &sum)
	})
	g.Go(func() error {
		defer close(results)
		return r.Run(ctx, events, results)
	})
	g.Go(func() error {
		return a.write(log, results, &sum)
	})
	if err := g.Wait(); err != nil {
		return err
	}

	if flags.metricsFile != "" {
		if err := writeMetrics(log, flags.metricsFile, r.Metrics()); err != nil {
			return err
		}
	}

	took := a.clock.Now().Sub(start)
	log.Info("Run finished",
		zap.String("program", flags.program),
		zap.String("events", humanize.Comma(sum.events)),
		zap.String("failed", humanize.Comma(sum.failed)),
		zap.String("invalid", humanize.Comma(sum.invalid)),
		zap.String("read", humanize.Bytes(sum.bytes)),
		zap.String("rate", rate(sum.events, took)),
		zap.Duration("took", took))
	return nil
}

func writeMetrics(log *zap.Logger, path string, cs ...prom.PrometheusCollector) error {
	reg := prom.NewRegistry(log)
	reg.MustRegisterCollectors(cs...)

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "failed creating metrics file")
	}
	if err := reg.WriteText(f); err != nil {
		f.Close()
		return errors.Wrap(err, "failed writing metrics")
	}
	return errors.Wrap(f.Close(), "failed writing metrics")
}

func rate(n int64, took time.Duration) string {
	if took <= 0 {
		return "n/a"
	}
	return humanize.SIWithDigits(float64(n)/took.Seconds(), 2, "events/s")
}

func (a *app) decode(ctx context.Context, log *zap.Logger, format string, r io.Reader, out chan<- *event.Log, sum *summary) error {
	send := func(ev *event.Log) error {
		select {
		case out <- ev:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	switch format {
	case "json":
		sc := bufio.NewScanner(r)
		sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
		for line := 1; sc.Scan(); line++ {
			b := sc.Bytes()
			sum.bytes += uint64(len(b)) + 1
			if len(bytes.TrimSpace(b)) == 0 {
				continue
			}
			ev, err := event.FromJSON(b)
			if err != nil {
				sum.invalid++
				log.Warn("Skipping invalid event", zap.Int("line", line), zap.Error(err))
				continue
			}
			if err := send(ev); err != nil {
				return err
			}
		}
		return errors.Wrap(sc.Err(), "failed reading input")
	case "lp":
		data, err := io.ReadAll(r)
		if err != nil {
			return errors.Wrap(err, "failed reading input")
		}
		sum.bytes = uint64(len(data))
		evs, err := event.FromLineProtocol(data, a.clock.Now)
		if err != nil {
			return err
		}
		for _, ev := range evs {
			if err := send(ev); err != nil {
				return err
			}
		}
		return nil
	}
	return errors.Errorf("unknown input format %q", format)
}

func (a *app) write(log *zap.Logger, results <-chan runner.Result, sum *summary) error {
	w := bufio.NewWriter(a.stdout)
	enc := json.NewEncoder(w)
	for res := range results {
		sum.events++
		if res.Err != nil {
			sum.failed++
			log.Warn("Event failed", zap.Error(res.Err))
			continue
		}
		if err := enc.Encode(res.Event); err != nil {
			return errors.Wrap(err, "failed writing event")
		}
	}
	return errors.Wrap(w.Flush(), "failed writing output")
}
