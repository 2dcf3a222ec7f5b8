// Command remap compiles remap programs and runs them over events.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/benbjohnson/clock"
	"github.com/influxdata/remap/kit/cli"
	"github.com/influxdata/remap/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const envPrefix = "remap"

var envKeyReplacer = strings.NewReplacer("-", "_")

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cmd, err := newRootCommand(ctx, clock.New(), os.Stdin, os.Stdout, os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// app holds the state shared by every subcommand.
type app struct {
	ctx    context.Context
	clock  clock.Clock
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	root   *viper.Viper
	vipers []*viper.Viper
	log    *zap.Logger
}

func newRootCommand(ctx context.Context, clk clock.Clock, stdin io.Reader, stdout, stderr io.Writer) (*cobra.Command, error) {
	a := &app{
		ctx:    ctx,
		clock:  clk,
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
		root:   viper.New(),
		log:    zap.NewNop(),
	}

	cmd := &cobra.Command{
		Use:               "remap",
		Short:             "Compile and run event remapping programs",
		SilenceUsage:      true,
		PersistentPreRunE: func(*cobra.Command, []string) error { return a.setup() },
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	var (
		configPath string
		logFormat  string
		logLevel   zapcore.Level
	)
	flags := cmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "path to a TOML configuration file")
	flags.StringVar(&logFormat, "log-format", "auto", "log format: auto, console, json or logfmt")
	cli.LevelVar(flags, &logLevel, "log-level", zapcore.InfoLevel, "log level: debug, info, warn or error")
	for _, name := range []string{"config", "log-format", "log-level"} {
		if err := a.root.BindPFlag(name, flags.Lookup(name)); err != nil {
			return nil, err
		}
	}
	a.root.SetEnvPrefix(envPrefix)
	a.root.AutomaticEnv()
	a.root.SetEnvKeyReplacer(envKeyReplacer)

	check, err := a.newCheckCommand()
	if err != nil {
		return nil, err
	}
	run, err := a.newRunCommand()
	if err != nil {
		return nil, err
	}
	cmd.AddCommand(check, run)
	return cmd, nil
}

// newViper returns the viper instance of one subcommand.
func (a *app) newViper() *viper.Viper {
	v := viper.New()
	a.vipers = append(a.vipers, v)
	return v
}

// setup applies the config file and builds the logger. It runs after
// flags are parsed and before any subcommand.
func (a *app) setup() error {
	c := NewConfig()
	if path := a.root.GetString("config"); path != "" {
		var err error
		if c, err = LoadConfig(path); err != nil {
			return err
		}
		for k, val := range c.defaults() {
			a.root.SetDefault(k, val)
			for _, v := range a.vipers {
				v.SetDefault(k, val)
			}
		}
	}

	lc := logger.NewConfig()
	lc.Format = a.root.GetString("log-format")
	if err := lc.Level.UnmarshalText([]byte(a.root.GetString("log-level"))); err != nil {
		return err
	}
	log, err := lc.New(a.stderr)
	if err != nil {
		return err
	}
	a.log = log
	a.ctx = logger.WithLogger(a.ctx, log)
	return nil
}
