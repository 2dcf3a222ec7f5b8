package logger

import (
	"fmt"
	"io"
	"time"

	isatty "github.com/mattn/go-isatty"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// TimeFormat is the layout of log timestamps.
const TimeFormat = "2006-01-02T15:04:05.000000Z07:00"

// New returns a logger writing to w as configured by c.
func (c Config) New(w io.Writer) (*zap.Logger, error) {
	enc, err := c.encoder(w)
	if err != nil {
		return nil, err
	}
	return zap.New(zapcore.NewCore(enc, zapcore.Lock(zapcore.AddSync(w)), c.Level)), nil
}

// New returns a debug level console logger writing to w.
func New(w io.Writer) *zap.Logger {
	return zap.New(zapcore.NewCore(
		zapcore.NewConsoleEncoder(newEncoderConfig()),
		zapcore.Lock(zapcore.AddSync(w)),
		zapcore.DebugLevel,
	))
}

// newEncoderConfig logs UTC timestamps, durations in milliseconds and
// the level under "lvl".
func newEncoderConfig() zapcore.EncoderConfig {
	ec := zap.NewProductionEncoderConfig()
	ec.LevelKey = "lvl"
	ec.EncodeTime = func(ts time.Time, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(ts.UTC().Format(TimeFormat))
	}
	ec.EncodeDuration = func(d time.Duration, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(fmt.Sprintf("%.3fms", float64(d)/float64(time.Millisecond)))
	}
	return ec
}

// IsTerminal reports whether w is a file attached to a terminal.
func IsTerminal(w io.Writer) bool {
	if f, ok := w.(interface{ Fd() uintptr }); ok {
		return isatty.IsTerminal(f.Fd())
	}
	return false
}
