package cli

import (
	"fmt"

	"github.com/spf13/pflag"
	"go.uber.org/zap/zapcore"
)

// levelValue is a pflag.Value storing a zapcore.Level.
type levelValue zapcore.Level

func newLevelValue(val zapcore.Level, p *zapcore.Level) *levelValue {
	*p = val
	return (*levelValue)(p)
}

func (l *levelValue) String() string {
	return zapcore.Level(*l).String()
}

func (l *levelValue) Set(s string) error {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return fmt.Errorf("unknown log level %q; supported levels are debug, info, warn, error", s)
	}
	*l = levelValue(level)
	return nil
}

func (l *levelValue) Type() string {
	return "Log-Level"
}

// LevelVar defines a zapcore.Level flag with specified name, default value, and usage string.
// The argument p points to a zapcore.Level variable in which to store the value of the flag.
func LevelVar(fs *pflag.FlagSet, p *zapcore.Level, name string, value zapcore.Level, usage string) {
	fs.Var(newLevelValue(value, p), name, usage)
}
