package logger

import (
	"fmt"
	"io"

	zaplogfmt "github.com/jsternberg/zap-logfmt"
	"go.uber.org/zap/zapcore"
)

// Log formats accepted by Config.
const (
	FormatAuto    = "auto"
	FormatConsole = "console"
	FormatJSON    = "json"
	FormatLogfmt  = "logfmt"
)

// Config selects the encoding and verbosity of the process logger.
//
// Auto picks the console encoder when writing to a terminal and logfmt
// otherwise.
type Config struct {
	Format string        `toml:"format"`
	Level  zapcore.Level `toml:"level"`
}

// NewConfig returns the logging defaults of the remap command.
func NewConfig() Config {
	return Config{
		Format: FormatAuto,
		Level:  zapcore.InfoLevel,
	}
}

// formatFor resolves the auto format against the destination w.
func (c Config) formatFor(w io.Writer) string {
	if c.Format != "" && c.Format != FormatAuto {
		return c.Format
	}
	if IsTerminal(w) {
		return FormatConsole
	}
	return FormatLogfmt
}

func (c Config) encoder(w io.Writer) (zapcore.Encoder, error) {
	ec := newEncoderConfig()
	switch f := c.formatFor(w); f {
	case FormatJSON:
		return zapcore.NewJSONEncoder(ec), nil
	case FormatConsole:
		return zapcore.NewConsoleEncoder(ec), nil
	case FormatLogfmt:
		return zaplogfmt.NewEncoder(ec), nil
	default:
		return nil, fmt.Errorf("unknown logging format: %s", f)
	}
}
