package functions

import (
	"fmt"
	"regexp"
	"strconv"
	"sync"

	"github.com/influxdata/remap"
	"github.com/influxdata/remap/kit/errors"
	"github.com/influxdata/remap/pkg/strftime"
	"github.com/influxdata/remap/value"
)

// DefaultCommonLogTimestampFormat is the timestamp layout of the common
// log format, e.g. 10/Oct/2000:13:55:36 -0700.
const DefaultCommonLogTimestampFormat = "%d/%b/%Y:%T %z"

// The grammar of a common log line, following the W3C and Apache httpd
// descriptions of the format. Each field may be replaced by `-`.
const commonLogPattern = `^\s*` +
	`(-|(?P<host>.*?))\s+` +
	`(-|(?P<identity>.*?))\s+` +
	`(-|(?P<user>.*?))\s+` +
	`(-|\[(-|(?P<timestamp>[^\[]*))\])\s+` +
	`(-|"(-|(\s*` +
	`(?P<message>(` +
	`(?P<method>\w+)\s+` +
	`(?P<path>[\s\S]*?)\s+` +
	`(?P<protocol>[\s\S]*?)\s*` +
	`|[\s\S]*?))\s*))"` +
	`)\s+` +
	`(-|(?P<status>\d+))\s+` +
	`(-|(?P<size>\d+))` +
	`\s*`

var (
	commonLogRegexp     *regexp.Regexp
	commonLogRegexpOnce sync.Once
)

func commonLogGrammar() *regexp.Regexp {
	commonLogRegexpOnce.Do(func() {
		commonLogRegexp = regexp.MustCompile(commonLogPattern)
	})
	return commonLogRegexp
}

// ParseCommonLog parses a line in the common log format into a map of
// its fields. Fields written as `-` are left out of the result.
//
//	parse_common_log(value: bytes, timestamp_format: literal bytes = "%d/%b/%Y:%T %z")
type ParseCommonLog struct{}

func (ParseCommonLog) Identifier() string { return "parse_common_log" }

func (ParseCommonLog) Parameters() []remap.Parameter {
	return []remap.Parameter{
		{Keyword: "value", Kind: value.KindBytes, Required: true},
		{Keyword: "timestamp_format", Kind: value.KindBytes},
	}
}

func (ParseCommonLog) Compile(args *remap.ArgumentList) (remap.Expression, error) {
	v, err := args.Required("value")
	if err != nil {
		return nil, err
	}
	format := DefaultCommonLogTimestampFormat
	lit, ok, err := args.OptionalLiteral("timestamp_format")
	if err != nil {
		return nil, err
	}
	if ok {
		if format, err = lit.TryBytesUTF8Lossy(); err != nil {
			return nil, err
		}
	}
	return &parseCommonLogFn{value: v, timestampFormat: format}, nil
}

type parseCommonLogFn struct {
	value           remap.Expression
	timestampFormat string
}

// Fields in the order they appear in a line.
var commonLogFields = []string{
	"host", "identity", "user", "timestamp", "message", "method", "path", "protocol", "status", "size",
}

func (fn *parseCommonLogFn) Execute(state *remap.ProgramState, obj remap.Object) (value.Value, error) {
	v, err := fn.value.Execute(state, obj)
	if err != nil {
		return value.Null, err
	}
	line, err := v.TryBytesUTF8Lossy()
	if err != nil {
		return value.Null, err
	}

	re := commonLogGrammar()
	loc := re.FindStringSubmatchIndex(line)
	if loc == nil {
		return value.Null, &errors.GrammarMismatchError{Grammar: "common log line"}
	}

	out := make(map[string]value.Value)
	for _, field := range commonLogFields {
		i := re.SubexpIndex(field)
		if loc[2*i] < 0 {
			continue
		}
		raw := line[loc[2*i]:loc[2*i+1]]

		switch field {
		case "timestamp":
			ts, err := strftime.Parse(raw, fn.timestampFormat)
			if err != nil {
				return value.Null, &errors.ParseError{
					Field: field,
					Raw:   raw,
					Msg:   fmt.Sprintf("failed parsing timestamp %s using format %s", raw, fn.timestampFormat),
					Cause: err,
				}
			}
			out[field] = value.Timestamp(ts)
		case "status", "size":
			n, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				msg := "failed parsing status code"
				if field == "size" {
					msg = "failed parsing content length"
				}
				return value.Null, &errors.ParseError{Field: field, Raw: raw, Msg: msg}
			}
			out[field] = value.Integer(n)
		default:
			out[field] = value.String(raw)
		}
	}
	return value.Map(out), nil
}

func (fn *parseCommonLogFn) TypeDef(state *remap.CompilerState) remap.TypeDef {
	return fn.value.TypeDef(state).
		FallibleUnless(value.KindBytes).
		IntoOptional(false).
		WithConstraint(value.KindMap)
}

func (fn *parseCommonLogFn) Clone() remap.Expression {
	return &parseCommonLogFn{value: fn.value.Clone(), timestampFormat: fn.timestampFormat}
}
