package value

import (
	"bytes"
	"encoding/json"
	"math"
	"regexp"
	"sort"
	"strconv"
	"time"

	"github.com/influxdata/remap/kit/errors"
)

// MarshalJSON renders v as JSON. Bytes are written as (lossy) strings,
// timestamps as RFC 3339 strings with nanoseconds, regexes as their source
// pattern and map keys in lexical order.
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := v.writeJSON(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (v Value) writeJSON(buf *bytes.Buffer) error {
	switch v.Kind() {
	case KindNull:
		buf.WriteString("null")
	case KindBytes:
		return writeJSONString(buf, lossy(v.data.([]byte)))
	case KindInteger:
		buf.WriteString(strconv.FormatInt(v.data.(int64), 10))
	case KindFloat:
		f := v.data.(float64)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return &errors.ConversionError{Detail: "unsupported float value " + strconv.FormatFloat(f, 'g', -1, 64)}
		}
		buf.WriteString(strconv.FormatFloat(f, 'g', -1, 64))
	case KindBoolean:
		buf.WriteString(strconv.FormatBool(v.data.(bool)))
	case KindTimestamp:
		return writeJSONString(buf, v.data.(time.Time).Format(time.RFC3339Nano))
	case KindRegex:
		return writeJSONString(buf, v.data.(*regexp.Regexp).String())
	case KindArray:
		buf.WriteByte('[')
		for i, e := range v.data.([]Value) {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := e.writeJSON(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case KindMap:
		m := v.data.(map[string]Value)
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSONString(buf, k); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := m[k].writeJSON(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	}
	return nil
}

func writeJSONString(buf *bytes.Buffer, s string) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	// Encode terminates every document with a newline.
	buf.Truncate(buf.Len() - 1)
	return nil
}
