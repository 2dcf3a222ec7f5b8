package event

import (
	"time"

	protocol "github.com/influxdata/line-protocol"
	"github.com/influxdata/remap/kit/errors"
	"github.com/influxdata/remap/value"
)

// Field names of events decoded from line protocol.
const (
	NameField      = "name"
	TagsField      = "tags"
	FieldsField    = "fields"
	TimestampField = "timestamp"
)

// FromLineProtocol decodes every metric in data into an event of the form
// {name, tags, fields, timestamp}. Metrics without a timestamp are
// stamped with now.
func FromLineProtocol(data []byte, now func() time.Time) ([]*Log, error) {
	h := protocol.NewMetricHandler()
	if now != nil {
		h.SetTimeFunc(protocol.TimeFunc(now))
	}
	metrics, err := protocol.NewParser(h).Parse(data)
	if err != nil {
		return nil, &errors.Error{Code: errors.EParse, Msg: "invalid line protocol", Err: err}
	}

	logs := make([]*Log, 0, len(metrics))
	for _, m := range metrics {
		l, err := fromMetric(m)
		if err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, nil
}

func fromMetric(m protocol.Metric) (*Log, error) {
	tags := make(map[string]value.Value, len(m.TagList()))
	for _, t := range m.TagList() {
		tags[t.Key] = value.String(t.Value)
	}
	fields := make(map[string]value.Value, len(m.FieldList()))
	for _, f := range m.FieldList() {
		v, err := value.FromInterface(f.Value)
		if err != nil {
			return nil, &errors.Error{
				Code: errors.EConversion,
				Msg:  "invalid field " + f.Key + " of metric " + m.Name(),
				Err:  err,
			}
		}
		fields[f.Key] = v
	}
	return NewLog(map[string]value.Value{
		NameField:      value.String(m.Name()),
		TagsField:      value.Map(tags),
		FieldsField:    value.Map(fields),
		TimestampField: value.Timestamp(m.Time().UTC()),
	}), nil
}
