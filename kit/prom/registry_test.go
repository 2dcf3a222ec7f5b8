package prom_test

import (
	"bytes"
	"testing"

	"github.com/influxdata/remap/kit/prom"
	"github.com/influxdata/remap/kit/prom/promtest"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type component struct {
	requests *prometheus.CounterVec
}

func (c *component) PrometheusCollectors() []prometheus.Collector {
	return []prometheus.Collector{c.requests}
}

func TestRegistry_WriteText(t *testing.T) {
	c := &component{requests: prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "test_requests_total",
		Help: "Count of requests",
	}, []string{"result"})}
	c.requests.WithLabelValues("success").Add(3)

	reg := prom.NewRegistry(zaptest.NewLogger(t))
	reg.MustRegisterCollectors(c)
	assert.Panics(t, func() { reg.MustRegisterCollectors(c) })

	var buf bytes.Buffer
	require.NoError(t, reg.WriteText(&buf))
	assert.Contains(t, buf.String(), `test_requests_total{result="success"} 3`)

	mfs, err := promtest.FromText(&buf)
	require.NoError(t, err)
	m := promtest.MustFindMetric(t, mfs, "test_requests_total", map[string]string{"result": "success"})
	assert.Equal(t, float64(3), m.GetCounter().GetValue())
	assert.Nil(t, promtest.FindMetric(mfs, "test_requests_total", map[string]string{"result": "error"}))
	assert.Nil(t, promtest.FindMetric(mfs, "missing", nil))

	assert.Len(t, promtest.MustGather(t, reg), 1)
}
