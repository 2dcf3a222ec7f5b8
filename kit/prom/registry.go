// Package prom wraps a prometheus registry for components exposing their
// metrics through PrometheusCollectors.
package prom

import (
	"io"
	"sort"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"go.uber.org/zap"
)

// PrometheusCollector is implemented by components that report metrics.
type PrometheusCollector interface {
	PrometheusCollectors() []prometheus.Collector
}

// Registry is a prometheus registry that logs gathering errors.
type Registry struct {
	*prometheus.Registry

	log *zap.Logger
}

// NewRegistry returns an empty registry.
func NewRegistry(log *zap.Logger) *Registry {
	return &Registry{
		Registry: prometheus.NewRegistry(),
		log:      log,
	}
}

// MustRegisterCollectors registers the collectors of every component and
// panics if any of them is already registered.
func (r *Registry) MustRegisterCollectors(cs ...PrometheusCollector) {
	for _, c := range cs {
		r.MustRegister(c.PrometheusCollectors()...)
	}
}

// WriteText writes every gathered metric family to w in the prometheus
// text exposition format. Families that fail to gather are logged and
// skipped.
func (r *Registry) WriteText(w io.Writer) error {
	mfs, err := r.Gather()
	if err != nil {
		r.log.Warn("Error gathering metrics", zap.Error(err))
	}
	sort.Slice(mfs, func(i, j int) bool { return mfs[i].GetName() < mfs[j].GetName() })
	for _, mf := range mfs {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
