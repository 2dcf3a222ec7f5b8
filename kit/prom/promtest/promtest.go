// Package promtest provides helpers for extracting prometheus metrics in
// tests.
package promtest

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
)

// FromText parses metrics written in the prometheus text exposition
// format. Families are returned sorted by name.
func FromText(r io.Reader) ([]*dto.MetricFamily, error) {
	var parser expfmt.TextParser
	byName, err := parser.TextToMetricFamilies(r)
	if err != nil {
		return nil, err
	}
	mfs := make([]*dto.MetricFamily, 0, len(byName))
	for _, mf := range byName {
		mfs = append(mfs, mf)
	}
	sort.Slice(mfs, func(i, j int) bool { return mfs[i].GetName() < mfs[j].GetName() })
	return mfs, nil
}

// FindMetric returns the first metric of the family name whose labels are
// exactly labels, or nil.
func FindMetric(mfs []*dto.MetricFamily, name string, labels map[string]string) *dto.Metric {
	_, m := findMetric(mfs, name, labels)
	return m
}

// MustFindMetric is like FindMetric, but fails tb, listing what was
// available, when nothing matches.
func MustFindMetric(tb testing.TB, mfs []*dto.MetricFamily, name string, labels map[string]string) *dto.Metric {
	tb.Helper()

	fam, m := findMetric(mfs, name, labels)
	if fam == nil {
		names := make([]string, len(mfs))
		for i, mf := range mfs {
			names[i] = mf.GetName()
		}
		tb.Fatalf("metric family %q not found; available: %s", name, strings.Join(names, ", "))
		return nil
	}
	if m == nil {
		var sets []string
		for _, m := range fam.Metric {
			pairs := make([]string, len(m.Label))
			for i, l := range m.Label {
				pairs[i] = fmt.Sprintf("%s=%q", l.GetName(), l.GetValue())
			}
			sets = append(sets, "{"+strings.Join(pairs, ", ")+"}")
		}
		tb.Fatalf("metric %q with labels %v not found; available: %s", name, labels, strings.Join(sets, " "))
		return nil
	}
	return m
}

func findMetric(mfs []*dto.MetricFamily, name string, labels map[string]string) (*dto.MetricFamily, *dto.Metric) {
	for _, mf := range mfs {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.Metric {
			if matches(m, labels) {
				return mf, m
			}
		}
		return mf, nil
	}
	return nil, nil
}

func matches(m *dto.Metric, labels map[string]string) bool {
	if len(m.Label) != len(labels) {
		return false
	}
	for _, l := range m.Label {
		if v, ok := labels[l.GetName()]; !ok || v != l.GetValue() {
			return false
		}
	}
	return true
}

// MustGather gathers g, failing tb on error.
func MustGather(tb testing.TB, g prometheus.Gatherer) []*dto.MetricFamily {
	tb.Helper()

	mfs, err := g.Gather()
	if err != nil {
		tb.Fatalf("error while gathering metrics: %v", err)
		return nil
	}
	return mfs
}
