package remap_test

import (
	"testing"

	"github.com/influxdata/remap"
	"github.com/influxdata/remap/value"
	"github.com/stretchr/testify/assert"
)

func TestTypeDef_FallibleUnless(t *testing.T) {
	tests := []struct {
		name string
		td   remap.TypeDef
		kind value.Kind
		want bool
	}{
		{
			name: "exact match",
			td:   remap.TypeDef{Kind: value.KindBytes},
			kind: value.KindBytes,
		},
		{
			name: "subset",
			td:   remap.TypeDef{Kind: value.KindInteger},
			kind: value.KindNumeric,
		},
		{
			name: "outside",
			td:   remap.TypeDef{Kind: value.KindInteger},
			kind: value.KindBytes,
			want: true,
		},
		{
			name: "partial overlap",
			td:   remap.TypeDef{Kind: value.KindBytes | value.KindNull},
			kind: value.KindBytes,
			want: true,
		},
		{
			name: "empty kind",
			td:   remap.TypeDef{},
			kind: value.KindBytes,
			want: true,
		},
		{
			name: "already fallible",
			td:   remap.TypeDef{Fallible: true, Kind: value.KindBytes},
			kind: value.KindBytes,
			want: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.td.FallibleUnless(tt.kind)
			assert.Equal(t, tt.want, got.Fallible)
			assert.Equal(t, tt.td.Kind, got.Kind)
		})
	}
}

func TestTypeDef_Composition(t *testing.T) {
	td := remap.TypeDef{Kind: value.KindArray}

	assert.True(t, td.IntoFallible(true).Fallible)
	assert.False(t, td.IntoFallible(true).IntoFallible(false).Fallible)
	assert.True(t, td.IntoOptional(true).Optional)
	assert.Equal(t, value.KindBytes, td.WithConstraint(value.KindBytes).Kind)

	merged := td.Merge(remap.TypeDef{Fallible: true, Kind: value.KindNull})
	assert.Equal(t, remap.TypeDef{Fallible: true, Kind: value.KindArray | value.KindNull}, merged)
	assert.Equal(t, "fallible array or null", merged.String())

	assert.True(t, td.IsSubsetOf(merged))
	assert.False(t, merged.IsSubsetOf(td))
}
