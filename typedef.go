package remap

import (
	"strings"

	"github.com/influxdata/remap/value"
)

// TypeDef describes, at compile time, what an expression may evaluate to.
//
// Fallible reports whether Execute can return an error. Optional reports
// whether the expression may produce no value (null) for a present event.
// Kind is the set of value variants the expression may produce.
//
// Type definitions are sound but conservative: a TypeDef may claim an
// expression is fallible when it never fails, but never the reverse.
type TypeDef struct {
	Fallible bool
	Optional bool
	Kind     value.Kind
}

// IntoFallible sets the fallibility of t.
func (t TypeDef) IntoFallible(fallible bool) TypeDef {
	t.Fallible = fallible
	return t
}

// IntoOptional sets the optionality of t.
func (t TypeDef) IntoOptional(optional bool) TypeDef {
	t.Optional = optional
	return t
}

// FallibleUnless marks t fallible unless its kind is a non-empty subset
// of kind. An already fallible definition stays fallible.
func (t TypeDef) FallibleUnless(kind value.Kind) TypeDef {
	if t.Kind.IsEmpty() || !t.Kind.IsSubsetOf(kind) {
		t.Fallible = true
	}
	return t
}

// WithConstraint pins the kind of t.
func (t TypeDef) WithConstraint(kind value.Kind) TypeDef {
	t.Kind = kind
	return t
}

// Merge returns a definition covering both t and other: kinds are unioned,
// fallibility and optionality are combined.
func (t TypeDef) Merge(other TypeDef) TypeDef {
	return TypeDef{
		Fallible: t.Fallible || other.Fallible,
		Optional: t.Optional || other.Optional,
		Kind:     t.Kind.Union(other.Kind),
	}
}

// IsSubsetOf reports whether every value described by t is also
// described by other.
func (t TypeDef) IsSubsetOf(other TypeDef) bool {
	if t.Fallible && !other.Fallible {
		return false
	}
	if t.Optional && !other.Optional {
		return false
	}
	return t.Kind.IsSubsetOf(other.Kind)
}

func (t TypeDef) String() string {
	var b strings.Builder
	if t.Fallible {
		b.WriteString("fallible ")
	}
	if t.Optional {
		b.WriteString("optional ")
	}
	b.WriteString(t.Kind.String())
	return b.String()
}
