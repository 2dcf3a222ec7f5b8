package value

import "strings"

// Kind is a set of value variants. The zero Kind is the empty set; sets
// are ordered by inclusion, so a Kind also describes everything a
// compile-time expression may evaluate to.
type Kind uint16

const (
	// KindBytes means the value is a byte string.
	KindBytes Kind = 1 << iota
	// KindInteger means the value is a 64-bit signed integer.
	KindInteger
	// KindFloat means the value is a 64-bit float.
	KindFloat
	// KindBoolean means the value is a boolean.
	KindBoolean
	// KindTimestamp means the value is a UTC instant.
	KindTimestamp
	// KindArray means the value is an ordered sequence of values.
	KindArray
	// KindMap means the value maps string keys to values.
	KindMap
	// KindNull means the value is null.
	KindNull
	// KindRegex means the value is a compiled regular expression.
	KindRegex
)

// KindAll contains every variant.
const KindAll = KindBytes | KindInteger | KindFloat | KindBoolean | KindTimestamp |
	KindArray | KindMap | KindNull | KindRegex

// KindNumeric contains the integer and float variants.
const KindNumeric = KindInteger | KindFloat

var kindNames = []struct {
	kind Kind
	name string
}{
	{KindBytes, "bytes"},
	{KindInteger, "integer"},
	{KindFloat, "float"},
	{KindBoolean, "boolean"},
	{KindTimestamp, "timestamp"},
	{KindArray, "array"},
	{KindMap, "map"},
	{KindNull, "null"},
	{KindRegex, "regex"},
}

// Contains reports whether every variant of other is in k.
func (k Kind) Contains(other Kind) bool {
	return k&other == other
}

// IsSubsetOf reports whether every variant of k is in other.
func (k Kind) IsSubsetOf(other Kind) bool {
	return other.Contains(k)
}

// Intersects reports whether k and other share at least one variant.
func (k Kind) Intersects(other Kind) bool {
	return k&other != 0
}

// Union returns the variants found in either set.
func (k Kind) Union(other Kind) Kind {
	return k | other
}

// IsEmpty reports whether k holds no variant.
func (k Kind) IsEmpty() bool {
	return k == 0
}

// IsExact reports whether k holds exactly one variant.
func (k Kind) IsExact() bool {
	return k != 0 && k&(k-1) == 0
}

// String returns "any" for KindAll, otherwise the variant names in
// declaration order, e.g. "bytes, integer or float".
func (k Kind) String() string {
	switch k {
	case KindAll:
		return "any"
	case 0:
		return "none"
	}

	var names []string
	for _, kn := range kindNames {
		if k.Contains(kn.kind) {
			names = append(names, kn.name)
		}
	}
	if len(names) == 1 {
		return names[0]
	}
	return strings.Join(names[:len(names)-1], ", ") + " or " + names[len(names)-1]
}
