package remap

import (
	"strconv"
	"strings"

	"github.com/influxdata/remap/kit/errors"
)

// Segment is one step of a Path: a map field or an array index.
type Segment struct {
	Field string
	Index int
	// IsIndex reports whether the segment addresses an array element.
	IsIndex bool
}

// FieldSegment returns a segment addressing the map field name.
func FieldSegment(name string) Segment {
	return Segment{Field: name}
}

// IndexSegment returns a segment addressing the array element at i.
func IndexSegment(i int) Segment {
	return Segment{Index: i, IsIndex: true}
}

func (s Segment) String() string {
	if s.IsIndex {
		return "[" + strconv.Itoa(s.Index) + "]"
	}
	if isIdent(s.Field) {
		return "." + s.Field
	}
	return "." + strconv.Quote(s.Field)
}

// Path addresses a value inside an event. The empty path is the event root.
type Path []Segment

// Root is the path of the event itself.
var Root = Path{}

// NewPath returns a path of plain field segments.
func NewPath(fields ...string) Path {
	p := make(Path, len(fields))
	for i, f := range fields {
		p[i] = FieldSegment(f)
	}
	return p
}

// IsRoot reports whether p addresses the event root.
func (p Path) IsRoot() bool {
	return len(p) == 0
}

// Append returns a new path with segs added to a copy of p.
func (p Path) Append(segs ...Segment) Path {
	out := make(Path, 0, len(p)+len(segs))
	return append(append(out, p...), segs...)
}

// Equal reports whether p and o address the same location.
func (p Path) Equal(o Path) bool {
	if len(p) != len(o) {
		return false
	}
	for i := range p {
		if p[i] != o[i] {
			return false
		}
	}
	return true
}

// String renders p in the form accepted by ParsePath.
func (p Path) String() string {
	if p.IsRoot() {
		return "."
	}
	var b strings.Builder
	for _, s := range p {
		b.WriteString(s.String())
	}
	return b.String()
}

// ParsePath parses the textual form of a path: ".", ".foo.bar",
// ".foo[2].bar" or `."field with spaces"`.
func ParsePath(s string) (Path, error) {
	if s == "." {
		return Root, nil
	}
	if !strings.HasPrefix(s, ".") && !strings.HasPrefix(s, "[") {
		return nil, errors.Compilef("invalid path %q: must start with '.'", s)
	}

	var p Path
	for i := 0; i < len(s); {
		switch s[i] {
		case '.':
			i++
			if i < len(s) && s[i] == '"' {
				end := closingQuote(s, i)
				if end < 0 {
					return nil, errors.Compilef("invalid path %q: unterminated quoted field", s)
				}
				field, err := strconv.Unquote(s[i : end+1])
				if err != nil {
					return nil, errors.Compilef("invalid path %q: %v", s, err)
				}
				p = append(p, FieldSegment(field))
				i = end + 1
				continue
			}
			start := i
			for i < len(s) && isIdentByte(s[i]) {
				i++
			}
			if start == i {
				return nil, errors.Compilef("invalid path %q: empty field at offset %d", s, start)
			}
			p = append(p, FieldSegment(s[start:i]))
		case '[':
			end := strings.IndexByte(s[i:], ']')
			if end < 0 {
				return nil, errors.Compilef("invalid path %q: unterminated index", s)
			}
			n, err := strconv.Atoi(s[i+1 : i+end])
			if err != nil || n < 0 {
				return nil, errors.Compilef("invalid path %q: bad index %q", s, s[i+1:i+end])
			}
			p = append(p, IndexSegment(n))
			i += end + 1
		default:
			return nil, errors.Compilef("invalid path %q: unexpected %q at offset %d", s, s[i], i)
		}
	}
	return p, nil
}

// MustParsePath is like ParsePath but panics on error.
func MustParsePath(s string) Path {
	p, err := ParsePath(s)
	if err != nil {
		panic(err)
	}
	return p
}

func closingQuote(s string, open int) int {
	for i := open + 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '"':
			return i
		}
	}
	return -1
}

func isIdentByte(c byte) bool {
	return c == '_' || c == '-' || c == '@' ||
		('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9')
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isIdentByte(s[i]) {
			return false
		}
	}
	return true
}
