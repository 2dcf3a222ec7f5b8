// Package strftime parses timestamps described by strftime-style format
// strings.
//
// The accepted directives and the error messages follow the conventions
// of the chrono date and time library, so formats written for it parse
// the same text here:
//
//	%Y  year, optionally signed      %C  century        %y  year % 100
//	%m  month                         %b  %h  Jan        %B  January
//	%d  %e  day of month              %j  day of year
//	%H  %k  hour (00-23)              %I  %l  hour (01-12)
//	%p  %P  AM/PM                     %M  minute         %S  second
//	%f  nanoseconds                   %.f %.3f %.6f %.9f fraction
//	%a  Sun                           %A  Sunday         %u %w weekday
//	%z  %:z offset                    %Z  zone name (ignored)
//	%s  Unix seconds                  %T  %H:%M:%S       %R  %H:%M
//	%D  %m/%d/%y                      %F  %Y-%m-%d       %+  RFC 3339
//	%n  %t  whitespace                %%  a literal '%'
//
// Whitespace in the format matches any run of whitespace in the input,
// including none. Numbers may be preceded by whitespace.
package strftime

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// Error is a parse failure. Its text matches chrono's messages.
type Error string

func (e Error) Error() string { return string(e) }

const (
	ErrOutOfRange Error = "input is out of range"
	ErrImpossible Error = "no possible date and time matching input"
	ErrNotEnough  Error = "input is not enough for unique date and time"
	ErrInvalid    Error = "input contains invalid characters"
	ErrTooShort   Error = "premature end of input"
	ErrTooLong    Error = "trailing input"
	ErrBadFormat  Error = "bad or unsupported format string"
)

// Parse parses text according to format and returns the instant in UTC.
// The format must determine a date, a time of day and a UTC offset, or
// a Unix timestamp and an offset.
func Parse(text, format string) (time.Time, error) {
	var p parsed
	rest, err := p.parse(text, format)
	if err != nil {
		return time.Time{}, err
	}
	if rest != "" {
		return time.Time{}, ErrTooLong
	}
	return p.resolve()
}

type field struct {
	v  int64
	ok bool
}

// set records v, failing when an earlier directive recorded another value.
func (f *field) set(v int64) error {
	if f.ok && f.v != v {
		return ErrImpossible
	}
	f.v, f.ok = v, true
	return nil
}

func (f *field) setRange(v, min, max int64) error {
	if v < min || v > max {
		return ErrOutOfRange
	}
	return f.set(v)
}

type parsed struct {
	year, century, yearMod100 field
	month, day, ordinal       field
	hourDiv12, hourMod12      field
	minute, second, nanos     field
	weekday                   field // days since Sunday
	timestamp                 field
	offset                    field // seconds east of UTC
}

const rfc3339 = "%Y-%m-%dT%H:%M:%S%.f%#z"

func (p *parsed) parse(s, format string) (string, error) {
	var err error
	for i := 0; i < len(format); {
		c := format[i]
		switch {
		case c == '%':
			i++
			if i >= len(format) {
				return s, ErrBadFormat
			}
			spec := format[i]
			i++
			if spec == '.' || spec == ':' || spec == '#' {
				for i < len(format) && format[i] >= '0' && format[i] <= '9' {
					i++
				}
				if i >= len(format) {
					return s, ErrBadFormat
				}
				if s, err = p.parseModified(s, spec, format[i]); err != nil {
					return s, err
				}
				i++
				continue
			}
			if s, err = p.parseSpec(s, spec); err != nil {
				return s, err
			}
		case isSpace(c):
			for i < len(format) && isSpace(format[i]) {
				i++
			}
			s = trimSpace(s)
		default:
			r, size := utf8.DecodeRuneInString(format[i:])
			i += size
			if s == "" {
				return s, ErrTooShort
			}
			got, n := utf8.DecodeRuneInString(s)
			if got != r {
				return s, ErrInvalid
			}
			s = s[n:]
		}
	}
	return s, nil
}

func (p *parsed) parseModified(s string, mod, spec byte) (string, error) {
	switch {
	case mod == '.' && spec == 'f':
		return p.fraction(s)
	case mod == ':' && spec == 'z':
		return p.parseOffset(s, false)
	case mod == '#' && spec == 'z':
		return p.parseOffset(s, true)
	}
	return s, ErrBadFormat
}

func (p *parsed) parseSpec(s string, spec byte) (string, error) {
	var (
		v   int64
		err error
	)
	switch spec {
	case 'Y':
		if v, s, err = signedNumber(s, 4); err != nil {
			return s, err
		}
		return s, p.year.set(v)
	case 'C':
		if v, s, err = number(s, 1, 2); err != nil {
			return s, err
		}
		return s, p.century.set(v)
	case 'y':
		if v, s, err = number(s, 1, 2); err != nil {
			return s, err
		}
		return s, p.yearMod100.setRange(v, 0, 99)
	case 'm':
		if v, s, err = number(s, 1, 2); err != nil {
			return s, err
		}
		return s, p.month.setRange(v, 1, 12)
	case 'b', 'h':
		if v, s, err = name(s, monthNames, false); err != nil {
			return s, err
		}
		return s, p.month.set(v + 1)
	case 'B':
		if v, s, err = name(s, monthNames, true); err != nil {
			return s, err
		}
		return s, p.month.set(v + 1)
	case 'd', 'e':
		if v, s, err = number(s, 1, 2); err != nil {
			return s, err
		}
		return s, p.day.setRange(v, 1, 31)
	case 'j':
		if v, s, err = number(s, 1, 3); err != nil {
			return s, err
		}
		return s, p.ordinal.setRange(v, 1, 366)
	case 'H', 'k':
		if v, s, err = number(s, 1, 2); err != nil {
			return s, err
		}
		if v > 23 {
			return s, ErrOutOfRange
		}
		if err := p.hourDiv12.set(v / 12); err != nil {
			return s, err
		}
		return s, p.hourMod12.set(v % 12)
	case 'I', 'l':
		if v, s, err = number(s, 1, 2); err != nil {
			return s, err
		}
		if v < 1 || v > 12 {
			return s, ErrOutOfRange
		}
		return s, p.hourMod12.set(v % 12)
	case 'p', 'P':
		if len(s) < 2 {
			return s, ErrTooShort
		}
		switch strings.ToLower(s[:2]) {
		case "am":
			v = 0
		case "pm":
			v = 1
		default:
			return s, ErrInvalid
		}
		return s[2:], p.hourDiv12.set(v)
	case 'M':
		if v, s, err = number(s, 1, 2); err != nil {
			return s, err
		}
		return s, p.minute.setRange(v, 0, 59)
	case 'S':
		if v, s, err = number(s, 1, 2); err != nil {
			return s, err
		}
		return s, p.second.setRange(v, 0, 60)
	case 'f':
		if v, s, err = number(s, 1, 9); err != nil {
			return s, err
		}
		return s, p.nanos.set(v)
	case 'a':
		if v, s, err = name(s, weekdayNames, false); err != nil {
			return s, err
		}
		return s, p.weekday.set(v)
	case 'A':
		if v, s, err = name(s, weekdayNames, true); err != nil {
			return s, err
		}
		return s, p.weekday.set(v)
	case 'u':
		if v, s, err = number(s, 1, 1); err != nil {
			return s, err
		}
		if v < 1 || v > 7 {
			return s, ErrOutOfRange
		}
		return s, p.weekday.set(v % 7)
	case 'w':
		if v, s, err = number(s, 1, 1); err != nil {
			return s, err
		}
		return s, p.weekday.setRange(v, 0, 6)
	case 'z':
		return p.parseOffset(s, false)
	case 'Z':
		return strings.TrimLeftFunc(s, func(r rune) bool { return !unicode.IsSpace(r) }), nil
	case 's':
		if v, s, err = signedNumber(s, 19); err != nil {
			return s, err
		}
		return s, p.timestamp.set(v)
	case 'T':
		return p.parse(s, "%H:%M:%S")
	case 'R':
		return p.parse(s, "%H:%M")
	case 'D':
		return p.parse(s, "%m/%d/%y")
	case 'F':
		return p.parse(s, "%Y-%m-%d")
	case '+':
		return p.parse(s, rfc3339)
	case 'n', 't':
		return trimSpace(s), nil
	case '%':
		if s == "" {
			return s, ErrTooShort
		}
		if s[0] != '%' {
			return s, ErrInvalid
		}
		return s[1:], nil
	}
	return s, ErrBadFormat
}

// fraction parses an optional '.' followed by fractional seconds.
func (p *parsed) fraction(s string) (string, error) {
	if !strings.HasPrefix(s, ".") {
		return s, nil
	}
	s = s[1:]
	if s == "" {
		return s, ErrTooShort
	}
	var (
		ns     int64
		digits int
	)
	for digits < len(s) && isDigit(s[digits]) {
		if digits < 9 {
			ns = ns*10 + int64(s[digits]-'0')
		}
		digits++
	}
	if digits == 0 {
		return s, ErrInvalid
	}
	for i := digits; i < 9; i++ {
		ns *= 10
	}
	return s[digits:], p.nanos.set(ns)
}

// parseOffset parses [+-]HH[:]MM. With zulu, 'Z' means UTC.
func (p *parsed) parseOffset(s string, zulu bool) (string, error) {
	s = trimSpace(s)
	if zulu && (strings.HasPrefix(s, "Z") || strings.HasPrefix(s, "z")) {
		return s[1:], p.offset.set(0)
	}
	if s == "" {
		return s, ErrTooShort
	}
	var sign int64
	switch s[0] {
	case '+':
		sign = 1
	case '-':
		sign = -1
	default:
		return s, ErrInvalid
	}
	s = s[1:]

	hh, s, err := twoDigits(s)
	if err != nil {
		return s, err
	}
	s = strings.TrimLeftFunc(s, func(r rune) bool { return r == ':' || unicode.IsSpace(r) })
	mm, s, err := twoDigits(s)
	if err != nil {
		return s, err
	}
	if mm >= 60 {
		return s, ErrOutOfRange
	}
	return s, p.offset.set(sign * (hh*3600 + mm*60))
}

func (p *parsed) resolve() (time.Time, error) {
	if !p.offset.ok {
		return time.Time{}, ErrNotEnough
	}
	zone := time.FixedZone("", int(p.offset.v))

	if p.timestamp.ok {
		return time.Unix(p.timestamp.v, p.nanos.v).UTC(), nil
	}

	var year int64
	switch {
	case p.year.ok:
		year = p.year.v
	case p.century.ok && p.yearMod100.ok:
		year = p.century.v*100 + p.yearMod100.v
	case p.yearMod100.ok:
		year = 1900 + p.yearMod100.v
		if p.yearMod100.v < 70 {
			year = 2000 + p.yearMod100.v
		}
	default:
		return time.Time{}, ErrNotEnough
	}

	var date time.Time
	switch {
	case p.month.ok && p.day.ok:
		date = time.Date(int(year), time.Month(p.month.v), int(p.day.v), 0, 0, 0, 0, zone)
		if int64(date.Day()) != p.day.v {
			return time.Time{}, ErrOutOfRange
		}
	case p.ordinal.ok:
		date = time.Date(int(year), time.January, int(p.ordinal.v), 0, 0, 0, 0, zone)
		if int64(date.Year()) != year {
			return time.Time{}, ErrOutOfRange
		}
		if p.month.ok && int64(date.Month()) != p.month.v {
			return time.Time{}, ErrImpossible
		}
	default:
		return time.Time{}, ErrNotEnough
	}
	if p.weekday.ok && int64(date.Weekday()) != p.weekday.v {
		return time.Time{}, ErrImpossible
	}

	if !p.hourDiv12.ok || !p.hourMod12.ok || !p.minute.ok {
		return time.Time{}, ErrNotEnough
	}
	hour := p.hourDiv12.v*12 + p.hourMod12.v
	t := date.Add(time.Duration(hour)*time.Hour +
		time.Duration(p.minute.v)*time.Minute +
		time.Duration(p.second.v)*time.Second +
		time.Duration(p.nanos.v))
	return t.UTC(), nil
}

var monthNames = []string{
	"january", "february", "march", "april", "may", "june",
	"july", "august", "september", "october", "november", "december",
}

var weekdayNames = []string{
	"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday",
}

// name matches the three letter abbreviation of one of names, case
// insensitively. When long is set the rest of the full name is consumed
// too, if present.
func name(s string, names []string, long bool) (int64, string, error) {
	if len(s) < 3 {
		return 0, s, ErrTooShort
	}
	prefix := strings.ToLower(s[:3])
	for i, n := range names {
		if n[:3] != prefix {
			continue
		}
		s = s[3:]
		if suffix := n[3:]; long && len(s) >= len(suffix) && strings.EqualFold(s[:len(suffix)], suffix) {
			s = s[len(suffix):]
		}
		return int64(i), s, nil
	}
	return 0, s, ErrInvalid
}

// number scans between min and max decimal digits after optional
// leading whitespace.
func number(s string, min, max int) (int64, string, error) {
	s = trimSpace(s)
	if len(s) < min {
		return 0, s, ErrTooShort
	}
	var (
		v int64
		i int
	)
	for ; i < len(s) && i < max && isDigit(s[i]); i++ {
		d := int64(s[i] - '0')
		if v > (1<<63-1-d)/10 {
			return 0, s, ErrOutOfRange
		}
		v = v*10 + d
	}
	if i < min {
		return 0, s, ErrInvalid
	}
	return v, s[i:], nil
}

// signedNumber scans an optionally signed number. Signed numbers take
// any number of digits, unsigned ones at most width.
func signedNumber(s string, width int) (int64, string, error) {
	s = trimSpace(s)
	switch {
	case strings.HasPrefix(s, "-"):
		v, rest, err := number(s[1:], 1, 19)
		return -v, rest, err
	case strings.HasPrefix(s, "+"):
		return number(s[1:], 1, 19)
	}
	return number(s, 1, width)
}

func twoDigits(s string) (int64, string, error) {
	if len(s) < 2 {
		return 0, s, ErrTooShort
	}
	if !isDigit(s[0]) || !isDigit(s[1]) {
		return 0, s, ErrInvalid
	}
	return int64(s[0]-'0')*10 + int64(s[1]-'0'), s[2:], nil
}

func isDigit(c byte) bool { return '0' <= c && c <= '9' }

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f'
}

func trimSpace(s string) string {
	return strings.TrimLeftFunc(s, unicode.IsSpace)
}
