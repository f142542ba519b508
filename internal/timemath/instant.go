package timemath

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// instantPattern matches ISO-8601 style dates with optional time and offset.
// Field ranges are checked separately so that calendar overflow such as
// 2021-02-30 can be normalized instead of rejected.
var instantPattern = regexp.MustCompile(
	`^(\d{4})-(\d{2})-(\d{2})` +
		`(?:[T ](\d{2}):(\d{2})(?::(\d{2})(?:\.(\d{1,9}))?)?)?` +
		`(Z|[+-]\d{2}:?\d{2})?$`)

// ParseInstant converts an instant-like value into a time.Time.
//
// Accepted values are time.Time, *time.Time, strings in ISO-8601 form
// (date only, minutes or seconds precision, optional fractional seconds and
// offset) and Unix milliseconds as int, int64 or float64. Strings without an
// offset are read as UTC.
//
// A nil value, nil pointer, zero time or blank string is reported as missing
// (ok is false) without error. Day-of-month overflow normalizes forward, so
// "2021-02-30" is 2021-03-02.
func ParseInstant(v any) (t time.Time, ok bool, err error) {
	switch val := v.(type) {
	case nil:
		return time.Time{}, false, nil
	case time.Time:
		if val.IsZero() {
			return time.Time{}, false, nil
		}
		return val, true, nil
	case *time.Time:
		if val == nil || val.IsZero() {
			return time.Time{}, false, nil
		}
		return *val, true, nil
	case int:
		return time.UnixMilli(int64(val)).UTC(), true, nil
	case int64:
		return time.UnixMilli(val).UTC(), true, nil
	case float64:
		return time.UnixMilli(int64(val)).UTC(), true, nil
	case string:
		return parseInstantString(val)
	case fmt.Stringer:
		return parseInstantString(val.String())
	default:
		return time.Time{}, false, fmt.Errorf("%w: unsupported type %T", ErrInvalidInstant, v)
	}
}

// MustParseInstant is like ParseInstant but panics on error or missing input.
// It is intended for constants and tests.
func MustParseInstant(s string) time.Time {
	t, ok, err := ParseInstant(s)
	if err != nil {
		panic(err)
	}
	if !ok {
		panic(fmt.Sprintf("timemath: empty instant %q", s))
	}
	return t
}

func parseInstantString(s string) (time.Time, bool, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false, nil
	}

	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, true, nil
	}

	m := instantPattern.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, false, fmt.Errorf("%w: %q", ErrInvalidInstant, s)
	}

	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(m[3])
	hour := atoiOr(m[4], 0)
	minute := atoiOr(m[5], 0)
	second := atoiOr(m[6], 0)

	nsec := 0
	if m[7] != "" {
		frac := m[7] + strings.Repeat("0", 9-len(m[7]))
		nsec, _ = strconv.Atoi(frac)
	}

	if month < 1 || month > 12 || day < 1 || day > 31 ||
		hour > 23 || minute > 59 || second > 59 {
		return time.Time{}, false, fmt.Errorf("%w: %q out of range", ErrInvalidInstant, s)
	}

	loc, err := parseOffset(m[8])
	if err != nil {
		return time.Time{}, false, fmt.Errorf("%w: %q: %v", ErrInvalidInstant, s, err)
	}

	return time.Date(year, time.Month(month), day, hour, minute, second, nsec, loc), true, nil
}

func atoiOr(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

// parseOffset converts "Z", "+05:30" or "-0400" into a location.
func parseOffset(s string) (*time.Location, error) {
	if s == "" || s == "Z" {
		return time.UTC, nil
	}

	sign := 1
	if s[0] == '-' {
		sign = -1
	}
	digits := strings.ReplaceAll(s[1:], ":", "")
	if len(digits) != 4 {
		return nil, fmt.Errorf("bad offset %q", s)
	}
	hh, err := strconv.Atoi(digits[:2])
	if err != nil {
		return nil, err
	}
	mm, err := strconv.Atoi(digits[2:])
	if err != nil {
		return nil, err
	}
	if hh > 23 || mm > 59 {
		return nil, fmt.Errorf("bad offset %q", s)
	}
	if hh == 0 && mm == 0 {
		return time.UTC, nil
	}
	return time.FixedZone(s, sign*(hh*3600+mm*60)), nil
}
