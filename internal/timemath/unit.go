package timemath

import (
	"fmt"
	"strings"
	"time"
)

// Unit is a unit of calendar time.
type Unit int

const (
	// UnitNone is the zero value and is never valid.
	UnitNone Unit = iota
	// Minute is one minute of elapsed time.
	Minute
	// Hour is one hour of elapsed time.
	Hour
	// Day is one calendar day.
	Day
	// Month is one calendar month.
	Month
)

// String returns the lowercase unit name.
func (u Unit) String() string {
	switch u {
	case Minute:
		return "minute"
	case Hour:
		return "hour"
	case Day:
		return "day"
	case Month:
		return "month"
	default:
		return "none"
	}
}

// IsInterval reports whether u can be used as a timeline interval.
func (u Unit) IsInterval() bool {
	return u == Hour || u == Day || u == Month
}

// ParseUnit parses a unit name. Matching is case-insensitive.
func ParseUnit(s string) (Unit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "minute":
		return Minute, nil
	case "hour":
		return Hour, nil
	case "day":
		return Day, nil
	case "month":
		return Month, nil
	default:
		return UnitNone, fmt.Errorf("%w: %q", ErrInvalidUnit, s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (u Unit) MarshalText() ([]byte, error) {
	if u == UnitNone {
		return nil, fmt.Errorf("%w: none", ErrInvalidUnit)
	}
	return []byte(u.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (u *Unit) UnmarshalText(text []byte) error {
	parsed, err := ParseUnit(string(text))
	if err != nil {
		return err
	}
	*u = parsed
	return nil
}

// ColumnUnit returns the grid column unit for a timeline interval.
// Unknown intervals return UnitNone.
func ColumnUnit(interval Unit) Unit {
	switch interval {
	case Hour:
		return Minute
	case Day:
		return Hour
	case Month:
		return Day
	default:
		return UnitNone
	}
}

// Add returns t advanced by n units. Day and Month arithmetic is calendar
// based in t's location; adding months clamps to the last day of the
// target month (Jan 31 + 1 month = Feb 28).
func Add(t time.Time, unit Unit, n int) time.Time {
	switch unit {
	case Minute:
		return t.Add(time.Duration(n) * time.Minute)
	case Hour:
		return t.Add(time.Duration(n) * time.Hour)
	case Day:
		return t.AddDate(0, 0, n)
	case Month:
		y, m, d := t.Date()
		first := time.Date(y, m+time.Month(n), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
		if last := daysIn(first.Year(), first.Month()); d > last {
			d = last
		}
		return first.AddDate(0, 0, d-1)
	default:
		return t
	}
}

// daysIn returns the number of days in the month.
func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
