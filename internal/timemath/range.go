package timemath

import (
	"fmt"
	"math"
	"time"
)

// Range is the visible window of a timeline: its bounds, interval, zoom
// factor and display timezone.
//
// A Range is a value. The timeline owns the canonical copy and hands
// snapshots to its tracks; nothing else mutates it.
type Range struct {
	Start    time.Time
	End      time.Time
	Interval Unit
	Zoom     float64
	Timezone string
}

// Validate checks the range invariants.
func (r Range) Validate() error {
	if r.Start.After(r.End) {
		return fmt.Errorf("%w: start %s is after end %s",
			ErrInvalidRange, r.Start.Format(time.RFC3339), r.End.Format(time.RFC3339))
	}
	if !r.Interval.IsInterval() {
		return fmt.Errorf("%w: %s is not an interval", ErrInvalidUnit, r.Interval)
	}
	if r.Zoom <= 0 || math.IsNaN(r.Zoom) || math.IsInf(r.Zoom, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidZoom, r.Zoom)
	}
	if _, err := LoadZone(r.Timezone); err != nil {
		return err
	}
	return nil
}

// Equal reports whether both ranges describe the same window.
func (r Range) Equal(o Range) bool {
	return r.Start.Equal(o.Start) &&
		r.End.Equal(o.End) &&
		r.Interval == o.Interval &&
		r.Zoom == o.Zoom &&
		r.Timezone == o.Timezone
}

// Location returns the range's zone, falling back to UTC when the zone
// does not resolve.
func (r Range) Location() *time.Location {
	loc, err := LoadZone(r.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Contains reports whether t lies within [Start, End].
func (r Range) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// Overlaps reports whether [start, end] shares at least one instant with the range.
func (r Range) Overlaps(start, end time.Time) bool {
	return !start.After(r.End) && !end.Before(r.Start)
}

// Clamp limits t to [Start, End].
func (r Range) Clamp(t time.Time) time.Time {
	if t.Before(r.Start) {
		return r.Start
	}
	if t.After(r.End) {
		return r.End
	}
	return t
}

// Span returns the elapsed duration of the range.
func (r Range) Span() time.Duration {
	return r.End.Sub(r.Start)
}

// Step returns the axis bucket step derived from the zoom factor.
func (r Range) Step() int {
	step := int(math.Round(r.Zoom))
	if step < 1 {
		return 1
	}
	return step
}

// Columns returns the number of grid columns the range spans in the
// interval's column unit.
func (r Range) Columns() int {
	return DifferenceInUnitsIn(r.Start, r.End, ColumnUnit(r.Interval), r.Location())
}

// String formats the range for logs.
func (r Range) String() string {
	return fmt.Sprintf("%s..%s %s x%g %s",
		r.Start.Format(time.RFC3339), r.End.Format(time.RFC3339), r.Interval, r.Zoom, r.Timezone)
}
