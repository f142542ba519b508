package timeline

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/timegrid/internal/notify"
	"github.com/dshills/timegrid/internal/timemath"
)

// Placement is a region's span on its track's grid. Column 1 is the track
// header; the first time column is 2.
type Placement struct {
	Row         int
	ColumnStart int
	ColumnEnd   int
}

// Span returns the number of columns covered.
func (p Placement) Span() int {
	return p.ColumnEnd - p.ColumnStart
}

// String formats the placement as a grid-column declaration.
func (p Placement) String() string {
	return fmt.Sprintf("%d / %d", p.ColumnStart, p.ColumnEnd)
}

// Bounds is the value carried by bounds change notifications.
type Bounds struct {
	Start time.Time
	End   time.Time
}

// Region is a labeled time interval placed on a Track.
//
// A zero Start or End is a missing bound. The region's own bounds are never
// modified by layout; clipping only affects Placement.
type Region struct {
	id    string
	label string
	start time.Time
	end   time.Time

	notifier *notify.Notifier
	track    *Track
	sub      *notify.Subscription

	// Written by the owning track on every layout pass.
	partial    Partial
	visible    bool
	placement  Placement
	diagnostic error
	timezone   string
}

// RegionOption configures a Region.
type RegionOption func(*Region)

// WithRegionID sets the region identifier instead of a generated UUID.
func WithRegionID(id string) RegionOption {
	return func(r *Region) {
		if id != "" {
			r.id = id
		}
	}
}

// NewRegion creates a region. start and end accept any instant-like value
// understood by timemath.ParseInstant. Missing bounds are allowed and are
// reported when the region is laid out; unparsable bounds fail with
// ErrInvalidRegion.
func NewRegion(start, end any, label string, opts ...RegionOption) (*Region, error) {
	s, err := parseBound("start", start)
	if err != nil {
		return nil, err
	}
	e, err := parseBound("end", end)
	if err != nil {
		return nil, err
	}

	r := &Region{
		id:       uuid.NewString(),
		label:    label,
		start:    s,
		end:      e,
		notifier: notify.New(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// MustNewRegion is like NewRegion but panics on error.
func MustNewRegion(start, end any, label string, opts ...RegionOption) *Region {
	r, err := NewRegion(start, end, label, opts...)
	if err != nil {
		panic(err)
	}
	return r
}

func parseBound(name string, v any) (time.Time, error) {
	t, ok, err := timemath.ParseInstant(v)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s: %v", ErrInvalidRegion, name, err)
	}
	if !ok {
		return time.Time{}, nil
	}
	return t.UTC(), nil
}

// ID returns the region identifier.
func (r *Region) ID() string { return r.id }

// Label returns the region label.
func (r *Region) Label() string { return r.label }

// Start returns the stored start. The zero time means missing.
func (r *Region) Start() time.Time { return r.start }

// End returns the stored end. The zero time means missing.
func (r *Region) End() time.Time { return r.end }

// Track returns the owning track, or nil.
func (r *Region) Track() *Track { return r.track }

// Partial returns the classification from the last layout pass.
func (r *Region) Partial() Partial { return r.partial }

// Visible reports whether the last layout pass placed the region.
func (r *Region) Visible() bool { return r.visible }

// Placement returns the grid span from the last layout pass. It is the zero
// Placement when the region is hidden.
func (r *Region) Placement() Placement { return r.placement }

// Diagnostic returns why the region is hidden, or nil.
func (r *Region) Diagnostic() error { return r.diagnostic }

// Timezone returns the zone the owning track renders in.
func (r *Region) Timezone() string { return r.timezone }

// TimeLabel returns "HH:mm - HH:mm" in the track's zone, or "" when a bound
// is missing.
func (r *Region) TimeLabel() string {
	if r.start.IsZero() || r.end.IsZero() {
		return ""
	}
	loc, err := timemath.LoadZone(r.timezone)
	if err != nil {
		loc = time.UTC
	}
	return r.start.In(loc).Format("15:04") + " - " + r.end.In(loc).Format("15:04")
}

// Classify reports how the region relates to rng. The second result is false
// when the region is missing a bound or does not overlap rng at all; such a
// region is not classified.
func (r *Region) Classify(rng timemath.Range) (Partial, bool) {
	if r.start.IsZero() || r.end.IsZero() || r.start.After(r.end) {
		return PartialNone, false
	}
	if !rng.Overlaps(r.start, r.end) {
		return PartialNone, false
	}

	before := r.start.Before(rng.Start)
	after := r.end.After(rng.End)
	switch {
	case before && after:
		return PartialBoth, true
	case before:
		return PartialStart, true
	case after:
		return PartialEnd, true
	default:
		return PartialNone, true
	}
}

// SetStart replaces the start bound.
func (r *Region) SetStart(v any) error {
	s, err := parseBound("start", v)
	if err != nil {
		return err
	}
	r.setBounds(s, r.end)
	return nil
}

// SetEnd replaces the end bound.
func (r *Region) SetEnd(v any) error {
	e, err := parseBound("end", v)
	if err != nil {
		return err
	}
	r.setBounds(r.start, e)
	return nil
}

// SetBounds replaces both bounds with a single notification. Neither bound
// changes if either fails to parse.
func (r *Region) SetBounds(start, end any) error {
	s, err := parseBound("start", start)
	if err != nil {
		return err
	}
	e, err := parseBound("end", end)
	if err != nil {
		return err
	}
	r.setBounds(s, e)
	return nil
}

func (r *Region) setBounds(start, end time.Time) {
	if start.Equal(r.start) && end.Equal(r.end) {
		return
	}
	old := Bounds{Start: r.start, End: r.end}
	r.start, r.end = start, end
	r.notifier.NotifyChange(notify.KindBounds, r.id, old, Bounds{Start: start, End: end})
}

// SetLabel replaces the label. It does not cause a layout pass.
func (r *Region) SetLabel(label string) {
	if label == r.label {
		return
	}
	old := r.label
	r.label = label
	r.notifier.NotifyChange(notify.KindLabel, r.id, old, label)
}

// String formats the region for logs.
func (r *Region) String() string {
	return fmt.Sprintf("%s(%s %s..%s)", r.id, r.label, formatBound(r.start), formatBound(r.end))
}

func formatBound(t time.Time) string {
	if t.IsZero() {
		return "<missing>"
	}
	return t.Format(time.RFC3339)
}

// reset clears layout results when the region leaves its track.
func (r *Region) reset() {
	r.partial = PartialNone
	r.visible = false
	r.placement = Placement{}
	r.diagnostic = nil
	r.timezone = ""
}
