package timeline

import (
	"fmt"
	"time"

	"github.com/dshills/timegrid/internal/logging"
	"github.com/dshills/timegrid/internal/notify"
	"github.com/dshills/timegrid/internal/timemath"
)

// MarkerKind identifies an instant annotated on the timeline.
type MarkerKind int

const (
	// MarkerPosition is the playhead.
	MarkerPosition MarkerKind = iota
	// MarkerAOS is acquisition of signal.
	MarkerAOS
	// MarkerLOS is loss of signal.
	MarkerLOS
)

// String returns the marker name.
func (k MarkerKind) String() string {
	switch k {
	case MarkerPosition:
		return "position"
	case MarkerAOS:
		return "aos"
	case MarkerLOS:
		return "los"
	default:
		return "unknown"
	}
}

// Marker is an annotated instant mapped onto the grid.
type Marker struct {
	Kind MarkerKind
	// At is the stored instant, which may lie outside the range.
	At time.Time
	// Column is the grid column of At clamped to the range.
	Column int
	// Clamped reports whether At lies outside the range.
	Clamped bool
}

// Timeline is the aggregate root. It owns the range and pushes every change
// down to its tracks.
type Timeline struct {
	rng      timemath.Range
	position time.Time
	aos      time.Time
	los      time.Time
	tracks   []*Track

	widths      ColumnWidths
	headerWidth int
	logger      *logging.Logger
	notifier    *notify.Notifier
}

// Option configures a Timeline.
type Option func(*Timeline)

// WithLogger sets the logger used for region diagnostics.
func WithLogger(l *logging.Logger) Option {
	return func(tl *Timeline) {
		if l != nil {
			tl.logger = l
		}
	}
}

// WithColumnWidths sets the base column widths per interval.
func WithColumnWidths(w ColumnWidths) Option {
	return func(tl *Timeline) { tl.widths = w }
}

// WithHeaderWidth sets the track header width in pixels.
func WithHeaderWidth(px int) Option {
	return func(tl *Timeline) {
		if px > 0 {
			tl.headerWidth = px
		}
	}
}

// New creates a timeline over rng. A zero Interval defaults to hour and a
// zero Zoom to 1.
func New(rng timemath.Range, opts ...Option) (*Timeline, error) {
	if rng.Interval == timemath.UnitNone {
		rng.Interval = timemath.Hour
	}
	if rng.Zoom == 0 {
		rng.Zoom = 1
	}
	if err := rng.Validate(); err != nil {
		return nil, newOperationError("new timeline", "", err)
	}

	tl := &Timeline{
		rng:         rng,
		widths:      DefaultColumnWidths(),
		headerWidth: DefaultHeaderWidth,
		logger:      logging.Nop(),
		notifier:    notify.New(),
	}
	for _, opt := range opts {
		opt(tl)
	}
	return tl, nil
}

// Range returns a snapshot of the current range.
func (tl *Timeline) Range() timemath.Range { return tl.rng }

// Interval returns the current interval.
func (tl *Timeline) Interval() timemath.Unit { return tl.rng.Interval }

// Zoom returns the current zoom factor.
func (tl *Timeline) Zoom() float64 { return tl.rng.Zoom }

// Timezone returns the display zone.
func (tl *Timeline) Timezone() string { return tl.rng.Timezone }

// Logger returns the timeline's logger.
func (tl *Timeline) Logger() *logging.Logger { return tl.logger }

// SetRange replaces the bounds. It fails with ErrInvalidRange when start is
// after end, leaving the previous range in effect.
func (tl *Timeline) SetRange(start, end time.Time) error {
	next := tl.rng
	next.Start, next.End = start, end
	if err := next.Validate(); err != nil {
		return newOperationError("set range", fmt.Sprintf("%s..%s", stamp(start), stamp(end)), err)
	}
	tl.apply(next, notify.KindRange, Bounds{Start: tl.rng.Start, End: tl.rng.End}, Bounds{Start: start, End: end})
	return nil
}

// Shift moves the range by n intervals, keeping its span.
func (tl *Timeline) Shift(n int) error {
	if n == 0 {
		return nil
	}
	loc := tl.rng.Location()
	start := timemath.Add(tl.rng.Start.In(loc), tl.rng.Interval, n)
	end := timemath.Add(tl.rng.End.In(loc), tl.rng.Interval, n)
	return tl.SetRange(start.UTC(), end.UTC())
}

// SetTimezone replaces the display zone. An unrecognized zone fails with
// ErrInvalidTimezone and leaves every track as it was.
func (tl *Timeline) SetTimezone(zone string) error {
	next := tl.rng
	next.Timezone = zone
	if err := next.Validate(); err != nil {
		return newOperationError("set timezone", zone, err)
	}
	tl.apply(next, notify.KindTimezone, tl.rng.Timezone, zone)
	return nil
}

// SetInterval replaces the interval (hour, day or month).
func (tl *Timeline) SetInterval(u timemath.Unit) error {
	next := tl.rng
	next.Interval = u
	if err := next.Validate(); err != nil {
		return newOperationError("set interval", u.String(), err)
	}
	tl.apply(next, notify.KindInterval, tl.rng.Interval, u)
	return nil
}

// SetZoom replaces the zoom factor, which must be positive.
func (tl *Timeline) SetZoom(z float64) error {
	next := tl.rng
	next.Zoom = z
	if err := next.Validate(); err != nil {
		return newOperationError("set zoom", fmt.Sprint(z), err)
	}
	tl.apply(next, notify.KindZoom, tl.rng.Zoom, z)
	return nil
}

func (tl *Timeline) apply(next timemath.Range, kind notify.Kind, oldValue, newValue any) {
	if next.Equal(tl.rng) {
		return
	}
	tl.rng = next
	for _, tr := range tl.tracks {
		if err := tr.SetRange(next); err != nil {
			tl.logger.Error("track %s rejected range %s: %v", tr.label, next, err)
		}
	}
	tl.notifier.NotifyChange(kind, "", oldValue, newValue)
}

// SetPosition places the playhead. A position outside the range is kept and
// drawn at the nearest boundary. A nil or zero value clears it.
func (tl *Timeline) SetPosition(v any) error {
	return tl.setMarker("set position", &tl.position, v)
}

// ClearPosition removes the playhead.
func (tl *Timeline) ClearPosition() {
	_ = tl.SetPosition(nil)
}

// SetAOS sets the acquisition-of-signal marker. A nil value clears it.
func (tl *Timeline) SetAOS(v any) error {
	return tl.setMarker("set aos", &tl.aos, v)
}

// SetLOS sets the loss-of-signal marker. A nil value clears it.
func (tl *Timeline) SetLOS(v any) error {
	return tl.setMarker("set los", &tl.los, v)
}

func (tl *Timeline) setMarker(op string, dst *time.Time, v any) error {
	at, ok, err := timemath.ParseInstant(v)
	if err != nil {
		return newOperationError(op, fmt.Sprint(v), err)
	}
	if !ok {
		at = time.Time{}
	}
	if at.Equal(*dst) {
		return nil
	}
	old := *dst
	*dst = at

	kind := notify.KindMarkers
	if dst == &tl.position {
		kind = notify.KindPosition
	}
	tl.notifier.NotifyChange(kind, "", old, at)
	return nil
}

// Playhead returns the playhead marker, if set.
func (tl *Timeline) Playhead() (Marker, bool) {
	return tl.marker(MarkerPosition, tl.position)
}

// PlayheadColumn returns the playhead's grid column, clamped to the range.
func (tl *Timeline) PlayheadColumn() (int, bool) {
	m, ok := tl.Playhead()
	return m.Column, ok
}

// AOS returns the acquisition-of-signal marker, if set.
func (tl *Timeline) AOS() (Marker, bool) {
	return tl.marker(MarkerAOS, tl.aos)
}

// LOS returns the loss-of-signal marker, if set.
func (tl *Timeline) LOS() (Marker, bool) {
	return tl.marker(MarkerLOS, tl.los)
}

// Markers returns every set marker: playhead, AOS then LOS.
func (tl *Timeline) Markers() []Marker {
	var out []Marker
	for _, get := range []func() (Marker, bool){tl.Playhead, tl.AOS, tl.LOS} {
		if m, ok := get(); ok {
			out = append(out, m)
		}
	}
	return out
}

func (tl *Timeline) marker(kind MarkerKind, at time.Time) (Marker, bool) {
	if at.IsZero() {
		return Marker{Kind: kind}, false
	}
	return Marker{
		Kind:    kind,
		At:      at,
		Column:  tl.Column(at),
		Clamped: !tl.rng.Contains(at),
	}, true
}

// Column maps an instant onto a grid column, clamped to the range.
func (tl *Timeline) Column(at time.Time) int {
	return gridColumn(tl.rng, tl.rng.Clamp(at))
}

// Columns returns the number of time columns.
func (tl *Timeline) Columns() int { return tl.rng.Columns() }

// ColumnWidth returns the pixel width of one time column.
func (tl *Timeline) ColumnWidth() int { return columnWidth(tl.rng, tl.widths) }

// HeaderWidth returns the track header width in pixels.
func (tl *Timeline) HeaderWidth() int { return tl.headerWidth }

// Axis returns the ruler buckets for the current range. It never touches
// track or region state.
func (tl *Timeline) Axis() []timemath.Bucket {
	return timemath.GenerateAxisBuckets(tl.rng, tl.rng.Interval, tl.rng.Step())
}

// NewTrack creates a track and adds it.
func (tl *Timeline) NewTrack(label string, opts ...TrackOption) *Track {
	tr := NewTrack(label, opts...)
	_ = tl.AddTrack(tr)
	return tr
}

// AddTrack appends tr and hands it the current range. A track owned by
// another timeline is removed from it first.
func (tl *Timeline) AddTrack(tr *Track) error {
	if tr == nil {
		return ErrNilTrack
	}
	if tr.timeline == tl {
		return nil
	}
	if tr.timeline != nil {
		tr.timeline.RemoveTrack(tr)
	}

	tr.timeline = tl
	tr.widths = tl.widths
	tr.headerWidth = tl.headerWidth
	tr.logger = tl.logger.WithComponent("track")
	tl.tracks = append(tl.tracks, tr)

	// The track has a new owner, so its first range from this timeline
	// always lays out.
	tr.hasRange = false
	if err := tr.SetRange(tl.rng); err != nil {
		tl.logger.Error("track %s rejected range %s: %v", tr.label, tl.rng, err)
	}
	tl.notifier.NotifyChange(notify.KindTracks, tr.id, nil, tr.id)
	return nil
}

// RemoveTrack detaches tr. It reports whether tr was present.
func (tl *Timeline) RemoveTrack(tr *Track) bool {
	if tr == nil || tr.timeline != tl {
		return false
	}
	for i, cur := range tl.tracks {
		if cur != tr {
			continue
		}
		tl.tracks = append(tl.tracks[:i], tl.tracks[i+1:]...)
		tr.timeline = nil
		tl.notifier.NotifyChange(notify.KindTracks, tr.id, tr.id, nil)
		return true
	}
	return false
}

// Tracks returns the tracks in order.
func (tl *Timeline) Tracks() []*Track {
	out := make([]*Track, len(tl.tracks))
	copy(out, tl.tracks)
	return out
}

// Track returns the track with id.
func (tl *Timeline) Track(id string) (*Track, error) {
	for _, tr := range tl.tracks {
		if tr.id == id {
			return tr, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrTrackNotFound, id)
}

// Region returns the region with id from any track.
func (tl *Timeline) Region(id string) (*Region, error) {
	for _, tr := range tl.tracks {
		if r, err := tr.Region(id); err == nil {
			return r, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrRegionNotFound, id)
}

// Diagnostics returns the hidden regions of every track.
func (tl *Timeline) Diagnostics() []Diagnostic {
	var out []Diagnostic
	for _, tr := range tl.tracks {
		out = append(out, tr.Diagnostics()...)
	}
	return out
}

// Subscribe registers an observer for every timeline change.
func (tl *Timeline) Subscribe(observer notify.Observer) *notify.Subscription {
	return tl.notifier.Subscribe(observer)
}

// SubscribeKinds registers an observer for the listed kinds.
func (tl *Timeline) SubscribeKinds(observer notify.Observer, kinds ...notify.Kind) *notify.Subscription {
	return tl.notifier.SubscribeKinds(observer, kinds...)
}

// Close drops all subscribers.
func (tl *Timeline) Close() {
	tl.notifier.Close()
}

func (tl *Timeline) trackChanged(tr *Track) {
	tl.notifier.NotifyChange(notify.KindRegions, tr.id, nil, tr.passes)
}
