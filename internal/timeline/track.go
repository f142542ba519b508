package timeline

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/timegrid/internal/logging"
	"github.com/dshills/timegrid/internal/notify"
	"github.com/dshills/timegrid/internal/timemath"
)

// DefaultHeaderWidth is the width in pixels of a track's header column.
const DefaultHeaderWidth = 200

// ColumnWidths holds the base pixel width of one grid column for each
// interval. The rendered width is the base scaled by the zoom factor.
type ColumnWidths struct {
	Hour  int // per minute column
	Day   int // per hour column
	Month int // per day column
}

// DefaultColumnWidths returns the stock column widths.
func DefaultColumnWidths() ColumnWidths {
	return ColumnWidths{Hour: 2, Day: 60, Month: 40}
}

// For returns the base width for interval. Unset widths fall back to the
// defaults.
func (w ColumnWidths) For(interval timemath.Unit) int {
	def := DefaultColumnWidths()
	pick := func(v, fallback int) int {
		if v > 0 {
			return v
		}
		return fallback
	}
	switch interval {
	case timemath.Hour:
		return pick(w.Hour, def.Hour)
	case timemath.Day:
		return pick(w.Day, def.Day)
	case timemath.Month:
		return pick(w.Month, def.Month)
	default:
		return 1
	}
}

// Diagnostic pairs a hidden region with the reason it is hidden.
type Diagnostic struct {
	RegionID string
	Label    string
	Err      error
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s (%s): %v", d.Label, d.RegionID, d.Err)
}

// Track is a horizontal lane that places its regions on a column grid.
type Track struct {
	id       string
	label    string
	rng      timemath.Range
	hasRange bool
	regions  []*Region

	widths      ColumnWidths
	headerWidth int
	logger      *logging.Logger

	timeline *Timeline
	passes   int
}

// TrackOption configures a Track.
type TrackOption func(*Track)

// WithTrackID sets the track identifier instead of a generated UUID.
func WithTrackID(id string) TrackOption {
	return func(t *Track) {
		if id != "" {
			t.id = id
		}
	}
}

// WithTrackLogger sets the diagnostics logger for a standalone track.
// A track added to a Timeline uses the timeline's logger.
func WithTrackLogger(l *logging.Logger) TrackOption {
	return func(t *Track) {
		if l != nil {
			t.logger = l
		}
	}
}

// WithTrackColumnWidths sets the base column widths for a standalone track.
func WithTrackColumnWidths(w ColumnWidths) TrackOption {
	return func(t *Track) { t.widths = w }
}

// NewTrack creates an empty track. It has no range until SetRange is called
// or it is added to a Timeline.
func NewTrack(label string, opts ...TrackOption) *Track {
	t := &Track{
		id:          uuid.NewString(),
		label:       label,
		widths:      DefaultColumnWidths(),
		headerWidth: DefaultHeaderWidth,
		logger:      logging.Nop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// ID returns the track identifier.
func (t *Track) ID() string { return t.id }

// Label returns the track label.
func (t *Track) Label() string { return t.label }

// SetLabel replaces the track label.
func (t *Track) SetLabel(label string) { t.label = label }

// Range returns the observed range and whether one has been assigned.
func (t *Track) Range() (timemath.Range, bool) { return t.rng, t.hasRange }

// Timeline returns the owning timeline, or nil.
func (t *Track) Timeline() *Timeline { return t.timeline }

// Passes returns the number of layout passes run so far.
func (t *Track) Passes() int { return t.passes }

// SetRange replaces the observed range and lays out. An invalid range fails
// without touching state. Assigning a range equal to the current one is a
// no-op; the first assignment always lays out.
func (t *Track) SetRange(rng timemath.Range) error {
	if err := rng.Validate(); err != nil {
		return err
	}
	if t.hasRange && t.rng.Equal(rng) {
		return nil
	}
	t.rng = rng
	t.hasRange = true
	t.Layout()
	return nil
}

// Regions returns the regions in insertion order.
func (t *Track) Regions() []*Region {
	out := make([]*Region, len(t.regions))
	copy(out, t.regions)
	return out
}

// Len returns the number of regions.
func (t *Track) Len() int { return len(t.regions) }

// Region returns the region with id.
func (t *Track) Region(id string) (*Region, error) {
	for _, r := range t.regions {
		if r.id == id {
			return r, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrRegionNotFound, id)
}

// Add appends r and lays out once. A region owned by another track is
// removed from it first. Adding a region the track already owns is a no-op.
func (t *Track) Add(r *Region) error {
	if r == nil {
		return fmt.Errorf("%w: nil region", ErrInvalidRegion)
	}
	if r.track == t {
		return nil
	}
	if r.track != nil {
		r.track.Remove(r)
	}

	t.regions = append(t.regions, r)
	r.track = t
	r.sub = r.notifier.Subscribe(t.regionChanged)
	t.Layout()
	return nil
}

// Remove detaches r and lays out once. It reports whether r was present.
func (t *Track) Remove(r *Region) bool {
	if r == nil || r.track != t {
		return false
	}
	for i, cur := range t.regions {
		if cur != r {
			continue
		}
		t.regions = append(t.regions[:i], t.regions[i+1:]...)
		r.sub.Unsubscribe()
		r.sub = nil
		r.track = nil
		r.reset()
		t.Layout()
		return true
	}
	return false
}

// RemoveID detaches the region with id.
func (t *Track) RemoveID(id string) error {
	r, err := t.Region(id)
	if err != nil {
		return err
	}
	t.Remove(r)
	return nil
}

func (t *Track) regionChanged(change notify.Change) {
	switch change.Kind {
	case notify.KindBounds:
		t.Layout()
	case notify.KindLabel:
		t.changed()
	}
}

// Layout places every region against the current range. Invalid regions
// are hidden with a diagnostic and never stop the pass. Running Layout
// again with unchanged inputs gives identical placements.
func (t *Track) Layout() {
	t.passes++
	for _, r := range t.regions {
		t.place(r)
	}
	t.changed()
}

func (t *Track) place(r *Region) {
	if !t.hasRange {
		r.reset()
		return
	}
	r.timezone = t.rng.Timezone

	if err := ValidateRegion(r.start, r.end, t.rng); err != nil {
		t.hide(r, err)
		return
	}

	partial, visible := r.Classify(t.rng)
	if !visible {
		t.hide(r, newValidationError(ErrOutOfRange, "The Time Region does not overlap the Timeline's range"))
		return
	}

	effStart := t.rng.Clamp(r.start)
	effEnd := t.rng.Clamp(r.end)

	r.partial = partial
	r.visible = true
	r.diagnostic = nil
	r.placement = Placement{
		Row:         1,
		ColumnStart: t.column(effStart),
		ColumnEnd:   t.column(effEnd),
	}
}

// hide marks r hidden. The diagnostic is logged only when it is new, so
// repeated passes over an unchanged hidden region stay quiet.
func (t *Track) hide(r *Region, err error) {
	if r.diagnostic == nil || r.diagnostic.Error() != err.Error() {
		t.logger.WithFields(map[string]any{
			"region": r.id,
			"track":  t.label,
		}).Warn("%s", err.Error())
	}
	r.partial = PartialNone
	r.visible = false
	r.placement = Placement{}
	r.diagnostic = err
}

func (t *Track) column(at time.Time) int {
	return gridColumn(t.rng, at)
}

// gridColumn maps at, which must lie within rng, onto a grid column.
func gridColumn(rng timemath.Range, at time.Time) int {
	return timemath.DifferenceInUnitsIn(rng.Start, at, timemath.ColumnUnit(rng.Interval), rng.Location()) + 2
}

func columnWidth(rng timemath.Range, widths ColumnWidths) int {
	w := int(math.Round(rng.Zoom * float64(widths.For(rng.Interval))))
	if w < 1 {
		return 1
	}
	return w
}

// Column maps an instant onto a grid column, clamped to the range.
func (t *Track) Column(at time.Time) int {
	if !t.hasRange {
		return 0
	}
	return t.column(t.rng.Clamp(at))
}

// Columns returns the number of time columns.
func (t *Track) Columns() int {
	if !t.hasRange {
		return 0
	}
	return t.rng.Columns()
}

// ColumnWidth returns the pixel width of one time column at the current zoom.
func (t *Track) ColumnWidth() int {
	if !t.hasRange {
		return 0
	}
	return columnWidth(t.rng, t.widths)
}

// HeaderWidth returns the header column width in pixels.
func (t *Track) HeaderWidth() int { return t.headerWidth }

// Template returns the grid column template:
//
//	[header] 200px repeat(N, Wpx)
func (t *Track) Template() string {
	return fmt.Sprintf("[header] %dpx repeat(%d, %dpx)", t.headerWidth, t.Columns(), t.ColumnWidth())
}

// Diagnostics returns the hidden regions and why, in region order.
func (t *Track) Diagnostics() []Diagnostic {
	var out []Diagnostic
	for _, r := range t.regions {
		if r.diagnostic != nil {
			out = append(out, Diagnostic{RegionID: r.id, Label: r.label, Err: r.diagnostic})
		}
	}
	return out
}

func (t *Track) changed() {
	if t.timeline != nil {
		t.timeline.trackChanged(t)
	}
}
