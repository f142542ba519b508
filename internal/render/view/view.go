// Package view draws a laid-out timeline onto a terminal backend.
//
// The screen is split into a title row, a ruler row, two rows per track and
// a status row. The track header occupies a fixed number of cells on the
// left; the rest of the width shows the whole range, so each cell covers
// Columns()/width grid columns.
package view

import (
	"fmt"
	"strings"

	"github.com/dshills/timegrid/internal/render/backend"
	"github.com/dshills/timegrid/internal/render/core"
	"github.com/dshills/timegrid/internal/timeline"
	"github.com/dshills/timegrid/internal/timemath"
)

// DefaultHeaderCells is the track header width in cells.
const DefaultHeaderCells = 16

// Rows each track occupies: region labels, then region times.
const trackRows = 2

// Glyphs.
const (
	glyphPartialStart = '◀'
	glyphPartialEnd   = '▶'
	glyphPlayhead     = '▼'
	glyphAOS          = 'A'
	glyphLOS          = 'L'
	glyphMarkerLine   = '│'
	ellipsis          = "…"
)

// HelpText lists the viewer keys.
const HelpText = "q quit  h/d/m interval  +/- zoom  ←/→ pan  t zone  r reload"

// View renders timelines into a backend.
type View struct {
	backend     backend.Backend
	theme       Theme
	headerCells int
	status      string
	statusErr   bool
}

// Option configures a View.
type Option func(*View)

// WithHeaderCells sets the track header width.
func WithHeaderCells(n int) Option {
	return func(v *View) {
		if n > 0 {
			v.headerCells = n
		}
	}
}

// New creates a view drawing into b.
func New(b backend.Backend, theme Theme, opts ...Option) *View {
	v := &View{
		backend:     b,
		theme:       theme.withPartial(),
		headerCells: DefaultHeaderCells,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Theme returns the active theme.
func (v *View) Theme() Theme { return v.theme }

// SetStatus sets the message shown in the status row.
func (v *View) SetStatus(msg string) {
	v.status, v.statusErr = msg, false
}

// SetError shows err in the status row in the error color.
func (v *View) SetError(err error) {
	if err == nil {
		v.SetStatus("")
		return
	}
	v.status, v.statusErr = err.Error(), true
}

// Status returns the status message.
func (v *View) Status() string { return v.status }

// Draw renders tl and flushes the backend.
func (v *View) Draw(tl *timeline.Timeline) {
	width, height := v.backend.Size()
	if width <= 0 || height <= 0 {
		return
	}

	g := grid{
		left:    min(v.headerCells, width),
		width:   width,
		columns: tl.Columns(),
	}
	base := core.NewStyle(v.theme.Foreground, v.theme.Background)
	v.backend.Fill(core.RectFromSize(0, 0, width, height), core.NewCell(' ', base))

	v.drawTitle(tl, width)
	if height > 1 {
		v.drawRuler(tl, g)
	}

	bottom := height - 1
	y := 2
	for _, tr := range tl.Tracks() {
		if y+trackRows > bottom {
			break
		}
		v.drawTrack(tr, g, y)
		y += trackRows
	}
	if height > 2 {
		v.drawMarkers(tl, g, 1, min(y, bottom))
		v.drawStatus(tl, width, bottom)
	}

	v.backend.Show()
}

// grid maps grid columns onto screen cells.
type grid struct {
	left    int
	width   int
	columns int
}

// x returns the cell of grid column col. Grid columns start at 2.
func (g grid) x(col int) int {
	span := g.width - g.left
	if g.columns <= 0 || span <= 0 {
		return g.left
	}
	return g.left + (col-2)*span/g.columns
}

func (v *View) put(x, y int, s string, style core.Style, limit int) int {
	clusters, widths := core.Graphemes(s)
	for i, c := range clusters {
		w := widths[i]
		if w == 0 {
			continue
		}
		if x+w > limit {
			break
		}
		r := []rune(c)[0]
		v.backend.SetCell(x, y, core.NewCell(r, style))
		for k := 1; k < w; k++ {
			v.backend.SetCell(x+k, y, core.NewCell(0, style))
		}
		x += w
	}
	return x
}

func (v *View) drawTitle(tl *timeline.Timeline, width int) {
	style := core.NewStyle(v.theme.Foreground, v.theme.Header).Bold()
	v.backend.Fill(core.RectFromSize(0, 0, width, 1), core.NewCell(' ', style))

	rng := tl.Range()
	loc := rng.Location()
	title := fmt.Sprintf(" %s to %s  %s  x%g  %s",
		rng.Start.In(loc).Format("2006-01-02 15:04"),
		rng.End.In(loc).Format("2006-01-02 15:04"),
		rng.Interval, rng.Zoom, loc)
	v.put(0, 0, core.Truncate(title, width, ellipsis), style, width)
}

func (v *View) drawRuler(tl *timeline.Timeline, g grid) {
	style := core.NewStyle(v.theme.Ruler, v.theme.Background)
	head := core.NewStyle(v.theme.Ruler, v.theme.Header)
	v.backend.Fill(core.RectFromSize(0, 1, g.left, 1), core.NewCell(' ', head))
	v.put(1, 1, core.Truncate(tl.Timezone(), g.left-1, ellipsis), head, g.left)

	next := g.left
	for _, b := range tl.Axis() {
		x := g.x(tl.Column(b.At))
		if x < next {
			continue
		}
		label := b.Label
		if label == "" {
			label = monthLabel(b, tl.Interval())
		}
		end := v.put(x, 1, label, style, g.width)
		next = end + 1
	}
}

func monthLabel(b timemath.Bucket, interval timemath.Unit) string {
	if interval == timemath.Month {
		return b.At.Format("Jan")
	}
	return b.At.Format("01/02")
}

func (v *View) drawTrack(tr *timeline.Track, g grid, y int) {
	head := core.NewStyle(v.theme.Foreground, v.theme.Header).Bold()
	v.backend.Fill(core.RectFromSize(0, y, g.left, trackRows), core.NewCell(' ', core.NewStyle(v.theme.Foreground, v.theme.Header)))
	v.put(1, y, core.Truncate(tr.Label(), g.left-2, ellipsis), head, g.left-1)

	if n := len(tr.Diagnostics()); n > 0 {
		warn := core.NewStyle(v.theme.Error, v.theme.Header)
		v.put(1, y+1, core.Truncate(fmt.Sprintf("%d hidden", n), g.left-2, ellipsis), warn, g.left-1)
	}

	for _, r := range tr.Regions() {
		if !r.Visible() {
			continue
		}
		v.drawRegion(r, g, y)
	}
}

func (v *View) drawRegion(r *timeline.Region, g grid, y int) {
	p := r.Placement()
	x0 := max(g.x(p.ColumnStart), g.left)
	x1 := min(g.x(p.ColumnEnd), g.width)
	if x1 <= x0 {
		x1 = min(x0+1, g.width)
	}
	if x1 <= x0 {
		return
	}

	fill := v.theme.Region
	partial := r.Partial()
	if partial != timeline.PartialNone {
		fill = v.theme.Partial
	}
	style := core.NewStyle(fill.Contrast(), fill)
	v.backend.Fill(core.Rect{Left: x0, Top: y, Right: x1, Bottom: y + trackRows}, core.NewCell(' ', style))

	left, right := x0, x1
	if partial.StartClipped() {
		v.backend.SetCell(x0, y, core.NewCell(glyphPartialStart, style))
		left++
	}
	if partial.EndClipped() && x1-1 >= left {
		v.backend.SetCell(x1-1, y, core.NewCell(glyphPartialEnd, style))
		right--
	}
	if right > left {
		v.put(left, y, core.Truncate(r.Label(), right-left, ellipsis), style.Bold(), right)
	}
	v.put(x0, y+1, core.Truncate(r.TimeLabel(), x1-x0, ellipsis), style.Dim(), x1)
}

func (v *View) drawMarkers(tl *timeline.Timeline, g grid, top, bottom int) {
	for _, m := range tl.Markers() {
		x := min(g.x(m.Column), g.width-1)
		if x < g.left {
			continue
		}
		color, glyph := v.markerStyle(m.Kind)
		v.backend.SetCell(x, top, core.NewCell(glyph, core.NewStyle(color, v.theme.Background).Bold()))
		for y := top + 1; y < bottom; y++ {
			under := v.backend.GetCell(x, y)
			bg := under.Style.Background
			if bg.Default {
				bg = v.theme.Background
			}
			v.backend.SetCell(x, y, core.NewCell(glyphMarkerLine, core.NewStyle(color, bg)))
		}
	}
}

func (v *View) markerStyle(kind timeline.MarkerKind) (core.Color, rune) {
	switch kind {
	case timeline.MarkerAOS:
		return v.theme.AOS, glyphAOS
	case timeline.MarkerLOS:
		return v.theme.LOS, glyphLOS
	default:
		return v.theme.Playhead, glyphPlayhead
	}
}

func (v *View) drawStatus(tl *timeline.Timeline, width, y int) {
	style := core.NewStyle(v.theme.Foreground, v.theme.Status)
	v.backend.Fill(core.RectFromSize(0, y, width, 1), core.NewCell(' ', style))

	hidden := len(tl.Diagnostics())
	parts := []string{fmt.Sprintf(" %d tracks", len(tl.Tracks()))}
	if hidden > 0 {
		parts = append(parts, fmt.Sprintf("%d hidden", hidden))
	}
	left := strings.Join(parts, "  ")
	x := v.put(0, y, left, style, width)

	if v.status != "" {
		st := style
		if v.statusErr {
			st = st.WithForeground(v.theme.Error).Bold()
		}
		x = v.put(x+2, y, core.Truncate(v.status, max(0, width-x-2), ellipsis), st, width)
	}

	help := HelpText
	if hx := width - core.StringWidth(help) - 1; hx > x+2 {
		v.put(hx, y, help, style.Dim(), width)
	}
}
