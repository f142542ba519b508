// Package svg exports a laid-out timeline as a standalone SVG document.
//
// Geometry follows the grid: a track header of HeaderWidth pixels, then one
// column per grid column at ColumnWidth()*Scale pixels.
package svg

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dshills/timegrid/internal/config"
	"github.com/dshills/timegrid/internal/render/view"
	"github.com/dshills/timegrid/internal/timeline"
)

// Options controls export geometry and colors.
type Options struct {
	RowHeight   int
	RulerHeight int
	// Scale multiplies column widths. Values <= 0 mean 1.
	Scale      float64
	FontFamily string
	FontSize   int
	Theme      view.Theme
}

// DefaultOptions returns the configuration defaults with the dark theme.
func DefaultOptions() Options {
	return Options{
		RowHeight:   40,
		RulerHeight: 30,
		Scale:       0.25,
		FontFamily:  "sans-serif",
		FontSize:    12,
		Theme:       view.ThemeByName("dark"),
	}
}

// OptionsFromConfig builds options from the svg config section.
func OptionsFromConfig(cfg config.SVGConfig, theme view.Theme) Options {
	opts := DefaultOptions()
	if cfg.RowHeight > 0 {
		opts.RowHeight = cfg.RowHeight
	}
	if cfg.RulerHeight > 0 {
		opts.RulerHeight = cfg.RulerHeight
	}
	if cfg.Scale > 0 {
		opts.Scale = cfg.Scale
	}
	if cfg.FontFamily != "" {
		opts.FontFamily = cfg.FontFamily
	}
	if cfg.FontSize > 0 {
		opts.FontSize = cfg.FontSize
	}
	opts.Theme = theme
	return opts
}

// Write renders tl to w.
func Write(w io.Writer, tl *timeline.Timeline, opts Options) error {
	_, err := io.WriteString(w, Render(tl, opts))
	return err
}

type geometry struct {
	header  float64
	column  float64
	columns int
	ruler   float64
	row     float64
}

func (g geometry) x(col int) float64 {
	return g.header + float64(col-2)*g.column
}

func (g geometry) width() float64 {
	return g.header + float64(g.columns)*g.column
}

// Render returns the SVG document for tl.
func Render(tl *timeline.Timeline, opts Options) string {
	if opts.Scale <= 0 {
		opts.Scale = 1
	}
	if opts.FontSize <= 0 {
		opts.FontSize = 12
	}
	g := geometry{
		header:  float64(tl.HeaderWidth()),
		column:  float64(tl.ColumnWidth()) * opts.Scale,
		columns: tl.Columns(),
		ruler:   float64(opts.RulerHeight),
		row:     float64(opts.RowHeight),
	}
	tracks := tl.Tracks()
	width := g.width()
	height := g.ruler + float64(len(tracks))*g.row
	th := opts.Theme

	var svg strings.Builder
	fmt.Fprintf(&svg, `<?xml version="1.0" encoding="UTF-8"?>
<svg width="%s" height="%s" viewBox="0 0 %s %s" xmlns="http://www.w3.org/2000/svg">
<defs>
<style>
text { font-family: %s; font-size: %dpx; fill: %s; }
.ruler-text { fill: %s; }
.track-header { fill: %s; }
.rux-time-region rect { fill: %s; }
.rux-time-region--partial-start rect, .rux-time-region--partial-end rect { fill: %s; }
.rux-time-region text { fill: %s; }
.marker-position { stroke: %s; }
.marker-aos { stroke: %s; }
.marker-los { stroke: %s; }
</style>
</defs>
<rect width="100%%" height="100%%" fill="%s"/>
`,
		num(width), num(height), num(width), num(height),
		escapeXML(opts.FontFamily), opts.FontSize, th.Foreground.Hex(),
		th.Ruler.Hex(), th.Header.Hex(),
		th.Region.Hex(), th.Partial.Hex(), th.Region.Contrast().Hex(),
		th.Playhead.Hex(), th.AOS.Hex(), th.LOS.Hex(),
		th.Background.Hex())

	writeRuler(&svg, tl, g, opts)
	for i, tr := range tracks {
		writeTrack(&svg, tr, g, g.ruler+float64(i)*g.row, opts)
	}
	for _, m := range tl.Markers() {
		x := g.x(m.Column)
		fmt.Fprintf(&svg, `<line class="marker marker-%s" x1="%s" y1="0" x2="%s" y2="%s" stroke-width="2"><title>%s %s</title></line>
`,
			m.Kind, num(x), num(x), num(height), m.Kind, m.At.UTC().Format("2006-01-02T15:04:05Z"))
	}

	svg.WriteString("</svg>\n")
	return svg.String()
}

func writeRuler(svg *strings.Builder, tl *timeline.Timeline, g geometry, opts Options) {
	fmt.Fprintf(svg, `<g class="ruler">
<rect class="track-header" x="0" y="0" width="%s" height="%s"/>
<text x="8" y="%s">%s</text>
`, num(g.header), num(g.ruler), num(g.ruler*0.65), escapeXML(tl.Timezone()))

	next := g.header
	for _, b := range tl.Axis() {
		x := g.x(tl.Column(b.At))
		fmt.Fprintf(svg, `<line x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s"/>
`, num(x), num(g.ruler*0.75), num(x), num(g.ruler), opts.Theme.Ruler.Hex())

		label := b.Label
		if label == "" {
			label = b.At.Format("Jan 2006")
		}
		if x < next {
			continue
		}
		fmt.Fprintf(svg, `<text class="ruler-text" x="%s" y="%s">%s</text>
`, num(x+2), num(g.ruler*0.65), escapeXML(label))
		next = x + estimateTextWidth(label, opts.FontSize) + 4
	}
	svg.WriteString("</g>\n")
}

func writeTrack(svg *strings.Builder, tr *timeline.Track, g geometry, y float64, opts Options) {
	fmt.Fprintf(svg, `<g class="track" data-track-id="%s" data-template="%s">
<rect class="track-header" x="0" y="%s" width="%s" height="%s"/>
<text x="8" y="%s">%s</text>
<line x1="0" y1="%s" x2="%s" y2="%s" stroke="%s"/>
`,
		escapeXML(tr.ID()), escapeXML(tr.Template()),
		num(y), num(g.header), num(g.row),
		num(y+g.row/2+float64(opts.FontSize)/3), escapeXML(tr.Label()),
		num(y+g.row), num(g.width()), num(y+g.row), opts.Theme.Header.Hex())

	for _, r := range tr.Regions() {
		if !r.Visible() {
			continue
		}
		writeRegion(svg, r, g, y, opts)
	}
	svg.WriteString("</g>\n")
}

func writeRegion(svg *strings.Builder, r *timeline.Region, g geometry, y float64, opts Options) {
	p := r.Placement()
	x0 := g.x(p.ColumnStart)
	w := max(float64(p.Span())*g.column, 1)
	pad := g.row * 0.15

	title := r.Label()
	if tl := r.TimeLabel(); tl != "" {
		title += " (" + tl + ")"
	}
	fmt.Fprintf(svg, `<g class="%s" data-region-id="%s" data-partial="%s" data-grid-column="%s">
<title>%s</title>
<rect x="%s" y="%s" width="%s" height="%s" rx="3"/>
`,
		strings.Join(r.Partial().Classes(), " "), escapeXML(r.ID()), r.Partial(), p,
		escapeXML(title),
		num(x0), num(y+pad), num(w), num(g.row-2*pad))

	// Labels that would overflow the region are omitted; the title keeps them.
	if estimateTextWidth(r.Label(), opts.FontSize)+8 <= w {
		fmt.Fprintf(svg, `<text x="%s" y="%s">%s</text>
`, num(x0+4), num(y+g.row/2+float64(opts.FontSize)/3), escapeXML(r.Label()))
	}
	svg.WriteString("</g>\n")
}

// estimateTextWidth approximates rendered width from the character count.
func estimateTextWidth(text string, fontSize int) float64 {
	return float64(len([]rune(text))) * float64(fontSize) * 0.6
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func escapeXML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, "\"", "&quot;")
	s = strings.ReplaceAll(s, "'", "&apos;")
	return s
}
