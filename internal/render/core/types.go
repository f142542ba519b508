// Package core holds the cell and style types shared by the render
// backends, the terminal view and the SVG exporter.
package core

import (
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/rivo/uniseg"
)

// Attribute is a set of text attributes.
type Attribute uint8

// Text attribute flags.
const (
	AttrNone Attribute = 0
	AttrBold Attribute = 1 << iota
	AttrDim
	AttrUnderline
	AttrReverse
)

// Has reports whether a contains attr.
func (a Attribute) Has(attr Attribute) bool {
	return a&attr != 0
}

// Color is an RGB color or the terminal default.
type Color struct {
	R, G, B uint8
	// Default selects the terminal's own color; R, G and B are ignored.
	Default bool
}

// ColorDefault is the terminal's default color.
var ColorDefault = Color{Default: true}

// ColorFromRGB creates a color from components.
func ColorFromRGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b}
}

// ColorFromHex parses "#rrggbb" or "#rgb".
func ColorFromHex(hex string) (Color, error) {
	s := strings.TrimSpace(hex)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	if len(s) == 4 {
		s = "#" + strings.Repeat(s[1:2], 2) + strings.Repeat(s[2:3], 2) + strings.Repeat(s[3:4], 2)
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, fmt.Errorf("invalid hex color %q: %w", hex, err)
	}
	return fromColorful(c), nil
}

// MustColorFromHex is like ColorFromHex but panics on error.
func MustColorFromHex(hex string) Color {
	c, err := ColorFromHex(hex)
	if err != nil {
		panic(err)
	}
	return c
}

func fromColorful(c colorful.Color) Color {
	r, g, b := c.Clamped().RGB255()
	return Color{R: r, G: g, B: b}
}

func (c Color) colorful() colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

// Blend mixes c toward other by t (0 keeps c, 1 gives other) in Lab space.
// Blending with the default color returns c unchanged.
func (c Color) Blend(other Color, t float64) Color {
	if c.Default || other.Default {
		return c
	}
	return fromColorful(c.colorful().BlendLab(other.colorful(), t))
}

// Luminance returns the perceived lightness in [0, 1].
func (c Color) Luminance() float64 {
	if c.Default {
		return 0
	}
	l, _, _ := c.colorful().Lab()
	return l
}

// Contrast returns black or white, whichever reads better on c.
func (c Color) Contrast() Color {
	if c.Luminance() > 0.6 {
		return ColorFromRGB(0, 0, 0)
	}
	return ColorFromRGB(255, 255, 255)
}

// Hex returns "#rrggbb", or "" for the default color.
func (c Color) Hex() string {
	if c.Default {
		return ""
	}
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// String returns a readable form of the color.
func (c Color) String() string {
	if c.Default {
		return "default"
	}
	return c.Hex()
}

// Style is a cell's colors and attributes.
type Style struct {
	Foreground Color
	Background Color
	Attributes Attribute
}

// DefaultStyle uses the terminal's default colors.
func DefaultStyle() Style {
	return Style{Foreground: ColorDefault, Background: ColorDefault}
}

// NewStyle creates a style with both colors set.
func NewStyle(fg, bg Color) Style {
	return Style{Foreground: fg, Background: bg}
}

// WithForeground returns s with fg.
func (s Style) WithForeground(fg Color) Style {
	s.Foreground = fg
	return s
}

// WithBackground returns s with bg.
func (s Style) WithBackground(bg Color) Style {
	s.Background = bg
	return s
}

// Bold returns s with bold added.
func (s Style) Bold() Style {
	s.Attributes |= AttrBold
	return s
}

// Dim returns s with dim added.
func (s Style) Dim() Style {
	s.Attributes |= AttrDim
	return s
}

// Underline returns s with underline added.
func (s Style) Underline() Style {
	s.Attributes |= AttrUnderline
	return s
}

// Cell is one terminal cell.
type Cell struct {
	Rune  rune
	Style Style
}

// EmptyCell returns a blank cell in the default style.
func EmptyCell() Cell {
	return Cell{Rune: ' ', Style: DefaultStyle()}
}

// NewCell creates a cell.
func NewCell(r rune, style Style) Cell {
	return Cell{Rune: r, Style: style}
}

// Rect is a cell rectangle; Right and Bottom are exclusive.
type Rect struct {
	Left, Top, Right, Bottom int
}

// RectFromSize builds a rect from an origin and size.
func RectFromSize(left, top, width, height int) Rect {
	return Rect{Left: left, Top: top, Right: left + width, Bottom: top + height}
}

// Width returns the rect width.
func (r Rect) Width() int { return max(0, r.Right-r.Left) }

// Height returns the rect height.
func (r Rect) Height() int { return max(0, r.Bottom-r.Top) }

// Empty reports whether the rect has no area.
func (r Rect) Empty() bool { return r.Width() == 0 || r.Height() == 0 }

// StringWidth returns the display width of s in cells.
func StringWidth(s string) int {
	return uniseg.StringWidth(s)
}

// Truncate shortens s to at most width cells, ending with ellipsis when
// anything was cut and there is room for it.
func Truncate(s string, width int, ellipsis string) string {
	if width <= 0 {
		return ""
	}
	if StringWidth(s) <= width {
		return s
	}
	ew := StringWidth(ellipsis)
	if ew >= width {
		ellipsis, ew = "", 0
	}

	var b strings.Builder
	used := 0
	state := -1
	rest := s
	for len(rest) > 0 {
		var cluster string
		var w int
		cluster, rest, w, state = uniseg.FirstGraphemeClusterInString(rest, state)
		if used+w > width-ew {
			break
		}
		b.WriteString(cluster)
		used += w
	}
	b.WriteString(ellipsis)
	return b.String()
}

// Graphemes splits s into clusters with their widths.
func Graphemes(s string) (clusters []string, widths []int) {
	state := -1
	rest := s
	for len(rest) > 0 {
		var cluster string
		var w int
		cluster, rest, w, state = uniseg.FirstGraphemeClusterInString(rest, state)
		clusters = append(clusters, cluster)
		widths = append(widths, w)
	}
	return clusters, widths
}
