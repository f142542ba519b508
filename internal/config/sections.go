package config

import (
	"errors"
	"time"
)

// Section accessors return snapshots. Mutating the returned struct does not
// change the configuration.

// TimelineConfig holds the defaults applied to documents that leave a
// field unset.
type TimelineConfig struct {
	// Interval is "hour", "day" or "month".
	Interval string
	// Zoom is the zoom factor.
	Zoom float64
	// Timezone is the IANA display zone.
	Timezone string
	// Timezones is the list cycled by the viewer's timezone key.
	Timezones []string
}

// LayoutConfig holds grid geometry.
type LayoutConfig struct {
	// HeaderWidth is the track header width in pixels.
	HeaderWidth int
	// HourColumnWidth is the base width of a minute column at hour interval.
	HourColumnWidth int
	// DayColumnWidth is the base width of an hour column at day interval.
	DayColumnWidth int
	// MonthColumnWidth is the base width of a day column at month interval.
	MonthColumnWidth int
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level string
	// File receives log output when set; otherwise stderr.
	File string
}

// RenderConfig holds viewer colors.
type RenderConfig struct {
	// Theme names a built-in palette ("dark" or "light").
	Theme string
	// Colors overrides palette entries by role, as hex strings.
	Colors map[string]string
}

// WatchConfig holds document watching settings.
type WatchConfig struct {
	Enabled  bool
	Debounce time.Duration
}

// SVGConfig holds SVG export geometry.
type SVGConfig struct {
	RowHeight   int
	RulerHeight int
	// Scale multiplies grid pixel widths to keep exported files manageable.
	Scale      float64
	FontFamily string
	FontSize   int
}

// Timeline returns the timeline defaults.
func (c *Config) Timeline() TimelineConfig {
	return TimelineConfig{
		Interval:  c.getStringOr("timeline.interval", "hour"),
		Zoom:      c.getFloatOr("timeline.zoom", 1),
		Timezone:  c.getStringOr("timeline.timezone", "UTC"),
		Timezones: c.getStringSliceOr("timeline.timezones", []string{"UTC"}),
	}
}

// Layout returns grid geometry.
func (c *Config) Layout() LayoutConfig {
	return LayoutConfig{
		HeaderWidth:      c.getIntOr("layout.headerWidth", 200),
		HourColumnWidth:  c.getIntOr("layout.hourColumnWidth", 2),
		DayColumnWidth:   c.getIntOr("layout.dayColumnWidth", 60),
		MonthColumnWidth: c.getIntOr("layout.monthColumnWidth", 40),
	}
}

// Logging returns logger settings.
func (c *Config) Logging() LoggingConfig {
	return LoggingConfig{
		Level: c.getStringOr("logging.level", "info"),
		File:  c.getStringOr("logging.file", ""),
	}
}

// Render returns viewer colors.
func (c *Config) Render() RenderConfig {
	colors, err := c.GetStringMap("render.colors")
	if err != nil {
		if !errors.Is(err, ErrSettingNotFound) {
			c.recordConfigError("render.colors", err)
		}
		colors = map[string]string{}
	}
	return RenderConfig{
		Theme:  c.getStringOr("render.theme", "dark"),
		Colors: colors,
	}
}

// Watch returns document watching settings.
func (c *Config) Watch() WatchConfig {
	return WatchConfig{
		Enabled:  c.getBoolOr("watch.enabled", false),
		Debounce: c.getDurationOr("watch.debounce", 200*time.Millisecond),
	}
}

// SVG returns export geometry.
func (c *Config) SVG() SVGConfig {
	return SVGConfig{
		RowHeight:   c.getIntOr("svg.rowHeight", 40),
		RulerHeight: c.getIntOr("svg.rulerHeight", 30),
		Scale:       c.getFloatOr("svg.scale", 0.25),
		FontFamily:  c.getStringOr("svg.fontFamily", "sans-serif"),
		FontSize:    c.getIntOr("svg.fontSize", 12),
	}
}

// The ...Or helpers return the default when a setting is missing. A value
// of the wrong type also yields the default and is recorded.

func (c *Config) getStringOr(path, def string) string {
	v, err := c.GetString(path)
	if err != nil {
		c.noteError(path, err)
		return def
	}
	return v
}

func (c *Config) getIntOr(path string, def int) int {
	v, err := c.GetInt(path)
	if err != nil {
		c.noteError(path, err)
		return def
	}
	return v
}

func (c *Config) getFloatOr(path string, def float64) float64 {
	v, err := c.GetFloat(path)
	if err != nil {
		c.noteError(path, err)
		return def
	}
	return v
}

func (c *Config) getBoolOr(path string, def bool) bool {
	v, err := c.GetBool(path)
	if err != nil {
		c.noteError(path, err)
		return def
	}
	return v
}

func (c *Config) getDurationOr(path string, def time.Duration) time.Duration {
	v, err := c.GetDuration(path)
	if err != nil {
		c.noteError(path, err)
		return def
	}
	return v
}

func (c *Config) getStringSliceOr(path string, def []string) []string {
	v, err := c.GetStringSlice(path)
	if err != nil {
		c.noteError(path, err)
		out := make([]string, len(def))
		copy(out, def)
		return out
	}
	return v
}

func (c *Config) noteError(path string, err error) {
	if !errors.Is(err, ErrSettingNotFound) {
		c.recordConfigError(path, err)
	}
}
