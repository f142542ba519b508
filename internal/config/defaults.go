package config

// Defaults returns the built-in settings.
func Defaults() map[string]any {
	return map[string]any{
		"timeline": map[string]any{
			"interval":  "hour",
			"zoom":      1.0,
			"timezone":  "UTC",
			"timezones": []any{"UTC", "America/New_York", "Europe/London", "Asia/Tokyo"},
		},
		"layout": map[string]any{
			"headerWidth":      int64(200),
			"hourColumnWidth":  int64(2),
			"dayColumnWidth":   int64(60),
			"monthColumnWidth": int64(40),
		},
		"logging": map[string]any{
			"level": "info",
			"file":  "",
		},
		"render": map[string]any{
			"theme":  "dark",
			"colors": map[string]any{},
		},
		"watch": map[string]any{
			"enabled":  false,
			"debounce": "200ms",
		},
		"svg": map[string]any{
			"rowHeight":   int64(40),
			"rulerHeight": int64(30),
			"scale":       0.25,
			"fontFamily":  "sans-serif",
			"fontSize":    int64(12),
		},
	}
}
