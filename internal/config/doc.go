// Package config provides timegrid's layered settings.
//
// Layers, lowest to highest priority:
//
//	1. built-in defaults
//	2. TOML file (-config, or $XDG_CONFIG_HOME/timegrid/config.toml)
//	3. TIMEGRID_* environment variables
//	4. overrides set at runtime (command-line flags)
//
// Section accessors (Timeline, Layout, Logging, Render, Watch, SVG) return
// snapshot structs. A value of the wrong type falls back to its default and
// is recorded; ConfigErrors reports what was ignored.
package config
