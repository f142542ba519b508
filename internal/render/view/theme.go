package view

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dshills/timegrid/internal/config"
	"github.com/dshills/timegrid/internal/render/core"
)

// Theme is the viewer palette.
type Theme struct {
	Name       string
	Background core.Color
	Foreground core.Color
	Header     core.Color
	Ruler      core.Color
	Region     core.Color
	// Partial fills regions clipped by the range. Zero value means a blend
	// of Region toward Background.
	Partial  core.Color
	Playhead core.Color
	AOS      core.Color
	LOS      core.Color
	Status   core.Color
	Error    core.Color
}

var themes = map[string]Theme{
	"dark": {
		Name:       "dark",
		Background: core.MustColorFromHex("#1b1d23"),
		Foreground: core.MustColorFromHex("#d7dae0"),
		Header:     core.MustColorFromHex("#2c313c"),
		Ruler:      core.MustColorFromHex("#8b93a5"),
		Region:     core.MustColorFromHex("#3f7fd9"),
		Playhead:   core.MustColorFromHex("#e5c07b"),
		AOS:        core.MustColorFromHex("#98c379"),
		LOS:        core.MustColorFromHex("#e06c75"),
		Status:     core.MustColorFromHex("#21252b"),
		Error:      core.MustColorFromHex("#e06c75"),
	},
	"light": {
		Name:       "light",
		Background: core.MustColorFromHex("#fafafa"),
		Foreground: core.MustColorFromHex("#383a42"),
		Header:     core.MustColorFromHex("#e5e5e6"),
		Ruler:      core.MustColorFromHex("#696c77"),
		Region:     core.MustColorFromHex("#4078f2"),
		Playhead:   core.MustColorFromHex("#c18401"),
		AOS:        core.MustColorFromHex("#50a14f"),
		LOS:        core.MustColorFromHex("#e45649"),
		Status:     core.MustColorFromHex("#eaeaeb"),
		Error:      core.MustColorFromHex("#ca1243"),
	},
}

// ThemeNames returns the built-in theme names, sorted.
func ThemeNames() []string {
	names := make([]string, 0, len(themes))
	for n := range themes {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// ThemeByName returns a built-in theme. Unknown names get "dark".
func ThemeByName(name string) Theme {
	if t, ok := themes[strings.ToLower(name)]; ok {
		return t.withPartial()
	}
	return themes["dark"].withPartial()
}

func (t Theme) withPartial() Theme {
	if t.Partial == (core.Color{}) {
		t.Partial = t.Region.Blend(t.Background, 0.45)
	}
	return t
}

// NewTheme builds a theme from render settings. Colors override palette
// roles by name; an unknown role or malformed color is an error.
func NewTheme(cfg config.RenderConfig) (Theme, error) {
	t := ThemeByName(cfg.Theme)
	partialSet := false

	roles := make([]string, 0, len(cfg.Colors))
	for role := range cfg.Colors {
		roles = append(roles, role)
	}
	sort.Strings(roles)

	for _, role := range roles {
		c, err := core.ColorFromHex(cfg.Colors[role])
		if err != nil {
			return Theme{}, fmt.Errorf("theme role %q: %w", role, err)
		}
		dst := t.role(role)
		if dst == nil {
			return Theme{}, fmt.Errorf("theme role %q: unknown role", role)
		}
		*dst = c
		if dst == &t.Partial {
			partialSet = true
		}
	}
	if !partialSet {
		t.Partial = t.Region.Blend(t.Background, 0.45)
	}
	return t, nil
}

func (t *Theme) role(name string) *core.Color {
	switch strings.ToLower(name) {
	case "background":
		return &t.Background
	case "foreground":
		return &t.Foreground
	case "header":
		return &t.Header
	case "ruler":
		return &t.Ruler
	case "region":
		return &t.Region
	case "partial":
		return &t.Partial
	case "playhead":
		return &t.Playhead
	case "aos":
		return &t.AOS
	case "los":
		return &t.LOS
	case "status":
		return &t.Status
	case "error":
		return &t.Error
	}
	return nil
}
