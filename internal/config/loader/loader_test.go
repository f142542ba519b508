package loader

import (
	"errors"
	"io/fs"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// MemFS is an in-memory FileSystem.
type MemFS struct {
	files map[string][]byte
}

func NewMemFS() *MemFS {
	return &MemFS{files: make(map[string][]byte)}
}

func (m *MemFS) AddFile(path, content string) {
	m.files[path] = []byte(content)
}

func (m *MemFS) Open(string) (fs.File, error) { return nil, fs.ErrNotExist }

func (m *MemFS) ReadFile(path string) ([]byte, error) {
	data, ok := m.files[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return data, nil
}

func (m *MemFS) Stat(path string) (fs.FileInfo, error) {
	if _, ok := m.files[path]; ok {
		return memFileInfo(path), nil
	}
	return nil, fs.ErrNotExist
}

type memFileInfo string

func (f memFileInfo) Name() string       { return string(f) }
func (f memFileInfo) Size() int64        { return 0 }
func (f memFileInfo) Mode() fs.FileMode  { return 0o644 }
func (f memFileInfo) ModTime() time.Time { return time.Time{} }
func (f memFileInfo) IsDir() bool        { return false }
func (f memFileInfo) Sys() any           { return nil }

func TestTOMLLoader_Load(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/timegrid.toml", `
[timeline]
interval = "day"
zoom = 1.5
timezones = ["UTC", "America/New_York"]

[layout]
headerWidth = 180
`)

	cfg, err := NewTOMLLoaderWithFS(memfs, "/timegrid.toml").Load()
	require.NoError(t, err)

	timeline, ok := cfg["timeline"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "day", timeline["interval"])
	require.Equal(t, 1.5, timeline["zoom"])
	require.Equal(t, []any{"UTC", "America/New_York"}, timeline["timezones"])

	v, ok := GetByPath(cfg, "layout.headerWidth")
	require.True(t, ok)
	require.Equal(t, int64(180), v)
}

func TestTOMLLoader_Missing(t *testing.T) {
	cfg, err := NewTOMLLoaderWithFS(NewMemFS(), "/nope.toml").Load()
	require.NoError(t, err)
	require.Nil(t, cfg)

	cfg, err = NewTOMLLoaderWithFS(NewMemFS(), "").Load()
	require.NoError(t, err)
	require.Nil(t, cfg)
}

func TestTOMLLoader_ParseError(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/bad.toml", "[timeline]\nzoom = = 2\n")

	_, err := NewTOMLLoaderWithFS(memfs, "/bad.toml").Load()
	require.Error(t, err)

	var perr *ParseError
	require.True(t, errors.As(err, &perr))
	require.Equal(t, "/bad.toml", perr.Path)
	require.Equal(t, 2, perr.Line)
	require.Contains(t, err.Error(), "parse error in /bad.toml at line 2")
}

func TestTOMLLoader_LoadFromReader(t *testing.T) {
	cfg, err := NewTOMLLoader("").LoadFromReader(strings.NewReader(`[logging]
level = "debug"`))
	require.NoError(t, err)
	v, ok := GetByPath(cfg, "logging.level")
	require.True(t, ok)
	require.Equal(t, "debug", v)
}

func TestEnvLoader_Load(t *testing.T) {
	env := []string{
		"TIMEGRID_LOG_LEVEL=warn",
		"TIMEGRID_ZOOM=2.5",
		"TIMEGRID_LAYOUT_HEADER_WIDTH=150",
		"TIMEGRID_WATCH_ENABLED=no",
		"TIMEGRID_WATCH_DEBOUNCE=250ms",
		"TIMEGRID_TIMELINE_TIMEZONES=UTC, Europe/Berlin",
		"TIMEGRID_BOGUS=1",
		"HOME=/root",
	}
	l := NewEnvLoader(DefaultEnvPrefix).WithEnviron(func() []string { return env })
	l.AddMapping("TIMEGRID_PAN", "keys.pan")

	cfg, err := l.Load()
	require.NoError(t, err)

	get := func(path string) any {
		v, ok := GetByPath(cfg, path)
		require.True(t, ok, path)
		return v
	}
	require.Equal(t, "warn", get("logging.level"))
	require.Equal(t, 2.5, get("timeline.zoom"))
	require.Equal(t, int64(150), get("layout.headerWidth"))
	require.Equal(t, false, get("watch.enabled"))
	require.Equal(t, 250*time.Millisecond, get("watch.debounce"))
	require.Equal(t, []any{"UTC", "Europe/Berlin"}, get("timeline.timezones"))

	_, ok := GetByPath(cfg, "bogus")
	require.False(t, ok)
	_, ok = GetByPath(cfg, "home")
	require.False(t, ok)
}

func TestDeepMerge(t *testing.T) {
	dst := map[string]any{
		"timeline": map[string]any{"interval": "hour", "zoom": 1.0},
		"logging":  map[string]any{"level": "info"},
	}
	src := map[string]any{
		"timeline": map[string]any{"zoom": 2.0},
		"layout":   map[string]any{"headerWidth": int64(100)},
	}

	merged := DeepMerge(dst, src)
	v, _ := GetByPath(merged, "timeline.interval")
	require.Equal(t, "hour", v)
	v, _ = GetByPath(merged, "timeline.zoom")
	require.Equal(t, 2.0, v)
	v, _ = GetByPath(merged, "layout.headerWidth")
	require.Equal(t, int64(100), v)

	// Merged maps do not alias src.
	SetByPath(merged, "layout.headerWidth", int64(5))
	v, _ = GetByPath(src, "layout.headerWidth")
	require.Equal(t, int64(100), v)

	require.NotNil(t, DeepMerge(nil, nil))
}

func TestClone(t *testing.T) {
	src := map[string]any{
		"a": map[string]any{"b": []any{map[string]any{"c": 1}}},
	}
	dup := Clone(src)
	SetByPath(dup, "a.x", 2)
	dup["a"].(map[string]any)["b"].([]any)[0].(map[string]any)["c"] = 9

	_, ok := GetByPath(src, "a.x")
	require.False(t, ok)
	require.Equal(t, 1, src["a"].(map[string]any)["b"].([]any)[0].(map[string]any)["c"])
	require.Nil(t, Clone(nil))
}
