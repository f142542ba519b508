package logging

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func fixedClock() time.Time {
	return time.Date(2021, 2, 1, 4, 0, 0, 0, time.UTC)
}

func newTestLogger(buf *bytes.Buffer, level Level) *Logger {
	return New(Config{Level: level, Output: buf, Prefix: "test", Now: fixedClock})
}

func TestLevel_String(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{Level(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, tt.level.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", LevelDebug},
		{"DEBUG", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"WARNING", LevelWarn},
		{"error", LevelError},
		{"unknown", LevelInfo},
		{"", LevelInfo},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, ParseLevel(tt.in), tt.in)
	}

	require.True(t, ValidLevel("warn"))
	require.False(t, ValidLevel("verbose"))
}

func TestLogger_Format(t *testing.T) {
	var buf bytes.Buffer
	l := newTestLogger(&buf, LevelDebug)

	l.Warn("region %s hidden", "pass-1")

	require.Equal(t, "2021-02-01T04:00:00.000 [WARN] test: region pass-1 hidden\n", buf.String())
}

func TestLogger_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	l := newTestLogger(&buf, LevelWarn)

	l.Debug("debug")
	l.Info("info")
	l.Warn("warn")
	l.Error("error")

	out := buf.String()
	require.NotContains(t, out, "[DEBUG]")
	require.NotContains(t, out, "[INFO]")
	require.Contains(t, out, "[WARN] test: warn")
	require.Contains(t, out, "[ERROR] test: error")

	l.SetLevel(LevelDebug)
	require.Equal(t, LevelDebug, l.Level())
	l.Debug("now visible")
	require.Contains(t, buf.String(), "now visible")
}

func TestLogger_FieldsSorted(t *testing.T) {
	var buf bytes.Buffer
	l := newTestLogger(&buf, LevelInfo).
		WithComponent("track").
		WithFields(map[string]any{"region": "r1", "columns": 42})

	l.Info("laid out")

	require.True(t, strings.HasSuffix(buf.String(), " {columns=42, component=track, region=r1}\n"), buf.String())
}

func TestLogger_DerivedSharesSink(t *testing.T) {
	var buf bytes.Buffer
	parent := newTestLogger(&buf, LevelInfo)
	child := parent.WithField("k", "v")

	parent.SetLevel(LevelError)
	child.Warn("suppressed")
	require.Empty(t, buf.String())

	var other bytes.Buffer
	child.SetOutput(&other)
	parent.Error("moved")
	require.Empty(t, buf.String())
	require.Contains(t, other.String(), "moved")
}

func TestLogger_DisableEnable(t *testing.T) {
	var buf bytes.Buffer
	l := newTestLogger(&buf, LevelDebug)

	l.Disable()
	l.Error("hidden")
	require.Empty(t, buf.String())

	l.Enable()
	l.Error("shown")
	require.Contains(t, buf.String(), "shown")
}

func TestNop(t *testing.T) {
	l := Nop()
	require.NotPanics(t, func() {
		l.WithComponent("x").Error("nothing %d", 1)
	})
}

func TestNew_Defaults(t *testing.T) {
	l := New(Config{})
	require.NotNil(t, l.sink.output)
	require.NotNil(t, l.sink.now)
	require.Equal(t, "timegrid", DefaultConfig().Prefix)
}
