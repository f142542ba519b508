package loader

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultEnvPrefix is the prefix of environment variables read by EnvLoader.
const DefaultEnvPrefix = "TIMEGRID_"

// EnvLoader maps prefixed environment variables onto settings paths.
//
// Explicit mappings win; any other prefixed variable is converted by
// treating the first word as the section and the rest as a camelCase key,
// so TIMEGRID_LAYOUT_HEADER_WIDTH becomes layout.headerWidth.
type EnvLoader struct {
	prefix  string
	mapping map[string]string
	environ func() []string
}

// NewEnvLoader creates a loader for prefix with the default mappings.
func NewEnvLoader(prefix string) *EnvLoader {
	return &EnvLoader{
		prefix: prefix,
		mapping: map[string]string{
			prefix + "LOG_LEVEL": "logging.level",
			prefix + "LOG_FILE":  "logging.file",
			prefix + "TIMEZONE":  "timeline.timezone",
			prefix + "INTERVAL":  "timeline.interval",
			prefix + "ZOOM":      "timeline.zoom",
			prefix + "THEME":     "render.theme",
		},
		environ: os.Environ,
	}
}

// WithEnviron replaces the environment source. It is used by tests.
func (l *EnvLoader) WithEnviron(environ func() []string) *EnvLoader {
	l.environ = environ
	return l
}

// AddMapping maps one variable to a settings path.
func (l *EnvLoader) AddMapping(env, path string) {
	l.mapping[env] = path
}

// Load reads every prefixed variable.
func (l *EnvLoader) Load() (map[string]any, error) {
	out := make(map[string]any)
	for _, kv := range l.environ() {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(name, l.prefix) {
			continue
		}
		path, mapped := l.mapping[name]
		if !mapped {
			path = l.envToPath(name)
		}
		if path == "" {
			continue
		}
		SetByPath(out, path, parseEnvValue(value))
	}
	return out, nil
}

func (l *EnvLoader) envToPath(env string) string {
	parts := strings.Split(strings.TrimPrefix(env, l.prefix), "_")
	if len(parts) < 2 || parts[0] == "" {
		return ""
	}
	key := strings.ToLower(parts[1])
	for _, p := range parts[2:] {
		if p == "" {
			continue
		}
		key += strings.ToUpper(p[:1]) + strings.ToLower(p[1:])
	}
	return strings.ToLower(parts[0]) + "." + key
}

// parseEnvValue converts s into a bool, integer, float or duration where
// it parses as one, and leaves it as a string otherwise.
func parseEnvValue(s string) any {
	switch strings.ToLower(s) {
	case "true", "yes", "on":
		return true
	case "false", "no", "off":
		return false
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if strings.Contains(s, ".") {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}
	if d, err := time.ParseDuration(s); err == nil {
		return d
	}
	if strings.Contains(s, ",") {
		parts := strings.Split(s, ",")
		out := make([]any, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out
	}
	return s
}

// SetByPath sets a dot-separated path in data, creating intermediate maps.
func SetByPath(data map[string]any, path string, value any) {
	parts := strings.Split(path, ".")
	cur := data
	for _, part := range parts[:len(parts)-1] {
		next, ok := cur[part].(map[string]any)
		if !ok {
			next = make(map[string]any)
			cur[part] = next
		}
		cur = next
	}
	cur[parts[len(parts)-1]] = value
}

// GetByPath looks up a dot-separated path in data.
func GetByPath(data map[string]any, path string) (any, bool) {
	parts := strings.Split(path, ".")
	var cur any = data
	for _, part := range parts {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}
