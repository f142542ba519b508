package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/dshills/timegrid/internal/config/loader"
)

// Config holds the merged settings.
type Config struct {
	mu sync.RWMutex

	path    string
	fs      loader.FileSystem
	environ func() []string
	useEnv  bool

	file      map[string]any
	env       map[string]any
	overrides map[string]any
	merged    map[string]any

	configErrors map[string]error
}

// Option configures a Config.
type Option func(*Config)

// WithFile sets the TOML file to read.
func WithFile(path string) Option {
	return func(c *Config) { c.path = path }
}

// WithFS sets the file system the TOML file is read from.
func WithFS(fsys loader.FileSystem) Option {
	return func(c *Config) { c.fs = fsys }
}

// WithEnviron sets the environment source.
func WithEnviron(environ func() []string) Option {
	return func(c *Config) { c.environ = environ }
}

// WithoutEnv disables the environment layer.
func WithoutEnv() Option {
	return func(c *Config) { c.useEnv = false }
}

// New creates a Config holding only the defaults. Call Load to read the
// file and environment layers.
func New(opts ...Option) *Config {
	c := &Config{
		fs:        loader.OSFS{},
		environ:   os.Environ,
		useEnv:    true,
		overrides: make(map[string]any),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.merged = c.merge()
	return c
}

// DefaultPath returns the per-user config file location.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "timegrid", "config.toml")
}

// Path returns the TOML file in use, or "".
func (c *Config) Path() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.path
}

// Load reads the file and environment layers. On error the previously
// loaded settings stay in effect.
func (c *Config) Load() error {
	c.mu.RLock()
	path, fsys, environ, useEnv := c.path, c.fs, c.environ, c.useEnv
	c.mu.RUnlock()

	file, err := loader.NewTOMLLoaderWithFS(fsys, path).Load()
	if err != nil {
		return err
	}

	var env map[string]any
	if useEnv {
		env, err = loader.NewEnvLoader(loader.DefaultEnvPrefix).WithEnviron(environ).Load()
		if err != nil {
			return fmt.Errorf("loading environment: %w", err)
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.file = file
	c.env = env
	c.configErrors = nil
	c.merged = c.merge()
	return nil
}

// merge layers defaults, file, env and overrides. Callers hold c.mu.
func (c *Config) merge() map[string]any {
	merged := Defaults()
	merged = loader.DeepMerge(merged, loader.Clone(c.file))
	merged = loader.DeepMerge(merged, loader.Clone(c.env))
	return loader.DeepMerge(merged, loader.Clone(c.overrides))
}

// Set stores an override that outranks every other layer.
func (c *Config) Set(path string, value any) error {
	if strings.Trim(path, ".") == "" || strings.Contains(path, "..") {
		return fmt.Errorf("%w: %q", ErrInvalidPath, path)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	loader.SetByPath(c.overrides, path, value)
	c.merged = c.merge()
	return nil
}

// Get returns the merged value at path.
func (c *Config) Get(path string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return loader.GetByPath(c.merged, path)
}

// GetString returns a string setting.
func (c *Config) GetString(path string) (string, error) {
	v, ok := c.Get(path)
	if !ok {
		return "", ErrSettingNotFound
	}
	s, ok := v.(string)
	if !ok {
		return "", &TypeError{Path: path, Expected: "string", Actual: typeName(v)}
	}
	return s, nil
}

// GetInt returns an integer setting.
func (c *Config) GetInt(path string) (int, error) {
	v, ok := c.Get(path)
	if !ok {
		return 0, ErrSettingNotFound
	}
	switch val := v.(type) {
	case int:
		return val, nil
	case int64:
		return int(val), nil
	case float64:
		return int(val), nil
	default:
		return 0, &TypeError{Path: path, Expected: "int", Actual: typeName(v)}
	}
}

// GetFloat returns a float setting.
func (c *Config) GetFloat(path string) (float64, error) {
	v, ok := c.Get(path)
	if !ok {
		return 0, ErrSettingNotFound
	}
	switch val := v.(type) {
	case float64:
		return val, nil
	case int:
		return float64(val), nil
	case int64:
		return float64(val), nil
	default:
		return 0, &TypeError{Path: path, Expected: "float64", Actual: typeName(v)}
	}
}

// GetBool returns a boolean setting.
func (c *Config) GetBool(path string) (bool, error) {
	v, ok := c.Get(path)
	if !ok {
		return false, ErrSettingNotFound
	}
	b, ok := v.(bool)
	if !ok {
		return false, &TypeError{Path: path, Expected: "bool", Actual: typeName(v)}
	}
	return b, nil
}

// GetDuration returns a duration setting. Strings use time.ParseDuration;
// bare integers are milliseconds.
func (c *Config) GetDuration(path string) (time.Duration, error) {
	v, ok := c.Get(path)
	if !ok {
		return 0, ErrSettingNotFound
	}
	switch val := v.(type) {
	case time.Duration:
		return val, nil
	case int64:
		return time.Duration(val) * time.Millisecond, nil
	case int:
		return time.Duration(val) * time.Millisecond, nil
	case string:
		d, err := time.ParseDuration(val)
		if err != nil {
			return 0, &TypeError{Path: path, Expected: "duration", Actual: fmt.Sprintf("string %q", val)}
		}
		return d, nil
	default:
		return 0, &TypeError{Path: path, Expected: "duration", Actual: typeName(v)}
	}
}

// GetStringSlice returns a list-of-strings setting.
func (c *Config) GetStringSlice(path string) ([]string, error) {
	v, ok := c.Get(path)
	if !ok {
		return nil, ErrSettingNotFound
	}
	switch val := v.(type) {
	case []string:
		out := make([]string, len(val))
		copy(out, val)
		return out, nil
	case []any:
		out := make([]string, len(val))
		for i, item := range val {
			s, ok := item.(string)
			if !ok {
				return nil, &TypeError{Path: path, Expected: "[]string", Actual: "[]" + typeName(item)}
			}
			out[i] = s
		}
		return out, nil
	default:
		return nil, &TypeError{Path: path, Expected: "[]string", Actual: typeName(v)}
	}
}

// GetStringMap returns a table of string values.
func (c *Config) GetStringMap(path string) (map[string]string, error) {
	v, ok := c.Get(path)
	if !ok {
		return nil, ErrSettingNotFound
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, &TypeError{Path: path, Expected: "table", Actual: typeName(v)}
	}
	out := make(map[string]string, len(m))
	for k, item := range m {
		s, ok := item.(string)
		if !ok {
			return nil, &TypeError{Path: path + "." + k, Expected: "string", Actual: typeName(item)}
		}
		out[k] = s
	}
	return out, nil
}

// recordConfigError keeps the first error seen for path.
func (c *Config) recordConfigError(path string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.configErrors == nil {
		c.configErrors = make(map[string]error)
	}
	if _, exists := c.configErrors[path]; !exists {
		c.configErrors[path] = err
	}
}

// ConfigErrors returns settings that were ignored because of their type.
func (c *Config) ConfigErrors() map[string]error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.configErrors == nil {
		return nil
	}
	out := make(map[string]error, len(c.configErrors))
	for k, v := range c.configErrors {
		out[k] = v
	}
	return out
}
