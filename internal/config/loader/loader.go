// Package loader reads timegrid settings from TOML files and the
// environment into nested maps that the config package layers together.
package loader

import (
	"io/fs"
	"os"
)

// Loader reads one configuration source.
type Loader interface {
	// Load returns the source's settings. A source that does not exist
	// yields nil, nil.
	Load() (map[string]any, error)
}

// FileSystem is the file access a loader needs. Tests substitute an
// in-memory implementation.
type FileSystem interface {
	fs.FS
	ReadFile(path string) ([]byte, error)
	Stat(path string) (fs.FileInfo, error)
}

// OSFS reads from the real file system.
type OSFS struct{}

// Open implements fs.FS.
func (OSFS) Open(name string) (fs.File, error) { return os.Open(name) }

// ReadFile reads the entire file at path.
func (OSFS) ReadFile(path string) ([]byte, error) { return os.ReadFile(path) }

// Stat returns file info for path.
func (OSFS) Stat(path string) (fs.FileInfo, error) { return os.Stat(path) }
