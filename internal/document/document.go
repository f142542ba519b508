// Package document reads timeline documents: YAML files describing a
// visible range, markers and tracks of regions, with optional CSV files of
// regions per track.
//
//	timeline:
//	  start: 2021-02-01T00:00Z
//	  end: 2021-02-05T12:00Z
//	  interval: hour
//	  timezone: America/New_York
//	  position: 2021-02-01T06:00Z
//	tracks:
//	  - label: Antenna 1
//	    regions:
//	      - start: 2021-02-01T01:00Z
//	        end: 2021-02-01T04:00Z
//	        label: PASS-1
//	    csv: antenna1.csv
package document

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/dshills/timegrid/internal/config/loader"
)

// ErrNoRange indicates a document without timeline start or end.
var ErrNoRange = errors.New("timeline start and end are required")

// Document is a parsed timeline document.
type Document struct {
	Timeline TimelineSpec `yaml:"timeline"`
	Tracks   []TrackSpec  `yaml:"tracks"`

	// Path is the file the document was read from, or "".
	Path string `yaml:"-"`
}

// TimelineSpec describes the visible range and markers. Instants are kept
// as written and parsed when the timeline is built.
type TimelineSpec struct {
	Start    string  `yaml:"start"`
	End      string  `yaml:"end"`
	Position string  `yaml:"position,omitempty"`
	AOS      string  `yaml:"aos,omitempty"`
	LOS      string  `yaml:"los,omitempty"`
	Interval string  `yaml:"interval,omitempty"`
	Zoom     float64 `yaml:"zoom,omitempty"`
	Timezone string  `yaml:"timezone,omitempty"`
}

// TrackSpec describes one track.
type TrackSpec struct {
	ID      string       `yaml:"id,omitempty"`
	Label   string       `yaml:"label"`
	Regions []RegionSpec `yaml:"regions,omitempty"`
	// CSV names a file of extra regions, relative to the document.
	CSV string `yaml:"csv,omitempty"`
}

// RegionSpec describes one region.
type RegionSpec struct {
	ID    string `yaml:"id,omitempty"`
	Start string `yaml:"start"`
	End   string `yaml:"end"`
	Label string `yaml:"label"`
}

// ParseError reports a malformed document or CSV file.
type ParseError struct {
	Path    string
	Line    int
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse error in %s at line %d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

func (e *ParseError) Unwrap() error { return e.Err }

var yamlLine = regexp.MustCompile(`line (\d+)`)

// Parse decodes a YAML document. source names it in errors.
func Parse(data []byte, source string) (*Document, error) {
	var doc Document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &ParseError{Path: source, Message: "empty document", Err: err}
		}
		perr := &ParseError{Path: source, Message: err.Error(), Err: err}
		if m := yamlLine.FindStringSubmatch(err.Error()); m != nil {
			perr.Line, _ = strconv.Atoi(m[1])
		}
		return nil, perr
	}
	if doc.Timeline.Start == "" || doc.Timeline.End == "" {
		return nil, &ParseError{Path: source, Message: ErrNoRange.Error(), Err: ErrNoRange}
	}
	doc.Path = source
	return &doc, nil
}

// Loader reads documents and the CSV files they reference.
type Loader struct {
	fs loader.FileSystem
}

// NewLoader creates a Loader on fsys. A nil fsys reads the OS file system.
func NewLoader(fsys loader.FileSystem) *Loader {
	if fsys == nil {
		fsys = loader.OSFS{}
	}
	return &Loader{fs: fsys}
}

// Load reads the document at path and appends the regions of every
// referenced CSV file to its track.
func (l *Loader) Load(path string) (*Document, error) {
	data, err := l.fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading document %s: %w", path, err)
	}
	doc, err := Parse(data, path)
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(path)
	for i := range doc.Tracks {
		tr := &doc.Tracks[i]
		if tr.CSV == "" {
			continue
		}
		csvPath := tr.CSV
		if !filepath.IsAbs(csvPath) {
			csvPath = filepath.Join(dir, csvPath)
		}
		regions, err := l.loadCSV(csvPath)
		if err != nil {
			return nil, err
		}
		tr.Regions = append(tr.Regions, regions...)
	}
	return doc, nil
}

// Sources returns the document path and every CSV path it references.
func (d *Document) Sources() []string {
	if d.Path == "" {
		return nil
	}
	out := []string{d.Path}
	dir := filepath.Dir(d.Path)
	for _, tr := range d.Tracks {
		if tr.CSV == "" {
			continue
		}
		if filepath.IsAbs(tr.CSV) {
			out = append(out, tr.CSV)
		} else {
			out = append(out, filepath.Join(dir, tr.CSV))
		}
	}
	return out
}

// Load reads the document at path from the OS file system.
func Load(path string) (*Document, error) {
	return NewLoader(nil).Load(path)
}
