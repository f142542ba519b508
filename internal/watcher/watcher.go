// Package watcher reports changes to the files a timeline document is built
// from.
//
// Editors commonly save by writing a temporary file and renaming it over the
// original, which drops a watch placed on the file itself. The watcher
// therefore watches each file's parent directory and filters events down to
// the files of interest. Bursts of events are coalesced into one Change.
package watcher

import (
	"errors"
	"strings"
	"time"
)

// Errors returned by watcher operations.
var (
	ErrWatcherClosed = errors.New("watcher is closed")
	ErrPathNotExist  = errors.New("path does not exist")
	ErrNoFiles       = errors.New("no files to watch")
)

// Op is a set of file operations.
type Op uint32

const (
	// OpCreate indicates a file was created.
	OpCreate Op = 1 << iota
	// OpWrite indicates a file was written to.
	OpWrite
	// OpRemove indicates a file was removed.
	OpRemove
	// OpRename indicates a file was renamed.
	OpRename
	// OpChmod indicates file permissions changed.
	OpChmod
)

var opNames = []struct {
	op   Op
	name string
}{
	{OpCreate, "CREATE"},
	{OpWrite, "WRITE"},
	{OpRemove, "REMOVE"},
	{OpRename, "RENAME"},
	{OpChmod, "CHMOD"},
}

// String joins the names of the set operations with "|".
func (op Op) String() string {
	var names []string
	for _, n := range opNames {
		if op.Has(n.op) {
			names = append(names, n.name)
		}
	}
	if len(names) == 0 {
		return "UNKNOWN"
	}
	return strings.Join(names, "|")
}

// Has reports whether op includes o.
func (op Op) Has(o Op) bool {
	return o != 0 && op&o == o
}

// Event is a single operation on one file.
type Event struct {
	// Path is the absolute path of the file.
	Path string
	Op   Op
	// Timestamp is when the event was observed.
	Timestamp time.Time
}

// Change is a debounced batch of events.
type Change struct {
	// Paths lists the affected files, sorted and without duplicates.
	Paths []string
	// Op is the union of every operation in the batch.
	Op Op
	// At is the time of the last event in the batch.
	At time.Time
}

// Removed reports whether any file in the batch was removed or renamed away.
func (c Change) Removed() bool {
	return c.Op.Has(OpRemove) || c.Op.Has(OpRename)
}
