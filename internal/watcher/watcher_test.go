package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestOp(t *testing.T) {
	require.Equal(t, "WRITE", OpWrite.String())
	require.Equal(t, "CREATE|REMOVE", (OpCreate | OpRemove).String())
	require.Equal(t, "UNKNOWN", Op(0).String())
	require.True(t, (OpWrite | OpRename).Has(OpRename))
	require.False(t, OpWrite.Has(0))

	require.True(t, Change{Op: OpWrite | OpRename}.Removed())
	require.False(t, Change{Op: OpCreate | OpWrite}.Removed())
}

func TestDebouncer_Coalesces(t *testing.T) {
	d := NewDebouncer(30*time.Millisecond, 4)
	defer d.Close()

	t0 := time.Date(2021, 2, 1, 0, 0, 0, 0, time.UTC)
	d.Add(Event{Path: "/b.csv", Op: OpWrite, Timestamp: t0})
	d.Add(Event{Path: "/a.yaml", Op: OpCreate, Timestamp: t0.Add(time.Second)})
	d.Add(Event{Path: "/a.yaml", Op: OpWrite, Timestamp: t0.Add(2 * time.Second)})
	require.Equal(t, 2, d.Pending())

	select {
	case c := <-d.Changes():
		require.Equal(t, []string{"/a.yaml", "/b.csv"}, c.Paths)
		require.Equal(t, OpCreate|OpWrite, c.Op)
		require.Equal(t, t0.Add(2*time.Second), c.At)
	case <-time.After(2 * time.Second):
		t.Fatal("no change delivered")
	}
	require.Zero(t, d.Pending())

	select {
	case c := <-d.Changes():
		t.Fatalf("unexpected second change %+v", c)
	case <-time.After(80 * time.Millisecond):
	}
}

func TestDebouncer_Flush(t *testing.T) {
	d := NewDebouncer(time.Hour, 1)

	d.Flush()
	d.Add(Event{Path: "/a.yaml", Op: OpWrite})
	d.Flush()

	c := <-d.Changes()
	require.Equal(t, []string{"/a.yaml"}, c.Paths)

	d.Add(Event{Path: "/a.yaml", Op: OpWrite})
	d.Close()
	d.Close()
	d.Add(Event{Path: "/a.yaml", Op: OpWrite})

	_, ok := <-d.Changes()
	require.False(t, ok)
}

func waitChange(t *testing.T, w *Watcher) Change {
	t.Helper()
	select {
	case c := <-w.Changes():
		return c
	case <-time.After(5 * time.Second):
		t.Fatal("no change delivered")
	}
	return Change{}
}

func TestWatcher_Files(t *testing.T) {
	dir := t.TempDir()
	doc := filepath.Join(dir, "passes.yaml")
	csv := filepath.Join(dir, "passes.csv")
	other := filepath.Join(dir, "notes.txt")
	for _, p := range []string{doc, csv, other} {
		require.NoError(t, os.WriteFile(p, []byte("x"), 0o644))
	}

	w, err := New(WithDebounce(20 * time.Millisecond))
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, w.Set(doc, csv, doc))
	require.Equal(t, []string{csv, doc}, w.Files())

	require.NoError(t, os.WriteFile(other, []byte("ignored"), 0o644))
	require.NoError(t, os.WriteFile(csv, []byte("y"), 0o644))

	c := waitChange(t, w)
	require.Equal(t, []string{csv}, c.Paths)
	require.True(t, c.Op.Has(OpWrite))

	// Atomic save: write a temp file and rename it over the document.
	tmp := filepath.Join(dir, ".passes.yaml.tmp")
	require.NoError(t, os.WriteFile(tmp, []byte("z"), 0o644))
	require.NoError(t, os.Rename(tmp, doc))

	// Late csv events may still arrive in their own batch.
	for {
		c = waitChange(t, w)
		if len(c.Paths) == 1 && c.Paths[0] == csv {
			continue
		}
		require.Contains(t, c.Paths, doc)
		return
	}
}

func TestWatcher_SetErrors(t *testing.T) {
	dir := t.TempDir()
	doc := filepath.Join(dir, "passes.yaml")
	require.NoError(t, os.WriteFile(doc, []byte("x"), 0o644))

	w, err := New()
	require.NoError(t, err)

	require.ErrorIs(t, w.Set(), ErrNoFiles)

	err = w.Set(doc, filepath.Join(dir, "missing.csv"))
	require.ErrorIs(t, err, ErrPathNotExist)
	var pe *PathError
	require.ErrorAs(t, err, &pe)
	require.Equal(t, filepath.Join(dir, "missing.csv"), pe.Path)
	require.Empty(t, w.Files())

	require.NoError(t, w.Set(doc))
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())
	require.ErrorIs(t, w.Set(doc), ErrWatcherClosed)

	_, ok := <-w.Changes()
	require.False(t, ok)
	_, ok = <-w.Errors()
	require.False(t, ok)
}
