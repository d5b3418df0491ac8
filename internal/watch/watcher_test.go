package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func waitFor(t *testing.T, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for change notification")
	}
}

func TestWatcherFlagsChanges(t *testing.T) {
	dir := t.TempDir()
	notified := make(chan struct{}, 16)
	w, err := New(func() { notified <- struct{}{} }, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer w.Close()

	if err := w.Watch(dir); err != nil {
		t.Fatalf("Watch: %v", err)
	}
	if w.TakeDirty() {
		t.Fatalf("fresh watcher should be clean")
	}

	if err := os.WriteFile(filepath.Join(dir, "new.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	waitFor(t, notified)
	if !w.TakeDirty() {
		t.Fatalf("TakeDirty()=false after a create")
	}
	if w.TakeDirty() {
		t.Fatalf("TakeDirty should reset the flag")
	}
}

func TestWatcherSwitchesDirectory(t *testing.T) {
	first, second := t.TempDir(), t.TempDir()
	notified := make(chan struct{}, 16)
	w, err := New(func() { notified <- struct{}{} }, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer w.Close()

	if err := w.Watch(first); err != nil {
		t.Fatal(err)
	}
	if err := w.Watch(second); err != nil {
		t.Fatal(err)
	}
	if w.Dir() != second {
		t.Fatalf("Dir()=%q want %q", w.Dir(), second)
	}

	if err := os.Mkdir(filepath.Join(second, "sub"), 0o755); err != nil {
		t.Fatal(err)
	}
	waitFor(t, notified)
	if !w.TakeDirty() {
		t.Fatalf("change in the new directory was not flagged")
	}
}

func TestWatchMissingDirectory(t *testing.T) {
	w, err := New(nil, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer w.Close()
	if err := w.Watch(filepath.Join(t.TempDir(), "gone")); err == nil {
		t.Fatalf("expected error for a missing directory")
	}
	if w.Dir() != "" {
		t.Fatalf("Dir()=%q want empty", w.Dir())
	}
}
