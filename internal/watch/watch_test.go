package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func waitFired(t *testing.T, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(3 * time.Second):
		t.Fatal("watch callback never fired")
	}
}

func TestWatchExistingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.txt")
	if err := os.WriteFile(path, []byte("one"), 0o644); err != nil {
		t.Fatal(err)
	}

	w := NewWatcher()
	defer w.Close()

	fired := make(chan struct{}, 4)
	w.Watch(path, func() {
		select {
		case fired <- struct{}{}:
		default:
		}
	})

	if err := os.WriteFile(path, []byte("two"), 0o644); err != nil {
		t.Fatal(err)
	}
	waitFired(t, fired)
}

func TestWatchNotYetExistingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "later.txt")

	w := NewWatcher()
	defer w.Close()

	fired := make(chan struct{}, 4)
	w.Watch(path, func() {
		select {
		case fired <- struct{}{}:
		default:
		}
	})

	if err := os.WriteFile(path, []byte("now"), 0o644); err != nil {
		t.Fatal(err)
	}
	waitFired(t, fired)
}

func TestUnWatchStopsCallbacks(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.txt")
	if err := os.WriteFile(path, []byte("one"), 0o644); err != nil {
		t.Fatal(err)
	}

	w := NewWatcher()
	defer w.Close()

	fired := make(chan struct{}, 4)
	w.Watch(path, func() { fired <- struct{}{} })
	w.UnWatch(path)

	if err := os.WriteFile(path, []byte("two"), 0o644); err != nil {
		t.Fatal(err)
	}
	select {
	case <-fired:
		t.Fatal("callback fired after UnWatch")
	case <-time.After(300 * time.Millisecond):
	}
}
