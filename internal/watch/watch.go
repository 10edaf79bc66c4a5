// Package watch implements filesystem-change notification; its consumer
// is the editor's external-file-change detection, which feeds a
// document reload.
//
// A path->callbacks map multiplexes many watched paths over one
// github.com/rjeczalik/notify event channel; paths that don't exist
// yet are covered by watching their parent directory until a create
// event arrives.
package watch

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/limetext/log4go"
	"github.com/rjeczalik/notify"
)

// Watcher multiplexes one underlying notify event channel across many
// registered paths, each with its own set of callbacks.
type Watcher struct {
	events   chan notify.EventInfo
	watched  map[string][]func()
	watchers []string // paths with a live notify.Watch call
	dirs     []string // of those, the ones that are directories
	lock     sync.Mutex
	done     chan struct{}
}

// NewWatcher allocates a Watcher and starts its Observe loop.
func NewWatcher() *Watcher {
	w := &Watcher{
		events:  make(chan notify.EventInfo, 64),
		watched: make(map[string][]func()),
		done:    make(chan struct{}),
	}
	go w.observe()
	return w
}

// Watch registers action to run whenever path changes. If path doesn't
// exist yet, it watches the parent directory instead and waits for a
// create event there.
func (w *Watcher) Watch(path string, action func()) {
	fi, err := os.Stat(path)
	isDir := err == nil && fi.IsDir()
	if !isDir && os.IsNotExist(err) {
		w.Watch(filepath.Dir(path), nil)
	}
	if !isDir && action == nil {
		log4go.Error("watch: no action given for file path %s", path)
		return
	}

	w.lock.Lock()
	defer w.lock.Unlock()

	if contains(w.watchers, path) {
		if action != nil {
			w.watched[path] = append(w.watched[path], action)
		}
		return
	}
	if !isDir && contains(w.dirs, filepath.Dir(path)) {
		w.watched[path] = append(w.watched[path], action)
		return
	}

	target := path
	if isDir {
		target = filepath.Join(path, "...")
	}
	if err := notify.Watch(target, w.events, notify.All); err != nil {
		log4go.Error("watch: could not watch %s: %s", path, err)
		return
	}
	w.watchers = append(w.watchers, path)
	w.watched[path] = append(w.watched[path], action)
	if isDir {
		w.dirs = append(w.dirs, path)
		for _, p := range append([]string(nil), w.watchers...) {
			if filepath.Dir(p) != path || p == path {
				continue
			}
			notify.Stop(w.events)
			w.watchers = remove(w.watchers, p)
		}
	}
}

// UnWatch stops watching path and drops its callbacks.
func (w *Watcher) UnWatch(path string) {
	w.lock.Lock()
	defer w.lock.Unlock()
	if !contains(w.watchers, path) {
		return
	}
	notify.Stop(w.events)
	w.watchers = remove(w.watchers, path)
	w.dirs = remove(w.dirs, path)
	delete(w.watched, path)
}

// Close stops the Observe loop.
func (w *Watcher) Close() {
	close(w.done)
	notify.Stop(w.events)
}

// observe is the dedicated reader goroutine draining the shared notify
// channel and dispatching to each affected path's callbacks.
func (w *Watcher) observe() {
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.events:
			if !ok {
				return
			}
			w.dispatch(ev)
		}
	}
}

func (w *Watcher) dispatch(ev notify.EventInfo) {
	name := ev.Path()
	if ev.Event() == notify.Remove || ev.Event() == notify.Rename {
		w.lock.Lock()
		w.watchers = remove(w.watchers, name)
		w.lock.Unlock()
		w.Watch(filepath.Dir(name), nil)
	}

	w.lock.Lock()
	defer w.lock.Unlock()
	for _, action := range w.watched[name] {
		if action != nil {
			action()
		}
	}
	if !contains(w.dirs, name) {
		return
	}
	for p, actions := range w.watched {
		if filepath.Dir(p) == name && !contains(w.watchers, p) {
			for _, action := range actions {
				action()
			}
		}
	}
}

func contains(paths []string, path string) bool {
	for _, p := range paths {
		if p == path {
			return true
		}
	}
	return false
}

func remove(slice []string, path string) []string {
	for i, el := range slice {
		if el == path {
			slice[i] = slice[len(slice)-1]
			return slice[:len(slice)-1]
		}
	}
	return slice
}
