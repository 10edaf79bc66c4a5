// Package hook implements the synchronous hook runtime: handlers
// registered against registry.Hooks are invoked, in
// priority order, at well-defined transition points, and may stop
// propagation. The runtime itself holds no state beyond an extension
// map callers can stash data in across one event's handler chain.
package hook

import (
	"sort"

	"github.com/rowan-editor/rowan/internal/registry"
)

// Runtime fires registered hooks for events. It is stateless aside
// from the Extension map.
type Runtime struct {
	Extension map[string]any
}

// New builds a Runtime with an empty extension map.
func New() *Runtime {
	return &Runtime{Extension: make(map[string]any)}
}

// ordered returns every registered Hook for event whose Async flag
// equals async, highest
// priority first, ties broken by id (matching registry.Index's
// deterministic freeze ordering).
func ordered(event registry.HookEvent, async bool) []*registry.Hook {
	var out []*registry.Hook
	for _, h := range registry.Hooks.All() {
		if h.Event == event && h.Async == async {
			out = append(out, h)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority > out[j].Priority
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Fire runs every synchronous handler registered for event, in
// priority order, stopping early if a handler returns
// HookStopPropagation. Async hooks (Hook.Async == true) are never run
// here: sync dispatch must not suspend. See AsyncHandlers.
func (r *Runtime) Fire(event registry.HookEvent, caps registry.Capabilities) {
	ctx := registry.HookContext{Event: event, Caps: caps, Extension: r.Extension}
	for _, h := range ordered(event, false) {
		if h.Handler(ctx) == registry.HookStopPropagation {
			return
		}
	}
}

// AsyncHandlers returns the async handlers registered for event, for
// the editor to invoke at a safe point between input events.
func AsyncHandlers(event registry.HookEvent) []*registry.Hook {
	return ordered(event, true)
}
