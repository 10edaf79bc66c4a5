package hook

import (
	"testing"

	"github.com/rowan-editor/rowan/internal/registry"
)

func TestFireRunsInPriorityOrder(t *testing.T) {
	registry.ResetAll()
	defer registry.ResetAll()

	var order []string
	registry.RegisterHook(&registry.Hook{ID: "low", Event: registry.EventBufferSave, Priority: 1, Handler: func(registry.HookContext) registry.HookAction {
		order = append(order, "low")
		return registry.HookContinue
	}})
	registry.RegisterHook(&registry.Hook{ID: "high", Event: registry.EventBufferSave, Priority: 10, Handler: func(registry.HookContext) registry.HookAction {
		order = append(order, "high")
		return registry.HookContinue
	}})

	New().Fire(registry.EventBufferSave, registry.Capabilities{})
	if len(order) != 2 || order[0] != "high" || order[1] != "low" {
		t.Fatalf("expected high before low, got %v", order)
	}
}

func TestFireStopsOnStopPropagation(t *testing.T) {
	registry.ResetAll()
	defer registry.ResetAll()

	var ran []string
	registry.RegisterHook(&registry.Hook{ID: "first", Event: registry.EventModeChanged, Priority: 10, Handler: func(registry.HookContext) registry.HookAction {
		ran = append(ran, "first")
		return registry.HookStopPropagation
	}})
	registry.RegisterHook(&registry.Hook{ID: "second", Event: registry.EventModeChanged, Priority: 1, Handler: func(registry.HookContext) registry.HookAction {
		ran = append(ran, "second")
		return registry.HookContinue
	}})

	New().Fire(registry.EventModeChanged, registry.Capabilities{})
	if len(ran) != 1 || ran[0] != "first" {
		t.Fatalf("expected only 'first' to run, got %v", ran)
	}
}

func TestAsyncHandlersExcludedFromFire(t *testing.T) {
	registry.ResetAll()
	defer registry.ResetAll()

	ranSync := false
	ranAsync := false
	registry.RegisterHook(&registry.Hook{ID: "sync", Event: registry.EventBufferOpen, Handler: func(registry.HookContext) registry.HookAction {
		ranSync = true
		return registry.HookContinue
	}})
	registry.RegisterHook(&registry.Hook{ID: "async", Event: registry.EventBufferOpen, Async: true, Handler: func(registry.HookContext) registry.HookAction {
		ranAsync = true
		return registry.HookContinue
	}})

	New().Fire(registry.EventBufferOpen, registry.Capabilities{})
	if !ranSync || ranAsync {
		t.Fatalf("expected only sync handler to run from Fire, ranSync=%v ranAsync=%v", ranSync, ranAsync)
	}
	if len(AsyncHandlers(registry.EventBufferOpen)) != 1 {
		t.Fatal("expected AsyncHandlers to expose the async hook")
	}
}
