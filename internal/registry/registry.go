// Package registry implements the compile-time extension surface:
// Actions, Motions, TextObjects, Commands,
// Hooks, Options, Keybindings, Panels, StatuslineSegments and
// Notifications are each indexed by id/name/alias (and, for text
// objects and keybindings, by trigger), frozen once on first lookup,
// and collisions are recorded deterministically rather than silently
// overwritten.
//
// Go has no native distributed-slice/linker-section mechanism, so
// static gathering happens through init(): each stdactions file calls
// a package-level Register* in its own init(), appending to an
// in-process slice before main runs. This package owns that slice plus
// the freeze/lookup machinery around it.
package registry

import (
	"fmt"
	"sort"
	"sync"
)

// Entry is the subset of fields every registry kind shares: an id,
// display name, aliases, and a priority used to break collisions
// deterministically (higher wins, then lexicographic id).
type Entry interface {
	EntryID() string
	EntryName() string
	EntryAliases() []string
	EntryPriority() int
}

// Collision records that two entries claimed the same key and which
// one won.
type Collision struct {
	Key       string
	Source    string // "id", "name", "alias", or "trigger"
	WinnerID  string
	ShadowedID string
}

// Index is a generic registry of one entry kind, built once via Freeze
// and read-only thereafter.
type Index[T Entry] struct {
	mu         sync.Mutex
	pending    []T
	frozen     bool
	byID       map[string]T
	byName     map[string]T
	byAlias    map[string]T
	collisions []Collision
}

// Register appends an entry to the pending set. Safe to call from
// package init() functions before Freeze is ever invoked; panics if
// called after freezing, since the whole point of freezing is that the
// table stops changing underneath lookups.
func (idx *Index[T]) Register(e T) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if idx.frozen {
		panic(fmt.Sprintf("registry: Register(%s) called after Freeze", e.EntryID()))
	}
	idx.pending = append(idx.pending, e)
}

// claim tries to insert (key, e) into table, recording a collision
// against the existing higher-priority-or-lexicographically-smaller-id
// winner instead of overwriting it silently.
func claim[T Entry](table map[string]T, collisions *[]Collision, source, key string, e T) {
	if key == "" {
		return
	}
	cur, ok := table[key]
	if !ok {
		table[key] = e
		return
	}
	winner, shadowed := pickWinner(cur, e)
	table[key] = winner
	*collisions = append(*collisions, Collision{
		Key:        key,
		Source:     source,
		WinnerID:   winner.EntryID(),
		ShadowedID: shadowed.EntryID(),
	})
}

func pickWinner[T Entry](a, b T) (winner, shadowed T) {
	if a.EntryPriority() != b.EntryPriority() {
		if a.EntryPriority() > b.EntryPriority() {
			return a, b
		}
		return b, a
	}
	if a.EntryID() <= b.EntryID() {
		return a, b
	}
	return b, a
}

// Freeze builds the lookup tables from every entry registered so far.
// It is idempotent: calling it more than once is a no-op after the
// first call, so every lookup sees a frozen table.
// strict, when true, panics on any collision (the debug-build policy);
// release builds should pass strict=false and consult Collisions()
// instead.
func (idx *Index[T]) Freeze(strict bool) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if idx.frozen {
		return
	}
	idx.byID = make(map[string]T, len(idx.pending))
	idx.byName = make(map[string]T, len(idx.pending))
	idx.byAlias = make(map[string]T)
	sorted := append([]T(nil), idx.pending...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].EntryID() < sorted[j].EntryID() })
	for _, e := range sorted {
		claim(idx.byID, &idx.collisions, "id", e.EntryID(), e)
		claim(idx.byName, &idx.collisions, "name", e.EntryName(), e)
		for _, alias := range e.EntryAliases() {
			claim(idx.byAlias, &idx.collisions, "alias", alias, e)
		}
	}
	idx.frozen = true
	if strict && len(idx.collisions) > 0 {
		panic(fmt.Sprintf("registry: %d collision(s) at freeze: %+v", len(idx.collisions), idx.collisions))
	}
}

func (idx *Index[T]) ensureFrozen() {
	if !idx.frozen {
		idx.Freeze(false)
	}
}

// ByID looks up an entry by id.
func (idx *Index[T]) ByID(id string) (T, bool) {
	idx.ensureFrozen()
	e, ok := idx.byID[id]
	return e, ok
}

// ByName looks up an entry by its declared name.
func (idx *Index[T]) ByName(name string) (T, bool) {
	idx.ensureFrozen()
	e, ok := idx.byName[name]
	return e, ok
}

// ByNameOrAlias looks up by name first, falling back to alias. After
// the freeze the result is deterministic: the same key always resolves
// to the same entry.
func (idx *Index[T]) ByNameOrAlias(key string) (T, bool) {
	idx.ensureFrozen()
	if e, ok := idx.byName[key]; ok {
		return e, ok
	}
	e, ok := idx.byAlias[key]
	return e, ok
}

// All returns every entry that survived freezing (winners only, sorted
// by id), deduplicated across the id/name/alias maps.
func (idx *Index[T]) All() []T {
	idx.ensureFrozen()
	seen := make(map[string]bool, len(idx.byID))
	out := make([]T, 0, len(idx.byID))
	for _, e := range idx.byID {
		if !seen[e.EntryID()] {
			seen[e.EntryID()] = true
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EntryID() < out[j].EntryID() })
	return out
}

// Collisions exposes the recorded collisions for release builds.
func (idx *Index[T]) Collisions() []Collision {
	idx.ensureFrozen()
	return append([]Collision(nil), idx.collisions...)
}

// Reset clears all pending and frozen state. Exists for tests only:
// production code registers once at process start and never resets.
func (idx *Index[T]) Reset() {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.pending = nil
	idx.frozen = false
	idx.byID, idx.byName, idx.byAlias, idx.collisions = nil, nil, nil, nil
}
