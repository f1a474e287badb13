// Package registry holds the closed enumeration of indexer modules
// (core, language/typescript, language/python, language/go,
// language/rust, data/json, docs/markdown) and resolves which of them
// are active for a given run. The registration pattern — a mutex-guarded
// map, idempotent on re-registration — follows the teacher's
// (pre-deletion) internal/indexer/daemon/registry.go ProjectsRegistry.
package registry

import (
	"fmt"
	"sync"

	"github.com/conradkoh/raggrep/internal/rgerr"
)

// Factory constructs a module instance. Kept as an opaque any here (not
// module.Module) to avoid an import cycle: internal/module depends on
// internal/registry to look itself up, not the other way around.
type Factory func() any

// Registry is the process-wide module enumeration. One Registry instance
// is shared for the process lifetime; modules register themselves from
// init() in their own package.
type Registry struct {
	mu      sync.RWMutex
	order   []string
	entries map[string]Factory
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{entries: make(map[string]Factory)}
}

// Register binds id to factory. First write wins: a second Register call
// for an id already present is silently ignored, so a module can never
// be redefined out from under code that already resolved it.
func (r *Registry) Register(id string, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.entries[id]; exists {
		return
	}
	r.entries[id] = factory
	r.order = append(r.order, id)
}

// Has reports whether id is a known module.
func (r *Registry) Has(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[id]
	return ok
}

// New constructs a fresh instance of the module registered as id. It
// returns nil, false if id is unknown.
func (r *Registry) New(id string) (any, bool) {
	r.mu.RLock()
	factory, ok := r.entries[id]
	r.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return factory(), true
}

// IDs returns every registered module id in registration order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Resolve returns the subset of enabled that are actually registered,
// preserving enabled's order — this is the "order-preserving enable
// resolution" the config layer calls to turn a user's module list into
// constructible module ids. An id not in the registry is a configuration
// mistake, not a recoverable condition, so it is returned as a
// rgerr.Config error rather than silently dropped.
func (r *Registry) Resolve(enabled []string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	resolved := make([]string, 0, len(enabled))
	for _, id := range enabled {
		if _, ok := r.entries[id]; !ok {
			return nil, rgerr.Wrap(rgerr.Config, "registry.Resolve", fmt.Errorf("unknown module id %q", id))
		}
		resolved = append(resolved, id)
	}
	return resolved, nil
}

// Default is the process-wide registry every module's init() registers
// into.
var Default = New()
