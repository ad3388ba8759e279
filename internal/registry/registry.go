// Package registry is the process-wide catalog of search engines.
// Registration happens once at startup from an explicit list of
// constructors; it is not safe to register concurrently with active
// searches (single-writer-at-init discipline).
package registry

import (
	"fmt"
	"sync"

	"github.com/hyperifyio/omnisearch/internal/search"
)

// Factory constructs an engine instance. Factories typically close over
// adapter configuration (base URLs, API keys).
type Factory func() (search.Engine, error)

// Entry pairs a resolved engine with its registered name. Resolve returns
// entries in request order, which downstream code uses as the stable
// interleaving order.
type Entry struct {
	Name   string
	Engine search.Engine
}

// DuplicateEngineError reports a second registration under the same name.
type DuplicateEngineError struct{ Name string }

func (e *DuplicateEngineError) Error() string {
	return fmt.Sprintf("engine %q already registered", e.Name)
}

// UnknownEngineError reports a requested engine that was never registered.
type UnknownEngineError struct{ Name string }

func (e *UnknownEngineError) Error() string {
	return fmt.Sprintf("engine %q not registered", e.Name)
}

// Registry maps stable engine names to factories. Instances are built
// lazily on first resolve and cached for the life of the process.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
	instances map[string]search.Engine
	order     []string
}

func New() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
		instances: make(map[string]search.Engine),
	}
}

// Register adds an engine under a unique name.
func (r *Registry) Register(name string, f Factory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.factories[name]; ok {
		return &DuplicateEngineError{Name: name}
	}
	r.factories[name] = f
	r.order = append(r.order, name)
	return nil
}

// Discover returns every registered engine name in registration order,
// independent of enablement.
func (r *Registry) Discover() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Resolve instantiates the named engines, preserving the order of names.
// Any unknown name fails the whole call before any instantiation.
func (r *Registry) Resolve(names []string) ([]Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, name := range names {
		if _, ok := r.factories[name]; !ok {
			return nil, &UnknownEngineError{Name: name}
		}
	}
	out := make([]Entry, 0, len(names))
	for _, name := range names {
		inst, ok := r.instances[name]
		if !ok {
			var err error
			inst, err = r.factories[name]()
			if err != nil {
				return nil, fmt.Errorf("construct engine %q: %w", name, err)
			}
			r.instances[name] = inst
		}
		out = append(out, Entry{Name: name, Engine: inst})
	}
	return out, nil
}
