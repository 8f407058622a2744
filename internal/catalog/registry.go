package catalog

import (
	"fmt"
	"sync"
)

// Registry owns the set of registered adapters and resolves one either by
// declared source type or by inspecting a URL. Registration normally happens
// once at startup; the lock makes late registration safe anyway.
type Registry struct {
	mu       sync.RWMutex
	adapters map[SourceType]Adapter
	order    []SourceType // registration order, used for URL resolution
}

// NewRegistry builds a registry with the given adapters pre-registered, in
// argument order.
func NewRegistry(adapters ...Adapter) *Registry {
	r := &Registry{adapters: make(map[SourceType]Adapter)}
	for _, a := range adapters {
		r.Register(a)
	}
	return r
}

// Register adds an adapter keyed by its declared source type. The last
// registration for a given source type wins; the original position in the
// resolution order is kept on collision.
func (r *Registry) Register(a Adapter) {
	r.mu.Lock()
	defer r.mu.Unlock()

	st := a.SourceType()
	if _, exists := r.adapters[st]; !exists {
		r.order = append(r.order, st)
	}
	r.adapters[st] = a
}

// Resolve returns the adapter for an exact source type.
func (r *Registry) Resolve(source SourceType) (Adapter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.adapters[source]
	if !ok {
		return nil, fmt.Errorf("no adapter registered for source type %q", source)
	}
	return a, nil
}

// ResolveByURL returns the first registered adapter whose ValidateURL accepts
// the URL, in registration order.
func (r *Registry) ResolveByURL(rawURL string) (Adapter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, st := range r.order {
		if a := r.adapters[st]; a.ValidateURL(rawURL) {
			return a, nil
		}
	}
	return nil, fmt.Errorf("No adapter found for URL: %s", rawURL)
}

// IsURLSupported reports whether ResolveByURL would succeed. Safe for any
// input, including empty strings and non-URL garbage.
func (r *Registry) IsURLSupported(rawURL string) bool {
	if rawURL == "" {
		return false
	}
	_, err := r.ResolveByURL(rawURL)
	return err == nil
}

// SupportedSourceTypes returns the registered source types in registration
// order. The slice is a copy; mutating it never affects the registry.
func (r *Registry) SupportedSourceTypes() []SourceType {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]SourceType, len(r.order))
	copy(out, r.order)
	return out
}
