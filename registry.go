package fabrica

import (
	"slices"
	"sync"
)

// Registry maps string identifiers and target model names to factories.
//
// Identifiers are opaque keys, by convention "<app>.<FactoryName>", e.g.
// "blog.PostFactory". Registration happens explicitly, typically from init
// functions; lookups fail lazily at first use with a FactoryNotFoundError,
// never at registration time. Registering an identifier twice overwrites
// the previous entry.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory // identifier -> factory
	models    map[string]Factory // target model name -> factory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
		models:    make(map[string]Factory),
	}
}

// Register adds a factory under the given identifier. The factory is also
// indexed by its target model, so relation expansion and fixture sets can
// find it by model name.
func (r *Registry) Register(identifier string, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[identifier] = f
	if m := f.Model(); m != "" {
		r.models[m] = f
	}
}

// Lookup returns the factory registered under the given identifier.
func (r *Registry) Lookup(identifier string) (Factory, error) {
	r.mu.RLock()
	f, ok := r.factories[identifier]
	r.mu.RUnlock()
	if !ok {
		return nil, NewFactoryNotFoundError(identifier)
	}
	return f, nil
}

// ForModel returns the factory whose target model matches the given name.
// When several factories share a model, the most recently registered wins.
func (r *Registry) ForModel(model string) (Factory, error) {
	r.mu.RLock()
	f, ok := r.models[model]
	r.mu.RUnlock()
	if !ok {
		return nil, NewFactoryNotFoundErrorForModel(model)
	}
	return f, nil
}

// Identifiers returns all registered identifiers in sorted order.
func (r *Registry) Identifiers() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.factories))
	for id := range r.factories {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// defaultRegistry backs the package-level registration functions and any
// client built without WithRegistry.
var defaultRegistry = NewRegistry()

// DefaultRegistry returns the process-wide registry.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// Register adds a factory to the default registry.
//
//	func init() {
//	    fabrica.Register("blog.PostFactory", PostFactory{})
//	}
func Register(identifier string, f Factory) {
	defaultRegistry.Register(identifier, f)
}

// Lookup returns the factory registered under the given identifier in the
// default registry.
func Lookup(identifier string) (Factory, error) {
	return defaultRegistry.Lookup(identifier)
}
