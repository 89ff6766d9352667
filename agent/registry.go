package agent

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Factory creates an Agent from configuration.
type Factory func(ctx context.Context, cfg *Config) (Agent, error)

// Registry maps provider names to factories. Thread-safe for concurrent
// access.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Builtin returns a Registry with the anthropic and gemini providers.
func Builtin() *Registry {
	r := NewRegistry()
	r.factories[ProviderAnthropic] = NewAnthropic
	r.factories[ProviderGemini] = NewGemini
	return r
}

// Register adds a provider factory.
func (r *Registry) Register(name string, f Factory) error {
	if name == "" {
		return ErrEmptyProvider
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("%w: %s", ErrProviderExists, name)
	}

	r.factories[name] = f
	return nil
}

// Replace updates the factory for an existing provider.
func (r *Registry) Replace(name string, f Factory) error {
	if name == "" {
		return ErrEmptyProvider
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; !exists {
		return fmt.Errorf("%w: %s", ErrUnknownProvider, name)
	}

	r.factories[name] = f
	return nil
}

// List returns the registered provider names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New instantiates the provider named by cfg.Provider.
func (r *Registry) New(ctx context.Context, cfg *Config) (Agent, error) {
	r.mu.RLock()
	f, exists := r.factories[cfg.Provider]
	r.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Provider)
	}

	a, err := f(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s agent: %w", cfg.Provider, err)
	}
	return a, nil
}
