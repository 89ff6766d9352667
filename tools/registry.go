// Package tools implements the function registry: a fixed set of named
// functions (calculator, time_info, define_word) reachable through an
// explicit name-to-handler mapping.
//
// Callers inside the process build typed Commands directly:
//
//	res, err := reg.Execute(ctx, tools.Calculate{Expression: "2+2"})
//
// External callers supply a name and JSON arguments, which Decode turns
// into the same typed Command before dispatch.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/tailored-agentic-units/aria/core/protocol"
)

// Handler executes a Command. Handlers receive only the Command type they
// were registered for.
type Handler func(ctx context.Context, cmd Command) (Result, error)

// Result is a function's output. IsError marks an explanatory message for
// a rejected request (for example an invalid expression) rather than a
// successful result.
type Result struct {
	Content string `json:"content"`
	IsError bool   `json:"is_error,omitempty"`
}

// Definition binds a function descriptor to its argument decoder and
// handler.
type Definition struct {
	Tool    protocol.Tool
	Decode  Decoder
	Handler Handler
}

// Registry maps function names to handlers. Safe for concurrent use.
type Registry struct {
	entries map[string]Definition
	mu      sync.RWMutex
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]Definition)}
}

// Register adds a function. Returns ErrAlreadyExists if the name is taken;
// use Replace to swap an existing handler.
func (r *Registry) Register(def Definition) error {
	if def.Tool.Name == "" {
		return ErrEmptyName
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[def.Tool.Name]; exists {
		return fmt.Errorf("%w: %s", ErrAlreadyExists, def.Tool.Name)
	}

	r.entries[def.Tool.Name] = def
	return nil
}

// Replace updates an existing function's definition.
// Returns ErrNotFound if no function with the name is registered.
func (r *Registry) Replace(def Definition) error {
	if def.Tool.Name == "" {
		return ErrEmptyName
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[def.Tool.Name]; !exists {
		return fmt.Errorf("%w: %s", ErrNotFound, def.Tool.Name)
	}

	r.entries[def.Tool.Name] = def
	return nil
}

// Get retrieves a handler by function name.
func (r *Registry) Get(name string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	def, exists := r.entries[name]
	if !exists {
		return nil, false
	}
	return def.Handler, true
}

// List returns the descriptors of all registered functions sorted by name.
func (r *Registry) List() []protocol.Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]protocol.Tool, 0, len(r.entries))
	for _, def := range r.entries {
		out = append(out, def.Tool)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out
}

// Execute dispatches cmd to the handler registered under cmd.Name().
// Handler errors are wrapped with the function name.
func (r *Registry) Execute(ctx context.Context, cmd Command) (Result, error) {
	if cmd == nil {
		return Result{}, fmt.Errorf("%w: nil command", ErrInvalidArguments)
	}

	r.mu.RLock()
	def, exists := r.entries[cmd.Name()]
	r.mu.RUnlock()

	if !exists {
		return Result{}, fmt.Errorf("%w: %s", ErrNotFound, cmd.Name())
	}

	res, err := def.Handler(ctx, cmd)
	if err != nil {
		return Result{}, fmt.Errorf("function %s execution failed: %w", cmd.Name(), err)
	}
	return res, nil
}

// Decode converts a function name and JSON arguments into a typed Command.
func (r *Registry) Decode(name string, raw json.RawMessage) (Command, error) {
	r.mu.RLock()
	def, exists := r.entries[name]
	r.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if def.Decode == nil {
		return nil, fmt.Errorf("%w: %s accepts no external arguments", ErrInvalidArguments, name)
	}
	return def.Decode(raw)
}

// Call decodes raw arguments for name and executes the resulting Command.
func (r *Registry) Call(ctx context.Context, name string, raw json.RawMessage) (Result, error) {
	cmd, err := r.Decode(name, raw)
	if err != nil {
		return Result{}, err
	}
	return r.Execute(ctx, cmd)
}
