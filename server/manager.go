package server

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/tailored-agentic-units/aria/engine"
	"github.com/tailored-agentic-units/aria/observability"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionLimit    = errors.New("session limit reached")
)

const (
	EventSessionCreate observability.EventType = "server.session.create"
	EventSessionReset  observability.EventType = "server.session.reset"
	EventSessionDelete observability.EventType = "server.session.delete"
)

// Factory builds the engine for a new session.
type Factory func() (*engine.Engine, error)

// Manager owns one Engine per session. Engines share no mutable state;
// each serializes its own turns.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*engine.Engine
	pending  int
	factory  Factory
	limit    int
	observer observability.Observer
}

// NewManager creates a Manager. A non-positive limit means unbounded.
func NewManager(factory Factory, limit int, observer observability.Observer) *Manager {
	if observer == nil {
		observer = observability.NoOpObserver{}
	}
	return &Manager{
		sessions: make(map[string]*engine.Engine),
		factory:  factory,
		limit:    limit,
		observer: observer,
	}
}

// Create starts a session and returns its engine.
func (m *Manager) Create(ctx context.Context) (*engine.Engine, error) {
	// Pending creates hold a slot until the factory returns.
	m.mu.Lock()
	if m.limit > 0 && len(m.sessions)+m.pending >= m.limit {
		m.mu.Unlock()
		return nil, fmt.Errorf("%w: %d", ErrSessionLimit, m.limit)
	}
	m.pending++
	m.mu.Unlock()

	e, err := m.factory()

	m.mu.Lock()
	m.pending--
	if err != nil {
		m.mu.Unlock()
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}
	m.sessions[e.SessionID()] = e
	count := len(m.sessions)
	m.mu.Unlock()

	m.observer.OnEvent(ctx, observability.NewEvent(EventSessionCreate, observability.LevelInfo, "server", map[string]any{
		"session_id": e.SessionID(),
		"sessions":   count,
	}))
	return e, nil
}

// Get returns the engine for id.
func (m *Manager) Get(id string) (*engine.Engine, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return e, nil
}

// Reset clears the conversation of session id.
func (m *Manager) Reset(ctx context.Context, id string) (*engine.Engine, error) {
	e, err := m.Get(id)
	if err != nil {
		return nil, err
	}
	e.Reset(ctx)

	m.observer.OnEvent(ctx, observability.NewEvent(EventSessionReset, observability.LevelInfo, "server", map[string]any{
		"session_id": id,
	}))
	return e, nil
}

// Len returns the number of active sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Delete ends session id.
func (m *Manager) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	_, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}

	m.observer.OnEvent(ctx, observability.NewEvent(EventSessionDelete, observability.LevelInfo, "server", map[string]any{
		"session_id": id,
	}))
	return nil
}

// IDs returns the active session ids, sorted.
func (m *Manager) IDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
