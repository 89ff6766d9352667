package session

import (
	"fmt"
	"sync"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/tailored-agentic-units/aria/core/protocol"
)

const emptySummary = "No conversation yet."

type memorySession struct {
	id         string
	maxPairs   int
	tokenLimit int
	messages   []protocol.Message
	mu         sync.RWMutex
}

// NewMemorySession creates a Session backed by an in-memory slice holding at
// most 2*maxPairs messages. A non-positive maxPairs uses the default.
// The session is assigned a unique UUIDv7 identifier.
func NewMemorySession(maxPairs int) Session {
	if maxPairs <= 0 {
		maxPairs = DefaultMaxPairs
	}
	return &memorySession{
		id:       uuid.Must(uuid.NewV7()).String(),
		maxPairs: maxPairs,
	}
}

func (s *memorySession) ID() string {
	return s.id
}

// AddMessage appends msg then drops the oldest messages beyond the cap.
// Eviction counts messages, not pairs, so a user/assistant pair can be split
// at the boundary.
func (s *memorySession) AddMessage(msg protocol.Message) error {
	if msg.Role != protocol.RoleUser && msg.Role != protocol.RoleAssistant {
		return fmt.Errorf("%w: %q", ErrInvalidRole, msg.Role)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.messages = append(s.messages, msg)

	if excess := len(s.messages) - 2*s.maxPairs; excess > 0 {
		kept := make([]protocol.Message, len(s.messages)-excess)
		copy(kept, s.messages[excess:])
		s.messages = kept
	}
	return nil
}

func (s *memorySession) Messages() []protocol.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	copied := make([]protocol.Message, len(s.messages))
	copy(copied, s.messages)
	return copied
}

func (s *memorySession) LastN(n int) []protocol.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if n <= 0 {
		return []protocol.Message{}
	}
	n = min(n, len(s.messages))

	copied := make([]protocol.Message, n)
	copy(copied, s.messages[len(s.messages)-n:])
	return copied
}

func (s *memorySession) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.messages)
}

func (s *memorySession) EstimateTokens() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.estimateTokens()
}

func (s *memorySession) Summary() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.summary()
}

func (s *memorySession) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Stats{
		Length:          len(s.messages),
		EstimatedTokens: s.estimateTokens(),
		Summary:         s.summary(),
		TokenLimit:      s.tokenLimit,
	}
}

func (s *memorySession) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = nil
}

func (s *memorySession) estimateTokens() int {
	chars := 0
	for _, msg := range s.messages {
		chars += utf8.RuneCountInString(msg.Content)
	}
	return chars / 4
}

func (s *memorySession) summary() string {
	if len(s.messages) == 0 {
		return emptySummary
	}

	var users, assistants int
	for _, msg := range s.messages {
		switch msg.Role {
		case protocol.RoleUser:
			users++
		case protocol.RoleAssistant:
			assistants++
		}
	}
	return fmt.Sprintf(
		"Conversation stats: %d user messages, %d assistant responses. Current history length: %d messages.",
		users, assistants, len(s.messages),
	)
}
