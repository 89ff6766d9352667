// Package session holds the per-session conversation log: an ordered,
// sliding-window sequence of user and assistant messages.
package session

import (
	"errors"

	"github.com/tailored-agentic-units/aria/core/protocol"
)

// ErrInvalidRole is returned when a message other than a user or assistant
// turn is added to a session.
var ErrInvalidRole = errors.New("session accepts only user and assistant messages")

// Stats summarizes a session's log.
type Stats struct {
	Length          int    `json:"conversation_length"`
	EstimatedTokens int    `json:"estimated_tokens"`
	Summary         string `json:"summary"`
	// TokenLimit echoes the advisory budget; zero when unset.
	TokenLimit int `json:"token_limit,omitempty"`
}

// Session holds an ordered sequence of conversation messages. Implementations
// must be safe for concurrent use.
type Session interface {
	// ID returns the unique session identifier.
	ID() string
	// AddMessage appends a message and evicts from the front until the
	// configured cap holds.
	AddMessage(msg protocol.Message) error
	// Messages returns a copy of the conversation history, oldest first.
	Messages() []protocol.Message
	// LastN returns a copy of the most recent n messages.
	LastN(n int) []protocol.Message
	// Len returns the number of stored messages.
	Len() int
	// EstimateTokens approximates the token count as characters / 4.
	EstimateTokens() int
	// Summary describes the message counts.
	Summary() string
	// Stats returns Len, EstimateTokens and Summary from one snapshot.
	Stats() Stats
	// Clear resets the conversation history.
	Clear()
}
