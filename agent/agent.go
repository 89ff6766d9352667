// Package agent is the completion boundary: a provider-neutral Agent that
// turns an ordered message list into one text completion.
package agent

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/tailored-agentic-units/aria/core/protocol"
)

// Failure kinds reported by providers. Every provider error wraps exactly
// one of ErrNetwork, ErrRateLimited or ErrInvalidRequest, or ErrEmptyResponse
// when the call succeeded without text.
var (
	ErrNetwork         = errors.New("provider network error")
	ErrRateLimited     = errors.New("provider rate limited")
	ErrInvalidRequest  = errors.New("provider rejected request")
	ErrEmptyResponse   = errors.New("provider returned no text")
	ErrUnknownProvider = errors.New("unknown provider")
	ErrProviderExists  = errors.New("provider already registered")
	ErrEmptyProvider   = errors.New("provider name is empty")
)

// Options are the sampling parameters for one completion.
type Options struct {
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
}

// Agent produces a completion for a conversation. System messages carry
// instructions; user and assistant messages are the dialogue in order.
type Agent interface {
	Provider() string
	Model() string
	Complete(ctx context.Context, messages []protocol.Message, opts Options) (string, error)
}

// SplitSystem separates system messages from the dialogue. System contents
// are joined with blank lines.
func SplitSystem(messages []protocol.Message) (system string, dialogue []protocol.Message) {
	var parts []string
	dialogue = make([]protocol.Message, 0, len(messages))
	for _, m := range messages {
		if m.Role == protocol.RoleSystem {
			parts = append(parts, m.Content)
			continue
		}
		dialogue = append(dialogue, m)
	}
	return strings.Join(parts, "\n\n"), dialogue
}

// statusKind maps an HTTP status from a provider API error to a failure kind.
func statusKind(status int) error {
	switch {
	case status == http.StatusTooManyRequests:
		return ErrRateLimited
	case status >= 400 && status < 500:
		return ErrInvalidRequest
	default:
		return ErrNetwork
	}
}
