// Package mock provides an Agent that returns scripted completions. With no
// script it answers offline by acknowledging the latest user message, which
// makes it usable as the default provider when no API key is configured.
package mock

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/tailored-agentic-units/aria/agent"
	"github.com/tailored-agentic-units/aria/core/protocol"
)

// Reply is one scripted completion outcome.
type Reply struct {
	Text string
	Err  error
}

// Call records one Complete invocation.
type Call struct {
	Messages []protocol.Message
	Options  agent.Options
}

// Agent is a scripted agent.Agent. Safe for concurrent use.
type Agent struct {
	mu      sync.Mutex
	model   string
	replies []Reply
	calls   []Call
	block   chan struct{}
}

// Option configures an Agent.
type Option func(*Agent)

// WithReplies queues replies consumed in order. Once exhausted the agent
// falls back to the offline answer.
func WithReplies(replies ...Reply) Option {
	return func(a *Agent) { a.replies = append(a.replies, replies...) }
}

// WithText queues successful replies.
func WithText(texts ...string) Option {
	return func(a *Agent) {
		for _, t := range texts {
			a.replies = append(a.replies, Reply{Text: t})
		}
	}
}

// WithError queues a failing reply.
func WithError(err error) Option {
	return func(a *Agent) { a.replies = append(a.replies, Reply{Err: err}) }
}

// WithBlock makes Complete wait until the channel is closed or the context
// ends.
func WithBlock(ch chan struct{}) Option {
	return func(a *Agent) { a.block = ch }
}

// New creates a scripted Agent.
func New(opts ...Option) *Agent {
	a := &Agent{model: "mock"}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Factory adapts New to agent.Factory for the provider registry.
func Factory(_ context.Context, cfg *agent.Config) (agent.Agent, error) {
	a := New()
	if cfg.Model != "" {
		a.model = cfg.Model
	}
	return a, nil
}

func (a *Agent) Provider() string { return agent.ProviderMock }
func (a *Agent) Model() string    { return a.model }

// Complete records the call and returns the next scripted reply.
func (a *Agent) Complete(ctx context.Context, messages []protocol.Message, opts agent.Options) (string, error) {
	a.mu.Lock()
	a.calls = append(a.calls, Call{Messages: slices.Clone(messages), Options: opts})
	var (
		next   Reply
		queued bool
	)
	if len(a.replies) > 0 {
		next, a.replies, queued = a.replies[0], a.replies[1:], true
	}
	block := a.block
	a.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return "", fmt.Errorf("%w: %v", agent.ErrNetwork, ctx.Err())
		}
	}

	if queued {
		return next.Text, next.Err
	}
	return offline(messages), nil
}

// Calls returns a copy of the recorded invocations.
func (a *Agent) Calls() []Call {
	a.mu.Lock()
	defer a.mu.Unlock()
	return slices.Clone(a.calls)
}

// LastCall returns the most recent invocation.
func (a *Agent) LastCall() (Call, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.calls) == 0 {
		return Call{}, false
	}
	return a.calls[len(a.calls)-1], true
}

func offline(messages []protocol.Message) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == protocol.RoleUser {
			return fmt.Sprintf("(offline) You said: %q. Configure a provider to get real answers.", messages[i].Content)
		}
	}
	return "(offline) Hello! Configure a provider to get real answers."
}
