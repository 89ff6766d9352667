package mock_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/tailored-agentic-units/aria/agent"
	"github.com/tailored-agentic-units/aria/agent/mock"
	"github.com/tailored-agentic-units/aria/core/protocol"
)

func TestScriptedReplies(t *testing.T) {
	a := mock.New(mock.WithText("first"), mock.WithError(agent.ErrRateLimited))
	ctx := context.Background()
	msgs := []protocol.Message{protocol.User("hi")}

	got, err := a.Complete(ctx, msgs, agent.Options{MaxTokens: 5})
	if err != nil || got != "first" {
		t.Fatalf("first Complete() = %q, %v", got, err)
	}

	if _, err := a.Complete(ctx, msgs, agent.Options{}); !errors.Is(err, agent.ErrRateLimited) {
		t.Fatalf("second Complete() error = %v, want %v", err, agent.ErrRateLimited)
	}

	got, err = a.Complete(ctx, msgs, agent.Options{})
	if err != nil || !strings.Contains(got, `"hi"`) {
		t.Fatalf("offline Complete() = %q, %v", got, err)
	}

	calls := a.Calls()
	if len(calls) != 3 {
		t.Fatalf("Calls() len = %d, want 3", len(calls))
	}
	if calls[0].Options.MaxTokens != 5 {
		t.Errorf("calls[0].Options.MaxTokens = %d, want 5", calls[0].Options.MaxTokens)
	}
}

func TestBlock_ContextCancel(t *testing.T) {
	a := mock.New(mock.WithBlock(make(chan struct{})))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := a.Complete(ctx, nil, agent.Options{})
	if !errors.Is(err, agent.ErrNetwork) {
		t.Errorf("Complete() error = %v, want %v", err, agent.ErrNetwork)
	}
}

func TestFactory(t *testing.T) {
	a, err := mock.Factory(context.Background(), &agent.Config{Model: "m1"})
	if err != nil {
		t.Fatalf("Factory() error: %v", err)
	}
	if a.Model() != "m1" || a.Provider() != agent.ProviderMock {
		t.Errorf("agent = %s/%s", a.Provider(), a.Model())
	}

	if _, ok := a.(*mock.Agent).LastCall(); ok {
		t.Error("LastCall() reported a call before any Complete")
	}
}
