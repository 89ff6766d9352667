package session_test

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/tailored-agentic-units/aria/core/protocol"
	"github.com/tailored-agentic-units/aria/session"
)

func TestNew(t *testing.T) {
	s := session.NewMemorySession(3)

	if s.ID() == "" {
		t.Error("session ID should not be empty")
	}
	if s.Len() != 0 {
		t.Errorf("new session should have 0 messages, got %d", s.Len())
	}
}

func TestSession_ID_Unique(t *testing.T) {
	s1 := session.NewMemorySession(1)
	s2 := session.NewMemorySession(1)

	if s1.ID() == s2.ID() {
		t.Errorf("two sessions should have different IDs, both got %q", s1.ID())
	}
}

func TestSession_AddMessage_RejectsRole(t *testing.T) {
	s := session.NewMemorySession(1)

	for _, role := range []protocol.Role{protocol.RoleSystem, protocol.Role("tool")} {
		err := s.AddMessage(protocol.NewMessage(role, "x"))
		if !errors.Is(err, session.ErrInvalidRole) {
			t.Errorf("AddMessage(%q) error = %v, want %v", role, err, session.ErrInvalidRole)
		}
	}
	if s.Len() != 0 {
		t.Errorf("rejected messages were stored: len = %d", s.Len())
	}
}

func TestSession_SlidingWindow(t *testing.T) {
	tests := []struct {
		maxPairs int
		adds     int
	}{
		{maxPairs: 1, adds: 0},
		{maxPairs: 1, adds: 1},
		{maxPairs: 1, adds: 2},
		{maxPairs: 1, adds: 3},
		{maxPairs: 2, adds: 7},
		{maxPairs: 3, adds: 6},
		{maxPairs: 10, adds: 25},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("M=%d/N=%d", tt.maxPairs, tt.adds), func(t *testing.T) {
			s := session.NewMemorySession(tt.maxPairs)

			for i := range tt.adds {
				role := protocol.RoleUser
				if i%2 == 1 {
					role = protocol.RoleAssistant
				}
				if err := s.AddMessage(protocol.NewMessage(role, fmt.Sprintf("m%d", i))); err != nil {
					t.Fatalf("AddMessage: %v", err)
				}
			}

			want := min(tt.adds, 2*tt.maxPairs)
			msgs := s.Messages()
			if len(msgs) != want {
				t.Fatalf("len = %d, want %d", len(msgs), want)
			}
			if want == 0 {
				return
			}

			oldest := tt.adds - want
			if msgs[0].Content != fmt.Sprintf("m%d", oldest) {
				t.Errorf("oldest = %q, want m%d", msgs[0].Content, oldest)
			}
			if msgs[len(msgs)-1].Content != fmt.Sprintf("m%d", tt.adds-1) {
				t.Errorf("newest = %q, want m%d", msgs[len(msgs)-1].Content, tt.adds-1)
			}
		})
	}
}

func TestSession_TrimMaySplitPair(t *testing.T) {
	s := session.NewMemorySession(1)
	s.AddMessage(protocol.User("q1"))
	s.AddMessage(protocol.Assistant("a1"))
	s.AddMessage(protocol.User("q2"))

	msgs := s.Messages()
	if msgs[0].Role != protocol.RoleAssistant || msgs[1].Role != protocol.RoleUser {
		t.Errorf("roles = [%s %s], want [assistant user]", msgs[0].Role, msgs[1].Role)
	}
}

func TestSession_Messages_DefensiveCopy(t *testing.T) {
	s := session.NewMemorySession(5)
	s.AddMessage(protocol.User("original"))

	msgs := s.Messages()
	msgs[0].Content = "modified"

	if got := s.Messages()[0].Content; got != "original" {
		t.Errorf("content = %q, want %q", got, "original")
	}
}

func TestSession_LastN(t *testing.T) {
	s := session.NewMemorySession(5)
	s.AddMessage(protocol.User("a"))
	s.AddMessage(protocol.Assistant("b"))
	s.AddMessage(protocol.User("c"))

	tests := []struct {
		n    int
		want []string
	}{
		{n: 0, want: nil},
		{n: -1, want: nil},
		{n: 2, want: []string{"b", "c"}},
		{n: 10, want: []string{"a", "b", "c"}},
	}

	for _, tt := range tests {
		got := s.LastN(tt.n)
		if len(got) != len(tt.want) {
			t.Errorf("LastN(%d) len = %d, want %d", tt.n, len(got), len(tt.want))
			continue
		}
		for i, w := range tt.want {
			if got[i].Content != w {
				t.Errorf("LastN(%d)[%d] = %q, want %q", tt.n, i, got[i].Content, w)
			}
		}
	}
}

func TestSession_EstimateTokens(t *testing.T) {
	s := session.NewMemorySession(10)

	if got := s.EstimateTokens(); got != 0 {
		t.Fatalf("empty EstimateTokens = %d, want 0", got)
	}

	prev := 0
	for i := range 8 {
		s.AddMessage(protocol.User(strings.Repeat("x", i*3+1)))
		got := s.EstimateTokens()
		if got < prev {
			t.Fatalf("EstimateTokens decreased: %d -> %d", prev, got)
		}
		prev = got
	}

	// 1+4+7+10+13+16+19+22 = 92 characters
	if prev != 23 {
		t.Errorf("EstimateTokens = %d, want 23", prev)
	}

	s.Clear()
	if got := s.EstimateTokens(); got != 0 {
		t.Errorf("EstimateTokens after Clear = %d, want 0", got)
	}
}

func TestSession_Summary(t *testing.T) {
	s := session.NewMemorySession(10)

	if got := s.Summary(); got != "No conversation yet." {
		t.Errorf("empty Summary = %q", got)
	}

	s.AddMessage(protocol.User("hi"))
	s.AddMessage(protocol.Assistant("hello"))
	s.AddMessage(protocol.User("bye"))

	want := "Conversation stats: 2 user messages, 1 assistant responses. Current history length: 3 messages."
	if got := s.Summary(); got != want {
		t.Errorf("Summary = %q, want %q", got, want)
	}
}

func TestSession_Idempotent(t *testing.T) {
	s := session.NewMemorySession(10)
	s.AddMessage(protocol.User("what is the weather like today"))
	s.AddMessage(protocol.Assistant("sunny"))

	if s.Summary() != s.Summary() {
		t.Error("Summary not idempotent")
	}
	if s.EstimateTokens() != s.EstimateTokens() {
		t.Error("EstimateTokens not idempotent")
	}
	if s.Stats() != s.Stats() {
		t.Error("Stats not idempotent")
	}
}

func TestSession_Clear(t *testing.T) {
	s := session.NewMemorySession(10)
	s.AddMessage(protocol.User("a"))
	s.AddMessage(protocol.Assistant("b"))

	s.Clear()

	if s.Len() != 0 {
		t.Errorf("len after Clear = %d, want 0", s.Len())
	}
	if s.Summary() != "No conversation yet." {
		t.Errorf("Summary after Clear = %q", s.Summary())
	}
}

func TestSession_ConcurrentAccess(t *testing.T) {
	s := session.NewMemorySession(10)

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.AddMessage(protocol.User("msg"))
		}()
		go func() {
			defer wg.Done()
			_ = s.Stats()
			_ = s.Messages()
		}()
	}
	wg.Wait()

	if s.Len() != 20 {
		t.Errorf("len = %d, want 20", s.Len())
	}
}
