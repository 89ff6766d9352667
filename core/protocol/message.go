// Package protocol defines the canonical conversation types shared across
// the guardrail, session, engine, and agent packages.
package protocol

import "fmt"

// Role identifies the sender of a conversation message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// IsValid reports whether r is one of the known roles.
func (r Role) IsValid() bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant:
		return true
	}
	return false
}

// ParseRole converts a string into a Role, rejecting unknown values.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.IsValid() {
		return "", fmt.Errorf("unknown role: %q", s)
	}
	return r, nil
}

// Message is a single turn in a conversation. Messages are values; a stored
// message is never edited in place.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// NewMessage creates a Message with the given role and content.
//
// Example:
//
//	msg := protocol.NewMessage(protocol.RoleUser, "Hello, world!")
func NewMessage(role Role, content string) Message {
	return Message{Role: role, Content: content}
}

// System, User, and Assistant are shorthands for NewMessage.
func System(content string) Message    { return NewMessage(RoleSystem, content) }
func User(content string) Message      { return NewMessage(RoleUser, content) }
func Assistant(content string) Message { return NewMessage(RoleAssistant, content) }
