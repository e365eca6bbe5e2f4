package message

import (
	"errors"
	"testing"
)

func TestNewMessage(t *testing.T) {
	msg := New(RoleUser, "hello")

	if msg.ID == "" {
		t.Error("Expected message to have an ID")
	}
	if msg.Role != RoleUser {
		t.Errorf("Expected role user, got %s", msg.Role)
	}
	if msg.Content != "hello" {
		t.Errorf("Expected content hello, got %s", msg.Content)
	}
	if msg.Metadata == nil {
		t.Error("Expected metadata map to be initialized")
	}
	if msg.CreatedAt.IsZero() {
		t.Error("Expected CreatedAt to be set")
	}
}

func TestNewAgentMessage(t *testing.T) {
	msg := NewAgentMessage("researcher", "findings")

	if msg.Role != RoleAssistant {
		t.Errorf("Expected role assistant, got %s", msg.Role)
	}
	if msg.AgentName != "researcher" {
		t.Errorf("Expected agent name researcher, got %s", msg.AgentName)
	}
}

func TestSpeaker(t *testing.T) {
	tests := []struct {
		name     string
		msg      *Message
		expected string
	}{
		{
			name:     "agent name wins",
			msg:      NewAgentMessage("bot", "hi"),
			expected: "bot",
		},
		{
			name: "sender metadata for user messages",
			msg: func() *Message {
				m := New(RoleUser, "hi")
				m.Metadata["sender"] = "alice"
				return m
			}(),
			expected: "alice",
		},
		{
			name:     "falls back to role",
			msg:      New(RoleSystem, "hi"),
			expected: "system",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.msg.Speaker(); got != tt.expected {
				t.Errorf("Expected speaker %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestCloneIsDeep(t *testing.T) {
	msg := New(RoleUser, "original")
	msg.Metadata["key"] = "value"

	cloned := Clone(msg)
	cloned.Content = "changed"
	cloned.Metadata["key"] = "changed"

	if msg.Content != "original" {
		t.Errorf("Clone mutated original content: %s", msg.Content)
	}
	if msg.Metadata["key"] != "value" {
		t.Errorf("Clone mutated original metadata: %v", msg.Metadata["key"])
	}
}

func TestCloneMessages(t *testing.T) {
	if CloneMessages(nil) != nil {
		t.Error("Expected nil for empty input")
	}

	msgs := []*Message{New(RoleUser, "a"), New(RoleUser, "b")}
	clones := CloneMessages(msgs)
	if len(clones) != 2 {
		t.Fatalf("Expected 2 clones, got %d", len(clones))
	}
	clones[0].Content = "changed"
	if msgs[0].Content != "a" {
		t.Error("CloneMessages mutated original slice")
	}
}

func TestErrorResponse(t *testing.T) {
	resp := NewErrorResponse("system", errors.New("model offline"))

	if !resp.IsError() {
		t.Error("Expected error response to report IsError")
	}
	if resp.Content != "Group chat error: model offline" {
		t.Errorf("Unexpected error content: %s", resp.Content)
	}
	if resp.Metadata["error"] != "model offline" {
		t.Errorf("Expected error metadata, got %v", resp.Metadata["error"])
	}

	ok := NewResponse("bot", "fine")
	if ok.IsError() {
		t.Error("Expected plain response not to report IsError")
	}
}
