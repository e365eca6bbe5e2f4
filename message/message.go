package message

import (
	"time"

	"github.com/google/uuid"
)

// Role represents the role of the message sender
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Message represents a single message in a conversation. Messages are
// append-only once recorded in a conversation history and must not be
// mutated after creation.
type Message struct {
	ID        string         `json:"id"`
	Role      Role           `json:"role"`
	Content   string         `json:"content"`
	AgentName string         `json:"agent_name,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// New creates a new message with the given role and content
func New(role Role, content string) *Message {
	return &Message{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		CreatedAt: time.Now(),
		Metadata:  make(map[string]any),
	}
}

// NewAgentMessage creates an assistant message attributed to the named agent.
func NewAgentMessage(agentName, content string) *Message {
	msg := New(RoleAssistant, content)
	msg.AgentName = agentName
	return msg
}

// Speaker returns the display label for the message author: the agent name
// for agent replies, the "sender" metadata entry for user input, or the
// role as a last resort.
func (m *Message) Speaker() string {
	if m.AgentName != "" {
		return m.AgentName
	}
	if m.Metadata != nil {
		if sender, ok := m.Metadata["sender"].(string); ok && sender != "" {
			return sender
		}
	}
	return string(m.Role)
}

// Clone creates a deep copy of the message.
func Clone(msg *Message) *Message {
	if msg == nil {
		return nil
	}
	cloned := *msg
	if msg.Metadata != nil {
		cloned.Metadata = make(map[string]any, len(msg.Metadata))
		for k, v := range msg.Metadata {
			cloned.Metadata[k] = v
		}
	}
	return &cloned
}

// CloneMessages copies a slice of messages.
func CloneMessages(msgs []*Message) []*Message {
	if len(msgs) == 0 {
		return nil
	}
	clones := make([]*Message, 0, len(msgs))
	for _, msg := range msgs {
		clones = append(clones, Clone(msg))
	}
	return clones
}
