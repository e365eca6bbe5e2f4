package groupchat

import "time"

// Role describes how a participant takes part in the conversation.
type Role string

const (
	RoleFacilitator Role = "facilitator"
	RoleParticipant Role = "participant"
	RoleObserver    Role = "observer"
)

// ValidRole reports whether the role is one of the known values.
func ValidRole(r Role) bool {
	switch r {
	case RoleFacilitator, RoleParticipant, RoleObserver:
		return true
	}
	return false
}

// ChatConfig holds per-chat settings. It is read at session start and not
// mutated afterwards.
type ChatConfig struct {
	Name                     string        `json:"name"`
	Description              string        `json:"description,omitempty"`
	MaxTurns                 int           `json:"max_turns"`
	TerminationKeyword       string        `json:"termination_keyword"`
	EnableTerminationKeyword bool          `json:"enable_termination_keyword"`
	ResponseWaitTime         time.Duration `json:"response_wait_time"`
	AutoSelectSpeaker        bool          `json:"auto_select_speaker"`

	// AbortOnMissingAgent controls what happens when a selected speaker no
	// longer resolves in the registry mid-conversation: abort the call, or
	// skip the turn and continue (the default).
	AbortOnMissingAgent bool `json:"abort_on_missing_agent,omitempty"`
}

// DefaultChatConfig returns the default group chat configuration.
func DefaultChatConfig(name string) ChatConfig {
	return ChatConfig{
		Name:                     name,
		MaxTurns:                 10,
		TerminationKeyword:       "TERMINATE",
		EnableTerminationKeyword: true,
		ResponseWaitTime:         500 * time.Millisecond,
		AutoSelectSpeaker:        true,
	}
}

// ParticipantInfo holds per-chat metadata about an enrolled agent.
type ParticipantInfo struct {
	AgentName           string `json:"agent_name"`
	Role                Role   `json:"role"`
	Priority            int    `json:"priority"`
	MaxConsecutiveTurns int    `json:"max_consecutive_turns"`
}

// Stats is the structured conversation summary returned to callers.
type Stats struct {
	Name               string   `json:"name"`
	TotalTurns         int      `json:"total_turns"`
	Participants       []string `json:"participants"`
	ActiveParticipants []string `json:"active_participants"`
	ConversationActive bool     `json:"conversation_active"`
	MessageCount       int      `json:"message_count"`
}
