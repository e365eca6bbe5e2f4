package groupchat

import (
	"fmt"
	"time"

	"github.com/sweetpotato0/agentchat/agent"
	"github.com/sweetpotato0/agentchat/message"
)

// Record is the serializable snapshot of a group chat session, used by
// storage backends.
type Record struct {
	ID             string             `json:"id"`
	Config         ChatConfig         `json:"config"`
	Participants   []ParticipantInfo  `json:"participants"`
	History        []*message.Message `json:"history,omitempty"`
	TurnCount      int                `json:"turn_count"`
	CurrentSpeaker string             `json:"current_speaker,omitempty"`
	Active         bool               `json:"active"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

// Clone deep-copies the record.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	cloned := *r
	cloned.Participants = append([]ParticipantInfo(nil), r.Participants...)
	cloned.History = message.CloneMessages(r.History)
	return &cloned
}

// Snapshot captures the session state for persistence.
func (gc *GroupChat) Snapshot() *Record {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return &Record{
		ID:             gc.id,
		Config:         gc.config,
		Participants:   gc.dir.snapshot(),
		History:        message.CloneMessages(gc.history),
		TurnCount:      gc.turnCount,
		CurrentSpeaker: gc.currentSpeaker,
		Active:         gc.active,
		CreatedAt:      gc.createdAt,
		UpdatedAt:      gc.updatedAt,
	}
}

// NewFromRecord rehydrates a session from a snapshot. Every persisted
// participant must still resolve in the registry.
func NewFromRecord(record *Record, registry agent.Registry, opts ...Option) (*GroupChat, error) {
	if record == nil {
		return nil, fmt.Errorf("group chat record is nil")
	}

	gc := New(record.ID, record.Config, registry, opts...)
	for _, info := range record.Participants {
		if _, ok := registry.GetAgent(info.AgentName); !ok {
			return nil, fmt.Errorf("%w: %s", ErrAgentNotFound, info.AgentName)
		}
		p := info
		gc.dir.add(&p)
	}
	gc.history = message.CloneMessages(record.History)
	gc.turnCount = record.TurnCount
	gc.currentSpeaker = record.CurrentSpeaker
	gc.createdAt = record.CreatedAt
	gc.updatedAt = record.UpdatedAt
	return gc, nil
}
