package agent

import (
	"context"

	"github.com/sweetpotato0/agentchat/message"
)

// Responder produces a reply for a message without a hosted model.
type Responder func(ctx context.Context, text string, history []*message.Message) (string, error)

// Static is a rule-based Agent useful for canned lookups and tests.
type Static struct {
	name         string
	instructions string
	respond      Responder
}

// NewStatic creates a rule-based agent with the given responder.
func NewStatic(name, instructions string, respond Responder) *Static {
	return &Static{
		name:         name,
		instructions: instructions,
		respond:      respond,
	}
}

// Name returns the agent name
func (s *Static) Name() string { return s.name }

// Instructions returns the agent instructions
func (s *Static) Instructions() string { return s.instructions }

// IsAvailable reports whether a responder is configured
func (s *Static) IsAvailable() bool { return s.respond != nil }

// ProcessMessage invokes the responder and wraps its output in a Response.
func (s *Static) ProcessMessage(ctx context.Context, text string, history []*message.Message, metadata map[string]any) (*message.Response, error) {
	content, err := s.respond(ctx, text, history)
	if err != nil {
		return nil, err
	}
	resp := message.NewResponse(s.name, content)
	for k, v := range metadata {
		resp.Metadata[k] = v
	}
	return resp, nil
}
