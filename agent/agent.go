package agent

import (
	"context"
	"fmt"

	"github.com/sweetpotato0/agentchat/llm"
	"github.com/sweetpotato0/agentchat/message"
)

// Agent is the capability contract consumed by the group chat orchestrator.
// Implementations own their failure handling; ordinary generation failures
// should be returned as errors and are converted into error-flagged
// responses by the caller.
type Agent interface {
	// Name returns the stable identifier used for registry lookups.
	Name() string

	// Instructions returns the short behavioral description used for
	// LLM-assisted routing.
	Instructions() string

	// IsAvailable reports whether the agent can currently take a turn.
	IsAvailable() bool

	// ProcessMessage produces a response for the given message and
	// conversation history.
	ProcessMessage(ctx context.Context, text string, history []*message.Message, metadata map[string]any) (*message.Response, error)
}

// LLMAgent is an Agent backed by a hosted chat model.
type LLMAgent struct {
	name         string
	instructions string
	model        llm.ChatModel
	enabled      bool
}

// Option configures an LLMAgent
type Option func(*LLMAgent)

// WithName sets the agent name
func WithName(name string) Option {
	return func(a *LLMAgent) {
		a.name = name
	}
}

// WithInstructions sets the system instructions
func WithInstructions(instructions string) Option {
	return func(a *LLMAgent) {
		a.instructions = instructions
	}
}

// WithModel sets the backing chat model
func WithModel(model llm.ChatModel) Option {
	return func(a *LLMAgent) {
		a.model = model
	}
}

// WithEnabled toggles agent availability
func WithEnabled(enabled bool) Option {
	return func(a *LLMAgent) {
		a.enabled = enabled
	}
}

// New creates a new LLM-backed agent
func New(opts ...Option) *LLMAgent {
	a := &LLMAgent{
		name:    "agent",
		enabled: true,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Name returns the agent name
func (a *LLMAgent) Name() string { return a.name }

// Instructions returns the agent instructions
func (a *LLMAgent) Instructions() string { return a.instructions }

// IsAvailable reports whether the agent is enabled and has a model
func (a *LLMAgent) IsAvailable() bool { return a.enabled && a.model != nil }

// ProcessMessage replays the history into the backing model, prefixed with
// the agent's instructions, and wraps the reply in a Response.
func (a *LLMAgent) ProcessMessage(ctx context.Context, text string, history []*message.Message, metadata map[string]any) (*message.Response, error) {
	if a.model == nil {
		return nil, fmt.Errorf("agent %s has no model configured", a.name)
	}

	msgs := make([]*message.Message, 0, len(history)+2)
	if a.instructions != "" {
		msgs = append(msgs, message.New(message.RoleSystem, a.instructions))
	}
	msgs = append(msgs, history...)
	if len(history) == 0 || history[len(history)-1].Content != text {
		msgs = append(msgs, message.New(message.RoleUser, text))
	}

	reply, err := a.model.Generate(ctx, msgs)
	if err != nil {
		return nil, fmt.Errorf("agent %s generation failed: %w", a.name, err)
	}

	resp := message.NewResponse(a.name, reply.Content)
	if usage, ok := reply.Metadata["usage"].(map[string]any); ok {
		resp.Usage = usage
	}
	for k, v := range metadata {
		resp.Metadata[k] = v
	}
	return resp, nil
}

// NewFromConfig builds an LLM-backed agent from a provider-neutral model
// configuration via the llm factory.
func NewFromConfig(name, instructions string, cfg *llm.Config) (*LLMAgent, error) {
	model, err := llm.NewChatModel(cfg)
	if err != nil {
		return nil, fmt.Errorf("agent %s: %w", name, err)
	}
	return New(
		WithName(name),
		WithInstructions(instructions),
		WithModel(model),
	), nil
}
