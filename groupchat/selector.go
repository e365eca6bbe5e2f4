package groupchat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sweetpotato0/agentchat/agent"
	"github.com/sweetpotato0/agentchat/llm"
)

const routingPrompt = `Select the most appropriate agent to respond to the message.

Available agents:
{agents}

User message: {message}

Respond with ONLY the agent name.`

// domainHint maps content keywords to a token expected in matching agent
// names, short-circuiting LLM routing for obviously-classified requests.
type domainHint struct {
	keywords  []string
	nameToken string
}

var defaultDomainHints = []domainHint{
	{
		keywords:  []string{"who", "person", "people", "team", "member", "employee", "colleague"},
		nameToken: "people",
	},
	{
		keywords:  []string{"what", "how", "explain", "documentation", "knowledge", "information", "guide", "tutorial"},
		nameToken: "knowledge",
	},
}

// SpeakerSelector picks the next participant to take a turn. Selection is
// deterministic given its inputs except for the optional LLM-assisted path.
type SpeakerSelector struct {
	registry   agent.Registry
	routing    llm.Completer
	hints      []domainHint
	autoSelect bool
	logger     *slog.Logger
}

// NewSpeakerSelector constructs a selector. The routing completer is
// optional; without it selection is purely rule-based.
func NewSpeakerSelector(registry agent.Registry, routing llm.Completer, autoSelect bool, logger *slog.Logger) *SpeakerSelector {
	return &SpeakerSelector{
		registry:   registry,
		routing:    routing,
		hints:      defaultDomainHints,
		autoSelect: autoSelect,
		logger:     logger,
	}
}

// Select returns the name of the next speaker for the given message.
func (s *SpeakerSelector) Select(ctx context.Context, msg string, dir *directory, currentSpeaker string) (string, error) {
	active := dir.active()
	if len(active) == 0 {
		return "", ErrNoActiveParticipants
	}

	available := dir.available(active)
	if len(available) == 0 {
		// Everyone is saturated; reset the counters so the conversation
		// cannot deadlock on turn limits.
		dir.resetCounters(active)
		available = active
	}

	if !s.autoSelect {
		return s.fallback(available, dir, currentSpeaker), nil
	}

	lower := strings.ToLower(msg)
	for _, hint := range s.hints {
		if !containsAny(lower, hint.keywords) {
			continue
		}
		for _, name := range available {
			if strings.Contains(strings.ToLower(name), hint.nameToken) {
				s.logger.Info("selected speaker by content hint", "speaker", name, "hint", hint.nameToken)
				return name, nil
			}
		}
	}

	if s.routing != nil && len(available) > 1 {
		selected, err := s.llmSelect(ctx, msg, available)
		if err != nil {
			s.logger.Warn("llm speaker selection failed", "error", err)
		} else if selected != "" {
			s.logger.Info("selected speaker via routing model", "speaker", selected)
			return selected, nil
		}
	}

	return s.fallback(available, dir, currentSpeaker), nil
}

// llmSelect asks the routing model to pick one of the available names. The
// answer is accepted only if it matches a candidate exactly or contains a
// candidate name.
func (s *SpeakerSelector) llmSelect(ctx context.Context, msg string, available []string) (string, error) {
	descriptions := make([]string, 0, len(available))
	for _, name := range available {
		desc := name
		if ag, ok := s.registry.GetAgent(name); ok && ag.Instructions() != "" {
			desc = fmt.Sprintf("%s: %s", name, ag.Instructions())
		}
		descriptions = append(descriptions, desc)
	}

	result, err := s.routing.Complete(ctx, routingPrompt, map[string]string{
		"agents":  strings.Join(descriptions, "\n"),
		"message": msg,
	})
	if err != nil {
		return "", err
	}

	result = strings.TrimSpace(result)
	for _, name := range available {
		if result == name {
			return name, nil
		}
	}
	for _, name := range available {
		if strings.Contains(result, name) {
			return name, nil
		}
	}
	return "", nil
}

// fallback rotates after the current speaker, or picks the highest-priority
// available participant when the current speaker is not available.
func (s *SpeakerSelector) fallback(available []string, dir *directory, currentSpeaker string) string {
	for i, name := range available {
		if name == currentSpeaker {
			return available[(i+1)%len(available)]
		}
	}

	best := available[0]
	bestPriority, _ := dir.get(best)
	for _, name := range available[1:] {
		if info, ok := dir.get(name); ok && info.Priority > bestPriority.Priority {
			best = name
			bestPriority = info
		}
	}
	return best
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
