package groupchat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sweetpotato0/agentchat/llm"
	"github.com/sweetpotato0/agentchat/message"
	"github.com/sweetpotato0/agentchat/tokenizer"
)

const summaryPrompt = `You are an expert analyst summarizing a multi-agent technical discussion. Produce a structured summary with the following sections in Markdown:

**Objective**: one concise sentence.
**Key Points**: bullet list of pivotal facts/findings.
**Agent Contributions**: bullet list per agent <AgentName>: their unique inputs (skip redundancy).
**Risks / Gaps**: bullet list (or 'None').
**Next Steps**: actionable bullets.
Keep total length proportionate to transcript; do not hallucinate.

Transcript (recent tail):
{transcript}

Generate the structured summary now.`

// Summary tuning defaults; overridable via SummarizerOption.
const (
	defaultTranscriptCharLimit  = 6000
	defaultTranscriptTokenLimit = 4000
	heuristicExcerptLimit       = 1500
)

// Summarizer condenses a bounded transcript window into a structured
// synopsis. Execution is three-tiered: a dedicated summary model, then the
// shared routing model, then a deterministic heuristic that never fails and
// never touches the network.
type Summarizer struct {
	summary    llm.Completer
	routing    llm.Completer
	counter    tokenizer.Tokenizer
	charLimit  int
	tokenLimit int
	logger     *slog.Logger
}

// SummarizerOption configures a Summarizer.
type SummarizerOption func(*Summarizer)

// WithTranscriptCharLimit bounds the rendered transcript size in characters.
func WithTranscriptCharLimit(n int) SummarizerOption {
	return func(s *Summarizer) {
		if n > 0 {
			s.charLimit = n
		}
	}
}

// WithTranscriptTokenLimit bounds the transcript fed to a model in tokens.
func WithTranscriptTokenLimit(n int) SummarizerOption {
	return func(s *Summarizer) {
		if n > 0 {
			s.tokenLimit = n
		}
	}
}

// WithSummaryTokenCounter sets the tokenizer used for transcript budgeting.
func WithSummaryTokenCounter(counter tokenizer.Tokenizer) SummarizerOption {
	return func(s *Summarizer) {
		if counter != nil {
			s.counter = counter
		}
	}
}

// NewSummarizer constructs a summarizer. Both completers may be nil.
func NewSummarizer(summary, routing llm.Completer, logger *slog.Logger, opts ...SummarizerOption) *Summarizer {
	s := &Summarizer{
		summary:    summary,
		routing:    routing,
		counter:    tokenizer.NewSimpleTokenizer(),
		charLimit:  defaultTranscriptCharLimit,
		tokenLimit: defaultTranscriptTokenLimit,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Summarize condenses the history tail. Any model failure is downgraded to
// the heuristic output; this method never returns an error.
func (s *Summarizer) Summarize(ctx context.Context, history []*message.Message, participants []string, turnCount, maxMessages int) string {
	if len(history) == 0 {
		return "No conversation yet."
	}

	transcript := buildTranscript(history, maxMessages, s.charLimit)

	model := s.summary
	if model == nil {
		model = s.routing
	}
	if model == nil {
		return s.heuristic(transcript, participants, turnCount, "heuristic")
	}

	bounded := tokenizer.TruncateByWords(s.counter, transcript, s.tokenLimit)
	result, err := model.Complete(ctx, summaryPrompt, map[string]string{"transcript": bounded})
	if err != nil {
		s.logger.Warn("summary generation failed, fallback used", "error", err)
		return s.heuristic(transcript, participants, turnCount, "fallback")
	}
	return strings.TrimSpace(result)
}

func (s *Summarizer) heuristic(transcript string, participants []string, turnCount int, label string) string {
	return fmt.Sprintf(
		"Conversation Summary (%s)\nParticipants: %s\nTurns: %d\nRecent Excerpt (truncated):\n%s",
		label,
		strings.Join(participants, ", "),
		turnCount,
		truncate(transcript, heuristicExcerptLimit),
	)
}
