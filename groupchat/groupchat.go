package groupchat

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/sweetpotato0/agentchat/agent"
	"github.com/sweetpotato0/agentchat/llm"
	"github.com/sweetpotato0/agentchat/message"
	"github.com/sweetpotato0/agentchat/pkg/logging"
	"github.com/sweetpotato0/agentchat/pkg/telemetry"
	"github.com/sweetpotato0/agentchat/tokenizer"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// GroupChat drives a turn-based conversation among registered agents. It
// owns the conversation history and participant directory; the agent
// registry and model capabilities are held by reference only.
//
// A GroupChat serializes its own Send/Broadcast calls with an internal
// mutex, so at most one orchestration call is in flight per session.
// Distinct sessions are fully independent.
type GroupChat struct {
	id       string
	config   ChatConfig
	registry agent.Registry

	mu             sync.Mutex
	dir            *directory
	history        []*message.Message
	turnCount      int
	currentSpeaker string
	active         bool
	closed         bool
	initialized    bool
	createdAt      time.Time
	updatedAt      time.Time

	routingCfg    *llm.Config
	summaryCfg    *llm.Config
	routing       llm.Completer
	summary       llm.Completer
	counter       tokenizer.Tokenizer
	summaryTokens int

	selector   *SpeakerSelector
	summarizer *Summarizer

	logger *slog.Logger
	tracer trace.Tracer
}

// Option configures a GroupChat.
type Option func(*GroupChat)

// WithRoutingModel sets an already-connected routing completer.
func WithRoutingModel(c llm.Completer) Option {
	return func(gc *GroupChat) {
		gc.routing = c
	}
}

// WithSummaryModel sets an already-connected summary completer.
func WithSummaryModel(c llm.Completer) Option {
	return func(gc *GroupChat) {
		gc.summary = c
	}
}

// WithRoutingConfig defers routing model construction to Initialize.
func WithRoutingConfig(cfg *llm.Config) Option {
	return func(gc *GroupChat) {
		gc.routingCfg = cfg
	}
}

// WithSummaryConfig defers summary model construction to Initialize.
func WithSummaryConfig(cfg *llm.Config) Option {
	return func(gc *GroupChat) {
		gc.summaryCfg = cfg
	}
}

// WithTokenCounter sets the tokenizer used for summary budgeting.
func WithTokenCounter(counter tokenizer.Tokenizer) Option {
	return func(gc *GroupChat) {
		gc.counter = counter
	}
}

// WithSummaryTokenLimit bounds the transcript fed to the summary model.
func WithSummaryTokenLimit(n int) Option {
	return func(gc *GroupChat) {
		gc.summaryTokens = n
	}
}

// WithLogger overrides the component logger.
func WithLogger(logger *slog.Logger) Option {
	return func(gc *GroupChat) {
		if logger != nil {
			gc.logger = logger
		}
	}
}

// New creates a group chat session. The registry is consulted on every
// participant add and every turn; it is never mutated by the chat.
func New(id string, config ChatConfig, registry agent.Registry, opts ...Option) *GroupChat {
	if config.MaxTurns <= 0 {
		config.MaxTurns = 10
	}
	gc := &GroupChat{
		id:        id,
		config:    config,
		registry:  registry,
		dir:       newDirectory(),
		counter:   tokenizer.NewSimpleTokenizer(),
		createdAt: time.Now(),
		updatedAt: time.Now(),
		logger:    logging.WithComponent("group_chat").With("chat", config.Name, "session_id", id),
		tracer:    telemetry.Tracer("groupchat"),
	}
	for _, opt := range opts {
		opt(gc)
	}
	return gc
}

// ID returns the session identifier.
func (gc *GroupChat) ID() string { return gc.id }

// Config returns the chat configuration.
func (gc *GroupChat) Config() ChatConfig { return gc.config }

// Initialize lazily constructs the routing and summarizing model
// connections. A configured provider that cannot be constructed is fatal
// for the session until configuration is fixed.
func (gc *GroupChat) Initialize(ctx context.Context) error {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.initializeLocked(ctx)
}

func (gc *GroupChat) initializeLocked(ctx context.Context) error {
	if gc.closed {
		return ErrSessionClosed
	}
	if gc.initialized {
		return nil
	}

	if gc.routing == nil && gc.routingCfg != nil {
		model, err := llm.NewChatModel(gc.routingCfg)
		if err != nil {
			return fmt.Errorf("%w: routing model: %v", ErrInitialization, err)
		}
		gc.routing = llm.NewCompleter(model)
	}
	if gc.summary == nil && gc.summaryCfg != nil {
		model, err := llm.NewChatModel(gc.summaryCfg)
		if err != nil {
			return fmt.Errorf("%w: summary model: %v", ErrInitialization, err)
		}
		gc.summary = llm.NewCompleter(model)
	}

	gc.selector = NewSpeakerSelector(gc.registry, gc.routing, gc.config.AutoSelectSpeaker, gc.logger)
	gc.summarizer = NewSummarizer(gc.summary, gc.routing, gc.logger,
		WithSummaryTokenCounter(gc.counter), WithTranscriptTokenLimit(gc.summaryTokens))
	gc.initialized = true
	gc.logger.Info("group chat initialized",
		"routing_model", gc.routing != nil,
		"summary_model", gc.summary != nil,
	)
	return nil
}

// AddParticipant enrolls a registered agent. The name must resolve in the
// registry at the moment it is added.
func (gc *GroupChat) AddParticipant(name string, role Role, priority, maxConsecutiveTurns int) error {
	gc.mu.Lock()
	defer gc.mu.Unlock()

	if gc.closed {
		return ErrSessionClosed
	}
	if !ValidRole(role) {
		return fmt.Errorf("invalid participant role %q", role)
	}
	if _, ok := gc.registry.GetAgent(name); !ok {
		return fmt.Errorf("%w: %s", ErrAgentNotFound, name)
	}
	if maxConsecutiveTurns <= 0 {
		maxConsecutiveTurns = 3
	}
	if priority <= 0 {
		priority = 1
	}

	gc.dir.add(&ParticipantInfo{
		AgentName:           name,
		Role:                role,
		Priority:            priority,
		MaxConsecutiveTurns: maxConsecutiveTurns,
	})
	gc.updatedAt = time.Now()
	gc.logger.Info("participant added", "name", name, "role", string(role))
	return nil
}

// RemoveParticipant drops a participant, reporting whether it was present.
func (gc *GroupChat) RemoveParticipant(name string) bool {
	gc.mu.Lock()
	defer gc.mu.Unlock()

	if gc.closed {
		return false
	}
	removed := gc.dir.remove(name)
	if removed {
		gc.updatedAt = time.Now()
		gc.logger.Info("participant removed", "name", name)
	}
	return removed
}

// Participants returns all participant names in enrollment order.
func (gc *GroupChat) Participants() []string {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.dir.names()
}

// ActiveParticipants returns non-observer participant names.
func (gc *GroupChat) ActiveParticipants() []string {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.dir.active()
}

// Send drives the sequential conversation loop: select a speaker, invoke
// it, record the reply, check termination, then feed the reply into the
// next turn. It returns every response produced by this call; a mid-loop
// agent failure is converted into an error-flagged response and stops the
// loop without failing the call.
func (gc *GroupChat) Send(ctx context.Context, text, sender string, metadata map[string]any) (responses []*message.Response, err error) {
	gc.mu.Lock()
	defer gc.mu.Unlock()

	if gc.closed {
		return nil, ErrSessionClosed
	}
	if err := gc.initializeLocked(ctx); err != nil {
		return nil, err
	}
	if gc.dir.len() == 0 {
		return nil, ErrNoParticipants
	}

	ctx, span := gc.tracer.Start(ctx, "groupchat.Send",
		trace.WithAttributes(
			attribute.String("chat.name", gc.config.Name),
			attribute.String("chat.session_id", gc.id),
		))
	defer func() { telemetry.End(span, err) }()

	gc.active = true
	defer func() {
		// The active flag is cleared on every exit path: normal
		// completion, precondition failure, agent error, cancellation.
		gc.active = false
		gc.updatedAt = time.Now()
	}()

	gc.appendUserMessage(text, sender, metadata, "")
	current := text

	for gc.turnCount < gc.config.MaxTurns && gc.active {
		speaker, selErr := gc.selector.Select(ctx, current, gc.dir, gc.currentSpeaker)
		if selErr != nil {
			err = selErr
			return responses, err
		}

		gc.turnCount++
		gc.currentSpeaker = speaker
		gc.dir.bump(speaker)

		ag, ok := gc.registry.GetAgent(speaker)
		if !ok {
			if gc.config.AbortOnMissingAgent {
				err = fmt.Errorf("%w: %s", ErrAgentNotFound, speaker)
				return responses, err
			}
			gc.logger.Error("selected agent missing from registry, skipping turn",
				"speaker", speaker, "turn", gc.turnCount)
			continue
		}

		info, _ := gc.dir.get(speaker)
		turnMeta := map[string]any{
			"group_chat":         gc.config.Name,
			"turn":               gc.turnCount,
			"speaker_role":       string(info.Role),
			"total_participants": gc.dir.len(),
		}

		resp, agentErr := ag.ProcessMessage(ctx, current, message.CloneMessages(gc.history), turnMeta)
		if agentErr != nil {
			gc.logger.Error("agent invocation failed, stopping loop",
				"speaker", speaker, "turn", gc.turnCount, "error", agentErr)
			errResp := message.NewErrorResponse("system", agentErr)
			errResp.SessionID = gc.id
			responses = append(responses, errResp)

			errMsg := message.NewAgentMessage(speaker, errResp.Content)
			errMsg.Metadata["turn"] = gc.turnCount
			errMsg.Metadata["error"] = agentErr.Error()
			gc.history = append(gc.history, errMsg)
			break
		}

		if resp.Metadata == nil {
			resp.Metadata = make(map[string]any, len(turnMeta))
		}
		for k, v := range turnMeta {
			resp.Metadata[k] = v
		}
		resp.SessionID = gc.id
		responses = append(responses, resp)

		reply := message.NewAgentMessage(speaker, resp.Content)
		reply.Metadata["turn"] = gc.turnCount
		gc.history = append(gc.history, reply)

		if gc.shouldTerminate(resp.Content) {
			gc.active = false
			gc.logger.Info("conversation terminated", "turns", gc.turnCount)
			break
		}

		current = resp.Content

		if waitErr := gc.waitBetweenTurns(ctx); waitErr != nil {
			err = waitErr
			return responses, err
		}
	}

	return responses, nil
}

// Broadcast sends the same message to every active participant exactly
// once, without chaining one agent's reply into another's input. The whole
// round counts as a single logical turn. A failing agent contributes an
// error-flagged response without stopping the round.
func (gc *GroupChat) Broadcast(ctx context.Context, text, sender string, metadata map[string]any) (responses []*message.Response, err error) {
	gc.mu.Lock()
	defer gc.mu.Unlock()

	if gc.closed {
		return nil, ErrSessionClosed
	}
	if err := gc.initializeLocked(ctx); err != nil {
		return nil, err
	}
	if gc.dir.len() == 0 {
		return nil, ErrNoParticipants
	}
	active := gc.dir.active()
	if len(active) == 0 {
		return nil, ErrNoActiveParticipants
	}

	ctx, span := gc.tracer.Start(ctx, "groupchat.Broadcast",
		trace.WithAttributes(
			attribute.String("chat.name", gc.config.Name),
			attribute.String("chat.session_id", gc.id),
			attribute.Int("chat.participants", len(active)),
		))
	defer func() { telemetry.End(span, err) }()

	defer func() {
		gc.active = false
		gc.updatedAt = time.Now()
	}()

	gc.appendUserMessage(text, sender, metadata, "broadcast")
	gc.turnCount++

	// Every agent sees the history as it stood when the round began, so
	// no reply from this round leaks into another agent's input.
	snapshot := message.CloneMessages(gc.history)

	for _, name := range active {
		ag, ok := gc.registry.GetAgent(name)
		if !ok {
			gc.logger.Warn("agent missing during broadcast", "name", name)
			continue
		}

		info, _ := gc.dir.get(name)
		turnMeta := map[string]any{
			"group_chat":         gc.config.Name,
			"turn":               gc.turnCount,
			"speaker_role":       string(info.Role),
			"total_participants": len(active),
			"mode":               "broadcast",
		}

		resp, agentErr := ag.ProcessMessage(ctx, text, snapshot, turnMeta)
		if agentErr != nil {
			gc.logger.Error("broadcast agent failed", "name", name, "error", agentErr)
			errResp := message.NewErrorResponse(name, agentErr)
			errResp.Metadata["mode"] = "broadcast"
			errResp.SessionID = gc.id
			responses = append(responses, errResp)
			continue
		}

		if resp.Metadata == nil {
			resp.Metadata = make(map[string]any, len(turnMeta))
		}
		for k, v := range turnMeta {
			resp.Metadata[k] = v
		}
		resp.SessionID = gc.id
		responses = append(responses, resp)

		reply := message.NewAgentMessage(name, resp.Content)
		reply.Metadata["turn"] = gc.turnCount
		reply.Metadata["mode"] = "broadcast"
		gc.history = append(gc.history, reply)
	}

	return responses, nil
}

// Summarize condenses the newest maxMessages history entries into a
// structured synopsis. It never fails: without a model capability, or when
// the model errors, a deterministic heuristic summary is produced instead.
// After Cleanup it returns an empty string.
func (gc *GroupChat) Summarize(ctx context.Context, maxMessages int) string {
	gc.mu.Lock()
	defer gc.mu.Unlock()

	if gc.closed {
		return ""
	}
	if maxMessages <= 0 {
		maxMessages = 120
	}
	if gc.summarizer == nil {
		// Initialization may legitimately be pending; summarization must
		// still work, so fall back to a model-free summarizer.
		gc.summarizer = NewSummarizer(gc.summary, gc.routing, gc.logger,
			WithSummaryTokenCounter(gc.counter), WithTranscriptTokenLimit(gc.summaryTokens))
	}

	ctx, span := gc.tracer.Start(ctx, "groupchat.Summarize",
		trace.WithAttributes(
			attribute.String("chat.name", gc.config.Name),
			attribute.Int("chat.messages", len(gc.history)),
		))
	defer telemetry.End(span, nil)

	return gc.summarizer.Summarize(ctx, gc.history, gc.dir.names(), gc.turnCount, maxMessages)
}

// Stats reports structured conversation statistics. After Cleanup it
// returns the zero value.
func (gc *GroupChat) Stats() Stats {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	if gc.closed {
		return Stats{}
	}
	return Stats{
		Name:               gc.config.Name,
		TotalTurns:         gc.turnCount,
		Participants:       gc.dir.names(),
		ActiveParticipants: gc.dir.active(),
		ConversationActive: gc.active,
		MessageCount:       len(gc.history),
	}
}

// History returns a copy of the conversation history, or nil after Cleanup.
func (gc *GroupChat) History() []*message.Message {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	if gc.closed {
		return nil
	}
	return message.CloneMessages(gc.history)
}

// TurnCount returns the number of turns taken so far.
func (gc *GroupChat) TurnCount() int {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.turnCount
}

// CurrentSpeaker returns the last selected speaker, if any.
func (gc *GroupChat) CurrentSpeaker() string {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.currentSpeaker
}

// Reset clears the transient conversation state while keeping the
// participant directory intact.
func (gc *GroupChat) Reset() error {
	gc.mu.Lock()
	defer gc.mu.Unlock()

	if gc.closed {
		return ErrSessionClosed
	}
	gc.history = nil
	gc.turnCount = 0
	gc.currentSpeaker = ""
	gc.active = false
	gc.dir.resetCounters(gc.dir.names())
	gc.updatedAt = time.Now()
	gc.logger.Info("conversation reset")
	return nil
}

// Cleanup releases all session state. The session is unusable afterwards.
func (gc *GroupChat) Cleanup() {
	gc.mu.Lock()
	defer gc.mu.Unlock()

	if gc.closed {
		return
	}
	gc.closed = true
	gc.active = false
	gc.history = nil
	gc.dir = newDirectory()
	gc.logger.Info("group chat cleaned up")
}

func (gc *GroupChat) appendUserMessage(text, sender string, metadata map[string]any, mode string) {
	msg := message.New(message.RoleUser, text)
	if sender == "" {
		sender = "User"
	}
	msg.Metadata["sender"] = sender
	msg.Metadata["group_chat"] = gc.config.Name
	if mode != "" {
		msg.Metadata["mode"] = mode
	}
	for k, v := range metadata {
		msg.Metadata[k] = v
	}
	gc.history = append(gc.history, msg)
}

// shouldTerminate reports whether the conversation should end: turn budget
// exhausted, or the reply contains the termination keyword.
func (gc *GroupChat) shouldTerminate(reply string) bool {
	if gc.turnCount >= gc.config.MaxTurns {
		return true
	}
	if gc.config.EnableTerminationKeyword && gc.config.TerminationKeyword != "" {
		if containsFold(reply, gc.config.TerminationKeyword) {
			return true
		}
	}
	return false
}

// waitBetweenTurns applies cooperative pacing between turns and honors
// cancellation; a cancelled context still leaves the session resumable.
func (gc *GroupChat) waitBetweenTurns(ctx context.Context) error {
	if gc.config.ResponseWaitTime <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(gc.config.ResponseWaitTime)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
