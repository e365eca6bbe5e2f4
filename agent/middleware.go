package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/sweetpotato0/agentchat/message"
	"github.com/sweetpotato0/agentchat/pkg/logging"
)

// ErrRateLimitExceeded is returned when an agent has used up its
// request budget.
var ErrRateLimitExceeded = errors.New("rate limit exceeded")

// Middleware wraps an Agent with additional processing behavior.
type Middleware func(Agent) Agent

// Wrap applies middlewares so the first listed runs outermost.
func Wrap(a Agent, mws ...Middleware) Agent {
	for i := len(mws) - 1; i >= 0; i-- {
		a = mws[i](a)
	}
	return a
}

type processFunc func(ctx context.Context, text string, history []*message.Message, metadata map[string]any) (*message.Response, error)

// wrapped overrides ProcessMessage while delegating the identity
// methods to the underlying agent.
type wrapped struct {
	Agent
	process processFunc
}

func (w *wrapped) ProcessMessage(ctx context.Context, text string, history []*message.Message, metadata map[string]any) (*message.Response, error) {
	return w.process(ctx, text, history, metadata)
}

// WithLogging logs each processed message with its duration and outcome.
// A nil logger defaults to the package logger.
func WithLogging(logger *slog.Logger) Middleware {
	if logger == nil {
		logger = logging.WithComponent("agent")
	}
	return func(next Agent) Agent {
		return &wrapped{Agent: next, process: func(ctx context.Context, text string, history []*message.Message, metadata map[string]any) (*message.Response, error) {
			start := time.Now()
			resp, err := next.ProcessMessage(ctx, text, history, metadata)
			if err != nil {
				logger.Error("agent processing failed",
					"agent", next.Name(),
					"duration", time.Since(start),
					"error", err)
				return nil, err
			}
			logger.Debug("agent processed message",
				"agent", next.Name(),
				"duration", time.Since(start))
			return resp, nil
		}}
	}
}

// WithRecovery converts a panic during processing into an error so a
// misbehaving agent cannot take down the conversation loop.
func WithRecovery() Middleware {
	return func(next Agent) Agent {
		return &wrapped{Agent: next, process: func(ctx context.Context, text string, history []*message.Message, metadata map[string]any) (resp *message.Response, err error) {
			defer func() {
				if r := recover(); r != nil {
					resp = nil
					err = fmt.Errorf("agent %s panicked: %v", next.Name(), r)
				}
			}()
			return next.ProcessMessage(ctx, text, history, metadata)
		}}
	}
}

// RateLimiter caps the number of messages an agent may process until
// Reset is called.
type RateLimiter struct {
	mu    sync.Mutex
	limit int
	count int
}

// NewRateLimiter creates a rate limiter allowing limit requests.
func NewRateLimiter(limit int) *RateLimiter {
	return &RateLimiter{limit: limit}
}

func (r *RateLimiter) allow() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.count >= r.limit {
		return false
	}
	r.count++
	return true
}

// Reset restores the full request budget.
func (r *RateLimiter) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.count = 0
}

// WithRateLimit rejects messages once the limiter's budget is spent.
func WithRateLimit(rl *RateLimiter) Middleware {
	return func(next Agent) Agent {
		return &wrapped{Agent: next, process: func(ctx context.Context, text string, history []*message.Message, metadata map[string]any) (*message.Response, error) {
			if !rl.allow() {
				return nil, fmt.Errorf("agent %s: %w", next.Name(), ErrRateLimitExceeded)
			}
			return next.ProcessMessage(ctx, text, history, metadata)
		}}
	}
}
