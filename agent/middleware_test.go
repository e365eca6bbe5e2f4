package agent

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/sweetpotato0/agentchat/message"
)

func echoStatic(name string) *Static {
	return NewStatic(name, "Echoes input.",
		func(ctx context.Context, text string, history []*message.Message) (string, error) {
			return "echo: " + text, nil
		})
}

func TestWrapPreservesIdentity(t *testing.T) {
	base := echoStatic("helper")
	a := Wrap(base, WithRecovery(), WithRateLimit(NewRateLimiter(5)))

	if a.Name() != "helper" {
		t.Errorf("Expected name helper, got %s", a.Name())
	}
	if a.Instructions() != "Echoes input." {
		t.Errorf("Expected instructions preserved, got %s", a.Instructions())
	}
	if !a.IsAvailable() {
		t.Error("Wrapped agent should stay available")
	}

	resp, err := a.ProcessMessage(context.Background(), "hi", nil, nil)
	if err != nil {
		t.Fatalf("ProcessMessage failed: %v", err)
	}
	if resp.Content != "echo: hi" {
		t.Errorf("Expected echoed content, got %s", resp.Content)
	}
}

func TestWithLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	a := Wrap(echoStatic("helper"), WithLogging(logger))
	if _, err := a.ProcessMessage(context.Background(), "hi", nil, nil); err != nil {
		t.Fatalf("ProcessMessage failed: %v", err)
	}
	if !strings.Contains(buf.String(), "agent processed message") {
		t.Errorf("Expected processing log entry, got %q", buf.String())
	}

	buf.Reset()
	failing := NewStatic("broken", "Always fails.",
		func(ctx context.Context, text string, history []*message.Message) (string, error) {
			return "", errors.New("boom")
		})
	a = Wrap(failing, WithLogging(logger))
	if _, err := a.ProcessMessage(context.Background(), "hi", nil, nil); err == nil {
		t.Fatal("Expected error from failing agent")
	}
	if !strings.Contains(buf.String(), "agent processing failed") {
		t.Errorf("Expected failure log entry, got %q", buf.String())
	}
}

func TestWithRecovery(t *testing.T) {
	panicking := NewStatic("unstable", "Panics.",
		func(ctx context.Context, text string, history []*message.Message) (string, error) {
			panic("lost state")
		})

	a := Wrap(panicking, WithRecovery())
	resp, err := a.ProcessMessage(context.Background(), "hi", nil, nil)
	if err == nil {
		t.Fatal("Expected panic to surface as error")
	}
	if resp != nil {
		t.Errorf("Expected nil response after panic, got %+v", resp)
	}
	if !strings.Contains(err.Error(), "unstable panicked") {
		t.Errorf("Expected panic details in error, got %v", err)
	}
}

func TestWithRateLimit(t *testing.T) {
	rl := NewRateLimiter(2)
	a := Wrap(echoStatic("helper"), WithRateLimit(rl))

	for i := 0; i < 2; i++ {
		if _, err := a.ProcessMessage(context.Background(), "hi", nil, nil); err != nil {
			t.Fatalf("Request %d failed: %v", i+1, err)
		}
	}

	_, err := a.ProcessMessage(context.Background(), "hi", nil, nil)
	if !errors.Is(err, ErrRateLimitExceeded) {
		t.Fatalf("Expected ErrRateLimitExceeded, got %v", err)
	}

	rl.Reset()
	if _, err := a.ProcessMessage(context.Background(), "hi", nil, nil); err != nil {
		t.Errorf("Expected request to pass after reset, got %v", err)
	}
}

func TestWrapOrder(t *testing.T) {
	var order []string
	tag := func(name string) Middleware {
		return func(next Agent) Agent {
			return &wrapped{Agent: next, process: func(ctx context.Context, text string, history []*message.Message, metadata map[string]any) (*message.Response, error) {
				order = append(order, name)
				return next.ProcessMessage(ctx, text, history, metadata)
			}}
		}
	}

	a := Wrap(echoStatic("helper"), tag("outer"), tag("inner"))
	if _, err := a.ProcessMessage(context.Background(), "hi", nil, nil); err != nil {
		t.Fatalf("ProcessMessage failed: %v", err)
	}
	if len(order) != 2 || order[0] != "outer" || order[1] != "inner" {
		t.Errorf("Expected outer before inner, got %v", order)
	}
}
