package llm

import (
	"context"
	"testing"

	"github.com/sweetpotato0/agentchat/message"
)

type mockModel struct {
	reply string
	last  []*message.Message
}

func (m *mockModel) Generate(ctx context.Context, msgs []*message.Message) (*message.Message, error) {
	m.last = msgs
	return message.New(message.RoleAssistant, m.reply), nil
}

func TestRenderPrompt(t *testing.T) {
	tests := []struct {
		name     string
		prompt   string
		inputs   map[string]string
		expected string
	}{
		{
			name:     "single placeholder",
			prompt:   "Hello {name}",
			inputs:   map[string]string{"name": "world"},
			expected: "Hello world",
		},
		{
			name:     "multiple placeholders",
			prompt:   "{a} and {b}",
			inputs:   map[string]string{"a": "x", "b": "y"},
			expected: "x and y",
		},
		{
			name:     "no inputs leaves prompt untouched",
			prompt:   "Hello {name}",
			inputs:   nil,
			expected: "Hello {name}",
		},
		{
			name:     "unknown placeholder kept",
			prompt:   "Hello {name} {other}",
			inputs:   map[string]string{"name": "x"},
			expected: "Hello x {other}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RenderPrompt(tt.prompt, tt.inputs); got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestCompleter(t *testing.T) {
	model := &mockModel{reply: "  answer  "}
	c := NewCompleter(model)

	got, err := c.Complete(context.Background(), "Say {word}", map[string]string{"word": "hi"})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if got != "answer" {
		t.Errorf("Expected trimmed answer, got %q", got)
	}
	if len(model.last) != 1 || model.last[0].Content != "Say hi" {
		t.Errorf("Expected rendered prompt sent to model, got %+v", model.last)
	}
}

func TestNewCompleterNil(t *testing.T) {
	if NewCompleter(nil) != nil {
		t.Error("Expected nil completer for nil model")
	}
}

func TestNewChatModelValidation(t *testing.T) {
	if _, err := NewChatModel(nil); err == nil {
		t.Error("Expected error for nil config")
	}
	if _, err := NewChatModel(&Config{Provider: "openai"}); err == nil {
		t.Error("Expected error for missing API key")
	}
	if _, err := NewChatModel(&Config{Provider: "banana", APIKey: "k"}); err == nil {
		t.Error("Expected error for unknown provider")
	}
}

func TestNewChatModelProviders(t *testing.T) {
	for _, provider := range []string{"openai", "claude", "gemini"} {
		model, err := NewChatModel(&Config{Provider: provider, APIKey: "test-key"})
		if err != nil {
			t.Errorf("Expected %s provider to construct, got %v", provider, err)
		}
		if model == nil {
			t.Errorf("Expected non-nil model for %s", provider)
		}
	}
}
