package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/sweetpotato0/agentchat/message"
)

// ChatModel is the capability contract implemented by hosted LLM providers.
type ChatModel interface {
	// Generate produces the next assistant message for the conversation.
	Generate(ctx context.Context, messages []*message.Message) (*message.Message, error)
}

// Completer is the prompt-completion capability consumed by routing and
// summarization. Inputs are substituted into `{key}` placeholders before the
// prompt is sent.
type Completer interface {
	Complete(ctx context.Context, prompt string, inputs map[string]string) (string, error)
}

// completer adapts a ChatModel to the Completer contract.
type completer struct {
	model ChatModel
}

// NewCompleter wraps a chat model so it can serve prompt completions.
func NewCompleter(model ChatModel) Completer {
	if model == nil {
		return nil
	}
	return &completer{model: model}
}

// Complete renders the prompt with the supplied inputs and returns the
// model's reply text, trimmed.
func (c *completer) Complete(ctx context.Context, prompt string, inputs map[string]string) (string, error) {
	rendered := RenderPrompt(prompt, inputs)
	reply, err := c.model.Generate(ctx, []*message.Message{message.New(message.RoleUser, rendered)})
	if err != nil {
		return "", fmt.Errorf("llm: completion failed: %w", err)
	}
	return strings.TrimSpace(reply.Content), nil
}

// RenderPrompt substitutes `{key}` placeholders in the prompt template.
func RenderPrompt(prompt string, inputs map[string]string) string {
	if len(inputs) == 0 {
		return prompt
	}
	pairs := make([]string, 0, len(inputs)*2)
	for k, v := range inputs {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(prompt)
}
