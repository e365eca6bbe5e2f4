package gemini

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/generative-ai-go/genai"
	"github.com/sweetpotato0/agentchat/message"
	"google.golang.org/api/option"
)

// Config holds Gemini provider configuration
type Config struct {
	APIKey      string
	Model       string
	MaxTokens   int32
	Temperature float32
}

// DefaultConfig returns default Gemini configuration
func DefaultConfig(apiKey string) *Config {
	return &Config{
		APIKey:      apiKey,
		Model:       "gemini-1.5-flash",
		MaxTokens:   2048,
		Temperature: 0.7,
	}
}

// Provider implements the llm.ChatModel interface for Google Gemini
type Provider struct {
	config *Config

	initOnce sync.Once
	client   *genai.Client
	initErr  error
}

// New creates a new Gemini provider. The underlying client is dialed lazily
// on first use because its constructor requires a context.
func New(config *Config) *Provider {
	if config == nil {
		config = DefaultConfig("")
	}
	if config.Model == "" {
		config.Model = "gemini-1.5-flash"
	}
	return &Provider{config: config}
}

func (p *Provider) ensureClient(ctx context.Context) error {
	p.initOnce.Do(func() {
		p.client, p.initErr = genai.NewClient(ctx, option.WithAPIKey(p.config.APIKey))
	})
	return p.initErr
}

// Generate implements llm.ChatModel
func (p *Provider) Generate(ctx context.Context, messages []*message.Message) (*message.Message, error) {
	if err := p.ensureClient(ctx); err != nil {
		return nil, fmt.Errorf("Gemini client init failed: %w", err)
	}

	model := p.client.GenerativeModel(p.config.Model)
	if p.config.Temperature > 0 {
		model.SetTemperature(p.config.Temperature)
	}
	if p.config.MaxTokens > 0 {
		model.SetMaxOutputTokens(p.config.MaxTokens)
	}

	// Gemini keeps the system instruction separate and expects the final
	// user turn as the sent message, with everything before it as history.
	var systemPrompts []string
	var history []*genai.Content
	var last string

	for i, msg := range messages {
		switch msg.Role {
		case message.RoleSystem:
			systemPrompts = append(systemPrompts, msg.Content)
		case message.RoleUser:
			if i == len(messages)-1 {
				last = msg.Content
				continue
			}
			history = append(history, &genai.Content{
				Role:  "user",
				Parts: []genai.Part{genai.Text(msg.Content)},
			})
		case message.RoleAssistant:
			history = append(history, &genai.Content{
				Role:  "model",
				Parts: []genai.Part{genai.Text(msg.Content)},
			})
		}
	}
	if len(systemPrompts) > 0 {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(strings.Join(systemPrompts, "\n"))},
		}
	}
	if last == "" {
		return nil, fmt.Errorf("gemini: conversation must end with a user message")
	}

	cs := model.StartChat()
	cs.History = history
	resp, err := cs.SendMessage(ctx, genai.Text(last))
	if err != nil {
		return nil, fmt.Errorf("Gemini API error: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("no candidates returned from Gemini")
	}

	var builder strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			builder.WriteString(string(text))
		}
	}

	responseMsg := message.New(message.RoleAssistant, builder.String())
	if resp.UsageMetadata != nil {
		responseMsg.Metadata["usage"] = map[string]any{
			"prompt_tokens":     resp.UsageMetadata.PromptTokenCount,
			"completion_tokens": resp.UsageMetadata.CandidatesTokenCount,
			"total_tokens":      resp.UsageMetadata.TotalTokenCount,
		}
	}
	return responseMsg, nil
}

// Close releases the underlying API client, if it was ever dialed.
func (p *Provider) Close() error {
	if p.client != nil {
		return p.client.Close()
	}
	return nil
}
