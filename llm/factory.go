package llm

import (
	"fmt"
	"strings"

	"github.com/sweetpotato0/agentchat/contrib/provider/claude"
	"github.com/sweetpotato0/agentchat/contrib/provider/gemini"
	"github.com/sweetpotato0/agentchat/contrib/provider/openai"
)

// Provider tags understood by the factory.
const (
	ProviderOpenAI = "openai"
	ProviderClaude = "claude"
	ProviderGemini = "gemini"
)

// Config describes a hosted model connection in provider-neutral terms.
type Config struct {
	Provider    string
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int64
	Temperature float64
}

// NewChatModel constructs a chat model for the configured provider tag.
// A missing API key is a configuration error, not a runtime one.
func NewChatModel(cfg *Config) (ChatModel, error) {
	if cfg == nil {
		return nil, fmt.Errorf("llm: config cannot be nil")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("llm: provider %q requires an API key", cfg.Provider)
	}

	switch strings.ToLower(cfg.Provider) {
	case ProviderOpenAI:
		return openai.New(&openai.Config{
			APIKey:      cfg.APIKey,
			BaseURL:     cfg.BaseURL,
			Model:       cfg.Model,
			MaxTokens:   cfg.MaxTokens,
			Temperature: cfg.Temperature,
		}), nil
	case ProviderClaude:
		return claude.New(&claude.Config{
			APIKey:      cfg.APIKey,
			BaseURL:     cfg.BaseURL,
			Model:       cfg.Model,
			MaxTokens:   cfg.MaxTokens,
			Temperature: cfg.Temperature,
		}), nil
	case ProviderGemini:
		return gemini.New(&gemini.Config{
			APIKey:      cfg.APIKey,
			Model:       cfg.Model,
			MaxTokens:   int32(cfg.MaxTokens),
			Temperature: float32(cfg.Temperature),
		}), nil
	default:
		return nil, fmt.Errorf("llm: unknown provider %q", cfg.Provider)
	}
}
