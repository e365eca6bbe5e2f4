package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/sweetpotato0/agentchat/llm"
)

// RouterConfigFromEnv loads the routing model configuration from environment
// variables. Returns nil when no provider is configured, which makes the
// group chat fall back to heuristic speaker selection.
func RouterConfigFromEnv() (*llm.Config, error) {
	return llmConfigFromEnv("AGENTCHAT_ROUTER")
}

// SummaryConfigFromEnv loads the summary model configuration from environment
// variables. Returns nil when no provider is configured.
func SummaryConfigFromEnv() (*llm.Config, error) {
	return llmConfigFromEnv("AGENTCHAT_SUMMARY")
}

// SummaryTokenLimitFromEnv reads the transcript token budget used when
// summarizing. Zero means the built-in default.
func SummaryTokenLimitFromEnv() int {
	return getEnvInt("AGENTCHAT_SUMMARY_MAX_TOKENS", 0)
}

func llmConfigFromEnv(prefix string) (*llm.Config, error) {
	provider := os.Getenv(prefix + "_PROVIDER")
	if provider == "" {
		return nil, nil
	}
	cfg := &llm.Config{
		Provider:    provider,
		APIKey:      getEnv(prefix+"_API_KEY", ""),
		BaseURL:     getEnv(prefix+"_BASE_URL", ""),
		Model:       getEnv(prefix+"_MODEL", defaultModel(provider)),
		MaxTokens:   int64(getEnvInt(prefix+"_MAX_TOKENS", 2000)),
		Temperature: getEnvFloat(prefix+"_TEMPERATURE", 0.7),
	}
	if err := ValidateLLMConfig(cfg.APIKey, cfg.Model, cfg.Temperature, int(cfg.MaxTokens)); err != nil {
		return nil, fmt.Errorf("%s configuration invalid: %w", strings.ToLower(prefix), err)
	}
	return cfg, nil
}

func defaultModel(provider string) string {
	switch strings.ToLower(provider) {
	case llm.ProviderClaude:
		return "claude-sonnet-4-5-20250929"
	case llm.ProviderGemini:
		return "gemini-1.5-flash"
	default:
		return "gpt-4o-mini"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
