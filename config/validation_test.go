package config

import (
	"strings"
	"testing"

	"github.com/sweetpotato0/agentchat/groupchat"
)

func TestValidatorFluent(t *testing.T) {
	v := NewValidator()
	v.RequireNonEmpty("name", "").
		RequirePositive("count", 0).
		ValidateRange("level", 20, 1, 10).
		ValidateOneOf("mode", "banana", "a", "b")

	if !v.HasErrors() {
		t.Fatal("Expected validation errors")
	}
	if len(v.Errors()) != 4 {
		t.Errorf("Expected 4 errors, got %d", len(v.Errors()))
	}
	if err := v.Error(); err == nil || !strings.Contains(err.Error(), "name") {
		t.Errorf("Expected combined error naming fields, got %v", err)
	}
}

func TestValidatorPasses(t *testing.T) {
	v := NewValidator()
	v.RequireNonEmpty("name", "x").
		RequirePositive("count", 1).
		ValidateFloatRange("temp", 0.7, 0, 2).
		ValidateOneOf("mode", "a", "a", "b")

	if v.HasErrors() {
		t.Errorf("Expected no errors, got %v", v.Errors())
	}
	if v.Error() != nil {
		t.Errorf("Expected nil combined error, got %v", v.Error())
	}
}

func TestValidateChatConfig(t *testing.T) {
	cfg := groupchat.DefaultChatConfig("ok chat")
	if err := ValidateChatConfig(&cfg); err != nil {
		t.Errorf("Expected default config to validate, got %v", err)
	}

	bad := groupchat.ChatConfig{Name: "", MaxTurns: 0, EnableTerminationKeyword: true}
	if err := ValidateChatConfig(&bad); err == nil {
		t.Error("Expected invalid config to fail validation")
	}
}

func TestValidateParticipant(t *testing.T) {
	good := groupchat.ParticipantInfo{
		AgentName:           "alpha",
		Role:                groupchat.RoleParticipant,
		Priority:            1,
		MaxConsecutiveTurns: 3,
	}
	if err := ValidateParticipant(&good); err != nil {
		t.Errorf("Expected valid participant, got %v", err)
	}

	bad := groupchat.ParticipantInfo{AgentName: "alpha", Role: groupchat.Role("boss"), Priority: 1, MaxConsecutiveTurns: 3}
	if err := ValidateParticipant(&bad); err == nil {
		t.Error("Expected invalid role to fail validation")
	}
}

func TestValidateLLMConfig(t *testing.T) {
	if err := ValidateLLMConfig("key", "gpt-4o-mini", 0.7, 2000); err != nil {
		t.Errorf("Expected valid LLM config, got %v", err)
	}
	if err := ValidateLLMConfig("", "gpt-4o-mini", 0.7, 2000); err == nil {
		t.Error("Expected missing API key to fail validation")
	}
	if err := ValidateLLMConfig("key", "gpt-4o-mini", 3.0, 2000); err == nil {
		t.Error("Expected out-of-range temperature to fail validation")
	}
}
