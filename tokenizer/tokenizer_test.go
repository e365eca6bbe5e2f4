package tokenizer

import (
	"strings"
	"testing"
)

func TestSimpleTokenizerCountTokens(t *testing.T) {
	tok := NewSimpleTokenizer()

	tests := []struct {
		name     string
		text     string
		expected int
	}{
		{"empty", "", 0},
		{"single word", "hello", 1},
		{"words", "hello world", 2},
		{"punctuation counts", "hello, world!", 4},
		{"han runes count individually", "你好", 2},
		{"mixed", "hi 你好", 3},
		{"digits in word", "gpt4 model", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tok.CountTokens(tt.text); got != tt.expected {
				t.Errorf("CountTokens(%q) = %d, expected %d", tt.text, got, tt.expected)
			}
		})
	}
}

func TestTruncateByWords(t *testing.T) {
	tok := NewSimpleTokenizer()

	text := strings.Repeat("word ", 100)
	got := TruncateByWords(tok, text, 10)
	if n := tok.CountTokens(got); n > 10 {
		t.Errorf("Expected at most 10 tokens after truncation, got %d", n)
	}
	if !strings.HasPrefix(got, "word") {
		t.Errorf("Expected truncation to keep leading words, got %q", got)
	}
}

func TestTruncateByWordsNoop(t *testing.T) {
	tok := NewSimpleTokenizer()

	if got := TruncateByWords(tok, "short text", 100); got != "short text" {
		t.Errorf("Expected text within budget untouched, got %q", got)
	}
	if got := TruncateByWords(tok, "anything", 0); got != "anything" {
		t.Errorf("Expected non-positive budget to disable truncation, got %q", got)
	}
}
