package tokenizer

import (
	"strings"
	"unicode"
)

// Tokenizer counts tokens for transcript budgeting.
type Tokenizer interface {
	CountTokens(text string) int
}

var _ Tokenizer = (*SimpleTokenizer)(nil)

// SimpleTokenizer is a dependency-free approximation used when a real
// encoding is unavailable. It never fails.
type SimpleTokenizer struct{}

// NewSimpleTokenizer creates the fallback tokenizer.
func NewSimpleTokenizer() *SimpleTokenizer {
	return &SimpleTokenizer{}
}

// CountTokens counts word-level tokens:
// - English letters/digits → continuous word
// - Han characters → single rune
// - Punctuation → standalone token
func (t *SimpleTokenizer) CountTokens(text string) int {
	count := 0
	inWord := false

	flush := func() {
		if inWord {
			count++
			inWord = false
		}
	}

	for _, r := range text {
		switch {
		case unicode.IsSpace(r):
			flush()
		case unicode.Is(unicode.Han, r):
			flush()
			count++
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			inWord = true
		default:
			flush()
			count++
		}
	}
	flush()
	return count
}

// TruncateByWords drops trailing words so the text stays within the token
// budget as measured by the given tokenizer. Used to bound summarization
// prompts; exactness is not required.
func TruncateByWords(tok Tokenizer, text string, budget int) string {
	if budget <= 0 || tok.CountTokens(text) <= budget {
		return text
	}
	words := strings.Fields(text)
	lo, hi := 0, len(words)
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if tok.CountTokens(strings.Join(words[:mid], " ")) <= budget {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return strings.Join(words[:lo], " ")
}
