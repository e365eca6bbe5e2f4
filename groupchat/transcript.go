package groupchat

import (
	"strings"
	"unicode/utf8"

	"github.com/sweetpotato0/agentchat/message"
)

// lineCap bounds a single rendered line so one oversized message cannot
// dominate the transcript window.
const lineCap = 1000

// buildTranscript renders the newest tail of the history, at most
// maxMessages entries, stopping once the running character total would
// exceed charBudget.
func buildTranscript(history []*message.Message, maxMessages, charBudget int) string {
	if maxMessages <= 0 || len(history) == 0 {
		return ""
	}
	relevant := history
	if len(relevant) > maxMessages {
		relevant = relevant[len(relevant)-maxMessages:]
	}

	var lines []string
	chars := 0
	for _, msg := range relevant {
		snippet := strings.ReplaceAll(strings.TrimSpace(msg.Content), "\n", " ")
		if len(snippet) > lineCap {
			snippet = clip(snippet, lineCap-3) + "..."
		}
		line := msg.Speaker() + ": " + snippet
		if chars+len(line) > charBudget {
			break
		}
		lines = append(lines, line)
		chars += len(line) + 1
	}
	return strings.Join(lines, "\n")
}

// truncate clips s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return clip(s, n)
}

// clip cuts s at n bytes, backing off to the nearest rune boundary.
func clip(s string, n int) string {
	if n <= 0 {
		return ""
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// containsFold reports whether s contains substr, case-insensitively.
func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
