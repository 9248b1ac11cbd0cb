package chat

import (
	"regexp"
	"strings"
)

// Reasoning models (DeepSeek-R1 and friends) interleave private
// chain-of-thought inside <think> tags. Those spans are stripped before the
// text is displayed, stored or handed to the peer agent.
var (
	reasoningSpan     = regexp.MustCompile(`(?s)[ \t]*<think>.*?</think>[ \t]*`)
	reasoningOpenTail = regexp.MustCompile(`(?s)\s*<think>.*\z`)
	reasoningStray    = regexp.MustCompile(`[ \t]*</think>[ \t]*`)
	excessBlankLines  = regexp.MustCompile(`\n{3,}`)
)

// StripReasoning removes every reasoning span from text and normalizes the
// remainder: a matched <think>...</think> block is replaced by a single
// space, an unterminated <think> deletes everything to the end of the text,
// a stray </think> is dropped, runs of three or more newlines collapse to
// two, and the result is trimmed. The operation is idempotent.
func StripReasoning(text string) string {
	out := reasoningSpan.ReplaceAllString(text, " ")
	out = reasoningOpenTail.ReplaceAllString(out, "")
	out = reasoningStray.ReplaceAllString(out, " ")
	out = excessBlankLines.ReplaceAllString(out, "\n\n")
	return strings.TrimSpace(out)
}
