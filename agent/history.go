package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hupe1980/duet/chat"
	"github.com/hupe1980/duet/logging"
	"github.com/hupe1980/duet/model"
)

// summaryPrefix starts every summary message so a trimmed history remains
// self-describing to the model.
const summaryPrefix = "Summary of previous conversation: "

const summarizerInstruction = "You are a helpful assistant tasked with creating a concise summary of a conversation. " +
	"The summary should capture the main topics, key points, and any important information " +
	"from the conversation. Be brief but comprehensive. Your summary will be used to provide " +
	"context for a continuing conversation."

const summarizeRequestPreamble = "Please summarize the following conversation in a concise but informative way. " +
	"Focus on the key points, questions, and conclusions:\n\n"

// Trimmer bounds a history by collapsing everything after the optional
// system message into a single summary message. Full collapse (rather than
// a sliding window) keeps both the history size and the number of
// summarization calls at one per trim event, which matters when a run
// spans thousands of turns.
type Trimmer struct {
	Backend model.Backend
	Model   string
	// Threshold is the history length that triggers a collapse; zero or
	// negative disables trimming.
	Threshold int
	// SummaryTokens is the token budget for the summarization call.
	SummaryTokens int
	Logger        logging.Logger
}

// Trim returns the history unchanged when it is within the threshold or the
// non-system remainder is empty. Otherwise it returns [system?, summary]:
// the optional leading system message followed by one user message holding
// a summary of the entire remainder. Both branches retain zero trailing
// messages. Trim never fails: a backend failure during summarization falls
// back to the deterministic local summary.
func (t Trimmer) Trim(ctx context.Context, history chat.History) chat.History {
	if t.Threshold <= 0 || len(history) <= t.Threshold {
		return history
	}
	system, rest := history.Split()
	if len(rest) == 0 {
		return history
	}

	summary, err := Summarize(ctx, t.Backend, t.Model, t.SummaryTokens, rest)
	if err != nil {
		t.logger().Warn("summarization failed, using local fallback", "model", t.Model, "error", err)
		summary = LocalSummary(rest)
	}

	trimmed := make(chat.History, 0, 2)
	if len(system) > 0 {
		trimmed = append(trimmed, system[0])
	}
	trimmed = append(trimmed, chat.NewUserMessage(summaryPrefix+summary))
	t.logger().Info("history trimmed", "model", t.Model, "before", len(history), "after", len(trimmed))
	return trimmed
}

func (t Trimmer) logger() logging.Logger {
	if t.Logger == nil {
		return logging.NoOpLogger{}
	}
	return t.Logger
}

// Summarize performs a stateless, history-isolated summarization of the
// given messages: one transient generation call with a fixed instruction
// and its own token budget. The calling agent's history is never touched.
func Summarize(ctx context.Context, backend model.Backend, modelName string, maxTokens int, messages []chat.Message) (string, error) {
	conversation := renderConversation(messages)
	if conversation == "" {
		return "No previous messages.", nil
	}

	stream, err := backend.ChatStream(ctx, model.Request{
		Model:     modelName,
		MaxTokens: maxTokens,
		Messages: []chat.Message{
			chat.NewSystemMessage(summarizerInstruction),
			chat.NewUserMessage(summarizeRequestPreamble + conversation),
		},
	})
	if err != nil {
		return "", err
	}
	text, err := model.Drain(stream)
	if err != nil {
		return "", err
	}
	text = chat.StripReasoning(text)
	if text == "" {
		return "", errors.New("summarizer returned empty text")
	}
	return text, nil
}

// renderConversation formats messages as readable "Role: content" blocks,
// skipping system messages.
func renderConversation(messages []chat.Message) string {
	var b strings.Builder
	for _, m := range messages {
		if m.Role == chat.RoleSystem {
			continue
		}
		b.WriteString(capitalize(string(m.Role)))
		b.WriteString(": ")
		b.WriteString(m.Content)
		b.WriteString("\n\n")
	}
	return b.String()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// LocalSummary is the deterministic fallback summarizer: one bullet per
// non-system message, content truncated to 100 characters. When more than
// 8 bullets result, the first 3 and last 3 are kept around a single elision
// bullet naming the count of omitted exchanges. It never fails.
func LocalSummary(messages []chat.Message) string {
	var bullets []string
	for _, m := range messages {
		if m.Role == chat.RoleSystem {
			continue
		}
		content := truncate(m.Content, 100)
		switch m.Role {
		case chat.RoleUser:
			bullets = append(bullets, "• User asked: "+content)
		case chat.RoleAssistant:
			bullets = append(bullets, "• Assistant responded about: "+content)
		default:
			bullets = append(bullets, "• "+capitalize(string(m.Role))+" said: "+content)
		}
	}
	if len(bullets) > 8 {
		elided := len(bullets) - 6
		kept := make([]string, 0, 7)
		kept = append(kept, bullets[:3]...)
		kept = append(kept, fmt.Sprintf("• ... (%d more exchanges) ...", elided))
		kept = append(kept, bullets[len(bullets)-3:]...)
		bullets = kept
	}
	return strings.Join(bullets, "\n")
}

// truncate shortens s to at most max runes, ending in an ellipsis.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
