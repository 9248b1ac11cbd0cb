package agent

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/hupe1980/duet/chat"
	"github.com/hupe1980/duet/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func growHistory(systemPrompt string, exchanges int) chat.History {
	h := chat.NewHistory(systemPrompt)
	for i := 0; i < exchanges; i++ {
		h.AddUser("question")
		h.AddAssistant("answer")
	}
	return h
}

func TestTrimNoopWithinThreshold(t *testing.T) {
	trimmer := Trimmer{Backend: model.NewMockBackend(), Model: "mock", Threshold: 10, SummaryTokens: 100}
	h := growHistory("sys", 4) // 9 messages

	got := trimmer.Trim(context.Background(), h)
	assert.Equal(t, h, got)
	assert.Empty(t, trimmer.Backend.(*model.MockBackend).Calls())
}

func TestTrimCollapsesWithSystemMessage(t *testing.T) {
	backend := model.NewMockBackend().Script("talked about questions and answers")
	trimmer := Trimmer{Backend: backend, Model: "mock", Threshold: 5, SummaryTokens: 100}
	h := growHistory("stay on topic", 4)

	got := trimmer.Trim(context.Background(), h)
	require.Len(t, got, 2)
	assert.Equal(t, h[0], got[0])
	assert.Equal(t, chat.RoleUser, got[1].Role)
	assert.Equal(t, "Summary of previous conversation: talked about questions and answers", got[1].Content)
}

func TestTrimCollapsesWithoutSystemMessage(t *testing.T) {
	backend := model.NewMockBackend().Script("the gist")
	trimmer := Trimmer{Backend: backend, Model: "mock", Threshold: 3, SummaryTokens: 100}
	h := growHistory("", 3)

	got := trimmer.Trim(context.Background(), h)
	require.Len(t, got, 1)
	assert.Equal(t, "Summary of previous conversation: the gist", got[0].Content)
}

func TestTrimSummarizerIsIsolated(t *testing.T) {
	backend := model.NewMockBackend().Script("summary")
	trimmer := Trimmer{Backend: backend, Model: "mock", Threshold: 3, SummaryTokens: 77}
	h := growHistory("sys", 3)

	trimmer.Trim(context.Background(), h)

	calls := backend.Calls()
	require.Len(t, calls, 1)
	// The transient call carries its own instruction pair and budget, not
	// the caller's history.
	require.Len(t, calls[0].Messages, 2)
	assert.Equal(t, chat.RoleSystem, calls[0].Messages[0].Role)
	assert.NotEqual(t, "sys", calls[0].Messages[0].Content)
	assert.Equal(t, 77, calls[0].MaxTokens)
}

func TestTrimFallsBackOnBackendFailure(t *testing.T) {
	backend := model.NewMockBackend().FailChat(errors.New("backend down"))
	trimmer := Trimmer{Backend: backend, Model: "mock", Threshold: 3, SummaryTokens: 100}
	h := growHistory("sys", 3)

	got := trimmer.Trim(context.Background(), h)
	require.Len(t, got, 2)
	assert.Equal(t, h[0], got[0])
	assert.Contains(t, got[1].Content, "Summary of previous conversation: ")
	assert.Contains(t, got[1].Content, "• User asked: question")
}

func TestTrimFallbackElision(t *testing.T) {
	// 9 pending non-system messages with a failing summarizer backend:
	// 3 originals + 1 elision marker + 3 originals.
	backend := model.NewMockBackend().FailChat(errors.New("backend down"))
	trimmer := Trimmer{Backend: backend, Model: "mock", Threshold: 2, SummaryTokens: 100}

	h := chat.History{}
	for i := 0; i < 9; i++ {
		h.AddUser("message")
	}

	got := trimmer.Trim(context.Background(), h)
	require.Len(t, got, 1)
	summary := strings.TrimPrefix(got[0].Content, "Summary of previous conversation: ")
	lines := strings.Split(summary, "\n")
	require.Len(t, lines, 7)
	assert.Contains(t, lines[3], "3 more exchanges")
}

func TestLocalSummaryBullets(t *testing.T) {
	msgs := []chat.Message{
		chat.NewSystemMessage("skipped"),
		chat.NewUserMessage("what is time?"),
		chat.NewAssistantMessage("a flat circle"),
	}
	summary := LocalSummary(msgs)
	lines := strings.Split(summary, "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "• User asked: what is time?", lines[0])
	assert.Equal(t, "• Assistant responded about: a flat circle", lines[1])
}

func TestLocalSummaryTruncatesLongContent(t *testing.T) {
	long := strings.Repeat("x", 150)
	summary := LocalSummary([]chat.Message{chat.NewUserMessage(long)})
	require.True(t, strings.HasSuffix(summary, "..."))
	content := strings.TrimPrefix(summary, "• User asked: ")
	assert.Len(t, []rune(content), 100)
}

func TestLocalSummaryEightBulletsKeptWhole(t *testing.T) {
	h := chat.History{}
	for i := 0; i < 8; i++ {
		h.AddUser("m")
	}
	lines := strings.Split(LocalSummary(h), "\n")
	assert.Len(t, lines, 8)
}

func TestSummarizeEmptyRemainder(t *testing.T) {
	backend := model.NewMockBackend()
	summary, err := Summarize(context.Background(), backend, "mock", 100, []chat.Message{chat.NewSystemMessage("sys")})
	require.NoError(t, err)
	assert.Equal(t, "No previous messages.", summary)
	assert.Empty(t, backend.Calls())
}
