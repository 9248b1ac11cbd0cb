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

func newTestAgent(t *testing.T, backend *model.MockBackend, optFns ...func(o *Options)) *Agent {
	t.Helper()
	a, err := New(context.Background(), "mock-model", backend, optFns...)
	require.NoError(t, err)
	return a
}

func TestNewVerifiesBackend(t *testing.T) {
	verifyErr := errors.New("server unreachable")
	_, err := New(context.Background(), "mock-model", model.NewMockBackend().FailVerify(verifyErr))
	assert.ErrorIs(t, err, verifyErr)
}

func TestNewSeedsSystemPrompt(t *testing.T) {
	a := newTestAgent(t, model.NewMockBackend(), func(o *Options) {
		o.SystemPrompt = "be kind"
	})
	h := a.History()
	require.Len(t, h, 1)
	assert.Equal(t, chat.RoleSystem, h[0].Role)
}

func TestGenerateEmptyHistory(t *testing.T) {
	a := newTestAgent(t, model.NewMockBackend())
	_, err := a.Generate(context.Background(), nil)
	assert.ErrorIs(t, err, ErrEmptyHistory)
}

func TestGenerateStreamsAndAppends(t *testing.T) {
	backend := model.NewMockBackend().Script("hello there")
	a := newTestAgent(t, backend)
	a.AddUserMessage("hi")

	var deltas []string
	final, err := a.Generate(context.Background(), func(d string) { deltas = append(deltas, d) })
	require.NoError(t, err)
	assert.Equal(t, "hello there", final)
	assert.Equal(t, "hello there", strings.Join(deltas, ""))

	h := a.History()
	require.Len(t, h, 2)
	assert.Equal(t, chat.RoleAssistant, h[1].Role)
	assert.Equal(t, "hello there", h[1].Content)
}

func TestGenerateFiltersReasoning(t *testing.T) {
	backend := model.NewMockBackend().Script("ok <think>private plan</think> done")
	a := newTestAgent(t, backend)
	a.AddUserMessage("hi")

	final, err := a.Generate(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "ok done", final)

	last, ok := a.History().Last()
	require.True(t, ok)
	assert.Equal(t, "ok done", last.Content)
}

func TestGenerateCancellationBetweenDeltas(t *testing.T) {
	backend := model.NewMockBackend().Script("a long streamed answer")
	a := newTestAgent(t, backend)
	a.AddUserMessage("hi")

	ctx, cancel := context.WithCancel(context.Background())
	var seen int
	_, err := a.Generate(ctx, func(string) {
		seen++
		if seen == 3 {
			cancel()
		}
	})
	require.ErrorIs(t, err, context.Canceled)
	// No partial assistant turn is recorded.
	h := a.History()
	require.Len(t, h, 1)
	assert.Equal(t, chat.RoleUser, h[0].Role)
}

func TestGenerateStreamFailureAppendsNothing(t *testing.T) {
	backend := model.NewMockBackend().Script("abcdef").FailStreamAfter(2)
	a := newTestAgent(t, backend)
	a.AddUserMessage("hi")

	_, err := a.Generate(context.Background(), nil)
	require.Error(t, err)
	assert.Len(t, a.History(), 1)
}

func TestGenerateTrimsBeforeRequest(t *testing.T) {
	backend := model.NewMockBackend().Script("a summary", "the reply")
	a := newTestAgent(t, backend, func(o *Options) {
		o.SystemPrompt = "sys"
		o.TrimThreshold = 3
	})
	a.AddUserMessage("one")
	a.history.AddAssistant("two")
	a.AddUserMessage("three")
	require.Equal(t, 4, a.HistoryLen())

	final, err := a.Generate(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "the reply", final)

	// First backend call is the transient summarizer, second the actual
	// generation over the collapsed history.
	calls := backend.Calls()
	require.Len(t, calls, 2)
	require.Len(t, calls[1].Messages, 2)
	assert.Equal(t, chat.RoleSystem, calls[1].Messages[0].Role)
	assert.Contains(t, calls[1].Messages[1].Content, "Summary of previous conversation: ")

	// Final history: system, summary, new assistant turn.
	h := a.History()
	require.Len(t, h, 3)
	assert.Equal(t, chat.RoleAssistant, h[2].Role)
}

func TestGenerateUsesConfiguredMaxTokens(t *testing.T) {
	backend := model.NewMockBackend().Script("ok")
	a := newTestAgent(t, backend, func(o *Options) { o.MaxTokens = 256 })
	a.AddUserMessage("hi")

	_, err := a.Generate(context.Background(), nil)
	require.NoError(t, err)
	calls := backend.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, 256, calls[0].MaxTokens)
}
