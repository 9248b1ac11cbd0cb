package duet

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/duet/conversation"
	"github.com/hupe1980/duet/model"
)

func TestNewAndRun(t *testing.T) {
	backend := model.NewMockBackend().Script("hi from A", "hi from B")

	d, err := New(context.Background(),
		Participant{Model: "mock-a", Backend: backend, SystemPrompt: "You are A.", Name: "A"},
		Participant{Model: "mock-b", Backend: backend, SystemPrompt: "You are B.", Name: "B"},
		func(o *Options) {
			o.MaxRounds = 1
			o.InitialPrompt = "Hello, who are you?"
		})
	require.NoError(t, err)

	res, err := d.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, conversation.StateComplete, res.State)
	assert.Equal(t, 2, res.Turns)

	entries := res.Transcript.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, conversation.InitialSpeaker, entries[0].Speaker)
	assert.Equal(t, "A", entries[1].Speaker)
	assert.Equal(t, "B", entries[2].Speaker)
}

func TestNewVerifyFailure(t *testing.T) {
	backend := model.NewMockBackend().FailVerify(errors.New("backend unreachable"))

	_, err := New(context.Background(),
		Participant{Model: "mock-a", Backend: backend},
		Participant{Model: "mock-b", Backend: backend})
	assert.Error(t, err)
}
