package model

import (
	"context"
	"fmt"
	"sync"

	"github.com/hupe1980/duet/chat"
)

// Request captures the normalized input for one generation call.
type Request struct {
	Model     string         `json:"model"`
	Messages  []chat.Message `json:"messages"`
	MaxTokens int            `json:"max_tokens,omitempty"`
}

// Stream is a lazy, finite, non-restartable sequence of text fragments.
// Next advances to the next non-empty fragment, returning false when the
// stream is exhausted. Err reports a stream-level failure after Next has
// returned false; a clean end (completion signal or connection close)
// leaves Err nil. Close releases the underlying connection and is safe to
// call more than once.
type Stream interface {
	Next() bool
	Current() string
	Err() error
	Close() error
}

// Backend is the minimal interface required to drive generation.
type Backend interface {
	// Verify checks that the backend is reachable and the named model can
	// be served. Implementations distinguish unreachable-backend from
	// model-not-available via typed errors so callers can report them
	// separately.
	Verify(ctx context.Context, model string) error

	// ChatStream issues one streaming generation request. The returned
	// stream must be drained or closed by the caller.
	ChatStream(ctx context.Context, req Request) (Stream, error)

	// Info returns metadata about the backend implementation.
	Info() Info
}

// Info contains metadata about a backend implementation.
type Info struct {
	Provider string `json:"provider"` // "ollama", "openai", "anthropic", ...
}

// Drain consumes a stream to completion and returns the concatenated text.
// Convenience for callers that have no use for per-fragment delivery, such
// as the history summarizer.
func Drain(s Stream) (string, error) {
	defer s.Close()
	var out string
	for s.Next() {
		out += s.Current()
	}
	if err := s.Err(); err != nil {
		return "", err
	}
	return out, nil
}

// sliceStream replays a fixed fragment slice, optionally failing mid-way.
type sliceStream struct {
	fragments []string
	idx       int
	failAfter int // fragment count after which Err fires; -1 disables
	err       error
}

func (s *sliceStream) Next() bool {
	if s.failAfter >= 0 && s.idx >= s.failAfter {
		s.err = fmt.Errorf("mock stream failure after %d fragments", s.failAfter)
		return false
	}
	if s.idx >= len(s.fragments) {
		return false
	}
	s.idx++
	return true
}

func (s *sliceStream) Current() string { return s.fragments[s.idx-1] }
func (s *sliceStream) Err() error      { return s.err }
func (s *sliceStream) Close() error    { return nil }

// MockBackend is a lightweight in-memory Backend useful for tests and
// examples. Responses are scripted: each ChatStream call pops the next
// scripted reply, split into rune-sized fragments to exercise streaming
// paths. When the script is exhausted it echoes the last user message.
type MockBackend struct {
	mu        sync.Mutex
	script    []string
	calls     []Request
	verifyErr error
	chatErr   error
	failAfter int
}

// NewMockBackend constructs an empty mock backend.
func NewMockBackend() *MockBackend {
	return &MockBackend{failAfter: -1}
}

// Script appends replies returned by successive ChatStream calls.
func (m *MockBackend) Script(replies ...string) *MockBackend {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.script = append(m.script, replies...)
	return m
}

// FailVerify makes Verify return the given error.
func (m *MockBackend) FailVerify(err error) *MockBackend {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.verifyErr = err
	return m
}

// FailChat makes ChatStream return the given error immediately.
func (m *MockBackend) FailChat(err error) *MockBackend {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.chatErr = err
	return m
}

// FailStreamAfter makes returned streams error after n fragments.
func (m *MockBackend) FailStreamAfter(n int) *MockBackend {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failAfter = n
	return m
}

// Calls returns the requests seen so far, in order.
func (m *MockBackend) Calls() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	calls := make([]Request, len(m.calls))
	copy(calls, m.calls)
	return calls
}

// Verify implements Backend.
func (m *MockBackend) Verify(_ context.Context, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.verifyErr
}

// ChatStream implements Backend.
func (m *MockBackend) ChatStream(_ context.Context, req Request) (Stream, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, req)
	if m.chatErr != nil {
		return nil, m.chatErr
	}
	var full string
	if len(m.script) > 0 {
		full = m.script[0]
		m.script = m.script[1:]
	} else {
		for i := len(req.Messages) - 1; i >= 0; i-- {
			if req.Messages[i].Role == chat.RoleUser {
				full = "Mock response to: " + req.Messages[i].Content
				break
			}
		}
	}
	var fragments []string
	for _, r := range full {
		fragments = append(fragments, string(r))
	}
	return &sliceStream{fragments: fragments, failAfter: m.failAfter}, nil
}

// Info implements Backend.
func (m *MockBackend) Info() Info { return Info{Provider: "mock"} }
