// Package openai provides a model.Backend implementation using the OpenAI
// Chat Completions API with streaming. It adapts duet's normalized request
// into the SDK's message format and exposes the SSE stream through the
// generic fragment-stream contract.
package openai

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/packages/ssestream"

	"github.com/hupe1980/duet/chat"
	"github.com/hupe1980/duet/model"
)

// Options configure the OpenAI backend. Fields mirror a minimal subset of
// Chat Completion parameters; extend via functional options without
// breaking callers.
type Options struct {
	Temperature float64
}

// Backend wraps the OpenAI Chat Completions API behind model.Backend.
type Backend struct {
	client *openai.Client
	opts   Options
}

// New creates a Backend using the official client with ambient credentials.
func New(optFns ...func(o *Options)) *Backend {
	client := openai.NewClient()
	return NewFromClient(&client, optFns...)
}

// NewFromClient creates a Backend from an existing client.
func NewFromClient(client *openai.Client, optFns ...func(o *Options)) *Backend {
	opts := Options{Temperature: 0.7}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Backend{client: client, opts: opts}
}

// Info implements model.Backend.
func (b *Backend) Info() model.Info { return model.Info{Provider: "openai"} }

// Verify implements model.Backend. The hosted API has no cheap local
// installation to probe; a bad model id or missing credentials surface on
// the first generation request instead.
func (b *Backend) Verify(_ context.Context, _ string) error { return nil }

// ChatStream implements model.Backend.
func (b *Backend) ChatStream(ctx context.Context, req model.Request) (model.Stream, error) {
	params := openai.ChatCompletionNewParams{
		Messages:    buildMessages(req.Messages),
		Model:       req.Model,
		Temperature: openai.Float(b.opts.Temperature),
	}
	if req.MaxTokens > 0 {
		params.MaxCompletionTokens = openai.Int(int64(req.MaxTokens))
	}
	return &Stream{inner: b.client.Chat.Completions.NewStreaming(ctx, params)}, nil
}

// buildMessages converts chat messages into OpenAI chat message params.
func buildMessages(messages []chat.Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case chat.RoleSystem:
			out = append(out, openai.SystemMessage(m.Content))
		case chat.RoleAssistant:
			out = append(out, openai.AssistantMessage(m.Content))
		default:
			out = append(out, openai.UserMessage(m.Content))
		}
	}
	return out
}

// Stream adapts the SDK's SSE chunk stream to model.Stream, flattening
// chunk choices into plain text fragments.
type Stream struct {
	inner   *ssestream.Stream[openai.ChatCompletionChunk]
	current string
}

// Next advances to the next non-empty delta.
func (s *Stream) Next() bool {
	for s.inner.Next() {
		chunk := s.inner.Current()
		for _, choice := range chunk.Choices {
			if choice.Delta.Content != "" {
				s.current = choice.Delta.Content
				return true
			}
		}
	}
	return false
}

// Current returns the fragment produced by the last successful Next call.
func (s *Stream) Current() string { return s.current }

// Err reports a stream-level failure.
func (s *Stream) Err() error {
	if err := s.inner.Err(); err != nil {
		return fmt.Errorf("openai streaming error: %w", err)
	}
	return nil
}

// Close releases the underlying connection.
func (s *Stream) Close() error { return s.inner.Close() }
