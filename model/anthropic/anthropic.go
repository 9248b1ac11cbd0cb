// Package anthropic provides a model.Backend implementation for the
// Anthropic Messages API. Generation is performed as a single blocking call
// whose text is exposed as a one-fragment stream; per-token streaming for
// this provider is not implemented yet.
package anthropic

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/hupe1980/duet/chat"
	"github.com/hupe1980/duet/model"
)

// Options configure the Anthropic backend (temperature, fallback token
// budget, API key).
type Options struct {
	Temperature float64
	// MaxTokens is used when the request carries no token budget; the
	// Messages API requires one.
	MaxTokens int64
	APIKey    string
}

// Backend wraps the Anthropic Messages API behind model.Backend.
type Backend struct {
	client *anthropic.Client
	opts   Options
}

// New creates a Backend using the official client.
func New(optFns ...func(o *Options)) *Backend {
	opts := Options{Temperature: 0.7, MaxTokens: 4096}
	for _, fn := range optFns {
		fn(&opts)
	}
	var clientOpts []option.RequestOption
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}
	client := anthropic.NewClient(clientOpts...)
	return &Backend{client: &client, opts: opts}
}

// NewFromClient creates a Backend from an existing client.
func NewFromClient(client *anthropic.Client, optFns ...func(o *Options)) *Backend {
	opts := Options{Temperature: 0.7, MaxTokens: 4096}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Backend{client: client, opts: opts}
}

// Info implements model.Backend.
func (b *Backend) Info() model.Info { return model.Info{Provider: "anthropic"} }

// Verify implements model.Backend. The hosted API has no local install to
// probe; bad credentials or model ids surface on the first request.
func (b *Backend) Verify(_ context.Context, _ string) error { return nil }

// ChatStream implements model.Backend.
func (b *Backend) ChatStream(ctx context.Context, req model.Request) (model.Stream, error) {
	maxTokens := b.opts.MaxTokens
	if req.MaxTokens > 0 {
		maxTokens = int64(req.MaxTokens)
	}
	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(req.Model),
		Messages:    buildMessages(req.Messages),
		MaxTokens:   maxTokens,
		Temperature: anthropic.Float(b.opts.Temperature),
	}
	if system := extractSystem(req.Messages); len(system) > 0 {
		params.System = system
	}

	resp, err := b.client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("anthropic api error: %w", err)
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.AsText().Text)
		}
	}
	return &singleStream{text: text.String()}, nil
}

// buildMessages converts chat messages into Anthropic message params.
// System messages are handled separately via the System parameter.
func buildMessages(messages []chat.Message) []anthropic.MessageParam {
	out := make([]anthropic.MessageParam, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case chat.RoleSystem:
			continue
		case chat.RoleAssistant:
			out = append(out, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Content)))
		default:
			out = append(out, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
		}
	}
	return out
}

// extractSystem collects system message text blocks.
func extractSystem(messages []chat.Message) []anthropic.TextBlockParam {
	var blocks []anthropic.TextBlockParam
	for _, m := range messages {
		if m.Role == chat.RoleSystem && m.Content != "" {
			blocks = append(blocks, anthropic.TextBlockParam{Text: m.Content})
		}
	}
	return blocks
}

// singleStream exposes one completed text as a one-fragment stream.
type singleStream struct {
	text    string
	emitted bool
}

func (s *singleStream) Next() bool {
	if s.emitted || s.text == "" {
		return false
	}
	s.emitted = true
	return true
}

func (s *singleStream) Current() string { return s.text }
func (s *singleStream) Err() error      { return nil }
func (s *singleStream) Close() error    { return nil }
