package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hupe1980/duet/chat"
	"github.com/hupe1980/duet/logging"
	"github.com/hupe1980/duet/model"
)

// ErrEmptyHistory is returned when generation is requested on an empty
// history. That is a programmer error; callers must seed a user message
// before every generation.
var ErrEmptyHistory = errors.New("agent: generation requested on empty history")

// Defaults applied by New when the corresponding option is unset.
const (
	DefaultTrimThreshold = 500
	DefaultMaxTokens     = 1000
	DefaultSummaryTokens = 300
)

// Options configure an Agent.
type Options struct {
	// Name labels the agent in transcripts and logs; defaults to the
	// model identifier.
	Name string
	// SystemPrompt, when set, pins a system message at history position 0.
	SystemPrompt string
	// TrimThreshold is the history length above which the history is
	// collapsed to summary form before the next generation.
	TrimThreshold int
	// MaxTokens bounds each generation.
	MaxTokens int
	// SummaryTokens bounds the transient summarization call.
	SummaryTokens int
	Logger        logging.Logger
}

// Agent binds a model identity, an optional system prompt and a mutable
// history. It is the exclusive owner of its history: callers feed user
// messages in, the agent alone appends its assistant turns. Not safe for
// concurrent use; a run drives each agent from a single goroutine.
type Agent struct {
	name    string
	model   string
	backend model.Backend
	history chat.History
	trimmer Trimmer

	maxTokens int
	logger    logging.Logger
}

// New constructs an Agent and verifies the backend can serve the model.
// An unreachable backend or missing model fails construction immediately
// with the backend's typed error; there is no internal retry.
func New(ctx context.Context, modelName string, backend model.Backend, optFns ...func(o *Options)) (*Agent, error) {
	opts := Options{
		Name:          modelName,
		TrimThreshold: DefaultTrimThreshold,
		MaxTokens:     DefaultMaxTokens,
		SummaryTokens: DefaultSummaryTokens,
		Logger:        logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	if err := backend.Verify(ctx, modelName); err != nil {
		return nil, err
	}

	a := &Agent{
		name:      opts.Name,
		model:     modelName,
		backend:   backend,
		history:   chat.NewHistory(opts.SystemPrompt),
		maxTokens: opts.MaxTokens,
		logger:    opts.Logger,
		trimmer: Trimmer{
			Backend:       backend,
			Model:         modelName,
			Threshold:     opts.TrimThreshold,
			SummaryTokens: opts.SummaryTokens,
			Logger:        opts.Logger,
		},
	}
	a.logger.Info("agent initialized", "name", a.name, "model", a.model, "provider", backend.Info().Provider)
	return a, nil
}

// Name returns the agent's transcript label.
func (a *Agent) Name() string { return a.name }

// Model returns the bound model identifier.
func (a *Agent) Model() string { return a.model }

// History returns a defensive copy of the current history.
func (a *Agent) History() chat.History { return a.history.Clone() }

// HistoryLen returns the current history length.
func (a *Agent) HistoryLen() int { return len(a.history) }

// AddUserMessage appends the peer's (or the initial) text as a user message.
func (a *Agent) AddUserMessage(content string) {
	a.history.AddUser(content)
}

// Generate runs one streaming generation over the current history.
//
// Each decoded fragment is passed to onDelta synchronously in arrival order
// before being accumulated; onDelta may be nil. Cancellation is cooperative
// and checked between fragments. On stream end the accumulated text is
// filtered and appended to the history as the agent's assistant turn; the
// filtered text is returned. On any error nothing is appended.
func (a *Agent) Generate(ctx context.Context, onDelta func(delta string)) (string, error) {
	if len(a.history) == 0 {
		return "", ErrEmptyHistory
	}

	// Bound the history before issuing the request so a long run cannot
	// grow the prompt without limit.
	a.history = a.trimmer.Trim(ctx, a.history)

	start := time.Now()
	stream, err := a.backend.ChatStream(ctx, model.Request{
		Model:     a.model,
		Messages:  a.history.Clone(),
		MaxTokens: a.maxTokens,
	})
	if err != nil {
		a.logModelCall(start, err)
		return "", fmt.Errorf("agent %s: start generation: %w", a.name, err)
	}
	defer stream.Close()

	var raw strings.Builder
	for stream.Next() {
		if err := ctx.Err(); err != nil {
			a.logModelCall(start, err)
			return "", err
		}
		fragment := stream.Current()
		if onDelta != nil {
			onDelta(fragment)
		}
		raw.WriteString(fragment)
	}
	if err := stream.Err(); err != nil {
		a.logModelCall(start, err)
		return "", fmt.Errorf("agent %s: stream failed: %w", a.name, err)
	}

	final := chat.StripReasoning(raw.String())
	a.history.AddAssistant(final)
	a.logModelCall(start, nil)
	return final, nil
}

func (a *Agent) logModelCall(start time.Time, err error) {
	if dl, ok := a.logger.(*logging.DuetLogger); ok {
		dl.LogModelCall(a.model, time.Since(start), err == nil, err)
		return
	}
	if err != nil {
		a.logger.Error("model call failed", "model", a.model, "error", err)
	} else {
		a.logger.Debug("model call completed", "model", a.model, "duration", time.Since(start))
	}
}
