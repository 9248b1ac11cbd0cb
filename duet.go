// Package duet provides a high-level façade over the conversation
// orchestrator and agent abstractions, enabling quick construction of
// two-agent model conversations. Most applications interact with this
// package by:
//  1. Describing both participants (model, backend, system prompt)
//  2. Creating a run via New(), which verifies both backends up front
//  3. Driving the conversation with Run()
//
// The façade delegates turn-taking to conversation.Orchestrator while
// keeping setup ergonomics concise. Defaults suit a local Ollama server;
// hosted backends plug in through the model.Backend interface.
package duet

import (
	"context"
	"time"

	"github.com/hupe1980/duet/agent"
	"github.com/hupe1980/duet/conversation"
	"github.com/hupe1980/duet/logging"
	"github.com/hupe1980/duet/model"
)

// Participant describes one side of the conversation.
type Participant struct {
	// Model is the backend-specific model identifier.
	Model string
	// Backend serves the model; both participants may share one backend.
	Backend model.Backend
	// SystemPrompt, when set, pins the participant's persona.
	SystemPrompt string
	// Name labels the participant in transcripts; defaults to Model.
	Name string
}

// Options configure a Duet.
type Options struct {
	// MaxRounds bounds the number of rounds; defaults to an effectively
	// endless run.
	MaxRounds int
	// InitialPrompt seeds the conversation. Required for Run.
	InitialPrompt string
	// Delay paces streamed fragments for human consumption.
	Delay time.Duration
	// TrimThreshold is the per-agent history length that triggers
	// summarization.
	TrimThreshold int
	// MaxTokens bounds each generation.
	MaxTokens int
	// Sink receives rendering callbacks.
	Sink conversation.Sink
	// Stepper, when set, suspends the run after each round.
	Stepper conversation.Stepper
	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// Duet is the high-level façade binding two verified agents to an
// orchestrator.
type Duet struct {
	agentA *agent.Agent
	agentB *agent.Agent
	orch   *conversation.Orchestrator
}

// New verifies both participants against their backends and assembles the
// orchestrator. Verification failures surface immediately with the
// backend's typed error.
func New(ctx context.Context, a, b Participant, optFns ...func(o *Options)) (*Duet, error) {
	opts := Options{
		MaxRounds:     conversation.DefaultMaxRounds,
		TrimThreshold: agent.DefaultTrimThreshold,
		MaxTokens:     agent.DefaultMaxTokens,
		Sink:          conversation.NopSink{},
		Logger:        logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	agentA, err := newAgent(ctx, a, opts)
	if err != nil {
		return nil, err
	}
	agentB, err := newAgent(ctx, b, opts)
	if err != nil {
		return nil, err
	}

	orch := conversation.New(agentA, agentB, func(o *conversation.Options) {
		o.MaxRounds = opts.MaxRounds
		o.InitialPrompt = opts.InitialPrompt
		o.Delay = opts.Delay
		o.Sink = opts.Sink
		o.Stepper = opts.Stepper
		o.Logger = opts.Logger
	})
	return &Duet{agentA: agentA, agentB: agentB, orch: orch}, nil
}

func newAgent(ctx context.Context, p Participant, opts Options) (*agent.Agent, error) {
	return agent.New(ctx, p.Model, p.Backend, func(o *agent.Options) {
		if p.Name != "" {
			o.Name = p.Name
		}
		o.SystemPrompt = p.SystemPrompt
		o.TrimThreshold = opts.TrimThreshold
		o.MaxTokens = opts.MaxTokens
		o.Logger = opts.Logger
	})
}

// AgentA returns the first participant's agent.
func (d *Duet) AgentA() *agent.Agent { return d.agentA }

// AgentB returns the second participant's agent.
func (d *Duet) AgentB() *agent.Agent { return d.agentB }

// Run drives the conversation to a terminal state.
func (d *Duet) Run(ctx context.Context) (*conversation.Result, error) {
	return d.orch.Run(ctx)
}
