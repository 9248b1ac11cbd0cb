package conversation

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/hupe1980/duet/agent"
	"github.com/hupe1980/duet/chat"
	"github.com/hupe1980/duet/logging"
)

// InitialSpeaker labels the seeded prompt entry in the transcript.
const InitialSpeaker = "Initial"

// DefaultMaxRounds effectively makes a run endless until interrupted.
const DefaultMaxRounds = 9000

// ErrNoInitialPrompt is returned by Run when no initial prompt is
// configured. Agent A answers the prompt first; without one the first
// generation would run with no user message in its history.
var ErrNoInitialPrompt = errors.New("conversation: initial prompt must not be empty")

// State is the terminal state of a run.
type State int

const (
	// StateComplete means the configured round count was reached or a
	// stepper stopped the run at a round boundary.
	StateComplete State = iota
	// StateInterrupted means cancellation was observed between deltas or
	// at a turn boundary; the transcript gathered so far is kept.
	StateInterrupted
	// StateFailed means a turn failed with an unrecovered error; the
	// transcript gathered so far is kept and the cause is reported.
	StateFailed
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateComplete:
		return "complete"
	case StateInterrupted:
		return "interrupted"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result is the durable outcome of a run. Transcript is populated in every
// terminal state; Err carries the cause when State is StateFailed.
type Result struct {
	RunID      string
	State      State
	Turns      int // completed agent turns recorded in the transcript
	Transcript *chat.Transcript
	Err        error
}

// Options configure an Orchestrator.
type Options struct {
	// MaxRounds bounds the number of A+B rounds.
	MaxRounds int
	// InitialPrompt seeds the conversation: it is recorded as the first
	// transcript entry and appended to both agents' histories so agent A
	// responds to it first. Required; Run fails with ErrNoInitialPrompt
	// when empty.
	InitialPrompt string
	// Delay inserts a pause after each streamed fragment, pacing output
	// for human consumption.
	Delay time.Duration
	// Sink receives rendering callbacks; defaults to NopSink.
	Sink Sink
	// Stepper, when set, suspends the run after each completed round.
	Stepper Stepper
	Logger  logging.Logger
}

// Orchestrator alternates turns between two agents. Turns are strictly
// sequential: an agent never has two generations in flight and the two
// agents never generate concurrently. The only cross-agent interaction is
// the message passing of each other's finalized text.
type Orchestrator struct {
	agentA *agent.Agent
	agentB *agent.Agent

	maxRounds     int
	initialPrompt string
	delay         time.Duration
	sink          Sink
	stepper       Stepper
	logger        logging.Logger
}

// New constructs an Orchestrator for the two agents with optional overrides.
func New(agentA, agentB *agent.Agent, optFns ...func(o *Options)) *Orchestrator {
	opts := Options{
		MaxRounds: DefaultMaxRounds,
		Sink:      NopSink{},
		Logger:    logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Orchestrator{
		agentA:        agentA,
		agentB:        agentB,
		maxRounds:     opts.MaxRounds,
		initialPrompt: opts.InitialPrompt,
		delay:         opts.Delay,
		sink:          opts.Sink,
		stepper:       opts.Stepper,
		logger:        opts.Logger,
	}
}

// Run drives the conversation to a terminal state. The returned Result is
// never nil and always carries the transcript accumulated so far; the error
// is non-nil only when the run failed (cancellation is a graceful stop, not
// an error).
func (o *Orchestrator) Run(ctx context.Context) (*Result, error) {
	res := &Result{
		RunID:      uuid.NewString(),
		State:      StateComplete,
		Transcript: chat.NewTranscript(),
	}
	o.logger.Info("conversation starting", "run_id", res.RunID,
		"agent_a", o.agentA.Name(), "agent_b", o.agentB.Name(), "max_rounds", o.maxRounds)

	if o.initialPrompt == "" {
		return o.finish(res, ErrNoInitialPrompt)
	}
	res.Transcript.Append(InitialSpeaker, o.initialPrompt)
	// Agent A answers the prompt first, so it lands in B's history as if B
	// had said it.
	o.agentB.AddUserMessage(o.initialPrompt)

	var lastB string
	for round := 0; round < o.maxRounds; round++ {
		if err := ctx.Err(); err != nil {
			return o.finish(res, err)
		}
		o.sink.BeginRound(round+1, o.maxRounds)

		if round == 0 {
			o.agentA.AddUserMessage(o.initialPrompt)
		} else {
			o.agentA.AddUserMessage(lastB)
		}
		textA, err := o.turn(ctx, o.agentA)
		if err != nil {
			return o.finish(res, err)
		}
		res.Transcript.Append(o.agentA.Name(), textA)
		res.Turns++

		o.agentB.AddUserMessage(textA)
		textB, err := o.turn(ctx, o.agentB)
		if err != nil {
			return o.finish(res, err)
		}
		res.Transcript.Append(o.agentB.Name(), textB)
		res.Turns++
		lastB = textB

		if o.stepper != nil {
			cont, err := o.stepper.Continue(ctx)
			if err != nil {
				return o.finish(res, err)
			}
			if !cont {
				o.logger.Info("conversation stopped at round boundary", "run_id", res.RunID, "round", round+1)
				break
			}
		}
	}

	o.logger.Info("conversation complete", "run_id", res.RunID, "turns", res.Turns)
	return res, nil
}

// turn runs one generation for the given agent, forwarding deltas to the
// sink with optional pacing.
func (o *Orchestrator) turn(ctx context.Context, a *agent.Agent) (string, error) {
	o.sink.BeginTurn(a.Name())
	start := time.Now()
	text, err := a.Generate(ctx, func(fragment string) {
		o.sink.Delta(a.Name(), fragment)
		if o.delay > 0 {
			time.Sleep(o.delay)
		}
	})
	if err != nil {
		return "", err
	}
	o.sink.EndTurn(a.Name(), text, time.Since(start))
	return text, nil
}

// finish classifies a terminal error: cancellation is a graceful stop, all
// other causes mark the run failed. The transcript is preserved either way.
func (o *Orchestrator) finish(res *Result, err error) (*Result, error) {
	if errors.Is(err, context.Canceled) {
		res.State = StateInterrupted
		o.logger.Info("conversation interrupted", "run_id", res.RunID, "turns", res.Turns)
		return res, nil
	}
	res.State = StateFailed
	res.Err = err
	o.logger.Error("conversation failed", "run_id", res.RunID, "turns", res.Turns, "error", err)
	return res, err
}
