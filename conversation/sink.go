package conversation

import (
	"context"
	"time"
)

// Sink receives rendering callbacks as a conversation progresses. Delta is
// invoked synchronously for every streamed fragment in arrival order, so
// implementations should return quickly; there is no guaranteed minimum or
// maximum gap between calls.
type Sink interface {
	// BeginRound announces a new A+B round (1-based).
	BeginRound(round, totalRounds int)
	// BeginTurn announces that the named agent starts generating.
	BeginTurn(agent string)
	// Delta delivers one streamed fragment of the named agent's turn.
	Delta(agent, fragment string)
	// EndTurn delivers the agent's finalized, filtered text.
	EndTurn(agent, text string, elapsed time.Duration)
}

// NopSink discards all callbacks.
type NopSink struct{}

// BeginRound implements Sink.
func (NopSink) BeginRound(int, int) {}

// BeginTurn implements Sink.
func (NopSink) BeginTurn(string) {}

// Delta implements Sink.
func (NopSink) Delta(string, string) {}

// EndTurn implements Sink.
func (NopSink) EndTurn(string, string, time.Duration) {}

// Stepper gates single-step mode: after each completed A+B round the
// orchestrator suspends until Continue returns. Returning false stops the
// run gracefully; an error terminates it like any other turn error.
type Stepper interface {
	Continue(ctx context.Context) (bool, error)
}

// StepperFunc adapts a function to the Stepper interface.
type StepperFunc func(ctx context.Context) (bool, error)

// Continue implements Stepper.
func (f StepperFunc) Continue(ctx context.Context) (bool, error) { return f(ctx) }
