// Package conversation implements the turn-based orchestrator that drives
// two agents through an unbounded dialogue: it alternates turns, feeds each
// agent's finalized output to the other, bounds the number of rounds, and
// guarantees the transcript survives interruption and failure.
package conversation
