// Package chat defines the conversational data model shared across duet:
// roles, messages, per-agent histories and the speaker-labelled transcript
// that survives a run. It also hosts the reasoning-span filter applied to
// finalized model output.
package chat
