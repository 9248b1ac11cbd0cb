package chat

import (
	"strings"
	"sync"
	"time"
)

// Entry is one speaker-labelled turn of a transcript.
type Entry struct {
	Speaker string    `json:"speaker"`
	Text    string    `json:"text"`
	At      time.Time `json:"at"`
}

// Transcript is the append-only, speaker-labelled record of a run. Entries
// are added synchronously as turns complete, so whatever has been appended
// is what survives interruption or failure. It is safe for concurrent reads
// while a run appends.
type Transcript struct {
	mu      sync.RWMutex
	entries []Entry
}

// NewTranscript creates an empty transcript.
func NewTranscript() *Transcript { return &Transcript{} }

// Append records a completed turn.
func (t *Transcript) Append(speaker, text string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = append(t.entries, Entry{Speaker: speaker, Text: text, At: time.Now()})
}

// Len returns the number of recorded turns.
func (t *Transcript) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}

// Entries returns a defensive copy of the recorded turns.
func (t *Transcript) Entries() []Entry {
	t.mu.RLock()
	defer t.mu.RUnlock()
	entries := make([]Entry, len(t.entries))
	copy(entries, t.entries)
	return entries
}

// String renders the transcript as "speaker: text" blocks separated by a
// blank line, the durable on-disk format.
func (t *Transcript) String() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	parts := make([]string, len(t.entries))
	for i, e := range t.entries {
		parts[i] = e.Speaker + ": " + e.Text
	}
	return strings.Join(parts, "\n\n")
}
