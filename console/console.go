// Package console renders a running conversation to a terminal. It
// implements conversation.Sink, streaming fragments as they arrive under a
// styled per-agent header, with optional timing and history statistics.
package console

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var (
	styleAgentA = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("4")) // blue
	styleAgentB = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2")) // green
	styleRound  = lipgloss.NewStyle().Faint(true)
	styleStats  = lipgloss.NewStyle().Faint(true)
	styleBanner = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("3")). // yellow
			Border(lipgloss.RoundedBorder()).
			Padding(0, 2)
	stylePrompt = lipgloss.NewStyle().
			Italic(true).
			Border(lipgloss.RoundedBorder()).
			Padding(0, 2)
)

// Options configure the console sink.
type Options struct {
	// Stats appends per-turn timing and history size after each turn.
	Stats bool
	// HistorySize, when set with Stats, reports the named agent's current
	// history length for the stats line.
	HistorySize func(agent string) int
}

// Sink writes a conversation to w. The first constructor argument names the
// agent rendered in the A style, the second the B style.
type Sink struct {
	out         io.Writer
	agentA      string
	agentB      string
	stats       bool
	historySize func(agent string) int
	turnStart   time.Time
}

// NewSink creates a console sink for the two named agents.
func NewSink(w io.Writer, agentA, agentB string, optFns ...func(o *Options)) *Sink {
	opts := Options{}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Sink{
		out:         w,
		agentA:      agentA,
		agentB:      agentB,
		stats:       opts.Stats,
		historySize: opts.HistorySize,
	}
}

func (s *Sink) style(agent string) lipgloss.Style {
	if agent == s.agentB {
		return styleAgentB
	}
	return styleAgentA
}

// Banner prints a bordered headline, used for run start and end messages.
func (s *Sink) Banner(text string) {
	fmt.Fprintln(s.out, styleBanner.Render(text))
}

// InitialPrompt prints the seeded prompt in its own box.
func (s *Sink) InitialPrompt(text string) {
	fmt.Fprintln(s.out, stylePrompt.Render("Initial prompt: "+text))
}

// BeginRound implements conversation.Sink.
func (s *Sink) BeginRound(round, total int) {
	fmt.Fprintln(s.out)
	fmt.Fprintln(s.out, styleRound.Render(fmt.Sprintf("Round %d/%d", round, total)))
}

// BeginTurn implements conversation.Sink.
func (s *Sink) BeginTurn(agent string) {
	s.turnStart = time.Now()
	fmt.Fprintf(s.out, "\n%s\n", s.style(agent).Render("🤖 "+agent))
}

// Delta implements conversation.Sink; fragments are written verbatim as
// they arrive.
func (s *Sink) Delta(_, fragment string) {
	io.WriteString(s.out, fragment)
}

// EndTurn implements conversation.Sink.
func (s *Sink) EndTurn(agent, _ string, elapsed time.Duration) {
	fmt.Fprintln(s.out)
	if !s.stats {
		return
	}
	line := fmt.Sprintf("(%.1fs", elapsed.Seconds())
	if s.historySize != nil {
		line += fmt.Sprintf(", %d msgs", s.historySize(agent))
	}
	line += ")"
	fmt.Fprintln(s.out, styleStats.Render(line))
}
