// Command duet runs an endless streamed conversation between two language
// models. Both agents default to a local Ollama server; either can be
// pointed at a hosted provider instead. The transcript is written to a text
// file at run end or on early termination.
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/pflag"

	"github.com/hupe1980/duet/agent"
	"github.com/hupe1980/duet/console"
	"github.com/hupe1980/duet/conversation"
	"github.com/hupe1980/duet/logging"
	"github.com/hupe1980/duet/model"
	anthropicbackend "github.com/hupe1980/duet/model/anthropic"
	"github.com/hupe1980/duet/model/ollama"
	openaibackend "github.com/hupe1980/duet/model/openai"
)

type cliOptions struct {
	configPath    string
	modelA        string
	modelB        string
	providerA     string
	providerB     string
	promptA       string
	promptB       string
	topic         string
	initialPrompt string
	maxRounds     int
	maxTokens     int
	historyLimit  int
	delay         time.Duration
	ollamaURL     string
	output        string
	stats         bool
	step          bool
	logLevel      string
	logFormat     string
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run() error {
	var opts cliOptions
	fs := pflag.CommandLine
	fs.StringVar(&opts.configPath, "config", "", "YAML config file for models and prompts")
	fs.StringVar(&opts.modelA, "model-a", "llama3:latest", "model identifier for the first agent")
	fs.StringVar(&opts.modelB, "model-b", "gemma3:12b", "model identifier for the second agent")
	fs.StringVar(&opts.providerA, "provider-a", "ollama", "backend for the first agent (ollama, openai, anthropic)")
	fs.StringVar(&opts.providerB, "provider-b", "ollama", "backend for the second agent (ollama, openai, anthropic)")
	fs.StringVar(&opts.promptA, "model-a-prompt", "", "custom system prompt for the first agent")
	fs.StringVar(&opts.promptB, "model-b-prompt", "", "custom system prompt for the second agent")
	fs.StringVar(&opts.topic, "topic", "", "debate topic; overrides the default personas with a for/against pair")
	fs.StringVar(&opts.initialPrompt, "initial-prompt", DefaultInitialPrompt, "seed prompt starting the conversation")
	fs.IntVar(&opts.maxRounds, "max-turns", conversation.DefaultMaxRounds, "maximum number of conversation rounds")
	fs.IntVar(&opts.maxTokens, "max-tokens", agent.DefaultMaxTokens, "maximum tokens per response")
	fs.IntVar(&opts.historyLimit, "history-limit", agent.DefaultTrimThreshold, "history length per agent before it is summarized and trimmed")
	fs.DurationVar(&opts.delay, "delay", 0, "pause between streamed fragments (e.g. 20ms)")
	fs.StringVar(&opts.ollamaURL, "ollama-url", ollama.DefaultBaseURL, "base URL of the Ollama API")
	fs.StringVar(&opts.output, "output", "conversation_history.txt", "file the transcript is written to")
	fs.BoolVar(&opts.stats, "stats", false, "show per-turn timing and history statistics")
	fs.BoolVar(&opts.step, "step", false, "pause after each round until Enter is pressed")
	fs.StringVar(&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	fs.StringVar(&opts.logFormat, "log-format", "text", "log format (text, json)")
	pflag.Parse()

	if opts.configPath != "" {
		cfg, err := LoadConfig(opts.configPath)
		if err != nil {
			return err
		}
		applyConfig(&opts, cfg, fs)
	}

	logger := logging.NewLogger(&logging.LoggerConfig{
		Level:     parseLevel(opts.logLevel),
		Format:    opts.logFormat,
		Output:    os.Stderr,
		Component: "duet",
	})

	promptA, promptB := resolvePrompts(opts)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	agentA, err := buildAgent(ctx, opts.modelA, opts.providerA, promptA, opts, logger)
	if err != nil {
		reportSetupError(os.Stderr, err, opts.modelA)
		return err
	}
	agentB, err := buildAgent(ctx, opts.modelB, opts.providerB, promptB, opts, logger)
	if err != nil {
		reportSetupError(os.Stderr, err, opts.modelB)
		return err
	}

	sink := console.NewSink(os.Stdout, agentA.Name(), agentB.Name(), func(o *console.Options) {
		o.Stats = opts.stats
		o.HistorySize = func(name string) int {
			if name == agentB.Name() {
				return agentB.HistoryLen()
			}
			return agentA.HistoryLen()
		}
	})
	sink.Banner(fmt.Sprintf("AI Conversation Beginning! 🤖\nWatch as %s and %s have a conversation.", agentA.Name(), agentB.Name()))
	if opts.initialPrompt != "" {
		sink.InitialPrompt(opts.initialPrompt)
	}

	orch := conversation.New(agentA, agentB, func(o *conversation.Options) {
		o.MaxRounds = opts.maxRounds
		o.InitialPrompt = opts.initialPrompt
		o.Delay = opts.delay
		o.Sink = sink
		o.Logger = logger
		if opts.step {
			o.Stepper = &enterStepper{in: bufio.NewReader(os.Stdin), out: os.Stdout}
		}
	})

	res, runErr := orch.Run(ctx)
	switch res.State {
	case conversation.StateComplete:
		sink.Banner("Conversation complete!")
	case conversation.StateInterrupted:
		sink.Banner("Conversation interrupted by user!")
	case conversation.StateFailed:
		sink.Banner("Error during conversation:\n" + res.Err.Error())
	}

	if err := os.WriteFile(opts.output, []byte(res.Transcript.String()), 0o644); err != nil {
		return fmt.Errorf("save transcript: %w", err)
	}
	sink.Banner("Conversation saved to: " + opts.output)
	return runErr
}

// applyConfig overlays file values onto options for flags the user did not
// set explicitly.
func applyConfig(opts *cliOptions, cfg Config, fs *pflag.FlagSet) {
	set := func(flag string, dst *string, val string) {
		if val != "" && !fs.Changed(flag) {
			*dst = val
		}
	}
	set("model-a", &opts.modelA, cfg.ModelA)
	set("model-b", &opts.modelB, cfg.ModelB)
	set("provider-a", &opts.providerA, cfg.ProviderA)
	set("provider-b", &opts.providerB, cfg.ProviderB)
	set("model-a-prompt", &opts.promptA, cfg.PromptA)
	set("model-b-prompt", &opts.promptB, cfg.PromptB)
	set("topic", &opts.topic, cfg.Topic)
	set("initial-prompt", &opts.initialPrompt, cfg.InitialPrompt)
}

// resolvePrompts picks each agent's system prompt: explicit prompt flags
// win, then debate mode, then the default personas.
func resolvePrompts(opts cliOptions) (string, string) {
	promptA, promptB := DefaultPromptA, DefaultPromptB
	if opts.topic != "" {
		promptA = DebatePrompt("Joe", opts.topic, "for")
		promptB = DebatePrompt("Jannet", opts.topic, "against")
	}
	if opts.promptA != "" {
		promptA = opts.promptA
	}
	if opts.promptB != "" {
		promptB = opts.promptB
	}
	return promptA, promptB
}

func buildAgent(ctx context.Context, modelName, provider, systemPrompt string, opts cliOptions, logger logging.Logger) (*agent.Agent, error) {
	backend, err := buildBackend(provider, opts.ollamaURL, logger)
	if err != nil {
		return nil, err
	}
	return agent.New(ctx, modelName, backend, func(o *agent.Options) {
		o.SystemPrompt = systemPrompt
		o.TrimThreshold = opts.historyLimit
		o.MaxTokens = opts.maxTokens
		o.Logger = logger
	})
}

func buildBackend(provider, ollamaURL string, logger logging.Logger) (model.Backend, error) {
	switch provider {
	case "ollama":
		return ollama.New(func(o *ollama.Options) {
			o.BaseURL = ollamaURL
			o.Logger = logger
		}), nil
	case "openai":
		return openaibackend.New(), nil
	case "anthropic":
		return anthropicbackend.New(), nil
	default:
		return nil, fmt.Errorf("unknown provider %q (want ollama, openai or anthropic)", provider)
	}
}

// reportSetupError prints first-run guidance for the typed Ollama failures.
func reportSetupError(w io.Writer, err error, model string) {
	switch {
	case ollama.IsConnectivity(err):
		fmt.Fprintln(w, "❌ Could not connect to the Ollama server.")
		printInstallGuide(w)
	case ollama.IsModelUnavailable(err):
		fmt.Fprintf(w, "❌ Model %q is not available locally.\n", model)
		printPullGuide(w, model)
	}
}

func parseLevel(s string) logging.LogLevel {
	switch s {
	case "debug":
		return logging.LogLevelDebug
	case "info":
		return logging.LogLevelInfo
	case "error":
		return logging.LogLevelError
	default:
		return logging.LogLevelWarn
	}
}

// enterStepper implements conversation.Stepper by waiting for Enter on
// stdin. EOF stops the run gracefully.
type enterStepper struct {
	in  *bufio.Reader
	out io.Writer
}

func (s *enterStepper) Continue(ctx context.Context) (bool, error) {
	fmt.Fprintln(s.out, "Press Enter to continue to the next round, or Ctrl+C to stop...")
	lineCh := make(chan error, 1)
	go func() {
		_, err := s.in.ReadString('\n')
		lineCh <- err
	}()
	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case err := <-lineCh:
		if err != nil {
			return false, nil
		}
		return true, nil
	}
}
