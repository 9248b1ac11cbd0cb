package chat

// Role identifies the author of a message.
type Role string

const (
	// RoleSystem marks the optional instruction message pinned at the
	// start of a history.
	RoleSystem Role = "system"
	// RoleUser marks input addressed to a model.
	RoleUser Role = "user"
	// RoleAssistant marks model-produced output.
	RoleAssistant Role = "assistant"
)

// Message is a single role-attributed utterance. Messages are treated as
// immutable once appended to a History.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// NewSystemMessage creates a system message.
func NewSystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

// NewUserMessage creates a user message.
func NewUserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// NewAssistantMessage creates an assistant message.
func NewAssistantMessage(content string) Message {
	return Message{Role: RoleAssistant, Content: content}
}

// History is an ordered message sequence owned by exactly one agent. At most
// one system message is present and always at position 0.
type History []Message

// NewHistory creates a history, optionally seeded with a system prompt.
func NewHistory(systemPrompt string) History {
	if systemPrompt == "" {
		return History{}
	}
	return History{NewSystemMessage(systemPrompt)}
}

// Add appends a message preserving insertion order.
func (h *History) Add(m Message) { *h = append(*h, m) }

// AddUser appends a user message.
func (h *History) AddUser(content string) { h.Add(NewUserMessage(content)) }

// AddAssistant appends an assistant message.
func (h *History) AddAssistant(content string) { h.Add(NewAssistantMessage(content)) }

// System returns the leading system message and whether one is present.
func (h History) System() (Message, bool) {
	if len(h) > 0 && h[0].Role == RoleSystem {
		return h[0], true
	}
	return Message{}, false
}

// Split separates the optional leading system message from the remainder.
// The returned remainder aliases the history's backing array.
func (h History) Split() (system []Message, rest []Message) {
	if _, ok := h.System(); ok {
		return h[:1], h[1:]
	}
	return nil, h
}

// Last returns the most recent message and whether the history is non-empty.
func (h History) Last() (Message, bool) {
	if len(h) == 0 {
		return Message{}, false
	}
	return h[len(h)-1], true
}

// Clone returns a defensive copy safe for independent mutation.
func (h History) Clone() History {
	c := make(History, len(h))
	copy(c, h)
	return c
}
