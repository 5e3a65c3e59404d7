package completion

import "context"

// Message is one role-tagged turn in a completion request.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Params tune a single completion call. Zero values fall back to the
// provider's configured defaults.
type Params struct {
	Model       string
	Temperature float64
	MaxTokens   int
}

// Client defines the interface for chat-completion providers.
// Callers are responsible for message ordering: one system message first,
// followed by the conversation or task prompt.
type Client interface {
	Complete(ctx context.Context, messages []Message, p Params) (string, error)
	Name() string
}
