package types

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
	Stream   bool      `json:"stream"`
}

// ChatResponse is kept untyped: only "choices" is checked, everything else
// is passed through for display.
type ChatResponse map[string]any

// Choices returns the "choices" array and whether it was present as an array.
func (r ChatResponse) Choices() ([]any, bool) {
	raw, ok := r["choices"]
	if !ok {
		return nil, false
	}
	choices, ok := raw.([]any)
	return choices, ok
}
