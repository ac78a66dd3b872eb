package domain

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is the provider-agnostic chat message shape used by the handler
// and LLM integrations. A stored conversation turn has the same shape with
// Role limited to RoleUser or RoleAssistant.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
