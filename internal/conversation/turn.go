package conversation

// Role tags who produced a turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Turn is one role-tagged utterance within a conversation. Immutable once
// created; insertion order is the only ordering signal.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}
