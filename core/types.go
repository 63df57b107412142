package core

// Role identifies the author of a conversation message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single turn in a conversation. ID is set only on assistant
// messages and is used to mark the auto-play target; user messages carry an
// empty ID.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
	ID      string `json:"id,omitempty"`
}

// UserMessage builds a user turn.
func UserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// AssistantMessage builds an assistant turn with the given identifier.
// Pass an empty id for turns that must not be auto-play eligible.
func AssistantMessage(content, id string) Message {
	return Message{Role: RoleAssistant, Content: content, ID: id}
}

// CloneMessages returns an independent copy of a message list, so callers
// can hand out conversation snapshots without aliasing internal state.
func CloneMessages(msgs []Message) []Message {
	if msgs == nil {
		return nil
	}
	out := make([]Message, len(msgs))
	copy(out, msgs)
	return out
}
