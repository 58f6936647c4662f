package models

import "encoding/json"

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// MessagePart is one typed fragment of a chat message. Type "text" carries
// plain content in Text; tool invocation parts use the "tool-<name>"
// convention and carry the call id, input and (once finished) output.
type MessagePart struct {
	Type       string          `json:"type"`
	Text       string          `json:"text,omitempty"`
	ToolCallID string          `json:"toolCallId,omitempty"`
	State      string          `json:"state,omitempty"`
	Input      json.RawMessage `json:"input,omitempty"`
	Output     json.RawMessage `json:"output,omitempty"`
}

func (p MessagePart) IsText() bool {
	return p.Type == "text"
}

// StoredMessage is a chat message as persisted in Redis and exchanged with
// the UI.
type StoredMessage struct {
	ID        string        `json:"id"`
	Role      string        `json:"role"`
	Parts     []MessagePart `json:"parts"`
	CreatedAt string        `json:"createdAt,omitempty"`
}

// Text returns the content of the first text part, or "" when the message
// has none. This is the substring used for title derivation.
func (m StoredMessage) Text() string {
	for _, part := range m.Parts {
		if part.IsText() {
			return part.Text
		}
	}
	return ""
}

// Conversation is a titled, ordered message list owned by one user id.
type Conversation struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Messages    []StoredMessage `json:"messages"`
	CreatedAt   string          `json:"createdAt"`
	LastUpdated string          `json:"lastUpdated"`
}

// ChatHistoryData is the legacy single-session history record.
type ChatHistoryData struct {
	Messages    []StoredMessage `json:"messages"`
	LastUpdated string          `json:"lastUpdated"`
}
