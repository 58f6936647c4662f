package llm

import (
	"strings"

	"crypto-chatbot/api/models"

	"github.com/cloudwego/eino/schema"
)

// ToSchemaMessages converts UI messages to model messages. Text parts are
// concatenated; tool invocation parts are not replayed — their results are
// already reflected in the assistant text that followed them.
func ToSchemaMessages(messages []models.StoredMessage) []*schema.Message {
	out := make([]*schema.Message, 0, len(messages))
	for _, m := range messages {
		var sb strings.Builder
		for _, part := range m.Parts {
			if part.IsText() {
				sb.WriteString(part.Text)
			}
		}
		text := sb.String()
		if text == "" {
			continue
		}

		switch m.Role {
		case models.RoleAssistant:
			out = append(out, schema.AssistantMessage(text, nil))
		case models.RoleSystem:
			out = append(out, schema.SystemMessage(text))
		default:
			out = append(out, schema.UserMessage(text))
		}
	}
	return out
}
