package llm

import (
	"testing"

	"crypto-chatbot/api/models"

	"github.com/cloudwego/eino/schema"
)

func TestToSchemaMessagesConcatenatesTextParts(t *testing.T) {
	messages := []models.StoredMessage{
		{
			Role: models.RoleUser,
			Parts: []models.MessagePart{
				{Type: "text", Text: "what is "},
				{Type: "text", Text: "bitcoin?"},
			},
		},
	}

	out := ToSchemaMessages(messages)
	if len(out) != 1 {
		t.Fatalf("expected 1 message, got %d", len(out))
	}
	if out[0].Role != schema.User || out[0].Content != "what is bitcoin?" {
		t.Fatalf("unexpected message: %+v", out[0])
	}
}

func TestToSchemaMessagesSkipsToolOnlyMessages(t *testing.T) {
	messages := []models.StoredMessage{
		{Role: models.RoleUser, Parts: []models.MessagePart{{Type: "text", Text: "top 10 coins"}}},
		{Role: models.RoleAssistant, Parts: []models.MessagePart{
			{Type: "tool-getTopCryptos", ToolCallID: "call-1", State: "output-available"},
		}},
		{Role: models.RoleAssistant, Parts: []models.MessagePart{{Type: "text", Text: "Here they are."}}},
	}

	out := ToSchemaMessages(messages)
	if len(out) != 2 {
		t.Fatalf("tool-only messages must be dropped, got %d messages", len(out))
	}
	if out[1].Role != schema.Assistant || out[1].Content != "Here they are." {
		t.Fatalf("unexpected message: %+v", out[1])
	}
}

func TestToSchemaMessagesRoles(t *testing.T) {
	messages := []models.StoredMessage{
		{Role: models.RoleSystem, Parts: []models.MessagePart{{Type: "text", Text: "be brief"}}},
		{Role: models.RoleUser, Parts: []models.MessagePart{{Type: "text", Text: "hi"}}},
		{Role: models.RoleAssistant, Parts: []models.MessagePart{{Type: "text", Text: "hello"}}},
	}

	out := ToSchemaMessages(messages)
	if len(out) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(out))
	}
	want := []schema.RoleType{schema.System, schema.User, schema.Assistant}
	for i, role := range want {
		if out[i].Role != role {
			t.Fatalf("message %d: expected role %s, got %s", i, role, out[i].Role)
		}
	}
}
