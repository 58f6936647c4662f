package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"crypto-chatbot/api/models"
)

const (
	conversationListKey = "crypto-chat:conversations"
	conversationLimit   = 50
	conversationTTL     = 30 * 24 * time.Hour

	titleMaxLen = 40
)

func listKey(userID string) string {
	return fmt.Sprintf("%s:%s", conversationListKey, userID)
}

// decodeConversations tolerates both a raw JSON array and a JSON-encoded
// string containing one: values written by other Redis clients may arrive
// double-encoded. Writes from this store always produce canonical JSON.
func decodeConversations(raw string) ([]models.Conversation, error) {
	var conversations []models.Conversation
	if err := json.Unmarshal([]byte(raw), &conversations); err == nil {
		return conversations, nil
	}

	var inner string
	if err := json.Unmarshal([]byte(raw), &inner); err != nil {
		return nil, fmt.Errorf("error decoding conversation list: %v", err)
	}
	if err := json.Unmarshal([]byte(inner), &conversations); err != nil {
		return nil, fmt.Errorf("error decoding conversation list: %v", err)
	}
	return conversations, nil
}

// ListConversations returns a user's conversations, most recently updated
// first. A missing key is an empty list, not an error.
func (s *Store) ListConversations(ctx context.Context, userID string) ([]models.Conversation, error) {
	raw, ok, err := s.kv.Get(ctx, listKey(userID))
	if err != nil {
		return nil, fmt.Errorf("error fetching conversations: %v", err)
	}
	if !ok {
		return []models.Conversation{}, nil
	}
	return decodeConversations(raw)
}

// GetConversation returns one conversation by id, or nil when absent.
func (s *Store) GetConversation(ctx context.Context, userID, conversationID string) (*models.Conversation, error) {
	conversations, err := s.ListConversations(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range conversations {
		if conversations[i].ID == conversationID {
			return &conversations[i], nil
		}
	}
	return nil, nil
}

// SaveConversation replaces the conversation in place when its id already
// exists, otherwise prepends it. The list is capped at 50 entries (oldest
// dropped) and the 30-day TTL is refreshed on every write. Writes are
// last-write-wins; concurrent writers for one user are not coordinated.
func (s *Store) SaveConversation(ctx context.Context, userID string, conversation models.Conversation) error {
	conversations, err := s.ListConversations(ctx, userID)
	if err != nil {
		return err
	}

	replaced := false
	for i := range conversations {
		if conversations[i].ID == conversation.ID {
			conversations[i] = conversation
			replaced = true
			break
		}
	}
	if !replaced {
		conversations = append([]models.Conversation{conversation}, conversations...)
	}

	if len(conversations) > conversationLimit {
		conversations = conversations[:conversationLimit]
	}

	data, err := json.Marshal(conversations)
	if err != nil {
		return fmt.Errorf("error encoding conversation list: %v", err)
	}
	return s.kv.SetWithTTL(ctx, listKey(userID), string(data), conversationTTL)
}

// DeleteConversation removes one conversation and persists the remainder
// with a refreshed TTL.
func (s *Store) DeleteConversation(ctx context.Context, userID, conversationID string) error {
	conversations, err := s.ListConversations(ctx, userID)
	if err != nil {
		return err
	}

	filtered := conversations[:0]
	for _, conv := range conversations {
		if conv.ID != conversationID {
			filtered = append(filtered, conv)
		}
	}

	data, err := json.Marshal(filtered)
	if err != nil {
		return fmt.Errorf("error encoding conversation list: %v", err)
	}
	return s.kv.SetWithTTL(ctx, listKey(userID), string(data), conversationTTL)
}

// GenerateTitle derives a conversation title from its first user message:
// the first 40 characters, with an ellipsis when truncated.
func GenerateTitle(text string) string {
	runes := []rune(text)
	if len(runes) <= titleMaxLen {
		return text
	}
	return string(runes[:titleMaxLen]) + "..."
}
