package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"crypto-chatbot/api/models"
)

// Legacy single-thread mode: one history record per browser session.
const (
	historyKeyPrefix = "crypto-chat:history"
	historyTTL       = 7 * 24 * time.Hour
)

func historyKey(sessionID string) string {
	return fmt.Sprintf("%s:%s", historyKeyPrefix, sessionID)
}

// GetHistory returns the session history, or nil when none exists.
func (s *Store) GetHistory(ctx context.Context, sessionID string) (*models.ChatHistoryData, error) {
	raw, ok, err := s.kv.Get(ctx, historyKey(sessionID))
	if err != nil {
		return nil, fmt.Errorf("error fetching chat history: %v", err)
	}
	if !ok {
		return nil, nil
	}

	var history models.ChatHistoryData
	if err := json.Unmarshal([]byte(raw), &history); err == nil {
		return &history, nil
	}

	// Same double-encoding tolerance as the conversation list.
	var inner string
	if err := json.Unmarshal([]byte(raw), &inner); err != nil {
		return nil, fmt.Errorf("error decoding chat history: %v", err)
	}
	if err := json.Unmarshal([]byte(inner), &history); err != nil {
		return nil, fmt.Errorf("error decoding chat history: %v", err)
	}
	return &history, nil
}

// SaveHistory persists the message list with a fresh 7-day TTL.
func (s *Store) SaveHistory(ctx context.Context, sessionID string, messages []models.StoredMessage) error {
	history := models.ChatHistoryData{
		Messages:    messages,
		LastUpdated: time.Now().UTC().Format(time.RFC3339),
	}

	data, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("error encoding chat history: %v", err)
	}
	return s.kv.SetWithTTL(ctx, historyKey(sessionID), string(data), historyTTL)
}

// DeleteHistory removes the session history.
func (s *Store) DeleteHistory(ctx context.Context, sessionID string) error {
	return s.kv.Delete(ctx, historyKey(sessionID))
}

// RefreshTTL extends the history expiry without rewriting the value.
func (s *Store) RefreshTTL(ctx context.Context, sessionID string) error {
	return s.kv.Expire(ctx, historyKey(sessionID), historyTTL)
}
