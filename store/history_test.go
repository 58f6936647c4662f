package store

import (
	"context"
	"testing"
	"time"

	"crypto-chatbot/api/models"
)

func TestHistoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := New(NewMemoryKV())

	messages := []models.StoredMessage{
		{ID: "m1", Role: models.RoleUser, Parts: []models.MessagePart{{Type: "text", Text: "what is btc at?"}}},
		{ID: "m2", Role: models.RoleAssistant, Parts: []models.MessagePart{{Type: "text", Text: "Bitcoin is at $97,000 (CoinGecko)."}}},
	}

	if err := s.SaveHistory(ctx, "session-1", messages); err != nil {
		t.Fatalf("SaveHistory: %v", err)
	}

	history, err := s.GetHistory(ctx, "session-1")
	if err != nil {
		t.Fatalf("GetHistory: %v", err)
	}
	if history == nil {
		t.Fatal("expected history, got nil")
	}
	if len(history.Messages) != 2 || history.Messages[1].Text() != "Bitcoin is at $97,000 (CoinGecko)." {
		t.Fatalf("unexpected messages: %+v", history.Messages)
	}
	if history.LastUpdated == "" {
		t.Fatal("expected lastUpdated to be set on save")
	}
}

func TestHistoryAbsent(t *testing.T) {
	s := New(NewMemoryKV())

	history, err := s.GetHistory(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("GetHistory: %v", err)
	}
	if history != nil {
		t.Fatalf("expected nil history, got %+v", history)
	}
}

func TestHistoryDelete(t *testing.T) {
	ctx := context.Background()
	s := New(NewMemoryKV())

	if err := s.SaveHistory(ctx, "session-1", []models.StoredMessage{{ID: "m1", Role: models.RoleUser}}); err != nil {
		t.Fatalf("SaveHistory: %v", err)
	}
	if err := s.DeleteHistory(ctx, "session-1"); err != nil {
		t.Fatalf("DeleteHistory: %v", err)
	}

	history, err := s.GetHistory(ctx, "session-1")
	if err != nil {
		t.Fatalf("GetHistory: %v", err)
	}
	if history != nil {
		t.Fatal("expected history to be gone after delete")
	}
}

func TestHistoryRefreshTTL(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	s := New(kv)

	if err := s.SaveHistory(ctx, "session-1", []models.StoredMessage{{ID: "m1", Role: models.RoleUser}}); err != nil {
		t.Fatalf("SaveHistory: %v", err)
	}

	// Age the key, then refresh: the TTL must come back to roughly 7 days.
	key := historyKey("session-1")
	if err := kv.Expire(ctx, key, time.Minute); err != nil {
		t.Fatalf("Expire: %v", err)
	}
	if err := s.RefreshTTL(ctx, "session-1"); err != nil {
		t.Fatalf("RefreshTTL: %v", err)
	}

	if ttl := kv.TTL(key); ttl < 6*24*time.Hour {
		t.Fatalf("expected TTL restored to ~7d, got %v", ttl)
	}
}
