package client

import (
	"context"
	"sync"
	"time"

	"crypto-chatbot/api/logger"
	"crypto-chatbot/api/models"
	"crypto-chatbot/api/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultSaveDelay = 500 * time.Millisecond

// Syncer reconciles in-memory chat state with the backend. The local mirror
// is updated immediately on every save; the network write is debounced
// behind a single-slot timer so rapid successive updates within the
// quiescence window collapse into one request. Writes are fire-and-forget:
// a failure is logged, never surfaced, and the local mirror stays
// authoritative for the running session.
type Syncer struct {
	mu  sync.Mutex
	api ConversationAPI

	userID string
	delay  time.Duration

	conversations []models.Conversation
	currentID     string
	messages      []models.StoredMessage

	timer *time.Timer
}

func NewSyncer(api ConversationAPI, userID string) *Syncer {
	return &Syncer{api: api, userID: userID, delay: defaultSaveDelay}
}

// Load fetches the stored conversation list. The in-memory list is only
// populated when it is currently empty, so an in-progress conversation is
// never clobbered by a late fetch.
func (s *Syncer) Load(ctx context.Context) error {
	conversations, err := s.api.ListConversations(ctx, s.userID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.conversations) == 0 {
		s.conversations = conversations
	}
	return nil
}

// Conversations returns a snapshot of the local mirror.
func (s *Syncer) Conversations() []models.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Conversation, len(s.conversations))
	copy(out, s.conversations)
	return out
}

// CurrentMessages returns the messages of the active conversation.
func (s *Syncer) CurrentMessages() []models.StoredMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.StoredMessage, len(s.messages))
	copy(out, s.messages)
	return out
}

// Select switches the active conversation. Displayed messages are reset
// only when the id actually changes so re-selecting the current thread does
// not wipe mid-stream state.
func (s *Syncer) Select(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id == s.currentID {
		return
	}
	s.currentID = id

	s.messages = nil
	for _, conv := range s.conversations {
		if conv.ID == id {
			s.messages = append([]models.StoredMessage(nil), conv.Messages...)
			break
		}
	}
}

// NewConversation clears the active id; the next save allocates a fresh one.
func (s *Syncer) NewConversation() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentID = ""
	s.messages = nil
}

// SaveMessages records the latest message list and schedules a debounced
// write. Each call cancels any pending write and restarts the timer, so only
// the last state inside the quiescence window reaches the backend.
func (s *Syncer) SaveMessages(messages []models.StoredMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.currentID == "" {
		if len(messages) == 0 {
			return
		}
		s.currentID = "conv_" + uuid.NewString()
	}

	s.messages = append([]models.StoredMessage(nil), messages...)
	s.updateMirrorLocked(messages)

	if s.timer != nil {
		s.timer.Stop()
	}

	convID := s.currentID
	snapshot := append([]models.StoredMessage(nil), messages...)
	s.timer = time.AfterFunc(s.delay, func() {
		if _, err := s.api.SaveMessages(context.Background(), s.userID, convID, snapshot); err != nil {
			logger.Get().Warn("conversation save failed",
				zap.String("conversation_id", convID),
				zap.Error(err))
		}
	})
}

// updateMirrorLocked applies the optimistic local update: derive a title for
// new conversations, replace the entry and move it to the head.
func (s *Syncer) updateMirrorLocked(messages []models.StoredMessage) {
	now := time.Now().UTC().Format(time.RFC3339)

	title := "New conversation"
	for _, msg := range messages {
		if msg.Role == models.RoleUser {
			if text := msg.Text(); text != "" {
				title = store.GenerateTitle(text)
			}
			break
		}
	}

	updated := models.Conversation{
		ID:          s.currentID,
		Title:       title,
		Messages:    messages,
		CreatedAt:   now,
		LastUpdated: now,
	}

	rest := make([]models.Conversation, 0, len(s.conversations))
	for _, conv := range s.conversations {
		if conv.ID == s.currentID {
			if conv.Title != "" {
				updated.Title = conv.Title
			}
			if conv.CreatedAt != "" {
				updated.CreatedAt = conv.CreatedAt
			}
			continue
		}
		rest = append(rest, conv)
	}

	s.conversations = append([]models.Conversation{updated}, rest...)
}

// Delete removes a conversation remotely and from the mirror. When the
// active conversation is deleted, the most recent remaining one becomes
// active.
func (s *Syncer) Delete(ctx context.Context, id string) error {
	if err := s.api.DeleteConversation(ctx, s.userID, id); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rest := s.conversations[:0]
	for _, conv := range s.conversations {
		if conv.ID != id {
			rest = append(rest, conv)
		}
	}
	s.conversations = rest

	if s.currentID == id {
		s.currentID = ""
		s.messages = nil
		if len(s.conversations) > 0 {
			s.currentID = s.conversations[0].ID
			s.messages = append([]models.StoredMessage(nil), s.conversations[0].Messages...)
		}
	}
	return nil
}

// Flush cancels any pending timer and writes the current state immediately.
// Intended for shutdown paths; returns the save error instead of logging it.
func (s *Syncer) Flush(ctx context.Context) error {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	convID := s.currentID
	snapshot := append([]models.StoredMessage(nil), s.messages...)
	s.mu.Unlock()

	if convID == "" || len(snapshot) == 0 {
		return nil
	}
	_, err := s.api.SaveMessages(ctx, s.userID, convID, snapshot)
	return err
}
