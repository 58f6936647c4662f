package client

import (
	"context"
	"fmt"
	"time"

	"crypto-chatbot/api/models"

	"github.com/go-resty/resty/v2"
)

// ConversationAPI is what the syncer needs from the backend; *API satisfies
// it and tests substitute a fake.
type ConversationAPI interface {
	ListConversations(ctx context.Context, userID string) ([]models.Conversation, error)
	SaveMessages(ctx context.Context, userID, conversationID string, messages []models.StoredMessage) (*models.Conversation, error)
	DeleteConversation(ctx context.Context, userID, conversationID string) error
}

// API is an HTTP client for the chat backend's persistence routes.
type API struct {
	http *resty.Client
}

func NewAPI(baseURL string) *API {
	c := resty.New()
	c.SetBaseURL(baseURL)
	c.SetTimeout(15 * time.Second)
	return &API{http: c}
}

type conversationsResponse struct {
	Conversations []models.Conversation `json:"conversations"`
	Error         string                `json:"error"`
}

type saveConversationResponse struct {
	Success      bool                 `json:"success"`
	Conversation *models.Conversation `json:"conversation"`
	Error        string               `json:"error"`
}

func (a *API) ListConversations(ctx context.Context, userID string) ([]models.Conversation, error) {
	var result conversationsResponse

	resp, err := a.http.R().
		SetContext(ctx).
		SetQueryParam("userId", userID).
		SetResult(&result).
		Get("/api/conversations")
	if err != nil {
		return nil, fmt.Errorf("error fetching conversations: %v", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("conversations API error: %d %s", resp.StatusCode(), resp.Status())
	}

	return result.Conversations, nil
}

func (a *API) SaveMessages(ctx context.Context, userID, conversationID string, messages []models.StoredMessage) (*models.Conversation, error) {
	var result saveConversationResponse

	resp, err := a.http.R().
		SetContext(ctx).
		SetBody(map[string]any{
			"userId":         userID,
			"conversationId": conversationID,
			"messages":       messages,
		}).
		SetResult(&result).
		Post("/api/conversations")
	if err != nil {
		return nil, fmt.Errorf("error saving conversation: %v", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("conversations API error: %d %s", resp.StatusCode(), resp.Status())
	}

	return result.Conversation, nil
}

func (a *API) DeleteConversation(ctx context.Context, userID, conversationID string) error {
	resp, err := a.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"userId":         userID,
			"conversationId": conversationID,
		}).
		Delete("/api/conversations")
	if err != nil {
		return fmt.Errorf("error deleting conversation: %v", err)
	}
	if resp.IsError() {
		return fmt.Errorf("conversations API error: %d %s", resp.StatusCode(), resp.Status())
	}
	return nil
}
