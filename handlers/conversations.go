package handlers

import (
	"net/http"
	"time"

	"crypto-chatbot/api/logger"
	"crypto-chatbot/api/models"
	"crypto-chatbot/api/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Conversations is set by main once Redis is reachable. Handlers answer 500
// when the store never came up; persistence is required for these routes
// while the rest of the API degrades independently.
var Conversations *store.Store

func storeReady(c *gin.Context) bool {
	if Conversations == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "conversation store is not configured"})
		return false
	}
	return true
}

// HandleGetConversations returns a user's conversation list.
func HandleGetConversations(c *gin.Context) {
	if !storeReady(c) {
		return
	}

	userID := c.Query("userId")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId is required"})
		return
	}

	conversations, err := Conversations.ListConversations(c.Request.Context(), userID)
	if err != nil {
		logger.Get().Error("failed to fetch conversations",
			zap.String("user_id", userID),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch conversations"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"conversations": conversations})
}

type SaveConversationRequest struct {
	UserID         string                 `json:"userId"`
	Conversation   *models.Conversation   `json:"conversation"`
	ConversationID string                 `json:"conversationId"`
	Messages       []models.StoredMessage `json:"messages"`
}

// HandleSaveConversation creates or updates a conversation. The body carries
// either a full conversation object or a conversationId plus its messages;
// in the latter case the title is derived from the first user message unless
// the conversation already has one.
func HandleSaveConversation(c *gin.Context) {
	if !storeReady(c) {
		return
	}

	var req SaveConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.UserID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId is required"})
		return
	}

	ctx := c.Request.Context()

	if req.Conversation != nil {
		if err := Conversations.SaveConversation(ctx, req.UserID, *req.Conversation); err != nil {
			logger.Get().Error("failed to save conversation",
				zap.String("user_id", req.UserID),
				zap.String("conversation_id", req.Conversation.ID),
				zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save conversation"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "conversation": req.Conversation})
		return
	}

	if req.ConversationID != "" && req.Messages != nil {
		existing, err := Conversations.GetConversation(ctx, req.UserID, req.ConversationID)
		if err != nil {
			logger.Get().Error("failed to look up conversation",
				zap.String("user_id", req.UserID),
				zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save conversation"})
			return
		}

		now := time.Now().UTC().Format(time.RFC3339)

		title := "New conversation"
		for _, msg := range req.Messages {
			if msg.Role == models.RoleUser {
				if text := msg.Text(); text != "" {
					title = store.GenerateTitle(text)
				}
				break
			}
		}

		conversation := models.Conversation{
			ID:          req.ConversationID,
			Title:       title,
			Messages:    req.Messages,
			CreatedAt:   now,
			LastUpdated: now,
		}
		if existing != nil {
			if existing.Title != "" {
				conversation.Title = existing.Title
			}
			if existing.CreatedAt != "" {
				conversation.CreatedAt = existing.CreatedAt
			}
		}

		if err := Conversations.SaveConversation(ctx, req.UserID, conversation); err != nil {
			logger.Get().Error("failed to save conversation",
				zap.String("user_id", req.UserID),
				zap.String("conversation_id", req.ConversationID),
				zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save conversation"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "conversation": conversation})
		return
	}

	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
}

// HandleDeleteConversation removes one conversation from the user's list.
func HandleDeleteConversation(c *gin.Context) {
	if !storeReady(c) {
		return
	}

	userID := c.Query("userId")
	conversationID := c.Query("conversationId")
	if userID == "" || conversationID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId and conversationId are required"})
		return
	}

	if err := Conversations.DeleteConversation(c.Request.Context(), userID, conversationID); err != nil {
		logger.Get().Error("failed to delete conversation",
			zap.String("user_id", userID),
			zap.String("conversation_id", conversationID),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete conversation"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
