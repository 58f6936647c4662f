package handlers

import (
	"net/http"

	"crypto-chatbot/api/logger"
	"crypto-chatbot/api/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Legacy single-thread endpoints keyed by a client-generated session id.

// HandleGetHistory returns the session history, or an empty message list
// when none was ever saved.
func HandleGetHistory(c *gin.Context) {
	if !storeReady(c) {
		return
	}

	sessionID := c.Query("sessionId")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sessionId is required"})
		return
	}

	history, err := Conversations.GetHistory(c.Request.Context(), sessionID)
	if err != nil {
		logger.Get().Error("failed to fetch chat history",
			zap.String("session_id", sessionID),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch chat history"})
		return
	}

	if history == nil {
		c.JSON(http.StatusOK, gin.H{"messages": []models.StoredMessage{}, "lastUpdated": nil})
		return
	}

	c.JSON(http.StatusOK, history)
}

type SaveHistoryRequest struct {
	SessionID string                 `json:"sessionId"`
	Messages  []models.StoredMessage `json:"messages"`
}

// HandleSaveHistory persists the full message list for a session.
func HandleSaveHistory(c *gin.Context) {
	if !storeReady(c) {
		return
	}

	var req SaveHistoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.SessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sessionId is required"})
		return
	}
	if req.Messages == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "messages must be an array"})
		return
	}

	if err := Conversations.SaveHistory(c.Request.Context(), req.SessionID, req.Messages); err != nil {
		logger.Get().Error("failed to save chat history",
			zap.String("session_id", req.SessionID),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save chat history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// HandleDeleteHistory removes the session history.
func HandleDeleteHistory(c *gin.Context) {
	if !storeReady(c) {
		return
	}

	sessionID := c.Query("sessionId")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sessionId is required"})
		return
	}

	if err := Conversations.DeleteHistory(c.Request.Context(), sessionID); err != nil {
		logger.Get().Error("failed to delete chat history",
			zap.String("session_id", sessionID),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete chat history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// HandleRefreshHistoryTTL extends the expiry of a session without rewriting
// its messages.
func HandleRefreshHistoryTTL(c *gin.Context) {
	if !storeReady(c) {
		return
	}

	sessionID := c.Query("sessionId")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sessionId is required"})
		return
	}

	if err := Conversations.RefreshTTL(c.Request.Context(), sessionID); err != nil {
		logger.Get().Error("failed to refresh history TTL",
			zap.String("session_id", sessionID),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to refresh chat history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
