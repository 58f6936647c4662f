package handlers

import (
	"net/http"
	"strconv"

	"crypto-chatbot/api/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	defaultTopAssets = 10
	maxTopAssets     = 50
)

// HandleTopCryptos serves the market overview table shown outside the chat.
func HandleTopCryptos(c *gin.Context) {
	limit := defaultTopAssets
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}
	if limit > maxTopAssets {
		limit = maxTopAssets
	}

	cryptos, err := Gecko.TopAssets(c.Request.Context(), limit)
	if err != nil {
		logger.Get().Error("failed to fetch top assets", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch market data"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"cryptos": cryptos})
}
