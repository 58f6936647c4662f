package handlers

import (
	"net/http"
	"sort"
	"strings"

	"crypto-chatbot/api/coingecko"
	"crypto-chatbot/api/logger"
	"crypto-chatbot/api/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Gecko is the shared market data client, set by main.
var Gecko *coingecko.Client

const maxSearchResults = 10

// HandleSearch proxies coin autocomplete: at most ten hits ordered by
// ascending market cap rank. Queries shorter than two characters return an
// empty list without touching the provider.
func HandleSearch(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if len(query) < 2 {
		c.JSON(http.StatusOK, gin.H{"coins": []models.SearchCoin{}})
		return
	}

	coins, err := Gecko.Search(c.Request.Context(), query)
	if err != nil {
		logger.Get().Error("coin search failed",
			zap.String("query", query),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"coins": []models.SearchCoin{}, "error": "Search failed"})
		return
	}

	sort.SliceStable(coins, func(i, j int) bool {
		return searchRank(coins[i]) < searchRank(coins[j])
	})
	if len(coins) > maxSearchResults {
		coins = coins[:maxSearchResults]
	}

	c.JSON(http.StatusOK, gin.H{"coins": coins})
}

func searchRank(coin models.SearchCoin) int {
	if coin.MarketCapRank == nil {
		return int(^uint(0) >> 1)
	}
	return *coin.MarketCapRank
}
