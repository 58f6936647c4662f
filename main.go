package main

import (
	"context"
	"log"

	"crypto-chatbot/api/coingecko"
	"crypto-chatbot/api/config"
	"crypto-chatbot/api/handlers"
	"crypto-chatbot/api/llm"
	"crypto-chatbot/api/logger"
	"crypto-chatbot/api/middleware"
	"crypto-chatbot/api/store"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func init() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found")
	}
}

func main() {
	if err := logger.Init(); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	cfg := config.Load()
	ctx := context.Background()

	handlers.Gecko = coingecko.NewClient(cfg.CoinGeckoBaseURL, cfg.CoinGeckoAPIKey)

	// The store and the chat model degrade independently: a missing Redis
	// keeps chat and market data alive, a missing model key keeps the
	// persistence routes alive.
	kv, err := store.NewRedisKV(cfg.RedisURL)
	if err != nil {
		logger.Get().Error("conversation store unavailable", zap.Error(err))
	} else {
		handlers.Conversations = store.New(kv)
	}

	chatAgent, err := llm.NewAgent(ctx, cfg, handlers.Gecko)
	if err != nil {
		logger.Get().Error("chat agent unavailable", zap.Error(err))
	} else {
		handlers.ChatAgent = chatAgent
	}

	router := gin.Default()
	router.SetTrustedProxies([]string{"127.0.0.1", "localhost"}) // Only trust local proxies

	router.Use(middleware.CorsMiddleware)

	api := router.Group("/api")
	{
		api.POST("/chat", handlers.HandleChat)

		api.GET("/conversations", handlers.HandleGetConversations)
		api.POST("/conversations", handlers.HandleSaveConversation)
		api.DELETE("/conversations", handlers.HandleDeleteConversation)

		api.GET("/history", handlers.HandleGetHistory)
		api.POST("/history", handlers.HandleSaveHistory)
		api.DELETE("/history", handlers.HandleDeleteHistory)
		api.POST("/history/refresh", handlers.HandleRefreshHistoryTTL)

		api.GET("/search", handlers.HandleSearch)
		api.GET("/cryptos/top", handlers.HandleTopCryptos)
	}

	logger.Get().Info("Server starting", zap.String("port", cfg.Port))
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
