package config

import "os"

// Config holds runtime configuration read from the environment. Call Load
// after godotenv has run; missing optional values fall back to defaults,
// missing required values are handled where the dependent component is
// initialized.
type Config struct {
	Port string

	// CoinGecko market data provider
	CoinGeckoBaseURL string
	CoinGeckoAPIKey  string

	// Groq (OpenAI-compatible) chat model
	GroqAPIKey  string
	GroqBaseURL string
	GroqModel   string

	// Redis conversation store
	RedisURL string
}

func Load() *Config {
	return &Config{
		Port:             getEnv("PORT", "8080"),
		CoinGeckoBaseURL: getEnv("COINGECKO_BASE_URL", "https://api.coingecko.com/api/v3"),
		CoinGeckoAPIKey:  os.Getenv("COINGECKO_API_KEY"),
		GroqAPIKey:       os.Getenv("GROQ_API_KEY"),
		GroqBaseURL:      getEnv("GROQ_BASE_URL", "https://api.groq.com/openai/v1"),
		GroqModel:        getEnv("GROQ_MODEL", "llama-3.3-70b-versatile"),
		RedisURL:         os.Getenv("REDIS_URL"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
