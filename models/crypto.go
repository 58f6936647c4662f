package models

// CryptoMarketData mirrors one row of CoinGecko's /coins/markets response.
type CryptoMarketData struct {
	ID                       string  `json:"id"`
	Symbol                   string  `json:"symbol"`
	Name                     string  `json:"name"`
	Image                    string  `json:"image"`
	CurrentPrice             float64 `json:"current_price"`
	MarketCap                float64 `json:"market_cap"`
	MarketCapRank            *int    `json:"market_cap_rank"`
	PriceChangePercentage24h float64 `json:"price_change_percentage_24h"`
	LastUpdated              string  `json:"last_updated"`
}

// CryptoData is the normalized asset shape served to the UI and to tools.
// MarketCapRank is nil for coins CoinGecko does not rank; when sorting, a
// missing rank sorts last.
type CryptoData struct {
	ID             string   `json:"id"`
	Symbol         string   `json:"symbol"`
	Name           string   `json:"name"`
	Image          string   `json:"image"`
	Price          float64  `json:"price"`
	MarketCap      float64  `json:"marketCap"`
	MarketCapRank  *int     `json:"marketCapRank,omitempty"`
	PriceChange24h float64  `json:"priceChange24h"`
	LastUpdated    string   `json:"lastUpdated"`
	Categories     []string `json:"categories,omitempty"`
}

// SearchCoin is a lightweight hit from CoinGecko's /search endpoint.
type SearchCoin struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Symbol        string `json:"symbol"`
	MarketCapRank *int   `json:"market_cap_rank"`
	Thumb         string `json:"thumb"`
}

type SearchResult struct {
	Coins []SearchCoin `json:"coins"`
}

// Category is one entry of CoinGecko's /coins/categories/list response.
type Category struct {
	CategoryID string `json:"category_id"`
	Name       string `json:"name"`
}

// CryptoSuggestion is a disambiguation candidate offered to the user.
type CryptoSuggestion struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

// QueryResolution is the outcome of resolving free-form user text to an
// asset. Exactly one of Crypto, Suggestions or NotFound is populated.
type QueryResolution struct {
	Crypto      *CryptoData
	Suggestions []CryptoSuggestion
	NotFound    bool
}

// CategoryResolution is the outcome of resolving a category name. On a match
// Cryptos and CategoryName are set; otherwise NotFound is true and
// Suggestions carries up to five candidate category names.
type CategoryResolution struct {
	Cryptos      []CryptoData
	CategoryName string
	Suggestions  []string
	NotFound     bool
}
