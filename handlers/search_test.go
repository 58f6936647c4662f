package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"crypto-chatbot/api/coingecko"
	"crypto-chatbot/api/models"

	"github.com/gin-gonic/gin"
)

func rankPtr(n int) *int { return &n }

// newMarketRouter wires the search and market handlers against a stubbed
// CoinGecko server.
func newMarketRouter(t *testing.T, upstream http.Handler) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	// resty only decodes SetResult targets for JSON content types.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		upstream.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)

	Gecko = coingecko.NewClient(srv.URL, "")
	t.Cleanup(func() { Gecko = nil })

	router := gin.New()
	router.GET("/api/search", HandleSearch)
	router.GET("/api/cryptos/top", HandleTopCryptos)
	return router
}

func TestSearchShortQuerySkipsProvider(t *testing.T) {
	called := false
	router := newMarketRouter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	w := doJSON(t, router, http.MethodGet, "/api/search?q=b", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if called {
		t.Fatal("provider must not be queried for single-character input")
	}

	var resp struct {
		Coins []models.SearchCoin `json:"coins"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(resp.Coins) != 0 {
		t.Fatalf("expected no coins, got %d", len(resp.Coins))
	}
}

func TestSearchSortsByRankAndCaps(t *testing.T) {
	coins := make([]models.SearchCoin, 0, 12)
	// Build hits in reverse rank order, plus one unranked coin up front.
	coins = append(coins, models.SearchCoin{ID: "shady", Name: "Shady Coin", Symbol: "SHDY"})
	for r := 12; r >= 1; r-- {
		coins = append(coins, models.SearchCoin{
			ID:            "coin-" + string(rune('a'+r)),
			Name:          "Coin",
			Symbol:        "C",
			MarketCapRank: rankPtr(r),
		})
	}

	router := newMarketRouter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(models.SearchResult{Coins: coins})
	}))

	w := doJSON(t, router, http.MethodGet, "/api/search?q=coin", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp struct {
		Coins []models.SearchCoin `json:"coins"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(resp.Coins) != maxSearchResults {
		t.Fatalf("expected %d coins, got %d", maxSearchResults, len(resp.Coins))
	}
	for i := 1; i < len(resp.Coins); i++ {
		if *resp.Coins[i-1].MarketCapRank > *resp.Coins[i].MarketCapRank {
			t.Fatalf("coins out of rank order at %d", i)
		}
	}
	for _, coin := range resp.Coins {
		if coin.MarketCapRank == nil {
			t.Fatal("unranked coin must sort past the top ten")
		}
	}
}

func TestSearchUpstreamFailure(t *testing.T) {
	router := newMarketRouter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))

	w := doJSON(t, router, http.MethodGet, "/api/search?q=bitcoin", nil)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}

	var resp struct {
		Coins []models.SearchCoin `json:"coins"`
		Error string              `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Coins == nil || len(resp.Coins) != 0 {
		t.Fatalf("expected empty coins array, got %v", resp.Coins)
	}
	if resp.Error == "" {
		t.Fatal("expected an error message")
	}
}

func TestTopCryptosDefaultLimit(t *testing.T) {
	var gotPerPage string
	router := newMarketRouter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPerPage = r.URL.Query().Get("per_page")
		json.NewEncoder(w).Encode([]models.CryptoMarketData{
			{ID: "bitcoin", Symbol: "btc", Name: "Bitcoin", CurrentPrice: 97000},
		})
	}))

	w := doJSON(t, router, http.MethodGet, "/api/cryptos/top", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if gotPerPage != "10" {
		t.Fatalf("expected default per_page=10, got %q", gotPerPage)
	}

	var resp struct {
		Cryptos []models.CryptoData `json:"cryptos"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(resp.Cryptos) != 1 || resp.Cryptos[0].Symbol != "BTC" {
		t.Fatalf("unexpected cryptos: %+v", resp.Cryptos)
	}
}

func TestTopCryptosLimitClampedAndValidated(t *testing.T) {
	var gotPerPage string
	router := newMarketRouter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPerPage = r.URL.Query().Get("per_page")
		json.NewEncoder(w).Encode([]models.CryptoMarketData{})
	}))

	w := doJSON(t, router, http.MethodGet, "/api/cryptos/top?limit=500", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if gotPerPage != "50" {
		t.Fatalf("expected per_page clamped to 50, got %q", gotPerPage)
	}

	for _, bad := range []string{"0", "-3", "abc"} {
		w := doJSON(t, router, http.MethodGet, "/api/cryptos/top?limit="+bad, nil)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("limit=%s: expected 400, got %d", bad, w.Code)
		}
	}
}
