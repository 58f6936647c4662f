package coingecko

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"crypto-chatbot/api/models"
)

func intptr(n int) *int { return &n }

// fakeProvider is an in-process CoinGecko standing in for the real API.
type fakeProvider struct {
	mu       sync.Mutex
	requests int

	top        []models.CryptoMarketData
	markets    map[string]models.CryptoMarketData
	search     map[string][]models.SearchCoin
	categories []models.Category

	failMarkets bool
	failSearch  bool
}

func (f *fakeProvider) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests
}

func (f *fakeProvider) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.requests++
	f.mu.Unlock()

	// resty only decodes SetResult targets for JSON content types.
	w.Header().Set("Content-Type", "application/json")

	switch r.URL.Path {
	case "/coins/markets":
		if f.failMarkets {
			http.Error(w, "upstream down", http.StatusBadGateway)
			return
		}
		if ids := r.URL.Query().Get("ids"); ids != "" {
			out := []models.CryptoMarketData{}
			for _, id := range strings.Split(ids, ",") {
				if m, ok := f.markets[id]; ok {
					out = append(out, m)
				}
			}
			json.NewEncoder(w).Encode(out)
			return
		}
		json.NewEncoder(w).Encode(f.top)
	case "/search":
		if f.failSearch {
			http.Error(w, "upstream down", http.StatusBadGateway)
			return
		}
		query := strings.ToLower(r.URL.Query().Get("query"))
		json.NewEncoder(w).Encode(models.SearchResult{Coins: f.search[query]})
	case "/coins/categories/list":
		json.NewEncoder(w).Encode(f.categories)
	default:
		http.NotFound(w, r)
	}
}

func newTestClient(t *testing.T, f *fakeProvider) *Client {
	t.Helper()
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "")
}

func marketRow(id, symbol, name string, price, cap float64, rank int) models.CryptoMarketData {
	return models.CryptoMarketData{
		ID:            id,
		Symbol:        symbol,
		Name:          name,
		CurrentPrice:  price,
		MarketCap:     cap,
		MarketCapRank: intptr(rank),
	}
}

func TestTopAssetsOrderedByMarketCap(t *testing.T) {
	top := make([]models.CryptoMarketData, 0, 10)
	names := []string{"bitcoin", "ethereum", "tether", "binancecoin", "solana", "ripple", "usd-coin", "dogecoin", "cardano", "tron"}
	for i, id := range names {
		top = append(top, marketRow(id, id[:3], id, 100, float64(1000-i*10), i+1))
	}
	client := newTestClient(t, &fakeProvider{top: top})

	assets, err := client.TopAssets(context.Background(), 10)
	if err != nil {
		t.Fatalf("TopAssets: %v", err)
	}
	if len(assets) != 10 {
		t.Fatalf("expected 10 assets, got %d", len(assets))
	}
	for i := 1; i < len(assets); i++ {
		if assets[i].MarketCap > assets[i-1].MarketCap {
			t.Fatalf("market cap not non-increasing at index %d: %f > %f", i, assets[i].MarketCap, assets[i-1].MarketCap)
		}
	}
	if assets[0].Symbol != "BIT" {
		t.Fatalf("expected uppercase symbol, got %q", assets[0].Symbol)
	}
}

func TestTopAssetsUpstreamError(t *testing.T) {
	client := newTestClient(t, &fakeProvider{failMarkets: true})

	if _, err := client.TopAssets(context.Background(), 10); err == nil {
		t.Fatal("expected error on non-2xx response")
	}
}

func TestAssetByIDAbsenceIsNotAnError(t *testing.T) {
	client := newTestClient(t, &fakeProvider{markets: map[string]models.CryptoMarketData{}})

	asset, err := client.AssetByID(context.Background(), "no-such-coin")
	if err != nil {
		t.Fatalf("AssetByID: %v", err)
	}
	if asset != nil {
		t.Fatalf("expected nil asset, got %+v", asset)
	}
}

func TestAssetByIDNon2xxFallsThrough(t *testing.T) {
	client := newTestClient(t, &fakeProvider{failMarkets: true})

	asset, err := client.AssetByID(context.Background(), "bitcoin")
	if err != nil {
		t.Fatalf("AssetByID should swallow non-2xx: %v", err)
	}
	if asset != nil {
		t.Fatalf("expected nil asset on upstream failure, got %+v", asset)
	}
}

func TestSearchUpstreamError(t *testing.T) {
	client := newTestClient(t, &fakeProvider{failSearch: true})

	if _, err := client.Search(context.Background(), "bitcoin"); err == nil {
		t.Fatal("expected error on non-2xx response")
	}
}
