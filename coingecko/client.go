package coingecko

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"crypto-chatbot/api/models"

	"github.com/go-resty/resty/v2"
)

const defaultBaseURL = "https://api.coingecko.com/api/v3"

// Client queries the CoinGecko REST API and normalizes its responses. It
// keeps no cache of its own; revalidation is left to the HTTP layer.
type Client struct {
	http   *resty.Client
	apiKey string
}

// NewClient builds a client for the given base URL. The demo API key is
// optional and appended as a query parameter when set.
func NewClient(baseURL, apiKey string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	c := resty.New()
	c.SetBaseURL(baseURL)
	c.SetTimeout(30 * time.Second)

	return &Client{http: c, apiKey: apiKey}
}

func (c *Client) query(params map[string]string) map[string]string {
	if c.apiKey != "" {
		params["x_cg_demo_api_key"] = c.apiKey
	}
	return params
}

func normalizeMarketData(d models.CryptoMarketData) models.CryptoData {
	return models.CryptoData{
		ID:             d.ID,
		Symbol:         strings.ToUpper(d.Symbol),
		Name:           d.Name,
		Image:          d.Image,
		Price:          d.CurrentPrice,
		MarketCap:      d.MarketCap,
		MarketCapRank:  d.MarketCapRank,
		PriceChange24h: d.PriceChangePercentage24h,
		LastUpdated:    d.LastUpdated,
	}
}

// TopAssets returns the top n coins ordered by descending market cap.
func (c *Client) TopAssets(ctx context.Context, n int) ([]models.CryptoData, error) {
	var raw []models.CryptoMarketData

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(c.query(map[string]string{
			"vs_currency": "usd",
			"order":       "market_cap_desc",
			"per_page":    strconv.Itoa(n),
			"page":        "1",
			"sparkline":   "false",
		})).
		SetResult(&raw).
		Get("/coins/markets")
	if err != nil {
		return nil, fmt.Errorf("error fetching top assets: %v", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("coingecko API error: %d %s", resp.StatusCode(), resp.Status())
	}

	assets := make([]models.CryptoData, 0, len(raw))
	for _, d := range raw {
		assets = append(assets, normalizeMarketData(d))
	}
	return assets, nil
}

// AssetByID fetches a single coin through the markets endpoint, which is
// faster than /coins/{id}. Any non-2xx response or an unknown id yields
// (nil, nil) so callers can fall through to the next resolution strategy.
func (c *Client) AssetByID(ctx context.Context, id string) (*models.CryptoData, error) {
	var raw []models.CryptoMarketData

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(c.query(map[string]string{
			"vs_currency": "usd",
			"ids":         id,
			"sparkline":   "false",
		})).
		SetResult(&raw).
		Get("/coins/markets")
	if err != nil {
		return nil, fmt.Errorf("error fetching asset %s: %v", id, err)
	}
	if resp.IsError() || len(raw) == 0 {
		return nil, nil
	}

	asset := normalizeMarketData(raw[0])
	return &asset, nil
}

// Search runs a free-text coin search. Hits come back unordered.
func (c *Client) Search(ctx context.Context, query string) ([]models.SearchCoin, error) {
	var result models.SearchResult

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(c.query(map[string]string{"query": query})).
		SetResult(&result).
		Get("/search")
	if err != nil {
		return nil, fmt.Errorf("error searching coins: %v", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("coingecko API error: %d %s", resp.StatusCode(), resp.Status())
	}

	return result.Coins, nil
}

// Categories lists every category CoinGecko tracks.
func (c *Client) Categories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(c.query(map[string]string{})).
		SetResult(&categories).
		Get("/coins/categories/list")
	if err != nil {
		return nil, fmt.Errorf("error fetching categories: %v", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("coingecko API error: %d %s", resp.StatusCode(), resp.Status())
	}

	return categories, nil
}

// AssetsByCategory returns up to limit coins of a category, ordered by
// descending market cap.
func (c *Client) AssetsByCategory(ctx context.Context, categoryID string, limit int) ([]models.CryptoData, error) {
	var raw []models.CryptoMarketData

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(c.query(map[string]string{
			"vs_currency": "usd",
			"category":    categoryID,
			"order":       "market_cap_desc",
			"per_page":    strconv.Itoa(limit),
			"page":        "1",
			"sparkline":   "false",
		})).
		SetResult(&raw).
		Get("/coins/markets")
	if err != nil {
		return nil, fmt.Errorf("error fetching category %s: %v", categoryID, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("coingecko API error: %d %s", resp.StatusCode(), resp.Status())
	}

	assets := make([]models.CryptoData, 0, len(raw))
	for _, d := range raw {
		assets = append(assets, normalizeMarketData(d))
	}
	return assets, nil
}
