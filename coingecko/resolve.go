package coingecko

import (
	"context"
	"sort"
	"strings"

	"crypto-chatbot/api/models"
)

// aliases maps common ticker symbols to CoinGecko asset ids so the usual
// queries resolve with a single upstream call.
var aliases = map[string]string{
	"btc":   "bitcoin",
	"eth":   "ethereum",
	"sol":   "solana",
	"ada":   "cardano",
	"xrp":   "ripple",
	"doge":  "dogecoin",
	"dot":   "polkadot",
	"matic": "polygon-ecosystem-token",
	"avax":  "avalanche-2",
	"link":  "chainlink",
	"uni":   "uniswap",
	"atom":  "cosmos",
	"ltc":   "litecoin",
	"bnb":   "binancecoin",
	"usdt":  "tether",
	"usdc":  "usd-coin",
	"busd":  "binance-usd",
	"shib":  "shiba-inu",
	"trx":   "tron",
}

// categoryAliases maps common category names to CoinGecko category ids.
var categoryAliases = map[string]string{
	"layer 1":                 "layer-1",
	"layer-1":                 "layer-1",
	"l1":                      "layer-1",
	"layer 2":                 "layer-2",
	"layer-2":                 "layer-2",
	"l2":                      "layer-2",
	"defi":                    "decentralized-finance-defi",
	"nft":                     "non-fungible-tokens-nft",
	"nfts":                    "non-fungible-tokens-nft",
	"meme":                    "meme-token",
	"memes":                   "meme-token",
	"memecoin":                "meme-token",
	"memecoins":               "meme-token",
	"gaming":                  "gaming",
	"metaverse":               "metaverse",
	"ai":                      "artificial-intelligence",
	"artificial intelligence": "artificial-intelligence",
	"stablecoin":              "stablecoins",
	"stablecoins":             "stablecoins",
	"exchange":                "exchange-based-tokens",
	"dex":                     "decentralized-exchange",
	"privacy":                 "privacy-coins",
	"oracle":                  "oracle",
	"storage":                 "storage",
	"smart contract":          "smart-contract-platform",
	"smart contracts":         "smart-contract-platform",
}

// defaultCategorySuggestions is offered when no similar category exists.
var defaultCategorySuggestions = []string{"DeFi", "Layer 1", "Meme", "Gaming", "AI"}

// relevantRankCeiling bounds which search hits count for ambiguity
// detection; anything ranked worse is too obscure to suggest.
const relevantRankCeiling = 500

const maxSuggestions = 5

func rankOf(coin models.SearchCoin) int {
	if coin.MarketCapRank == nil {
		return int(^uint(0) >> 1) // missing rank sorts last
	}
	return *coin.MarketCapRank
}

func sortByRank(coins []models.SearchCoin) {
	sort.SliceStable(coins, func(i, j int) bool {
		return rankOf(coins[i]) < rankOf(coins[j])
	})
}

func toSuggestions(coins []models.SearchCoin) []models.CryptoSuggestion {
	if len(coins) > maxSuggestions {
		coins = coins[:maxSuggestions]
	}
	suggestions := make([]models.CryptoSuggestion, 0, len(coins))
	for _, coin := range coins {
		suggestions = append(suggestions, models.CryptoSuggestion{
			ID:     coin.ID,
			Name:   coin.Name,
			Symbol: strings.ToUpper(coin.Symbol),
		})
	}
	return suggestions
}

// ResolveQuery maps free-form user text to a single asset or a bounded
// suggestion set. Strategies run in order and short-circuit on success:
// alias table, the query as a literal asset id, then a search with exact
// match, ambiguity detection and best-effort fallback. The cheap paths cost
// one upstream call; the search path disambiguates confusable names
// ("coin" vs "coinbase") instead of guessing.
func (c *Client) ResolveQuery(ctx context.Context, query string) (*models.QueryResolution, error) {
	normalized := strings.ToLower(strings.TrimSpace(query))

	if aliasID, ok := aliases[normalized]; ok {
		crypto, err := c.AssetByID(ctx, aliasID)
		if err != nil {
			return nil, err
		}
		if crypto != nil {
			return &models.QueryResolution{Crypto: crypto}, nil
		}
	}

	crypto, err := c.AssetByID(ctx, normalized)
	if err != nil {
		return nil, err
	}
	if crypto != nil {
		return &models.QueryResolution{Crypto: crypto}, nil
	}

	hits, err := c.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(hits) == 0 {
		return &models.QueryResolution{NotFound: true}, nil
	}

	sortByRank(hits)

	for _, hit := range hits {
		if strings.ToLower(hit.ID) == normalized ||
			strings.ToLower(hit.Symbol) == normalized ||
			strings.ToLower(hit.Name) == normalized {
			crypto, err := c.AssetByID(ctx, hit.ID)
			if err != nil {
				return nil, err
			}
			if crypto != nil {
				return &models.QueryResolution{Crypto: crypto}, nil
			}
			break
		}
	}

	// Ambiguity detection: only ranked coins matter, otherwise every dust
	// token containing the query would trigger suggestions.
	var relevant []models.SearchCoin
	for _, hit := range hits {
		nameMatch := strings.Contains(strings.ToLower(hit.Name), normalized)
		if nameMatch && hit.MarketCapRank != nil && *hit.MarketCapRank <= relevantRankCeiling {
			relevant = append(relevant, hit)
		}
	}

	if len(relevant) > 1 {
		return &models.QueryResolution{Suggestions: toSuggestions(relevant)}, nil
	}

	if len(relevant) == 1 {
		crypto, err := c.AssetByID(ctx, relevant[0].ID)
		if err != nil {
			return nil, err
		}
		if crypto != nil {
			return &models.QueryResolution{Crypto: crypto}, nil
		}
	}

	// No relevant matches: fall back to the best-ranked hit, then to raw
	// suggestions as a last resort.
	crypto, err = c.AssetByID(ctx, hits[0].ID)
	if err != nil {
		return nil, err
	}
	if crypto != nil {
		return &models.QueryResolution{Crypto: crypto}, nil
	}

	return &models.QueryResolution{Suggestions: toSuggestions(hits)}, nil
}

// ResolveCategory maps a category name to its coins: alias table, exact id
// or name match, then substring match. When nothing matches it returns
// NotFound with up to five similar category names (prefix heuristic) or a
// default suggestion set.
func (c *Client) ResolveCategory(ctx context.Context, category string, limit int) (*models.CategoryResolution, error) {
	normalized := strings.ToLower(strings.TrimSpace(category))

	categoryID := normalized
	if alias, ok := categoryAliases[normalized]; ok {
		categoryID = alias
	}

	categories, err := c.Categories(ctx)
	if err != nil {
		return nil, err
	}

	var matched *models.Category
	for i, cat := range categories {
		if cat.CategoryID == categoryID || strings.ToLower(cat.Name) == normalized {
			matched = &categories[i]
			break
		}
	}
	if matched == nil {
		for i, cat := range categories {
			if strings.Contains(cat.CategoryID, normalized) ||
				strings.Contains(strings.ToLower(cat.Name), normalized) {
				matched = &categories[i]
				break
			}
		}
	}

	if matched == nil {
		prefix := normalized
		if len(prefix) > 3 {
			prefix = prefix[:3]
		}
		var suggestions []string
		for _, cat := range categories {
			if strings.Contains(strings.ToLower(cat.Name), prefix) ||
				strings.Contains(cat.CategoryID, prefix) {
				suggestions = append(suggestions, cat.Name)
				if len(suggestions) == maxSuggestions {
					break
				}
			}
		}
		if len(suggestions) == 0 {
			suggestions = defaultCategorySuggestions
		}
		return &models.CategoryResolution{NotFound: true, Suggestions: suggestions}, nil
	}

	cryptos, err := c.AssetsByCategory(ctx, matched.CategoryID, limit)
	if err != nil {
		return nil, err
	}
	if len(cryptos) == 0 {
		return &models.CategoryResolution{NotFound: true}, nil
	}

	for i := range cryptos {
		cryptos[i].Categories = []string{matched.Name}
	}

	return &models.CategoryResolution{Cryptos: cryptos, CategoryName: matched.Name}, nil
}
