package coingecko

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"CoinFunnel/internal/domain/models"
	"CoinFunnel/pkg/cache"
	apphttp "CoinFunnel/pkg/http"
	applogger "CoinFunnel/pkg/logger"
)

const apiKeyHeader = "x-cg-demo-api-key"

// Config holds CoinGecko client configuration.
type Config struct {
	BaseURL    string
	APIKey     string
	Currency   string
	Timeout    time.Duration
	SeriesTTL  time.Duration
	ProfileTTL time.Duration
}

// Client fetches market data from the CoinGecko REST API.
type Client struct {
	http   *apphttp.Client
	cache  cache.Service
	logger *applogger.Logger
	config Config
}

// NewClient creates a CoinGecko market-data client. The cache is optional.
func NewClient(cfg Config, c cache.Service, l *applogger.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.coingecko.com/api/v3"
	}
	if cfg.Currency == "" {
		cfg.Currency = "usd"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.SeriesTTL <= 0 {
		cfg.SeriesTTL = 10 * time.Minute
	}
	if cfg.ProfileTTL <= 0 {
		cfg.ProfileTTL = time.Hour
	}

	return &Client{
		http:   apphttp.NewClient(apphttp.WithTimeout(cfg.Timeout)),
		cache:  c,
		logger: l,
		config: cfg,
	}
}

type marketRow struct {
	ID          string   `json:"id"`
	Symbol      string   `json:"symbol"`
	Name        string   `json:"name"`
	Price       float64  `json:"current_price"`
	Volume      float64  `json:"total_volume"`
	MarketCap   float64  `json:"market_cap"`
	Change24h   *float64 `json:"price_change_percentage_24h"`
	Change7d    *float64 `json:"price_change_percentage_7d_in_currency"`
}

// Snapshot returns the top market-cap universe ordered by rank.
func (c *Client) Snapshot(ctx context.Context, limit int) ([]models.AssetSnapshot, error) {
	var rows []marketRow
	query := map[string][]string{
		"vs_currency":             {c.config.Currency},
		"order":                   {"market_cap_desc"},
		"per_page":                {strconv.Itoa(limit)},
		"page":                    {"1"},
		"price_change_percentage": {"24h,7d"},
	}

	if err := c.http.GetJSON(ctx, c.config.BaseURL+"/coins/markets", query, c.headers(), &rows); err != nil {
		return nil, fmt.Errorf("coingecko markets: %w", err)
	}

	out := make([]models.AssetSnapshot, 0, len(rows))
	for _, r := range rows {
		snap := models.AssetSnapshot{
			ID:        r.ID,
			Symbol:    r.Symbol,
			Name:      r.Name,
			Price:     r.Price,
			Volume:    r.Volume,
			MarketCap: r.MarketCap,
		}
		if r.Change24h != nil {
			snap.Change24h = *r.Change24h
			snap.HasChange24h = true
		}
		if r.Change7d != nil {
			snap.Change7d = *r.Change7d
			snap.HasChange7d = true
		}
		out = append(out, snap)
	}
	return out, nil
}

type chartResponse struct {
	Prices       [][2]float64 `json:"prices"`
	TotalVolumes [][2]float64 `json:"total_volumes"`
}

// HistoricalSeries returns daily close and volume history for an asset.
// Results are cached per asset and day span.
func (c *Client) HistoricalSeries(ctx context.Context, assetID string, days int) (*models.HistoricalSeries, error) {
	key := cache.GenerateKey("chart", assetID, strconv.Itoa(days))
	if series := c.cachedSeries(ctx, key); series != nil {
		return series, nil
	}

	var resp chartResponse
	query := map[string][]string{
		"vs_currency": {c.config.Currency},
		"days":        {strconv.Itoa(days)},
		"interval":    {"daily"},
	}
	url := fmt.Sprintf("%s/coins/%s/market_chart", c.config.BaseURL, assetID)
	if err := c.http.GetJSON(ctx, url, query, c.headers(), &resp); err != nil {
		return nil, fmt.Errorf("coingecko market_chart %s: %w", assetID, err)
	}

	series := &models.HistoricalSeries{
		Prices:  toPoints(resp.Prices),
		Volumes: toPoints(resp.TotalVolumes),
	}
	c.storeCache(ctx, key, series, c.config.SeriesTTL)
	return series, nil
}

type coinDetail struct {
	CommunityData struct {
		TwitterFollowers *int64 `json:"twitter_followers"`
	} `json:"community_data"`
	DeveloperData struct {
		Commits4Weeks *int64 `json:"commit_count_4_weeks"`
	} `json:"developer_data"`
}

// FundamentalProfile returns developer and community signals for an asset.
// Results are cached since they move slowly.
func (c *Client) FundamentalProfile(ctx context.Context, assetID string) (*models.FundamentalProfile, error) {
	key := cache.GenerateKey("profile", assetID)
	if profile := c.cachedProfile(ctx, key); profile != nil {
		return profile, nil
	}

	var resp coinDetail
	query := map[string][]string{
		"localization":   {"false"},
		"tickers":        {"false"},
		"market_data":    {"false"},
		"community_data": {"true"},
		"developer_data": {"true"},
		"sparkline":      {"false"},
	}
	url := fmt.Sprintf("%s/coins/%s", c.config.BaseURL, assetID)
	if err := c.http.GetJSON(ctx, url, query, c.headers(), &resp); err != nil {
		return nil, fmt.Errorf("coingecko coin detail %s: %w", assetID, err)
	}

	profile := &models.FundamentalProfile{}
	if resp.DeveloperData.Commits4Weeks != nil && *resp.DeveloperData.Commits4Weeks > 0 {
		profile.DevActive = true
	}
	if resp.CommunityData.TwitterFollowers != nil {
		profile.TwitterFollowers = *resp.CommunityData.TwitterFollowers
		profile.FollowersKnown = true
	}

	c.storeCache(ctx, key, profile, c.config.ProfileTTL)
	return profile, nil
}

// LivePrices returns current price and volume for the given assets in a
// single request.
func (c *Client) LivePrices(ctx context.Context, assetIDs []string) (map[string]models.LiveQuote, error) {
	if len(assetIDs) == 0 {
		return map[string]models.LiveQuote{}, nil
	}

	var rows []marketRow
	query := map[string][]string{
		"vs_currency": {c.config.Currency},
		"ids":         {strings.Join(assetIDs, ",")},
	}
	if err := c.http.GetJSON(ctx, c.config.BaseURL+"/coins/markets", query, c.headers(), &rows); err != nil {
		return nil, fmt.Errorf("coingecko live prices: %w", err)
	}

	out := make(map[string]models.LiveQuote, len(rows))
	for _, r := range rows {
		out[r.ID] = models.LiveQuote{
			ID:     r.ID,
			Price:  r.Price,
			Volume: r.Volume,
		}
	}
	return out, nil
}

func (c *Client) headers() map[string]string {
	h := map[string]string{"Accept": "application/json"}
	if c.config.APIKey != "" {
		h[apiKeyHeader] = c.config.APIKey
	}
	return h
}

func (c *Client) cachedSeries(ctx context.Context, key string) *models.HistoricalSeries {
	if c.cache == nil {
		return nil
	}
	raw, err := c.cache.Get(ctx, key)
	if err != nil {
		return nil
	}
	var series models.HistoricalSeries
	if err := json.Unmarshal(raw, &series); err != nil {
		return nil
	}
	return &series
}

func (c *Client) cachedProfile(ctx context.Context, key string) *models.FundamentalProfile {
	if c.cache == nil {
		return nil
	}
	raw, err := c.cache.Get(ctx, key)
	if err != nil {
		return nil
	}
	var profile models.FundamentalProfile
	if err := json.Unmarshal(raw, &profile); err != nil {
		return nil
	}
	return &profile
}

func (c *Client) storeCache(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if c.cache == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.cache.Set(ctx, key, raw, ttl); err != nil && c.logger != nil {
		c.logger.Debug("cache store failed", applogger.String("key", key), applogger.Error(err))
	}
}

func toPoints(raw [][2]float64) []models.PricePoint {
	out := make([]models.PricePoint, 0, len(raw))
	for _, p := range raw {
		out = append(out, models.PricePoint{
			Timestamp: int64(p[0]),
			Value:     p[1],
		})
	}
	return out
}
