package news

import (
	"context"
	"fmt"
	"time"

	apphttp "CoinFunnel/pkg/http"
)

// Config holds news provider configuration.
type Config struct {
	BaseURL string
	APIKey  string
	Domains string
	Timeout time.Duration
}

// Client fetches headlines from the NewsAPI everything endpoint.
type Client struct {
	http   *apphttp.Client
	config Config
}

// NewClient creates a news client.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://newsapi.org/v2"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	return &Client{
		http:   apphttp.NewClient(apphttp.WithTimeout(cfg.Timeout)),
		config: cfg,
	}
}

type everythingResponse struct {
	Status   string `json:"status"`
	Articles []struct {
		Title string `json:"title"`
	} `json:"articles"`
}

// Headline returns the most recent headline mentioning the asset name.
func (c *Client) Headline(ctx context.Context, assetName string) (string, error) {
	if c.config.APIKey == "" {
		return "", fmt.Errorf("news api key not configured")
	}

	query := map[string][]string{
		"q":        {assetName},
		"sortBy":   {"publishedAt"},
		"pageSize": {"1"},
		"language": {"en"},
	}
	if c.config.Domains != "" {
		query["domains"] = []string{c.config.Domains}
	}

	headers := map[string]string{"X-Api-Key": c.config.APIKey}

	var resp everythingResponse
	if err := c.http.GetJSON(ctx, c.config.BaseURL+"/everything", query, headers, &resp); err != nil {
		return "", fmt.Errorf("news query %q: %w", assetName, err)
	}
	if resp.Status != "ok" || len(resp.Articles) == 0 {
		return "", fmt.Errorf("no headline found for %q", assetName)
	}
	return resp.Articles[0].Title, nil
}
