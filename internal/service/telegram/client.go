package telegram

import (
	"context"
	"fmt"
	"time"

	apphttp "CoinFunnel/pkg/http"
	applogger "CoinFunnel/pkg/logger"
)

// Config holds Telegram bot configuration.
type Config struct {
	APIBase  string
	BotToken string
	ChatID   string
	Timeout  time.Duration
}

// Client sends alerts through the Telegram Bot API. When no credentials
// are configured the client runs disabled and drops messages after
// logging once.
type Client struct {
	http     *apphttp.Client
	logger   *applogger.Logger
	config   Config
	disabled bool
}

// NewClient creates a Telegram messenger.
func NewClient(cfg Config, l *applogger.Logger) *Client {
	if cfg.APIBase == "" {
		cfg.APIBase = "https://api.telegram.org"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	disabled := cfg.BotToken == "" || cfg.ChatID == ""
	if disabled && l != nil {
		l.Warn("telegram credentials missing, alerts will be dropped")
	}

	return &Client{
		http:     apphttp.NewClient(apphttp.WithTimeout(cfg.Timeout)),
		logger:   l,
		config:   cfg,
		disabled: disabled,
	}
}

type sendResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// SendAlert delivers a plain-text message to the configured chat.
func (c *Client) SendAlert(ctx context.Context, text string) error {
	if c.disabled {
		if c.logger != nil {
			c.logger.Debug("telegram disabled, dropping alert")
		}
		return nil
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", c.config.APIBase, c.config.BotToken)
	payload := map[string]string{
		"chat_id": c.config.ChatID,
		"text":    text,
	}

	var resp sendResponse
	err := c.http.SendAndParse(ctx, &apphttp.RequestOptions{
		Method: apphttp.MethodPost,
		URL:    url,
		Body:   payload,
	}, &resp)
	if err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	if !resp.OK {
		return fmt.Errorf("telegram send rejected: %s", resp.Description)
	}
	return nil
}
