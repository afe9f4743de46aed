package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	SingleShot  bool   `yaml:"single_shot"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"log"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	CoinGecko struct {
		BaseURL string        `yaml:"base_url"`
		APIKey  string        `yaml:"api_key"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"coingecko"`
	Telegram struct {
		APIBase  string        `yaml:"api_base"`
		BotToken string        `yaml:"bot_token"`
		ChatID   string        `yaml:"chat_id"`
		Timeout  time.Duration `yaml:"timeout"`
	} `yaml:"telegram"`
	News struct {
		BaseURL string        `yaml:"base_url"`
		APIKey  string        `yaml:"api_key"`
		Domains []string      `yaml:"domains"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"news"`
	Scanner struct {
		UniverseSize      int     `yaml:"universe_size"`
		Currency          string  `yaml:"currency"`
		CandidateCap      int     `yaml:"candidate_cap"`
		TopN              int     `yaml:"top_n"`
		MomentumMin24h    float64 `yaml:"momentum_min_24h"`
		ConsolidationBand float64 `yaml:"consolidation_band_7d"`
		BreakoutMin24h    float64 `yaml:"breakout_min_24h"`
		ReboundDrop7d     float64 `yaml:"rebound_drop_7d"`
		RSIOverbought     float64 `yaml:"rsi_overbought"`
		RSILookbackDays   int     `yaml:"rsi_lookback_days"`
	} `yaml:"scanner"`
	Analysis struct {
		HistoryDays      int `yaml:"history_days"`
		FundamentalFloor int `yaml:"fundamental_floor"`
	} `yaml:"analysis"`
	Monitor struct {
		TickInterval    time.Duration `yaml:"tick_interval"`
		NotifyFloor     int           `yaml:"notify_floor"`
		EmptyCooldown   time.Duration `yaml:"empty_cooldown"`
		ErrorBackoff    time.Duration `yaml:"error_backoff"`
		AlertCooldown   time.Duration `yaml:"alert_cooldown"`
		MaxTickFailures int           `yaml:"max_tick_failures"`
	} `yaml:"monitor"`
	Pacing struct {
		APICallDelay  time.Duration `yaml:"api_call_delay"`
		HeadlineDelay time.Duration `yaml:"headline_delay"`
	} `yaml:"pacing"`
	Kafka struct {
		Brokers      []string      `yaml:"brokers"`
		Topic        string        `yaml:"topic"`
		RequiredAcks int           `yaml:"required_acks"`
		Compression  string        `yaml:"compression"`
		MaxAttempts  int           `yaml:"max_attempts"`
		WriteTimeout time.Duration `yaml:"write_timeout"`
		ReadTimeout  time.Duration `yaml:"read_timeout"`
		Async        bool          `yaml:"async"`
	} `yaml:"kafka"`
	Cache struct {
		SeriesTTL  time.Duration `yaml:"series_ttl"`
		ProfileTTL time.Duration `yaml:"profile_ttl"`
		Redis      struct {
			Enabled  bool   `yaml:"enabled"`
			Host     string `yaml:"host"`
			Port     int    `yaml:"port"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
	} `yaml:"cache"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
// Credentials resolve from the environment first so the YAML file can be
// committed without secrets.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("COINGECKO_API_KEY"); v != "" {
		c.CoinGecko.APIKey = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		c.Telegram.ChatID = v
	}
	if v := os.Getenv("NEWS_API_KEY"); v != "" {
		c.News.APIKey = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		host, port := splitHostPort(v)
		c.Cache.Redis.Enabled = true
		c.Cache.Redis.Host = host
		if port > 0 {
			c.Cache.Redis.Port = port
		}
	}
	if v := os.Getenv("RUN_ONCE"); v == "1" || strings.EqualFold(v, "true") {
		c.SingleShot = true
	}

	return c, nil
}

// Validate checks the configuration before any pipeline phase runs. A failure
// here is reported as a configuration error at startup, never deep inside a
// computation.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.CoinGecko.BaseURL == "" {
		return fmt.Errorf("coingecko.base_url is required")
	}
	if c.Scanner.UniverseSize <= 0 {
		return fmt.Errorf("scanner.universe_size must be positive")
	}
	if c.Scanner.Currency == "" {
		return fmt.Errorf("scanner.currency is required")
	}
	if c.Scanner.CandidateCap <= 0 {
		return fmt.Errorf("scanner.candidate_cap must be positive")
	}
	if c.Scanner.TopN <= 0 || c.Scanner.TopN > c.Scanner.CandidateCap {
		return fmt.Errorf("scanner.top_n must be in [1, candidate_cap], got %d", c.Scanner.TopN)
	}
	if c.Scanner.RSILookbackDays <= 0 {
		return fmt.Errorf("scanner.rsi_lookback_days must be positive")
	}
	// The rebound threshold is signed; a positive value would invert the
	// rule into matching weekly gains.
	if c.Scanner.ReboundDrop7d >= 0 {
		return fmt.Errorf("scanner.rebound_drop_7d must be negative, got %v", c.Scanner.ReboundDrop7d)
	}
	// Regime diagnosis needs a 200-period average; shorter histories would
	// silently skip every asset in deep analysis.
	if c.Analysis.HistoryDays < 200 {
		return fmt.Errorf("analysis.history_days must be >= 200, got %d", c.Analysis.HistoryDays)
	}
	if c.Analysis.FundamentalFloor < 0 || c.Analysis.FundamentalFloor > 100 {
		return fmt.Errorf("analysis.fundamental_floor must be in [0, 100]")
	}
	if c.Monitor.NotifyFloor < 0 || c.Monitor.NotifyFloor > 100 {
		return fmt.Errorf("monitor.notify_floor must be in [0, 100]")
	}
	if c.Monitor.TickInterval <= 0 {
		return fmt.Errorf("monitor.tick_interval must be positive")
	}
	if c.Pacing.APICallDelay < 0 {
		return fmt.Errorf("pacing.api_call_delay must not be negative")
	}
	return nil
}

func splitHostPort(addr string) (string, int) {
	i := strings.LastIndex(addr, ":")
	if i < 0 {
		return addr, 0
	}
	port := 0
	for _, r := range addr[i+1:] {
		if r < '0' || r > '9' {
			return addr, 0
		}
		port = port*10 + int(r-'0')
	}
	return addr[:i], port
}
