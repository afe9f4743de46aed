package repository

import (
	"context"
	"time"

	"CoinFunnel/internal/domain/models"
)

// MarketData provides market snapshots, history, and fundamentals.
type MarketData interface {
	// Snapshot returns the top market-cap universe with 24h and 7d changes.
	Snapshot(ctx context.Context, limit int) ([]models.AssetSnapshot, error)
	// HistoricalSeries returns daily close and volume history for an asset.
	HistoricalSeries(ctx context.Context, assetID string, days int) (*models.HistoricalSeries, error)
	// FundamentalProfile returns developer and community signals.
	FundamentalProfile(ctx context.Context, assetID string) (*models.FundamentalProfile, error)
	// LivePrices returns current price and volume for the given assets.
	LivePrices(ctx context.Context, assetIDs []string) (map[string]models.LiveQuote, error)
}

// Messenger delivers human-readable alerts.
type Messenger interface {
	SendAlert(ctx context.Context, text string) error
}

// News fetches one recent headline for an asset.
type News interface {
	Headline(ctx context.Context, assetName string) (string, error)
}

// AlertPublisher emits structured alert events to a message bus.
type AlertPublisher interface {
	PublishAlert(ctx context.Context, event models.AlertEvent) error
	Close() error
}

// Metrics records application telemetry.
type Metrics interface {
	RecordScan()
	RecordOutcome(phase, status string)
	RecordAlert()
	RecordError(component string)
	RecordLastPrice(asset string, price float64)
	RecordScore(asset string, score float64)
	RecordWatchlistSize(n int)
	RecordPhaseDuration(phase string, d time.Duration)
}

// Sleeper pauses in a context-aware way so pacing can be faked in tests.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}
