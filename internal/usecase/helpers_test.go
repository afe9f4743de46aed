package usecase

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"CoinFunnel/internal/domain/models"
	applogger "CoinFunnel/pkg/logger"
)

func testLogger(t *testing.T) *applogger.Logger {
	t.Helper()
	l, err := applogger.New(&applogger.Config{Level: "error"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return l
}

// fakeMarket serves canned data and records call counts.
type fakeMarket struct {
	mu       sync.Mutex
	snapshot []models.AssetSnapshot
	series   map[string]*models.HistoricalSeries
	// shortSeries, when set, answers lookback requests of a month or less
	// so scan and deep analysis can see different histories.
	shortSeries map[string]*models.HistoricalSeries
	profiles    map[string]*models.FundamentalProfile
	quotes      map[string]models.LiveQuote
	seriesErr   map[string]error
	quotesErr   error

	snapshotCalls int
	seriesCalls   int
	quoteCalls    int
}

func (f *fakeMarket) Snapshot(_ context.Context, _ int) ([]models.AssetSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.snapshotCalls++
	return f.snapshot, nil
}

func (f *fakeMarket) HistoricalSeries(_ context.Context, assetID string, days int) (*models.HistoricalSeries, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seriesCalls++
	if err, ok := f.seriesErr[assetID]; ok {
		return nil, err
	}
	if days <= 31 {
		if series, ok := f.shortSeries[assetID]; ok {
			return series, nil
		}
	}
	series, ok := f.series[assetID]
	if !ok {
		return nil, fmt.Errorf("no series for %s", assetID)
	}
	return series, nil
}

func (f *fakeMarket) FundamentalProfile(_ context.Context, assetID string) (*models.FundamentalProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	profile, ok := f.profiles[assetID]
	if !ok {
		return nil, fmt.Errorf("no profile for %s", assetID)
	}
	return profile, nil
}

func (f *fakeMarket) LivePrices(_ context.Context, _ []string) (map[string]models.LiveQuote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.quoteCalls++
	if f.quotesErr != nil {
		return nil, f.quotesErr
	}
	return f.quotes, nil
}

// instantSleeper returns immediately so tests run fast.
type instantSleeper struct {
	mu    sync.Mutex
	calls int
}

func (s *instantSleeper) Sleep(ctx context.Context, _ time.Duration) error {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	return ctx.Err()
}

// nopMetrics satisfies the metrics interface.
type nopMetrics struct{}

func (nopMetrics) RecordScan()                               {}
func (nopMetrics) RecordOutcome(string, string)              {}
func (nopMetrics) RecordAlert()                              {}
func (nopMetrics) RecordError(string)                        {}
func (nopMetrics) RecordLastPrice(string, float64)           {}
func (nopMetrics) RecordScore(string, float64)               {}
func (nopMetrics) RecordWatchlistSize(int)                   {}
func (nopMetrics) RecordPhaseDuration(string, time.Duration) {}

// fakeMessenger captures sent alerts.
type fakeMessenger struct {
	mu   sync.Mutex
	sent []string
	fail bool
}

func (m *fakeMessenger) SendAlert(_ context.Context, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return fmt.Errorf("messenger down")
	}
	m.sent = append(m.sent, text)
	return nil
}

func (m *fakeMessenger) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

// fakeNews returns a fixed headline.
type fakeNews struct {
	headline string
	fail     bool
}

func (n *fakeNews) Headline(_ context.Context, _ string) (string, error) {
	if n.fail {
		return "", fmt.Errorf("news down")
	}
	return n.headline, nil
}

// fakePublisher captures published alert events.
type fakePublisher struct {
	mu     sync.Mutex
	events []models.AlertEvent
}

func (p *fakePublisher) PublishAlert(_ context.Context, event models.AlertEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *fakePublisher) Close() error { return nil }

func (p *fakePublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}

// growthSeries builds a daily close series with the given length and
// per-day growth factor, with matching constant volumes.
func growthSeries(n int, start, factor, volume float64) *models.HistoricalSeries {
	prices := make([]models.PricePoint, n)
	volumes := make([]models.PricePoint, n)
	v := start
	for i := 0; i < n; i++ {
		ts := int64(i) * 86_400_000
		prices[i] = models.PricePoint{Timestamp: ts, Value: v}
		volumes[i] = models.PricePoint{Timestamp: ts, Value: volume}
		v *= factor
	}
	return &models.HistoricalSeries{Prices: prices, Volumes: volumes}
}

// flatSeries builds a constant close series with matching volumes.
func flatSeries(n int, price, volume float64) *models.HistoricalSeries {
	return growthSeries(n, price, 1.0, volume)
}
