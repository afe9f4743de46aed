package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"CoinFunnel/internal/domain/models"
)

func testScannerConfig() ScannerConfig {
	return ScannerConfig{
		UniverseSize:      250,
		CandidateCap:      20,
		MomentumMin24h:    5.0,
		ConsolidationBand: 5.0,
		BreakoutMin24h:    5.0,
		ReboundDrop7d:     -15.0,
		RSIOverbought:     70.0,
		RSILookbackDays:   15,
	}
}

func newTestScanner(t *testing.T, market *fakeMarket, cfg ScannerConfig) *FunnelScanner {
	t.Helper()
	return NewFunnelScanner(market, &instantSleeper{}, nopMetrics{}, testLogger(t), cfg)
}

func TestScanMomentumCandidate(t *testing.T) {
	market := &fakeMarket{
		snapshot: []models.AssetSnapshot{
			{ID: "alpha", Name: "Alpha", Change24h: 6.0, Change7d: 1.0, HasChange24h: true, HasChange7d: true},
		},
		series: map[string]*models.HistoricalSeries{
			// Gentle decline keeps RSI near zero.
			"alpha": growthSeries(16, 100, 0.999, 1000),
		},
	}
	scanner := newTestScanner(t, market, testScannerConfig())

	outcome, err := scanner.Scan(context.Background())
	require.NoError(t, err)
	require.Len(t, outcome.Candidates, 1)

	c := outcome.Candidates[0]
	require.Equal(t, RuleMomentum, c.Rule)
	require.Equal(t, 6.0, c.Score)
	require.Less(t, c.RSI, 70.0)
	// combined = 0.5*score + 0.5*(100-RSI)
	require.InDelta(t, 53.0, c.Combined, 0.5)
}

func TestScanRulePrecedence(t *testing.T) {
	// A deep weekly drop with strong daily momentum matches the momentum
	// rule, not the rebound rule.
	market := &fakeMarket{
		snapshot: []models.AssetSnapshot{
			{ID: "alpha", Name: "Alpha", Change24h: 6.0, Change7d: -20.0, HasChange24h: true, HasChange7d: true},
		},
		series: map[string]*models.HistoricalSeries{
			"alpha": growthSeries(16, 100, 0.999, 1000),
		},
	}
	scanner := newTestScanner(t, market, testScannerConfig())

	outcome, err := scanner.Scan(context.Background())
	require.NoError(t, err)
	require.Len(t, outcome.Candidates, 1)
	require.Equal(t, RuleMomentum, outcome.Candidates[0].Rule)
}

func TestScanReboundCandidate(t *testing.T) {
	market := &fakeMarket{
		snapshot: []models.AssetSnapshot{
			{ID: "beta", Name: "Beta", Change24h: 0.0, Change7d: -22.0, HasChange24h: true, HasChange7d: true},
		},
		series: map[string]*models.HistoricalSeries{
			"beta": growthSeries(16, 100, 0.999, 1000),
		},
	}
	scanner := newTestScanner(t, market, testScannerConfig())

	outcome, err := scanner.Scan(context.Background())
	require.NoError(t, err)
	require.Len(t, outcome.Candidates, 1)

	c := outcome.Candidates[0]
	require.Equal(t, RuleRebound, c.Rule)
	require.Equal(t, 22.0, c.Score)
}

func TestScanBreakoutCandidate(t *testing.T) {
	cfg := testScannerConfig()
	// Lower the breakout trigger below the momentum trigger so the
	// consolidation rule can fire on its own.
	cfg.BreakoutMin24h = 3.0

	market := &fakeMarket{
		snapshot: []models.AssetSnapshot{
			{ID: "gamma", Name: "Gamma", Change24h: 4.0, Change7d: 2.0, HasChange24h: true, HasChange7d: true},
		},
		series: map[string]*models.HistoricalSeries{
			"gamma": growthSeries(16, 100, 0.999, 1000),
		},
	}
	scanner := newTestScanner(t, market, cfg)

	outcome, err := scanner.Scan(context.Background())
	require.NoError(t, err)
	require.Len(t, outcome.Candidates, 1)

	c := outcome.Candidates[0]
	require.Equal(t, RuleBreakout, c.Rule)
	require.Equal(t, 50.0, c.Score)
}

func TestScanQuietAssetIgnored(t *testing.T) {
	market := &fakeMarket{
		snapshot: []models.AssetSnapshot{
			{ID: "delta", Name: "Delta", Change24h: 1.0, Change7d: 1.0, HasChange24h: true, HasChange7d: true},
		},
	}
	scanner := newTestScanner(t, market, testScannerConfig())

	outcome, err := scanner.Scan(context.Background())
	require.NoError(t, err)
	require.Empty(t, outcome.Candidates)
	require.Equal(t, 0, outcome.RuleMatches)
}

func TestScanMissingDailyChange(t *testing.T) {
	// The upstream row can carry a null daily change. Without the presence
	// flag a zero would satisfy the rebound rule's >= 0 leg, so the row is
	// skipped entirely instead.
	market := &fakeMarket{
		snapshot: []models.AssetSnapshot{
			{ID: "eta", Name: "Eta", Change7d: -30.0, HasChange7d: true},
		},
	}
	scanner := newTestScanner(t, market, testScannerConfig())

	outcome, err := scanner.Scan(context.Background())
	require.NoError(t, err)
	require.Empty(t, outcome.Candidates)
	require.Equal(t, 0, outcome.RuleMatches)
}

func TestScanMissingWeeklyChange(t *testing.T) {
	market := &fakeMarket{
		snapshot: []models.AssetSnapshot{
			// Would match rebound if the weekly change were trusted.
			{ID: "epsilon", Name: "Epsilon", Change24h: 0.0, HasChange24h: true, HasChange7d: false},
			// Momentum needs only the daily change.
			{ID: "zeta", Name: "Zeta", Change24h: 8.0, HasChange24h: true, HasChange7d: false},
		},
		series: map[string]*models.HistoricalSeries{
			"zeta": growthSeries(16, 100, 0.999, 1000),
		},
	}
	scanner := newTestScanner(t, market, testScannerConfig())

	outcome, err := scanner.Scan(context.Background())
	require.NoError(t, err)
	require.Len(t, outcome.Candidates, 1)
	require.Equal(t, "zeta", outcome.Candidates[0].ID)
}

func TestScanOverboughtRejected(t *testing.T) {
	market := &fakeMarket{
		snapshot: []models.AssetSnapshot{
			{ID: "alpha", Name: "Alpha", Change24h: 9.0, Change7d: 1.0, HasChange24h: true, HasChange7d: true},
		},
		series: map[string]*models.HistoricalSeries{
			// Monotonic rise pushes RSI to 100.
			"alpha": growthSeries(16, 100, 1.05, 1000),
		},
	}
	scanner := newTestScanner(t, market, testScannerConfig())

	outcome, err := scanner.Scan(context.Background())
	require.NoError(t, err)
	require.Empty(t, outcome.Candidates)
	require.Equal(t, 1, outcome.RuleMatches)
	require.Equal(t, 1, outcome.Rejected)
}

func TestScanShortHistoryRejected(t *testing.T) {
	market := &fakeMarket{
		snapshot: []models.AssetSnapshot{
			{ID: "alpha", Name: "Alpha", Change24h: 9.0, Change7d: 1.0, HasChange24h: true, HasChange7d: true},
		},
		series: map[string]*models.HistoricalSeries{
			// Not enough points for a 14-period RSI.
			"alpha": growthSeries(10, 100, 0.999, 1000),
		},
	}
	scanner := newTestScanner(t, market, testScannerConfig())

	outcome, err := scanner.Scan(context.Background())
	require.NoError(t, err)
	require.Empty(t, outcome.Candidates)
	require.Equal(t, 1, outcome.Rejected)
}

func TestScanCandidateCap(t *testing.T) {
	cfg := testScannerConfig()
	cfg.CandidateCap = 2

	snapshot := []models.AssetSnapshot{
		{ID: "a", Name: "A", Change24h: 6.0, HasChange24h: true, HasChange7d: true},
		{ID: "b", Name: "B", Change24h: 9.0, HasChange24h: true, HasChange7d: true},
		{ID: "c", Name: "C", Change24h: 7.0, HasChange24h: true, HasChange7d: true},
	}
	series := map[string]*models.HistoricalSeries{
		"a": growthSeries(16, 100, 0.999, 1000),
		"b": growthSeries(16, 100, 0.999, 1000),
		"c": growthSeries(16, 100, 0.999, 1000),
	}
	market := &fakeMarket{snapshot: snapshot, series: series}
	scanner := newTestScanner(t, market, cfg)

	outcome, err := scanner.Scan(context.Background())
	require.NoError(t, err)
	require.Len(t, outcome.Candidates, 2)

	// The two strongest daily movers survive the cap.
	ids := []string{outcome.Candidates[0].ID, outcome.Candidates[1].ID}
	require.ElementsMatch(t, []string{"b", "c"}, ids)
}

func TestScanFetchFailureDropsCandidate(t *testing.T) {
	market := &fakeMarket{
		snapshot: []models.AssetSnapshot{
			{ID: "alpha", Name: "Alpha", Change24h: 6.0, HasChange24h: true, HasChange7d: true},
			{ID: "beta", Name: "Beta", Change24h: 7.0, HasChange24h: true, HasChange7d: true},
		},
		series: map[string]*models.HistoricalSeries{
			"beta": growthSeries(16, 100, 0.999, 1000),
		},
	}
	scanner := newTestScanner(t, market, testScannerConfig())

	outcome, err := scanner.Scan(context.Background())
	require.NoError(t, err)
	require.Len(t, outcome.Candidates, 1)
	require.Equal(t, "beta", outcome.Candidates[0].ID)
	require.Equal(t, 1, outcome.Rejected)
}
