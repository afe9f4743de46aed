package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"CoinFunnel/internal/domain/models"
)

func testAnalysisConfig() AnalysisConfig {
	return AnalysisConfig{
		HistoryDays:      250,
		FundamentalFloor: 35,
	}
}

func newTestBuilder(t *testing.T, market *fakeMarket) *DeepAnalysisBuilder {
	t.Helper()
	return NewDeepAnalysisBuilder(market, &instantSleeper{}, nopMetrics{}, testLogger(t), testAnalysisConfig())
}

func strongProfile() *models.FundamentalProfile {
	return &models.FundamentalProfile{
		DevActive:        true,
		TwitterFollowers: 750_000,
		FollowersKnown:   true,
	}
}

func TestBuildQualifiesAsset(t *testing.T) {
	market := &fakeMarket{
		series: map[string]*models.HistoricalSeries{
			"alpha": growthSeries(250, 100, 1.002, 5000),
		},
		profiles: map[string]*models.FundamentalProfile{
			"alpha": strongProfile(),
		},
	}
	builder := newTestBuilder(t, market)

	records, err := builder.Build(context.Background(), []models.Candidate{
		{ID: "alpha", Name: "Alpha"},
	})
	require.NoError(t, err)
	require.Len(t, records, 1)

	record := records["alpha"]
	require.Equal(t, "alpha", record.AssetID)
	// 90 dev, 80 pattern, 90 community: (90*40 + 80*30 + 90*30)/100 = 87
	require.Equal(t, 87, record.Fundamental)
	require.NotZero(t, record.RSI)
	require.NotZero(t, record.Bands.Middle)
	require.Equal(t, 5000.0, record.VolumeMA)
	require.Greater(t, record.Resistance, record.Support)
}

func TestBuildFundamentalGate(t *testing.T) {
	market := &fakeMarket{
		series: map[string]*models.HistoricalSeries{
			"weak": growthSeries(250, 100, 1.002, 5000),
		},
		profiles: map[string]*models.FundamentalProfile{
			// Inactive dev, tiny community: composite falls below the floor
			// even with a stable pattern.
			"weak": {DevActive: false, TwitterFollowers: 1000, FollowersKnown: true},
		},
	}
	builder := newTestBuilder(t, market)

	records, err := builder.Build(context.Background(), []models.Candidate{
		{ID: "weak", Name: "Weak"},
	})
	require.NoError(t, err)
	require.Empty(t, records)
}

func TestBuildShortHistorySkipped(t *testing.T) {
	market := &fakeMarket{
		series: map[string]*models.HistoricalSeries{
			"young": growthSeries(150, 100, 1.002, 5000),
		},
		profiles: map[string]*models.FundamentalProfile{
			"young": strongProfile(),
		},
	}
	builder := newTestBuilder(t, market)

	records, err := builder.Build(context.Background(), []models.Candidate{
		{ID: "young", Name: "Young"},
	})
	require.NoError(t, err)
	require.Empty(t, records)
}

func TestBuildDropsBadRows(t *testing.T) {
	series := growthSeries(210, 100, 1.002, 5000)
	// Corrupt a handful of rows: non-positive closes must be discarded,
	// leaving fewer than 200 usable rows.
	for i := 0; i < 15; i++ {
		series.Prices[i].Value = 0
	}

	market := &fakeMarket{
		series:   map[string]*models.HistoricalSeries{"alpha": series},
		profiles: map[string]*models.FundamentalProfile{"alpha": strongProfile()},
	}
	builder := newTestBuilder(t, market)

	records, err := builder.Build(context.Background(), []models.Candidate{
		{ID: "alpha", Name: "Alpha"},
	})
	require.NoError(t, err)
	require.Empty(t, records)
}

func TestBuildFetchFailureSkipsAsset(t *testing.T) {
	market := &fakeMarket{
		series: map[string]*models.HistoricalSeries{
			"good": growthSeries(250, 100, 1.002, 5000),
		},
		profiles: map[string]*models.FundamentalProfile{
			"good": strongProfile(),
		},
	}
	builder := newTestBuilder(t, market)

	records, err := builder.Build(context.Background(), []models.Candidate{
		{ID: "missing", Name: "Missing"},
		{ID: "good", Name: "Good"},
	})
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Contains(t, records, "good")
}

func TestBuildProfileFetchFailureSkipsAsset(t *testing.T) {
	// History resolves but the fundamental lookup errors. Without a
	// profile the composite would land at exactly 36 and sneak past the
	// floor, so the asset is skipped like any other failed fetch.
	market := &fakeMarket{
		series: map[string]*models.HistoricalSeries{
			"alpha": flatSeries(250, 100, 5000),
			"good":  growthSeries(250, 100, 1.002, 5000),
		},
		profiles: map[string]*models.FundamentalProfile{
			"good": strongProfile(),
		},
	}
	builder := newTestBuilder(t, market)

	records, err := builder.Build(context.Background(), []models.Candidate{
		{ID: "alpha", Name: "Alpha"},
		{ID: "good", Name: "Good"},
	})
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.NotContains(t, records, "alpha")
	require.Contains(t, records, "good")
}

func TestBuildCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	market := &fakeMarket{
		series: map[string]*models.HistoricalSeries{
			"a": growthSeries(250, 100, 1.002, 5000),
			"b": growthSeries(250, 100, 1.002, 5000),
		},
		profiles: map[string]*models.FundamentalProfile{
			"a": strongProfile(),
			"b": strongProfile(),
		},
	}
	builder := NewDeepAnalysisBuilder(market, &instantSleeper{}, nopMetrics{}, testLogger(t), AnalysisConfig{
		HistoryDays:      250,
		FundamentalFloor: 35,
		APICallDelay:     time.Millisecond,
	})

	_, err := builder.Build(ctx, []models.Candidate{
		{ID: "a", Name: "A"},
		{ID: "b", Name: "B"},
	})
	require.Error(t, err)
}
