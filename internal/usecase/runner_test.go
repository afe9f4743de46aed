package usecase

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"CoinFunnel/internal/domain/models"
)

func newSingleShotRunner(t *testing.T, market *fakeMarket, news *fakeNews, messenger *fakeMessenger) (*Runner, *StatusBoard) {
	t.Helper()

	board := NewStatusBoard()
	sleeper := &instantSleeper{}
	logger := testLogger(t)

	scanner := NewFunnelScanner(market, sleeper, nopMetrics{}, logger, testScannerConfig())
	builder := NewDeepAnalysisBuilder(market, sleeper, nopMetrics{}, logger, testAnalysisConfig())

	monitorCfg := testMonitorConfig()
	monitorCfg.SingleShot = true
	monitor := NewMonitorEngine(market, messenger, nil, sleeper, nopMetrics{}, board, logger, monitorCfg)

	runner := NewRunner(scanner, builder, monitor, news, messenger, sleeper, nopMetrics{}, board, logger, RunnerConfig{
		TopN:          5,
		EmptyCooldown: time.Second,
		SingleShot:    true,
	})
	return runner, board
}

// fullPipelineMarket returns a market where one asset survives every stage.
func fullPipelineMarket() *fakeMarket {
	return &fakeMarket{
		// The snapshot changes match the rebound rule.
		snapshot: []models.AssetSnapshot{
			{ID: "alpha", Name: "Alpha", Change24h: 0.5, Change7d: -18.0, HasChange24h: true, HasChange7d: true},
		},
		series: map[string]*models.HistoricalSeries{
			// A long steady uptrend keeps the regime tradeable and the
			// last close near the bands.
			"alpha": growthSeries(250, 100, 1.0005, 1000),
		},
		shortSeries: map[string]*models.HistoricalSeries{
			// The recent window drifts down so the overbought filter
			// passes the asset through.
			"alpha": growthSeries(16, 100, 0.999, 1000),
		},
		profiles: map[string]*models.FundamentalProfile{
			"alpha": strongProfile(),
		},
		quotes: map[string]models.LiveQuote{
			"alpha": {ID: "alpha", Price: 100, Volume: 2500},
		},
	}
}

func TestRunnerSingleShotFullPipeline(t *testing.T) {
	market := fullPipelineMarket()
	news := &fakeNews{headline: "Alpha ships a major upgrade"}
	messenger := &fakeMessenger{}

	runner, board := newSingleShotRunner(t, market, news, messenger)

	err := runner.Run(context.Background())
	require.NoError(t, err)

	// The startup notification always goes out first.
	require.GreaterOrEqual(t, messenger.count(), 1)
	require.Contains(t, messenger.sent[0], "online")

	record, ok := board.Record("alpha")
	require.True(t, ok)
	require.Equal(t, "Alpha ships a major upgrade", record.Headline)

	phase, passes, watchlist, _ := board.Status()
	require.Equal(t, PhaseMonitoring, phase)
	require.Equal(t, 1, passes)
	require.Equal(t, []string{"alpha"}, watchlist)

	evals := board.Evaluations()
	require.Len(t, evals, 1)
}

func TestRunnerEmptyScanCoolsDown(t *testing.T) {
	market := &fakeMarket{
		snapshot: []models.AssetSnapshot{
			{ID: "quiet", Name: "Quiet", Change24h: 0.1, Change7d: 0.1, HasChange24h: true, HasChange7d: true},
		},
	}
	messenger := &fakeMessenger{}
	runner, board := newSingleShotRunner(t, market, &fakeNews{}, messenger)

	err := runner.Run(context.Background())
	require.NoError(t, err)

	// No monitoring happened: only the startup alert was sent.
	require.Equal(t, 1, messenger.count())
	require.Empty(t, board.Evaluations())
}

func TestRunnerHeadlineFailureUsesPlaceholder(t *testing.T) {
	market := fullPipelineMarket()
	news := &fakeNews{fail: true}
	messenger := &fakeMessenger{}

	runner, board := newSingleShotRunner(t, market, news, messenger)

	err := runner.Run(context.Background())
	require.NoError(t, err)

	record, ok := board.Record("alpha")
	require.True(t, ok)
	require.Equal(t, "unavailable", record.Headline)
}

func TestRunnerStartupAlertFailureIsNonFatal(t *testing.T) {
	market := &fakeMarket{
		snapshot: []models.AssetSnapshot{
			{ID: "quiet", Name: "Quiet", Change24h: 0.1, Change7d: 0.1, HasChange24h: true, HasChange7d: true},
		},
	}
	messenger := &fakeMessenger{fail: true}
	runner, _ := newSingleShotRunner(t, market, &fakeNews{}, messenger)

	err := runner.Run(context.Background())
	require.NoError(t, err)
}

func TestRunnerCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	market := fullPipelineMarket()
	runner, _ := newSingleShotRunner(t, market, &fakeNews{}, &fakeMessenger{})

	err := runner.Run(ctx)
	// A cancelled context surfaces as an error or as a clean single-shot
	// exit before any work, never as a hang.
	if err != nil {
		require.ErrorIs(t, err, context.Canceled)
	}
}

func TestRunnerAlertMentionsAsset(t *testing.T) {
	market := fullPipelineMarket()
	messenger := &fakeMessenger{}
	runner, _ := newSingleShotRunner(t, market, &fakeNews{headline: "Alpha in the news"}, messenger)

	err := runner.Run(context.Background())
	require.NoError(t, err)

	var found bool
	messenger.mu.Lock()
	for _, text := range messenger.sent {
		if strings.Contains(text, "Alpha") && strings.Contains(text, "BUY SIGNAL") {
			found = true
		}
	}
	messenger.mu.Unlock()
	require.True(t, found, "expected a buy alert naming the asset")
}
