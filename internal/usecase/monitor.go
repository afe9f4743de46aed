package usecase

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"CoinFunnel/internal/domain/models"
	"CoinFunnel/internal/domain/repository"
	"CoinFunnel/internal/services/indicator"
	applogger "CoinFunnel/pkg/logger"
)

// Entry labels reported on tick evaluations.
const (
	LabelBuyZoneMiddle = "Buy Zone: Middle Band"
	LabelBuyZoneLower  = "Buy Zone: Lower Band"
)

const (
	middleBandTolerance = 1.01
	lowerBandTolerance  = 1.02
	executeTolerance    = 1.015

	technicalWeight   = 0.6
	fundamentalWeight = 0.4
)

// MonitorConfig holds live monitoring parameters.
type MonitorConfig struct {
	TickInterval    time.Duration
	NotifyFloor     int
	ErrorBackoff    time.Duration
	AlertCooldown   time.Duration
	MaxTickFailures int
	SingleShot      bool
}

// MonitorEngine watches qualified assets on a fixed tick, scoring each one
// against its analysis record and dispatching alerts for actionable setups.
type MonitorEngine struct {
	market    repository.MarketData
	messenger repository.Messenger
	publisher repository.AlertPublisher
	sleeper   repository.Sleeper
	metrics   repository.Metrics
	board     *StatusBoard
	logger    *applogger.Logger
	config    MonitorConfig

	lastAlertAt map[string]time.Time
}

// NewMonitorEngine creates a monitor. The publisher is optional.
func NewMonitorEngine(
	market repository.MarketData,
	messenger repository.Messenger,
	publisher repository.AlertPublisher,
	sleeper repository.Sleeper,
	metrics repository.Metrics,
	board *StatusBoard,
	logger *applogger.Logger,
	cfg MonitorConfig,
) *MonitorEngine {
	if cfg.MaxTickFailures <= 0 {
		cfg.MaxTickFailures = 5
	}
	return &MonitorEngine{
		market:      market,
		messenger:   messenger,
		publisher:   publisher,
		sleeper:     sleeper,
		metrics:     metrics,
		board:       board,
		logger:      logger,
		config:      cfg,
		lastAlertAt: make(map[string]time.Time),
	}
}

// Run ticks over the watchlist until the context is cancelled or too many
// consecutive ticks fail, at which point it returns so the caller can
// rebuild the watchlist from a fresh funnel pass. In single-shot mode it
// evaluates exactly one tick.
func (m *MonitorEngine) Run(ctx context.Context, records map[string]models.AnalysisRecord) error {
	if len(records) == 0 {
		return fmt.Errorf("monitor started with an empty watchlist")
	}

	assetIDs := make([]string, 0, len(records))
	for id := range records {
		assetIDs = append(assetIDs, id)
	}
	sort.Strings(assetIDs)

	m.metrics.RecordWatchlistSize(len(assetIDs))
	m.logger.Info("monitoring started",
		applogger.Int("assets", len(assetIDs)),
		applogger.Duration("tick", m.config.TickInterval),
	)

	failures := 0
	for {
		if err := m.tick(ctx, assetIDs, records); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}

			failures++
			m.metrics.RecordError("monitor")
			m.logger.Warn("tick failed",
				applogger.Int("consecutive", failures),
				applogger.Error(err),
			)

			if failures >= m.config.MaxTickFailures {
				m.logger.Warn("too many consecutive tick failures, requesting a fresh scan")
				return nil
			}
			if err := m.sleeper.Sleep(ctx, m.config.ErrorBackoff); err != nil {
				return err
			}
			continue
		}

		failures = 0
		if m.config.SingleShot {
			return nil
		}
		if err := m.sleeper.Sleep(ctx, m.config.TickInterval); err != nil {
			return err
		}
	}
}

func (m *MonitorEngine) tick(ctx context.Context, assetIDs []string, records map[string]models.AnalysisRecord) error {
	started := time.Now()

	quotes, err := m.market.LivePrices(ctx, assetIDs)
	if err != nil {
		return fmt.Errorf("live prices: %w", err)
	}

	now := time.Now()
	evals := make([]models.TickEvaluation, 0, len(assetIDs))
	for _, id := range assetIDs {
		record := records[id]
		quote, ok := quotes[id]
		if !ok {
			m.logger.Debug("no live quote this tick", applogger.String("asset", id))
			continue
		}

		eval := Evaluate(record, quote, now)
		evals = append(evals, eval)

		m.metrics.RecordLastPrice(id, quote.Price)
		if eval.State == models.StateExecute && eval.Total >= m.config.NotifyFloor {
			m.dispatchAlert(ctx, record, eval)
		}
	}

	m.board.SetEvaluations(evals)
	m.metrics.RecordPhaseDuration("tick", time.Since(started))
	m.metrics.RecordOutcome("tick", "ok")
	return nil
}

// Evaluate scores one asset against its analysis record at the current
// price. It is pure: the same record and quote always produce the same
// evaluation.
func Evaluate(record models.AnalysisRecord, quote models.LiveQuote, now time.Time) models.TickEvaluation {
	eval := models.TickEvaluation{
		AssetID:     record.AssetID,
		Name:        record.Name,
		Price:       quote.Price,
		Volume:      quote.Volume,
		Regime:      record.Regime,
		Fundamental: record.Fundamental,
		Breakdown:   map[string]int{},
		At:          now,
	}

	switch {
	case record.Regime.Bullish():
		eval.EntryTarget = record.Bands.Middle
		scoreBullish(&eval, record, quote)
	case record.Regime == models.RegimeSafeFlat:
		eval.EntryTarget = record.Bands.Lower
		scoreSafeFlat(&eval, record, quote)
	default:
		eval.Label = "Waiting: " + string(record.Regime)
	}

	for _, pts := range eval.Breakdown {
		eval.Technical += pts
	}

	weighted := fundamentalWeight*float64(eval.Fundamental) + technicalWeight*float64(eval.Technical)
	eval.Total = int(indicator.Clamp(math.Round(weighted)))

	eval.State = models.StateWait
	if eval.EntryTarget > 0 && quote.Price <= eval.EntryTarget*executeTolerance {
		eval.State = models.StateExecute
	}

	return eval
}

func scoreBullish(eval *models.TickEvaluation, record models.AnalysisRecord, quote models.LiveQuote) {
	if eval.EntryTarget > 0 && quote.Price <= eval.EntryTarget*middleBandTolerance {
		eval.Breakdown["position"] = 40
		eval.Label = LabelBuyZoneMiddle
	} else {
		eval.Label = "Waiting: " + string(record.Regime)
	}
	if record.RSI >= 40 && record.RSI < 60 {
		eval.Breakdown["rsi"] = 30
	}
	if record.MACDValue > record.MACDSignal {
		eval.Breakdown["macd"] = 20
	}
	if record.VolumeMA > 0 && quote.Volume > record.VolumeMA {
		eval.Breakdown["volume"] = 10
	}
}

func scoreSafeFlat(eval *models.TickEvaluation, record models.AnalysisRecord, quote models.LiveQuote) {
	if eval.EntryTarget > 0 && quote.Price <= eval.EntryTarget*lowerBandTolerance {
		eval.Breakdown["position"] = 40
		eval.Label = LabelBuyZoneLower
	} else {
		eval.Label = "Waiting: " + string(record.Regime)
	}
	if record.RSI < 40 {
		eval.Breakdown["rsi"] = 30
	}
	if record.VolumeMA > 0 && quote.Volume > 2*record.VolumeMA {
		eval.Breakdown["volume"] = 15
	}
	if record.Support > 0 && (quote.Price-record.Support)/record.Support*100 < 5 {
		eval.Breakdown["support"] = 15
	}
}

func (m *MonitorEngine) dispatchAlert(ctx context.Context, record models.AnalysisRecord, eval models.TickEvaluation) {
	if m.config.AlertCooldown > 0 {
		if last, ok := m.lastAlertAt[eval.AssetID]; ok && eval.At.Sub(last) < m.config.AlertCooldown {
			return
		}
	}
	m.lastAlertAt[eval.AssetID] = eval.At

	text := formatAlert(record, eval)
	if err := m.messenger.SendAlert(ctx, text); err != nil {
		m.metrics.RecordError("messenger")
		m.logger.Warn("alert delivery failed",
			applogger.String("asset", eval.AssetID),
			applogger.Error(err),
		)
	} else {
		m.metrics.RecordAlert()
	}

	if m.publisher != nil {
		event := models.AlertEvent{
			AssetID:     eval.AssetID,
			Name:        eval.Name,
			Price:       eval.Price,
			Regime:      string(eval.Regime),
			Total:       eval.Total,
			Technical:   eval.Technical,
			Fundamental: eval.Fundamental,
			EntryTarget: eval.EntryTarget,
			Label:       eval.Label,
			At:          eval.At,
		}
		if err := m.publisher.PublishAlert(ctx, event); err != nil {
			m.metrics.RecordError("publisher")
			m.logger.Warn("alert publish failed",
				applogger.String("asset", eval.AssetID),
				applogger.Error(err),
			)
		}
	}
}

func formatAlert(record models.AnalysisRecord, eval models.TickEvaluation) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "BUY SIGNAL: %s (%s)\n", eval.Name, eval.AssetID)
	fmt.Fprintf(&sb, "Price: %.6f | Target: %.6f\n", eval.Price, eval.EntryTarget)
	fmt.Fprintf(&sb, "Regime: %s\n", eval.Regime)
	fmt.Fprintf(&sb, "Score: %d (tech %d / fund %d)\n", eval.Total, eval.Technical, eval.Fundamental)
	fmt.Fprintf(&sb, "Zone: %s\n", eval.Label)
	if record.Headline != "" {
		fmt.Fprintf(&sb, "News: %s", record.Headline)
	}
	return strings.TrimRight(sb.String(), "\n")
}
