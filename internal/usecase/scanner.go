package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"CoinFunnel/internal/domain/models"
	"CoinFunnel/internal/domain/repository"
	"CoinFunnel/internal/services/indicator"
	applogger "CoinFunnel/pkg/logger"
)

// Funnel rule labels.
const (
	RuleMomentum = "Momentum Kuat"
	RuleBreakout = "Breakout"
	RuleRebound  = "Rebound"
)

const (
	breakoutScore = 50
	rsiPeriod     = 14
)

// ScannerConfig holds funnel thresholds.
type ScannerConfig struct {
	UniverseSize      int
	CandidateCap      int
	MomentumMin24h    float64
	ConsolidationBand float64
	BreakoutMin24h    float64
	// ReboundDrop7d is the signed weekly-change threshold; the rebound
	// rule fires below it.
	ReboundDrop7d   float64
	RSIOverbought   float64
	RSILookbackDays int
	APICallDelay    time.Duration
}

// ScanOutcome summarizes one funnel pass.
type ScanOutcome struct {
	UniverseSize int
	RuleMatches  int
	Rejected     int
	Candidates   []models.Candidate
}

// FunnelScanner narrows the market universe to a ranked candidate list.
type FunnelScanner struct {
	market  repository.MarketData
	sleeper repository.Sleeper
	metrics repository.Metrics
	logger  *applogger.Logger
	config  ScannerConfig
}

// NewFunnelScanner creates a scanner.
func NewFunnelScanner(
	market repository.MarketData,
	sleeper repository.Sleeper,
	metrics repository.Metrics,
	logger *applogger.Logger,
	cfg ScannerConfig,
) *FunnelScanner {
	return &FunnelScanner{
		market:  market,
		sleeper: sleeper,
		metrics: metrics,
		logger:  logger,
		config:  cfg,
	}
}

// Scan runs one full funnel pass: universe snapshot, heuristic rules, and
// the overbought filter. The returned candidates are sorted by combined
// score, best first.
func (s *FunnelScanner) Scan(ctx context.Context) (*ScanOutcome, error) {
	started := time.Now()
	s.metrics.RecordScan()

	universe, err := s.market.Snapshot(ctx, s.config.UniverseSize)
	if err != nil {
		s.metrics.RecordError("scanner")
		return nil, fmt.Errorf("universe snapshot: %w", err)
	}

	matched := s.applyRules(universe)
	s.logger.Info("funnel rules applied",
		applogger.Int("universe", len(universe)),
		applogger.Int("matched", len(matched)),
	)

	candidates, rejected, err := s.filterOverbought(ctx, matched)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Combined > candidates[j].Combined
	})

	for _, c := range candidates {
		s.metrics.RecordScore(c.ID, c.Combined)
	}
	s.metrics.RecordPhaseDuration("scan", time.Since(started))

	if len(candidates) == 0 {
		s.metrics.RecordOutcome("scan", "empty")
	} else {
		s.metrics.RecordOutcome("scan", "ok")
	}

	return &ScanOutcome{
		UniverseSize: len(universe),
		RuleMatches:  len(matched),
		Rejected:     rejected,
		Candidates:   candidates,
	}, nil
}

// applyRules evaluates the funnel rules in priority order. The first
// matching rule decides the score and label.
func (s *FunnelScanner) applyRules(universe []models.AssetSnapshot) []models.Candidate {
	matched := make([]models.Candidate, 0, s.config.CandidateCap)

	for _, asset := range universe {
		c, ok := s.matchRule(asset)
		if !ok {
			continue
		}
		matched = append(matched, c)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Score > matched[j].Score
	})

	if len(matched) > s.config.CandidateCap {
		matched = matched[:s.config.CandidateCap]
	}
	return matched
}

func (s *FunnelScanner) matchRule(asset models.AssetSnapshot) (models.Candidate, bool) {
	// Every rule reads the daily change, so a row without it is skipped
	// rather than treated as a 0% day.
	if !asset.HasChange24h {
		return models.Candidate{}, false
	}

	base := models.Candidate{ID: asset.ID, Name: asset.Name}

	if asset.Change24h > s.config.MomentumMin24h {
		base.Score = indicator.Clamp(asset.Change24h)
		base.Rule = RuleMomentum
		return base, true
	}

	if !asset.HasChange7d {
		return models.Candidate{}, false
	}

	if asset.Change7d > -s.config.ConsolidationBand &&
		asset.Change7d < s.config.ConsolidationBand &&
		asset.Change24h > s.config.BreakoutMin24h {
		base.Score = breakoutScore
		base.Rule = RuleBreakout
		return base, true
	}

	if asset.Change7d < s.config.ReboundDrop7d && asset.Change24h >= 0 {
		base.Score = indicator.Clamp(-asset.Change7d)
		base.Rule = RuleRebound
		return base, true
	}

	return models.Candidate{}, false
}

// filterOverbought fetches a short price history per candidate and drops
// anyone whose RSI is at or above the overbought line. Candidates whose
// history cannot be fetched or is too short are dropped rather than
// passed through unverified.
func (s *FunnelScanner) filterOverbought(ctx context.Context, matched []models.Candidate) ([]models.Candidate, int, error) {
	kept := make([]models.Candidate, 0, len(matched))
	rejected := 0

	for i, c := range matched {
		if i > 0 {
			if err := s.sleeper.Sleep(ctx, s.config.APICallDelay); err != nil {
				return nil, rejected, fmt.Errorf("scan interrupted: %w", err)
			}
		}

		series, err := s.market.HistoricalSeries(ctx, c.ID, s.config.RSILookbackDays)
		if err != nil {
			if ctx.Err() != nil {
				return nil, rejected, fmt.Errorf("scan interrupted: %w", ctx.Err())
			}
			s.metrics.RecordError("scanner")
			s.logger.Warn("history fetch failed, dropping candidate",
				applogger.String("asset", c.ID),
				applogger.Error(err),
			)
			rejected++
			continue
		}

		closes := make([]float64, 0, len(series.Prices))
		for _, p := range series.Prices {
			closes = append(closes, p.Value)
		}

		rsi, ok := indicator.RSI(closes, rsiPeriod)
		if !ok {
			s.logger.Debug("history too short for RSI, dropping candidate",
				applogger.String("asset", c.ID),
				applogger.Int("points", len(closes)),
			)
			rejected++
			continue
		}

		if rsi >= s.config.RSIOverbought {
			s.logger.Debug("candidate overbought",
				applogger.String("asset", c.ID),
				applogger.Float64("rsi", rsi),
			)
			rejected++
			continue
		}

		c.RSI = rsi
		c.Combined = indicator.Clamp(0.5*c.Score + 0.5*(100-rsi))
		kept = append(kept, c)
	}

	return kept, rejected, nil
}
