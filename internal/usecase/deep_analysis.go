package usecase

import (
	"context"
	"fmt"
	"time"

	"CoinFunnel/internal/domain/models"
	"CoinFunnel/internal/domain/repository"
	"CoinFunnel/internal/services/analytics"
	"CoinFunnel/internal/services/indicator"
	applogger "CoinFunnel/pkg/logger"
)

const (
	minAnalysisRows = 200
	volumeMAPeriod  = 20
	bollingerPeriod = 20
)

// AnalysisConfig holds deep-analysis parameters.
type AnalysisConfig struct {
	HistoryDays      int
	FundamentalFloor int
	APICallDelay     time.Duration
}

// DeepAnalysisBuilder qualifies funnel candidates with full-history
// technical and fundamental analysis.
type DeepAnalysisBuilder struct {
	market  repository.MarketData
	sleeper repository.Sleeper
	metrics repository.Metrics
	logger  *applogger.Logger
	config  AnalysisConfig
}

// NewDeepAnalysisBuilder creates a builder.
func NewDeepAnalysisBuilder(
	market repository.MarketData,
	sleeper repository.Sleeper,
	metrics repository.Metrics,
	logger *applogger.Logger,
	cfg AnalysisConfig,
) *DeepAnalysisBuilder {
	return &DeepAnalysisBuilder{
		market:  market,
		sleeper: sleeper,
		metrics: metrics,
		logger:  logger,
		config:  cfg,
	}
}

type assetData struct {
	candidate models.Candidate
	series    *models.HistoricalSeries
	profile   *models.FundamentalProfile
}

// Build fetches history and fundamentals for each candidate, then derives
// the analysis record for every asset that clears the fundamental floor.
// Assets that fail a fetch or the gate are dropped, not errored.
func (b *DeepAnalysisBuilder) Build(ctx context.Context, candidates []models.Candidate) (map[string]models.AnalysisRecord, error) {
	started := time.Now()

	fetched, err := b.fetchAll(ctx, candidates)
	if err != nil {
		return nil, err
	}

	records := make(map[string]models.AnalysisRecord, len(fetched))
	for _, data := range fetched {
		record, ok := b.process(data)
		if !ok {
			continue
		}
		records[record.AssetID] = record
	}

	b.metrics.RecordPhaseDuration("deep_analysis", time.Since(started))
	if len(records) == 0 {
		b.metrics.RecordOutcome("deep_analysis", "empty")
	} else {
		b.metrics.RecordOutcome("deep_analysis", "ok")
	}

	b.logger.Info("deep analysis complete",
		applogger.Int("candidates", len(candidates)),
		applogger.Int("qualified", len(records)),
	)
	return records, nil
}

func (b *DeepAnalysisBuilder) fetchAll(ctx context.Context, candidates []models.Candidate) ([]assetData, error) {
	out := make([]assetData, 0, len(candidates))

	for i, c := range candidates {
		if i > 0 {
			if err := b.sleeper.Sleep(ctx, b.config.APICallDelay); err != nil {
				return nil, fmt.Errorf("deep analysis interrupted: %w", err)
			}
		}

		series, err := b.market.HistoricalSeries(ctx, c.ID, b.config.HistoryDays)
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("deep analysis interrupted: %w", ctx.Err())
			}
			b.metrics.RecordError("deep_analysis")
			b.logger.Warn("history fetch failed, skipping asset",
				applogger.String("asset", c.ID),
				applogger.Error(err),
			)
			continue
		}

		profile, err := b.market.FundamentalProfile(ctx, c.ID)
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("deep analysis interrupted: %w", ctx.Err())
			}
			b.metrics.RecordError("deep_analysis")
			b.logger.Warn("fundamental fetch failed, skipping asset",
				applogger.String("asset", c.ID),
				applogger.Error(err),
			)
			continue
		}

		out = append(out, assetData{candidate: c, series: series, profile: profile})
	}
	return out, nil
}

// process derives one analysis record. Returns false when the asset lacks
// usable history or fails the fundamental gate.
func (b *DeepAnalysisBuilder) process(data assetData) (models.AnalysisRecord, bool) {
	closes, volumes := alignSeries(data.series)
	if len(closes) < minAnalysisRows {
		b.logger.Debug("insufficient aligned history, skipping asset",
			applogger.String("asset", data.candidate.ID),
			applogger.Int("rows", len(closes)),
		)
		return models.AnalysisRecord{}, false
	}

	pattern := analytics.ClassifyPattern(closes)
	fundamental := analytics.ScoreFundamentals(data.profile, pattern.Score)

	if fundamental.Composite < b.config.FundamentalFloor {
		b.logger.Info("asset failed fundamental gate",
			applogger.String("asset", data.candidate.ID),
			applogger.Int("composite", fundamental.Composite),
		)
		b.metrics.RecordOutcome("fundamental_gate", "rejected")
		return models.AnalysisRecord{}, false
	}

	record := models.AnalysisRecord{
		AssetID:         data.candidate.ID,
		Name:            data.candidate.Name,
		Fundamental:     fundamental.Composite,
		DevStatus:       fundamental.DevStatus,
		CommunityStatus: fundamental.CommunityStatus,
		PatternStatus:   pattern.Status,
		Regime:          analytics.ClassifyRegime(closes),
		Support:         indicator.Min(closes),
		Resistance:      indicator.Max(closes),
	}

	if rsi, ok := indicator.RSI(closes, rsiPeriod); ok {
		record.RSI = rsi
	}
	if macd, sig, ok := indicator.MACD(closes, 12, 26, 9); ok {
		record.MACDValue = macd
		record.MACDSignal = sig
	}
	if ma, ok := indicator.SMA(volumes, volumeMAPeriod); ok {
		record.VolumeMA = ma
	}
	if bands, ok := indicator.Bollinger(closes, bollingerPeriod); ok {
		record.Bands = models.BollingerBands{
			Upper:  bands.Upper,
			Middle: bands.Middle,
			Lower:  bands.Lower,
		}
	}

	return record, true
}

// alignSeries joins closes and volumes on timestamp, dropping rows with a
// non-positive close or a missing volume reading.
func alignSeries(series *models.HistoricalSeries) ([]float64, []float64) {
	if series == nil {
		return nil, nil
	}

	volumeAt := make(map[int64]float64, len(series.Volumes))
	for _, v := range series.Volumes {
		volumeAt[v.Timestamp] = v.Value
	}

	closes := make([]float64, 0, len(series.Prices))
	volumes := make([]float64, 0, len(series.Prices))
	for _, p := range series.Prices {
		if p.Value <= 0 {
			continue
		}
		vol, ok := volumeAt[p.Timestamp]
		if !ok {
			continue
		}
		closes = append(closes, p.Value)
		volumes = append(volumes, vol)
	}
	return closes, volumes
}
