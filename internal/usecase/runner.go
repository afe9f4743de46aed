package usecase

import (
	"context"
	"fmt"
	"time"

	"CoinFunnel/internal/domain/models"
	"CoinFunnel/internal/domain/repository"
	applogger "CoinFunnel/pkg/logger"
)

const headlineUnavailable = "unavailable"

// RunnerConfig holds pipeline orchestration parameters.
type RunnerConfig struct {
	TopN          int
	EmptyCooldown time.Duration
	HeadlineDelay time.Duration
	SingleShot    bool
}

// Runner drives the full pipeline: scan, deep analysis, enrichment, and
// monitoring, in a loop.
type Runner struct {
	scanner   *FunnelScanner
	builder   *DeepAnalysisBuilder
	monitor   *MonitorEngine
	news      repository.News
	messenger repository.Messenger
	sleeper   repository.Sleeper
	metrics   repository.Metrics
	board     *StatusBoard
	logger    *applogger.Logger
	config    RunnerConfig
}

// NewRunner creates a pipeline runner.
func NewRunner(
	scanner *FunnelScanner,
	builder *DeepAnalysisBuilder,
	monitor *MonitorEngine,
	news repository.News,
	messenger repository.Messenger,
	sleeper repository.Sleeper,
	metrics repository.Metrics,
	board *StatusBoard,
	logger *applogger.Logger,
	cfg RunnerConfig,
) *Runner {
	return &Runner{
		scanner:   scanner,
		builder:   builder,
		monitor:   monitor,
		news:      news,
		messenger: messenger,
		sleeper:   sleeper,
		metrics:   metrics,
		board:     board,
		logger:    logger,
		config:    cfg,
	}
}

// Run executes pipeline passes until the context is cancelled. In
// single-shot mode it performs one pass and returns.
func (r *Runner) Run(ctx context.Context) error {
	// Startup notification is best effort; a missing messenger must not
	// stop the pipeline.
	if err := r.messenger.SendAlert(ctx, "Screener online, starting first pass"); err != nil {
		r.logger.Warn("startup alert failed", applogger.Error(err))
	}

	for {
		if err := r.pass(ctx); err != nil {
			return err
		}
		if r.config.SingleShot {
			r.logger.Info("single-shot pass complete")
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}
}

func (r *Runner) pass(ctx context.Context) error {
	r.board.BeginPass()
	r.board.SetPhase(PhaseScanning)

	outcome, err := r.scanner.Scan(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		r.logger.Error("scan failed", applogger.Error(err))
		return r.cooldown(ctx)
	}

	if len(outcome.Candidates) == 0 {
		r.logger.Info("no candidates survived the funnel",
			applogger.Int("universe", outcome.UniverseSize),
			applogger.Int("rule_matches", outcome.RuleMatches),
		)
		return r.cooldown(ctx)
	}

	shortlist := outcome.Candidates
	if len(shortlist) > r.config.TopN {
		shortlist = shortlist[:r.config.TopN]
	}
	r.logger.Info("shortlist selected", applogger.Int("assets", len(shortlist)))

	r.board.SetPhase(PhaseAnalyzing)
	records, err := r.builder.Build(ctx, shortlist)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		r.logger.Error("deep analysis failed", applogger.Error(err))
		return r.cooldown(ctx)
	}

	if len(records) == 0 {
		r.logger.Info("no assets qualified in deep analysis")
		return r.cooldown(ctx)
	}

	if err := r.enrichHeadlines(ctx, records); err != nil {
		return err
	}
	r.board.SetRecords(records)

	r.board.SetPhase(PhaseMonitoring)
	if err := r.monitor.Run(ctx, records); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("monitor: %w", err)
	}
	return nil
}

// enrichHeadlines attaches one recent headline per asset. Failures fall
// back to a placeholder so a news outage never blocks monitoring.
func (r *Runner) enrichHeadlines(ctx context.Context, records map[string]models.AnalysisRecord) error {
	first := true
	for id, record := range records {
		if !first {
			if err := r.sleeper.Sleep(ctx, r.config.HeadlineDelay); err != nil {
				return err
			}
		}
		first = false

		headline, err := r.news.Headline(ctx, record.Name)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			r.metrics.RecordError("news")
			r.logger.Debug("headline fetch failed",
				applogger.String("asset", id),
				applogger.Error(err),
			)
			headline = headlineUnavailable
		}

		record.Headline = headline
		records[id] = record
	}
	return nil
}

func (r *Runner) cooldown(ctx context.Context) error {
	if r.config.SingleShot {
		return nil
	}
	r.board.SetPhase(PhaseCooldown)
	r.metrics.RecordOutcome("pass", "cooldown")
	return r.sleeper.Sleep(ctx, r.config.EmptyCooldown)
}
