package di

import (
	"context"
	"fmt"
	"strings"

	"CoinFunnel/internal/domain/repository"
	"CoinFunnel/internal/handler/api"
	kafkarepo "CoinFunnel/internal/repository"
	"CoinFunnel/internal/service/coingecko"
	"CoinFunnel/internal/service/news"
	"CoinFunnel/internal/service/pace"
	"CoinFunnel/internal/service/telegram"
	"CoinFunnel/internal/usecase"
	"CoinFunnel/pkg/cache"
	"CoinFunnel/pkg/config"
	apphttp "CoinFunnel/pkg/http"
	"CoinFunnel/pkg/kafka"
	applogger "CoinFunnel/pkg/logger"
	"CoinFunnel/pkg/metrics"
	"CoinFunnel/pkg/server"
)

// ProvideLogger builds the application logger from config.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	return applogger.New(&applogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
}

// ProvideMetrics builds the Prometheus recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.NewRecorder()
}

// ProvideCache builds the cache layer. With Redis enabled it layers an
// in-process LRU in front of Redis; a Redis connection failure degrades
// to memory only.
func ProvideCache(cfg *config.Config, logger *applogger.Logger) cache.Service {
	memory := cache.NewMemoryCache(
		cache.WithDefaultTTL(cfg.Cache.SeriesTTL),
	)

	if !cfg.Cache.Redis.Enabled {
		return memory
	}

	addr := fmt.Sprintf("%s:%d", cfg.Cache.Redis.Host, cfg.Cache.Redis.Port)
	remote, err := cache.NewRedisCache(context.Background(),
		cache.WithRedis(addr, cfg.Cache.Redis.Password, cfg.Cache.Redis.DB),
		cache.WithDefaultTTL(cfg.Cache.SeriesTTL),
	)
	if err != nil {
		logger.Warn("redis unavailable, falling back to memory cache", applogger.Error(err))
		return memory
	}

	return cache.NewLayeredCache(memory, remote)
}

// ProvideMarketData builds the CoinGecko client.
func ProvideMarketData(cfg *config.Config, c cache.Service, logger *applogger.Logger) repository.MarketData {
	return coingecko.NewClient(coingecko.Config{
		BaseURL:    cfg.CoinGecko.BaseURL,
		APIKey:     cfg.CoinGecko.APIKey,
		Currency:   cfg.Scanner.Currency,
		Timeout:    cfg.CoinGecko.Timeout,
		SeriesTTL:  cfg.Cache.SeriesTTL,
		ProfileTTL: cfg.Cache.ProfileTTL,
	}, c, logger)
}

// ProvideMessenger builds the Telegram messenger.
func ProvideMessenger(cfg *config.Config, logger *applogger.Logger) repository.Messenger {
	return telegram.NewClient(telegram.Config{
		APIBase:  cfg.Telegram.APIBase,
		BotToken: cfg.Telegram.BotToken,
		ChatID:   cfg.Telegram.ChatID,
		Timeout:  cfg.Telegram.Timeout,
	}, logger)
}

// ProvideNews builds the headline client.
func ProvideNews(cfg *config.Config) repository.News {
	return news.NewClient(news.Config{
		BaseURL: cfg.News.BaseURL,
		APIKey:  cfg.News.APIKey,
		Domains: strings.Join(cfg.News.Domains, ","),
		Timeout: cfg.News.Timeout,
	})
}

// ProvideSleeper builds the pacing waiter.
func ProvideSleeper() repository.Sleeper {
	return pace.NewWaiter()
}

// ProvideAlertPublisher builds the Kafka publisher when brokers are
// configured, nil otherwise.
func ProvideAlertPublisher(cfg *config.Config, logger *applogger.Logger) (repository.AlertPublisher, error) {
	if len(cfg.Kafka.Brokers) == 0 {
		logger.Info("kafka not configured, alert events disabled")
		return nil, nil
	}

	producer, err := kafka.NewProducer(
		kafka.WithBrokers(cfg.Kafka.Brokers),
		kafka.WithTopic(cfg.Kafka.Topic),
		kafka.WithRequiredAcks(acksName(cfg.Kafka.RequiredAcks)),
		kafka.WithCompression(cfg.Kafka.Compression),
		kafka.WithMaxAttempts(cfg.Kafka.MaxAttempts),
		kafka.WithWriteTimeout(cfg.Kafka.WriteTimeout),
		kafka.WithAsync(cfg.Kafka.Async),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return kafkarepo.NewKafkaAlertPublisher(producer), nil
}

func acksName(acks int) string {
	switch acks {
	case 0:
		return "none"
	case -1:
		return "all"
	default:
		return "one"
	}
}

// ProvideBoard builds the shared status board.
func ProvideBoard() *usecase.StatusBoard {
	return usecase.NewStatusBoard()
}

// ProvideScanner builds the funnel scanner.
func ProvideScanner(
	cfg *config.Config,
	market repository.MarketData,
	sleeper repository.Sleeper,
	m repository.Metrics,
	logger *applogger.Logger,
) *usecase.FunnelScanner {
	return usecase.NewFunnelScanner(market, sleeper, m, logger, usecase.ScannerConfig{
		UniverseSize:      cfg.Scanner.UniverseSize,
		CandidateCap:      cfg.Scanner.CandidateCap,
		MomentumMin24h:    cfg.Scanner.MomentumMin24h,
		ConsolidationBand: cfg.Scanner.ConsolidationBand,
		BreakoutMin24h:    cfg.Scanner.BreakoutMin24h,
		ReboundDrop7d:     cfg.Scanner.ReboundDrop7d,
		RSIOverbought:     cfg.Scanner.RSIOverbought,
		RSILookbackDays:   cfg.Scanner.RSILookbackDays,
		APICallDelay:      cfg.Pacing.APICallDelay,
	})
}

// ProvideBuilder builds the deep-analysis builder.
func ProvideBuilder(
	cfg *config.Config,
	market repository.MarketData,
	sleeper repository.Sleeper,
	m repository.Metrics,
	logger *applogger.Logger,
) *usecase.DeepAnalysisBuilder {
	return usecase.NewDeepAnalysisBuilder(market, sleeper, m, logger, usecase.AnalysisConfig{
		HistoryDays:      cfg.Analysis.HistoryDays,
		FundamentalFloor: cfg.Analysis.FundamentalFloor,
		APICallDelay:     cfg.Pacing.APICallDelay,
	})
}

// ProvideMonitor builds the monitor engine.
func ProvideMonitor(
	cfg *config.Config,
	market repository.MarketData,
	messenger repository.Messenger,
	publisher repository.AlertPublisher,
	sleeper repository.Sleeper,
	m repository.Metrics,
	board *usecase.StatusBoard,
	logger *applogger.Logger,
) *usecase.MonitorEngine {
	return usecase.NewMonitorEngine(market, messenger, publisher, sleeper, m, board, logger, usecase.MonitorConfig{
		TickInterval:    cfg.Monitor.TickInterval,
		NotifyFloor:     cfg.Monitor.NotifyFloor,
		ErrorBackoff:    cfg.Monitor.ErrorBackoff,
		AlertCooldown:   cfg.Monitor.AlertCooldown,
		MaxTickFailures: cfg.Monitor.MaxTickFailures,
		SingleShot:      cfg.SingleShot,
	})
}

// ProvideRunner builds the pipeline runner.
func ProvideRunner(
	cfg *config.Config,
	scanner *usecase.FunnelScanner,
	builder *usecase.DeepAnalysisBuilder,
	monitor *usecase.MonitorEngine,
	n repository.News,
	messenger repository.Messenger,
	sleeper repository.Sleeper,
	m repository.Metrics,
	board *usecase.StatusBoard,
	logger *applogger.Logger,
) *usecase.Runner {
	return usecase.NewRunner(scanner, builder, monitor, n, messenger, sleeper, m, board, logger, usecase.RunnerConfig{
		TopN:          cfg.Scanner.TopN,
		EmptyCooldown: cfg.Monitor.EmptyCooldown,
		HeadlineDelay: cfg.Pacing.HeadlineDelay,
		SingleShot:    cfg.SingleShot,
	})
}

// ProvideWatchHandler builds the ops API handler.
func ProvideWatchHandler(board *usecase.StatusBoard, logger *applogger.Logger) apphttp.Handler {
	return api.NewWatchHandler(board, logger)
}

// ProvideHTTPServer builds the ops HTTP server.
func ProvideHTTPServer(cfg *config.Config, handler apphttp.Handler, logger *applogger.Logger) *apphttp.Server {
	return apphttp.NewServer(handler,
		apphttp.WithPort(cfg.Server.Port),
		apphttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		apphttp.WithMetricsPath(cfg.Metrics.Path),
		apphttp.WithLogger(logger),
	)
}

// ProvideApp assembles the application.
func ProvideApp(
	cfg *config.Config,
	runner *usecase.Runner,
	httpServer *apphttp.Server,
	publisher repository.AlertPublisher,
	c cache.Service,
	logger *applogger.Logger,
) *server.App {
	return server.NewApp(runner, httpServer, logger,
		server.WithPublisher(publisher),
		server.WithCache(c),
		server.WithShutdownTimeout(cfg.Server.ShutdownTimeout),
	)
}
