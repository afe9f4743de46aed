//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"CoinFunnel/pkg/config"
	"CoinFunnel/pkg/server"
)

// InitializeApp wires the full application graph.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,
		ProvideCache,
		ProvideMarketData,
		ProvideMessenger,
		ProvideNews,
		ProvideSleeper,
		ProvideAlertPublisher,
		ProvideBoard,
		ProvideScanner,
		ProvideBuilder,
		ProvideMonitor,
		ProvideRunner,
		ProvideWatchHandler,
		ProvideHTTPServer,
		ProvideApp,
	)
	return nil, nil
}
