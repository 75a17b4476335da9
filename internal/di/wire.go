//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"github.com/Kiwitwitter/daily-finance/internal/usecase"
	"github.com/Kiwitwitter/daily-finance/pkg/config"
	"github.com/Kiwitwitter/daily-finance/pkg/server"
)

// InitializeApp wires the report builder, index and web server. It needs
// no external credentials.
func InitializeApp(cfg *config.Config) (*server.App, func(), error) {
	wire.Build(
		baseSet,
		reportingSet,
		ProvideApp,
	)
	return nil, nil, nil
}

// InitializePipelineApp additionally wires the source fetchers, the
// analyzer and the daily job.
func InitializePipelineApp(cfg *config.Config) (*server.App, func(), error) {
	wire.Build(
		baseSet,
		reportingSet,
		sourcesSet,
		analysisSet,
		ProvideDailyJob,
		ProvidePipeline,
		ProvidePipelineApp,
	)
	return nil, nil, nil
}

// InitializeAnalyzer wires only what the analyze command needs.
func InitializeAnalyzer(cfg *config.Config) (*usecase.Analyzer, func(), error) {
	wire.Build(
		baseSet,
		analysisSet,
	)
	return nil, nil, nil
}
