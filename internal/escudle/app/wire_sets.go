//go:build wireinject

package app

import "github.com/google/wire"

var escudleProviderSet = wire.NewSet(
	newEscudleTelemetry,
	newEscudleValkey,
	newEscudleCatalog,
	newEscudleMessageProvider,
	newEscudleProgressStore,
	newEscudleProcessingLock,
	newEscudleMetricsRegistry,
	newEscudleMetrics,
	newEscudleDB,
	newEscudleRepository,
	newEscudleStatsRecorder,
	newEscudleRegistry,
	newEscudleGameService,
	newEscudleHealthChecks,
	newEscudleHTTPMux,
	newEscudleHTTPServer,
	newEscudleServerApp,
)
