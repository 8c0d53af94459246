package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vsinha/mrpplan/pkg/application/services/criticalpath"
	"github.com/vsinha/mrpplan/pkg/application/services/mrp"
	"github.com/vsinha/mrpplan/pkg/application/services/orchestration"
	"github.com/vsinha/mrpplan/pkg/config"
	"github.com/vsinha/mrpplan/pkg/infrastructure/database"
	"github.com/vsinha/mrpplan/pkg/infrastructure/demand"
	"github.com/vsinha/mrpplan/pkg/infrastructure/events"
	"github.com/vsinha/mrpplan/pkg/infrastructure/fixtures"
	"github.com/vsinha/mrpplan/pkg/infrastructure/logger"
	"github.com/vsinha/mrpplan/pkg/infrastructure/metrics"
	"github.com/vsinha/mrpplan/pkg/infrastructure/repositories/gormrepo"
	"github.com/vsinha/mrpplan/pkg/infrastructure/tracing"
	"github.com/vsinha/mrpplan/pkg/interfaces/api"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.ServiceName, cfg.IsDevelopment())
	logger.SetLevel(cfg.LogLevel)
	ctx := context.Background()

	tp, err := tracing.InitTracer(cfg.ServiceName, cfg.JaegerEndpoint)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize tracer")
	}
	defer func() {
		if err := tracing.Shutdown(ctx, tp); err != nil {
			logger.Logger.Error().Err(err).Msg("Failed to shutdown tracer")
		}
	}()

	db, err := database.Open(cfg.DatabaseDSN)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer database.Close(db)

	store := gormrepo.NewStore(db)
	if err := store.Migrate(ctx); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to migrate database")
	}
	if err := seedIfEmpty(ctx, store, cfg); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to seed reference data")
	}

	source, err := demand.NewRandomDemandSource(cfg.DemandSeed, cfg.DemandMin, cfg.DemandMax)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to create demand source")
	}

	plannerMetrics := metrics.NewPlannerMetrics(prometheus.DefaultRegisterer)
	eventStore := events.NewInMemoryEventStore()
	eventStore.Subscribe(plannerMetrics)
	planner := mrp.NewPlanner(
		mrp.EngineConfig{Workers: cfg.Workers, Basis: cfg.ExplosionBasis},
		mrp.WithEventStore(eventStore),
		mrp.WithMetrics(plannerMetrics),
	)

	orchestrator := orchestration.NewPlanningOrchestrator(
		planner,
		criticalpath.NewCriticalPathService(),
		store,
		source,
		store,
	)

	app := api.NewServer(api.Dependencies{
		Runner:   orchestrator,
		Results:  store,
		Events:   eventStore,
		Metrics:  plannerMetrics,
		Gatherer: prometheus.DefaultGatherer,
	}).App()

	go func() {
		logger.Logger.Info().
			Str("port", cfg.HTTPPort).
			Str("database", redactDSN(cfg.DatabaseDSN)).
			Msg("MRP server starting")
		if err := app.Listen(":" + cfg.HTTPPort); err != nil {
			logger.Logger.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info().Msg("Shutting down server...")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Logger.Error().Err(err).Msg("Server forced to shutdown")
	}
	logger.Logger.Info().Msg("Server exited")
}

// seedIfEmpty loads the reference structure into a database with no parts
func seedIfEmpty(ctx context.Context, store *gormrepo.Store, cfg *config.Config) error {
	structure, err := store.LoadStructure(ctx)
	if err != nil {
		return err
	}
	if len(structure.Parts) > 0 {
		return nil
	}

	reference := fixtures.ReferenceStructure()
	reference.Horizon = cfg.Horizon
	if err := store.Seed(ctx, reference); err != nil {
		return err
	}
	logger.Logger.Info().
		Int("parts", len(reference.Parts)).
		Int("periods", int(reference.Horizon)).
		Msg("Reference data seeded")
	return nil
}

// redactDSN keeps credentials out of the startup log
func redactDSN(dsn string) string {
	if strings.HasPrefix(dsn, "sqlite://") || dsn == ":memory:" {
		return dsn
	}
	return "postgres"
}
