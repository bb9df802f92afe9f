// Package app provides the main application bootstrap and runtime orchestration.
//
// The App type wires together all dependencies and exposes methods to run
// different operational modes:
//
//   - API mode: public JSON API plus health and metrics endpoints
//   - Worker mode: background maintenance jobs (popularity gauge, retention)
//   - Migrate mode: apply database migrations and exit
//
// Each mode can be run independently or combined based on deployment needs.
package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/lueurxax/soundscape/internal/api"
	"github.com/lueurxax/soundscape/internal/companion"
	"github.com/lueurxax/soundscape/internal/core/domain"
	"github.com/lueurxax/soundscape/internal/core/llm"
	"github.com/lueurxax/soundscape/internal/maintenance"
	"github.com/lueurxax/soundscape/internal/platform/config"
	"github.com/lueurxax/soundscape/internal/platform/observability"
	"github.com/lueurxax/soundscape/internal/recommend"
	db "github.com/lueurxax/soundscape/internal/storage"
)

const (
	logFieldCatalogPath = "catalog_path"
	logFieldItems       = "items"
	logFieldMockLLM     = "mock_llm"
)

// App holds the application dependencies and provides methods to run different modes.
type App struct {
	cfg      *config.Config
	database *db.DB
	logger   *zerolog.Logger
}

// New creates a new App instance with the given dependencies.
func New(cfg *config.Config, database *db.DB, logger *zerolog.Logger) *App {
	return &App{
		cfg:      cfg,
		database: database,
		logger:   logger,
	}
}

// RunAPI serves the public API, health checks and metrics until ctx is canceled.
func (a *App) RunAPI(ctx context.Context) error {
	engine, err := a.newEngine()
	if err != nil {
		return err
	}

	recorder := llm.NewUsageRecorder(a.database, a.logger)
	defer recorder.Close()

	svc := companion.New(engine, a.newLLMClient(recorder), a.database, a.companionSettings(), a.logger)
	router := api.NewRouter(api.NewHandler(svc, a.logger), a.cfg.HTTPConfig)

	server := observability.NewServerWithAPI(a.database, a.cfg.Port, router, a.logger)

	if err := server.Start(ctx); err != nil {
		return fmt.Errorf("api server: %w", err)
	}

	return nil
}

// RunWorker runs the maintenance jobs, with health endpoints on the HTTP port.
func (a *App) RunWorker(ctx context.Context) error {
	engine, err := a.newEngine()
	if err != nil {
		return err
	}

	items := engine.Catalog().Items()
	keys := make([]string, len(items))

	for i, item := range items {
		keys[i] = item.Key
	}

	go func() {
		if err := observability.NewServer(a.database, a.cfg.Port, a.logger).Start(ctx); err != nil {
			a.logger.Error().Err(err).Msg("health check server error")
		}
	}()

	return maintenance.New(a.database, a.cfg.MaintenanceConfig, keys, a.logger).Run(ctx)
}

// RunMigrate applies pending migrations.
func (a *App) RunMigrate(ctx context.Context) error {
	if err := a.database.Migrate(ctx); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	a.logger.Info().Msg("migrations applied")

	return nil
}

func (a *App) newEngine() (*recommend.Engine, error) {
	catalog, rules, err := recommend.LoadFile(a.cfg.CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	a.logger.Info().
		Str(logFieldCatalogPath, a.cfg.CatalogPath).
		Int(logFieldItems, catalog.Len()).
		Msg("catalog loaded")

	return recommend.NewEngine(catalog, rules, a.cfg.BatchEmotionWindow), nil
}

func (a *App) newLLMClient(recorder llm.UsageRecorder) llm.Client {
	a.logger.Info().Bool(logFieldMockLLM, a.cfg.UseMockLLM()).Str("model", a.cfg.Model).Msg("LLM client configured")

	return llm.New(a.cfg, recorder, a.logger)
}

func (a *App) companionSettings() companion.Settings {
	return companion.Settings{
		HistoryLookback: a.cfg.HistoryLookback,
		HistoryLimit:    a.cfg.HistoryLimit,
		EmotionWindow:   a.cfg.BatchEmotionWindow,
		DefaultContext: domain.PersonalizationContext{
			TimeOfDay: domain.ParseTimeOfDay(a.cfg.DefaultTimeOfDay),
			Venue:     domain.ParseVenue(a.cfg.DefaultVenue),
		},
	}
}
