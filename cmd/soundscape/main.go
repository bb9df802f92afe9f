package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/lueurxax/soundscape/internal/app"
	"github.com/lueurxax/soundscape/internal/platform/config"
	db "github.com/lueurxax/soundscape/internal/storage"
)

const (
	modeAPI     = "api"
	modeWorker  = "worker"
	modeMigrate = "migrate"
)

func main() {
	mode := flag.String("mode", modeAPI, "Service mode (api, worker, migrate)")
	skipMigrate := flag.Bool("skip-migrate", false, "Do not apply migrations on startup")

	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := newLogger(cfg.AppEnv, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	poolOpts := db.PoolOptions{
		MaxConns:          cfg.MaxConnections,
		MinConns:          cfg.MinConnections,
		MaxConnIdleTime:   cfg.MaxConnIdleTime,
		MaxConnLifetime:   cfg.MaxConnLifetime,
		HealthCheckPeriod: cfg.HealthCheckPeriod,
	}

	database, err := db.NewWithOptions(ctx, cfg.PostgresDSN, poolOpts, &logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer database.Close()

	application := app.New(cfg, database, &logger)

	if *mode != modeMigrate && !*skipMigrate {
		if err := application.RunMigrate(ctx); err != nil {
			logger.Fatal().Err(err).Msg("failed to run migrations")
		}
	}

	if err := runMode(ctx, application, *mode); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Info().Msg("application stopped")
			return
		}

		logger.Fatal().Err(err).Msg("application error")
	}
}

func newLogger(appEnv, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	if appEnv == "local" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).Level(lvl).With().Timestamp().Logger()
	}

	return zerolog.New(os.Stderr).Level(lvl).With().Timestamp().Logger()
}

func runMode(ctx context.Context, application *app.App, mode string) error {
	switch mode {
	case modeAPI:
		return application.RunAPI(ctx)
	case modeWorker:
		return application.RunWorker(ctx)
	case modeMigrate:
		return application.RunMigrate(ctx)
	default:
		log.Fatalf("Usage: %s --mode=[api|worker|migrate]", os.Args[0])

		return nil
	}
}
