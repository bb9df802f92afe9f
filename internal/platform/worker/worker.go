// Package worker runs named periodic tasks until the context is canceled.
package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	logFieldWorker = "worker"
	logFieldTask   = "task"
)

// Task is a job run once at start and then every Interval.
type Task struct {
	Name     string
	Interval time.Duration

	// Timeout bounds a single run. Zero means no bound beyond the loop context.
	Timeout time.Duration

	Run func(ctx context.Context) error
}

// Config configures a worker loop.
type Config struct {
	// Name identifies the worker for logging.
	Name string

	Tasks []Task

	// OnError is called when a task returns an error. Errors are always logged.
	OnError func(task string, err error)

	Logger *zerolog.Logger
}

// Loop runs every task on its own ticker and blocks until ctx is canceled.
// A failing or panicking task is logged and retried on its next tick.
// Returns a wrapped context error.
func Loop(ctx context.Context, cfg Config) error {
	logger := cfg.Logger
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	logger.Info().Str(logFieldWorker, cfg.Name).Int("tasks", len(cfg.Tasks)).Msg("starting worker loop")
	defer logger.Info().Str(logFieldWorker, cfg.Name).Msg("worker loop stopped")

	var wg sync.WaitGroup

	for _, task := range cfg.Tasks {
		if task.Run == nil || task.Interval <= 0 {
			logger.Warn().Str(logFieldWorker, cfg.Name).Str(logFieldTask, task.Name).Msg("skipping task without interval")
			continue
		}

		wg.Add(1)

		go func(task Task) {
			defer wg.Done()

			runTask(ctx, task, cfg, logger)
		}(task)
	}

	<-ctx.Done()
	wg.Wait()

	return fmt.Errorf("worker loop %s: %w", cfg.Name, ctx.Err())
}

func runTask(ctx context.Context, task Task, cfg Config, logger *zerolog.Logger) {
	ticker := time.NewTicker(task.Interval)
	defer ticker.Stop()

	for {
		runOnce(ctx, task, cfg, logger)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func runOnce(ctx context.Context, task Task, cfg Config, logger *zerolog.Logger) {
	defer RecoverPanic(logger, task.Name)

	if ctx.Err() != nil {
		return
	}

	runCtx := ctx

	if task.Timeout > 0 {
		var cancel context.CancelFunc

		runCtx, cancel = context.WithTimeout(ctx, task.Timeout)
		defer cancel()
	}

	start := time.Now()

	if err := task.Run(runCtx); err != nil {
		if ctx.Err() != nil {
			return
		}

		logger.Error().Err(err).Str(logFieldWorker, cfg.Name).Str(logFieldTask, task.Name).Msg("task failed")

		if cfg.OnError != nil {
			cfg.OnError(task.Name, err)
		}

		return
	}

	logger.Debug().Str(logFieldTask, task.Name).Dur("duration", time.Since(start)).Msg("task done")
}

// Wait blocks until duration elapses or context is canceled.
// Returns a wrapped context error if context is canceled.
func Wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return fmt.Errorf("wait interrupted: %w", ctx.Err())
	case <-t.C:
		return nil
	}
}

// RecoverPanic recovers from panics and logs them.
// Use as: defer worker.RecoverPanic(logger, "operation name")
func RecoverPanic(logger *zerolog.Logger, operation string) {
	if r := recover(); r != nil {
		logger.Error().
			Interface("panic", r).
			Str("operation", operation).
			Msg("recovered from panic")
	}
}
