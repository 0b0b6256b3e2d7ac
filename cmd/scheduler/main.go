package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"showdesk_backend/internal/catalog"
	"showdesk_backend/internal/deals"
	dealsadapters "showdesk_backend/internal/deals/adapters"
	"showdesk_backend/internal/events"
	"showdesk_backend/internal/productions"
	"showdesk_backend/internal/scheduler"
	"showdesk_backend/platform/config"
	"showdesk_backend/platform/db"
	"showdesk_backend/platform/logger"
	"showdesk_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting scheduler", "env", cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	eventBus := events.NewInMemoryBus(log)
	val := validator.New()

	// Worker-side crew-sync wiring. The deals module drives the repair; no
	// HTTP handlers run here and the worker never re-enqueues syncs.
	catalogModule := catalog.NewModule(pool, val, log)
	productionsModule := productions.NewModule(pool, val, log, eventBus)

	catalogReader := dealsadapters.NewCatalogReaderAdapter(catalogModule.Repository())
	productionGateway := dealsadapters.NewProductionGatewayAdapter(productionsModule.Service())
	dealsModule := deals.NewModule(pool, val, log, catalogReader, productionGateway, (*scheduler.Client)(nil), eventBus)

	worker, err := scheduler.NewWorker(cfg, dealsModule.Orchestrator(), log)
	if err != nil {
		log.Error("failed to initialize scheduler worker", "error", err)
		panic("failed to initialize scheduler worker: " + err.Error())
	}

	worker.Run(ctx)
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return errors.New(name + ": invalid retry attempts")
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
