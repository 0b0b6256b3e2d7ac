package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"showdesk_backend/internal/catalog"
	"showdesk_backend/internal/deals"
	dealsadapters "showdesk_backend/internal/deals/adapters"
	"showdesk_backend/internal/email"
	"showdesk_backend/internal/events"
	apphttp "showdesk_backend/internal/http"
	"showdesk_backend/internal/http/router"
	"showdesk_backend/internal/notification"
	"showdesk_backend/internal/productions"
	"showdesk_backend/internal/scheduler"
	"showdesk_backend/internal/stakeholders"
	stakeholdersadapters "showdesk_backend/internal/stakeholders/adapters"
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

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, "migrations")
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

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
	log.Info("database connection established")

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	syncScheduler, closeScheduler := initSyncScheduler(cfg, log)
	if closeScheduler != nil {
		defer closeScheduler()
	}

	sender := initSender(cfg, log)

	// Shared validator instance for dependency injection
	val := validator.New()

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	// Notification module subscribes to domain events (not HTTP-facing)
	notificationModule := notification.New(sender, cfg, log)
	notificationModule.RegisterHandlers(eventBus)

	catalogModule := catalog.NewModule(pool, val, log)
	productionsModule := productions.NewModule(pool, val, log, eventBus)

	// Deals depends on catalog and productions through caller-owned adapters,
	// never on the modules themselves.
	catalogReader := dealsadapters.NewCatalogReaderAdapter(catalogModule.Repository())
	productionGateway := dealsadapters.NewProductionGatewayAdapter(productionsModule.Service())
	dealsModule := deals.NewModule(pool, val, log, catalogReader, productionGateway, syncScheduler, eventBus)

	dealReader := stakeholdersadapters.NewDealReaderAdapter(dealsModule.Repository())
	stakeholdersModule := stakeholders.NewModule(pool, val, log, dealReader, eventBus, cfg.GetDefaultPhoneRegion())

	// Crew assignment emails need the assignee's address from the roster
	notificationModule.SetEntityEmailReader(stakeholdersModule.Repository())

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   db.NewPoolAdapter(pool),
		EventBus: eventBus,
		Modules: []apphttp.Module{
			catalogModule,
			dealsModule,
			productionsModule,
			stakeholdersModule,
		},
	}

	engine := router.New(app)

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- engine.Run(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = shutdownCtx
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

// initSyncScheduler builds the asynq client for delayed crew syncs. Without
// Redis the deals module keeps a nil client and skips the delayed repairs.
func initSyncScheduler(cfg config.SchedulerConfig, log *logger.Logger) (*scheduler.Client, func()) {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; delayed crew syncs disabled")
		return nil, nil
	}

	client, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize sync scheduler client", "error", err)
		return nil, nil
	}

	return client, func() {
		_ = client.Close()
	}
}

func initSender(cfg config.EmailConfig, log *logger.Logger) email.Sender {
	if !cfg.GetEmailEnabled() {
		log.Warn("email sending disabled; notifications will be dropped")
		return email.NoopSender{}
	}

	return email.NewSMTPSender(
		cfg.GetSMTPHost(),
		cfg.GetSMTPPort(),
		cfg.GetSMTPUsername(),
		cfg.GetSMTPPassword(),
		cfg.GetEmailFromAddress(),
		cfg.GetEmailFromName(),
	)
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
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
