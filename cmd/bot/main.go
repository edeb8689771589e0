package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/support-bot/internal/api/http"
	"github.com/spec-kit/support-bot/internal/api/http/handlers"
	"github.com/spec-kit/support-bot/internal/bot"
	"github.com/spec-kit/support-bot/internal/config"
	"github.com/spec-kit/support-bot/internal/correlation"
	"github.com/spec-kit/support-bot/internal/events"
	"github.com/spec-kit/support-bot/internal/observability"
	"github.com/spec-kit/support-bot/internal/persistence"
	"github.com/spec-kit/support-bot/internal/ratelimit"
	"github.com/spec-kit/support-bot/internal/repository"
	"github.com/spec-kit/support-bot/internal/service"
	"github.com/spec-kit/support-bot/internal/session"
	"github.com/spec-kit/support-bot/internal/transport"
	"github.com/spec-kit/support-bot/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		ticketRepo repository.TicketRepository
		limitsRepo repository.UserLimitsRepository
		storePing  handlers.Pinger
		closeStore func()
	)
	if cfg.Postgres.DSN != "" {
		pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			logger.Fatal("failed to connect postgres", zap.Error(err))
		}
		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pg.Pool, logger); err != nil {
				logger.Fatal("failed to run migrations", zap.Error(err))
			}
		}
		ticketRepo = repository.NewTicketRepository(pg.Pool)
		limitsRepo = repository.NewUserLimitsRepository(pg.Pool)
		storePing = pg
		closeStore = pg.Close
	} else {
		lite, err := persistence.NewSQLite(ctx, cfg.SQLite, logger)
		if err != nil {
			logger.Fatal("failed to open sqlite", zap.Error(err))
		}
		ticketRepo = repository.NewSQLiteTicketRepository(lite.DB)
		limitsRepo = repository.NewSQLiteUserLimitsRepository(lite.DB)
		storePing = lite
		closeStore = lite.Close
	}
	defer closeStore()

	var (
		sessions    session.Store
		sessionPing handlers.Pinger
	)
	if cfg.Redis.Addr != "" {
		redis := persistence.NewRedis(cfg.Redis, logger)
		defer redis.Close()
		sessions = session.NewRedisStore(redis.Client)
		sessionPing = redis
	} else {
		sessions = session.NewMemoryStore()
	}

	registry := prometheus.NewRegistry()
	metrics := observability.NewMetrics(registry)

	sender := transport.NewClient(cfg.Bot)
	dispatcher := events.NewInMemoryDispatcher()

	limiter := ratelimit.NewLimiter(limitsRepo, ticketRepo, cfg.Lifecycle)
	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:  ticketRepo,
		Limiter:     limiter,
		Correlation: correlation.NewTable(),
		Sender:      sender,
		Dispatcher:  dispatcher,
		Metrics:     metrics,
		Logger:      logger,
	}, cfg.Bot.AdminID, cfg.Lifecycle)

	notificationService := service.NewNotificationService(dispatcher, logger)
	worker.StartNotificationWorker(notificationService)

	sweeper := worker.NewSweeper(ticketService, metrics, logger, cfg.Lifecycle.SweepInterval)
	sweeper.Start(ctx)

	botDispatcher := bot.NewDispatcher(ticketService, sessions, sender, metrics, logger, cfg.Bot.AdminID)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger)
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:   handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, storePing, sessionPing),
		Webhook:  handlers.NewWebhookHandler(botDispatcher),
		Registry: registry,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()

	// Stop the sweep loop and wait for the in-flight pass to finish.
	cancel()
	<-sweeper.Done()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
