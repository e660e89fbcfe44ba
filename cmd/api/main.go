package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/devops-automation/internal/ai"
	httptransport "github.com/spec-kit/devops-automation/internal/api/http"
	"github.com/spec-kit/devops-automation/internal/api/http/handlers"
	"github.com/spec-kit/devops-automation/internal/config"
	"github.com/spec-kit/devops-automation/internal/events"
	"github.com/spec-kit/devops-automation/internal/observability"
	"github.com/spec-kit/devops-automation/internal/persistence"
	"github.com/spec-kit/devops-automation/internal/repository"
	"github.com/spec-kit/devops-automation/internal/service"
	"github.com/spec-kit/devops-automation/internal/tracker"
	"github.com/spec-kit/devops-automation/internal/worker"
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

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if pg.Enabled() && cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	metrics := observability.NewMetrics()

	live := tracker.NewRedmineClient(cfg.Redmine, cfg.Team.MemberIDs(), logger)
	sandbox := tracker.NewSandbox(cfg.Redmine.BaseURL)
	modes := service.NewModeController(cfg.InitialMode(), live, sandbox, logger)
	logger.Info("starting", zap.String("mode", string(modes.CurrentMode())))

	ollama := ai.NewClient(cfg.Ollama, logger)
	workload := service.NewWorkloadService(cfg.Team, cfg.Hours, logger)
	policy := service.NewPriorityPolicy(cfg.Team.ProductionAliases)

	optionalProbes := map[string]service.Prober{}
	if pg.Enabled() {
		optionalProbes[service.ComponentPostgres] = pg
	}
	if redis.Enabled() {
		optionalProbes[service.ComponentRedis] = redis
	}
	health := service.NewHealthService(modes, ollama, optionalProbes)

	dispatcher := events.NewInMemoryDispatcher()
	worker.StartAuditWorker(dispatcher, repository.NewAuditRepository(pg.PoolHandle()), logger)
	worker.StartResultCacheWorker(dispatcher, redis)

	var locker service.BatchLocker
	if redis.Enabled() {
		locker = redis
	}
	orchestrator := service.NewOrchestrator(service.OrchestratorDependencies{
		Modes:      modes,
		Workload:   workload,
		Policy:     policy,
		Analyzer:   ollama,
		Dispatcher: dispatcher,
		Metrics:    metrics,
		Locker:     locker,
		AIWorkers:  cfg.Batch.AIWorkers,
		Logger:     logger,
	})

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:     handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, health, workload, ollama),
		Automation: handlers.NewAutomationHandler(orchestrator),
		Workload:   handlers.NewWorkloadHandler(workload, modes),
		Mode:       handlers.NewModeHandler(modes),
		Config:     handlers.NewConfigHandler(cfg, modes),
		Metrics:    handlers.NewMetricsHandler(metrics),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
