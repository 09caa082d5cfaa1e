package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/ibrasoft/command-centre/internal/api/http"
	"github.com/ibrasoft/command-centre/internal/api/http/handlers"
	"github.com/ibrasoft/command-centre/internal/auth"
	"github.com/ibrasoft/command-centre/internal/config"
	"github.com/ibrasoft/command-centre/internal/discord"
	"github.com/ibrasoft/command-centre/internal/events"
	"github.com/ibrasoft/command-centre/internal/observability"
	"github.com/ibrasoft/command-centre/internal/persistence"
	"github.com/ibrasoft/command-centre/internal/repository"
	"github.com/ibrasoft/command-centre/internal/service"
	"github.com/ibrasoft/command-centre/internal/worker"
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

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	var sessions auth.SessionStore
	if err := redis.Ping(ctx); err != nil {
		logger.Warn("redis unreachable, sessions held in memory", zap.Error(err))
		sessions = auth.NewMemorySessionStore()
	} else {
		sessions = auth.NewRedisSessionStore(redis.Client)
	}

	tokens, err := auth.NewTokenIssuer(cfg.Auth)
	if err != nil {
		logger.Fatal("failed to init token issuer", zap.Error(err))
	}

	discordClient := discord.NewClient(cfg.Discord, logger)
	oauthClient := discord.NewOAuthClient(cfg.Discord)
	mappingService := discord.NewMappingService(discordClient, cfg.Discord.MappingRefreshInterval(), logger)
	mappingService.Start(ctx)

	metrics := observability.NewMetrics()

	gatekeeper := auth.NewGatekeeper(auth.GatekeeperConfig{
		Resolvers: []auth.Resolver{
			auth.StaticKeyResolver(cfg.Auth.BotAPIKey),
			auth.BearerTokenResolver(tokens, logger),
			auth.SessionResolver(sessions, logger),
		},
		Membership: discordClient,
		Sessions:   sessions,
		AllowList:  auth.DefaultAllowList,
		Logger:     logger,
		Metrics:    metrics,
	})

	pool := pg.PoolHandle()
	requestRepo := repository.NewRequestRepository(pool)
	auditRepo := repository.NewAuditEventRepository(pool)

	cycleService, err := service.NewCycleService(cfg.Cycle)
	if err != nil {
		logger.Fatal("failed to init cycle service", zap.Error(err))
	}

	dispatcher := events.NewInMemoryDispatcher()
	auditService := service.NewAuditService(auditRepo)
	requestService := service.NewRequestService(requestRepo, cycleService, dispatcher)

	worker.StartAuditWorker(dispatcher, auditService, logger)

	app := fiber.New(fiber.Config{DisableStartupMessage: cfg.App.Env == "production"})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth: handlers.NewAuthHandler(handlers.AuthHandlerConfig{
			OAuth:       oauthClient,
			Guilds:      discordClient,
			Tokens:      tokens,
			Sessions:    sessions,
			SessionTTL:  cfg.Auth.SessionTTL(),
			FrontendURL: cfg.App.FrontendURL,
			BotAPIKey:   cfg.Auth.BotAPIKey,
			Logger:      logger,
		}),
		Requests:   handlers.NewRequestsHandler(requestService),
		Audit:      handlers.NewAuditHandler(auditService),
		Workload:   handlers.NewWorkloadHandler(requestService),
		Mappings:   handlers.NewMappingsHandler(mappingService),
		Gatekeeper: gatekeeper,
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
