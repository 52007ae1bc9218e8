package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/SagFerNando/TELNET/internal/api/http"
	"github.com/SagFerNando/TELNET/internal/api/http/handlers"
	"github.com/SagFerNando/TELNET/internal/auth"
	"github.com/SagFerNando/TELNET/internal/config"
	"github.com/SagFerNando/TELNET/internal/events"
	"github.com/SagFerNando/TELNET/internal/observability"
	"github.com/SagFerNando/TELNET/internal/persistence"
	"github.com/SagFerNando/TELNET/internal/repository"
	"github.com/SagFerNando/TELNET/internal/repository/memory"
	"github.com/SagFerNando/TELNET/internal/service"
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

	var (
		ticketRepo   repository.TicketRepository
		profileRepo  repository.ProfileRepository
		messageRepo  repository.MessageRepository
		activityRepo repository.ActivityRepository
	)
	if pool := pg.PoolHandle(); pool != nil {
		ticketRepo = repository.NewTicketRepository(pool)
		profileRepo = repository.NewProfileRepository(pool)
		messageRepo = repository.NewMessageRepository(pool)
		activityRepo = repository.NewActivityRepository(pool)
	} else {
		repos := memory.NewRepositories()
		ticketRepo = repos.Tickets
		profileRepo = repos.Profiles
		messageRepo = repos.Messages
		activityRepo = repos.Activities
	}

	dispatcher := events.NewInMemoryDispatcher()

	workflowService := service.NewWorkflowService(service.WorkflowDependencies{
		TicketRepo:   ticketRepo,
		ProfileRepo:  profileRepo,
		ActivityRepo: activityRepo,
		Dispatcher:   dispatcher,
	})
	chatService := service.NewChatService(service.ChatDependencies{
		TicketRepo:  ticketRepo,
		MessageRepo: messageRepo,
		Dispatcher:  dispatcher,
	})
	advisorService := service.NewAdvisorService(profileRepo)
	identityService := service.NewIdentityService(profileRepo)
	statsService := service.NewStatsService(ticketRepo, profileRepo)
	authService := service.NewAuthService(cfg.Auth, profileRepo)

	notificationService := service.NewNotificationService(dispatcher, logger, redis.Client, cfg.Redis.EventChannel)
	notificationService.RegisterHandlers()

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), profileRepo)

	metrics := observability.NewMetrics()
	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService, identityService),
		Tickets:        handlers.NewTicketsHandler(workflowService),
		Experts:        handlers.NewExpertsHandler(identityService, advisorService, workflowService),
		Messages:       handlers.NewMessagesHandler(chatService),
		Stats:          handlers.NewStatsHandler(statsService),
		AuthMiddleware: authMiddleware,
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
