package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadapter "github.com/hookline/notification-engine/internal/adapters/http"
	"github.com/hookline/notification-engine/internal/adapters/metrics"
	"github.com/hookline/notification-engine/internal/adapters/postgres"
	"github.com/hookline/notification-engine/internal/adapters/processors"
	"github.com/hookline/notification-engine/internal/adapters/redisbus"
	"github.com/hookline/notification-engine/internal/application"
)

type Runtime struct {
	cfg        Config
	logger     *slog.Logger
	httpServer *http.Server
	consumer   *redisbus.ActionConsumer
	cleanupFn  func(context.Context)
}

func NewRuntime(ctx context.Context, configPath string) (*Runtime, error) {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)
	logger.Info("bootstrapping notification engine", "http_port", cfg.HTTPPort)

	db, err := postgres.Open(ctx, cfg.DatabaseURL, cfg.MaxDBConns)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("gorm sql db: %w", err)
	}

	if err := postgres.Migrate(ctx, db); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	redisClient, err := redisbus.Connect(ctx, cfg.RedisURL)
	if err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	if err := redisClient.Ping(ctx).Err(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}

	repos := postgres.NewRepositories(db)

	svc := application.NewService(application.Dependencies{
		Bundles:        repos.Bundles,
		BehaviorGroups: repos.BehaviorGroups,
		Endpoints:      repos.Endpoints,
		Subscriptions:  repos.EmailSubscriptions,
		Histories:      repos.Histories,
		Logger:         logger,
	})

	dispatchMetrics := metrics.NewDispatchMetrics()
	resolver := application.NewResolver(repos.Endpoints, logger)
	dispatcher := application.NewDispatcher(application.DispatcherDependencies{
		Resolver:  resolver,
		Histories: repos.Histories,
		Metrics:   dispatchMetrics,
		Webhook: processors.NewWebhookProcessor(processors.WebhookConfig{
			Timeout:      cfg.WebhookTimeout,
			RetryMax:     cfg.WebhookRetryMax,
			RetryWaitMin: cfg.WebhookRetryWaitMin,
			RetryWaitMax: cfg.WebhookRetryWaitMax,
		}, logger),
		Email: processors.NewEmailProcessor(
			repos.EmailSubscriptions,
			redisbus.NewMailSender(redisClient, cfg.MailStream),
			logger,
		),
		EventBus: processors.NewEventBusProcessor(
			redisbus.NewStreamPublisher(redisClient, cfg.EgressStream),
			logger,
		),
		Logger: logger,
	})

	consumer := redisbus.NewActionConsumer(redisClient, dispatcher, redisbus.ActionConsumerConfig{
		Stream:   cfg.IngressStream,
		Group:    cfg.IngressGroup,
		Consumer: cfg.IngressConsumer,
	}, logger)

	handler := httpadapter.NewHandler(svc)
	router := httpadapter.NewRouter(handler, dispatchMetrics.Handler())
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return &Runtime{
		cfg:        cfg,
		logger:     logger,
		httpServer: httpServer,
		consumer:   consumer,
		cleanupFn: func(ctx context.Context) {
			_ = redisClient.Close()
			_ = sqlDB.Close()
		},
	}, nil
}

func (r *Runtime) RunAPI(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		r.logger.Info("http server started", "addr", r.httpServer.Addr)
		if err := r.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		r.logger.Info("shutdown signal received")
	case err := <-errCh:
		r.logger.Error("server failure", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = r.httpServer.Shutdown(shutdownCtx)
	r.cleanupFn(shutdownCtx)
	return nil
}

func (r *Runtime) RunWorker(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	r.logger.Info("action consumer started",
		"stream", r.cfg.IngressStream,
		"group", r.cfg.IngressGroup,
		"consumer", r.cfg.IngressConsumer,
	)
	err := r.consumer.Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	r.cleanupFn(shutdownCtx)
	return nil
}
