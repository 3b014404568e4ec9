package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gov-platform/notification-worker/internal/cache"
	"github.com/gov-platform/notification-worker/internal/clients"
	"github.com/gov-platform/notification-worker/internal/config"
	"github.com/gov-platform/notification-worker/internal/consumer"
	"github.com/gov-platform/notification-worker/internal/queue"
	"github.com/gov-platform/notification-worker/internal/repository"
	"github.com/gov-platform/notification-worker/internal/routes"
	"github.com/gov-platform/notification-worker/internal/services"
	"github.com/gov-platform/notification-worker/internal/templates"
	"github.com/gov-platform/notification-worker/pkg/logger"
	"github.com/gov-platform/notification-worker/pkg/metrics"
	"github.com/gov-platform/notification-worker/pkg/retry"
	"github.com/streadway/amqp"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logr := logger.New(cfg.LogLevel)
	logr.Info("starting notification worker", slog.String("app", cfg.AppName))

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{TranslateError: true})
	if err != nil {
		logr.Error("failed to connect database", slog.Any("error", err))
		os.Exit(1)
	}

	ledger, err := repository.NewLedgerStore(db, cfg.LedgerTable)
	if err != nil {
		logr.Error("failed to prepare delivery ledger", slog.Any("error", err))
		os.Exit(1)
	}

	var templateCache cache.Cache
	if cfg.RedisURL != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisURL})
		defer rdb.Close()
		templateCache = cache.NewRedis(rdb, cfg.TemplateCacheTTL)
	} else {
		templateCache = cache.NewMemory(cfg.TemplateCacheTTL)
	}

	contentClient := templates.NewContentClient(cfg.TemplateServiceURL, cfg.ServiceToken, cfg.ClientTimeout)
	templateStore := templates.NewStore(contentClient, templateCache, logr)

	profileClient := clients.NewProfileClient(cfg.ProfileServiceURL, cfg.ServiceToken, cfg.ClientTimeout)
	delegationClient := clients.NewDelegationClient(cfg.DelegationServiceURL, cfg.ServiceToken, cfg.ClientTimeout)
	registryClient := clients.NewRegistryClient(cfg.RegistryServiceURL, cfg.ServiceToken, cfg.ClientTimeout)
	featureClient := clients.NewFeatureClient(cfg.FeatureServiceURL, cfg.ServiceToken, cfg.ClientTimeout)

	emailTransport := services.NewHTTPEmailTransport(
		cfg.EmailEndpoint, cfg.EmailAPIKey, cfg.EmailFromAddress, cfg.EmailFromName, cfg.ClientTimeout)
	pushTransport := services.NewHTTPPushTransport(cfg.PushEndpoint, cfg.PushAPIKey, cfg.ClientTimeout)

	conn, err := amqp.Dial(cfg.RabbitURL)
	if err != nil {
		logr.Error("failed to connect rabbitmq", slog.Any("error", err))
		os.Exit(1)
	}
	defer conn.Close()

	publisher, err := queue.NewPublisher(conn, cfg.Exchange, cfg.RoutingKey)
	if err != nil {
		logr.Error("failed to open publisher channel", slog.Any("error", err))
		os.Exit(1)
	}
	defer publisher.Close()

	retryCfg := retry.Config{
		MaxAttempts:    cfg.RetryMaxAttempts,
		InitialBackoff: cfg.RetryInitialBackoff,
		MaxBackoff:     cfg.RetryMaxBackoff,
	}
	metricsCollector := metrics.New()

	orchestrator := services.NewOrchestrator(
		services.NewQuietHours(cfg.DispatchStartHour, cfg.DispatchEndHour, logr),
		ledger,
		services.NewRecipientResolver(profileClient),
		templateStore,
		services.NewEmailDispatcher(emailTransport, featureClient, registryClient, retryCfg, logr),
		services.NewPushDispatcher(pushTransport, retryCfg, logr),
		services.NewFanoutResolver(delegationClient, registryClient, featureClient, publisher, cfg.FanoutScope, logr),
		metricsCollector,
		logr,
	)

	base := consumer.NewBaseConsumer(
		conn,
		cfg.Exchange,
		cfg.RoutingKey,
		cfg.Queue,
		cfg.DeadLetterQueue,
		cfg.PrefetchCount,
		cfg.WorkerCount,
		logr,
	)
	dispatchConsumer := consumer.NewDispatchConsumer(base, orchestrator, logr, cfg.MaxDeliveries)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	started := time.Now()
	httpSrv := startHTTPServer(cfg.HTTPPort, metricsCollector, logr, started)

	if err := dispatchConsumer.Start(ctx); err != nil {
		logr.Error("dispatch consumer exited", slog.Any("error", err))
	}

	shutdownHTTP(httpSrv, logr)
	logr.Info("notification worker stopped")
}

func startHTTPServer(port string, m *metrics.Metrics, logr *slog.Logger, started time.Time) *http.Server {
	if port == "" {
		port = "8083"
	}
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: routes.NewRouter(m, started),
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Error("http server error", slog.Any("error", err))
		}
	}()
	return srv
}

func shutdownHTTP(srv *http.Server, logr *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logr.Error("failed to shutdown http server", slog.Any("error", err))
	}
}
