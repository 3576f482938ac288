package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/sortezap/sortezap-backend/api/routes"
	"github.com/sortezap/sortezap-backend/internal/checkout"
	"github.com/sortezap/sortezap-backend/internal/transactions"
	"github.com/sortezap/sortezap-backend/internal/webhooks"
	"github.com/sortezap/sortezap-backend/pkg/config"
	"github.com/sortezap/sortezap-backend/pkg/lirapay"
	"github.com/sortezap/sortezap-backend/pkg/logger"
	"github.com/sortezap/sortezap-backend/pkg/metrics"
	"github.com/sortezap/sortezap-backend/pkg/redis"
)

const sweepInterval = time.Minute

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	var redisPinger redis.Pinger
	var dedupeStore redis.IdempotencyStore
	if cfg.Redis.Enabled() {
		redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
		redisPinger = redisClient
		dedupeStore = redisClient
	} else {
		logg.Warn(context.Background(), "redis not configured, webhook deliveries are not deduplicated")
	}

	var gatewayClient transactions.GatewayClient
	if cfg.LiraPay.HasSecret() {
		client, err := lirapay.NewClient(context.Background(), cfg.LiraPay, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to build lirapay client", err)
			os.Exit(1)
		}
		gatewayClient = client
	} else {
		logg.Warn(context.Background(), "lirapay api secret not configured, payment operations will fail")
	}

	promRegistry := prometheus.NewRegistry()
	checkoutMetrics := metrics.NewCheckoutMetrics(promRegistry)

	transactionService := transactions.NewService(gatewayClient, cfg.LiraPay.WebhookURL, logg, checkoutMetrics)

	sessionRegistry := checkout.NewRegistry()
	go func() {
		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()
		for range ticker.C {
			if removed := sessionRegistry.Sweep(cfg.Checkout.SessionTTL); removed > 0 {
				ctx := logg.WithField(context.Background(), "removed", removed)
				logg.Info(ctx, "swept finished checkout sessions")
			}
		}
	}()

	var webhookGuard *webhooks.Guard
	if dedupeStore != nil {
		webhookGuard = webhooks.NewGuard(dedupeStore, cfg.Redis.WebhookDedupeTTL)
	}
	webhookService := webhooks.NewService(sessionRegistry, webhookGuard, logg, checkoutMetrics)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			redisPinger,
			transactionService,
			sessionRegistry,
			webhookService,
			checkoutMetrics,
			promRegistry,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
