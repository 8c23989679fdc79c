package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"budgetsim/pkg/api"
	"budgetsim/pkg/cache"
	"budgetsim/pkg/cache/bloom"
	cachememory "budgetsim/pkg/cache/memory"
	cacheredis "budgetsim/pkg/cache/redis"
	"budgetsim/pkg/logging"
	promcollector "budgetsim/pkg/metrics/prometheus"
	"budgetsim/pkg/onboard"
	"budgetsim/pkg/sim"
	"budgetsim/pkg/store/postgres"
)

func main() {
	logger, err := logging.NewFromEnv()
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("starting budgetsim server")

	// Metrics.
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := promcollector.New("budgetsim", registry)

	// Datastore.
	dbConfig := postgres.DefaultConfig()
	if host := os.Getenv("DB_HOST"); host != "" {
		dbConfig.Host = host
	}
	if port := os.Getenv("DB_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			dbConfig.Port = p
		}
	}
	if user := os.Getenv("DB_USER"); user != "" {
		dbConfig.User = user
	}
	if password := os.Getenv("DB_PASSWORD"); password != "" {
		dbConfig.Password = password
	}
	if name := os.Getenv("DB_NAME"); name != "" {
		dbConfig.Database = name
	}
	if sslMode := os.Getenv("DB_SSLMODE"); sslMode != "" {
		dbConfig.SSLMode = sslMode
	}

	db, err := postgres.New(dbConfig)
	if err != nil {
		logger.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close()
	logger.Info("postgres connected", zap.String("host", dbConfig.Host), zap.String("database", dbConfig.Database))

	// Read cache: bloom-fronted memory layer, plus Redis when configured.
	layers := []cache.Layer{
		bloom.New(cachememory.New(cachememory.DefaultConfig()), 10000, 0.01),
	}
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		redisConfig := cacheredis.DefaultConfig()
		redisConfig.Addr = addr
		redisConfig.Password = os.Getenv("REDIS_PASSWORD")

		redisCache, err := cacheredis.New(redisConfig, logger)
		if err != nil {
			logger.Warn("redis unavailable, continuing with memory cache only", zap.Error(err))
		} else {
			layers = append(layers, redisCache)
			logger.Info("redis cache layer enabled", zap.String("addr", addr))
		}
	}
	readCache := cache.NewReadThrough(logger, collector, time.Minute, layers...)
	defer readCache.Close()

	// Domain services.
	pipeline := sim.New(db, sim.Config{Logger: logger, Metrics: collector})
	onboarding := onboard.New(db, logger)

	// HTTP server.
	serverConfig := api.DefaultServerConfig()
	if addr := os.Getenv("ADDR"); addr != "" {
		serverConfig.Address = addr
	}
	serverConfig.MetricsHandler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	server := api.NewServer(db, pipeline, onboarding, readCache, logger, collector, serverConfig)
	server.Start()
	logger.Info("http server listening", zap.String("addr", serverConfig.Address))

	// Wait for shutdown signal.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Stop(ctx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
