package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/emberline/wildfire-risk-service/internal/cache"
	"github.com/emberline/wildfire-risk-service/internal/circuitbreaker"
	"github.com/emberline/wildfire-risk-service/internal/client"
	"github.com/emberline/wildfire-risk-service/internal/config"
	"github.com/emberline/wildfire-risk-service/internal/history"
	httphandler "github.com/emberline/wildfire-risk-service/internal/http"
	"github.com/emberline/wildfire-risk-service/internal/observability"
	"github.com/emberline/wildfire-risk-service/internal/risk"
	"github.com/emberline/wildfire-risk-service/internal/service"
	"github.com/emberline/wildfire-risk-service/internal/store"
)

func main() {
	logger, err := observability.NewLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("config", zap.Error(err))
	}

	st, err := store.Open(cfg.DatabasePath)
	if err != nil {
		logger.Fatal("open store", zap.Error(err))
	}
	defer func() { _ = st.Close() }()
	if err := st.Seed(context.Background()); err != nil {
		logger.Fatal("seed store", zap.Error(err))
	}
	logger.Info("store ready", zap.String("path", cfg.DatabasePath))

	var fetcher client.WeatherFetcher
	if cfg.WeatherAPIKey != "" {
		weatherClient, err := client.NewOpenWeatherClientWithRetry(
			cfg.WeatherAPIKey,
			cfg.WeatherAPIURL,
			cfg.WeatherAPITimeout,
			cfg.RetryAttempts,
			cfg.RetryBaseDelay,
			cfg.RetryMaxDelay,
		)
		if err != nil {
			logger.Fatal("weather client", zap.Error(err))
		}
		cb := circuitbreaker.New(circuitbreaker.Config{
			FailureThreshold: cfg.BreakerFailureThreshold,
			SuccessThreshold: cfg.BreakerSuccessThreshold,
			Timeout:          cfg.BreakerTimeout,
			OnStateChange: func(from, to circuitbreaker.State) {
				logger.Warn("weather API circuit breaker transition",
					zap.String("from", from.String()), zap.String("to", to.String()))
				observability.CircuitBreakerState.Set(breakerStateValue(to))
			},
		})
		weatherClient.SetCircuitBreaker(cb)
		fetcher = weatherClient
		logger.Info("live weather fetching enabled",
			zap.Int("breaker_failure_threshold", cfg.BreakerFailureThreshold),
			zap.Duration("breaker_timeout", cfg.BreakerTimeout))
	} else {
		logger.Warn("WEATHER_API_KEY not set; assessments use stored observations only")
	}

	var obsCache cache.Cache
	cacheType := "memory"
	var memcacheCloser *cache.MemcachedCache
	switch cfg.CacheBackend {
	case "memcached":
		mc, err := cache.NewMemcachedCache(cfg.MemcachedAddrs, cfg.MemcachedTimeout, cfg.MemcachedMaxIdleConns)
		if err != nil {
			logger.Fatal("memcached cache", zap.Error(err))
		}
		memcacheCloser = mc
		obsCache = mc
		cacheType = "memcached"
		logger.Info("cache backend: memcached", zap.String("addrs", cfg.MemcachedAddrs))
	default:
		obsCache = cache.NewInMemoryCache()
		logger.Info("cache backend: in_memory")
	}

	aggregator := history.NewAggregator(st, cfg.LookbackDays, cfg.MovingAverageWindow, nil, logger)
	scorer := risk.NewScorer(risk.DefaultFactors(), cfg.DroughtIndex, nil)
	riskService := service.NewRiskService(
		st, fetcher, obsCache, cacheType, cfg.CacheTTL,
		aggregator, scorer, nil, logger,
	)

	var cachePing func() error
	if memcacheCloser != nil {
		cachePing = memcacheCloser.Ping
	}
	handler := httphandler.NewHandler(riskService, st.Ping, cachePing, logger)

	var limiter *rate.Limiter
	if cfg.RateLimitRPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)
	}
	router := httphandler.NewRouter(handler, logger, limiter, cfg.RequestTimeout)

	srv := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
	}

	go func() {
		logger.Info("server starting", zap.String("addr", ":"+cfg.ServerPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	<-ctx.Done()
	stop()

	logger.Info("graceful shutdown triggered")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}

	waitCtx, waitCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer waitCancel()
	if err := httphandler.WaitForInFlight(waitCtx, 100*time.Millisecond); err != nil {
		logger.Warn("in-flight requests not completed",
			zap.Error(err), zap.Int64("remaining", httphandler.InFlightCount()))
	}

	if err := observability.FlushTelemetry(context.Background(), logger); err != nil {
		logger.Error("telemetry flush", zap.Error(err))
	}

	if memcacheCloser != nil {
		if err := memcacheCloser.Close(); err != nil {
			logger.Error("memcached close", zap.Error(err))
		}
	}
	logger.Info("shutdown complete")
}

// breakerStateValue maps breaker states onto the gauge scale:
// 0 closed, 1 half-open, 2 open.
func breakerStateValue(s circuitbreaker.State) float64 {
	switch s {
	case circuitbreaker.StateHalfOpen:
		return 1
	case circuitbreaker.StateOpen:
		return 2
	default:
		return 0
	}
}
