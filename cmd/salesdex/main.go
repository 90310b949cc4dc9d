package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/truestate/salesdex/internal/config"
	"github.com/truestate/salesdex/internal/db"
	dbRedis "github.com/truestate/salesdex/internal/db/redis"
	"github.com/truestate/salesdex/internal/ingest"
	logpkg "github.com/truestate/salesdex/internal/logger"
	"github.com/truestate/salesdex/internal/metrics"
	"github.com/truestate/salesdex/internal/repository/qcache"
	"github.com/truestate/salesdex/internal/repository/snapshot"
	chiTransport "github.com/truestate/salesdex/internal/transport/chi"
	healthuc "github.com/truestate/salesdex/internal/usecase/health"
	metadatauc "github.com/truestate/salesdex/internal/usecase/metadata"
	queryuc "github.com/truestate/salesdex/internal/usecase/query"
	"github.com/truestate/salesdex/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting salesdex API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("data_path", cfg.Data.Path),
		zap.Bool("cache_enabled", cfg.Cache.Enabled),
	)

	// Register query metrics explicitly (no init())
	metrics.RegisterQueryMetrics()

	// Snapshot store: empty and not ready until the CSV load completes.
	// The transport rejects queries with 503 during that window.
	snap := snapshot.New()

	// Optional Redis-backed result page cache
	var cacheStore db.Store
	if cfg.Cache.Enabled {
		cacheStore, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Cache.Addrs,
			Password: cfg.Cache.Password,
		})
		if err != nil {
			logger.Fatal("Failed to create cache store", zap.Error(err))
		}
		defer cacheStore.Close()

		ctx := context.Background()
		timeout := time.Duration(cfg.Cache.ReadinessTimeout) * time.Second
		if err := cacheStore.WaitForReady(ctx, timeout); err != nil {
			logger.Fatal("Cache backend not ready", zap.Error(err))
		}
		logger.Info("Connected to cache backend", zap.Strings("addrs", cfg.Cache.Addrs))
	}

	// Create use case services
	querySvc := queryuc.New(snap)
	if cacheStore != nil {
		ttl := time.Duration(cfg.Cache.TTLSec) * time.Second
		querySvc = querySvc.WithCache(qcache.New(cacheStore, ttl, metrics.PageCacheTotal, logger))
	}
	metadataSvc := metadatauc.New(snap)

	var cachePinger healthuc.CachePinger
	if cacheStore != nil {
		cachePinger = cacheStore
	}
	healthSvc := healthuc.New(snap, cachePinger)

	// Load the dataset asynchronously; the process serves 503 until done.
	go loadDataset(snap, cfg.Data.Path, logger)

	// Create chi server
	server := chiTransport.NewServer(querySvc, metadataSvc, healthSvc).
		WithPagination(chiTransport.Pagination{
			DefaultPageSize: cfg.Query.DefaultPageSize,
			MaxPageSize:     cfg.Query.MaxPageSize,
		})

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())

	r.Get("/api/v1/sales", server.GetSales)
	r.Get("/api/v1/sales/metadata", server.GetSalesMetadata)
	r.Get("/health", server.HealthCheck)
	r.Get("/metrics", server.Metrics)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// loadDataset runs the one-time ingestion and publishes the snapshot.
// A load failure is fatal: the process cannot serve anything useful without
// the dataset.
func loadDataset(snap *snapshot.Store, path string, logger *zap.Logger) {
	start := time.Now()

	records, err := ingest.ReadFile(path)
	if err != nil {
		logger.Fatal("Failed to load dataset", zap.String("path", path), zap.Error(err))
	}

	snap.Load(records)
	metrics.DatasetRows.Set(float64(len(records)))
	metrics.DatasetLoadDuration.Observe(time.Since(start).Seconds())

	logger.Info("Dataset loaded",
		zap.Int("rows", len(records)),
		zap.Duration("took", time.Since(start)),
	)
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			// Set X-Request-ID in response header
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
