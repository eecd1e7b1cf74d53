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
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/comidalab/buscaplato/internal/config"
	"github.com/comidalab/buscaplato/internal/db"
	dbRedis "github.com/comidalab/buscaplato/internal/db/redis"
	domcat "github.com/comidalab/buscaplato/internal/domain/catalog"
	"github.com/comidalab/buscaplato/internal/lexicon"
	logpkg "github.com/comidalab/buscaplato/internal/logger"
	"github.com/comidalab/buscaplato/internal/metrics"
	catalogrepo "github.com/comidalab/buscaplato/internal/repository/catalog"
	"github.com/comidalab/buscaplato/internal/repository/plancache"
	chiTransport "github.com/comidalab/buscaplato/internal/transport/chi"
	openaiPlanner "github.com/comidalab/buscaplato/internal/transport/openai"
	compileuc "github.com/comidalab/buscaplato/internal/usecase/compile"
	healthuc "github.com/comidalab/buscaplato/internal/usecase/health"
	searchuc "github.com/comidalab/buscaplato/internal/usecase/search"
	"github.com/comidalab/buscaplato/internal/version"
)

func main() {
	// .env is optional; real environments set variables directly.
	_ = godotenv.Load()

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

	logger.Info("Starting buscaplato API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("catalog_path", cfg.Catalog.Path),
		zap.Strings("cache_addrs", cfg.Database.Addrs),
	)

	// Load and augment the catalog
	dishes, err := catalogrepo.NewLoader(cfg.Catalog.Path, logger).Load()
	if err != nil {
		logger.Fatal("Failed to load catalog", zap.Error(err))
	}
	idx := domcat.NewIndex(dishes)
	restaurantNames := catalogrepo.RestaurantNames(dishes)

	lex := lexicon.New()
	if cfg.Lexicon.Path != "" {
		lex, err = lexicon.Load(cfg.Lexicon.Path)
		if err != nil {
			logger.Fatal("Failed to load lexicon overrides", zap.Error(err))
		}
		logger.Info("Lexicon overrides applied", zap.String("path", cfg.Lexicon.Path))
	}

	// Plan cache store is optional: no addrs means no cache.
	ctx := context.Background()
	var store *dbRedis.Store
	if len(cfg.Database.Addrs) > 0 {
		store, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Database.Addrs,
			Username: cfg.Database.Username,
			Password: cfg.Database.Password,
			DB:       cfg.Database.DB,
		})
		if err != nil {
			logger.Fatal("Failed to create cache store", zap.Error(err))
		}
		defer store.Close()

		if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
			logger.Fatal("Cache store not ready", zap.Error(err))
		}
		logger.Info("Connected to cache store")
	}

	// Register pipeline metrics explicitly (no init())
	metrics.RegisterPipelineMetrics()

	// Build planner chain — composition root
	var planner compileuc.Planner
	var plannerChecker healthuc.PlannerChecker
	if cfg.Enrichment.Enabled() {
		base := openaiPlanner.NewPlanner(&openaiPlanner.Config{
			APIKey:      cfg.Enrichment.APIKey,
			BaseURL:     cfg.Enrichment.BaseURL,
			Model:       cfg.Enrichment.Model,
			Temperature: cfg.Enrichment.Temperature,
			MaxTokens:   cfg.Enrichment.MaxTokens,
			Timeout:     time.Duration(cfg.Enrichment.TimeoutSec) * time.Second,
			User:        cfg.Enrichment.User,
			Provider:    cfg.Enrichment.Provider,
			Logger:      logger,
		})
		planner = base
		plannerChecker = base
		if store != nil {
			planner = plancache.New(
				base, store,
				cfg.Cache.KeyPrefix,
				time.Duration(cfg.Cache.TTLSec)*time.Second,
				metrics.PlanCacheTotal,
				logger,
			)
		}
		logger.Info("Planner enrichment enabled",
			zap.String("provider", cfg.Enrichment.Provider),
			zap.String("model", cfg.Enrichment.Model),
			zap.Bool("cached", store != nil),
		)
	} else {
		logger.Info("Planner enrichment disabled")
	}

	// Pass nil interface (not typed nil pointer!) when the store is absent.
	// Go gotcha: (*dbRedis.Store)(nil) wrapped in DBPinger != nil.
	var pinger db.Pinger
	if store != nil {
		pinger = store
	}

	// Create use case services
	compileSvc := compileuc.New(lex, idx, restaurantNames, planner, logger)
	searchSvc := searchuc.New(dishes, idx, lex, logger)
	healthSvc := healthuc.New(len(dishes), pinger, plannerChecker)

	// Create chi server
	server := chiTransport.NewServer(compileSvc, searchSvc, healthSvc, dishes, chiTransport.Limits{
		Default: cfg.Search.DefaultLimit,
		Max:     cfg.Search.MaxLimit,
	}, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Mount(r)

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
