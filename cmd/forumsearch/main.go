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

	"github.com/kailas-cloud/forumsearch/internal/config"
	"github.com/kailas-cloud/forumsearch/internal/db"
	"github.com/kailas-cloud/forumsearch/internal/db/elastic"
	dbRedis "github.com/kailas-cloud/forumsearch/internal/db/redis"
	"github.com/kailas-cloud/forumsearch/internal/db/sqlstore"
	"github.com/kailas-cloud/forumsearch/internal/domain/search/link"
	"github.com/kailas-cloud/forumsearch/internal/domain/search/mode"
	logpkg "github.com/kailas-cloud/forumsearch/internal/logger"
	"github.com/kailas-cloud/forumsearch/internal/metrics"
	"github.com/kailas-cloud/forumsearch/internal/repository/resultcache"
	chiTransport "github.com/kailas-cloud/forumsearch/internal/transport/chi"
	healthuc "github.com/kailas-cloud/forumsearch/internal/usecase/health"
	legacyuc "github.com/kailas-cloud/forumsearch/internal/usecase/legacy"
	searchuc "github.com/kailas-cloud/forumsearch/internal/usecase/search"
	"github.com/kailas-cloud/forumsearch/internal/version"
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

	logger.Info("Starting forumsearch API server",
		zap.String("version", version.String()),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("index_hosts", cfg.Index.Hosts),
		zap.String("index_name", cfg.Index.Name),
		zap.Bool("legacy_enabled", cfg.Legacy.DSN != ""),
		zap.Bool("cache_enabled", cfg.Cache.Enabled),
	)

	// Register metrics explicitly (no init())
	metrics.Register()

	ctx := context.Background()
	links := link.New(cfg.Site.BaseURL)

	// Index client, optionally behind the result cache
	indexClient, err := elastic.NewClient(elastic.Config{
		URLs:      cfg.Index.Hosts,
		Username:  cfg.Index.Username,
		Password:  cfg.Index.Password,
		Sniff:     cfg.Index.Sniff,
		Timeout:   time.Duration(cfg.Index.TimeoutSec) * time.Second,
		UserAgent: version.UserAgent(),
		Logger:    logger,
	})
	if err != nil {
		logger.Fatal("Failed to create index client", zap.Error(err))
	}

	var index db.IndexSearcher = indexClient
	var cachePinger healthuc.Pinger
	if cfg.Cache.Enabled {
		cache, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Cache.Addrs,
			Password: cfg.Cache.Password,
		})
		if err != nil {
			logger.Fatal("Failed to create cache store", zap.Error(err))
		}
		defer cache.Close()

		if err := cache.WaitForReady(ctx, time.Duration(cfg.Cache.ReadinessTimeout)*time.Second); err != nil {
			logger.Fatal("Cache not ready", zap.Error(err))
		}
		logger.Info("Connected to result cache")

		index = resultcache.New(indexClient, cache,
			time.Duration(cfg.Cache.TTLSec)*time.Second, metrics.ResultCacheTotal, logger)
		cachePinger = cache
	}

	searchSvc := searchuc.New(index, links, searchuc.Config{
		IndexName: cfg.Index.Name,
		MaxLimit:  cfg.Search.MaxLimit,
		Timeout:   time.Duration(cfg.Index.TimeoutSec) * time.Second,
	})

	// Legacy relational backend (optional)
	var legacyFactory chiTransport.LegacyFactory
	var databasePinger healthuc.Pinger
	if cfg.Legacy.DSN != "" {
		store, err := sqlstore.Open(sqlstore.Config{
			Driver:       cfg.Legacy.Driver,
			DSN:          cfg.Legacy.DSN,
			MaxOpenConns: cfg.Legacy.MaxOpenConns,
			Timeout:      time.Duration(cfg.Legacy.TimeoutSec) * time.Second,
		})
		if err != nil {
			logger.Fatal("Failed to open legacy database", zap.Error(err))
		}
		defer func() { _ = store.Close() }()

		legacyFactory = newLegacyFactory(store, links, cfg.Legacy, logger)
		databasePinger = store
		logger.Info("Legacy search enabled",
			zap.String("driver", cfg.Legacy.Driver),
			zap.String("mode", cfg.Legacy.Mode),
		)
	}

	// Health service; unconfigured components stay nil interfaces
	healthSvc := healthuc.New(index, databasePinger, cachePinger)

	// Create chi server
	server := chiTransport.NewServer(searchSvc, legacyFactory, healthSvc, chiTransport.Options{
		DefaultBackend: cfg.Search.DefaultBackend,
		MaxLimit:       cfg.Search.MaxLimit,
	}, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Routes(r)

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

// newLegacyFactory returns a factory of per-request legacy models. A model
// accumulates clauses and bindings, so it is never shared between requests.
func newLegacyFactory(
	store db.RowQuerier,
	links link.Builder,
	cfg config.LegacyConfig,
	logger *zap.Logger,
) chiTransport.LegacyFactory {
	modeCfg := mode.Config{
		DefaultMode:           mode.Mode(cfg.Mode),
		StorageEngineOverride: cfg.ForceStorageEngine,
	}
	sources := []legacyuc.Source{
		legacyuc.DiscussionSource{TablePrefix: cfg.TablePrefix},
		legacyuc.CommentSource{TablePrefix: cfg.TablePrefix},
	}
	return func(forced mode.Mode) chiTransport.Searcher {
		m := legacyuc.New(store, links, modeCfg, logger, sources...)
		if forced != "" {
			m.ForceMode(forced)
		}
		return m
	}
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
					_ = json.NewEncoder(w).Encode(chiTransport.ErrorResponse{
						Code:    chiTransport.CodeInternal,
						Message: "internal error",
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
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			ctx := logpkg.ContextWithLogger(r.Context(), logger)
			ctx = logpkg.With(ctx, zap.String("request_id", requestID))
			reqLogger := logpkg.FromContext(ctx)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line; the query text is not logged
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("backend", r.URL.Query().Get("backend")),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
