package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/tagquery/internal/config"
	dbRedis "github.com/kailas-cloud/tagquery/internal/db/redis"
	"github.com/kailas-cloud/tagquery/internal/domain/corpus"
	logpkg "github.com/kailas-cloud/tagquery/internal/logger"
	"github.com/kailas-cloud/tagquery/internal/metrics"
	"github.com/kailas-cloud/tagquery/internal/repository/corpusfs"
	"github.com/kailas-cloud/tagquery/internal/repository/resultcache"
	chiTransport "github.com/kailas-cloud/tagquery/internal/transport/chi"
	healthuc "github.com/kailas-cloud/tagquery/internal/usecase/health"
	imageinfouc "github.com/kailas-cloud/tagquery/internal/usecase/imageinfo"
	searchuc "github.com/kailas-cloud/tagquery/internal/usecase/search"
	vocabularyuc "github.com/kailas-cloud/tagquery/internal/usecase/vocabulary"
	"github.com/kailas-cloud/tagquery/internal/version"
)

func main() {
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

	logger.Info("Starting tagquery server",
		zap.String("version", version.String()),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Bool("cache_enabled", cfg.Cache.Enabled),
	)

	metrics.RegisterSearchMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Corpus and vocabulary are loaded once and shared read-only by all requests.
	c, err := corpusfs.New(corpusfs.Config{
		ImageList: cfg.Data.ImageList,
		TagDir:    cfg.Data.TagDir,
		Workers:   cfg.Data.LoadWorkers,
	}, logger).Load(ctx)
	if err != nil {
		logger.Fatal("Failed to load corpus", zap.Error(err))
	}
	metrics.CorpusEntries.WithLabelValues("tagged").Set(float64(c.ProfileCount()))
	metrics.CorpusEntries.WithLabelValues("untagged").Set(float64(c.Len() - c.ProfileCount()))

	vocab, err := corpusfs.LoadVocabulary(cfg.Data.Vocabulary)
	if err != nil {
		logger.Fatal("Failed to load vocabulary", zap.Error(err))
	}
	logger.Info("Vocabulary loaded", zap.Int("tags", vocab.Len()))

	// Search chain: engine -> optional result cache.
	engine := searchuc.NewEngine(c, cfg.Search.MaxResults)
	var searcher searchuc.Searcher = engine

	// Pass nil interface (not typed nil pointer!) if the cache is off.
	var cachePinger healthuc.CachePinger
	if cfg.Cache.Enabled {
		store, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:          cfg.Cache.Addrs,
			Password:       cfg.Cache.Password,
			ClientCacheTTL: time.Duration(cfg.Cache.ClientCacheTTLSec) * time.Second,
		})
		if err != nil {
			logger.Fatal("Failed to create cache store", zap.Error(err))
		}
		defer store.Close()

		if err := store.WaitForReady(ctx, time.Duration(cfg.Cache.ReadinessTimeout)*time.Second); err != nil {
			logger.Fatal("Cache store not ready", zap.Error(err))
		}
		logger.Info("Connected to cache store", zap.Strings("addrs", cfg.Cache.Addrs))

		searcher = resultcache.New(engine, store, resultcache.Options{
			Fingerprint: c.Fingerprint(),
			MaxResults:  engine.MaxResults(),
			TTL:         time.Duration(cfg.Cache.TTLSec) * time.Second,
		}, metrics.ResultCacheTotal, logger)
		cachePinger = store
	}

	vocabSvc := vocabularyuc.New(vocab)
	searchSvc := searchuc.New(searcher)
	imageSvc := imageinfouc.New(c, vocabSvc)
	healthSvc := healthuc.New(c, cachePinger)

	opts := chiTransport.Options{
		IndexHTML:      readIndex(cfg.Data.IndexHTML, logger),
		TagFilterLimit: cfg.Search.TagFilterLimit,
	}
	if cfg.Data.ImageDir != "" {
		root, err := os.OpenRoot(cfg.Data.ImageDir)
		if err != nil {
			logger.Fatal("Failed to open image dir", zap.String("dir", cfg.Data.ImageDir), zap.Error(err))
		}
		defer root.Close()
		opts.Images = root
	}

	server := chiTransport.NewServer(searchSvc, vocabSvc, imageSvc, healthSvc, opts, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Register(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// readIndex loads the index page. A missing page only disables GET /.
func readIndex(path string, logger *zap.Logger) []byte {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("Index page unavailable", zap.String("path", path), zap.Error(err))
		return nil
	}
	return data
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					if rvr == http.ErrAbortHandler {
						panic(rvr)
					}
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.String("path", r.URL.Path),
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
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			ctx := logpkg.ContextWithLogger(r.Context(), logger)
			ctx = logpkg.With(ctx, zap.String("request_id", requestID))
			reqLogger := logpkg.FromContext(ctx)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

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

// Compile-time checks for the wiring above.
var _ healthuc.CorpusStats = (*corpus.Corpus)(nil)

var _ searchuc.Searcher = (*resultcache.CachedSearcher)(nil)
