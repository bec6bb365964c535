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
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/siftlab/assessrec/internal/config"
	"github.com/siftlab/assessrec/internal/corpus"
	"github.com/siftlab/assessrec/internal/domain"
	logpkg "github.com/siftlab/assessrec/internal/logger"
	"github.com/siftlab/assessrec/internal/metrics"
	"github.com/siftlab/assessrec/internal/transport/httpapi"
	openaiEmb "github.com/siftlab/assessrec/internal/transport/openai"
	healthuc "github.com/siftlab/assessrec/internal/usecase/health"
	recommenduc "github.com/siftlab/assessrec/internal/usecase/recommend"
	"github.com/siftlab/assessrec/internal/version"
)

func main() {
	// .env is optional; real deployments set the environment directly.
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

	logger.Info("Starting assessrec API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("corpus_csv", cfg.Corpus.CSVPath),
		zap.String("embedding_model", cfg.Embedding.Model),
	)

	// Register metrics explicitly (no init())
	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterRecommendationMetrics()

	embedder := openaiEmb.NewEmbedder(&openaiEmb.Config{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Provider:   cfg.Embedding.Provider,
		Logger:     logger,
	})

	records, err := corpus.LoadCSV(cfg.Corpus.CSVPath)
	if err != nil {
		logger.Fatal("Failed to load assessment corpus", zap.Error(err))
	}
	logger.Info("Corpus loaded", zap.Int("assessments", len(records)))

	ctx := context.Background()
	index, err := openIndex(ctx, cfg, records, embedder, logger)
	if err != nil {
		logger.Fatal("Failed to build corpus index", zap.Error(err))
	}
	logger.Info("Corpus index ready",
		zap.Int("assessments", index.Len()),
		zap.Int("dimensions", index.Dim()),
		zap.String("model", index.Model()),
	)

	// A query vector of the wrong dimension is a configuration error, so
	// probe the provider once and refuse to start on a mismatch instead of
	// failing every request.
	probe, err := embedder.Embed(ctx, "dimension probe")
	if err != nil {
		logger.Fatal("Embedding provider probe failed", zap.Error(err))
	}
	if len(probe.Embedding) != index.Dim() {
		logger.Fatal("Embedding dimension mismatch",
			zap.Int("provider", len(probe.Embedding)),
			zap.Int("index", index.Dim()),
		)
	}

	recSvc := recommenduc.New(index, embedder)
	healthSvc := healthuc.New(index, embedder)

	server := httpapi.NewServer(recSvc, healthSvc)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(metrics.Middleware())
	server.Register(r)

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

// openIndex loads the persisted embedding artifact when it matches the
// corpus, and rebuilds it through the provider otherwise. The CSV is the
// source of truth; a stale or incompatible artifact is overwritten.
func openIndex(
	ctx context.Context,
	cfg config.Config,
	records []domain.Assessment,
	embedder domain.Embedder,
	logger *zap.Logger,
) (*corpus.Index, error) {
	index, err := corpus.LoadArtifact(cfg.Corpus.ArtifactPath, records, cfg.Embedding.Model, cfg.Embedding.Dimensions)
	if err == nil {
		logger.Info("Loaded embedding artifact", zap.String("path", cfg.Corpus.ArtifactPath))
		return index, nil
	}
	if errors.Is(err, domain.ErrArtifactIncompatible) {
		logger.Warn("Embedding artifact incompatible with corpus, rebuilding", zap.Error(err))
	} else if os.IsNotExist(err) || errors.Is(err, os.ErrNotExist) {
		logger.Info("No embedding artifact found, building from provider")
	} else {
		logger.Warn("Failed to read embedding artifact, rebuilding", zap.Error(err))
	}

	builder := corpus.NewBuilder(embedder, cfg.Embedding.Model, cfg.Embedding.BuildWorkers, logger)
	index, err = builder.Build(ctx, records)
	if err != nil {
		return nil, fmt.Errorf("build index: %w", err)
	}

	if err := corpus.SaveArtifact(index, cfg.Corpus.ArtifactPath); err != nil {
		logger.Warn("Failed to persist embedding artifact", zap.Error(err))
	} else {
		logger.Info("Persisted embedding artifact", zap.String("path", cfg.Corpus.ArtifactPath))
	}
	return index, nil
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

			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line, one per request
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
