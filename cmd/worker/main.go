package main

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

	"github.com/joho/godotenv"

	hhttp "newshub/internal/handler/http"
	mongoRepo "newshub/internal/infra/adapter/persistence/mongo"
	"newshub/internal/infra/db"
	"newshub/internal/infra/newsapi"
	"newshub/internal/infra/worker"
	"newshub/internal/observability/logging"
	ingestUC "newshub/internal/usecase/ingest"
	"newshub/pkg/config"
)

// The worker runs ingestion on its own, for deployments that keep the API
// and the scheduler in separate processes. It requires a real database and
// an upstream API key; unlike the API server there is nothing useful to do
// without them.
func main() {
	_ = godotenv.Load()

	logger := logging.NewLogger()
	slog.SetDefault(logger)

	apiKey := os.Getenv("NEWSDATA_API_KEY")
	if apiKey == "" {
		logger.Error("NEWSDATA_API_KEY must be set")
		os.Exit(1)
	}
	uri := os.Getenv("MONGODB_URI")
	if uri == "" {
		logger.Error("MONGODB_URI must be set")
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	connectCtx, connectCancel := context.WithTimeout(ctx, 15*time.Second)
	client, err := db.OpenMongo(connectCtx, uri)
	connectCancel()
	if err != nil {
		logger.Error("mongodb connection failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Disconnect(disconnectCtx); err != nil {
			logger.Error("mongodb disconnect failed", slog.Any("error", err))
		}
	}()
	logger.Info("connected to mongodb")

	database := client.Database(config.GetEnvString("MONGODB_DB", "newshubDB"))
	articles := mongoRepo.NewArticleRepo(database, logger)

	indexCtx, indexCancel := context.WithTimeout(ctx, 15*time.Second)
	if err := articles.EnsureIndexes(indexCtx); err != nil {
		logger.Warn("failed to ensure article indexes", slog.Any("error", err))
	}
	indexCancel()

	apiClient := newsapi.NewClient(newsapi.Config{
		APIKey:   apiKey,
		Endpoint: config.GetEnvString("NEWSDATA_ENDPOINT", newsapi.DefaultEndpoint),
		Timeout:  config.GetEnvDuration("NEWSDATA_TIMEOUT", newsapi.DefaultTimeout),
	})
	svc := ingestUC.NewService(articles, apiClient, logger)

	scheduler := worker.NewScheduler(svc, worker.LoadConfigFromEnv(logger), logger)
	if err := scheduler.Start(); err != nil {
		logger.Error("failed to start ingestion scheduler", slog.Any("error", err))
		os.Exit(1)
	}
	defer scheduler.Stop()

	metricsSrv := startMetricsServer(logger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down worker...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown failed", slog.Any("error", err))
	}
	logger.Info("worker stopped")
}

// startMetricsServer exposes Prometheus metrics on the standard exporter port.
func startMetricsServer(logger *slog.Logger) *http.Server {
	addr := fmt.Sprintf(":%d", config.GetEnvInt("METRICS_PORT", 9091))

	mux := http.NewServeMux()
	mux.Handle("GET /metrics", hhttp.MetricsHandler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("metrics server starting", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", slog.Any("error", err))
		}
	}()

	return srv
}
