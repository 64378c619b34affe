package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"newshub/internal/infra/adapter/persistence/memory"
	mongoRepo "newshub/internal/infra/adapter/persistence/mongo"
	"newshub/internal/infra/db"
	"newshub/internal/infra/newsapi"
	"newshub/internal/infra/worker"
	"newshub/internal/observability/logging"
	"newshub/internal/repository"
	"newshub/pkg/config"

	ingestUC "newshub/internal/usecase/ingest"
	newsUC "newshub/internal/usecase/news"
	statsUC "newshub/internal/usecase/stats"
	userUC "newshub/internal/usecase/user"

	hhttp "newshub/internal/handler/http"
	hauth "newshub/internal/handler/http/auth"
	"newshub/internal/handler/http/middleware"
	hnews "newshub/internal/handler/http/news"
	"newshub/internal/handler/http/requestid"
	huser "newshub/internal/handler/http/user"
)

func main() {
	// .env is optional; real deployments configure the environment directly.
	_ = godotenv.Load()

	logger := logging.NewLogger()
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stores, cleanup := initStores(ctx, logger)
	defer cleanup()

	scheduler := initScheduler(logger, stores.articles)
	if scheduler != nil {
		defer scheduler.Stop()
	}

	handler := buildHandler(logger, stores)
	runServer(ctx, cancel, logger, handler)
}

// stores bundles the selected persistence adapters.
type stores struct {
	articles repository.ArticleRepository
	users    repository.UserRepository
	pinger   hhttp.Pinger
}

// initStores connects to MongoDB when MONGODB_URI is set and falls back to
// the in-memory store otherwise, so the API stays usable without a database.
func initStores(ctx context.Context, logger *slog.Logger) (stores, func()) {
	uri := os.Getenv("MONGODB_URI")
	if uri == "" {
		logger.Warn("MONGODB_URI not set, using in-memory store (data is lost on restart)")
		return stores{
			articles: memory.NewArticleRepo(),
			users:    memory.NewUserRepo(),
		}, func() {}
	}

	connectCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	client, err := db.OpenMongo(connectCtx, uri)
	if err != nil {
		logger.Error("mongodb connection failed, falling back to in-memory store",
			slog.Any("error", err))
		return stores{
			articles: memory.NewArticleRepo(),
			users:    memory.NewUserRepo(),
		}, func() {}
	}
	logger.Info("connected to mongodb")

	database := client.Database(config.GetEnvString("MONGODB_DB", "newshubDB"))
	articles := mongoRepo.NewArticleRepo(database, logger)

	// Best effort: a failed index build degrades upsert performance but the
	// unique key is still enforced by the upsert filter.
	if err := articles.EnsureIndexes(connectCtx); err != nil {
		logger.Warn("failed to ensure article indexes", slog.Any("error", err))
	}

	cleanup := func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Disconnect(disconnectCtx); err != nil {
			logger.Error("mongodb disconnect failed", slog.Any("error", err))
		}
	}

	return stores{
		articles: articles,
		users:    mongoRepo.NewUserRepo(database),
		pinger: hhttp.PingerFunc(func(ctx context.Context) error {
			return client.Ping(ctx, readpref.Primary())
		}),
	}, cleanup
}

// initScheduler starts hourly ingestion when an API key is configured.
// Without a key the query API still serves whatever the store holds.
func initScheduler(logger *slog.Logger, articles repository.ArticleRepository) *worker.Scheduler {
	apiKey := os.Getenv("NEWSDATA_API_KEY")
	if apiKey == "" {
		logger.Warn("NEWSDATA_API_KEY not set, ingestion disabled")
		return nil
	}

	client := newsapi.NewClient(newsapi.Config{
		APIKey:   apiKey,
		Endpoint: config.GetEnvString("NEWSDATA_ENDPOINT", newsapi.DefaultEndpoint),
		Timeout:  config.GetEnvDuration("NEWSDATA_TIMEOUT", newsapi.DefaultTimeout),
	})
	svc := ingestUC.NewService(articles, client, logger)

	scheduler := worker.NewScheduler(svc, worker.LoadConfigFromEnv(logger), logger)
	if err := scheduler.Start(); err != nil {
		logger.Error("failed to start ingestion scheduler", slog.Any("error", err))
		os.Exit(1)
	}
	return scheduler
}

// buildHandler wires the route table and the middleware chain.
func buildHandler(logger *slog.Logger, st stores) http.Handler {
	newsSvc := &newsUC.Service{Repo: st.articles}
	userSvc := &userUC.Service{
		Repo:          st.users,
		RoleOverrides: loadRoleOverrides(),
	}
	statsSvc := &statsUC.Service{Articles: st.articles, Users: st.users}

	verifier := hauth.NewVerifierFromEnv(logger)

	mux := http.NewServeMux()
	mux.Handle("GET /api/news", hnews.ListHandler{Svc: newsSvc, Logger: logger})
	mux.Handle("POST /user", hauth.RequireUser(verifier, huser.LoginHandler{Svc: userSvc, Logger: logger}))
	mux.Handle("GET /user/role", hauth.RequireUser(verifier, huser.RoleHandler{Svc: userSvc, Logger: logger}))
	mux.Handle("GET /stats", hhttp.StatsHandler{Svc: statsSvc, Logger: logger})
	mux.Handle("GET /health", hhttp.HealthHandler{Store: st.pinger, Version: getVersion()})
	mux.Handle("GET /metrics", hhttp.MetricsHandler())

	return applyMiddleware(logger, mux)
}

// loadRoleOverrides parses ROLE_OVERRIDES, a comma-separated list of
// email=role pairs forced on every login.
func loadRoleOverrides() map[string]string {
	overrides := map[string]string{}
	for _, pair := range config.GetEnvStringList("ROLE_OVERRIDES", nil) {
		email, role, ok := strings.Cut(pair, "=")
		if !ok || email == "" || role == "" {
			slog.Warn("ignoring malformed role override", slog.String("pair", pair))
			continue
		}
		overrides[email] = role
	}
	return overrides
}

// applyMiddleware wraps the handler in the shared middleware chain.
// Order (outermost first): CORS, request ID, rate limit, recovery, logging,
// body limit, metrics.
func applyMiddleware(logger *slog.Logger, handler http.Handler) http.Handler {
	chain := handler
	chain = hhttp.MetricsMiddleware(chain)
	chain = hhttp.LimitRequestBody(1 << 20)(chain) // 1MB
	chain = hhttp.Logging(logger)(chain)
	chain = hhttp.Recover(logger)(chain)

	if config.GetEnvBool("RATELIMIT_ENABLED", true) {
		limiter := hhttp.NewRateLimiter(
			config.GetEnvInt("RATELIMIT_REQUESTS", 120),
			config.GetEnvDuration("RATELIMIT_WINDOW", time.Minute),
		)
		chain = limiter.Limit(chain)
	}

	chain = requestid.Middleware(chain)
	chain = middleware.CORS(middleware.LoadCORSConfig(logger))(chain)
	return chain
}

// runServer starts the HTTP server and handles graceful shutdown.
func runServer(ctx context.Context, cancel context.CancelFunc, logger *slog.Logger, handler http.Handler) {
	addr := fmt.Sprintf(":%d", config.GetEnvInt("PORT", 3000))

	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		logger.Info("server starting",
			slog.String("addr", addr),
			slog.String("version", getVersion()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", slog.Any("error", err))
	}
	logger.Info("server stopped")
}

func getVersion() string {
	return config.GetEnvString("APP_VERSION", "dev")
}
