package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/user/leadgen-service/internal/adapter/jsonstore"
	"github.com/user/leadgen-service/internal/adapter/memory"
	"github.com/user/leadgen-service/internal/adapter/postgres"
	redis_adapter "github.com/user/leadgen-service/internal/adapter/redis"
	"github.com/user/leadgen-service/internal/delivery/http/handler"
	"github.com/user/leadgen-service/internal/delivery/http/router"
	"github.com/user/leadgen-service/internal/repository"
	"github.com/user/leadgen-service/internal/scraper/discover"
	"github.com/user/leadgen-service/internal/scraper/enrich"
	"github.com/user/leadgen-service/internal/scraper/extract"
	"github.com/user/leadgen-service/internal/scraper/session"
	"github.com/user/leadgen-service/internal/usecase"
	"github.com/user/leadgen-service/pkg/config"
	"github.com/user/leadgen-service/pkg/logger"
)

func main() {
	// --- Configuration ---
	cfg := config.Load()

	// --- Logger ---
	logLevel := logger.ParseLevel(cfg.LogLevel)
	logger.Init(os.Stdout, logLevel)
	log := slog.Default()
	log.Info("Logger initialized", "level", logLevel.String())

	ctx := context.Background()

	// --- Business store: PostgreSQL, flat file when unreachable ---
	var businessRepo repository.BusinessRepository

	pgConnString := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		cfg.PostgresUser, cfg.PostgresPassword, cfg.PostgresHost, cfg.PostgresPort, cfg.PostgresDB)
	dbpool, err := pgxpool.New(ctx, pgConnString)
	if err == nil {
		err = dbpool.Ping(ctx)
	}
	if err != nil {
		log.Warn("PostgreSQL unavailable, falling back to flat-file store", "file", cfg.DataFile, "error", err)
		businessRepo = jsonstore.NewBusinessRepo(cfg.DataFile)
	} else {
		defer dbpool.Close()
		pgRepo := postgres.NewBusinessRepo(dbpool)
		if err := pgRepo.EnsureSchema(ctx); err != nil {
			log.Error("Unable to prepare database schema", "error", err)
			os.Exit(1)
		}
		businessRepo = pgRepo
		log.Info("PostgreSQL connection pool established")
	}

	// --- Run progress and query guard: Redis, in-memory when unreachable ---
	var (
		progressRepo repository.ProgressRepository
		queryGuard   repository.QueryGuard
	)

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Warn("Redis unavailable, keeping run progress in memory", "error", err)
		progressRepo = memory.NewProgressRepo()
	} else {
		progressRepo = redis_adapter.NewProgressRepo(rdb)
		queryGuard = redis_adapter.NewQueryGuard(rdb)
		log.Info("Redis connection established")
	}

	// --- Scrape pipeline factory: a fresh browser session per run ---
	newRunner := func() (usecase.Scraper, error) {
		ctrl := session.NewController(session.Config{
			Headless:         cfg.Headless,
			UserAgent:        cfg.UserAgent,
			PageLoadTimeout:  cfg.PageLoadTimeout,
			OperationTimeout: cfg.OperationTimeout,
		}, log)

		fetcher := enrich.NewHTTPFetcher(cfg.EnrichTimeout, cfg.EnrichRateLimit, cfg.UserAgent)

		return usecase.NewScrapeUseCase(
			ctrl,
			ctrl.Surface(),
			ctrl.DetailView(),
			discover.New(log),
			extract.New(log),
			enrich.New(fetcher, log),
			businessRepo,
			progressRepo,
			log,
		), nil
	}

	// --- Use Cases ---
	dashboard := usecase.NewDashboardUseCase(
		businessRepo, progressRepo, queryGuard,
		newRunner, cfg.QueryGuardTTL, cfg.MaxResultsCap, log)

	// --- HTTP Server ---
	apiHandler := handler.NewHandler(dashboard)
	httpRouter := router.New(apiHandler)

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      httpRouter,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Info("Starting server", "port", cfg.ServerPort)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("Could not listen on port", "port", cfg.ServerPort, "error", err)
		os.Exit(1)
	}
}
