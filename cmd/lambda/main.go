package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/google/uuid"

	"github.com/user/leadgen-service/internal/adapter/jsonstore"
	"github.com/user/leadgen-service/internal/adapter/memory"
	"github.com/user/leadgen-service/internal/entity"
	"github.com/user/leadgen-service/internal/scraper/discover"
	"github.com/user/leadgen-service/internal/scraper/enrich"
	"github.com/user/leadgen-service/internal/scraper/extract"
	"github.com/user/leadgen-service/internal/scraper/session"
	"github.com/user/leadgen-service/internal/usecase"
	"github.com/user/leadgen-service/pkg/config"
	"github.com/user/leadgen-service/pkg/logger"
)

// Function runtime limits. Invocations ask for fewer results than the
// dashboard allows because a single function call has a hard deadline.
const maxResultsLimit = 100

type scrapeRequest struct {
	SearchQuery string `json:"search_query"`
	MaxResults  int    `json:"max_results"`
}

type scrapeData struct {
	ResultsCount         int                `json:"results_count"`
	SearchQuery          string             `json:"search_query"`
	ExecutionTimeSeconds float64            `json:"execution_time_seconds"`
	Businesses           []*entity.Business `json:"businesses"`
}

type scrapeResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    *scrapeData `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

var cfg *config.Config

func handle(ctx context.Context, req scrapeRequest) (scrapeResponse, error) {
	started := time.Now()

	if req.SearchQuery == "" {
		return scrapeResponse{Success: false, Error: "search_query is required"},
			errors.New("search_query is required")
	}
	maxResults := req.MaxResults
	if maxResults <= 0 {
		maxResults = 10
	}
	if maxResults > maxResultsLimit {
		maxResults = maxResultsLimit
	}

	log := slog.Default()

	// The function filesystem is read-only outside /tmp, and the store
	// only lives for the invocation anyway.
	businessRepo := jsonstore.NewBusinessRepo(filepath.Join(os.TempDir(), cfg.DataFile))
	progressRepo := memory.NewProgressRepo()

	ctrl := session.NewController(session.Config{
		Headless:         true,
		UserAgent:        cfg.UserAgent,
		PageLoadTimeout:  cfg.PageLoadTimeout,
		OperationTimeout: cfg.OperationTimeout,
	}, log)

	fetcher := enrich.NewHTTPFetcher(cfg.EnrichTimeout, cfg.EnrichRateLimit, cfg.UserAgent)

	scraper := usecase.NewScrapeUseCase(
		ctrl,
		ctrl.Surface(),
		ctrl.DetailView(),
		discover.New(log),
		extract.New(log),
		enrich.New(fetcher, log),
		businessRepo,
		progressRepo,
		log,
	)

	runID := uuid.NewString()
	if err := progressRepo.Start(ctx, runID, req.SearchQuery); err != nil {
		return scrapeResponse{Success: false, Error: err.Error()}, err
	}

	businesses, err := scraper.Run(ctx, runID, req.SearchQuery, maxResults)
	if err != nil {
		return scrapeResponse{Success: false, Error: err.Error()}, err
	}

	return scrapeResponse{
		Success: true,
		Message: "scrape completed",
		Data: &scrapeData{
			ResultsCount:         len(businesses),
			SearchQuery:          req.SearchQuery,
			ExecutionTimeSeconds: time.Since(started).Seconds(),
			Businesses:           businesses,
		},
	}, nil
}

func main() {
	cfg = config.Load()
	logger.Init(os.Stdout, logger.ParseLevel(cfg.LogLevel))

	lambda.Start(handle)
}
