package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/user/leadgen-service/internal/entity"
	"github.com/user/leadgen-service/internal/repository"
)

var (
	ErrEmptyQuery           = errors.New("search query must not be empty")
	ErrQueryRecentlyScraped = errors.New("query has been scraped recently")
)

// runTimeout bounds a detached scrape run so an abandoned browser session
// cannot live forever.
const runTimeout = 30 * time.Minute

// RunnerFactory builds a fresh scrape pipeline, browser session included.
// Each run gets its own because a session cannot be reused across runs.
type RunnerFactory func() (Scraper, error)

// Dashboard exposes everything the HTTP delivery layer and the CLI need:
// starting scrape runs and reading the stored corpus.
type Dashboard interface {
	StartScrape(ctx context.Context, query string, maxResults int) (string, error)
	Progress(ctx context.Context, runID string) (*entity.RunProgress, error)
	ListBusinesses(ctx context.Context, filter repository.BusinessFilter) ([]*entity.Business, error)
	MarkContacted(ctx context.Context, id string, contacted bool) error
	Stats(ctx context.Context) (*entity.Stats, error)
	Keywords(ctx context.Context) ([]entity.KeywordCount, error)
}

type dashboardUseCase struct {
	businessRepo  repository.BusinessRepository
	progressRepo  repository.ProgressRepository
	queryGuard    repository.QueryGuard // nil disables repeat-query throttling
	newRunner     RunnerFactory
	guardExpiry   time.Duration
	maxResultsCap int
	log           *slog.Logger
}

// NewDashboardUseCase creates a new Dashboard use case.
func NewDashboardUseCase(
	businessRepo repository.BusinessRepository,
	progressRepo repository.ProgressRepository,
	queryGuard repository.QueryGuard,
	newRunner RunnerFactory,
	guardExpiry time.Duration,
	maxResultsCap int,
	log *slog.Logger,
) Dashboard {
	return &dashboardUseCase{
		businessRepo:  businessRepo,
		progressRepo:  progressRepo,
		queryGuard:    queryGuard,
		newRunner:     newRunner,
		guardExpiry:   guardExpiry,
		maxResultsCap: maxResultsCap,
		log:           log,
	}
}

// StartScrape validates the request, registers a run and launches it on a
// detached context so the HTTP request can return immediately.
func (uc *dashboardUseCase) StartScrape(ctx context.Context, query string, maxResults int) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", ErrEmptyQuery
	}
	if maxResults <= 0 {
		maxResults = 10
	}
	if maxResults > uc.maxResultsCap {
		maxResults = uc.maxResultsCap
	}

	if uc.queryGuard != nil {
		recent, err := uc.queryGuard.RecentlyRun(ctx, query)
		if err != nil {
			uc.log.Warn("query guard check failed, allowing run", "query", query, "error", err)
		} else if recent {
			return "", ErrQueryRecentlyScraped
		}
	}

	runner, err := uc.newRunner()
	if err != nil {
		return "", fmt.Errorf("build scrape pipeline: %w", err)
	}

	runID := uuid.NewString()
	if err := uc.progressRepo.Start(ctx, runID, query); err != nil {
		return "", fmt.Errorf("register run: %w", err)
	}

	if uc.queryGuard != nil {
		if err := uc.queryGuard.MarkStarted(ctx, query, uc.guardExpiry); err != nil {
			uc.log.Warn("query guard mark failed", "query", query, "error", err)
		}
	}

	go func() {
		runCtx, cancel := context.WithTimeout(context.Background(), runTimeout)
		defer cancel()
		if _, err := runner.Run(runCtx, runID, query, maxResults); err != nil {
			uc.log.Error("detached scrape run failed", "run_id", runID, "error", err)
		}
	}()

	uc.log.Info("scrape run launched", "run_id", runID, "query", query, "max_results", maxResults)
	return runID, nil
}

func (uc *dashboardUseCase) Progress(ctx context.Context, runID string) (*entity.RunProgress, error) {
	return uc.progressRepo.Get(ctx, runID)
}

func (uc *dashboardUseCase) ListBusinesses(ctx context.Context, filter repository.BusinessFilter) ([]*entity.Business, error) {
	return uc.businessRepo.List(ctx, filter)
}

func (uc *dashboardUseCase) MarkContacted(ctx context.Context, id string, contacted bool) error {
	return uc.businessRepo.MarkContacted(ctx, id, contacted)
}

func (uc *dashboardUseCase) Stats(ctx context.Context) (*entity.Stats, error) {
	return uc.businessRepo.Stats(ctx)
}

func (uc *dashboardUseCase) Keywords(ctx context.Context) ([]entity.KeywordCount, error) {
	return uc.businessRepo.Keywords(ctx)
}
