package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/user/leadgen-service/internal/entity"
	"github.com/user/leadgen-service/internal/repository"
	"github.com/user/leadgen-service/internal/scraper/dedup"
	"github.com/user/leadgen-service/internal/scraper/discover"
	"github.com/user/leadgen-service/internal/scraper/extract"
	"github.com/user/leadgen-service/pkg/metrics"
)

// SessionDriver is the subset of browser session control the scrape run
// needs. The feed surface and detail view are passed separately so the
// orchestrator never touches chromedp directly.
type SessionDriver interface {
	Open(ctx context.Context, query string) error
	GoToListing(ctx context.Context, handle entity.ListingHandle) error
	ReturnToResults(ctx context.Context) error
	RecoverToResults(ctx context.Context, query string) error
	Close()
}

// Enricher fills missing contact channels from a business website.
type Enricher interface {
	Enrich(ctx context.Context, b *entity.Business)
}

// Scraper runs one scrape end to end, publishing progress as it goes.
type Scraper interface {
	Run(ctx context.Context, runID, query string, target int) ([]*entity.Business, error)
}

type scrapeUseCase struct {
	session      SessionDriver
	surface      discover.Surface
	view         extract.DetailView
	discoverer   *discover.Discoverer
	extractor    *extract.Extractor
	enricher     Enricher
	businessRepo repository.BusinessRepository
	progressRepo repository.ProgressRepository
	log          *slog.Logger
}

// NewScrapeUseCase creates a scrape orchestrator bound to one browser
// session. A use case instance drives exactly one run.
func NewScrapeUseCase(
	session SessionDriver,
	surface discover.Surface,
	view extract.DetailView,
	discoverer *discover.Discoverer,
	extractor *extract.Extractor,
	enricher Enricher,
	businessRepo repository.BusinessRepository,
	progressRepo repository.ProgressRepository,
	log *slog.Logger,
) Scraper {
	return &scrapeUseCase{
		session:      session,
		surface:      surface,
		view:         view,
		discoverer:   discoverer,
		extractor:    extractor,
		enricher:     enricher,
		businessRepo: businessRepo,
		progressRepo: progressRepo,
		log:          log,
	}
}

// Run executes the discover / extract / dedup / enrich / store pipeline for
// one query. Listings that fail to open or yield no name are skipped, a
// second navigation failure in a row ends the run with partial results, and
// the accepted records gathered so far are always returned.
func (uc *scrapeUseCase) Run(ctx context.Context, runID, query string, target int) ([]*entity.Business, error) {
	started := time.Now()
	uc.log.Info("scrape run starting", "run_id", runID, "query", query, "target", target)

	defer uc.session.Close()

	uc.publish(ctx, runID, entity.ProgressUpdate{Activity: "opening search surface"})
	if err := uc.session.Open(ctx, query); err != nil {
		return nil, uc.fail(ctx, runID, started, fmt.Errorf("open session: %w", err))
	}

	uc.publish(ctx, runID, entity.ProgressUpdate{Activity: "discovering listings"})
	handles, err := uc.discoverer.Discover(ctx, uc.surface, target)
	if err != nil && len(handles) == 0 {
		return nil, uc.fail(ctx, runID, started, fmt.Errorf("discover listings: %w", err))
	}
	uc.log.Info("discovery finished", "run_id", runID, "handles", len(handles))

	var (
		accepted   []*entity.Business
		duplicates int
		saved      int
		partial    bool
	)

	for i, handle := range handles {
		if len(accepted) >= target {
			break
		}
		if err := ctx.Err(); err != nil {
			partial = true
			break
		}

		uc.publish(ctx, runID, entity.ProgressUpdate{
			Activity: fmt.Sprintf("processing listing %d/%d", i+1, len(handles)),
		})

		if err := uc.session.GoToListing(ctx, handle); err != nil {
			metrics.ListingFailures.WithLabelValues("navigation").Inc()
			uc.log.Warn("listing navigation failed, recovering", "run_id", runID, "listing", handle.ID, "error", err)
			if err := uc.session.RecoverToResults(ctx, query); err != nil {
				metrics.ListingFailures.WithLabelValues("recovery").Inc()
				uc.log.Error("session recovery failed, ending run with partial results", "run_id", runID, "error", err)
				partial = true
				break
			}
			continue
		}

		business := uc.extractor.Extract(ctx, uc.view)
		if business == nil {
			metrics.ListingFailures.WithLabelValues("extraction").Inc()
			uc.log.Debug("listing skipped, no name", "run_id", runID, "listing", handle.ID)
			uc.backToResults(ctx, runID, query, &partial)
			if partial {
				break
			}
			continue
		}

		if dedup.IsDuplicate(business, accepted) {
			duplicates++
			metrics.DuplicatesFiltered.Inc()
			uc.log.Debug("duplicate filtered", "run_id", runID, "name", business.Name)
			uc.publish(ctx, runID, entity.ProgressUpdate{Duplicates: duplicates})
			uc.backToResults(ctx, runID, query, &partial)
			if partial {
				break
			}
			continue
		}

		// Website enrichment navigates away from the maps tab, so it only
		// runs for single-result lookups where the feed is no longer needed.
		if target == 1 {
			uc.publish(ctx, runID, entity.ProgressUpdate{Activity: "enriching from website"})
			uc.enricher.Enrich(ctx, business)
		}

		accepted = append(accepted, business)
		metrics.BusinessesAccepted.Inc()

		newlyStored, err := uc.businessRepo.Save(ctx, business, query)
		switch {
		case err != nil:
			uc.log.Warn("store failed, record kept in results", "run_id", runID, "name", business.Name, "error", err)
		case newlyStored:
			saved++
		default:
			uc.log.Debug("record already stored", "run_id", runID, "name", business.Name)
		}

		uc.publish(ctx, runID, entity.ProgressUpdate{
			Accepted:   len(accepted),
			Duplicates: duplicates,
			Saved:      saved,
		})

		if len(accepted) >= target {
			break
		}
		uc.backToResults(ctx, runID, query, &partial)
		if partial {
			break
		}
	}

	message := fmt.Sprintf("accepted %d of %d requested", len(accepted), target)
	if partial {
		message += " (run ended early)"
	}
	uc.publish(ctx, runID, entity.ProgressUpdate{
		Status:     entity.RunStatusCompleted,
		Accepted:   len(accepted),
		Duplicates: duplicates,
		Saved:      saved,
		Message:    message,
	})
	metrics.ScrapesTotal.WithLabelValues("success").Inc()
	metrics.ScrapeDuration.Observe(time.Since(started).Seconds())
	uc.log.Info("scrape run finished", "run_id", runID,
		"accepted", len(accepted), "duplicates", duplicates, "saved", saved,
		"duration", time.Since(started).Round(time.Second))
	return accepted, nil
}

// backToResults returns the session to the feed, falling back to a full
// recovery. When both fail the run can only end with what it has.
func (uc *scrapeUseCase) backToResults(ctx context.Context, runID, query string, partial *bool) {
	if err := uc.session.ReturnToResults(ctx); err == nil {
		return
	}
	if err := uc.session.RecoverToResults(ctx, query); err != nil {
		metrics.ListingFailures.WithLabelValues("recovery").Inc()
		uc.log.Error("could not return to results", "run_id", runID, "error", err)
		*partial = true
	}
}

func (uc *scrapeUseCase) fail(ctx context.Context, runID string, started time.Time, err error) error {
	metrics.ScrapesTotal.WithLabelValues("failure").Inc()
	metrics.ScrapeDuration.Observe(time.Since(started).Seconds())
	uc.log.Error("scrape run failed", "run_id", runID, "error", err)
	uc.publish(ctx, runID, entity.ProgressUpdate{
		Status:  entity.RunStatusErrored,
		Message: err.Error(),
	})
	return err
}

func (uc *scrapeUseCase) publish(ctx context.Context, runID string, update entity.ProgressUpdate) {
	if err := uc.progressRepo.Update(ctx, runID, update); err != nil {
		uc.log.Warn("progress update failed", "run_id", runID, "error", err)
	}
}
