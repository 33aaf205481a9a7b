package commands

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/user/leadgen-service/internal/adapter/jsonstore"
	"github.com/user/leadgen-service/internal/adapter/memory"
	"github.com/user/leadgen-service/internal/scraper/discover"
	"github.com/user/leadgen-service/internal/scraper/enrich"
	"github.com/user/leadgen-service/internal/scraper/extract"
	"github.com/user/leadgen-service/internal/scraper/session"
	"github.com/user/leadgen-service/internal/usecase"
)

var runCmd = &cobra.Command{
	Use:   "run <query>",
	Short: "Scrape business listings for a search query",
	Long: `Run a full scrape for one query: discover listings on the map
results feed, extract each one, drop duplicates and store the accepted
records in the local flat-file database.

Single-result lookups additionally visit the business website to fill in
missing contact channels.`,
	Args: cobra.ExactArgs(1),
	RunE: runScrape,
}

func init() {
	rootCmd.AddCommand(runCmd)

	flags := runCmd.Flags()
	flags.IntP("max-results", "n", 10, "number of listings to accept")
	flags.String("data-file", "", "flat-file database path (default from DATA_FILE)")
	flags.Bool("headful", false, "run the browser with a visible window")
}

func runScrape(cmd *cobra.Command, args []string) error {
	query := args[0]
	maxResults, _ := cmd.Flags().GetInt("max-results")
	dataFile, _ := cmd.Flags().GetString("data-file")
	headful, _ := cmd.Flags().GetBool("headful")

	if maxResults <= 0 {
		maxResults = 10
	}
	if maxResults > cfg.MaxResultsCap {
		maxResults = cfg.MaxResultsCap
	}
	if dataFile == "" {
		dataFile = cfg.DataFile
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := slog.Default()

	businessRepo := jsonstore.NewBusinessRepo(dataFile)
	progressRepo := memory.NewProgressRepo()

	ctrl := session.NewController(session.Config{
		Headless:         cfg.Headless && !headful,
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
	if err := progressRepo.Start(ctx, runID, query); err != nil {
		return err
	}

	businesses, err := scraper.Run(ctx, runID, query, maxResults)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(businesses); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "accepted %d of %d requested, stored in %s\n",
		len(businesses), maxResults, dataFile)
	return nil
}
