// Package commands implements the scraper CLI commands.
package commands

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/user/leadgen-service/pkg/config"
	"github.com/user/leadgen-service/pkg/logger"
)

var (
	cfg     *config.Config
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "scraper",
	Short: "Business listing scraper for map search results",
	Long: `Scraper collects business listings for a search query, removes
duplicates, enriches records from business websites and stores them
locally.

Examples:
  # Scrape ten listings for a query
  scraper run "panaderia balvanera" --max-results 10

  # Pull contact channels from a single website
  scraper contacts https://business.com

  # Dump everything stored so far
  scraper export --keyword "panaderia balvanera"`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg = config.Load()
		level := logger.ParseLevel(cfg.LogLevel)
		if verbose {
			level = slog.LevelDebug
		}
		logger.Init(os.Stderr, level)
	},
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
