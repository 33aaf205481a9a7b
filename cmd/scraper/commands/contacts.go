package commands

import (
	"encoding/json"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/user/leadgen-service/internal/scraper/enrich"
)

var contactsCmd = &cobra.Command{
	Use:   "contacts <website-url>",
	Short: "Extract contact channels from a single website",
	Long: `Fetch a website's main page plus its contact pages and print the
emails, WhatsApp numbers, Instagram profiles and phone numbers found on
them as JSON.`,
	Args: cobra.ExactArgs(1),
	RunE: runContacts,
}

func init() {
	rootCmd.AddCommand(contactsCmd)
}

type contactsReport struct {
	Website       string   `json:"website"`
	PagesAnalyzed int      `json:"pages_analyzed"`
	Emails        []string `json:"emails,omitempty"`
	WhatsApp      []string `json:"whatsapp,omitempty"`
	Instagram     []string `json:"instagram,omitempty"`
	Phones        []string `json:"phones,omitempty"`
}

func runContacts(cmd *cobra.Command, args []string) error {
	websiteURL := args[0]
	log := slog.Default()

	fetcher := enrich.NewHTTPFetcher(cfg.EnrichTimeout, cfg.EnrichRateLimit, cfg.UserAgent)
	enricher := enrich.New(fetcher, log)

	bundle, pages, err := enricher.Collect(cmd.Context(), websiteURL)
	if err != nil {
		return err
	}

	report := contactsReport{
		Website:       websiteURL,
		PagesAnalyzed: pages,
		Emails:        bundle.Emails,
		WhatsApp:      bundle.WhatsAppNumbers(),
		Instagram:     bundle.Instagram,
		Phones:        bundle.Phones,
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
