package commands

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/user/leadgen-service/internal/adapter/jsonstore"
	"github.com/user/leadgen-service/internal/repository"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Dump stored businesses as JSON",
	RunE:  runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	flags := exportCmd.Flags()
	flags.String("data-file", "", "flat-file database path (default from DATA_FILE)")
	flags.StringP("keyword", "k", "", "only businesses stored under this search keyword")
	flags.Bool("contacted", false, "only businesses already marked contacted")
	flags.Bool("not-contacted", false, "only businesses not yet contacted")
	flags.Int("limit", 0, "maximum records to export (0 = store default)")
}

func runExport(cmd *cobra.Command, args []string) error {
	dataFile, _ := cmd.Flags().GetString("data-file")
	keyword, _ := cmd.Flags().GetString("keyword")
	limit, _ := cmd.Flags().GetInt("limit")

	if dataFile == "" {
		dataFile = cfg.DataFile
	}

	filter := repository.BusinessFilter{Keyword: keyword, Limit: limit}
	if contacted, _ := cmd.Flags().GetBool("contacted"); contacted {
		v := true
		filter.Contacted = &v
	}
	if notContacted, _ := cmd.Flags().GetBool("not-contacted"); notContacted {
		v := false
		filter.Contacted = &v
	}

	businessRepo := jsonstore.NewBusinessRepo(dataFile)
	businesses, err := businessRepo.List(cmd.Context(), filter)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(businesses)
}
