package commands

import (
	"jobreach/internal/runner"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(scrapeCmd)
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Traverses the configured queries and records candidates without sending anything.",
	Run: func(cmd *cobra.Command, args []string) {
		runPipeline(cmd.Context(), runner.ModeScrapeOnly)
	},
}
