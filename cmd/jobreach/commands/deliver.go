package commands

import (
	"jobreach/internal/runner"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(deliverCmd)
}

var deliverCmd = &cobra.Command{
	Use:   "deliver",
	Short: "Sends applications to candidates recorded by an earlier scrape, without opening a browser.",
	Run: func(cmd *cobra.Command, args []string) {
		runPipeline(cmd.Context(), runner.ModeDeliverOnly)
	},
}
