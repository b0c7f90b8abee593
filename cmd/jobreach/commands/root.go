package commands

import (
	"context"
	"fmt"
	"os"
	"jobreach/lib/telemetry"

	"github.com/spf13/cobra"
)

var (
	configPath *string
	verbose    *bool
)

var rootCmd = &cobra.Command{
	Use:   "jobreach",
	Short: "jobreach scrapes hiring posts from the LinkedIn feed and mails job applications to the addresses it finds.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		telemetry.InitSlog(*verbose)
	},
}

func init() {
	configPath = rootCmd.PersistentFlags().String("config", "config.json5", "The configuration file to read.")
	verbose = rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging.")
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
