package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Set at build time via -ldflags.
var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "tgstats",
	Short: "Statistics reports from Telegram chat exports",
	Long: `tgstats reads the result.json file produced by Telegram's
"Export Telegram data" feature and turns it into an HTML report with
per-chat and per-user activity charts.

Examples:
  tgstats chats result.json
  tgstats report result.json --out ./stats
  tgstats report result.json --from 2023-01-01 --features msg,word`,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("tgstats %s (commit %s, built %s)\n",
			version, commit, buildDate)
	},
}

func init() {
	rootCmd.AddCommand(reportCmd, chatsCmd, versionCmd)
}
