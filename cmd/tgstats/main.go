// Command tgstats builds statistics reports from Telegram chat
// export files.
package main

import "os"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
