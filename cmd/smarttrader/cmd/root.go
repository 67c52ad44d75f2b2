package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "smarttrader",
	Short: "An automated regime-aware equity trading agent",
	Long: `Smarttrader is an automated equity trading agent written in Go.

It provides tools for:
  - Running the live trading loop against a paper brokerage account
  - Classifying the market regime of a symbol from daily history
  - Previewing the scored signal for a symbol without trading
  - Inspecting account positions and buying power
  - Journaling signals and fills to CSV or SQLite

Complete documentation is available at https://github.com/rustyeddy/smarttrader`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}
