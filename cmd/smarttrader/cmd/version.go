package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

const version = "1.0.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  `Display the current version of the smarttrader CLI.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("smarttrader version %s\n", version)
		fmt.Println("An automated regime-aware equity trading agent")
		fmt.Println("https://github.com/rustyeddy/smarttrader")
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
