package cmd

import (
	"context"
	"fmt"

	"github.com/rustyeddy/smarttrader/config"
	"github.com/spf13/cobra"
)

var positionsCmd = &cobra.Command{
	Use:   "positions",
	Short: "Show account positions and buying power",
	Long: `Print the brokerage account's current positions, buying power
and equity.

Example:
  smarttrader positions -f config.yaml`,
	RunE: runPositions,
}

var positionsConfigPath string

func init() {
	rootCmd.AddCommand(positionsCmd)

	positionsCmd.Flags().StringVarP(&positionsConfigPath, "config", "f", "", "path to config file (YAML or JSON) (required)")
	positionsCmd.MarkFlagRequired("config")
}

func runPositions(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromFile(positionsConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	b, err := buildBroker(cfg)
	if err != nil {
		return err
	}

	ctx := context.Background()
	acct, err := b.GetAccount(ctx)
	if err != nil {
		return fmt.Errorf("get account: %w", err)
	}
	positions, err := b.ListPositions(ctx)
	if err != nil {
		return fmt.Errorf("list positions: %w", err)
	}

	fmt.Printf("Account %s\n", acct.ID)
	fmt.Printf("  Equity:       $%.2f\n", acct.Equity)
	fmt.Printf("  Cash:         $%.2f\n", acct.Cash)
	fmt.Printf("  Buying Power: $%.2f\n\n", acct.BuyingPower)

	if len(positions) == 0 {
		fmt.Println("No open positions.")
		return nil
	}

	fmt.Printf("%-8s %10s %12s %12s\n", "SYMBOL", "SHARES", "AVG ENTRY", "UNREAL P/L")
	for _, p := range positions {
		fmt.Printf("%-8s %10.0f %12.2f %12.2f\n",
			p.Symbol, p.Shares, p.AvgEntryPrice, p.UnrealizedPL)
	}
	return nil
}
