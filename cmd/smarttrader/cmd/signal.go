package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/rustyeddy/smarttrader/config"
	"github.com/spf13/cobra"
)

var signalCmd = &cobra.Command{
	Use:   "signal SYMBOL",
	Short: "Preview the scored signal for a symbol without trading",
	Long: `Fetch fresh data for the symbol, score it against the current
account state and print the decision that the trading loop would make.
No order is submitted.

Example:
  smarttrader signal AAPL -f config.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runSignal,
}

var signalConfigPath string

func init() {
	rootCmd.AddCommand(signalCmd)

	signalCmd.Flags().StringVarP(&signalConfigPath, "config", "f", "", "path to config file (YAML or JSON) (required)")
	signalCmd.MarkFlagRequired("config")
}

func runSignal(cmd *cobra.Command, args []string) error {
	symbol := args[0]

	cfg, err := config.LoadFromFile(signalConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := newLogger()
	a, j, err := buildAgent(cfg, log)
	if err != nil {
		return err
	}
	defer j.Close()

	ctx := context.Background()
	if err := a.Portfolio.UpdatePositions(ctx); err != nil {
		return err
	}

	sig, err := a.Preview(ctx, symbol)
	if err != nil {
		return err
	}

	fmt.Printf("%s @ %.2f (%s)\n", sig.Symbol, sig.Price, sig.Regime)
	fmt.Printf("  Action: %s", sig.Action)
	if sig.Qty > 0 {
		fmt.Printf(" %.0f shares", sig.Qty)
	}
	fmt.Println()
	fmt.Printf("  Scores: buy=%.1f sell=%.1f short=%.1f cover=%.1f hold=%.1f\n",
		sig.Scores["buy"], sig.Scores["sell"], sig.Scores["short"], sig.Scores["cover"], sig.Scores["hold"])
	if len(sig.Fired) > 0 {
		fmt.Printf("  Conditions: %s\n", strings.Join(sig.Fired, ", "))
	}
	return nil
}
