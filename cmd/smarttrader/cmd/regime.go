package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/rustyeddy/smarttrader/config"
	"github.com/rustyeddy/smarttrader/marketdata/tiingo"
	"github.com/spf13/cobra"
)

var regimeCmd = &cobra.Command{
	Use:   "regime SYMBOL",
	Short: "Classify the market regime of a symbol",
	Long: `Fetch the symbol's daily history and print its regime label:
bullish, bearish, low_volatility or high_volatility.

Example:
  smarttrader regime AAPL -f config.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runRegime,
}

var regimeConfigPath string

func init() {
	rootCmd.AddCommand(regimeCmd)

	regimeCmd.Flags().StringVarP(&regimeConfigPath, "config", "f", "", "path to config file (YAML or JSON) (required)")
	regimeCmd.MarkFlagRequired("config")
}

func runRegime(cmd *cobra.Command, args []string) error {
	symbol := args[0]

	cfg, err := config.LoadFromFile(regimeConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	limiter, err := buildLimiter(cfg)
	if err != nil {
		return err
	}

	data := tiingo.NewClient(cfg.Data.Token, limiter)
	now := time.Now().UTC()

	ctx := context.Background()
	daily, err := data.Daily(ctx, symbol, now.AddDate(0, 0, -400), now)
	if err != nil {
		return fmt.Errorf("fetch daily history: %w", err)
	}

	r, err := buildClassifier(cfg).Classify(symbol, daily)
	if err != nil {
		return err
	}

	last, err := daily.Last()
	if err != nil {
		return err
	}
	fmt.Printf("%s: %s (last close %.2f on %s, %d daily bars)\n",
		symbol, r, last.Close, last.Time.Format("2006-01-02"), daily.Len())
	return nil
}
