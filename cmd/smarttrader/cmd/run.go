package cmd

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/rustyeddy/smarttrader/config"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the trading loop from a config file",
	Long: `Run the trading agent using settings from a configuration file.

Every cycle the agent checks the market clock, reconciles positions
with the brokerage, then fetches, scores and (when warranted) trades
each symbol in the universe. Stop with Ctrl-C.

Example:
  smarttrader run -f config.yaml`,
	RunE: runRun,
}

var runConfigPath string

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runConfigPath, "config", "f", "", "path to config file (YAML or JSON) (required)")
	runCmd.MarkFlagRequired("config")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromFile(runConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := newLogger()
	a, j, err := buildAgent(cfg, log)
	if err != nil {
		return err
	}
	defer j.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("starting trading loop",
		"universe", cfg.Universe, "env", cfg.Account.Env, "cycle_pause", cfg.Agent.CyclePause)

	if err := a.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	log.Info("stopped")
	return nil
}
