// Package config loads and validates the agent configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the complete agent configuration.
type Config struct {
	Account  AccountConfig  `json:"account" yaml:"account"`
	Data     DataConfig     `json:"data" yaml:"data"`
	Universe []string       `json:"universe" yaml:"universe"`
	Regime   RegimeConfig   `json:"regime" yaml:"regime"`
	Risk     RiskConfig     `json:"risk" yaml:"risk"`
	Limits   LimitsConfig   `json:"limits" yaml:"limits"`
	Executor ExecutorConfig `json:"executor" yaml:"executor"`
	Journal  JournalConfig  `json:"journal" yaml:"journal"`
	Agent    AgentConfig    `json:"agent" yaml:"agent"`
}

// AccountConfig selects the brokerage environment and credentials.
// Key and Secret fall back to APCA_API_KEY_ID / APCA_API_SECRET_KEY.
type AccountConfig struct {
	Env    string `json:"env" yaml:"env"` // "paper"
	Key    string `json:"key,omitempty" yaml:"key,omitempty"`
	Secret string `json:"secret,omitempty" yaml:"secret,omitempty"`
}

// DataConfig holds market-data provider credentials. Token falls back
// to TIINGO_TOKEN.
type DataConfig struct {
	Token string `json:"token,omitempty" yaml:"token,omitempty"`
}

// RegimeConfig holds the classifier lookbacks and the audit directory.
type RegimeConfig struct {
	ShortPeriod int    `json:"short_period" yaml:"short_period"`
	LongPeriod  int    `json:"long_period" yaml:"long_period"`
	ADXPeriod   int    `json:"adx_period" yaml:"adx_period"`
	ATRPeriod   int    `json:"atr_period" yaml:"atr_period"`
	AuditDir    string `json:"audit_dir,omitempty" yaml:"audit_dir,omitempty"`
}

// RiskConfig bounds entry sizing and bracket legs.
type RiskConfig struct {
	InvestFraction float64 `json:"invest_fraction" yaml:"invest_fraction"`
	MinQty         float64 `json:"min_qty" yaml:"min_qty"`
	StopLossPct    float64 `json:"stop_loss_pct" yaml:"stop_loss_pct"`
	TakeProfitPct  float64 `json:"take_profit_pct" yaml:"take_profit_pct"`
}

// LimitsConfig bounds the request rate against external APIs.
type LimitsConfig struct {
	Requests int    `json:"requests" yaml:"requests"`
	Window   string `json:"window" yaml:"window"` // e.g. "60s"
}

// ParseWindow converts the window string to a duration.
func (l LimitsConfig) ParseWindow() (time.Duration, error) {
	if l.Window == "" {
		return 0, nil
	}
	return time.ParseDuration(l.Window)
}

// ExecutorConfig tunes fill polling and the retry policy.
type ExecutorConfig struct {
	PollInterval  string `json:"poll_interval" yaml:"poll_interval"`
	PollDeadline  string `json:"poll_deadline" yaml:"poll_deadline"`
	RetryAttempts int    `json:"retry_attempts" yaml:"retry_attempts"`
	RetryBackoff  string `json:"retry_backoff" yaml:"retry_backoff"`
}

// JournalConfig selects where signals and fills are persisted.
type JournalConfig struct {
	Type        string `json:"type" yaml:"type"` // "csv" or "sqlite"
	SignalsFile string `json:"signals_file,omitempty" yaml:"signals_file,omitempty"`
	FillsFile   string `json:"fills_file,omitempty" yaml:"fills_file,omitempty"`
	DBPath      string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// AgentConfig tunes the trading loop. CycleDeadline bounds one full
// pass over the universe so a stalled upstream cannot hang the loop.
type AgentConfig struct {
	CyclePause    string `json:"cycle_pause" yaml:"cycle_pause"`
	CycleDeadline string `json:"cycle_deadline" yaml:"cycle_deadline"`
	LookbackDays  int    `json:"lookback_days" yaml:"lookback_days"`
}

// LoadFromFile loads configuration from a file (YAML or JSON) and
// fills credential fields from the environment when absent.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	cfg.fillFromEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func (c *Config) fillFromEnv() {
	if c.Account.Key == "" {
		c.Account.Key = os.Getenv("APCA_API_KEY_ID")
	}
	if c.Account.Secret == "" {
		c.Account.Secret = os.Getenv("APCA_API_SECRET_KEY")
	}
	if c.Data.Token == "" {
		c.Data.Token = os.Getenv("TIINGO_TOKEN")
	}
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Account.Env != "paper" {
		return fmt.Errorf("account.env must be 'paper'")
	}
	if len(c.Universe) == 0 {
		return fmt.Errorf("universe must list at least one symbol")
	}
	for _, sym := range c.Universe {
		if sym == "" || sym != strings.ToUpper(sym) {
			return fmt.Errorf("universe symbol %q must be uppercase", sym)
		}
	}
	if c.Risk.InvestFraction <= 0 || c.Risk.InvestFraction > 1 {
		return fmt.Errorf("risk.invest_fraction must be between 0 and 1")
	}
	if c.Risk.StopLossPct <= 0 || c.Risk.TakeProfitPct <= 0 {
		return fmt.Errorf("risk stop_loss_pct and take_profit_pct must be positive")
	}
	if c.Limits.Requests <= 0 {
		return fmt.Errorf("limits.requests must be positive")
	}
	if _, err := c.Limits.ParseWindow(); err != nil {
		return fmt.Errorf("limits.window: %w", err)
	}
	if c.Journal.Type != "csv" && c.Journal.Type != "sqlite" {
		return fmt.Errorf("journal.type must be 'csv' or 'sqlite'")
	}
	if c.Journal.Type == "csv" && (c.Journal.SignalsFile == "" || c.Journal.FillsFile == "") {
		return fmt.Errorf("journal signals_file and fills_file required for CSV type")
	}
	if c.Journal.Type == "sqlite" && c.Journal.DBPath == "" {
		return fmt.Errorf("journal db_path required for SQLite type")
	}
	if c.Agent.LookbackDays <= 0 {
		return fmt.Errorf("agent.lookback_days must be positive")
	}
	if c.Agent.CycleDeadline != "" {
		if _, err := time.ParseDuration(c.Agent.CycleDeadline); err != nil {
			return fmt.Errorf("agent.cycle_deadline: %w", err)
		}
	}
	return nil
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Account: AccountConfig{
			Env: "paper",
		},
		Universe: []string{"AAPL", "MSFT"},
		Regime: RegimeConfig{
			ShortPeriod: 10,
			LongPeriod:  20,
			ADXPeriod:   14,
			ATRPeriod:   14,
		},
		Risk: RiskConfig{
			InvestFraction: 0.06,
			MinQty:         1,
			StopLossPct:    0.05,
			TakeProfitPct:  0.10,
		},
		Limits: LimitsConfig{
			Requests: 200,
			Window:   "60s",
		},
		Executor: ExecutorConfig{
			PollInterval:  "1s",
			PollDeadline:  "30s",
			RetryAttempts: 3,
			RetryBackoff:  "2s",
		},
		Journal: JournalConfig{
			Type:        "csv",
			SignalsFile: "./signals.csv",
			FillsFile:   "./fills.csv",
		},
		Agent: AgentConfig{
			CyclePause:    "60s",
			CycleDeadline: "5m",
			LookbackDays:  30,
		},
	}
}
