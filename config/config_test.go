package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	t.Parallel()
	assert.NoError(t, Default().Validate())
}

func TestLoadFromFileYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
account:
  env: paper
  key: test-key
  secret: test-secret
data:
  token: tiingo-token
universe: [AAPL, TSLA]
risk:
  invest_fraction: 0.06
  min_qty: 1
  stop_loss_pct: 0.05
  take_profit_pct: 0.10
limits:
  requests: 200
  window: 60s
journal:
  type: sqlite
  db_path: ./journal.db
agent:
  cycle_pause: 60s
  cycle_deadline: 5m
  lookback_days: 30
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "paper", cfg.Account.Env)
	assert.Equal(t, []string{"AAPL", "TSLA"}, cfg.Universe)
	assert.Equal(t, "tiingo-token", cfg.Data.Token)
	assert.Equal(t, "sqlite", cfg.Journal.Type)
	assert.Equal(t, 200, cfg.Limits.Requests)

	w, err := cfg.Limits.ParseWindow()
	require.NoError(t, err)
	assert.Equal(t, "1m0s", w.String())
}

func TestLoadFromFileJSONFallback(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	cfg := Default()
	cfg.Account.Key = "k"
	cfg.Account.Secret = "s"
	require.NoError(t, cfg.SaveToFile(path))

	got, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Universe, got.Universe)
	assert.Equal(t, cfg.Risk.InvestFraction, got.Risk.InvestFraction)
}

func TestCredentialsFromEnv(t *testing.T) {
	t.Setenv("APCA_API_KEY_ID", "env-key")
	t.Setenv("APCA_API_SECRET_KEY", "env-secret")
	t.Setenv("TIINGO_TOKEN", "env-token")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, Default().SaveToFile(path))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "env-key", cfg.Account.Key)
	assert.Equal(t, "env-secret", cfg.Account.Secret)
	assert.Equal(t, "env-token", cfg.Data.Token)
}

func TestValidateRejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"live env", func(c *Config) { c.Account.Env = "live" }},
		{"empty universe", func(c *Config) { c.Universe = nil }},
		{"lowercase symbol", func(c *Config) { c.Universe = []string{"aapl"} }},
		{"zero invest fraction", func(c *Config) { c.Risk.InvestFraction = 0 }},
		{"zero requests", func(c *Config) { c.Limits.Requests = 0 }},
		{"bad window", func(c *Config) { c.Limits.Window = "sixty" }},
		{"bad journal type", func(c *Config) { c.Journal.Type = "parquet" }},
		{"csv without paths", func(c *Config) { c.Journal.SignalsFile = "" }},
		{"zero lookback", func(c *Config) { c.Agent.LookbackDays = 0 }},
		{"bad cycle deadline", func(c *Config) { c.Agent.CycleDeadline = "five minutes" }},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
