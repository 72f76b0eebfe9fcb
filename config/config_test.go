package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

func TestLoadFromFileYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	content := `
dataset:
  type: csv
  path: ./bars.csv
strategy:
  initial_capital: 25000
  stop_loss_pct: 0.03
journal:
  type: none
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "csv", cfg.Dataset.Type)
	assert.InDelta(t, 25_000.0, cfg.Strategy.InitialCapital, 1e-9)
	assert.InDelta(t, 0.03, cfg.Strategy.StopLossPct, 1e-9)
	// Untouched fields keep their defaults.
	assert.InDelta(t, 0.05, cfg.Strategy.TakeProfitPct, 1e-9)
	assert.Equal(t, 20, cfg.Strategy.SMAPeriod)
}

func TestLoadFromFileJSONFallback(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.json")
	content := `{"dataset": {"type": "sqlite", "path": "./h.sqlite"}, "journal": {"type": "none"}}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "./h.sqlite", cfg.Dataset.Path)
}

func TestValidateRejectsBadDatasetType(t *testing.T) {
	cfg := Default()
	cfg.Dataset.Type = "postgres"
	assert.ErrorContains(t, cfg.Validate(), "dataset.type")
}

func TestValidateRejectsBadStrategy(t *testing.T) {
	cfg := Default()
	cfg.Strategy.InitialCapital = -5
	assert.ErrorContains(t, cfg.Validate(), "initial_capital")
}

func TestValidateJournalRequirements(t *testing.T) {
	cfg := Default()
	cfg.Journal = JournalConfig{Type: "sqlite"}
	assert.ErrorContains(t, cfg.Validate(), "db_path")

	cfg.Journal = JournalConfig{Type: "csv"}
	assert.ErrorContains(t, cfg.Validate(), "trades_file")

	cfg.Journal = JournalConfig{Type: "none"}
	assert.NoError(t, cfg.Validate())
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")

	cfg := Default()
	cfg.Strategy.MaxConcurrentPositions = 5
	require.NoError(t, cfg.SaveToFile(path))

	got, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Strategy.MaxConcurrentPositions)
}
