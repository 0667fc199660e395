package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validSettings = `
global:
  api_key: "file-key"
  api_sec: "file-secret"
  fee_percent: 0.1
symbols:
  BTCUSDT:
    is_active: true
    profit_percent: 1.0
    volume_buy: 0.001
    volume_sell: 0.001
    price_min: 10000
    price_max: 100000
    price_precision: 2
    volume_precision: 3
  ETHUSDT:
    is_active: false
`

// writeSettings drops a settings document into a temp dir and points
// SETTINGS_PATH at it for the duration of the test.
func writeSettings(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Setenv("SETTINGS_PATH", path)
	return path
}

func clearCredentialEnv(t *testing.T) {
	t.Helper()
	t.Setenv("BINANCE_API_KEY", "")
	t.Setenv("BINANCE_API_SECRET", "")
}

func TestLoadConfig_FromSettingsFile(t *testing.T) {
	writeSettings(t, validSettings)
	clearCredentialEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "file-key", cfg.Global.APIKey)
	assert.Equal(t, "file-secret", cfg.Global.APISecret)
	assert.InDelta(t, 0.1, cfg.Global.FeePercent, 1e-9)

	btc := cfg.Symbols["BTCUSDT"]
	assert.True(t, btc.IsActive)
	assert.InDelta(t, 1.0, btc.ProfitPercent, 1e-9)
	assert.Equal(t, 3, btc.VolumePrecision)
	assert.False(t, cfg.Symbols["ETHUSDT"].IsActive)
}

func TestLoadConfig_Defaults(t *testing.T) {
	writeSettings(t, validSettings)
	clearCredentialEnv(t)
	t.Setenv("IS_TESTNET", "")
	t.Setenv("DB_PATH", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, defaultPollIntervalSec, cfg.Global.PollIntervalSec)
	assert.True(t, cfg.ConfirmOrder(), "confirmation defaults to on when the settings file omits it")
	assert.True(t, cfg.IsTestnet, "testnet is the default for safety")
	assert.Equal(t, "./data/orders.db", cfg.DBPath)

	// ETHUSDT omits both precisions, so the defaults apply.
	eth := cfg.Symbols["ETHUSDT"]
	assert.Equal(t, defaultPricePrecision, eth.PricePrecision)
	assert.Equal(t, defaultVolumePrecision, eth.VolumePrecision)
}

func TestLoadConfig_EnvCredentialsOverrideFile(t *testing.T) {
	writeSettings(t, validSettings)
	t.Setenv("BINANCE_API_KEY", "env-key")
	t.Setenv("BINANCE_API_SECRET", "env-secret")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "env-key", cfg.Global.APIKey)
	assert.Equal(t, "env-secret", cfg.Global.APISecret)
}

func TestLoadConfig_MissingSettingsFile(t *testing.T) {
	t.Setenv("SETTINGS_PATH", filepath.Join(t.TempDir(), "nope.yaml"))
	clearCredentialEnv(t)

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read settings file")
}

func TestLoadConfig_MalformedSettingsFile(t *testing.T) {
	writeSettings(t, "global: [not a mapping")
	clearCredentialEnv(t)

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse settings file")
}

func TestLoadConfig_ValidationFailures(t *testing.T) {
	testCases := []struct {
		name     string
		settings string
		wantErr  string
	}{
		{
			name: "missing credentials",
			settings: `
symbols:
  BTCUSDT:
    is_active: true
    volume_buy: 1
    volume_sell: 1
`,
			wantErr: "api_key must be set",
		},
		{
			name: "no symbols",
			settings: `
global:
  api_key: "k"
  api_sec: "s"
`,
			wantErr: "at least one symbol must be configured",
		},
		{
			name: "non-positive volume on active symbol",
			settings: `
global:
  api_key: "k"
  api_sec: "s"
symbols:
  BTCUSDT:
    is_active: true
    volume_buy: 0
    volume_sell: 1
`,
			wantErr: "volume_buy must be positive",
		},
		{
			name: "price_max below price_min",
			settings: `
global:
  api_key: "k"
  api_sec: "s"
symbols:
  BTCUSDT:
    is_active: true
    volume_buy: 1
    volume_sell: 1
    price_min: 100
    price_max: 50
`,
			wantErr: "price_max must not be below price_min",
		},
		{
			name: "negative fee",
			settings: `
global:
  api_key: "k"
  api_sec: "s"
  fee_percent: -0.1
symbols:
  BTCUSDT:
    is_active: true
    volume_buy: 1
    volume_sell: 1
`,
			wantErr: "fee_percent cannot be negative",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			writeSettings(t, tc.settings)
			clearCredentialEnv(t)

			_, err := LoadConfig()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestLoadConfig_InactiveSymbolsSkipValidation(t *testing.T) {
	writeSettings(t, `
global:
  api_key: "k"
  api_sec: "s"
symbols:
  BTCUSDT:
    is_active: true
    volume_buy: 1
    volume_sell: 1
  ETHUSDT:
    is_active: false
    volume_buy: 0
`)
	clearCredentialEnv(t)

	_, err := LoadConfig()
	assert.NoError(t, err, "inactive symbols are not validated")
}

func TestConfig_ConfirmOrder(t *testing.T) {
	off := false
	on := true

	assert.True(t, (&Config{}).ConfirmOrder())
	assert.False(t, (&Config{Global: GlobalSettings{ConfirmOrder: &off}}).ConfirmOrder())
	assert.True(t, (&Config{Global: GlobalSettings{ConfirmOrder: &on}}).ConfirmOrder())
}

func TestConfig_ActiveSymbols(t *testing.T) {
	cfg := &Config{Symbols: map[string]SymbolConfig{
		"ETHUSDT":  {IsActive: true},
		"BTCUSDT":  {IsActive: true},
		"DOGEUSDT": {IsActive: false},
	}}

	assert.Equal(t, []string{"BTCUSDT", "ETHUSDT"}, cfg.ActiveSymbols(), "sorted, inactive excluded")
}
