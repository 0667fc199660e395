package config

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"gridbot/internal/adapters/logger" // Import the logger package for LogLevel
)

const (
	defaultPollIntervalSec = 10
	defaultPricePrecision  = 2
	defaultVolumePrecision = 1
)

// GlobalSettings is the "global" section of the settings document.
type GlobalSettings struct {
	APIKey          string  `yaml:"api_key"`
	APISecret       string  `yaml:"api_sec"`
	FeePercent      float64 `yaml:"fee_percent"`
	ConfirmOrder    *bool   `yaml:"confirm_order"`     // nil means default (true)
	PollIntervalSec int     `yaml:"poll_interval_sec"` // 0 means default (10)
}

// SymbolConfig is one entry of the "symbols" section. Read-only per poll cycle.
type SymbolConfig struct {
	IsActive               bool    `yaml:"is_active"`
	ProfitPercent          float64 `yaml:"profit_percent"`
	VolumeBuy              float64 `yaml:"volume_buy"`
	VolumeSell             float64 `yaml:"volume_sell"`
	PriceMin               float64 `yaml:"price_min"`
	PriceMax               float64 `yaml:"price_max"`
	PricePrecision         int     `yaml:"price_precision"`
	VolumePrecision        int     `yaml:"volume_precision"`
	AdaptiveLimitPercent   float64 `yaml:"adaptive_limit_percent"`    // 0 disables the adaptive guard
	MovingAveragePeriodMin int     `yaml:"moving_average_period_min"` // 0 disables the adaptive guard
}

// settingsDocument mirrors the settings file layout.
type settingsDocument struct {
	Global  GlobalSettings          `yaml:"global"`
	Symbols map[string]SymbolConfig `yaml:"symbols"`
}

// Config holds all application configuration.
type Config struct {
	// Settings document
	Global  GlobalSettings
	Symbols map[string]SymbolConfig

	// Binance API
	IsTestnet bool

	// Database
	DBPath string

	// Logging
	LogLevel logger.LogLevel
	LogFile  string
}

// ConfirmOrder reports whether interactive confirmation is enabled
// (the default when the settings file omits the flag).
func (c *Config) ConfirmOrder() bool {
	if c.Global.ConfirmOrder == nil {
		return true
	}
	return *c.Global.ConfirmOrder
}

// ActiveSymbols returns the symbols marked active, sorted so every poll cycle
// iterates them in the same order.
func (c *Config) ActiveSymbols() []string {
	symbols := make([]string, 0, len(c.Symbols))
	for symbol, sc := range c.Symbols {
		if sc.IsActive {
			symbols = append(symbols, symbol)
		}
	}
	sort.Strings(symbols)
	return symbols
}

// LoadConfig loads the settings document and environment overrides.
// The settings path itself comes from SETTINGS_PATH (default "settings.yaml").
func LoadConfig() (*Config, error) {
	// Load .env file, but don't fail if it doesn't exist (allow pure env vars)
	_ = godotenv.Load()

	settingsPath := getEnv("SETTINGS_PATH", "settings.yaml")
	doc, err := loadSettings(settingsPath)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Global:    doc.Global,
		Symbols:   doc.Symbols,
		IsTestnet: getEnvAsBool("IS_TESTNET", true), // Default to testnet for safety
		DBPath:    getEnv("DB_PATH", "./data/orders.db"),
		LogLevel:  logger.ParseLevel(getEnv("LOG_LEVEL", "INFO")),
		LogFile:   getEnv("LOG_FILE", "events.log"),
	}

	// Credentials from the environment take precedence over the settings file.
	if key := os.Getenv("BINANCE_API_KEY"); key != "" {
		cfg.Global.APIKey = key
	}
	if secret := os.Getenv("BINANCE_API_SECRET"); secret != "" {
		cfg.Global.APISecret = secret
	}

	applyDefaults(cfg)

	if errs := validate(cfg); len(errs) > 0 {
		return nil, fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return cfg, nil
}

// loadSettings reads and decodes the settings document.
func loadSettings(path string) (*settingsDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file '%s': %w", path, err)
	}
	doc := &settingsDocument{}
	if err := yaml.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("failed to parse settings file '%s': %w", path, err)
	}
	return doc, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Global.PollIntervalSec == 0 {
		cfg.Global.PollIntervalSec = defaultPollIntervalSec
	}
	for symbol, sc := range cfg.Symbols {
		if sc.PricePrecision == 0 {
			sc.PricePrecision = defaultPricePrecision
		}
		if sc.VolumePrecision == 0 {
			sc.VolumePrecision = defaultVolumePrecision
		}
		cfg.Symbols[symbol] = sc
	}
}

func validate(cfg *Config) []string {
	var errs []string

	if cfg.Global.APIKey == "" {
		errs = append(errs, "api_key must be set (settings file or BINANCE_API_KEY)")
	}
	if cfg.Global.APISecret == "" {
		errs = append(errs, "api_sec must be set (settings file or BINANCE_API_SECRET)")
	}
	if cfg.Global.FeePercent < 0 {
		errs = append(errs, "fee_percent cannot be negative")
	}
	if cfg.Global.PollIntervalSec <= 0 {
		errs = append(errs, "poll_interval_sec must be positive")
	}
	if len(cfg.Symbols) == 0 {
		errs = append(errs, "at least one symbol must be configured")
	}
	if cfg.DBPath == "" {
		errs = append(errs, "DB_PATH must be set")
	}

	for symbol, sc := range cfg.Symbols {
		if !sc.IsActive {
			continue
		}
		if sc.ProfitPercent < 0 {
			errs = append(errs, fmt.Sprintf("%s: profit_percent cannot be negative", symbol))
		}
		if sc.VolumeBuy <= 0 {
			errs = append(errs, fmt.Sprintf("%s: volume_buy must be positive", symbol))
		}
		if sc.VolumeSell <= 0 {
			errs = append(errs, fmt.Sprintf("%s: volume_sell must be positive", symbol))
		}
		if sc.PriceMin < 0 {
			errs = append(errs, fmt.Sprintf("%s: price_min cannot be negative", symbol))
		}
		if sc.PriceMax > 0 && sc.PriceMax < sc.PriceMin {
			errs = append(errs, fmt.Sprintf("%s: price_max must not be below price_min", symbol))
		}
		if sc.PricePrecision < 0 || sc.VolumePrecision < 0 {
			errs = append(errs, fmt.Sprintf("%s: precisions cannot be negative", symbol))
		}
		if sc.AdaptiveLimitPercent < 0 {
			errs = append(errs, fmt.Sprintf("%s: adaptive_limit_percent cannot be negative", symbol))
		}
		if sc.MovingAveragePeriodMin < 0 {
			errs = append(errs, fmt.Sprintf("%s: moving_average_period_min cannot be negative", symbol))
		}
	}

	return errs
}

// --- Env Var Helpers ---

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
