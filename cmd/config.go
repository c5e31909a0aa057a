package cmd

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Environment variables overriding the configuration file, for scripts and
// extensions.
const (
	EnvConfigFile  = "LFP_CONFIG_FILE"
	EnvLedgerFile  = "LFP_LEDGER_FILE"
	EnvQuoteAPIKey = "LFP_QUOTE_API_KEY"
)

const defaultConfigFile = "lfp.yaml"

// Config holds the application settings shared by all subcommands.
type Config struct {
	// LedgerFile is the path of the persisted ledger state.
	LedgerFile string `yaml:"ledger_file"`
	// BaseCurrency denominates capital and every derived amount.
	BaseCurrency string `yaml:"base_currency"`

	// Quote endpoint settings; see portfolio.QuoteProvider.
	QuoteURL          string `yaml:"quote_url"`
	QuoteAPIKey       string `yaml:"quote_api_key"`
	QuotePricePath    string `yaml:"quote_price_path"`
	QuoteCurrencyPath string `yaml:"quote_currency_path"`

	// FXRates maps a native currency to its current rate into the base
	// currency, used by valuation when no live rate is available.
	FXRates map[string]float64 `yaml:"fx_rates"`
}

// configFile resolves the configuration file path.
func configFile() string {
	if p := os.Getenv(EnvConfigFile); p != "" {
		return p
	}
	return defaultConfigFile
}

// LoadConfig reads the yaml configuration, fills defaults, and applies
// environment overrides. A missing file yields the default configuration.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		LedgerFile:   "ledger.json",
		BaseCurrency: "TWD",
	}

	data, err := os.ReadFile(configFile())
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("could not read config %q: %w", configFile(), err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("could not parse config %q: %w", configFile(), err)
		}
	}

	if p := os.Getenv(EnvLedgerFile); p != "" {
		cfg.LedgerFile = p
	}
	if k := os.Getenv(EnvQuoteAPIKey); k != "" {
		cfg.QuoteAPIKey = k
	}
	return cfg, nil
}

// SaveConfig writes the configuration back to the yaml file.
func SaveConfig(cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(configFile(), data, 0644)
}
