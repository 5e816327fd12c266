// Package config provides configuration management for the trading application.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Trading     TradingConfig `mapstructure:"trading"`
	Signals     SignalsConfig `mapstructure:"signals"`
	Prices      PricesConfig  `mapstructure:"prices"`
	Server      ServerConfig  `mapstructure:"server"`
	Credentials Credentials   `mapstructure:"-"` // Loaded separately
}

// TradingConfig holds order-placement configuration for the webhook layer.
type TradingConfig struct {
	DefaultExchange string  `mapstructure:"default_exchange"` // NSE, BSE
	DefaultProduct  string  `mapstructure:"default_product"`  // CNC, MIS
	BudgetPerTrade  float64 `mapstructure:"budget_per_trade"` // INR per BUY order
}

// SignalsConfig holds signal source and report paths.
type SignalsConfig struct {
	BuyFile    string `mapstructure:"buy_file"`
	SellFile   string `mapstructure:"sell_file"`
	ReportFile string `mapstructure:"report_file"`
}

// PricesConfig holds price-history cache configuration.
type PricesConfig struct {
	CachePath string `mapstructure:"cache_path"` // empty disables the durable cache
	KeepCache bool   `mapstructure:"keep_cache"` // keep cached series after a run
}

// ServerConfig holds webhook server configuration.
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// Credentials holds API credentials.
type Credentials struct {
	Zerodha ZerodhaCredentials `mapstructure:"zerodha"`
	OpenAI  OpenAICredentials  `mapstructure:"openai"`
}

// ZerodhaCredentials holds Zerodha API credentials.
type ZerodhaCredentials struct {
	APIKey      string `mapstructure:"api_key"`
	APISecret   string `mapstructure:"api_secret"`
	AccessToken string `mapstructure:"access_token"`
	UserID      string `mapstructure:"user_id"`
}

// OpenAICredentials holds OpenAI API credentials.
type OpenAICredentials struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/tradepilot"
	}
	return filepath.Join(home, ".config", "tradepilot")
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	cfg := &Config{}

	if err := loadConfigFile(configDir, cfg); err != nil {
		return nil, fmt.Errorf("loading config.toml: %w", err)
	}

	if err := loadCredentials(configDir, &cfg.Credentials); err != nil {
		return nil, fmt.Errorf("loading credentials.toml: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func loadConfigFile(configDir string, target *Config) error {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	// Defaults
	v.SetDefault("trading.default_exchange", "NSE")
	v.SetDefault("trading.default_product", "CNC")
	v.SetDefault("trading.budget_per_trade", 1000.0)
	v.SetDefault("signals.buy_file", "buy_signals.csv")
	v.SetDefault("signals.sell_file", "sell_signals.csv")
	v.SetDefault("signals.report_file", "buy_sell_trades_final.csv")
	v.SetDefault("prices.cache_path", filepath.Join(configDir, "prices.db"))
	v.SetDefault("prices.keep_cache", false)
	v.SetDefault("server.addr", ":5000")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return createTemplateConfig(configDir)
		}
		return err
	}

	return v.Unmarshal(target)
}

func loadCredentials(configDir string, creds *Credentials) error {
	v := viper.New()
	v.SetConfigName("credentials")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	v.SetDefault("openai.model", "gpt-4o")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return createTemplateCredentials(configDir)
		}
		return err
	}

	return v.Unmarshal(creds)
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("KITE_API_KEY"); v != "" {
		cfg.Credentials.Zerodha.APIKey = v
	}
	if v := os.Getenv("KITE_API_SECRET"); v != "" {
		cfg.Credentials.Zerodha.APISecret = v
	}
	if v := os.Getenv("KITE_ACCESS_TOKEN"); v != "" {
		cfg.Credentials.Zerodha.AccessToken = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.Credentials.OpenAI.APIKey = v
	}
	if v := os.Getenv("TRADEPILOT_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if e := c.Trading.DefaultExchange; e != "" && e != "NSE" && e != "BSE" {
		return fmt.Errorf("invalid default_exchange: %s (must be NSE or BSE)", e)
	}
	if p := c.Trading.DefaultProduct; p != "" && p != "CNC" && p != "MIS" {
		return fmt.Errorf("invalid default_product: %s (must be CNC or MIS)", p)
	}
	if c.Trading.BudgetPerTrade < 0 {
		return fmt.Errorf("budget_per_trade must be non-negative")
	}
	if c.Signals.BuyFile == "" || c.Signals.SellFile == "" {
		return fmt.Errorf("signal source paths must not be empty")
	}
	return nil
}
