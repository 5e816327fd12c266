package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# TradePilot Configuration

[trading]
# Default exchange: NSE, BSE
default_exchange = "NSE"
# Default product type: CNC (delivery), MIS (intraday)
default_product = "CNC"
# Budget per automated BUY order in INR; quantity = floor(budget / LTP), min 1
budget_per_trade = 1000.0

[signals]
# Signal sources: CSV files with columns "date" (DD-MM-YYYY) and "symbol"
buy_file = "buy_signals.csv"
sell_file = "sell_signals.csv"
# Reconciled trade report output
report_file = "buy_sell_trades_final.csv"

[prices]
# Durable price-series cache (SQLite). Empty string disables it.
# cache_path = "~/.config/tradepilot/prices.db"
# Keep cached series after a run instead of evicting them
keep_cache = false

[server]
# Webhook server listen address
addr = ":5000"
`

const credentialsTemplate = `# TradePilot Credentials
# WARNING: Keep this file secure! Do not commit to version control.

[zerodha]
api_key = ""
api_secret = ""
access_token = ""
user_id = ""

[openai]
api_key = ""
model = "gpt-4o"
`

func createTemplateConfig(configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, "config.toml")
	if err := os.WriteFile(path, []byte(configTemplate), 0644); err != nil {
		return fmt.Errorf("writing config template: %w", err)
	}

	return fmt.Errorf("config file not found, created template at %s", path)
}

func createTemplateCredentials(configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, "credentials.toml")
	// Use restricted permissions for credentials file
	if err := os.WriteFile(path, []byte(credentialsTemplate), 0600); err != nil {
		return fmt.Errorf("writing credentials template: %w", err)
	}

	return fmt.Errorf("credentials file not found, created template at %s", path)
}
