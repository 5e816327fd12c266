package cli

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"tradepilot/internal/advisor"
	"tradepilot/internal/broker"
	"tradepilot/internal/config"
	"tradepilot/internal/logging"
	"tradepilot/internal/models"
)

// Version information
const (
	Version   = "0.1.0"
	BuildDate = "2024-06-01"
)

// App holds the application dependencies.
type App struct {
	Config  *config.Config
	Logger  zerolog.Logger
	Broker  broker.Broker
	Advisor *advisor.Advisor
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	if cfg.Credentials.Zerodha.APIKey != "" {
		app.Broker = broker.NewZerodha(broker.ZerodhaConfig{
			APIKey:      cfg.Credentials.Zerodha.APIKey,
			APISecret:   cfg.Credentials.Zerodha.APISecret,
			AccessToken: cfg.Credentials.Zerodha.AccessToken,
			UserID:      cfg.Credentials.Zerodha.UserID,
			Exchange:    models.Exchange(cfg.Trading.DefaultExchange),
		})
		logger.Debug().Msg("Zerodha broker initialized")
	}

	if cfg.Credentials.OpenAI.APIKey != "" {
		llm := advisor.NewOpenAIClient(cfg.Credentials.OpenAI.APIKey, cfg.Credentials.OpenAI.Model)
		app.Advisor = advisor.New(llm, logger)
		logger.Debug().Str("model", cfg.Credentials.OpenAI.Model).Msg("OpenAI advisor initialized")
	}

	rootCmd := &cobra.Command{
		Use:   "tradepilot",
		Short: "TradePilot - signal-driven equity trade automation",
		Long: `TradePilot reconciles buy/sell signal logs into round-trip trades,
prices them against historical market data, and reports the results.

It also serves a webhook endpoint that turns incoming alerts into
Zerodha Kite Connect orders, with optional AI advisory scans.

Use 'tradepilot help <command>' for more information about a command.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				logging.SetDebugLevel()
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/tradepilot)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(app))
	rootCmd.AddCommand(newAnalyzeCmd(app))
	rootCmd.AddCommand(newServeCmd(app))
	rootCmd.AddCommand(newTradesCmd(app))
	addAuthCommands(rootCmd, app)

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{
					"version":    Version,
					"build_date": BuildDate,
				})
			} else {
				output.Printf("TradePilot v%s\n", Version)
				output.Dim("Build date: %s", BuildDate)
			}
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "View and manage application configuration.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(app.Config)
			}
			showConfig(output, app.Config)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration directory path",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{"path": config.DefaultConfigDir()})
			} else {
				output.Println(config.DefaultConfigDir())
			}
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration files",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := app.Config.Validate(); err != nil {
				output.Error("Configuration validation failed: %v", err)
				return err
			}
			if output.IsJSON() {
				output.JSON(map[string]bool{"valid": true})
			} else {
				output.Success("✓ Configuration is valid")
			}
			return nil
		},
	})

	return cmd
}

func showConfig(output *Output, cfg *config.Config) {
	output.Bold("Trading Configuration")
	output.Printf("  Default Exchange: %s\n", cfg.Trading.DefaultExchange)
	output.Printf("  Default Product:  %s\n", cfg.Trading.DefaultProduct)
	output.Printf("  Budget/Trade:     ₹%.2f\n", cfg.Trading.BudgetPerTrade)
	output.Println()

	output.Bold("Signal Sources")
	output.Printf("  Buy signals:      %s\n", cfg.Signals.BuyFile)
	output.Printf("  Sell signals:     %s\n", cfg.Signals.SellFile)
	output.Printf("  Report output:    %s\n", cfg.Signals.ReportFile)
	output.Println()

	output.Bold("Price Cache")
	output.Printf("  Cache path:       %s\n", cfg.Prices.CachePath)
	output.Printf("  Keep cache:       %v\n", cfg.Prices.KeepCache)
	output.Println()

	output.Bold("Server")
	output.Printf("  Address:          %s\n", cfg.Server.Addr)
}
