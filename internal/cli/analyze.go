package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"tradepilot/internal/logging"
	"tradepilot/internal/prices"
	"tradepilot/internal/report"
	"tradepilot/internal/signals"
	"tradepilot/internal/store"
	"tradepilot/internal/valuation"
)

// newAnalyzeCmd creates the signal reconciliation command. It merges the
// buy and sell signal logs, pairs them into round-trip trades, prices
// them from historical data, and writes the trade report.
func newAnalyzeCmd(app *App) *cobra.Command {
	var (
		buyFile   string
		sellFile  string
		outFile   string
		keepCache bool
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Reconcile signal logs into valuated trades",
		Long: `Analyze merges the buy and sell signal CSVs, pairs them into
buy-then-sell round trips per instrument, backfills entry and exit
prices from historical closing data, and writes the final trade CSV
plus a summary.`,
		Example: `  tradepilot analyze
  tradepilot analyze --buy buys.csv --sell sells.csv --output trades.csv
  tradepilot analyze --keep-cache`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Minute)
			defer cancel()

			if app.Broker == nil {
				output.Error("Broker not configured. Please check your credentials.toml")
				return fmt.Errorf("broker not configured")
			}

			return runAnalyze(ctx, app, output, analyzeOptions{
				buyFile:   buyFile,
				sellFile:  sellFile,
				outFile:   outFile,
				keepCache: keepCache,
			})
		},
	}

	cmd.Flags().StringVar(&buyFile, "buy", "", "buy signals CSV (default from config)")
	cmd.Flags().StringVar(&sellFile, "sell", "", "sell signals CSV (default from config)")
	cmd.Flags().StringVar(&outFile, "output", "", "trade report CSV (default from config)")
	cmd.Flags().BoolVar(&keepCache, "keep-cache", false, "keep the price cache after the run")

	return cmd
}

type analyzeOptions struct {
	buyFile   string
	sellFile  string
	outFile   string
	keepCache bool
}

func runAnalyze(ctx context.Context, app *App, output *Output, opts analyzeOptions) error {
	cfg := app.Config
	log := logging.WithOperation(app.Logger, "analyze")
	if opts.buyFile == "" {
		opts.buyFile = cfg.Signals.BuyFile
	}
	if opts.sellFile == "" {
		opts.sellFile = cfg.Signals.SellFile
	}
	if opts.outFile == "" {
		opts.outFile = cfg.Signals.ReportFile
	}

	// Load and merge signal sources.
	loader := signals.NewLoader(log)
	sigs, err := loader.Load(opts.buyFile, opts.sellFile)
	if err != nil {
		return err
	}
	output.Info("Loaded %d signals", len(sigs))

	// Pair signals into round trips.
	matcher := signals.NewMatcher(log)
	trades, stats := matcher.Match(sigs)
	output.Info("Matched %d trades (%d repeat buys folded, %d unmatched sells dropped)",
		stats.Trades, stats.IgnoredBuys, stats.UnmatchedSells)

	// Durable price cache, when configured.
	var durable prices.SeriesCache
	var db *store.SQLiteStore
	if cfg.Prices.CachePath != "" {
		db, err = store.NewSQLiteStore(cfg.Prices.CachePath)
		if err != nil {
			log.Warn().Err(err).Msg("Price cache unavailable, fetching everything")
		} else {
			durable = db
			defer db.Close()
		}
	}

	provider := prices.NewBrokerProvider(app.Broker, log)
	resolver := prices.NewResolver(provider, durable, log)
	resolver.Warm(ctx, trades)

	valuator := valuation.NewValuator(resolver, log)
	valuated, summary := valuator.Valuate(trades)

	if err := report.WriteCSV(opts.outFile, valuated); err != nil {
		return err
	}
	output.Success("✓ Trade analysis complete! Output saved → %s", opts.outFile)

	if db != nil {
		if err := db.SaveTrades(ctx, valuated); err != nil {
			log.Warn().Err(err).Msg("Trade journaling failed")
		}
	}

	report.PrintSummary(output.Writer(), summary)

	if !opts.keepCache && !cfg.Prices.KeepCache {
		resolver.Cleanup(ctx)
	}

	return nil
}
