package cli

import (
	"github.com/spf13/cobra"

	"tradepilot/internal/store"
	"tradepilot/pkg/utils"
)

// newTradesCmd creates the trade journal viewer.
func newTradesCmd(app *App) *cobra.Command {
	var (
		symbol string
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "trades",
		Short: "Show journaled trades from past runs",
		Example: `  tradepilot trades
  tradepilot trades --symbol RELIANCE --limit 10`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			db, err := store.NewSQLiteStore(app.Config.Prices.CachePath)
			if err != nil {
				output.Error("Failed to open trade journal: %v", err)
				return err
			}
			defer db.Close()

			trades, err := db.GetTrades(cmd.Context(), store.TradeFilter{
				Symbol: symbol,
				Limit:  limit,
			})
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(trades)
			}

			if len(trades) == 0 {
				output.Dim("No journaled trades.")
				return nil
			}

			output.Bold("%-12s %-12s %-12s %12s %12s %10s", "SYMBOL", "ENTRY", "EXIT", "BUY", "SELL", "RETURN")
			for _, t := range trades {
				buy, sell, ret := "-", "-", "-"
				if t.EntryPrice.Valid {
					buy = utils.FormatRupees(t.EntryPrice.Decimal)
				}
				if t.ExitPrice.Valid {
					sell = utils.FormatRupees(t.ExitPrice.Decimal)
				}
				if t.ReturnPct.Valid {
					ret = t.ReturnPct.Decimal.StringFixed(2) + "%"
				}
				output.Printf("%-12s %-12s %-12s %12s %12s %10s\n",
					t.Symbol, t.EntryDate, t.ExitDate, buy, sell, ret)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&symbol, "symbol", "", "filter by instrument")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum rows (0 = all)")

	return cmd
}
