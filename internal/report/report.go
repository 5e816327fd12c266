// Package report renders valuated trades as CSV and the run summary
// for the terminal.
package report

import (
	"fmt"
	"io"
	"os"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"

	"tradepilot/internal/models"
	"tradepilot/pkg/utils"
)

type tradeRow struct {
	Symbol     string `csv:"symbol"`
	EntryDate  string `csv:"entry_date"`
	ExitDate   string `csv:"exit_date"`
	EntryPrice string `csv:"entry_price"`
	ExitPrice  string `csv:"exit_price"`
	ReturnPct  string `csv:"return_pct"`
}

// WriteCSV writes one row per matched trade to path. Unresolved prices
// and returns render as empty cells, never as zeroes.
func WriteCSV(path string, trades []models.Trade) error {
	rows := make([]tradeRow, len(trades))
	for i, t := range trades {
		rows[i] = tradeRow{
			Symbol:     t.Symbol,
			EntryDate:  t.EntryDate.String(),
			ExitDate:   t.ExitDate.String(),
			EntryPrice: cell(t.EntryPrice),
			ExitPrice:  cell(t.ExitPrice),
			ReturnPct:  cell(t.ReturnPct),
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}
	defer f.Close()

	if err := gocsv.MarshalFile(&rows, f); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

func cell(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.StringFixed(2)
}

// PrintSummary writes the run summary to w.
func PrintSummary(w io.Writer, summary models.Summary) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "===== Trade Summary =====")
	fmt.Fprintf(w, "Total trades       : %d\n", summary.TotalTrades)
	fmt.Fprintf(w, "Winning trades     : %d\n", summary.Wins)
	fmt.Fprintf(w, "Losing trades      : %d\n", summary.Losses)
	if summary.Unresolved > 0 {
		fmt.Fprintf(w, "Unpriced trades    : %d\n", summary.Unresolved)
	}
	fmt.Fprintf(w, "Total invested     : %s\n", utils.FormatRupees(summary.Invested))
	fmt.Fprintf(w, "Total sell value   : %s\n", utils.FormatRupees(summary.Proceeds))
	fmt.Fprintf(w, "Total P/L amount   : %s\n", utils.FormatRupees(summary.ProfitLoss))
	fmt.Fprintf(w, "Final ROI          : %s%%\n", summary.ROIPercent.StringFixed(2))
}
