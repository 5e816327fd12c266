package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"tradepilot/internal/models"
)

func TestWriteCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trades.csv")

	trades := []models.Trade{
		{
			Symbol:     "RELIANCE",
			EntryDate:  models.NewDate(2024, 4, 1),
			ExitDate:   models.NewDate(2024, 4, 5),
			EntryPrice: decimal.NewNullDecimal(decimal.RequireFromString("1000")),
			ExitPrice:  decimal.NewNullDecimal(decimal.RequireFromString("1100")),
			ReturnPct:  decimal.NewNullDecimal(decimal.RequireFromString("10")),
		},
		{
			Symbol:    "TCS",
			EntryDate: models.NewDate(2024, 4, 2),
			ExitDate:  models.NewDate(2024, 4, 9),
		},
	}

	if err := WriteCSV(path, trades); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")

	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %d lines", len(lines))
	}
	if lines[0] != "symbol,entry_date,exit_date,entry_price,exit_price,return_pct" {
		t.Errorf("unexpected header: %s", lines[0])
	}
	if lines[1] != "RELIANCE,01-04-2024,05-04-2024,1000.00,1100.00,10.00" {
		t.Errorf("unexpected priced row: %s", lines[1])
	}
	// Unresolved trade still gets a row, with blank price cells.
	if lines[2] != "TCS,02-04-2024,09-04-2024,,," {
		t.Errorf("unexpected unresolved row: %s", lines[2])
	}
}

func TestWriteCSVEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trades.csv")

	if err := WriteCSV(path, nil); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if got := strings.TrimSpace(string(data)); got != "symbol,entry_date,exit_date,entry_price,exit_price,return_pct" {
		t.Errorf("expected header only, got %q", got)
	}
}

func TestPrintSummary(t *testing.T) {
	summary := models.Summary{
		TotalTrades: 3,
		Wins:        2,
		Losses:      1,
		Invested:    decimal.RequireFromString("150000"),
		Proceeds:    decimal.RequireFromString("165000"),
		ProfitLoss:  decimal.RequireFromString("15000"),
		ROIPercent:  decimal.RequireFromString("10"),
	}

	var b strings.Builder
	PrintSummary(&b, summary)
	out := b.String()

	for _, want := range []string{
		"===== Trade Summary =====",
		"Total trades       : 3",
		"Winning trades     : 2",
		"Losing trades      : 1",
		"Total invested     : ₹1,50,000.00",
		"Total sell value   : ₹1,65,000.00",
		"Total P/L amount   : ₹15,000.00",
		"Final ROI          : 10.00%",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q in:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Unpriced") {
		t.Error("unpriced line should only appear when unresolved > 0")
	}
}

func TestPrintSummaryUnresolvedLine(t *testing.T) {
	var b strings.Builder
	PrintSummary(&b, models.Summary{TotalTrades: 1, Unresolved: 1})

	if !strings.Contains(b.String(), "Unpriced trades    : 1") {
		t.Errorf("expected unpriced line in:\n%s", b.String())
	}
}
