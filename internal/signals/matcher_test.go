package signals

import (
	"testing"

	"github.com/rs/zerolog"

	"tradepilot/internal/models"
)

func day(d int) models.Date {
	return models.NewDate(2024, 3, d)
}

func sig(symbol string, d int, side models.Side) models.Signal {
	return models.Signal{Symbol: symbol, Date: day(d), Side: side}
}

func TestMatchFoldsRepeatBuysAndReopens(t *testing.T) {
	signals := []models.Signal{
		sig("AAA", 1, models.SideBuy),
		sig("AAA", 3, models.SideBuy), // ignored, position already open
		sig("AAA", 5, models.SideSell),
		sig("AAA", 7, models.SideBuy),
		sig("AAA", 9, models.SideSell),
	}

	trades, stats := NewMatcher(zerolog.Nop()).Match(signals)

	if len(trades) != 2 {
		t.Fatalf("expected 2 trades, got %d", len(trades))
	}
	if !trades[0].EntryDate.Equal(day(1).Time) || !trades[0].ExitDate.Equal(day(5).Time) {
		t.Errorf("first trade: got %s → %s", trades[0].EntryDate, trades[0].ExitDate)
	}
	if !trades[1].EntryDate.Equal(day(7).Time) || !trades[1].ExitDate.Equal(day(9).Time) {
		t.Errorf("second trade: got %s → %s", trades[1].EntryDate, trades[1].ExitDate)
	}
	if stats.IgnoredBuys != 1 {
		t.Errorf("expected 1 ignored buy, got %d", stats.IgnoredBuys)
	}
}

func TestMatchDropsUnmatchedSell(t *testing.T) {
	signals := []models.Signal{
		sig("BBB", 2, models.SideSell),
	}

	trades, stats := NewMatcher(zerolog.Nop()).Match(signals)

	if len(trades) != 0 {
		t.Fatalf("expected no trades, got %d", len(trades))
	}
	if stats.UnmatchedSells != 1 {
		t.Errorf("expected 1 unmatched sell, got %d", stats.UnmatchedSells)
	}
}

func TestMatchIndependentInstruments(t *testing.T) {
	signals := []models.Signal{
		sig("AAA", 1, models.SideBuy),
		sig("BBB", 2, models.SideBuy),
		sig("BBB", 3, models.SideSell),
		sig("AAA", 4, models.SideSell),
	}

	trades, _ := NewMatcher(zerolog.Nop()).Match(signals)

	if len(trades) != 2 {
		t.Fatalf("expected 2 trades, got %d", len(trades))
	}
	// Trades come out in closing-SELL order.
	if trades[0].Symbol != "BBB" || trades[1].Symbol != "AAA" {
		t.Errorf("trade order: got %s then %s", trades[0].Symbol, trades[1].Symbol)
	}
}

func TestMatchOpenPositionLeftUnclosed(t *testing.T) {
	signals := []models.Signal{
		sig("CCC", 1, models.SideBuy),
	}

	trades, stats := NewMatcher(zerolog.Nop()).Match(signals)

	if len(trades) != 0 {
		t.Fatalf("a still-open position must not produce a trade, got %d", len(trades))
	}
	if stats.Trades != 0 || stats.Signals != 1 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}
