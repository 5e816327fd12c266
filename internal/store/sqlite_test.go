package store

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"

	"tradepilot/internal/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPriceSeriesRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	series := models.Series{
		{Date: models.NewDate(2024, 4, 1), Close: decimal.RequireFromString("102.35")},
		{Date: models.NewDate(2024, 4, 2), Close: decimal.RequireFromString("104.10")},
		{Date: models.NewDate(2024, 4, 3), Close: decimal.RequireFromString("99.95")},
	}

	if err := s.Put(ctx, "RELIANCE", series); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, ok, err := s.Get(ctx, "RELIANCE")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok {
		t.Fatal("expected a cache hit")
	}
	if len(got) != len(series) {
		t.Fatalf("expected %d points, got %d", len(series), len(got))
	}
	for i := range series {
		if got[i].Date != series[i].Date {
			t.Errorf("point %d: date %s != %s", i, got[i].Date, series[i].Date)
		}
		if !got[i].Close.Equal(series[i].Close) {
			t.Errorf("point %d: close %s != %s", i, got[i].Close, series[i].Close)
		}
	}
}

func TestGetMissReturnsNotFound(t *testing.T) {
	s := newTestStore(t)

	series, ok, err := s.Get(context.Background(), "NOSUCH")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok || series != nil {
		t.Errorf("expected a miss, got ok=%v series=%v", ok, series)
	}
}

func TestEvictRemovesSeries(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	series := models.Series{{Date: models.NewDate(2024, 4, 1), Close: decimal.NewFromInt(100)}}
	if err := s.Put(ctx, "TCS", series); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.Evict(ctx, "TCS"); err != nil {
		t.Fatalf("Evict: %v", err)
	}
	if _, ok, _ := s.Get(ctx, "TCS"); ok {
		t.Error("expected series gone after evict")
	}
}

func TestPutReplacesOverlappingDates(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first := models.Series{{Date: models.NewDate(2024, 4, 1), Close: decimal.NewFromInt(100)}}
	second := models.Series{{Date: models.NewDate(2024, 4, 1), Close: decimal.NewFromInt(105)}}

	if err := s.Put(ctx, "INFY", first); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.Put(ctx, "INFY", second); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, _, err := s.Get(ctx, "INFY")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 point after replace, got %d", len(got))
	}
	if !got[0].Close.Equal(decimal.NewFromInt(105)) {
		t.Errorf("expected replaced close 105, got %s", got[0].Close)
	}
}

func TestTradeJournalRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	trades := []models.Trade{
		{
			Symbol:     "RELIANCE",
			EntryDate:  models.NewDate(2024, 4, 1),
			ExitDate:   models.NewDate(2024, 4, 5),
			EntryPrice: decimal.NewNullDecimal(decimal.RequireFromString("1000.00")),
			ExitPrice:  decimal.NewNullDecimal(decimal.RequireFromString("1100.00")),
			ReturnPct:  decimal.NewNullDecimal(decimal.RequireFromString("10.00")),
		},
		{
			// Unresolved prices journal as NULLs.
			Symbol:    "TCS",
			EntryDate: models.NewDate(2024, 4, 2),
			ExitDate:  models.NewDate(2024, 4, 9),
		},
	}

	if err := s.SaveTrades(ctx, trades); err != nil {
		t.Fatalf("SaveTrades: %v", err)
	}

	got, err := s.GetTrades(ctx, TradeFilter{})
	if err != nil {
		t.Fatalf("GetTrades: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 trades, got %d", len(got))
	}

	// Newest entry date first.
	if got[0].Symbol != "TCS" || got[1].Symbol != "RELIANCE" {
		t.Errorf("unexpected order: %s, %s", got[0].Symbol, got[1].Symbol)
	}
	if got[0].EntryPrice.Valid {
		t.Error("expected NULL entry price to stay unresolved")
	}
	if !got[1].ReturnPct.Valid || !got[1].ReturnPct.Decimal.Equal(decimal.RequireFromString("10.00")) {
		t.Errorf("expected return_pct 10.00, got %v", got[1].ReturnPct)
	}
}

func TestGetTradesFilters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	trades := []models.Trade{
		{Symbol: "AAA", EntryDate: models.NewDate(2024, 4, 1), ExitDate: models.NewDate(2024, 4, 2)},
		{Symbol: "BBB", EntryDate: models.NewDate(2024, 5, 1), ExitDate: models.NewDate(2024, 5, 2)},
		{Symbol: "AAA", EntryDate: models.NewDate(2024, 6, 1), ExitDate: models.NewDate(2024, 6, 2)},
	}
	if err := s.SaveTrades(ctx, trades); err != nil {
		t.Fatalf("SaveTrades: %v", err)
	}

	bySymbol, err := s.GetTrades(ctx, TradeFilter{Symbol: "AAA"})
	if err != nil {
		t.Fatalf("GetTrades: %v", err)
	}
	if len(bySymbol) != 2 {
		t.Errorf("symbol filter: expected 2, got %d", len(bySymbol))
	}

	byRange, err := s.GetTrades(ctx, TradeFilter{
		From: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("GetTrades: %v", err)
	}
	if len(byRange) != 1 || byRange[0].Symbol != "BBB" {
		t.Errorf("date filter: expected only BBB, got %v", byRange)
	}

	limited, err := s.GetTrades(ctx, TradeFilter{Limit: 1})
	if err != nil {
		t.Fatalf("GetTrades: %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("limit filter: expected 1, got %d", len(limited))
	}
}

// Property: any series of day-spaced price points round-trips through
// the store with dates and closes intact.
func TestProperty_SeriesRoundTrip(t *testing.T) {
	s := newTestStore(t)

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	symbols := []string{"RELIANCE", "TCS", "INFY", "HDFC", "SBIN"}
	seq := 0

	seriesGen := gopter.CombineGens(
		gen.IntRange(0, len(symbols)-1),
		gen.IntRange(1, 20),
		gen.Int64Range(100, 500000),
	).Map(func(vals []interface{}) seriesCase {
		count := vals[1].(int)
		base := vals[2].(int64)
		series := make(models.Series, count)
		day := models.NewDate(2024, 1, 1)
		for i := range series {
			series[i] = models.PricePoint{
				Date:  day.AddDays(i),
				Close: decimal.New(base+int64(i)*7, -2),
			}
		}
		return seriesCase{symbol: symbols[vals[0].(int)], series: series}
	})

	properties.Property("series round-trip preserves dates and closes", prop.ForAll(
		func(c seriesCase) bool {
			ctx := context.Background()
			seq++
			symbol := fmt.Sprintf("%s_%d", c.symbol, seq)

			if err := s.Put(ctx, symbol, c.series); err != nil {
				t.Logf("Put: %v", err)
				return false
			}
			got, ok, err := s.Get(ctx, symbol)
			if err != nil || !ok {
				t.Logf("Get: ok=%v err=%v", ok, err)
				return false
			}
			if len(got) != len(c.series) {
				return false
			}
			for i := range got {
				if got[i].Date != c.series[i].Date || !got[i].Close.Equal(c.series[i].Close) {
					return false
				}
			}
			return true
		},
		seriesGen,
	))

	properties.TestingRun(t)
}

type seriesCase struct {
	symbol string
	series models.Series
}
