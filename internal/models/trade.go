package models

import "github.com/shopspring/decimal"

// Signal is a dated BUY or SELL instruction for one instrument.
// Signals are immutable once ingested; duplicates are meaningful
// (repeat buys before a sell are folded by the matcher).
type Signal struct {
	Symbol string
	Date   Date
	Side   Side
}

// Trade represents a completed buy-then-sell round trip for one instrument.
// Prices and return are filled in by valuation; either price may be left
// unresolved, in which case ReturnPct stays unset rather than zero.
type Trade struct {
	Symbol     string
	EntryDate  Date
	ExitDate   Date
	EntryPrice decimal.NullDecimal
	ExitPrice  decimal.NullDecimal
	ReturnPct  decimal.NullDecimal
}

// Resolved reports whether both execution prices were backfilled.
func (t Trade) Resolved() bool {
	return t.EntryPrice.Valid && t.ExitPrice.Valid
}

// PricePoint is one closing price in a historical series.
type PricePoint struct {
	Date  Date
	Close decimal.Decimal
}

// Series is a per-instrument close-price history, ordered by date ascending.
type Series []PricePoint

// Summary aggregates all valuated trades of a run.
// Trades with unresolved prices are counted in Unresolved and excluded
// from the win/loss counts and from every monetary sum.
type Summary struct {
	TotalTrades int
	Wins        int
	Losses      int
	Unresolved  int
	Invested    decimal.Decimal
	Proceeds    decimal.Decimal
	ProfitLoss  decimal.Decimal
	ROIPercent  decimal.Decimal
}
