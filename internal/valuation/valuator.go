// Package valuation backfills execution prices onto matched trades and
// aggregates them into a run summary.
package valuation

import (
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"tradepilot/internal/models"
)

var hundred = decimal.NewFromInt(100)

// PriceSource resolves a closing price for an instrument on or shortly
// after a date. The price resolver satisfies this.
type PriceSource interface {
	Resolve(symbol string, date models.Date) (decimal.Decimal, error)
}

// Valuator prices trades against a historical close source.
type Valuator struct {
	prices PriceSource
	log    zerolog.Logger
}

func NewValuator(prices PriceSource, logger zerolog.Logger) *Valuator {
	return &Valuator{prices: prices, log: logger}
}

// Valuate fills entry and exit prices on every trade and computes its
// percentage return. Trades whose prices cannot be resolved keep their
// price fields unset and are reported as unresolved in the summary;
// they contribute to no monetary aggregate.
func (v *Valuator) Valuate(trades []models.Trade) ([]models.Trade, models.Summary) {
	out := make([]models.Trade, len(trades))
	summary := models.Summary{TotalTrades: len(trades)}

	for i, trade := range trades {
		if entry, err := v.prices.Resolve(trade.Symbol, trade.EntryDate); err == nil {
			trade.EntryPrice = decimal.NewNullDecimal(entry)
		} else {
			v.log.Warn().Err(err).
				Str("symbol", trade.Symbol).
				Str("date", trade.EntryDate.String()).
				Msg("Entry price unresolved")
		}
		if exit, err := v.prices.Resolve(trade.Symbol, trade.ExitDate); err == nil {
			trade.ExitPrice = decimal.NewNullDecimal(exit)
		} else {
			v.log.Warn().Err(err).
				Str("symbol", trade.Symbol).
				Str("date", trade.ExitDate.String()).
				Msg("Exit price unresolved")
		}

		if trade.Resolved() && !trade.EntryPrice.Decimal.IsZero() {
			ret := trade.ExitPrice.Decimal.
				Sub(trade.EntryPrice.Decimal).
				Div(trade.EntryPrice.Decimal).
				Mul(hundred)
			trade.ReturnPct = decimal.NewNullDecimal(ret)
		}

		if trade.Resolved() {
			if trade.ReturnPct.Valid && trade.ReturnPct.Decimal.IsPositive() {
				summary.Wins++
			} else {
				summary.Losses++
			}
			summary.Invested = summary.Invested.Add(trade.EntryPrice.Decimal)
			summary.Proceeds = summary.Proceeds.Add(trade.ExitPrice.Decimal)
		} else {
			summary.Unresolved++
		}

		out[i] = trade
	}

	summary.ProfitLoss = summary.Proceeds.Sub(summary.Invested)
	if summary.Invested.IsPositive() {
		summary.ROIPercent = summary.ProfitLoss.Div(summary.Invested).Mul(hundred)
	}

	return out, summary
}
