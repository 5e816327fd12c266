package signals

import (
	"github.com/rs/zerolog"

	"tradepilot/internal/logging"
	"tradepilot/internal/models"
)

// MatchStats counts what the matcher did with the signal stream. Dropped
// signals are not errors, but they are worth surfacing.
type MatchStats struct {
	Signals        int
	Trades         int
	IgnoredBuys    int // BUY while a position was already open
	UnmatchedSells int // SELL with no open position
}

// Matcher folds an ordered signal stream into completed trades. Each
// instrument carries at most one open position: the first BUY opens it,
// the first subsequent SELL closes it, and everything else is dropped.
type Matcher struct {
	log zerolog.Logger
}

// NewMatcher creates a new position matcher.
func NewMatcher(logger zerolog.Logger) *Matcher {
	return &Matcher{log: logger}
}

// Match runs the single-pass fold over signals, which must already be in
// chronological order. Trades are emitted in the order their closing SELL
// was processed. The open-position state is owned by this call; Match is
// deterministic and safe to re-run on the same stream.
func (m *Matcher) Match(signals []models.Signal) ([]models.Trade, MatchStats) {
	open := make(map[string]models.Date)
	trades := make([]models.Trade, 0)
	stats := MatchStats{Signals: len(signals)}

	for _, sig := range signals {
		switch sig.Side {
		case models.SideBuy:
			if _, ok := open[sig.Symbol]; ok {
				// First buy wins; a repeat BUY neither resets nor stacks.
				stats.IgnoredBuys++
				m.log.Debug().
					Str("symbol", sig.Symbol).
					Str("date", sig.Date.String()).
					Msg("BUY ignored, position already open")
				continue
			}
			open[sig.Symbol] = sig.Date

		case models.SideSell:
			entry, ok := open[sig.Symbol]
			if !ok {
				// No short selling modeled.
				stats.UnmatchedSells++
				m.log.Debug().
					Str("symbol", sig.Symbol).
					Str("date", sig.Date.String()).
					Msg("SELL ignored, no open position")
				continue
			}
			delete(open, sig.Symbol)
			trades = append(trades, models.Trade{
				Symbol:    sig.Symbol,
				EntryDate: entry,
				ExitDate:  sig.Date,
			})
			logging.LogTradeMatched(m.log, sig.Symbol, entry.String(), sig.Date.String())
		}
	}

	stats.Trades = len(trades)
	m.log.Info().
		Int("signals", stats.Signals).
		Int("trades", stats.Trades).
		Int("ignored_buys", stats.IgnoredBuys).
		Int("unmatched_sells", stats.UnmatchedSells).
		Msg("Trade simulation complete")

	return trades, stats
}
