package prices

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"tradepilot/internal/errors"
	"tradepilot/internal/logging"
	"tradepilot/internal/models"
	"tradepilot/internal/performance"
)

const (
	// ProbeWindowDays bounds the forward search for a close price: the
	// target date plus up to nine following calendar days. Exchange
	// series omit weekends and holidays, so probing forward finds the
	// first trading day on or after the target without a trading
	// calendar.
	ProbeWindowDays = 10

	// SpanPadDays widens each instrument's fetch range on both sides of
	// its trade dates, so entry and exit probes stay inside the series.
	SpanPadDays = 5

	fetchWorkers = 4
)

// Resolver supplies closing prices for (instrument, date) lookups from
// per-instrument series fetched once per run.
type Resolver struct {
	provider Provider
	durable  SeriesCache // optional
	log      zerolog.Logger

	mu     sync.RWMutex
	index  map[string]map[string]decimal.Decimal // symbol → date key → close
	warmed []string
}

// NewResolver creates a resolver. durable may be nil to disable the
// persistent cache.
func NewResolver(provider Provider, durable SeriesCache, logger zerolog.Logger) *Resolver {
	return &Resolver{
		provider: provider,
		durable:  durable,
		log:      logger,
		index:    make(map[string]map[string]decimal.Decimal),
	}
}

// span is the date range to fetch for one instrument.
type span struct {
	from models.Date
	to   models.Date
}

// Warm fetches the price series for every instrument appearing in
// trades, covering [min entry − SpanPadDays, max exit + SpanPadDays]
// per instrument. Fetches run concurrently; a failed fetch leaves that
// instrument unresolved and never aborts the others.
func (r *Resolver) Warm(ctx context.Context, trades []models.Trade) {
	spans := make(map[string]span)
	for _, t := range trades {
		s, ok := spans[t.Symbol]
		if !ok {
			spans[t.Symbol] = span{from: t.EntryDate, to: t.ExitDate}
			continue
		}
		if t.EntryDate.Before(s.from.Time) {
			s.from = t.EntryDate
		}
		if t.ExitDate.After(s.to.Time) {
			s.to = t.ExitDate
		}
		spans[t.Symbol] = s
	}

	pool := performance.NewWorkerPool(fetchWorkers)
	pool.Start()
	defer pool.Stop()

	var wg sync.WaitGroup
	for symbol, s := range spans {
		symbol, s := symbol, s
		wg.Add(1)
		task := func() {
			defer wg.Done()
			r.warmSymbol(ctx, symbol, s.from.AddDays(-SpanPadDays), s.to.AddDays(SpanPadDays))
		}
		if !pool.Submit(task) {
			// Queue full; fetch inline rather than dropping the symbol.
			task()
		}
	}
	wg.Wait()

	r.log.Info().Int("instruments", len(spans)).Msg("Price series warmed")
}

func (r *Resolver) warmSymbol(ctx context.Context, symbol string, from, to models.Date) {
	log := logging.WithSymbol(r.log, symbol)

	series, fromCache := r.cachedSeries(ctx, symbol)
	if !fromCache {
		var err error
		series, err = r.provider.Fetch(ctx, symbol, from, to)
		if err != nil {
			log.Warn().Err(errors.NewFetchError(symbol, err)).Msg("Instrument left unresolved")
			return
		}
		if len(series) == 0 {
			log.Warn().Msg("No price data found for instrument")
		}
		if r.durable != nil && len(series) > 0 {
			if err := r.durable.Put(ctx, symbol, series); err != nil {
				log.Warn().Err(err).Msg("Durable cache write failed")
			}
		}
	}

	byDate := make(map[string]decimal.Decimal, len(series))
	for _, p := range series {
		byDate[p.Date.Key()] = p.Close
	}

	r.mu.Lock()
	r.index[symbol] = byDate
	r.warmed = append(r.warmed, symbol)
	r.mu.Unlock()
}

func (r *Resolver) cachedSeries(ctx context.Context, symbol string) (models.Series, bool) {
	if r.durable == nil {
		return nil, false
	}
	series, ok, err := r.durable.Get(ctx, symbol)
	if err != nil {
		r.log.Warn().Err(err).Str("symbol", symbol).Msg("Durable cache read failed")
		return nil, false
	}
	if ok {
		r.log.Debug().Str("symbol", symbol).Int("points", len(series)).Msg("Using cached price series")
	}
	return series, ok
}

// Resolve returns the closing price for symbol on date, probing forward
// day by day within ProbeWindowDays when the exact date has no entry.
func (r *Resolver) Resolve(symbol string, date models.Date) (decimal.Decimal, error) {
	r.mu.RLock()
	byDate, ok := r.index[symbol]
	r.mu.RUnlock()
	if !ok {
		return decimal.Zero, errors.Wrapf(errors.ErrPriceUnavailable, "no series for %s", symbol)
	}

	for offset := 0; offset < ProbeWindowDays; offset++ {
		if price, ok := byDate[date.AddDays(offset).Key()]; ok {
			return price, nil
		}
	}

	return decimal.Zero, errors.Wrapf(errors.ErrPriceUnavailable, "%s around %s", symbol, date)
}

// Cleanup evicts every warmed instrument from the durable cache. The
// cache is an optimization for the run, not a dataset worth keeping.
func (r *Resolver) Cleanup(ctx context.Context) {
	if r.durable == nil {
		return
	}

	r.mu.RLock()
	warmed := append([]string(nil), r.warmed...)
	r.mu.RUnlock()

	for _, symbol := range warmed {
		if err := r.durable.Evict(ctx, symbol); err != nil {
			r.log.Warn().Err(err).Str("symbol", symbol).Msg("Cache eviction failed")
		}
	}
}
