// Package signals ingests raw BUY/SELL signal records and folds them into
// completed round-trip trades.
package signals

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/rs/zerolog"

	"tradepilot/internal/errors"
	"tradepilot/internal/logging"
	"tradepilot/internal/models"
)

// signalRow is the CSV shape of one signal source record. Dates are kept
// as raw strings so a bad record can be skipped without failing the file.
type signalRow struct {
	Date   string `csv:"date"`
	Symbol string `csv:"symbol"`
}

// Loader reads signal sources and merges them into one ordered stream.
type Loader struct {
	log zerolog.Logger
}

// NewLoader creates a new signal loader.
func NewLoader(logger zerolog.Logger) *Loader {
	return &Loader{log: logger}
}

// Load reads the BUY and SELL sources and returns their merged signal
// stream, sorted ascending by date. The sort is stable: signals on the
// same date keep their source order (all buys precede all sells for a
// date only if they did in the inputs; no side-based tie-break is applied).
func (l *Loader) Load(buyPath, sellPath string) ([]models.Signal, error) {
	buys, err := l.LoadSource(buyPath, models.SideBuy)
	if err != nil {
		return nil, errors.Wrapf(err, "loading buy signals from %s", buyPath)
	}

	sells, err := l.LoadSource(sellPath, models.SideSell)
	if err != nil {
		return nil, errors.Wrapf(err, "loading sell signals from %s", sellPath)
	}

	merged := make([]models.Signal, 0, len(buys)+len(sells))
	merged = append(merged, buys...)
	merged = append(merged, sells...)

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Date.Before(merged[j].Date.Time)
	})

	l.log.Info().
		Int("buys", len(buys)).
		Int("sells", len(sells)).
		Int("total", len(merged)).
		Msg("Signals loaded and sorted")

	return merged, nil
}

// LoadSource reads one signal CSV and tags every record with the given
// side. Malformed records are logged and skipped; an unreadable file, or a
// file whose records are all malformed, fails the load.
func (l *Loader) LoadSource(path string, side models.Side) ([]models.Signal, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening signal source: %w", err)
	}
	defer f.Close()

	var rows []*signalRow
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, fmt.Errorf("parsing signal source: %w", err)
	}

	signals := make([]models.Signal, 0, len(rows))
	for i, row := range rows {
		line := i + 2 // header is line 1
		sig, err := parseRow(path, line, row, side)
		if err != nil {
			l.log.Warn().Err(err).Msg("Skipping malformed signal record")
			continue
		}
		logging.LogSignal(l.log, sig.Symbol, string(sig.Side), sig.Date.String())
		signals = append(signals, sig)
	}

	if len(rows) > 0 && len(signals) == 0 {
		return nil, errors.Wrapf(errors.ErrNoSignals, "source %s", path)
	}

	return signals, nil
}

func parseRow(source string, line int, row *signalRow, side models.Side) (models.Signal, error) {
	symbol := strings.ToUpper(strings.TrimSpace(row.Symbol))
	if symbol == "" {
		return models.Signal{}, errors.NewRecordError(source, line, "symbol", nil)
	}
	if strings.TrimSpace(row.Date) == "" {
		return models.Signal{}, errors.NewRecordError(source, line, "date", nil)
	}

	date, err := models.ParseDate(row.Date)
	if err != nil {
		return models.Signal{}, errors.NewRecordError(source, line, "date", err)
	}

	return models.Signal{Symbol: symbol, Date: date, Side: side}, nil
}
