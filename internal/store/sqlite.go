// Package store provides SQLite-backed persistence for price series
// and the trade journal.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"tradepilot/internal/models"
)

// TradeFilter narrows GetTrades results. Zero values mean "no filter".
type TradeFilter struct {
	Symbol string
	From   time.Time
	To     time.Time
	Limit  int
}

// SQLiteStore persists price series and matched trades. It satisfies
// the price resolver's durable cache interface.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at dbPath.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	// Closes and returns keep decimal precision by storing as TEXT.
	schema := `
	CREATE TABLE IF NOT EXISTS price_series (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		symbol TEXT NOT NULL,
		date DATE NOT NULL,
		close TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(symbol, date)
	);

	CREATE TABLE IF NOT EXISTS trades (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		symbol TEXT NOT NULL,
		entry_date DATE NOT NULL,
		exit_date DATE NOT NULL,
		entry_price TEXT,
		exit_price TEXT,
		return_pct TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_series_symbol ON price_series(symbol);
	CREATE INDEX IF NOT EXISTS idx_trades_symbol ON trades(symbol);
	CREATE INDEX IF NOT EXISTS idx_trades_entry_date ON trades(entry_date);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ============================================================================
// Price Series Methods
// ============================================================================

// Put saves a price series for symbol, replacing overlapping dates.
func (s *SQLiteStore) Put(ctx context.Context, symbol string, series models.Series) error {
	if len(series) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO price_series (symbol, date, close)
		VALUES (?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, p := range series {
		if _, err := stmt.ExecContext(ctx, symbol, p.Date.Key(), p.Close.String()); err != nil {
			return fmt.Errorf("failed to insert price point: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Get retrieves the cached series for symbol, reporting whether any
// points were found.
func (s *SQLiteStore) Get(ctx context.Context, symbol string) (models.Series, bool, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT date, close FROM price_series
		WHERE symbol = ?
		ORDER BY date ASC
	`, symbol)
	if err != nil {
		return nil, false, fmt.Errorf("failed to query price series: %w", err)
	}
	defer rows.Close()

	var series models.Series
	for rows.Next() {
		var dateStr, closeStr string
		if err := rows.Scan(&dateStr, &closeStr); err != nil {
			return nil, false, fmt.Errorf("failed to scan price point: %w", err)
		}
		day, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			return nil, false, fmt.Errorf("invalid date in price series: %w", err)
		}
		price, err := decimal.NewFromString(closeStr)
		if err != nil {
			return nil, false, fmt.Errorf("invalid close in price series: %w", err)
		}
		series = append(series, models.PricePoint{Date: models.DateOf(day), Close: price})
	}

	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("error iterating price series: %w", err)
	}

	return series, len(series) > 0, nil
}

// Evict removes all cached price points for symbol.
func (s *SQLiteStore) Evict(ctx context.Context, symbol string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM price_series WHERE symbol = ?`, symbol); err != nil {
		return fmt.Errorf("failed to evict price series: %w", err)
	}
	return nil
}

// ============================================================================
// Trades Methods
// ============================================================================

// SaveTrades appends valuated trades to the journal.
func (s *SQLiteStore) SaveTrades(ctx context.Context, trades []models.Trade) error {
	if len(trades) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO trades (symbol, entry_date, exit_date, entry_price, exit_price, return_pct)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, t := range trades {
		_, err := stmt.ExecContext(ctx,
			t.Symbol,
			t.EntryDate.Key(),
			t.ExitDate.Key(),
			nullDecimal(t.EntryPrice),
			nullDecimal(t.ExitPrice),
			nullDecimal(t.ReturnPct),
		)
		if err != nil {
			return fmt.Errorf("failed to insert trade: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetTrades retrieves journaled trades matching the filter, newest first.
func (s *SQLiteStore) GetTrades(ctx context.Context, filter TradeFilter) ([]models.Trade, error) {
	query := `SELECT symbol, entry_date, exit_date, entry_price, exit_price, return_pct FROM trades WHERE 1=1`
	var args []interface{}

	if filter.Symbol != "" {
		query += ` AND symbol = ?`
		args = append(args, filter.Symbol)
	}
	if !filter.From.IsZero() {
		query += ` AND entry_date >= ?`
		args = append(args, filter.From.Format("2006-01-02"))
	}
	if !filter.To.IsZero() {
		query += ` AND entry_date <= ?`
		args = append(args, filter.To.Format("2006-01-02"))
	}
	query += ` ORDER BY entry_date DESC, id DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query trades: %w", err)
	}
	defer rows.Close()

	var trades []models.Trade
	for rows.Next() {
		var t models.Trade
		var entryStr, exitStr string
		var entryPrice, exitPrice, returnPct sql.NullString
		if err := rows.Scan(&t.Symbol, &entryStr, &exitStr, &entryPrice, &exitPrice, &returnPct); err != nil {
			return nil, fmt.Errorf("failed to scan trade: %w", err)
		}

		entry, err := time.Parse("2006-01-02", entryStr)
		if err != nil {
			return nil, fmt.Errorf("invalid entry date: %w", err)
		}
		exit, err := time.Parse("2006-01-02", exitStr)
		if err != nil {
			return nil, fmt.Errorf("invalid exit date: %w", err)
		}
		t.EntryDate = models.DateOf(entry)
		t.ExitDate = models.DateOf(exit)

		if t.EntryPrice, err = scanDecimal(entryPrice); err != nil {
			return nil, fmt.Errorf("invalid entry price: %w", err)
		}
		if t.ExitPrice, err = scanDecimal(exitPrice); err != nil {
			return nil, fmt.Errorf("invalid exit price: %w", err)
		}
		if t.ReturnPct, err = scanDecimal(returnPct); err != nil {
			return nil, fmt.Errorf("invalid return pct: %w", err)
		}

		trades = append(trades, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trades: %w", err)
	}

	return trades, nil
}

func nullDecimal(d decimal.NullDecimal) interface{} {
	if !d.Valid {
		return nil
	}
	return d.Decimal.String()
}

func scanDecimal(s sql.NullString) (decimal.NullDecimal, error) {
	if !s.Valid {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(s.String)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}, nil
}
