package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/dcamoon/trading-backend/internal/model"
)

// MarketDataRepository provides data access methods for the market_data
// price cache table.
type MarketDataRepository struct {
	db *sql.DB
}

// NewMarketDataRepository creates a new MarketDataRepository with the provided database connection.
func NewMarketDataRepository(db *sql.DB) *MarketDataRepository {
	return &MarketDataRepository{db: db}
}

// GetLatestPrice returns the most recent cached close for a ticker that was
// written at or after the cutoff. The boolean reports whether a fresh
// enough row exists; a cache miss is not an error.
func (r *MarketDataRepository) GetLatestPrice(ticker string, cutoff time.Time) (float64, bool, error) {
	query := `
		SELECT close_price
		FROM market_data
		WHERE ticker = ? AND created_at >= ?
		ORDER BY created_at DESC
		LIMIT 1
	`

	var price float64
	err := r.db.QueryRow(query, ticker, FormatTime(cutoff)).Scan(&price)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to query market_data table: %w", err)
	}

	return price, true, nil
}

// InsertPrice caches a quote.
func (r *MarketDataRepository) InsertPrice(md *model.MarketData) error {
	query := `
		INSERT INTO market_data (id, ticker, date, close_price, source, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query,
		md.ID,
		md.Ticker,
		FormatTime(md.Date),
		md.ClosePrice,
		md.Source,
		FormatTime(md.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert market data: %w", err)
	}

	return nil
}

// PruneBefore deletes cache rows older than the cutoff. Called
// opportunistically to keep the cache table from growing without bound.
func (r *MarketDataRepository) PruneBefore(cutoff time.Time) error {
	_, err := r.db.Exec(`DELETE FROM market_data WHERE created_at < ?`, FormatTime(cutoff))
	if err != nil {
		return fmt.Errorf("failed to prune market data: %w", err)
	}
	return nil
}
