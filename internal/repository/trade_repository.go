package repository

import (
	"database/sql"
	"fmt"

	"github.com/dcamoon/trading-backend/internal/model"
)

// TradeRepository provides data access methods for the trades table.
// Trades are append-only: there are insert and read methods, nothing else.
type TradeRepository struct {
	db *sql.DB
}

// NewTradeRepository creates a new TradeRepository with the provided database connection.
func NewTradeRepository(db *sql.DB) *TradeRepository {
	return &TradeRepository{db: db}
}

const tradeColumns = `id, portfolio_id, ticker, trade_type, shares, price, total_amount, execution_type, status, reason, cost_basis_sold, realized_pnl, executed_at`

func scanTrade(row interface{ Scan(dest ...any) error }) (model.Trade, error) {
	var t model.Trade
	var reason sql.NullString
	var costBasisSold, realizedPnl sql.NullFloat64
	var executedAtStr string

	err := row.Scan(
		&t.ID,
		&t.PortfolioID,
		&t.Ticker,
		&t.TradeType,
		&t.Shares,
		&t.Price,
		&t.TotalAmount,
		&t.ExecutionType,
		&t.Status,
		&reason,
		&costBasisSold,
		&realizedPnl,
		&executedAtStr,
	)
	if err != nil {
		return model.Trade{}, err
	}

	t.Reason = reason.String
	if costBasisSold.Valid {
		t.CostBasisSold = &costBasisSold.Float64
	}
	if realizedPnl.Valid {
		t.RealizedPnl = &realizedPnl.Float64
	}

	if t.ExecutedAt, err = ParseTime(executedAtStr); err != nil {
		return model.Trade{}, fmt.Errorf("failed to parse executed_at: %w", err)
	}

	return t, nil
}

// InsertTradeTx appends a trade to the audit log.
func (r *TradeRepository) InsertTradeTx(tx *sql.Tx, t *model.Trade) error {
	query := `
		INSERT INTO trades (id, portfolio_id, ticker, trade_type, shares, price, total_amount,
			execution_type, status, reason, cost_basis_sold, realized_pnl, executed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	var costBasisSold, realizedPnl any
	if t.CostBasisSold != nil {
		costBasisSold = *t.CostBasisSold
	}
	if t.RealizedPnl != nil {
		realizedPnl = *t.RealizedPnl
	}

	_, err := tx.Exec(query,
		t.ID,
		t.PortfolioID,
		t.Ticker,
		t.TradeType,
		t.Shares,
		t.Price,
		t.TotalAmount,
		t.ExecutionType,
		t.Status,
		t.Reason,
		costBasisSold,
		realizedPnl,
		FormatTime(t.ExecutedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert trade: %w", err)
	}

	return nil
}

// GetTrades retrieves trades for a portfolio, newest first. An empty ticker
// matches all tickers; limit <= 0 applies the default of 100.
func (r *TradeRepository) GetTrades(portfolioID, ticker string, limit int) ([]model.Trade, error) {
	if limit <= 0 {
		limit = 100
	}

	query := `SELECT ` + tradeColumns + ` FROM trades WHERE portfolio_id = ?`
	args := []any{portfolioID}

	if ticker != "" {
		query += ` AND ticker = ?`
		args = append(args, ticker)
	}

	query += ` ORDER BY executed_at DESC LIMIT ?`
	args = append(args, limit)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query trades table: %w", err)
	}
	defer rows.Close()

	trades := []model.Trade{}
	for rows.Next() {
		t, err := scanTrade(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trades table results: %w", err)
		}
		trades = append(trades, t)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trades table: %w", err)
	}

	return trades, nil
}

// CountTrades returns the number of trades recorded for a portfolio.
func (r *TradeRepository) CountTrades(portfolioID string) (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM trades WHERE portfolio_id = ?`, portfolioID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count trades: %w", err)
	}
	return count, nil
}
