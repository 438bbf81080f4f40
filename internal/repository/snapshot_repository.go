package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/dcamoon/trading-backend/internal/apperrors"
	"github.com/dcamoon/trading-backend/internal/model"
)

// SnapshotRepository provides data access methods for the
// portfolio_snapshots and position_snapshots tables. Snapshots are
// append-only and a parent row is written atomically with its children.
type SnapshotRepository struct {
	db *sql.DB
}

// NewSnapshotRepository creates a new SnapshotRepository with the provided database connection.
func NewSnapshotRepository(db *sql.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

const snapshotColumns = `id, portfolio_id, snapshot_date, total_equity, cash_balance, total_positions_value, daily_return, total_return, total_return_pct, created_at`

func scanSnapshot(row interface{ Scan(dest ...any) error }) (model.PortfolioSnapshot, error) {
	var s model.PortfolioSnapshot
	var snapshotDateStr, createdAtStr string

	err := row.Scan(
		&s.ID,
		&s.PortfolioID,
		&snapshotDateStr,
		&s.TotalEquity,
		&s.CashBalance,
		&s.TotalPositionsValue,
		&s.DailyReturn,
		&s.TotalReturn,
		&s.TotalReturnPct,
		&createdAtStr,
	)
	if err != nil {
		return model.PortfolioSnapshot{}, err
	}

	if s.SnapshotDate, err = ParseTime(snapshotDateStr); err != nil {
		return model.PortfolioSnapshot{}, fmt.Errorf("failed to parse snapshot_date: %w", err)
	}
	if s.CreatedAt, err = ParseTime(createdAtStr); err != nil {
		return model.PortfolioSnapshot{}, fmt.Errorf("failed to parse created_at: %w", err)
	}

	return s, nil
}

// InsertSnapshotTx writes a snapshot and all of its position children.
func (r *SnapshotRepository) InsertSnapshotTx(tx *sql.Tx, s *model.PortfolioSnapshot) error {
	query := `
		INSERT INTO portfolio_snapshots (id, portfolio_id, snapshot_date, total_equity, cash_balance,
			total_positions_value, daily_return, total_return, total_return_pct, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := tx.Exec(query,
		s.ID,
		s.PortfolioID,
		FormatTime(s.SnapshotDate),
		s.TotalEquity,
		s.CashBalance,
		s.TotalPositionsValue,
		s.DailyReturn,
		s.TotalReturn,
		s.TotalReturnPct,
		FormatTime(s.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert snapshot: %w", err)
	}

	childQuery := `
		INSERT INTO position_snapshots (id, portfolio_snapshot_id, ticker, shares, current_price,
			market_value, cost_basis, unrealized_pnl, unrealized_pnl_pct)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	for _, ps := range s.Positions {
		_, err := tx.Exec(childQuery,
			ps.ID,
			s.ID,
			ps.Ticker,
			ps.Shares,
			ps.CurrentPrice,
			ps.MarketValue,
			ps.CostBasis,
			ps.UnrealizedPnl,
			ps.UnrealizedPnlPct,
		)
		if err != nil {
			return fmt.Errorf("failed to insert position snapshot for %s: %w", ps.Ticker, err)
		}
	}

	return nil
}

// GetLatestSnapshot returns the most recent snapshot for a portfolio,
// by snapshot date then insertion order. Children are not loaded.
// Returns apperrors.ErrSnapshotNotFound when the portfolio has none.
func (r *SnapshotRepository) GetLatestSnapshot(portfolioID string) (model.PortfolioSnapshot, error) {
	query := `SELECT ` + snapshotColumns + `
		FROM portfolio_snapshots
		WHERE portfolio_id = ?
		ORDER BY snapshot_date DESC, created_at DESC
		LIMIT 1`

	s, err := scanSnapshot(r.db.QueryRow(query, portfolioID))
	if err == sql.ErrNoRows {
		return model.PortfolioSnapshot{}, apperrors.ErrSnapshotNotFound
	}
	if err != nil {
		return model.PortfolioSnapshot{}, fmt.Errorf("failed to query snapshot: %w", err)
	}

	return s, nil
}

// GetSnapshots retrieves snapshots for a portfolio in ascending date order.
// Zero start/end values leave that side of the range unbounded.
func (r *SnapshotRepository) GetSnapshots(portfolioID string, startDate, endDate time.Time) ([]model.PortfolioSnapshot, error) {
	query := `SELECT ` + snapshotColumns + ` FROM portfolio_snapshots WHERE portfolio_id = ?`
	args := []any{portfolioID}

	if !startDate.IsZero() {
		query += ` AND snapshot_date >= ?`
		args = append(args, FormatTime(startDate))
	}
	if !endDate.IsZero() {
		query += ` AND snapshot_date <= ?`
		args = append(args, FormatTime(endDate))
	}

	query += ` ORDER BY snapshot_date ASC, created_at ASC`

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query portfolio_snapshots table: %w", err)
	}
	defer rows.Close()

	snapshots := []model.PortfolioSnapshot{}
	for rows.Next() {
		s, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan portfolio_snapshots table results: %w", err)
		}
		snapshots = append(snapshots, s)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating portfolio_snapshots table: %w", err)
	}

	return snapshots, nil
}

// GetPositionSnapshots loads the per-position children of one snapshot.
func (r *SnapshotRepository) GetPositionSnapshots(snapshotID string) ([]model.PositionSnapshot, error) {
	query := `
		SELECT id, portfolio_snapshot_id, ticker, shares, current_price, market_value, cost_basis, unrealized_pnl, unrealized_pnl_pct
		FROM position_snapshots
		WHERE portfolio_snapshot_id = ?
		ORDER BY ticker
	`

	rows, err := r.db.Query(query, snapshotID)
	if err != nil {
		return nil, fmt.Errorf("failed to query position_snapshots table: %w", err)
	}
	defer rows.Close()

	positions := []model.PositionSnapshot{}
	for rows.Next() {
		var ps model.PositionSnapshot
		err := rows.Scan(
			&ps.ID,
			&ps.PortfolioSnapshotID,
			&ps.Ticker,
			&ps.Shares,
			&ps.CurrentPrice,
			&ps.MarketValue,
			&ps.CostBasis,
			&ps.UnrealizedPnl,
			&ps.UnrealizedPnlPct,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan position_snapshots table results: %w", err)
		}
		positions = append(positions, ps)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating position_snapshots table: %w", err)
	}

	return positions, nil
}
