package repository

import (
	"database/sql"
	"fmt"

	"github.com/dcamoon/trading-backend/internal/apperrors"
	"github.com/dcamoon/trading-backend/internal/model"
)

// PositionRepository provides data access methods for the positions table.
// Position rows exist only while shares > 0; a full exit deletes the row.
type PositionRepository struct {
	db *sql.DB
}

// NewPositionRepository creates a new PositionRepository with the provided database connection.
func NewPositionRepository(db *sql.DB) *PositionRepository {
	return &PositionRepository{db: db}
}

const positionColumns = `id, portfolio_id, ticker, shares, average_cost, cost_basis, stop_loss, created_at, updated_at`

func scanPosition(row interface{ Scan(dest ...any) error }) (model.Position, error) {
	var p model.Position
	var stopLoss sql.NullFloat64
	var createdAtStr, updatedAtStr string

	err := row.Scan(
		&p.ID,
		&p.PortfolioID,
		&p.Ticker,
		&p.Shares,
		&p.AverageCost,
		&p.CostBasis,
		&stopLoss,
		&createdAtStr,
		&updatedAtStr,
	)
	if err != nil {
		return model.Position{}, err
	}

	if stopLoss.Valid {
		p.StopLoss = &stopLoss.Float64
	}

	if p.CreatedAt, err = ParseTime(createdAtStr); err != nil {
		return model.Position{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if p.UpdatedAt, err = ParseTime(updatedAtStr); err != nil {
		return model.Position{}, fmt.Errorf("failed to parse updated_at: %w", err)
	}

	return p, nil
}

// GetPositions retrieves all positions for a portfolio ordered by ticker.
// Returns an empty slice when the portfolio holds nothing.
func (r *PositionRepository) GetPositions(portfolioID string) ([]model.Position, error) {
	query := `SELECT ` + positionColumns + ` FROM positions WHERE portfolio_id = ? ORDER BY ticker`

	rows, err := r.db.Query(query, portfolioID)
	if err != nil {
		return nil, fmt.Errorf("failed to query positions table: %w", err)
	}
	defer rows.Close()

	positions := []model.Position{}
	for rows.Next() {
		p, err := scanPosition(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan positions table results: %w", err)
		}
		positions = append(positions, p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating positions table: %w", err)
	}

	return positions, nil
}

// GetPosition retrieves the position for a (portfolio, ticker) pair.
// Returns apperrors.ErrPositionNotFound if the portfolio holds no shares.
func (r *PositionRepository) GetPosition(portfolioID, ticker string) (model.Position, error) {
	query := `SELECT ` + positionColumns + ` FROM positions WHERE portfolio_id = ? AND ticker = ?`

	p, err := scanPosition(r.db.QueryRow(query, portfolioID, ticker))
	if err == sql.ErrNoRows {
		return model.Position{}, apperrors.ErrPositionNotFound
	}
	if err != nil {
		return model.Position{}, fmt.Errorf("failed to query position: %w", err)
	}

	return p, nil
}

// GetPositionTx is GetPosition inside an open transaction.
func (r *PositionRepository) GetPositionTx(tx *sql.Tx, portfolioID, ticker string) (model.Position, error) {
	query := `SELECT ` + positionColumns + ` FROM positions WHERE portfolio_id = ? AND ticker = ?`

	p, err := scanPosition(tx.QueryRow(query, portfolioID, ticker))
	if err == sql.ErrNoRows {
		return model.Position{}, apperrors.ErrPositionNotFound
	}
	if err != nil {
		return model.Position{}, fmt.Errorf("failed to query position: %w", err)
	}

	return p, nil
}

// InsertPositionTx inserts a new position row.
func (r *PositionRepository) InsertPositionTx(tx *sql.Tx, p *model.Position) error {
	query := `
		INSERT INTO positions (id, portfolio_id, ticker, shares, average_cost, cost_basis, stop_loss, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	var stopLoss any
	if p.StopLoss != nil {
		stopLoss = *p.StopLoss
	}

	_, err := tx.Exec(query,
		p.ID,
		p.PortfolioID,
		p.Ticker,
		p.Shares,
		p.AverageCost,
		p.CostBasis,
		stopLoss,
		FormatTime(p.CreatedAt),
		FormatTime(p.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert position: %w", err)
	}

	return nil
}

// UpdatePositionTx updates the share count and cost figures of a position.
func (r *PositionRepository) UpdatePositionTx(tx *sql.Tx, positionID string, shares, averageCost, costBasis float64, updatedAt string) error {
	query := `UPDATE positions SET shares = ?, average_cost = ?, cost_basis = ?, updated_at = ? WHERE id = ?`

	result, err := tx.Exec(query, shares, averageCost, costBasis, updatedAt, positionID)
	if err != nil {
		return fmt.Errorf("failed to update position: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check updated rows: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrPositionNotFound
	}

	return nil
}

// DeletePositionTx removes a position row. Used on a full exit; a
// zero-share position must never be persisted.
func (r *PositionRepository) DeletePositionTx(tx *sql.Tx, positionID string) error {
	result, err := tx.Exec(`DELETE FROM positions WHERE id = ?`, positionID)
	if err != nil {
		return fmt.Errorf("failed to delete position: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted rows: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrPositionNotFound
	}

	return nil
}

// UpdateStopLoss sets or clears the advisory stop-loss on a position.
// The ledger never acts on this value; enforcement is a caller concern.
func (r *PositionRepository) UpdateStopLoss(portfolioID, ticker string, stopLoss *float64, updatedAt string) error {
	query := `UPDATE positions SET stop_loss = ?, updated_at = ? WHERE portfolio_id = ? AND ticker = ?`

	var value any
	if stopLoss != nil {
		value = *stopLoss
	}

	result, err := r.db.Exec(query, value, updatedAt, portfolioID, ticker)
	if err != nil {
		return fmt.Errorf("failed to update stop loss: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check updated rows: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrPositionNotFound
	}

	return nil
}

// CountPositions returns the number of open positions in a portfolio.
func (r *PositionRepository) CountPositions(portfolioID string) (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM positions WHERE portfolio_id = ?`, portfolioID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count positions: %w", err)
	}
	return count, nil
}
