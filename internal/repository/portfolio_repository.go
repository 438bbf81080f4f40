package repository

import (
	"database/sql"
	"fmt"

	"github.com/dcamoon/trading-backend/internal/apperrors"
	"github.com/dcamoon/trading-backend/internal/model"
)

// PortfolioRepository provides data access methods for the portfolios table.
// Mutating methods take an *sql.Tx so the ledger service controls the
// transaction boundary; reads go through the shared connection.
type PortfolioRepository struct {
	db *sql.DB
}

// NewPortfolioRepository creates a new PortfolioRepository with the provided database connection.
func NewPortfolioRepository(db *sql.DB) *PortfolioRepository {
	return &PortfolioRepository{db: db}
}

const portfolioColumns = `id, name, description, starting_cash, current_cash, is_active, created_at, updated_at`

func scanPortfolio(row interface{ Scan(dest ...any) error }) (model.Portfolio, error) {
	var p model.Portfolio
	var description sql.NullString
	var createdAtStr, updatedAtStr string

	err := row.Scan(
		&p.ID,
		&p.Name,
		&description,
		&p.StartingCash,
		&p.CurrentCash,
		&p.IsActive,
		&createdAtStr,
		&updatedAtStr,
	)
	if err != nil {
		return model.Portfolio{}, err
	}
	p.Description = description.String

	if p.CreatedAt, err = ParseTime(createdAtStr); err != nil {
		return model.Portfolio{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if p.UpdatedAt, err = ParseTime(updatedAtStr); err != nil {
		return model.Portfolio{}, fmt.Errorf("failed to parse updated_at: %w", err)
	}

	return p, nil
}

// GetPortfolios retrieves all portfolios ordered by creation time.
func (r *PortfolioRepository) GetPortfolios() ([]model.Portfolio, error) {
	query := `SELECT ` + portfolioColumns + ` FROM portfolios ORDER BY created_at`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query portfolios table: %w", err)
	}
	defer rows.Close()

	portfolios := []model.Portfolio{}
	for rows.Next() {
		p, err := scanPortfolio(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan portfolios table results: %w", err)
		}
		portfolios = append(portfolios, p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating portfolios table: %w", err)
	}

	return portfolios, nil
}

// GetActivePortfolios retrieves all active portfolios ordered by creation time.
func (r *PortfolioRepository) GetActivePortfolios() ([]model.Portfolio, error) {
	query := `SELECT ` + portfolioColumns + ` FROM portfolios WHERE is_active = 1 ORDER BY created_at`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query portfolios table: %w", err)
	}
	defer rows.Close()

	portfolios := []model.Portfolio{}
	for rows.Next() {
		p, err := scanPortfolio(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan portfolios table results: %w", err)
		}
		portfolios = append(portfolios, p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating portfolios table: %w", err)
	}

	return portfolios, nil
}

// GetPortfolio retrieves a single portfolio by ID.
// Returns apperrors.ErrPortfolioNotFound if no row exists.
func (r *PortfolioRepository) GetPortfolio(portfolioID string) (model.Portfolio, error) {
	query := `SELECT ` + portfolioColumns + ` FROM portfolios WHERE id = ?`

	p, err := scanPortfolio(r.db.QueryRow(query, portfolioID))
	if err == sql.ErrNoRows {
		return model.Portfolio{}, apperrors.ErrPortfolioNotFound
	}
	if err != nil {
		return model.Portfolio{}, fmt.Errorf("failed to query portfolio: %w", err)
	}

	return p, nil
}

// GetPortfolioTx retrieves a portfolio inside an open transaction. Within a
// write transaction SQLite holds the database lock, which serializes
// concurrent trades against the same portfolio row.
func (r *PortfolioRepository) GetPortfolioTx(tx *sql.Tx, portfolioID string) (model.Portfolio, error) {
	query := `SELECT ` + portfolioColumns + ` FROM portfolios WHERE id = ?`

	p, err := scanPortfolio(tx.QueryRow(query, portfolioID))
	if err == sql.ErrNoRows {
		return model.Portfolio{}, apperrors.ErrPortfolioNotFound
	}
	if err != nil {
		return model.Portfolio{}, fmt.Errorf("failed to query portfolio: %w", err)
	}

	return p, nil
}

// GetDefaultPortfolio returns the first active portfolio by creation time.
// Returns apperrors.ErrPortfolioNotFound when no active portfolio exists.
func (r *PortfolioRepository) GetDefaultPortfolio() (model.Portfolio, error) {
	query := `SELECT ` + portfolioColumns + ` FROM portfolios WHERE is_active = 1 ORDER BY created_at LIMIT 1`

	p, err := scanPortfolio(r.db.QueryRow(query))
	if err == sql.ErrNoRows {
		return model.Portfolio{}, apperrors.ErrPortfolioNotFound
	}
	if err != nil {
		return model.Portfolio{}, fmt.Errorf("failed to query portfolio: %w", err)
	}

	return p, nil
}

// InsertPortfolioTx inserts a new portfolio row.
func (r *PortfolioRepository) InsertPortfolioTx(tx *sql.Tx, p *model.Portfolio) error {
	query := `
		INSERT INTO portfolios (id, name, description, starting_cash, current_cash, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := tx.Exec(query,
		p.ID,
		p.Name,
		p.Description,
		p.StartingCash,
		p.CurrentCash,
		p.IsActive,
		FormatTime(p.CreatedAt),
		FormatTime(p.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert portfolio: %w", err)
	}

	return nil
}

// UpdateCashTx sets the portfolio's current cash balance.
func (r *PortfolioRepository) UpdateCashTx(tx *sql.Tx, portfolioID string, currentCash float64, updatedAt string) error {
	query := `UPDATE portfolios SET current_cash = ?, updated_at = ? WHERE id = ?`

	result, err := tx.Exec(query, currentCash, updatedAt, portfolioID)
	if err != nil {
		return fmt.Errorf("failed to update portfolio cash: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check updated rows: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrPortfolioNotFound
	}

	return nil
}

// UpdateCashBalancesTx sets both cash figures together. Deposits move
// starting_cash alongside current_cash so return percentages stay relative
// to total contributed capital.
func (r *PortfolioRepository) UpdateCashBalancesTx(tx *sql.Tx, portfolioID string, startingCash, currentCash float64, updatedAt string) error {
	query := `UPDATE portfolios SET starting_cash = ?, current_cash = ?, updated_at = ? WHERE id = ?`

	result, err := tx.Exec(query, startingCash, currentCash, updatedAt, portfolioID)
	if err != nil {
		return fmt.Errorf("failed to update portfolio cash balances: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check updated rows: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrPortfolioNotFound
	}

	return nil
}
