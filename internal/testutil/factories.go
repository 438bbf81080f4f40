package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/dcamoon/trading-backend/internal/model"
	"github.com/dcamoon/trading-backend/internal/repository"
)

// MakeID returns a fresh UUID string.
func MakeID() string {
	return uuid.New().String()
}

// PortfolioBuilder provides a fluent interface for creating test portfolios.
//
// Example usage:
//
//	// Simple creation with defaults
//	portfolio := testutil.NewPortfolio().Build(t, db)
//
//	// Customized portfolio
//	portfolio := testutil.NewPortfolio().
//	    WithName("Custom Portfolio").
//	    WithStartingCash(10000).
//	    Build(t, db)
type PortfolioBuilder struct {
	ID           string
	Name         string
	Description  string
	StartingCash float64
	CurrentCash  float64
	IsActive     bool
}

// NewPortfolio creates a PortfolioBuilder with sensible defaults.
func NewPortfolio() *PortfolioBuilder {
	return &PortfolioBuilder{
		ID:           MakeID(),
		Name:         "Test Portfolio",
		Description:  "Test description",
		StartingCash: 10000.0,
		CurrentCash:  10000.0,
		IsActive:     true,
	}
}

// WithID sets a custom ID.
func (b *PortfolioBuilder) WithID(id string) *PortfolioBuilder {
	b.ID = id
	return b
}

// WithName sets a custom name.
func (b *PortfolioBuilder) WithName(name string) *PortfolioBuilder {
	b.Name = name
	return b
}

// WithStartingCash sets starting and current cash to the same amount.
func (b *PortfolioBuilder) WithStartingCash(amount float64) *PortfolioBuilder {
	b.StartingCash = amount
	b.CurrentCash = amount
	return b
}

// WithCurrentCash sets current cash independently of starting cash.
func (b *PortfolioBuilder) WithCurrentCash(amount float64) *PortfolioBuilder {
	b.CurrentCash = amount
	return b
}

// Inactive marks the portfolio as inactive.
func (b *PortfolioBuilder) Inactive() *PortfolioBuilder {
	b.IsActive = false
	return b
}

// Build creates the portfolio in the database and returns it.
func (b *PortfolioBuilder) Build(t *testing.T, db *sql.DB) model.Portfolio {
	t.Helper()

	now := time.Now().UTC()
	query := `
		INSERT INTO portfolios (id, name, description, starting_cash, current_cash, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query, b.ID, b.Name, b.Description, b.StartingCash, b.CurrentCash, b.IsActive,
		repository.FormatTime(now), repository.FormatTime(now))
	if err != nil {
		t.Fatalf("Failed to create test portfolio: %v", err)
	}

	return model.Portfolio{
		ID:           b.ID,
		Name:         b.Name,
		Description:  b.Description,
		StartingCash: b.StartingCash,
		CurrentCash:  b.CurrentCash,
		IsActive:     b.IsActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Convenience functions

// CreatePortfolio creates a portfolio with the given starting cash.
//
// Example usage:
//
//	portfolio := testutil.CreatePortfolio(t, db, 10000)
func CreatePortfolio(t *testing.T, db *sql.DB, startingCash float64) model.Portfolio {
	t.Helper()
	return NewPortfolio().WithStartingCash(startingCash).Build(t, db)
}

// CreatePosition inserts an open position directly, bypassing trade
// execution. Useful for tests that only exercise reads or snapshots.
func CreatePosition(t *testing.T, db *sql.DB, portfolioID, ticker string, shares, averageCost float64) model.Position {
	t.Helper()

	now := time.Now().UTC()
	position := model.Position{
		ID:          MakeID(),
		PortfolioID: portfolioID,
		Ticker:      ticker,
		Shares:      shares,
		AverageCost: averageCost,
		CostBasis:   shares * averageCost,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	query := `
		INSERT INTO positions (id, portfolio_id, ticker, shares, average_cost, cost_basis, stop_loss, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, NULL, ?, ?)
	`

	_, err := db.Exec(query, position.ID, position.PortfolioID, position.Ticker, position.Shares,
		position.AverageCost, position.CostBasis, repository.FormatTime(now), repository.FormatTime(now))
	if err != nil {
		t.Fatalf("Failed to create test position: %v", err)
	}

	return position
}

// SeedPrice inserts a cached market data row aged by the given offset.
func SeedPrice(t *testing.T, db *sql.DB, ticker string, price float64, age time.Duration) {
	t.Helper()

	createdAt := time.Now().UTC().Add(-age)
	query := `
		INSERT INTO market_data (id, ticker, date, close_price, source, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query, MakeID(), ticker, repository.FormatTime(createdAt), price, "test",
		repository.FormatTime(createdAt))
	if err != nil {
		t.Fatalf("Failed to seed market data: %v", err)
	}
}
