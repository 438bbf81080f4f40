package testutil

import (
	"database/sql"
	"testing"

	"github.com/dcamoon/trading-backend/internal/marketdata"
	"github.com/dcamoon/trading-backend/internal/repository"
	"github.com/dcamoon/trading-backend/internal/service"
)

// NewTestLedgerService wires a LedgerService over the test database with
// the given oracle. Pass a FakeOracle with no prices when the test never
// snapshots.
func NewTestLedgerService(t *testing.T, db *sql.DB, oracle marketdata.Oracle) *service.LedgerService {
	t.Helper()

	return service.NewLedgerService(
		db,
		repository.NewPortfolioRepository(db),
		repository.NewPositionRepository(db),
		repository.NewTradeRepository(db),
		repository.NewSnapshotRepository(db),
		oracle,
	)
}
