package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dcamoon/trading-backend/internal/api/handlers"
	"github.com/dcamoon/trading-backend/internal/api/request"
	"github.com/dcamoon/trading-backend/internal/model"
	"github.com/dcamoon/trading-backend/internal/testutil"
)

// TestPortfolioHandler_CreatePortfolio tests portfolio creation over HTTP.
//
// WHY: Creation is the entry point of every ledger; the endpoint must
// return the seeded portfolio and reject bad starting cash with field
// errors.
func TestPortfolioHandler_CreatePortfolio(t *testing.T) {
	t.Run("creates a portfolio", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestLedgerService(t, db, testutil.NewFakeOracle(nil))
		handler := handlers.NewPortfolioHandler(svc)

		req := testutil.NewJSONRequestWithURLParams(http.MethodPost, "/api/portfolio", nil, request.CreatePortfolioRequest{
			Name:         "Growth",
			Description:  "long-term holdings",
			StartingCash: 25000,
		})

		// Execute
		w := httptest.NewRecorder()
		handler.CreatePortfolio(w, req)

		// Assert
		if w.Code != http.StatusCreated {
			t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
		}

		var portfolio model.Portfolio
		testutil.DecodeResponse(t, w, &portfolio)
		if portfolio.Name != "Growth" || portfolio.CurrentCash != 25000 {
			t.Errorf("Unexpected portfolio %+v", portfolio)
		}
	})

	t.Run("rejects non-positive starting cash", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestLedgerService(t, db, testutil.NewFakeOracle(nil))
		handler := handlers.NewPortfolioHandler(svc)

		req := testutil.NewJSONRequestWithURLParams(http.MethodPost, "/api/portfolio", nil, request.CreatePortfolioRequest{
			Name:         "Broke",
			StartingCash: 0,
		})

		// Execute
		w := httptest.NewRecorder()
		handler.CreatePortfolio(w, req)

		// Assert
		if w.Code != http.StatusBadRequest {
			t.Fatalf("Expected 400, got %d", w.Code)
		}
	})
}

// TestPortfolioHandler_Summary tests the summary endpoint.
func TestPortfolioHandler_Summary(t *testing.T) {
	t.Run("returns summary for existing portfolio", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestLedgerService(t, db, testutil.NewFakeOracle(nil))
		handler := handlers.NewPortfolioHandler(svc)
		portfolio := testutil.CreatePortfolio(t, db, 10000)

		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/portfolio/"+portfolio.ID, map[string]string{
			"uuid": portfolio.ID,
		})

		// Execute
		w := httptest.NewRecorder()
		handler.Summary(w, req)

		// Assert
		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var summary model.PortfolioSummary
		testutil.DecodeResponse(t, w, &summary)
		if summary.PortfolioID != portfolio.ID || summary.TotalEquity != 10000 {
			t.Errorf("Unexpected summary %+v", summary)
		}
	})

	t.Run("returns 404 for unknown portfolio", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestLedgerService(t, db, testutil.NewFakeOracle(nil))
		handler := handlers.NewPortfolioHandler(svc)

		id := testutil.MakeID()
		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/portfolio/"+id, map[string]string{
			"uuid": id,
		})

		// Execute
		w := httptest.NewRecorder()
		handler.Summary(w, req)

		// Assert
		if w.Code != http.StatusNotFound {
			t.Fatalf("Expected 404, got %d", w.Code)
		}
	})
}

// TestPortfolioHandler_DefaultPortfolio tests the default portfolio lookup.
func TestPortfolioHandler_DefaultPortfolio(t *testing.T) {
	t.Run("returns the oldest active portfolio", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestLedgerService(t, db, testutil.NewFakeOracle(nil))
		handler := handlers.NewPortfolioHandler(svc)
		first := testutil.CreatePortfolio(t, db, 10000)

		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/portfolio/default", nil)

		// Execute
		w := httptest.NewRecorder()
		handler.DefaultPortfolio(w, req)

		// Assert
		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var portfolio model.Portfolio
		testutil.DecodeResponse(t, w, &portfolio)
		if portfolio.ID != first.ID {
			t.Errorf("Expected portfolio %s, got %s", first.ID, portfolio.ID)
		}
	})

	t.Run("returns 404 when no portfolio exists", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestLedgerService(t, db, testutil.NewFakeOracle(nil))
		handler := handlers.NewPortfolioHandler(svc)

		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/portfolio/default", nil)

		// Execute
		w := httptest.NewRecorder()
		handler.DefaultPortfolio(w, req)

		// Assert
		if w.Code != http.StatusNotFound {
			t.Fatalf("Expected 404, got %d", w.Code)
		}
	})
}

// TestPortfolioHandler_Positions tests the positions listing.
func TestPortfolioHandler_Positions(t *testing.T) {
	// Setup
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestLedgerService(t, db, testutil.NewFakeOracle(nil))
	handler := handlers.NewPortfolioHandler(svc)
	portfolio := testutil.CreatePortfolio(t, db, 10000)
	testutil.CreatePosition(t, db, portfolio.ID, "MSFT", 10, 300)
	testutil.CreatePosition(t, db, portfolio.ID, "AAPL", 50, 150)

	req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/portfolio/"+portfolio.ID+"/positions", map[string]string{
		"uuid": portfolio.ID,
	})

	// Execute
	w := httptest.NewRecorder()
	handler.Positions(w, req)

	// Assert
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var positions []model.Position
	testutil.DecodeResponse(t, w, &positions)
	if len(positions) != 2 {
		t.Fatalf("Expected 2 positions, got %d", len(positions))
	}
	// Ordered by ticker
	if positions[0].Ticker != "AAPL" || positions[1].Ticker != "MSFT" {
		t.Errorf("Unexpected order: %s, %s", positions[0].Ticker, positions[1].Ticker)
	}
}

// TestPortfolioHandler_Deposit tests the deposit endpoint.
func TestPortfolioHandler_Deposit(t *testing.T) {
	t.Run("deposits cash", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestLedgerService(t, db, testutil.NewFakeOracle(nil))
		handler := handlers.NewPortfolioHandler(svc)
		portfolio := testutil.CreatePortfolio(t, db, 10000)

		req := testutil.NewJSONRequestWithURLParams(http.MethodPost, "/api/portfolio/"+portfolio.ID+"/deposit",
			map[string]string{"uuid": portfolio.ID},
			request.DepositRequest{Amount: 2500},
		)

		// Execute
		w := httptest.NewRecorder()
		handler.Deposit(w, req)

		// Assert
		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var updated model.Portfolio
		testutil.DecodeResponse(t, w, &updated)
		if updated.CurrentCash != 12500 || updated.StartingCash != 12500 {
			t.Errorf("Unexpected balances %+v", updated)
		}
	})

	t.Run("rejects negative amount", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestLedgerService(t, db, testutil.NewFakeOracle(nil))
		handler := handlers.NewPortfolioHandler(svc)
		portfolio := testutil.CreatePortfolio(t, db, 10000)

		req := testutil.NewJSONRequestWithURLParams(http.MethodPost, "/api/portfolio/"+portfolio.ID+"/deposit",
			map[string]string{"uuid": portfolio.ID},
			request.DepositRequest{Amount: -100},
		)

		// Execute
		w := httptest.NewRecorder()
		handler.Deposit(w, req)

		// Assert
		if w.Code != http.StatusBadRequest {
			t.Fatalf("Expected 400, got %d", w.Code)
		}
	})
}

// TestPortfolioHandler_CreateSnapshot tests snapshot creation over HTTP.
func TestPortfolioHandler_CreateSnapshot(t *testing.T) {
	// Setup
	db := testutil.SetupTestDB(t)
	oracle := testutil.NewFakeOracle(map[string]float64{"AAPL": 155})
	svc := testutil.NewTestLedgerService(t, db, oracle)
	handler := handlers.NewPortfolioHandler(svc)
	portfolio := testutil.CreatePortfolio(t, db, 2500)
	testutil.CreatePosition(t, db, portfolio.ID, "AAPL", 50, 150)

	req := testutil.NewRequestWithURLParams(http.MethodPost, "/api/portfolio/"+portfolio.ID+"/snapshot", map[string]string{
		"uuid": portfolio.ID,
	})

	// Execute
	w := httptest.NewRecorder()
	handler.CreateSnapshot(w, req)

	// Assert
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var snapshot model.PortfolioSnapshot
	testutil.DecodeResponse(t, w, &snapshot)
	if snapshot.TotalEquity != 10250 {
		t.Errorf("Expected equity 10250, got %v", snapshot.TotalEquity)
	}
	if len(snapshot.Positions) != 1 {
		t.Errorf("Expected 1 position snapshot, got %d", len(snapshot.Positions))
	}
}

// TestPortfolioHandler_UpdateStopLoss tests the stop-loss endpoint.
func TestPortfolioHandler_UpdateStopLoss(t *testing.T) {
	t.Run("sets a stop loss", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestLedgerService(t, db, testutil.NewFakeOracle(nil))
		handler := handlers.NewPortfolioHandler(svc)
		portfolio := testutil.CreatePortfolio(t, db, 10000)
		testutil.CreatePosition(t, db, portfolio.ID, "AAPL", 10, 150)

		stop := 120.0
		req := testutil.NewJSONRequestWithURLParams(http.MethodPut,
			"/api/portfolio/"+portfolio.ID+"/positions/AAPL/stop-loss",
			map[string]string{"uuid": portfolio.ID, "ticker": "AAPL"},
			request.UpdateStopLossRequest{StopLoss: &stop},
		)

		// Execute
		w := httptest.NewRecorder()
		handler.UpdateStopLoss(w, req)

		// Assert
		if w.Code != http.StatusNoContent {
			t.Fatalf("Expected 204, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("rejects non-positive stop loss", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestLedgerService(t, db, testutil.NewFakeOracle(nil))
		handler := handlers.NewPortfolioHandler(svc)
		portfolio := testutil.CreatePortfolio(t, db, 10000)
		testutil.CreatePosition(t, db, portfolio.ID, "AAPL", 10, 150)

		stop := -5.0
		req := testutil.NewJSONRequestWithURLParams(http.MethodPut,
			"/api/portfolio/"+portfolio.ID+"/positions/AAPL/stop-loss",
			map[string]string{"uuid": portfolio.ID, "ticker": "AAPL"},
			request.UpdateStopLossRequest{StopLoss: &stop},
		)

		// Execute
		w := httptest.NewRecorder()
		handler.UpdateStopLoss(w, req)

		// Assert
		if w.Code != http.StatusBadRequest {
			t.Fatalf("Expected 400, got %d", w.Code)
		}
	})

	t.Run("returns 404 for unknown position", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestLedgerService(t, db, testutil.NewFakeOracle(nil))
		handler := handlers.NewPortfolioHandler(svc)
		portfolio := testutil.CreatePortfolio(t, db, 10000)

		stop := 90.0
		req := testutil.NewJSONRequestWithURLParams(http.MethodPut,
			"/api/portfolio/"+portfolio.ID+"/positions/TSLA/stop-loss",
			map[string]string{"uuid": portfolio.ID, "ticker": "TSLA"},
			request.UpdateStopLossRequest{StopLoss: &stop},
		)

		// Execute
		w := httptest.NewRecorder()
		handler.UpdateStopLoss(w, req)

		// Assert
		if w.Code != http.StatusNotFound {
			t.Fatalf("Expected 404, got %d: %s", w.Code, w.Body.String())
		}
	})
}

// TestPortfolioHandler_Snapshots tests the snapshot history endpoint.
func TestPortfolioHandler_Snapshots(t *testing.T) {
	t.Run("returns 400 for bad date", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestLedgerService(t, db, testutil.NewFakeOracle(nil))
		handler := handlers.NewPortfolioHandler(svc)
		portfolio := testutil.CreatePortfolio(t, db, 10000)

		req := testutil.NewRequestWithURLParams(http.MethodGet,
			"/api/portfolio/"+portfolio.ID+"/snapshots?start_date=yesterday",
			map[string]string{"uuid": portfolio.ID},
		)

		// Execute
		w := httptest.NewRecorder()
		handler.Snapshots(w, req)

		// Assert
		if w.Code != http.StatusBadRequest {
			t.Fatalf("Expected 400, got %d", w.Code)
		}
	})
}
