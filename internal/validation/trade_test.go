package validation_test

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/dcamoon/trading-backend/internal/api/request"
	"github.com/dcamoon/trading-backend/internal/validation"
)

// TestValidateExecuteTrade tests trade request validation.
//
// WHY: Invalid trade requests must be rejected with field-level messages
// before touching the ledger, and the trade type check must be
// case-insensitive.
func TestValidateExecuteTrade(t *testing.T) {
	valid := request.ExecuteTradeRequest{
		PortfolioID: uuid.New().String(),
		Ticker:      "AAPL",
		TradeType:   "BUY",
		Shares:      10,
		Price:       150,
	}

	t.Run("accepts a valid request", func(t *testing.T) {
		if err := validation.ValidateExecuteTrade(valid); err != nil {
			t.Errorf("Expected no error, got %v", err)
		}
	})

	t.Run("accepts lowercase trade type", func(t *testing.T) {
		req := valid
		req.TradeType = "sell"
		if err := validation.ValidateExecuteTrade(req); err != nil {
			t.Errorf("Expected no error for lowercase type, got %v", err)
		}
	})

	t.Run("rejects malformed portfolio id", func(t *testing.T) {
		req := valid
		req.PortfolioID = "not-a-uuid"

		err := validation.ValidateExecuteTrade(req)

		if !errors.Is(err, validation.ErrInvalidUUID) {
			t.Fatalf("Expected ErrInvalidUUID, got %v", err)
		}
	})

	t.Run("collects field errors", func(t *testing.T) {
		req := request.ExecuteTradeRequest{
			PortfolioID: uuid.New().String(),
			Ticker:      "",
			TradeType:   "HOLD",
			Shares:      0,
			Price:       -1,
		}

		err := validation.ValidateExecuteTrade(req)

		var validationErr *validation.Error
		if !errors.As(err, &validationErr) {
			t.Fatalf("Expected validation.Error, got %v", err)
		}

		for _, field := range []string{"ticker", "tradeType", "shares", "price"} {
			if _, ok := validationErr.Fields[field]; !ok {
				t.Errorf("Expected error for field %q, got %v", field, validationErr.Fields)
			}
		}
	})

	t.Run("rejects missing trade type", func(t *testing.T) {
		req := valid
		req.TradeType = "  "

		err := validation.ValidateExecuteTrade(req)

		var validationErr *validation.Error
		if !errors.As(err, &validationErr) {
			t.Fatalf("Expected validation.Error, got %v", err)
		}
		if validationErr.Fields["tradeType"] != "tradeType is required" {
			t.Errorf("Unexpected tradeType message: %q", validationErr.Fields["tradeType"])
		}
	})
}

// TestValidateCreatePortfolio tests portfolio creation validation.
func TestValidateCreatePortfolio(t *testing.T) {
	t.Run("accepts a valid request", func(t *testing.T) {
		req := request.CreatePortfolioRequest{Name: "Growth", StartingCash: 10000}
		if err := validation.ValidateCreatePortfolio(req); err != nil {
			t.Errorf("Expected no error, got %v", err)
		}
	})

	t.Run("rejects blank name and non-positive cash", func(t *testing.T) {
		req := request.CreatePortfolioRequest{Name: " ", StartingCash: 0}

		err := validation.ValidateCreatePortfolio(req)

		var validationErr *validation.Error
		if !errors.As(err, &validationErr) {
			t.Fatalf("Expected validation.Error, got %v", err)
		}
		if len(validationErr.Fields) != 2 {
			t.Errorf("Expected 2 field errors, got %v", validationErr.Fields)
		}
	})
}

// TestValidateDeposit tests deposit validation.
func TestValidateDeposit(t *testing.T) {
	if err := validation.ValidateDeposit(request.DepositRequest{Amount: 100}); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}

	err := validation.ValidateDeposit(request.DepositRequest{Amount: -5})
	var validationErr *validation.Error
	if !errors.As(err, &validationErr) {
		t.Fatalf("Expected validation.Error, got %v", err)
	}
}
