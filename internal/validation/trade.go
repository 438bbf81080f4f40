package validation

import (
	"fmt"
	"strings"

	"github.com/dcamoon/trading-backend/internal/api/request"
)

// ValidTradeType contains the allowed trade type values. Input is matched
// case-insensitively; the ledger normalizes to uppercase.
var ValidTradeType = map[string]bool{
	"BUY": true, "SELL": true,
}

// ValidateExecuteTrade validates a trade execution request.
//
// Required fields:
//   - portfolioId: Must be a valid UUID
//   - ticker: Must be non-empty
//   - tradeType: Must be BUY or SELL (any case)
//   - shares: Must be positive
//   - price: Must be positive
//
// Returns a validation Error with field-specific error messages if validation fails.
func ValidateExecuteTrade(req request.ExecuteTradeRequest) error {
	if err := ValidateUUID(req.PortfolioID); err != nil {
		return err
	}

	errors := make(map[string]string)

	if strings.TrimSpace(req.Ticker) == "" {
		errors["ticker"] = "ticker is required"
	}

	tradeType := strings.ToUpper(strings.TrimSpace(req.TradeType))
	if tradeType == "" {
		errors["tradeType"] = "tradeType is required"
	} else if !ValidTradeType[tradeType] {
		errors["tradeType"] = fmt.Sprintf("invalid trade type: %s", req.TradeType)
	}

	if req.Shares <= 0.0 {
		errors["shares"] = "shares must be positive"
	}

	if req.Price <= 0.0 {
		errors["price"] = "price must be positive"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}

// ValidateCreatePortfolio validates a portfolio creation request.
func ValidateCreatePortfolio(req request.CreatePortfolioRequest) error {
	errors := make(map[string]string)

	if strings.TrimSpace(req.Name) == "" {
		errors["name"] = "name is required"
	}

	if req.StartingCash <= 0.0 {
		errors["startingCash"] = "startingCash must be positive"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}

// ValidateDeposit validates a cash deposit request.
func ValidateDeposit(req request.DepositRequest) error {
	if req.Amount <= 0.0 {
		return &Error{Fields: map[string]string{"amount": "amount must be positive"}}
	}
	return nil
}
