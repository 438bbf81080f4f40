// Package request defines the JSON request bodies accepted by the API.
package request

// CreatePortfolioRequest is the body for creating a portfolio.
type CreatePortfolioRequest struct {
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	StartingCash float64 `json:"startingCash"`
}

// DepositRequest is the body for depositing cash into a portfolio.
type DepositRequest struct {
	Amount float64 `json:"amount"`
}

// UpdateStopLossRequest is the body for setting or clearing a stop-loss
// price on a position. A null stopLoss clears it.
type UpdateStopLossRequest struct {
	StopLoss *float64 `json:"stopLoss"`
}
