package model

import "time"

// Portfolio represents one cash/position ledger. StartingCash is fixed at
// creation (deposits adjust both balances together); CurrentCash is the
// single source of truth for available buying power.
type Portfolio struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	StartingCash float64   `json:"startingCash"`
	CurrentCash  float64   `json:"currentCash"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// PortfolioSummary represents the current state of a portfolio: cash,
// latest valuation, and cumulative return figures. Valuation fields come
// from the most recent snapshot; for a portfolio that has never been
// snapshotted they degrade to cash-only values.
type PortfolioSummary struct {
	PortfolioID         string    `json:"portfolioId"`
	Name                string    `json:"name"`
	StartingCash        float64   `json:"startingCash"`
	CurrentCash         float64   `json:"currentCash"`
	TotalEquity         float64   `json:"totalEquity"`
	TotalPositionsValue float64   `json:"totalPositionsValue"`
	TotalReturn         float64   `json:"totalReturn"`
	TotalReturnPct      float64   `json:"totalReturnPct"`
	DailyReturn         float64   `json:"dailyReturn"`
	PositionCount       int       `json:"positionCount"`
	TradeCount          int       `json:"tradeCount"`
	LastUpdated         time.Time `json:"lastUpdated"`
}
