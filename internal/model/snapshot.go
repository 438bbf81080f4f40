package model

import "time"

// PortfolioSnapshot is an immutable point-in-time valuation of a portfolio.
// Snapshots are append-only; re-snapshotting the same date produces a new
// row rather than replacing the old one.
type PortfolioSnapshot struct {
	ID                  string    `json:"id"`
	PortfolioID         string    `json:"portfolioId"`
	SnapshotDate        time.Time `json:"snapshotDate"`
	TotalEquity         float64   `json:"totalEquity"`
	CashBalance         float64   `json:"cashBalance"`
	TotalPositionsValue float64   `json:"totalPositionsValue"`
	DailyReturn         float64   `json:"dailyReturn"`
	TotalReturn         float64   `json:"totalReturn"`
	TotalReturnPct      float64   `json:"totalReturnPct"`
	CreatedAt           time.Time `json:"createdAt"`

	Positions []PositionSnapshot `json:"positions,omitempty"`
}

// PositionSnapshot captures one position's valuation at snapshot time.
type PositionSnapshot struct {
	ID                  string  `json:"id"`
	PortfolioSnapshotID string  `json:"portfolioSnapshotId"`
	Ticker              string  `json:"ticker"`
	Shares              float64 `json:"shares"`
	CurrentPrice        float64 `json:"currentPrice"`
	MarketValue         float64 `json:"marketValue"`
	CostBasis           float64 `json:"costBasis"`
	UnrealizedPnl       float64 `json:"unrealizedPnl"`
	UnrealizedPnlPct    float64 `json:"unrealizedPnlPct"`
}
