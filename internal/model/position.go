package model

import "time"

// Position is one holding in a portfolio, keyed by (portfolio, ticker).
// CostBasis is tracked independently of AverageCost to avoid compounding
// rounding error across partial sells; the invariant
// CostBasis == Shares*AverageCost holds within floating tolerance.
// A position with zero shares is deleted, never persisted.
type Position struct {
	ID          string    `json:"id"`
	PortfolioID string    `json:"portfolioId"`
	Ticker      string    `json:"ticker"`
	Shares      float64   `json:"shares"`
	AverageCost float64   `json:"averageCost"`
	CostBasis   float64   `json:"costBasis"`
	StopLoss    *float64  `json:"stopLoss,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
