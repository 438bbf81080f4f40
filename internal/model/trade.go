package model

import "time"

// Trade type values.
const (
	TradeTypeBuy  = "BUY"
	TradeTypeSell = "SELL"
)

// Trade execution types. The ledger only ever fills market orders; the
// other values categorize trades placed by external automation.
const (
	ExecutionTypeMarket   = "MARKET"
	ExecutionTypeLimit    = "LIMIT"
	ExecutionTypeStopLoss = "STOP_LOSS"
)

// Trade status values.
const (
	TradeStatusPending   = "PENDING"
	TradeStatusFilled    = "FILLED"
	TradeStatusCancelled = "CANCELLED"
)

// Trade is an immutable record of an executed BUY or SELL. Once written it
// is never updated or deleted; the trade table is the audit trail.
// CostBasisSold and RealizedPnl are set for sells only.
type Trade struct {
	ID            string    `json:"id"`
	PortfolioID   string    `json:"portfolioId"`
	Ticker        string    `json:"ticker"`
	TradeType     string    `json:"tradeType"`
	Shares        float64   `json:"shares"`
	Price         float64   `json:"price"`
	TotalAmount   float64   `json:"totalAmount"`
	ExecutionType string    `json:"executionType"`
	Status        string    `json:"status"`
	Reason        string    `json:"reason,omitempty"`
	CostBasisSold *float64  `json:"costBasisSold,omitempty"`
	RealizedPnl   *float64  `json:"realizedPnl,omitempty"`
	ExecutedAt    time.Time `json:"executedAt"`
}
