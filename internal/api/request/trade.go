package request

// ExecuteTradeRequest is the body for executing a trade against a portfolio.
// TradeType accepts buy/sell in any case; ticker is normalized to uppercase.
type ExecuteTradeRequest struct {
	PortfolioID string  `json:"portfolioId"`
	Ticker      string  `json:"ticker"`
	TradeType   string  `json:"tradeType"`
	Shares      float64 `json:"shares"`
	Price       float64 `json:"price"`
	Reason      string  `json:"reason"`
}
