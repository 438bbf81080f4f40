package model

import "time"

// MarketData is one cached quote for a ticker. Rows are written by the
// market data layer to reduce upstream API calls; staleness is decided by
// the cache TTL, not by this record.
type MarketData struct {
	ID         string    `json:"id"`
	Ticker     string    `json:"ticker"`
	Date       time.Time `json:"date"`
	ClosePrice float64   `json:"closePrice"`
	Source     string    `json:"source"`
	CreatedAt  time.Time `json:"createdAt"`
}
