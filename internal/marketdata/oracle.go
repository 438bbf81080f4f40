// Package marketdata supplies current prices to the ledger. The ledger
// never trusts a price to block a trade; quotes are used only to value
// positions at snapshot time.
package marketdata

import (
	"context"
	"errors"
)

// ErrPriceUnavailable indicates that no quote could be obtained for a
// ticker. Snapshot creation treats this as a soft condition and falls back
// to the position's average cost.
var ErrPriceUnavailable = errors.New("price unavailable")

// Fetcher retrieves a single quote from an upstream source.
type Fetcher interface {
	GetCurrentPrice(ctx context.Context, ticker string) (float64, error)
}

// Oracle is the price source the ledger consumes. GetCurrentPrices returns
// a price per ticker for every ticker it could resolve; missing entries
// mean the price was unavailable.
type Oracle interface {
	Fetcher
	GetCurrentPrices(ctx context.Context, tickers []string) map[string]float64
}
