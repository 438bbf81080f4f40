package testutil

import (
	"context"
	"fmt"

	"github.com/dcamoon/trading-backend/internal/marketdata"
)

// FakeOracle is an in-memory marketdata.Oracle for testing. Tickers absent
// from Prices behave like an unavailable upstream quote.
type FakeOracle struct {
	// Prices maps ticker to the quote the oracle returns
	Prices map[string]float64
	// Err, when set, is returned from every lookup
	Err error
	// Calls counts single-ticker lookups
	Calls int
}

// NewFakeOracle creates a FakeOracle with the given quotes.
func NewFakeOracle(prices map[string]float64) *FakeOracle {
	return &FakeOracle{Prices: prices}
}

// GetCurrentPrice returns the configured quote for a ticker.
func (f *FakeOracle) GetCurrentPrice(_ context.Context, ticker string) (float64, error) {
	f.Calls++
	if f.Err != nil {
		return 0, f.Err
	}
	price, ok := f.Prices[ticker]
	if !ok {
		return 0, fmt.Errorf("%w: %s", marketdata.ErrPriceUnavailable, ticker)
	}
	return price, nil
}

// GetCurrentPrices returns quotes for the tickers that have one configured.
// Missing tickers are simply absent from the result, matching the cached
// oracle's partial-failure behavior.
func (f *FakeOracle) GetCurrentPrices(ctx context.Context, tickers []string) map[string]float64 {
	result := make(map[string]float64, len(tickers))
	for _, ticker := range tickers {
		price, err := f.GetCurrentPrice(ctx, ticker)
		if err != nil {
			continue
		}
		result[ticker] = price
	}
	return result
}
