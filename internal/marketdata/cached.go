package marketdata

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/dcamoon/trading-backend/internal/model"
	"github.com/dcamoon/trading-backend/internal/repository"
)

// maxConcurrentFetches bounds parallel upstream requests during a batch.
const maxConcurrentFetches = 4

// CachedOracle serves quotes from the market_data table and falls through
// to an upstream Fetcher on cache misses. Fetched prices are written back
// with the configured TTL deciding freshness on later reads.
type CachedOracle struct {
	fetcher Fetcher
	repo    *repository.MarketDataRepository
	ttl     time.Duration
	source  string
}

// NewCachedOracle creates a caching oracle over the given upstream fetcher.
func NewCachedOracle(fetcher Fetcher, repo *repository.MarketDataRepository, ttl time.Duration, source string) *CachedOracle {
	return &CachedOracle{
		fetcher: fetcher,
		repo:    repo,
		ttl:     ttl,
		source:  source,
	}
}

// GetCurrentPrice returns a cached quote when one is fresh enough,
// otherwise fetches from upstream and caches the result. A failed
// cache write is logged, not returned: the caller still gets the price.
func (o *CachedOracle) GetCurrentPrice(ctx context.Context, ticker string) (float64, error) {
	cutoff := time.Now().Add(-o.ttl)

	price, ok, err := o.repo.GetLatestPrice(ticker, cutoff)
	if err != nil {
		return 0, err
	}
	if ok {
		return price, nil
	}

	price, err = o.fetcher.GetCurrentPrice(ctx, ticker)
	if err != nil {
		return 0, err
	}

	now := time.Now()
	md := &model.MarketData{
		ID:         uuid.New().String(),
		Ticker:     ticker,
		Date:       now,
		ClosePrice: price,
		Source:     o.source,
		CreatedAt:  now,
	}
	if err := o.repo.InsertPrice(md); err != nil {
		log.Printf("Failed to cache price for %s: %v", ticker, err)
	}

	return price, nil
}

// GetCurrentPrices resolves quotes for a set of tickers with bounded
// concurrency. Tickers whose price cannot be obtained are simply absent
// from the result; the ledger decides how to degrade.
func (o *CachedOracle) GetCurrentPrices(ctx context.Context, tickers []string) map[string]float64 {
	prices := make(map[string]float64, len(tickers))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentFetches)

	for _, ticker := range tickers {
		ticker := ticker
		g.Go(func() error {
			price, err := o.GetCurrentPrice(ctx, ticker)
			if err != nil {
				log.Printf("Could not get price for %s: %v", ticker, err)
				return nil // a missing quote never fails the batch
			}
			mu.Lock()
			prices[ticker] = price
			mu.Unlock()
			return nil
		})
	}

	// Workers only ever return nil; Wait is for completion.
	_ = g.Wait()

	return prices
}
