package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// YahooClient fetches quotes from the Yahoo Finance chart API.
// It implements Fetcher; wrap it in a CachedOracle before handing it to
// the ledger so snapshots do not hammer the API.
type YahooClient struct {
	httpClient *http.Client
}

// NewYahooClient creates a Yahoo Finance client with a bounded request timeout.
func NewYahooClient() *YahooClient {
	return &YahooClient{
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// GetCurrentPrice returns the latest available daily close for a symbol.
// It queries the 5-day chart and takes the last non-null close, so it keeps
// working over weekends and market holidays.
func (c *YahooClient) GetCurrentPrice(ctx context.Context, ticker string) (float64, error) {
	url := fmt.Sprintf("https://query1.finance.yahoo.com/v8/finance/chart/%s?interval=1d&range=5d", ticker)

	result, err := c.queryChart(ctx, url)
	if err != nil {
		return 0, err
	}

	if len(result.Chart.Result) == 0 {
		return 0, fmt.Errorf("%w: no results for %s", ErrPriceUnavailable, ticker)
	}

	chart := result.Chart.Result[0]
	if len(chart.Indicators.Quote) == 0 {
		return 0, fmt.Errorf("%w: no quote data for %s", ErrPriceUnavailable, ticker)
	}

	closes := chart.Indicators.Quote[0].Close
	for i := len(closes) - 1; i >= 0; i-- {
		if closes[i] != nil {
			return *closes[i], nil
		}
	}

	// Some instruments report only the live price in metadata.
	if chart.Meta.RegularMarketPrice > 0 {
		return chart.Meta.RegularMarketPrice, nil
	}

	return 0, fmt.Errorf("%w: no close prices for %s", ErrPriceUnavailable, ticker)
}

// queryChart executes a chart API request and decodes the response.
func (c *YahooClient) queryChart(ctx context.Context, url string) (chartResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return chartResponse{}, err
	}

	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return chartResponse{}, fmt.Errorf("%w: %v", ErrPriceUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return chartResponse{}, fmt.Errorf("%w: %v", ErrPriceUnavailable, err)
	}

	var response chartResponse
	if err := json.Unmarshal(data, &response); err != nil {
		return chartResponse{}, fmt.Errorf("%w: %v", ErrPriceUnavailable, err)
	}

	if response.Chart.Error != nil {
		return response, fmt.Errorf("%w: yahoo error: %s", ErrPriceUnavailable, response.Chart.Error.Description)
	}

	return response, nil
}
