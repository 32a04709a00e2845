package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"

	"tradeledger/internal/domain"
)

// MarketPriceService fetches the latest closing price for a symbol over
// HTTP. Every failure mode (transport error, non-200, empty payload,
// timeout) surfaces as domain.ErrMarketData so callers can treat the
// lookup as a single capability.
type MarketPriceService struct {
	httpClient *http.Client
	baseURL    string
}

// NewMarketPriceService creates a new MarketPriceService with a bounded
// request timeout
func NewMarketPriceService(baseURL string, timeout time.Duration) *MarketPriceService {
	return &MarketPriceService{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: baseURL,
	}
}

// GetLastClose fetches the latest available closing price for symbol
func (s *MarketPriceService) GetLastClose(ctx context.Context, symbol string) (decimal.Decimal, error) {
	endpoint := fmt.Sprintf("%s/api/v3/ticker/price?symbol=%s", s.baseURL, url.QueryEscape(symbol))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: failed to create request: %v", domain.ErrMarketData, err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: request for %s failed: %v", domain.ErrMarketData, symbol, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return decimal.Zero, fmt.Errorf("%w: status=%d body=%s", domain.ErrMarketData, resp.StatusCode, string(body))
	}

	var ticker struct {
		Symbol string `json:"symbol"`
		Price  string `json:"price"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&ticker); err != nil {
		return decimal.Zero, fmt.Errorf("%w: failed to decode response: %v", domain.ErrMarketData, err)
	}

	if ticker.Price == "" {
		return decimal.Zero, fmt.Errorf("%w: no price data for %s", domain.ErrMarketData, symbol)
	}

	price, err := decimal.NewFromString(ticker.Price)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: malformed price %q for %s", domain.ErrMarketData, ticker.Price, symbol)
	}

	return price, nil
}
