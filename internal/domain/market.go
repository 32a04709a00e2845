package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// PriceSource provides the latest available closing price for a symbol.
// Implementations must bound the lookup with a timeout; failures surface
// as ErrMarketData.
type PriceSource interface {
	GetLastClose(ctx context.Context, symbol string) (decimal.Decimal, error)
}
