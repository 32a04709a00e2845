package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Position represents an open simulated trade for an account.
// CurrentPnL is maintained by the P&L worker, not by request handlers.
type Position struct {
	ID         uuid.UUID       `json:"id"`
	AccountID  uuid.UUID       `json:"account_id"`
	Symbol     string          `json:"symbol"`
	Direction  string          `json:"direction"`
	Quantity   decimal.Decimal `json:"quantity"`
	EntryPrice decimal.Decimal `json:"entry_price"`
	CurrentPnL decimal.Decimal `json:"current_pnl"`
	OpenedAt   time.Time       `json:"opened_at"`
}

// Direction constants
const (
	DirectionBuy  = "BUY"
	DirectionSell = "SELL"
)

// IsBuy checks if the position is a BUY position
func (p *Position) IsBuy() bool {
	return p.Direction == DirectionBuy
}

// UnrealizedPnL calculates the unrealized P&L for the position at the
// given price. BUY gains when price rises, SELL gains when it falls.
func (p *Position) UnrealizedPnL(lastPrice decimal.Decimal) decimal.Decimal {
	if p.IsBuy() {
		return lastPrice.Sub(p.EntryPrice).Mul(p.Quantity)
	}
	return p.EntryPrice.Sub(lastPrice).Mul(p.Quantity)
}
