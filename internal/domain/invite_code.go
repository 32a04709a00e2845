package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InviteCode is a single-use token that grants a starting cash balance
// upon registration. Once used it is permanently bound to one account.
type InviteCode struct {
	ID        uuid.UUID       `json:"id"`
	Code      string          `json:"code"`
	Value     decimal.Decimal `json:"value"`
	Used      bool            `json:"used"`
	CreatedAt time.Time       `json:"created_at"`
}
