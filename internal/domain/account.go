package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Account represents a registered account with a cash balance
type Account struct {
	ID           uuid.UUID       `json:"id"`
	Username     string          `json:"username"`
	PasswordHash string          `json:"-"` // Never expose password hash in JSON
	Role         string          `json:"role"`
	CashBalance  decimal.Decimal `json:"cash_balance"`
	InviteCodeID *uuid.UUID      `json:"invite_code_id,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// Role constants
const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
)

// IsAdmin checks whether the account has the ADMIN role
func (a *Account) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// Equity computes total account value: cash balance plus the unrealized
// P&L of all open positions. Recomputed on demand, never cached.
func (a *Account) Equity(positions []*Position) decimal.Decimal {
	total := a.CashBalance
	for _, p := range positions {
		total = total.Add(p.CurrentPnL)
	}
	return total
}
