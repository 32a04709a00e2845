package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestPosition_UnrealizedPnL(t *testing.T) {
	cases := []struct {
		name      string
		direction string
		entry     string
		quantity  string
		last      string
		want      string
	}{
		{"buy gains on rise", DirectionBuy, "1.10", "10", "1.15", "0.50"},
		{"buy loses on fall", DirectionBuy, "1.10", "10", "1.05", "-0.50"},
		{"sell gains on fall", DirectionSell, "1.20", "4", "1.15", "0.20"},
		{"sell loses on rise", DirectionSell, "1.20", "4", "1.25", "-0.20"},
		{"flat price is zero", DirectionBuy, "100", "3", "100", "0"},
		{"fractional quantity", DirectionBuy, "50000", "0.5", "50100", "50"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := &Position{
				Direction:  tc.direction,
				EntryPrice: decimal.RequireFromString(tc.entry),
				Quantity:   decimal.RequireFromString(tc.quantity),
			}
			got := p.UnrealizedPnL(decimal.RequireFromString(tc.last))
			assert.True(t, got.Equal(decimal.RequireFromString(tc.want)),
				"got %s, want %s", got, tc.want)
		})
	}
}

func TestPosition_IsBuy(t *testing.T) {
	assert.True(t, (&Position{Direction: DirectionBuy}).IsBuy())
	assert.False(t, (&Position{Direction: DirectionSell}).IsBuy())
}

func TestAccount_Equity(t *testing.T) {
	account := &Account{CashBalance: decimal.NewFromInt(1000)}

	t.Run("no positions", func(t *testing.T) {
		assert.True(t, account.Equity(nil).Equal(decimal.NewFromInt(1000)))
	})

	t.Run("mixed pnl", func(t *testing.T) {
		positions := []*Position{
			{CurrentPnL: decimal.RequireFromString("12.50")},
			{CurrentPnL: decimal.RequireFromString("-4.25")},
			{CurrentPnL: decimal.Zero},
		}
		assert.True(t, account.Equity(positions).Equal(decimal.RequireFromString("1008.25")))
	})

	t.Run("losses can pull equity below cash", func(t *testing.T) {
		positions := []*Position{{CurrentPnL: decimal.NewFromInt(-1500)}}
		assert.True(t, account.Equity(positions).Equal(decimal.NewFromInt(-500)))
	})
}

func TestAccount_IsAdmin(t *testing.T) {
	assert.True(t, (&Account{Role: RoleAdmin}).IsAdmin())
	assert.False(t, (&Account{Role: RoleUser}).IsAdmin())
}
