package http

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"tradeledger/internal/domain"
)

func TestFlashMessage(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{domain.ErrNotFound, "Not found."},
		{domain.ErrConflict, "That name is already taken."},
		{domain.ErrInsufficientFunds, "Insufficient funds for that withdrawal."},
		{domain.ErrMarketData, "Could not fetch market data for that symbol."},
		{domain.ErrAuth, "Invalid username or password."},
		{assert.AnError, "Something went wrong. Please try again."},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, flashMessage(tc.err))
	}

	// Wrapped errors still map through errors.Is
	wrapped := fmt.Errorf("balance 10, requested 60: %w", domain.ErrInsufficientFunds)
	assert.Equal(t, "Insufficient funds for that withdrawal.", flashMessage(wrapped))

	validation := fmt.Errorf("quantity must be positive: %w", domain.ErrValidation)
	assert.Contains(t, flashMessage(validation), "Invalid input")
}
