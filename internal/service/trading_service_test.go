package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"tradeledger/internal/domain"
)

func TestTradingService_PlaceTrade_Success(t *testing.T) {
	ctx := context.Background()
	accountID := uuid.New()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockAccountRepo := new(MockAccountRepository)
	mockPositionRepo := new(MockPositionRepository)
	mockTransactionRepo := new(MockTransactionRepository)
	mockPrices := new(MockPriceSource)
	mockUoW.SetRepositories(mockAccountRepo, nil, mockPositionRepo, mockTransactionRepo)

	service := NewTradingService(mockFactory, mockPositionRepo, mockPrices)

	account := &domain.Account{
		ID:          accountID,
		Username:    "trader1",
		CashBalance: decimal.NewFromInt(51000),
	}

	mockPrices.On("GetLastClose", ctx, "EURUSD").Return(decimal.NewFromFloat(1.10), nil)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockAccountRepo.On("GetByID", ctx, accountID).Return(account, nil)
	// cost = 1.10 * 10 = 11
	mockAccountRepo.On("UpdateBalance", ctx, accountID, mock.MatchedBy(func(b decimal.Decimal) bool {
		return b.Equal(decimal.NewFromInt(50989))
	})).Return(nil)

	mockPositionRepo.On("Save", ctx, mock.MatchedBy(func(p *domain.Position) bool {
		return p.AccountID == accountID &&
			p.Symbol == "EURUSD" &&
			p.Direction == domain.DirectionBuy &&
			p.Quantity.Equal(decimal.NewFromInt(10)) &&
			p.EntryPrice.Equal(decimal.NewFromFloat(1.10)) &&
			p.CurrentPnL.IsZero()
	})).Return(nil)

	mockTransactionRepo.On("Record", ctx, mock.MatchedBy(func(r *domain.TransactionRecord) bool {
		return r.AccountID == accountID &&
			r.Type == domain.TransactionWithdrawal &&
			r.Amount.Equal(decimal.NewFromInt(11))
	})).Return(nil)

	// Lowercase, padded input normalizes to the canonical symbol
	position, err := service.PlaceTrade(ctx, accountID, " eurusd ", domain.DirectionBuy, decimal.NewFromInt(10), "admin")

	assert.NoError(t, err)
	assert.NotNil(t, position)
	assert.Equal(t, "EURUSD", position.Symbol)
	assert.True(t, position.CurrentPnL.IsZero())

	mockFactory.AssertExpectations(t)
	mockUoW.AssertExpectations(t)
	mockAccountRepo.AssertExpectations(t)
	mockPositionRepo.AssertExpectations(t)
	mockTransactionRepo.AssertExpectations(t)
	mockPrices.AssertExpectations(t)
}

func TestTradingService_PlaceTrade_AllowsNegativeBalance(t *testing.T) {
	ctx := context.Background()
	accountID := uuid.New()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockAccountRepo := new(MockAccountRepository)
	mockPositionRepo := new(MockPositionRepository)
	mockTransactionRepo := new(MockTransactionRepository)
	mockPrices := new(MockPriceSource)
	mockUoW.SetRepositories(mockAccountRepo, nil, mockPositionRepo, mockTransactionRepo)

	service := NewTradingService(mockFactory, mockPositionRepo, mockPrices)

	account := &domain.Account{ID: accountID, Username: "trader1", CashBalance: decimal.NewFromInt(5)}

	mockPrices.On("GetLastClose", ctx, "BTCUSDT").Return(decimal.NewFromInt(100), nil)

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockAccountRepo.On("GetByID", ctx, accountID).Return(account, nil)
	// 5 - 100 = -95: trades are not gated on cash, unlike withdrawals
	mockAccountRepo.On("UpdateBalance", ctx, accountID, mock.MatchedBy(func(b decimal.Decimal) bool {
		return b.Equal(decimal.NewFromInt(-95))
	})).Return(nil)
	mockPositionRepo.On("Save", ctx, mock.Anything).Return(nil)
	mockTransactionRepo.On("Record", ctx, mock.Anything).Return(nil)

	position, err := service.PlaceTrade(ctx, accountID, "BTCUSDT", domain.DirectionSell, decimal.NewFromInt(1), "admin")

	assert.NoError(t, err)
	assert.NotNil(t, position)

	mockAccountRepo.AssertExpectations(t)
}

func TestTradingService_PlaceTrade_Validation(t *testing.T) {
	ctx := context.Background()
	accountID := uuid.New()

	mockFactory := new(MockUnitOfWorkFactory)
	mockPrices := new(MockPriceSource)
	service := NewTradingService(mockFactory, new(MockPositionRepository), mockPrices)

	cases := []struct {
		name      string
		symbol    string
		direction string
		quantity  decimal.Decimal
	}{
		{"empty symbol", "  ", domain.DirectionBuy, decimal.NewFromInt(1)},
		{"bad direction", "EURUSD", "HOLD", decimal.NewFromInt(1)},
		{"zero quantity", "EURUSD", domain.DirectionBuy, decimal.Zero},
		{"negative quantity", "EURUSD", domain.DirectionSell, decimal.NewFromInt(-3)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			position, err := service.PlaceTrade(ctx, accountID, tc.symbol, tc.direction, tc.quantity, "admin")
			assert.Nil(t, position)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}

	mockPrices.AssertNotCalled(t, "GetLastClose", mock.Anything, mock.Anything)
	mockFactory.AssertNotCalled(t, "Create")
}

func TestTradingService_PlaceTrade_PriceLookupFailure(t *testing.T) {
	ctx := context.Background()
	accountID := uuid.New()

	mockFactory := new(MockUnitOfWorkFactory)
	mockPrices := new(MockPriceSource)
	service := NewTradingService(mockFactory, new(MockPositionRepository), mockPrices)

	mockPrices.On("GetLastClose", ctx, "EURUSD").Return(decimal.Zero, domain.ErrMarketData)

	position, err := service.PlaceTrade(ctx, accountID, "EURUSD", domain.DirectionBuy, decimal.NewFromInt(10), "admin")

	assert.Nil(t, position)
	assert.ErrorIs(t, err, domain.ErrMarketData)
	// The ledger is untouched when the price feed is down
	mockFactory.AssertNotCalled(t, "Create")
}

func TestTradingService_RefreshOpenPnL(t *testing.T) {
	ctx := context.Background()

	mockPositionRepo := new(MockPositionRepository)
	mockPrices := new(MockPriceSource)
	service := NewTradingService(new(MockUnitOfWorkFactory), mockPositionRepo, mockPrices)

	long := &domain.Position{
		ID:         uuid.New(),
		Symbol:     "EURUSD",
		Direction:  domain.DirectionBuy,
		Quantity:   decimal.NewFromInt(10),
		EntryPrice: decimal.NewFromFloat(1.10),
	}
	short := &domain.Position{
		ID:         uuid.New(),
		Symbol:     "EURUSD",
		Direction:  domain.DirectionSell,
		Quantity:   decimal.NewFromInt(4),
		EntryPrice: decimal.NewFromFloat(1.20),
	}

	mockPositionRepo.On("GetAllOpen", ctx).Return([]*domain.Position{long, short}, nil)
	// One lookup serves both positions on the symbol
	mockPrices.On("GetLastClose", ctx, "EURUSD").Return(decimal.NewFromFloat(1.15), nil).Once()

	// long: (1.15 - 1.10) * 10 = 0.50
	mockPositionRepo.On("UpdatePnL", ctx, long.ID, mock.MatchedBy(func(p decimal.Decimal) bool {
		return p.Equal(decimal.NewFromFloat(0.50))
	})).Return(nil)
	// short: (1.20 - 1.15) * 4 = 0.20
	mockPositionRepo.On("UpdatePnL", ctx, short.ID, mock.MatchedBy(func(p decimal.Decimal) bool {
		return p.Equal(decimal.NewFromFloat(0.20))
	})).Return(nil)

	assert.NoError(t, service.RefreshOpenPnL(ctx))

	mockPositionRepo.AssertExpectations(t)
	mockPrices.AssertExpectations(t)
}

func TestTradingService_RefreshOpenPnL_SkipsFailedSymbols(t *testing.T) {
	ctx := context.Background()

	mockPositionRepo := new(MockPositionRepository)
	mockPrices := new(MockPriceSource)
	service := NewTradingService(new(MockUnitOfWorkFactory), mockPositionRepo, mockPrices)

	healthy := &domain.Position{
		ID:         uuid.New(),
		Symbol:     "BTCUSDT",
		Direction:  domain.DirectionBuy,
		Quantity:   decimal.NewFromInt(2),
		EntryPrice: decimal.NewFromInt(100),
	}
	broken := &domain.Position{
		ID:         uuid.New(),
		Symbol:     "DELISTED",
		Direction:  domain.DirectionBuy,
		Quantity:   decimal.NewFromInt(1),
		EntryPrice: decimal.NewFromInt(50),
	}

	mockPositionRepo.On("GetAllOpen", ctx).Return([]*domain.Position{healthy, broken}, nil)
	mockPrices.On("GetLastClose", ctx, "BTCUSDT").Return(decimal.NewFromInt(110), nil)
	mockPrices.On("GetLastClose", ctx, "DELISTED").Return(decimal.Zero, domain.ErrMarketData)

	mockPositionRepo.On("UpdatePnL", ctx, healthy.ID, mock.MatchedBy(func(p decimal.Decimal) bool {
		return p.Equal(decimal.NewFromInt(20))
	})).Return(nil)

	// A single bad symbol never fails the sweep
	assert.NoError(t, service.RefreshOpenPnL(ctx))

	mockPositionRepo.AssertNotCalled(t, "UpdatePnL", mock.Anything, broken.ID, mock.Anything)
	mockPositionRepo.AssertExpectations(t)
}

func TestTradingService_RefreshOpenPnL_NoOpenPositions(t *testing.T) {
	ctx := context.Background()

	mockPositionRepo := new(MockPositionRepository)
	mockPrices := new(MockPriceSource)
	service := NewTradingService(new(MockUnitOfWorkFactory), mockPositionRepo, mockPrices)

	mockPositionRepo.On("GetAllOpen", ctx).Return([]*domain.Position{}, nil)

	assert.NoError(t, service.RefreshOpenPnL(ctx))
	mockPrices.AssertNotCalled(t, "GetLastClose", mock.Anything, mock.Anything)
}
