package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"tradeledger/internal/domain"
)

// TradingService opens simulated positions on behalf of users and keeps
// their unrealized P&L current
type TradingService struct {
	uowFactory   domain.UnitOfWorkFactory
	positionRepo domain.PositionRepository
	priceSource  domain.PriceSource
	log          *logrus.Entry
}

// NewTradingService creates a new TradingService
func NewTradingService(uowFactory domain.UnitOfWorkFactory, positionRepo domain.PositionRepository, priceSource domain.PriceSource) *TradingService {
	return &TradingService{
		uowFactory:   uowFactory,
		positionRepo: positionRepo,
		priceSource:  priceSource,
		log:          logrus.WithField("component", "trading"),
	}
}

// PlaceTrade opens a position for an account at the latest closing price.
// The price is fetched before any state changes: a failed lookup leaves
// the ledger untouched. The cost deduction may drive the balance negative;
// that is the admin's call to make. The deduction, the position, and its
// transaction record commit atomically.
func (s *TradingService) PlaceTrade(ctx context.Context, accountID uuid.UUID, symbol, direction string, quantity decimal.Decimal, actor string) (*domain.Position, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, fmt.Errorf("symbol is required: %w", domain.ErrValidation)
	}
	if direction != domain.DirectionBuy && direction != domain.DirectionSell {
		return nil, fmt.Errorf("direction must be BUY or SELL: %w", domain.ErrValidation)
	}
	if !quantity.IsPositive() {
		return nil, fmt.Errorf("quantity must be positive: %w", domain.ErrValidation)
	}

	price, err := s.priceSource.GetLastClose(ctx, symbol)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	account, err := uow.Accounts().GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	cost := price.Mul(quantity)
	if err := uow.Accounts().UpdateBalance(ctx, account.ID, account.CashBalance.Sub(cost)); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	position := &domain.Position{
		ID:         uuid.New(),
		AccountID:  account.ID,
		Symbol:     symbol,
		Direction:  direction,
		Quantity:   quantity,
		EntryPrice: price,
		CurrentPnL: decimal.Zero,
		OpenedAt:   now,
	}
	if err := uow.Positions().Save(ctx, position); err != nil {
		return nil, err
	}

	record := &domain.TransactionRecord{
		ID:          uuid.New(),
		AccountID:   account.ID,
		Type:        domain.TransactionWithdrawal,
		Amount:      cost,
		Description: fmt.Sprintf("Trade cost: %s %s %s @ %s (by %s)", direction, quantity.String(), symbol, price.String(), actor),
		CreatedAt:   now,
	}
	if err := uow.Transactions().Record(ctx, record); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"account":   account.Username,
		"symbol":    symbol,
		"direction": direction,
		"quantity":  quantity.String(),
		"price":     price.String(),
	}).Info("Trade placed")

	return position, nil
}

// RefreshOpenPnL recomputes the unrealized P&L for every open position
// from the latest prices. Run by the P&L worker; the web application only
// ever reads current_pnl.
func (s *TradingService) RefreshOpenPnL(ctx context.Context) error {
	positions, err := s.positionRepo.GetAllOpen(ctx)
	if err != nil {
		return fmt.Errorf("failed to get open positions: %w", err)
	}

	if len(positions) == 0 {
		return nil
	}

	// One lookup per symbol, shared across positions
	prices := make(map[string]decimal.Decimal)
	for _, position := range positions {
		if _, ok := prices[position.Symbol]; ok {
			continue
		}
		price, err := s.priceSource.GetLastClose(ctx, position.Symbol)
		if err != nil {
			s.log.WithError(err).WithField("symbol", position.Symbol).Warn("Price lookup failed, skipping symbol")
			continue
		}
		prices[position.Symbol] = price
	}

	var updated int
	for _, position := range positions {
		price, ok := prices[position.Symbol]
		if !ok {
			continue
		}
		pnl := position.UnrealizedPnL(price)
		if err := s.positionRepo.UpdatePnL(ctx, position.ID, pnl); err != nil {
			s.log.WithError(err).WithField("position_id", position.ID).Warn("Failed to update pnl")
			continue
		}
		updated++
	}

	s.log.WithFields(logrus.Fields{
		"positions": len(positions),
		"updated":   updated,
	}).Debug("Refreshed unrealized pnl")

	return nil
}
