package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"tradeledger/internal/domain"
)

const (
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	codeLength   = 8

	// Regenerate on the off chance a generated code already exists
	codeIssueAttempts = 3
)

// LedgerService handles invite-code issuance and balance adjustments
type LedgerService struct {
	uowFactory domain.UnitOfWorkFactory
	codeRepo   domain.InviteCodeRepository
	log        *logrus.Entry
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(uowFactory domain.UnitOfWorkFactory, codeRepo domain.InviteCodeRepository) *LedgerService {
	return &LedgerService{
		uowFactory: uowFactory,
		codeRepo:   codeRepo,
		log:        logrus.WithField("component", "ledger"),
	}
}

// IssueCode creates a new single-use invite code carrying the given value
func (s *LedgerService) IssueCode(ctx context.Context, value decimal.Decimal) (*domain.InviteCode, error) {
	if !value.IsPositive() {
		return nil, fmt.Errorf("code value must be positive: %w", domain.ErrValidation)
	}

	var lastErr error
	for i := 0; i < codeIssueAttempts; i++ {
		codeStr, err := generateCodeString()
		if err != nil {
			return nil, fmt.Errorf("failed to generate code: %w", err)
		}

		code := &domain.InviteCode{
			ID:        uuid.New(),
			Code:      codeStr,
			Value:     value,
			Used:      false,
			CreatedAt: time.Now().UTC(),
		}

		if err := s.codeRepo.Create(ctx, code); err != nil {
			if errors.Is(err, domain.ErrConflict) {
				lastErr = err
				continue
			}
			return nil, err
		}

		s.log.WithFields(logrus.Fields{
			"code":  code.Code,
			"value": code.Value.String(),
		}).Info("Invite code issued")
		return code, nil
	}

	return nil, fmt.Errorf("could not generate a unique code: %w", lastErr)
}

// generateCodeString builds a grouped uppercase alphanumeric code, XXXX-XXXX
func generateCodeString() (string, error) {
	buf := make([]byte, codeLength)
	max := big.NewInt(int64(len(codeAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = codeAlphabet[n.Int64()]
	}
	return string(buf[:4]) + "-" + string(buf[4:]), nil
}

// VerifyCode looks up an unused code, returning it with its value.
// Used by the pre-registration check; it does not consume the code.
func (s *LedgerService) VerifyCode(ctx context.Context, code string) (*domain.InviteCode, error) {
	return s.codeRepo.GetUnusedByCode(ctx, code)
}

// ListCodes retrieves all invite codes, newest first
func (s *LedgerService) ListCodes(ctx context.Context) ([]*domain.InviteCode, error) {
	return s.codeRepo.List(ctx)
}

// DeleteCode removes a code in any state; absent codes are a no-op
func (s *LedgerService) DeleteCode(ctx context.Context, id uuid.UUID) error {
	return s.codeRepo.Delete(ctx, id)
}

// AdjustBalance applies an admin deposit or withdrawal to an account. The
// balance mutation and the transaction record commit atomically; a
// withdrawal exceeding the balance fails before anything is written.
func (s *LedgerService) AdjustBalance(ctx context.Context, accountID uuid.UUID, amount decimal.Decimal, kind domain.TransactionType, actor string) (*domain.Account, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("amount must be positive: %w", domain.ErrValidation)
	}
	if kind != domain.TransactionDeposit && kind != domain.TransactionWithdrawal {
		return nil, fmt.Errorf("unsupported adjustment type %q: %w", kind, domain.ErrValidation)
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

	var newBalance decimal.Decimal
	var description string
	switch kind {
	case domain.TransactionDeposit:
		newBalance = account.CashBalance.Add(amount)
		description = fmt.Sprintf("Admin deposit by %s", actor)
	case domain.TransactionWithdrawal:
		if account.CashBalance.LessThan(amount) {
			return nil, fmt.Errorf("balance %s, requested %s: %w",
				account.CashBalance.String(), amount.String(), domain.ErrInsufficientFunds)
		}
		newBalance = account.CashBalance.Sub(amount)
		description = fmt.Sprintf("Admin withdrawal by %s", actor)
	}

	if err := uow.Accounts().UpdateBalance(ctx, account.ID, newBalance); err != nil {
		return nil, err
	}

	record := &domain.TransactionRecord{
		ID:          uuid.New(),
		AccountID:   account.ID,
		Type:        kind,
		Amount:      amount,
		Description: description,
		CreatedAt:   time.Now().UTC(),
	}
	if err := uow.Transactions().Record(ctx, record); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"account": account.Username,
		"type":    kind,
		"amount":  amount.String(),
	}).Info("Balance adjusted")

	account.CashBalance = newBalance
	return account, nil
}
