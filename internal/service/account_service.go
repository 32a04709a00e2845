package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"tradeledger/internal/domain"
)

// AccountService handles registration, authentication, and the admin
// account-management operations
type AccountService struct {
	uowFactory      domain.UnitOfWorkFactory
	accountRepo     domain.AccountRepository
	positionRepo    domain.PositionRepository
	transactionRepo domain.TransactionRepository
	log             *logrus.Entry
}

// NewAccountService creates a new AccountService
func NewAccountService(
	uowFactory domain.UnitOfWorkFactory,
	accountRepo domain.AccountRepository,
	positionRepo domain.PositionRepository,
	transactionRepo domain.TransactionRepository,
) *AccountService {
	return &AccountService{
		uowFactory:      uowFactory,
		accountRepo:     accountRepo,
		positionRepo:    positionRepo,
		transactionRepo: transactionRepo,
		log:             logrus.WithField("component", "accounts"),
	}
}

// Register redeems an invite code and creates an account funded with the
// code's value. Both effects share one transaction: if account creation
// fails the code is not consumed.
func (s *AccountService) Register(ctx context.Context, username, password, code string) (*domain.Account, error) {
	if username == "" || password == "" || code == "" {
		return nil, fmt.Errorf("username, password and invite code are required: %w", domain.ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	inviteCode, err := uow.InviteCodes().Redeem(ctx, code)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	account := &domain.Account{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
		CashBalance:  inviteCode.Value,
		InviteCodeID: &inviteCode.ID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := uow.Accounts().Create(ctx, account); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"username": account.Username,
		"balance":  account.CashBalance.String(),
	}).Info("Account registered")

	return account, nil
}

// Authenticate verifies credentials, returning ErrAuth on unknown username
// or wrong password without revealing which
func (s *AccountService) Authenticate(ctx context.Context, username, password string) (*domain.Account, error) {
	account, err := s.accountRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrAuth
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrAuth
	}

	return account, nil
}

// GetByID resolves an account; the auth middleware uses this to verify a
// session still points at a live account
func (s *AccountService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	return s.accountRepo.GetByID(ctx, id)
}

// ListUsers retrieves all non-admin accounts for the admin dashboard
func (s *AccountService) ListUsers(ctx context.Context) ([]*domain.Account, error) {
	return s.accountRepo.ListUsers(ctx)
}

// SetPassword replaces an account's password hash unconditionally
func (s *AccountService) SetPassword(ctx context.Context, accountID uuid.UUID, newPassword string) error {
	if newPassword == "" {
		return fmt.Errorf("new password is required: %w", domain.ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return s.accountRepo.UpdatePasswordHash(ctx, accountID, string(hash))
}

// DeleteAccount removes an account. Its positions and transaction records
// cascade away with it; no ledger rows are orphaned.
func (s *AccountService) DeleteAccount(ctx context.Context, accountID uuid.UUID) error {
	if err := s.accountRepo.Delete(ctx, accountID); err != nil {
		return err
	}
	s.log.WithField("account_id", accountID).Info("Account deleted")
	return nil
}

// Overview bundles everything a dashboard needs for one account
type Overview struct {
	Account      *domain.Account
	Positions    []*domain.Position
	Transactions []*domain.TransactionRecord
	Equity       decimal.Decimal
}

const overviewTransactionLimit = 50

// GetOverview loads an account with its positions, recent transactions,
// and equity recomputed from current state
func (s *AccountService) GetOverview(ctx context.Context, accountID uuid.UUID) (*Overview, error) {
	account, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	positions, err := s.positionRepo.GetByAccountID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	transactions, err := s.transactionRepo.GetByAccountID(ctx, accountID, overviewTransactionLimit)
	if err != nil {
		return nil, err
	}

	return &Overview{
		Account:      account,
		Positions:    positions,
		Transactions: transactions,
		Equity:       account.Equity(positions),
	}, nil
}

// EnsureAdmin creates the admin account at startup if it does not exist
func (s *AccountService) EnsureAdmin(ctx context.Context, username, password string) error {
	if _, err := s.accountRepo.GetByUsername(ctx, username); err == nil {
		return nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	now := time.Now().UTC()
	admin := &domain.Account{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
		CashBalance:  decimal.Zero,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.accountRepo.Create(ctx, admin); err != nil {
		return fmt.Errorf("failed to create admin account: %w", err)
	}

	s.log.WithField("username", username).Info("Admin account created")
	return nil
}
