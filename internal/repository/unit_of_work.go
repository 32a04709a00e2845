package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"tradeledger/internal/domain"
)

// unitOfWork implements domain.UnitOfWork on top of a pgx transaction
type unitOfWork struct {
	db  *pgxpool.Pool
	tx  pgx.Tx
	ctx context.Context

	accountRepo     domain.AccountRepository
	inviteCodeRepo  domain.InviteCodeRepository
	positionRepo    domain.PositionRepository
	transactionRepo domain.TransactionRepository
}

type unitOfWorkFactory struct {
	db *pgxpool.Pool
}

// NewUnitOfWorkFactory creates a new UnitOfWork factory
func NewUnitOfWorkFactory(db *pgxpool.Pool) domain.UnitOfWorkFactory {
	return &unitOfWorkFactory{db: db}
}

func (f *unitOfWorkFactory) Create() domain.UnitOfWork {
	return &unitOfWork{db: f.db}
}

// Begin starts a new transaction
func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}

	tx, err := u.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	u.tx = tx
	u.ctx = ctx

	// Create repositories with the transaction
	u.accountRepo = newAccountRepositoryWithTx(tx)
	u.inviteCodeRepo = newInviteCodeRepositoryWithTx(tx)
	u.positionRepo = newPositionRepositoryWithTx(tx)
	u.transactionRepo = newTransactionRepositoryWithTx(tx)

	return nil
}

// Commit commits the transaction
func (u *unitOfWork) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}

	if err := u.tx.Commit(u.ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	u.tx = nil
	return nil
}

// Rollback rolls back the transaction. Safe to defer: after a successful
// commit it is a no-op.
func (u *unitOfWork) Rollback() error {
	if u.tx == nil {
		return nil
	}

	err := u.tx.Rollback(u.ctx)
	u.tx = nil
	if err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}

	return nil
}

// Accounts returns the account repository for this unit of work
func (u *unitOfWork) Accounts() domain.AccountRepository {
	if u.accountRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.accountRepo
}

// InviteCodes returns the invite-code repository for this unit of work
func (u *unitOfWork) InviteCodes() domain.InviteCodeRepository {
	if u.inviteCodeRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.inviteCodeRepo
}

// Positions returns the position repository for this unit of work
func (u *unitOfWork) Positions() domain.PositionRepository {
	if u.positionRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.positionRepo
}

// Transactions returns the transaction-log repository for this unit of work
func (u *unitOfWork) Transactions() domain.TransactionRepository {
	if u.transactionRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.transactionRepo
}
