package domain

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountRepository defines the interface for account data operations
type AccountRepository interface {
	// Create creates a new account
	Create(ctx context.Context, account *Account) error

	// GetByID retrieves an account by ID
	GetByID(ctx context.Context, id uuid.UUID) (*Account, error)

	// GetByUsername retrieves an account by username
	GetByUsername(ctx context.Context, username string) (*Account, error)

	// ListUsers retrieves all non-admin accounts
	ListUsers(ctx context.Context) ([]*Account, error)

	// UpdateBalance sets an account's cash balance
	UpdateBalance(ctx context.Context, id uuid.UUID, balance decimal.Decimal) error

	// UpdatePasswordHash replaces an account's password hash
	UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error

	// Delete removes an account; positions and transactions cascade
	Delete(ctx context.Context, id uuid.UUID) error
}

// InviteCodeRepository defines the interface for invite-code operations
type InviteCodeRepository interface {
	// Create creates a new invite code
	Create(ctx context.Context, code *InviteCode) error

	// GetUnusedByCode retrieves an unused code matching the string exactly
	GetUnusedByCode(ctx context.Context, code string) (*InviteCode, error)

	// Redeem marks an unused code as used and returns it. At-most-once:
	// a second attempt for the same code returns ErrNotFound.
	Redeem(ctx context.Context, code string) (*InviteCode, error)

	// List retrieves all codes, newest first
	List(ctx context.Context) ([]*InviteCode, error)

	// Delete removes a code regardless of used state; no-op if absent
	Delete(ctx context.Context, id uuid.UUID) error
}

// PositionRepository defines the interface for open-position operations
type PositionRepository interface {
	// Save creates a new position
	Save(ctx context.Context, position *Position) error

	// GetByAccountID retrieves all positions for an account
	GetByAccountID(ctx context.Context, accountID uuid.UUID) ([]*Position, error)

	// GetAllOpen retrieves every open position across accounts
	GetAllOpen(ctx context.Context) ([]*Position, error)

	// UpdatePnL sets the externally maintained unrealized P&L
	UpdatePnL(ctx context.Context, id uuid.UUID, pnl decimal.Decimal) error
}

// TransactionRepository defines the interface for the transaction log
type TransactionRepository interface {
	// Record appends a new transaction record
	Record(ctx context.Context, record *TransactionRecord) error

	// GetByAccountID retrieves records for an account, newest first
	GetByAccountID(ctx context.Context, accountID uuid.UUID, limit int) ([]*TransactionRecord, error)
}

// UnitOfWork scopes repositories to a single database transaction so that
// multi-entity mutations (redeem+register, adjust+log, trade) commit or
// roll back together.
type UnitOfWork interface {
	// Begin starts the transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction; no-op after Commit
	Rollback() error

	// Accounts returns the account repository bound to this transaction
	Accounts() AccountRepository

	// InviteCodes returns the invite-code repository bound to this transaction
	InviteCodes() InviteCodeRepository

	// Positions returns the position repository bound to this transaction
	Positions() PositionRepository

	// Transactions returns the transaction-log repository bound to this transaction
	Transactions() TransactionRepository
}

// UnitOfWorkFactory creates fresh units of work
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}
