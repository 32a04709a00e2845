package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"tradeledger/internal/domain"
)

// AccountRepositoryImpl implements the AccountRepository interface
type AccountRepositoryImpl struct {
	q queryable
}

// NewAccountRepository creates a new AccountRepository
func NewAccountRepository(db *pgxpool.Pool) domain.AccountRepository {
	return &AccountRepositoryImpl{q: db}
}

// newAccountRepositoryWithTx creates a new AccountRepository bound to a transaction
func newAccountRepositoryWithTx(tx queryable) domain.AccountRepository {
	return &AccountRepositoryImpl{q: tx}
}

const accountColumns = `id, username, password_hash, role, cash_balance, invite_code_id, created_at, updated_at`

// Create creates a new account
func (r *AccountRepositoryImpl) Create(ctx context.Context, account *domain.Account) error {
	query := `
		INSERT INTO accounts (
			id, username, password_hash, role, cash_balance, invite_code_id, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		)
	`

	_, err := r.q.Exec(ctx, query,
		account.ID,
		account.Username,
		account.PasswordHash,
		account.Role,
		account.CashBalance,
		account.InviteCodeID,
		account.CreatedAt,
		account.UpdatedAt,
	)

	if err != nil {
		if mapped := mapError(err); mapped == domain.ErrConflict {
			return fmt.Errorf("username %q: %w", account.Username, domain.ErrConflict)
		}
		return fmt.Errorf("failed to create account: %w", err)
	}

	return nil
}

func (r *AccountRepositoryImpl) scanAccount(row interface{ Scan(dest ...any) error }) (*domain.Account, error) {
	account := &domain.Account{}
	err := row.Scan(
		&account.ID,
		&account.Username,
		&account.PasswordHash,
		&account.Role,
		&account.CashBalance,
		&account.InviteCodeID,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return account, nil
}

// GetByID retrieves an account by ID
func (r *AccountRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`

	account, err := r.scanAccount(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if mapped := mapError(err); mapped == domain.ErrNotFound {
			return nil, fmt.Errorf("account %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get account by ID: %w", err)
	}

	return account, nil
}

// GetByUsername retrieves an account by username
func (r *AccountRepositoryImpl) GetByUsername(ctx context.Context, username string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE username = $1`

	account, err := r.scanAccount(r.q.QueryRow(ctx, query, username))
	if err != nil {
		if mapped := mapError(err); mapped == domain.ErrNotFound {
			return nil, fmt.Errorf("account %q: %w", username, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get account by username: %w", err)
	}

	return account, nil
}

// ListUsers retrieves all non-admin accounts
func (r *AccountRepositoryImpl) ListUsers(ctx context.Context) ([]*domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE role != $1
		ORDER BY created_at ASC
	`

	rows, err := r.q.Query(ctx, query, domain.RoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*domain.Account
	for rows.Next() {
		account, err := r.scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, account)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating accounts: %w", err)
	}

	return accounts, nil
}

// UpdateBalance sets an account's cash balance
func (r *AccountRepositoryImpl) UpdateBalance(ctx context.Context, id uuid.UUID, balance decimal.Decimal) error {
	query := `
		UPDATE accounts
		SET cash_balance = $1, updated_at = NOW()
		WHERE id = $2
	`

	result, err := r.q.Exec(ctx, query, balance, id)
	if err != nil {
		return fmt.Errorf("failed to update balance: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("account %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// UpdatePasswordHash replaces an account's password hash
func (r *AccountRepositoryImpl) UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error {
	query := `
		UPDATE accounts
		SET password_hash = $1, updated_at = NOW()
		WHERE id = $2
	`

	result, err := r.q.Exec(ctx, query, hash, id)
	if err != nil {
		return fmt.Errorf("failed to update password hash: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("account %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// Delete removes an account; positions and transactions cascade via FK
func (r *AccountRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM accounts WHERE id = $1`

	result, err := r.q.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("account %s: %w", id, domain.ErrNotFound)
	}

	return nil
}
