package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"tradeledger/internal/domain"
)

// TransactionRepositoryImpl implements the TransactionRepository interface.
// The log is append-only: no update or delete statements exist here.
type TransactionRepositoryImpl struct {
	q queryable
}

// NewTransactionRepository creates a new TransactionRepository
func NewTransactionRepository(db *pgxpool.Pool) domain.TransactionRepository {
	return &TransactionRepositoryImpl{q: db}
}

// newTransactionRepositoryWithTx creates a new TransactionRepository bound to a transaction
func newTransactionRepositoryWithTx(tx queryable) domain.TransactionRepository {
	return &TransactionRepositoryImpl{q: tx}
}

// Record appends a new transaction record
func (r *TransactionRepositoryImpl) Record(ctx context.Context, record *domain.TransactionRecord) error {
	query := `
		INSERT INTO transactions (id, account_id, type, amount, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.q.Exec(ctx, query,
		record.ID,
		record.AccountID,
		string(record.Type),
		record.Amount,
		record.Description,
		record.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to record transaction: %w", err)
	}

	return nil
}

// GetByAccountID retrieves records for an account, newest first
func (r *TransactionRepositoryImpl) GetByAccountID(ctx context.Context, accountID uuid.UUID, limit int) ([]*domain.TransactionRecord, error) {
	query := `
		SELECT id, account_id, type, amount, description, created_at
		FROM transactions
		WHERE account_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, accountID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var records []*domain.TransactionRecord
	for rows.Next() {
		record := &domain.TransactionRecord{}
		var recordType string
		err := rows.Scan(
			&record.ID,
			&record.AccountID,
			&recordType,
			&record.Amount,
			&record.Description,
			&record.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		record.Type = domain.TransactionType(recordType)
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}

	return records, nil
}
