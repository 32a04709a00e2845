package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"tradeledger/internal/domain"
)

// PositionRepositoryImpl implements the PositionRepository interface
type PositionRepositoryImpl struct {
	q queryable
}

// NewPositionRepository creates a new PositionRepository
func NewPositionRepository(db *pgxpool.Pool) domain.PositionRepository {
	return &PositionRepositoryImpl{q: db}
}

// newPositionRepositoryWithTx creates a new PositionRepository bound to a transaction
func newPositionRepositoryWithTx(tx queryable) domain.PositionRepository {
	return &PositionRepositoryImpl{q: tx}
}

// Save creates a new position
func (r *PositionRepositoryImpl) Save(ctx context.Context, position *domain.Position) error {
	query := `
		INSERT INTO positions (
			id, account_id, symbol, direction, quantity, entry_price, current_pnl, opened_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		)
	`

	_, err := r.q.Exec(ctx, query,
		position.ID,
		position.AccountID,
		position.Symbol,
		position.Direction,
		position.Quantity,
		position.EntryPrice,
		position.CurrentPnL,
		position.OpenedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to save position: %w", err)
	}

	return nil
}

// GetByAccountID retrieves all positions for an account
func (r *PositionRepositoryImpl) GetByAccountID(ctx context.Context, accountID uuid.UUID) ([]*domain.Position, error) {
	query := `
		SELECT id, account_id, symbol, direction, quantity, entry_price, current_pnl, opened_at
		FROM positions
		WHERE account_id = $1
		ORDER BY opened_at DESC
	`

	rows, err := r.q.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to query positions by account ID: %w", err)
	}
	defer rows.Close()

	return scanPositions(rows)
}

// GetAllOpen retrieves every open position across accounts
func (r *PositionRepositoryImpl) GetAllOpen(ctx context.Context) ([]*domain.Position, error) {
	query := `
		SELECT id, account_id, symbol, direction, quantity, entry_price, current_pnl, opened_at
		FROM positions
		ORDER BY opened_at ASC
	`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query open positions: %w", err)
	}
	defer rows.Close()

	return scanPositions(rows)
}

func scanPositions(rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}) ([]*domain.Position, error) {
	var positions []*domain.Position
	for rows.Next() {
		position := &domain.Position{}
		err := rows.Scan(
			&position.ID,
			&position.AccountID,
			&position.Symbol,
			&position.Direction,
			&position.Quantity,
			&position.EntryPrice,
			&position.CurrentPnL,
			&position.OpenedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan position: %w", err)
		}
		positions = append(positions, position)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating positions: %w", err)
	}

	return positions, nil
}

// UpdatePnL sets the externally maintained unrealized P&L
func (r *PositionRepositoryImpl) UpdatePnL(ctx context.Context, id uuid.UUID, pnl decimal.Decimal) error {
	query := `
		UPDATE positions
		SET current_pnl = $1
		WHERE id = $2
	`

	result, err := r.q.Exec(ctx, query, pnl, id)
	if err != nil {
		return fmt.Errorf("failed to update position pnl: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("position %s: %w", id, domain.ErrNotFound)
	}

	return nil
}
