package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"tradeledger/internal/domain"
)

// InviteCodeRepositoryImpl implements the InviteCodeRepository interface
type InviteCodeRepositoryImpl struct {
	q queryable
}

// NewInviteCodeRepository creates a new InviteCodeRepository
func NewInviteCodeRepository(db *pgxpool.Pool) domain.InviteCodeRepository {
	return &InviteCodeRepositoryImpl{q: db}
}

// newInviteCodeRepositoryWithTx creates a new InviteCodeRepository bound to a transaction
func newInviteCodeRepositoryWithTx(tx queryable) domain.InviteCodeRepository {
	return &InviteCodeRepositoryImpl{q: tx}
}

// Create creates a new invite code
func (r *InviteCodeRepositoryImpl) Create(ctx context.Context, code *domain.InviteCode) error {
	query := `
		INSERT INTO invite_codes (id, code, value, used, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.q.Exec(ctx, query,
		code.ID,
		code.Code,
		code.Value,
		code.Used,
		code.CreatedAt,
	)

	if err != nil {
		if mapped := mapError(err); mapped == domain.ErrConflict {
			return fmt.Errorf("code %q: %w", code.Code, domain.ErrConflict)
		}
		return fmt.Errorf("failed to create invite code: %w", err)
	}

	return nil
}

// GetUnusedByCode retrieves an unused code matching the string exactly
func (r *InviteCodeRepositoryImpl) GetUnusedByCode(ctx context.Context, code string) (*domain.InviteCode, error) {
	query := `
		SELECT id, code, value, used, created_at
		FROM invite_codes
		WHERE code = $1 AND used = FALSE
	`

	ic := &domain.InviteCode{}
	err := r.q.QueryRow(ctx, query, code).Scan(
		&ic.ID,
		&ic.Code,
		&ic.Value,
		&ic.Used,
		&ic.CreatedAt,
	)

	if err != nil {
		if mapped := mapError(err); mapped == domain.ErrNotFound {
			return nil, fmt.Errorf("invite code: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get invite code: %w", err)
	}

	return ic, nil
}

// Redeem marks an unused code as used and returns it. The conditional
// UPDATE makes redemption at-most-once even under concurrent attempts.
func (r *InviteCodeRepositoryImpl) Redeem(ctx context.Context, code string) (*domain.InviteCode, error) {
	query := `
		UPDATE invite_codes
		SET used = TRUE
		WHERE code = $1 AND used = FALSE
		RETURNING id, code, value, used, created_at
	`

	ic := &domain.InviteCode{}
	err := r.q.QueryRow(ctx, query, code).Scan(
		&ic.ID,
		&ic.Code,
		&ic.Value,
		&ic.Used,
		&ic.CreatedAt,
	)

	if err != nil {
		if mapped := mapError(err); mapped == domain.ErrNotFound {
			return nil, fmt.Errorf("invite code: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to redeem invite code: %w", err)
	}

	return ic, nil
}

// List retrieves all codes, newest first
func (r *InviteCodeRepositoryImpl) List(ctx context.Context) ([]*domain.InviteCode, error) {
	query := `
		SELECT id, code, value, used, created_at
		FROM invite_codes
		ORDER BY created_at DESC
	`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query invite codes: %w", err)
	}
	defer rows.Close()

	var codes []*domain.InviteCode
	for rows.Next() {
		ic := &domain.InviteCode{}
		err := rows.Scan(
			&ic.ID,
			&ic.Code,
			&ic.Value,
			&ic.Used,
			&ic.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invite code: %w", err)
		}
		codes = append(codes, ic)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating invite codes: %w", err)
	}

	return codes, nil
}

// Delete removes a code regardless of used state. Deleting an absent code
// is a no-op, not an error.
func (r *InviteCodeRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM invite_codes WHERE id = $1`

	_, err := r.q.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete invite code: %w", err)
	}

	return nil
}
