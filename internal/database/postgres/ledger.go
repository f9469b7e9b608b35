package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/forumkit/wagerhall/internal/domain"
)

// LedgerRepository implements the ledger repository for PostgreSQL
type LedgerRepository struct {
	db *pgxpool.Pool
}

// NewLedgerRepository creates a new LedgerRepository
func NewLedgerRepository(db *pgxpool.Pool) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// GetBalance returns the user's current point balance. Unknown users have
// a zero balance.
func (r *LedgerRepository) GetBalance(ctx context.Context, userID string) (int64, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return 0, fmt.Errorf("invalid user id: %w", err)
	}

	var balance int64
	err = r.db.QueryRow(ctx,
		`SELECT balance FROM user_balances WHERE user_id = $1`, uid).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get balance: %w", err)
	}
	return balance, nil
}

// Credit adds points to the user's balance and writes an audit entry
func (r *LedgerRepository) Credit(ctx context.Context, userID string, amount int64, reason string) error {
	return creditBalance(ctx, r.db, userID, amount, reason)
}

// Debit subtracts points from the user's balance and writes an audit entry.
// A debit that would drive the balance negative returns
// domain.ErrInsufficientBalance and writes nothing.
func (r *LedgerRepository) Debit(ctx context.Context, userID string, amount int64, reason string) error {
	return debitBalance(ctx, r.db, userID, amount, reason)
}

func creditBalance(ctx context.Context, q querier, userID string, amount int64, reason string) error {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return fmt.Errorf("invalid user id: %w", err)
	}
	if amount <= 0 {
		return domain.ErrAmountNotPositive
	}

	_, err = q.Exec(ctx, `
		INSERT INTO user_balances (user_id, balance, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id)
		DO UPDATE SET balance = user_balances.balance + $2, updated_at = NOW()
	`, uid, amount)
	if err != nil {
		return fmt.Errorf("failed to credit balance: %w", err)
	}

	return insertLedgerEntry(ctx, q, uid, amount, reason)
}

func debitBalance(ctx context.Context, q querier, userID string, amount int64, reason string) error {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return fmt.Errorf("invalid user id: %w", err)
	}
	if amount <= 0 {
		return domain.ErrAmountNotPositive
	}

	// The balance >= amount predicate is the atomic overdraft guard; a
	// missing row means a zero balance, which also fails the debit.
	tag, err := q.Exec(ctx, `
		UPDATE user_balances
		SET balance = balance - $2, updated_at = NOW()
		WHERE user_id = $1 AND balance >= $2
	`, uid, amount)
	if err != nil {
		return fmt.Errorf("failed to debit balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInsufficientBalance
	}

	return insertLedgerEntry(ctx, q, uid, -amount, reason)
}

func insertLedgerEntry(ctx context.Context, q querier, userID uuid.UUID, amount int64, reason string) error {
	_, err := q.Exec(ctx, `
		INSERT INTO ledger_entries (user_id, amount, reason)
		VALUES ($1, $2, $3)
	`, userID, amount, reason)
	if err != nil {
		return fmt.Errorf("failed to insert ledger entry: %w", err)
	}
	return nil
}
