package repository

import "context"

// Ledger defines the data access for the point-balance ledger. Every credit
// and debit writes an audit entry alongside the balance mutation.
type Ledger interface {
	GetBalance(ctx context.Context, userID string) (int64, error)
	Credit(ctx context.Context, userID string, amount int64, reason string) error
	// Debit atomically subtracts from the balance; a debit that would go
	// negative returns domain.ErrInsufficientBalance and writes nothing.
	Debit(ctx context.Context, userID string, amount int64, reason string) error
}
