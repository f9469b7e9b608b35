package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/forumkit/wagerhall/internal/domain"
)

// EventFilter narrows event listings. Nil fields match everything.
type EventFilter struct {
	Status   *domain.EventStatus
	Kind     *domain.EventKind
	Category *string
}

// Wagering defines the data access required by the wagering and settlement
// services
type Wagering interface {
	CreateEvent(ctx context.Context, event *domain.Event) error
	GetEvent(ctx context.Context, id uuid.UUID) (*domain.Event, error)
	ListEvents(ctx context.Context, filter EventFilter) ([]domain.Event, error)
	DeleteEvent(ctx context.Context, id uuid.UUID) error
	SetWinner(ctx context.Context, eventID uuid.UUID, optionID int) error

	GetRecord(ctx context.Context, id uuid.UUID) (*domain.Record, error)
	GetRecordByUser(ctx context.Context, eventID uuid.UUID, userID string) (*domain.Record, error)
	CountRecords(ctx context.Context, eventID uuid.UUID) (int, error)
	// ListPendingRecords returns up to limit Pending records of the event,
	// oldest first, so settlement can work in resumable chunks.
	ListPendingRecords(ctx context.Context, eventID uuid.UUID, limit int) ([]domain.Record, error)

	// Transaction support
	BeginTx(ctx context.Context) (WageringTx, error)
}

// WageringTx extends Tx with the operations that must share one atomic unit:
// wager placement (debit + record + aggregates + odds) and per-chunk
// settlement (record transitions + credits).
type WageringTx interface {
	Tx

	// GetEventForUpdate loads the event and its options with row locks held
	// for the duration of the transaction, so concurrent wagers on the same
	// event serialize and never compute odds from a stale pool.
	GetEventForUpdate(ctx context.Context, id uuid.UUID) (*domain.Event, error)

	InsertRecord(ctx context.Context, record *domain.Record) error

	// ApplyWager increments the staked aggregates for a Wager-kind placement:
	// option amount and votes, event pool, wager count and participants.
	ApplyWager(ctx context.Context, eventID uuid.UUID, optionID int, amount int64) error
	// ApplyVote increments the aggregates for a Poll-kind placement: option
	// votes and event wager count only.
	ApplyVote(ctx context.Context, eventID uuid.UUID, optionID int) error

	// UpdateOdds persists recomputed odds for the given options
	UpdateOdds(ctx context.Context, eventID uuid.UUID, oddsByOption map[int]float64) error

	// SettleRecord transitions a record out of Pending. The update is guarded
	// by status='Pending' in storage; the boolean reports whether the guard
	// matched, making re-runs after a partial failure safe.
	SettleRecord(ctx context.Context, recordID uuid.UUID, status domain.RecordStatus, winAmount int64, settledAt time.Time) (bool, error)

	// MarkEventSettled stamps settled_at, guarded by settled_at IS NULL.
	// Returns false when another settlement already won the race.
	MarkEventSettled(ctx context.Context, eventID uuid.UUID, settledAt time.Time) (bool, error)

	UpdateEventStatus(ctx context.Context, id uuid.UUID, status domain.EventStatus) error

	// Ledger operations inside the enclosing transaction, so a failed
	// placement rolls the debit back with everything else
	DebitBalance(ctx context.Context, userID string, amount int64, reason string) error
	CreditBalance(ctx context.Context, userID string, amount int64, reason string) error
}
