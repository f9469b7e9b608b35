package domain

import (
	"time"

	"github.com/google/uuid"
)

// EventKind distinguishes staked wagers from zero-stake polls
type EventKind string

const (
	KindWager EventKind = "Wager"
	KindPoll  EventKind = "Poll"
)

// EventStatus represents the lifecycle status of an event
type EventStatus string

const (
	EventStatusPending   EventStatus = "Pending"
	EventStatusActive    EventStatus = "Active"
	EventStatusFinished  EventStatus = "Finished"
	EventStatusCancelled EventStatus = "Cancelled"
)

// RecordStatus represents the settlement status of a wager record
type RecordStatus string

const (
	RecordStatusPending  RecordStatus = "Pending"
	RecordStatusWon      RecordStatus = "Won"
	RecordStatusLost     RecordStatus = "Lost"
	RecordStatusRefunded RecordStatus = "Refunded"
)

// Event is a community-defined wagering event. TotalPool is the sum of all
// accepted wager amounts and must equal the sum of option amounts at every
// quiescent point for Wager-kind events.
type Event struct {
	ID                uuid.UUID   `json:"id"`
	CreatorID         string      `json:"creator_id"`
	Title             string      `json:"title"`
	Kind              EventKind   `json:"kind"`
	Category          string      `json:"category"`
	Status            EventStatus `json:"status"`
	StartTime         time.Time   `json:"start_time"`
	EndTime           time.Time   `json:"end_time"`
	MinWagerAmount    int64       `json:"min_wager_amount"`
	TotalPool         int64       `json:"total_pool"`
	TotalWagerCount   int         `json:"total_wager_count"`
	TotalParticipants int         `json:"total_participants"`
	WinnerOptionID    *int        `json:"winner_option_id,omitempty"`
	SettledAt         *time.Time  `json:"settled_at,omitempty"`
	CreatedAt         time.Time   `json:"created_at"`
	Options           []Option    `json:"options,omitempty"`
}

// Option is one possible outcome of an event
type Option struct {
	ID          int       `json:"id"`
	EventID     uuid.UUID `json:"event_id"`
	Name        string    `json:"name"`
	SortOrder   int       `json:"sort_order"`
	TotalAmount int64     `json:"total_amount"`
	TotalVotes  int       `json:"total_votes"`
	CurrentOdds float64   `json:"current_odds"`
	IsWinner    bool      `json:"is_winner"`
}

// Record is a single user's wager on one option. OddsAtWager snapshots the
// option odds at placement time and is immutable afterward.
type Record struct {
	ID          uuid.UUID    `json:"id"`
	UserID      string       `json:"user_id"`
	EventID     uuid.UUID    `json:"event_id"`
	OptionID    int          `json:"option_id"`
	WagerAmount int64        `json:"wager_amount"`
	OddsAtWager float64      `json:"odds_at_wager"`
	Status      RecordStatus `json:"status"`
	WinAmount   int64        `json:"win_amount"`
	SettledAt   *time.Time   `json:"settled_at,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
}

// SettlementSummary reports the outcome of settling one event
type SettlementSummary struct {
	EventID        uuid.UUID `json:"event_id"`
	TotalPool      int64     `json:"total_pool"`
	WinnerOptionID int       `json:"winner_option_id"`
	WinnerCount    int       `json:"winner_count"`
	LoserCount     int       `json:"loser_count"`
	PlatformFee    int64     `json:"platform_fee"`
	TotalPayout    int64     `json:"total_payout"`
}

// CancellationSummary reports the outcome of cancelling one event
type CancellationSummary struct {
	EventID       uuid.UUID `json:"event_id"`
	RefundCount   int       `json:"refund_count"`
	TotalRefunded int64     `json:"total_refunded"`
}

// Activate transitions the event from Pending to Active.
// Guards: status must be Pending and now must fall within [StartTime, EndTime).
func (e *Event) Activate(now time.Time) error {
	if e.Status != EventStatusPending {
		return ErrEventNotPending
	}
	if now.Before(e.StartTime) {
		return ErrEventNotStarted
	}
	if !now.Before(e.EndTime) {
		return ErrEventEnded
	}
	e.Status = EventStatusActive
	return nil
}

// Finish closes the event to further wagers. Allowed from Active, or from
// Pending to support early closure.
func (e *Event) Finish() error {
	if e.Status != EventStatusActive && e.Status != EventStatusPending {
		return ErrEventNotFinishable
	}
	e.Status = EventStatusFinished
	return nil
}

// Cancel transitions the event to Cancelled. Finished and Cancelled events
// are rejected.
func (e *Event) Cancel() error {
	if e.Status != EventStatusPending && e.Status != EventStatusActive {
		return ErrEventNotCancellable
	}
	e.Status = EventStatusCancelled
	return nil
}

// CanSetWinner reports whether a winner may be recorded: the event must be
// Finished and not yet settled.
func (e *Event) CanSetWinner() error {
	if e.Status != EventStatusFinished {
		return ErrEventNotFinished
	}
	if e.SettledAt != nil {
		return ErrEventAlreadySettled
	}
	return nil
}

// Bettable reports whether wagers may currently be placed
func (e *Event) Bettable(now time.Time) bool {
	return e.Status == EventStatusActive &&
		!now.Before(e.StartTime) &&
		now.Before(e.EndTime)
}

// Settleable reports whether the event is ready for settlement
func (e *Event) Settleable() bool {
	return e.Status == EventStatusFinished &&
		e.WinnerOptionID != nil &&
		e.SettledAt == nil
}

// Deletable reports whether the event may be destroyed: Pending events
// always, Finished events only when no records exist.
func (e *Event) Deletable(recordCount int) bool {
	if e.Status == EventStatusPending {
		return true
	}
	return e.Status == EventStatusFinished && recordCount == 0
}

// OptionByID returns the option with the given ID, or nil if it does not
// belong to this event.
func (e *Event) OptionByID(optionID int) *Option {
	for i := range e.Options {
		if e.Options[i].ID == optionID {
			return &e.Options[i]
		}
	}
	return nil
}
