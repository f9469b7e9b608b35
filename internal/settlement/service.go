package settlement

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/forumkit/wagerhall/internal/domain"
	"github.com/forumkit/wagerhall/internal/event"
	"github.com/forumkit/wagerhall/internal/ledger"
	"github.com/forumkit/wagerhall/internal/logger"
	"github.com/forumkit/wagerhall/internal/odds"
	"github.com/forumkit/wagerhall/internal/repository"
)

// Service defines the interface for settlement operations
type Service interface {
	// Settle runs the pari-mutuel payout for a Finished event with a winner
	// set. Idempotent: a second call is rejected once settled_at is stamped.
	Settle(ctx context.Context, eventID uuid.UUID) (*domain.SettlementSummary, error)

	// Cancel refunds all pending stakes and transitions the event to
	// Cancelled
	Cancel(ctx context.Context, eventID uuid.UUID) (*domain.CancellationSummary, error)

	// ResettleRecord repairs a single record that stayed Pending after its
	// event was settled
	ResettleRecord(ctx context.Context, recordID uuid.UUID) (*domain.Record, error)
}

type service struct {
	repo      repository.Wagering
	eventBus  event.Bus
	feeRate   float64
	chunkSize int
}

// NewService creates a new settlement service
func NewService(repo repository.Wagering, eventBus event.Bus, feeRate float64, chunkSize int) Service {
	return &service{
		repo:      repo,
		eventBus:  eventBus,
		feeRate:   feeRate,
		chunkSize: chunkSize,
	}
}

// Settle pays out a Finished event. Records are processed in chunks of
// bounded size, each chunk in its own transaction, with a per-record
// status guard so a crashed run can be resumed without double-paying.
func (s *service) Settle(ctx context.Context, eventID uuid.UUID) (*domain.SettlementSummary, error) {
	log := logger.FromContext(ctx)
	log.Info(LogMsgSettleCalled, "eventID", eventID)

	evt, err := s.getEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	if evt.Status != domain.EventStatusFinished {
		return nil, domain.ErrEventNotFinished
	}
	if evt.SettledAt != nil {
		return nil, domain.ErrEventAlreadySettled
	}
	if evt.WinnerOptionID == nil {
		return nil, domain.ErrWinnerNotSet
	}

	winnerID := *evt.WinnerOptionID
	winnerOpt := evt.OptionByID(winnerID)
	if winnerOpt == nil {
		return nil, domain.ErrOptionNotFound
	}

	platformFee := odds.PlatformFee(evt.TotalPool, s.feeRate)

	summary := &domain.SettlementSummary{
		EventID:        eventID,
		TotalPool:      evt.TotalPool,
		WinnerOptionID: winnerID,
		PlatformFee:    platformFee,
	}

	for {
		records, err := s.repo.ListPendingRecords(ctx, eventID, s.chunkSize)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrContextFailedToListPending, err)
		}
		if len(records) == 0 {
			break
		}

		if err := s.settleChunk(ctx, evt, records, winnerOpt, summary); err != nil {
			return nil, err
		}
		log.Debug(LogMsgChunkSettled, "eventID", eventID, "records", len(records))
	}

	if err := s.stampSettled(ctx, eventID); err != nil {
		return nil, err
	}

	// Pools are conserved: whatever floor rounding leaves unpaid stays with
	// the platform alongside the fee
	if evt.Kind == domain.KindWager {
		summary.PlatformFee = evt.TotalPool - summary.TotalPayout
	}

	s.publish(ctx, event.NewEventSettledEvent(summary))
	log.Info(LogMsgEventSettled,
		"eventID", eventID,
		"winners", summary.WinnerCount,
		"losers", summary.LoserCount,
		"totalPayout", summary.TotalPayout,
		"platformFee", summary.PlatformFee)

	return summary, nil
}

// settleChunk transitions one batch of records inside a single transaction
func (s *service) settleChunk(ctx context.Context, evt *domain.Event, records []domain.Record, winnerOpt *domain.Option, summary *domain.SettlementSummary) error {
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrContextFailedToBeginTx, err)
	}
	defer repository.SafeRollback(ctx, tx)

	now := time.Now().UTC()
	for i := range records {
		record := &records[i]

		if record.OptionID != winnerOpt.ID {
			settled, err := tx.SettleRecord(ctx, record.ID, domain.RecordStatusLost, 0, now)
			if err != nil {
				return fmt.Errorf("%s: %w", ErrContextFailedToSettleRecord, err)
			}
			if settled {
				summary.LoserCount++
			}
			continue
		}

		winAmount := s.winAmount(evt, winnerOpt, record)

		settled, err := tx.SettleRecord(ctx, record.ID, domain.RecordStatusWon, winAmount, now)
		if err != nil {
			return fmt.Errorf("%s: %w", ErrContextFailedToSettleRecord, err)
		}
		if !settled {
			// Another run already handled it; its credit happened there
			continue
		}

		if winAmount > 0 {
			if err := tx.CreditBalance(ctx, record.UserID, winAmount, ledger.ReasonPayout); err != nil {
				return fmt.Errorf("%s: %w", ErrContextFailedToCreditWinner, err)
			}
		}
		summary.WinnerCount++
		summary.TotalPayout += winAmount
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%s: %w", ErrContextFailedToCommitTx, err)
	}
	return nil
}

// winAmount computes the payout for a winning record
func (s *service) winAmount(evt *domain.Event, winnerOpt *domain.Option, record *domain.Record) int64 {
	if evt.Kind == domain.KindPoll {
		return 0
	}
	if winnerOpt.TotalAmount > 0 {
		netPool := evt.TotalPool - odds.PlatformFee(evt.TotalPool, s.feeRate)
		return netPool * record.WagerAmount / winnerOpt.TotalAmount
	}
	// Degenerate: nobody staked on the winning option, return principal
	return record.WagerAmount
}

// stampSettled sets settled_at exactly once; losing the race means another
// settlement already completed
func (s *service) stampSettled(ctx context.Context, eventID uuid.UUID) error {
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrContextFailedToBeginTx, err)
	}
	defer repository.SafeRollback(ctx, tx)

	stamped, err := tx.MarkEventSettled(ctx, eventID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("%s: %w", ErrContextFailedToMarkSettled, err)
	}
	if !stamped {
		return domain.ErrEventAlreadySettled
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%s: %w", ErrContextFailedToCommitTx, err)
	}
	return nil
}

// Cancel refunds every pending stake and moves the event to Cancelled.
// Refunds run first so a mid-run crash leaves the event cancellable again;
// a final sweep after the transition catches wagers that raced in.
func (s *service) Cancel(ctx context.Context, eventID uuid.UUID) (*domain.CancellationSummary, error) {
	log := logger.FromContext(ctx)
	log.Info(LogMsgCancelCalled, "eventID", eventID)

	evt, err := s.getEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	// Guard up front so an un-cancellable event fails before any refund
	probe := *evt
	if err := probe.Cancel(); err != nil {
		return nil, err
	}

	summary := &domain.CancellationSummary{EventID: eventID}

	if err := s.refundPending(ctx, evt, summary); err != nil {
		return nil, err
	}

	if err := s.transitionCancelled(ctx, eventID); err != nil {
		return nil, err
	}

	// Wagers accepted between the refund loop and the transition are still
	// Pending; sweep them now that the event is closed
	if err := s.refundPending(ctx, evt, summary); err != nil {
		return nil, err
	}

	s.publish(ctx, event.NewEventCancelledEvent(summary))
	log.Info(LogMsgEventCancelled,
		"eventID", eventID,
		"refunds", summary.RefundCount,
		"totalRefunded", summary.TotalRefunded)

	return summary, nil
}

// refundPending marks all Pending records Refunded in chunks, crediting
// stakes back for Wager-kind events
func (s *service) refundPending(ctx context.Context, evt *domain.Event, summary *domain.CancellationSummary) error {
	for {
		records, err := s.repo.ListPendingRecords(ctx, evt.ID, s.chunkSize)
		if err != nil {
			return fmt.Errorf("%s: %w", ErrContextFailedToListPending, err)
		}
		if len(records) == 0 {
			return nil
		}

		tx, err := s.repo.BeginTx(ctx)
		if err != nil {
			return fmt.Errorf("%s: %w", ErrContextFailedToBeginTx, err)
		}

		now := time.Now().UTC()
		for i := range records {
			record := &records[i]

			refunded, err := tx.SettleRecord(ctx, record.ID, domain.RecordStatusRefunded, 0, now)
			if err != nil {
				repository.SafeRollback(ctx, tx)
				return fmt.Errorf("%s: %w", ErrContextFailedToSettleRecord, err)
			}
			if !refunded {
				continue
			}

			if evt.Kind == domain.KindWager && record.WagerAmount > 0 {
				if err := tx.CreditBalance(ctx, record.UserID, record.WagerAmount, ledger.ReasonRefund); err != nil {
					repository.SafeRollback(ctx, tx)
					return fmt.Errorf("%s: %w", ErrContextFailedToCreditRefund, err)
				}
			}
			summary.RefundCount++
			summary.TotalRefunded += record.WagerAmount
		}

		if err := tx.Commit(ctx); err != nil {
			return fmt.Errorf("%s: %w", ErrContextFailedToCommitTx, err)
		}
	}
}

func (s *service) transitionCancelled(ctx context.Context, eventID uuid.UUID) error {
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrContextFailedToBeginTx, err)
	}
	defer repository.SafeRollback(ctx, tx)

	evt, err := tx.GetEventForUpdate(ctx, eventID)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrContextFailedToGetEvent, err)
	}
	if evt == nil {
		return domain.ErrEventNotFound
	}

	if err := evt.Cancel(); err != nil {
		return err
	}

	if err := tx.UpdateEventStatus(ctx, eventID, evt.Status); err != nil {
		return fmt.Errorf("%s: %w", ErrContextFailedToUpdateStatus, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%s: %w", ErrContextFailedToCommitTx, err)
	}
	return nil
}

// ResettleRecord recomputes the outcome of one record that stayed Pending
// after its event settled, using the record's own odds snapshot
func (s *service) ResettleRecord(ctx context.Context, recordID uuid.UUID) (*domain.Record, error) {
	log := logger.FromContext(ctx)
	log.Info(LogMsgResettleRecordCalled, "recordID", recordID)

	record, err := s.repo.GetRecord(ctx, recordID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToGetRecord, err)
	}
	if record == nil {
		return nil, domain.ErrRecordNotFound
	}
	if record.Status != domain.RecordStatusPending {
		return nil, domain.ErrRecordNotPending
	}

	evt, err := s.getEvent(ctx, record.EventID)
	if err != nil {
		return nil, err
	}
	if evt.SettledAt == nil {
		return nil, domain.ErrEventNotSettled
	}
	if evt.WinnerOptionID == nil {
		return nil, domain.ErrWinnerNotSet
	}

	status := domain.RecordStatusLost
	var winAmount int64
	if record.OptionID == *evt.WinnerOptionID && evt.Kind == domain.KindWager {
		// The batch pool split is gone; fall back to the odds snapshot
		status = domain.RecordStatusWon
		winAmount = odds.PotentialWin(record.WagerAmount, record.OddsAtWager)
	} else if record.OptionID == *evt.WinnerOptionID {
		status = domain.RecordStatusWon
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToBeginTx, err)
	}
	defer repository.SafeRollback(ctx, tx)

	now := time.Now().UTC()
	settled, err := tx.SettleRecord(ctx, recordID, status, winAmount, now)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToSettleRecord, err)
	}
	if !settled {
		return nil, domain.ErrRecordNotPending
	}

	if winAmount > 0 {
		if err := tx.CreditBalance(ctx, record.UserID, winAmount, ledger.ReasonPayout); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrContextFailedToCreditWinner, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToCommitTx, err)
	}

	record.Status = status
	record.WinAmount = winAmount
	record.SettledAt = &now

	s.publish(ctx, event.NewRecordResettledEvent(record))
	log.Info(LogMsgRecordResettled, "recordID", recordID, "status", status, "winAmount", winAmount)

	return record, nil
}

func (s *service) getEvent(ctx context.Context, eventID uuid.UUID) (*domain.Event, error) {
	evt, err := s.repo.GetEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToGetEvent, err)
	}
	if evt == nil {
		return nil, domain.ErrEventNotFound
	}
	return evt, nil
}

func (s *service) publish(ctx context.Context, evt event.Event) {
	if s.eventBus == nil {
		return
	}
	if err := s.eventBus.Publish(ctx, evt); err != nil {
		logger.FromContext(ctx).Warn(LogMsgFailedToPublishEvent, "event_type", evt.Type, "error", err)
	}
}
