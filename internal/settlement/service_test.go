package settlement

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/forumkit/wagerhall/internal/domain"
	"github.com/forumkit/wagerhall/internal/ledger"
)

const (
	testFeeRate   = 0.05
	testChunkSize = 100
)

func newTestService(t *testing.T) (Service, *MockRepository, *MockBus) {
	t.Helper()
	repo := new(MockRepository)
	bus := new(MockBus)
	svc := NewService(repo, bus, testFeeRate, testChunkSize)
	return svc, repo, bus
}

// settleableEvent is Finished with option 1 declared winner.
// Pool 1000: 400 staked on the winner, 600 on the loser.
func settleableEvent() *domain.Event {
	winner := 1
	now := time.Now()
	return &domain.Event{
		ID:             uuid.New(),
		Title:          "Grand final",
		Kind:           domain.KindWager,
		Status:         domain.EventStatusFinished,
		StartTime:      now.Add(-2 * time.Hour),
		EndTime:        now.Add(-time.Hour),
		TotalPool:      1000,
		WinnerOptionID: &winner,
		Options: []domain.Option{
			{ID: 1, Name: "Blue", TotalAmount: 400},
			{ID: 2, Name: "Red", TotalAmount: 600},
		},
	}
}

func pendingRecord(eventID uuid.UUID, optionID int, amount int64) domain.Record {
	return domain.Record{
		ID:          uuid.New(),
		UserID:      uuid.NewString(),
		EventID:     eventID,
		OptionID:    optionID,
		WagerAmount: amount,
		OddsAtWager: 2.0,
		Status:      domain.RecordStatusPending,
	}
}

func TestSettle_PaysWinnersFromNetPool(t *testing.T) {
	svc, repo, bus := newTestService(t)
	evt := settleableEvent()
	tx := new(MockTx)

	winnerA := pendingRecord(evt.ID, 1, 300)
	winnerB := pendingRecord(evt.ID, 1, 100)
	loserC := pendingRecord(evt.ID, 2, 400)
	loserD := pendingRecord(evt.ID, 2, 200)
	records := []domain.Record{winnerA, winnerB, loserC, loserD}

	repo.On("GetEvent", mock.Anything, evt.ID).Return(evt, nil)
	repo.On("ListPendingRecords", mock.Anything, evt.ID, testChunkSize).Return(records, nil).Once()
	repo.On("ListPendingRecords", mock.Anything, evt.ID, testChunkSize).Return([]domain.Record{}, nil)
	repo.On("BeginTx", mock.Anything).Return(tx, nil)

	// netPool = 1000 - 50 fee = 950; split by stake over the 400 on the winner
	tx.On("SettleRecord", mock.Anything, winnerA.ID, domain.RecordStatusWon, int64(712), mock.Anything).Return(true, nil)
	tx.On("SettleRecord", mock.Anything, winnerB.ID, domain.RecordStatusWon, int64(237), mock.Anything).Return(true, nil)
	tx.On("SettleRecord", mock.Anything, loserC.ID, domain.RecordStatusLost, int64(0), mock.Anything).Return(true, nil)
	tx.On("SettleRecord", mock.Anything, loserD.ID, domain.RecordStatusLost, int64(0), mock.Anything).Return(true, nil)
	tx.On("CreditBalance", mock.Anything, winnerA.UserID, int64(712), ledger.ReasonPayout).Return(nil)
	tx.On("CreditBalance", mock.Anything, winnerB.UserID, int64(237), ledger.ReasonPayout).Return(nil)
	tx.On("MarkEventSettled", mock.Anything, evt.ID, mock.Anything).Return(true, nil)
	tx.On("Commit", mock.Anything).Return(nil)
	tx.On("Rollback", mock.Anything).Return(nil).Maybe()
	bus.On("Publish", mock.Anything, mock.Anything).Return(nil)

	summary, err := svc.Settle(context.Background(), evt.ID)

	require.NoError(t, err)
	assert.Equal(t, 2, summary.WinnerCount)
	assert.Equal(t, 2, summary.LoserCount)
	assert.Equal(t, int64(949), summary.TotalPayout)
	// Floor remainder stays with the platform, conserving the pool
	assert.Equal(t, int64(51), summary.PlatformFee)
	assert.Equal(t, evt.TotalPool, summary.TotalPayout+summary.PlatformFee)
	tx.AssertExpectations(t)
}

func TestSettle_ZeroStakeWinnerReturnsPrincipal(t *testing.T) {
	svc, repo, bus := newTestService(t)
	evt := settleableEvent()
	evt.Options[0].TotalAmount = 0
	tx := new(MockTx)

	rec := pendingRecord(evt.ID, 1, 150)

	repo.On("GetEvent", mock.Anything, evt.ID).Return(evt, nil)
	repo.On("ListPendingRecords", mock.Anything, evt.ID, testChunkSize).Return([]domain.Record{rec}, nil).Once()
	repo.On("ListPendingRecords", mock.Anything, evt.ID, testChunkSize).Return([]domain.Record{}, nil)
	repo.On("BeginTx", mock.Anything).Return(tx, nil)

	tx.On("SettleRecord", mock.Anything, rec.ID, domain.RecordStatusWon, int64(150), mock.Anything).Return(true, nil)
	tx.On("CreditBalance", mock.Anything, rec.UserID, int64(150), ledger.ReasonPayout).Return(nil)
	tx.On("MarkEventSettled", mock.Anything, evt.ID, mock.Anything).Return(true, nil)
	tx.On("Commit", mock.Anything).Return(nil)
	tx.On("Rollback", mock.Anything).Return(nil).Maybe()
	bus.On("Publish", mock.Anything, mock.Anything).Return(nil)

	summary, err := svc.Settle(context.Background(), evt.ID)

	require.NoError(t, err)
	assert.Equal(t, int64(150), summary.TotalPayout)
}

func TestSettle_PollTransitionsWithoutLedger(t *testing.T) {
	svc, repo, bus := newTestService(t)
	evt := settleableEvent()
	evt.Kind = domain.KindPoll
	evt.TotalPool = 0
	evt.Options[0].TotalAmount = 0
	evt.Options[1].TotalAmount = 0
	tx := new(MockTx)

	voteWon := pendingRecord(evt.ID, 1, 0)
	voteLost := pendingRecord(evt.ID, 2, 0)

	repo.On("GetEvent", mock.Anything, evt.ID).Return(evt, nil)
	repo.On("ListPendingRecords", mock.Anything, evt.ID, testChunkSize).Return([]domain.Record{voteWon, voteLost}, nil).Once()
	repo.On("ListPendingRecords", mock.Anything, evt.ID, testChunkSize).Return([]domain.Record{}, nil)
	repo.On("BeginTx", mock.Anything).Return(tx, nil)

	tx.On("SettleRecord", mock.Anything, voteWon.ID, domain.RecordStatusWon, int64(0), mock.Anything).Return(true, nil)
	tx.On("SettleRecord", mock.Anything, voteLost.ID, domain.RecordStatusLost, int64(0), mock.Anything).Return(true, nil)
	tx.On("MarkEventSettled", mock.Anything, evt.ID, mock.Anything).Return(true, nil)
	tx.On("Commit", mock.Anything).Return(nil)
	tx.On("Rollback", mock.Anything).Return(nil).Maybe()
	bus.On("Publish", mock.Anything, mock.Anything).Return(nil)

	summary, err := svc.Settle(context.Background(), evt.ID)

	require.NoError(t, err)
	assert.Equal(t, 1, summary.WinnerCount)
	assert.Equal(t, 1, summary.LoserCount)
	assert.Zero(t, summary.TotalPayout)
	assert.Zero(t, summary.PlatformFee)
	tx.AssertNotCalled(t, "CreditBalance", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSettle_Guards(t *testing.T) {
	t.Run("event not finished", func(t *testing.T) {
		svc, repo, _ := newTestService(t)
		evt := settleableEvent()
		evt.Status = domain.EventStatusActive

		repo.On("GetEvent", mock.Anything, evt.ID).Return(evt, nil)

		_, err := svc.Settle(context.Background(), evt.ID)

		assert.ErrorIs(t, err, domain.ErrEventNotFinished)
	})

	t.Run("already settled", func(t *testing.T) {
		svc, repo, _ := newTestService(t)
		evt := settleableEvent()
		settledAt := time.Now()
		evt.SettledAt = &settledAt

		repo.On("GetEvent", mock.Anything, evt.ID).Return(evt, nil)

		_, err := svc.Settle(context.Background(), evt.ID)

		assert.ErrorIs(t, err, domain.ErrEventAlreadySettled)
	})

	t.Run("winner not set", func(t *testing.T) {
		svc, repo, _ := newTestService(t)
		evt := settleableEvent()
		evt.WinnerOptionID = nil

		repo.On("GetEvent", mock.Anything, evt.ID).Return(evt, nil)

		_, err := svc.Settle(context.Background(), evt.ID)

		assert.ErrorIs(t, err, domain.ErrWinnerNotSet)
	})

	t.Run("unknown event", func(t *testing.T) {
		svc, repo, _ := newTestService(t)
		id := uuid.New()

		repo.On("GetEvent", mock.Anything, id).Return(nil, nil)

		_, err := svc.Settle(context.Background(), id)

		assert.ErrorIs(t, err, domain.ErrEventNotFound)
	})
}

func TestSettle_LosesStampRace(t *testing.T) {
	svc, repo, _ := newTestService(t)
	evt := settleableEvent()
	tx := new(MockTx)

	repo.On("GetEvent", mock.Anything, evt.ID).Return(evt, nil)
	repo.On("ListPendingRecords", mock.Anything, evt.ID, testChunkSize).Return([]domain.Record{}, nil)
	repo.On("BeginTx", mock.Anything).Return(tx, nil)
	tx.On("MarkEventSettled", mock.Anything, evt.ID, mock.Anything).Return(false, nil)
	tx.On("Rollback", mock.Anything).Return(nil).Maybe()

	_, err := svc.Settle(context.Background(), evt.ID)

	assert.ErrorIs(t, err, domain.ErrEventAlreadySettled)
	tx.AssertNotCalled(t, "Commit", mock.Anything)
}

func TestSettle_SkipsRecordsSettledElsewhere(t *testing.T) {
	svc, repo, bus := newTestService(t)
	evt := settleableEvent()
	tx := new(MockTx)

	rec := pendingRecord(evt.ID, 1, 400)

	repo.On("GetEvent", mock.Anything, evt.ID).Return(evt, nil)
	repo.On("ListPendingRecords", mock.Anything, evt.ID, testChunkSize).Return([]domain.Record{rec}, nil).Once()
	repo.On("ListPendingRecords", mock.Anything, evt.ID, testChunkSize).Return([]domain.Record{}, nil)
	repo.On("BeginTx", mock.Anything).Return(tx, nil)

	// The status guard did not match: a parallel run already paid this record
	tx.On("SettleRecord", mock.Anything, rec.ID, domain.RecordStatusWon, mock.Anything, mock.Anything).Return(false, nil)
	tx.On("MarkEventSettled", mock.Anything, evt.ID, mock.Anything).Return(true, nil)
	tx.On("Commit", mock.Anything).Return(nil)
	tx.On("Rollback", mock.Anything).Return(nil).Maybe()
	bus.On("Publish", mock.Anything, mock.Anything).Return(nil)

	summary, err := svc.Settle(context.Background(), evt.ID)

	require.NoError(t, err)
	assert.Zero(t, summary.WinnerCount)
	assert.Zero(t, summary.TotalPayout)
	tx.AssertNotCalled(t, "CreditBalance", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCancel_RefundsAllPendingStakes(t *testing.T) {
	svc, repo, bus := newTestService(t)
	evt := settleableEvent()
	evt.Status = domain.EventStatusActive
	evt.WinnerOptionID = nil
	tx := new(MockTx)

	recA := pendingRecord(evt.ID, 1, 300)
	recB := pendingRecord(evt.ID, 2, 700)

	repo.On("GetEvent", mock.Anything, evt.ID).Return(evt, nil)
	repo.On("ListPendingRecords", mock.Anything, evt.ID, testChunkSize).Return([]domain.Record{recA, recB}, nil).Once()
	repo.On("ListPendingRecords", mock.Anything, evt.ID, testChunkSize).Return([]domain.Record{}, nil)
	repo.On("BeginTx", mock.Anything).Return(tx, nil)

	tx.On("SettleRecord", mock.Anything, recA.ID, domain.RecordStatusRefunded, int64(0), mock.Anything).Return(true, nil)
	tx.On("SettleRecord", mock.Anything, recB.ID, domain.RecordStatusRefunded, int64(0), mock.Anything).Return(true, nil)
	tx.On("CreditBalance", mock.Anything, recA.UserID, int64(300), ledger.ReasonRefund).Return(nil)
	tx.On("CreditBalance", mock.Anything, recB.UserID, int64(700), ledger.ReasonRefund).Return(nil)
	tx.On("GetEventForUpdate", mock.Anything, evt.ID).Return(evt, nil)
	tx.On("UpdateEventStatus", mock.Anything, evt.ID, domain.EventStatusCancelled).Return(nil)
	tx.On("Commit", mock.Anything).Return(nil)
	tx.On("Rollback", mock.Anything).Return(nil).Maybe()
	bus.On("Publish", mock.Anything, mock.Anything).Return(nil)

	summary, err := svc.Cancel(context.Background(), evt.ID)

	require.NoError(t, err)
	assert.Equal(t, 2, summary.RefundCount)
	assert.Equal(t, int64(1000), summary.TotalRefunded)
	tx.AssertExpectations(t)
}

func TestCancel_PendingEventWithoutRecords(t *testing.T) {
	svc, repo, bus := newTestService(t)
	evt := settleableEvent()
	evt.Status = domain.EventStatusPending
	evt.WinnerOptionID = nil
	evt.TotalPool = 0
	tx := new(MockTx)

	repo.On("GetEvent", mock.Anything, evt.ID).Return(evt, nil)
	repo.On("ListPendingRecords", mock.Anything, evt.ID, testChunkSize).Return([]domain.Record{}, nil)
	repo.On("BeginTx", mock.Anything).Return(tx, nil)
	tx.On("GetEventForUpdate", mock.Anything, evt.ID).Return(evt, nil)
	tx.On("UpdateEventStatus", mock.Anything, evt.ID, domain.EventStatusCancelled).Return(nil)
	tx.On("Commit", mock.Anything).Return(nil)
	tx.On("Rollback", mock.Anything).Return(nil).Maybe()
	bus.On("Publish", mock.Anything, mock.Anything).Return(nil)

	summary, err := svc.Cancel(context.Background(), evt.ID)

	require.NoError(t, err)
	assert.Zero(t, summary.RefundCount)
	assert.Zero(t, summary.TotalRefunded)
}

func TestCancel_RejectsFinishedEvent(t *testing.T) {
	svc, repo, _ := newTestService(t)
	evt := settleableEvent()

	repo.On("GetEvent", mock.Anything, evt.ID).Return(evt, nil)

	_, err := svc.Cancel(context.Background(), evt.ID)

	assert.ErrorIs(t, err, domain.ErrEventNotCancellable)
	repo.AssertNotCalled(t, "ListPendingRecords", mock.Anything, mock.Anything, mock.Anything)
}

func TestResettleRecord(t *testing.T) {
	settledAt := time.Now().Add(-time.Hour)

	settledEvent := func() *domain.Event {
		evt := settleableEvent()
		evt.SettledAt = &settledAt
		return evt
	}

	t.Run("winning record paid from odds snapshot", func(t *testing.T) {
		svc, repo, bus := newTestService(t)
		evt := settledEvent()
		rec := pendingRecord(evt.ID, 1, 100)
		rec.OddsAtWager = 2.5
		tx := new(MockTx)

		repo.On("GetRecord", mock.Anything, rec.ID).Return(&rec, nil)
		repo.On("GetEvent", mock.Anything, evt.ID).Return(evt, nil)
		repo.On("BeginTx", mock.Anything).Return(tx, nil)
		tx.On("SettleRecord", mock.Anything, rec.ID, domain.RecordStatusWon, int64(250), mock.Anything).Return(true, nil)
		tx.On("CreditBalance", mock.Anything, rec.UserID, int64(250), ledger.ReasonPayout).Return(nil)
		tx.On("Commit", mock.Anything).Return(nil)
		tx.On("Rollback", mock.Anything).Return(nil).Maybe()
		bus.On("Publish", mock.Anything, mock.Anything).Return(nil)

		updated, err := svc.ResettleRecord(context.Background(), rec.ID)

		require.NoError(t, err)
		assert.Equal(t, domain.RecordStatusWon, updated.Status)
		assert.Equal(t, int64(250), updated.WinAmount)
		require.NotNil(t, updated.SettledAt)
	})

	t.Run("losing record gets nothing", func(t *testing.T) {
		svc, repo, bus := newTestService(t)
		evt := settledEvent()
		rec := pendingRecord(evt.ID, 2, 100)
		tx := new(MockTx)

		repo.On("GetRecord", mock.Anything, rec.ID).Return(&rec, nil)
		repo.On("GetEvent", mock.Anything, evt.ID).Return(evt, nil)
		repo.On("BeginTx", mock.Anything).Return(tx, nil)
		tx.On("SettleRecord", mock.Anything, rec.ID, domain.RecordStatusLost, int64(0), mock.Anything).Return(true, nil)
		tx.On("Commit", mock.Anything).Return(nil)
		tx.On("Rollback", mock.Anything).Return(nil).Maybe()
		bus.On("Publish", mock.Anything, mock.Anything).Return(nil)

		updated, err := svc.ResettleRecord(context.Background(), rec.ID)

		require.NoError(t, err)
		assert.Equal(t, domain.RecordStatusLost, updated.Status)
		tx.AssertNotCalled(t, "CreditBalance", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("winning poll vote carries no payout", func(t *testing.T) {
		svc, repo, bus := newTestService(t)
		evt := settledEvent()
		evt.Kind = domain.KindPoll
		rec := pendingRecord(evt.ID, 1, 0)
		tx := new(MockTx)

		repo.On("GetRecord", mock.Anything, rec.ID).Return(&rec, nil)
		repo.On("GetEvent", mock.Anything, evt.ID).Return(evt, nil)
		repo.On("BeginTx", mock.Anything).Return(tx, nil)
		tx.On("SettleRecord", mock.Anything, rec.ID, domain.RecordStatusWon, int64(0), mock.Anything).Return(true, nil)
		tx.On("Commit", mock.Anything).Return(nil)
		tx.On("Rollback", mock.Anything).Return(nil).Maybe()
		bus.On("Publish", mock.Anything, mock.Anything).Return(nil)

		updated, err := svc.ResettleRecord(context.Background(), rec.ID)

		require.NoError(t, err)
		assert.Equal(t, domain.RecordStatusWon, updated.Status)
		assert.Zero(t, updated.WinAmount)
	})

	t.Run("record not found", func(t *testing.T) {
		svc, repo, _ := newTestService(t)
		id := uuid.New()

		repo.On("GetRecord", mock.Anything, id).Return(nil, nil)

		_, err := svc.ResettleRecord(context.Background(), id)

		assert.ErrorIs(t, err, domain.ErrRecordNotFound)
	})

	t.Run("record already settled", func(t *testing.T) {
		svc, repo, _ := newTestService(t)
		rec := pendingRecord(uuid.New(), 1, 100)
		rec.Status = domain.RecordStatusWon

		repo.On("GetRecord", mock.Anything, rec.ID).Return(&rec, nil)

		_, err := svc.ResettleRecord(context.Background(), rec.ID)

		assert.ErrorIs(t, err, domain.ErrRecordNotPending)
	})

	t.Run("event not yet settled", func(t *testing.T) {
		svc, repo, _ := newTestService(t)
		evt := settleableEvent()
		rec := pendingRecord(evt.ID, 1, 100)

		repo.On("GetRecord", mock.Anything, rec.ID).Return(&rec, nil)
		repo.On("GetEvent", mock.Anything, evt.ID).Return(evt, nil)

		_, err := svc.ResettleRecord(context.Background(), rec.ID)

		assert.ErrorIs(t, err, domain.ErrEventNotSettled)
	})

	t.Run("guard lost to concurrent resettle", func(t *testing.T) {
		svc, repo, _ := newTestService(t)
		evt := settledEvent()
		rec := pendingRecord(evt.ID, 2, 100)
		tx := new(MockTx)

		repo.On("GetRecord", mock.Anything, rec.ID).Return(&rec, nil)
		repo.On("GetEvent", mock.Anything, evt.ID).Return(evt, nil)
		repo.On("BeginTx", mock.Anything).Return(tx, nil)
		tx.On("SettleRecord", mock.Anything, rec.ID, domain.RecordStatusLost, int64(0), mock.Anything).Return(false, nil)
		tx.On("Rollback", mock.Anything).Return(nil).Maybe()

		_, err := svc.ResettleRecord(context.Background(), rec.ID)

		assert.ErrorIs(t, err, domain.ErrRecordNotPending)
		tx.AssertNotCalled(t, "Commit", mock.Anything)
	})
}
