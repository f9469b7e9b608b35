package wagering

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/forumkit/wagerhall/internal/domain"
	"github.com/forumkit/wagerhall/internal/event"
	"github.com/forumkit/wagerhall/internal/repository"
)

// MockRepository is a mock implementation of repository.Wagering
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateEvent(ctx context.Context, evt *domain.Event) error {
	args := m.Called(ctx, evt)
	return args.Error(0)
}

func (m *MockRepository) GetEvent(ctx context.Context, id uuid.UUID) (*domain.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Event), args.Error(1)
}

func (m *MockRepository) ListEvents(ctx context.Context, filter repository.EventFilter) ([]domain.Event, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Event), args.Error(1)
}

func (m *MockRepository) DeleteEvent(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRepository) SetWinner(ctx context.Context, eventID uuid.UUID, optionID int) error {
	args := m.Called(ctx, eventID, optionID)
	return args.Error(0)
}

func (m *MockRepository) GetRecord(ctx context.Context, id uuid.UUID) (*domain.Record, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Record), args.Error(1)
}

func (m *MockRepository) GetRecordByUser(ctx context.Context, eventID uuid.UUID, userID string) (*domain.Record, error) {
	args := m.Called(ctx, eventID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Record), args.Error(1)
}

func (m *MockRepository) CountRecords(ctx context.Context, eventID uuid.UUID) (int, error) {
	args := m.Called(ctx, eventID)
	return args.Int(0), args.Error(1)
}

func (m *MockRepository) ListPendingRecords(ctx context.Context, eventID uuid.UUID, limit int) ([]domain.Record, error) {
	args := m.Called(ctx, eventID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Record), args.Error(1)
}

func (m *MockRepository) BeginTx(ctx context.Context) (repository.WageringTx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(repository.WageringTx), args.Error(1)
}

// MockTx is a mock implementation of repository.WageringTx
type MockTx struct {
	mock.Mock
}

func (m *MockTx) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockTx) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockTx) GetEventForUpdate(ctx context.Context, id uuid.UUID) (*domain.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Event), args.Error(1)
}

func (m *MockTx) InsertRecord(ctx context.Context, record *domain.Record) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockTx) ApplyWager(ctx context.Context, eventID uuid.UUID, optionID int, amount int64) error {
	args := m.Called(ctx, eventID, optionID, amount)
	return args.Error(0)
}

func (m *MockTx) ApplyVote(ctx context.Context, eventID uuid.UUID, optionID int) error {
	args := m.Called(ctx, eventID, optionID)
	return args.Error(0)
}

func (m *MockTx) UpdateOdds(ctx context.Context, eventID uuid.UUID, oddsByOption map[int]float64) error {
	args := m.Called(ctx, eventID, oddsByOption)
	return args.Error(0)
}

func (m *MockTx) SettleRecord(ctx context.Context, recordID uuid.UUID, status domain.RecordStatus, winAmount int64, settledAt time.Time) (bool, error) {
	args := m.Called(ctx, recordID, status, winAmount, settledAt)
	return args.Bool(0), args.Error(1)
}

func (m *MockTx) MarkEventSettled(ctx context.Context, eventID uuid.UUID, settledAt time.Time) (bool, error) {
	args := m.Called(ctx, eventID, settledAt)
	return args.Bool(0), args.Error(1)
}

func (m *MockTx) UpdateEventStatus(ctx context.Context, id uuid.UUID, status domain.EventStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockTx) DebitBalance(ctx context.Context, userID string, amount int64, reason string) error {
	args := m.Called(ctx, userID, amount, reason)
	return args.Error(0)
}

func (m *MockTx) CreditBalance(ctx context.Context, userID string, amount int64, reason string) error {
	args := m.Called(ctx, userID, amount, reason)
	return args.Error(0)
}

// MockLedger is a mock implementation of repository.Ledger
type MockLedger struct {
	mock.Mock
}

func (m *MockLedger) GetBalance(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedger) Credit(ctx context.Context, userID string, amount int64, reason string) error {
	args := m.Called(ctx, userID, amount, reason)
	return args.Error(0)
}

func (m *MockLedger) Debit(ctx context.Context, userID string, amount int64, reason string) error {
	args := m.Called(ctx, userID, amount, reason)
	return args.Error(0)
}

// MockBus is a mock implementation of event.Bus
type MockBus struct {
	mock.Mock
}

func (m *MockBus) Publish(ctx context.Context, evt event.Event) error {
	args := m.Called(ctx, evt)
	return args.Error(0)
}

func (m *MockBus) Subscribe(eventType event.Type, handler event.Handler) {
	m.Called(eventType, handler)
}
