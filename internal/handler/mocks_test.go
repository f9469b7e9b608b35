package handler

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/forumkit/wagerhall/internal/domain"
	"github.com/forumkit/wagerhall/internal/repository"
	"github.com/forumkit/wagerhall/internal/wagering"
)

// MockWageringService is a mock implementation of wagering.Service
type MockWageringService struct {
	mock.Mock
}

func (m *MockWageringService) CreateEvent(ctx context.Context, input wagering.CreateEventInput) (*domain.Event, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Event), args.Error(1)
}

func (m *MockWageringService) GetEvent(ctx context.Context, id uuid.UUID) (*domain.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Event), args.Error(1)
}

func (m *MockWageringService) ListEvents(ctx context.Context, filter repository.EventFilter) ([]domain.Event, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Event), args.Error(1)
}

func (m *MockWageringService) DeleteEvent(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockWageringService) ActivateEvent(ctx context.Context, id uuid.UUID) (*domain.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Event), args.Error(1)
}

func (m *MockWageringService) FinishEvent(ctx context.Context, id uuid.UUID) (*domain.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Event), args.Error(1)
}

func (m *MockWageringService) SetWinner(ctx context.Context, eventID uuid.UUID, optionID int) (*domain.Event, error) {
	args := m.Called(ctx, eventID, optionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Event), args.Error(1)
}

func (m *MockWageringService) PlaceWager(ctx context.Context, eventID uuid.UUID, userID string, optionID int, amount int64) (*wagering.PlaceWagerResult, error) {
	args := m.Called(ctx, eventID, userID, optionID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wagering.PlaceWagerResult), args.Error(1)
}

// MockSettlementService is a mock implementation of settlement.Service
type MockSettlementService struct {
	mock.Mock
}

func (m *MockSettlementService) Settle(ctx context.Context, eventID uuid.UUID) (*domain.SettlementSummary, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SettlementSummary), args.Error(1)
}

func (m *MockSettlementService) Cancel(ctx context.Context, eventID uuid.UUID) (*domain.CancellationSummary, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CancellationSummary), args.Error(1)
}

func (m *MockSettlementService) ResettleRecord(ctx context.Context, recordID uuid.UUID) (*domain.Record, error) {
	args := m.Called(ctx, recordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Record), args.Error(1)
}

// MockLedgerService is a mock implementation of ledger.Service
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) Balance(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedgerService) Credit(ctx context.Context, userID string, amount int64, reason string) error {
	args := m.Called(ctx, userID, amount, reason)
	return args.Error(0)
}

func (m *MockLedgerService) Debit(ctx context.Context, userID string, amount int64, reason string) error {
	args := m.Called(ctx, userID, amount, reason)
	return args.Error(0)
}
