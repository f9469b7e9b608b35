package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/forumkit/wagerhall/internal/domain"
	"github.com/forumkit/wagerhall/internal/logger"
	"github.com/forumkit/wagerhall/internal/repository"
)

// Service defines the interface for point-balance operations
type Service interface {
	Balance(ctx context.Context, userID string) (int64, error)
	Credit(ctx context.Context, userID string, amount int64, reason string) error
	Debit(ctx context.Context, userID string, amount int64, reason string) error
}

type service struct {
	repo repository.Ledger
}

// NewService creates a new ledger service
func NewService(repo repository.Ledger) Service {
	return &service{repo: repo}
}

// Balance returns the user's current point balance
func (s *service) Balance(ctx context.Context, userID string) (int64, error) {
	balance, err := s.repo.GetBalance(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ErrContextFailedToGetBalance, err)
	}
	return balance, nil
}

// Credit adds points to the user's balance
func (s *service) Credit(ctx context.Context, userID string, amount int64, reason string) error {
	log := logger.FromContext(ctx)
	log.Info(LogMsgCreditCalled, "userID", userID, "amount", amount, "reason", reason)

	if amount <= 0 {
		return domain.ErrAmountNotPositive
	}
	if err := s.repo.Credit(ctx, userID, amount, reason); err != nil {
		return fmt.Errorf("%s: %w", ErrContextFailedToCredit, err)
	}
	return nil
}

// Debit removes points from the user's balance. The repository guarantees
// the balance never goes negative.
func (s *service) Debit(ctx context.Context, userID string, amount int64, reason string) error {
	log := logger.FromContext(ctx)
	log.Info(LogMsgDebitCalled, "userID", userID, "amount", amount, "reason", reason)

	if amount <= 0 {
		return domain.ErrAmountNotPositive
	}
	if err := s.repo.Debit(ctx, userID, amount, reason); err != nil {
		if errors.Is(err, domain.ErrInsufficientBalance) {
			return err
		}
		return fmt.Errorf("%s: %w", ErrContextFailedToDebit, err)
	}
	return nil
}
