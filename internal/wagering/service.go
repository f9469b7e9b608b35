package wagering

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/forumkit/wagerhall/internal/domain"
	"github.com/forumkit/wagerhall/internal/event"
	"github.com/forumkit/wagerhall/internal/ledger"
	"github.com/forumkit/wagerhall/internal/logger"
	"github.com/forumkit/wagerhall/internal/metrics"
	"github.com/forumkit/wagerhall/internal/odds"
	"github.com/forumkit/wagerhall/internal/repository"
)

// Service defines the interface for wagering operations
type Service interface {
	CreateEvent(ctx context.Context, input CreateEventInput) (*domain.Event, error)
	GetEvent(ctx context.Context, id uuid.UUID) (*domain.Event, error)
	ListEvents(ctx context.Context, filter repository.EventFilter) ([]domain.Event, error)
	DeleteEvent(ctx context.Context, id uuid.UUID) error
	ActivateEvent(ctx context.Context, id uuid.UUID) (*domain.Event, error)
	FinishEvent(ctx context.Context, id uuid.UUID) (*domain.Event, error)
	SetWinner(ctx context.Context, eventID uuid.UUID, optionID int) (*domain.Event, error)
	PlaceWager(ctx context.Context, eventID uuid.UUID, userID string, optionID int, amount int64) (*PlaceWagerResult, error)
}

// CreateEventInput carries the fields needed to create an event
type CreateEventInput struct {
	CreatorID      string
	Title          string
	Kind           domain.EventKind
	Category       string
	StartTime      time.Time
	EndTime        time.Time
	MinWagerAmount int64
	Options        []string
}

// PlaceWagerResult is the outcome of an accepted wager
type PlaceWagerResult struct {
	Record     *domain.Record `json:"record"`
	Event      *domain.Event  `json:"event"`
	NewBalance int64          `json:"new_balance"`
}

type service struct {
	repo       repository.Wagering
	ledgerRepo repository.Ledger
	eventBus   event.Bus
	calc       odds.Calculator
	cache      *listCache
}

// NewService creates a new wagering service
func NewService(repo repository.Wagering, ledgerRepo repository.Ledger, eventBus event.Bus, calc odds.Calculator) Service {
	return &service{
		repo:       repo,
		ledgerRepo: ledgerRepo,
		eventBus:   eventBus,
		calc:       calc,
		cache:      newListCache(ListCacheSize, ListCacheTTL),
	}
}

// CreateEvent validates and persists a new Pending event
func (s *service) CreateEvent(ctx context.Context, input CreateEventInput) (*domain.Event, error) {
	log := logger.FromContext(ctx)
	log.Info(LogMsgCreateEventCalled, "creatorID", input.CreatorID, "title", input.Title, "kind", input.Kind)

	if err := validateCreateInput(&input); err != nil {
		return nil, err
	}

	newEvent := &domain.Event{
		ID:             uuid.New(),
		CreatorID:      input.CreatorID,
		Title:          strings.TrimSpace(input.Title),
		Kind:           input.Kind,
		Category:       input.Category,
		Status:         domain.EventStatusPending,
		StartTime:      input.StartTime,
		EndTime:        input.EndTime,
		MinWagerAmount: input.MinWagerAmount,
		CreatedAt:      time.Now().UTC(),
	}
	for i, name := range input.Options {
		newEvent.Options = append(newEvent.Options, domain.Option{
			Name:        strings.TrimSpace(name),
			SortOrder:   i,
			CurrentOdds: odds.DefaultOdds,
		})
	}

	if err := s.repo.CreateEvent(ctx, newEvent); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToCreateEvent, err)
	}

	s.cache.purge()
	log.Info(LogMsgEventCreated, "eventID", newEvent.ID)
	return newEvent, nil
}

func validateCreateInput(input *CreateEventInput) error {
	if _, err := uuid.Parse(input.CreatorID); err != nil {
		return fmt.Errorf("%w: invalid creator id", domain.ErrInvalidInput)
	}

	title := strings.TrimSpace(input.Title)
	if title == "" || len(title) > MaxTitleLength {
		return fmt.Errorf("%w: title must be 1-%d characters", domain.ErrInvalidInput, MaxTitleLength)
	}

	if input.Kind != domain.KindWager && input.Kind != domain.KindPoll {
		return fmt.Errorf("%w: unknown event kind %q", domain.ErrInvalidInput, input.Kind)
	}

	if len(input.Options) < MinOptionsPerEvent || len(input.Options) > MaxOptionsPerEvent {
		return domain.ErrInvalidOptionCount
	}
	seen := make(map[string]bool, len(input.Options))
	for _, name := range input.Options {
		trimmed := strings.TrimSpace(name)
		if trimmed == "" {
			return fmt.Errorf("%w: option names must not be empty", domain.ErrInvalidInput)
		}
		if seen[trimmed] {
			return fmt.Errorf("%w: duplicate option name %q", domain.ErrInvalidInput, trimmed)
		}
		seen[trimmed] = true
	}

	if !input.EndTime.After(input.StartTime) {
		return fmt.Errorf("%w: end time must be after start time", domain.ErrInvalidInput)
	}

	if input.MinWagerAmount < 0 {
		return fmt.Errorf("%w: minimum wager amount must not be negative", domain.ErrInvalidInput)
	}
	// Polls carry no stakes
	if input.Kind == domain.KindPoll {
		input.MinWagerAmount = 0
	}

	return nil
}

// GetEvent retrieves an event with its options and current odds
func (s *service) GetEvent(ctx context.Context, id uuid.UUID) (*domain.Event, error) {
	evt, err := s.repo.GetEvent(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToGetEvent, err)
	}
	if evt == nil {
		return nil, domain.ErrEventNotFound
	}
	return evt, nil
}

// ListEvents retrieves events matching the filter, served from the listing
// cache when possible
func (s *service) ListEvents(ctx context.Context, filter repository.EventFilter) ([]domain.Event, error) {
	if events, ok := s.cache.get(filter); ok {
		return events, nil
	}

	events, err := s.repo.ListEvents(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToListEvents, err)
	}

	s.cache.add(filter, events)
	return events, nil
}

// DeleteEvent destroys an event. Pending events can always be deleted;
// Finished events only while no records exist.
func (s *service) DeleteEvent(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContext(ctx)
	log.Info(LogMsgDeleteEventCalled, "eventID", id)

	evt, err := s.GetEvent(ctx, id)
	if err != nil {
		return err
	}

	count, err := s.repo.CountRecords(ctx, id)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrContextFailedToCountRecords, err)
	}

	if !evt.Deletable(count) {
		if count > 0 {
			return domain.ErrEventHasRecords
		}
		return fmt.Errorf("%w: only pending events or finished events without records can be deleted", domain.ErrInvalidInput)
	}

	if err := s.repo.DeleteEvent(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", ErrContextFailedToDeleteEvent, err)
	}

	s.cache.purge()
	return nil
}

// ActivateEvent opens an event for wagers
func (s *service) ActivateEvent(ctx context.Context, id uuid.UUID) (*domain.Event, error) {
	log := logger.FromContext(ctx)
	log.Info(LogMsgActivateEventCalled, "eventID", id)

	evt, err := s.transition(ctx, id, func(e *domain.Event) error {
		return e.Activate(time.Now())
	})
	if err != nil {
		return nil, err
	}

	s.cache.purge()
	s.publish(ctx, event.NewLifecycleEvent(event.EventActivated, evt.ID, evt.Status))
	return evt, nil
}

// FinishEvent closes an event to further wagers
func (s *service) FinishEvent(ctx context.Context, id uuid.UUID) (*domain.Event, error) {
	log := logger.FromContext(ctx)
	log.Info(LogMsgFinishEventCalled, "eventID", id)

	evt, err := s.transition(ctx, id, func(e *domain.Event) error {
		return e.Finish()
	})
	if err != nil {
		return nil, err
	}

	s.cache.purge()
	s.publish(ctx, event.NewLifecycleEvent(event.EventFinished, evt.ID, evt.Status))
	return evt, nil
}

// transition applies a lifecycle change under a row lock so concurrent
// transitions on the same event serialize
func (s *service) transition(ctx context.Context, id uuid.UUID, apply func(*domain.Event) error) (*domain.Event, error) {
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToBeginTx, err)
	}
	defer repository.SafeRollback(ctx, tx)

	evt, err := tx.GetEventForUpdate(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToGetEvent, err)
	}
	if evt == nil {
		return nil, domain.ErrEventNotFound
	}

	if err := apply(evt); err != nil {
		return nil, err
	}

	if err := tx.UpdateEventStatus(ctx, id, evt.Status); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToUpdateStatus, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToCommitTx, err)
	}
	return evt, nil
}

// SetWinner records the winning option of a Finished, unsettled event
func (s *service) SetWinner(ctx context.Context, eventID uuid.UUID, optionID int) (*domain.Event, error) {
	log := logger.FromContext(ctx)
	log.Info(LogMsgSetWinnerCalled, "eventID", eventID, "optionID", optionID)

	evt, err := s.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	if err := evt.CanSetWinner(); err != nil {
		return nil, err
	}

	opt := evt.OptionByID(optionID)
	if opt == nil {
		return nil, domain.ErrOptionNotFound
	}

	if err := s.repo.SetWinner(ctx, eventID, optionID); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToSetWinner, err)
	}

	evt.WinnerOptionID = &optionID
	opt.IsWinner = true

	s.cache.purge()
	s.publish(ctx, event.NewWinnerSetEvent(eventID, optionID))
	return evt, nil
}

// PlaceWager atomically accepts a wager: the stake debit, the record insert,
// the aggregate updates and the odds refresh all commit or none do.
func (s *service) PlaceWager(ctx context.Context, eventID uuid.UUID, userID string, optionID int, amount int64) (*PlaceWagerResult, error) {
	log := logger.FromContext(ctx)
	log.Info(LogMsgPlaceWagerCalled, "eventID", eventID, "userID", userID, "optionID", optionID, "amount", amount)

	evt, err := s.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	if err := s.checkPlacement(ctx, evt, userID, optionID, amount); err != nil {
		return nil, err
	}
	if evt.Kind == domain.KindPoll {
		amount = 0
	}

	record, updated, err := s.placeWagerTx(ctx, eventID, userID, optionID, amount)
	if err != nil {
		return nil, err
	}

	var balance int64
	if updated.Kind == domain.KindWager {
		balance, err = s.ledgerRepo.GetBalance(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrContextFailedToGetBalance, err)
		}
	}

	metrics.WagersPlaced.WithLabelValues(string(updated.Kind)).Inc()
	metrics.PointsStaked.Add(float64(record.WagerAmount))

	s.cache.purge()
	s.publish(ctx, event.NewWagerPlacedEvent(record, updated.TotalPool))

	log.Info(LogMsgWagerAccepted, "recordID", record.ID, "odds", record.OddsAtWager, "totalPool", updated.TotalPool)

	return &PlaceWagerResult{
		Record:     record,
		Event:      updated,
		NewBalance: balance,
	}, nil
}

// checkPlacement runs the placement preconditions against an unlocked
// snapshot. The transaction re-verifies the ones that can race.
func (s *service) checkPlacement(ctx context.Context, evt *domain.Event, userID string, optionID int, amount int64) error {
	if _, err := uuid.Parse(userID); err != nil {
		return fmt.Errorf("%w: invalid user id", domain.ErrInvalidInput)
	}

	if !evt.Bettable(time.Now()) {
		return domain.ErrEventNotBettable
	}

	if evt.OptionByID(optionID) == nil {
		return domain.ErrOptionNotFound
	}

	existing, err := s.repo.GetRecordByUser(ctx, evt.ID, userID)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrContextFailedToGetRecord, err)
	}
	if existing != nil {
		return domain.ErrAlreadyParticipated
	}

	if evt.Kind == domain.KindWager {
		if amount <= 0 {
			return domain.ErrAmountNotPositive
		}
		if amount < evt.MinWagerAmount {
			return domain.ErrAmountBelowMinimum
		}
		balance, err := s.ledgerRepo.GetBalance(ctx, userID)
		if err != nil {
			return fmt.Errorf("%s: %w", ErrContextFailedToGetBalance, err)
		}
		if balance < amount {
			return domain.ErrInsufficientBalance
		}
	}

	return nil
}

func (s *service) placeWagerTx(ctx context.Context, eventID uuid.UUID, userID string, optionID int, amount int64) (*domain.Record, *domain.Event, error) {
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", ErrContextFailedToBeginTx, err)
	}
	defer repository.SafeRollback(ctx, tx)

	evt, err := tx.GetEventForUpdate(ctx, eventID)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", ErrContextFailedToGetEvent, err)
	}
	if evt == nil {
		return nil, nil, domain.ErrEventNotFound
	}

	// Re-verify under the lock: the event may have closed since the
	// unlocked check
	if !evt.Bettable(time.Now()) {
		return nil, nil, domain.ErrEventNotBettable
	}
	opt := evt.OptionByID(optionID)
	if opt == nil {
		return nil, nil, domain.ErrOptionNotFound
	}

	record := &domain.Record{
		ID:          uuid.New(),
		UserID:      userID,
		EventID:     eventID,
		OptionID:    optionID,
		WagerAmount: amount,
		OddsAtWager: opt.CurrentOdds,
		Status:      domain.RecordStatusPending,
		CreatedAt:   time.Now().UTC(),
	}

	// The UNIQUE(user_id, event_id) constraint is the race-safe duplicate
	// check; the earlier unlocked check just gives a friendlier fast path
	if err := tx.InsertRecord(ctx, record); err != nil {
		if errors.Is(err, domain.ErrAlreadyParticipated) {
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("%s: %w", ErrContextFailedToInsertRecord, err)
	}

	if evt.Kind == domain.KindWager {
		if err := tx.DebitBalance(ctx, userID, amount, ledger.ReasonWager); err != nil {
			if errors.Is(err, domain.ErrInsufficientBalance) {
				return nil, nil, err
			}
			return nil, nil, fmt.Errorf("%s: %w", ErrContextFailedToDebit, err)
		}
		if err := tx.ApplyWager(ctx, eventID, optionID, amount); err != nil {
			return nil, nil, fmt.Errorf("%s: %w", ErrContextFailedToApplyWager, err)
		}
		opt.TotalAmount += amount
		evt.TotalPool += amount
	} else {
		if err := tx.ApplyVote(ctx, eventID, optionID); err != nil {
			return nil, nil, fmt.Errorf("%s: %w", ErrContextFailedToApplyWager, err)
		}
	}
	opt.TotalVotes++
	evt.TotalWagerCount++
	evt.TotalParticipants++

	// Every accepted wager moves the whole odds board
	s.calc.Recompute(evt)
	oddsByOption := make(map[int]float64, len(evt.Options))
	for i := range evt.Options {
		oddsByOption[evt.Options[i].ID] = evt.Options[i].CurrentOdds
	}
	if err := tx.UpdateOdds(ctx, eventID, oddsByOption); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", ErrContextFailedToUpdateOdds, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", ErrContextFailedToCommitTx, err)
	}

	return record, evt, nil
}

func (s *service) publish(ctx context.Context, evt event.Event) {
	if s.eventBus == nil {
		return
	}
	if err := s.eventBus.Publish(ctx, evt); err != nil {
		logger.FromContext(ctx).Warn(LogMsgFailedToPublishEvent, "event_type", evt.Type, "error", err)
	}
}
