package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/forumkit/wagerhall/internal/domain"
	"github.com/forumkit/wagerhall/internal/logger"
	"github.com/forumkit/wagerhall/internal/repository"
)

const eventColumns = `event_id, creator_id, title, kind, category, status,
	start_time, end_time, min_wager_amount, total_pool, total_wager_count,
	total_participants, winner_option_id, settled_at, created_at`

const optionColumns = `option_id, event_id, option_name, sort_order,
	total_amount, total_votes, current_odds, is_winner`

const recordColumns = `record_id, user_id, event_id, option_id, wager_amount,
	odds_at_wager, status, win_amount, settled_at, created_at`

// WageringRepository implements the wagering repository for PostgreSQL
type WageringRepository struct {
	db *pgxpool.Pool
}

// NewWageringRepository creates a new WageringRepository
func NewWageringRepository(db *pgxpool.Pool) *WageringRepository {
	return &WageringRepository{db: db}
}

// CreateEvent inserts a new event with its options in one transaction
func (r *WageringRepository) CreateEvent(ctx context.Context, event *domain.Event) error {
	creatorID, err := uuid.Parse(event.CreatorID)
	if err != nil {
		return fmt.Errorf("invalid creator id: %w", err)
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin tx for event create: %w", err)
	}
	defer rollbackQuietly(ctx, tx)

	query := `
		INSERT INTO wager_events (event_id, creator_id, title, kind, category, status,
			start_time, end_time, min_wager_amount, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err = tx.Exec(ctx, query,
		event.ID, creatorID, event.Title, string(event.Kind), event.Category,
		string(event.Status), event.StartTime, event.EndTime, event.MinWagerAmount,
		event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}

	optionQuery := `
		INSERT INTO wager_options (event_id, option_name, sort_order, current_odds)
		VALUES ($1, $2, $3, $4)
		RETURNING option_id
	`
	for i := range event.Options {
		opt := &event.Options[i]
		opt.EventID = event.ID
		err := tx.QueryRow(ctx, optionQuery,
			event.ID, opt.Name, opt.SortOrder, opt.CurrentOdds,
		).Scan(&opt.ID)
		if err != nil {
			if pgErr, ok := err.(*pgconn.PgError); ok && pgErr.Code == PgErrCodeUniqueViolation {
				return fmt.Errorf("%w: duplicate option name %q", domain.ErrInvalidInput, opt.Name)
			}
			return fmt.Errorf("failed to insert option: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// GetEvent retrieves an event by ID, including its options. Returns nil
// when the event does not exist.
func (r *WageringRepository) GetEvent(ctx context.Context, id uuid.UUID) (*domain.Event, error) {
	return getEvent(ctx, r.db, id, false)
}

// ListEvents retrieves events matching the filter, newest first, with
// options attached
func (r *WageringRepository) ListEvents(ctx context.Context, filter repository.EventFilter) ([]domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM wager_events WHERE 1=1`
	args := []interface{}{}

	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.Kind != nil {
		args = append(args, string(*filter.Kind))
		query += fmt.Sprintf(" AND kind = $%d", len(args))
	}
	if filter.Category != nil {
		args = append(args, *filter.Category)
		query += fmt.Sprintf(" AND category = $%d", len(args))
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []domain.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *event)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	for i := range events {
		options, err := getOptions(ctx, r.db, events[i].ID, false)
		if err != nil {
			return nil, err
		}
		events[i].Options = options
	}

	return events, nil
}

// DeleteEvent removes an event; options and records cascade
func (r *WageringRepository) DeleteEvent(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM wager_events WHERE event_id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}

// SetWinner records the winning option, flipping exactly one is_winner flag
// and clearing any prior flag, in one transaction
func (r *WageringRepository) SetWinner(ctx context.Context, eventID uuid.UUID, optionID int) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin tx for set winner: %w", err)
	}
	defer rollbackQuietly(ctx, tx)

	if _, err := tx.Exec(ctx,
		`UPDATE wager_options SET is_winner = FALSE WHERE event_id = $1`, eventID); err != nil {
		return fmt.Errorf("failed to clear winner flags: %w", err)
	}

	tag, err := tx.Exec(ctx,
		`UPDATE wager_options SET is_winner = TRUE WHERE option_id = $1 AND event_id = $2`,
		optionID, eventID)
	if err != nil {
		return fmt.Errorf("failed to set winner flag: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrOptionNotFound
	}

	if _, err := tx.Exec(ctx,
		`UPDATE wager_events SET winner_option_id = $1 WHERE event_id = $2`,
		optionID, eventID); err != nil {
		return fmt.Errorf("failed to set winner option id: %w", err)
	}

	return tx.Commit(ctx)
}

// GetRecord retrieves a record by ID. Returns nil when not found.
func (r *WageringRepository) GetRecord(ctx context.Context, id uuid.UUID) (*domain.Record, error) {
	query := `SELECT ` + recordColumns + ` FROM wager_records WHERE record_id = $1`
	record, err := scanRecordRow(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get record: %w", err)
	}
	return record, nil
}

// GetRecordByUser retrieves the user's record for an event. Returns nil
// when the user has not participated.
func (r *WageringRepository) GetRecordByUser(ctx context.Context, eventID uuid.UUID, userID string) (*domain.Record, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id: %w", err)
	}

	query := `SELECT ` + recordColumns + ` FROM wager_records WHERE event_id = $1 AND user_id = $2`
	record, err := scanRecordRow(r.db.QueryRow(ctx, query, eventID, uid))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get record by user: %w", err)
	}
	return record, nil
}

// CountRecords counts all records of an event
func (r *WageringRepository) CountRecords(ctx context.Context, eventID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM wager_records WHERE event_id = $1`, eventID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count records: %w", err)
	}
	return count, nil
}

// ListPendingRecords returns up to limit Pending records, oldest first
func (r *WageringRepository) ListPendingRecords(ctx context.Context, eventID uuid.UUID, limit int) ([]domain.Record, error) {
	query := `
		SELECT ` + recordColumns + `
		FROM wager_records
		WHERE event_id = $1 AND status = $2
		ORDER BY created_at, record_id
		LIMIT $3
	`
	rows, err := r.db.Query(ctx, query, eventID, string(domain.RecordStatusPending), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending records: %w", err)
	}
	defer rows.Close()

	var records []domain.Record
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *record)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return records, nil
}

// BeginTx starts a transaction and returns a WageringTx
func (r *WageringRepository) BeginTx(ctx context.Context) (repository.WageringTx, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin wagering transaction: %w", err)
	}
	return &wageringTx{tx: tx}, nil
}

// wageringTx implements repository.WageringTx
type wageringTx struct {
	tx pgx.Tx
}

// Commit commits the transaction
func (t *wageringTx) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

// Rollback rolls back the transaction
func (t *wageringTx) Rollback(ctx context.Context) error {
	return t.tx.Rollback(ctx)
}

// GetEventForUpdate loads the event and option rows with FOR UPDATE locks so
// concurrent wagers on the same event serialize on the aggregates
func (t *wageringTx) GetEventForUpdate(ctx context.Context, id uuid.UUID) (*domain.Event, error) {
	return getEvent(ctx, t.tx, id, true)
}

// InsertRecord inserts a wager record; a duplicate (user, event) pair maps
// to the conflict error
func (t *wageringTx) InsertRecord(ctx context.Context, record *domain.Record) error {
	uid, err := uuid.Parse(record.UserID)
	if err != nil {
		return fmt.Errorf("invalid user id: %w", err)
	}

	query := `
		INSERT INTO wager_records (record_id, user_id, event_id, option_id,
			wager_amount, odds_at_wager, status, win_amount, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err = t.tx.Exec(ctx, query,
		record.ID, uid, record.EventID, record.OptionID, record.WagerAmount,
		record.OddsAtWager, string(record.Status), record.WinAmount, record.CreatedAt,
	)
	if err != nil {
		if pgErr, ok := err.(*pgconn.PgError); ok && pgErr.Code == PgErrCodeUniqueViolation {
			return domain.ErrAlreadyParticipated
		}
		return fmt.Errorf("failed to insert record: %w", err)
	}
	return nil
}

// ApplyWager increments staked aggregates for a Wager-kind placement
func (t *wageringTx) ApplyWager(ctx context.Context, eventID uuid.UUID, optionID int, amount int64) error {
	tag, err := t.tx.Exec(ctx, `
		UPDATE wager_options
		SET total_amount = total_amount + $1, total_votes = total_votes + 1
		WHERE option_id = $2 AND event_id = $3
	`, amount, optionID, eventID)
	if err != nil {
		return fmt.Errorf("failed to update option aggregates: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrOptionNotFound
	}

	_, err = t.tx.Exec(ctx, `
		UPDATE wager_events
		SET total_pool = total_pool + $1,
		    total_wager_count = total_wager_count + 1,
		    total_participants = total_participants + 1
		WHERE event_id = $2
	`, amount, eventID)
	if err != nil {
		return fmt.Errorf("failed to update event aggregates: %w", err)
	}
	return nil
}

// ApplyVote increments aggregates for a Poll-kind placement: votes and
// wager count only, no pool change
func (t *wageringTx) ApplyVote(ctx context.Context, eventID uuid.UUID, optionID int) error {
	tag, err := t.tx.Exec(ctx, `
		UPDATE wager_options
		SET total_votes = total_votes + 1
		WHERE option_id = $1 AND event_id = $2
	`, optionID, eventID)
	if err != nil {
		return fmt.Errorf("failed to update option votes: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrOptionNotFound
	}

	_, err = t.tx.Exec(ctx, `
		UPDATE wager_events
		SET total_wager_count = total_wager_count + 1,
		    total_participants = total_participants + 1
		WHERE event_id = $1
	`, eventID)
	if err != nil {
		return fmt.Errorf("failed to update event vote count: %w", err)
	}
	return nil
}

// UpdateOdds persists recomputed odds per option
func (t *wageringTx) UpdateOdds(ctx context.Context, eventID uuid.UUID, oddsByOption map[int]float64) error {
	for optionID, odds := range oddsByOption {
		_, err := t.tx.Exec(ctx, `
			UPDATE wager_options SET current_odds = $1
			WHERE option_id = $2 AND event_id = $3
		`, odds, optionID, eventID)
		if err != nil {
			return fmt.Errorf("failed to update odds for option %d: %w", optionID, err)
		}
	}
	return nil
}

// SettleRecord transitions a Pending record to a terminal status. The
// status guard makes re-runs after partial failures no-ops.
func (t *wageringTx) SettleRecord(ctx context.Context, recordID uuid.UUID, status domain.RecordStatus, winAmount int64, settledAt time.Time) (bool, error) {
	tag, err := t.tx.Exec(ctx, `
		UPDATE wager_records
		SET status = $1, win_amount = $2, settled_at = $3
		WHERE record_id = $4 AND status = $5
	`, string(status), winAmount, settledAt, recordID, string(domain.RecordStatusPending))
	if err != nil {
		return false, fmt.Errorf("failed to settle record: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// MarkEventSettled stamps settled_at exactly once (compare-and-swap on NULL)
func (t *wageringTx) MarkEventSettled(ctx context.Context, eventID uuid.UUID, settledAt time.Time) (bool, error) {
	tag, err := t.tx.Exec(ctx, `
		UPDATE wager_events SET settled_at = $1
		WHERE event_id = $2 AND settled_at IS NULL
	`, settledAt, eventID)
	if err != nil {
		return false, fmt.Errorf("failed to mark event settled: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// UpdateEventStatus updates the lifecycle status within the transaction
func (t *wageringTx) UpdateEventStatus(ctx context.Context, id uuid.UUID, status domain.EventStatus) error {
	tag, err := t.tx.Exec(ctx,
		`UPDATE wager_events SET status = $1 WHERE event_id = $2`, string(status), id)
	if err != nil {
		return fmt.Errorf("failed to update event status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}

// DebitBalance debits within the transaction; see LedgerRepository.Debit
func (t *wageringTx) DebitBalance(ctx context.Context, userID string, amount int64, reason string) error {
	return debitBalance(ctx, t.tx, userID, amount, reason)
}

// CreditBalance credits within the transaction; see LedgerRepository.Credit
func (t *wageringTx) CreditBalance(ctx context.Context, userID string, amount int64, reason string) error {
	return creditBalance(ctx, t.tx, userID, amount, reason)
}

// querier abstracts pgxpool.Pool and pgx.Tx for shared read helpers
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func getEvent(ctx context.Context, q querier, id uuid.UUID, forUpdate bool) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM wager_events WHERE event_id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	event, err := scanEvent(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	options, err := getOptions(ctx, q, id, forUpdate)
	if err != nil {
		return nil, err
	}
	event.Options = options
	return event, nil
}

func getOptions(ctx context.Context, q querier, eventID uuid.UUID, forUpdate bool) ([]domain.Option, error) {
	query := `SELECT ` + optionColumns + ` FROM wager_options WHERE event_id = $1 ORDER BY sort_order, option_id`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	rows, err := q.Query(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to query options: %w", err)
	}
	defer rows.Close()

	var options []domain.Option
	for rows.Next() {
		var opt domain.Option
		err := rows.Scan(
			&opt.ID,
			&opt.EventID,
			&opt.Name,
			&opt.SortOrder,
			&opt.TotalAmount,
			&opt.TotalVotes,
			&opt.CurrentOdds,
			&opt.IsWinner,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan option: %w", err)
		}
		options = append(options, opt)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return options, nil
}

// rowScanner covers both pgx.Row and pgx.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (*domain.Event, error) {
	var event domain.Event
	var creatorID uuid.UUID
	var kind, status string
	err := row.Scan(
		&event.ID,
		&creatorID,
		&event.Title,
		&kind,
		&event.Category,
		&status,
		&event.StartTime,
		&event.EndTime,
		&event.MinWagerAmount,
		&event.TotalPool,
		&event.TotalWagerCount,
		&event.TotalParticipants,
		&event.WinnerOptionID,
		&event.SettledAt,
		&event.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	event.CreatorID = creatorID.String()
	event.Kind = domain.EventKind(kind)
	event.Status = domain.EventStatus(status)
	return &event, nil
}

func scanRecord(row rowScanner) (*domain.Record, error) {
	record, err := scanRecordRow(row)
	if err != nil {
		return nil, fmt.Errorf("failed to scan record: %w", err)
	}
	return record, nil
}

func scanRecordRow(row rowScanner) (*domain.Record, error) {
	var record domain.Record
	var userID uuid.UUID
	var status string
	err := row.Scan(
		&record.ID,
		&userID,
		&record.EventID,
		&record.OptionID,
		&record.WagerAmount,
		&record.OddsAtWager,
		&status,
		&record.WinAmount,
		&record.SettledAt,
		&record.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	record.UserID = userID.String()
	record.Status = domain.RecordStatus(status)
	return &record, nil
}

func rollbackQuietly(ctx context.Context, tx pgx.Tx) {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		logger.FromContext(ctx).Warn("failed to rollback tx", "error", err)
	}
}
