// postgres provides a Storage implementation backed by PostgreSQL via pgx.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"repeatcal/recurrence"
	"repeatcal/storage"
)

// Store implements storage.Storage on a pgx connection pool. Batch
// operations run inside a transaction so a partial failure rolls the whole
// batch back and surfaces as one error.
type Store struct {
	pool *pgxpool.Pool
}

// New creates a postgres-backed store on an existing pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

const schema = `
CREATE TABLE IF NOT EXISTS events (
	id                TEXT PRIMARY KEY,
	title             TEXT NOT NULL,
	date              TEXT NOT NULL,
	start_time        TEXT NOT NULL,
	end_time          TEXT NOT NULL,
	description       TEXT NOT NULL DEFAULT '',
	location          TEXT NOT NULL DEFAULT '',
	category          TEXT NOT NULL DEFAULT '',
	repeat_type       TEXT NOT NULL DEFAULT 'none',
	repeat_interval   INT  NOT NULL DEFAULT 1,
	repeat_end_date   TEXT NOT NULL DEFAULT '',
	repeat_id         TEXT NOT NULL DEFAULT '',
	notification_time INT  NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS events_repeat_id_idx ON events (repeat_id) WHERE repeat_id <> '';
`

// EnsureSchema creates the events table if it doesn't exist yet.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

const eventColumns = `id, title, date, start_time, end_time, description, location, category,
	repeat_type, repeat_interval, repeat_end_date, repeat_id, notification_time`

func scanEvent(row pgx.Row) (*storage.Event, error) {
	var ev storage.Event
	var repeatType string
	err := row.Scan(
		&ev.ID, &ev.Title, &ev.Date, &ev.StartTime, &ev.EndTime,
		&ev.Description, &ev.Location, &ev.Category,
		&repeatType, &ev.Repeat.Interval, &ev.Repeat.EndDate,
		&ev.Repeat.RepeatID, &ev.NotificationTime,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("scan event: %w", err)
	}
	ev.Repeat.Type = recurrence.RepeatType(repeatType)
	return &ev, nil
}

func (s *Store) GetEvent(ctx context.Context, id string) (*storage.Event, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+eventColumns+` FROM events WHERE id = $1`, id)
	return scanEvent(row)
}

func (s *Store) ListEvents(ctx context.Context) ([]storage.Event, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+eventColumns+` FROM events ORDER BY date, id`)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()
	return collectEvents(rows)
}

func (s *Store) ListSeries(ctx context.Context, repeatID string) ([]storage.Event, error) {
	if repeatID == "" {
		return nil, storage.ErrInvalidInput
	}

	rows, err := s.pool.Query(ctx,
		`SELECT `+eventColumns+` FROM events WHERE repeat_id = $1 ORDER BY date, id`, repeatID)
	if err != nil {
		return nil, fmt.Errorf("list series: %w", err)
	}
	defer rows.Close()
	return collectEvents(rows)
}

func collectEvents(rows pgx.Rows) ([]storage.Event, error) {
	events := make([]storage.Event, 0)
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return events, nil
}

const insertEvent = `
INSERT INTO events (` + eventColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

func insertArgs(ev *storage.Event) []any {
	return []any{
		ev.ID, ev.Title, ev.Date, ev.StartTime, ev.EndTime,
		ev.Description, ev.Location, ev.Category,
		string(ev.Repeat.Type), ev.Repeat.Interval, ev.Repeat.EndDate,
		ev.Repeat.RepeatID, ev.NotificationTime,
	}
}

func (s *Store) CreateEvent(ctx context.Context, ev *storage.Event) error {
	if ev == nil {
		return storage.ErrInvalidInput
	}

	ev.ID = uuid.NewString()
	if _, err := s.pool.Exec(ctx, insertEvent, insertArgs(ev)...); err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

func (s *Store) CreateEvents(ctx context.Context, evs []*storage.Event) error {
	if len(evs) == 0 {
		return storage.ErrInvalidInput
	}
	for _, ev := range evs {
		if ev == nil {
			return storage.ErrInvalidInput
		}
	}

	repeatID := uuid.NewString()
	for _, ev := range evs {
		ev.ID = uuid.NewString()
		if ev.Repeat.Type != recurrence.RepeatNone {
			ev.Repeat.RepeatID = repeatID
		}
	}

	return s.inTx(ctx, func(tx pgx.Tx) error {
		for _, ev := range evs {
			if _, err := tx.Exec(ctx, insertEvent, insertArgs(ev)...); err != nil {
				return fmt.Errorf("create event batch: %w", err)
			}
		}
		return nil
	})
}

const updateEvent = `
UPDATE events SET title = $2, date = $3, start_time = $4, end_time = $5,
	description = $6, location = $7, category = $8, repeat_type = $9,
	repeat_interval = $10, repeat_end_date = $11, repeat_id = $12,
	notification_time = $13
WHERE id = $1`

func (s *Store) UpdateEvent(ctx context.Context, ev *storage.Event) error {
	if ev == nil || ev.ID == "" {
		return storage.ErrInvalidInput
	}

	tag, err := s.pool.Exec(ctx, updateEvent, insertArgs(ev)...)
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) UpdateEvents(ctx context.Context, evs []*storage.Event) error {
	if len(evs) == 0 {
		return storage.ErrInvalidInput
	}

	return s.inTx(ctx, func(tx pgx.Tx) error {
		for _, ev := range evs {
			if ev == nil || ev.ID == "" {
				return storage.ErrInvalidInput
			}
			tag, err := tx.Exec(ctx, updateEvent, insertArgs(ev)...)
			if err != nil {
				return fmt.Errorf("update event batch: %w", err)
			}
			if tag.RowsAffected() == 0 {
				return storage.ErrNotFound
			}
		}
		return nil
	})
}

func (s *Store) DeleteEvent(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteEvents(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return storage.ErrInvalidInput
	}

	return s.inTx(ctx, func(tx pgx.Tx) error {
		for _, id := range ids {
			tag, err := tx.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
			if err != nil {
				return fmt.Errorf("delete event batch: %w", err)
			}
			if tag.RowsAffected() == 0 {
				return storage.ErrNotFound
			}
		}
		return nil
	})
}

func (s *Store) inTx(ctx context.Context, fn func(pgx.Tx) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
