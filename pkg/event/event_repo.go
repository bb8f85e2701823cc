package event

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

var ErrEventNotFound = errors.New("event not found")

type EventRepository interface {
	StoreEvent(ctx context.Context, event Event) (Event, error)
	FindAllEvents(ctx context.Context) ([]Event, error)
	FindEvent(ctx context.Context, id uuid.UUID) (Event, error)
	UpdateEvent(ctx context.Context, event Event) error
	DeleteEvent(ctx context.Context, id uuid.UUID) error
	DeleteAllEvents(ctx context.Context) error
}

type EventRepositoryImpl struct {
	db *sql.DB
}

func NewEventRepo(db *sql.DB) *EventRepositoryImpl {
	return &EventRepositoryImpl{db: db}
}

const eventColumns = `id, description, original_time_zone,
		created_at_utc, created_at_local,
		updated_at_utc, updated_at_local,
		event_time_utc, event_time_local,
		is_recurring, recurrence`

// StoreEvent stores a new Event to the database
func (r *EventRepositoryImpl) StoreEvent(ctx context.Context, event Event) (Event, error) {
	query := `INSERT INTO event (` + eventColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	stmt, err := r.db.PrepareContext(ctx, query)
	if err != nil {
		err := fmt.Errorf("could not prepare query: %w", err)
		log.Error(err)
		return Event{}, err
	}
	defer stmt.Close()

	recurrenceJSON, err := marshalRecurrence(event.Recurrence)
	if err != nil {
		log.Error(err)
		return Event{}, err
	}

	_, err = stmt.ExecContext(ctx,
		event.ID.String(), event.Description, event.OriginalTimeZone,
		event.CreatedAt.UTC.UnixMilli(), event.CreatedAt.Local,
		event.UpdatedAt.UTC.UnixMilli(), event.UpdatedAt.Local,
		event.EventTime.UTC.UnixMilli(), event.EventTime.Local,
		event.IsRecurring, recurrenceJSON,
	)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return Event{}, err
	}

	return event, nil
}

// FindAllEvents returns every stored event ordered by creation instant, ascending.
func (r *EventRepositoryImpl) FindAllEvents(ctx context.Context) ([]Event, error) {
	query := `SELECT ` + eventColumns + ` FROM event ORDER BY created_at_utc`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		err := fmt.Errorf("could not query events: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	events := make([]Event, 0, 10)
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			log.Error(err)
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

func (r *EventRepositoryImpl) FindEvent(ctx context.Context, id uuid.UUID) (Event, error) {
	query := `SELECT ` + eventColumns + ` FROM event WHERE id = $1`

	row := r.db.QueryRowContext(ctx, query, id.String())
	event, err := scanEvent(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Event{}, ErrEventNotFound
		}
		err := fmt.Errorf("failed when trying to find event: %w", err)
		log.Error(err)
		return Event{}, err
	}
	return event, nil
}

// UpdateEvent replaces every mutable field of the event; created_at columns
// are intentionally left untouched.
func (r *EventRepositoryImpl) UpdateEvent(ctx context.Context, event Event) error {
	query := `UPDATE event SET
		description = $1, original_time_zone = $2,
		updated_at_utc = $3, updated_at_local = $4,
		event_time_utc = $5, event_time_local = $6,
		is_recurring = $7, recurrence = $8
		WHERE id = $9`

	stmt, err := r.db.PrepareContext(ctx, query)
	if err != nil {
		err := fmt.Errorf("could not prepare query: %w", err)
		log.Error(err)
		return err
	}
	defer stmt.Close()

	recurrenceJSON, err := marshalRecurrence(event.Recurrence)
	if err != nil {
		log.Error(err)
		return err
	}

	result, err := stmt.ExecContext(ctx,
		event.Description, event.OriginalTimeZone,
		event.UpdatedAt.UTC.UnixMilli(), event.UpdatedAt.Local,
		event.EventTime.UTC.UnixMilli(), event.EventTime.Local,
		event.IsRecurring, recurrenceJSON,
		event.ID.String(),
	)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not read affected rows: %w", err)
	}
	if affected == 0 {
		return ErrEventNotFound
	}
	return nil
}

func (r *EventRepositoryImpl) DeleteEvent(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM event WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id.String())
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not read affected rows: %w", err)
	}
	if affected == 0 {
		return ErrEventNotFound
	}
	return nil
}

func (r *EventRepositoryImpl) DeleteAllEvents(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM event`); err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return err
	}
	return nil
}

func marshalRecurrence(rec *Recurrence) ([]byte, error) {
	if rec == nil {
		return nil, nil
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("could not marshal recurrence: %w", err)
	}
	return data, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (Event, error) {
	var event Event
	var idString string
	var createdAtMillis, updatedAtMillis, eventTimeMillis int64
	var recurrenceJSON []byte

	err := row.Scan(
		&idString, &event.Description, &event.OriginalTimeZone,
		&createdAtMillis, &event.CreatedAt.Local,
		&updatedAtMillis, &event.UpdatedAt.Local,
		&eventTimeMillis, &event.EventTime.Local,
		&event.IsRecurring, &recurrenceJSON,
	)
	if err != nil {
		return Event{}, err
	}

	event.ID, err = uuid.Parse(idString)
	if err != nil {
		return Event{}, fmt.Errorf("could not parse event id %q: %w", idString, err)
	}
	event.CreatedAt.UTC = time.UnixMilli(createdAtMillis).UTC()
	event.UpdatedAt.UTC = time.UnixMilli(updatedAtMillis).UTC()
	event.EventTime.UTC = time.UnixMilli(eventTimeMillis).UTC()

	if len(recurrenceJSON) > 0 {
		var rec Recurrence
		if err := json.Unmarshal(recurrenceJSON, &rec); err != nil {
			return Event{}, fmt.Errorf("could not unmarshal recurrence: %w", err)
		}
		event.Recurrence = &rec
	}
	return event, nil
}
