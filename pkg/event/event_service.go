package event

import (
	"context"
	"errors"
	"fmt"

	"github.com/Abdulbaasiterinkitola/tz-aware-events/internal/utils"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

var ErrMissingDescription = errors.New("description is required")

// EventInput carries the raw create/update fields. The one timeZone governs
// both the request's "now" reference and the submitted event time.
type EventInput struct {
	Description string      `json:"description"`
	EventTime   string      `json:"eventTime"`
	TimeZone    string      `json:"timeZone"`
	IsRecurring bool        `json:"isRecurring"`
	Recurrence  *Recurrence `json:"recurrence,omitempty"`
}

type EventService interface {
	CreateEvent(ctx context.Context, input EventInput) (Event, error)
	GetEvent(ctx context.Context, id uuid.UUID) (Event, error)
	GetAllEvents(ctx context.Context) ([]Event, error)
	UpdateEvent(ctx context.Context, id uuid.UUID, input EventInput) (Event, error)
	DeleteEvent(ctx context.Context, id uuid.UUID) error
	DeleteAllEvents(ctx context.Context) error
}

type EventServiceImpl struct {
	repo  EventRepository
	clock utils.Clock
}

func NewEventService(repo EventRepository, clock utils.Clock) *EventServiceImpl {
	return &EventServiceImpl{repo: repo, clock: clock}
}

// CreateEvent validates and normalizes the input, then stores a new event.
// Nothing is written when validation fails.
func (s *EventServiceImpl) CreateEvent(ctx context.Context, input EventInput) (Event, error) {
	recurrence, err := s.validate(input)
	if err != nil {
		return Event{}, err
	}

	normalized, err := Normalize(input.EventTime, input.TimeZone, s.clock)
	if err != nil {
		return Event{}, err
	}

	event := Event{
		ID:               uuid.New(),
		Description:      input.Description,
		OriginalTimeZone: input.TimeZone,
		CreatedAt:        normalized.Now,
		UpdatedAt:        normalized.Now,
		EventTime:        normalized.Event,
		IsRecurring:      input.IsRecurring,
		Recurrence:       recurrence,
	}

	stored, err := s.repo.StoreEvent(ctx, event)
	if err != nil {
		return Event{}, fmt.Errorf("failed to store event: %w", err)
	}
	log.Debugf("Created event %s in zone %s", stored.ID, stored.OriginalTimeZone)
	return stored, nil
}

func (s *EventServiceImpl) GetEvent(ctx context.Context, id uuid.UUID) (Event, error) {
	return s.repo.FindEvent(ctx, id)
}

func (s *EventServiceImpl) GetAllEvents(ctx context.Context) ([]Event, error) {
	return s.repo.FindAllEvents(ctx)
}

// UpdateEvent fully replaces the event's description, times, zone, and
// recurrence. The creation timestamp is preserved.
func (s *EventServiceImpl) UpdateEvent(ctx context.Context, id uuid.UUID, input EventInput) (Event, error) {
	recurrence, err := s.validate(input)
	if err != nil {
		return Event{}, err
	}

	normalized, err := Normalize(input.EventTime, input.TimeZone, s.clock)
	if err != nil {
		return Event{}, err
	}

	existing, err := s.repo.FindEvent(ctx, id)
	if err != nil {
		return Event{}, err
	}

	event := Event{
		ID:               id,
		Description:      input.Description,
		OriginalTimeZone: input.TimeZone,
		CreatedAt:        existing.CreatedAt,
		UpdatedAt:        normalized.Now,
		EventTime:        normalized.Event,
		IsRecurring:      input.IsRecurring,
		Recurrence:       recurrence,
	}

	if err := s.repo.UpdateEvent(ctx, event); err != nil {
		return Event{}, fmt.Errorf("failed to update event: %w", err)
	}
	return event, nil
}

func (s *EventServiceImpl) DeleteEvent(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteEvent(ctx, id)
}

func (s *EventServiceImpl) DeleteAllEvents(ctx context.Context) error {
	return s.repo.DeleteAllEvents(ctx)
}

// validate checks description and recurrence structure up front. A
// recurrence payload on a non-recurring event is dropped, not stored.
func (s *EventServiceImpl) validate(input EventInput) (*Recurrence, error) {
	if input.Description == "" {
		return nil, ErrMissingDescription
	}
	if !input.IsRecurring {
		return nil, nil
	}
	if input.Recurrence == nil {
		return nil, fmt.Errorf("%w: recurrence is required for recurring events", ErrMissingRecurrenceField)
	}
	if err := input.Recurrence.Validate(); err != nil {
		return nil, err
	}
	rec := *input.Recurrence
	return &rec, nil
}
