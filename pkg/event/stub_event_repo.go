package event

import (
	"context"
	"sort"

	"github.com/google/uuid"
)

// StubEventRepository is an in-memory EventRepository for tests.
type StubEventRepository struct {
	Events []Event
}

func (s *StubEventRepository) StoreEvent(ctx context.Context, event Event) (Event, error) {
	s.Events = append(s.Events, event)
	return event, nil
}

func (s *StubEventRepository) FindAllEvents(ctx context.Context) ([]Event, error) {
	events := make([]Event, len(s.Events))
	copy(events, s.Events)
	sort.Slice(events, func(i, j int) bool {
		return events[i].CreatedAt.UTC.Before(events[j].CreatedAt.UTC)
	})
	return events, nil
}

func (s *StubEventRepository) FindEvent(ctx context.Context, id uuid.UUID) (Event, error) {
	for _, e := range s.Events {
		if e.ID == id {
			return e, nil
		}
	}
	return Event{}, ErrEventNotFound
}

func (s *StubEventRepository) UpdateEvent(ctx context.Context, event Event) error {
	for i, e := range s.Events {
		if e.ID == event.ID {
			event.CreatedAt = e.CreatedAt
			s.Events[i] = event
			return nil
		}
	}
	return ErrEventNotFound
}

func (s *StubEventRepository) DeleteEvent(ctx context.Context, id uuid.UUID) error {
	for i, e := range s.Events {
		if e.ID == id {
			s.Events = append(s.Events[:i], s.Events[i+1:]...)
			return nil
		}
	}
	return ErrEventNotFound
}

func (s *StubEventRepository) DeleteAllEvents(ctx context.Context) error {
	s.Events = nil
	return nil
}

func (s *StubEventRepository) Cleanup() {
	s.Events = nil
}
