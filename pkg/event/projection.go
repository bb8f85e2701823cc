package event

import (
	"time"

	"github.com/Abdulbaasiterinkitola/tz-aware-events/internal/utils"
	log "github.com/sirupsen/logrus"
)

// EventView is the consumer-facing rendering of an event: every stored
// instant twice, once in the event's original timezone and once in the
// viewer's, at minute precision with no zone suffix.
type EventView struct {
	ID               string      `json:"id"`
	Description      string      `json:"description"`
	OriginalTimeZone string      `json:"originalTimeZone"`
	IsRecurring      bool        `json:"isRecurring"`
	Recurrence       *Recurrence `json:"recurrence,omitempty"`

	OriginalCreatedAt       string `json:"originalCreatedAt"`
	YourEquivalentCreatedAt string `json:"yourEquivalentCreatedAt"`

	OriginalUpdatedAt       string `json:"originalUpdatedAt"`
	YourEquivalentUpdatedAt string `json:"yourEquivalentUpdatedAt"`

	OriginalEventTime       string `json:"originalEventTime"`
	YourEquivalentEventTime string `json:"yourEquivalentEventTime"`

	NextOccurrence      *string `json:"nextOccurrence"`
	NextOccurrenceError string  `json:"nextOccurrenceError,omitempty"`
}

// Projector renders stored events into a viewer timezone.
type Projector struct {
	clock utils.Clock
}

func NewProjector(clock utils.Clock) *Projector {
	return &Projector{clock: clock}
}

// Project renders the event for the given viewer zone ("" means UTC). The
// stored UTC instants are the only source of truth here; local snapshots are
// never consulted. A failing recurrence computation does not fail the
// projection: it is reported on the view as nextOccurrenceError.
func (p *Projector) Project(e Event, viewerZone string) (EventView, error) {
	if viewerZone == "" {
		viewerZone = "UTC"
	}
	viewerLoc, err := LoadZone(viewerZone)
	if err != nil {
		return EventView{}, err
	}
	originalLoc, err := LoadZone(e.OriginalTimeZone)
	if err != nil {
		return EventView{}, err
	}

	view := EventView{
		ID:               e.ID.String(),
		Description:      e.Description,
		OriginalTimeZone: e.OriginalTimeZone,
		IsRecurring:      e.IsRecurring,
		Recurrence:       e.Recurrence,

		OriginalCreatedAt:       formatMinute(e.CreatedAt.UTC, originalLoc),
		YourEquivalentCreatedAt: formatMinute(e.CreatedAt.UTC, viewerLoc),

		OriginalUpdatedAt:       formatMinute(e.UpdatedAt.UTC, originalLoc),
		YourEquivalentUpdatedAt: formatMinute(e.UpdatedAt.UTC, viewerLoc),

		OriginalEventTime:       formatMinute(e.EventTime.UTC, originalLoc),
		YourEquivalentEventTime: formatMinute(e.EventTime.UTC, viewerLoc),
	}

	if e.IsRecurring && e.Recurrence != nil {
		next, err := NextOccurrence(e.EventTime.UTC, originalLoc, *e.Recurrence, p.clock.Now())
		if err != nil {
			log.Warnf("could not compute next occurrence for event %s: %v", e.ID, err)
			view.NextOccurrenceError = err.Error()
		} else {
			rendered := formatMinute(next, viewerLoc)
			view.NextOccurrence = &rendered
		}
	}

	return view, nil
}

// ProjectAll renders a list of events. Item-level recurrence failures are
// already absorbed by Project; only an invalid viewer zone or a corrupted
// stored zone fails the call.
func (p *Projector) ProjectAll(events []Event, viewerZone string) ([]EventView, error) {
	views := make([]EventView, 0, len(events))
	for _, e := range events {
		view, err := p.Project(e, viewerZone)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

func formatMinute(utc time.Time, loc *time.Location) string {
	return utc.In(loc).Format(localLayoutMinutes)
}
