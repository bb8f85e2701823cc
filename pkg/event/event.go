package event

import (
	"time"

	"github.com/google/uuid"
)

type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
	FrequencyYearly  Frequency = "yearly"
)

// Recurrence describes a repeating schedule. Time is a wall-clock "HH:MM"
// interpreted in the event's original timezone. DaysOfWeek uses ISO
// numbering: 1=Monday .. 7=Sunday.
type Recurrence struct {
	Frequency   Frequency `json:"frequency"`
	Time        string    `json:"time,omitempty"`
	DaysOfWeek  []int     `json:"daysOfWeek,omitempty"`
	DayOfMonth  int       `json:"dayOfMonth,omitempty"`
	MonthOfYear int       `json:"monthOfYear,omitempty"`
}

// StoredTime is the dual representation of one instant. UTC is canonical;
// Local is a wall-clock snapshot in the event's original timezone, kept as a
// display cache and never read back into any computation.
type StoredTime struct {
	UTC   time.Time
	Local string
}

type Event struct {
	ID               uuid.UUID
	Description      string
	OriginalTimeZone string
	CreatedAt        StoredTime
	UpdatedAt        StoredTime
	EventTime        StoredTime
	IsRecurring      bool
	Recurrence       *Recurrence
}
