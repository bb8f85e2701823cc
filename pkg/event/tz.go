package event

import (
	"errors"
	"fmt"
	"time"

	"github.com/Abdulbaasiterinkitola/tz-aware-events/internal/utils"
)

// ErrInvalidTimeInput marks an unrecognized timezone, an unparseable
// timestamp, or a local time that does not exist in the given zone.
var ErrInvalidTimeInput = errors.New("invalid date/time or time zone")

const (
	localLayoutSeconds = "2006-01-02T15:04:05"
	localLayoutMinutes = "2006-01-02T15:04"
)

// LoadZone resolves an IANA timezone identifier.
func LoadZone(name string) (*time.Location, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: time zone is required", ErrInvalidTimeInput)
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: unknown time zone %q", ErrInvalidTimeInput, name)
	}
	return loc, nil
}

// ParseLocalTime parses an ISO-8601 local date-time (no zone offset) as a
// wall-clock time in loc. A wall clock that does not survive reconstruction
// through time.Date fell into a DST gap and is rejected: Go normalizes
// nonexistent local times forward, so the round trip changes the rendering.
func ParseLocalTime(value string, loc *time.Location) (time.Time, error) {
	var parsed time.Time
	var layout string
	var err error
	for _, l := range []string{localLayoutSeconds, localLayoutMinutes} {
		parsed, err = time.ParseInLocation(l, value, loc)
		if err == nil {
			layout = l
			break
		}
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: cannot parse %q", ErrInvalidTimeInput, value)
	}

	if parsed.Format(layout) != value {
		return time.Time{}, fmt.Errorf("%w: %q does not exist in %s", ErrInvalidTimeInput, value, loc)
	}
	return parsed, nil
}

// Normalized carries the dual representations produced for one create/update
// request: the request's "now" and the submitted event time, both in the one
// zone the caller supplied.
type Normalized struct {
	Location *time.Location
	Now      StoredTime
	Event    StoredTime
}

// Normalize validates the (eventTime, timeZone) pair and converts both the
// current instant and the event instant into their canonical UTC form plus a
// local wall-clock snapshot. No write should happen if this fails.
func Normalize(eventTime string, timeZone string, clock utils.Clock) (Normalized, error) {
	loc, err := LoadZone(timeZone)
	if err != nil {
		return Normalized{}, err
	}

	now := clock.Now().In(loc)
	eventLocal, err := ParseLocalTime(eventTime, loc)
	if err != nil {
		return Normalized{}, err
	}

	return Normalized{
		Location: loc,
		Now:      toStoredTime(now),
		Event:    toStoredTime(eventLocal),
	}, nil
}

func toStoredTime(t time.Time) StoredTime {
	return StoredTime{
		UTC:   t.UTC(),
		Local: t.Format(localLayoutSeconds),
	}
}
