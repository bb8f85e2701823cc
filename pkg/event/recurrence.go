package event

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// ErrMissingRecurrenceField marks a recurrence rule missing or out of range
// for a field its frequency requires. Scoped to a single event: projecting a
// list must never fail wholesale because of one malformed rule.
var ErrMissingRecurrenceField = errors.New("missing recurrence field")

// Validate checks the structural requirements of the rule so malformed rules
// are rejected at write time instead of surfacing on first read.
func (r *Recurrence) Validate() error {
	if _, _, err := r.clockTime(); err != nil {
		return err
	}
	switch r.Frequency {
	case FrequencyDaily:
		return nil
	case FrequencyWeekly:
		_, err := r.weekdays()
		return err
	case FrequencyMonthly:
		return r.validateDayOfMonth()
	case FrequencyYearly:
		if r.MonthOfYear < 1 || r.MonthOfYear > 12 {
			return fmt.Errorf("%w: monthOfYear must be 1-12", ErrMissingRecurrenceField)
		}
		return r.validateDayOfMonth()
	default:
		return fmt.Errorf("%w: unknown frequency %q", ErrMissingRecurrenceField, r.Frequency)
	}
}

func (r *Recurrence) validateDayOfMonth() error {
	if r.DayOfMonth < 1 || r.DayOfMonth > 31 {
		return fmt.Errorf("%w: dayOfMonth must be 1-31", ErrMissingRecurrenceField)
	}
	return nil
}

// clockTime parses the rule's "HH:MM" firing time, defaulting to midnight
// when absent.
func (r *Recurrence) clockTime() (hour, minute int, err error) {
	if r.Time == "" {
		return 0, 0, nil
	}
	parts := strings.Split(r.Time, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("%w: time must be HH:MM, got %q", ErrMissingRecurrenceField, r.Time)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("%w: time must be HH:MM, got %q", ErrMissingRecurrenceField, r.Time)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("%w: time must be HH:MM, got %q", ErrMissingRecurrenceField, r.Time)
	}
	return hour, minute, nil
}

// weekdays returns the rule's day set sorted ascending with duplicates
// dropped. ISO numbering, 1=Monday .. 7=Sunday.
func (r *Recurrence) weekdays() ([]int, error) {
	if len(r.DaysOfWeek) == 0 {
		return nil, fmt.Errorf("%w: daysOfWeek is required for weekly recurrence", ErrMissingRecurrenceField)
	}
	seen := make(map[int]bool, len(r.DaysOfWeek))
	days := make([]int, 0, len(r.DaysOfWeek))
	for _, d := range r.DaysOfWeek {
		if d < 1 || d > 7 {
			return nil, fmt.Errorf("%w: daysOfWeek values must be 1-7, got %d", ErrMissingRecurrenceField, d)
		}
		if !seen[d] {
			seen[d] = true
			days = append(days, d)
		}
	}
	sort.Ints(days)
	return days, nil
}

// NextOccurrence computes the next firing of the rule, strictly after nowUTC,
// expressed in the event's original timezone loc. All calendar arithmetic
// happens on wall-clock fields in loc, so a step over a DST transition lands
// on the intended wall time rather than 24/168 hours later. anchorUTC is the
// event's stored instant; occurrences are anchored to "now", so a rule keeps
// firing even when the event itself was created long ago.
//
// Month-length overflow clamps: dayOfMonth 31 fires on June 30 in June, and a
// yearly Feb 29 rule fires on Feb 28 outside leap years.
func NextOccurrence(anchorUTC time.Time, loc *time.Location, rule Recurrence, nowUTC time.Time) (time.Time, error) {
	now := nowUTC.In(loc)
	hour, minute, err := rule.clockTime()
	if err != nil {
		return time.Time{}, err
	}

	switch rule.Frequency {
	case FrequencyDaily:
		next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, loc)
		if !next.After(now) {
			next = next.AddDate(0, 0, 1)
		}
		return next, nil

	case FrequencyWeekly:
		days, err := rule.weekdays()
		if err != nil {
			return time.Time{}, err
		}
		target := 0
		for _, d := range days {
			if d >= isoWeekday(now) && atWeekday(now, d, hour, minute, loc).After(now) {
				target = d
				break
			}
		}
		if target == 0 {
			// Nothing left this week: smallest listed day, next week.
			target = days[0] + 7
		}
		return atWeekday(now, target, hour, minute, loc), nil

	case FrequencyMonthly:
		if err := rule.validateDayOfMonth(); err != nil {
			return time.Time{}, err
		}
		next := dateClamped(now.Year(), now.Month(), rule.DayOfMonth, hour, minute, loc)
		if !next.After(now) {
			year, month := now.Year(), now.Month()+1
			if month > time.December {
				year, month = year+1, time.January
			}
			next = dateClamped(year, month, rule.DayOfMonth, hour, minute, loc)
		}
		return next, nil

	case FrequencyYearly:
		if rule.MonthOfYear < 1 || rule.MonthOfYear > 12 {
			return time.Time{}, fmt.Errorf("%w: monthOfYear must be 1-12", ErrMissingRecurrenceField)
		}
		if err := rule.validateDayOfMonth(); err != nil {
			return time.Time{}, err
		}
		next := dateClamped(now.Year(), time.Month(rule.MonthOfYear), rule.DayOfMonth, hour, minute, loc)
		if !next.After(now) {
			next = dateClamped(now.Year()+1, time.Month(rule.MonthOfYear), rule.DayOfMonth, hour, minute, loc)
		}
		return next, nil

	default:
		return time.Time{}, fmt.Errorf("%w: unknown frequency %q", ErrMissingRecurrenceField, rule.Frequency)
	}
}

// isoWeekday maps Go's Sunday=0 weekday to ISO 1=Monday .. 7=Sunday.
func isoWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

// atWeekday places hour:minute on the given ISO weekday of now's week.
// Values above 7 reach into the following week.
func atWeekday(now time.Time, isoDay, hour, minute int, loc *time.Location) time.Time {
	shifted := now.AddDate(0, 0, isoDay-isoWeekday(now))
	return time.Date(shifted.Year(), shifted.Month(), shifted.Day(), hour, minute, 0, 0, loc)
}

// dateClamped builds a local time clamping day to the target month's length.
func dateClamped(year int, month time.Month, day, hour, minute int, loc *time.Location) time.Time {
	if last := daysInMonth(year, month); day > last {
		day = last
	}
	return time.Date(year, month, day, hour, minute, 0, 0, loc)
}

func daysInMonth(year int, month time.Month) int {
	// Day zero of the following month.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
