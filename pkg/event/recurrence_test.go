package event

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// helper: load a zone or fail the test
func mustZone(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	if err != nil {
		t.Fatalf("load zone %s: %v", name, err)
	}
	return loc
}

func TestNextOccurrence(t *testing.T) {
	newYork := mustZone(t, "America/New_York")

	testCases := []struct {
		name string
		zone *time.Location
		rule Recurrence
		now  time.Time
		want string // minute-precision rendering in the rule's zone
	}{
		{
			name: "daily advances to tomorrow when today's time has passed",
			zone: newYork,
			rule: Recurrence{Frequency: FrequencyDaily, Time: "09:00"},
			now:  time.Date(2024, time.June, 1, 9, 30, 0, 0, newYork),
			want: "2024-06-02T09:00",
		},
		{
			name: "daily fires today when time is still ahead",
			zone: newYork,
			rule: Recurrence{Frequency: FrequencyDaily, Time: "09:00"},
			now:  time.Date(2024, time.June, 1, 8, 30, 0, 0, newYork),
			want: "2024-06-01T09:00",
		},
		{
			name: "daily candidate equal to now counts as past",
			zone: newYork,
			rule: Recurrence{Frequency: FrequencyDaily, Time: "09:00"},
			now:  time.Date(2024, time.June, 1, 9, 0, 0, 0, newYork),
			want: "2024-06-02T09:00",
		},
		{
			name: "daily missing time defaults to midnight",
			zone: time.UTC,
			rule: Recurrence{Frequency: FrequencyDaily},
			now:  time.Date(2024, time.June, 1, 0, 0, 1, 0, time.UTC),
			want: "2024-06-02T00:00",
		},
		{
			name: "weekly wraps to next week's first listed day",
			zone: time.UTC,
			rule: Recurrence{Frequency: FrequencyWeekly, Time: "10:00", DaysOfWeek: []int{1, 3}},
			// Thursday
			now:  time.Date(2024, time.June, 6, 12, 0, 0, 0, time.UTC),
			want: "2024-06-10T10:00",
		},
		{
			name: "weekly fires later the same day",
			zone: time.UTC,
			rule: Recurrence{Frequency: FrequencyWeekly, Time: "10:00", DaysOfWeek: []int{1}},
			// Monday 08:00
			now:  time.Date(2024, time.June, 3, 8, 0, 0, 0, time.UTC),
			want: "2024-06-03T10:00",
		},
		{
			name: "weekly skips today's already-passed time",
			zone: time.UTC,
			rule: Recurrence{Frequency: FrequencyWeekly, Time: "10:00", DaysOfWeek: []int{1}},
			// Monday 12:00
			now:  time.Date(2024, time.June, 3, 12, 0, 0, 0, time.UTC),
			want: "2024-06-10T10:00",
		},
		{
			name: "weekly picks the later listed day this week",
			zone: time.UTC,
			rule: Recurrence{Frequency: FrequencyWeekly, Time: "10:00", DaysOfWeek: []int{1, 5}},
			// Tuesday
			now:  time.Date(2024, time.June, 4, 12, 0, 0, 0, time.UTC),
			want: "2024-06-07T10:00",
		},
		{
			name: "weekly tolerates unsorted and duplicate days",
			zone: time.UTC,
			rule: Recurrence{Frequency: FrequencyWeekly, Time: "10:00", DaysOfWeek: []int{3, 1, 3}},
			// Thursday
			now:  time.Date(2024, time.June, 6, 12, 0, 0, 0, time.UTC),
			want: "2024-06-10T10:00",
		},
		{
			name: "weekly sunday uses ISO numbering 7",
			zone: time.UTC,
			rule: Recurrence{Frequency: FrequencyWeekly, Time: "10:00", DaysOfWeek: []int{7}},
			// Saturday
			now:  time.Date(2024, time.June, 8, 12, 0, 0, 0, time.UTC),
			want: "2024-06-09T10:00",
		},
		{
			name: "monthly clamps day 31 to the end of a short month",
			zone: time.UTC,
			rule: Recurrence{Frequency: FrequencyMonthly, Time: "00:00", DayOfMonth: 31},
			now:  time.Date(2024, time.June, 5, 10, 0, 0, 0, time.UTC),
			want: "2024-06-30T00:00",
		},
		{
			name: "monthly advances into next month with clamping",
			zone: time.UTC,
			rule: Recurrence{Frequency: FrequencyMonthly, Time: "00:00", DayOfMonth: 31},
			now:  time.Date(2024, time.January, 31, 10, 0, 0, 0, time.UTC),
			want: "2024-02-29T00:00",
		},
		{
			name: "monthly rolls over the year boundary",
			zone: time.UTC,
			rule: Recurrence{Frequency: FrequencyMonthly, Time: "08:00", DayOfMonth: 15},
			now:  time.Date(2024, time.December, 20, 10, 0, 0, 0, time.UTC),
			want: "2025-01-15T08:00",
		},
		{
			name: "yearly fires later this year",
			zone: time.UTC,
			rule: Recurrence{Frequency: FrequencyYearly, Time: "08:00", DayOfMonth: 15, MonthOfYear: 3},
			now:  time.Date(2024, time.February, 1, 10, 0, 0, 0, time.UTC),
			want: "2024-03-15T08:00",
		},
		{
			name: "yearly advances to next year when date has passed",
			zone: time.UTC,
			rule: Recurrence{Frequency: FrequencyYearly, Time: "08:00", DayOfMonth: 15, MonthOfYear: 3},
			now:  time.Date(2024, time.June, 1, 10, 0, 0, 0, time.UTC),
			want: "2025-03-15T08:00",
		},
		{
			name: "yearly Feb 29 clamps outside leap years",
			zone: time.UTC,
			rule: Recurrence{Frequency: FrequencyYearly, Time: "00:00", DayOfMonth: 29, MonthOfYear: 2},
			now:  time.Date(2025, time.January, 10, 0, 0, 0, 0, time.UTC),
			want: "2025-02-28T00:00",
		},
		{
			name: "daily keeps wall clock across spring-forward",
			zone: newYork,
			rule: Recurrence{Frequency: FrequencyDaily, Time: "09:00"},
			// Saturday before the 2024-03-10 DST transition
			now:  time.Date(2024, time.March, 9, 10, 0, 0, 0, newYork),
			want: "2024-03-10T09:00",
		},
		{
			name: "weekly keeps wall clock across fall-back",
			zone: newYork,
			rule: Recurrence{Frequency: FrequencyWeekly, Time: "09:00", DaysOfWeek: []int{7}},
			// Friday before the 2024-11-03 DST transition
			now:  time.Date(2024, time.November, 1, 10, 0, 0, 0, newYork),
			want: "2024-11-03T09:00",
		},
	}

	anchor := time.Date(2024, time.January, 1, 14, 0, 0, 0, time.UTC)
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			next, err := NextOccurrence(anchor, tc.zone, tc.rule, tc.now.UTC())
			assert.NoError(t, err)
			assert.Equal(t, tc.want, next.Format("2006-01-02T15:04"))
			// "next" is strictly future in the originating zone
			assert.True(t, next.After(tc.now.In(tc.zone)))
		})
	}
}

func TestNextOccurrence_SpringForwardIsCalendarDay(t *testing.T) {
	newYork := mustZone(t, "America/New_York")
	now := time.Date(2024, time.March, 9, 10, 0, 0, 0, newYork)

	next, err := NextOccurrence(time.Time{}, newYork, Recurrence{Frequency: FrequencyDaily, Time: "09:00"}, now.UTC())
	assert.NoError(t, err)

	// The 2024-03-10 calendar day in New York is 23 hours long; the occurrence
	// still lands on 09:00 wall clock, 23 hours after the previous 09:00.
	previous := time.Date(2024, time.March, 9, 9, 0, 0, 0, newYork)
	assert.Equal(t, 23*time.Hour, next.Sub(previous))
}

func TestNextOccurrence_Errors(t *testing.T) {
	testCases := []struct {
		name string
		rule Recurrence
	}{
		{name: "weekly without days", rule: Recurrence{Frequency: FrequencyWeekly, Time: "10:00"}},
		{name: "weekly with out-of-range day", rule: Recurrence{Frequency: FrequencyWeekly, DaysOfWeek: []int{0}}},
		{name: "monthly without dayOfMonth", rule: Recurrence{Frequency: FrequencyMonthly}},
		{name: "yearly without monthOfYear", rule: Recurrence{Frequency: FrequencyYearly, DayOfMonth: 10}},
		{name: "unknown frequency", rule: Recurrence{Frequency: "hourly"}},
		{name: "malformed time", rule: Recurrence{Frequency: FrequencyDaily, Time: "9 o'clock"}},
	}

	now := time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NextOccurrence(time.Time{}, time.UTC, tc.rule, now)
			assert.ErrorIs(t, err, ErrMissingRecurrenceField)
		})
	}
}

func TestRecurrenceValidate(t *testing.T) {
	valid := []Recurrence{
		{Frequency: FrequencyDaily},
		{Frequency: FrequencyDaily, Time: "23:59"},
		{Frequency: FrequencyWeekly, DaysOfWeek: []int{1, 7}},
		{Frequency: FrequencyMonthly, DayOfMonth: 31},
		{Frequency: FrequencyYearly, DayOfMonth: 29, MonthOfYear: 2},
	}
	for _, rule := range valid {
		assert.NoError(t, rule.Validate(), "rule %+v", rule)
	}

	invalid := []Recurrence{
		{Frequency: "fortnightly"},
		{Frequency: FrequencyDaily, Time: "24:00"},
		{Frequency: FrequencyWeekly},
		{Frequency: FrequencyWeekly, DaysOfWeek: []int{8}},
		{Frequency: FrequencyMonthly, DayOfMonth: 32},
		{Frequency: FrequencyYearly, DayOfMonth: 10, MonthOfYear: 13},
	}
	for _, rule := range invalid {
		assert.ErrorIs(t, rule.Validate(), ErrMissingRecurrenceField, "rule %+v", rule)
	}
}
