package event

import (
	"testing"
	"time"

	"github.com/Abdulbaasiterinkitola/tz-aware-events/internal/utils"
	"github.com/stretchr/testify/assert"
)

func TestLoadZone(t *testing.T) {
	loc, err := LoadZone("Europe/Warsaw")
	assert.NoError(t, err)
	assert.Equal(t, "Europe/Warsaw", loc.String())

	_, err = LoadZone("Mars/Olympus_Mons")
	assert.ErrorIs(t, err, ErrInvalidTimeInput)

	_, err = LoadZone("")
	assert.ErrorIs(t, err, ErrInvalidTimeInput)
}

func TestParseLocalTime(t *testing.T) {
	newYork := mustZone(t, "America/New_York")

	t.Run("parses with and without seconds", func(t *testing.T) {
		withSeconds, err := ParseLocalTime("2024-06-01T09:00:00", newYork)
		assert.NoError(t, err)
		withoutSeconds, err := ParseLocalTime("2024-06-01T09:00", newYork)
		assert.NoError(t, err)
		assert.True(t, withSeconds.Equal(withoutSeconds))
		assert.Equal(t, newYork, withSeconds.Location())
	})

	t.Run("rejects garbage", func(t *testing.T) {
		for _, value := range []string{"", "tomorrow", "2024-13-01T09:00", "2024-06-01 09:00"} {
			_, err := ParseLocalTime(value, newYork)
			assert.ErrorIs(t, err, ErrInvalidTimeInput, "value %q", value)
		}
	})

	t.Run("rejects DST-gap times", func(t *testing.T) {
		// 02:00-03:00 did not exist in New York on 2024-03-10
		_, err := ParseLocalTime("2024-03-10T02:30", newYork)
		assert.ErrorIs(t, err, ErrInvalidTimeInput)

		// The same wall clock is fine one day earlier
		_, err = ParseLocalTime("2024-03-09T02:30", newYork)
		assert.NoError(t, err)
	})
}

func TestNormalize(t *testing.T) {
	clock := &utils.MockClock{FixedNow: time.Date(2024, time.June, 1, 13, 30, 0, 0, time.UTC)}

	t.Run("produces agreeing dual representations", func(t *testing.T) {
		normalized, err := Normalize("2024-06-01T09:00", "America/New_York", clock)
		assert.NoError(t, err)

		// New York is UTC-4 in June
		assert.Equal(t, time.Date(2024, time.June, 1, 13, 0, 0, 0, time.UTC), normalized.Event.UTC)
		assert.Equal(t, "2024-06-01T09:00:00", normalized.Event.Local)

		// "now" is rendered in the same request zone
		assert.Equal(t, clock.FixedNow, normalized.Now.UTC)
		assert.Equal(t, "2024-06-01T09:30:00", normalized.Now.Local)
	})

	t.Run("round-trips the local rendering from UTC", func(t *testing.T) {
		for _, zone := range []string{"UTC", "America/New_York", "Asia/Tokyo", "Australia/Adelaide"} {
			normalized, err := Normalize("2024-06-01T09:00", zone, clock)
			assert.NoError(t, err)
			assert.Equal(t, "2024-06-01T09:00", normalized.Event.UTC.In(normalized.Location).Format("2006-01-02T15:04"), "zone %s", zone)
		}
	})

	t.Run("rejects invalid zone or timestamp", func(t *testing.T) {
		_, err := Normalize("2024-06-01T09:00", "Not/AZone", clock)
		assert.ErrorIs(t, err, ErrInvalidTimeInput)

		_, err = Normalize("not-a-time", "America/New_York", clock)
		assert.ErrorIs(t, err, ErrInvalidTimeInput)
	})
}
