package suncalc

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompute(t *testing.T) {
	t.Run("greenwich on the equinox has roughly twelve hours of daylight", func(t *testing.T) {
		date := time.Date(2026, time.March, 20, 12, 0, 0, 0, time.UTC)

		times, err := Compute(51.48, 0, date)
		require.NoError(t, err)

		assert.Equal(t, 6, times.Sunrise.Hour)
		assert.Equal(t, 17, times.Sunset.Hour)
	})

	t.Run("summer days are longer than winter days in the northern hemisphere", func(t *testing.T) {
		summer, err := Compute(48.85, 2.35, time.Date(2026, time.June, 21, 12, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		winter, err := Compute(48.85, 2.35, time.Date(2026, time.December, 21, 12, 0, 0, 0, time.UTC))
		require.NoError(t, err)

		summerLength := summer.Sunset.Minutes() - summer.Sunrise.Minutes()
		winterLength := winter.Sunset.Minutes() - winter.Sunrise.Minutes()
		assert.Greater(t, summerLength, winterLength)
	})

	t.Run("seconds are always dropped", func(t *testing.T) {
		times, err := Compute(40.71, -74.0, time.Date(2026, time.May, 3, 9, 0, 0, 0, time.FixedZone("EDT", -4*3600)))
		require.NoError(t, err)

		assert.GreaterOrEqual(t, times.Sunrise.Minute, 0)
		assert.Less(t, times.Sunrise.Minute, 60)
		assert.Less(t, times.Sunset.Hour, 24)
	})

	t.Run("polar night has no sunrise", func(t *testing.T) {
		_, err := Compute(78.22, 15.65, time.Date(2026, time.December, 21, 12, 0, 0, 0, time.UTC))
		assert.ErrorIs(t, err, ErrNoSunriseSunset)
	})

	t.Run("polar day has no sunset", func(t *testing.T) {
		_, err := Compute(78.22, 15.65, time.Date(2026, time.June, 21, 12, 0, 0, 0, time.UTC))
		assert.ErrorIs(t, err, ErrNoSunriseSunset)
	})
}

func TestCompute_SunriseBeforeSunset(t *testing.T) {
	places := []struct {
		name string
		lat  float64
		lon  float64
		zone *time.Location
	}{
		{"London", 51.51, -0.13, time.UTC},
		{"Buenos Aires", -34.60, -58.38, time.FixedZone("ART", -3*3600)},
		{"Tokyo", 35.68, 139.69, time.FixedZone("JST", 9*3600)},
		{"Quito", -0.18, -78.47, time.FixedZone("ECT", -5*3600)},
		{"Reykjavik", 64.15, -21.94, time.UTC},
		{"Sydney", -33.87, 151.21, time.FixedZone("AEST", 10*3600)},
		{"Los Angeles", 34.05, -118.24, time.FixedZone("PST", -8*3600)},
	}

	for _, place := range places {
		for month := time.January; month <= time.December; month++ {
			date := time.Date(2026, month, 15, 8, 30, 0, 0, place.zone)

			times, err := Compute(place.lat, place.lon, date)
			require.NoError(t, err, "%s %s", place.name, month)
			assert.Less(t, times.Sunrise.Minutes(), times.Sunset.Minutes(), "%s %s", place.name, month)
		}
	}
}

func TestCompute_Deterministic(t *testing.T) {
	date := time.Date(2026, time.October, 15, 18, 45, 0, 0, time.FixedZone("CEST", 2*3600))

	first, err := Compute(52.52, 13.40, date)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		again, err := Compute(52.52, 13.40, date)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestCompute_TimeOfDayDoesNotMatter(t *testing.T) {
	morning := time.Date(2026, time.July, 4, 0, 1, 0, 0, time.UTC)
	evening := time.Date(2026, time.July, 4, 23, 59, 0, 0, time.UTC)

	a, err := Compute(45.0, 7.0, morning)
	require.NoError(t, err)
	b, err := Compute(45.0, 7.0, evening)
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestHours_ZoneOffset(t *testing.T) {
	utc := time.Date(2026, time.April, 10, 12, 0, 0, 0, time.UTC)
	tokyo := time.Date(2026, time.April, 10, 12, 0, 0, 0, time.FixedZone("JST", 9*3600))

	utcRise, utcSet, err := Hours(35.68, 139.69, utc)
	require.NoError(t, err)
	assert.InDelta(t, 12-139.69/15, (utcRise+utcSet)/2, 1e-9, "a UTC date uses plain solar noon")

	rise, set, err := Hours(35.68, 139.69, tokyo)
	require.NoError(t, err)
	assert.InDelta(t, utcRise+9, rise, 1e-9)
	assert.InDelta(t, utcSet+9, set, 1e-9)
}
