// Package suncalc approximates local sunrise and sunset times from a position
// and a date. The geometry is deliberately simple (no refraction, no equation
// of time) and is only meant to place the night window within a few minutes.
package suncalc

import (
	"errors"
	"math"
	"time"

	"github.com/mrlokans/redshift-manager/internal/entities"
)

// ErrNoSunriseSunset is returned during polar day or polar night, when the sun
// does not cross the horizon on the given date.
var ErrNoSunriseSunset = errors.New("no sunrise or sunset at this latitude and date")

// SunTimes holds the sunrise and sunset of one local calendar day.
type SunTimes struct {
	Sunrise entities.TimeOfDay `json:"sunrise"`
	Sunset  entities.TimeOfDay `json:"sunset"`
}

// Compute returns sunrise and sunset for the local calendar day of date.
// The result depends only on the arguments.
func Compute(latitude, longitude float64, date time.Time) (SunTimes, error) {
	sunriseHour, sunsetHour, err := Hours(latitude, longitude, date)
	if err != nil {
		return SunTimes{}, err
	}
	return SunTimes{
		Sunrise: toTimeOfDay(sunriseHour),
		Sunset:  toTimeOfDay(sunsetHour),
	}, nil
}

// Hours returns sunrise and sunset as fractional hours of the local day.
// Solar noon is shifted by the UTC offset of date's location, so a date in
// UTC yields UTC hours.
func Hours(latitude, longitude float64, date time.Time) (sunrise, sunset float64, err error) {
	dayOfYear := float64(date.YearDay())
	_, offsetSeconds := date.Zone()
	solarNoonOffset := -longitude/15 + float64(offsetSeconds)/3600

	declination := -23.44 * math.Cos(2*math.Pi/365*(dayOfYear+10))
	hourAngle := rad2deg(math.Acos(-math.Tan(deg2rad(latitude)) * math.Tan(deg2rad(declination))))
	if math.IsNaN(hourAngle) {
		return 0, 0, ErrNoSunriseSunset
	}

	dayLength := 2 * hourAngle / 15
	solarNoon := 12 + solarNoonOffset
	return solarNoon - dayLength/2, solarNoon + dayLength/2, nil
}

// toTimeOfDay truncates the hour, rounds the minutes and wraps into one day.
func toTimeOfDay(hours float64) entities.TimeOfDay {
	h := math.Floor(hours)
	m := math.Round((hours - h) * 60)
	return entities.TimeOfDay{Hour: int(h), Minute: int(m)}.Normalized()
}

func deg2rad(v float64) float64 { return v * math.Pi / 180.0 }
func rad2deg(v float64) float64 { return v * 180.0 / math.Pi }
