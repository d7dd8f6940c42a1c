// Package schedule decides whether it is currently night and which
// temperature/brightness pair should be active.
package schedule

import (
	"time"

	"github.com/mrlokans/redshift-manager/internal/entities"
	"github.com/mrlokans/redshift-manager/internal/suncalc"
)

// Effective is the pair that should currently be applied.
type Effective struct {
	Temp       int  `json:"temp"`
	Brightness int  `json:"brightness"`
	Night      bool `json:"night"`
}

// BrightnessFraction converts the percentage into the 0..1 range the external command expects.
func (e Effective) BrightnessFraction() float64 {
	return float64(e.Brightness) / 100
}

// IsNightNow reports whether now falls inside the night window.
// The window is [start, end) in minutes since midnight and wraps past
// midnight when start > end. Night is never reported when disabled.
func IsNightNow(cfg entities.Configuration, now time.Time) bool {
	if !cfg.EnableNight {
		return false
	}

	current := now.Hour()*60 + now.Minute()
	start := cfg.NightWindow.Start.Minutes()
	end := cfg.NightWindow.End.Minutes()

	if start > end {
		return current >= start || current < end
	}
	return current >= start && current < end
}

// RefreshNightWindow recomputes the window from sunset to the next sunrise.
// The configuration is returned unchanged when the window is manual, the
// location is unset or the sun does not rise or set on that date.
func RefreshNightWindow(cfg entities.Configuration, now time.Time) (entities.Configuration, bool) {
	if cfg.ManualNightTime || !cfg.Location.IsSet() {
		return cfg, false
	}

	times, err := suncalc.Compute(cfg.Location.Latitude, cfg.Location.Longitude, now)
	if err != nil {
		return cfg, false
	}

	window := entities.NightWindow{Start: times.Sunset, End: times.Sunrise}
	if window == cfg.NightWindow {
		return cfg, false
	}
	cfg.NightWindow = window
	return cfg, true
}

// EffectiveValues returns the pair to apply. ok is false when the
// configuration is disabled and the display should be reset instead.
func EffectiveValues(cfg entities.Configuration, now time.Time) (Effective, bool) {
	if !cfg.Enabled {
		return Effective{}, false
	}
	if IsNightNow(cfg, now) {
		return Effective{Temp: cfg.Night.Temp, Brightness: cfg.Night.Brightness, Night: true}, true
	}
	return Effective{Temp: cfg.Day.Temp, Brightness: cfg.Day.Brightness}, true
}
