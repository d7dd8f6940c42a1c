package entities

import (
	"fmt"
	"time"
)

// Value ranges accepted for temperature (Kelvin) and brightness (percent).
const (
	MinTemp       = 1000
	MaxTemp       = 10000
	MinBrightness = 10
	MaxBrightness = 100

	DefaultUpdateIntervalSeconds = 5
)

// ColorSetting is a (temperature, brightness) pair active during a day or night period.
type ColorSetting struct {
	Temp       int `json:"temp"`
	Brightness int `json:"brightness"`
}

// Clamped returns the setting with both values forced into their valid ranges.
func (c ColorSetting) Clamped() ColorSetting {
	return ColorSetting{
		Temp:       clamp(c.Temp, MinTemp, MaxTemp),
		Brightness: clamp(c.Brightness, MinBrightness, MaxBrightness),
	}
}

// Validate reports whether both values are inside their ranges.
func (c ColorSetting) Validate() error {
	if c.Temp < MinTemp || c.Temp > MaxTemp {
		return fmt.Errorf("temperature %d outside [%d, %d]", c.Temp, MinTemp, MaxTemp)
	}
	if c.Brightness < MinBrightness || c.Brightness > MaxBrightness {
		return fmt.Errorf("brightness %d outside [%d, %d]", c.Brightness, MinBrightness, MaxBrightness)
	}
	return nil
}

var (
	DefaultDay   = ColorSetting{Temp: 6500, Brightness: 100}
	DefaultNight = ColorSetting{Temp: 3500, Brightness: 90}
)

// TimeOfDay is a wall-clock time with minute precision.
type TimeOfDay struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

// Minutes returns the number of minutes since midnight.
func (t TimeOfDay) Minutes() int {
	return t.Hour*60 + t.Minute
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// Normalized wraps minutes and hours into [0,59] and [0,23].
func (t TimeOfDay) Normalized() TimeOfDay {
	total := ((t.Hour*60+t.Minute)%1440 + 1440) % 1440
	return TimeOfDay{Hour: total / 60, Minute: total % 60}
}

// NightWindow is the [Start, End) time-of-day range considered night.
type NightWindow struct {
	Start TimeOfDay `json:"start"`
	End   TimeOfDay `json:"end"`
}

// Location is a geographic position. The zero value means "unset".
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// IsSet reports whether the location differs from the 0,0 sentinel.
func (l Location) IsSet() bool {
	return l.Latitude != 0 || l.Longitude != 0
}

// Hotkeys holds the shortcut specs for the fixed actions. Empty means unbound.
type Hotkeys struct {
	Toggle         string `json:"toggle"`
	TempUp         string `json:"temp_up"`
	TempDown       string `json:"temp_down"`
	BrightnessUp   string `json:"brightness_up"`
	BrightnessDown string `json:"brightness_down"`
}

// Configuration is the single per-user configuration record.
type Configuration struct {
	Enabled               bool         `json:"enabled"`
	AutoUpdate            bool         `json:"auto_update"`
	UpdateIntervalSeconds int          `json:"update_interval_seconds"`
	SmoothTransition      bool         `json:"smooth_transition"`
	Day                   ColorSetting `json:"day"`
	Night                 ColorSetting `json:"night"`
	EnableNight           bool         `json:"enable_night"`
	ManualNightTime       bool         `json:"manual_night_time"`
	NightWindow           NightWindow  `json:"night_window"`
	Location              Location     `json:"location"`
	Hotkeys               Hotkeys      `json:"hotkeys"`
	Presets               []Preset     `json:"presets"`

	SavedAt time.Time `json:"saved_at"`
	Version string    `json:"version"`
}

// DefaultConfiguration returns the configuration used when nothing is persisted yet.
func DefaultConfiguration() Configuration {
	return Configuration{
		Enabled:               false,
		AutoUpdate:            true,
		UpdateIntervalSeconds: DefaultUpdateIntervalSeconds,
		SmoothTransition:      true,
		Day:                   DefaultDay,
		Night:                 DefaultNight,
		EnableNight:           true,
		ManualNightTime:       false,
		NightWindow: NightWindow{
			Start: TimeOfDay{Hour: 20},
			End:   TimeOfDay{Hour: 6},
		},
		Presets: []Preset{},
	}
}

// Clone returns a copy that shares no slices with c.
func (c Configuration) Clone() Configuration {
	out := c
	out.Presets = ClonePresets(c.Presets)
	return out
}

// Normalize clamps values into their ranges and fixes an invalid interval.
func (c *Configuration) Normalize() {
	c.Day = c.Day.Clamped()
	c.Night = c.Night.Clamped()
	if c.UpdateIntervalSeconds < 1 {
		c.UpdateIntervalSeconds = DefaultUpdateIntervalSeconds
	}
	c.NightWindow.Start = c.NightWindow.Start.Normalized()
	c.NightWindow.End = c.NightWindow.End.Normalized()
	if c.Presets == nil {
		c.Presets = []Preset{}
	}
	for i := range c.Presets {
		c.Presets[i].Day = c.Presets[i].Day.Clamped()
		c.Presets[i].Night = c.Presets[i].Night.Clamped()
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
