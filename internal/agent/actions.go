package agent

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/mrlokans/redshift-manager/internal/configstore"
	"github.com/mrlokans/redshift-manager/internal/controller"
	"github.com/mrlokans/redshift-manager/internal/entities"
	"github.com/mrlokans/redshift-manager/internal/notify"
	"github.com/mrlokans/redshift-manager/internal/presets"
	"github.com/mrlokans/redshift-manager/internal/status"
	"github.com/mrlokans/redshift-manager/internal/suncalc"
)

// Step sizes of the adjustment hotkeys.
const (
	TempStep       = 50
	BrightnessStep = 5
)

// PresetRef addresses a preset by position or by id. An id is resolved to
// the current position when the operation runs.
type PresetRef struct {
	Index int
	ID    string
}

func ByIndex(i int) PresetRef { return PresetRef{Index: i} }

func ByID(id string) PresetRef { return PresetRef{ID: id} }

// ParsePresetRef treats a decimal number as an index and anything else as an id.
func ParsePresetRef(s string) PresetRef {
	if i, err := strconv.Atoi(s); err == nil {
		return ByIndex(i)
	}
	return ByID(s)
}

func (a *Agent) resolve(ref PresetRef) (int, error) {
	if ref.ID == "" {
		return ref.Index, nil
	}
	if i, ok := a.presets.IndexOf(ref.ID); ok {
		return i, nil
	}
	return -1, fmt.Errorf("%w: %s", ErrPresetNotFound, ref.ID)
}

// SettingsUpdate is a partial settings change. Nil fields are left alone.
type SettingsUpdate struct {
	Enabled               *bool                  `json:"enabled,omitempty"`
	AutoUpdate            *bool                  `json:"auto_update,omitempty"`
	UpdateIntervalSeconds *int                   `json:"update_interval_seconds,omitempty"`
	SmoothTransition      *bool                  `json:"smooth_transition,omitempty"`
	Day                   *entities.ColorSetting `json:"day,omitempty"`
	Night                 *entities.ColorSetting `json:"night,omitempty"`
	EnableNight           *bool                  `json:"enable_night,omitempty"`
	ManualNightTime       *bool                  `json:"manual_night_time,omitempty"`
	NightWindow           *entities.NightWindow  `json:"night_window,omitempty"`
	Location              *entities.Location     `json:"location,omitempty"`
	Hotkeys               *entities.Hotkeys      `json:"hotkeys,omitempty"`
}

// Validate rejects values outside their ranges.
func (u SettingsUpdate) Validate() error {
	if u.UpdateIntervalSeconds != nil && *u.UpdateIntervalSeconds < 1 {
		return fmt.Errorf("%w: update interval must be at least 1 second", ErrInvalidSettings)
	}
	for name, c := range map[string]*entities.ColorSetting{"day": u.Day, "night": u.Night} {
		if c == nil {
			continue
		}
		if err := c.Validate(); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidSettings, name, err)
		}
	}
	if w := u.NightWindow; w != nil {
		for _, t := range []entities.TimeOfDay{w.Start, w.End} {
			if t.Hour < 0 || t.Hour > 23 || t.Minute < 0 || t.Minute > 59 {
				return fmt.Errorf("%w: night window time %02d:%02d", ErrInvalidSettings, t.Hour, t.Minute)
			}
		}
	}
	if l := u.Location; l != nil {
		if l.Latitude < -90 || l.Latitude > 90 || l.Longitude < -180 || l.Longitude > 180 {
			return fmt.Errorf("%w: location %v, %v", ErrInvalidSettings, l.Latitude, l.Longitude)
		}
	}
	return nil
}

func (u SettingsUpdate) applyTo(cfg *entities.Configuration) {
	if u.Enabled != nil {
		cfg.Enabled = *u.Enabled
	}
	if u.AutoUpdate != nil {
		cfg.AutoUpdate = *u.AutoUpdate
	}
	if u.UpdateIntervalSeconds != nil {
		cfg.UpdateIntervalSeconds = *u.UpdateIntervalSeconds
	}
	if u.SmoothTransition != nil {
		cfg.SmoothTransition = *u.SmoothTransition
	}
	if u.Day != nil {
		cfg.Day = *u.Day
	}
	if u.Night != nil {
		cfg.Night = *u.Night
	}
	if u.EnableNight != nil {
		cfg.EnableNight = *u.EnableNight
	}
	if u.ManualNightTime != nil {
		cfg.ManualNightTime = *u.ManualNightTime
	}
	if u.NightWindow != nil {
		cfg.NightWindow = *u.NightWindow
	}
	if u.Location != nil {
		cfg.Location = *u.Location
	}
	if u.Hotkeys != nil {
		cfg.Hotkeys = *u.Hotkeys
	}
}

// Config returns the current configuration.
func (a *Agent) Config(ctx context.Context) (entities.Configuration, error) {
	return call(ctx, a, func() (entities.Configuration, error) {
		return a.store.Current(), nil
	})
}

// State returns the runtime state of the controller.
func (a *Agent) State(ctx context.Context) (controller.RuntimeState, error) {
	return call(ctx, a, func() (controller.RuntimeState, error) {
		return a.controller.State(), nil
	})
}

// Status returns the last published status.
func (a *Agent) Status() status.Status {
	return a.cfg.Board.Current()
}

// NextTick returns when the scheduler fires next, or nil when it is not running.
func (a *Agent) NextTick() *time.Time {
	return a.scheduler.GetNextRunTime()
}

// UpdateSettings applies a partial settings change, persists it and applies
// the result.
func (a *Agent) UpdateSettings(ctx context.Context, u SettingsUpdate) (entities.Configuration, error) {
	if err := u.Validate(); err != nil {
		return entities.Configuration{}, err
	}
	return call(ctx, a, func() (entities.Configuration, error) {
		before := a.store.Current()
		cfg := before.Clone()
		u.applyTo(&cfg)
		a.save(cfg)
		cfg = a.store.Current()

		if cfg.Hotkeys != before.Hotkeys {
			a.binder.BindFixed(cfg.Hotkeys)
		}
		if cfg.UpdateIntervalSeconds != before.UpdateIntervalSeconds {
			a.scheduler.Reschedule(interval(cfg))
		}
		if cfg.Location != before.Location {
			a.events.LogLocation(fmt.Sprintf("Location set to %v, %v", cfg.Location.Latitude, cfg.Location.Longitude), nil)
		}
		a.events.LogSettings("settings_update", "Settings updated")
		a.apply(cfg)
		return a.store.Current(), nil
	})
}

// SetEnabled switches redshift on or off.
func (a *Agent) SetEnabled(ctx context.Context, enabled bool) error {
	return a.Do(ctx, func() error {
		a.setEnabled(enabled)
		return nil
	})
}

func (a *Agent) setEnabled(enabled bool) {
	cfg := a.store.Current()
	cfg.Enabled = enabled
	a.save(cfg)
	log.Printf("Agent: redshift enabled=%v", enabled)
	a.events.LogSettings("toggle", fmt.Sprintf("Enabled set to %v", enabled))
	a.apply(a.store.Current())
}

// Toggle flips the enabled flag and returns the new value.
func (a *Agent) Toggle(ctx context.Context) (bool, error) {
	return call(ctx, a, a.toggle)
}

func (a *Agent) toggle() (bool, error) {
	enabled := !a.store.Current().Enabled
	a.setEnabled(enabled)
	return enabled, nil
}

// AdjustTemp changes the day temperature by delta, within range. It returns
// ErrDisabled while redshift is off.
func (a *Agent) AdjustTemp(ctx context.Context, delta int) (entities.ColorSetting, error) {
	return call(ctx, a, func() (entities.ColorSetting, error) { return a.adjustTemp(delta) })
}

func (a *Agent) adjustTemp(delta int) (entities.ColorSetting, error) {
	return a.adjustDay(func(day *entities.ColorSetting) { day.Temp += delta })
}

// AdjustBrightness changes the day brightness by delta, within range.
func (a *Agent) AdjustBrightness(ctx context.Context, delta int) (entities.ColorSetting, error) {
	return call(ctx, a, func() (entities.ColorSetting, error) { return a.adjustBrightness(delta) })
}

func (a *Agent) adjustBrightness(delta int) (entities.ColorSetting, error) {
	return a.adjustDay(func(day *entities.ColorSetting) { day.Brightness += delta })
}

func (a *Agent) adjustDay(change func(*entities.ColorSetting)) (entities.ColorSetting, error) {
	cfg := a.store.Current()
	if !cfg.Enabled {
		return cfg.Day, ErrDisabled
	}
	change(&cfg.Day)
	cfg.Day = cfg.Day.Clamped()
	a.controller.SetCurrent(cfg.Day.Temp, cfg.Day.Brightness)
	a.save(cfg)
	a.apply(a.store.Current())
	return cfg.Day, nil
}

// Reset deactivates the display without changing the configuration.
func (a *Agent) Reset(ctx context.Context) error {
	return a.Do(ctx, func() error {
		a.controller.Reset()
		return nil
	})
}

// SetLocation stores a location and recomputes the night window.
func (a *Agent) SetLocation(ctx context.Context, loc entities.Location) (entities.Configuration, error) {
	return a.UpdateSettings(ctx, SettingsUpdate{Location: &loc})
}

// SunTimes computes sunrise and sunset at the configured location for date.
func (a *Agent) SunTimes(ctx context.Context, date time.Time) (suncalc.SunTimes, error) {
	return call(ctx, a, func() (suncalc.SunTimes, error) {
		loc := a.store.Current().Location
		if !loc.IsSet() {
			return suncalc.SunTimes{}, fmt.Errorf("%w: location is not set", ErrInvalidSettings)
		}
		return suncalc.Compute(loc.Latitude, loc.Longitude, date)
	})
}

// Presets returns the preset list in order.
func (a *Agent) Presets(ctx context.Context) ([]entities.Preset, error) {
	return call(ctx, a, func() ([]entities.Preset, error) {
		return a.presets.List(), nil
	})
}

// CreatePreset saves the current day and night values as a new preset.
func (a *Agent) CreatePreset(ctx context.Context, name string) (entities.Preset, error) {
	return call(ctx, a, func() (entities.Preset, error) {
		return a.presets.Create(name)
	})
}

// ApplyPreset applies a preset subject to the debounce.
func (a *Agent) ApplyPreset(ctx context.Context, ref PresetRef) error {
	return a.Do(ctx, func() error {
		i, err := a.resolve(ref)
		if err != nil {
			return err
		}
		return a.presets.ApplyByIndex(i)
	})
}

// SetPresetShortcut binds or, with an empty shortcut, unbinds a preset.
func (a *Agent) SetPresetShortcut(ctx context.Context, ref PresetRef, shortcut string) error {
	return a.Do(ctx, func() error {
		i, err := a.resolve(ref)
		if err != nil {
			return err
		}
		return a.presets.SetShortcut(i, shortcut)
	})
}

// UpdatePreset edits name and values of a preset.
func (a *Agent) UpdatePreset(ctx context.Context, ref PresetRef, name string, day, night entities.ColorSetting) error {
	return a.Do(ctx, func() error {
		i, err := a.resolve(ref)
		if err != nil {
			return err
		}
		return a.presets.Update(i, name, day, night)
	})
}

// DeletePreset removes a preset; later presets move down and all preset
// shortcuts are registered again.
func (a *Agent) DeletePreset(ctx context.Context, ref PresetRef) (entities.Preset, error) {
	return call(ctx, a, func() (entities.Preset, error) {
		i, err := a.resolve(ref)
		if err != nil {
			return entities.Preset{}, err
		}
		return a.presets.DeleteByIndex(i)
	})
}

// ImportFile imports the configuration document at path.
func (a *Agent) ImportFile(ctx context.Context, path string) (entities.Configuration, error) {
	return call(ctx, a, func() (entities.Configuration, error) {
		cfg, err := a.store.ImportFile(path)
		return cfg, a.importDone(err)
	})
}

// ImportBytes imports a configuration document received from source.
func (a *Agent) ImportBytes(ctx context.Context, raw []byte, source string) (entities.Configuration, error) {
	return call(ctx, a, func() (entities.Configuration, error) {
		cfg, err := a.store.ImportBytes(raw, source)
		return cfg, a.importDone(err)
	})
}

// Export returns the current configuration as a download document.
func (a *Agent) Export(ctx context.Context) (configstore.Document, error) {
	return call(ctx, a, a.store.Export)
}

// ExportToDir writes the export into dir, or the configured export
// directory when dir is empty, and returns the written path.
func (a *Agent) ExportToDir(ctx context.Context, dir string) (string, error) {
	if dir == "" && a.cfg.Settings != nil {
		dir = a.cfg.Settings.GetExportDir()
	}
	return call(ctx, a, func() (string, error) {
		path, err := a.store.ExportTo(dir)
		if err != nil {
			a.notifier.Notify(fmt.Sprintf("Error exporting configuration: %v", err), notify.UrgencyCritical)
			return "", err
		}
		a.notifier.Notify("Configuration exported to "+path, notify.UrgencyNormal)
		return path, nil
	})
}

var _ presets.Display = display{}
