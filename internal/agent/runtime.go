package agent

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/mrlokans/redshift-manager/internal/entities"
	"github.com/mrlokans/redshift-manager/internal/hotkeys"
	"github.com/mrlokans/redshift-manager/internal/notify"
	"github.com/mrlokans/redshift-manager/internal/tasks"
)

// tick is the periodic job. With auto update off only the status is refreshed.
func (a *Agent) tick() {
	cfg := a.store.Current()
	if !cfg.AutoUpdate {
		a.controller.Refresh()
		return
	}
	a.apply(cfg)
}

// apply runs the controller and persists a recomputed night window.
func (a *Agent) apply(cfg entities.Configuration) {
	updated, changed := a.controller.Tick(cfg, a.now())
	if changed {
		a.save(updated)
	}
}

// save persists cfg. Persistence failures are logged and otherwise ignored.
func (a *Agent) save(cfg entities.Configuration) {
	if err := a.store.Save(cfg); err != nil {
		log.Printf("Agent: failed to persist configuration: %v", err)
	}
}

// poll runs on a scheduler goroutine; subscribers post changes to the queue.
func (a *Agent) poll() {
	if a.cfg.Settings == nil {
		return
	}
	if _, err := a.cfg.Settings.Poll(); err != nil {
		log.Printf("Agent: settings poll failed: %v", err)
	}
}

// cleanup removes old audit events, through the task queue when available.
func (a *Agent) cleanup() {
	days := a.cfg.AuditRetentionDays
	if days <= 0 {
		return
	}
	if a.cfg.Tasks != nil {
		if _, err := a.cfg.Tasks.Add(tasks.CleanupAuditEventsTask{RetentionDays: days}).Save(); err != nil {
			log.Printf("Agent: failed to enqueue audit cleanup: %v", err)
		}
		return
	}
	if a.events == nil {
		return
	}
	deleted, err := a.events.DeleteOldEvents(time.Duration(days) * 24 * time.Hour)
	if err != nil {
		log.Printf("Agent: audit cleanup failed: %v", err)
		return
	}
	log.Printf("Agent: removed %d audit events older than %d days", deleted, days)
}

func (a *Agent) onBackendChange(value string) {
	changed, err := a.store.HandleBackendChange(value)
	if err != nil {
		log.Printf("Agent: settings backend change: %v", err)
	}
	if changed {
		a.binder.BindPresets(a.store.Current().Presets)
	}
}

func (a *Agent) onFileChange() {
	changed, err := a.store.HandleFileChange()
	if err != nil {
		log.Printf("Agent: configuration file change: %v", err)
	}
	if changed {
		a.reconfigure()
	}
}

// reconfigure brings hotkeys, the tick interval and the display in line with
// a configuration replaced as a whole.
func (a *Agent) reconfigure() {
	cfg := a.store.Current()
	a.binder.BindFixed(cfg.Hotkeys)
	a.binder.BindPresets(cfg.Presets)
	a.scheduler.Reschedule(interval(cfg))
	a.apply(cfg)
}

func (a *Agent) rebindPresets() {
	a.binder.BindPresets(a.store.Current().Presets)
}

// locateIfUnset enqueues a lookup when no location is known and the night
// window follows the sun.
func (a *Agent) locateIfUnset(reason string) {
	cfg := a.store.Current()
	if cfg.Location.IsSet() || cfg.ManualNightTime {
		return
	}
	if a.cfg.Tasks == nil {
		if a.cfg.Locator != nil {
			go a.lookup(a.ctx, reason)
		}
		return
	}
	if _, err := a.cfg.Tasks.Add(tasks.LocateTask{Reason: reason}).Save(); err != nil {
		log.Printf("Agent: failed to enqueue location lookup: %v", err)
		return
	}
	log.Printf("Agent: location unset, lookup queued")
}

// lookup resolves the location without the task queue, in a single attempt.
func (a *Agent) lookup(ctx context.Context, reason string) {
	loc, err := a.cfg.Locator.Lookup(ctx)
	if err != nil {
		a.LocationFailed(fmt.Errorf("locate (%s): %w", reason, err))
		return
	}
	a.LocationFound(loc)
}

// LocationFound adopts a looked-up location unless one was set meanwhile.
func (a *Agent) LocationFound(loc entities.Location) {
	a.Post(func() {
		cfg := a.store.Current()
		if cfg.Location.IsSet() {
			log.Printf("Agent: location already set, ignoring lookup result")
			return
		}
		cfg.Location = loc
		a.save(cfg)
		a.events.LogLocation(fmt.Sprintf("Location detected: %v, %v", loc.Latitude, loc.Longitude), nil)
		a.apply(a.store.Current())
	})
}

// LocationFailed leaves the location unset.
func (a *Agent) LocationFailed(err error) {
	log.Printf("Agent: failed to get location: %v", err)
	a.events.LogLocation("Location lookup failed", err)
}

func (a *Agent) hotkeyActions() hotkeys.Actions {
	post := func(name string, fn func() error) func() {
		return func() {
			a.Post(func() {
				if err := fn(); err != nil && !errors.Is(err, ErrDisabled) {
					log.Printf("Agent: hotkey %s: %v", name, err)
				}
			})
		}
	}
	return hotkeys.Actions{
		Toggle:         post(hotkeys.IDToggle, func() error { _, err := a.toggle(); return err }),
		TempUp:         post(hotkeys.IDTempUp, func() error { _, err := a.adjustTemp(TempStep); return err }),
		TempDown:       post(hotkeys.IDTempDown, func() error { _, err := a.adjustTemp(-TempStep); return err }),
		BrightnessUp:   post(hotkeys.IDBrightnessUp, func() error { _, err := a.adjustBrightness(BrightnessStep); return err }),
		BrightnessDown: post(hotkeys.IDBrightnessDown, func() error { _, err := a.adjustBrightness(-BrightnessStep); return err }),
		ApplyPreset: func(index int) {
			post(entities.PresetHotkeyID(index), func() error { return a.presets.ApplyByIndex(index) })()
		},
	}
}

// importDone finishes an import: notification, hotkeys, interval and display.
// On error the configuration was left untouched.
func (a *Agent) importDone(err error) error {
	if err != nil {
		a.notifier.Notify(fmt.Sprintf("Error importing configuration: %v", err), notify.UrgencyCritical)
		return err
	}
	a.notifier.Notify("Configuration imported successfully", notify.UrgencyNormal)
	a.reconfigure()
	return nil
}
