// Package controller turns a configuration into a call to the external
// activator and a published status.
package controller

import (
	"log"
	"time"

	"github.com/mrlokans/redshift-manager/internal/activator"
	"github.com/mrlokans/redshift-manager/internal/entities"
	"github.com/mrlokans/redshift-manager/internal/schedule"
	"github.com/mrlokans/redshift-manager/internal/status"
)

// RuntimeState is derived on every tick and never persisted.
type RuntimeState struct {
	CurrentTemp       int       `json:"current_temp"`
	CurrentBrightness int       `json:"current_brightness"`
	Active            bool      `json:"active"`
	Night             bool      `json:"night"`
	LastAppliedAt     time.Time `json:"last_applied_at"`
}

// Controller must be used from a single goroutine.
type Controller struct {
	activator activator.Activator
	publisher status.Publisher
	now       func() time.Time

	state RuntimeState
}

func New(a activator.Activator, p status.Publisher, now func() time.Time) *Controller {
	if now == nil {
		now = time.Now
	}
	return &Controller{
		activator: a,
		publisher: p,
		now:       now,
		state: RuntimeState{
			CurrentTemp:       entities.DefaultDay.Temp,
			CurrentBrightness: entities.DefaultDay.Brightness,
		},
	}
}

// Tick refreshes the night window, then activates the effective values or
// deactivates when disabled. The possibly updated configuration is returned
// with whether the night window changed, so the caller can persist it.
func (c *Controller) Tick(cfg entities.Configuration, now time.Time) (entities.Configuration, bool) {
	cfg, changed := schedule.RefreshNightWindow(cfg, now)
	if changed {
		log.Printf("Controller: night window is now %s-%s", cfg.NightWindow.Start, cfg.NightWindow.End)
	}

	eff, ok := schedule.EffectiveValues(cfg, now)
	if !ok {
		c.activator.Deactivate()
		c.state.Active = false
		c.state.Night = false
		c.publish(now)
		return cfg, changed
	}

	c.activator.Activate(eff.Temp, eff.BrightnessFraction())
	c.state.Active = true
	c.state.Night = eff.Night
	c.state.CurrentTemp = eff.Temp
	c.state.CurrentBrightness = eff.Brightness
	c.state.LastAppliedAt = now
	c.publish(now)
	return cfg, changed
}

// Reset forces deactivation regardless of configuration.
func (c *Controller) Reset() {
	c.activator.Deactivate()
	c.state.Active = false
	c.state.Night = false
	c.publish(c.now())
}

// SetCurrent records values applied outside a tick, e.g. by a preset.
func (c *Controller) SetCurrent(temp, brightness int) {
	c.state.CurrentTemp = temp
	c.state.CurrentBrightness = brightness
}

// Refresh publishes the status without touching the display.
func (c *Controller) Refresh() {
	c.publish(c.now())
}

func (c *Controller) State() RuntimeState {
	return c.state
}

func (c *Controller) Status() status.Status {
	return status.New(c.state.Active, c.state.Night, c.state.CurrentTemp, c.state.CurrentBrightness, c.now())
}

func (c *Controller) publish(at time.Time) {
	if c.publisher == nil {
		return
	}
	c.publisher.Publish(status.New(c.state.Active, c.state.Night, c.state.CurrentTemp, c.state.CurrentBrightness, at))
}
