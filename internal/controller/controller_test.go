package controller

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/redshift-manager/internal/entities"
	"github.com/mrlokans/redshift-manager/internal/status"
)

type call struct {
	activate   bool
	temp       int
	brightness float64
}

type fakeActivator struct {
	calls []call
}

func (f *fakeActivator) Activate(temp int, brightness float64) {
	f.calls = append(f.calls, call{activate: true, temp: temp, brightness: brightness})
}

func (f *fakeActivator) Deactivate() {
	f.calls = append(f.calls, call{})
}

func at(hour, minute int) time.Time {
	return time.Date(2026, 3, 20, hour, minute, 0, 0, time.UTC)
}

func setup() (*Controller, *fakeActivator, *status.Board) {
	a := &fakeActivator{}
	b := status.NewBoard()
	return New(a, b, func() time.Time { return at(12, 0) }), a, b
}

func TestTick(t *testing.T) {
	t.Run("disabled deactivates", func(t *testing.T) {
		c, a, b := setup()
		cfg := entities.DefaultConfiguration()

		_, changed := c.Tick(cfg, at(12, 0))

		assert.False(t, changed)
		require.Len(t, a.calls, 1)
		assert.False(t, a.calls[0].activate)
		assert.False(t, c.State().Active)
		assert.Equal(t, "Inactive", b.Current().Text)
	})

	t.Run("day values", func(t *testing.T) {
		c, a, b := setup()
		cfg := entities.DefaultConfiguration()
		cfg.Enabled = true

		c.Tick(cfg, at(12, 0))

		require.Len(t, a.calls, 1)
		assert.Equal(t, call{activate: true, temp: 6500, brightness: 1}, a.calls[0])
		assert.Equal(t, "Active — 6500K @ 100%", b.Current().Text)
		assert.Equal(t, "Redshift: Active — 6500K @ 100%", b.Current().Tooltip)
		assert.Equal(t, at(12, 0), c.State().LastAppliedAt)
	})

	t.Run("night values", func(t *testing.T) {
		c, a, b := setup()
		cfg := entities.DefaultConfiguration()
		cfg.Enabled = true

		c.Tick(cfg, at(23, 30))

		require.Len(t, a.calls, 1)
		assert.Equal(t, call{activate: true, temp: 3500, brightness: 0.9}, a.calls[0])
		assert.True(t, c.State().Night)
		assert.Equal(t, "Active — 3500K @ 90%", b.Current().Text)
	})

	t.Run("sun-derived window is returned", func(t *testing.T) {
		c, _, _ := setup()
		cfg := entities.DefaultConfiguration()
		cfg.Enabled = true
		cfg.Location = entities.Location{Latitude: 51.4769, Longitude: 0.0005}

		updated, changed := c.Tick(cfg, at(12, 0))

		assert.True(t, changed)
		assert.NotEqual(t, cfg.NightWindow, updated.NightWindow)

		_, changed = c.Tick(updated, at(12, 5))
		assert.False(t, changed)
	})

	t.Run("manual window is kept", func(t *testing.T) {
		c, _, _ := setup()
		cfg := entities.DefaultConfiguration()
		cfg.ManualNightTime = true
		cfg.Location = entities.Location{Latitude: 51.4769, Longitude: 0.0005}

		updated, changed := c.Tick(cfg, at(12, 0))

		assert.False(t, changed)
		assert.Equal(t, cfg.NightWindow, updated.NightWindow)
	})
}

func TestReset(t *testing.T) {
	c, a, b := setup()
	cfg := entities.DefaultConfiguration()
	cfg.Enabled = true
	c.Tick(cfg, at(12, 0))

	c.Reset()

	require.Len(t, a.calls, 2)
	assert.False(t, a.calls[1].activate)
	assert.False(t, c.State().Active)
	assert.Equal(t, "Inactive", b.Current().Text)
}

func TestSetCurrent(t *testing.T) {
	c, _, _ := setup()
	c.SetCurrent(4200, 70)

	assert.Equal(t, 4200, c.State().CurrentTemp)
	assert.Equal(t, 70, c.State().CurrentBrightness)
	assert.Equal(t, "Inactive", c.Status().Text)
}
