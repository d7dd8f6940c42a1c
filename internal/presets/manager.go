// Package presets manages the ordered list of user presets: creation,
// shortcut assignment, editing, deletion and the debounced apply.
//
// A preset's position in the list is the identity used for shortcut
// registration, so every mutation that can shift positions ends with the
// presets-changed callback, after which all shortcuts must be registered again.
package presets

import (
	"fmt"
	"log"
	"strings"
	"sync/atomic"
	"time"

	"github.com/mrlokans/redshift-manager/internal/audit"
	"github.com/mrlokans/redshift-manager/internal/entities"
	"github.com/mrlokans/redshift-manager/internal/schedule"
)

const (
	// DebounceWindow is the minimum time between two successful applies.
	DebounceWindow = 300 * time.Millisecond
	// LockDuration is how long an apply holds the lock after it started.
	LockDuration = 350 * time.Millisecond
)

// Store is the persistence the manager reads from and writes through.
type Store interface {
	Current() entities.Configuration
	Save(cfg entities.Configuration) error
}

// Display receives the values of an applied preset.
type Display interface {
	SetCurrent(temp, brightness int)
	Redisplay(cfg entities.Configuration)
}

// Manager is not safe for concurrent use; the agent serializes calls on its
// task queue. The apply lock is released by a Clock timer, which may fire on
// any goroutine.
type Manager struct {
	store   Store
	display Display
	clock   Clock
	events  *audit.Service

	onChange func()

	applying    atomic.Bool
	lastApplyAt time.Time
}

// NewManager returns a manager over store. A nil clock means SystemClock.
func NewManager(store Store, display Display, clock Clock, events *audit.Service) *Manager {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Manager{
		store:   store,
		display: display,
		clock:   clock,
		events:  events,
	}
}

// OnPresetsChanged registers fn to be called after the list or any shortcut changed.
func (m *Manager) OnPresetsChanged(fn func()) {
	m.onChange = fn
}

// List returns a copy of the presets in order.
func (m *Manager) List() []entities.Preset {
	return m.store.Current().Presets
}

// IndexOf returns the current position of the preset with id.
func (m *Manager) IndexOf(id string) (int, bool) {
	for i, p := range m.store.Current().Presets {
		if p.ID == id {
			return i, true
		}
	}
	return -1, false
}

// Create appends a preset that snapshots the current day and night values.
// An empty name becomes "Preset N" where N is the new list length.
func (m *Manager) Create(name string) (entities.Preset, error) {
	cfg := m.store.Current()

	name = strings.TrimSpace(name)
	if name == "" {
		name = fmt.Sprintf("Preset %d", len(cfg.Presets)+1)
	}

	preset := entities.Preset{
		ID:    entities.NewPresetID(),
		Name:  name,
		Day:   cfg.Day,
		Night: cfg.Night,
	}
	cfg.Presets = append(cfg.Presets, preset)

	m.persist(cfg)
	log.Printf("Presets: created %q at index %d", preset.Name, len(cfg.Presets)-1)
	m.events.LogPreset("preset_create", "Created preset "+preset.Name, nil)
	m.changed()
	return preset, nil
}

// ApplyByIndex copies the preset's values into the active configuration.
// Applies are rejected with ErrDebounced while a previous apply holds the
// lock or less than DebounceWindow has passed since it.
func (m *Manager) ApplyByIndex(index int) error {
	cfg := m.store.Current()
	if index < 0 || index >= len(cfg.Presets) {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}

	now := m.clock.Now()
	if m.applying.Load() || (!m.lastApplyAt.IsZero() && now.Sub(m.lastApplyAt) < DebounceWindow) {
		log.Printf("Presets: apply of index %d debounced", index)
		return ErrDebounced
	}
	m.applying.Store(true)
	m.lastApplyAt = now
	m.clock.AfterFunc(LockDuration, func() {
		m.applying.Store(false)
	})

	preset := cfg.Presets[index]
	cfg.Day = preset.Day
	cfg.Night = preset.Night

	if !schedule.IsNightNow(cfg, now) {
		m.display.SetCurrent(preset.Day.Temp, preset.Day.Brightness)
	}

	m.persist(cfg)
	m.display.Redisplay(m.store.Current())

	log.Printf("Presets: applied %q", preset.Name)
	m.events.LogPreset("preset_apply", "Applied preset "+preset.Name, nil)
	return nil
}

// SetShortcut binds shortcut to the preset at index. An empty shortcut removes the binding.
func (m *Manager) SetShortcut(index int, shortcut string) error {
	cfg := m.store.Current()
	if index < 0 || index >= len(cfg.Presets) {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}

	cfg.Presets[index].Shortcut = strings.TrimSpace(shortcut)
	m.persist(cfg)

	if cfg.Presets[index].Shortcut == "" {
		log.Printf("Presets: removed shortcut of %q", cfg.Presets[index].Name)
	} else {
		log.Printf("Presets: %q bound to %s", cfg.Presets[index].Name, cfg.Presets[index].Shortcut)
	}
	m.events.LogPreset("preset_shortcut", "Shortcut of "+cfg.Presets[index].Name+" set to "+quoteOrNone(cfg.Presets[index].Shortcut), nil)
	m.changed()
	return nil
}

// Update edits the preset at index in place. An empty name keeps the current one.
func (m *Manager) Update(index int, name string, day, night entities.ColorSetting) error {
	cfg := m.store.Current()
	if index < 0 || index >= len(cfg.Presets) {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}

	if name = strings.TrimSpace(name); name != "" {
		cfg.Presets[index].Name = name
	}
	cfg.Presets[index].Day = day.Clamped()
	cfg.Presets[index].Night = night.Clamped()

	m.persist(cfg)
	m.events.LogPreset("preset_update", "Updated preset "+cfg.Presets[index].Name, nil)
	m.changed()
	return nil
}

// DeleteByIndex removes the preset at index. Every later preset moves down by one.
func (m *Manager) DeleteByIndex(index int) (entities.Preset, error) {
	cfg := m.store.Current()
	if index < 0 || index >= len(cfg.Presets) {
		return entities.Preset{}, fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}

	removed := cfg.Presets[index]
	cfg.Presets = append(cfg.Presets[:index], cfg.Presets[index+1:]...)

	m.persist(cfg)
	log.Printf("Presets: deleted %q", removed.Name)
	m.events.LogPreset("preset_delete", "Deleted preset "+removed.Name, nil)
	m.changed()
	return removed, nil
}

// persist saves cfg. Failures are logged; the in-memory state is already updated.
func (m *Manager) persist(cfg entities.Configuration) {
	if err := m.store.Save(cfg); err != nil {
		log.Printf("Presets: failed to persist configuration: %v", err)
	}
}

func (m *Manager) changed() {
	if m.onChange != nil {
		m.onChange()
	}
}

func quoteOrNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}
