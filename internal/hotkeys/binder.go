package hotkeys

import (
	"log"

	"github.com/mrlokans/redshift-manager/internal/entities"
)

// Fixed binding ids.
const (
	IDToggle         = "redshift-toggle"
	IDTempUp         = "redshift-temp-up"
	IDTempDown       = "redshift-temp-down"
	IDBrightnessUp   = "redshift-brightness-up"
	IDBrightnessDown = "redshift-brightness-down"
)

// Actions are the callbacks the bindings invoke. ApplyPreset receives the
// index the preset had when it was bound; the receiver must re-validate it.
type Actions struct {
	Toggle         func()
	TempUp         func()
	TempDown       func()
	BrightnessUp   func()
	BrightnessDown func()
	ApplyPreset    func(index int)
}

// Binder tracks what it registered so it can replace it wholesale.
type Binder struct {
	registry Registry
	actions  Actions

	fixed   []string
	presets []string
}

func NewBinder(registry Registry, actions Actions) *Binder {
	return &Binder{registry: registry, actions: actions}
}

// BindFixed replaces the bindings of the fixed actions.
func (b *Binder) BindFixed(keys entities.Hotkeys) {
	for _, id := range b.fixed {
		b.registry.Unregister(id)
	}
	b.fixed = b.fixed[:0]

	for _, binding := range []struct {
		id       string
		shortcut string
		fn       func()
	}{
		{IDToggle, keys.Toggle, b.actions.Toggle},
		{IDTempUp, keys.TempUp, b.actions.TempUp},
		{IDTempDown, keys.TempDown, b.actions.TempDown},
		{IDBrightnessUp, keys.BrightnessUp, b.actions.BrightnessUp},
		{IDBrightnessDown, keys.BrightnessDown, b.actions.BrightnessDown},
	} {
		if binding.shortcut == "" || binding.fn == nil {
			continue
		}
		if err := b.registry.Register(binding.id, binding.shortcut, binding.fn); err != nil {
			log.Printf("Hotkeys: failed to register %s (%s): %v", binding.id, binding.shortcut, err)
			continue
		}
		b.fixed = append(b.fixed, binding.id)
	}
}

// BindPresets unregisters every preset binding made before and registers
// "preset-<index>" for each preset that has a shortcut.
func (b *Binder) BindPresets(presets []entities.Preset) {
	for _, id := range b.presets {
		b.registry.Unregister(id)
	}
	b.presets = b.presets[:0]

	for i, p := range presets {
		if p.Shortcut == "" || b.actions.ApplyPreset == nil {
			continue
		}
		index := i
		id := entities.PresetHotkeyID(index)
		if err := b.registry.Register(id, p.Shortcut, func() { b.actions.ApplyPreset(index) }); err != nil {
			log.Printf("Hotkeys: failed to register %s (%s): %v", id, p.Shortcut, err)
			continue
		}
		b.presets = append(b.presets, id)
	}
	log.Printf("Hotkeys: %d preset shortcuts registered", len(b.presets))
}

// UnbindAll removes every binding this binder registered.
func (b *Binder) UnbindAll() {
	for _, id := range b.fixed {
		b.registry.Unregister(id)
	}
	for _, id := range b.presets {
		b.registry.Unregister(id)
	}
	b.fixed = b.fixed[:0]
	b.presets = b.presets[:0]
}
