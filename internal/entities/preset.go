package entities

import (
	"fmt"

	"github.com/google/uuid"
)

// Preset is a named, user-saved day/night value pair, optionally bound to a shortcut.
// Its position in Configuration.Presets is the identity used for shortcut registration.
type Preset struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Shortcut string       `json:"shortcut"`
	Day      ColorSetting `json:"day"`
	Night    ColorSetting `json:"night"`
}

// NewPresetID returns a fresh opaque preset identifier.
func NewPresetID() string {
	return uuid.NewString()
}

// PresetHotkeyID is the hotkey registry id of the preset at index.
func PresetHotkeyID(index int) string {
	return fmt.Sprintf("preset-%d", index)
}

// ClonePresets copies a preset slice. A nil input yields an empty slice.
func ClonePresets(presets []Preset) []Preset {
	out := make([]Preset, len(presets))
	copy(out, presets)
	return out
}

// EnsurePresetIDs assigns identifiers to presets that lack one.
// Returns true when any preset was changed.
func EnsurePresetIDs(presets []Preset) bool {
	changed := false
	for i := range presets {
		if presets[i].ID == "" {
			presets[i].ID = NewPresetID()
			changed = true
		}
	}
	return changed
}
