package hotkeys

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/redshift-manager/internal/entities"
)

func presetsWithShortcuts(shortcuts ...string) []entities.Preset {
	out := make([]entities.Preset, 0, len(shortcuts))
	for _, s := range shortcuts {
		out = append(out, entities.Preset{Name: "P" + s, Shortcut: s, Day: entities.DefaultDay, Night: entities.DefaultNight})
	}
	return out
}

func TestMemoryRegistry(t *testing.T) {
	r := NewMemoryRegistry()
	calls := 0

	require.NoError(t, r.Register("redshift-toggle", "<Super>r", func() { calls++ }))
	assert.ErrorIs(t, r.Register("x", "", func() {}), ErrEmptyShortcut)

	t.Run("trigger by id", func(t *testing.T) {
		require.NoError(t, r.Trigger("redshift-toggle"))
		assert.Equal(t, 1, calls)
	})

	t.Run("trigger by shortcut", func(t *testing.T) {
		require.NoError(t, r.Trigger("<Super>r"))
		assert.Equal(t, 2, calls)
	})

	t.Run("unknown binding", func(t *testing.T) {
		assert.ErrorIs(t, r.Trigger("nope"), ErrUnknownBinding)
	})

	t.Run("unregister", func(t *testing.T) {
		r.Unregister("redshift-toggle")
		assert.Empty(t, r.Bindings())
		assert.ErrorIs(t, r.Trigger("redshift-toggle"), ErrUnknownBinding)
	})
}

func TestBinder_BindFixed(t *testing.T) {
	r := NewMemoryRegistry()
	var fired []string
	b := NewBinder(r, Actions{
		Toggle:         func() { fired = append(fired, "toggle") },
		TempUp:         func() { fired = append(fired, "temp-up") },
		TempDown:       func() { fired = append(fired, "temp-down") },
		BrightnessUp:   func() { fired = append(fired, "brightness-up") },
		BrightnessDown: func() { fired = append(fired, "brightness-down") },
	})

	b.BindFixed(entities.Hotkeys{Toggle: "<Super>r", TempUp: "<Super>Up"})

	assert.Equal(t, map[string]string{IDToggle: "<Super>r", IDTempUp: "<Super>Up"}, shortcuts(r))

	bindings := r.Bindings()
	require.Len(t, bindings, 2)
	assert.Equal(t, IDTempUp, bindings[0].ID, "bindings are sorted by id")
	assert.Equal(t, IDToggle, bindings[1].ID)

	require.NoError(t, r.Trigger(IDTempUp))
	assert.Equal(t, []string{"temp-up"}, fired)

	b.BindFixed(entities.Hotkeys{BrightnessDown: "<Super>Left"})

	bindings = r.Bindings()
	require.Len(t, bindings, 1)
	assert.Equal(t, IDBrightnessDown, bindings[0].ID)
}

func TestBinder_IndexShiftAfterDelete(t *testing.T) {
	r := NewMemoryRegistry()
	var applied []int
	b := NewBinder(r, Actions{ApplyPreset: func(i int) { applied = append(applied, i) }})

	presets := presetsWithShortcuts("A", "B", "C")
	b.BindPresets(presets)
	require.Len(t, r.Bindings(), 3)

	presets = append(presets[:1], presets[2:]...)
	b.BindPresets(presets)

	bindings := r.Bindings()
	require.Len(t, bindings, 2)
	assert.Equal(t, Binding{ID: "preset-0", Shortcut: "A"}, withoutFn(bindings[0]))
	assert.Equal(t, Binding{ID: "preset-1", Shortcut: "C"}, withoutFn(bindings[1]))

	_, ok := r.Lookup("preset-2")
	assert.False(t, ok)

	require.NoError(t, r.Trigger("C"))
	assert.Equal(t, []int{1}, applied)
}

func TestBinder_SkipsPresetsWithoutShortcut(t *testing.T) {
	r := NewMemoryRegistry()
	b := NewBinder(r, Actions{ApplyPreset: func(int) {}})

	b.BindPresets(presetsWithShortcuts("", "B", ""))

	bindings := r.Bindings()
	require.Len(t, bindings, 1)
	assert.Equal(t, "preset-1", bindings[0].ID)
}

func TestBinder_UnbindAll(t *testing.T) {
	r := NewMemoryRegistry()
	require.NoError(t, r.Register("foreign", "<Ctrl>f", func() {}))
	b := NewBinder(r, Actions{Toggle: func() {}, ApplyPreset: func(int) {}})

	b.BindFixed(entities.Hotkeys{Toggle: "<Super>r"})
	b.BindPresets(presetsWithShortcuts("A"))
	b.UnbindAll()

	bindings := r.Bindings()
	require.Len(t, bindings, 1)
	assert.Equal(t, "foreign", bindings[0].ID)
}

func shortcuts(r *MemoryRegistry) map[string]string {
	out := make(map[string]string)
	for _, b := range r.Bindings() {
		out[b.ID] = b.Shortcut
	}
	return out
}

func withoutFn(b Binding) Binding {
	b.fn = nil
	return b
}
