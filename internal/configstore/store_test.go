package configstore

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/redshift-manager/internal/audit"
	"github.com/mrlokans/redshift-manager/internal/entities"
)

type fakeFile struct {
	data     []byte
	exists   bool
	writes   int
	writeErr error
}

func (f *fakeFile) Read() ([]byte, error) {
	if !f.exists {
		return nil, fs.ErrNotExist
	}
	return append([]byte(nil), f.data...), nil
}

func (f *fakeFile) Write(data []byte) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.writes++
	f.data = append([]byte(nil), data...)
	f.exists = true
	return nil
}

// fakeBackend echoes every write synchronously, a stricter backend than the settings store.
type fakeBackend struct {
	values   map[string]string
	writes   int
	onChange func(value string)
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{values: map[string]string{}}
}

func (b *fakeBackend) GetValue(key string) (string, bool, error) {
	v, ok := b.values[key]
	return v, ok, nil
}

func (b *fakeBackend) SetValue(key, value string) error {
	b.writes++
	b.values[key] = value
	if b.onChange != nil {
		b.onChange(value)
	}
	return nil
}

var fixedNow = time.Date(2026, time.October, 15, 9, 0, 0, 0, time.UTC)

func newTestStore(file *fakeFile, backend *fakeBackend) *Store {
	store := New(file, backend, Options{
		Now:     func() time.Time { return fixedNow },
		Version: "1.0.0",
	})
	backend.onChange = func(value string) {
		_, _ = store.HandleBackendChange(value)
	}
	return store
}

func testPresets() []entities.Preset {
	return []entities.Preset{
		{ID: "p-1", Name: "Reading", Shortcut: "<Super>1", Day: entities.ColorSetting{Temp: 4800, Brightness: 90}, Night: entities.ColorSetting{Temp: 3000, Brightness: 60}},
		{ID: "p-2", Name: "Movie", Day: entities.ColorSetting{Temp: 6000, Brightness: 80}, Night: entities.ColorSetting{Temp: 2700, Brightness: 50}},
	}
}

func TestStore_Load(t *testing.T) {
	t.Run("missing file yields defaults and seeds the backend", func(t *testing.T) {
		file := &fakeFile{}
		backend := newFakeBackend()
		store := newTestStore(file, backend)

		cfg, err := store.Load()
		require.NoError(t, err)

		expected := entities.DefaultConfiguration()
		expected.Version = "1.0.0"
		assert.Equal(t, expected, cfg)
		assert.Equal(t, "[]", backend.values[entities.SettingKeyPresets])
		assert.Equal(t, 0, file.writes)
	})

	t.Run("backend presets win over the file", func(t *testing.T) {
		saved := sampleConfiguration()
		doc, err := Export(saved, fixedNow)
		require.NoError(t, err)

		file := &fakeFile{data: doc.Data, exists: true}
		backend := newFakeBackend()
		backend.values[entities.SettingKeyPresets] = EncodePresets(testPresets())
		store := newTestStore(file, backend)

		cfg, err := store.Load()
		require.NoError(t, err)

		assert.Equal(t, saved.Day, cfg.Day)
		assert.Equal(t, testPresets(), cfg.Presets)
		assert.Equal(t, 0, backend.writes)
	})

	t.Run("file presets are pushed to an empty backend", func(t *testing.T) {
		saved := sampleConfiguration()
		doc, err := Export(saved, fixedNow)
		require.NoError(t, err)

		file := &fakeFile{data: doc.Data, exists: true}
		backend := newFakeBackend()
		store := newTestStore(file, backend)

		cfg, err := store.Load()
		require.NoError(t, err)

		assert.Equal(t, saved.Presets, cfg.Presets)
		assert.Equal(t, 1, backend.writes)
		assert.Equal(t, EncodePresets(saved.Presets), backend.values[entities.SettingKeyPresets])
	})

	t.Run("corrupt file falls back to defaults", func(t *testing.T) {
		file := &fakeFile{data: []byte("{not json"), exists: true}
		store := newTestStore(file, newFakeBackend())

		cfg, err := store.Load()

		assert.ErrorIs(t, err, ErrInvalidFormat)
		assert.Equal(t, entities.DefaultDay, cfg.Day)
	})
}

func TestStore_Save(t *testing.T) {
	t.Run("stamps lastSaved and always rewrites the file", func(t *testing.T) {
		file := &fakeFile{}
		backend := newFakeBackend()
		store := newTestStore(file, backend)
		_, _ = store.Load()

		cfg := store.Current()
		cfg.Enabled = true
		require.NoError(t, store.Save(cfg))
		require.NoError(t, store.Save(cfg))

		assert.Equal(t, 2, file.writes)
		assert.Contains(t, string(file.data), `"lastSaved": "2026-10-15T09:00:00Z"`)
		assert.True(t, store.Current().Enabled)
		assert.Equal(t, fixedNow, store.Current().SavedAt)
	})

	t.Run("backend is written only when presets differ", func(t *testing.T) {
		file := &fakeFile{}
		backend := newFakeBackend()
		store := newTestStore(file, backend)
		_, _ = store.Load()
		backend.writes = 0

		cfg := store.Current()
		cfg.Day.Temp = 5000
		require.NoError(t, store.Save(cfg))
		assert.Equal(t, 0, backend.writes)

		cfg.Presets = testPresets()
		require.NoError(t, store.Save(cfg))
		require.NoError(t, store.Save(cfg))
		assert.Equal(t, 1, backend.writes)
	})

	t.Run("assigns ids to new presets", func(t *testing.T) {
		store := newTestStore(&fakeFile{}, newFakeBackend())
		_, _ = store.Load()

		cfg := store.Current()
		cfg.Presets = []entities.Preset{{Name: "No id", Day: entities.DefaultDay, Night: entities.DefaultNight}}
		require.NoError(t, store.Save(cfg))

		assert.NotEmpty(t, store.Current().Presets[0].ID)
	})

	t.Run("write failure keeps the in-memory configuration", func(t *testing.T) {
		file := &fakeFile{writeErr: errors.New("disk full")}
		store := newTestStore(file, newFakeBackend())
		_, _ = store.Load()

		cfg := store.Current()
		cfg.Night.Temp = 2900
		err := store.Save(cfg)

		assert.ErrorIs(t, err, ErrIO)
		assert.Equal(t, 2900, store.Current().Night.Temp)
	})
}

func TestStore_Convergence(t *testing.T) {
	file := &fakeFile{}
	backend := newFakeBackend()
	store := newTestStore(file, backend)
	_, _ = store.Load()
	file.writes, backend.writes = 0, 0

	cfg := store.Current()
	cfg.Presets = testPresets()
	require.NoError(t, store.Save(cfg))

	// The backend echoed the write synchronously; now it delivers the same value
	// again (e.g. a poll) and the file watcher reports the store's own write.
	changed, err := store.HandleBackendChange(backend.values[entities.SettingKeyPresets])
	require.NoError(t, err)
	assert.False(t, changed)

	changed, err = store.HandleFileChange()
	require.NoError(t, err)
	assert.False(t, changed)

	assert.Equal(t, 1, file.writes)
	assert.Equal(t, 1, backend.writes)
}

func TestStore_HandleBackendChange(t *testing.T) {
	t.Run("adopts new presets and rewrites the file only", func(t *testing.T) {
		file := &fakeFile{}
		backend := newFakeBackend()
		store := newTestStore(file, backend)
		_, _ = store.Load()
		file.writes, backend.writes = 0, 0

		value := EncodePresets(testPresets())
		backend.values[entities.SettingKeyPresets] = value

		changed, err := store.HandleBackendChange(value)
		require.NoError(t, err)

		assert.True(t, changed)
		assert.Equal(t, testPresets(), store.Current().Presets)
		assert.Equal(t, 1, file.writes)
		assert.Equal(t, 0, backend.writes)
	})

	t.Run("rewrites a backend that moved on since the notification", func(t *testing.T) {
		file := &fakeFile{}
		backend := newFakeBackend()
		store := newTestStore(file, backend)
		_, _ = store.Load()

		delivered := EncodePresets(testPresets())
		backend.values[entities.SettingKeyPresets] = `[{"id":"z","name":"Later"}]`
		backend.writes = 0

		changed, err := store.HandleBackendChange(delivered)
		require.NoError(t, err)

		assert.True(t, changed)
		assert.Equal(t, testPresets(), store.Current().Presets)
		assert.Equal(t, 1, backend.writes)
		assert.Equal(t, delivered, backend.values[entities.SettingKeyPresets])
	})

	t.Run("accepts a JSON string holding the list", func(t *testing.T) {
		store := newTestStore(&fakeFile{}, newFakeBackend())
		_, _ = store.Load()

		changed, err := store.HandleBackendChange(`"[{\"id\":\"x\",\"name\":\"Quoted\"}]"`)
		require.NoError(t, err)

		assert.True(t, changed)
		assert.Equal(t, "Quoted", store.Current().Presets[0].Name)
	})

	t.Run("invalid value is reported and ignored", func(t *testing.T) {
		store := newTestStore(&fakeFile{}, newFakeBackend())
		_, _ = store.Load()

		changed, err := store.HandleBackendChange(`{broken`)

		assert.ErrorIs(t, err, ErrInvalidFormat)
		assert.False(t, changed)
		assert.Empty(t, store.Current().Presets)
	})
}

func TestStore_HandleFileChange(t *testing.T) {
	t.Run("adopts an external edit and syncs presets", func(t *testing.T) {
		file := &fakeFile{}
		backend := newFakeBackend()
		store := newTestStore(file, backend)
		_, _ = store.Load()
		file.writes, backend.writes = 0, 0

		edited := store.Current()
		edited.Night.Temp = 2500
		edited.Presets = testPresets()
		doc, err := Export(edited, fixedNow)
		require.NoError(t, err)
		file.data, file.exists = doc.Data, true

		changed, err := store.HandleFileChange()
		require.NoError(t, err)

		assert.True(t, changed)
		assert.Equal(t, 2500, store.Current().Night.Temp)
		assert.Equal(t, 0, file.writes)
		assert.Equal(t, 1, backend.writes)
	})

	t.Run("metadata-only edits are not changes", func(t *testing.T) {
		file := &fakeFile{}
		store := newTestStore(file, newFakeBackend())
		_, _ = store.Load()
		require.NoError(t, store.Save(store.Current()))

		doc, err := Export(store.Current(), fixedNow.Add(time.Hour))
		require.NoError(t, err)
		file.data = doc.Data

		changed, err := store.HandleFileChange()
		require.NoError(t, err)
		assert.False(t, changed)
	})

	t.Run("invalid edit leaves the configuration untouched", func(t *testing.T) {
		file := &fakeFile{}
		store := newTestStore(file, newFakeBackend())
		_, _ = store.Load()
		before := store.Current()

		file.data, file.exists = []byte(`{"enabled": true}`), true

		changed, err := store.HandleFileChange()

		assert.ErrorIs(t, err, ErrInvalidFormat)
		assert.False(t, changed)
		assert.Equal(t, before, store.Current())
	})
}

func TestStore_ImportBytes(t *testing.T) {
	t.Run("imports, saves and snapshots the previous configuration", func(t *testing.T) {
		auditDir := t.TempDir()
		file := &fakeFile{}
		store := New(file, newFakeBackend(), Options{
			Now:     func() time.Time { return fixedNow },
			Auditor: audit.NewAuditor(auditDir),
		})
		_, _ = store.Load()

		cfg, err := store.ImportBytes([]byte(`{"day-presets":[{"name":"Warm","temp":3000,"brightness":80}]}`), "test")
		require.NoError(t, err)

		require.Len(t, cfg.Presets, 1)
		assert.Equal(t, "Warm (Day)", cfg.Presets[0].Name)
		assert.Equal(t, 1, file.writes)

		snapshots, err := os.ReadDir(auditDir)
		require.NoError(t, err)
		assert.Len(t, snapshots, 1)
	})

	t.Run("invalid document leaves everything untouched", func(t *testing.T) {
		file := &fakeFile{}
		backend := newFakeBackend()
		store := newTestStore(file, backend)
		_, _ = store.Load()
		before := store.Current()
		backend.writes = 0

		cfg, err := store.ImportBytes([]byte(`{"night-temp": 3000}`), "test")

		assert.ErrorIs(t, err, ErrInvalidFormat)
		assert.Equal(t, before, cfg)
		assert.Equal(t, before, store.Current())
		assert.Equal(t, 0, file.writes)
		assert.Equal(t, 0, backend.writes)
	})

	t.Run("missing import file is an I/O failure", func(t *testing.T) {
		store := newTestStore(&fakeFile{}, newFakeBackend())
		_, _ = store.Load()

		_, err := store.ImportFile(filepath.Join(t.TempDir(), "missing.json"))

		assert.ErrorIs(t, err, ErrIO)
	})
}

func TestStore_ExportTo(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "Downloads")
	store := newTestStore(&fakeFile{}, newFakeBackend())
	_, _ = store.Load()

	path, err := store.ExportTo(dir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "redshift-manager-applet-config-2026-10-15T09-00-00.json"), path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"exportDate": "2026-10-15T09:00:00Z"`)

	cfg, err := Import(data, entities.DefaultConfiguration())
	require.NoError(t, err)
	assert.Equal(t, store.Current().Day, cfg.Day)
}
