package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/redshift-manager/internal/configstore"
	"github.com/mrlokans/redshift-manager/internal/entities"
)

const legacyDocument = `{
	"day-temp": 5800,
	"day-brightness": 95,
	"day-presets": [{"name": "Reading", "temp": 4500, "brightness": 80}],
	"night-presets": [{"name": "Reading", "temp": 3000, "brightness": 60}]
}`

func TestSunTimesCommand(t *testing.T) {
	t.Run("explicit coordinates", func(t *testing.T) {
		var out bytes.Buffer
		cmd := NewSunTimesCommand()
		require.NoError(t, cmd.ParseFlags([]string{"-lat", "51.48", "-lon", "0", "-date", "2026-06-21"}))
		cmd.Out = &out

		require.NoError(t, cmd.Run())
		assert.Contains(t, out.String(), "Date:     2026-06-21")
		assert.Contains(t, out.String(), "Sunrise:")
		assert.Contains(t, out.String(), "Night:")
	})

	t.Run("out of range", func(t *testing.T) {
		cmd := NewSunTimesCommand()
		assert.Error(t, cmd.ParseFlags([]string{"-lat", "95"}))
	})

	t.Run("no configured location", func(t *testing.T) {
		cmd := NewSunTimesCommand()
		require.NoError(t, cmd.ParseFlags([]string{"-config", filepath.Join(t.TempDir(), "missing.json")}))
		cmd.Out = &bytes.Buffer{}

		assert.ErrorContains(t, cmd.Run(), "no location configured")
	})

	t.Run("polar day", func(t *testing.T) {
		cmd := NewSunTimesCommand()
		require.NoError(t, cmd.ParseFlags([]string{"-lat", "80", "-lon", "0", "-date", "2026-06-21"}))
		cmd.Out = &bytes.Buffer{}

		assert.Error(t, cmd.Run())
	})
}

func TestImportCommand(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "legacy.json")
	require.NoError(t, os.WriteFile(source, []byte(legacyDocument), 0o644))
	configFile := filepath.Join(dir, "config", "config.json")
	dbPath := filepath.Join(dir, "state.db")

	t.Run("requires a file", func(t *testing.T) {
		assert.Error(t, NewImportCommand().ParseFlags(nil))
	})

	t.Run("dry run writes nothing", func(t *testing.T) {
		var out bytes.Buffer
		cmd := NewImportCommand()
		require.NoError(t, cmd.ParseFlags([]string{"-file", source, "-config", configFile, "-db", "", "-dry-run"}))
		cmd.Out = &out

		require.NoError(t, cmd.Run())
		assert.Contains(t, out.String(), "DRY RUN")
		assert.Contains(t, out.String(), "Presets: 2")
		assert.NoFileExists(t, configFile)
	})

	t.Run("imports into file and database", func(t *testing.T) {
		var out bytes.Buffer
		cmd := NewImportCommand()
		require.NoError(t, cmd.ParseFlags([]string{
			"-file", source,
			"-config", configFile,
			"-db", dbPath,
			"-audit-dir", filepath.Join(dir, "audit"),
		}))
		cmd.Out = &out

		require.NoError(t, cmd.Run())
		assert.Contains(t, out.String(), "Configuration imported successfully")
		assert.Contains(t, out.String(), "Day:     5800K @ 95%")

		raw, err := os.ReadFile(configFile)
		require.NoError(t, err)
		cfg, err := configstore.Import(raw, entities.DefaultConfiguration())
		require.NoError(t, err)
		require.Len(t, cfg.Presets, 2)
		assert.Equal(t, "Reading (Day)", cfg.Presets[0].Name)
		assert.Equal(t, entities.ColorSetting{Temp: 4500, Brightness: 80}, cfg.Presets[0].Day)
		assert.Equal(t, "Reading (Night)", cfg.Presets[1].Name)
		assert.Equal(t, entities.ColorSetting{Temp: 3000, Brightness: 60}, cfg.Presets[1].Night)
	})

	t.Run("invalid document", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{"night-temp": 3000}`), 0o644))

		cmd := NewImportCommand()
		require.NoError(t, cmd.ParseFlags([]string{"-file", bad, "-config", configFile, "-db", ""}))
		cmd.Out = &bytes.Buffer{}

		assert.ErrorIs(t, cmd.Run(), configstore.ErrInvalidFormat)
	})

	t.Run("export round trip", func(t *testing.T) {
		var out bytes.Buffer
		cmd := NewExportCommand()
		require.NoError(t, cmd.ParseFlags([]string{"-config", configFile, "-db", dbPath, "-stdout"}))
		cmd.Out = &out

		require.NoError(t, cmd.Run())
		cfg, err := configstore.Import(out.Bytes(), entities.DefaultConfiguration())
		require.NoError(t, err)
		assert.Equal(t, 5800, cfg.Day.Temp)
		assert.Len(t, cfg.Presets, 2)
	})
}

func TestExportCommand_WritesFile(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "exports")

	var out bytes.Buffer
	cmd := NewExportCommand()
	require.NoError(t, cmd.ParseFlags([]string{
		"-config", filepath.Join(dir, "config.json"),
		"-db", "",
		"-dir", target,
	}))
	cmd.Out = &out

	require.NoError(t, cmd.Run())
	assert.Contains(t, out.String(), "Configuration exported to "+target)

	entries, err := os.ReadDir(target)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Regexp(t, `^redshift-manager-applet-config-.*\.json$`, entries[0].Name())
}
