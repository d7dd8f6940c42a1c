package database

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mrlokans/redshift-manager/internal/entities"
)

func setupTestDB(t *testing.T) (*Database, func()) {
	t.Helper()
	dbPath := "./test_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"
	db, err := NewDatabase(dbPath)
	require.NoError(t, err)

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}
	return db, cleanup
}

func TestNewDatabase(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	assert.True(t, db.DB.Migrator().HasTable(&entities.Setting{}))
	assert.True(t, db.DB.Migrator().HasTable(&entities.AuditEvent{}))
}

func TestSettings(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	t.Run("missing key returns record not found", func(t *testing.T) {
		_, err := db.GetSetting(entities.SettingKeyPresets)
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})

	t.Run("set then get", func(t *testing.T) {
		require.NoError(t, db.SetSetting(entities.SettingKeyPresets, `[]`))

		setting, err := db.GetSetting(entities.SettingKeyPresets)
		require.NoError(t, err)
		assert.Equal(t, `[]`, setting.Value)
	})

	t.Run("set overwrites", func(t *testing.T) {
		require.NoError(t, db.SetSetting(entities.SettingKeyPresets, `[{"name":"A"}]`))

		setting, err := db.GetSetting(entities.SettingKeyPresets)
		require.NoError(t, err)
		assert.Equal(t, `[{"name":"A"}]`, setting.Value)

		var count int64
		db.DB.Model(&entities.Setting{}).Count(&count)
		assert.Equal(t, int64(1), count)
	})

	t.Run("delete removes the row", func(t *testing.T) {
		require.NoError(t, db.DeleteSetting(entities.SettingKeyPresets))

		_, err := db.GetSetting(entities.SettingKeyPresets)
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})
}
