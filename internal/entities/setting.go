package entities

import (
	"time"
)

// Setting is one key/value row of the external settings backend.
type Setting struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Key       string    `gorm:"uniqueIndex;size:100" json:"key"`
	Value     string    `gorm:"type:text" json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Setting) TableName() string {
	return "settings"
}

// Known setting keys
const (
	// SettingKeyPresets holds the preset list as a JSON document.
	SettingKeyPresets = "presets"
	// SettingKeyExportDir overrides where exported configurations are written.
	SettingKeyExportDir = "export_dir"
)
