// Package settingsstore is the external key/value settings backend. Values
// live in the settings table so other processes may edit them; Poll picks up
// such edits and delivers them to subscribers.
package settingsstore

import (
	"errors"
	"log"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"gorm.io/gorm"

	"github.com/mrlokans/redshift-manager/internal/database"
	"github.com/mrlokans/redshift-manager/internal/entities"
)

type subscription struct {
	id int
	fn func(value string)
}

// Priority for resolved settings: database > environment > default
type SettingsStore struct {
	db *database.Database

	// writeMu orders SetValue against Poll so a poll never reports a value
	// older than the last one written here
	writeMu sync.Mutex

	mu     sync.Mutex
	subs   map[string][]subscription
	seen   map[string]string
	nextID int
}

func New(db *database.Database) *SettingsStore {
	return &SettingsStore{
		db:   db,
		subs: make(map[string][]subscription),
		seen: make(map[string]string),
	}
}

// GetValue returns the stored value for key. ok is false when the key is absent.
func (s *SettingsStore) GetValue(key string) (value string, ok bool, err error) {
	setting, err := s.db.GetSetting(key)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return setting.Value, true, nil
}

// SetValue stores value. Subscribers are not notified of the store's own
// writes; Poll reports only values written by someone else.
func (s *SettingsStore) SetValue(key, value string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.db.SetSetting(key, value); err != nil {
		return err
	}

	s.mu.Lock()
	s.seen[key] = value
	s.mu.Unlock()
	return nil
}

// Subscribe registers fn for changes of key and returns a function that removes it.
func (s *SettingsStore) Subscribe(key string, fn func(value string)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID
	s.subs[key] = append(s.subs[key], subscription{id: id, fn: fn})

	if _, ok := s.seen[key]; !ok {
		if value, present, err := s.GetValue(key); err == nil && present {
			s.seen[key] = value
		}
	}

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		subs := s.subs[key]
		for i, sub := range subs {
			if sub.id == id {
				s.subs[key] = append(subs[:i:i], subs[i+1:]...)
				break
			}
		}
	}
}

// Poll re-reads every subscribed key and notifies subscribers of values that
// changed since they were last seen, in key order. Returns the keys that changed.
func (s *SettingsStore) Poll() ([]string, error) {
	s.mu.Lock()
	keys := make([]string, 0, len(s.subs))
	for key, subs := range s.subs {
		if len(subs) > 0 {
			keys = append(keys, key)
		}
	}
	s.mu.Unlock()
	sort.Strings(keys)

	type change struct {
		value string
		subs  []subscription
	}

	var (
		changed []string
		pending []change
		pollErr error
	)

	s.writeMu.Lock()
	for _, key := range keys {
		value, ok, err := s.GetValue(key)
		if err != nil {
			pollErr = err
			break
		}
		if !ok {
			continue
		}

		s.mu.Lock()
		prev, known := s.seen[key]
		if known && prev == value {
			s.mu.Unlock()
			continue
		}
		s.seen[key] = value
		subs := append([]subscription(nil), s.subs[key]...)
		s.mu.Unlock()

		log.Printf("Settings: %q changed externally", key)
		changed = append(changed, key)
		pending = append(pending, change{value: value, subs: subs})
	}
	s.writeMu.Unlock()

	// Subscribers may write back; they run without writeMu held.
	for _, c := range pending {
		for _, sub := range c.subs {
			sub.fn(c.value)
		}
	}
	return changed, pollErr
}

// GetExportDir returns the directory exports are written to (database > EXPORT_DIR > ~/Downloads).
func (s *SettingsStore) GetExportDir() string {
	setting, err := s.db.GetSetting(entities.SettingKeyExportDir)
	if err == nil && setting.Value != "" {
		return setting.Value
	}

	if envPath := os.Getenv("EXPORT_DIR"); envPath != "" {
		return envPath
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, "Downloads")
}

func (s *SettingsStore) SetExportDir(path string) error {
	return s.db.SetSetting(entities.SettingKeyExportDir, path)
}

func (s *SettingsStore) GetExportDirSource() string {
	setting, err := s.db.GetSetting(entities.SettingKeyExportDir)
	if err == nil && setting.Value != "" {
		return "database"
	}

	if envPath := os.Getenv("EXPORT_DIR"); envPath != "" {
		return "environment"
	}

	return "default"
}

type ExportDirInfo struct {
	Path   string `json:"path"`
	Source string `json:"source"` // "database", "environment", or "default"
}

func (s *SettingsStore) GetExportDirInfo() ExportDirInfo {
	return ExportDirInfo{
		Path:   s.GetExportDir(),
		Source: s.GetExportDirSource(),
	}
}

func (s *SettingsStore) ClearExportDir() error {
	err := s.db.DeleteSetting(entities.SettingKeyExportDir)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	return err
}
