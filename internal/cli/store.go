package cli

import (
	"fmt"
	"log"
	"path/filepath"

	"github.com/mrlokans/redshift-manager/internal/audit"
	"github.com/mrlokans/redshift-manager/internal/configstore"
	"github.com/mrlokans/redshift-manager/internal/database"
	auditRepo "github.com/mrlokans/redshift-manager/internal/database/audit"
	"github.com/mrlokans/redshift-manager/internal/settingsstore"
)

// offlineStore is a configuration store opened outside the agent. A running
// agent picks up its writes through the file watcher and the backend poll.
type offlineStore struct {
	store    *configstore.Store
	settings *settingsstore.SettingsStore
	db       *database.Database
}

// openStore loads the configuration from configFile, taking presets from the
// settings database at dbPath. An empty dbPath uses the file alone.
func openStore(configFile, dbPath, auditDir string) (*offlineStore, error) {
	out := &offlineStore{}
	opts := configstore.Options{}

	var backend configstore.Backend
	if dbPath != "" {
		db, err := database.NewDatabase(dbPath)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		out.db = db
		out.settings = settingsstore.New(db)
		backend = out.settings
		opts.Events = audit.NewService(auditRepo.NewRepository(db.DB))
	}
	if auditDir != "" {
		opts.Auditor = audit.NewAuditor(auditDir)
	}

	out.store = configstore.New(configstore.NewFileStore(filepath.Clean(configFile)), backend, opts)
	if _, err := out.store.Load(); err != nil {
		log.Printf("CLI: configuration loaded with errors: %v", err)
	}
	return out, nil
}

func (s *offlineStore) Close() {
	if s.db != nil {
		_ = s.db.Close()
	}
}
