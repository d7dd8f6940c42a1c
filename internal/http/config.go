package http

import (
	"github.com/mrlokans/redshift-manager/internal/agent"
	"github.com/mrlokans/redshift-manager/internal/audit"
	"github.com/mrlokans/redshift-manager/internal/database"
	"github.com/mrlokans/redshift-manager/internal/hotkeys"
	"github.com/mrlokans/redshift-manager/internal/settingsstore"
	"github.com/mrlokans/redshift-manager/internal/tasks"
)

// RouterConfig contains all dependencies needed to create the HTTP router.
type RouterConfig struct {
	Agent    *agent.Agent
	Registry *hotkeys.MemoryRegistry
	Database *database.Database

	// Optional
	SettingsStore *settingsstore.SettingsStore
	AuditService  *audit.Service
	TaskClient    *tasks.Client

	AuditRetentionDays int
	Version            string
}
