package config

// Default locations, relative to the user's home directory.
const (
	// DefaultConfigFile is the persisted configuration document.
	DefaultConfigFile = ".config/redshift-manager-applet/config.json"

	// DefaultDatabasePath holds the settings backend and the audit log.
	DefaultDatabasePath = ".local/share/redshift-manager/state.db"

	// DefaultAuditDir receives raw snapshots of imported documents.
	DefaultAuditDir = ".local/share/redshift-manager/audit"
)
