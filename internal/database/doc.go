// Package database provides the data access layer for the agent.
//
// The sqlite database plays the role of the external settings backend: the
// preset list is mirrored into the settings table under the "presets" key so
// that other processes can read and edit it. It also holds the audit trail of
// configuration changes.
//
//	database/
//	├── database.go      # Connection setup and migrations
//	├── settings/        # Key/value settings rows
//	└── audit/           # Audit events
//
// Each sub-package provides a Repository type:
//
//	db, err := database.NewDatabase("./redshift-manager.db")
//	settingsRepo := settings.NewRepository(db.DB)
//	auditRepo := audit.NewRepository(db.DB)
package database
