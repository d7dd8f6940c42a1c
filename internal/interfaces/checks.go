package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/redshift-manager/internal/activator"
	"github.com/mrlokans/redshift-manager/internal/agent"
	"github.com/mrlokans/redshift-manager/internal/audit"
	"github.com/mrlokans/redshift-manager/internal/command"
	"github.com/mrlokans/redshift-manager/internal/configstore"
	"github.com/mrlokans/redshift-manager/internal/geolocation"
	"github.com/mrlokans/redshift-manager/internal/hotkeys"
	"github.com/mrlokans/redshift-manager/internal/notify"
	"github.com/mrlokans/redshift-manager/internal/presets"
	"github.com/mrlokans/redshift-manager/internal/settingsstore"
	"github.com/mrlokans/redshift-manager/internal/status"
	"github.com/mrlokans/redshift-manager/internal/tasks"
)

// =============================================================================
// Configuration Storage
// =============================================================================

var _ configstore.FileAdapter = (*configstore.FileStore)(nil)
var _ configstore.Backend = (*settingsstore.SettingsStore)(nil)
var _ presets.Store = (*configstore.Store)(nil)

// =============================================================================
// Agent Collaborators
// =============================================================================

var _ agent.SettingsBackend = (*settingsstore.SettingsStore)(nil)
var _ agent.FileWatcher = (*configstore.FileStore)(nil)
var _ agent.TaskQueue = (*tasks.Client)(nil)
var _ presets.Clock = presets.SystemClock{}
var _ hotkeys.Registry = (*hotkeys.MemoryRegistry)(nil)

// =============================================================================
// Side Effects
// =============================================================================

var _ command.Runner = command.ExecRunner{}
var _ activator.Activator = (*activator.Redshift)(nil)
var _ notify.Notifier = (*notify.Desktop)(nil)
var _ notify.Notifier = notify.Log{}
var _ status.Publisher = (*status.Board)(nil)

// =============================================================================
// Background Tasks
// =============================================================================

var _ geolocation.Locator = (*geolocation.Client)(nil)
var _ tasks.LocationSink = (*agent.Agent)(nil)
var _ tasks.AuditEventCleaner = (*audit.Service)(nil)
