// Package interfaces documents the seams of the agent and holds
// compile-time checks that the concrete types satisfy them.
//
// # Interface Categories
//
// ## Configuration Storage
//
//   - FileAdapter: reads and writes the configuration document (internal/configstore/store.go)
//   - Backend: key/value settings store replicating the presets (internal/configstore/store.go)
//   - presets.Store: persistence used by the preset manager (internal/presets/manager.go)
//
// ## Agent Collaborators
//
//   - SettingsBackend: change subscription and polling of the settings store (internal/agent/agent.go)
//   - FileWatcher: configuration file change notifications (internal/agent/agent.go)
//   - TaskQueue: background task submission (internal/agent/agent.go)
//   - Clock: wall clock and timers for the preset debounce (internal/presets/clock.go)
//   - Registry: global shortcut registration (internal/hotkeys/registry.go)
//
// ## Side Effects
//
//   - Runner: external command execution (internal/command/command.go)
//   - Activator: applies or resets the display colour (internal/activator/activator.go)
//   - Notifier: desktop notifications (internal/notify/notify.go)
//   - Publisher: status text and tooltip (internal/status/status.go)
//
// ## Background Tasks
//
//   - Locator: IP based geolocation (internal/geolocation/client.go)
//   - LocationSink: receives lookup results (internal/tasks/locate.go)
//   - AuditEventCleaner: audit retention (internal/tasks/cleanup_audit.go)
//
// # Adding a New Activator
//
// To drive a different colour tool (e.g. gammastep):
//
//  1. Implement Activator in internal/activator/
//
//     type Gammastep struct {
//         binary string
//         async  *command.Async
//     }
//
//     func (g *Gammastep) Activate(temp int, brightness float64)
//     func (g *Gammastep) Deactivate()
//
//     var _ Activator = (*Gammastep)(nil)
//
//  2. Select it in entrypoint.go
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// See checks.go for the current list.
package interfaces
