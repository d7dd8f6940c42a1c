package audit

import (
	"encoding/json"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/redshift-manager/internal/database/audit"
	"github.com/mrlokans/redshift-manager/internal/entities"
)

// Service provides high-level audit logging functionality.
// A nil *Service discards every event.
type Service struct {
	repo *audit.Repository
}

// NewService creates a new audit service.
func NewService(repo *audit.Repository) *Service {
	return &Service{repo: repo}
}

// Log records a generic audit event.
func (s *Service) Log(event *entities.AuditEvent) error {
	if s == nil {
		return nil
	}
	return s.repo.LogEvent(event)
}

// LogAsync records an audit event in the background (non-blocking).
func (s *Service) LogAsync(event *entities.AuditEvent) {
	if s == nil {
		return
	}
	go func() {
		if err := s.repo.LogEvent(event); err != nil {
			log.Printf("Failed to log audit event: %v", err)
		}
	}()
}

// LogImport records a configuration import.
func (s *Service) LogImport(source, snapshot string, presetsCount int, err error) {
	event := &entities.AuditEvent{
		EventType:   entities.AuditEventImport,
		Action:      "config_import",
		Description: "Imported configuration from " + source,
		Status:      entities.AuditStatusSuccess,
	}

	metadata := map[string]any{
		"presets_count": presetsCount,
		"snapshot":      snapshot,
	}
	if mdBytes, e := json.Marshal(metadata); e == nil {
		event.Metadata = string(mdBytes)
	}

	s.logResult(event, err)
}

// LogExport records a configuration export.
func (s *Service) LogExport(path string, err error) {
	event := &entities.AuditEvent{
		EventType:   entities.AuditEventExport,
		Action:      "config_export",
		Description: "Exported configuration to " + path,
		Status:      entities.AuditStatusSuccess,
	}
	s.logResult(event, err)
}

// LogPreset records a preset operation such as "preset_create" or "preset_apply".
func (s *Service) LogPreset(action, description string, err error) {
	event := &entities.AuditEvent{
		EventType:   entities.AuditEventPreset,
		Action:      action,
		Description: description,
		Status:      entities.AuditStatusSuccess,
	}
	s.logResult(event, err)
}

// LogSettings records a settings change event.
func (s *Service) LogSettings(action, description string) {
	event := &entities.AuditEvent{
		EventType:   entities.AuditEventSettings,
		Action:      action,
		Description: description,
		Status:      entities.AuditStatusSuccess,
	}

	s.LogAsync(event)
}

// LogLocation records the outcome of a geolocation lookup.
func (s *Service) LogLocation(description string, err error) {
	event := &entities.AuditEvent{
		EventType:   entities.AuditEventLocation,
		Action:      "location_lookup",
		Description: description,
		Status:      entities.AuditStatusSuccess,
	}
	s.logResult(event, err)
}

func (s *Service) logResult(event *entities.AuditEvent, err error) {
	if err != nil {
		event.Status = entities.AuditStatusFailed
		event.ErrorMsg = truncate(err.Error(), 500)
	}
	s.LogAsync(event)
}

// GetEvents retrieves paginated audit events.
func (s *Service) GetEvents(limit, offset int) ([]entities.AuditEvent, int64, error) {
	if s == nil {
		return []entities.AuditEvent{}, 0, nil
	}
	return s.repo.GetEvents(limit, offset)
}

// GetEventsByType retrieves audit events filtered by type.
func (s *Service) GetEventsByType(eventType entities.AuditEventType, limit, offset int) ([]entities.AuditEvent, int64, error) {
	if s == nil {
		return []entities.AuditEvent{}, 0, nil
	}
	return s.repo.GetEventsByType(eventType, limit, offset)
}

// GetEvent retrieves a single audit event.
func (s *Service) GetEvent(id uint) (*entities.AuditEvent, error) {
	if s == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.repo.GetEventByID(id)
}

// GetEventsSince retrieves every event recorded after since, newest first.
func (s *Service) GetEventsSince(since time.Time) ([]entities.AuditEvent, error) {
	if s == nil {
		return []entities.AuditEvent{}, nil
	}
	return s.repo.GetRecentEvents(since)
}

// DeleteOldEvents removes events older than the specified duration.
func (s *Service) DeleteOldEvents(retention time.Duration) (int64, error) {
	if s == nil {
		return 0, nil
	}
	cutoff := time.Now().Add(-retention)
	return s.repo.DeleteOldEvents(cutoff)
}

// truncate shortens a string to max length.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
