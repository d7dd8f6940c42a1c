package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mrlokans/redshift-manager/internal/audit"
	"github.com/mrlokans/redshift-manager/internal/entities"
)

type AuditController struct {
	auditService *audit.Service
}

func NewAuditController(auditService *audit.Service) *AuditController {
	return &AuditController{
		auditService: auditService,
	}
}

// GetAuditEvents returns paginated audit events as JSON
// GET /api/events?page=1&limit=25&type=preset
// With ?since=<RFC3339> every newer event is returned unpaginated.
func (ac *AuditController) GetAuditEvents(c *gin.Context) {
	if raw := c.Query("since"); raw != "" {
		since, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			respondBadRequest(c, "since must be an RFC3339 timestamp")
			return
		}
		events, err := ac.auditService.GetEventsSince(since)
		if err != nil {
			respondInternalError(c, err, "load audit events")
			return
		}
		if events == nil {
			events = []entities.AuditEvent{}
		}
		c.JSON(http.StatusOK, gin.H{"data": events, "total": len(events)})
		return
	}

	page, limit := parsePageParams(c, 25, 100)
	offset := (page - 1) * limit

	eventType := c.Query("type")
	if eventType != "" && !isKnownEventType(eventType) {
		respondBadRequest(c, "unknown event type: "+eventType)
		return
	}

	var (
		events []entities.AuditEvent
		total  int64
		err    error
	)
	if eventType != "" {
		events, total, err = ac.auditService.GetEventsByType(entities.AuditEventType(eventType), limit, offset)
	} else {
		events, total, err = ac.auditService.GetEvents(limit, offset)
	}
	if err != nil {
		respondInternalError(c, err, "load audit events")
		return
	}
	if events == nil {
		events = []entities.AuditEvent{}
	}

	totalPages := (int(total) + limit - 1) / limit
	if totalPages < 1 {
		totalPages = 1
	}

	c.JSON(http.StatusOK, PaginatedResponse{
		Data:       events,
		Total:      total,
		Limit:      limit,
		Offset:     offset,
		HasMore:    int64(offset+len(events)) < total,
		TotalPages: totalPages,
	})
}

// GetAuditEvent handles GET /api/events/:id
func (ac *AuditController) GetAuditEvent(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondBadRequest(c, "invalid event id")
		return
	}
	event, err := ac.auditService.GetEvent(uint(id))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		respondNotFound(c, "event")
		return
	}
	if err != nil {
		respondInternalError(c, err, "load audit event")
		return
	}
	c.JSON(http.StatusOK, event)
}

// ListEventTypes handles GET /api/events/types
func (ac *AuditController) ListEventTypes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"event_types": eventTypes()})
}

type EventTypeOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

func eventTypes() []EventTypeOption {
	return []EventTypeOption{
		{Value: string(entities.AuditEventImport), Label: "Import"},
		{Value: string(entities.AuditEventExport), Label: "Export"},
		{Value: string(entities.AuditEventPreset), Label: "Preset"},
		{Value: string(entities.AuditEventSettings), Label: "Settings"},
		{Value: string(entities.AuditEventLocation), Label: "Location"},
	}
}

func isKnownEventType(value string) bool {
	for _, t := range eventTypes() {
		if t.Value == value {
			return true
		}
	}
	return false
}
