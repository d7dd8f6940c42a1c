package http

import (
	"github.com/gin-gonic/gin"
)

// NewRouter creates and configures the HTTP router with all endpoints.
// Uses RouterConfig to receive all dependencies, improving testability
// and reducing parameter count.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(SecurityHeadersMiddleware())
	router.Use(LocalOriginMiddleware())

	health := NewHealthController(cfg.Database, cfg.Agent, cfg.Version)
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	if cfg.Agent == nil {
		return router
	}

	api := router.Group("/api")

	statusController := NewStatusController(cfg.Agent)
	api.GET("/status", statusController.GetStatus)
	api.POST("/toggle", statusController.Toggle)
	api.PUT("/enabled", statusController.SetEnabled)
	api.POST("/reset", statusController.Reset)
	api.POST("/adjust", statusController.Adjust)
	api.GET("/sun", statusController.SunTimes)

	settingsController := NewSettingsController(cfg.Agent, cfg.SettingsStore)
	api.GET("/config", settingsController.GetConfig)
	api.PUT("/config", settingsController.UpdateConfig)
	api.GET("/config/export", settingsController.DownloadExport)
	api.POST("/config/export", settingsController.WriteExport)
	api.POST("/config/import", settingsController.Import)

	if cfg.SettingsStore != nil {
		api.GET("/settings/export-dir", settingsController.GetExportDir)
		api.PUT("/settings/export-dir", settingsController.SetExportDir)
		api.DELETE("/settings/export-dir", settingsController.ClearExportDir)
	}

	presetsController := NewPresetsController(cfg.Agent)
	api.GET("/presets", presetsController.ListPresets)
	api.POST("/presets", presetsController.CreatePreset)
	api.PUT("/presets/:ref", presetsController.UpdatePreset)
	api.DELETE("/presets/:ref", presetsController.DeletePreset)
	api.POST("/presets/:ref/apply", presetsController.ApplyPreset)
	api.PUT("/presets/:ref/shortcut", presetsController.SetShortcut)

	if cfg.Registry != nil {
		hotkeysController := NewHotkeysController(cfg.Registry)
		api.GET("/hotkeys", hotkeysController.ListBindings)
		api.POST("/hotkeys/:id/trigger", hotkeysController.Trigger)
	}

	if cfg.AuditService != nil {
		auditController := NewAuditController(cfg.AuditService)
		api.GET("/events", auditController.GetAuditEvents)
		api.GET("/events/types", auditController.ListEventTypes)
		api.GET("/events/:id", auditController.GetAuditEvent)
	}

	if cfg.TaskClient != nil {
		tasksController := NewTasksController(cfg.TaskClient, cfg.AuditRetentionDays)
		api.GET("/tasks/types", tasksController.ListTaskTypes)
		api.GET("/tasks/:id", tasksController.GetTaskStatus)
		api.POST("/tasks/:type/run", tasksController.RunTask)
	}

	return router
}
