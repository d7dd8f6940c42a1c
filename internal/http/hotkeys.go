package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/redshift-manager/internal/hotkeys"
)

// HotkeysController lets an external key daemon list and fire bindings.
type HotkeysController struct {
	registry *hotkeys.MemoryRegistry
}

func NewHotkeysController(registry *hotkeys.MemoryRegistry) *HotkeysController {
	return &HotkeysController{registry: registry}
}

// ListBindings handles GET /api/hotkeys
func (hc *HotkeysController) ListBindings(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"bindings": hc.registry.Bindings()})
}

// Trigger handles POST /api/hotkeys/:id/trigger
// The id may also be the shortcut spec itself, e.g. "<Super>F9".
func (hc *HotkeysController) Trigger(c *gin.Context) {
	id := c.Param("id")
	if err := hc.registry.Trigger(id); err != nil {
		respondAgentError(c, err, "trigger hotkey")
		return
	}
	respondAccepted(c, "hotkey triggered", gin.H{"id": id})
}
